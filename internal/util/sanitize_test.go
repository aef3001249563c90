package util

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"keeps newlines", "a\nb\tc", "a\nb\tc"},
		{"strips csi", "\x1b[31mred\x1b[0m text", "red text"},
		{"strips osc title", "\x1b]0;pwned\x07ok", "ok"},
		{"drops bell and backspace", "a\x07b\x08c", "abc"},
		{"flattens html", "<p>Hi <b>there</b></p><p>bye</p>", "Hi there\nbye\n"},
		{"unescapes entities", "<div>fish &amp; chips</div>", "fish & chips\n"},
		{"drops script", "<script>alert(1)</script>safe", "safe"},
		{"comparison is not markup", "a < b and c > d", "a < b and c > d"},
	}
	for _, tc := range tests {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("%s: Sanitize(%q) = %q; want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestOneLine(t *testing.T) {
	if got := OneLine("  first\nsecond\t third  "); got != "first second third" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdefgh", 5); got != "abcd…" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abc", 5); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
