package util

import (
	"testing"
	"time"
)

func TestRelative(t *testing.T) {
	now := time.Date(2024, 1, 2, 18, 4, 0, 0, time.Local)

	if got := Relative("Jan 02 2024, 03:04 PM", now); got != "3 hours ago" {
		t.Fatalf("Relative = %q", got)
	}
	if got := Relative("yesterday-ish", now); got != "yesterday-ish" {
		t.Fatalf("unparseable input changed: %q", got)
	}
	if _, ok := ParseServerTime(""); ok {
		t.Fatal("empty timestamp parsed")
	}
}

func TestOpenBrowserRejectsNonHTTP(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "javascript:alert(1)", "-flag"} {
		if err := OpenBrowser(u); err == nil {
			t.Fatalf("OpenBrowser(%q) succeeded", u)
		}
	}
}
