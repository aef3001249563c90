package util

import (
	"reflect"
	"testing"
)

func TestNormalizeAddress_Basic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`Name <User@Example.COM>`, "user@example.com"},
		{`"Name" <user+news@Example.com>`, "user+news@example.com"},
		{`  user@EXAMPLE.com `, "user@example.com"},
		{`bad address`, ""},
		{``, ""},
	}
	for _, tc := range tests {
		if got := NormalizeAddress(tc.in); got != tc.want {
			t.Errorf("NormalizeAddress(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitRecipients(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"a@x.com", []string{"a@x.com"}},
		{"A@X.com, Bob <b@y.org>", []string{"a@x.com", "b@y.org"}},
		{"a@x.com,,not-an-email", []string{"a@x.com", "not-an-email"}},
	}
	for _, tc := range tests {
		if got := SplitRecipients(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitRecipients(%q) = %#v; want %#v", tc.in, got, tc.want)
		}
	}
}

func TestJoinRecipients(t *testing.T) {
	if got := JoinRecipients([]string{"a@x.com", "b@x.com"}); got != "a@x.com, b@x.com" {
		t.Fatalf("got %q", got)
	}
}
