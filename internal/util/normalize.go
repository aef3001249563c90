package util

import (
	"net/mail"
	"strings"
)

// NormalizeAddress extracts and lowercases an email address from a header
// style value like "Name <User@Example.COM>". Returns "" if it cannot be parsed.
func NormalizeAddress(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr.Address))
}

// SplitRecipients splits a comma separated recipient field, trimming blanks
// and dropping empty entries. Entries that are not parseable addresses are
// kept verbatim so the server can report them.
func SplitRecipients(field string) []string {
	var out []string
	for _, p := range strings.Split(field, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if a := NormalizeAddress(p); a != "" {
			p = a
		}
		out = append(out, p)
	}
	return out
}

// JoinRecipients renders a recipient list the way the mailbox rows show it.
func JoinRecipients(rs []string) string {
	return strings.Join(rs, ", ")
}
