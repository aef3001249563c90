package util

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ServerTimeLayout is how both apps format timestamps ("Jan 02 2024, 03:04 PM").
const ServerTimeLayout = "Jan 02 2006, 03:04 PM"

// ParseServerTime parses a server timestamp in the local zone.
func ParseServerTime(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(ServerTimeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Relative renders a server timestamp as "3 hours ago". Unparseable input is
// returned unchanged.
func Relative(s string, now time.Time) string {
	t, ok := ParseServerTime(s)
	if !ok {
		return s
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
