package util

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
)

var (
	tagPattern = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	blockTags  = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|tr|li|h[1-6])>`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
	spaceRuns  = regexp.MustCompile(`\s+`)

	strict = bluemonday.StrictPolicy()
)

// Sanitize turns server-provided text into something safe to print on a
// terminal: markup is flattened to plain text and escape sequences and other
// control characters are removed. Newlines and tabs survive.
func Sanitize(s string) string {
	if tagPattern.MatchString(s) {
		s = blockTags.ReplaceAllString(s, "\n")
		s = html.UnescapeString(strict.Sanitize(s))
		s = blankRuns.ReplaceAllString(s, "\n\n")
	}
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r < 0xa0:
			return -1
		}
		return r
	}, s)
}

// OneLine sanitizes s and collapses all whitespace to single spaces, for
// list rows.
func OneLine(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(Sanitize(s), " "))
}

// Truncate shortens s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
