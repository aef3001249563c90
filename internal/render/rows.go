// Package render maps records onto typed row view models. It never produces
// markup: every string that reaches a row has been sanitized, and callers
// style rows from their fields.
package render

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"mailnet/internal/model"
	"mailnet/internal/util"
	"mailnet/internal/view"
)

// Placeholder texts for empty collections.
const (
	NoEmails = "No emails here yet."
	NoPosts  = "No posts yet."
)

// Row is one mailbox line. A placeholder row has no target and stands for
// "loaded, zero results".
type Row struct {
	ID          int64
	Title       string
	Subject     string
	Timestamp   string
	Read        bool
	Placeholder bool
	Target      view.OpenItem
}

// Mailbox builds the rows for a mailbox listing. In the sent mailbox the
// title is the recipient list, elsewhere the sender.
func Mailbox(mailbox string, emails []model.Email) []Row {
	if len(emails) == 0 {
		return []Row{{Title: NoEmails, Placeholder: true}}
	}
	rows := make([]Row, 0, len(emails))
	for _, e := range emails {
		title := e.Sender
		if mailbox == "sent" {
			title = util.JoinRecipients(e.Recipients)
		}
		rows = append(rows, Row{
			ID:        e.ID,
			Title:     util.OneLine(title),
			Subject:   util.OneLine(e.Subject),
			Timestamp: util.OneLine(e.Timestamp),
			Read:      e.Read,
			Target:    view.OpenItem{ID: e.ID},
		})
	}
	return rows
}

// Records counts the non-placeholder rows.
func Records(rows []Row) int {
	n := 0
	for _, r := range rows {
		if !r.Placeholder {
			n++
		}
	}
	return n
}

// Heading capitalizes a mailbox name for the list title.
func Heading(mailbox string) string {
	r, size := utf8.DecodeRuneInString(mailbox)
	if r == utf8.RuneError {
		return mailbox
	}
	return string(unicode.ToUpper(r)) + mailbox[size:]
}

// PostRow is one feed entry.
type PostRow struct {
	ID          int64
	Author      string
	Content     string
	Date        string
	LikeLabel   string
	Likes       string
	Liked       bool
	Editable    bool
	Placeholder bool
}

// LikeLabel is the button text for a post's like state.
func LikeLabel(liked bool) string {
	if liked {
		return "Unlike"
	}
	return "Like"
}

// Post builds a single feed row. currentUser may be empty for anonymous
// sessions, in which case nothing is editable.
func Post(p model.Post, currentUser string) PostRow {
	return PostRow{
		ID:        p.ID,
		Author:    util.OneLine(p.Author),
		Content:   strings.TrimSpace(util.Sanitize(p.Content)),
		Date:      util.OneLine(p.DatePosted),
		LikeLabel: LikeLabel(p.Liked),
		Likes:     strconv.Itoa(p.Likes),
		Liked:     p.Liked,
		Editable:  currentUser != "" && p.Author == currentUser,
	}
}

// Feed builds the rows for a feed page.
func Feed(page model.PostPage, currentUser string) []PostRow {
	if len(page.Posts) == 0 {
		return []PostRow{{Content: NoPosts, Placeholder: true}}
	}
	rows := make([]PostRow, 0, len(page.Posts))
	for _, p := range page.Posts {
		rows = append(rows, Post(p, currentUser))
	}
	return rows
}
