package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mailnet/internal/model"
	"mailnet/internal/view"
)

func TestMailboxEmptyRendersPlaceholder(t *testing.T) {
	rows := Mailbox("inbox", nil)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Placeholder)
	require.Equal(t, "No emails here yet.", rows[0].Title)
	require.Equal(t, 0, Records(rows))
}

func TestMailboxTitles(t *testing.T) {
	emails := []model.Email{{
		ID:         3,
		Sender:     "ann@x.com",
		Recipients: []string{"bob@x.com", "cy@x.com"},
		Subject:    "lunch\n?",
		Timestamp:  "Jan 02 2024, 03:04 PM",
		Read:       true,
	}}

	inbox := Mailbox("inbox", emails)
	require.Equal(t, "ann@x.com", inbox[0].Title)
	require.Equal(t, "lunch ?", inbox[0].Subject)
	require.True(t, inbox[0].Read)
	require.Equal(t, view.OpenItem{ID: 3}, inbox[0].Target)

	sent := Mailbox("sent", emails)
	require.Equal(t, "bob@x.com, cy@x.com", sent[0].Title)
	require.Equal(t, 1, Records(sent))
}

func TestMailboxStripsEscapes(t *testing.T) {
	rows := Mailbox("inbox", []model.Email{{ID: 1, Sender: "\x1b[2Jevil@x.com", Subject: "<b>hi</b>"}})
	require.Equal(t, "evil@x.com", rows[0].Title)
	require.Equal(t, "hi", rows[0].Subject)
}

func TestHeading(t *testing.T) {
	require.Equal(t, "Inbox", Heading("inbox"))
	require.Equal(t, "Archive", Heading("archive"))
	require.Equal(t, "", Heading(""))
}

func TestFeedRows(t *testing.T) {
	page := model.PostPage{Posts: []model.Post{
		{ID: 1, Author: "ann", Content: "hello", Likes: 2, Liked: true},
		{ID: 2, Author: "bob", Content: "yo", Likes: 0},
	}}

	rows := Feed(page, "ann")
	require.Len(t, rows, 2)
	require.Equal(t, "Unlike", rows[0].LikeLabel)
	require.Equal(t, "2", rows[0].Likes)
	require.True(t, rows[0].Editable)
	require.Equal(t, "Like", rows[1].LikeLabel)
	require.False(t, rows[1].Editable)

	anon := Feed(page, "")
	require.False(t, anon[0].Editable)
}

func TestFeedEmpty(t *testing.T) {
	rows := Feed(model.PostPage{}, "ann")
	require.Len(t, rows, 1)
	require.True(t, rows[0].Placeholder)
	require.Equal(t, NoPosts, rows[0].Content)
}

func TestPagination(t *testing.T) {
	first := Pagination(model.Cursor{HasNext: true, NextPage: 2})
	require.False(t, first.Prev.Enabled)
	_, ok := first.Prev.Target()
	require.False(t, ok)
	page, ok := first.Next.Target()
	require.True(t, ok)
	require.Equal(t, 2, page)

	middle := Pagination(model.Cursor{HasPrevious: true, PreviousPage: 4, HasNext: true, NextPage: 6})
	require.Equal(t, Control{Label: "Previous", Enabled: true, Page: 4}, middle.Prev)
	require.Equal(t, Control{Label: "Next", Enabled: true, Page: 6}, middle.Next)

	last := Pagination(model.Cursor{HasPrevious: true, PreviousPage: 1})
	require.True(t, last.Prev.Enabled)
	require.False(t, last.Next.Enabled)
}
