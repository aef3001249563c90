package tui

import (
	"mailnet/internal/model"
	"mailnet/internal/mutate"
	"mailnet/internal/view"
)

// Async message types for Bubble Tea commands. Responses that belong to a
// pane carry the ticket they were issued under.

type mailboxLoadedMsg struct {
	ticket view.Ticket
	emails []model.Email
	err    error
}

type emailLoadedMsg struct {
	ticket view.Ticket
	email  model.Email
	err    error
}

// markReadMsg is the outcome of a detached mark-read. It never changes
// the view.
type markReadMsg struct {
	id  int64
	err error
}

type sentMsg struct {
	ticket view.Ticket
	err    error
}

type archivedMsg struct {
	ticket   view.Ticket
	id       int64
	archived bool
	err      error
}

type feedLoadedMsg struct {
	ticket view.Ticket
	page   model.PostPage
	err    error
}

type likeResolvedMsg struct {
	pending mutate.Pending[model.Post]
	state   model.LikeState
	err     error
}

type followResolvedMsg struct {
	pending mutate.Pending[model.FollowState]
	state   model.FollowState
	err     error
}

type editSavedMsg struct {
	ticket view.Ticket
	err    error
}

type postCreatedMsg struct {
	ticket view.Ticket
	err    error
}

type actionResultMsg struct {
	action string // "Open profile"
	err    error
}

type statusMsg string
