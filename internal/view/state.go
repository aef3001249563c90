package view

import (
	"fmt"

	"mailnet/internal/model"
)

// Kind identifies which pane is active.
type Kind int

const (
	// KindList shows a mailbox or a feed page.
	KindList Kind = iota
	// KindCompose shows the compose form.
	KindCompose
	// KindDetail shows a single record.
	KindDetail
	// KindEdit shows the inline editor for a record the user owns.
	KindEdit
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindCompose:
		return "compose"
	case KindDetail:
		return "detail"
	case KindEdit:
		return "edit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ListKey names the collection a list pane shows: a mailbox, or a feed page
// optionally restricted to one author.
type ListKey struct {
	Mailbox string
	Author  string
	Page    int
}

func (k ListKey) String() string {
	switch {
	case k.Mailbox != "":
		return k.Mailbox
	case k.Author != "":
		return fmt.Sprintf("%s/page-%d", k.Author, k.Page)
	default:
		return fmt.Sprintf("page-%d", k.Page)
	}
}

// State is the single active pane. List is the collection that is shown
// (KindList) or that the pane was opened from.
type State struct {
	Kind     Kind
	RecordID int64
	List     ListKey
}

func (s State) String() string {
	switch s.Kind {
	case KindDetail, KindEdit:
		return fmt.Sprintf("%s(%d)", s.Kind, s.RecordID)
	case KindList:
		return fmt.Sprintf("list(%s)", s.List)
	default:
		return s.Kind.String()
	}
}

// Event is a user intent that may move the machine to a new pane.
type Event interface {
	isEvent()
}

// OpenList shows a collection. Accepted from every state: it backs
// navigation, reloads, pagination and the return from detail/edit.
type OpenList struct {
	Key ListKey
}

// NewItem opens the compose pane, optionally pre-filled. Accepted from every
// state, like the always visible compose button.
type NewItem struct {
	Prefill model.Draft
}

// OpenItem opens a record from the list.
type OpenItem struct {
	ID int64
}

// Reply opens the compose pane from a detail pane.
type Reply struct {
	Prefill model.Draft
}

// EditItem opens the inline editor for a record in the list.
type EditItem struct {
	ID int64
}

func (OpenList) isEvent() {}
func (NewItem) isEvent()  {}
func (OpenItem) isEvent() {}
func (Reply) isEvent()    {}
func (EditItem) isEvent() {}

// Ticket identifies the transition a request was issued for.
type Ticket struct {
	Gen   uint64
	State State
}
