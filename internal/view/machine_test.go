package view

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"mailnet/internal/model"
)

// paneTracker records attach/detach calls the way a renderer would.
type paneTracker struct {
	attached []State
	maxSeen  int
	enters   int
	retires  int
	badOrder bool
}

func (p *paneTracker) hooks() Hooks {
	return Hooks{
		Retire: func(s State) {
			p.retires++
			if len(p.attached) != 1 || p.attached[0] != s {
				p.badOrder = true
			}
			p.attached = p.attached[:0]
		},
		Enter: func(s State, _ Event) {
			p.enters++
			p.attached = append(p.attached, s)
			if len(p.attached) > p.maxSeen {
				p.maxSeen = len(p.attached)
			}
		},
	}
}

func TestNewMachineStartsInList(t *testing.T) {
	var p paneTracker
	m := NewMachine(ListKey{Mailbox: "inbox"}, p.hooks())

	require.Equal(t, KindList, m.State().Kind)
	require.Equal(t, "inbox", m.State().List.Mailbox)
	require.Equal(t, 1, p.enters)
	require.Len(t, p.attached, 1)
}

func TestTransitions(t *testing.T) {
	inbox := ListKey{Mailbox: "inbox"}
	list := State{Kind: KindList, List: inbox}
	detail := State{Kind: KindDetail, RecordID: 7, List: inbox}
	edit := State{Kind: KindEdit, RecordID: 7, List: inbox}
	compose := State{Kind: KindCompose, List: inbox}

	tests := []struct {
		name string
		from State
		ev   Event
		want State
		ok   bool
	}{
		{"list to compose", list, NewItem{}, compose, true},
		{"list to detail", list, OpenItem{ID: 7}, detail, true},
		{"detail to list", detail, OpenList{Key: inbox}, list, true},
		{"detail to compose via reply", detail, Reply{}, compose, true},
		{"list to edit", list, EditItem{ID: 7}, edit, true},
		{"edit to list", edit, OpenList{Key: inbox}, list, true},
		{"compose to list", compose, OpenList{Key: ListKey{Mailbox: "sent"}},
			State{Kind: KindList, List: ListKey{Mailbox: "sent"}}, true},
		{"nav compose from detail", detail, NewItem{}, compose, true},
		{"reply from list", list, Reply{}, list, false},
		{"detail from detail", detail, OpenItem{ID: 8}, detail, false},
		{"edit from detail", detail, EditItem{ID: 7}, detail, false},
		{"detail from edit", edit, OpenItem{ID: 7}, edit, false},
		{"edit from compose", compose, EditItem{ID: 1}, compose, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next(tc.from, tc.ev)
			if !tc.ok {
				require.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestApplyRejectedLeavesStateAndTickets(t *testing.T) {
	var p paneTracker
	m := NewMachine(ListKey{Page: 1}, p.hooks())
	before := m.Ticket()

	_, err := m.Apply(Reply{Prefill: model.Draft{Subject: "x"}})
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.True(t, m.Current(before))
	require.Equal(t, 0, p.retires)
}

func TestStaleTicket(t *testing.T) {
	m := NewMachine(ListKey{Page: 1}, Hooks{})

	first, err := m.Apply(OpenList{Key: ListKey{Page: 2}})
	require.NoError(t, err)
	second, err := m.Apply(OpenList{Key: ListKey{Page: 3}})
	require.NoError(t, err)

	require.False(t, m.Current(first))
	require.True(t, m.Current(second))

	// Reloading the same key still supersedes the older request.
	third, err := m.Apply(OpenList{Key: ListKey{Page: 3}})
	require.NoError(t, err)
	require.False(t, m.Current(second))
	require.True(t, m.Current(third))
}

func TestEnterReceivesEvent(t *testing.T) {
	var got Event
	m := NewMachine(ListKey{Mailbox: "inbox"}, Hooks{
		Enter: func(_ State, ev Event) { got = ev },
	})
	draft := model.Draft{Recipients: "a@x.com"}
	_, err := m.Apply(NewItem{Prefill: draft})
	require.NoError(t, err)
	require.Equal(t, NewItem{Prefill: draft}, got)
}

func drawEvent(t *rapid.T) Event {
	id := rapid.Int64Range(1, 5).Draw(t, "id")
	switch rapid.IntRange(0, 4).Draw(t, "event") {
	case 0:
		key := ListKey{Page: rapid.IntRange(1, 3).Draw(t, "page")}
		if rapid.Bool().Draw(t, "mailbox") {
			key = ListKey{Mailbox: rapid.SampledFrom([]string{"inbox", "sent", "archive"}).Draw(t, "name")}
		}
		return OpenList{Key: key}
	case 1:
		return NewItem{}
	case 2:
		return OpenItem{ID: id}
	case 3:
		return Reply{}
	default:
		return EditItem{ID: id}
	}
}

// TestPaneExclusivity checks that for any event sequence at most one pane
// is attached, retire always precedes enter, and only the newest ticket is
// current.
func TestPaneExclusivity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var p paneTracker
		m := NewMachine(ListKey{Mailbox: "inbox"}, p.hooks())
		tickets := []Ticket{m.Ticket()}

		steps := rapid.IntRange(1, 60).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			ev := drawEvent(rt)
			before := m.State()
			want, wantErr := Next(before, ev)

			tk, err := m.Apply(ev)
			if wantErr != nil {
				require.Error(rt, err)
				require.Equal(rt, before, m.State())
				continue
			}
			require.NoError(rt, err)
			require.Equal(rt, want, m.State())
			for _, old := range tickets {
				require.False(rt, m.Current(old))
			}
			require.True(rt, m.Current(tk))
			tickets = append(tickets, tk)

			require.Len(rt, p.attached, 1)
			require.Equal(rt, m.State(), p.attached[0])
		}

		require.False(rt, p.badOrder)
		require.LessOrEqual(rt, p.maxSeen, 1)
		require.Equal(rt, p.enters, p.retires+1)
	})
}
