package view

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an event is not accepted in the
// current state. The state is left untouched.
var ErrInvalidTransition = errors.New("invalid view transition")

// Hooks let the owner attach and detach pane contents. Retire is always
// called for the old pane before Enter is called for the new one.
type Hooks struct {
	Retire func(State)
	Enter  func(State, Event)
}

// Machine tracks the single active pane. It is not safe for concurrent use;
// the UI update loop owns it.
type Machine struct {
	state State
	gen   uint64
	hooks Hooks
}

// NewMachine starts in the list pane for initial and enters it.
func NewMachine(initial ListKey, hooks Hooks) *Machine {
	m := &Machine{
		state: State{Kind: KindList, List: initial},
		gen:   1,
		hooks: hooks,
	}
	if hooks.Enter != nil {
		hooks.Enter(m.state, OpenList{Key: initial})
	}
	return m
}

// State returns the active pane.
func (m *Machine) State() State { return m.state }

// Ticket returns the ticket of the active pane.
func (m *Machine) Ticket() Ticket {
	return Ticket{Gen: m.gen, State: m.state}
}

// Current reports whether t still belongs to the active pane. Responses for
// stale tickets must be dropped.
func (m *Machine) Current(t Ticket) bool {
	return t.Gen == m.gen && t.State == m.state
}

// Next computes the state ev leads to from s without side effects.
func Next(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case OpenList:
		return State{Kind: KindList, List: e.Key}, nil

	case NewItem:
		return State{Kind: KindCompose, List: s.List}, nil

	case OpenItem:
		if s.Kind != KindList {
			break
		}
		return State{Kind: KindDetail, RecordID: e.ID, List: s.List}, nil

	case Reply:
		if s.Kind != KindDetail {
			break
		}
		return State{Kind: KindCompose, List: s.List}, nil

	case EditItem:
		if s.Kind != KindList {
			break
		}
		return State{Kind: KindEdit, RecordID: e.ID, List: s.List}, nil

	default:
		return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
	return s, fmt.Errorf("%w: %T from %s", ErrInvalidTransition, ev, s)
}

// Apply moves to the state ev leads to. The old pane is retired before the
// new one is entered and the generation is bumped, which invalidates every
// outstanding ticket.
func (m *Machine) Apply(ev Event) (Ticket, error) {
	next, err := Next(m.state, ev)
	if err != nil {
		log.Debugf("rejected %T in %s", ev, m.state)
		return m.Ticket(), err
	}

	prev := m.state
	if m.hooks.Retire != nil {
		m.hooks.Retire(prev)
	}
	m.state = next
	m.gen++
	if m.hooks.Enter != nil {
		m.hooks.Enter(next, ev)
	}

	log.Debugf("%s -> %s (gen %d)", prev, next, m.gen)
	return m.Ticket(), nil
}
