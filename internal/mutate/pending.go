package mutate

// Kind names the mutation a Pending belongs to.
type Kind int

const (
	// KindLike is a like toggle on one post.
	KindLike Kind = iota
	// KindFollow is a follow toggle on one author, keyed by username.
	KindFollow
)

func (k Kind) String() string {
	switch k {
	case KindLike:
		return "like"
	case KindFollow:
		return "follow"
	default:
		return "unknown"
	}
}

// Pending is an optimistic change awaiting the server's answer. Before is
// the snapshot restored on rollback, After the value shown meanwhile.
type Pending[T any] struct {
	ID     uint64
	Kind   Kind
	Key    string
	Before T
	After  T
}

// Controller tracks outstanding optimistic mutations. Like the view
// machine, it belongs to the UI update loop and is not safe for concurrent use.
type Controller struct {
	rollback bool
	nextID   uint64
	pending  map[uint64]Kind
}

// Option configures a Controller.
type Option func(*Controller)

// WithRollback restores the pre-mutation snapshot when a request fails.
// Without it the optimistic value stays and the failure is only logged.
func WithRollback() Option {
	return func(c *Controller) { c.rollback = true }
}

func NewController(opts ...Option) *Controller {
	c := &Controller{pending: make(map[uint64]Kind)}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Outstanding is the number of unresolved mutations.
func (c *Controller) Outstanding() int {
	return len(c.pending)
}

// Drop forgets a mutation whose response will no longer be applied, e.g.
// because the page holding the record was replaced.
func (c *Controller) Drop(id uint64) {
	delete(c.pending, id)
}

// DropAll forgets every outstanding mutation.
func (c *Controller) DropAll() {
	clear(c.pending)
}

func begin[T any](c *Controller, kind Kind, key string, before, after T) Pending[T] {
	c.nextID++
	c.pending[c.nextID] = kind
	return Pending[T]{ID: c.nextID, Kind: kind, Key: key, Before: before, After: after}
}

// settle removes p and reports whether it was still outstanding.
func settle[T any](c *Controller, p Pending[T]) bool {
	if _, ok := c.pending[p.ID]; !ok {
		return false
	}
	delete(c.pending, p.ID)
	return true
}

// failed picks the value to display after a failed request.
func failed[T any](c *Controller, p Pending[T], err error) T {
	if c.rollback {
		log.Warnf("%s %s failed, rolling back: %v", p.Kind, p.Key, err)
		return p.Before
	}
	log.Warnf("%s %s failed, keeping optimistic state: %v", p.Kind, p.Key, err)
	return p.After
}
