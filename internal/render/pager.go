package render

import "mailnet/internal/model"

// Control is a pagination affordance. Page is meaningful only when Enabled.
type Control struct {
	Label   string
	Enabled bool
	Page    int
}

// Pager holds the previous/next controls for a feed page.
type Pager struct {
	Prev Control
	Next Control
}

// Pagination maps a cursor directly onto the two controls.
func Pagination(c model.Cursor) Pager {
	p := Pager{
		Prev: Control{Label: "Previous"},
		Next: Control{Label: "Next"},
	}
	if c.HasPrevious && c.PreviousPage > 0 {
		p.Prev.Enabled = true
		p.Prev.Page = c.PreviousPage
	}
	if c.HasNext && c.NextPage > 0 {
		p.Next.Enabled = true
		p.Next.Page = c.NextPage
	}
	return p
}

// Target returns the page a control leads to and whether it can be invoked.
func (c Control) Target() (int, bool) {
	return c.Page, c.Enabled
}
