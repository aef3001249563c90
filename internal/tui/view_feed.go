package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"mailnet/internal/model"
	"mailnet/internal/render"
	"mailnet/internal/util"
	"mailnet/internal/view"
)

// postItem wraps a render.PostRow for the list display.
type postItem struct {
	render.PostRow
}

func (p postItem) FilterValue() string { return p.Author + " " + p.Content }

// postDelegate draws a post as author line, content line and controls line.
type postDelegate struct {
	now func() time.Time
}

func (postDelegate) Height() int                         { return 3 }
func (postDelegate) Spacing() int                        { return 1 }
func (postDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d postDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(postItem)
	if !ok {
		return
	}
	if it.Placeholder {
		fmt.Fprint(w, readStyle.Render("  "+it.Content))
		return
	}
	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}
	width := m.Width() - 2
	if width <= 0 {
		width = 80
	}
	fmt.Fprint(w, strings.Join(postLines(it.PostRow, d.now(), width, cursor), "\n"))
}

func postLines(r render.PostRow, now time.Time, width int, cursor string) []string {
	content := util.OneLine(r.Content)
	controls := fmt.Sprintf("♥ %s  [%s]", r.Likes, r.LikeLabel)
	if r.Editable {
		controls += "  [Edit]"
	}
	return []string{
		cursor + authorStyle.Render(r.Author) + readStyle.Render("  "+util.Relative(r.Date, now)),
		"  " + util.Truncate(content, width),
		"  " + readStyle.Render(controls),
	}
}

// feedPane is the list pane of the network app: a page of the global feed
// or of one author's profile.
type feedPane struct {
	key    view.ListKey
	page   model.PostPage
	rows   []render.PostRow
	pager  render.Pager
	list   list.Model
	loaded bool

	// Follow state of key.Author, known only after the first toggle
	// resolves.
	follow      model.FollowState
	followKnown bool
	followBusy  uint64

	// likes maps post ids to their outstanding mutation.
	likes map[int64]uint64
}

func newFeedPane(k view.ListKey, width, height int, now func() time.Time) *feedPane {
	l := list.New(nil, postDelegate{now: now}, width, listHeight(height)-2)
	l.Title = feedTitle(k)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetKeys("q")
	return &feedPane{key: k, list: l, likes: make(map[int64]uint64)}
}

func feedTitle(k view.ListKey) string {
	if k.Author != "" {
		return "Posts by " + k.Author
	}
	return "All Posts"
}

func (p *feedPane) setPage(page model.PostPage, user string) {
	p.page = page
	p.rows = render.Feed(page, user)
	p.pager = render.Pagination(page.Cursor)
	p.loaded = true
	items := make([]list.Item, len(p.rows))
	for i, r := range p.rows {
		items[i] = postItem{r}
	}
	p.list.SetItems(items)
	p.list.Select(0)
}

// selected returns the post under the cursor.
func (p *feedPane) selected() (model.Post, bool) {
	i := p.list.Index()
	if !p.loaded || i < 0 || i >= len(p.page.Posts) {
		return model.Post{}, false
	}
	return p.page.Posts[i], true
}

// replacePost swaps in a new version of a displayed post.
func (p *feedPane) replacePost(post model.Post, user string) bool {
	for i := range p.page.Posts {
		if p.page.Posts[i].ID != post.ID {
			continue
		}
		p.page.Posts[i] = post
		p.rows[i] = render.Post(post, user)
		p.list.SetItem(i, postItem{p.rows[i]})
		return true
	}
	return false
}

func (p *feedPane) view() string {
	var b strings.Builder
	if !p.loaded {
		b.WriteString(headerStyle.Render(feedTitle(p.key)))
		return b.String()
	}
	if p.key.Author != "" {
		b.WriteString(followLine(p))
		b.WriteString("\n")
	}
	b.WriteString(p.list.View())
	b.WriteString("\n")
	b.WriteString(pagerLine(p.pager, p.key.Page, p.page.NumPages))
	return b.String()
}

func followLine(p *feedPane) string {
	switch {
	case p.followBusy != 0:
		return readStyle.Render("Updating follow...")
	case !p.followKnown:
		return readStyle.Render("f: follow/unfollow " + p.key.Author)
	case p.follow.Following:
		return readStyle.Render("Following · " + strconv.Itoa(p.follow.Followers) + " followers")
	default:
		return readStyle.Render("Not following · " + strconv.Itoa(p.follow.Followers) + " followers")
	}
}

func pagerLine(pg render.Pager, page, pages int) string {
	control := func(c render.Control, label string) string {
		if !c.Enabled {
			return disabledStyle.Render("[" + label + "]")
		}
		return "[" + label + "]"
	}
	mid := "Page " + strconv.Itoa(page)
	if pages > 0 {
		mid += " of " + strconv.Itoa(pages)
	}
	return control(pg.Prev, "← "+pg.Prev.Label) + "  " + mid + "  " + control(pg.Next, pg.Next.Label+" →")
}

func feedFooter(profile bool) string {
	k := feedKeys
	if profile {
		return helpLine(k.Like, k.Edit, k.Follow, k.Browser, k.AllPosts, k.PrevPage, k.NextPage, k.Quit)
	}
	return helpLine(k.Like, k.Edit, k.NewPost, k.Profile, k.PrevPage, k.NextPage, k.Quit)
}

// FeedText renders a feed page as plain lines for headless output.
func FeedText(k view.ListKey, page model.PostPage, user string, now time.Time) string {
	var b strings.Builder
	b.WriteString(feedTitle(k))
	b.WriteString("\n\n")
	for _, r := range render.Feed(page, user) {
		if r.Placeholder {
			b.WriteString(r.Content)
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "#%d %s · %s\n", r.ID, r.Author, util.Relative(r.Date, now))
		b.WriteString(r.Content)
		fmt.Fprintf(&b, "\n♥ %s (%s)\n\n", r.Likes, r.LikeLabel)
	}
	pg := render.Pagination(page.Cursor)
	if p, ok := pg.Prev.Target(); ok {
		fmt.Fprintf(&b, "previous: --page %d\n", p)
	}
	if p, ok := pg.Next.Target(); ok {
		fmt.Fprintf(&b, "next: --page %d\n", p)
	}
	return b.String()
}
