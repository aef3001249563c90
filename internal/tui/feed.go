package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"mailnet/internal/api"
	"mailnet/internal/model"
	"mailnet/internal/mutate"
	"mailnet/internal/store"
	"mailnet/internal/view"
)

// FeedAPI is the transport the network app talks to.
type FeedAPI interface {
	Posts(ctx context.Context, page int) (model.PostPage, error)
	UserPosts(ctx context.Context, username string, page int) (model.PostPage, error)
	CreatePost(ctx context.Context, content string) error
	ToggleLike(ctx context.Context, id int64) (model.LikeState, error)
	EditPost(ctx context.Context, id int64, content string) error
	ToggleFollow(ctx context.Context, username string) (model.FollowState, error)
	ProfileURL(username string) string
}

// FeedModel is the paginated social feed. The list pane and the editor
// pane (edit or new post) are mutually exclusive.
type FeedModel struct {
	api     FeedAPI
	opts    Options
	machine *view.Machine
	mutator *mutate.Controller

	list   *feedPane
	editor *editorPane

	// editing is handed from BeginEdit to the editor pane's enter hook.
	editing mutate.EditBuffer
	// last is the list pane parked while the editor is attached, so a
	// cancelled edit can show it again without a request.
	last *feedPane

	status        string
	width, height int
}

// NewFeedModel starts on page of the global feed.
func NewFeedModel(client FeedAPI, page int, opts Options) *FeedModel {
	if page < 1 {
		page = 1
	}
	opts = opts.withDefaults()
	var mopts []mutate.Option
	if opts.Rollback {
		mopts = append(mopts, mutate.WithRollback())
	}
	m := &FeedModel{
		api:     client,
		opts:    opts,
		mutator: mutate.NewController(mopts...),
	}
	m.machine = view.NewMachine(view.ListKey{Page: page}, view.Hooks{
		Retire: m.retire,
		Enter:  m.enter,
	})
	return m
}

func (m *FeedModel) Init() tea.Cmd {
	return m.load(m.machine.Ticket())
}

// State exposes the active pane.
func (m *FeedModel) State() view.State { return m.machine.State() }

func (m *FeedModel) enter(s view.State, _ view.Event) {
	switch s.Kind {
	case view.KindList:
		if p := m.last; p != nil && p.key == s.List {
			// Same list again: keep its page and the answers it is owed.
			m.list = p
			if m.width > 0 {
				m.list.list.SetSize(m.width, listHeight(m.height)-2)
			}
		} else {
			m.discard(m.last)
			m.list = newFeedPane(s.List, m.width, m.height, m.opts.Now)
		}
		m.last = nil
		if s.List.Author == "" {
			m.remember(store.MetaLastPage, strconv.Itoa(s.List.Page))
		}
	case view.KindEdit:
		m.editor = newEditorPane(m.editing, m.width, m.height)
	case view.KindCompose:
		m.editor = newEditorPane(mutate.EditBuffer{}, m.width, m.height)
	}
}

func (m *FeedModel) retire(s view.State) {
	switch s.Kind {
	case view.KindList:
		// Parked until the next list is entered; pending likes and follows
		// keep resolving against it meanwhile.
		m.last = m.list
		m.list = nil
	case view.KindEdit, view.KindCompose:
		m.editor = nil
		m.editing = mutate.EditBuffer{}
	}
}

func (m *FeedModel) apply(ev view.Event) tea.Cmd {
	t, err := m.machine.Apply(ev)
	if err != nil {
		log.Debugf("%v", err)
		return nil
	}
	return m.load(t)
}

func (m *FeedModel) load(t view.Ticket) tea.Cmd {
	switch t.State.Kind {
	case view.KindList:
		m.status = "Loading..."
		return m.fetchPageCmd(t)
	case view.KindEdit, view.KindCompose:
		return textarea.Blink
	}
	return nil
}

// back returns from the editor to the list it was opened from. The parked
// page is shown again; no request is made.
func (m *FeedModel) back() tea.Cmd {
	t, err := m.machine.Apply(view.OpenList{Key: m.machine.State().List})
	if err != nil {
		return nil
	}
	if m.list.loaded {
		m.status = ""
		return nil
	}
	return m.load(t)
}

// discard drops the like and follow answers still owed to p, which is not
// coming back.
func (m *FeedModel) discard(p *feedPane) {
	if p == nil {
		return
	}
	for _, id := range p.likes {
		m.mutator.Drop(id)
	}
	if p.followBusy != 0 {
		m.mutator.Drop(p.followBusy)
	}
}

// shown is the list pane answers land on: the attached one, or the one
// parked behind the editor.
func (m *FeedModel) shown() *feedPane {
	if m.list != nil {
		return m.list
	}
	return m.last
}

func (m *FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case feedLoadedMsg:
		if !m.machine.Current(msg.ticket) {
			mutate.Stale("feed %s", msg.ticket.State.List)
			return m, nil
		}
		if msg.err != nil {
			m.status = "Failed to load posts: " + api.UserMessage(msg.err)
			return m, nil
		}
		m.list.setPage(msg.page, m.opts.User)
		m.status = ""
		return m, nil

	case likeResolvedMsg:
		post, err := m.mutator.ResolveLike(msg.pending, msg.state, msg.err)
		var stale *mutate.StaleResponseError
		pane := m.shown()
		if errors.As(err, &stale) || pane == nil {
			return m, nil
		}
		delete(pane.likes, post.ID)
		pane.replacePost(post, m.opts.User)
		return m, nil

	case followResolvedMsg:
		st, err := m.mutator.ResolveFollow(msg.pending, msg.state, msg.err)
		var stale *mutate.StaleResponseError
		pane := m.shown()
		if errors.As(err, &stale) || pane == nil || pane.key.Author != msg.pending.Key {
			return m, nil
		}
		pane.followBusy = 0
		pane.follow = st
		if err != nil {
			m.status = "Follow failed: " + api.UserMessage(err)
			return m, clearStatusAfter()
		}
		pane.followKnown = true
		return m, nil

	case editSavedMsg:
		if msg.err != nil {
			m.status = "Save failed: " + api.UserMessage(msg.err)
			m.release(msg.ticket)
			return m, nil
		}
		if !m.machine.Current(msg.ticket) {
			m.status = "Post saved."
			return m, clearStatusAfter()
		}
		k := m.machine.State().List
		return m, m.apply(view.OpenList{Key: view.ListKey{Author: k.Author, Page: 1}})

	case postCreatedMsg:
		if msg.err != nil {
			m.status = "Post failed: " + api.UserMessage(msg.err)
			m.release(msg.ticket)
			return m, nil
		}
		if !m.machine.Current(msg.ticket) {
			m.status = "Posted."
			return m, clearStatusAfter()
		}
		return m, m.apply(view.OpenList{Key: view.ListKey{Page: 1}})

	case actionResultMsg:
		if msg.err != nil {
			m.status = msg.action + " failed: " + msg.err.Error()
		} else {
			m.status = msg.action + " complete"
		}
		return m, clearStatusAfter()

	case statusMsg:
		if string(msg) == "" {
			m.status = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.list != nil:
		m.list.list, cmd = m.list.list.Update(msg)
	case m.editor != nil:
		cmd = m.editor.update(msg)
	}
	return m, cmd
}

func (m *FeedModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := feedKeys
	if key.Matches(msg, k.ForceQuit) {
		return m, tea.Quit
	}

	s := m.machine.State()
	switch s.Kind {
	case view.KindList:
		switch {
		case key.Matches(msg, k.Quit):
			return m, tea.Quit
		case key.Matches(msg, k.Like):
			return m, m.like()
		case key.Matches(msg, k.Edit):
			return m, m.edit()
		case key.Matches(msg, k.NewPost):
			return m, m.apply(view.NewItem{})
		case key.Matches(msg, k.Profile):
			post, ok := m.list.selected()
			if !ok {
				return m, nil
			}
			return m, m.apply(view.OpenList{Key: view.ListKey{Author: post.Author, Page: 1}})
		case key.Matches(msg, k.AllPosts):
			return m, m.apply(view.OpenList{Key: view.ListKey{Page: 1}})
		case key.Matches(msg, k.Follow):
			return m, m.follow()
		case key.Matches(msg, k.Browser):
			return m, m.openProfile()
		case key.Matches(msg, k.PrevPage):
			return m, m.turn(m.list.pager.Prev.Target())
		case key.Matches(msg, k.NextPage):
			return m, m.turn(m.list.pager.Next.Target())
		case key.Matches(msg, k.Reload):
			return m, m.apply(view.OpenList{Key: s.List})
		}
		var cmd tea.Cmd
		m.list.list, cmd = m.list.list.Update(msg)
		return m, cmd

	case view.KindEdit, view.KindCompose:
		switch {
		case key.Matches(msg, k.Back):
			return m, m.back()
		case key.Matches(msg, k.Submit):
			return m, m.submit()
		}
		return m, m.editor.update(msg)
	}
	return m, nil
}

// turn opens the page a pager control leads to.
func (m *FeedModel) turn(page int, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	k := m.machine.State().List
	k.Page = page
	return m.apply(view.OpenList{Key: k})
}

func (m *FeedModel) like() tea.Cmd {
	post, ok := m.list.selected()
	if !ok {
		return nil
	}
	if _, busy := m.list.likes[post.ID]; busy {
		return nil
	}
	shown, pending := m.mutator.BeginLike(post)
	m.list.likes[post.ID] = pending.ID
	m.list.replacePost(shown, m.opts.User)
	return m.likeCmd(pending)
}

func (m *FeedModel) edit() tea.Cmd {
	post, ok := m.list.selected()
	if !ok {
		return nil
	}
	buf, err := mutate.BeginEdit(post, m.opts.User)
	if err != nil {
		m.status = "Only the author can edit this post."
		return clearStatusAfter()
	}
	m.editing = buf
	return m.apply(view.EditItem{ID: post.ID})
}

func (m *FeedModel) follow() tea.Cmd {
	author := m.list.key.Author
	if author == "" {
		m.status = "Open a profile (p) to follow its author."
		return clearStatusAfter()
	}
	if strings.EqualFold(author, m.opts.User) {
		m.status = "You cannot follow yourself."
		return clearStatusAfter()
	}
	if m.list.followBusy != 0 {
		return nil
	}
	shown, pending := m.mutator.BeginFollow(author, m.list.follow)
	m.list.follow = shown
	m.list.followBusy = pending.ID
	return m.followCmd(pending)
}

func (m *FeedModel) openProfile() tea.Cmd {
	author := m.list.key.Author
	if author == "" {
		post, ok := m.list.selected()
		if !ok {
			return nil
		}
		author = post.Author
	}
	url := m.api.ProfileURL(author)
	open := m.opts.Open
	return func() tea.Msg {
		return actionResultMsg{action: "Open profile", err: open(url)}
	}
}

func (m *FeedModel) submit() tea.Cmd {
	if m.editor.busy {
		return nil
	}
	buf := m.editor.buffer()
	t := m.machine.Ticket()
	if t.State.Kind == view.KindEdit {
		m.editor.busy = true
		m.status = "Saving..."
		return m.saveEditCmd(t, buf)
	}
	if err := mutate.ValidatePost(buf.Content); err != nil {
		m.status = err.Error()
		return nil
	}
	m.editor.busy = true
	m.status = "Posting..."
	return m.createPostCmd(t, buf.Content)
}

// release lets a failed submit be retried from the same editor.
func (m *FeedModel) release(t view.Ticket) {
	if m.editor != nil && m.machine.Current(t) {
		m.editor.busy = false
	}
}

func (m *FeedModel) resize(w, h int) {
	m.width, m.height = w, h
	switch {
	case m.list != nil:
		m.list.list.SetSize(w, listHeight(h)-2)
	case m.editor != nil:
		m.editor.resize(w, h)
	}
}

func (m *FeedModel) attached() int {
	n := 0
	if m.list != nil {
		n++
	}
	if m.editor != nil {
		n++
	}
	return n
}

func (m *FeedModel) remember(key, value string) {
	if m.opts.Store == nil {
		return
	}
	if err := m.opts.Store.SetMeta(context.Background(), m.opts.Server, key, value); err != nil {
		log.Warnf("remember %s: %v", key, err)
	}
}

// Commands

func (m *FeedModel) fetchPageCmd(t view.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		k := t.State.List
		var (
			page model.PostPage
			err  error
		)
		if k.Author != "" {
			page, err = m.api.UserPosts(ctx, k.Author, k.Page)
		} else {
			page, err = m.api.Posts(ctx, k.Page)
		}
		return feedLoadedMsg{ticket: t, page: page, err: err}
	}
}

func (m *FeedModel) likeCmd(p mutate.Pending[model.Post]) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		st, err := m.api.ToggleLike(ctx, p.Before.ID)
		return likeResolvedMsg{pending: p, state: st, err: err}
	}
}

func (m *FeedModel) followCmd(p mutate.Pending[model.FollowState]) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		st, err := m.api.ToggleFollow(ctx, p.Key)
		return followResolvedMsg{pending: p, state: st, err: err}
	}
}

func (m *FeedModel) saveEditCmd(t view.Ticket, buf mutate.EditBuffer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		return editSavedMsg{ticket: t, err: mutate.SaveEdit(ctx, m.api, buf)}
	}
}

func (m *FeedModel) createPostCmd(t view.Ticket, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		return postCreatedMsg{ticket: t, err: mutate.CreatePost(ctx, m.api, content)}
	}
}

// View renders the attached pane.
func (m *FeedModel) View() string {
	var b strings.Builder

	switch {
	case m.list != nil:
		b.WriteString(m.list.view())
		b.WriteString("\n")
		b.WriteString(feedFooter(m.list.key.Author != ""))
	case m.editor != nil:
		b.WriteString(m.editor.view())
		b.WriteString("\n")
		b.WriteString(editorFooter(m.editor.buf.PostID != 0))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return b.String()
}
