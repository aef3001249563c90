package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mailnet/internal/api"
	"mailnet/internal/model"
	"mailnet/internal/mutate"
	"mailnet/internal/render"
	"mailnet/internal/store"
	"mailnet/internal/view"
)

// MailAPI is the transport the mail app talks to.
type MailAPI interface {
	Mailbox(ctx context.Context, mailbox string) ([]model.Email, error)
	Email(ctx context.Context, id int64) (model.Email, error)
	Send(ctx context.Context, d model.Draft) error
	MarkRead(ctx context.Context, id int64) error
	SetArchived(ctx context.Context, id int64, archived bool) error
}

// MailModel is the single-page mail client. Exactly one of list, detail
// and compose is attached at any time; the view machine's hooks attach and
// detach them.
type MailModel struct {
	api     MailAPI
	opts    Options
	machine *view.Machine

	list    *mailboxPane
	detail  *detailPane
	compose *composePane

	status        string
	width, height int
}

// NewMailModel starts in mailbox (inbox when empty).
func NewMailModel(client MailAPI, mailbox string, opts Options) *MailModel {
	if mailbox == "" {
		mailbox = api.MailboxInbox
	}
	m := &MailModel{api: client, opts: opts.withDefaults()}
	m.machine = view.NewMachine(view.ListKey{Mailbox: mailbox}, view.Hooks{
		Retire: m.retire,
		Enter:  m.enter,
	})
	return m
}

func (m *MailModel) Init() tea.Cmd {
	return m.load(m.machine.Ticket())
}

// State exposes the active pane.
func (m *MailModel) State() view.State { return m.machine.State() }

func (m *MailModel) enter(s view.State, ev view.Event) {
	switch s.Kind {
	case view.KindList:
		m.list = newMailboxPane(s.List.Mailbox, m.width, m.height)
		m.remember(store.MetaLastMailbox, s.List.Mailbox)
	case view.KindDetail:
		m.detail = newDetailPane(s.RecordID, m.width, m.height)
	case view.KindCompose:
		var d model.Draft
		switch e := ev.(type) {
		case view.NewItem:
			d = e.Prefill
		case view.Reply:
			d = e.Prefill
		}
		if d.IsZero() {
			d = m.loadDraft()
		}
		m.compose = newComposePane(d, m.width, m.height)
	}
}

func (m *MailModel) retire(s view.State) {
	switch s.Kind {
	case view.KindList:
		m.list = nil
	case view.KindDetail:
		m.detail = nil
	case view.KindCompose:
		m.persistDraft()
		m.compose = nil
	}
}

// apply moves to a new pane and issues its load. Rejected events leave
// everything as it was.
func (m *MailModel) apply(ev view.Event) tea.Cmd {
	t, err := m.machine.Apply(ev)
	if err != nil {
		log.Debugf("%v", err)
		return nil
	}
	return m.load(t)
}

func (m *MailModel) load(t view.Ticket) tea.Cmd {
	switch t.State.Kind {
	case view.KindList:
		m.status = "Loading..."
		return m.fetchMailboxCmd(t)
	case view.KindDetail:
		return m.fetchEmailCmd(t)
	case view.KindCompose:
		return textinput.Blink
	}
	return nil
}

func (m *MailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case mailboxLoadedMsg:
		if !m.machine.Current(msg.ticket) {
			mutate.Stale("mailbox %s", msg.ticket.State.List)
			return m, nil
		}
		if msg.err != nil {
			m.status = "Failed to load mailbox: " + api.UserMessage(msg.err)
			return m, nil
		}
		m.list.setRows(render.Mailbox(m.list.mailbox, msg.emails))
		m.status = ""
		return m, nil

	case emailLoadedMsg:
		if !m.machine.Current(msg.ticket) {
			mutate.Stale("email %d", msg.ticket.State.RecordID)
			return m, nil
		}
		if msg.err != nil {
			m.status = "Failed to load email: " + api.UserMessage(msg.err)
			return m, nil
		}
		m.detail.setEmail(msg.email, m.opts.Now())
		m.status = ""
		if !msg.email.Read {
			return m, m.markReadCmd(msg.email.ID)
		}
		return m, nil

	case markReadMsg:
		if msg.err != nil {
			log.Warnf("mark email %d read: %v", msg.id, msg.err)
		}
		return m, nil

	case sentMsg:
		if msg.err != nil {
			m.status = "Send failed: " + sendMessage(msg.err)
			if m.compose != nil && m.machine.Current(msg.ticket) {
				m.compose.sending = false
			}
			return m, nil
		}
		if !m.machine.Current(msg.ticket) {
			m.status = "Email sent."
			return m, clearStatusAfter()
		}
		m.compose.sent = true
		return m, m.apply(view.OpenList{Key: view.ListKey{Mailbox: api.MailboxSent}})

	case archivedMsg:
		verb := "Archived"
		if !msg.archived {
			verb = "Unarchived"
		}
		if msg.err != nil {
			m.status = strings.TrimSuffix(verb, "d") + " failed: " + api.UserMessage(msg.err)
			return m, clearStatusAfter()
		}
		if !m.machine.Current(msg.ticket) {
			m.status = verb + "."
			return m, clearStatusAfter()
		}
		return m, m.apply(view.OpenList{Key: view.ListKey{Mailbox: api.MailboxInbox}})

	case statusMsg:
		if string(msg) == "" {
			m.status = ""
		}
		return m, nil
	}

	// Delegate to the attached pane.
	var cmd tea.Cmd
	switch {
	case m.list != nil:
		m.list.list, cmd = m.list.list.Update(msg)
	case m.detail != nil:
		m.detail.vp, cmd = m.detail.vp.Update(msg)
	case m.compose != nil:
		cmd = m.compose.update(msg)
	}
	return m, cmd
}

func (m *MailModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := mailKeys
	if key.Matches(msg, k.ForceQuit) {
		return m, m.quit()
	}

	switch m.machine.State().Kind {
	case view.KindList:
		switch {
		case key.Matches(msg, k.Quit):
			return m, m.quit()
		case key.Matches(msg, k.Open):
			row, ok := m.list.selected()
			if !ok {
				return m, nil
			}
			return m, m.apply(row.Target)
		case key.Matches(msg, k.Reload):
			return m, m.apply(view.OpenList{Key: m.machine.State().List})
		}
		if cmd, ok := m.navigate(msg); ok {
			return m, cmd
		}
		var cmd tea.Cmd
		m.list.list, cmd = m.list.list.Update(msg)
		return m, cmd

	case view.KindDetail:
		switch {
		case key.Matches(msg, k.Quit):
			return m, m.quit()
		case key.Matches(msg, k.Back):
			return m, m.apply(view.OpenList{Key: m.machine.State().List})
		case key.Matches(msg, k.Reply):
			if m.detail.email == nil {
				return m, nil
			}
			return m, m.apply(view.Reply{Prefill: model.ReplyDraft(*m.detail.email)})
		case key.Matches(msg, k.ToggleArchive):
			return m, m.toggleArchive()
		case key.Matches(msg, k.Markdown):
			m.detail.toggleMarkdown(m.opts.Now())
			return m, nil
		}
		if cmd, ok := m.navigate(msg); ok {
			return m, cmd
		}
		var cmd tea.Cmd
		m.detail.vp, cmd = m.detail.vp.Update(msg)
		return m, cmd

	case view.KindCompose:
		switch {
		case key.Matches(msg, k.Cancel):
			return m, m.apply(view.OpenList{Key: m.machine.State().List})
		case key.Matches(msg, k.NextField):
			return m, m.compose.cycle(1)
		case key.Matches(msg, k.PrevField):
			return m, m.compose.cycle(-1)
		case key.Matches(msg, k.Submit):
			return m, m.send()
		}
		return m, m.compose.update(msg)
	}
	return m, nil
}

// navigate handles the nav bar keys, accepted from list and detail.
func (m *MailModel) navigate(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := mailKeys
	switch {
	case key.Matches(msg, k.Inbox):
		return m.apply(view.OpenList{Key: view.ListKey{Mailbox: api.MailboxInbox}}), true
	case key.Matches(msg, k.Sent):
		return m.apply(view.OpenList{Key: view.ListKey{Mailbox: api.MailboxSent}}), true
	case key.Matches(msg, k.Archived):
		return m.apply(view.OpenList{Key: view.ListKey{Mailbox: api.MailboxArchive}}), true
	case key.Matches(msg, k.Compose):
		return m.apply(view.NewItem{}), true
	}
	return nil, false
}

func (m *MailModel) send() tea.Cmd {
	if m.compose.sending {
		return nil
	}
	d := m.compose.draft()
	if err := mutate.ValidateDraft(d); err != nil {
		m.status = err.Error()
		return nil
	}
	m.compose.sending = true
	m.status = "Sending..."
	return m.sendCmd(m.machine.Ticket(), d)
}

func (m *MailModel) toggleArchive() tea.Cmd {
	e := m.detail.email
	if e == nil {
		return nil
	}
	if m.machine.State().List.Mailbox == api.MailboxSent {
		m.status = "Sent emails cannot be archived."
		return clearStatusAfter()
	}
	return m.archiveCmd(m.machine.Ticket(), e.ID, !e.Archived)
}

func (m *MailModel) quit() tea.Cmd {
	if m.compose != nil {
		m.persistDraft()
	}
	return tea.Quit
}

func (m *MailModel) resize(w, h int) {
	m.width, m.height = w, h
	switch {
	case m.list != nil:
		m.list.list.SetSize(w, listHeight(h))
	case m.detail != nil:
		m.detail.resize(w, h)
	case m.compose != nil:
		m.compose.resize(w, h)
	}
}

// attached counts the panes currently attached.
func (m *MailModel) attached() int {
	n := 0
	if m.list != nil {
		n++
	}
	if m.detail != nil {
		n++
	}
	if m.compose != nil {
		n++
	}
	return n
}

// sendMessage prefers the server's own wording for rejected drafts.
func sendMessage(err error) string {
	var verr *mutate.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return api.UserMessage(err)
}

// Session persistence

func (m *MailModel) loadDraft() model.Draft {
	if m.opts.Store == nil {
		return model.Draft{}
	}
	d, err := m.opts.Store.LoadDraft(context.Background(), m.opts.Server)
	if err != nil {
		log.Warnf("load draft: %v", err)
		return model.Draft{}
	}
	return d
}

func (m *MailModel) persistDraft() {
	if m.opts.Store == nil || m.compose == nil {
		return
	}
	d := m.compose.draft()
	if m.compose.sent {
		d = model.Draft{}
	}
	if err := m.opts.Store.SaveDraft(context.Background(), m.opts.Server, d); err != nil {
		log.Warnf("save draft: %v", err)
	}
}

func (m *MailModel) remember(key, value string) {
	if m.opts.Store == nil {
		return
	}
	if err := m.opts.Store.SetMeta(context.Background(), m.opts.Server, key, value); err != nil {
		log.Warnf("remember %s: %v", key, err)
	}
}

// Commands

func (m *MailModel) fetchMailboxCmd(t view.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		emails, err := m.api.Mailbox(ctx, t.State.List.Mailbox)
		return mailboxLoadedMsg{ticket: t, emails: emails, err: err}
	}
}

func (m *MailModel) fetchEmailCmd(t view.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		e, err := m.api.Email(ctx, t.State.RecordID)
		return emailLoadedMsg{ticket: t, email: e, err: err}
	}
}

// markReadCmd is fire-and-forget: its result is only logged.
func (m *MailModel) markReadCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		return markReadMsg{id: id, err: m.api.MarkRead(ctx, id)}
	}
}

func (m *MailModel) sendCmd(t view.Ticket, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		return sentMsg{ticket: t, err: mutate.Send(ctx, m.api, d)}
	}
}

func (m *MailModel) archiveCmd(t view.Ticket, id int64, archived bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.opts.requestContext()
		defer cancel()
		err := mutate.Archive(ctx, m.api, id, archived)
		return archivedMsg{ticket: t, id: id, archived: archived, err: err}
	}
}

// View renders the attached pane.
func (m *MailModel) View() string {
	var b strings.Builder

	switch {
	case m.list != nil:
		b.WriteString(m.list.view())
		b.WriteString("\n")
		b.WriteString(mailboxFooter())
	case m.detail != nil:
		b.WriteString(m.detail.vp.View())
		b.WriteString("\n")
		b.WriteString(detailFooter(m.detail.email))
	case m.compose != nil:
		b.WriteString(m.compose.view())
		b.WriteString("\n")
		b.WriteString(composeFooter())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return b.String()
}
