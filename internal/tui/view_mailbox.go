package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"mailnet/internal/render"
	"mailnet/internal/util"
)

const titleWidth = 24

// rowItem wraps a render.Row for the list display.
type rowItem struct {
	render.Row
}

func (r rowItem) FilterValue() string { return r.Title + " " + r.Subject }

// mailboxDelegate draws one line per email; unread rows are bold.
type mailboxDelegate struct{}

func (mailboxDelegate) Height() int                         { return 1 }
func (mailboxDelegate) Spacing() int                        { return 0 }
func (mailboxDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (mailboxDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	cursor := "  "
	if index == m.Index() && !it.Placeholder {
		cursor = "> "
	}
	style := unreadStyle
	if it.Read || it.Placeholder {
		style = readStyle
	}
	fmt.Fprint(w, style.Render(cursor+formatRow(it.Row, m.Width()-2)))
}

func formatRow(r render.Row, width int) string {
	if r.Placeholder {
		return r.Title
	}
	if width <= 0 {
		width = 80
	}
	title := lipgloss.NewStyle().Width(titleWidth).Render(util.Truncate(r.Title, titleWidth))
	subjectWidth := width - titleWidth - ansi.StringWidth(r.Timestamp) - 4
	if subjectWidth < 10 {
		subjectWidth = 10
	}
	subject := lipgloss.NewStyle().Width(subjectWidth).Render(util.Truncate(r.Subject, subjectWidth))
	return title + "  " + subject + "  " + r.Timestamp
}

// mailboxPane is the list pane of the mail app.
type mailboxPane struct {
	mailbox string
	list    list.Model
	rows    []render.Row
	loaded  bool
}

func newMailboxPane(mailbox string, width, height int) *mailboxPane {
	l := list.New(nil, mailboxDelegate{}, width, listHeight(height))
	l.Title = render.Heading(mailbox)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	// Esc means "back" in this app, never quit.
	l.KeyMap.Quit.SetKeys("q")
	return &mailboxPane{mailbox: mailbox, list: l}
}

func (p *mailboxPane) setRows(rows []render.Row) {
	p.rows = rows
	p.loaded = true
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{r}
	}
	p.list.SetItems(items)
	p.list.Select(0)
}

// selected returns the row under the cursor, if it leads anywhere.
func (p *mailboxPane) selected() (render.Row, bool) {
	it, ok := p.list.SelectedItem().(rowItem)
	if !ok || it.Placeholder {
		return render.Row{}, false
	}
	return it.Row, true
}

func (p *mailboxPane) view() string {
	if !p.loaded {
		return headerStyle.Render(render.Heading(p.mailbox))
	}
	return p.list.View()
}

func mailboxFooter() string {
	k := mailKeys
	return helpLine(k.Open, k.Compose, k.Inbox, k.Sent, k.Archived, k.Reload, k.Quit)
}

// MailboxText renders rows as plain lines for headless output.
func MailboxText(mailbox string, rows []render.Row) string {
	var b strings.Builder
	b.WriteString(render.Heading(mailbox))
	b.WriteString("\n")
	for _, r := range rows {
		if r.Placeholder {
			b.WriteString(r.Title)
			b.WriteString("\n")
			continue
		}
		marker := "*"
		if r.Read {
			marker = " "
		}
		fmt.Fprintf(&b, "%s %5d  %s\n", marker, r.ID, formatRow(r, 100))
	}
	return b.String()
}
