package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mailnet/internal/model"
	"mailnet/internal/util"
)

// SessionStore is the subset of the session database the UI needs. A nil
// store disables draft persistence and location memory.
type SessionStore interface {
	SaveDraft(ctx context.Context, server string, d model.Draft) error
	LoadDraft(ctx context.Context, server string) (model.Draft, error)
	SetMeta(ctx context.Context, server, key, value string) error
}

// Options configures both apps.
type Options struct {
	// User is the signed-in username; empty for anonymous sessions.
	User string
	// Server scopes rows in Store.
	Server  string
	Store   SessionStore
	Timeout time.Duration
	// Rollback restores the previous like/follow state when a toggle fails.
	Rollback bool
	// Open launches a URL in the browser. Defaults to util.OpenBrowser.
	Open func(url string) error
	Now  func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.Open == nil {
		o.Open = util.OpenBrowser
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (o Options) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.Timeout)
}

// Run takes over the terminal until the model quits.
func Run(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// statusTTL is how long transient status lines stay up. Zero keeps them
// until replaced.
var statusTTL = 3 * time.Second

func clearStatusAfter() tea.Cmd {
	if statusTTL <= 0 {
		return nil
	}
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusMsg("")
	})
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			PaddingBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	unreadStyle = lipgloss.NewStyle().Bold(true)

	readStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(9)

	authorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// layout reserves room for the heading, footer and status line.
func listHeight(h int) int {
	if h <= 6 {
		return 0
	}
	return h - 6
}
