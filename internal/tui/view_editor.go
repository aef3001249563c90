package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"mailnet/internal/mutate"
)

// editorPane edits a post in place, or writes a new one when buf.PostID is
// zero.
type editorPane struct {
	buf  mutate.EditBuffer
	area textarea.Model
	busy bool
}

func newEditorPane(buf mutate.EditBuffer, width, height int) *editorPane {
	area := textarea.New()
	area.ShowLineNumbers = false
	area.CharLimit = 0
	area.Placeholder = "What's happening?"
	area.SetValue(buf.Content)
	p := &editorPane{buf: buf, area: area}
	p.resize(width, height)
	p.area.Focus()
	return p
}

func (p *editorPane) resize(width, height int) {
	if width > 0 {
		p.area.SetWidth(width)
	}
	if h := listHeight(height); h > 3 {
		p.area.SetHeight(h)
	}
}

func (p *editorPane) buffer() mutate.EditBuffer {
	b := p.buf
	b.Content = p.area.Value()
	return b
}

func (p *editorPane) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.area, cmd = p.area.Update(msg)
	return cmd
}

func (p *editorPane) view() string {
	title := "New Post"
	if p.buf.PostID != 0 {
		title = "Edit Post"
	}
	return headerStyle.Render(title) + "\n" + p.area.View()
}

func editorFooter(editing bool) string {
	k := feedKeys
	submit := k.Submit
	if !editing {
		submit.SetHelp("ctrl+s", "post")
	}
	return helpLine(submit, k.Back)
}
