package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mailnet/internal/model"
)

const (
	fieldTo = iota
	fieldSubject
	fieldBody
	numFields
)

// composePane is the mail compose form.
type composePane struct {
	to      textinput.Model
	subject textinput.Model
	body    textarea.Model
	focus   int
	// sent is set once the server accepted the draft, so retiring the pane
	// clears the stored draft instead of saving it.
	sent bool
	// sending blocks a second submit until the first is answered.
	sending bool
}

func newComposePane(d model.Draft, width, height int) *composePane {
	to := textinput.New()
	to.Prompt = "To:      "
	to.Placeholder = "alice@example.com, bob@example.com"
	to.SetValue(d.Recipients)

	subject := textinput.New()
	subject.Prompt = "Subject: "
	subject.SetValue(d.Subject)

	body := textarea.New()
	body.Placeholder = "Body"
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.SetValue(d.Body)

	p := &composePane{to: to, subject: subject, body: body}
	p.resize(width, height)

	// Replies already know the recipient; start in the body.
	if strings.TrimSpace(d.Recipients) != "" {
		p.focusField(fieldBody)
	} else {
		p.focusField(fieldTo)
	}
	return p
}

func (p *composePane) resize(width, height int) {
	if width > 0 {
		p.to.Width = width - len(p.to.Prompt) - 1
		p.subject.Width = width - len(p.subject.Prompt) - 1
		p.body.SetWidth(width)
	}
	if h := listHeight(height) - 3; h > 3 {
		p.body.SetHeight(h)
	}
}

func (p *composePane) draft() model.Draft {
	return model.Draft{
		Recipients: p.to.Value(),
		Subject:    p.subject.Value(),
		Body:       p.body.Value(),
	}
}

func (p *composePane) focusField(f int) tea.Cmd {
	p.focus = f
	p.to.Blur()
	p.subject.Blur()
	p.body.Blur()
	switch f {
	case fieldTo:
		return p.to.Focus()
	case fieldSubject:
		return p.subject.Focus()
	default:
		return p.body.Focus()
	}
}

func (p *composePane) cycle(delta int) tea.Cmd {
	return p.focusField((p.focus + delta + numFields) % numFields)
}

func (p *composePane) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case fieldTo:
		p.to, cmd = p.to.Update(msg)
	case fieldSubject:
		p.subject, cmd = p.subject.Update(msg)
	default:
		p.body, cmd = p.body.Update(msg)
	}
	return cmd
}

func (p *composePane) view() string {
	return headerStyle.Render("New Email") + "\n" +
		p.to.View() + "\n" +
		p.subject.View() + "\n\n" +
		p.body.View()
}

func composeFooter() string {
	k := mailKeys
	return helpLine(k.Submit, k.NextField, k.Cancel)
}
