package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"

	"mailnet/internal/model"
	"mailnet/internal/util"
)

// detailPane shows one email. It is attached before the record arrives so
// the user sees the pane switch immediately.
type detailPane struct {
	id       int64
	email    *model.Email
	vp       viewport.Model
	markdown bool
}

func newDetailPane(id int64, width, height int) *detailPane {
	vp := viewport.New(width, listHeight(height))
	vp.SetContent("Loading message...")
	return &detailPane{id: id, vp: vp}
}

func (p *detailPane) setEmail(e model.Email, now time.Time) {
	p.email = &e
	p.refresh(now)
	p.vp.GotoTop()
}

func (p *detailPane) toggleMarkdown(now time.Time) {
	p.markdown = !p.markdown
	p.refresh(now)
}

func (p *detailPane) refresh(now time.Time) {
	if p.email == nil {
		return
	}
	body := util.Sanitize(p.email.Body)
	if p.markdown {
		body = renderMarkdown(body, p.vp.Width)
	}
	p.vp.SetContent(detailHeader(*p.email, now) + "\n\n" + body)
}

func (p *detailPane) resize(width, height int) {
	p.vp.Width = width
	p.vp.Height = listHeight(height)
}

func detailHeader(e model.Email, now time.Time) string {
	when := util.OneLine(e.Timestamp)
	if rel := util.Relative(e.Timestamp, now); rel != e.Timestamp {
		when += " (" + rel + ")"
	}
	return headerStyle.Render(fmt.Sprintf("%s%s\n%s%s\n%s%s\n%s%s",
		labelStyle.Render("From:"), util.OneLine(e.Sender),
		labelStyle.Render("To:"), util.OneLine(util.JoinRecipients(e.Recipients)),
		labelStyle.Render("Subject:"), util.OneLine(e.Subject),
		labelStyle.Render("Date:"), when))
}

func detailFooter(e *model.Email) string {
	k := mailKeys
	archive := k.ToggleArchive
	if e != nil {
		if e.Archived {
			archive.SetHelp("e", "unarchive")
		} else {
			archive.SetHelp("e", "archive")
		}
	}
	return helpLine(k.Reply, archive, k.Markdown, k.Back, k.Quit)
}

// EmailText renders an email as plain text for headless output.
func EmailText(e model.Email) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", util.OneLine(e.Sender))
	fmt.Fprintf(&b, "To: %s\n", util.OneLine(util.JoinRecipients(e.Recipients)))
	fmt.Fprintf(&b, "Subject: %s\n", util.OneLine(e.Subject))
	fmt.Fprintf(&b, "Date: %s\n\n", util.OneLine(e.Timestamp))
	b.WriteString(util.Sanitize(e.Body))
	b.WriteString("\n")
	return b.String()
}
