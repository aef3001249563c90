package tui

import "github.com/charmbracelet/bubbles/key"

type mailKeyMap struct {
	Open          key.Binding
	Compose       key.Binding
	Inbox         key.Binding
	Sent          key.Binding
	Archived      key.Binding
	Reload        key.Binding
	Back          key.Binding
	Cancel        key.Binding
	Reply         key.Binding
	ToggleArchive key.Binding
	Markdown      key.Binding
	NextField     key.Binding
	PrevField     key.Binding
	Submit        key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

var mailKeys = mailKeyMap{
	Open:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Compose:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compose")),
	Inbox:         key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inbox")),
	Sent:          key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sent")),
	Archived:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archived")),
	Reload:        key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Back:          key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Reply:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reply")),
	ToggleArchive: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "archive/unarchive")),
	Markdown:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "markdown")),
	NextField:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevField:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Submit:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
	Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
}

type feedKeyMap struct {
	Like      key.Binding
	Edit      key.Binding
	NewPost   key.Binding
	Profile   key.Binding
	AllPosts  key.Binding
	Follow    key.Binding
	Browser   key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Reload    key.Binding
	Back      key.Binding
	Submit    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var feedKeys = feedKeyMap{
	Like:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	NewPost:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new post")),
	Profile:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
	AllPosts:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "all posts")),
	Follow:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
	Browser:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
	PrevPage:  key.NewBinding(key.WithKeys("left", "["), key.WithHelp("←", "previous")),
	NextPage:  key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→", "next")),
	Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

// helpLine renders bindings the way the footers show them.
func helpLine(bs ...key.Binding) string {
	out := ""
	for i, b := range bs {
		h := b.Help()
		if i > 0 {
			out += "  "
		}
		out += h.Key + ": " + h.Desc
	}
	return footerStyle.Render(out)
}
