package state

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the TUI key bindings. It implements help.KeyMap.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextFilter  key.Binding
	All         key.Binding
	Read        key.Binding
	Unread      key.Binding
	MarkRead    key.Binding
	MarkAllRead key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next filter"),
		),
		All: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		Read: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "read"),
		),
		Unread: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "unread"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "mark all read"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFilter, k.MarkRead, k.MarkAllRead, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped in columns.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextFilter, k.All, k.Read, k.Unread},
		{k.MarkRead, k.MarkAllRead, k.Refresh},
		{k.Help, k.Quit},
	}
}
