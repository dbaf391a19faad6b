package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding

	// Navigation
	Clients key.Binding
	Budgets key.Binding
	Refresh key.Binding

	// Movement
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Sort     key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Clients:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clients")),
	Budgets:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "budgets")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PrevPage: key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "previous page")),
	NextPage: key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
}
