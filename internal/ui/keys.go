package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev key.Binding
	Next key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Prev: key.NewBinding(
		key.WithKeys("left", "shift+tab"),
		key.WithHelp("←", "prev tab"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "tab"),
		key.WithHelp("→", "next tab"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Prev, k.Next}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
