package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the explorer key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	BigLeft  key.Binding
	BigRight key.Binding
	Marital  key.Binding
	Trace    key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous field")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "tab"), key.WithHelp("↓/j", "next field")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		BigLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "decrease ×10")),
		BigRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "increase ×10")),
		Marital:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "single/married")),
		Trace:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "rule trace")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Trace, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.BigLeft, k.BigRight, k.Marital},
		{k.Trace, k.Reset, k.Help, k.Quit},
	}
}
