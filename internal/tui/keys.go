package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of the time input.
type KeyMap struct {
	Commit key.Binding
	Erase  key.Binding
	Clear  key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default time input bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Erase: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "erase digit"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Erase, k.Cancel}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Commit, k.Erase, k.Clear, k.Cancel}}
}
