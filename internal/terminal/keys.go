package terminal

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the picker's key bindings.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Drill key.Binding
	Copy  key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap mirrors a launcher: arrows move, tab drills into an entry,
// enter copies, esc goes back.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p", "ctrl+k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n", "ctrl+j"),
		key.WithHelp("↓", "down"),
	),
	Drill: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "show fields"),
	),
	Copy: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "copy"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "shift+tab"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
