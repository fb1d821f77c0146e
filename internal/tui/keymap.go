package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global key bindings.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	PlayPause key.Binding
	Slower    key.Binding
	Faster    key.Binding
	Stop      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Slower: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "slower"),
		),
		Faster: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "faster"),
		),
		Stop: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "select stop"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Slower, k.Faster, k.Stop, k.Quit}
}
