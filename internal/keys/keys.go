package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Open / close a message
	View    key.Binding
	Dismiss key.Binding

	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Mailbox actions
	Refresh       key.Binding
	Copy          key.Binding
	NewMailbox    key.Binding
	DeleteMailbox key.Binding

	// Message actions
	DeleteMessage key.Binding
	Source        key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		View: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open message"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy address"),
		),
		NewMailbox: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new mailbox"),
		),
		DeleteMailbox: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete mailbox"),
		),
		DeleteMessage: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete message"),
		),
		Source: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "view source"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.View, k.Dismiss,
		k.Refresh, k.Copy, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.View, k.Dismiss, k.Quit},
		{k.Refresh, k.Copy, k.NewMailbox, k.DeleteMailbox},
		{k.DeleteMessage, k.Source, k.Command, k.Help},
	}
}
