package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Paging
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding

	// Flip controller
	TogglePeek key.Binding
	Reload     key.Binding
	Cancel     key.Binding
	Suspend    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		Next: key.NewBinding(
			key.WithKeys("right", "down", "l", "j", "pgdown", " "),
			key.WithHelp("→/l", "Next page"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "up", "k", "pgup", "backspace"),
			key.WithHelp("←/k", "Previous page"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First page"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last page"),
		),

		TogglePeek: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Toggle edge peek"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload pages"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel flips"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "Suspend"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.TogglePeek, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last},
		{k.TogglePeek, k.Reload, k.Cancel, k.Suspend},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
