package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding; bindings are enabled per view so help only
// lists what currently does something.
type keyMap struct {
	Rounds  key.Binding
	Start   key.Binding
	Left    key.Binding
	Right   key.Binding
	Play    key.Binding
	Results key.Binding
	Again   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Rounds: key.NewBinding(
			key.WithKeys("r", "+"),
			key.WithHelp("r", "change rounds"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "start"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play move"),
		),
		Results: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "view results"),
		),
		Again: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a", "play again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rounds, k.Start, k.Left, k.Right, k.Play, k.Results, k.Again, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
