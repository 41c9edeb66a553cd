package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start    key.Binding
	Reset    key.Binding
	Rock     key.Binding
	Paper    key.Binding
	Scissors key.Binding
	NoHand   key.Binding
	Quit     key.Binding
}

func newKeyMap(manual bool) keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "start round"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Rock: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "rock"),
		),
		Paper: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "paper"),
		),
		Scissors: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "scissors"),
		),
		NoHand: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "no hand"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}.withManual(manual)
}

// withManual enables the gesture keys only when the keyboard is the
// gesture source.
func (k keyMap) withManual(enabled bool) keyMap {
	for _, b := range []*key.Binding{&k.Rock, &k.Paper, &k.Scissors, &k.NoHand} {
		b.SetEnabled(enabled)
	}
	return k
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Rock, k.Paper, k.Scissors, k.NoHand, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Reset, k.Quit},
		{k.Rock, k.Paper, k.Scissors, k.NoHand},
	}
}
