package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/tablero-app/tablero/internal/config"
)

// keyMap holds the board's key bindings, built from the user's
// configured mappings. It implements help.KeyMap.
type keyMap struct {
	AddCard       key.Binding
	ViewCard      key.Binding
	MoveCardLeft  key.Binding
	MoveCardRight key.Binding
	MoveCardUp    key.Binding
	MoveCardDown  key.Binding

	MoveColumnLeft  key.Binding
	MoveColumnRight key.Binding

	PrevColumn key.Binding
	NextColumn key.Binding
	PrevCard   key.Binding
	NextCard   key.Binding

	ToggleLanguage key.Binding
	ShowHelp       key.Binding
	Quit           key.Binding
}

func newKeyMap(m config.KeyMappings) keyMap {
	return keyMap{
		AddCard:       key.NewBinding(key.WithKeys(m.AddCard), key.WithHelp(m.AddCard, "add card")),
		ViewCard:      key.NewBinding(key.WithKeys(m.ViewCard), key.WithHelp(m.ViewCard, "view card")),
		MoveCardLeft:  key.NewBinding(key.WithKeys(m.MoveCardLeft), key.WithHelp(m.MoveCardLeft, "move card left")),
		MoveCardRight: key.NewBinding(key.WithKeys(m.MoveCardRight), key.WithHelp(m.MoveCardRight, "move card right")),
		MoveCardUp:    key.NewBinding(key.WithKeys(m.MoveCardUp), key.WithHelp(m.MoveCardUp, "move card up")),
		MoveCardDown:  key.NewBinding(key.WithKeys(m.MoveCardDown), key.WithHelp(m.MoveCardDown, "move card down")),

		MoveColumnLeft:  key.NewBinding(key.WithKeys(m.MoveColumnLeft), key.WithHelp(m.MoveColumnLeft, "move column left")),
		MoveColumnRight: key.NewBinding(key.WithKeys(m.MoveColumnRight), key.WithHelp(m.MoveColumnRight, "move column right")),

		PrevColumn: key.NewBinding(key.WithKeys(m.PrevColumn), key.WithHelp(m.PrevColumn, "prev column")),
		NextColumn: key.NewBinding(key.WithKeys(m.NextColumn), key.WithHelp(m.NextColumn, "next column")),
		PrevCard:   key.NewBinding(key.WithKeys(m.PrevCard), key.WithHelp(m.PrevCard, "prev card")),
		NextCard:   key.NewBinding(key.WithKeys(m.NextCard), key.WithHelp(m.NextCard, "next card")),

		ToggleLanguage: key.NewBinding(key.WithKeys(m.ToggleLanguage), key.WithHelp(m.ToggleLanguage, "toggle language")),
		ShowHelp:       key.NewBinding(key.WithKeys(m.ShowHelp), key.WithHelp(m.ShowHelp, "help")),
		Quit:           key.NewBinding(key.WithKeys(m.Quit, "ctrl+c"), key.WithHelp(m.Quit, "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextCard, k.PrevCard, k.NextColumn, k.PrevColumn, k.ShowHelp, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevColumn, k.NextColumn, k.PrevCard, k.NextCard},
		{k.MoveCardLeft, k.MoveCardRight, k.MoveCardUp, k.MoveCardDown},
		{k.MoveColumnLeft, k.MoveColumnRight, k.AddCard, k.ViewCard},
		{k.ToggleLanguage, k.ShowHelp, k.Quit},
	}
}
