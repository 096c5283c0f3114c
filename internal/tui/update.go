package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tablero-app/tablero/internal/models"
)

// Update handles all messages and updates the model accordingly
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case boardChangedMsg:
		m.clampSelection()
		return m, m.waitForRefresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case detailMode:
			return m.updateDetail(msg)
		case addCardMode:
			return m.updateAddCard(msg)
		case helpMode:
			return m.updateHelp(msg)
		default:
			return m.updateNormal(msg)
		}
	}

	return m, nil
}

// updateNormal handles input on the board itself
func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ShowHelp):
		m.mode = helpMode

	case key.Matches(msg, m.keys.ToggleLanguage):
		if m.lang == "es" {
			m.lang = "en"
		} else {
			m.lang = "es"
		}

	// Navigation
	case key.Matches(msg, m.keys.PrevColumn):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.clampSelection()
		}
	case key.Matches(msg, m.keys.NextColumn):
		if m.selectedColumn < len(m.session.Columns())-1 {
			m.selectedColumn++
			m.clampSelection()
		}
	case key.Matches(msg, m.keys.PrevCard):
		if m.selectedCard > 0 {
			m.selectedCard--
		}
	case key.Matches(msg, m.keys.NextCard):
		if _, ok := m.selectedCardAt(m.selectedColumn, m.selectedCard+1); ok {
			m.selectedCard++
		}

	// Card moves (these drive the reorder engine)
	case key.Matches(msg, m.keys.MoveCardLeft):
		m.moveSelectedCard(-1, m.selectedCard)
	case key.Matches(msg, m.keys.MoveCardRight):
		m.moveSelectedCard(+1, m.selectedCard)
	case key.Matches(msg, m.keys.MoveCardUp):
		m.moveSelectedCardWithin(m.selectedCard - 1)
	case key.Matches(msg, m.keys.MoveCardDown):
		m.moveSelectedCardWithin(m.selectedCard + 1)

	// Column moves
	case key.Matches(msg, m.keys.MoveColumnLeft):
		m.moveSelectedColumn(-1)
	case key.Matches(msg, m.keys.MoveColumnRight):
		m.moveSelectedColumn(+1)

	case key.Matches(msg, m.keys.AddCard):
		m.mode = addCardMode
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.ViewCard):
		if card, ok := m.currentCard(); ok {
			m.detailBody = m.renderDetail(card)
			m.mode = detailMode
		}
	}

	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q", " ":
		m.mode = normalMode
		m.detailBody = ""
	}
	return m, nil
}

func (m *Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q", "?", " ":
		m.mode = normalMode
	}
	return m, nil
}

// updateAddCard handles the inline new-card prompt; editing itself is
// delegated to the textinput component.
func (m *Model) updateAddCard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = normalMode
		m.input.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		m.mode = normalMode
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		columns := m.session.Columns()
		if len(columns) == 0 {
			return m, nil
		}
		if _, err := m.session.CreateCard(context.Background(), columns[m.selectedColumn].ID, title, "", ""); err != nil {
			m.lastErr = err
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// currentCard returns the selected card, if any
func (m *Model) currentCard() (models.Card, bool) {
	columns := m.session.Columns()
	if m.selectedColumn >= len(columns) {
		return models.Card{}, false
	}
	cards := m.session.Cards(columns[m.selectedColumn].ID)
	if m.selectedCard >= len(cards) {
		return models.Card{}, false
	}
	return cards[m.selectedCard], true
}

// selectedCardAt peeks at a card by column index and card index
func (m *Model) selectedCardAt(columnIdx, cardIdx int) (models.Card, bool) {
	columns := m.session.Columns()
	if columnIdx < 0 || columnIdx >= len(columns) {
		return models.Card{}, false
	}
	cards := m.session.Cards(columns[columnIdx].ID)
	if cardIdx < 0 || cardIdx >= len(cards) {
		return models.Card{}, false
	}
	return cards[cardIdx], true
}

// moveSelectedCard drops the selected card into an adjacent column at
// the same index (clamped to append by the planner).
func (m *Model) moveSelectedCard(direction, toIndex int) {
	card, ok := m.currentCard()
	if !ok {
		return
	}
	columns := m.session.Columns()
	target := m.selectedColumn + direction
	if target < 0 || target >= len(columns) {
		return
	}

	if err := m.session.MoveCard(context.Background(), card.ID, columns[target].ID, toIndex); err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.selectedColumn = target
	m.clampSelection()
}

// moveSelectedCardWithin reorders the selected card inside its column
func (m *Model) moveSelectedCardWithin(toIndex int) {
	card, ok := m.currentCard()
	if !ok || toIndex < 0 {
		return
	}
	columns := m.session.Columns()
	cards := m.session.Cards(columns[m.selectedColumn].ID)
	if toIndex >= len(cards) {
		return
	}

	if err := m.session.MoveCard(context.Background(), card.ID, columns[m.selectedColumn].ID, toIndex); err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.selectedCard = toIndex
}

// moveSelectedColumn reorders the selected column within the board
func (m *Model) moveSelectedColumn(direction int) {
	columns := m.session.Columns()
	target := m.selectedColumn + direction
	if target < 0 || target >= len(columns) {
		return
	}

	if err := m.session.MoveColumn(context.Background(), m.selectedColumn, target); err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.selectedColumn = target
}
