package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tablero-app/tablero/internal/models"
)

// View renders the board
func (m *Model) View() string {
	switch m.mode {
	case detailMode:
		return m.viewDetail()
	case addCardMode:
		return m.viewAddCard()
	case helpMode:
		return m.viewHelp()
	default:
		return m.viewBoard()
	}
}

func (m *Model) viewBoard() string {
	columns := m.session.Columns()
	if len(columns) == 0 {
		return "No columns yet. Press 'a' to add a card once a column exists."
	}

	lanes := make([]string, 0, len(columns))
	for i, col := range columns {
		lanes = append(lanes, m.renderColumn(col, i == m.selectedColumn))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, lanes...)
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, board, footer)
}

// renderColumn renders one lane with its header and cards
func (m *Model) renderColumn(col models.Column, active bool) string {
	cards := m.session.Cards(col.ID)

	header := ColumnTitleStyle.Render(
		fmt.Sprintf("%s (%d)", col.DisplayName(m.lang), len(cards)))

	body := make([]string, 0, len(cards)+1)
	body = append(body, header)
	for i, card := range cards {
		style := CardStyle
		if active && i == m.selectedCard {
			style = SelectedCardStyle
		}
		body = append(body, style.Render(card.DisplayTitle(m.lang)))
	}

	lane := strings.Join(body, "\n")
	if active {
		return ActiveColumnStyle.Render(lane)
	}
	return ColumnStyle.Render(lane)
}

func (m *Model) renderFooter() string {
	helpView := m.help.View(m.keys)
	if m.lastErr != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			ErrorStyle.Render(m.lastErr.Error()), helpView)
	}
	return helpView
}

func (m *Model) viewDetail() string {
	box := DetailBoxStyle.Render(m.detailBody)
	return m.center(box)
}

func (m *Model) viewAddCard() string {
	prompt := InputBoxStyle.Render("New card title:\n" + m.input.View())
	return m.center(prompt)
}

func (m *Model) viewHelp() string {
	return m.center(m.help.FullHelpView(m.keys.FullHelp()))
}

// center places content in the middle of the terminal when the size is
// known, and returns it untouched before the first WindowSizeMsg.
func (m *Model) center(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// renderDetail renders a card's description as markdown. Falls back to
// the raw text when the renderer cannot be built.
func (m *Model) renderDetail(card models.Card) string {
	width := 60
	if m.width > 0 && m.width-10 < width {
		width = m.width - 10
	}

	body := card.Description
	if body == "" {
		body = "*No description*"
	}
	source := fmt.Sprintf("# %s\n\n%s", card.DisplayTitle(m.lang), body)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return source
	}
	out, err := renderer.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimRight(out, "\n")
}
