package tui

import "github.com/charmbracelet/lipgloss"

// Style definitions for the kanban board UI
var (
	highlight = lipgloss.Color("#874BFD")
	subtle    = lipgloss.Color("241")

	// ColumnStyle defines the appearance of board columns
	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(30)

	// ActiveColumnStyle highlights the column holding the selection
	ActiveColumnStyle = ColumnStyle.
				BorderForeground(highlight)

	// ColumnTitleStyle renders the column header with its card count
	ColumnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1)

	// CardStyle defines the appearance of individual cards
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1).
			Width(26)

	// SelectedCardStyle highlights the selected card
	SelectedCardStyle = CardStyle.
				BorderForeground(highlight).
				Bold(true)

	// DetailBoxStyle frames the card detail overlay
	DetailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(highlight).
			Padding(1, 2)

	// InputBoxStyle frames the add-card prompt
	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1)

	// ErrorStyle renders transient errors in the footer
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)
