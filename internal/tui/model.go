package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tablero-app/tablero/internal/config"
	"github.com/tablero-app/tablero/internal/session"
)

// mode is the current input mode of the board view
type mode int

const (
	normalMode mode = iota
	detailMode
	addCardMode
	helpMode
)

// boardChangedMsg tells the program the session's store was swapped
// (a local move applied or a snapshot arrived) and a repaint is due.
type boardChangedMsg struct{}

// Model represents the application state for the TUI
type Model struct {
	session *session.Session
	keys    keyMap
	help    help.Model
	lang    string

	width  int
	height int
	mode   mode

	selectedColumn int
	selectedCard   int

	// add-card prompt
	input textinput.Model

	// card detail overlay, pre-rendered with glamour
	detailBody string

	lastErr error

	// refresh carries session change notifications into the Bubble
	// Tea loop; the session callback does a non-blocking send.
	refresh chan struct{}
}

// New creates the board view over a started session.
func New(sess *session.Session, cfg *config.Config) *Model {
	input := textinput.New()
	input.CharLimit = 120
	input.Width = 40

	m := &Model{
		session: sess,
		keys:    newKeyMap(cfg.KeyMappings),
		help:    help.New(),
		lang:    cfg.Language,
		input:   input,
		refresh: make(chan struct{}, 1),
	}

	sess.SetOnChange(func() {
		select {
		case m.refresh <- struct{}{}:
		default:
		}
	})

	return m
}

// Init starts the refresh listener.
// Required by the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return m.waitForRefresh()
}

// waitForRefresh blocks until the session reports a change.
func (m *Model) waitForRefresh() tea.Cmd {
	return func() tea.Msg {
		<-m.refresh
		return boardChangedMsg{}
	}
}

// clampSelection keeps the selection on a real column/card after the
// store changed underneath it.
func (m *Model) clampSelection() {
	columns := m.session.Columns()
	if len(columns) == 0 {
		m.selectedColumn = 0
		m.selectedCard = 0
		return
	}
	if m.selectedColumn >= len(columns) {
		m.selectedColumn = len(columns) - 1
	}
	if m.selectedColumn < 0 {
		m.selectedColumn = 0
	}

	cards := m.session.Cards(columns[m.selectedColumn].ID)
	if m.selectedCard >= len(cards) {
		m.selectedCard = len(cards) - 1
	}
	if m.selectedCard < 0 {
		m.selectedCard = 0
	}
}
