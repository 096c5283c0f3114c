package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tablero-app/tablero/internal/models"
)

// Memory is the local-only Gateway used for template boards and tests.
// There is no backing store and therefore no change feed: writes are
// visible as soon as the call returns, and Subscribe hands back a
// no-op teardown without ever pushing a snapshot. A session over a
// Memory gateway needs no suppression window because there is no
// external race to suppress.
type Memory struct {
	mu      sync.Mutex
	nextID  int
	boards  map[int]*models.Board
	columns map[int]*models.Column
	cards   map[int]*models.Card
}

var _ Gateway = (*Memory)(nil)

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{
		nextID:  1,
		boards:  make(map[int]*models.Board),
		columns: make(map[int]*models.Column),
		cards:   make(map[int]*models.Card),
	}
}

// CreateBoard creates a new empty board.
func (m *Memory) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b := &models.Board{ID: m.allocID(), Name: name, CreatedAt: time.Now()}
	m.boards[b.ID] = b
	out := *b
	return &out, nil
}

// LoadSnapshot reads the board's current columns and cards.
func (m *Memory) LoadSnapshot(ctx context.Context, boardID int) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boards[boardID]; !ok {
		return models.Snapshot{}, fmt.Errorf("%w: id %d", ErrBoardNotFound, boardID)
	}
	return m.snapshotLocked(boardID), nil
}

// Subscribe is a no-op for local-only boards: there is no feed.
func (m *Memory) Subscribe(boardID int, onSnapshot SnapshotFunc, onError ErrorFunc) (func(), error) {
	return func() {}, nil
}

// ApplyCardUpdates applies a reorder batch to the in-memory cards.
func (m *Memory) ApplyCardUpdates(ctx context.Context, boardID int, updates []models.OrderUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate the whole batch first so a bad entry fails it atomically
	for _, u := range updates {
		if _, ok := m.cards[u.ID]; !ok {
			return fmt.Errorf("%w: id %d", ErrCardNotFound, u.ID)
		}
	}
	for _, u := range updates {
		card := m.cards[u.ID]
		card.Position = u.Position
		if u.ColumnID != nil {
			card.ColumnID = *u.ColumnID
		}
		card.UpdatedAt = time.Now()
	}
	return nil
}

// ApplyColumnUpdates applies a column reorder batch.
func (m *Memory) ApplyColumnUpdates(ctx context.Context, boardID int, updates []models.OrderUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range updates {
		if _, ok := m.columns[u.ID]; !ok {
			return fmt.Errorf("%w: id %d", ErrColumnNotFound, u.ID)
		}
	}
	for _, u := range updates {
		m.columns[u.ID].Position = u.Position
	}
	return nil
}

// CreateCard appends a card at the end of the given column.
func (m *Memory) CreateCard(ctx context.Context, columnID int, title, titleES, description string) (*models.Card, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.columns[columnID]; !ok {
		return nil, fmt.Errorf("%w: id %d", ErrColumnNotFound, columnID)
	}

	position := 0
	for _, c := range m.cards {
		if c.ColumnID == columnID {
			position++
		}
	}

	now := time.Now()
	card := &models.Card{
		ID:          m.allocID(),
		ColumnID:    columnID,
		Position:    position,
		Title:       title,
		TitleES:     titleES,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.cards[card.ID] = card
	out := *card
	return &out, nil
}

// CreateColumn appends a column at the end of the given board.
func (m *Memory) CreateColumn(ctx context.Context, boardID int, name, nameES string) (*models.Column, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boards[boardID]; !ok {
		return nil, fmt.Errorf("%w: id %d", ErrBoardNotFound, boardID)
	}

	position := 0
	for _, c := range m.columns {
		if c.BoardID == boardID {
			position++
		}
	}

	col := &models.Column{
		ID:       m.allocID(),
		BoardID:  boardID,
		Name:     name,
		NameES:   nameES,
		Position: position,
	}
	m.columns[col.ID] = col
	out := *col
	return &out, nil
}

// SetTrackedCount recomputes the tracked column's card count and
// stores it on the board.
func (m *Memory) SetTrackedCount(ctx context.Context, boardID int, trackedLabel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[boardID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrBoardNotFound, boardID)
	}

	count := 0
	for _, col := range m.columns {
		if col.BoardID != boardID || !matchesLabel(col, trackedLabel) {
			continue
		}
		for _, card := range m.cards {
			if card.ColumnID == col.ID {
				count++
			}
		}
	}
	b.TrackedCount = count
	return nil
}

// TrackedCount reads the cached aggregate, mainly for tests.
func (m *Memory) TrackedCount(boardID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.boards[boardID]; ok {
		return b.TrackedCount
	}
	return 0
}

func (m *Memory) snapshotLocked(boardID int) models.Snapshot {
	snap := models.Snapshot{BoardID: boardID, TakenAt: time.Now()}

	for _, col := range m.columns {
		if col.BoardID == boardID {
			snap.Columns = append(snap.Columns, *col)
		}
	}
	sort.SliceStable(snap.Columns, func(i, j int) bool {
		return snap.Columns[i].Position < snap.Columns[j].Position
	})

	for _, col := range snap.Columns {
		var cards []models.Card
		for _, card := range m.cards {
			if card.ColumnID == col.ID {
				cards = append(cards, *card)
			}
		}
		sort.SliceStable(cards, func(i, j int) bool {
			return cards[i].Position < cards[j].Position
		})
		snap.Cards = append(snap.Cards, cards...)
	}
	return snap
}

func (m *Memory) allocID() int {
	id := m.nextID
	m.nextID++
	return id
}

// matchesLabel compares the tracking label against either language
// face of a column name, case-insensitively.
func matchesLabel(col *models.Column, label string) bool {
	if label == "" {
		return false
	}
	return strings.EqualFold(col.Name, label) || strings.EqualFold(col.NameES, label)
}
