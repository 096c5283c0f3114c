// Package board holds the in-memory representation of one board: its
// ordered column list and the ordered card list of each column. The
// state is owned by a single session and mutated synchronously; it
// performs no I/O and no locking of its own.
package board

import (
	"fmt"
	"sort"

	"github.com/tablero-app/tablero/internal/models"
)

// State is the ordered in-memory store for one board.
type State struct {
	boardID int
	columns []models.Column       // sorted by Position
	cards   map[int][]models.Card // columnID -> cards sorted by Position
}

// NewState creates an empty state for the given board.
func NewState(boardID int) *State {
	return &State{
		boardID: boardID,
		cards:   make(map[int][]models.Card),
	}
}

// BoardID returns the owning board's id.
func (s *State) BoardID() int {
	return s.boardID
}

// Replace swaps the entire state for the given column and card lists,
// regrouping cards by column and sorting every collection by position.
// Used when an (overlaid) snapshot takes over.
func (s *State) Replace(columns []models.Column, cards []models.Card) {
	s.columns = make([]models.Column, len(columns))
	copy(s.columns, columns)
	sort.SliceStable(s.columns, func(i, j int) bool {
		return s.columns[i].Position < s.columns[j].Position
	})

	s.cards = make(map[int][]models.Card, len(columns))
	for _, col := range s.columns {
		s.cards[col.ID] = nil
	}
	for _, card := range cards {
		s.cards[card.ColumnID] = append(s.cards[card.ColumnID], card)
	}
	for id := range s.cards {
		list := s.cards[id]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Position < list[j].Position
		})
		s.cards[id] = list
	}
}

// Columns returns the board's columns in display order. The slice is a
// copy; mutating it does not affect the state.
func (s *State) Columns() []models.Column {
	out := make([]models.Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Cards returns the given column's cards in display order as a copy.
func (s *State) Cards(columnID int) []models.Card {
	list := s.cards[columnID]
	out := make([]models.Card, len(list))
	copy(out, list)
	return out
}

// AllCards returns every card on the board, grouped by column in
// column display order.
func (s *State) AllCards() []models.Card {
	var out []models.Card
	for _, col := range s.columns {
		out = append(out, s.cards[col.ID]...)
	}
	return out
}

// FindCard locates a card by id, returning its column and index within
// that column's ordered list.
func (s *State) FindCard(cardID int) (columnID, index int, ok bool) {
	for colID, list := range s.cards {
		for i, card := range list {
			if card.ID == cardID {
				return colID, i, true
			}
		}
	}
	return 0, 0, false
}

// ColumnByID returns the column with the given id.
func (s *State) ColumnByID(columnID int) (models.Column, bool) {
	for _, col := range s.columns {
		if col.ID == columnID {
			return col, true
		}
	}
	return models.Column{}, false
}

// ApplyCardUpdates applies a reorder plan to the in-memory cards:
// positions (and, for the moved card, the column) are reassigned and
// the touched columns re-sorted. The plan must reference known cards.
func (s *State) ApplyCardUpdates(updates []models.OrderUpdate) error {
	touched := make(map[int]bool)

	for _, u := range updates {
		colID, idx, ok := s.FindCard(u.ID)
		if !ok {
			return fmt.Errorf("%w: id %d", ErrUnknownCard, u.ID)
		}

		card := s.cards[colID][idx]
		card.Position = u.Position
		if u.ColumnID != nil && *u.ColumnID != colID {
			// Move between column lists
			s.cards[colID] = append(s.cards[colID][:idx], s.cards[colID][idx+1:]...)
			card.ColumnID = *u.ColumnID
			s.cards[card.ColumnID] = append(s.cards[card.ColumnID], card)
			touched[card.ColumnID] = true
		} else {
			s.cards[colID][idx] = card
		}
		touched[colID] = true
	}

	for colID := range touched {
		list := s.cards[colID]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Position < list[j].Position
		})
		s.cards[colID] = list
	}
	return nil
}

// ApplyColumnUpdates applies a column reorder plan and re-sorts the
// column list.
func (s *State) ApplyColumnUpdates(updates []models.OrderUpdate) error {
	for _, u := range updates {
		found := false
		for i := range s.columns {
			if s.columns[i].ID == u.ID {
				s.columns[i].Position = u.Position
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: id %d", ErrUnknownColumn, u.ID)
		}
	}
	sort.SliceStable(s.columns, func(i, j int) bool {
		return s.columns[i].Position < s.columns[j].Position
	})
	return nil
}

// AppendCard places a newly created card at the end of its column.
// Creation itself happens at the gateway; this mirrors it locally.
func (s *State) AppendCard(card models.Card) {
	card.Position = len(s.cards[card.ColumnID])
	s.cards[card.ColumnID] = append(s.cards[card.ColumnID], card)
}

// AppendColumn places a newly created column at the end of the board.
func (s *State) AppendColumn(col models.Column) {
	col.Position = len(s.columns)
	s.columns = append(s.columns, col)
	if _, ok := s.cards[col.ID]; !ok {
		s.cards[col.ID] = nil
	}
}

// Validate checks the dense-order invariant: every column's card
// positions are exactly {0..count-1} and the column positions are
// {0..N-1}. A violation means a planner or overlay bug.
func (s *State) Validate() error {
	if err := checkDense(len(s.columns), func(i int) int { return s.columns[i].Position }); err != nil {
		return fmt.Errorf("board %d columns: %w", s.boardID, err)
	}
	for colID, list := range s.cards {
		if err := checkDense(len(list), func(i int) int { return list[i].Position }); err != nil {
			return fmt.Errorf("column %d: %w", colID, err)
		}
	}
	return nil
}

// checkDense verifies that n positions form the set {0..n-1}.
func checkDense(n int, position func(int) int) error {
	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		p := position(i)
		if p < 0 || p >= n {
			return fmt.Errorf("%w: position %d with %d entries", ErrPositionGap, p, n)
		}
		if seen[p] {
			return fmt.Errorf("%w: position %d", ErrDuplicatePosition, p)
		}
		seen[p] = true
	}
	return nil
}
