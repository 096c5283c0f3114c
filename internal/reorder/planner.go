// Package reorder turns a completed drag into the set of position
// reassignments needed to keep every touched column dense. Planning is
// pure: inputs are never mutated and no I/O happens here.
package reorder

import (
	"github.com/tablero-app/tablero/internal/models"
)

// CardMove describes a completed card drag: where the card was picked
// up and where it was dropped. ToIndex may exceed the destination
// column's length; it is clamped to an append.
type CardMove struct {
	CardID       int
	FromColumnID int
	FromIndex    int
	ToColumnID   int
	ToIndex      int
}

// ColumnMove describes a completed column drag within the board's
// column list.
type ColumnMove struct {
	FromIndex int
	ToIndex   int
}

// PlanCardMove computes the order updates for a card move. source and
// dest are the current ordered card lists of the move's columns; for a
// same-column move dest is ignored and source is used for both ends.
//
// The plan contains one entry for every card in every column the move
// touches, positions reassigned to the card's index in the post-move
// list. Columns not touched by the move are never re-issued. A drop on
// the card's current slot returns an empty plan.
func PlanCardMove(source, dest []models.Card, mv CardMove) ([]models.OrderUpdate, error) {
	if mv.FromIndex < 0 || mv.FromIndex >= len(source) {
		return nil, ErrSourceOutOfRange
	}
	if source[mv.FromIndex].ID != mv.CardID {
		return nil, ErrCardNotAtSource
	}

	sameColumn := mv.FromColumnID == mv.ToColumnID
	if sameColumn {
		dest = source
	}

	// Remove from source, clamp the destination slot, insert.
	picked := source[mv.FromIndex]
	newSource := removeAt(source, mv.FromIndex)

	insertInto := dest
	if sameColumn {
		insertInto = newSource
	}
	toIndex := clamp(mv.ToIndex, len(insertInto))

	if sameColumn && toIndex == mv.FromIndex {
		// Dropped back where it started.
		return nil, nil
	}

	newDest := insertAt(insertInto, toIndex, picked)

	var updates []models.OrderUpdate
	if sameColumn {
		updates = appendReindexed(updates, newDest, mv.CardID, nil)
		return updates, nil
	}

	toColumnID := mv.ToColumnID
	updates = appendReindexed(updates, newSource, mv.CardID, nil)
	updates = appendReindexed(updates, newDest, mv.CardID, &toColumnID)
	return updates, nil
}

// PlanColumnMove computes the order updates for reordering the board's
// column list itself. The same removal/insertion/dense-reassignment
// procedure applies, with the column list in place of a card list.
func PlanColumnMove(columns []models.Column, mv ColumnMove) ([]models.OrderUpdate, error) {
	if mv.FromIndex < 0 || mv.FromIndex >= len(columns) {
		return nil, ErrSourceOutOfRange
	}

	picked := columns[mv.FromIndex]
	remaining := make([]models.Column, 0, len(columns)-1)
	remaining = append(remaining, columns[:mv.FromIndex]...)
	remaining = append(remaining, columns[mv.FromIndex+1:]...)

	toIndex := clamp(mv.ToIndex, len(remaining))
	if toIndex == mv.FromIndex {
		return nil, nil
	}

	reordered := make([]models.Column, 0, len(columns))
	reordered = append(reordered, remaining[:toIndex]...)
	reordered = append(reordered, picked)
	reordered = append(reordered, remaining[toIndex:]...)

	updates := make([]models.OrderUpdate, 0, len(reordered))
	for i, col := range reordered {
		updates = append(updates, models.OrderUpdate{ID: col.ID, Position: i})
	}
	return updates, nil
}

// appendReindexed emits one update per card in list, position = index.
// movedColumnID is attached to the moved card's entry only.
func appendReindexed(updates []models.OrderUpdate, list []models.Card, movedID int, movedColumnID *int) []models.OrderUpdate {
	for i, card := range list {
		u := models.OrderUpdate{ID: card.ID, Position: i}
		if card.ID == movedID {
			u.ColumnID = movedColumnID
		}
		updates = append(updates, u)
	}
	return updates
}

func removeAt(list []models.Card, i int) []models.Card {
	out := make([]models.Card, 0, len(list)-1)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return out
}

func insertAt(list []models.Card, i int, card models.Card) []models.Card {
	out := make([]models.Card, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, card)
	out = append(out, list[i:]...)
	return out
}

// clamp bounds a destination index to [0, length] so an over-long drop
// becomes an append.
func clamp(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}
