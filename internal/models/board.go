package models

import "time"

// Board is the parent entity for a set of columns and their cards.
// TrackedCount is a cached aggregate: the number of cards currently
// sitting in the board's tracked column (matched by name against the
// configured tracking label). It is best-effort and recomputed after
// moves that cross the tracked column.
type Board struct {
	ID           int
	Name         string
	TrackedCount int
	CreatedAt    time.Time
}
