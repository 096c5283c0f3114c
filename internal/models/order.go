package models

import "time"

// OrderUpdate is one position reassignment in a reorder batch.
// ColumnID is non-nil only when the entity also changes columns (the
// dragged card on a cross-column move). For column-level reordering
// ColumnID is always nil.
type OrderUpdate struct {
	ID       int
	Position int
	ColumnID *int
}

// Snapshot is a full, point-in-time listing of a board pushed by the
// backing store's change feed. Columns are ordered by position; Cards
// are ordered by (column, position).
type Snapshot struct {
	BoardID int
	Seq     int64
	Columns []Column
	Cards   []Card
	TakenAt time.Time
}
