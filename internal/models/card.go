package models

import "time"

// Card represents a single card on the kanban board.
// Position is dense within the owning column: the set of positions of a
// column's cards is always {0, ..., M-1}. The reorder engine only ever
// reassigns ColumnID and Position; the remaining fields are opaque
// domain payload.
type Card struct {
	ID          int
	ColumnID    int
	Position    int
	Title       string // primary-language title
	TitleES     string // Spanish title
	Description string // markdown, rendered in the detail view
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayTitle returns the card title for the given language code.
// Falls back to the primary title when no translation exists.
func (c Card) DisplayTitle(lang string) string {
	if lang == "es" && c.TitleES != "" {
		return c.TitleES
	}
	return c.Title
}
