package models

// Column represents a kanban board column (e.g., "Todo", "In Progress", "Done").
// Position is dense across all columns of the owning board: the set of
// positions on a board is always {0, ..., N-1}.
type Column struct {
	ID       int
	BoardID  int
	Name     string // primary-language name
	NameES   string // Spanish name, shown when the board language is "es"
	Position int
}

// DisplayName returns the column name for the given language code.
// Falls back to the primary name when no translation exists.
func (c Column) DisplayName(lang string) string {
	if lang == "es" && c.NameES != "" {
		return c.NameES
	}
	return c.Name
}
