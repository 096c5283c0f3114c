// Package aggregate maintains the cached tracked-column count on a
// board. The count is a best-effort, eventually-consistent cache:
// recomputation failures are logged and never affect the reorder that
// triggered them.
package aggregate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tablero-app/tablero/internal/models"
)

// CountWriter is the slice of the persistence gateway the recomputer
// needs: recompute and persist the tracked column's card count.
type CountWriter interface {
	SetTrackedCount(ctx context.Context, boardID int, trackedLabel string) error
}

// Recomputer recomputes the cached count when a move crosses the
// tracked column.
type Recomputer struct {
	writer CountWriter
	label  string
	logger *slog.Logger
}

// New creates a Recomputer. An empty label disables tracking entirely.
func New(writer CountWriter, label string, logger *slog.Logger) *Recomputer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recomputer{writer: writer, label: label, logger: logger}
}

// Tracks reports whether the given column is the tracked column. Both
// language faces of the column name are matched, case-insensitively.
func (r *Recomputer) Tracks(col models.Column) bool {
	if r.label == "" {
		return false
	}
	return strings.EqualFold(col.Name, r.label) || strings.EqualFold(col.NameES, r.label)
}

// Crosses reports whether a move between the two columns enters or
// leaves the tracked column. Same-column moves never cross.
func (r *Recomputer) Crosses(from, to models.Column) bool {
	if from.ID == to.ID {
		return false
	}
	return r.Tracks(from) || r.Tracks(to)
}

// Recompute recounts the tracked column and persists the result on the
// board. Failures are logged, not returned: the caller's reorder has
// already succeeded and must not be rolled back over a stale cache.
func (r *Recomputer) Recompute(ctx context.Context, boardID int) {
	if r.label == "" {
		return
	}
	if err := r.writer.SetTrackedCount(ctx, boardID, r.label); err != nil {
		r.logger.Error("tracked count recompute failed",
			"board_id", boardID,
			"label", r.label,
			"error", err)
	}
}
