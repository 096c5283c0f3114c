// Package gateway defines the persistence boundary the reorder engine
// drives. The engine never does network or disk I/O itself; it calls
// into a Gateway and consumes the snapshot feed the Gateway exposes.
package gateway

import (
	"context"

	"github.com/tablero-app/tablero/internal/models"
)

// SnapshotFunc receives full board snapshots from the change feed.
type SnapshotFunc func(models.Snapshot)

// ErrorFunc receives a fatal subscription error. After it fires no
// further snapshots are delivered on that subscription.
type ErrorFunc func(error)

// Gateway is the collection-store capability a board session operates
// over. Two implementations exist: Memory (local-only boards, no feed,
// no external race) and the SQLite store in internal/database (durable,
// with an in-process change feed).
type Gateway interface {
	// LoadSnapshot reads the current full state of a board.
	LoadSnapshot(ctx context.Context, boardID int) (models.Snapshot, error)

	// Subscribe registers for snapshot pushes on every committed
	// change to the board. The returned function tears the
	// subscription down; it must be called exactly once.
	Subscribe(boardID int, onSnapshot SnapshotFunc, onError ErrorFunc) (func(), error)

	// ApplyCardUpdates persists a card reorder batch. The batch is
	// applied transactionally: on failure no position changed.
	ApplyCardUpdates(ctx context.Context, boardID int, updates []models.OrderUpdate) error

	// ApplyColumnUpdates persists a column reorder batch.
	ApplyColumnUpdates(ctx context.Context, boardID int, updates []models.OrderUpdate) error

	// CreateCard appends a new card at the end of a column.
	CreateCard(ctx context.Context, columnID int, title, titleES, description string) (*models.Card, error)

	// CreateColumn appends a new column at the end of a board.
	CreateColumn(ctx context.Context, boardID int, name, nameES string) (*models.Column, error)

	// SetTrackedCount recomputes the number of cards in the board's
	// tracked column (matched by name against trackedLabel) and
	// persists it on the board row. Idempotent.
	SetTrackedCount(ctx context.Context, boardID int, trackedLabel string) error
}
