// Package syncguard implements the suppression window that keeps a
// stale snapshot from visually reverting a local move that has not yet
// round-tripped through the persistence layer.
package syncguard

import (
	"time"

	"github.com/tablero-app/tablero/internal/models"
)

// DefaultTTL bounds how long a pending local move outlives the
// snapshots that predate it. A write that has not become durable
// within this window loses to the next snapshot.
const DefaultTTL = 5 * time.Second

// pending is one not-yet-durable local reassignment. One live entry
// per entity; a newer local move on the same entity overwrites it.
type pending struct {
	position  int
	columnID  int
	expiresAt time.Time
}

// Guard overlays pending local reassignments onto incoming snapshots.
// Expired entries are purged lazily whenever an overlay runs, so no
// background timer is needed; overlays happen on every snapshot
// arrival, which bounds staleness in practice.
//
// A Guard is owned by a single board session and accessed under the
// session's lock; it does no locking of its own.
type Guard struct {
	entries map[int]pending
	now     func() time.Time
}

// New creates a Guard using the wall clock.
func New() *Guard {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Guard with an injectable clock for tests.
func NewWithClock(now func() time.Time) *Guard {
	return &Guard{
		entries: make(map[int]pending),
		now:     now,
	}
}

// RecordPending inserts or overwrites the pending entry for id.
// Latest local intent wins: a second call for the same id replaces the
// first entirely, including its expiry.
func (g *Guard) RecordPending(id, position, columnID int, ttl time.Duration) {
	g.entries[id] = pending{
		position:  position,
		columnID:  columnID,
		expiresAt: g.now().Add(ttl),
	}
}

// Clear removes the pending entry for id, if any. Called once a write
// is confirmed durable; otherwise the entry ages out via TTL.
func (g *Guard) Clear(id int) {
	delete(g.entries, id)
}

// OverlayCards returns a copy of the snapshot's cards with every live
// pending entry's position/column substituted in. Expired entries are
// purged during the pass. The input is not mutated.
func (g *Guard) OverlayCards(cards []models.Card) []models.Card {
	g.purgeExpired()

	out := make([]models.Card, len(cards))
	copy(out, cards)
	for i := range out {
		if p, ok := g.entries[out[i].ID]; ok {
			out[i].Position = p.position
			out[i].ColumnID = p.columnID
		}
	}
	return out
}

// OverlayColumns is the column-list counterpart of OverlayCards. A
// Guard used for columns stores only positions; the columnID field of
// its entries is ignored.
func (g *Guard) OverlayColumns(columns []models.Column) []models.Column {
	g.purgeExpired()

	out := make([]models.Column, len(columns))
	copy(out, columns)
	for i := range out {
		if p, ok := g.entries[out[i].ID]; ok {
			out[i].Position = p.position
		}
	}
	return out
}

// Len reports the number of live entries, counting entries that have
// expired but not yet been purged.
func (g *Guard) Len() int {
	return len(g.entries)
}

func (g *Guard) purgeExpired() {
	now := g.now()
	for id, p := range g.entries {
		if !p.expiresAt.After(now) {
			delete(g.entries, id)
		}
	}
}
