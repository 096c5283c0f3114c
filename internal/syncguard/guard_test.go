package syncguard

import (
	"testing"
	"time"

	"github.com/tablero-app/tablero/internal/models"
)

// fakeClock is a manually advanced clock for TTL tests
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestOverlayPrecedence(t *testing.T) {
	clock := newFakeClock()
	guard := NewWithClock(clock.now)

	// Local move put card 7 at column 2 position 2; the arriving
	// snapshot still shows it at column 1 position 0.
	guard.RecordPending(7, 2, 2, DefaultTTL)

	snapshot := []models.Card{
		{ID: 7, ColumnID: 1, Position: 0},
		{ID: 8, ColumnID: 1, Position: 1},
	}

	effective := guard.OverlayCards(snapshot)
	if effective[0].ColumnID != 2 || effective[0].Position != 2 {
		t.Fatalf("pending entry should win: got column %d position %d", effective[0].ColumnID, effective[0].Position)
	}
	if effective[1].ColumnID != 1 || effective[1].Position != 1 {
		t.Fatalf("untouched card should pass through unchanged")
	}

	// Input must not be mutated
	if snapshot[0].ColumnID != 1 || snapshot[0].Position != 0 {
		t.Fatalf("overlay mutated the input snapshot")
	}
}

func TestOverlayRevertsAfterExpiry(t *testing.T) {
	clock := newFakeClock()
	guard := NewWithClock(clock.now)

	guard.RecordPending(7, 2, 2, DefaultTTL)
	clock.advance(DefaultTTL + time.Millisecond)

	snapshot := []models.Card{{ID: 7, ColumnID: 1, Position: 0}}
	effective := guard.OverlayCards(snapshot)

	if effective[0].ColumnID != 1 || effective[0].Position != 0 {
		t.Fatalf("expired entry should lose to the snapshot")
	}
	if guard.Len() != 0 {
		t.Fatalf("expired entry should have been purged during the pass, %d left", guard.Len())
	}
}

func TestOverlayPurgesLazily(t *testing.T) {
	clock := newFakeClock()
	guard := NewWithClock(clock.now)

	guard.RecordPending(1, 0, 1, DefaultTTL)
	guard.RecordPending(2, 1, 1, time.Second)

	clock.advance(2 * time.Second)

	// Entry 2 is expired but no overlay has run yet
	if guard.Len() != 2 {
		t.Fatalf("expiry must be lazy, expected 2 entries, got %d", guard.Len())
	}

	guard.OverlayCards(nil)
	if guard.Len() != 1 {
		t.Fatalf("overlay should purge expired entries, got %d", guard.Len())
	}
}

func TestLatestIntentWins(t *testing.T) {
	clock := newFakeClock()
	guard := NewWithClock(clock.now)

	guard.RecordPending(7, 0, 1, DefaultTTL)
	guard.RecordPending(7, 3, 2, DefaultTTL)

	if guard.Len() != 1 {
		t.Fatalf("expected a single live entry per card, got %d", guard.Len())
	}

	effective := guard.OverlayCards([]models.Card{{ID: 7, ColumnID: 1, Position: 0}})
	if effective[0].ColumnID != 2 || effective[0].Position != 3 {
		t.Fatalf("second record should win: got column %d position %d", effective[0].ColumnID, effective[0].Position)
	}
}

func TestClearRemovesEntry(t *testing.T) {
	clock := newFakeClock()
	guard := NewWithClock(clock.now)

	guard.RecordPending(7, 2, 2, DefaultTTL)
	guard.Clear(7)

	effective := guard.OverlayCards([]models.Card{{ID: 7, ColumnID: 1, Position: 0}})
	if effective[0].ColumnID != 1 || effective[0].Position != 0 {
		t.Fatalf("cleared entry should not overlay")
	}
}

func TestOverlayColumns(t *testing.T) {
	clock := newFakeClock()
	guard := NewWithClock(clock.now)

	guard.RecordPending(3, 0, 0, DefaultTTL)

	columns := []models.Column{
		{ID: 1, Position: 0},
		{ID: 3, Position: 2},
	}
	effective := guard.OverlayColumns(columns)

	if effective[1].Position != 0 {
		t.Fatalf("pending column position should win, got %d", effective[1].Position)
	}
	if effective[0].Position != 0 {
		t.Fatalf("untouched column should pass through")
	}
	if columns[1].Position != 2 {
		t.Fatalf("overlay mutated the input columns")
	}
}

// Determinism: the effective list depends only on the snapshot and the
// set of live entries, not on how many snapshots came before.
func TestOverlayDeterministic(t *testing.T) {
	clock := newFakeClock()
	guard := NewWithClock(clock.now)

	guard.RecordPending(7, 1, 2, DefaultTTL)

	snapshot := []models.Card{
		{ID: 7, ColumnID: 1, Position: 0},
		{ID: 8, ColumnID: 2, Position: 0},
	}

	first := guard.OverlayCards(snapshot)
	second := guard.OverlayCards(snapshot)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated overlays disagree at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
