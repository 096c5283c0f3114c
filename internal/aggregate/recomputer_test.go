package aggregate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tablero-app/tablero/internal/models"
)

// countingWriter records SetTrackedCount calls and optionally fails
type countingWriter struct {
	calls int
	err   error
}

func (w *countingWriter) SetTrackedCount(ctx context.Context, boardID int, trackedLabel string) error {
	w.calls++
	return w.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTracksMatchesEitherLanguage(t *testing.T) {
	r := New(&countingWriter{}, "Done", discardLogger())

	if !r.Tracks(models.Column{Name: "Done"}) {
		t.Fatalf("primary name should match")
	}
	if !r.Tracks(models.Column{Name: "done"}) {
		t.Fatalf("match should be case-insensitive")
	}
	if !r.Tracks(models.Column{Name: "Hecho", NameES: "done"}) {
		t.Fatalf("spanish name should match")
	}
	if r.Tracks(models.Column{Name: "Todo"}) {
		t.Fatalf("non-tracked column should not match")
	}
}

func TestEmptyLabelDisablesTracking(t *testing.T) {
	w := &countingWriter{}
	r := New(w, "", discardLogger())

	if r.Tracks(models.Column{Name: "Done"}) {
		t.Fatalf("empty label should track nothing")
	}

	r.Recompute(context.Background(), 1)
	if w.calls != 0 {
		t.Fatalf("empty label should never recompute, got %d calls", w.calls)
	}
}

func TestCrosses(t *testing.T) {
	r := New(&countingWriter{}, "Done", discardLogger())

	todo := models.Column{ID: 1, Name: "Todo"}
	doing := models.Column{ID: 2, Name: "Doing"}
	done := models.Column{ID: 3, Name: "Done"}

	if !r.Crosses(todo, done) {
		t.Fatalf("moving into the tracked column crosses")
	}
	if !r.Crosses(done, todo) {
		t.Fatalf("moving out of the tracked column crosses")
	}
	if r.Crosses(todo, doing) {
		t.Fatalf("moving between non-tracked columns does not cross")
	}
	if r.Crosses(done, done) {
		t.Fatalf("a same-column move never crosses")
	}
}

func TestRecomputeCallsWriterOnce(t *testing.T) {
	w := &countingWriter{}
	r := New(w, "Done", discardLogger())

	r.Recompute(context.Background(), 1)
	if w.calls != 1 {
		t.Fatalf("expected exactly one SetTrackedCount call, got %d", w.calls)
	}
}

func TestRecomputeFailureIsIsolated(t *testing.T) {
	w := &countingWriter{err: errors.New("store down")}
	r := New(w, "Done", discardLogger())

	// Must not panic and must not propagate; it only logs.
	r.Recompute(context.Background(), 1)
	if w.calls != 1 {
		t.Fatalf("expected the failed call to have been attempted")
	}
}
