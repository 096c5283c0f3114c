// Package session orchestrates one board's reorder engine: the
// in-memory ordered state, the optimistic suppression window, the
// persistence gateway and the aggregate recomputer.
//
// All state mutations are synchronous under the session lock. The only
// suspension points are the gateway write and the change-feed
// delivery; an overlaid snapshot is validated and swapped in whole, so
// readers never observe a torn store.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tablero-app/tablero/internal/aggregate"
	"github.com/tablero-app/tablero/internal/board"
	"github.com/tablero-app/tablero/internal/gateway"
	"github.com/tablero-app/tablero/internal/models"
	"github.com/tablero-app/tablero/internal/reorder"
	"github.com/tablero-app/tablero/internal/syncguard"
)

// Options configures a Session.
type Options struct {
	// PendingTTL bounds the suppression window for not-yet-durable
	// local moves. Zero means syncguard.DefaultTTL.
	PendingTTL time.Duration

	// TrackedLabel names the tracked column whose card count is
	// cached on the board. Empty disables the aggregate.
	TrackedLabel string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Clock is injectable for tests; nil means time.Now.
	Clock func() time.Time
}

// Session owns one board's live state for the duration of a board
// view. Construct one per board session and tear it down with Close.
type Session struct {
	boardID    int
	gw         gateway.Gateway
	ttl        time.Duration
	recomputer *aggregate.Recomputer
	logger     *slog.Logger

	mu          sync.Mutex
	state       *board.State
	cardGuard   *syncguard.Guard
	columnGuard *syncguard.Guard
	onChange    func()
	unsubscribe func()
	feedSeen    bool

	aggregates sync.WaitGroup
}

// New creates a Session over the given gateway. Call Start before use.
func New(boardID int, gw gateway.Gateway, opts Options) *Session {
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = syncguard.DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Session{
		boardID:     boardID,
		gw:          gw,
		ttl:         opts.PendingTTL,
		recomputer:  aggregate.New(gw, opts.TrackedLabel, opts.Logger),
		logger:      opts.Logger,
		state:       board.NewState(boardID),
		cardGuard:   syncguard.NewWithClock(clock),
		columnGuard: syncguard.NewWithClock(clock),
	}
}

// Start subscribes to the change feed and loads the initial snapshot.
// The subscription comes first so a write committed between the two is
// not lost: its broadcast either lands before the load finishes, in
// which case the older loaded snapshot is discarded, or after, where
// it overwrites the store as usual.
func (s *Session) Start(ctx context.Context) error {
	unsubscribe, err := s.gw.Subscribe(s.boardID, s.handleSnapshot, s.handleFeedError)
	if err != nil {
		return fmt.Errorf("subscribing to change feed: %w", err)
	}
	s.unsubscribe = unsubscribe

	snap, err := s.gw.LoadSnapshot(ctx, s.boardID)
	if err != nil {
		s.Close()
		return fmt.Errorf("loading initial snapshot: %w", err)
	}

	s.mu.Lock()
	if !s.feedSeen {
		s.state.Replace(snap.Columns, snap.Cards)
		if err := s.state.Validate(); err != nil {
			s.logger.Error("initial snapshot violates density invariant", "board_id", s.boardID, "error", err)
		}
	}
	s.mu.Unlock()
	return nil
}

// Close tears down the feed subscription and waits for in-flight
// aggregate recomputations.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.aggregates.Wait()
}

// SetOnChange registers a callback invoked after every state change,
// while the session lock is held. The callback must be fast and must
// not call back into the session; a non-blocking channel send is the
// intended use.
func (s *Session) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// BoardID returns the owning board's id.
func (s *Session) BoardID() int {
	return s.boardID
}

// Columns returns the board's columns in display order.
func (s *Session) Columns() []models.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Columns()
}

// Cards returns a column's cards in display order.
func (s *Session) Cards(columnID int) []models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Cards(columnID)
}

// ============================================================================
// MOVES
// ============================================================================

// MoveCard completes a card drag: the card moves to toIndex in
// toColumnID. The in-memory state is updated synchronously before the
// write is issued, so the caller can re-render immediately; a failed
// write keeps the optimistic state until the suppression window
// expires and a fresh snapshot takes over.
func (s *Session) MoveCard(ctx context.Context, cardID, toColumnID, toIndex int) error {
	s.mu.Lock()

	fromColumnID, fromIndex, ok := s.state.FindCard(cardID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: id %d", board.ErrUnknownCard, cardID)
	}
	fromCol, _ := s.state.ColumnByID(fromColumnID)
	toCol, ok := s.state.ColumnByID(toColumnID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: id %d", board.ErrUnknownColumn, toColumnID)
	}

	plan, err := reorder.PlanCardMove(
		s.state.Cards(fromColumnID),
		s.state.Cards(toColumnID),
		reorder.CardMove{
			CardID:       cardID,
			FromColumnID: fromColumnID,
			FromIndex:    fromIndex,
			ToColumnID:   toColumnID,
			ToIndex:      toIndex,
		})
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("planning card move: %w", err)
	}
	if len(plan) == 0 {
		s.mu.Unlock()
		return nil
	}

	// Optimistic apply, then shield every touched card from stale
	// snapshots for the length of the suppression window.
	if err := s.state.ApplyCardUpdates(plan); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("applying card move: %w", err)
	}
	for _, u := range plan {
		colID, _, _ := s.state.FindCard(u.ID)
		s.cardGuard.RecordPending(u.ID, u.Position, colID, s.ttl)
	}
	if err := s.state.Validate(); err != nil {
		// Planner contract failure; do not normalize silently.
		s.logger.Error("density invariant violated after card move", "board_id", s.boardID, "error", err)
	}
	s.notifyLocked()
	s.mu.Unlock()

	writeErr := s.gw.ApplyCardUpdates(ctx, s.boardID, plan)

	// The aggregate is independent of the write's fate: a recompute
	// over unwritten state is idempotent and self-corrects later.
	s.maybeRecompute(ctx, fromCol, toCol)

	if writeErr != nil {
		// Recoverable: the optimistic state stays visible until the
		// TTL elapses, then the last authoritative snapshot wins.
		s.logger.Warn("card reorder write failed; keeping optimistic state",
			"board_id", s.boardID, "cards", len(plan), "error", writeErr)
		return fmt.Errorf("persisting card reorder: %w", writeErr)
	}
	return nil
}

// MoveColumn completes a column drag within the board's column list.
func (s *Session) MoveColumn(ctx context.Context, fromIndex, toIndex int) error {
	s.mu.Lock()

	plan, err := reorder.PlanColumnMove(s.state.Columns(), reorder.ColumnMove{
		FromIndex: fromIndex,
		ToIndex:   toIndex,
	})
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("planning column move: %w", err)
	}
	if len(plan) == 0 {
		s.mu.Unlock()
		return nil
	}

	if err := s.state.ApplyColumnUpdates(plan); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("applying column move: %w", err)
	}
	for _, u := range plan {
		s.columnGuard.RecordPending(u.ID, u.Position, 0, s.ttl)
	}
	if err := s.state.Validate(); err != nil {
		s.logger.Error("density invariant violated after column move", "board_id", s.boardID, "error", err)
	}
	s.notifyLocked()
	s.mu.Unlock()

	if err := s.gw.ApplyColumnUpdates(ctx, s.boardID, plan); err != nil {
		s.logger.Warn("column reorder write failed; keeping optimistic state",
			"board_id", s.boardID, "columns", len(plan), "error", err)
		return fmt.Errorf("persisting column reorder: %w", err)
	}
	return nil
}

// ============================================================================
// CREATION
// ============================================================================

// CreateCard appends a new card at the end of a column and mirrors it
// into the local state for immediate feedback.
func (s *Session) CreateCard(ctx context.Context, columnID int, title, titleES, description string) (*models.Card, error) {
	card, err := s.gw.CreateCard(ctx, columnID, title, titleES, description)
	if err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	s.mu.Lock()
	if _, _, exists := s.state.FindCard(card.ID); !exists {
		s.state.AppendCard(*card)
	}
	col, _ := s.state.ColumnByID(columnID)
	s.notifyLocked()
	s.mu.Unlock()

	// A card born directly into the tracked column changes the count.
	if s.recomputer.Tracks(col) {
		s.recomputeAsync(ctx)
	}
	return card, nil
}

// CreateColumn appends a new column at the end of the board.
func (s *Session) CreateColumn(ctx context.Context, name, nameES string) (*models.Column, error) {
	col, err := s.gw.CreateColumn(ctx, s.boardID, name, nameES)
	if err != nil {
		return nil, fmt.Errorf("creating column: %w", err)
	}

	s.mu.Lock()
	if _, exists := s.state.ColumnByID(col.ID); !exists {
		s.state.AppendColumn(*col)
	}
	s.notifyLocked()
	s.mu.Unlock()
	return col, nil
}

// ============================================================================
// CHANGE FEED
// ============================================================================

// handleSnapshot overlays live pending entries onto an incoming
// snapshot and swaps the store. If the overlay produces a non-dense
// state (expired-but-unpurged entries colliding with fresh data), the
// raw snapshot wins and the violation is logged as a contract failure.
func (s *Session) handleSnapshot(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := s.cardGuard.OverlayCards(snap.Cards)
	columns := s.columnGuard.OverlayColumns(snap.Columns)

	next := board.NewState(s.boardID)
	next.Replace(columns, cards)
	if err := next.Validate(); err != nil {
		s.logger.Error("density invariant violated after snapshot overlay; snapshot wins",
			"board_id", s.boardID, "seq", snap.Seq, "error", err)
		next.Replace(snap.Columns, snap.Cards)
	}

	s.state = next
	s.feedSeen = true
	s.notifyLocked()
}

// handleFeedError logs a fatal subscription error. The last-known
// store stays intact; reconnecting is the surrounding UI's call.
func (s *Session) handleFeedError(err error) {
	s.logger.Error("change feed subscription failed", "board_id", s.boardID, "error", err)
}

// ============================================================================
// AGGREGATE
// ============================================================================

// maybeRecompute fires the tracked-count recomputation when a move
// crosses the tracked column. It runs off the caller's goroutine and
// its failure never reaches the move's caller.
func (s *Session) maybeRecompute(ctx context.Context, from, to models.Column) {
	if !s.recomputer.Crosses(from, to) {
		return
	}
	s.recomputeAsync(ctx)
}

func (s *Session) recomputeAsync(ctx context.Context) {
	recomputeCtx := context.WithoutCancel(ctx)
	s.aggregates.Add(1)
	go func() {
		defer s.aggregates.Done()
		s.recomputer.Recompute(recomputeCtx, s.boardID)
	}()
}

// notifyLocked invokes the change callback. Callers hold s.mu, so the
// swap is complete before any renderer reads the store.
func (s *Session) notifyLocked() {
	if s.onChange != nil {
		s.onChange()
	}
}
