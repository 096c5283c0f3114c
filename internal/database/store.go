package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tablero-app/tablero/internal/gateway"
	"github.com/tablero-app/tablero/internal/models"
)

// Store is the durable persistence gateway: board state in SQLite plus
// an in-process change feed that pushes a full snapshot to subscribers
// after every committed write.
type Store struct {
	db   *sql.DB
	feed *feed
}

var _ gateway.Gateway = (*Store)(nil)

// NewStore wraps an opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, feed: newFeed()}
}

// ============================================================================
// BOARDS
// ============================================================================

// CreateBoard creates a new empty board.
func (s *Store) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	if name == "" {
		return nil, gateway.ErrEmptyName
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO boards (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Board{ID: int(id), Name: name, CreatedAt: time.Now()}, nil
}

// GetBoard reads a board row, including its cached tracked count.
func (s *Store) GetBoard(ctx context.Context, boardID int) (*models.Board, error) {
	var b models.Board
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, tracked_count, created_at FROM boards WHERE id = ?`,
		boardID,
	).Scan(&b.ID, &b.Name, &b.TrackedCount, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", gateway.ErrBoardNotFound, boardID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return &b, nil
}

// ListBoards returns all boards ordered by creation.
func (s *Store) ListBoards(ctx context.Context) ([]*models.Board, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, tracked_count, created_at FROM boards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.TrackedCount, &b.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, &b)
	}
	return boards, rows.Err()
}

// EnsureDefaultBoard returns the first board, creating a starter board
// with the three standard bilingual columns on first run.
func (s *Store) EnsureDefaultBoard(ctx context.Context) (*models.Board, error) {
	boards, err := s.ListBoards(ctx)
	if err != nil {
		return nil, err
	}
	if len(boards) > 0 {
		return boards[0], nil
	}

	board, err := s.CreateBoard(ctx, "Tablero")
	if err != nil {
		return nil, err
	}

	defaults := []struct {
		name   string
		nameES string
	}{
		{"Todo", "Pendiente"},
		{"Doing", "En Curso"},
		{"Done", "Hecho"},
	}
	for _, col := range defaults {
		if _, err := s.CreateColumn(ctx, board.ID, col.name, col.nameES); err != nil {
			return nil, err
		}
	}
	return board, nil
}

// ============================================================================
// SNAPSHOTS & FEED
// ============================================================================

// LoadSnapshot reads the full current state of a board: columns in
// position order and cards in (column, position) order.
func (s *Store) LoadSnapshot(ctx context.Context, boardID int) (models.Snapshot, error) {
	snap := models.Snapshot{BoardID: boardID, TakenAt: time.Now()}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board_id, name, name_es, position
		 FROM columns WHERE board_id = ? ORDER BY position`,
		boardID)
	if err != nil {
		return snap, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var col models.Column
		if err := rows.Scan(&col.ID, &col.BoardID, &col.Name, &col.NameES, &col.Position); err != nil {
			return snap, err
		}
		snap.Columns = append(snap.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	cardRows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.column_id, c.position, c.title, c.title_es, c.description, c.created_at, c.updated_at
		 FROM cards c
		 JOIN columns col ON col.id = c.column_id
		 WHERE col.board_id = ?
		 ORDER BY col.position, c.position`,
		boardID)
	if err != nil {
		return snap, fmt.Errorf("querying cards: %w", err)
	}
	defer cardRows.Close()

	for cardRows.Next() {
		var card models.Card
		if err := cardRows.Scan(&card.ID, &card.ColumnID, &card.Position,
			&card.Title, &card.TitleES, &card.Description,
			&card.CreatedAt, &card.UpdatedAt); err != nil {
			return snap, err
		}
		snap.Cards = append(snap.Cards, card)
	}
	return snap, cardRows.Err()
}

// Subscribe registers for snapshot pushes on every committed change to
// the board.
func (s *Store) Subscribe(boardID int, onSnapshot gateway.SnapshotFunc, onError gateway.ErrorFunc) (func(), error) {
	return s.feed.subscribe(boardID, onSnapshot, onError), nil
}

// notify loads a fresh snapshot and broadcasts it. A snapshot load
// failure is fatal to the board's subscriptions. The write's context
// is detached: once the commit happened, cancelling the caller must
// not turn a successful write into a feed failure.
func (s *Store) notify(ctx context.Context, boardID int) {
	snap, err := s.LoadSnapshot(context.WithoutCancel(ctx), boardID)
	if err != nil {
		s.feed.fail(boardID, fmt.Errorf("change feed snapshot load: %w", err))
		return
	}
	s.feed.broadcast(snap)
}

// ============================================================================
// WRITES
// ============================================================================

// ApplyCardUpdates persists a card reorder batch in one transaction.
// On any failure the transaction rolls back and no position changed.
func (s *Store) ApplyCardUpdates(ctx context.Context, boardID int, updates []models.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range updates {
		result, err := tx.ExecContext(ctx,
			`UPDATE cards
			 SET position = ?, column_id = COALESCE(?, column_id), updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			u.Position, u.ColumnID, u.ID)
		if err != nil {
			return fmt.Errorf("updating card %d: %w", u.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: id %d", gateway.ErrCardNotFound, u.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing card updates: %w", err)
	}

	s.notify(ctx, boardID)
	return nil
}

// ApplyColumnUpdates persists a column reorder batch in one transaction.
func (s *Store) ApplyColumnUpdates(ctx context.Context, boardID int, updates []models.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range updates {
		result, err := tx.ExecContext(ctx,
			`UPDATE columns SET position = ? WHERE id = ?`,
			u.Position, u.ID)
		if err != nil {
			return fmt.Errorf("updating column %d: %w", u.ID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: id %d", gateway.ErrColumnNotFound, u.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing column updates: %w", err)
	}

	s.notify(ctx, boardID)
	return nil
}

// CreateCard appends a new card at the end of the given column.
func (s *Store) CreateCard(ctx context.Context, columnID int, title, titleES, description string) (*models.Card, error) {
	if title == "" {
		return nil, gateway.ErrEmptyTitle
	}

	var boardID int
	err := s.db.QueryRowContext(ctx,
		`SELECT board_id FROM columns WHERE id = ?`, columnID).Scan(&boardID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", gateway.ErrColumnNotFound, columnID)
	}
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Append at position = current count
	var position int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards WHERE column_id = ?`, columnID).Scan(&position); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO cards (column_id, position, title, title_es, description)
		 VALUES (?, ?, ?, ?, ?)`,
		columnID, position, title, titleES, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.notify(ctx, boardID)

	now := time.Now()
	return &models.Card{
		ID:          int(id),
		ColumnID:    columnID,
		Position:    position,
		Title:       title,
		TitleES:     titleES,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreateColumn appends a new column at the end of the given board.
func (s *Store) CreateColumn(ctx context.Context, boardID int, name, nameES string) (*models.Column, error) {
	if name == "" {
		return nil, gateway.ErrEmptyName
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM columns WHERE board_id = ?`, boardID).Scan(&position); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO columns (board_id, name, name_es, position) VALUES (?, ?, ?, ?)`,
		boardID, name, nameES, position)
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.notify(ctx, boardID)

	return &models.Column{
		ID:       int(id),
		BoardID:  boardID,
		Name:     name,
		NameES:   nameES,
		Position: position,
	}, nil
}

// SetTrackedCount recounts the cards sitting in the board's tracked
// column (matched case-insensitively against either language face of
// the column name) and persists the count on the board row.
func (s *Store) SetTrackedCount(ctx context.Context, boardID int, trackedLabel string) error {
	if trackedLabel == "" {
		return nil
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM cards c
		 JOIN columns col ON col.id = c.column_id
		 WHERE col.board_id = ?
		   AND (LOWER(col.name) = LOWER(?) OR LOWER(col.name_es) = LOWER(?))`,
		boardID, trackedLabel, trackedLabel).Scan(&count)
	if err != nil {
		return fmt.Errorf("counting tracked column: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE boards SET tracked_count = ? WHERE id = ?`, count, boardID)
	if err != nil {
		return fmt.Errorf("writing tracked count: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", gateway.ErrBoardNotFound, boardID)
	}
	return nil
}
