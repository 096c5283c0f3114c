package main

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tablero-app/tablero/internal/config"
	"github.com/tablero-app/tablero/internal/database"
	"github.com/tablero-app/tablero/internal/logging"
	"github.com/tablero-app/tablero/internal/session"
	"github.com/tablero-app/tablero/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	ctx := context.Background()

	// Initialize database
	db, err := database.InitDB(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	store := database.NewStore(db)

	board, err := store.EnsureDefaultBoard(ctx)
	if err != nil {
		log.Fatalf("Failed to prepare default board: %v", err)
	}

	// One session per board view: optimistic state, suppression window,
	// change feed and the tracked-count aggregate.
	sess := session.New(board.ID, store, session.Options{
		PendingTTL:   cfg.Sync.PendingTTL(),
		TrackedLabel: cfg.Sync.TrackedColumnLabel,
	})
	if err := sess.Start(ctx); err != nil {
		log.Fatalf("Failed to start board session: %v", err)
	}
	defer sess.Close()

	model := tui.New(sess, cfg)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		log.Fatal(err)
	}
}
