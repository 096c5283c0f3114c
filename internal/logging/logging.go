// Package logging routes slog to a file. The TUI owns the terminal, so
// log output never goes to stdout or stderr.
package logging

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultPath is the log location used when the config names none:
// ~/.tablero/logs/tablero.log, next to the board database.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tablero", "logs", "tablero.log"), nil
}

// Init opens the log file in append mode (creating parent directories
// as needed) and installs a text slog handler on it as the process
// default. An empty path selects DefaultPath.
func Init(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving log path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	// Anything still on the standard log package lands in the same file
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)
	return nil
}
