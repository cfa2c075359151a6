// Package logging provides the file-backed slog logger the dashboard uses
// for diagnostics. Logs go to a file because stderr belongs to the
// alternate screen while the TUI runs.
package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// New returns a logger writing to path and a close function. An empty path
// yields a discard logger, so call sites never need nil checks.
func New(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, file.Close, nil
}
