package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"botforge/internal/api"
	"botforge/internal/config"
	"botforge/internal/session"
	"botforge/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "botforge:", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env next to the binary; real environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	store := session.NewStore(session.NewFileTokenStore(cfg.DataDir), logger)
	client := api.NewClient(cfg.APIURL, store.Token)

	// Restore the saved session before the UI starts. A stale token is
	// cleared here; an unreachable backend just leaves us signed out.
	if err := store.Restore(context.Background(), client); err != nil {
		logger.Warn("session restore failed", "error", err)
	}

	return ui.Run(ui.New(client, store, logger))
}

// newLogger writes slog output to the configured log file; the terminal
// itself belongs to the TUI.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		// Logging must never block the app; fall back to discarding.
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		return logger, func() {}, nil
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
