package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"glimpse/internal/api"
	"glimpse/internal/cache"
	"glimpse/internal/config"
	"glimpse/internal/coord"
	"glimpse/internal/logging"
	"glimpse/internal/media"
	"glimpse/internal/ui"
)

const seenRetention = 7 * 24 * time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "glimpse:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := logging.Init(dataDir); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	client := api.New(cfg.API.BaseURL, cfg.API.Token,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	// Local seen-state survives restarts; the app degrades to
	// session-only seen rings if the cache can't open.
	var seen *cache.Store
	if s, err := cache.Open(filepath.Join(dataDir, "glimpse.db")); err == nil {
		seen = s
		defer seen.Close()
		if err := seen.Prune(seenRetention); err != nil {
			logging.Warn("seen-state prune failed", "error", err)
		}
	} else {
		logging.Warn("seen cache unavailable", "error", err)
	}

	var prefetcher *media.Prefetcher
	if cfg.UI.Prefetch {
		if p, err := media.NewPrefetcher(filepath.Join(dataDir, "media")); err == nil {
			prefetcher = p
		} else {
			logging.Warn("media cache unavailable", "error", err)
		}
	}

	app := ui.New(cfg, client, seen, prefetcher)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	coordinator := coord.New(client)
	coordinator.Start(ctx, program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	cancel()
	coordinator.Wait()
	return nil
}
