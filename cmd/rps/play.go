package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/lox/rps/internal/auth"
	"github.com/lox/rps/internal/feed"
	"github.com/lox/rps/internal/logging"
	"github.com/lox/rps/internal/tui"
)

// PlayCmd runs the terminal UI
type PlayCmd struct {
	Source string `help:"Gesture source (feed, keyboard, random), overrides the config"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	if c.Source != "" {
		cfg.Gesture.Source = c.Source
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Output: logFile, Prefix: "rps"})
	if err != nil {
		return err
	}

	g, err := newGame(cfg, logger)
	if err != nil {
		return err
	}
	defer g.engine.Stop()

	opts := []tui.Option{tui.WithStatistics(g.tracker)}
	if g.manual != nil {
		opts = append(opts, tui.WithManualInput(g.manual))
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	program := tea.NewProgram(tui.NewModel(g.engine, logger, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx))
	unsubscribe := g.engine.Subscribe(tui.NewListener(program))
	defer unsubscribe()

	if g.latest != nil {
		server := feed.NewServer(cfg.FeedAddress(), g.engine, logger,
			feed.WithObserver(g.latest),
			feed.WithAllowedOrigins(cfg.Feed.AllowedOrigins...),
			feed.WithValidator(auth.FromConfig(cfg.Feed.Token)))
		defer g.engine.Subscribe(server)()
		group.Go(func() error {
			return server.Serve(ctx)
		})
	}

	group.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal UI: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	stats := g.tracker.Stats()
	fmt.Println(stats.Summary())
	return nil
}
