package main

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/lox/rps/internal/auth"
	"github.com/lox/rps/internal/config"
	"github.com/lox/rps/internal/feed"
	"github.com/lox/rps/internal/logging"
)

// ServeCmd runs the engine headless. Clients drive rounds and supply
// gestures over the WebSocket bridge.
type ServeCmd struct {
	Addr string `help:"Listen address, overrides the config (host:port)"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Gesture.Source == config.SourceKeyboard {
		return errors.New("the keyboard gesture source needs the play command")
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Prefix: "rps"})
	if err != nil {
		return err
	}

	g, err := newGame(cfg, logger)
	if err != nil {
		return err
	}
	defer g.engine.Stop()

	addr := cfg.FeedAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	opts := []feed.Option{
		feed.WithAllowedOrigins(cfg.Feed.AllowedOrigins...),
		feed.WithValidator(auth.FromConfig(cfg.Feed.Token)),
	}
	if g.latest != nil {
		opts = append(opts, feed.WithObserver(g.latest))
	}
	server := feed.NewServer(addr, g.engine, logger, opts...)
	defer g.engine.Subscribe(server)()

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Serve(ctx)
	})
	if err := group.Wait(); err != nil {
		return err
	}

	stats := g.tracker.Stats()
	logger.Info("Session totals",
		"games", stats.Games,
		"rounds", stats.Rounds,
		"winRate", stats.PlayerWinRate())
	return nil
}
