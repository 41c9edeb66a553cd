package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/rps/internal/config"
	"github.com/lox/rps/internal/gesture"
	"github.com/lox/rps/internal/randutil"
	"github.com/lox/rps/internal/round"
	"github.com/lox/rps/internal/statistics"
)

// game is an engine wired to the configured gesture source
type game struct {
	engine  *round.Engine
	tracker *statistics.Tracker
	seed    int64

	// Exactly one of these is set, matching the configured source.
	latest *gesture.Latest
	manual *gesture.Manual
	random *gesture.Random
}

func newGame(cfg *config.Config, logger *log.Logger, opts ...round.EngineOption) (*game, error) {
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = randutil.Seed()
	}

	g := &game{
		tracker: statistics.NewTracker(),
		seed:    seed,
	}

	var source round.GestureSource
	switch cfg.Gesture.Source {
	case config.SourceFeed:
		gestureOpts, err := cfg.GestureOptions()
		if err != nil {
			return nil, err
		}
		g.latest = gesture.NewLatest(gestureOpts)
		source = g.latest
	case config.SourceKeyboard:
		g.manual = gesture.NewManual()
		source = g.manual
	case config.SourceRandom:
		g.random = gesture.NewRandom(randutil.New(randutil.Derive(seed, 1)), cfg.Gesture.NoHandRate)
		source = g.random
	default:
		return nil, fmt.Errorf("unknown gesture source %q", cfg.Gesture.Source)
	}

	opts = append([]round.EngineOption{
		round.WithMover(round.NewSeededMover(randutil.Derive(seed, 0))),
		round.WithLogger(logger),
	}, opts...)

	engine, err := round.New(cfg.Round(), source, opts...)
	if err != nil {
		return nil, err
	}
	engine.Subscribe(g.tracker)
	g.engine = engine

	logger.Info("Game ready", "source", cfg.Gesture.Source, "seed", seed)
	return g, nil
}
