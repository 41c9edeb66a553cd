package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/rps/internal/logging"
	"github.com/lox/rps/internal/simulator"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// SimulateCmd plays many headless games and reports statistics
type SimulateCmd struct {
	Games        int           `default:"1000" help:"Number of games to simulate"`
	Parallel     int           `default:"0" help:"Concurrent games (0 for GOMAXPROCS)"`
	Seed         int64         `default:"0" help:"RNG seed (0 for config seed, then random)"`
	NoHandRate   float64       `default:"-1" help:"Share of player reads with no hand (negative for config value)"`
	WinningScore int           `default:"0" help:"Score that ends a game (0 for config value)"`
	Timeout      time.Duration `default:"30s" help:"Timeout per game"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Prefix: "rps"})
	if err != nil {
		return err
	}

	simCfg := simulator.Config{
		Games:        c.Games,
		Parallel:     c.Parallel,
		Seed:         c.Seed,
		NoHandRate:   c.NoHandRate,
		WinningScore: c.WinningScore,
		Countdown:    cfg.Game.Countdown,
		Timeout:      c.Timeout,
		Logger:       logger,
	}
	if simCfg.Seed == 0 {
		simCfg.Seed = cfg.Game.Seed
	}
	if simCfg.NoHandRate < 0 {
		simCfg.NoHandRate = cfg.Gesture.NoHandRate
	}
	if simCfg.WinningScore == 0 {
		simCfg.WinningScore = cfg.Game.WinningScore
	}

	sim, err := simulator.New(simCfg)
	if err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Simulation results"))
	fmt.Println()
	fmt.Println(stats.Summary())
	fmt.Printf("Seed: %d (%s)\n", sim.Seed(), time.Since(start).Round(time.Millisecond))
	return nil
}
