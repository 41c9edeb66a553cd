package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/rps/internal/gesture"
	"github.com/lox/rps/internal/randutil"
	"github.com/lox/rps/internal/round"
	"github.com/lox/rps/internal/statistics"
)

// Compressed timings used for headless games
const (
	DefaultTick         = time.Millisecond
	DefaultCaptureDelay = time.Millisecond
	DefaultTimeout      = 30 * time.Second
)

// Config holds configuration for running simulations
type Config struct {
	Games        int
	Parallel     int     // concurrent games, default GOMAXPROCS
	Seed         int64   // 0 picks a random seed
	NoHandRate   float64 // share of player reads that see no hand
	WinningScore int
	Countdown    int
	Tick         time.Duration
	CaptureDelay time.Duration
	Timeout      time.Duration // per game
	Logger       *log.Logger
}

func (c *Config) applyDefaults() {
	if c.Parallel <= 0 {
		c.Parallel = runtime.GOMAXPROCS(0)
	}
	if c.Seed == 0 {
		c.Seed = randutil.Seed()
	}
	if c.WinningScore == 0 {
		c.WinningScore = round.DefaultWinningScore
	}
	if c.Countdown == 0 {
		c.Countdown = round.DefaultCountdown
	}
	if c.Tick == 0 {
		c.Tick = DefaultTick
	}
	if c.CaptureDelay == 0 {
		c.CaptureDelay = DefaultCaptureDelay
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Games < 1 {
		return fmt.Errorf("games must be at least 1, got %d", c.Games)
	}
	if c.NoHandRate < 0 || c.NoHandRate >= 1 {
		return fmt.Errorf("no-hand rate must be in [0, 1), got %g", c.NoHandRate)
	}
	return c.round().Validate()
}

func (c *Config) round() round.Config {
	return round.Config{
		WinningScore:  c.WinningScore,
		CountdownFrom: c.Countdown,
		Tick:          c.Tick,
		CaptureDelay:  c.CaptureDelay,
	}
}

// Simulator plays complete games between a random player and the bot
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	return &Simulator{
		config: config,
		logger: config.Logger.WithPrefix("simulator"),
	}, nil
}

// Seed returns the base seed, so a run can be repeated
func (s *Simulator) Seed() int64 {
	return s.config.Seed
}

// Run plays every game and returns the combined statistics
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	start := time.Now()
	s.logger.Info("Starting simulation",
		"games", s.config.Games,
		"parallel", s.config.Parallel,
		"seed", s.config.Seed)

	var (
		mu    sync.Mutex
		total statistics.Statistics
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallel)

	for i := 0; i < s.config.Games; i++ {
		g.Go(func() error {
			stats, err := s.playGame(ctx, i)
			if err != nil {
				return err
			}
			mu.Lock()
			total.Merge(&stats)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete",
		"games", total.Games,
		"rounds", total.Rounds,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return &total, nil
}

// playGame runs one engine until GameOver. Each result snapshot starts the
// next round from inside the listener.
func (s *Simulator) playGame(ctx context.Context, game int) (statistics.Statistics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	source := gesture.NewRandom(randutil.New(randutil.Derive(s.config.Seed, 2*game)), s.config.NoHandRate)
	mover := round.NewRandomMover(randutil.New(randutil.Derive(s.config.Seed, 2*game+1)))

	engine, err := round.New(s.config.round(), source,
		round.WithMover(mover),
		round.WithLogger(s.config.Logger))
	if err != nil {
		return statistics.Statistics{}, err
	}
	defer engine.Stop()

	tracker := statistics.NewTracker()
	done := make(chan struct{})
	var once sync.Once

	engine.Subscribe(tracker)
	engine.Subscribe(round.ListenerFunc(func(snap round.Snapshot) {
		switch snap.Phase {
		case round.Result:
			if err := engine.StartRound(); err != nil && !errors.Is(err, round.ErrGameOver) {
				s.logger.Error("Failed to start round", "game", game, "error", err)
			}
		case round.GameOver:
			once.Do(func() { close(done) })
		}
	}))

	if err := engine.StartRound(); err != nil {
		return statistics.Statistics{}, fmt.Errorf("game %d: %w", game, err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		snap := engine.Snapshot()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return statistics.Statistics{}, fmt.Errorf("game %d timed out after %s in round %d (seed: %d)",
				game, s.config.Timeout, snap.Round, s.config.Seed)
		}
		return statistics.Statistics{}, ctx.Err()
	}

	stats := tracker.Stats()
	s.logger.Debug("Game finished",
		"game", game,
		"rounds", stats.Rounds,
		"playerGames", stats.PlayerGames)
	return stats, nil
}
