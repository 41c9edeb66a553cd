package round

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/rps/internal/sessionid"
)

var (
	// ErrRoundInProgress is returned by StartRound during Countdown or Playing.
	ErrRoundInProgress = errors.New("round already in progress")
	// ErrGameOver is returned by StartRound until the session is reset.
	ErrGameOver = errors.New("game over, reset to play again")
)

// EngineOption configures an Engine during creation.
type EngineOption func(*Engine)

// WithClock sets the clock used for countdown and capture timers.
// Default is the real clock.
func WithClock(clock quartz.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithMover sets how the bot picks its move. Default is uniformly random.
func WithMover(mover Mover) EngineOption {
	return func(e *Engine) {
		e.mover = mover
	}
}

// WithLogger sets the logger. Default discards all output.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSessionIDs sets the generator used for new session IDs.
func WithSessionIDs(newID func() string) EngineOption {
	return func(e *Engine) {
		e.newID = newID
	}
}

// Engine owns one game session and drives it through its phases.
// All exported methods are safe for concurrent use.
type Engine struct {
	cfg    Config
	source GestureSource
	mover  Mover
	clock  quartz.Clock
	logger *log.Logger
	newID  func() string
	subs   *subscribers

	mu      sync.Mutex
	session Session
	timer   *quartz.Timer // the single active timer slot
	epoch   uint64        // bumped on every phase exit
	pending []Snapshot    // committed but not yet delivered

	deliver sync.Mutex
}

// New creates an engine in the Idle phase with a zero score.
func New(cfg Config, source GestureSource, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid round config: %w", err)
	}
	if source == nil {
		return nil, errors.New("gesture source is required")
	}

	e := &Engine{
		cfg:    cfg,
		source: source,
		mover:  NewRandomMover(nil),
		clock:  quartz.NewReal(),
		logger: log.New(io.Discard),
		newID:  sessionid.New,
		subs:   newSubscribers(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.WithPrefix("engine")
	e.session = newSession(e.newID(), cfg.CountdownFrom)
	e.logger.Info("Session created",
		"session", e.session.ID,
		"winningScore", cfg.WinningScore,
		"countdown", cfg.CountdownFrom,
		"captureDelay", cfg.CaptureDelay)

	return e, nil
}

// Config returns the engine's constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// Subscribe registers a listener for snapshots. The returned function
// removes it and is safe to call more than once.
func (e *Engine) Subscribe(l Listener) func() {
	return e.subs.add(l)
}

// Snapshot returns a copy of the current session.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.snapshot(e.cfg.WinningScore)
}

// StartRound begins a new round from Idle or Result.
func (e *Engine) StartRound() error {
	e.mu.Lock()
	if phase := e.session.Phase; !phase.CanStartRound() {
		e.mu.Unlock()
		e.logger.Debug("Rejected start request", "phase", phase)
		if phase == GameOver {
			return ErrGameOver
		}
		return ErrRoundInProgress
	}

	e.stopTimerLocked()
	s := &e.session
	s.Round++
	s.Phase = Countdown
	s.Countdown = e.cfg.CountdownFrom
	s.PlayerGesture = None
	s.BotGesture = None
	s.Outcome = nil
	e.scheduleLocked(e.cfg.Tick, e.tick, "tick")
	e.commitLocked()

	e.logger.Info("Round started", "session", s.ID, "round", s.Round)
	e.mu.Unlock()

	e.flush()
	return nil
}

// Reset returns the session to Idle with a zero score and a new ID. It is
// meant to be called from GameOver but is accepted from any phase; any
// pending timer is cancelled.
func (e *Engine) Reset() {
	e.mu.Lock()
	previous := e.session
	if previous.Phase != GameOver {
		e.logger.Warn("Reset outside game over", "phase", previous.Phase, "round", previous.Round)
	}

	e.stopTimerLocked()
	e.session = newSession(e.newID(), e.cfg.CountdownFrom)
	e.commitLocked()

	e.logger.Info("Session reset",
		"previous", previous.ID,
		"session", e.session.ID,
		"player", previous.Score.Player,
		"bot", previous.Score.Bot)
	e.mu.Unlock()

	e.flush()
}

// Stop cancels any pending timer without changing the session. A stopped
// engine can still be reset or started again.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
}

// tick advances the countdown by one step.
func (e *Engine) tick(epoch uint64) {
	e.mu.Lock()
	if !e.currentLocked(epoch, Countdown) {
		e.mu.Unlock()
		return
	}

	e.stopTimerLocked()
	s := &e.session
	if s.Countdown > 1 {
		s.Countdown--
		e.logger.Debug("Countdown", "round", s.Round, "value", s.Countdown)
		e.scheduleLocked(e.cfg.Tick, e.tick, "tick")
	} else {
		s.Phase = Playing
		s.Countdown = e.cfg.CountdownFrom
		e.logger.Debug("Capture window open", "round", s.Round, "delay", e.cfg.CaptureDelay)
		e.scheduleLocked(e.cfg.CaptureDelay, e.capture, "capture")
	}
	e.commitLocked()
	e.mu.Unlock()

	e.flush()
}

// capture samples the player's gesture once, draws the bot's move and
// resolves the round.
func (e *Engine) capture(epoch uint64) {
	e.mu.Lock()
	if !e.currentLocked(epoch, Playing) {
		e.mu.Unlock()
		return
	}

	e.stopTimerLocked()
	s := &e.session
	s.PlayerGesture = e.playerGestureLocked()
	s.BotGesture = e.botMoveLocked()
	outcome := Resolve(s.PlayerGesture, s.BotGesture)
	s.Outcome = &outcome
	s.Score = s.Score.Apply(outcome)
	s.Phase = Result
	e.commitLocked()

	e.logger.Info("Round resolved",
		"round", s.Round,
		"player", s.PlayerGesture,
		"bot", s.BotGesture,
		"outcome", outcome.Kind,
		"score", fmt.Sprintf("%d-%d", s.Score.Player, s.Score.Bot))

	if s.Score.Reached(e.cfg.WinningScore) {
		s.Phase = GameOver
		e.commitLocked()
		e.logger.Info("Game over", "session", s.ID, "player", s.Score.Player, "bot", s.Score.Bot)
	}
	e.mu.Unlock()

	e.flush()
}

// playerGestureLocked reads the source, treating values outside the
// gesture range as no hand.
func (e *Engine) playerGestureLocked() Gesture {
	g := e.source.CurrentGesture()
	if !g.Valid() {
		e.logger.Warn("Ignoring out-of-range gesture from source", "gesture", int(g))
		return None
	}
	return g
}

// botMoveLocked draws the bot's move. A mover that returns anything other
// than Rock, Paper or Scissors is replaced by a uniform draw for the round.
func (e *Engine) botMoveLocked() Gesture {
	g := e.mover.Move()
	if g.Valid() && g != None {
		return g
	}
	e.logger.Warn("Mover returned an unplayable move", "move", int(g))
	return Moves[rand.IntN(len(Moves))]
}

// currentLocked reports whether a timer scheduled at epoch still applies.
func (e *Engine) currentLocked(epoch uint64, want Phase) bool {
	if epoch == e.epoch && e.session.Phase == want {
		return true
	}
	e.logger.Debug("Dropped stale timer", "epoch", epoch, "current", e.epoch, "phase", e.session.Phase)
	return false
}

// scheduleLocked arms the active timer slot. The slot must be empty.
func (e *Engine) scheduleLocked(d time.Duration, fire func(epoch uint64), tag string) {
	epoch := e.epoch
	e.timer = e.clock.AfterFunc(d, func() { fire(epoch) }, "engine", tag)
}

// stopTimerLocked empties the active timer slot and invalidates any
// callback already in flight.
func (e *Engine) stopTimerLocked() {
	e.epoch++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) commitLocked() {
	e.pending = append(e.pending, e.session.snapshot(e.cfg.WinningScore))
}

// flush delivers committed snapshots in order. Whoever holds the delivery
// lock drains the queue; a listener that re-enters the engine only queues
// its snapshots and returns, and the outer flush picks them up.
func (e *Engine) flush() {
	for {
		if !e.deliver.TryLock() {
			return
		}
		for {
			e.mu.Lock()
			batch := e.pending
			e.pending = nil
			e.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, snap := range batch {
				e.subs.publish(snap)
			}
		}
		e.deliver.Unlock()

		e.mu.Lock()
		empty := len(e.pending) == 0
		e.mu.Unlock()
		if empty {
			return
		}
	}
}
