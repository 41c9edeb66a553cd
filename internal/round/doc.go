// Package round implements the rock-paper-scissors round engine.
//
// The main type is Engine, which owns a single game Session and moves it
// through its phases: Idle, Countdown, Playing, Result and GameOver. The
// player's move comes from a GestureSource that is sampled exactly once per
// round, at the end of the capture delay. The bot's move comes from a Mover.
//
// # Basic Usage
//
//	engine, err := round.New(round.DefaultConfig(), source,
//	    round.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	unsubscribe := engine.Subscribe(round.ListenerFunc(func(s round.Snapshot) {
//	    render(s)
//	}))
//	defer unsubscribe()
//
//	if err := engine.StartRound(); err != nil {
//	    // ErrRoundInProgress or ErrGameOver
//	}
//
// # Timing
//
// All waiting is done with timers from a quartz.Clock. The engine keeps a
// single active timer slot: the countdown tick while counting down, the
// capture timer while playing. Every phase exit stops that timer and bumps
// an epoch, so a callback that was already in flight when the phase changed
// finds a stale epoch and does nothing.
//
// # Deterministic Testing
//
// Inject a mock clock and a fixed mover:
//
//	clock := quartz.NewMock(t)
//	engine, _ := round.New(cfg, source,
//	    round.WithClock(clock),
//	    round.WithMover(round.NewFixedMover(round.Scissors, round.Paper)))
//	clock.Advance(time.Second).MustWait(ctx)
package round
