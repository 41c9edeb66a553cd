package round

import (
	"fmt"
	"time"
)

// Default game constants
const (
	DefaultWinningScore = 3
	DefaultCountdown    = 3
	DefaultTick         = time.Second
	DefaultCaptureDelay = 500 * time.Millisecond
)

// Config holds the tunable constants of a game.
type Config struct {
	// WinningScore ends the game when either side reaches it.
	WinningScore int
	// CountdownFrom is the first countdown value shown.
	CountdownFrom int
	// Tick is the interval between countdown steps.
	Tick time.Duration
	// CaptureDelay is how long the Playing phase lasts before the
	// player's gesture is sampled.
	CaptureDelay time.Duration
}

// DefaultConfig returns the standard best-of-five configuration.
func DefaultConfig() Config {
	return Config{
		WinningScore:  DefaultWinningScore,
		CountdownFrom: DefaultCountdown,
		Tick:          DefaultTick,
		CaptureDelay:  DefaultCaptureDelay,
	}
}

// Validate checks that every constant is usable.
func (c Config) Validate() error {
	if c.WinningScore < 1 {
		return fmt.Errorf("winning score must be at least 1, got %d", c.WinningScore)
	}
	if c.CountdownFrom < 1 {
		return fmt.Errorf("countdown must be at least 1, got %d", c.CountdownFrom)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick)
	}
	if c.CaptureDelay <= 0 {
		return fmt.Errorf("capture delay must be positive, got %s", c.CaptureDelay)
	}
	return nil
}
