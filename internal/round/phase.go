package round

import (
	"fmt"
	"strings"
)

// Phase is the lifecycle stage of a game session.
type Phase int

const (
	// Idle is the initial phase, waiting for the first round.
	Idle Phase = iota
	// Countdown counts down to the capture.
	Countdown
	// Playing is the capture window after the countdown.
	Playing
	// Result shows the outcome of the last round.
	Result
	// GameOver is entered once either side reaches the winning score.
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Countdown:
		return "Countdown"
	case Playing:
		return "Playing"
	case Result:
		return "Result"
	case GameOver:
		return "GameOver"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// CanStartRound reports whether StartRound is accepted in this phase.
func (p Phase) CanStartRound() bool {
	return p == Idle || p == Result
}

// MarshalText encodes the phase as a snake_case name.
func (p Phase) MarshalText() ([]byte, error) {
	switch p {
	case GameOver:
		return []byte("game_over"), nil
	case Idle, Countdown, Playing, Result:
		return []byte(strings.ToLower(p.String())), nil
	default:
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*p = Idle
	case "countdown":
		*p = Countdown
	case "playing":
		*p = Playing
	case "result":
		*p = Result
	case "game_over":
		*p = GameOver
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}
