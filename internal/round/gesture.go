package round

import (
	"fmt"
	"strings"
)

// Gesture is a hand shape reported by the gesture source or drawn by the bot.
type Gesture int

const (
	// None means no recognizable hand was observed. It is a valid sample.
	None Gesture = iota
	// Rock beats Scissors
	Rock
	// Paper beats Rock
	Paper
	// Scissors beats Paper
	Scissors
)

// Moves are the gestures a bot can play.
var Moves = [...]Gesture{Rock, Paper, Scissors}

// String returns the display name of a gesture
func (g Gesture) String() string {
	switch g {
	case None:
		return "None"
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return fmt.Sprintf("Gesture(%d)", int(g))
	}
}

// Valid reports whether g is one of the four known gestures.
func (g Gesture) Valid() bool {
	return g >= None && g <= Scissors
}

// Beats reports whether g wins against other. None never wins.
func (g Gesture) Beats(other Gesture) bool {
	switch g {
	case Rock:
		return other == Scissors
	case Paper:
		return other == Rock
	case Scissors:
		return other == Paper
	default:
		return false
	}
}

// ParseGesture converts a case-insensitive name into a Gesture.
func ParseGesture(s string) (Gesture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, nil
	case "rock":
		return Rock, nil
	case "paper":
		return Paper, nil
	case "scissors":
		return Scissors, nil
	default:
		return None, fmt.Errorf("unknown gesture %q", s)
	}
}

// MarshalText encodes the gesture as its lower-case name.
func (g Gesture) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid gesture %d", int(g))
	}
	return []byte(strings.ToLower(g.String())), nil
}

// UnmarshalText decodes a gesture name.
func (g *Gesture) UnmarshalText(text []byte) error {
	parsed, err := ParseGesture(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
