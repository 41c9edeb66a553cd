package round

import (
	"math/rand/v2"

	"github.com/lox/rps/internal/randutil"
)

// GestureSource reports the player's most recently classified gesture.
// CurrentGesture must not block; its value may change between any two reads.
type GestureSource interface {
	CurrentGesture() Gesture
}

// GestureSourceFunc adapts a function to the GestureSource interface.
type GestureSourceFunc func() Gesture

// CurrentGesture calls f.
func (f GestureSourceFunc) CurrentGesture() Gesture { return f() }

// Mover picks the bot's move for a round.
type Mover interface {
	Move() Gesture
}

// RandomMover draws uniformly from Rock, Paper and Scissors.
type RandomMover struct {
	rng *rand.Rand
}

// NewRandomMover creates a mover. A nil rng uses the global source.
func NewRandomMover(rng *rand.Rand) *RandomMover {
	return &RandomMover{rng: rng}
}

// NewSeededMover creates a mover with a reproducible sequence. A zero seed
// falls back to the global source.
func NewSeededMover(seed int64) *RandomMover {
	if seed == 0 {
		return NewRandomMover(nil)
	}
	return NewRandomMover(randutil.New(seed))
}

// Move returns a uniformly random move. Callers serialise access; the engine
// only calls it while holding its lock.
func (m *RandomMover) Move() Gesture {
	if m.rng == nil {
		return Moves[rand.IntN(len(Moves))]
	}
	return Moves[m.rng.IntN(len(Moves))]
}

// FixedMover replays a fixed sequence of moves, wrapping around at the end.
type FixedMover struct {
	moves []Gesture
	next  int
}

// NewFixedMover creates a mover that plays moves in order.
func NewFixedMover(moves ...Gesture) *FixedMover {
	if len(moves) == 0 {
		panic("fixed mover needs at least one move")
	}
	return &FixedMover{moves: moves}
}

// Move returns the next move in the sequence.
func (m *FixedMover) Move() Gesture {
	g := m.moves[m.next%len(m.moves)]
	m.next++
	return g
}
