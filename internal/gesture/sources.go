package gesture

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/lox/rps/internal/round"
)

// Manual is a source whose value is set by hand, e.g. from key presses.
type Manual struct {
	value atomic.Int32
}

// NewManual creates a manual source reading None.
func NewManual() *Manual {
	return &Manual{}
}

// Set changes the reported gesture.
func (m *Manual) Set(g round.Gesture) {
	m.value.Store(int32(g))
}

// CurrentGesture returns the last value set.
func (m *Manual) CurrentGesture() round.Gesture {
	return round.Gesture(m.value.Load())
}

// Random simulates a jittery classifier: each read is None with
// probability noHandRate, otherwise a uniformly random move.
type Random struct {
	mu         sync.Mutex
	rng        *rand.Rand
	noHandRate float64
}

// NewRandom creates a random source. A nil rng uses the global source.
func NewRandom(rng *rand.Rand, noHandRate float64) *Random {
	return &Random{rng: rng, noHandRate: noHandRate}
}

// CurrentGesture returns a random reading.
func (r *Random) CurrentGesture() round.Gesture {
	r.mu.Lock()
	defer r.mu.Unlock()

	float, intN := rand.Float64, rand.IntN
	if r.rng != nil {
		float, intN = r.rng.Float64, r.rng.IntN
	}
	if float() < r.noHandRate {
		return round.None
	}
	return round.Moves[intN(len(round.Moves))]
}
