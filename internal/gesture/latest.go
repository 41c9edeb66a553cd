package gesture

import (
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/rps/internal/round"
)

// Classification is one result from the hand-gesture classifier.
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Options configures a Latest source.
type Options struct {
	// Labels maps classifier labels to moves. Default is DefaultLabels.
	Labels Labels
	// MinConfidence is the lowest score accepted as a hand. Lower scores,
	// and NaN, read as None.
	MinConfidence float64
	// StaleAfter makes a reading older than this read as None, covering a
	// camera that stopped sending frames. Zero disables it.
	StaleAfter time.Duration
	// Clock timestamps readings. Default is the real clock.
	Clock quartz.Clock
}

// Latest holds the most recent classification reported by the camera
// pipeline. Producers call Observe for every classified frame; the round
// engine reads CurrentGesture at capture time.
type Latest struct {
	labels        Labels
	minConfidence float64
	staleAfter    time.Duration
	clock         quartz.Clock

	mu           sync.RWMutex
	current      round.Gesture
	observedAt   time.Time
	observations uint64
}

// NewLatest creates a source that reads None until the first observation.
func NewLatest(opts Options) *Latest {
	if opts.Labels == nil {
		opts.Labels = DefaultLabels()
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	return &Latest{
		labels:        opts.Labels,
		minConfidence: opts.MinConfidence,
		staleAfter:    opts.StaleAfter,
		clock:         opts.Clock,
	}
}

// Observe records a classifier result and returns the move it maps to.
func (l *Latest) Observe(c Classification) round.Gesture {
	g := l.labels.Lookup(c.Label)
	if !(c.Score >= l.minConfidence) {
		g = round.None
	}
	l.Set(g)
	return g
}

// Set records a move directly.
func (l *Latest) Set(g round.Gesture) {
	now := l.clock.Now("gesture", "observe")

	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = g
	l.observedAt = now
	l.observations++
}

// CurrentGesture returns the latest move, or None if the reading is stale.
func (l *Latest) CurrentGesture() round.Gesture {
	l.mu.RLock()
	g, at := l.current, l.observedAt
	l.mu.RUnlock()

	if l.staleAfter > 0 && !at.IsZero() && l.clock.Since(at, "gesture", "stale") > l.staleAfter {
		return round.None
	}
	return g
}

// Observations returns how many readings have been recorded.
func (l *Latest) Observations() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.observations
}
