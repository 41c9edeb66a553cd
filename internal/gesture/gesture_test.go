package gesture

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rps/internal/randutil"
	"github.com/lox/rps/internal/round"
)

func TestDefaultLabels(t *testing.T) {
	labels := DefaultLabels()

	tests := []struct {
		label string
		want  round.Gesture
	}{
		{"Closed_Fist", round.Rock},
		{"closed_fist", round.Rock},
		{"Open_Palm", round.Paper},
		{"Victory", round.Scissors},
		{" victory ", round.Scissors},
		{"Thumb_Up", round.None},
		{"None", round.None},
		{"something_else", round.None},
		{"", round.None},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, labels.Lookup(tt.label), "label: %q", tt.label)
	}
}

func TestParseLabels(t *testing.T) {
	labels, err := ParseLabels(map[string]string{
		"Fist":  "rock",
		"Palm":  "paper",
		"Peace": "Scissors",
	})
	require.NoError(t, err)

	assert.Equal(t, round.Rock, labels.Lookup("fist"))
	assert.Equal(t, round.Paper, labels.Lookup("PALM"))
	assert.Equal(t, round.Scissors, labels.Lookup("peace"))

	_, err = ParseLabels(map[string]string{"Fist": "lizard"})
	assert.Error(t, err)

	_, err = ParseLabels(map[string]string{" ": "rock"})
	assert.Error(t, err)
}

func TestLabelsMergeAndFor(t *testing.T) {
	merged := DefaultLabels().Merge(Labels{"Thumb_Up": round.Paper})

	assert.Equal(t, round.Paper, merged.Lookup("thumb_up"))
	assert.Equal(t, round.None, DefaultLabels().Lookup("thumb_up"), "merge does not modify the receiver")
	assert.Equal(t, []string{"open_palm", "thumb_up"}, merged.For(round.Paper))
}

func TestLatestObserve(t *testing.T) {
	latest := NewLatest(Options{MinConfidence: 0.6, Clock: quartz.NewMock(t)})

	assert.Equal(t, round.None, latest.CurrentGesture(), "reads None before any frame")

	assert.Equal(t, round.Rock, latest.Observe(Classification{Label: "Closed_Fist", Score: 0.9}))
	assert.Equal(t, round.Rock, latest.CurrentGesture())

	assert.Equal(t, round.None, latest.Observe(Classification{Label: "Victory", Score: 0.4}), "low confidence reads as no hand")
	assert.Equal(t, round.None, latest.CurrentGesture())

	latest.Observe(Classification{Label: "Victory", Score: 0.6})
	assert.Equal(t, round.Scissors, latest.CurrentGesture())
	assert.Equal(t, uint64(3), latest.Observations())
}

func TestLatestRejectsNaNScore(t *testing.T) {
	for _, floor := range []float64{0, 0.6} {
		latest := NewLatest(Options{MinConfidence: floor, Clock: quartz.NewMock(t)})
		latest.Set(round.Rock)

		assert.Equal(t, round.None, latest.Observe(Classification{Label: "Victory", Score: math.NaN()}), "floor %g", floor)
		assert.Equal(t, round.None, latest.CurrentGesture())
	}
}

func TestLatestStale(t *testing.T) {
	clock := quartz.NewMock(t)
	latest := NewLatest(Options{StaleAfter: 500 * time.Millisecond, Clock: clock})

	latest.Set(round.Paper)
	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, round.Paper, latest.CurrentGesture())

	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, round.None, latest.CurrentGesture(), "camera went quiet")

	latest.Set(round.Paper)
	assert.Equal(t, round.Paper, latest.CurrentGesture())
}

func TestLatestConcurrentUse(t *testing.T) {
	latest := NewLatest(Options{})

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 200 {
				latest.Set(round.Moves[(i+j)%len(round.Moves)])
				_ = latest.CurrentGesture()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(800), latest.Observations())
	assert.NotEqual(t, round.None, latest.CurrentGesture())
}

func TestManual(t *testing.T) {
	m := NewManual()
	assert.Equal(t, round.None, m.CurrentGesture())

	m.Set(round.Scissors)
	assert.Equal(t, round.Scissors, m.CurrentGesture())
	assert.Equal(t, round.Scissors, m.CurrentGesture(), "reads do not consume the value")
}

func TestRandom(t *testing.T) {
	r := NewRandom(randutil.New(3), 0.25)

	counts := make(map[round.Gesture]int)
	for range 4000 {
		counts[r.CurrentGesture()]++
	}

	assert.InDelta(t, 1000, counts[round.None], 150)
	for _, g := range round.Moves {
		assert.InDelta(t, 1000, counts[g], 150, "move %s", g)
	}
}

func TestRandomNeverNone(t *testing.T) {
	r := NewRandom(nil, 0)
	for range 100 {
		assert.NotEqual(t, round.None, r.CurrentGesture())
	}
}

func TestSourcesSatisfyInterface(t *testing.T) {
	var _ round.GestureSource = NewLatest(Options{})
	var _ round.GestureSource = NewManual()
	var _ round.GestureSource = NewRandom(nil, 0)
}
