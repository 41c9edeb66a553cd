package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rps/internal/round"
)

func TestAddRound(t *testing.T) {
	var s Statistics
	s.AddRound(round.Rock, round.Scissors, round.Resolve(round.Rock, round.Scissors))
	s.AddRound(round.Rock, round.Rock, round.Resolve(round.Rock, round.Rock))
	s.AddRound(round.None, round.Paper, round.Resolve(round.None, round.Paper))
	s.AddRound(round.Paper, round.Scissors, round.Resolve(round.Paper, round.Scissors))

	assert.Equal(t, 4, s.Rounds)
	assert.Equal(t, 1, s.Count(round.PlayerWin))
	assert.Equal(t, 1, s.Count(round.BotWin))
	assert.Equal(t, 1, s.Count(round.Draw))
	assert.Equal(t, 1, s.Count(round.Invalid))
	assert.Equal(t, 2, s.Decisive())
	assert.InDelta(t, 0.5, s.DecisiveRate(), 1e-9)
	assert.InDelta(t, 0.5, s.PlayerWinRate(), 1e-9)
	assert.InDelta(t, 0.25, s.NoHandRate(), 1e-9)
	assert.Equal(t, 2, s.PlayerMoves[round.Rock])
	assert.Equal(t, 1, s.PlayerMoves[round.None])
	require.NoError(t, s.Validate())
}

func TestLongestStreak(t *testing.T) {
	var s Statistics
	win := round.Resolve(round.Rock, round.Scissors)
	loss := round.Resolve(round.Rock, round.Paper)
	draw := round.Resolve(round.Rock, round.Rock)
	none := round.Resolve(round.None, round.Rock)

	for _, o := range []round.Outcome{win, draw, win, none, win, loss, win} {
		s.AddRound(round.Rock, round.Rock, o)
	}
	assert.Equal(t, 3, s.LongestStreak)
}

func TestEmptyRates(t *testing.T) {
	var s Statistics
	assert.Zero(t, s.PlayerWinRate())
	assert.Zero(t, s.DecisiveRate())
	assert.Zero(t, s.NoHandRate())
	low, high := s.WinRateInterval95()
	assert.Zero(t, low)
	assert.Zero(t, high)
	require.NoError(t, s.Validate())
}

func TestWinRateInterval(t *testing.T) {
	var s Statistics
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			s.AddRound(round.Rock, round.Scissors, round.Resolve(round.Rock, round.Scissors))
		} else {
			s.AddRound(round.Rock, round.Paper, round.Resolve(round.Rock, round.Paper))
		}
	}

	low, high := s.WinRateInterval95()
	assert.InDelta(t, 0.402, low, 0.001)
	assert.InDelta(t, 0.598, high, 0.001)

	var all Statistics
	all.AddRound(round.Rock, round.Scissors, round.Resolve(round.Rock, round.Scissors))
	low, high = all.WinRateInterval95()
	assert.Equal(t, 1.0, low)
	assert.Equal(t, 1.0, high)
}

func TestMerge(t *testing.T) {
	var a, b Statistics
	a.AddRound(round.Rock, round.Scissors, round.Resolve(round.Rock, round.Scissors))
	a.AddRound(round.Rock, round.Scissors, round.Resolve(round.Rock, round.Scissors))
	a.AddGame(round.PlayerWin)
	b.AddRound(round.Paper, round.Scissors, round.Resolve(round.Paper, round.Scissors))
	b.AddGame(round.BotWin)

	a.Merge(&b)
	assert.Equal(t, 3, a.Rounds)
	assert.Equal(t, 2, a.Games)
	assert.Equal(t, 1, a.PlayerGames)
	assert.Equal(t, 1, a.BotGames)
	assert.Equal(t, 2, a.LongestStreak)
	require.NoError(t, a.Validate())
}

func TestValidate(t *testing.T) {
	s := Statistics{Rounds: 2}
	s.Outcomes[round.Draw] = 1
	assert.Error(t, s.Validate())

	s = Statistics{Rounds: 1}
	s.Outcomes[round.Draw] = 1
	s.PlayerMoves[round.Rock] = 1
	s.BotMoves[round.None] = 1
	assert.ErrorContains(t, s.Validate(), "bot played None")

	s = Statistics{Games: 1}
	assert.Error(t, s.Validate())
}

func TestSummary(t *testing.T) {
	var s Statistics
	s.AddRound(round.Rock, round.Scissors, round.Resolve(round.Rock, round.Scissors))
	s.AddGame(round.PlayerWin)

	summary := s.Summary()
	assert.Contains(t, summary, "Games: 1 (player 1, bot 0)")
	assert.Contains(t, summary, "Rounds: 1 (win 1, loss 0, draw 0, no hand 0)")
	assert.Contains(t, summary, "Longest win streak: 1")
}

func TestTrackerCountsOnce(t *testing.T) {
	tracker := NewTracker()
	win := round.Resolve(round.Rock, round.Scissors)

	result := round.Snapshot{
		SessionID:     "a",
		Round:         3,
		Phase:         round.Result,
		Score:         round.Score{Player: 3},
		PlayerGesture: round.Rock,
		BotGesture:    round.Scissors,
		Outcome:       &win,
		WinningScore:  3,
	}
	over := result
	over.Phase = round.GameOver

	tracker.OnSnapshot(round.Snapshot{SessionID: "a", Round: 3, Phase: round.Countdown})
	tracker.OnSnapshot(result)
	tracker.OnSnapshot(over)
	tracker.OnSnapshot(over)

	stats := tracker.Stats()
	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 1, stats.Games)
	assert.Equal(t, 1, stats.PlayerGames)
	require.NoError(t, stats.Validate())

	// Same round number in a new session counts again.
	next := result
	next.SessionID = "b"
	next.Score = round.Score{Player: 1}
	tracker.OnSnapshot(next)
	assert.Equal(t, 2, tracker.Stats().Rounds)
	assert.Equal(t, 1, tracker.Stats().Games)
}

func TestAddRoundIgnoresOutOfRange(t *testing.T) {
	var s Statistics
	win := round.Resolve(round.Rock, round.Scissors)

	assert.NotPanics(t, func() {
		s.AddRound(round.Gesture(7), round.Scissors, round.Outcome{Kind: round.BotWin})
		s.AddRound(round.Rock, round.Gesture(-1), win)
		s.AddRound(round.Rock, round.Scissors, round.Outcome{Kind: round.OutcomeKind(9)})
	})
	assert.Zero(t, s.Rounds)
	assert.Equal(t, [4]int{}, s.Outcomes)
}

func TestTrackerSkipsOutOfRangeGesture(t *testing.T) {
	tracker := NewTracker()
	loss := round.Outcome{Kind: round.BotWin, Message: "Bot Wins!"}

	assert.NotPanics(t, func() {
		tracker.OnSnapshot(round.Snapshot{
			SessionID:     "a",
			Round:         1,
			Phase:         round.Result,
			PlayerGesture: round.Gesture(7),
			BotGesture:    round.Rock,
			Outcome:       &loss,
			WinningScore:  3,
		})
	})
	assert.Zero(t, tracker.Stats().Rounds)
}
