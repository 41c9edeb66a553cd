package round

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allGestures = []Gesture{None, Rock, Paper, Scissors}

func TestResolve(t *testing.T) {
	tests := []struct {
		player, bot Gesture
		want        OutcomeKind
	}{
		{None, None, Invalid},
		{None, Rock, Invalid},
		{None, Paper, Invalid},
		{None, Scissors, Invalid},
		{Rock, Rock, Draw},
		{Paper, Paper, Draw},
		{Scissors, Scissors, Draw},
		{Rock, Scissors, PlayerWin},
		{Paper, Rock, PlayerWin},
		{Scissors, Paper, PlayerWin},
		{Rock, Paper, BotWin},
		{Paper, Scissors, BotWin},
		{Scissors, Rock, BotWin},
		{Rock, None, BotWin},
		{Paper, None, BotWin},
		{Scissors, None, BotWin},
	}
	require.Len(t, tests, len(allGestures)*len(allGestures))

	for _, tt := range tests {
		t.Run(tt.player.String()+"_vs_"+tt.bot.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.player, tt.bot).Kind)
		})
	}
}

func TestResolveMessages(t *testing.T) {
	assert.Equal(t, Outcome{Kind: Invalid, Message: "No Hand Detected"}, Resolve(None, Rock))
	assert.Equal(t, Outcome{Kind: Draw, Message: "Draw!"}, Resolve(Rock, Rock))
	assert.Equal(t, Outcome{Kind: PlayerWin, Message: "You Win!"}, Resolve(Rock, Scissors))
	assert.Equal(t, Outcome{Kind: BotWin, Message: "Bot Wins!"}, Resolve(Rock, Paper))
}

func TestResolveComplementary(t *testing.T) {
	for _, p := range Moves {
		for _, b := range Moves {
			forward := Resolve(p, b).Kind
			backward := Resolve(b, p).Kind

			assert.Contains(t, []OutcomeKind{PlayerWin, BotWin, Draw}, forward, "%s vs %s", p, b)
			assert.False(t, forward == PlayerWin && backward == PlayerWin, "%s vs %s both win", p, b)

			switch forward {
			case PlayerWin:
				assert.Equal(t, BotWin, backward)
			case BotWin:
				assert.Equal(t, PlayerWin, backward)
			case Draw:
				assert.Equal(t, Draw, backward)
			}
		}
	}
}

func TestResolveNoneIsAlwaysInvalid(t *testing.T) {
	for _, b := range allGestures {
		assert.Equal(t, Invalid, Resolve(None, b).Kind, "bot %s", b)
	}
}

func TestScoreApply(t *testing.T) {
	start := Score{Player: 1, Bot: 1}

	assert.Equal(t, Score{Player: 2, Bot: 1}, start.Apply(Outcome{Kind: PlayerWin}))
	assert.Equal(t, Score{Player: 1, Bot: 2}, start.Apply(Outcome{Kind: BotWin}))
	assert.Equal(t, start, start.Apply(Outcome{Kind: Draw}))
	assert.Equal(t, start, start.Apply(Outcome{Kind: Invalid}))
}

func TestScoreReached(t *testing.T) {
	assert.False(t, Score{Player: 2, Bot: 2}.Reached(3))
	assert.True(t, Score{Player: 3}.Reached(3))
	assert.True(t, Score{Bot: 4}.Reached(3))
}

func TestParseGesture(t *testing.T) {
	tests := []struct {
		input   string
		want    Gesture
		wantErr bool
	}{
		{"rock", Rock, false},
		{"Paper", Paper, false},
		{" SCISSORS ", Scissors, false},
		{"none", None, false},
		{"", None, false},
		{"lizard", None, true},
	}

	for _, tt := range tests {
		got, err := ParseGesture(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input: %q", tt.input)
			continue
		}
		require.NoError(t, err, "input: %q", tt.input)
		assert.Equal(t, tt.want, got, "input: %q", tt.input)
	}
}

func TestSnapshotJSON(t *testing.T) {
	outcome := Resolve(Paper, Rock)
	snap := Snapshot{
		SessionID:     "s1",
		Round:         2,
		Phase:         GameOver,
		Score:         Score{Player: 3, Bot: 1},
		PlayerGesture: Paper,
		BotGesture:    Rock,
		Countdown:     3,
		Outcome:       &outcome,
		WinningScore:  3,
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"sessionId": "s1",
		"round": 2,
		"phase": "game_over",
		"score": {"player": 3, "bot": 1},
		"playerGesture": "paper",
		"botGesture": "rock",
		"countdown": 3,
		"outcome": {"kind": "player_win", "message": "You Win!"},
		"winningScore": 3
	}`, string(data))

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snap, decoded)
}

func TestSnapshotWinner(t *testing.T) {
	_, ok := Snapshot{Phase: Result, Score: Score{Player: 3}}.Winner()
	assert.False(t, ok)

	winner, ok := Snapshot{Phase: GameOver, Score: Score{Player: 1, Bot: 3}}.Winner()
	assert.True(t, ok)
	assert.Equal(t, BotWin, winner)
}
