package statistics

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/lox/rps/internal/round"
)

// Statistics tallies rounds and games
type Statistics struct {
	Rounds      int
	Outcomes    [4]int // indexed by round.OutcomeKind
	PlayerMoves [4]int // indexed by round.Gesture
	BotMoves    [4]int // indexed by round.Gesture

	Games       int
	PlayerGames int
	BotGames    int

	// Longest run of consecutive player wins, draws and invalid rounds
	// do not break a run.
	LongestStreak int
	streak        int
}

// AddRound records one resolved round. Rounds carrying an out-of-range
// gesture or outcome kind are ignored.
func (s *Statistics) AddRound(player, bot round.Gesture, outcome round.Outcome) {
	if !player.Valid() || !bot.Valid() || outcome.Kind < round.Invalid || outcome.Kind > round.Draw {
		return
	}
	s.Rounds++
	s.Outcomes[outcome.Kind]++
	s.PlayerMoves[player]++
	s.BotMoves[bot]++

	switch outcome.Kind {
	case round.PlayerWin:
		s.streak++
		if s.streak > s.LongestStreak {
			s.LongestStreak = s.streak
		}
	case round.BotWin:
		s.streak = 0
	}
}

// AddGame records a finished game
func (s *Statistics) AddGame(winner round.OutcomeKind) {
	s.Games++
	switch winner {
	case round.PlayerWin:
		s.PlayerGames++
	case round.BotWin:
		s.BotGames++
	}
}

// Count returns how many rounds ended with the given outcome
func (s *Statistics) Count(kind round.OutcomeKind) int {
	return s.Outcomes[kind]
}

// Decisive returns the number of rounds that changed the score
func (s *Statistics) Decisive() int {
	return s.Outcomes[round.PlayerWin] + s.Outcomes[round.BotWin]
}

// DecisiveRate returns the share of rounds that changed the score
func (s *Statistics) DecisiveRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Decisive()) / float64(s.Rounds)
}

// PlayerWinRate returns the player's share of decisive rounds
func (s *Statistics) PlayerWinRate() float64 {
	decisive := s.Decisive()
	if decisive == 0 {
		return 0
	}
	return float64(s.Outcomes[round.PlayerWin]) / float64(decisive)
}

// WinRateInterval95 returns the normal-approximation 95% confidence
// interval for PlayerWinRate, clamped to [0, 1]
func (s *Statistics) WinRateInterval95() (float64, float64) {
	n := float64(s.Decisive())
	if n == 0 {
		return 0, 0
	}
	p := s.PlayerWinRate()
	margin := 1.96 * math.Sqrt(p*(1-p)/n)
	return math.Max(0, p-margin), math.Min(1, p+margin)
}

// NoHandRate returns the share of rounds where no hand was detected
func (s *Statistics) NoHandRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Outcomes[round.Invalid]) / float64(s.Rounds)
}

// Merge adds other's counts into s. Streaks are not continued across the
// merge; the longer of the two is kept.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	for i := range s.Outcomes {
		s.Outcomes[i] += other.Outcomes[i]
		s.PlayerMoves[i] += other.PlayerMoves[i]
		s.BotMoves[i] += other.BotMoves[i]
	}
	s.Games += other.Games
	s.PlayerGames += other.PlayerGames
	s.BotGames += other.BotGames
	s.LongestStreak = max(s.LongestStreak, other.LongestStreak)
}

// Validate checks that the tallies agree with each other
func (s *Statistics) Validate() error {
	sum := func(counts [4]int) int {
		total := 0
		for _, c := range counts {
			if c < 0 {
				return -1
			}
			total += c
		}
		return total
	}

	if got := sum(s.Outcomes); got != s.Rounds {
		return fmt.Errorf("outcome counts sum to %d, want %d rounds", got, s.Rounds)
	}
	if got := sum(s.PlayerMoves); got != s.Rounds {
		return fmt.Errorf("player moves sum to %d, want %d rounds", got, s.Rounds)
	}
	if got := sum(s.BotMoves); got != s.Rounds {
		return fmt.Errorf("bot moves sum to %d, want %d rounds", got, s.Rounds)
	}
	if s.BotMoves[round.None] != 0 {
		return fmt.Errorf("bot played None %d times", s.BotMoves[round.None])
	}
	if s.PlayerGames+s.BotGames != s.Games {
		return fmt.Errorf("game winners sum to %d, want %d games", s.PlayerGames+s.BotGames, s.Games)
	}
	return nil
}

// Summary renders the statistics as a short multi-line report
func (s *Statistics) Summary() string {
	var b strings.Builder
	low, high := s.WinRateInterval95()

	fmt.Fprintf(&b, "Games: %d (player %d, bot %d)\n", s.Games, s.PlayerGames, s.BotGames)
	fmt.Fprintf(&b, "Rounds: %d (win %d, loss %d, draw %d, no hand %d)\n",
		s.Rounds,
		s.Outcomes[round.PlayerWin],
		s.Outcomes[round.BotWin],
		s.Outcomes[round.Draw],
		s.Outcomes[round.Invalid])
	fmt.Fprintf(&b, "Player win rate: %.1f%% [%.1f%%, %.1f%%]\n", s.PlayerWinRate()*100, low*100, high*100)
	fmt.Fprintf(&b, "Longest win streak: %d\n", s.LongestStreak)
	fmt.Fprintf(&b, "Player moves: rock %d, paper %d, scissors %d, none %d",
		s.PlayerMoves[round.Rock],
		s.PlayerMoves[round.Paper],
		s.PlayerMoves[round.Scissors],
		s.PlayerMoves[round.None])
	return b.String()
}

// Tracker feeds engine snapshots into Statistics. It is a round.Listener.
type Tracker struct {
	mu    sync.Mutex
	stats Statistics
	seen  map[string]int // session ID -> last counted round
	games map[string]bool
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		seen:  make(map[string]int),
		games: make(map[string]bool),
	}
}

// OnSnapshot counts each resolved round and finished game once
func (t *Tracker) OnSnapshot(s round.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if (s.Phase == round.Result || s.Phase == round.GameOver) && s.Outcome != nil && t.seen[s.SessionID] < s.Round {
		t.seen[s.SessionID] = s.Round
		t.stats.AddRound(s.PlayerGesture, s.BotGesture, *s.Outcome)
	}
	if winner, over := s.Winner(); over && !t.games[s.SessionID] {
		t.games[s.SessionID] = true
		t.stats.AddGame(winner)
	}
}

// Stats returns a copy of the current statistics
func (t *Tracker) Stats() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
