package round

// Score is the running tally of decisive rounds in a session.
type Score struct {
	Player int `json:"player"`
	Bot    int `json:"bot"`
}

// Apply returns the score after the given outcome. Only decisive outcomes
// change it, and always by exactly one.
func (s Score) Apply(o Outcome) Score {
	switch o.Kind {
	case PlayerWin:
		s.Player++
	case BotWin:
		s.Bot++
	}
	return s
}

// Reached reports whether either side has at least target points.
func (s Score) Reached(target int) bool {
	return s.Player >= target || s.Bot >= target
}

// Session is the mutable game state owned by an Engine.
type Session struct {
	ID            string
	Round         int
	Phase         Phase
	Score         Score
	PlayerGesture Gesture
	BotGesture    Gesture
	Countdown     int
	Outcome       *Outcome
}

// Snapshot is a read-only copy of a Session handed to presentation.
type Snapshot struct {
	SessionID     string   `json:"sessionId"`
	Round         int      `json:"round"`
	Phase         Phase    `json:"phase"`
	Score         Score    `json:"score"`
	PlayerGesture Gesture  `json:"playerGesture"`
	BotGesture    Gesture  `json:"botGesture"`
	Countdown     int      `json:"countdown"`
	Outcome       *Outcome `json:"outcome,omitempty"`
	WinningScore  int      `json:"winningScore"`
}

// Winner returns which side won a finished game, or false if the game is
// still running.
func (s Snapshot) Winner() (OutcomeKind, bool) {
	if s.Phase != GameOver {
		return Invalid, false
	}
	if s.Score.Player > s.Score.Bot {
		return PlayerWin, true
	}
	return BotWin, true
}

func newSession(id string, countdown int) Session {
	return Session{
		ID:        id,
		Phase:     Idle,
		Countdown: countdown,
	}
}

func (s *Session) snapshot(winningScore int) Snapshot {
	snap := Snapshot{
		SessionID:     s.ID,
		Round:         s.Round,
		Phase:         s.Phase,
		Score:         s.Score,
		PlayerGesture: s.PlayerGesture,
		BotGesture:    s.BotGesture,
		Countdown:     s.Countdown,
		WinningScore:  winningScore,
	}
	if s.Outcome != nil {
		outcome := *s.Outcome
		snap.Outcome = &outcome
	}
	return snap
}
