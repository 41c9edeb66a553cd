package round

import "fmt"

// OutcomeKind classifies the result of a round.
type OutcomeKind int

const (
	// Invalid means no hand was detected at capture time.
	Invalid OutcomeKind = iota
	// PlayerWin scores a point for the player.
	PlayerWin
	// BotWin scores a point for the bot.
	BotWin
	// Draw leaves the score unchanged.
	Draw
)

func (k OutcomeKind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case PlayerWin:
		return "player_win"
	case BotWin:
		return "bot_win"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Decisive reports whether the outcome changes the score.
func (k OutcomeKind) Decisive() bool {
	return k == PlayerWin || k == BotWin
}

// MarshalText encodes the kind as its snake_case name.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	if k < Invalid || k > Draw {
		return nil, fmt.Errorf("invalid outcome kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for _, candidate := range []OutcomeKind{Invalid, PlayerWin, BotWin, Draw} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome kind %q", text)
}

// Outcome messages shown to the player
const (
	MessageNoHand    = "No Hand Detected"
	MessageDraw      = "Draw!"
	MessagePlayerWin = "You Win!"
	MessageBotWin    = "Bot Wins!"
)

// Outcome is the resolved result of one round.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
}

// Resolve decides a round. It is total over every pairing of gestures,
// including None on either side, and has no side effects.
func Resolve(player, bot Gesture) Outcome {
	switch {
	case player == None:
		return Outcome{Kind: Invalid, Message: MessageNoHand}
	case player == bot:
		return Outcome{Kind: Draw, Message: MessageDraw}
	case player.Beats(bot):
		return Outcome{Kind: PlayerWin, Message: MessagePlayerWin}
	default:
		return Outcome{Kind: BotWin, Message: MessageBotWin}
	}
}
