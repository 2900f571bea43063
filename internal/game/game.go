package game

import "time"

// Status is the lifecycle state of a match.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Game is the persistent heads-up match between two players.
type Game struct {
	ID           string  `json:"id"`
	Player1ID    string  `json:"player1_id"`
	Player2ID    string  `json:"player2_id"`
	Player1Chips int     `json:"player1_chips"`
	Player2Chips int     `json:"player2_chips"`
	SmallBlind   int     `json:"small_blind"`
	BigBlind     int     `json:"big_blind"`
	Pot          int     `json:"pot"`
	CurrentRound Round   `json:"current_round,omitempty"`
	CurrentTurn  *string `json:"current_turn"`
	Status       Status  `json:"status"`
	WinnerID     *string `json:"winner_id"`

	// Button is the seat holding the dealer button for the latest hand.
	Button       Seat      `json:"button"`
	HandCount    int       `json:"hand_count"`
	ActiveHandID string    `json:"active_hand_id,omitempty"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewGame seats two players with equal stacks. The game waits for its first hand.
func NewGame(id, player1, player2 string, smallBlind, bigBlind, startingChips int, now time.Time) Game {
	return Game{
		ID:           id,
		Player1ID:    player1,
		Player2ID:    player2,
		Player1Chips: startingChips,
		Player2Chips: startingChips,
		SmallBlind:   smallBlind,
		BigBlind:     bigBlind,
		Status:       StatusWaiting,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SeatOf returns the seat occupied by playerID.
func (g *Game) SeatOf(playerID string) (Seat, bool) {
	switch {
	case playerID == "":
		return NoSeat, false
	case playerID == g.Player1ID:
		return Seat1, true
	case playerID == g.Player2ID:
		return Seat2, true
	default:
		return NoSeat, false
	}
}

// PlayerID returns the player sitting in seat.
func (g *Game) PlayerID(seat Seat) string {
	if seat == Seat2 {
		return g.Player2ID
	}
	return g.Player1ID
}

func (g *Game) chips(seat Seat) *int {
	if seat == Seat2 {
		return &g.Player2Chips
	}
	return &g.Player1Chips
}

// Chips returns the stack behind seat.
func (g *Game) Chips(seat Seat) int { return *g.chips(seat) }

// HasActiveHand reports whether a hand is in progress.
func (g *Game) HasActiveHand() bool { return g.ActiveHandID != "" }

// Clone returns a deep copy.
func (g Game) Clone() Game {
	g.CurrentTurn = clonePtr(g.CurrentTurn)
	g.WinnerID = clonePtr(g.WinnerID)
	return g
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
