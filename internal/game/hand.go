package game

import (
	"slices"
	"time"

	"github.com/lox/headsup/poker"
)

// Round represents the betting round
type Round string

const (
	Preflop  Round = "preflop"
	Flop     Round = "flop"
	Turn     Round = "turn"
	River    Round = "river"
	Showdown Round = "showdown"
)

// next returns the round that follows r and how many community cards it reveals.
func (r Round) next() (Round, int) {
	switch r {
	case Preflop:
		return Flop, 3
	case Flop:
		return Turn, 1
	case Turn:
		return River, 1
	default:
		return Showdown, 0
	}
}

// ActionRecord is one entry of a hand's append-only action log.
type ActionRecord struct {
	PlayerID  string     `json:"player_id"`
	Kind      ActionKind `json:"kind"`
	Amount    int        `json:"amount"`
	Round     Round      `json:"round"`
	Timestamp time.Time  `json:"timestamp"`
}

// Hand is a single deal within a Game.
type Hand struct {
	ID     string `json:"id"`
	GameID string `json:"game_id"`
	Number int    `json:"number"`
	Button Seat   `json:"button"`
	// Stacks before the blinds were posted.
	Player1Stack int `json:"player1_stack"`
	Player2Stack int `json:"player2_stack"`

	Player1Cards   [2]poker.Card `json:"player1_cards"`
	Player2Cards   [2]poker.Card `json:"player2_cards"`
	CommunityCards []poker.Card  `json:"community_cards"`

	// Bets for the current round only.
	Player1Bet int `json:"player1_bet"`
	Player2Bet int `json:"player2_bet"`
	// Everything each player has put into this hand's pot.
	Player1Committed int `json:"player1_committed"`
	Player2Committed int `json:"player2_committed"`
	// Whether each player has acted since the round opened or was last raised.
	Player1Acted bool `json:"player1_acted"`
	Player2Acted bool `json:"player2_acted"`

	Pot          int            `json:"pot"`
	CurrentRound Round          `json:"current_round"`
	Actions      []ActionRecord `json:"actions"`

	WinnerID    *string         `json:"winner_id"`
	Showdown    *poker.Showdown `json:"showdown,omitempty"`
	Payout1     int             `json:"payout1"`
	Payout2     int             `json:"payout2"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`

	Deck poker.Deck `json:"deck"`
}

// Complete reports whether the hand has been settled.
func (h *Hand) Complete() bool { return h.CompletedAt != nil }

// HoleCards returns the private cards dealt to seat.
func (h *Hand) HoleCards(seat Seat) [2]poker.Card {
	if seat == Seat2 {
		return h.Player2Cards
	}
	return h.Player1Cards
}

// Bet returns seat's bet for the current round.
func (h *Hand) Bet(seat Seat) int { return *h.bet(seat) }

// Committed returns everything seat has put in the pot this hand.
func (h *Hand) Committed(seat Seat) int { return *h.committed(seat) }

// StartingStack returns seat's stack before the blinds.
func (h *Hand) StartingStack(seat Seat) int {
	if seat == Seat2 {
		return h.Player2Stack
	}
	return h.Player1Stack
}

// Payout returns what seat collected at settlement.
func (h *Hand) Payout(seat Seat) int { return *h.payout(seat) }

func (h *Hand) bet(seat Seat) *int {
	if seat == Seat2 {
		return &h.Player2Bet
	}
	return &h.Player1Bet
}

func (h *Hand) committed(seat Seat) *int {
	if seat == Seat2 {
		return &h.Player2Committed
	}
	return &h.Player1Committed
}

func (h *Hand) acted(seat Seat) *bool {
	if seat == Seat2 {
		return &h.Player2Acted
	}
	return &h.Player1Acted
}

func (h *Hand) payout(seat Seat) *int {
	if seat == Seat2 {
		return &h.Payout2
	}
	return &h.Payout1
}

// Clone returns a deep copy.
func (h Hand) Clone() Hand {
	h.CommunityCards = slices.Clone(h.CommunityCards)
	h.Actions = slices.Clone(h.Actions)
	h.WinnerID = clonePtr(h.WinnerID)
	h.Showdown = clonePtr(h.Showdown)
	h.CompletedAt = clonePtr(h.CompletedAt)
	return h
}

// validate checks the invariants every stored hand must satisfy.
func (h *Hand) validate() error {
	if err := h.Deck.Validate(); err != nil {
		return invariant("hand %s: %v", h.ID, err)
	}
	if len(h.CommunityCards) > 5 {
		return invariant("hand %s has %d community cards", h.ID, len(h.CommunityCards))
	}
	if h.Player1Bet < 0 || h.Player2Bet < 0 || h.Player1Committed < 0 || h.Player2Committed < 0 {
		return invariant("hand %s has a negative bet", h.ID)
	}
	if h.Pot != h.Player1Committed+h.Player2Committed {
		return invariant("hand %s pot %d does not match commitments %d+%d",
			h.ID, h.Pot, h.Player1Committed, h.Player2Committed)
	}
	cards := append([]poker.Card{}, h.Player1Cards[:]...)
	cards = append(cards, h.Player2Cards[:]...)
	cards = append(cards, h.CommunityCards...)
	if !poker.Distinct(cards...) {
		return invariant("hand %s holds duplicate or malformed cards", h.ID)
	}
	return nil
}
