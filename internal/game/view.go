package game

import (
	"time"

	"github.com/lox/headsup/poker"
)

// HandView is a hand as one viewer may see it: the deck is never included and
// the opponent's hole cards stay hidden until showdown.
type HandView struct {
	ID             string         `json:"id"`
	Number         int            `json:"number"`
	Button         Seat           `json:"button"`
	Player1Cards   []poker.Card   `json:"player1_cards,omitempty"`
	Player2Cards   []poker.Card   `json:"player2_cards,omitempty"`
	CommunityCards []poker.Card   `json:"community_cards"`
	Player1Bet     int            `json:"player1_bet"`
	Player2Bet     int            `json:"player2_bet"`
	Pot            int            `json:"pot"`
	CurrentRound   Round          `json:"current_round"`
	Actions        []ActionRecord `json:"actions"`
	WinnerID       *string        `json:"winner_id"`
	Player1Hand    string         `json:"player1_hand,omitempty"`
	Player2Hand    string         `json:"player2_hand,omitempty"`
	Payout1        int            `json:"payout1"`
	Payout2        int            `json:"payout2"`
	CompletedAt    *time.Time     `json:"completed_at"`
}

// View is the polling snapshot returned to clients.
type View struct {
	Game Game      `json:"game"`
	Hand *HandView `json:"hand,omitempty"`
}

// NewView builds what viewerID may see of g and h. h may be nil.
func NewView(g Game, h *Hand, viewerID string) View {
	v := View{Game: g.Clone()}
	if h == nil {
		return v
	}
	hc := h.Clone()
	hv := &HandView{
		ID:             hc.ID,
		Number:         hc.Number,
		Button:         hc.Button,
		CommunityCards: hc.CommunityCards,
		Player1Bet:     hc.Player1Bet,
		Player2Bet:     hc.Player2Bet,
		Pot:            hc.Pot,
		CurrentRound:   hc.CurrentRound,
		Actions:        hc.Actions,
		WinnerID:       hc.WinnerID,
		Payout1:        hc.Payout1,
		Payout2:        hc.Payout2,
		CompletedAt:    hc.CompletedAt,
	}
	if hv.CommunityCards == nil {
		hv.CommunityCards = []poker.Card{}
	}

	seat, _ := g.SeatOf(viewerID)
	revealed := hc.Showdown != nil
	if revealed || seat == Seat1 {
		hv.Player1Cards = hc.Player1Cards[:]
	}
	if revealed || seat == Seat2 {
		hv.Player2Cards = hc.Player2Cards[:]
	}
	if revealed {
		hv.Player1Hand = hc.Showdown.Player1.String()
		hv.Player2Hand = hc.Showdown.Player2.String()
	}
	v.Hand = hv
	return v
}
