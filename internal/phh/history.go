package phh

import (
	"fmt"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/poker"
)

// Options controls what an exported history reveals.
type Options struct {
	Table string
	// IncludeHoleCards deals real hole cards instead of "????". Cards shown
	// at showdown are always included.
	IncludeHoleCards bool
}

// FromHand converts a completed hand of g into a PHH history. The button is
// p1 and the big blind is p2.
func FromHand(g game.Game, h game.Hand, opts Options) (*HandHistory, error) {
	if !h.Complete() {
		return nil, fmt.Errorf("phh: hand %s is not complete", h.ID)
	}
	if h.GameID != g.ID {
		return nil, fmt.Errorf("phh: hand %s belongs to game %s, not %s", h.ID, h.GameID, g.ID)
	}

	order := [2]game.Seat{h.Button, h.Button.Other()}
	hist := &HandHistory{
		Variant:           DefaultVariant,
		Table:             opts.Table,
		SeatCount:         2,
		Antes:             []int{0, 0},
		BlindsOrStraddles: []int{g.SmallBlind, g.BigBlind},
		MinBet:            g.BigBlind,
		HandID:            h.ID,
		Board:             make([]string, 0, len(h.CommunityCards)),
		Timestamp:         h.StartedAt,
		Metadata: map[string]any{
			"game_id":     g.ID,
			"hand_number": h.Number,
		},
	}
	for _, seat := range order {
		start := h.StartingStack(seat)
		finish := start - h.Committed(seat) + h.Payout(seat)
		hist.Seats = append(hist.Seats, int(seat))
		hist.Players = append(hist.Players, g.PlayerID(seat))
		hist.StartingStacks = append(hist.StartingStacks, start)
		hist.FinishingStacks = append(hist.FinishingStacks, finish)
		hist.Winnings = append(hist.Winnings, max(finish-start, 0))
	}
	for _, c := range h.CommunityCards {
		hist.Board = append(hist.Board, Card(c))
	}

	for i, seat := range order {
		cards := "????"
		if opts.IncludeHoleCards {
			hole := h.HoleCards(seat)
			cards = Cards(hole[:]...)
		}
		hist.Actions = append(hist.Actions, fmt.Sprintf("d dh p%d %s", i+1, cards))
	}

	index := func(playerID string) int {
		if playerID == g.PlayerID(order[0]) {
			return 0
		}
		return 1
	}

	b := boardWriter{hist: hist, board: h.CommunityCards}
	var street [2]int
	round := game.Preflop
	for _, rec := range h.Actions {
		if rec.Round != round {
			round = rec.Round
			street = [2]int{}
			b.dealTo(boardSize(round))
		}
		p := index(rec.PlayerID)
		street[p] += rec.Amount
		if s, ok := FormatAction(p, rec.Kind, street[p], street[1-p]); ok {
			hist.Actions = append(hist.Actions, s)
		}
	}
	b.dealTo(len(h.CommunityCards))

	if h.Showdown != nil {
		for i, seat := range order {
			hole := h.HoleCards(seat)
			hist.Actions = append(hist.Actions, fmt.Sprintf("p%d sm %s", i+1, Cards(hole[:]...)))
		}
	}

	hist.populateTimeFields()
	return hist, nil
}

// boardSize is the number of community cards visible during r.
func boardSize(r game.Round) int {
	switch r {
	case game.Flop:
		return 3
	case game.Turn:
		return 4
	case game.River, game.Showdown:
		return 5
	default:
		return 0
	}
}

// boardWriter emits "d db" actions one street at a time.
type boardWriter struct {
	hist     *HandHistory
	board    []poker.Card
	revealed int
}

func (b *boardWriter) dealTo(n int) {
	n = min(n, len(b.board))
	for b.revealed < n {
		next := b.revealed + 1
		if b.revealed == 0 {
			next = 3
		}
		next = min(next, n)
		b.hist.Actions = append(b.hist.Actions, "d db "+Cards(b.board[b.revealed:next]...))
		b.revealed = next
	}
}
