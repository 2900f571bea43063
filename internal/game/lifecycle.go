package game

import (
	"time"

	"github.com/lox/headsup/poker"
)

// StartHand deals a new hand from deck, which must be freshly shuffled.
// callerID must be one of the two players.
func StartHand(g Game, callerID string, deck *poker.Deck, handID string, now time.Time) (Game, Hand, error) {
	if _, ok := g.SeatOf(callerID); !ok {
		return Game{}, Hand{}, reject(ErrNotParticipant, "player %q", callerID)
	}
	if g.Status == StatusFinished {
		return Game{}, Hand{}, reject(ErrGameFinished, "game %s", g.ID)
	}
	if g.HasActiveHand() {
		return Game{}, Hand{}, reject(ErrHandInProgress, "hand %s", g.ActiveHandID)
	}
	if g.Player1Chips <= 0 || g.Player2Chips <= 0 {
		return Game{}, Hand{}, invariant("game %s has an empty stack but is not finished", g.ID)
	}
	if deck == nil || deck.Next != 0 {
		return Game{}, Hand{}, invariant("hand must start from a fresh deck")
	}
	if err := deck.Validate(); err != nil {
		return Game{}, Hand{}, invariant("%v", err)
	}

	ng := g.Clone()
	ng.HandCount++
	if ng.HandCount == 1 {
		ng.Button = Seat2
	} else {
		ng.Button = g.Button.Other()
	}

	h := Hand{
		ID:           handID,
		GameID:       g.ID,
		Number:       ng.HandCount,
		Button:       ng.Button,
		Player1Stack: g.Player1Chips,
		Player2Stack: g.Player2Chips,
		CurrentRound: Preflop,
		StartedAt:    now,
		Deck:         *deck,
	}

	for _, seat := range []Seat{Seat1, Seat2} {
		cards, err := h.Deck.Deal(2)
		if err != nil {
			return Game{}, Hand{}, invariant("dealing hole cards: %v", err)
		}
		if seat == Seat1 {
			h.Player1Cards = [2]poker.Card{cards[0], cards[1]}
		} else {
			h.Player2Cards = [2]poker.Card{cards[0], cards[1]}
		}
	}

	ng.Status = StatusActive
	ng.ActiveHandID = handID

	sb, bb := ng.Button, ng.Button.Other()
	m := &machine{g: &ng, h: &h, seat: sb, now: now}
	m.move(sb, min(ng.SmallBlind, ng.Chips(sb)))
	m.record(sb, KindSmallBlind, h.Bet(sb))
	m.move(bb, min(ng.BigBlind, ng.Chips(bb)))
	m.record(bb, KindBigBlind, h.Bet(bb))

	// The button acts first preflop unless a blind has put someone all-in.
	first := sb
	if allIn := m.allInSeat(); allIn != NoSeat {
		other := allIn.Other()
		if ng.Chips(other) == 0 || h.Bet(other) >= h.Bet(allIn) {
			if err := m.closeRound(); err != nil {
				return Game{}, Hand{}, err
			}
			m.sync()
			return ng, h, nil
		}
		first = other
	}
	m.seat = first.Other()
	m.passTurn()
	m.sync()
	return ng, h, nil
}

// allInSeat returns a seat with no chips behind, or NoSeat.
func (m *machine) allInSeat() Seat {
	switch {
	case m.g.Player1Chips == 0:
		return Seat1
	case m.g.Player2Chips == 0:
		return Seat2
	default:
		return NoSeat
	}
}

// closeRound ends the current betting round: it reveals the next community
// cards, runs the board out when a player is all-in, or goes to showdown.
func (m *machine) closeRound() error {
	m.h.Player1Bet, m.h.Player2Bet = 0, 0
	m.h.Player1Acted, m.h.Player2Acted = false, false

	if m.allInSeat() != NoSeat {
		for m.h.CurrentRound != River && m.h.CurrentRound != Showdown {
			if err := m.dealNext(); err != nil {
				return err
			}
		}
		return m.showdown()
	}

	if m.h.CurrentRound == River {
		return m.showdown()
	}
	if err := m.dealNext(); err != nil {
		return err
	}
	m.passTurn()
	return nil
}

// dealNext advances one round and reveals its community cards.
func (m *machine) dealNext() error {
	next, n := m.h.CurrentRound.next()
	if len(m.h.CommunityCards)+n > 5 {
		return invariant("hand %s would hold more than 5 community cards", m.h.ID)
	}
	cards, err := m.h.Deck.Deal(n)
	if err != nil {
		return invariant("dealing %s: %v", next, err)
	}
	m.h.CommunityCards = append(m.h.CommunityCards, cards...)
	m.h.CurrentRound = next
	return nil
}

func (m *machine) showdown() error {
	sd, err := poker.DetermineWinner(m.h.Player1Cards, m.h.Player2Cards, m.h.CommunityCards)
	if err != nil {
		return invariant("showdown: %v", err)
	}
	m.h.CurrentRound = Showdown
	m.h.Showdown = &sd
	return m.settle(sd.Winner)
}
