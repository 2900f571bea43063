package game

import (
	"github.com/lox/headsup/poker"
)

// award gives the whole pot to seat after the opponent folds.
func (m *machine) award(seat Seat) error {
	*m.h.payout(seat) = m.h.Pot
	return m.finish(seat)
}

// settle distributes the pot after a showdown. Chips one player committed
// beyond the other's total were never called and go back to their owner; the
// matched part goes to the winner or is split, odd chip to the big blind.
func (m *machine) settle(result poker.Outcome) error {
	c1, c2 := m.h.Player1Committed, m.h.Player2Committed
	matched := min(c1, c2)
	contested := 2 * matched

	var w1, w2 int
	var winner Seat
	switch result {
	case poker.Player1:
		w1, winner = contested, Seat1
	case poker.Player2:
		w2, winner = contested, Seat2
	default:
		w1, w2 = poker.SplitPot(contested, m.h.Button.Other().Outcome())
	}

	m.h.Payout1 = w1 + c1 - matched
	m.h.Payout2 = w2 + c2 - matched
	return m.finish(winner)
}

// finish credits payouts, closes the hand and ends the match when a stack is
// empty. winner is NoSeat for a split pot.
func (m *machine) finish(winner Seat) error {
	if m.h.Payout1+m.h.Payout2 != m.h.Pot {
		return invariant("hand %s pays out %d+%d from a pot of %d", m.h.ID, m.h.Payout1, m.h.Payout2, m.h.Pot)
	}
	m.g.Player1Chips += m.h.Payout1
	m.g.Player2Chips += m.h.Payout2

	if winner != NoSeat {
		id := m.g.PlayerID(winner)
		m.h.WinnerID = &id
	}
	now := m.now
	m.h.CompletedAt = &now
	m.h.Player1Bet, m.h.Player2Bet = 0, 0

	switch {
	case m.g.Player1Chips == 0:
		id := m.g.Player2ID
		m.g.Status, m.g.WinnerID = StatusFinished, &id
	case m.g.Player2Chips == 0:
		id := m.g.Player1ID
		m.g.Status, m.g.WinnerID = StatusFinished, &id
	}
	return nil
}
