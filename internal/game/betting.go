package game

import (
	"time"
)

// machine applies one transition to private copies of a game and its hand.
type machine struct {
	g    *Game
	h    *Hand
	seat Seat
	now  time.Time
}

// Apply validates and applies a player's action. On success it returns the
// updated snapshots; on failure it returns zero values and the inputs are
// unchanged.
func Apply(g Game, h Hand, playerID string, a Action, now time.Time) (Game, Hand, error) {
	seat, ok := g.SeatOf(playerID)
	if !ok {
		return Game{}, Hand{}, reject(ErrNotParticipant, "player %q", playerID)
	}
	if g.Status == StatusFinished {
		return Game{}, Hand{}, reject(ErrGameFinished, "game %s", g.ID)
	}
	if !g.HasActiveHand() || h.ID != g.ActiveHandID || h.Complete() {
		return Game{}, Hand{}, reject(ErrNoActiveHand, "game %s", g.ID)
	}
	if g.CurrentTurn == nil || *g.CurrentTurn != playerID {
		return Game{}, Hand{}, reject(ErrNotYourTurn, "waiting on %s", turnLabel(g.CurrentTurn))
	}
	if a == nil {
		return Game{}, Hand{}, reject(ErrInvalidAction, "missing action")
	}
	if err := h.validate(); err != nil {
		return Game{}, Hand{}, err
	}

	ng, nh := g.Clone(), h.Clone()
	m := &machine{g: &ng, h: &nh, seat: seat, now: now}
	if err := m.apply(a); err != nil {
		return Game{}, Hand{}, err
	}
	m.sync()
	return ng, nh, nil
}

func turnLabel(turn *string) string {
	if turn == nil {
		return "nobody"
	}
	return *turn
}

func (m *machine) apply(a Action) error {
	me, opp := m.seat, m.seat.Other()
	myBet, oppBet := m.h.Bet(me), m.h.Bet(opp)
	chips := m.g.Chips(me)

	switch a := a.(type) {
	case Fold:
		m.record(me, KindFold, 0)
		return m.award(opp)

	case Check:
		if myBet != oppBet {
			return reject(ErrCannotCheck, "facing %d to call", oppBet-myBet)
		}
		m.record(me, KindCheck, 0)
		*m.h.acted(me) = true
		if *m.h.acted(opp) {
			return m.closeRound()
		}
		m.passTurn()
		return nil

	case Call:
		toCall := oppBet - myBet
		if toCall <= 0 {
			return reject(ErrNothingToCall, "bets are level")
		}
		if toCall > chips {
			return reject(ErrNotEnoughChips, "call needs %d, stack is %d", toCall, chips)
		}
		m.move(me, toCall)
		m.record(me, KindCall, toCall)
		*m.h.acted(me) = true
		return m.closeRound()

	case Raise:
		if a.Amount <= 0 {
			return reject(ErrInvalidRaise, "raise amount must be positive")
		}
		if a.Amount > chips {
			return reject(ErrNotEnoughChips, "raise of %d with a stack of %d", a.Amount, chips)
		}
		if m.g.Chips(opp) == 0 {
			return reject(ErrInvalidRaise, "opponent is all-in")
		}
		if myBet+a.Amount < oppBet {
			return reject(ErrInvalidRaise, "raise of %d does not reach the bet of %d", a.Amount, oppBet)
		}
		m.move(me, a.Amount)
		m.record(me, KindRaise, a.Amount)
		m.reopen()
		return nil

	case AllIn:
		if chips == 0 {
			return reject(ErrNotEnoughChips, "stack is empty")
		}
		m.move(me, chips)
		m.record(me, KindAllIn, chips)
		if myBet+chips <= oppBet || m.g.Chips(opp) == 0 {
			// a call for less, or nobody left to respond
			*m.h.acted(me) = true
			return m.closeRound()
		}
		m.reopen()
		return nil

	default:
		return reject(ErrInvalidAction, "unsupported action %T", a)
	}
}

// move takes amount from seat's stack into its bet and the pot.
func (m *machine) move(seat Seat, amount int) {
	*m.g.chips(seat) -= amount
	*m.h.bet(seat) += amount
	*m.h.committed(seat) += amount
	m.h.Pot += amount
}

func (m *machine) record(seat Seat, kind ActionKind, amount int) {
	m.h.Actions = append(m.h.Actions, ActionRecord{
		PlayerID:  m.g.PlayerID(seat),
		Kind:      kind,
		Amount:    amount,
		Round:     m.h.CurrentRound,
		Timestamp: m.now,
	})
}

// reopen leaves the round open after an aggressive action: the opponent must
// respond before it can close.
func (m *machine) reopen() {
	*m.h.acted(m.seat) = true
	*m.h.acted(m.seat.Other()) = false
	m.passTurn()
}

func (m *machine) passTurn() {
	id := m.g.PlayerID(m.seat.Other())
	m.g.CurrentTurn = &id
}

// sync mirrors hand state onto the game.
func (m *machine) sync() {
	m.g.CurrentRound = m.h.CurrentRound
	m.g.UpdatedAt = m.now
	if m.h.Complete() {
		m.g.Pot = 0
		m.g.CurrentTurn = nil
		m.g.ActiveHandID = ""
		return
	}
	m.g.Pot = m.h.Pot
}

// ValidActions lists what the player on turn may do. It is empty when no
// hand is in progress.
func ValidActions(g Game, h Hand) []ActionKind {
	if g.Status == StatusFinished || !g.HasActiveHand() || h.Complete() || g.CurrentTurn == nil {
		return nil
	}
	me, ok := g.SeatOf(*g.CurrentTurn)
	if !ok {
		return nil
	}
	opp := me.Other()
	toCall := h.Bet(opp) - h.Bet(me)
	chips := g.Chips(me)

	actions := []ActionKind{KindFold}
	if toCall == 0 {
		actions = append(actions, KindCheck)
	}
	if toCall > 0 && toCall <= chips {
		actions = append(actions, KindCall)
	}
	if lo, _, ok := RaiseBounds(g, h); ok && lo <= chips {
		actions = append(actions, KindRaise)
	}
	if chips > 0 {
		actions = append(actions, KindAllIn)
	}
	return actions
}

// RaiseBounds returns the smallest and largest raise amount the player on
// turn may make.
func RaiseBounds(g Game, h Hand) (lo, hi int, ok bool) {
	if g.CurrentTurn == nil {
		return 0, 0, false
	}
	me, found := g.SeatOf(*g.CurrentTurn)
	if !found || g.Chips(me.Other()) == 0 {
		return 0, 0, false
	}
	lo = max(h.Bet(me.Other())-h.Bet(me), 1)
	hi = g.Chips(me)
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}
