package game

import "fmt"

// ActionKind names an entry in a hand's action log.
type ActionKind string

const (
	KindFold       ActionKind = "fold"
	KindCheck      ActionKind = "check"
	KindCall       ActionKind = "call"
	KindRaise      ActionKind = "raise"
	KindAllIn      ActionKind = "all_in"
	KindSmallBlind ActionKind = "small_blind"
	KindBigBlind   ActionKind = "big_blind"
)

// Action is a player decision. The set of implementations is closed; only
// Raise carries a payload.
type Action interface {
	Kind() ActionKind
	action()
}

// Fold gives up the hand.
type Fold struct{}

// Check passes when bets are level.
type Check struct{}

// Call matches the opponent's bet.
type Call struct{}

// Raise adds Amount chips to the player's bet for the round.
type Raise struct {
	Amount int
}

// AllIn commits the player's whole remaining stack.
type AllIn struct{}

func (Fold) Kind() ActionKind  { return KindFold }
func (Check) Kind() ActionKind { return KindCheck }
func (Call) Kind() ActionKind  { return KindCall }
func (Raise) Kind() ActionKind { return KindRaise }
func (AllIn) Kind() ActionKind { return KindAllIn }

func (Fold) action()  {}
func (Check) action() {}
func (Call) action()  {}
func (Raise) action() {}
func (AllIn) action() {}

// ParseAction builds an Action from its transport form. The amount is only
// read for raises.
func ParseAction(kind string, amount int) (Action, error) {
	switch ActionKind(kind) {
	case KindFold:
		return Fold{}, nil
	case KindCheck:
		return Check{}, nil
	case KindCall:
		return Call{}, nil
	case KindRaise:
		if amount <= 0 {
			return nil, reject(ErrInvalidRaise, "raise amount must be positive")
		}
		return Raise{Amount: amount}, nil
	case KindAllIn, "allin":
		return AllIn{}, nil
	default:
		return nil, reject(ErrInvalidAction, "unknown action %q", kind)
	}
}

func (r Raise) String() string { return fmt.Sprintf("raise %d", r.Amount) }
