package poker

import "fmt"

// Outcome is the result of a heads-up showdown.
type Outcome uint8

const (
	Tie Outcome = iota
	Player1
	Player2
)

func (o Outcome) String() string {
	switch o {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return "tie"
	}
}

// MarshalText encodes the outcome as player1, player2 or tie.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes player1, player2 or tie.
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "player1":
		*o = Player1
	case "player2":
		*o = Player2
	case "tie":
		*o = Tie
	default:
		return fmt.Errorf("poker: invalid outcome %q", b)
	}
	return nil
}

// Showdown holds both evaluated hands and the winner.
type Showdown struct {
	Winner  Outcome  `json:"winner"`
	Player1 HandRank `json:"player1_rank"`
	Player2 HandRank `json:"player2_rank"`
}

// DetermineWinner compares two hole-card pairs over a complete board.
// Calling it before all five community cards are known is a caller error.
func DetermineWinner(p1, p2 [2]Card, board []Card) (Showdown, error) {
	if len(board) != 5 {
		return Showdown{}, fmt.Errorf("%w: showdown needs 5 community cards, got %d", ErrInvalidHand, len(board))
	}
	all := make([]Card, 0, 9)
	all = append(all, p1[:]...)
	all = append(all, p2[:]...)
	all = append(all, board...)
	if !Distinct(all...) {
		return Showdown{}, fmt.Errorf("%w: duplicate or invalid cards at showdown", ErrInvalidHand)
	}

	boardSet := NewCardSet(board...)
	r1 := EvaluateSet(boardSet.Add(p1[0]).Add(p1[1]))
	r2 := EvaluateSet(boardSet.Add(p2[0]).Add(p2[1]))

	sd := Showdown{Player1: r1, Player2: r2}
	switch Compare(r1, r2) {
	case 1:
		sd.Winner = Player1
	case -1:
		sd.Winner = Player2
	default:
		sd.Winner = Tie
	}
	return sd, nil
}

// SplitPot divides pot as evenly as possible. An odd chip goes to oddChip,
// which must be Player1 or Player2.
func SplitPot(pot int, oddChip Outcome) (p1, p2 int) {
	half := pot / 2
	p1, p2 = half, half
	if pot%2 != 0 {
		if oddChip == Player2 {
			p2++
		} else {
			p1++
		}
	}
	return p1, p2
}
