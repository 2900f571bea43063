package game

import (
	"fmt"

	"github.com/lox/headsup/poker"
)

// Seat identifies one of the two players at the table.
type Seat uint8

const (
	NoSeat Seat = iota
	Seat1
	Seat2
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	switch s {
	case Seat1:
		return Seat2
	case Seat2:
		return Seat1
	default:
		return NoSeat
	}
}

// Outcome maps the seat onto the evaluator's player labels.
func (s Seat) Outcome() poker.Outcome {
	if s == Seat2 {
		return poker.Player2
	}
	return poker.Player1
}

func (s Seat) String() string {
	switch s {
	case Seat1:
		return "player1"
	case Seat2:
		return "player2"
	default:
		return "none"
	}
}

// MarshalText encodes the seat as player1 or player2.
func (s Seat) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes player1, player2 or none.
func (s *Seat) UnmarshalText(b []byte) error {
	switch string(b) {
	case "player1":
		*s = Seat1
	case "player2":
		*s = Seat2
	case "none", "":
		*s = NoSeat
	default:
		return fmt.Errorf("game: invalid seat %q", b)
	}
	return nil
}
