package poker

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrDeckExhausted is returned when a deal asks for more cards than remain.
var ErrDeckExhausted = errors.New("poker: deck exhausted")

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck is a fixed 52-card arena consumed front to back through a cursor.
// Dealt cards are never returned to the deck.
type Deck struct {
	Cards [DeckSize]Card `json:"cards"`
	Next  int            `json:"next"`
}

// NewOrderedDeck builds the canonical unshuffled deck.
func NewOrderedDeck() *Deck {
	d := &Deck{}
	i := 0
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.Cards[i] = NewCard(rank, suit)
			i++
		}
	}
	return d
}

// Shuffle returns a fresh deck permuted with Fisher-Yates using rng.
func Shuffle(rng *rand.Rand) *Deck {
	d := NewOrderedDeck()
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
	return d
}

// Deal removes and returns the next n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || d.Next+n > len(d.Cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrDeckExhausted, n, d.CardsRemaining())
	}
	cards := make([]Card, n)
	copy(cards, d.Cards[d.Next:d.Next+n])
	d.Next += n
	return cards, nil
}

// Remaining returns a copy of the undealt cards in draw order.
func (d *Deck) Remaining() []Card {
	out := make([]Card, d.CardsRemaining())
	copy(out, d.Cards[d.Next:])
	return out
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.Cards) - d.Next
}

// Validate checks that the deck holds 52 distinct cards and a sane cursor.
func (d *Deck) Validate() error {
	if d.Next < 0 || d.Next > len(d.Cards) {
		return fmt.Errorf("poker: deck cursor %d out of range", d.Next)
	}
	if !Distinct(d.Cards[:]...) {
		return errors.New("poker: deck does not hold 52 distinct cards")
	}
	return nil
}
