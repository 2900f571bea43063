package poker

import "math/bits"

// CardSet is a set of cards packed into a bitset, one bit per Card.Index.
type CardSet uint64

// NewCardSet builds a set from the given cards. Duplicates collapse.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s = s.Add(c)
	}
	return s
}

// Add returns the set with c included.
func (s CardSet) Add(c Card) CardSet {
	return s | 1<<uint(c.Index())
}

// Contains reports whether c is in the set.
func (s CardSet) Contains(c Card) bool {
	return s&(1<<uint(c.Index())) != 0
}

// Len returns the number of cards in the set.
func (s CardSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// SuitMask returns the ranks held in suit as a mask with bit r set for rank r.
func (s CardSet) SuitMask(suit Suit) uint16 {
	return uint16((uint64(s)>>(uint(suit)*13))&0x1fff) << 2
}

// Cards lists the set in deck order.
func (s CardSet) Cards() []Card {
	cards := make([]Card, 0, s.Len())
	for _, suit := range Suits {
		for r := Two; r <= Ace; r++ {
			c := Card{Rank: r, Suit: suit}
			if s.Contains(c) {
				cards = append(cards, c)
			}
		}
	}
	return cards
}

// Distinct reports whether cards contains no duplicates and only valid cards.
func Distinct(cards ...Card) bool {
	var s CardSet
	for _, c := range cards {
		if !c.Valid() || s.Contains(c) {
			return false
		}
		s = s.Add(c)
	}
	return true
}
