package phh

import (
	"strings"

	"github.com/lox/headsup/poker"
)

// hiddenCard is PHH's placeholder for an unknown card.
const hiddenCard = "??"

// Card renders c in PHH notation, e.g. "Th" or "As".
func Card(c poker.Card) string {
	if !c.Valid() {
		return hiddenCard
	}
	rank := c.Rank.Label()
	if rank == "10" {
		rank = "T"
	}
	return rank + c.Suit.Code()
}

// Cards renders cards back to back, as PHH actions expect.
func Cards(cards ...poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(Card(c))
	}
	return b.String()
}
