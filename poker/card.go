package poker

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in canonical deck order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

// Symbol returns the suit glyph used for display and serialisation.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Code returns the single letter short code (s, h, d, c).
func (s Suit) Code() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

func (s Suit) String() string { return s.Symbol() }

// Color is the printed color of a suit.
type Color uint8

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Color returns red for hearts and diamonds, black otherwise.
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

func (s Suit) valid() bool { return s <= Clubs }

// Rank represents a card rank. Values match pip counts, aces are high.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Label returns the rank as printed on the card.
func (r Rank) Label() string {
	switch r {
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return string(rune('0' + r))
		}
		return "?"
	}
}

func (r Rank) String() string { return r.Label() }

func (r Rank) valid() bool { return r >= Two && r <= Ace }

// Card is an immutable playing card. The zero value is not a valid card.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the display form, e.g. "A♠" or "10♥".
func (c Card) String() string {
	return c.Rank.Label() + c.Suit.Symbol()
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Rank.valid() && c.Suit.valid()
}

// Index maps the card to 0..51, ranks grouped within suit.
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// Color returns the printed color of the card.
func (c Card) Color() Color { return c.Suit.Color() }

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "2", "3", "4", "5", "6", "7", "8", "9":
		return Rank(s[0]-'0'), nil
	case "10", "T":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	return 0, fmt.Errorf("invalid rank %q", s)
}

func parseSuit(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "♠", "s":
		return Spades, nil
	case "♥", "h":
		return Hearts, nil
	case "♦", "d":
		return Diamonds, nil
	case "♣", "c":
		return Clubs, nil
	}
	return 0, fmt.Errorf("invalid suit %q", s)
}

// ParseCard parses "A♠", "As", "10h" or "Th".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 2 || len(runes) > 3 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, err := parseRank(string(runes[:len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	suit, err := parseSuit(string(runes[len(runes)-1]))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a whitespace separated list of cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalJSON encodes the card as {"rank":"A","suit":"♠"}.
func (c Card) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("poker: cannot marshal invalid card %d/%d", c.Rank, c.Suit)
	}
	return json.Marshal(cardJSON{Rank: c.Rank.Label(), Suit: c.Suit.Symbol()})
}

// UnmarshalJSON accepts suit symbols or short codes and "T" for ten.
func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("poker: malformed card: %w", err)
	}
	rank, err := parseRank(raw.Rank)
	if err != nil {
		return fmt.Errorf("poker: malformed card: %w", err)
	}
	suit, err := parseSuit(raw.Suit)
	if err != nil {
		return fmt.Errorf("poker: malformed card: %w", err)
	}
	*c = Card{Rank: rank, Suit: suit}
	return nil
}
