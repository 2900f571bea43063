package poker

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// ErrInvalidHand is returned when a card set cannot be evaluated.
var ErrInvalidHand = errors.New("poker: invalid hand")

// HandRank is a comparable strength key for a best 5-card hand. Higher values
// are stronger. The category sits above five 4-bit rank slots in kicker order.
type HandRank uint32

// Category enumerates the categories of poker hands ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

const categoryShift = 20

func makeRank(cat Category, ranks ...Rank) HandRank {
	hr := HandRank(cat) << categoryShift
	for i, r := range ranks {
		hr |= HandRank(r) << (16 - 4*uint(i))
	}
	return hr
}

// Category returns the hand category.
func (hr HandRank) Category() Category {
	return Category(hr >> categoryShift)
}

// Ranks returns the significant ranks in comparison order, e.g. trip rank,
// pair rank for a full house or the high card of a straight.
func (hr HandRank) Ranks() []Rank {
	out := make([]Rank, 0, 5)
	for i := 0; i < 5; i++ {
		r := Rank(hr >> (16 - 4*uint(i)) & 0xf)
		if r == 0 {
			break
		}
		out = append(out, r)
	}
	return out
}

// String returns a human-readable hand description.
func (hr HandRank) String() string {
	ranks := hr.Ranks()
	labels := make([]string, len(ranks))
	for i, r := range ranks {
		labels[i] = r.Label()
	}
	return fmt.Sprintf("%s (%s)", hr.Category(), strings.Join(labels, " "))
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 on an exact tie.
func Compare(a, b HandRank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Evaluate returns the best 5-card hand that can be made from 5 to 7 distinct cards.
func Evaluate(cards ...Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, fmt.Errorf("%w: need 5 to 7 cards, got %d", ErrInvalidHand, len(cards))
	}
	if !Distinct(cards...) {
		return 0, fmt.Errorf("%w: duplicate or invalid cards", ErrInvalidHand)
	}
	return EvaluateSet(NewCardSet(cards...)), nil
}

// EvaluateSet ranks a set of 5 to 7 cards without validating its size.
func EvaluateSet(set CardSet) HandRank {
	var suitMasks [4]uint16
	var rankMask uint16
	for _, suit := range Suits {
		mask := set.SuitMask(suit)
		suitMasks[suit] = mask
		rankMask |= mask
	}
	return rankFromMasks(suitMasks, rankMask)
}

func rankFromMasks(suitMasks [4]uint16, rankMask uint16) HandRank {
	// With at most seven cards a flush excludes quads and full houses, so it
	// can be settled first.
	for _, suitMask := range suitMasks {
		if bits.OnesCount16(suitMask) < 5 {
			continue
		}
		if high := straightHigh(suitMask); high > 0 {
			return makeRank(StraightFlush, high)
		}
		return makeRank(Flush, topRanks(suitMask, 5)...)
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]

	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quad := highestRank(quadsMask); quad > 0 {
		kicker := highestRank(rankMask &^ bit(quad))
		return makeRank(FourOfAKind, quad, kicker)
	}

	if trip := highestRank(tripsMask); trip > 0 {
		// a second set of trips plays as the pair
		if pair := highestRank(pairsMask | (tripsMask &^ bit(trip))); pair > 0 {
			return makeRank(FullHouse, trip, pair)
		}
	}

	if high := straightHigh(rankMask); high > 0 {
		return makeRank(Straight, high)
	}

	if trip := highestRank(tripsMask); trip > 0 {
		kickers := topRanks(rankMask&^bit(trip), 2)
		return makeRank(ThreeOfAKind, append([]Rank{trip}, kickers...)...)
	}

	if bits.OnesCount16(pairsMask) >= 2 {
		pairs := topRanks(pairsMask, 2)
		kicker := highestRank(rankMask &^ bit(pairs[0]) &^ bit(pairs[1]))
		return makeRank(TwoPair, pairs[0], pairs[1], kicker)
	}

	if pair := highestRank(pairsMask); pair > 0 {
		kickers := topRanks(rankMask&^bit(pair), 3)
		return makeRank(OnePair, append([]Rank{pair}, kickers...)...)
	}

	return makeRank(HighCard, topRanks(rankMask, 5)...)
}

func bit(r Rank) uint16 { return 1 << uint(r) }

// highestRank returns the highest rank present in mask, or 0 when empty.
func highestRank(mask uint16) Rank {
	mask &= 0x7ffc
	if mask == 0 {
		return 0
	}
	return Rank(15 - bits.LeadingZeros16(mask))
}

// topRanks returns up to n ranks from mask, highest first.
func topRanks(mask uint16, n int) []Rank {
	out := make([]Rank, 0, n)
	for r := Ace; r >= Two && len(out) < n; r-- {
		if mask&bit(r) != 0 {
			out = append(out, r)
		}
	}
	return out
}

// straightHigh returns the top rank of the best straight in mask, or 0.
// The wheel (A-2-3-4-5) is a five-high straight.
func straightHigh(mask uint16) Rank {
	if mask&bit(Ace) != 0 {
		mask |= 1 << 1
	}
	for high := Ace; high >= Five; high-- {
		window := uint16(0x1f) << uint(high-4)
		if mask&window == window {
			return high
		}
	}
	return 0
}
