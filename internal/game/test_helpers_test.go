package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/poker"
)

var t0 = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

// stackedDeck returns a fresh deck that deals the given cards first, in deal
// order: player1 hole, player2 hole, flop, turn, river.
func stackedDeck(t *testing.T, cards string) *poker.Deck {
	t.Helper()
	top := poker.MustParseCards(cards)
	require.True(t, poker.Distinct(top...), "stacked cards must be distinct")

	d := &poker.Deck{}
	copy(d.Cards[:], top)
	used := poker.NewCardSet(top...)
	i := len(top)
	for _, c := range poker.NewOrderedDeck().Cards {
		if !used.Contains(c) {
			d.Cards[i] = c
			i++
		}
	}
	require.NoError(t, d.Validate())
	return d
}

func newTestGame(chips int) Game {
	return NewGame("g1", "alice", "bob", 10, 20, chips, t0)
}

func mustStart(t *testing.T, g Game, deck *poker.Deck) (Game, Hand) {
	t.Helper()
	ng, h, err := StartHand(g, g.Player1ID, deck, "h1", t0)
	require.NoError(t, err)
	return ng, h
}

func mustApply(t *testing.T, g Game, h Hand, player string, a Action) (Game, Hand) {
	t.Helper()
	ng, nh, err := Apply(g, h, player, a, t0.Add(time.Minute))
	require.NoError(t, err, "%s %s", player, a.Kind())
	return ng, nh
}

func snapshotBytes(t *testing.T, g Game, h Hand) []byte {
	t.Helper()
	data, err := json.Marshal(struct {
		Game Game
		Hand Hand
	}{g, h})
	require.NoError(t, err)
	return data
}

func logTotal(h Hand) int {
	total := 0
	for _, a := range h.Actions {
		total += a.Amount
	}
	return total
}
