package phh_test

import (
	"os"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/phh"
	"github.com/lox/headsup/poker"
)

var t0 = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

// deckWith returns a fresh deck dealing alice's hole cards, bob's hole cards,
// then the board.
func deckWith(t *testing.T, top string) *poker.Deck {
	t.Helper()
	cards := poker.MustParseCards(top)
	d := &poker.Deck{}
	copy(d.Cards[:], cards)
	used := poker.NewCardSet(cards...)
	i := len(cards)
	for _, c := range poker.NewOrderedDeck().Cards {
		if !used.Contains(c) {
			d.Cards[i] = c
			i++
		}
	}
	require.NoError(t, d.Validate())
	return d
}

func play(t *testing.T, g game.Game, h game.Hand, moves ...any) (game.Game, game.Hand) {
	t.Helper()
	for i := 0; i < len(moves); i += 2 {
		var err error
		g, h, err = game.Apply(g, h, moves[i].(string), moves[i+1].(game.Action), t0)
		require.NoError(t, err)
	}
	return g, h
}

func startHand(t *testing.T) (game.Game, game.Hand) {
	t.Helper()
	g := game.NewGame("game_1", "alice", "bob", 10, 20, 1000, t0)
	g, h, err := game.StartHand(g, "alice", deckWith(t, "As Ah Ks Kh 2c 7d 9s Jc 3h"), "hand_1", t0)
	require.NoError(t, err)
	return g, h
}

func TestFromHandShowdown(t *testing.T) {
	g, h := startHand(t)
	// bob has the button and acts first preflop
	g, h = play(t, g, h,
		"bob", game.Call{},
		"alice", game.Check{}, "bob", game.Raise{Amount: 40}, "alice", game.Call{},
		"bob", game.Check{}, "alice", game.Check{},
		"bob", game.Check{}, "alice", game.Check{},
	)
	require.True(t, h.Complete())

	hist, err := phh.FromHand(g, h, phh.Options{Table: "main"})
	require.NoError(t, err)

	assert.Equal(t, "NT", hist.Variant)
	assert.Equal(t, "main", hist.Table)
	assert.Equal(t, []string{"bob", "alice"}, hist.Players)
	assert.Equal(t, []int{2, 1}, hist.Seats)
	assert.Equal(t, []int{10, 20}, hist.BlindsOrStraddles)
	assert.Equal(t, 20, hist.MinBet)
	assert.Equal(t, []int{1000, 1000}, hist.StartingStacks)
	assert.Equal(t, []int{940, 1060}, hist.FinishingStacks)
	assert.Equal(t, []int{0, 60}, hist.Winnings)
	assert.Equal(t, []string{"2c", "7d", "9s", "Jc", "3h"}, hist.Board)
	assert.Equal(t, []string{
		"d dh p1 ????",
		"d dh p2 ????",
		"p1 cc",
		"d db 2c7d9s",
		"p2 cc",
		"p1 cbr 40",
		"p2 cc",
		"d db Jc",
		"p1 cc",
		"p2 cc",
		"d db 3h",
		"p1 cc",
		"p2 cc",
		"p1 sm KsKh",
		"p2 sm AsAh",
	}, hist.Actions)
	assert.Equal(t, "20:00:00", hist.Time)
	assert.Equal(t, 2026, hist.Year)
}

func TestFromHandAllInRunout(t *testing.T) {
	g, h := startHand(t)
	g, h = play(t, g, h, "bob", game.AllIn{}, "alice", game.Call{})
	require.True(t, h.Complete())

	hist, err := phh.FromHand(g, h, phh.Options{IncludeHoleCards: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"d dh p1 KsKh",
		"d dh p2 AsAh",
		"p1 cbr 1000",
		"p2 cc",
		"d db 2c7d9s",
		"d db Jc",
		"d db 3h",
		"p1 sm KsKh",
		"p2 sm AsAh",
	}, hist.Actions)
	assert.Equal(t, []int{0, 2000}, hist.FinishingStacks)
}

func TestFromHandFold(t *testing.T) {
	g, h := startHand(t)
	g, h = play(t, g, h, "bob", game.Fold{})

	hist, err := phh.FromHand(g, h, phh.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d dh p1 ????", "d dh p2 ????", "p1 f"}, hist.Actions)
	assert.Equal(t, []int{990, 1010}, hist.FinishingStacks)
	assert.Equal(t, []int{0, 10}, hist.Winnings)
}

func TestFromHandRequiresCompleteHand(t *testing.T) {
	g, h := startHand(t)
	_, err := phh.FromHand(g, h, phh.Options{})
	assert.Error(t, err)
}

func TestRecorderWritesHand(t *testing.T) {
	g, h := startHand(t)
	g, h = play(t, g, h, "bob", game.Fold{})

	rec := phh.NewRecorder(t.TempDir(), phh.Options{}, zerolog.Nop())
	require.NoError(t, rec.Record(g, h))

	path := rec.Path(g.ID, h.ID)
	_, err := os.Stat(path)
	require.NoError(t, err)

	var decoded phh.HandHistory
	_, err = toml.DecodeFile(path, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "hand_1", decoded.HandID)
	assert.Equal(t, []string{"bob", "alice"}, decoded.Players)
	assert.Equal(t, "game_1", decoded.Metadata["game_id"])
}
