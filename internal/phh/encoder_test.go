package phh_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/phh"
	"github.com/lox/headsup/poker"
)

func TestCard(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10h", "Th"},
		{"T♥", "Th"},
		{"A♠", "As"},
		{"2c", "2c"},
		{"Kd", "Kd"},
	}
	for _, tt := range tests {
		c, err := poker.ParseCard(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, phh.Card(c), tt.in)
	}
	assert.Equal(t, "??", phh.Card(poker.Card{}))
	assert.Equal(t, "AsTh", phh.Cards(poker.MustParseCards("As 10h")...))
}

func TestFormatAction(t *testing.T) {
	tests := []struct {
		name      string
		player    int
		kind      game.ActionKind
		total     int
		facing    int
		want      string
		shouldUse bool
	}{
		{"fold", 0, game.KindFold, 10, 20, "p1 f", true},
		{"check", 1, game.KindCheck, 0, 0, "p2 cc", true},
		{"call", 0, game.KindCall, 20, 20, "p1 cc", true},
		{"raise", 1, game.KindRaise, 120, 20, "p2 cbr 120", true},
		{"all-in raise", 0, game.KindAllIn, 350, 20, "p1 cbr 350", true},
		{"all-in call for less", 1, game.KindAllIn, 80, 350, "p2 cc", true},
		{"small blind", 0, game.KindSmallBlind, 10, 0, "", false},
		{"big blind", 1, game.KindBigBlind, 20, 10, "", false},
		{"unknown", 1, game.ActionKind("weird"), 10, 0, "# p2 weird 10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := phh.FormatAction(tt.player, tt.kind, tt.total, tt.facing)
			assert.Equal(t, tt.shouldUse, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeHandHistory(t *testing.T) {
	hand := &phh.HandHistory{
		Variant:           "NT",
		Table:             "default",
		SeatCount:         2,
		Seats:             []int{2, 1},
		Antes:             []int{0, 0},
		BlindsOrStraddles: []int{1, 2},
		MinBet:            2,
		StartingStacks:    []int{200, 200},
		FinishingStacks:   []int{198, 202},
		Winnings:          []int{0, 2},
		Actions: []string{
			"d dh p1 AhKh",
			"d dh p2 7c2d",
			"p1 f",
		},
		Players:   []string{"alice", "bob"},
		HandID:    "hand-00042",
		Time:      "15:22:00",
		TimeZone:  "UTC",
		Day:       14,
		Month:     11,
		Year:      2025,
		Timestamp: time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, phh.Encode(&buf, hand))

	want := "" +
		"variant = \"NT\"\n" +
		"table = \"default\"\n" +
		"seat_count = 2\n" +
		"seats = [2, 1]\n" +
		"antes = [0, 0]\n" +
		"blinds_or_straddles = [1, 2]\n" +
		"min_bet = 2\n" +
		"starting_stacks = [200, 200]\n" +
		"finishing_stacks = [198, 202]\n" +
		"winnings = [0, 2]\n" +
		"actions = [\"d dh p1 AhKh\", \"d dh p2 7c2d\", \"p1 f\"]\n" +
		"players = [\"alice\", \"bob\"]\n" +
		"hand = \"hand-00042\"\n" +
		"time = \"15:22:00\"\n" +
		"time_zone = \"UTC\"\n" +
		"day = 14\n" +
		"month = 11\n" +
		"year = 2025\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeNil(t *testing.T) {
	assert.Error(t, phh.Encode(&bytes.Buffer{}, nil))
}
