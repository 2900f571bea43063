package poker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardDisplay(t *testing.T) {
	t.Parallel()

	aceSpades := NewCard(Ace, Spades)
	assert.Equal(t, "A♠", aceSpades.String())
	assert.Equal(t, Black, aceSpades.Color())

	tenHearts := NewCard(Ten, Hearts)
	assert.Equal(t, "10♥", tenHearts.String())
	assert.Equal(t, Red, tenHearts.Color())
	assert.Equal(t, "h", tenHearts.Suit.Code())

	assert.Equal(t, "7", Seven.Label())
	assert.Equal(t, "red", Diamonds.Color().String())
	assert.False(t, Card{}.Valid(), "zero card must not be valid")
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "A♠", want: NewCard(Ace, Spades)},
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "10h", want: NewCard(Ten, Hearts)},
		{input: "Td", want: NewCard(Ten, Diamonds)},
		{input: "2♣", want: NewCard(Two, Clubs)},
		{input: "kd", want: NewCard(King, Diamonds)},
		{input: "Xs", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "1", wantErr: true},
		{input: "100s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	cards := MustParseCards("Q♦ 10♣")
	data, err := json.Marshal(cards)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"rank":"Q","suit":"♦"},{"rank":"10","suit":"♣"}]`, string(data))

	var decoded []Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, cards, decoded)

	var short Card
	require.NoError(t, json.Unmarshal([]byte(`{"rank":"T","suit":"s"}`), &short))
	assert.Equal(t, NewCard(Ten, Spades), short)

	var bad Card
	assert.Error(t, json.Unmarshal([]byte(`{"rank":"1","suit":"♠"}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"rank":"A","suit":"x"}`), &bad))

	_, err = json.Marshal(Card{})
	assert.Error(t, err)
}

func TestCardSet(t *testing.T) {
	t.Parallel()

	cards := MustParseCards("As Kd 2c")
	set := NewCardSet(cards...)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(NewCard(King, Diamonds)))
	assert.False(t, set.Contains(NewCard(King, Hearts)))
	assert.Equal(t, bit(Ace), set.SuitMask(Spades))
	assert.ElementsMatch(t, cards, set.Cards())

	assert.True(t, Distinct(cards...))
	assert.False(t, Distinct(append(cards, NewCard(Ace, Spades))...))
	assert.False(t, Distinct(Card{}))
}
