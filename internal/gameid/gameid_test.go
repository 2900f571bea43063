package gameid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsValidate(t *testing.T) {
	id := Game()
	assert.True(t, strings.HasPrefix(id, "game_"))
	assert.Len(t, id, len("game_")+26)
	require.NoError(t, Validate(KindGame, id))

	hand := Hand()
	require.NoError(t, Validate(KindHand, hand))
	assert.Error(t, Validate(KindGame, hand))
}

func TestNewIDsAreUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Game()
		require.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestNewIDsAreTimeSorted(t *testing.T) {
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, Hand())
		time.Sleep(2 * time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "%s >= %s", ids[i-1], ids[i])
	}
}

func TestGeneratorWithReader(t *testing.T) {
	g := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	id := g.New(KindGame)
	require.NoError(t, Validate(KindGame, id))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid ID", "game_01h5n0et5q6mt3v7ms1234abcd", false},
		{"missing prefix", "01h5n0et5q6mt3v7ms1234abcd", true},
		{"wrong prefix", "hand_01h5n0et5q6mt3v7ms1234abcd", true},
		{"too short", "game_01h5n0et5q6mt3v7ms123", true},
		{"too long", "game_01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "game_81h5n0et5q6mt3v7ms1234abcd", true},
		{"invalid character", "game_01h5n0et5q6mt3v7ms1234abci", true},
		{"uppercase", "game_01H5N0ET5Q6MT3V7MS1234ABCD", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(KindGame, tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEncodeBase32(t *testing.T) {
	var zero [16]byte
	assert.Equal(t, "00000000000000000000000000", encodeBase32(zero))

	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, "7zzzzzzzzzzzzzzzzzzzzzzzzz", encodeBase32(ones))
}
