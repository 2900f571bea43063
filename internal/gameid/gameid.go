// Package gameid generates TypeID-style identifiers: a kind prefix plus a
// UUIDv7 encoded as 26 characters of Crockford base32.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Kind prefixes.
const (
	KindGame = "game"
	KindHand = "hand"
)

// Generator handles ID generation with configurable randomness
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Game returns a new game ID using crypto randomness.
func Game() string { return NewGenerator(nil).New(KindGame) }

// Hand returns a new hand ID using crypto randomness.
func Hand() string { return NewGenerator(nil).New(KindHand) }

// New creates an ID of the given kind, e.g. "game_01j9...".
func (g *Generator) New(kind string) string {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("gameid: failed to generate UUIDv7: " + err.Error())
	}
	return kind + "_" + encodeBase32(id)
}

// encodeBase32 encodes a 128-bit UUID as a 26-character base32 string
func encodeBase32(data [16]byte) string {
	// 130 bits of output: two leading zero bits followed by the 128-bit value.
	result := make([]byte, 26)
	for i := 0; i < 26; i++ {
		var value uint8
		for b := 0; b < 5; b++ {
			bitPos := i*5 + b - 2
			value <<= 1
			if bitPos >= 0 && data[bitPos/8]&(0x80>>(bitPos%8)) != 0 {
				value |= 1
			}
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

// Validate checks that id has the given kind prefix and a valid 26 character
// base32 suffix.
func Validate(kind, id string) error {
	prefix := kind + "_"
	if !strings.HasPrefix(id, prefix) {
		return fmt.Errorf("id %q does not start with %q", id, prefix)
	}
	suffix := id[len(prefix):]
	if len(suffix) != 26 {
		return fmt.Errorf("id must end in exactly 26 characters, got %d", len(suffix))
	}

	// First character carries only 3 bits, so it cannot exceed 7.
	if suffix[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", suffix[0])
	}

	for i, char := range suffix {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
