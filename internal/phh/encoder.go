package phh

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/lox/headsup/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	// Use tabs for arrays to match human expectations
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatAction converts one logged action to a PHH action string. player is
// the zero-based PHH index, streetTotal is what the player has put in on this
// street after the action and facing is the opponent's street total.
// Blind posts return false because PHH carries them in blinds_or_straddles.
func FormatAction(player int, kind game.ActionKind, streetTotal, facing int) (string, bool) {
	p := fmt.Sprintf("p%d", player+1)
	switch kind {
	case game.KindFold:
		return p + " f", true
	case game.KindCheck, game.KindCall:
		return p + " cc", true
	case game.KindRaise:
		return fmt.Sprintf("%s cbr %d", p, streetTotal), true
	case game.KindAllIn:
		if streetTotal <= facing {
			return p + " cc", true
		}
		return fmt.Sprintf("%s cbr %d", p, streetTotal), true
	case game.KindSmallBlind, game.KindBigBlind:
		return "", false
	default:
		return fmt.Sprintf("# %s %s %d", p, kind, streetTotal), true
	}
}
