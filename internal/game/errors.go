package game

import (
	"errors"
	"fmt"
)

// Rejection reasons. These are user-facing: the caller broke a rule and may
// submit a corrected request. State is never mutated when one is returned.
var (
	ErrNotParticipant = errors.New("not a participant in this game")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrNoActiveHand   = errors.New("no active hand")
	ErrCannotCheck    = errors.New("cannot check")
	ErrNothingToCall  = errors.New("nothing to call")
	ErrNotEnoughChips = errors.New("not enough chips")
	ErrInvalidRaise   = errors.New("invalid raise")
	ErrInvalidAction  = errors.New("invalid action")
	ErrHandInProgress = errors.New("hand already in progress")
	ErrGameFinished   = errors.New("game is finished")
)

// ErrInvariant marks state that correct callers can never produce: corrupt
// decks, pots that do not add up, missing hands. It is fatal for the request.
var ErrInvariant = errors.New("game: invariant violation")

// RejectionError carries a rejection reason plus optional detail.
type RejectionError struct {
	Reason error
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return e.Reason.Error()
	}
	return e.Reason.Error() + ": " + e.Detail
}

func (e *RejectionError) Unwrap() error { return e.Reason }

func reject(reason error, format string, args ...any) error {
	return &RejectionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a rule or authorization rejection rather
// than an internal failure.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
