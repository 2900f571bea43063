package server

import (
	"errors"
	"net/http"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/store"
)

var (
	// ErrInvalidParams rejects a malformed create-game request.
	ErrInvalidParams = errors.New("invalid game parameters")
	// ErrHandNotComplete is returned when exporting a hand still in play.
	ErrHandNotComplete = errors.New("hand is not complete")
	// ErrUnauthenticated is returned when a request carries no player id.
	ErrUnauthenticated = errors.New("missing player id")
)

// statusFor maps an engine error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, game.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrHandInProgress),
		errors.Is(err, game.ErrGameFinished),
		errors.Is(err, ErrHandNotComplete):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidParams), game.IsRejection(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// reason is the client-facing error string: the rejection reason without
// detail, or a generic message for internal failures.
func reason(err error) string {
	var re *game.RejectionError
	switch {
	case errors.As(err, &re):
		return re.Reason.Error()
	case errors.Is(err, store.ErrConflict):
		return "version conflict, retry"
	case errors.Is(err, store.ErrNotFound):
		return "not found"
	case statusFor(err) == http.StatusInternalServerError:
		return "internal error"
	default:
		return err.Error()
	}
}
