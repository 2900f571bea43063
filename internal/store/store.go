// Package store persists games and their hands. Writes are compare-and-swap on
// the game's version, so two writers that read the same snapshot cannot both
// commit.
package store

import (
	"context"
	"errors"

	"github.com/lox/headsup/internal/game"
)

var (
	// ErrNotFound is returned when a game or hand does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned when a write was based on a stale version, or
	// when creating a game whose id is taken. Callers may reload and retry.
	ErrConflict = errors.New("store: version conflict")
)

// Snapshot is a game together with its current hand. Hand is nil before the
// first hand is dealt.
type Snapshot struct {
	Game game.Game
	Hand *game.Hand
}

// Store is the persistence boundary of the engine.
type Store interface {
	// CreateGame inserts a new game at version 0.
	CreateGame(ctx context.Context, g game.Game) error
	// Load returns a game with its active hand, or its latest hand when none
	// is active.
	Load(ctx context.Context, gameID string) (Snapshot, error)
	// Commit writes snap if the stored game is still at expectedVersion. The
	// game is stored at expectedVersion+1 and returned. snap.Hand, if set, is
	// inserted or replaced in the same write.
	Commit(ctx context.Context, snap Snapshot, expectedVersion int64) (game.Game, error)
	// Hands returns every hand of a game in deal order.
	Hands(ctx context.Context, gameID string) ([]game.Hand, error)
	// Hand returns one hand of a game.
	Hand(ctx context.Context, gameID, handID string) (game.Hand, error)
	Close() error
}
