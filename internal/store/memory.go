package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/lox/headsup/internal/game"
)

type memoryGame struct {
	game  game.Game
	hands []game.Hand
}

// Memory is an in-process Store. Values are deep-copied in and out.
type Memory struct {
	mu    sync.RWMutex
	games map[string]*memoryGame
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{games: make(map[string]*memoryGame)}
}

func (m *Memory) CreateGame(ctx context.Context, g game.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[g.ID]; ok {
		return fmt.Errorf("game %s already exists: %w", g.ID, ErrConflict)
	}
	g = g.Clone()
	g.Version = 0
	m.games[g.ID] = &memoryGame{game: g}
	return nil
}

func (m *Memory) Load(ctx context.Context, gameID string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	mg, ok := m.games[gameID]
	if !ok {
		return Snapshot{}, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	snap := Snapshot{Game: mg.game.Clone()}
	if h := mg.current(); h != nil {
		hc := h.Clone()
		snap.Hand = &hc
	}
	return snap, nil
}

// current returns the active hand, or the latest one.
func (mg *memoryGame) current() *game.Hand {
	if mg.game.ActiveHandID != "" {
		for i := range mg.hands {
			if mg.hands[i].ID == mg.game.ActiveHandID {
				return &mg.hands[i]
			}
		}
	}
	if n := len(mg.hands); n > 0 {
		return &mg.hands[n-1]
	}
	return nil
}

func (m *Memory) Commit(ctx context.Context, snap Snapshot, expectedVersion int64) (game.Game, error) {
	if err := ctx.Err(); err != nil {
		return game.Game{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	mg, ok := m.games[snap.Game.ID]
	if !ok {
		return game.Game{}, fmt.Errorf("game %s: %w", snap.Game.ID, ErrNotFound)
	}
	if mg.game.Version != expectedVersion {
		return game.Game{}, fmt.Errorf("game %s at version %d, expected %d: %w",
			snap.Game.ID, mg.game.Version, expectedVersion, ErrConflict)
	}

	g := snap.Game.Clone()
	g.Version = expectedVersion + 1
	mg.game = g

	if snap.Hand != nil {
		h := snap.Hand.Clone()
		replaced := false
		for i := range mg.hands {
			if mg.hands[i].ID == h.ID {
				mg.hands[i] = h
				replaced = true
				break
			}
		}
		if !replaced {
			mg.hands = append(mg.hands, h)
		}
	}
	return g.Clone(), nil
}

func (m *Memory) Hands(ctx context.Context, gameID string) ([]game.Hand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	mg, ok := m.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	hands := make([]game.Hand, len(mg.hands))
	for i, h := range mg.hands {
		hands[i] = h.Clone()
	}
	return hands, nil
}

func (m *Memory) Hand(ctx context.Context, gameID, handID string) (game.Hand, error) {
	if err := ctx.Err(); err != nil {
		return game.Hand{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if mg, ok := m.games[gameID]; ok {
		for _, h := range mg.hands {
			if h.ID == handID {
				return h.Clone(), nil
			}
		}
	}
	return game.Hand{}, fmt.Errorf("hand %s of game %s: %w", handID, gameID, ErrNotFound)
}

func (m *Memory) Close() error { return nil }
