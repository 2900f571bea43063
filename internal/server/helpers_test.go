package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/store"
)

var t0 = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

type recordedHands struct {
	mu    sync.Mutex
	hands []game.Hand
}

func (r *recordedHands) Record(g game.Game, h game.Hand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands = append(r.hands, h)
	return nil
}

func (r *recordedHands) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hands)
}

type publishedSnapshots struct {
	mu    sync.Mutex
	snaps []store.Snapshot
}

func (p *publishedSnapshots) Publish(snap store.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
}

func (p *publishedSnapshots) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snaps)
}

type fixture struct {
	svc       *Service
	store     store.Store
	clock     *quartz.Mock
	recorder  *recordedHands
	published *publishedSnapshots
}

func newFixture(t *testing.T, s store.Store) *fixture {
	t.Helper()
	if s == nil {
		s = store.NewMemory()
	}
	clk := quartz.NewMock(t)
	clk.Set(t0).MustWait(context.Background())

	f := &fixture{
		store:     s,
		clock:     clk,
		recorder:  &recordedHands{},
		published: &publishedSnapshots{},
	}
	f.svc = NewService(Options{
		Store:     s,
		Clock:     clk,
		Logger:    zerolog.Nop(),
		Shuffle:   randutil.Seeded(42),
		Recorder:  f.recorder,
		Publisher: f.published,
	})
	return f
}

func (f *fixture) createGame(t *testing.T) game.Game {
	t.Helper()
	g, err := f.svc.CreateGame(context.Background(), CreateGameParams{
		Player1ID:     "alice",
		Player2ID:     "bob",
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
	})
	require.NoError(t, err)
	return g
}

// passive returns the check or call the player on turn can make.
func passive(g game.Game, h game.Hand) game.Action {
	for _, kind := range game.ValidActions(g, h) {
		switch kind {
		case game.KindCheck:
			return game.Check{}
		case game.KindCall:
			return game.Call{}
		}
	}
	return game.AllIn{}
}
