package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/gameid"
	"github.com/lox/headsup/internal/store"
)

func TestCreateGame(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	g := f.createGame(t)
	require.NoError(t, gameid.Validate(gameid.KindGame, g.ID))
	assert.Equal(t, game.StatusWaiting, g.Status)
	assert.Equal(t, int64(0), g.Version)
	assert.True(t, t0.Equal(g.CreatedAt))
	assert.Equal(t, 1, f.published.count())

	tests := []struct {
		name   string
		params CreateGameParams
	}{
		{"missing player", CreateGameParams{Player1ID: "alice", SmallBlind: 1, BigBlind: 2, StartingChips: 10}},
		{"same player twice", CreateGameParams{Player1ID: "alice", Player2ID: "alice", SmallBlind: 1, BigBlind: 2, StartingChips: 10}},
		{"zero small blind", CreateGameParams{Player1ID: "alice", Player2ID: "bob", BigBlind: 2, StartingChips: 10}},
		{"big below small", CreateGameParams{Player1ID: "alice", Player2ID: "bob", SmallBlind: 5, BigBlind: 2, StartingChips: 10}},
		{"stack below big blind", CreateGameParams{Player1ID: "alice", Player2ID: "bob", SmallBlind: 1, BigBlind: 20, StartingChips: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateGame(context.Background(), tt.params)
			require.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestPlayHandToCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	g := f.createGame(t)

	g, h, err := f.svc.StartHand(ctx, g.ID, "alice")
	require.NoError(t, err)
	require.NoError(t, gameid.Validate(gameid.KindHand, h.ID))
	assert.Equal(t, int64(1), g.Version)
	assert.Equal(t, "bob", *g.CurrentTurn, "button acts first preflop")
	assert.Equal(t, 30, g.Pot)

	for step := 0; !h.Complete(); step++ {
		require.Less(t, step, 20)
		f.clock.Advance(time.Second).MustWait(ctx)
		version := g.Version
		g, h, err = f.svc.SubmitAction(ctx, g.ID, *g.CurrentTurn, passive(g, h))
		require.NoError(t, err)
		assert.Equal(t, version+1, g.Version)
	}

	assert.Equal(t, game.Showdown, h.CurrentRound)
	assert.Len(t, h.CommunityCards, 5)
	assert.Nil(t, g.CurrentTurn)
	assert.Zero(t, g.Pot)
	assert.Empty(t, g.ActiveHandID)
	assert.Equal(t, 2000, g.Player1Chips+g.Player2Chips)
	assert.Equal(t, 1, f.recorder.count())
	assert.True(t, h.CompletedAt.After(t0))

	hands, err := f.svc.Hands(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, hands, 1)
	assert.Equal(t, h.ID, hands[0].ID)

	assert.Zero(t, f.svc.locks.len(), "per-game locks are released")
}

func TestRejectionsLeaveStoredStateAlone(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	g := f.createGame(t)

	_, _, err := f.svc.SubmitAction(ctx, g.ID, "alice", game.Check{})
	require.ErrorIs(t, err, game.ErrNoActiveHand)

	g, _, err = f.svc.StartHand(ctx, g.ID, "bob")
	require.NoError(t, err)
	published := f.published.count()

	_, _, err = f.svc.StartHand(ctx, g.ID, "alice")
	require.ErrorIs(t, err, game.ErrHandInProgress)

	_, _, err = f.svc.SubmitAction(ctx, g.ID, "alice", game.Call{})
	require.ErrorIs(t, err, game.ErrNotYourTurn)

	_, _, err = f.svc.SubmitAction(ctx, g.ID, "mallory", game.Fold{})
	require.ErrorIs(t, err, game.ErrNotParticipant)

	_, _, err = f.svc.SubmitAction(ctx, g.ID, "bob", game.Raise{Amount: 5000})
	require.ErrorIs(t, err, game.ErrNotEnoughChips)

	_, _, err = f.svc.StartHand(ctx, "game_missing", "alice")
	require.ErrorIs(t, err, store.ErrNotFound)

	snap, err := f.store.Load(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Version, snap.Game.Version)
	assert.Equal(t, published, f.published.count(), "rejections publish nothing")
}

func TestViewHidesOpponentCards(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	g := f.createGame(t)
	g, h, err := f.svc.StartHand(ctx, g.ID, "alice")
	require.NoError(t, err)

	alice, err := f.svc.View(ctx, g.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, alice.Hand)
	assert.Equal(t, h.Player1Cards[:], alice.Hand.Player1Cards)
	assert.Nil(t, alice.Hand.Player2Cards)

	spectator, err := f.svc.View(ctx, g.ID, "")
	require.NoError(t, err)
	assert.Nil(t, spectator.Hand.Player1Cards)
	assert.Nil(t, spectator.Hand.Player2Cards)

	data, err := json.Marshal(alice)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "deck")
}

// racingStore commits a competing write between a caller's load and commit.
type racingStore struct {
	store.Store
	once sync.Once
}

func (r *racingStore) Load(ctx context.Context, gameID string) (store.Snapshot, error) {
	snap, err := r.Store.Load(ctx, gameID)
	if err != nil {
		return snap, err
	}
	r.once.Do(func() {
		competing := snap.Game.Clone()
		competing.UpdatedAt = competing.UpdatedAt.Add(time.Millisecond)
		_, err = r.Store.Commit(ctx, store.Snapshot{Game: competing, Hand: snap.Hand}, snap.Game.Version)
	})
	return snap, err
}

func TestStaleWriteIsAConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	base := store.NewMemory()
	f := newFixture(t, base)
	g := f.createGame(t)

	racer := newFixture(t, &racingStore{Store: base})
	_, _, err := racer.svc.StartHand(ctx, g.ID, "alice")
	require.ErrorIs(t, err, store.ErrConflict)

	snap, err := base.Load(ctx, g.ID)
	require.NoError(t, err)
	assert.Nil(t, snap.Hand, "the losing write dealt no hand")
	assert.Equal(t, int64(1), snap.Game.Version)

	// a retry on fresh state succeeds
	_, _, err = racer.svc.StartHand(ctx, g.ID, "alice")
	require.NoError(t, err)
}

func TestConcurrentActionsAreSerialised(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	g := f.createGame(t)
	g, _, err := f.svc.StartHand(ctx, g.ID, "alice")
	require.NoError(t, err)

	const racers = 10
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = f.svc.SubmitAction(ctx, g.ID, "bob", game.Call{})
		}()
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, game.ErrNotYourTurn):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)

	snap, err := f.store.Load(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Version+1, snap.Game.Version)
	assert.Equal(t, 40, snap.Hand.Pot)
	assert.Equal(t, "alice", *snap.Game.CurrentTurn)
}

func TestHandHistoryExport(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()
	g := f.createGame(t)
	g, h, err := f.svc.StartHand(ctx, g.ID, "alice")
	require.NoError(t, err)

	_, err = f.svc.HandHistory(ctx, g.ID, h.ID, "alice")
	require.ErrorIs(t, err, ErrHandNotComplete)

	_, h, err = f.svc.SubmitAction(ctx, g.ID, "bob", game.Fold{})
	require.NoError(t, err)

	data, err := f.svc.HandHistory(ctx, g.ID, h.ID, "alice")
	require.NoError(t, err)
	assert.Contains(t, string(data), `hand = "`+h.ID+`"`)
	assert.Contains(t, string(data), `"p1 f"`)

	_, err = f.svc.HandHistory(ctx, g.ID, h.ID, "mallory")
	require.ErrorIs(t, err, game.ErrNotParticipant)

	_, err = f.svc.HandHistory(ctx, g.ID, "hand_missing", "alice")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestKeyedMutex(t *testing.T) {
	t.Parallel()
	k := newKeyedMutex()

	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	assert.Equal(t, 2, k.len())

	acquired := make(chan struct{})
	go func() {
		unlock := k.Lock("a")
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held key")
	case <-time.After(20 * time.Millisecond):
	}
	unlockA()
	<-acquired
	unlockB()

	require.Eventually(t, func() bool { return k.len() == 0 }, time.Second, time.Millisecond)
}
