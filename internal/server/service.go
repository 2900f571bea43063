// Package server runs heads-up games on top of a Store: each request loads a
// snapshot, applies one engine transition and commits it with a
// compare-and-swap on the game's version.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/gameid"
	"github.com/lox/headsup/internal/phh"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/store"
	"github.com/lox/headsup/poker"
)

// HandRecorder receives every hand once it completes.
type HandRecorder interface {
	Record(g game.Game, h game.Hand) error
}

// Publisher is told about every committed snapshot.
type Publisher interface {
	Publish(snap store.Snapshot)
}

// Options configures a Service. Store is required.
type Options struct {
	Store     store.Store
	Clock     quartz.Clock
	Logger    zerolog.Logger
	Shuffle   randutil.Source
	IDs       *gameid.Generator
	Recorder  HandRecorder
	Publisher Publisher
	// History controls hand-history exports served to clients.
	History phh.Options
}

// Service is the engine's entry point for hosts.
type Service struct {
	store     store.Store
	clock     quartz.Clock
	logger    zerolog.Logger
	shuffle   randutil.Source
	ids       *gameid.Generator
	recorder  HandRecorder
	publisher Publisher
	history   phh.Options
	locks     *keyedMutex
}

// NewService creates a service. Unset options get production defaults.
func NewService(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Shuffle == nil {
		opts.Shuffle = randutil.Secure()
	}
	if opts.IDs == nil {
		opts.IDs = gameid.NewGenerator(nil)
	}
	return &Service{
		store:     opts.Store,
		clock:     opts.Clock,
		logger:    opts.Logger.With().Str("component", "service").Logger(),
		shuffle:   opts.Shuffle,
		ids:       opts.IDs,
		recorder:  opts.Recorder,
		publisher: opts.Publisher,
		history:   opts.History,
		locks:     newKeyedMutex(),
	}
}

// CreateGameParams describes a new match.
type CreateGameParams struct {
	Player1ID     string `json:"player1_id"`
	Player2ID     string `json:"player2_id"`
	SmallBlind    int    `json:"small_blind"`
	BigBlind      int    `json:"big_blind"`
	StartingChips int    `json:"starting_chips"`
}

func (p CreateGameParams) validate() error {
	switch {
	case p.Player1ID == "" || p.Player2ID == "":
		return fmt.Errorf("%w: both players are required", ErrInvalidParams)
	case p.Player1ID == p.Player2ID:
		return fmt.Errorf("%w: players must differ", ErrInvalidParams)
	case p.SmallBlind <= 0:
		return fmt.Errorf("%w: small blind must be positive", ErrInvalidParams)
	case p.BigBlind < p.SmallBlind:
		return fmt.Errorf("%w: big blind must be at least the small blind", ErrInvalidParams)
	case p.StartingChips < p.BigBlind:
		return fmt.Errorf("%w: starting chips must cover the big blind", ErrInvalidParams)
	}
	return nil
}

// CreateGame seats two players in a new waiting game.
func (s *Service) CreateGame(ctx context.Context, p CreateGameParams) (game.Game, error) {
	if err := p.validate(); err != nil {
		return game.Game{}, err
	}
	g := game.NewGame(s.ids.New(gameid.KindGame), p.Player1ID, p.Player2ID,
		p.SmallBlind, p.BigBlind, p.StartingChips, s.clock.Now())
	if err := s.store.CreateGame(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}
	s.logger.Info().
		Str("game_id", g.ID).
		Str("player1", g.Player1ID).
		Str("player2", g.Player2ID).
		Int("small_blind", g.SmallBlind).
		Int("big_blind", g.BigBlind).
		Msg("Game created")
	s.publish(store.Snapshot{Game: g})
	return g, nil
}

// StartHand deals the next hand of a game. callerID must be a participant.
func (s *Service) StartHand(ctx context.Context, gameID, callerID string) (game.Game, game.Hand, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return game.Game{}, game.Hand{}, err
	}
	deck := poker.Shuffle(s.shuffle())
	g, h, err := game.StartHand(snap.Game, callerID, deck, s.ids.New(gameid.KindHand), s.clock.Now())
	if err != nil {
		return game.Game{}, game.Hand{}, err
	}
	g, err = s.commit(ctx, g, h, snap.Game.Version)
	if err != nil {
		return game.Game{}, game.Hand{}, err
	}
	s.logger.Debug().
		Str("game_id", g.ID).
		Str("hand_id", h.ID).
		Int("hand", h.Number).
		Str("button", g.PlayerID(h.Button)).
		Msg("Hand started")
	s.afterCommit(g, h)
	return g, h, nil
}

// SubmitAction applies playerID's action to the active hand of a game.
func (s *Service) SubmitAction(ctx context.Context, gameID, playerID string, a game.Action) (game.Game, game.Hand, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return game.Game{}, game.Hand{}, err
	}
	var current game.Hand
	if snap.Hand != nil {
		current = *snap.Hand
	}
	g, h, err := game.Apply(snap.Game, current, playerID, a, s.clock.Now())
	if err != nil {
		return game.Game{}, game.Hand{}, err
	}
	g, err = s.commit(ctx, g, h, snap.Game.Version)
	if err != nil {
		return game.Game{}, game.Hand{}, err
	}
	s.logger.Debug().
		Str("game_id", g.ID).
		Str("hand_id", h.ID).
		Str("player", playerID).
		Str("action", string(a.Kind())).
		Str("round", string(h.CurrentRound)).
		Int("pot", h.Pot).
		Msg("Action accepted")
	s.afterCommit(g, h)
	return g, h, nil
}

func (s *Service) commit(ctx context.Context, g game.Game, h game.Hand, expected int64) (game.Game, error) {
	committed, err := s.store.Commit(ctx, store.Snapshot{Game: g, Hand: &h}, expected)
	if errors.Is(err, store.ErrConflict) {
		s.logger.Warn().
			Str("game_id", g.ID).
			Int64("expected_version", expected).
			Msg("Stale write rejected")
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("commit game %s: %w", g.ID, err)
	}
	return committed, nil
}

// afterCommit runs side effects that must not fail the committed request.
func (s *Service) afterCommit(g game.Game, h game.Hand) {
	if h.Complete() {
		event := s.logger.Info().
			Str("game_id", g.ID).
			Str("hand_id", h.ID).
			Int("hand", h.Number).
			Int("pot", h.Pot).
			Int("player1_chips", g.Player1Chips).
			Int("player2_chips", g.Player2Chips)
		if h.WinnerID != nil {
			event = event.Str("winner", *h.WinnerID)
		} else {
			event = event.Bool("split", true)
		}
		event.Msg("Hand complete")

		if g.Status == game.StatusFinished && g.WinnerID != nil {
			s.logger.Info().Str("game_id", g.ID).Str("winner", *g.WinnerID).Msg("Game finished")
		}
		if s.recorder != nil {
			if err := s.recorder.Record(g, h); err != nil {
				s.logger.Error().Err(err).Str("game_id", g.ID).Str("hand_id", h.ID).Msg("Hand history write failed")
			}
		}
	}
	s.publish(store.Snapshot{Game: g, Hand: &h})
}

func (s *Service) publish(snap store.Snapshot) {
	if s.publisher != nil {
		s.publisher.Publish(snap)
	}
}

// View returns the game as viewerID may see it.
func (s *Service) View(ctx context.Context, gameID, viewerID string) (game.View, error) {
	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return game.View{}, err
	}
	return game.NewView(snap.Game, snap.Hand, viewerID), nil
}

// Hands returns every hand dealt in a game, decks included. Hosts must not
// hand these to players; use HandViews for that.
func (s *Service) Hands(ctx context.Context, gameID string) ([]game.Hand, error) {
	return s.store.Hands(ctx, gameID)
}

// HandViews returns the hand log of a game as viewerID may see it.
func (s *Service) HandViews(ctx context.Context, gameID, viewerID string) ([]game.HandView, error) {
	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	hands, err := s.store.Hands(ctx, gameID)
	if err != nil {
		return nil, err
	}
	views := make([]game.HandView, 0, len(hands))
	for i := range hands {
		views = append(views, *game.NewView(snap.Game, &hands[i], viewerID).Hand)
	}
	return views, nil
}

// HandHistory exports a completed hand in PHH format. Only participants may
// export.
func (s *Service) HandHistory(ctx context.Context, gameID, handID, viewerID string) ([]byte, error) {
	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Game.SeatOf(viewerID); !ok {
		return nil, fmt.Errorf("player %q: %w", viewerID, game.ErrNotParticipant)
	}
	h, err := s.store.Hand(ctx, gameID, handID)
	if err != nil {
		return nil, err
	}
	if !h.Complete() {
		return nil, fmt.Errorf("hand %s: %w", handID, ErrHandNotComplete)
	}
	hist, err := phh.FromHand(snap.Game, h, s.history)
	if err != nil {
		return nil, err
	}
	return phh.EncodeToBytes(hist)
}
