package main

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/headsup/cmd/headsup/shared"
	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/randutil"
	"github.com/lox/headsup/internal/server"
	"github.com/lox/headsup/internal/store"
)

// SimulateCmd plays whole matches between two random strategies.
type SimulateCmd struct {
	Matches    int    `kong:"short='n',default='10',help='Number of matches to play'"`
	MaxHands   int    `kong:"default='500',help='Stop a match after this many hands'"`
	SmallBlind int    `kong:"default='10',help='Small blind amount'"`
	BigBlind   int    `kong:"default='20',help='Big blind amount'"`
	Chips      int    `kong:"default='1000',help='Starting chips per player'"`
	Workers    int    `kong:"default='4',help='Matches played concurrently'"`
	Seed       *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Verbose    bool   `kong:"help='Print every hand'"`
	Debug      bool   `kong:"help='Enable debug logging'"`
}

// matchResult summarises one simulated match.
type matchResult struct {
	Winner string
	Hands  int
	Chips  [2]int
}

func (c *SimulateCmd) Run() error {
	logger := shared.LoggerFor("warn", "console", c.Debug)
	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info().Int64("seed", seed).Msg("Simulating")

	var out io.Writer = io.Discard
	if c.Verbose {
		out = os.Stdout
	}
	results, err := c.simulate(context.Background(), seed, logger, out)
	if err != nil {
		return err
	}

	wins := map[string]int{}
	hands := 0
	for _, r := range results {
		wins[r.Winner]++
		hands += r.Hands
	}
	fmt.Println(headStyle.Render(fmt.Sprintf("%d matches, seed %d", len(results), seed)))
	fmt.Printf("  alice   %s\n", winStyle.Render(fmt.Sprintf("%d", wins["alice"])))
	fmt.Printf("  bob     %s\n", winStyle.Render(fmt.Sprintf("%d", wins["bob"])))
	if n := wins[""]; n > 0 {
		fmt.Printf("  unfinished %d\n", n)
	}
	if len(results) > 0 {
		fmt.Printf("  hands   %d (%.1f per match)\n", hands, float64(hands)/float64(len(results)))
	}
	return nil
}

func (c *SimulateCmd) simulate(ctx context.Context, seed int64, logger zerolog.Logger, out io.Writer) ([]matchResult, error) {
	results := make([]matchResult, c.Matches)
	var outMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Workers, 1))
	for i := range c.Matches {
		g.Go(func() error {
			matchSeed := seed + int64(i)*1_000_003
			r, err := c.playMatch(ctx, matchSeed, logger, func(line string) {
				outMu.Lock()
				defer outMu.Unlock()
				fmt.Fprintf(out, "[match %d] %s\n", i+1, line)
			})
			if err != nil {
				return fmt.Errorf("match %d: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// playMatch runs one match through the service on an in-memory store.
func (c *SimulateCmd) playMatch(ctx context.Context, seed int64, logger zerolog.Logger, emit func(string)) (matchResult, error) {
	svc := server.NewService(server.Options{
		Store:   store.NewMemory(),
		Logger:  logger,
		Shuffle: randutil.Seeded(seed),
	})
	rng := randutil.New(seed ^ 0x5eed)

	g, err := svc.CreateGame(ctx, server.CreateGameParams{
		Player1ID:     "alice",
		Player2ID:     "bob",
		SmallBlind:    c.SmallBlind,
		BigBlind:      c.BigBlind,
		StartingChips: c.Chips,
	})
	if err != nil {
		return matchResult{}, err
	}

	for g.Status != game.StatusFinished && g.HandCount < c.MaxHands {
		var h game.Hand
		g, h, err = svc.StartHand(ctx, g.ID, g.Player1ID)
		if err != nil {
			return matchResult{}, err
		}
		for !h.Complete() {
			actor := *g.CurrentTurn
			g, h, err = svc.SubmitAction(ctx, g.ID, actor, randomAction(rng, g, h))
			if err != nil {
				return matchResult{}, err
			}
		}
		emit(describeHand(g, h))
	}

	r := matchResult{Hands: g.HandCount, Chips: [2]int{g.Player1Chips, g.Player2Chips}}
	if g.WinnerID != nil {
		r.Winner = *g.WinnerID
	}
	return r, nil
}

// randomAction picks uniformly among the legal actions, folding rarely when
// a free check is available.
func randomAction(rng *rand.Rand, g game.Game, h game.Hand) game.Action {
	kinds := game.ValidActions(g, h)
	kind := kinds[rng.IntN(len(kinds))]
	if kind == game.KindFold && len(kinds) > 1 && kinds[1] == game.KindCheck {
		kind = game.KindCheck
	}
	switch kind {
	case game.KindFold:
		return game.Fold{}
	case game.KindCheck:
		return game.Check{}
	case game.KindCall:
		return game.Call{}
	case game.KindRaise:
		lo, hi, _ := game.RaiseBounds(g, h)
		amount := lo + g.BigBlind*rng.IntN(4)
		return game.Raise{Amount: min(amount, hi)}
	default:
		return game.AllIn{}
	}
}

func describeHand(g game.Game, h game.Hand) string {
	result := "split"
	if h.WinnerID != nil {
		result = winStyle.Render(*h.WinnerID + " wins")
	}
	line := fmt.Sprintf("hand %d: %s | alice %s bob %s | board %s | pot %d, %s | stacks %d/%d",
		h.Number, h.CurrentRound,
		renderCards(h.Player1Cards[:]), renderCards(h.Player2Cards[:]),
		renderCards(h.CommunityCards), h.Pot, result,
		g.Player1Chips, g.Player2Chips)
	if h.Showdown != nil {
		line += dimStyle.Render(fmt.Sprintf(" (%s vs %s)", h.Showdown.Player1, h.Showdown.Player2))
	}
	return line
}
