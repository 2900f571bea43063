// Package game implements the heads-up Texas Hold'em rules engine.
//
// The engine is a set of pure functions over two snapshot types: Game, the
// persistent match between two players, and Hand, a single deal within it.
// Nothing in this package performs I/O, holds locks or keeps hidden state, so
// the caller owns persistence and concurrency control.
//
// # Basic Usage
//
//	g := game.NewGame("g1", "alice", "bob", 10, 20, 1000, now)
//	deck := poker.Shuffle(randutil.NewSecure())
//	g, h, err := game.StartHand(g, "alice", deck, "h1", now)
//	// bob holds the button on the first hand and acts first preflop
//	g, h, err = game.Apply(g, h, "bob", game.Call{}, now)
//
// Apply and StartHand work on copies: when they return an error the snapshots
// passed in are left exactly as they were, and the returned values are zero.
//
// # Rules in brief
//
//   - The button posts the small blind and acts first preflop. The button
//     moves every hand and starts on player 2.
//   - The turn always passes to the player who did not just act, including
//     across a round change.
//   - A call closes the round. A check closes it once both players have acted
//     with equal bets. A raise never closes the round.
//   - An all-in closes the round only when it does not exceed the opponent's
//     bet or the opponent is already all-in; otherwise it behaves as a raise.
//   - Once a player is all-in and the round closes, the board is run out and
//     the hand goes to showdown.
//   - Chips committed beyond what the opponent could match are returned at
//     settlement. A split pot gives the odd chip to the big blind.
package game
