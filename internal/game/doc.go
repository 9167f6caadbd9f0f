// Package game implements a configurable Mancala rule engine.
//
// A Ruleset describes the variant: row length, starting seeds and the optional
// capture, relay sowing and multiple lap rules. A Board holds the seed counts in
// a single absolute index space (side 0 holes, side 0 store, side 1 holes,
// side 1 store). Gamestate drives a game through PlayMove until one row is
// empty, at which point every remaining seed is swept into its owner's store
// and the game is scored.
//
// # Basic Usage
//
//	g := game.NewGamestate(nil) // default 6x4 ruleset
//	if err := g.PlayMove(2); err != nil {
//	    // errors.Is(err, game.ErrEmptyHole), game.ErrGameOver, ...
//	}
//	fmt.Println(g) // "4 4 0 5 5 5 1 4 4 4 4 4 4 0 0"
//
// Moves are addressed by relative hole index, 0 through HolesPerSide-1 as seen
// by the player to move. Ruleset converts between relative and absolute indices.
//
// # Observing Moves
//
// PlayMove accepts WithRecorder to observe every intermediate board of a move
// (pickup, each deposit, captures and the final sweep). BoardStack collects them:
//
//	var frames game.BoardStack
//	err := g.PlayMove(0, game.WithRecorder(&frames))
//
// The rule engine is synchronous and does no I/O. A Gamestate must not be used
// from more than one goroutine at a time; use Clone for lookahead.
package game
