// Package game implements the rock-paper-scissors round controller.
//
// The main type is Controller, a small state machine that owns the round
// count, the score and the visible view. It never renders anything itself:
// every operation returns a ViewState snapshot which an adapter (terminal UI,
// websocket session, simulator) turns into output.
//
// # Basic Usage
//
//	c := game.NewController(game.WithRoundCount(3))
//	c.StartGame()
//	state, ok := c.SubmitMove("Rock")
//	if ok && state.ResultsAvailable {
//	    state, _ = c.StopGame()
//	    fmt.Println(state.Final.Lines())
//	}
//
// # Guarded operations
//
// Operations called in the wrong state, and moves that are not in the
// catalog, are ignored: the controller returns its unchanged state and false.
// No error is ever surfaced for a game action.
//
// # Deterministic Testing
//
// The opponent is injected, so tests can replay a fixed script:
//
//	c := game.NewController(
//	    game.WithOpponent(game.NewScriptedOpponent("Scissors", "Scissors")),
//	)
//
// or use a seeded generator:
//
//	c := game.NewController(game.WithOpponent(game.NewRandomOpponent(randutil.New(42))))
package game
