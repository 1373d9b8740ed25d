package game

import (
	rand "math/rand/v2"
	"sync"
)

// Opponent picks the computer's move for a round.
type Opponent interface {
	Choose(moves []string) string
}

// RandomOpponent draws uniformly from the offered moves.
type RandomOpponent struct {
	rng *rand.Rand
}

// NewRandomOpponent returns an opponent backed by rng. The generator is not
// shared with anything else, so one controller owns one opponent.
func NewRandomOpponent(rng *rand.Rand) *RandomOpponent {
	if rng == nil {
		panic("rng is required for a random opponent")
	}
	return &RandomOpponent{rng: rng}
}

// Choose implements Opponent.
func (o *RandomOpponent) Choose(moves []string) string {
	return moves[o.rng.IntN(len(moves))]
}

// ScriptedOpponent replays a fixed sequence of moves, wrapping around when
// the script runs out.
type ScriptedOpponent struct {
	mu     sync.Mutex
	script []string
	next   int
}

// NewScriptedOpponent returns an opponent that plays script in order.
func NewScriptedOpponent(script ...string) *ScriptedOpponent {
	if len(script) == 0 {
		panic("scripted opponent needs at least one move")
	}
	return &ScriptedOpponent{script: script}
}

// Choose implements Opponent. The offered moves are ignored.
func (o *ScriptedOpponent) Choose(_ []string) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	move := o.script[o.next%len(o.script)]
	o.next++
	return move
}
