package game

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/roshambo/internal/randutil"
)

const (
	// MinRounds and MaxRounds bound the configurable round count.
	MinRounds = 1
	MaxRounds = 10

	// DefaultRounds is the round count a new controller starts with.
	DefaultRounds = 3
)

// Option configures a Controller during creation.
type Option func(*Controller)

// WithCatalog sets the move table. Defaults to Classic.
func WithCatalog(c *Catalog) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.catalog = c
		}
	}
}

// WithOpponent sets the move source for the computer.
func WithOpponent(o Opponent) Option {
	return func(ctrl *Controller) {
		if o != nil {
			ctrl.opponent = o
		}
	}
}

// WithResultsPolicy sets how the post-game view is reached.
func WithResultsPolicy(p ResultsPolicy) Option {
	return func(ctrl *Controller) {
		ctrl.policy = p
	}
}

// WithRoundCount sets the initial round count. Values outside
// [MinRounds, MaxRounds] are ignored.
func WithRoundCount(n int) Option {
	return func(ctrl *Controller) {
		if n >= MinRounds && n <= MaxRounds {
			ctrl.roundCount = n
		}
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(logger *log.Logger) Option {
	return func(ctrl *Controller) {
		if logger != nil {
			ctrl.logger = logger
		}
	}
}

// Controller drives the round lifecycle and scoring of one game. It is not
// safe for concurrent use; each adapter session owns its own controller.
type Controller struct {
	catalog  *Catalog
	opponent Opponent
	policy   ResultsPolicy
	logger   *log.Logger

	status       Status
	view         View
	roundCount   int
	display      string
	currentRound int
	score        Score
	last         *Result
	final        *Tally
}

// NewController creates a controller in the pre-game state.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		catalog:    Classic,
		policy:     ResultsGated,
		roundCount: DefaultRounds,
		status:     PreGame,
		view:       ViewPreGame,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.opponent == nil {
		c.opponent = NewRandomOpponent(randutil.New(time.Now().UnixNano()))
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	c.logger = c.logger.WithPrefix("game")
	c.display = strconv.Itoa(c.roundCount)
	return c
}

// Catalog returns the move table in use
func (c *Controller) Catalog() *Catalog {
	return c.catalog
}

// State returns the current view state without changing anything.
func (c *Controller) State() ViewState {
	state := ViewState{
		Status:            c.status,
		View:              c.view,
		RoundCountDisplay: c.display,
		RoundCount:        c.roundCount,
		CurrentRound:      c.currentRound,
		Score:             c.score,
		ResultsAvailable:  c.status == PostGame && c.view == ViewInGame,
	}
	if c.last != nil {
		last := *c.last
		state.LastResult = &last
	}
	if c.final != nil {
		final := *c.final
		state.Final = &final
	}
	return state
}

// SetRoundCountDisplay writes text into the round count display, as an
// adapter that lets the user edit the field would. RoundCount itself only
// changes on the next IncrementRoundCount.
func (c *Controller) SetRoundCountDisplay(text string) (ViewState, bool) {
	if c.status != PreGame {
		return c.State(), false
	}
	c.display = text
	return c.State(), true
}

// IncrementRoundCount cycles the displayed round count 1..MaxRounds and
// makes the new value authoritative. A display that is not a number, or
// holds MaxRounds or anything out of range, wraps back to 1.
func (c *Controller) IncrementRoundCount() (ViewState, bool) {
	if c.status != PreGame {
		c.logger.Debug("Ignoring round count change outside pre-game", "status", c.status)
		return c.State(), false
	}

	next := MinRounds
	if n, err := strconv.Atoi(strings.TrimSpace(c.display)); err == nil && n >= MinRounds && n < MaxRounds {
		next = n + 1
	}

	c.roundCount = next
	c.display = strconv.Itoa(next)
	c.logger.Debug("Round count updated", "rounds", next)
	return c.State(), true
}

// StartGame moves from pre-game to in-game and clears the score.
func (c *Controller) StartGame() (ViewState, bool) {
	if c.status != PreGame {
		c.logger.Debug("Ignoring start outside pre-game", "status", c.status)
		return c.State(), false
	}

	c.status = InGame
	c.view = ViewInGame
	c.currentRound = 0
	c.score = Score{}
	c.last = nil
	c.final = nil

	c.logger.Debug("Game started", "rounds", c.roundCount, "catalog", c.catalog.Name())
	return c.State(), true
}

// SubmitMove plays one round with the player's move. Unknown moves and
// moves outside the in-game state are ignored.
func (c *Controller) SubmitMove(move string) (ViewState, bool) {
	if c.status != InGame {
		c.logger.Debug("Ignoring move outside in-game", "status", c.status, "move", move)
		return c.State(), false
	}
	if !c.catalog.Has(move) {
		c.logger.Debug("Ignoring unknown move", "move", move)
		return c.State(), false
	}

	opponent := c.opponent.Choose(c.catalog.Moves())
	outcome := c.catalog.Compare(move, opponent)
	switch outcome {
	case Win:
		c.score.Wins++
	case Loss:
		c.score.Losses++
	}

	c.currentRound++
	c.last = &Result{
		Round:    c.currentRound,
		Player:   move,
		Opponent: opponent,
		Outcome:  outcome,
	}

	c.logger.Debug("Round played",
		"round", c.currentRound,
		"player", move,
		"opponent", opponent,
		"outcome", outcome)

	if c.currentRound == c.roundCount {
		c.status = PostGame
		c.logger.Debug("Final round played", "policy", c.policy)
		if c.policy == ResultsImmediate {
			return c.StopGame()
		}
	}

	return c.State(), true
}

// StopGame renders the final tally and shows the post-game view. It only
// applies once the final round has been played and results are not yet
// shown.
func (c *Controller) StopGame() (ViewState, bool) {
	if c.status != PostGame || c.view == ViewPostGame {
		c.logger.Debug("Ignoring stop", "status", c.status, "view", c.view)
		return c.State(), false
	}

	c.final = &Tally{
		Wins:   c.score.Wins,
		Losses: c.score.Losses,
		Ties:   c.roundCount - c.score.Wins - c.score.Losses,
	}
	c.view = ViewPostGame

	c.logger.Debug("Game over",
		"wins", c.final.Wins,
		"losses", c.final.Losses,
		"ties", c.final.Ties)
	return c.State(), true
}

// PlayAgain resets a finished game back to pre-game, keeping the round count.
func (c *Controller) PlayAgain() (ViewState, bool) {
	if c.status != PostGame || c.view != ViewPostGame {
		c.logger.Debug("Ignoring play again", "status", c.status, "view", c.view)
		return c.State(), false
	}

	c.status = PreGame
	c.view = ViewPreGame
	c.currentRound = 0
	c.score = Score{}
	c.last = nil
	c.final = nil
	c.display = strconv.Itoa(c.roundCount)

	c.logger.Debug("Game reset")
	return c.State(), true
}
