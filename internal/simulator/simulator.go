// Package simulator plays headless games against the random opponent and
// aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/lox/roshambo/internal/game"
	"github.com/lox/roshambo/internal/randutil"
	"github.com/lox/roshambo/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Strategies a simulated player can follow
const (
	StrategyRandom  = "random"
	StrategyFixed   = "fixed"
	StrategyCycle   = "cycle"
	StrategyCounter = "counter"
)

// Config holds configuration for running simulations
type Config struct {
	Games    int
	Rounds   int
	Workers  int
	Seed     int64
	Strategy string
	GameOpts []game.Option
	Logger   *log.Logger
}

// Simulator runs many independent games
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", config.Games)
	}
	if config.Rounds < game.MinRounds || config.Rounds > game.MaxRounds {
		return nil, fmt.Errorf("rounds must be between %d and %d, got %d", game.MinRounds, game.MaxRounds, config.Rounds)
	}
	switch config.Strategy {
	case StrategyRandom, StrategyFixed, StrategyCycle, StrategyCounter:
	case "":
		config.Strategy = StrategyRandom
	default:
		return nil, fmt.Errorf("unknown strategy: %q", config.Strategy)
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Workers > config.Games {
		config.Workers = config.Games
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}, nil
}

// Run plays every game and returns the merged statistics. Results do not
// depend on the number of workers: each game's generators are derived from
// the root seed and the game index.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	logger := s.config.Logger.WithPrefix("simulator")
	logger.Info("Starting simulation",
		"games", s.config.Games,
		"rounds", s.config.Rounds,
		"workers", s.config.Workers,
		"strategy", s.config.Strategy,
		"seed", s.config.Seed)

	g, ctx := errgroup.WithContext(ctx)
	results := make([]*statistics.Statistics, s.config.Workers)

	for w := 0; w < s.config.Workers; w++ {
		g.Go(func() error {
			stats := statistics.New()
			for i := w; i < s.config.Games; i += s.config.Workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := s.playGame(i, stats); err != nil {
					return err
				}
			}
			results[w] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := statistics.New()
	for _, stats := range results {
		total.Merge(stats)
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Info("Simulation complete", "games", total.Games, "winRate", total.WinRate())
	return total, nil
}

func (s *Simulator) playGame(index int, stats *statistics.Statistics) error {
	seed := randutil.Derive(s.config.Seed, index)
	opponentSeed := randutil.Derive(seed, 0)
	playerRng := randutil.New(randutil.Derive(seed, 1))

	opts := append([]game.Option{
		game.WithOpponent(game.NewRandomOpponent(randutil.New(opponentSeed))),
	}, s.config.GameOpts...)
	opts = append(opts, game.WithRoundCount(s.config.Rounds))
	c := game.NewController(opts...)

	player := newPlayer(s.config.Strategy, c.Catalog(), playerRng)

	if _, ok := c.StartGame(); !ok {
		return fmt.Errorf("game %d: failed to start", index)
	}

	state := c.State()
	for state.Status == game.InGame {
		var ok bool
		state, ok = c.SubmitMove(player.next())
		if !ok {
			return fmt.Errorf("game %d: move rejected in round %d", index, state.CurrentRound+1)
		}
		stats.AddRound(*state.LastResult)
		player.observe(*state.LastResult)
	}

	if state.ResultsAvailable {
		state, _ = c.StopGame()
	}
	if state.Final == nil {
		return fmt.Errorf("game %d: no final tally", index)
	}

	stats.Add(statistics.GameResult{Tally: *state.Final, Seed: seed})
	return nil
}

// player picks moves for the simulated human side
type player struct {
	strategy string
	catalog  *game.Catalog
	moves    []string
	rng      *rand.Rand
	round    int
	last     *game.Result
}

func newPlayer(strategy string, catalog *game.Catalog, rng *rand.Rand) *player {
	return &player{
		strategy: strategy,
		catalog:  catalog,
		moves:    catalog.Moves(),
		rng:      rng,
	}
}

func (p *player) next() string {
	defer func() { p.round++ }()

	switch p.strategy {
	case StrategyFixed:
		return p.moves[0]
	case StrategyCycle:
		return p.moves[p.round%len(p.moves)]
	case StrategyCounter:
		// play whatever beats the opponent's previous move
		if p.last != nil {
			for _, m := range p.moves {
				if p.catalog.Beats(m, p.last.Opponent) {
					return m
				}
			}
		}
	}
	return p.moves[p.rng.IntN(len(p.moves))]
}

func (p *player) observe(r game.Result) {
	p.last = &r
}
