package main

import (
	"fmt"

	"github.com/lox/roshambo/cmd/roshambo/shared"
	"github.com/lox/roshambo/internal/config"
	"github.com/lox/roshambo/internal/game"
	"github.com/lox/roshambo/internal/randutil"
	"github.com/lox/roshambo/internal/tui"
)

// PlayCmd runs the terminal UI
type PlayCmd struct {
	Rounds  int    `help:"Starting round count (overrides config)"`
	Policy  string `help:"Results policy: gated or immediate (overrides config)"`
	Catalog string `help:"Built-in move catalog: classic or french (overrides config)"`
	LogFile string `default:"roshambo.log" help:"File to write logs to while the UI is running"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, func(cfg *config.Config) {
		if c.Rounds != 0 {
			cfg.Game.DefaultRounds = c.Rounds
		}
		if c.Policy != "" {
			cfg.Game.ResultsPolicy = c.Policy
		}
		if c.Catalog != "" {
			cfg.Game.Catalog = c.Catalog
			cfg.Moves = nil
		}
	})
	if err != nil {
		return err
	}

	logFile, err := shared.SetupLogFile(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := shared.SetupLogger(logFile, cfg.Server.LogLevel, g.Debug)
	if g.NoColor {
		shared.DisableColor(logger)
	}

	seed := randutil.Seed(g.Seed)
	logger.Info("Starting game", "seed", seed, "rounds", cfg.Game.DefaultRounds, "policy", cfg.Game.ResultsPolicy)

	opts, err := cfg.GameOptions()
	if err != nil {
		return err
	}
	opts = append(opts,
		game.WithOpponent(game.NewRandomOpponent(randutil.New(seed))),
		game.WithLogger(logger),
	)

	ctx := shared.SetupSignalHandler(logger)
	return tui.Run(ctx, game.NewController(opts...), logger)
}
