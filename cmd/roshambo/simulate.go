package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/roshambo/cmd/roshambo/shared"
	"github.com/lox/roshambo/internal/config"
	"github.com/lox/roshambo/internal/fileutil"
	"github.com/lox/roshambo/internal/randutil"
	"github.com/lox/roshambo/internal/simulator"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// SimulateCmd plays headless games and prints aggregate statistics
type SimulateCmd struct {
	Games    int    `default:"10000" help:"Number of games to play"`
	Rounds   int    `help:"Rounds per game (defaults to the configured round count)"`
	Workers  int    `default:"0" help:"Parallel workers (0 uses every CPU)"`
	Strategy string `enum:"random,fixed,cycle,counter" default:"random" help:"Player strategy: random, fixed, cycle or counter"`
	Output   string `short:"o" type:"path" help:"Also write a JSON report to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, func(cfg *config.Config) {
		if c.Rounds != 0 {
			cfg.Game.DefaultRounds = c.Rounds
		}
	})
	if err != nil {
		return err
	}

	level := "warn"
	if g.Debug {
		level = "debug"
	}
	logger := shared.SetupLogger(os.Stderr, level, g.Debug)
	if g.NoColor {
		shared.DisableColor(logger)
	}

	opts, err := cfg.GameOptions()
	if err != nil {
		return err
	}

	seed := randutil.Seed(g.Seed)
	sim, err := simulator.New(simulator.Config{
		Games:    c.Games,
		Rounds:   cfg.Game.DefaultRounds,
		Workers:  c.Workers,
		Seed:     seed,
		Strategy: c.Strategy,
		GameOpts: opts,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)
	stats, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s vs random (seed %d)", c.Strategy, seed)))
	fmt.Print(stats.Summary())

	if c.Output != "" {
		if err := fileutil.WriteJSON(c.Output, stats.Report()); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.Info("Report written", "path", c.Output)
	}
	return nil
}
