package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/lox/roshambo/cmd/roshambo/shared"
	"github.com/lox/roshambo/internal/config"
	"github.com/lox/roshambo/internal/randutil"
	"github.com/lox/roshambo/internal/server"
)

// ServeCmd serves the browser game over HTTP and websockets
type ServeCmd struct {
	Addr        string         `short:"a" help:"Server address to bind to (overrides config)"`
	IdleTimeout *time.Duration `help:"Close sessions idle for this long, 0 disables (overrides config)"`
	LogLevel    string         `short:"l" help:"Log level (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g, func(cfg *config.Config) {
		if c.Addr != "" {
			cfg.Server.Address = c.Addr
		}
		if c.IdleTimeout != nil {
			secs := int(c.IdleTimeout.Seconds())
			cfg.Server.IdleTimeout = &secs
		}
		if c.LogLevel != "" {
			cfg.Server.LogLevel = c.LogLevel
		}
	})
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(os.Stderr, cfg.Server.LogLevel, g.Debug)
	if g.NoColor {
		shared.DisableColor(logger)
	}

	opts, err := cfg.GameOptions()
	if err != nil {
		return err
	}

	seed := randutil.Seed(g.Seed)
	s := server.NewServer(logger,
		server.WithSeed(seed),
		server.WithIdleTimeout(cfg.IdleTimeout()),
		server.WithGameOptions(opts...),
	)

	catalog, _ := cfg.Catalog()
	logger.Info("Starting roshambo server",
		"address", cfg.Server.Address,
		"seed", seed,
		"rounds", cfg.Game.DefaultRounds,
		"policy", cfg.Game.ResultsPolicy,
		"catalog", catalog.Name(),
		"idle_timeout", cfg.IdleTimeout())

	ctx := shared.SetupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
