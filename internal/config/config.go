// Package config loads the HCL configuration shared by the roshambo
// commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/roshambo/internal/game"
)

// Config represents the complete configuration file
type Config struct {
	Game   *GameSettings   `hcl:"game,block"`
	Server *ServerSettings `hcl:"server,block"`
	Moves  []MoveConfig    `hcl:"move,block"`
}

// GameSettings controls how each game is played
type GameSettings struct {
	DefaultRounds int    `hcl:"default_rounds,optional"`
	ResultsPolicy string `hcl:"results_policy,optional"`
	Catalog       string `hcl:"catalog,optional"`
}

// ServerSettings contains settings for `roshambo serve`
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	IdleTimeout *int   `hcl:"idle_timeout,optional"` // seconds, 0 disables
	LogLevel    string `hcl:"log_level,optional"`
}

// MoveConfig declares one move of a custom catalog
type MoveConfig struct {
	Name  string   `hcl:"name,label"`
	Beats []string `hcl:"beats,optional"`
}

const (
	DefaultAddress     = "localhost:8080"
	DefaultIdleTimeout = 300
	DefaultLogLevel    = "info"
)

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Game: &GameSettings{
			DefaultRounds: game.DefaultRounds,
			ResultsPolicy: game.ResultsGated.String(),
			Catalog:       game.Classic.Name(),
		},
		Server: &ServerSettings{
			Address:     DefaultAddress,
			IdleTimeout: intPtr(DefaultIdleTimeout),
			LogLevel:    DefaultLogLevel,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; values absent from the file are filled from the defaults.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.DefaultRounds == 0 {
		c.Game.DefaultRounds = defaults.Game.DefaultRounds
	}
	if c.Game.ResultsPolicy == "" {
		c.Game.ResultsPolicy = defaults.Game.ResultsPolicy
	}
	if c.Game.Catalog == "" && len(c.Moves) == 0 {
		c.Game.Catalog = defaults.Game.Catalog
	}

	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.IdleTimeout == nil {
		c.Server.IdleTimeout = defaults.Server.IdleTimeout
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}
}

func intPtr(n int) *int { return &n }

// Validate checks the configuration for values the game cannot use
func (c *Config) Validate() error {
	if c.Game.DefaultRounds < game.MinRounds || c.Game.DefaultRounds > game.MaxRounds {
		return fmt.Errorf("default_rounds must be between %d and %d, got %d",
			game.MinRounds, game.MaxRounds, c.Game.DefaultRounds)
	}
	if _, ok := game.ParseResultsPolicy(c.Game.ResultsPolicy); !ok {
		return fmt.Errorf("invalid results_policy: %q", c.Game.ResultsPolicy)
	}
	if _, err := c.Catalog(); err != nil {
		return err
	}
	if c.Server.IdleTimeout != nil && *c.Server.IdleTimeout < 0 {
		return fmt.Errorf("idle_timeout must not be negative, got %d", *c.Server.IdleTimeout)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Catalog resolves the move table: custom move blocks win over a named
// built-in catalog.
func (c *Config) Catalog() (*game.Catalog, error) {
	if len(c.Moves) > 0 {
		if c.Game.Catalog != "" {
			return nil, fmt.Errorf("catalog %q and move blocks are mutually exclusive", c.Game.Catalog)
		}
		rules := make([]game.Rule, 0, len(c.Moves))
		for _, m := range c.Moves {
			rules = append(rules, game.Rule{Name: m.Name, Beats: m.Beats})
		}
		return game.NewCatalog("custom", rules)
	}

	catalog, ok := game.CatalogByName(c.Game.Catalog)
	if !ok {
		return nil, fmt.Errorf("unknown catalog: %q", c.Game.Catalog)
	}
	return catalog, nil
}

// Policy returns the parsed results policy
func (c *Config) Policy() game.ResultsPolicy {
	p, _ := game.ParseResultsPolicy(c.Game.ResultsPolicy)
	return p
}

// IdleTimeout returns the websocket idle timeout, zero when disabled
func (c *Config) IdleTimeout() time.Duration {
	if c.Server.IdleTimeout == nil {
		return 0
	}
	return time.Duration(*c.Server.IdleTimeout) * time.Second
}

// GameOptions returns controller options reflecting the configuration. The
// caller adds its own opponent and logger.
func (c *Config) GameOptions() ([]game.Option, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	return []game.Option{
		game.WithCatalog(catalog),
		game.WithRoundCount(c.Game.DefaultRounds),
		game.WithResultsPolicy(c.Policy()),
	}, nil
}
