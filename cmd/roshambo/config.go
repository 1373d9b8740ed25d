package main

import (
	"fmt"

	"github.com/lox/roshambo/internal/config"
)

// loadConfig reads the config file and applies command line overrides
// before validating the result
func loadConfig(g *Globals, override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", g.Config, err)
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
