package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/roshambo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl")}

	cfg, err := loadConfig(g, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Game.DefaultRounds)
	assert.Equal(t, config.DefaultAddress, cfg.Server.Address)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roshambo.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
game {
  default_rounds = 5
}
`), 0o644))

	cfg, err := loadConfig(&Globals{Config: path}, func(cfg *config.Config) {
		cfg.Game.ResultsPolicy = "immediate"
	})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Game.DefaultRounds)
	assert.Equal(t, "immediate", cfg.Game.ResultsPolicy)
}

func TestLoadConfigRejectsInvalidOverride(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.hcl")}

	_, err := loadConfig(g, func(cfg *config.Config) {
		cfg.Game.DefaultRounds = 11
	})
	assert.Error(t, err)
}
