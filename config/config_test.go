package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/threatfield/constants"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, constants.DefaultTickInterval, cfg.Engine.TickInterval())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	cfg, err := Load("testdata/small.yaml")
	require.NoError(t, err)

	require.Equal(t, Grid{Width: 4, Height: 4, CellSize: 100}, cfg.Grid)
	require.Zero(t, cfg.Threat.Base)
	require.Equal(t, 300.0, cfg.Threat.UnknownRange)
	require.Equal(t, 5, cfg.Engine.RefreshFrames)

	// Untouched keys keep defaults
	require.Equal(t, constants.DefaultUnknownThreat, cfg.Threat.UnknownThreat)
	require.Equal(t, constants.GradientCenterFactor, cfg.Threat.GradientCenterFactor)
	require.Equal(t, 33*time.Millisecond, cfg.Engine.TickInterval())
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load("testdata/bad_queue.yaml")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalid))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Grid.Width = 0 }},
		{"zero cell", func(c *Config) { c.Grid.CellSize = 0 }},
		{"negative slack", func(c *Config) { c.Threat.RangeSlack = -1 }},
		{"zero unknown range", func(c *Config) { c.Threat.UnknownRange = 0 }},
		{"zero gradient factor", func(c *Config) { c.Threat.GradientCenterFactor = 0 }},
		{"negative ghost expiry", func(c *Config) { c.Ledger.GhostExpiryFrames = -1 }},
		{"zero refresh", func(c *Config) { c.Engine.RefreshFrames = 0 }},
		{"zero tick", func(c *Config) { c.Engine.TickMs = 0 }},
		{"queue not pow2", func(c *Config) { c.Engine.EventQueueSize = 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalid))
		})
	}
}
