// Package config loads engine configuration from YAML
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/threatfield/constants"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("config: invalid")

// Config is the full engine configuration
type Config struct {
	Grid   Grid   `yaml:"grid"`
	Threat Threat `yaml:"threat"`
	Ledger Ledger `yaml:"ledger"`
	Engine Engine `yaml:"engine"`
}

// Grid sizes the hazard layers
type Grid struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"`
}

// Threat tunes range derivation and painting
type Threat struct {
	Base                 float64 `yaml:"base"`
	RangeSlack           float64 `yaml:"range_slack"`
	VelocitySlackFrames  float64 `yaml:"velocity_slack_frames"`
	UnknownRange         float64 `yaml:"unknown_range"`
	UnknownThreat        float64 `yaml:"unknown_threat"`
	GradientCenterFactor float64 `yaml:"gradient_center_factor"`
	StealthWeight        float64 `yaml:"stealth_weight"`
	DefaultDetectRange   float64 `yaml:"default_detect_range"`
}

// Ledger tunes visibility bookkeeping
type Ledger struct {
	GhostExpiryFrames int `yaml:"ghost_expiry_frames"`
}

// Engine tunes cadence and queues
type Engine struct {
	RefreshFrames  int `yaml:"refresh_frames"`
	TickMs         int `yaml:"tick_ms"`
	EventQueueSize int `yaml:"event_queue_size"`
}

// TickInterval returns the clock driver frame length
func (e Engine) TickInterval() time.Duration {
	return time.Duration(e.TickMs) * time.Millisecond
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Grid: Grid{
			Width:    constants.DefaultGridWidth,
			Height:   constants.DefaultGridHeight,
			CellSize: constants.DefaultCellSize,
		},
		Threat: Threat{
			Base:                 constants.DefaultThreatBase,
			RangeSlack:           constants.DefaultRangeSlack,
			VelocitySlackFrames:  constants.DefaultVelocitySlackFrames,
			UnknownRange:         constants.DefaultUnknownRange,
			UnknownThreat:        constants.DefaultUnknownThreat,
			GradientCenterFactor: constants.GradientCenterFactor,
			StealthWeight:        constants.StealthWeight,
			DefaultDetectRange:   constants.DefaultDetectRange,
		},
		Ledger: Ledger{
			GhostExpiryFrames: constants.DefaultGhostExpiryFrames,
		},
		Engine: Engine{
			RefreshFrames:  constants.DefaultRefreshFrames,
			TickMs:         int(constants.DefaultTickInterval / time.Millisecond),
			EventQueueSize: constants.DefaultEventQueueSize,
		},
	}
}

// Load reads path and overlays it on Default
// Keys absent from the file keep their default values
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges the engine relies on
func (c Config) Validate() error {
	switch {
	case c.Grid.Width < 1 || c.Grid.Height < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	case c.Grid.CellSize < 1:
		return fmt.Errorf("%w: grid.cell_size %d", ErrInvalid, c.Grid.CellSize)
	case c.Threat.RangeSlack < 0 || c.Threat.VelocitySlackFrames < 0:
		return fmt.Errorf("%w: negative range slack", ErrInvalid)
	case c.Threat.UnknownRange <= 0 || c.Threat.UnknownThreat <= 0:
		return fmt.Errorf("%w: unknown contacts need positive range and threat", ErrInvalid)
	case c.Threat.GradientCenterFactor <= 0:
		return fmt.Errorf("%w: threat.gradient_center_factor %v", ErrInvalid, c.Threat.GradientCenterFactor)
	case c.Threat.StealthWeight < 0 || c.Threat.DefaultDetectRange < 0:
		return fmt.Errorf("%w: negative stealth parameters", ErrInvalid)
	case c.Ledger.GhostExpiryFrames < 0:
		return fmt.Errorf("%w: ledger.ghost_expiry_frames %d", ErrInvalid, c.Ledger.GhostExpiryFrames)
	case c.Engine.RefreshFrames < 1:
		return fmt.Errorf("%w: engine.refresh_frames %d", ErrInvalid, c.Engine.RefreshFrames)
	case c.Engine.TickMs < 1:
		return fmt.Errorf("%w: engine.tick_ms %d", ErrInvalid, c.Engine.TickMs)
	case c.Engine.EventQueueSize < 2 || c.Engine.EventQueueSize&(c.Engine.EventQueueSize-1) != 0:
		return fmt.Errorf("%w: engine.event_queue_size %d must be a power of two", ErrInvalid, c.Engine.EventQueueSize)
	}
	return nil
}
