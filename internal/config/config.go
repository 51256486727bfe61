// Package config provides YAML-based mode configuration loading and
// difficulty management for Prime Time.
package config

import (
	"fmt"

	"github.com/vovakirdan/primetime/internal/field"
)

// ModeConfig contains all configuration for one game mode.
type ModeConfig struct {
	Field      FieldConfig      `yaml:"field"`
	Numbers    NumbersConfig    `yaml:"numbers"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FieldConfig defines the playfield geometry.
type FieldConfig struct {
	Layout      string `yaml:"layout"`
	Columns     int    `yaml:"columns"`
	Rows        int    `yaml:"rows"`
	FallSpeed   int    `yaml:"fall_speed"`   // milli-cells per tick
	PushSpeed   int    `yaml:"push_speed"`   // milli-cells per tick, rising layouts
	InitialRows int    `yaml:"initial_rows"` // rows stacked before play starts
	CrateMin    int    `yaml:"crate_min"`    // ceiling layout crate heights
	CrateMax    int    `yaml:"crate_max"`
}

// NumbersConfig defines which values blocks may carry.
type NumbersConfig struct {
	Primes               []int `yaml:"primes,omitempty"`
	MaxTerms             int   `yaml:"max_terms"` // blocks per target, at least 2
	Digits               []int `yaml:"digits,omitempty"`
	FractionDenominators []int `yaml:"fraction_denominators,omitempty"`
	MaxMultiplier        int   `yaml:"max_multiplier"` // scale factor for equivalent fractions
	MatchSize            int   `yaml:"match_size"`
}

// SpawnConfig defines how often new blocks drop in.
type SpawnConfig struct {
	Interval    int `yaml:"interval"`     // ticks between spawns at the lowest level
	MinInterval int `yaml:"min_interval"` // ticks between spawns at the highest level
}

// ScoringConfig defines points per cleared equation.
type ScoringConfig struct {
	BlockPoints int `yaml:"block_points"`
	SizeBonus   int `yaml:"size_bonus"` // per block beyond two
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to push speed at max difficulty
}

// Layout resolves the configured layout name.
func (c ModeConfig) Layout() (field.Layout, error) {
	return field.ParseLayout(c.Field.Layout)
}

// Geometry returns the field geometry described by the config.
func (c ModeConfig) Geometry() (field.Geometry, error) {
	layout, err := c.Layout()
	if err != nil {
		return field.Geometry{}, err
	}
	g := field.Geometry{
		Layout:    layout,
		Columns:   c.Field.Columns,
		Rows:      c.Field.Rows,
		FallSpeed: c.Field.FallSpeed,
		PushSpeed: c.Field.PushSpeed,
	}
	return g, g.Validate()
}

// Validate checks the config for values the rule engines cannot work with.
func (c ModeConfig) Validate() error {
	g, err := c.Geometry()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Field.InitialRows < 0 || c.Field.InitialRows >= c.Field.Rows {
		return fmt.Errorf("config: initial_rows %d must be below rows %d", c.Field.InitialRows, c.Field.Rows)
	}
	if c.Numbers.MaxTerms < 2 {
		return fmt.Errorf("config: max_terms must be at least 2, got %d", c.Numbers.MaxTerms)
	}
	if c.Spawn.Interval < 1 || c.Spawn.MinInterval < 1 || c.Spawn.MinInterval > c.Spawn.Interval {
		return fmt.Errorf("config: spawn interval %d/%d invalid", c.Spawn.Interval, c.Spawn.MinInterval)
	}
	switch g.Layout {
	case field.LayoutAdd:
		if len(c.Numbers.Digits) == 0 {
			return fmt.Errorf("config: %s layout needs digits", g.Layout)
		}
	case field.LayoutFractions:
		if len(c.Numbers.FractionDenominators) == 0 {
			return fmt.Errorf("config: %s layout needs fraction_denominators", g.Layout)
		}
		for _, d := range c.Numbers.FractionDenominators {
			if d < 2 {
				return fmt.Errorf("config: fraction denominator %d must be at least 2", d)
			}
		}
		if c.Numbers.MatchSize < 2 {
			return fmt.Errorf("config: match_size must be at least 2, got %d", c.Numbers.MatchSize)
		}
		if c.Numbers.MatchSize > c.Field.Columns {
			return fmt.Errorf("config: match_size %d needs as many columns", c.Numbers.MatchSize)
		}
		if c.Numbers.MaxMultiplier < c.Numbers.MatchSize {
			return fmt.Errorf("config: max_multiplier %d cannot produce %d distinct equivalents",
				c.Numbers.MaxMultiplier, c.Numbers.MatchSize)
		}
	case field.LayoutCeiling:
		if c.Field.CrateMin < 0 || c.Field.CrateMax < c.Field.CrateMin || c.Field.CrateMax >= c.Field.Rows {
			return fmt.Errorf("config: crate range %d..%d invalid", c.Field.CrateMin, c.Field.CrateMax)
		}
		fallthrough
	case field.LayoutPrimeTime:
		// a product drops in together with its factors, one per column
		if g.Layout == field.LayoutPrimeTime && c.Numbers.MaxTerms+1 > c.Field.Columns {
			return fmt.Errorf("config: max_terms %d needs %d columns", c.Numbers.MaxTerms, c.Numbers.MaxTerms+1)
		}
		fallthrough
	default:
		if len(c.Numbers.Primes) == 0 {
			return fmt.Errorf("config: %s layout needs primes", g.Layout)
		}
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset resolves a preset name. The empty string means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q", name)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset. A config
// that already disables difficulty, like the tutorials, is left as is.
func ApplyPreset(cfg *ModeConfig, preset DifficultyPreset) {
	if !cfg.Difficulty.Enabled {
		return
	}
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Spawn.Interval += cfg.Spawn.Interval / 2
	case DifficultyHard:
		cfg.Spawn.Interval = max(cfg.Spawn.MinInterval, cfg.Spawn.Interval*3/4)
		if cfg.Field.PushSpeed > 0 {
			cfg.Field.PushSpeed++
		}
	}
}
