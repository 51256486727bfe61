package config

import "math"

// MaxLevel is the highest displayed level number.
const MaxLevel = 10

// DifficultyManager calculates dynamic game parameters based on score/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/ticks.
func (d *DifficultyManager) Level(score int, ticks uint64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// LevelNumber maps the difficulty level onto 1..MaxLevel for display and
// score multipliers.
func (d *DifficultyManager) LevelNumber(score int, ticks uint64) int {
	n := 1 + int(math.Floor(d.Level(score, ticks)*float64(MaxLevel-1)))
	return min(n, MaxLevel)
}

// PushSpeed returns the rising speed for the current level.
// Speed increases from base to base * (1 + speedMultiplier).
func (d *DifficultyManager) PushSpeed(base, score int, ticks uint64) int {
	level := d.Level(score, ticks)
	return int(math.Round(float64(base) * (1.0 + level*d.cfg.Scaling.SpeedMultiplier)))
}

// Interval returns ticks between spawns, shrinking from base to minimum.
func (d *DifficultyManager) Interval(base, minimum, score int, ticks uint64) int {
	level := d.Level(score, ticks)
	result := base - int(level*float64(base-minimum))
	if result < minimum {
		result = minimum
	}
	if result < 1 {
		result = 1
	}
	return result
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
