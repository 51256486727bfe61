package config

import (
	"embed"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

//go:embed tutorials/*.yaml
var tutorialFS embed.FS

// Mode IDs with a default configuration.
const (
	ModePrimeTime   = "primetime"
	ModeProduct     = "product"
	ModeAdd         = "add"
	ModeFractions   = "fractions"
	ModeCeiling     = "ceiling"
	ModeTutorial    = "tutorial"
	ModeTutorialAdd = "tutorial_add"
)

// Modes lists every mode ID in menu order.
func Modes() []string {
	return []string{
		ModePrimeTime, ModeProduct, ModeAdd, ModeFractions, ModeCeiling,
		ModeTutorial, ModeTutorialAdd,
	}
}

func defaultDifficulty() DifficultyConfig {
	return DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.0,
		Progression: ProgressionConfig{
			Type:  "score",
			MaxAt: 3000,
		},
		Scaling: ScalingConfig{
			SpeedMultiplier: 2.0,
		},
	}
}

// Default returns the hardcoded configuration for a mode. Unknown modes get
// the product configuration.
func Default(mode string) ModeConfig {
	cfg := ModeConfig{
		Field: FieldConfig{
			Layout:      "multbase",
			Columns:     6,
			Rows:        10,
			FallSpeed:   50,
			InitialRows: 3,
		},
		Numbers: NumbersConfig{
			Primes:    []int{2, 3, 5, 7},
			MaxTerms:  3,
			MatchSize: 2,
		},
		Spawn: SpawnConfig{
			Interval:    150,
			MinInterval: 40,
		},
		Scoring: ScoringConfig{
			BlockPoints: 10,
			SizeBonus:   5,
		},
		Difficulty: defaultDifficulty(),
	}

	switch mode {
	case ModePrimeTime:
		cfg.Field.Layout = "primetime"
		cfg.Field.InitialRows = 2
		cfg.Spawn.Interval = 240
		cfg.Spawn.MinInterval = 90
	case ModeAdd:
		cfg.Field.Layout = "add"
		cfg.Field.FallSpeed = 100
		cfg.Field.PushSpeed = 2
		cfg.Field.InitialRows = 4
		cfg.Numbers.Digits = []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	case ModeFractions:
		cfg.Field.Layout = "fractions"
		cfg.Field.Columns = 5
		cfg.Field.InitialRows = 2
		cfg.Numbers.FractionDenominators = []int{2, 3, 4, 5, 6}
		cfg.Numbers.MaxMultiplier = 3
		cfg.Spawn.Interval = 200
		cfg.Spawn.MinInterval = 60
	case ModeCeiling:
		cfg.Field.Layout = "ceiling"
		cfg.Field.FallSpeed = 100
		cfg.Field.PushSpeed = 2
		cfg.Field.InitialRows = 4
		cfg.Field.CrateMin = 1
		cfg.Field.CrateMax = 3
		cfg.Numbers.Primes = []int{2, 3, 5}
	case ModeTutorial:
		cfg.Field.Columns = 4
		cfg.Field.Rows = 8
		cfg.Field.FallSpeed = 100
		cfg.Field.InitialRows = 0
		cfg.Difficulty.Enabled = false
		cfg.Difficulty.Progression.Type = "none"
	case ModeTutorialAdd:
		cfg.Field.Layout = "add"
		cfg.Field.Columns = 4
		cfg.Field.Rows = 8
		cfg.Field.FallSpeed = 100
		cfg.Field.InitialRows = 0
		cfg.Numbers.Digits = []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
		cfg.Difficulty.Enabled = false
		cfg.Difficulty.Progression.Type = "none"
	}
	return cfg
}
