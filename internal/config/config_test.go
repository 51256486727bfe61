package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/primetime/internal/field"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	for _, mode := range Modes() {
		t.Run(mode, func(t *testing.T) {
			cfg, err := Load(mode, "")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("embedded default invalid: %v", err)
			}
			if want := Default(mode); !reflect.DeepEqual(cfg, want) {
				t.Errorf("embedded %s.yaml differs from Default:\n got %+v\nwant %+v", mode, cfg, want)
			}
		})
	}
}

func TestLoadUnknownMode(t *testing.T) {
	if _, err := Load("tetris", ""); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data, err := Marshal(Default(ModeAdd))
	if err != nil {
		t.Fatal(err)
	}
	custom := strings.Replace(string(data), "columns: 6", "columns: 8", 1)
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(ModeProduct, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Field.Columns != 8 || cfg.Field.Layout != "add" {
		t.Errorf("custom config not used: %+v", cfg.Field)
	}

	if _, err := Load(ModeProduct, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom path")
	}

	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("field:\n  layout: hexagon\n"), 0o644)
	if _, err := Load(ModeProduct, bad); err == nil {
		t.Error("expected error for invalid custom config")
	}
}

func TestMarshalParseRoundTrip(t *testing.T) {
	want := Default(ModeCeiling)
	ApplyPreset(&want, DifficultyHard)
	data, err := Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		mutate func(*ModeConfig)
	}{
		{"no columns", ModeProduct, func(c *ModeConfig) { c.Field.Columns = 0 }},
		{"huge field", ModeProduct, func(c *ModeConfig) { c.Field.Columns = 2000000000 }},
		{"too many rows", ModeAdd, func(c *ModeConfig) { c.Field.Rows = 1 << 20 }},
		{"initial rows fill field", ModeProduct, func(c *ModeConfig) { c.Field.InitialRows = c.Field.Rows }},
		{"one term", ModeProduct, func(c *ModeConfig) { c.Numbers.MaxTerms = 1 }},
		{"min interval above interval", ModeProduct, func(c *ModeConfig) { c.Spawn.MinInterval = c.Spawn.Interval + 1 }},
		{"add without digits", ModeAdd, func(c *ModeConfig) { c.Numbers.Digits = nil }},
		{"denominator one", ModeFractions, func(c *ModeConfig) { c.Numbers.FractionDenominators = []int{1} }},
		{"multiplier too small", ModeFractions, func(c *ModeConfig) { c.Numbers.MaxMultiplier = 1 }},
		{"crates too tall", ModeCeiling, func(c *ModeConfig) { c.Field.CrateMax = c.Field.Rows }},
		{"no primes", ModePrimeTime, func(c *ModeConfig) { c.Numbers.Primes = nil }},
		{"unknown layout", ModeProduct, func(c *ModeConfig) { c.Field.Layout = "hexagon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(tt.mode)
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGeometry(t *testing.T) {
	g, err := Default(ModeFractions).Geometry()
	if err != nil {
		t.Fatal(err)
	}
	if g.Layout != field.LayoutFractions || g.Columns != 5 || g.Rows != 10 {
		t.Errorf("geometry = %+v", g)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := Default(ModeAdd)
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = Default(ModeAdd)
	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset difficulty = %+v", cfg.Difficulty)
	}
	if cfg.Field.PushSpeed != 3 {
		t.Errorf("hard push speed = %d, want 3", cfg.Field.PushSpeed)
	}

	cfg = Default(ModeProduct)
	ApplyPreset(&cfg, DifficultyEasy)
	if cfg.Spawn.Interval != 225 {
		t.Errorf("easy interval = %d, want 225", cfg.Spawn.Interval)
	}

	for _, mode := range []string{ModeTutorial, ModeTutorialAdd} {
		for _, preset := range []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard} {
			cfg = Default(mode)
			ApplyPreset(&cfg, preset)
			if want := Default(mode); cfg.Difficulty != want.Difficulty || cfg.Spawn != want.Spawn {
				t.Errorf("%s/%s: preset changed a disabled config: %+v", mode, preset, cfg.Difficulty)
			}
		}
	}

	if _, err := ParsePreset("brutal"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if p, _ := ParsePreset(""); p != DifficultyNormal {
		t.Errorf("empty preset = %q", p)
	}
}

func TestLoadTutorials(t *testing.T) {
	for _, mode := range []string{ModeTutorial, ModeTutorialAdd} {
		tut, err := LoadTutorial(mode)
		if err != nil {
			t.Fatalf("LoadTutorial(%s): %v", mode, err)
		}
		cfg := Default(mode)
		for i, step := range tut.Steps {
			for _, b := range step.Blocks {
				if b.Column < 0 || b.Column >= cfg.Field.Columns {
					t.Errorf("%s step %d: column %d outside field", mode, i, b.Column)
				}
			}
		}
	}
	if _, err := LoadTutorial(ModeProduct); err == nil {
		t.Error("expected error for mode without tutorial")
	}
}

func TestParseTutorialValues(t *testing.T) {
	src := `
title: Mixed
rules: product
steps:
  - hint: test
    target: 3/4
    blocks:
      - {column: 0, value: 6/8, kind: fraction}
      - {column: 1, value: 5, kind: prime}
`
	tut, err := ParseTutorial([]byte(src))
	if err != nil {
		t.Fatalf("ParseTutorial: %v", err)
	}
	step := tut.Steps[0]
	if step.Target != field.Frac(3, 4) {
		t.Errorf("target = %v", step.Target)
	}
	if step.Blocks[0].Value != field.Frac(6, 8) || step.Blocks[0].Kind != field.KindFraction {
		t.Errorf("block 0 = %+v", step.Blocks[0])
	}
	if step.Blocks[1].Kind != field.KindPrime {
		t.Errorf("block 1 kind = %v", step.Blocks[1].Kind)
	}

	if _, err := ParseTutorial([]byte("title: x\nrules: divide\nsteps: []\n")); err == nil {
		t.Error("expected error for unsupported rules")
	}
	if _, err := ParseTutorial([]byte("title: x\nrules: add\nsteps:\n  - target: 3\n    blocks:\n      - {column: 0, value: oops}\n")); err == nil {
		t.Error("expected error for bad value")
	}
}
