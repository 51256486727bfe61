package config

import "testing"

func TestDifficultyLevel(t *testing.T) {
	cfg := defaultDifficulty()
	cfg.Progression.MaxAt = 1000
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		score     int
		wantLevel float64
		wantNum   int
	}{
		{0, 0.0, 1},
		{500, 0.5, 5},
		{1000, 1.0, 10},
		{5000, 1.0, 10},
	}
	for _, tt := range tests {
		if got := dm.Level(tt.score, 0); got != tt.wantLevel {
			t.Errorf("Level(%d) = %v, want %v", tt.score, got, tt.wantLevel)
		}
		if got := dm.LevelNumber(tt.score, 0); got != tt.wantNum {
			t.Errorf("LevelNumber(%d) = %d, want %d", tt.score, got, tt.wantNum)
		}
	}
}

func TestDifficultyTimeProgression(t *testing.T) {
	cfg := defaultDifficulty()
	cfg.Progression = ProgressionConfig{Type: "time", MaxAt: 100}
	dm := NewDifficultyManager(cfg)
	if got := dm.Level(9999, 50); got != 0.5 {
		t.Errorf("Level = %v, want 0.5", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	cfg := defaultDifficulty()
	cfg.Enabled = false
	cfg.InitialLevel = 0.3
	dm := NewDifficultyManager(cfg)
	if dm.IsEnabled() {
		t.Error("manager should be disabled")
	}
	if got := dm.Level(100000, 100000); got != 0.3 {
		t.Errorf("Level = %v, want initial 0.3", got)
	}
	cfg.InitialLevel = 7
	dm = NewDifficultyManager(cfg)
	if got := dm.Level(0, 0); got != 1.0 {
		t.Errorf("initial level not clamped: %v", got)
	}
}

func TestDifficultyScaling(t *testing.T) {
	cfg := defaultDifficulty()
	cfg.Progression.MaxAt = 100
	cfg.Scaling.SpeedMultiplier = 2.0
	dm := NewDifficultyManager(cfg)

	if got := dm.PushSpeed(2, 0, 0); got != 2 {
		t.Errorf("PushSpeed at level 0 = %d, want 2", got)
	}
	if got := dm.PushSpeed(2, 100, 0); got != 6 {
		t.Errorf("PushSpeed at max = %d, want 6", got)
	}
	if got := dm.Interval(150, 40, 0, 0); got != 150 {
		t.Errorf("Interval at level 0 = %d, want 150", got)
	}
	if got := dm.Interval(150, 40, 50, 0); got != 95 {
		t.Errorf("Interval at half = %d, want 95", got)
	}
	if got := dm.Interval(150, 40, 100, 0); got != 40 {
		t.Errorf("Interval at max = %d, want 40", got)
	}
}
