package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration for a mode.
// Search order: customPath -> ~/.primetime/configs/<mode>.yaml -> ./configs/<mode>.yaml -> embedded default
func Load(mode, customPath string) (ModeConfig, error) {
	var cfg ModeConfig
	filename := mode + ".yaml"

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if c, ok := tryFile(userCfgPath); ok {
			return c, nil
		}
	}

	// Try local configs directory
	if c, ok := tryFile(filepath.Join("configs", filename)); ok {
		return c, nil
	}

	// Use embedded default YAML
	data, err := defaultFS.ReadFile("defaults/" + filename)
	if err != nil {
		return cfg, fmt.Errorf("config: unknown mode %q", mode)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil || cfg.Validate() != nil {
		return Default(mode), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadWithPreset loads a mode config and applies a difficulty preset.
func LoadWithPreset(mode, customPath string, preset DifficultyPreset) (ModeConfig, error) {
	cfg, err := Load(mode, customPath)
	if err != nil {
		return cfg, err
	}
	ApplyPreset(&cfg, preset)
	return cfg, nil
}

// Parse decodes and validates a YAML mode config, as stored in replay logs.
func Parse(data []byte) (ModeConfig, error) {
	var cfg ModeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal encodes a mode config as YAML.
func Marshal(cfg ModeConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// tryFile reads and validates a config file, skipping it on any error.
func tryFile(path string) (ModeConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModeConfig{}, false
	}
	var cfg ModeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ModeConfig{}, false
	}
	if cfg.Validate() != nil {
		return ModeConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".primetime", "configs", filename)
}
