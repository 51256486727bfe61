package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/primetime/internal/field"
)

// Tutorial is a scripted sequence of fixed puzzles.
type Tutorial struct {
	Title string         `yaml:"title"`
	Rules string         `yaml:"rules"` // "product" or "add"
	Steps []TutorialStep `yaml:"steps"`
}

// TutorialStep places blocks and asks for one equation.
type TutorialStep struct {
	Hint   string          `yaml:"hint"`
	Target field.Value     `yaml:"target"`
	Blocks []TutorialBlock `yaml:"blocks"`
}

// TutorialBlock is one block stacked onto a column.
type TutorialBlock struct {
	Column int         `yaml:"column"`
	Value  field.Value `yaml:"value"`
	Kind   field.Kind  `yaml:"kind"`
}

// LoadTutorial loads an embedded tutorial script by mode ID.
func LoadTutorial(mode string) (Tutorial, error) {
	data, err := tutorialFS.ReadFile("tutorials/" + mode + ".yaml")
	if err != nil {
		return Tutorial{}, fmt.Errorf("config: no tutorial for %q", mode)
	}
	return ParseTutorial(data)
}

// ParseTutorial decodes and checks a tutorial script.
func ParseTutorial(data []byte) (Tutorial, error) {
	var t Tutorial
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("config: parse tutorial: %w", err)
	}
	if t.Rules != "product" && t.Rules != "add" {
		return t, fmt.Errorf("config: tutorial rules %q not supported", t.Rules)
	}
	if len(t.Steps) == 0 {
		return t, fmt.Errorf("config: tutorial %q has no steps", t.Title)
	}
	for i, s := range t.Steps {
		if len(s.Blocks) < 2 {
			return t, fmt.Errorf("config: tutorial step %d needs at least two blocks", i+1)
		}
		if s.Target.Num == 0 {
			return t, fmt.Errorf("config: tutorial step %d has no target", i+1)
		}
	}
	return t, nil
}
