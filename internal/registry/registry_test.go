package registry

import (
	"testing"

	"github.com/vovakirdan/primetime/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                          { return g.id }
func (g *stubGame) Title() string                       { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)            {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                 {}
func (g *stubGame) State() core.GameState               { return core.GameState{} }

func TestRegisterListCreate(t *testing.T) {
	ids := []string{"zeta-test", "alpha-test"}
	for _, id := range ids {
		Register(id, func() Game { return &stubGame{id: id} })
	}

	var got []string
	for _, info := range List() {
		if info.ID == "zeta-test" || info.ID == "alpha-test" {
			got = append(got, info.ID)
			if info.Title != "Stub "+info.ID {
				t.Errorf("title for %s = %q", info.ID, info.Title)
			}
		}
	}
	if len(got) != 2 || got[0] != "zeta-test" || got[1] != "alpha-test" {
		t.Errorf("List order = %v, want registration order", got)
	}

	g, err := Create("alpha-test")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "alpha-test" {
		t.Errorf("Create returned %q", g.ID())
	}
	if !Exists("zeta-test") || Exists("missing") {
		t.Error("Exists mismatch")
	}
	if _, err := Create("missing"); err == nil {
		t.Error("expected error for unknown game")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-test", func() Game { return &stubGame{id: "dup-test"} })
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("dup-test", func() Game { return &stubGame{id: "dup-test"} })
}

func TestLoadReplay(t *testing.T) {
	RegisterReplayLoader(func(data []byte) (Game, error) {
		return &stubGame{id: string(data)}, nil
	})
	g, err := LoadReplay([]byte("replayed"))
	if err != nil {
		t.Fatalf("LoadReplay: %v", err)
	}
	if g.ID() != "replayed" {
		t.Errorf("LoadReplay returned %q", g.ID())
	}
}
