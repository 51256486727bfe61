// Package registry keeps the game modes known to the binary. Modes register
// a factory in init(), so the CLI and the TUI can list and start them
// without importing each mode directly.
package registry

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/primetime/internal/core"
)

// Game is what the platform drives: a tick-based simulation that renders
// into a character screen. Games never see terminals or key codes.
type Game interface {
	// ID returns the mode identifier used on the command line and in
	// the score table (e.g. "primetime", "add").
	ID() string

	// Title returns the display name.
	Title() string

	// Reset starts a new session. The seed in cfg drives every random
	// choice the session makes.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into dst.
	Render(dst *core.Screen)

	// State returns score and end-of-game flags.
	State() core.GameState
}

// Recorder is implemented by games that record their sessions for replay.
type Recorder interface {
	// Finish seals the recording of the current session.
	Finish() error
	// Recording returns the encoded log, or nil for replays.
	Recording() []byte
	Seed() int64
	Ticks() uint64
}

// GameInfo describes a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	infos     []GameInfo
)

// Register adds a mode. Modes are listed in registration order.
// Panics if the ID is taken.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	infos = append(infos, GameInfo{ID: id, Title: f().Title()})
}

// List returns every registered mode in registration order.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()
	return append([]GameInfo(nil), infos...)
}

// Create instantiates a game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether a mode is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := factories[id]
	return ok
}

// ReplayLoader builds a game that plays back an encoded session log.
type ReplayLoader func(data []byte) (Game, error)

var replayLoader ReplayLoader

// RegisterReplayLoader installs the loader used by LoadReplay.
func RegisterReplayLoader(f ReplayLoader) {
	mu.Lock()
	defer mu.Unlock()
	replayLoader = f
}

// LoadReplay decodes a session log into a playable replay.
func LoadReplay(data []byte) (Game, error) {
	mu.RLock()
	f := replayLoader
	mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("registry: no replay loader registered")
	}
	return f(data)
}
