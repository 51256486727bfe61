// Package primetime runs Prime Time games: it owns the field, the rule
// engine and the instruction stream, and advances them one tick at a time.
package primetime

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/core"
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
	"github.com/vovakirdan/primetime/internal/logic"
	"github.com/vovakirdan/primetime/internal/registry"
)

var titles = map[string]string{
	config.ModePrimeTime:   "Prime Time",
	config.ModeProduct:     "Prime Time: Products",
	config.ModeAdd:         "Prime Time: Sums",
	config.ModeFractions:   "Prime Time: Fractions",
	config.ModeCeiling:     "Prime Time: Ceiling",
	config.ModeTutorial:    "Tutorial: Products",
	config.ModeTutorialAdd: "Tutorial: Sums",
}

// Package-level config/difficulty selection, set by the CLI before games are created.
var (
	configPath       string
	difficultyPreset = config.DifficultyNormal
)

// SetConfigPath sets a custom config file used by every mode.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset for new games.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

func init() {
	for _, mode := range config.Modes() {
		registry.Register(mode, func() registry.Game {
			return New(mode)
		})
	}
	registry.RegisterReplayLoader(func(data []byte) (registry.Game, error) {
		return LoadReplay(data)
	})
}

// Game is one Prime Time session, live or replayed.
type Game struct {
	mode   string
	preset config.DifficultyPreset

	cfg    config.ModeConfig
	field  *field.Field
	rules  logic.Rules
	stream instruction.Stream
	rng    *rand.Rand
	ctx    logic.Context

	seed   int64
	tick   uint64
	replay *instruction.Log
	log    bytes.Buffer
	err    error

	cursorCol int
	cursorRow int

	gameOver bool
	won      bool
	paused   bool
	finished bool

	screenW int
	screenH int
}

// New creates a live game for a mode.
func New(mode string) *Game {
	return &Game{mode: mode, preset: difficultyPreset}
}

// SetDifficulty overrides the difficulty preset for this game. It takes
// effect on the next Reset and is ignored by replays.
func (g *Game) SetDifficulty(preset config.DifficultyPreset) {
	g.preset = preset
}

// NewReplay creates a game that plays back a recorded log.
func NewReplay(lg *instruction.Log) (*Game, error) {
	if _, ok := titles[lg.Header.Mode]; !ok {
		return nil, fmt.Errorf("primetime: log for unknown mode %q", lg.Header.Mode)
	}
	if _, err := config.Parse(lg.Header.Config); err != nil {
		return nil, fmt.Errorf("primetime: log config: %w", err)
	}
	return &Game{mode: lg.Header.Mode, replay: lg}, nil
}

// LoadReplay decodes an encoded session log into a replay game.
func LoadReplay(data []byte) (*Game, error) {
	lg, err := instruction.DecodeLog(data)
	if err != nil {
		return nil, fmt.Errorf("primetime: %w", err)
	}
	return NewReplay(lg)
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.mode }

// Title returns the display name.
func (g *Game) Title() string {
	if t, ok := titles[g.mode]; ok {
		return t
	}
	return g.mode
}

// Reset initializes/restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.tick = 0
	g.gameOver, g.won, g.paused, g.finished = false, false, false, false
	g.cursorCol, g.cursorRow = 0, 0
	g.err = nil
	g.log.Reset()

	if err := g.start(rc.Seed); err != nil {
		g.err = err
		g.gameOver = true
	}
}

func (g *Game) start(seed int64) error {
	var err error
	if g.replay != nil {
		g.seed = g.replay.Header.Seed
		g.cfg, err = config.Parse(g.replay.Header.Config)
	} else {
		g.seed = seed
		g.cfg, err = config.LoadWithPreset(g.mode, configPath, g.preset)
	}
	if err != nil {
		return err
	}

	geom, err := g.cfg.Geometry()
	if err != nil {
		return err
	}
	if g.field, err = field.New(geom); err != nil {
		return err
	}
	if g.rules, err = logic.New(g.mode, g.cfg); err != nil {
		return err
	}

	if g.replay != nil {
		g.rng = nil
		g.stream = instruction.NewReplayStream(g.replay)
	} else {
		g.rng = rand.New(rand.NewSource(seed))
		yml, err := config.Marshal(g.cfg)
		if err != nil {
			return err
		}
		rec, err := instruction.NewRecorder(&g.log, instruction.Header{Mode: g.mode, Seed: seed, Config: yml})
		if err != nil {
			return err
		}
		g.stream = instruction.NewPlayStream(rec)
	}

	g.ctx = logic.Context{Field: g.field, Stream: g.stream, Rand: g.rng}
	if g.stream.Live() {
		g.rules.Setup(&g.ctx)
	}
	return nil
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) && (g.gameOver || g.won) {
		seed := g.seed
		if g.rng != nil {
			seed = g.rng.Int63()
		}
		g.Reset(core.RuntimeConfig{ScreenW: g.screenW, ScreenH: g.screenH, Seed: seed})
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
		return core.StepResult{State: g.State()}
	}
	if g.gameOver || g.won || g.paused || g.field == nil {
		return core.StepResult{State: g.State()}
	}

	g.tick++
	g.ctx.Tick = g.tick
	g.ctx.NeedRow = false

	if g.stream.Live() {
		g.handleInput(in)
		g.rules.Update(&g.ctx)
	}
	g.drain()
	if g.gameOver {
		g.finish()
		return core.StepResult{State: g.State()}
	}

	res := g.field.Step()
	if res.NeedRow && g.stream.Live() {
		g.ctx.NeedRow = true
		g.rules.Update(&g.ctx)
		g.ctx.NeedRow = false
	}
	switch {
	case res.ToppedOut:
		g.gameOver = true
	case g.rules.Complete() || (g.field.Spec().Crates && g.field.CratesMatched()):
		g.won = true
	case g.stream.Done(g.tick):
		g.gameOver = true
	}
	if g.gameOver || g.won {
		g.finish()
	}
	return core.StepResult{State: g.State()}
}

// handleInput moves the cursor and turns selection keys into instructions.
func (g *Game) handleInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.cursorRow++
	case in.Has(core.ActionDown):
		g.cursorRow--
	case in.Has(core.ActionLeft):
		g.cursorCol--
	case in.Has(core.ActionRight):
		g.cursorCol++
	}
	g.cursorCol = core.Clamp(g.cursorCol, 0, g.field.Columns()-1)
	g.cursorRow = core.Clamp(g.cursorRow, 0, g.field.Rows()-1)

	if in.Has(core.ActionSelect) {
		if b, ok := g.field.BlockAt(g.cursorCol, g.cursorRow); ok {
			g.stream.Push(&instruction.SelectBlock{ID: b.ID})
		}
	}
	if in.Has(core.ActionClear) {
		g.stream.Push(&instruction.ClearSelection{})
	}
}

// drain applies every instruction due this tick.
func (g *Game) drain() {
	for !g.gameOver {
		env, ok := g.stream.Next(g.tick)
		if !ok {
			return
		}
		g.apply(env.Instruction)
	}
}

func (g *Game) apply(in instruction.Instruction) {
	switch in := in.(type) {
	case *instruction.SelectBlock:
		if _, err := g.field.Select(in.ID); err == nil {
			g.rules.Validate(&g.ctx)
		}
	case *instruction.ClearSelection:
		g.field.ClearSelection()
	case *instruction.RemoveBlocks:
		if res := g.field.Remove(in.IDs); len(res.Removed) > 0 {
			g.rules.Removed(&g.ctx, res)
		}
	case *instruction.SetSum:
		g.rules.SetTarget(in.Target)
	case *instruction.AddSummands:
		g.addSummands(in)
	case *instruction.SetPushSpeed:
		g.field.SetPushSpeed(in.Speed)
	case *instruction.SetCrates:
		g.field.SetCrates(in.Targets)
	}
}

func (g *Game) addSummands(in *instruction.AddSummands) {
	for _, s := range in.Summands {
		var err error
		switch in.Placement {
		case instruction.PlaceTop:
			_, err = g.field.Spawn(s.Column, s.Value, s.Kind)
		case instruction.PlaceStack:
			_, err = g.field.Stack(s.Column, s.Value, s.Kind)
		case instruction.PlaceBottom:
			_, err = g.field.InsertBottom(s.Column, s.Value, s.Kind)
		}
		if errors.Is(err, field.ErrColumnFull) {
			g.gameOver = true
			return
		}
	}
}

// finish closes the stream once, sealing the recording.
func (g *Game) finish() {
	if g.finished || g.stream == nil {
		return
	}
	g.finished = true
	if err := g.stream.Close(); err != nil && g.err == nil {
		g.err = err
	}
}

// Finish ends a live session early, e.g. when the player quits, so the
// recording covers every tick played.
func (g *Game) Finish() error {
	g.finish()
	return g.err
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := 0
	if g.rules != nil {
		score = g.rules.Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: g.gameOver,
		Won:      g.won,
		Paused:   g.paused,
	}
}

// Recording returns the replay log of the current live session.
func (g *Game) Recording() []byte {
	if g.replay != nil {
		return nil
	}
	return bytes.Clone(g.log.Bytes())
}

// IsReplay reports whether the game plays back a log.
func (g *Game) IsReplay() bool { return g.replay != nil }

// Seed returns the seed of the current session.
func (g *Game) Seed() int64 { return g.seed }

// Ticks returns the number of simulated ticks.
func (g *Game) Ticks() uint64 { return g.tick }

// Err returns the error that stopped the game, if any.
func (g *Game) Err() error { return g.err }

// Field returns the playfield.
func (g *Game) Field() *field.Field { return g.field }

// Rules returns the rule engine.
func (g *Game) Rules() logic.Rules { return g.rules }

// Snapshot hashes the field state for replay verification.
func (g *Game) Snapshot() uint64 {
	if g.field == nil {
		return 0
	}
	return g.field.Snapshot()
}

// Progress reports replayed and total instructions. Live games report 0, 0.
func (g *Game) Progress() (int, int) {
	if rs, ok := g.stream.(*instruction.ReplayStream); ok {
		return rs.Progress()
	}
	return 0, 0
}
