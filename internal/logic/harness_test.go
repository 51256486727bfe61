package logic

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

// harness applies instructions to a field the way the game loop does.
type harness struct {
	t      *testing.T
	f      *field.Field
	s      *instruction.PlayStream
	r      Rules
	ctx    *Context
	topped bool
}

func newHarness(t *testing.T, mode string, cfg config.ModeConfig, seed int64) *harness {
	t.Helper()
	g, err := cfg.Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	f, err := field.New(g)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	r, err := New(mode, cfg)
	if err != nil {
		t.Fatalf("New(%s): %v", mode, err)
	}
	s := instruction.NewPlayStream(nil)
	h := &harness{t: t, f: f, s: s, r: r, ctx: &Context{
		Field:  f,
		Stream: s,
		Rand:   rand.New(rand.NewSource(seed)),
	}}
	return h
}

// setup runs the opening instructions and lets the field settle.
func (h *harness) setup() {
	h.r.Setup(h.ctx)
	h.drain()
}

func (h *harness) drain() {
	for {
		env, ok := h.s.Next(h.ctx.Tick)
		if !ok {
			return
		}
		h.apply(env.Instruction)
	}
}

func (h *harness) apply(in instruction.Instruction) {
	switch in := in.(type) {
	case *instruction.SelectBlock:
		if _, err := h.f.Select(in.ID); err == nil {
			h.r.Validate(h.ctx)
		}
	case *instruction.ClearSelection:
		h.f.ClearSelection()
	case *instruction.RemoveBlocks:
		if res := h.f.Remove(in.IDs); len(res.Removed) > 0 {
			h.r.Removed(h.ctx, res)
		}
	case *instruction.SetSum:
		h.r.SetTarget(in.Target)
	case *instruction.AddSummands:
		for _, s := range in.Summands {
			var err error
			switch in.Placement {
			case instruction.PlaceTop:
				_, err = h.f.Spawn(s.Column, s.Value, s.Kind)
			case instruction.PlaceStack:
				_, err = h.f.Stack(s.Column, s.Value, s.Kind)
			case instruction.PlaceBottom:
				_, err = h.f.InsertBottom(s.Column, s.Value, s.Kind)
			}
			if err != nil {
				h.topped = true
			}
		}
	case *instruction.SetPushSpeed:
		h.f.SetPushSpeed(in.Speed)
	case *instruction.SetCrates:
		h.f.SetCrates(in.Targets)
	}
}

// tick runs one full game tick.
func (h *harness) tick() field.StepResult {
	h.ctx.Tick++
	h.ctx.NeedRow = false
	h.r.Update(h.ctx)
	h.drain()
	res := h.f.Step()
	if res.NeedRow {
		h.ctx.NeedRow = true
		h.r.Update(h.ctx)
		h.ctx.NeedRow = false
	}
	if res.ToppedOut {
		h.topped = true
	}
	return res
}

func (h *harness) settle() {
	for i := 0; i < 1000 && !h.f.Settled(); i++ {
		h.f.Step()
	}
}

func (h *harness) pick(ids ...field.BlockID) {
	for _, id := range ids {
		h.s.Push(&instruction.SelectBlock{ID: id})
	}
	h.drain()
}

// solve searches the playable blocks for a subset whose combined value
// equals the target and selects it.
func (h *harness) solve(combine func([]field.Value) field.Value) bool {
	h.t.Helper()
	var blocks []*field.Block
	for _, b := range h.f.Blocks() {
		if b.Playable() {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) > 20 {
		blocks = blocks[:20]
	}
	target := h.r.Target()
	for mask := 1; mask < 1<<len(blocks); mask++ {
		var ids []field.BlockID
		var vals []field.Value
		for i, b := range blocks {
			if mask&(1<<i) != 0 {
				ids = append(ids, b.ID)
				vals = append(vals, b.Value)
			}
		}
		if len(ids) < 2 || combine(vals) != target {
			continue
		}
		h.pick(ids...)
		return true
	}
	return false
}
