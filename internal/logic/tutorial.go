package logic

import (
	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

// Tutorial walks through a fixed script. It uses no randomness: each step
// stacks its blocks and sets its target once the previous step is solved.
type Tutorial struct {
	base
	script config.Tutorial
	step   int
}

// NewTutorial returns a scripted engine.
func NewTutorial(mode string, cfg config.ModeConfig, script config.Tutorial) *Tutorial {
	return &Tutorial{base: newBase(mode, cfg), script: script}
}

// Step returns the index of the current step.
func (r *Tutorial) Step() int { return r.step }

func (r *Tutorial) pushStep(ctx *Context) {
	s := r.script.Steps[r.step]
	items := make([]instruction.Summand, len(s.Blocks))
	for i, b := range s.Blocks {
		items[i] = instruction.Summand{Column: b.Column, Value: b.Value, Kind: b.Kind}
	}
	ctx.push(&instruction.AddSummands{Placement: instruction.PlaceStack, Summands: items})
	ctx.push(&instruction.SetSum{Target: s.Target})
}

func (r *Tutorial) Setup(ctx *Context) {
	r.pushStep(ctx)
}

func (r *Tutorial) Update(*Context) {}

func (r *Tutorial) Validate(ctx *Context) {
	if r.Complete() {
		return
	}
	if r.script.Rules == "add" {
		checkSum(ctx, r.target)
	} else {
		checkProduct(ctx, r.target)
	}
}

func (r *Tutorial) Removed(ctx *Context, res field.RemoveResult) {
	r.award(len(res.Removed), ctx.Tick, 1)
	r.step++
	if !r.Complete() && ctx.Stream != nil && ctx.Stream.Live() {
		r.pushStep(ctx)
	}
}

func (r *Tutorial) Complete() bool {
	return r.step >= len(r.script.Steps)
}

func (r *Tutorial) Hint() string {
	if r.Complete() {
		return "Tutorial complete!"
	}
	return r.script.Steps[r.step].Hint
}
