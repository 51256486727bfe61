package logic

import (
	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

// Add pushes rows of digits up from below. The player adds resting digits to
// reach the target.
type Add struct {
	base
}

// NewAdd returns the addition engine.
func NewAdd(cfg config.ModeConfig) *Add {
	return &Add{base: newBase(config.ModeAdd, cfg)}
}

func (r *Add) Setup(ctx *Context) {
	initial := rows(ctx.Field, r.cfg.Field.InitialRows, func() (field.Value, field.Kind) {
		return r.randomDigit(ctx.Rand), field.KindNumber
	})
	if len(initial) > 0 {
		ctx.push(&instruction.AddSummands{Placement: instruction.PlaceStack, Summands: initial})
	}
	r.pushRow(ctx)
	targetFrom(ctx, initial, r.cfg.Numbers.MaxTerms, sum)
}

func (r *Add) pushRow(ctx *Context) {
	row := rows(ctx.Field, 1, func() (field.Value, field.Kind) {
		return r.randomDigit(ctx.Rand), field.KindNumber
	})
	ctx.push(&instruction.AddSummands{Placement: instruction.PlaceBottom, Summands: row})
}

func (r *Add) Update(ctx *Context) {
	if ctx.NeedRow {
		r.pushRow(ctx)
		return
	}
	if r.target.Num == 0 {
		r.retarget(ctx, sum, false)
	}
	r.adjustPushSpeed(ctx)
}

func (r *Add) Validate(ctx *Context) {
	checkSum(ctx, r.target)
}

func (r *Add) Removed(ctx *Context, res field.RemoveResult) {
	r.award(len(res.Removed), ctx.Tick, 1)
	if ctx.Live() {
		r.retarget(ctx, sum, true)
	}
}

func (r *Add) Hint() string {
	return "Select digits that add up to the target"
}
