package logic

import (
	"fmt"

	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

// Fractions drops groups of equivalent fractions. Selecting match_size
// equivalent fractions clears them.
type Fractions struct {
	base
}

// NewFractions returns the fractions engine.
func NewFractions(cfg config.ModeConfig) *Fractions {
	return &Fractions{base: newBase(config.ModeFractions, cfg)}
}

// group returns match_size distinct spellings of one random fraction, so
// every spawn brings its own solution.
func (r *Fractions) group(ctx *Context) []instruction.Summand {
	dens := r.cfg.Numbers.FractionDenominators
	d := dens[ctx.Rand.Intn(len(dens))]
	reduced := field.Frac(1+ctx.Rand.Intn(d-1), d).Reduced()

	n := r.cfg.Numbers.MatchSize
	out := make([]instruction.Summand, 0, n)
	for _, m := range ctx.Rand.Perm(r.cfg.Numbers.MaxMultiplier)[:n] {
		k := m + 1
		out = append(out, instruction.Summand{
			Value: field.Frac(reduced.Num*k, reduced.Den*k),
			Kind:  field.KindFraction,
		})
	}
	return out
}

func (r *Fractions) Setup(ctx *Context) {
	total := r.cfg.Field.InitialRows * ctx.Field.Columns()
	var items []instruction.Summand
	for len(items) < total {
		items = append(items, r.group(ctx)...)
	}
	if len(items) > 0 {
		ctx.push(&instruction.AddSummands{
			Placement: instruction.PlaceStack,
			Summands:  scatter(ctx.Rand, ctx.Field.Columns(), items),
		})
	}
}

func (r *Fractions) Update(ctx *Context) {
	if !r.spawnDue(ctx) {
		return
	}
	group := r.group(ctx)
	cols, ok := spawnColumns(ctx, len(group))
	if !ok {
		return
	}
	for i := range cols {
		group[i].Column = cols[i]
	}
	ctx.push(&instruction.AddSummands{Placement: instruction.PlaceTop, Summands: group[:len(cols)]})
	r.scheduleSpawn(ctx)
}

func (r *Fractions) Validate(ctx *Context) {
	checkEquivalent(ctx, r.cfg.Numbers.MatchSize)
}

func (r *Fractions) Removed(ctx *Context, res field.RemoveResult) {
	r.award(len(res.Removed), ctx.Tick, 1)
}

func (r *Fractions) Hint() string {
	return fmt.Sprintf("Select %d equivalent fractions", r.cfg.Numbers.MatchSize)
}
