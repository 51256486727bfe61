package logic

import (
	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

// Product drops primes into a falling field. The player multiplies resting
// primes to reach the target.
type Product struct {
	base
}

// NewProduct returns the product engine.
func NewProduct(cfg config.ModeConfig) *Product {
	return &Product{base: newBase(config.ModeProduct, cfg)}
}

func (r *Product) Setup(ctx *Context) {
	initial := rows(ctx.Field, r.cfg.Field.InitialRows, func() (field.Value, field.Kind) {
		return r.randomPrime(ctx.Rand), field.KindPrime
	})
	if len(initial) > 0 {
		ctx.push(&instruction.AddSummands{Placement: instruction.PlaceStack, Summands: initial})
	}
	targetFrom(ctx, initial, r.cfg.Numbers.MaxTerms, product)
}

func (r *Product) Update(ctx *Context) {
	if r.target.Num == 0 {
		r.retarget(ctx, product, false)
	}
	if !r.spawnDue(ctx) {
		return
	}
	cols, ok := spawnColumns(ctx, 1)
	if !ok {
		return
	}
	ctx.push(&instruction.AddSummands{
		Placement: instruction.PlaceTop,
		Summands:  []instruction.Summand{{Column: cols[0], Value: r.randomPrime(ctx.Rand), Kind: field.KindPrime}},
	})
	r.scheduleSpawn(ctx)
}

func (r *Product) Validate(ctx *Context) {
	checkProduct(ctx, r.target)
}

func (r *Product) Removed(ctx *Context, res field.RemoveResult) {
	r.award(len(res.Removed), ctx.Tick, 1)
	if ctx.Live() {
		r.retarget(ctx, product, true)
	}
}

func (r *Product) Hint() string {
	return "Select primes whose product is the target"
}

// Ceiling pushes rows of primes up from below. The game is won when every
// column is exactly as tall as its crate.
type Ceiling struct {
	base
}

// NewCeiling returns the ceiling engine.
func NewCeiling(cfg config.ModeConfig) *Ceiling {
	return &Ceiling{base: newBase(config.ModeCeiling, cfg)}
}

func (r *Ceiling) Setup(ctx *Context) {
	f := ctx.Field
	crates := make([]int, f.Columns())
	allInitial := true
	for c := range crates {
		crates[c] = r.cfg.Field.CrateMin + ctx.Rand.Intn(r.cfg.Field.CrateMax-r.cfg.Field.CrateMin+1)
		allInitial = allInitial && crates[c] == r.cfg.Field.InitialRows
	}
	if allInitial && len(crates) > 0 {
		// never start on a won field
		if crates[0] > 0 {
			crates[0]--
		} else {
			crates[0]++
		}
	}
	ctx.push(&instruction.SetCrates{Targets: crates})

	initial := rows(f, r.cfg.Field.InitialRows, func() (field.Value, field.Kind) {
		return r.randomPrime(ctx.Rand), field.KindPrime
	})
	if len(initial) > 0 {
		ctx.push(&instruction.AddSummands{Placement: instruction.PlaceStack, Summands: initial})
	}
	r.pushRow(ctx)
	targetFrom(ctx, initial, r.cfg.Numbers.MaxTerms, product)
}

func (r *Ceiling) pushRow(ctx *Context) {
	row := rows(ctx.Field, 1, func() (field.Value, field.Kind) {
		return r.randomPrime(ctx.Rand), field.KindPrime
	})
	ctx.push(&instruction.AddSummands{Placement: instruction.PlaceBottom, Summands: row})
}

func (r *Ceiling) Update(ctx *Context) {
	if ctx.NeedRow {
		r.pushRow(ctx)
		return
	}
	if r.target.Num == 0 {
		r.retarget(ctx, product, false)
	}
	r.adjustPushSpeed(ctx)
}

func (r *Ceiling) Validate(ctx *Context) {
	checkProduct(ctx, r.target)
}

func (r *Ceiling) Removed(ctx *Context, res field.RemoveResult) {
	r.award(len(res.Removed), ctx.Tick, 1)
	if ctx.Live() {
		r.retarget(ctx, product, true)
	}
}

func (r *Ceiling) Hint() string {
	return "Clear products until each column fits its crate"
}

// targetFrom pushes an opening target drawn from blocks that are about to
// be stacked.
func targetFrom(ctx *Context, initial []instruction.Summand, maxTerms int, combine func([]field.Value) field.Value) {
	vals := make([]field.Value, len(initial))
	for i, s := range initial {
		vals[i] = s.Value
	}
	if terms := pickTerms(ctx.Rand, vals, maxTerms); terms != nil {
		ctx.push(&instruction.SetSum{Target: combine(terms)})
	}
}
