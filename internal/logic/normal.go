package logic

import (
	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

// Normal is the prime-time engine. Products drop in together with their
// prime factors. Clearing a product marks neighbouring products as combo
// blocks, and clearing a combo block extends the chain multiplier.
type Normal struct {
	base
}

// NewNormal returns the prime-time engine.
func NewNormal(cfg config.ModeConfig) *Normal {
	return &Normal{base: newBase(config.ModePrimeTime, cfg)}
}

// group returns a product block followed by its prime factors.
func (r *Normal) group(ctx *Context) []instruction.Summand {
	k := 2 + ctx.Rand.Intn(r.cfg.Numbers.MaxTerms-1)
	factors := make([]instruction.Summand, 0, k+1)
	p := 1
	for range k {
		v := r.randomPrime(ctx.Rand)
		p *= v.Num
		factors = append(factors, instruction.Summand{Value: v, Kind: field.KindPrime})
	}
	return append([]instruction.Summand{{Value: field.Int(p), Kind: field.KindProduct}}, factors...)
}

func (r *Normal) Setup(ctx *Context) {
	var items []instruction.Summand
	for range r.cfg.Field.InitialRows {
		items = append(items, r.group(ctx)...)
	}
	if len(items) > 0 {
		ctx.push(&instruction.AddSummands{
			Placement: instruction.PlaceStack,
			Summands:  scatter(ctx.Rand, ctx.Field.Columns(), items),
		})
	}
}

func (r *Normal) Update(ctx *Context) {
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

func (r *Normal) Validate(ctx *Context) {
	checkFactoring(ctx, r.cfg.Numbers.MaxTerms)
}

func (r *Normal) Removed(ctx *Context, res field.RemoveResult) {
	combo := false
	for _, b := range res.Removed {
		combo = combo || b.Combo
	}
	if combo {
		r.chain++
	} else {
		r.chain = 0
	}
	r.award(len(res.Removed), ctx.Tick, r.chain+1)
}

func (r *Normal) Hint() string {
	if r.chain > 0 {
		return "Chain! Clear a marked product to keep it going"
	}
	return "Select a product and the primes that make it"
}
