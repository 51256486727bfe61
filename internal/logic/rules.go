// Package logic holds the per-mode rule engines. An engine never touches the
// field directly: it reads field state and pushes instructions. Validation
// and scoring run in replays too, while block generation only runs live.
package logic

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/primetime/internal/config"
	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

// Context is what an engine sees on each call.
type Context struct {
	Field  *field.Field
	Stream instruction.Stream
	Tick   uint64
	Rand   *rand.Rand // nil when replaying
	// NeedRow is set when a rising field has room for a new bottom row.
	NeedRow bool
}

// Live reports whether the engine may generate new instructions.
func (c *Context) Live() bool {
	return c.Stream != nil && c.Stream.Live() && c.Rand != nil
}

func (c *Context) push(in instruction.Instruction) {
	c.Stream.Push(in)
}

// Rules is a mode's rule engine.
type Rules interface {
	Mode() string
	// Setup pushes the opening instructions. Live only.
	Setup(ctx *Context)
	// Update generates blocks, rows and speed changes. Live only.
	Update(ctx *Context)
	// Validate checks the selection after it changed.
	Validate(ctx *Context)
	// Removed scores a cleared equation.
	Removed(ctx *Context, res field.RemoveResult)
	SetTarget(v field.Value)
	Target() field.Value
	Score() int
	Level() int
	Chain() int
	Hint() string
	// Complete reports a finished scripted game.
	Complete() bool
}

// New builds the engine for a mode.
func New(mode string, cfg config.ModeConfig) (Rules, error) {
	switch mode {
	case config.ModeProduct:
		return NewProduct(cfg), nil
	case config.ModeAdd:
		return NewAdd(cfg), nil
	case config.ModeFractions:
		return NewFractions(cfg), nil
	case config.ModePrimeTime:
		return NewNormal(cfg), nil
	case config.ModeCeiling:
		return NewCeiling(cfg), nil
	case config.ModeTutorial, config.ModeTutorialAdd:
		script, err := config.LoadTutorial(mode)
		if err != nil {
			return nil, err
		}
		return NewTutorial(mode, cfg, script), nil
	default:
		return nil, fmt.Errorf("logic: unknown mode %q", mode)
	}
}

// base carries the state every engine shares.
type base struct {
	mode      string
	cfg       config.ModeConfig
	diff      *config.DifficultyManager
	target    field.Value
	score     int
	level     int
	chain     int
	nextSpawn uint64
}

func newBase(mode string, cfg config.ModeConfig) base {
	diff := config.NewDifficultyManager(cfg.Difficulty)
	return base{
		mode:      mode,
		cfg:       cfg,
		diff:      diff,
		level:     diff.LevelNumber(0, 0),
		nextSpawn: uint64(cfg.Spawn.Interval),
	}
}

func (b *base) Mode() string            { return b.mode }
func (b *base) SetTarget(v field.Value) { b.target = v }
func (b *base) Target() field.Value     { return b.target }
func (b *base) Score() int              { return b.score }
func (b *base) Level() int              { return b.level }
func (b *base) Chain() int              { return b.chain }
func (b *base) Complete() bool          { return false }

// award adds points for n cleared blocks and returns them.
func (b *base) award(n int, tick uint64, mult int) int {
	b.level = b.diff.LevelNumber(b.score, tick)
	pts := (b.cfg.Scoring.BlockPoints*n + b.cfg.Scoring.SizeBonus*max(0, n-2)) * b.level * mult
	b.score += pts
	b.level = b.diff.LevelNumber(b.score, tick)
	return pts
}

// spawnDue reports whether the spawn timer has run out.
func (b *base) spawnDue(ctx *Context) bool {
	return ctx.Tick >= b.nextSpawn
}

func (b *base) scheduleSpawn(ctx *Context) {
	interval := b.diff.Interval(b.cfg.Spawn.Interval, b.cfg.Spawn.MinInterval, b.score, ctx.Tick)
	b.nextSpawn = ctx.Tick + uint64(interval)
}

// adjustPushSpeed follows the difficulty curve on rising fields.
func (b *base) adjustPushSpeed(ctx *Context) {
	want := min(b.diff.PushSpeed(b.cfg.Field.PushSpeed, b.score, ctx.Tick), field.CellH)
	if want != ctx.Field.PushSpeed() {
		ctx.push(&instruction.SetPushSpeed{Speed: want})
	}
}

// retarget pushes a new target built from resting blocks. With fewer than
// two candidates the target is reset to zero when reset is set.
func (b *base) retarget(ctx *Context, combine func([]field.Value) field.Value, reset bool) {
	terms := pickTerms(ctx.Rand, playableValues(ctx.Field), b.cfg.Numbers.MaxTerms)
	switch {
	case terms != nil:
		ctx.push(&instruction.SetSum{Target: combine(terms)})
	case reset && b.target.Num != 0:
		ctx.push(&instruction.SetSum{Target: field.Int(0)})
	}
}

func (b *base) randomPrime(rng *rand.Rand) field.Value {
	p := b.cfg.Numbers.Primes
	return field.Int(p[rng.Intn(len(p))])
}

func (b *base) randomDigit(rng *rand.Rand) field.Value {
	d := b.cfg.Numbers.Digits
	return field.Int(d[rng.Intn(len(d))])
}

// rows builds n full rows of summands, bottom row first.
func rows(f *field.Field, n int, gen func() (field.Value, field.Kind)) []instruction.Summand {
	out := make([]instruction.Summand, 0, n*f.Columns())
	for r := 0; r < n; r++ {
		for c := 0; c < f.Columns(); c++ {
			v, k := gen()
			out = append(out, instruction.Summand{Column: c, Value: v, Kind: k})
		}
	}
	return out
}

// scatter deals summands over the columns in a shuffled order so groups
// that belong together do not line up.
func scatter(rng *rand.Rand, columns int, items []instruction.Summand) []instruction.Summand {
	rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	for i := range items {
		items[i].Column = i % columns
	}
	return items
}

// spawnColumns picks n distinct columns for blocks dropping in from the
// top. Open columns come first. When open columns run out, columns blocked by
// resting blocks are used, which tops the game out. It reports false when
// the spawn should wait for falling blocks to clear the entry cell.
func spawnColumns(ctx *Context, n int) ([]int, bool) {
	f := ctx.Field
	var open, blocked []int
	for c := 0; c < f.Columns(); c++ {
		col := f.Column(c)
		switch {
		case f.CanSpawn(c):
			open = append(open, c)
		case !col.At(col.Len() - 1).Falling:
			blocked = append(blocked, c)
		}
	}
	ctx.Rand.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	if len(open) >= n {
		return open[:n], true
	}
	if len(blocked) == 0 {
		return nil, false
	}
	cols := append(open, blocked...)
	return cols[:min(n, len(cols))], true
}

func playableValues(f *field.Field) []field.Value {
	var out []field.Value
	for _, blk := range f.Blocks() {
		if blk.Playable() {
			out = append(out, blk.Value)
		}
	}
	return out
}

// pickTerms chooses between two and maxTerms distinct entries of values.
func pickTerms(rng *rand.Rand, values []field.Value, maxTerms int) []field.Value {
	if len(values) < 2 {
		return nil
	}
	hi := min(maxTerms, len(values))
	k := 2
	if hi > 2 {
		k += rng.Intn(hi - 1)
	}
	out := make([]field.Value, 0, k)
	for _, i := range rng.Perm(len(values))[:k] {
		out = append(out, values[i])
	}
	return out
}

func product(vals []field.Value) field.Value {
	p := 1
	for _, v := range vals {
		p *= v.Num
	}
	return field.Int(p)
}

func sum(vals []field.Value) field.Value {
	s := 0
	for _, v := range vals {
		s += v.Num
	}
	return field.Int(s)
}
