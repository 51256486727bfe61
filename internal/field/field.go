// Package field implements the Prime Time playfield: columns of numeric
// blocks that fall or rise, a selection that references blocks without
// owning them, and deterministic per-tick physics.
//
// The package is UI-agnostic and has no randomness; every change comes from
// an explicit call, so two fields fed the same calls end in the same state.
package field

import (
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
)

var (
	ErrUnknownBlock  = errors.New("field: unknown block")
	ErrNotSelectable = errors.New("field: block is not selectable")
	ErrColumnFull    = errors.New("field: column is full")
	ErrBadColumn     = errors.New("field: column out of range")
	ErrNotRising     = errors.New("field: layout does not rise")
)

// Column is the ordered stack of blocks in one column, bottom first.
type Column struct {
	blocks []*Block
}

// Len returns the number of blocks in the column, incoming ones included.
func (c *Column) Len() int {
	return len(c.blocks)
}

// At returns the i-th block from the bottom.
func (c *Column) At(i int) *Block {
	if i < 0 || i >= len(c.blocks) {
		return nil
	}
	return c.blocks[i]
}

func (c *Column) indexOf(b *Block) int {
	for i, x := range c.blocks {
		if x == b {
			return i
		}
	}
	return -1
}

func (c *Column) highest() *Block {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[len(c.blocks)-1]
}

// Field is the playfield state.
type Field struct {
	layout Layout
	spec   LayoutSpec
	rows   int

	cols      []Column
	byID      map[BlockID]*Block
	selection []BlockID
	nextID    BlockID

	fallSpeed  int
	pushSpeed  int
	pushOffset int
	crates     []int
	tick       uint64
}

// New creates an empty field.
func New(g Geometry) (*Field, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	f := &Field{
		layout:    g.Layout,
		spec:      g.Layout.Spec(),
		rows:      g.Rows,
		cols:      make([]Column, g.Columns),
		byID:      make(map[BlockID]*Block),
		nextID:    1,
		fallSpeed: g.FallSpeed,
	}
	if f.spec.Rising {
		f.pushSpeed = g.PushSpeed
	}
	return f, nil
}

// Layout returns the field layout.
func (f *Field) Layout() Layout { return f.layout }

// Spec returns the layout mechanics.
func (f *Field) Spec() LayoutSpec { return f.spec }

// Columns returns the column count.
func (f *Field) Columns() int { return len(f.cols) }

// Rows returns the visible row count.
func (f *Field) Rows() int { return f.rows }

// Column returns column c, or nil when out of range.
func (f *Field) Column(c int) *Column {
	if c < 0 || c >= len(f.cols) {
		return nil
	}
	return &f.cols[c]
}

// Block looks a block up by ID.
func (f *Field) Block(id BlockID) (*Block, bool) {
	b, ok := f.byID[id]
	return b, ok
}

// Len returns the number of blocks on the field.
func (f *Field) Len() int { return len(f.byID) }

// PushSpeed returns the current rise speed.
func (f *Field) PushSpeed() int { return f.pushSpeed }

// PushOffset returns how far the incoming row has risen, in milli-cells.
func (f *Field) PushOffset() int { return f.pushOffset }

// Crates returns the per-column crate targets (nil when unset).
func (f *Field) Crates() []int { return f.crates }

// Tick returns the number of physics steps taken.
func (f *Field) Tick() uint64 { return f.tick }

// floorY is where an unsupported block comes to rest. Rising fields carry
// their floor up with the push offset.
func (f *Field) floorY() int {
	if f.spec.Rising {
		return f.pushOffset
	}
	return 0
}

func (f *Field) spawnY() int {
	return (f.rows - 1) * CellH
}

func (f *Field) newBlock(column int, v Value, k Kind) *Block {
	b := &Block{
		ID:     f.nextID,
		Value:  v,
		Kind:   k,
		Column: column,
	}
	f.nextID++
	f.byID[b.ID] = b
	return b
}

// CanSpawn reports whether a new block fits at the top of column c.
func (f *Field) CanSpawn(c int) bool {
	col := f.Column(c)
	if col == nil {
		return false
	}
	top := col.highest()
	return top == nil || top.Top() <= f.spawnY()
}

// Spawn drops a new falling block in from the top of column c.
func (f *Field) Spawn(c int, v Value, k Kind) (*Block, error) {
	col := f.Column(c)
	if col == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadColumn, c)
	}
	if !f.CanSpawn(c) {
		return nil, fmt.Errorf("%w: %d", ErrColumnFull, c)
	}
	b := f.newBlock(c, v, k)
	b.Y = f.spawnY()
	b.Falling = true
	col.blocks = append(col.blocks, b)
	return b, nil
}

// Stack places a resting block directly on top of column c.
func (f *Field) Stack(c int, v Value, k Kind) (*Block, error) {
	col := f.Column(c)
	if col == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadColumn, c)
	}
	y := 0
	if f.spec.Rising {
		y = f.pushOffset
	}
	highest := col.highest()
	if highest != nil && !highest.Incoming {
		y = highest.Top()
	}
	if y+CellH > f.rows*CellH {
		return nil, fmt.Errorf("%w: %d", ErrColumnFull, c)
	}
	b := f.newBlock(c, v, k)
	b.Y = y
	b.Falling = highest != nil && highest.Falling
	col.blocks = append(col.blocks, b)
	return b, nil
}

// InsertBottom adds an incoming block under column c. Rising layouts only.
func (f *Field) InsertBottom(c int, v Value, k Kind) (*Block, error) {
	if !f.spec.Rising {
		return nil, ErrNotRising
	}
	col := f.Column(c)
	if col == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadColumn, c)
	}
	y := f.pushOffset
	if len(col.blocks) > 0 && col.blocks[0].Y < y {
		y = col.blocks[0].Y
	}
	b := f.newBlock(c, v, k)
	b.Y = y - CellH
	b.Incoming = true
	col.blocks = slices.Insert(col.blocks, 0, b)
	return b, nil
}

// Select toggles a block in or out of the selection.
// It returns whether the block is selected afterwards.
func (f *Field) Select(id BlockID) (bool, error) {
	b, ok := f.byID[id]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownBlock, id)
	}
	if !b.Playable() {
		return false, fmt.Errorf("%w: %d", ErrNotSelectable, id)
	}
	if b.Selected {
		f.deselect(b)
		return false, nil
	}
	b.Selected = true
	f.selection = append(f.selection, id)
	return true, nil
}

func (f *Field) deselect(b *Block) {
	if !b.Selected {
		return
	}
	b.Selected = false
	if i := slices.Index(f.selection, b.ID); i >= 0 {
		f.selection = slices.Delete(f.selection, i, i+1)
	}
}

// ClearSelection deselects every block.
func (f *Field) ClearSelection() {
	for _, id := range f.selection {
		if b, ok := f.byID[id]; ok {
			b.Selected = false
		}
	}
	f.selection = f.selection[:0]
}

// Selection returns the selected blocks in selection order.
func (f *Field) Selection() []*Block {
	out := make([]*Block, 0, len(f.selection))
	for _, id := range f.selection {
		if b, ok := f.byID[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// SelectionIDs returns a copy of the selected IDs.
func (f *Field) SelectionIDs() []BlockID {
	return slices.Clone(f.selection)
}

// RemoveResult reports what a removal did.
type RemoveResult struct {
	Removed []Block   // copies of the removed blocks, in request order
	Marked  []BlockID // product blocks newly marked as combo blocks
}

// Remove deletes blocks from the field. Blocks resting on a removed block,
// and everything stacked on them, start falling. Unknown IDs are skipped.
func (f *Field) Remove(ids []BlockID) RemoveResult {
	var res RemoveResult
	gone := make(map[BlockID]bool, len(ids))
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			gone[id] = true
		}
	}
	if len(gone) == 0 {
		return res
	}

	if f.spec.Combos {
		res.Marked = f.markCombos(gone)
	}

	touched := make(map[int]bool)
	for _, id := range ids {
		b, ok := f.byID[id]
		if !ok {
			continue
		}
		f.deselect(b)
		col := &f.cols[b.Column]
		if i := col.indexOf(b); i >= 0 {
			col.blocks = slices.Delete(col.blocks, i, i+1)
		}
		delete(f.byID, id)
		touched[b.Column] = true
		res.Removed = append(res.Removed, *b)
	}

	for c := range f.cols {
		if touched[c] {
			f.settleColumn(c)
		}
	}
	return res
}

// settleColumn starts every unsupported resting block in column c falling.
func (f *Field) settleColumn(c int) {
	col := &f.cols[c]
	for i, b := range col.blocks {
		if b.Falling || f.supported(col, i) {
			continue
		}
		f.setFalling(col, i)
	}
}

func (f *Field) supported(col *Column, i int) bool {
	b := col.blocks[i]
	if i == 0 {
		return b.Y == f.floorY() || (f.spec.Rising && b.Incoming)
	}
	below := col.blocks[i-1]
	return !below.Falling && b.Y == below.Top()
}

// setFalling marks block i falling and passes the state on to the block
// resting on it, recursively up the stack.
func (f *Field) setFalling(col *Column, i int) {
	b := col.blocks[i]
	b.Falling = true
	f.deselect(b)
	if i+1 >= len(col.blocks) {
		return
	}
	above := col.blocks[i+1]
	if !above.Falling && above.Y == b.Top() {
		f.setFalling(col, i+1)
	}
}

// markCombos flags product blocks adjacent to removed product blocks.
func (f *Field) markCombos(gone map[BlockID]bool) []BlockID {
	var marked []BlockID
	mark := func(b *Block) {
		if b == nil || gone[b.ID] || b.Kind != KindProduct || b.Combo || b.Incoming {
			return
		}
		b.Combo = true
		marked = append(marked, b.ID)
	}

	for c := range f.cols {
		col := &f.cols[c]
		for i, b := range col.blocks {
			if !gone[b.ID] || b.Kind != KindProduct {
				continue
			}
			mark(col.At(i - 1))
			mark(col.At(i + 1))
			row := b.Row()
			for _, nc := range []int{c - 1, c + 1} {
				mark(f.blockAtRow(nc, row))
			}
		}
	}
	return marked
}

func (f *Field) blockAtRow(c, row int) *Block {
	col := f.Column(c)
	if col == nil {
		return nil
	}
	for _, b := range col.blocks {
		if !b.Incoming && b.Row() == row {
			return b
		}
	}
	return nil
}

// BlockAt returns the playable-area block drawn at (column, row), if any.
func (f *Field) BlockAt(c, row int) (*Block, bool) {
	b := f.blockAtRow(c, row)
	return b, b != nil
}

// SetPushSpeed changes the rise speed. Ignored by falling layouts.
func (f *Field) SetPushSpeed(speed int) {
	if !f.spec.Rising {
		return
	}
	f.pushSpeed = max(0, min(speed, CellH))
}

// SetCrates sets the per-column crate targets.
func (f *Field) SetCrates(targets []int) {
	f.crates = slices.Clone(targets)
}

// Heights returns the number of playable-area blocks per column.
func (f *Field) Heights() []int {
	h := make([]int, len(f.cols))
	for c := range f.cols {
		for _, b := range f.cols[c].blocks {
			if !b.Incoming {
				h[c]++
			}
		}
	}
	return h
}

// Settled reports whether no block is falling.
func (f *Field) Settled() bool {
	for _, b := range f.byID {
		if b.Falling {
			return false
		}
	}
	return true
}

// CratesMatched reports whether every column height equals its crate target.
func (f *Field) CratesMatched() bool {
	if !f.spec.Crates || len(f.crates) != len(f.cols) || !f.Settled() {
		return false
	}
	for c, h := range f.Heights() {
		if h != f.crates[c] {
			return false
		}
	}
	return true
}

// Blocks returns every block in column order, bottom first.
func (f *Field) Blocks() []*Block {
	out := make([]*Block, 0, len(f.byID))
	for c := range f.cols {
		out = append(out, f.cols[c].blocks...)
	}
	return out
}

// Snapshot returns a hash of the complete field state.
func (f *Field) Snapshot() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "L:%d;T:%d;P:%d/%d;N:%d;", f.layout, f.tick, f.pushSpeed, f.pushOffset, f.nextID)
	for c := range f.cols {
		fmt.Fprintf(h, "C%d:", c)
		for _, b := range f.cols[c].blocks {
			fmt.Fprintf(h, "%d:%d/%d:%d:%d:%t%t%t%t,",
				b.ID, b.Value.Num, b.Value.Den, b.Kind, b.Y, b.Falling, b.Incoming, b.Combo, b.Selected)
		}
	}
	fmt.Fprintf(h, ";S:%v;K:%v", f.selection, f.crates)
	return h.Sum64()
}
