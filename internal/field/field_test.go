package field_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/primetime/internal/field"
)

func newField(t *testing.T, layout field.Layout, cols, rows int) *field.Field {
	t.Helper()
	f, err := field.New(field.Geometry{
		Layout:    layout,
		Columns:   cols,
		Rows:      rows,
		FallSpeed: 250,
		PushSpeed: 100,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return f
}

func stack(t *testing.T, f *field.Field, c int, values ...int) []*field.Block {
	t.Helper()
	out := make([]*field.Block, 0, len(values))
	for _, v := range values {
		b, err := f.Stack(c, field.Int(v), field.KindPrime)
		if err != nil {
			t.Fatalf("Stack(%d, %d) failed: %v", c, v, err)
		}
		out = append(out, b)
	}
	return out
}

func settle(f *field.Field, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		if f.Settled() {
			return i
		}
		f.Step()
	}
	return maxTicks
}

// checkInvariants verifies column membership, ordering and selection rules.
func checkInvariants(t *testing.T, f *field.Field) {
	t.Helper()
	seen := make(map[field.BlockID]bool)
	for c := 0; c < f.Columns(); c++ {
		col := f.Column(c)
		for i := 0; i < col.Len(); i++ {
			b := col.At(i)
			if seen[b.ID] {
				t.Fatalf("block %d appears in more than one column slot", b.ID)
			}
			seen[b.ID] = true
			if b.Column != c {
				t.Fatalf("block %d records column %d but lives in %d", b.ID, b.Column, c)
			}
			if got, ok := f.Block(b.ID); !ok || got != b {
				t.Fatalf("block %d missing from ID index", b.ID)
			}
			if i > 0 && col.At(i-1).Top() > b.Y {
				t.Fatalf("column %d: block %d overlaps block below", c, b.ID)
			}
		}
	}
	if len(seen) != f.Len() {
		t.Fatalf("index holds %d blocks, columns hold %d", f.Len(), len(seen))
	}
	for _, b := range f.Selection() {
		if !b.Playable() || !b.Selected {
			t.Fatalf("selection holds unplayable block %d", b.ID)
		}
	}
}

func TestValueEquivalent(t *testing.T) {
	tests := []struct {
		a, b field.Value
		want bool
	}{
		{field.Frac(1, 2), field.Frac(2, 4), true},
		{field.Frac(2, 3), field.Frac(4, 6), true},
		{field.Frac(1, 2), field.Frac(2, 3), false},
		{field.Int(3), field.Frac(6, 2), true},
		{field.Frac(3, -4), field.Frac(-3, 4), true},
	}
	for _, tc := range tests {
		if got := tc.a.Equivalent(tc.b); got != tc.want {
			t.Errorf("%v ~ %v = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}

	if r := field.Frac(6, 8).Reduced(); r != field.Frac(3, 4) {
		t.Errorf("Reduced(6/8) = %v, want 3/4", r)
	}
	if s := field.Frac(3, 4).String(); s != "3/4" {
		t.Errorf("String() = %q", s)
	}
	if s := field.Int(7).String(); s != "7" {
		t.Errorf("String() = %q", s)
	}
}

func TestGeometryValidate(t *testing.T) {
	bad := []field.Geometry{
		{Columns: 0, Rows: 10, FallSpeed: 100},
		{Columns: 4, Rows: 1, FallSpeed: 100},
		{Columns: field.MaxColumns + 1, Rows: 10, FallSpeed: 100},
		{Columns: 4, Rows: field.MaxRows + 1, FallSpeed: 100},
		{Columns: 2000000000, Rows: 10, FallSpeed: 100},
		{Columns: 4, Rows: 10, FallSpeed: 0},
		{Columns: 4, Rows: 10, FallSpeed: 100, PushSpeed: -1},
	}
	for _, g := range bad {
		if _, err := field.New(g); err == nil {
			t.Errorf("New(%+v) should fail", g)
		}
	}
}

func TestSpawnFallsAndLands(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 3, 6)

	b, err := f.Spawn(1, field.Int(5), field.KindPrime)
	if err != nil {
		t.Fatalf("Spawn failed: %v", err)
	}
	if !b.Falling {
		t.Fatal("spawned block should be falling")
	}

	var landed []field.BlockID
	for i := 0; i < 100 && b.Falling; i++ {
		res := f.Step()
		landed = append(landed, res.Landed...)
	}
	if b.Falling || b.Y != 0 {
		t.Fatalf("block should rest on the floor, falling=%v y=%d", b.Falling, b.Y)
	}
	if len(landed) != 1 || landed[0] != b.ID {
		t.Errorf("expected one landing event for %d, got %v", b.ID, landed)
	}

	c, _ := f.Spawn(1, field.Int(3), field.KindPrime)
	settle(f, 100)
	if c.Y != field.CellH {
		t.Errorf("second block should rest on the first, y=%d", c.Y)
	}
	checkInvariants(t, f)
}

func TestSpawnFullColumn(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 2, 3)
	stack(t, f, 0, 2, 3, 5)

	if f.CanSpawn(0) {
		t.Error("full column should not accept spawns")
	}
	if _, err := f.Spawn(0, field.Int(7), field.KindPrime); !errors.Is(err, field.ErrColumnFull) {
		t.Errorf("expected ErrColumnFull, got %v", err)
	}
	if _, err := f.Stack(0, field.Int(7), field.KindPrime); !errors.Is(err, field.ErrColumnFull) {
		t.Errorf("Stack on full column: expected ErrColumnFull, got %v", err)
	}
	if _, err := f.Spawn(5, field.Int(7), field.KindPrime); !errors.Is(err, field.ErrBadColumn) {
		t.Errorf("expected ErrBadColumn, got %v", err)
	}
}

func TestSelectToggleAndRules(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 2, 6)
	blocks := stack(t, f, 0, 2, 3)

	on, err := f.Select(blocks[0].ID)
	if err != nil || !on {
		t.Fatalf("Select should select, on=%v err=%v", on, err)
	}
	if _, err := f.Select(blocks[1].ID); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if ids := f.SelectionIDs(); len(ids) != 2 || ids[0] != blocks[0].ID {
		t.Fatalf("selection order wrong: %v", ids)
	}

	on, _ = f.Select(blocks[0].ID)
	if on || blocks[0].Selected {
		t.Error("second Select should deselect")
	}

	falling, _ := f.Spawn(1, field.Int(7), field.KindPrime)
	if _, err := f.Select(falling.ID); !errors.Is(err, field.ErrNotSelectable) {
		t.Errorf("falling block: expected ErrNotSelectable, got %v", err)
	}
	if _, err := f.Select(999); !errors.Is(err, field.ErrUnknownBlock) {
		t.Errorf("expected ErrUnknownBlock, got %v", err)
	}

	f.ClearSelection()
	if len(f.Selection()) != 0 || blocks[1].Selected {
		t.Error("ClearSelection should deselect everything")
	}
	checkInvariants(t, f)
}

func TestRemovePropagatesFalling(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 1, 8)
	blocks := stack(t, f, 0, 2, 3, 5, 7, 11)

	// Select a block that will start falling; it must leave the selection.
	if _, err := f.Select(blocks[4].ID); err != nil {
		t.Fatal(err)
	}

	res := f.Remove([]field.BlockID{blocks[1].ID})
	if len(res.Removed) != 1 || res.Removed[0].Value != field.Int(3) {
		t.Fatalf("unexpected removal result: %+v", res.Removed)
	}

	if blocks[0].Falling {
		t.Error("block below the gap must stay put")
	}
	for _, b := range blocks[2:] {
		if !b.Falling {
			t.Errorf("block %v above the gap should fall", b.Value)
		}
	}
	if blocks[4].Selected || len(f.Selection()) != 0 {
		t.Error("falling blocks must leave the selection")
	}
	checkInvariants(t, f)

	settle(f, 200)
	for i, b := range []*field.Block{blocks[0], blocks[2], blocks[3], blocks[4]} {
		if b.Y != i*field.CellH {
			t.Errorf("after settling block %v at y=%d, want %d", b.Value, b.Y, i*field.CellH)
		}
	}
	checkInvariants(t, f)
}

func TestRemoveTwoGapsInOneColumn(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 1, 8)
	blocks := stack(t, f, 0, 2, 3, 5, 7, 11)

	f.Remove([]field.BlockID{blocks[1].ID, blocks[3].ID})
	if !blocks[2].Falling || !blocks[4].Falling {
		t.Error("blocks above both gaps should fall")
	}

	settle(f, 200)
	if h := f.Heights()[0]; h != 3 {
		t.Errorf("height = %d, want 3", h)
	}
	if blocks[4].Y != 2*field.CellH {
		t.Errorf("top block y=%d, want %d", blocks[4].Y, 2*field.CellH)
	}
	checkInvariants(t, f)
}

func TestRemoveUnselectsAndSkipsUnknown(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 2, 6)
	a := stack(t, f, 0, 2)[0]
	b := stack(t, f, 1, 3)[0]
	f.Select(a.ID)
	f.Select(b.ID)

	res := f.Remove([]field.BlockID{a.ID, 4242, a.ID})
	if len(res.Removed) != 1 {
		t.Fatalf("expected a single removal, got %d", len(res.Removed))
	}
	if ids := f.SelectionIDs(); len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("selection should only hold %d, got %v", b.ID, ids)
	}
	checkInvariants(t, f)
}

func TestFallingChainLandsInOrder(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 1, 10)
	first, _ := f.Spawn(0, field.Int(2), field.KindPrime)
	for i := 0; i < 4; i++ {
		f.Step()
	}
	second, _ := f.Spawn(0, field.Int(3), field.KindPrime)

	for i := 0; i < 200 && !f.Settled(); i++ {
		f.Step()
		checkInvariants(t, f)
		if !first.Falling && second.Y < first.Top() {
			t.Fatal("upper block passed through the lower one")
		}
	}
	if first.Y != 0 || second.Y != field.CellH {
		t.Errorf("final positions %d/%d", first.Y, second.Y)
	}
}

func TestBlockAt(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 2, 6)
	blocks := stack(t, f, 1, 2, 3)

	b, ok := f.BlockAt(1, 1)
	if !ok || b != blocks[1] {
		t.Errorf("BlockAt(1, 1) = %v, want block %d", b, blocks[1].ID)
	}
	if _, ok := f.BlockAt(0, 0); ok {
		t.Error("empty column should have no block")
	}
	if _, ok := f.BlockAt(9, 0); ok {
		t.Error("out of range column should have no block")
	}
}

func TestRisingFieldPushesRows(t *testing.T) {
	f := newField(t, field.LayoutAdd, 2, 6)
	stack(t, f, 0, 1, 2)
	stack(t, f, 1, 3)
	in0, _ := f.InsertBottom(0, field.Int(4), field.KindNumber)
	in1, _ := f.InsertBottom(1, field.Int(5), field.KindNumber)

	if !in0.Incoming || in0.Y != -field.CellH {
		t.Fatalf("incoming block should sit under the floor, y=%d", in0.Y)
	}
	if _, err := f.Select(in0.ID); !errors.Is(err, field.ErrNotSelectable) {
		t.Errorf("incoming block should not be selectable, err=%v", err)
	}

	needRow := 0
	var activated []field.BlockID
	for i := 0; i < 10; i++ { // 10 ticks * 100 = one full cell
		res := f.Step()
		if res.NeedRow {
			needRow++
		}
		activated = append(activated, res.Activated...)
	}
	if needRow != 1 {
		t.Fatalf("expected exactly one row request, got %d", needRow)
	}
	if len(activated) != 2 || in0.Incoming || in1.Incoming {
		t.Fatalf("incoming row should be activated, got %v", activated)
	}
	if in0.Y != 0 {
		t.Errorf("activated block y=%d, want 0", in0.Y)
	}
	if h := f.Heights(); h[0] != 3 || h[1] != 2 {
		t.Errorf("heights = %v, want [3 2]", h)
	}

	next, _ := f.InsertBottom(0, field.Int(6), field.KindNumber)
	if next.Top() != in0.Y {
		t.Errorf("new incoming block should sit directly under the row, top=%d", next.Top())
	}
	checkInvariants(t, f)
}

func TestRisingFieldTopsOut(t *testing.T) {
	f := newField(t, field.LayoutAdd, 1, 3)
	stack(t, f, 0, 1, 2, 3)
	f.InsertBottom(0, field.Int(4), field.KindNumber)

	topped := false
	for i := 0; i < 20 && !topped; i++ {
		topped = f.Step().ToppedOut
	}
	if !topped {
		t.Error("pushing a full column should top out")
	}
}

func TestRisingFieldRemovalFallsOntoRisingStack(t *testing.T) {
	f := newField(t, field.LayoutAdd, 1, 8)
	blocks := stack(t, f, 0, 1, 2, 3)
	f.InsertBottom(0, field.Int(9), field.KindNumber)

	f.Remove([]field.BlockID{blocks[0].ID})
	if !blocks[1].Falling || !blocks[2].Falling {
		t.Fatal("blocks above the removed block should fall")
	}
	for i := 0; i < 100 && !f.Settled(); i++ {
		f.Step()
		checkInvariants(t, f)
	}
	if !f.Settled() {
		t.Fatal("field should settle")
	}
	in := f.Column(0).At(0)
	if blocks[1].Y != in.Top() {
		t.Errorf("fallen block should rest on the incoming row: y=%d top=%d", blocks[1].Y, in.Top())
	}
}

func TestRisingFieldFloorFollowsPush(t *testing.T) {
	f := newField(t, field.LayoutAdd, 1, 8)
	blocks := stack(t, f, 0, 1, 2)
	f.Remove([]field.BlockID{blocks[0].ID})
	if !blocks[1].Falling {
		t.Fatal("unsupported block should fall")
	}
	settle(f, 100)
	if blocks[1].Falling || blocks[1].Y != f.PushOffset() {
		t.Fatalf("block should rest on the rising floor: y=%d offset=%d", blocks[1].Y, f.PushOffset())
	}
	if blocks[1].Y < 0 {
		t.Errorf("block sank under the floor, y=%d", blocks[1].Y)
	}
}

func TestInsertBottomRequiresRising(t *testing.T) {
	f := newField(t, field.LayoutMultBase, 1, 4)
	if _, err := f.InsertBottom(0, field.Int(1), field.KindNumber); !errors.Is(err, field.ErrNotRising) {
		t.Errorf("expected ErrNotRising, got %v", err)
	}
	f.SetPushSpeed(500)
	if f.PushSpeed() != 0 {
		t.Error("falling layout should ignore push speed")
	}
}

func TestCratesMatched(t *testing.T) {
	f := newField(t, field.LayoutCeiling, 3, 8)
	stack(t, f, 0, 2, 3)
	stack(t, f, 1, 5)
	f.SetCrates([]int{2, 1, 0})

	if !f.CratesMatched() {
		t.Errorf("heights %v should match crates %v", f.Heights(), f.Crates())
	}
	stack(t, f, 2, 7)
	if f.CratesMatched() {
		t.Error("extra block should break the match")
	}

	other := newField(t, field.LayoutAdd, 1, 4)
	other.SetCrates([]int{0})
	if other.CratesMatched() {
		t.Error("layouts without crates never match")
	}
}

func TestMarkCombos(t *testing.T) {
	f := newField(t, field.LayoutPrimeTime, 3, 8)
	mid, _ := f.Stack(1, field.Int(6), field.KindProduct)
	above, _ := f.Stack(1, field.Int(10), field.KindProduct)
	left, _ := f.Stack(0, field.Int(15), field.KindProduct)
	right, _ := f.Stack(2, field.Int(3), field.KindPrime)
	far, _ := f.Stack(0, field.Int(21), field.KindProduct)

	res := f.Remove([]field.BlockID{mid.ID})

	if !above.Combo || !left.Combo {
		t.Error("adjacent products should become combo blocks")
	}
	if right.Combo {
		t.Error("primes never become combo blocks")
	}
	if far.Combo {
		t.Error("diagonal neighbours are not adjacent")
	}
	if len(res.Marked) != 2 {
		t.Errorf("expected 2 marked blocks, got %v", res.Marked)
	}

	plain := newField(t, field.LayoutMultBase, 2, 8)
	p1, _ := plain.Stack(0, field.Int(6), field.KindProduct)
	p2, _ := plain.Stack(1, field.Int(10), field.KindProduct)
	plain.Remove([]field.BlockID{p1.ID})
	if p2.Combo {
		t.Error("combo marking is limited to the prime-time layout")
	}
}

func TestSnapshotDeterministic(t *testing.T) {
	build := func() *field.Field {
		f := newField(t, field.LayoutMultBase, 3, 6)
		f.Spawn(0, field.Int(2), field.KindPrime)
		f.Spawn(2, field.Int(3), field.KindPrime)
		for i := 0; i < 7; i++ {
			f.Step()
		}
		return f
	}
	a, b := build(), build()
	if a.Snapshot() != b.Snapshot() {
		t.Error("identical call sequences should hash identically")
	}

	b.Step()
	if a.Snapshot() == b.Snapshot() {
		t.Error("different states should hash differently")
	}
}

func TestParseLayout(t *testing.T) {
	for _, l := range []field.Layout{field.LayoutMultBase, field.LayoutAdd, field.LayoutFractions, field.LayoutCeiling, field.LayoutPrimeTime} {
		got, err := field.ParseLayout(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLayout(%q) = %v, %v", l.String(), got, err)
		}
	}
	if _, err := field.ParseLayout("tetris"); err == nil {
		t.Error("unknown layout should fail")
	}
}
