package field

import "fmt"

// Layout selects the column arrangement and mechanics of a field.
type Layout uint8

const (
	LayoutMultBase  Layout = iota // falling columns of prime factors
	LayoutAdd                     // rising columns of summands
	LayoutFractions               // falling columns of wide fraction tiles
	LayoutCeiling                 // rising columns matched against crates
	LayoutPrimeTime               // falling primes and products with combos
)

// LayoutSpec describes the mechanics a layout enables.
type LayoutSpec struct {
	Name      string
	Rising    bool // blocks are pushed up from below instead of dropped
	Crates    bool // per-column crate targets decide the win
	Combos    bool // clearing a product marks its neighbours
	CellWidth int  // columns are drawn this many characters wide
}

var layoutSpecs = map[Layout]LayoutSpec{
	LayoutMultBase:  {Name: "multbase", CellWidth: 4},
	LayoutAdd:       {Name: "add", Rising: true, CellWidth: 4},
	LayoutFractions: {Name: "fractions", CellWidth: 6},
	LayoutCeiling:   {Name: "ceiling", Rising: true, Crates: true, CellWidth: 4},
	LayoutPrimeTime: {Name: "primetime", Combos: true, CellWidth: 4},
}

// Spec returns the layout's mechanics.
func (l Layout) Spec() LayoutSpec {
	if s, ok := layoutSpecs[l]; ok {
		return s
	}
	return layoutSpecs[LayoutMultBase]
}

// String returns the layout name.
func (l Layout) String() string {
	return l.Spec().Name
}

// ParseLayout resolves a layout by name.
func ParseLayout(name string) (Layout, error) {
	for l, s := range layoutSpecs {
		if s.Name == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("field: unknown layout %q", name)
}

// Field size limits. Geometry from replay headers is untrusted.
const (
	MaxColumns = 64
	MaxRows    = 64
)

// Geometry is everything needed to build an empty field.
type Geometry struct {
	Layout    Layout
	Columns   int
	Rows      int
	FallSpeed int // milli-cells per tick
	PushSpeed int // milli-cells per tick, rising layouts only
}

// Validate checks that the geometry can host a playable field.
func (g Geometry) Validate() error {
	if g.Columns < 1 || g.Columns > MaxColumns {
		return fmt.Errorf("field: columns %d out of range (1..%d)", g.Columns, MaxColumns)
	}
	if g.Rows < 2 || g.Rows > MaxRows {
		return fmt.Errorf("field: rows %d out of range (2..%d)", g.Rows, MaxRows)
	}
	if g.FallSpeed <= 0 || g.FallSpeed > CellH {
		return fmt.Errorf("field: fall speed %d out of range (1..%d)", g.FallSpeed, CellH)
	}
	if g.PushSpeed < 0 || g.PushSpeed > CellH {
		return fmt.Errorf("field: push speed %d out of range (0..%d)", g.PushSpeed, CellH)
	}
	return nil
}
