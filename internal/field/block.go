package field

import "fmt"

// CellH is the height of one block in fixed-point milli-cells.
// Speeds are expressed in milli-cells per tick.
const CellH = 1000

// BlockID identifies a block for the lifetime of a field. IDs are never reused.
type BlockID uint32

// Kind tells the rule engines how a block may take part in an equation.
type Kind uint8

const (
	KindNumber   Kind = iota // plain summand
	KindPrime                // prime factor
	KindProduct              // composite to be factored
	KindFraction             // fraction for equivalence matching
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindPrime:
		return "prime"
	case KindProduct:
		return "product"
	case KindFraction:
		return "fraction"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name as written by String.
func ParseKind(name string) (Kind, error) {
	for k := KindNumber; k <= KindFraction; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("field: unknown kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Block is a single numeric tile.
type Block struct {
	ID     BlockID
	Value  Value
	Kind   Kind
	Column int
	Y      int // bottom edge above the floor, milli-cells

	Falling  bool
	Incoming bool // below the floor of a rising field, not yet playable
	Combo    bool // chain-eligible product block
	Selected bool
}

// Top returns the y coordinate of the block's top edge.
func (b *Block) Top() int {
	return b.Y + CellH
}

// Row returns the grid row the block is drawn in, counting up from the floor.
func (b *Block) Row() int {
	return floorDiv(b.Y+CellH/2, CellH)
}

// Playable reports whether the block may be selected.
func (b *Block) Playable() bool {
	return !b.Falling && !b.Incoming
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
