// Package instruction defines the commands that change a Prime Time field,
// their binary encoding, and the streams that schedule them.
//
// Every field mutation goes through an instruction. A PlayStream queues
// instructions pushed by input and rule engines and records each one as it
// executes; a ReplayStream feeds a recorded log back at the same ticks.
package instruction

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/primetime/internal/field"
)

var (
	ErrBadMagic           = errors.New("instruction: not a replay log")
	ErrUnsupportedVersion = errors.New("instruction: unsupported log version")
	ErrUnknownKind        = errors.New("instruction: unknown kind")
	ErrTruncated          = errors.New("instruction: truncated data")
)

// Kind tags an instruction on the wire.
type Kind uint8

const (
	KindSelectBlock Kind = iota + 1
	KindClearSelection
	KindRemoveBlocks
	KindSetSum
	KindAddSummands
	KindSetPushSpeed
	KindSetCrates

	kindEnd Kind = 0xFF // log trailer, never handed to a field
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSelectBlock:
		return "SelectBlock"
	case KindClearSelection:
		return "ClearSelection"
	case KindRemoveBlocks:
		return "RemoveBlocks"
	case KindSetSum:
		return "SetSum"
	case KindAddSummands:
		return "AddSummands"
	case KindSetPushSpeed:
		return "SetPushSpeed"
	case KindSetCrates:
		return "SetCrates"
	case kindEnd:
		return "End"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Instruction is a single field command.
type Instruction interface {
	Kind() Kind
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

// Envelope is an instruction stamped with the tick it executes on.
type Envelope struct {
	Tick        uint64
	Instruction Instruction
}

// New returns an empty instruction of the given kind, ready to unmarshal into.
func New(k Kind) (Instruction, error) {
	switch k {
	case KindSelectBlock:
		return &SelectBlock{}, nil
	case KindClearSelection:
		return &ClearSelection{}, nil
	case KindRemoveBlocks:
		return &RemoveBlocks{}, nil
	case KindSetSum:
		return &SetSum{}, nil
	case KindAddSummands:
		return &AddSummands{}, nil
	case KindSetPushSpeed:
		return &SetPushSpeed{}, nil
	case KindSetCrates:
		return &SetCrates{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
}

// SelectBlock toggles a block in the selection.
type SelectBlock struct {
	ID field.BlockID
}

func (*SelectBlock) Kind() Kind { return KindSelectBlock }

func (i *SelectBlock) MarshalBinary() ([]byte, error) {
	return appendUvarint(nil, uint64(i.ID)), nil
}

func (i *SelectBlock) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	i.ID = field.BlockID(r.uvarint())
	return r.done()
}

// ClearSelection drops the whole selection.
type ClearSelection struct{}

func (*ClearSelection) Kind() Kind { return KindClearSelection }

func (*ClearSelection) MarshalBinary() ([]byte, error) { return nil, nil }

func (*ClearSelection) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	return r.done()
}

// RemoveBlocks removes the listed blocks after a valid equation.
type RemoveBlocks struct {
	IDs []field.BlockID
}

func (*RemoveBlocks) Kind() Kind { return KindRemoveBlocks }

func (i *RemoveBlocks) MarshalBinary() ([]byte, error) {
	buf := appendUvarint(nil, uint64(len(i.IDs)))
	for _, id := range i.IDs {
		buf = appendUvarint(buf, uint64(id))
	}
	return buf, nil
}

func (i *RemoveBlocks) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	n := r.count()
	i.IDs = make([]field.BlockID, 0, n)
	for j := 0; j < n && r.err == nil; j++ {
		i.IDs = append(i.IDs, field.BlockID(r.uvarint()))
	}
	return r.done()
}

// SetSum sets the equation target shown to the player.
type SetSum struct {
	Target field.Value
}

func (*SetSum) Kind() Kind { return KindSetSum }

func (i *SetSum) MarshalBinary() ([]byte, error) {
	return appendValue(nil, i.Target), nil
}

func (i *SetSum) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	i.Target = r.value()
	return r.done()
}

// Placement says where AddSummands puts its blocks.
type Placement uint8

const (
	PlaceTop    Placement = iota // drop in from the top, falling
	PlaceStack                   // rest on top of the column stack
	PlaceBottom                  // insert under a rising column
)

// Summand is one block to add.
type Summand struct {
	Column int
	Value  field.Value
	Kind   field.Kind
}

// AddSummands adds new blocks to the field.
type AddSummands struct {
	Placement Placement
	Summands  []Summand
}

func (*AddSummands) Kind() Kind { return KindAddSummands }

func (i *AddSummands) MarshalBinary() ([]byte, error) {
	buf := []byte{byte(i.Placement)}
	buf = appendUvarint(buf, uint64(len(i.Summands)))
	for _, s := range i.Summands {
		buf = appendUvarint(buf, uint64(s.Column))
		buf = appendValue(buf, s.Value)
		buf = append(buf, byte(s.Kind))
	}
	return buf, nil
}

func (i *AddSummands) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	i.Placement = Placement(r.byte())
	n := r.count()
	i.Summands = make([]Summand, 0, n)
	for j := 0; j < n && r.err == nil; j++ {
		s := Summand{Column: int(r.uvarint())}
		s.Value = r.value()
		s.Kind = field.Kind(r.byte())
		i.Summands = append(i.Summands, s)
	}
	return r.done()
}

// SetPushSpeed changes how fast a rising field climbs.
type SetPushSpeed struct {
	Speed int
}

func (*SetPushSpeed) Kind() Kind { return KindSetPushSpeed }

func (i *SetPushSpeed) MarshalBinary() ([]byte, error) {
	return appendVarint(nil, int64(i.Speed)), nil
}

func (i *SetPushSpeed) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	i.Speed = int(r.varint())
	return r.done()
}

// SetCrates sets per-column crate heights for the ceiling layout.
type SetCrates struct {
	Targets []int
}

func (*SetCrates) Kind() Kind { return KindSetCrates }

func (i *SetCrates) MarshalBinary() ([]byte, error) {
	buf := appendUvarint(nil, uint64(len(i.Targets)))
	for _, t := range i.Targets {
		buf = appendVarint(buf, int64(t))
	}
	return buf, nil
}

func (i *SetCrates) UnmarshalBinary(data []byte) error {
	r := reader{buf: data}
	n := r.count()
	i.Targets = make([]int, 0, n)
	for j := 0; j < n && r.err == nil; j++ {
		i.Targets = append(i.Targets, int(r.varint()))
	}
	return r.done()
}
