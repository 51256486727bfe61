package instruction_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/primetime/internal/field"
	"github.com/vovakirdan/primetime/internal/instruction"
)

func sampleEnvelopes() []instruction.Envelope {
	return []instruction.Envelope{
		{Tick: 0, Instruction: &instruction.SetSum{Target: field.Int(30)}},
		{Tick: 0, Instruction: &instruction.AddSummands{
			Placement: instruction.PlaceTop,
			Summands: []instruction.Summand{
				{Column: 0, Value: field.Int(2), Kind: field.KindPrime},
				{Column: 3, Value: field.Frac(3, 4), Kind: field.KindFraction},
			},
		}},
		{Tick: 12, Instruction: &instruction.SelectBlock{ID: 7}},
		{Tick: 12, Instruction: &instruction.ClearSelection{}},
		{Tick: 40, Instruction: &instruction.RemoveBlocks{IDs: []field.BlockID{1, 2, 300}}},
		{Tick: 41, Instruction: &instruction.SetPushSpeed{Speed: -5}},
		{Tick: 1000, Instruction: &instruction.SetCrates{Targets: []int{2, 0, 3}}},
	}
}

func TestLogRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	h := instruction.Header{Mode: "product", Seed: -42, Config: []byte("field:\n  columns: 6\n")}
	rec, err := instruction.NewRecorder(&buf, h)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	want := sampleEnvelopes()
	for _, env := range want {
		if err := rec.Record(env); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := rec.Finish(1500); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if rec.Count() != len(want) {
		t.Errorf("Count = %d, want %d", rec.Count(), len(want))
	}

	lg, err := instruction.ReadLog(&buf)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if lg.Header.Mode != h.Mode || lg.Header.Seed != h.Seed || !bytes.Equal(lg.Header.Config, h.Config) {
		t.Errorf("header = %+v, want %+v", lg.Header, h)
	}
	if lg.Header.Version != instruction.LogVersion {
		t.Errorf("version = %d", lg.Header.Version)
	}
	if lg.EndTick != 1500 {
		t.Errorf("EndTick = %d, want 1500", lg.EndTick)
	}
	if !reflect.DeepEqual(lg.Envelopes, want) {
		t.Errorf("envelopes differ:\n got %+v\nwant %+v", lg.Envelopes, want)
	}
}

func TestLogWithoutTrailer(t *testing.T) {
	var buf bytes.Buffer
	rec, err := instruction.NewRecorder(&buf, instruction.Header{Mode: "add"})
	if err != nil {
		t.Fatal(err)
	}
	_ = rec.Record(instruction.Envelope{Tick: 9, Instruction: &instruction.SelectBlock{ID: 1}})

	lg, err := instruction.DecodeLog(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeLog: %v", err)
	}
	if len(lg.Envelopes) != 1 || lg.EndTick != 9 {
		t.Errorf("got %d envelopes, end %d", len(lg.Envelopes), lg.EndTick)
	}
}

func TestRecorderRejectsBackwardsTicks(t *testing.T) {
	var buf bytes.Buffer
	rec, _ := instruction.NewRecorder(&buf, instruction.Header{})
	if err := rec.Record(instruction.Envelope{Tick: 5, Instruction: &instruction.ClearSelection{}}); err != nil {
		t.Fatal(err)
	}
	if err := rec.Record(instruction.Envelope{Tick: 4, Instruction: &instruction.ClearSelection{}}); err == nil {
		t.Fatal("expected error for tick going backwards")
	}
}

func TestDecodeLogErrors(t *testing.T) {
	var good bytes.Buffer
	rec, _ := instruction.NewRecorder(&good, instruction.Header{Mode: "fractions", Seed: 3})
	_ = rec.Record(instruction.Envelope{Tick: 1, Instruction: &instruction.RemoveBlocks{IDs: []field.BlockID{4, 5}}})
	data := good.Bytes()

	badVersion := append([]byte(nil), data...)
	badVersion[5] = 99

	unknown := append([]byte(nil), data...)
	// header: magic(4) version(2) mode(1+9) seed(1) config(1) then tick delta(1) kind
	unknown[4+2+10+1+1+1] = 0x70

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, instruction.ErrBadMagic},
		{"magic", []byte("NOPE\x00\x01"), instruction.ErrBadMagic},
		{"version", badVersion, instruction.ErrUnsupportedVersion},
		{"truncated", data[:len(data)-1], instruction.ErrTruncated},
		{"kind", unknown, instruction.ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := instruction.DecodeLog(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	var sel instruction.SelectBlock
	if err := sel.UnmarshalBinary([]byte{3, 0}); err == nil {
		t.Fatal("expected error for trailing bytes")
	}
	var crates instruction.SetCrates
	if err := crates.UnmarshalBinary([]byte{200}); !errors.Is(err, instruction.ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}
