package instruction

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	logMagic = "PTRL"
	// LogVersion is the current replay log format version.
	LogVersion uint16 = 1
)

// Header opens every replay log. Config holds the mode configuration as
// YAML so a replay rebuilds the exact field geometry it was recorded with.
type Header struct {
	Version uint16
	Mode    string
	Seed    int64
	Config  []byte
}

// Log is a fully decoded replay log.
type Log struct {
	Header    Header
	Envelopes []Envelope
	// EndTick is the last tick the recording ran for.
	EndTick uint64
}

// Recorder appends executed instructions to a replay log.
type Recorder struct {
	w    io.Writer
	last uint64
	err  error
	n    int
}

// NewRecorder writes the log header to w and returns a recorder for it.
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	buf := []byte(logMagic)
	buf = binary.BigEndian.AppendUint16(buf, LogVersion)
	buf = appendBytes(buf, []byte(h.Mode))
	buf = appendVarint(buf, h.Seed)
	buf = appendBytes(buf, h.Config)
	if _, err := w.Write(buf); err != nil {
		return nil, fmt.Errorf("instruction: write header: %w", err)
	}
	return &Recorder{w: w}, nil
}

// Record appends one envelope. Ticks must not go backwards.
func (r *Recorder) Record(env Envelope) error {
	if r.err != nil {
		return r.err
	}
	if env.Tick < r.last {
		r.err = fmt.Errorf("instruction: tick %d recorded after %d", env.Tick, r.last)
		return r.err
	}
	payload, err := env.Instruction.MarshalBinary()
	if err != nil {
		r.err = fmt.Errorf("instruction: marshal %s: %w", env.Instruction.Kind(), err)
		return r.err
	}
	r.err = r.write(env.Tick, env.Instruction.Kind(), payload)
	if r.err == nil {
		r.n++
	}
	return r.err
}

// Count returns how many instructions were recorded.
func (r *Recorder) Count() int { return r.n }

// Finish writes the end-of-log trailer carrying the final tick.
func (r *Recorder) Finish(tick uint64) error {
	if r.err != nil {
		return r.err
	}
	if tick < r.last {
		tick = r.last
	}
	r.err = r.write(tick, kindEnd, nil)
	return r.err
}

func (r *Recorder) write(tick uint64, k Kind, payload []byte) error {
	buf := appendUvarint(nil, tick-r.last)
	buf = append(buf, byte(k))
	buf = appendBytes(buf, payload)
	if _, err := r.w.Write(buf); err != nil {
		return fmt.Errorf("instruction: write record: %w", err)
	}
	r.last = tick
	return nil
}

// ReadLog decodes a complete replay log.
func ReadLog(src io.Reader) (*Log, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("instruction: read log: %w", err)
	}
	return DecodeLog(data)
}

// DecodeLog decodes a replay log held in memory. A log without an end
// trailer is accepted; its end tick is the last instruction's tick.
func DecodeLog(data []byte) (*Log, error) {
	if len(data) < len(logMagic)+2 || !bytes.Equal(data[:len(logMagic)], []byte(logMagic)) {
		return nil, ErrBadMagic
	}
	version := binary.BigEndian.Uint16(data[len(logMagic):])
	if version != LogVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	r := reader{buf: data, off: len(logMagic) + 2}
	lg := &Log{Header: Header{Version: version}}
	lg.Header.Mode = string(r.bytes())
	lg.Header.Seed = r.varint()
	if cfg := r.bytes(); len(cfg) > 0 {
		lg.Header.Config = append([]byte(nil), cfg...)
	}
	if r.err != nil {
		return nil, fmt.Errorf("instruction: header: %w", r.err)
	}

	var tick uint64
	for r.remaining() > 0 {
		tick += r.uvarint()
		k := Kind(r.byte())
		payload := r.bytes()
		if r.err != nil {
			return nil, fmt.Errorf("instruction: record %d: %w", len(lg.Envelopes), r.err)
		}
		if k == kindEnd {
			lg.EndTick = tick
			break
		}
		in, err := New(k)
		if err != nil {
			return nil, err
		}
		if err := in.UnmarshalBinary(payload); err != nil {
			return nil, fmt.Errorf("instruction: record %d (%s): %w", len(lg.Envelopes), k, err)
		}
		lg.Envelopes = append(lg.Envelopes, Envelope{Tick: tick, Instruction: in})
		lg.EndTick = tick
	}
	return lg, nil
}
