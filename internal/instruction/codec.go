package instruction

import (
	"encoding/binary"
	"fmt"

	"github.com/vovakirdan/primetime/internal/field"
)

func appendUvarint(buf []byte, v uint64) []byte {
	return binary.AppendUvarint(buf, v)
}

func appendVarint(buf []byte, v int64) []byte {
	return binary.AppendVarint(buf, v)
}

func appendValue(buf []byte, v field.Value) []byte {
	buf = appendVarint(buf, int64(v.Num))
	return appendUvarint(buf, uint64(v.Den))
}

func appendBytes(buf, b []byte) []byte {
	buf = appendUvarint(buf, uint64(len(b)))
	return append(buf, b...)
}

// reader decodes varint-based payloads. The first error sticks; later reads
// return zero values so callers can check once at the end.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) fail() {
	if r.err == nil {
		r.err = ErrTruncated
	}
}

func (r *reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		r.fail()
		return 0
	}
	r.off += n
	return v
}

func (r *reader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.buf[r.off:])
	if n <= 0 {
		r.fail()
		return 0
	}
	r.off += n
	return v
}

func (r *reader) byte() byte {
	if r.err != nil {
		return 0
	}
	if r.off >= len(r.buf) {
		r.fail()
		return 0
	}
	b := r.buf[r.off]
	r.off++
	return b
}

func (r *reader) bytes() []byte {
	n := r.uvarint()
	if r.err != nil {
		return nil
	}
	if n > uint64(len(r.buf)-r.off) {
		r.fail()
		return nil
	}
	b := r.buf[r.off : r.off+int(n)]
	r.off += int(n)
	return b
}

// count reads a length prefix and rejects lengths the payload cannot hold.
func (r *reader) count() int {
	n := r.uvarint()
	if n > uint64(len(r.buf)-r.off) {
		r.fail()
		return 0
	}
	return int(n)
}

func (r *reader) value() field.Value {
	num := r.varint()
	den := r.uvarint()
	return field.Frac(int(num), int(den))
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

// done reports the sticky error, or trailing bytes as corruption.
func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("instruction: %d trailing bytes", len(r.buf)-r.off)
	}
	return nil
}
