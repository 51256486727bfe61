package field

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the number printed on a block: Num/Den with Den >= 1.
// Integer blocks have Den == 1.
type Value struct {
	Num int
	Den int
}

// Int returns an integer value.
func Int(n int) Value {
	return Value{Num: n, Den: 1}
}

// Frac returns a fraction value. A non-positive denominator is normalized.
func Frac(num, den int) Value {
	if den == 0 {
		den = 1
	}
	if den < 0 {
		num, den = -num, -den
	}
	return Value{Num: num, Den: den}
}

// IsInt reports whether the value is a whole number as written.
func (v Value) IsInt() bool {
	return v.Den <= 1
}

// Equivalent reports whether two values denote the same rational number.
func (v Value) Equivalent(o Value) bool {
	return v.Num*o.denom() == o.Num*v.denom()
}

// Reduced returns the value in lowest terms.
func (v Value) Reduced() Value {
	d := v.denom()
	g := gcd(abs(v.Num), d)
	if g == 0 {
		return Value{Num: 0, Den: 1}
	}
	return Value{Num: v.Num / g, Den: d / g}
}

// String renders the value the way it appears on a block.
func (v Value) String() string {
	if v.IsInt() {
		return strconv.Itoa(v.Num)
	}
	return strconv.Itoa(v.Num) + "/" + strconv.Itoa(v.Den)
}

func (v Value) denom() int {
	if v.Den <= 0 {
		return 1
	}
	return v.Den
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ParseValue parses "n" or "n/d".
func ParseValue(s string) (Value, error) {
	num, den, isFrac := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Value{}, fmt.Errorf("field: bad value %q", s)
	}
	if !isFrac {
		return Int(n), nil
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d <= 0 {
		return Value{}, fmt.Errorf("field: bad value %q", s)
	}
	return Frac(n, d), nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(b []byte) error {
	parsed, err := ParseValue(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
