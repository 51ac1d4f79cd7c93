package runtime

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindReal
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	default:
		return "unknown"
	}
}

// Value is implemented by every runtime value.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Numbers
//-----------------------------------------------------------------------------

// IntegerValue is an arbitrary precision integer. Val is never mutated after
// construction.
type IntegerValue struct {
	Val *big.Int
}

func (v IntegerValue) Kind() Kind { return KindInteger }

func NewInteger(n int64) IntegerValue {
	return IntegerValue{Val: big.NewInt(n)}
}

type RealValue struct {
	Val float64
}

func (v RealValue) Kind() Kind { return KindReal }

func NewReal(f float64) RealValue {
	return RealValue{Val: f}
}

// ToFloat widens an integer or real to float64. Integers beyond float range
// become infinities.
func ToFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntegerValue:
		f, _ := new(big.Float).SetInt(val.Val).Float64()
		return f, true
	case RealValue:
		return val.Val, true
	default:
		return 0, false
	}
}

// Equal reports whether two values have the same kind and numeric value.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case IntegerValue:
		bv, ok := b.(IntegerValue)
		return ok && av.Val.Cmp(bv.Val) == 0
	case RealValue:
		bv, ok := b.(RealValue)
		if !ok {
			return false
		}
		if math.IsNaN(av.Val) && math.IsNaN(bv.Val) {
			return true
		}
		return av.Val == bv.Val
	default:
		return false
	}
}

//-----------------------------------------------------------------------------
// Formatting
//-----------------------------------------------------------------------------

// FormatValue renders integers in decimal and reals in their shortest
// round-trip form, always with a fractional part or exponent.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case IntegerValue:
		return val.Val.String()
	case RealValue:
		return FormatReal(val.Val)
	default:
		return "<unknown>"
	}
}

// FormatReal switches to exponent notation below 1e-4 and from 1e16 up.
func FormatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	exp := decimalExponent(f)
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func decimalExponent(f float64) int {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	idx := strings.LastIndexByte(s, 'e')
	exp, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return 0
	}
	return exp
}
