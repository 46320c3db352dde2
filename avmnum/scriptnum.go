// Package avmnum implements the AVM script number: a tagged union of a
// native int64 fast path and an arbitrary-precision avmbigint.Int overflow
// path, mirroring CScriptNum's std::variant<int64_t, avm::bigint> in the
// Bitcoin-Core-derived original this interpreter is ported from.
package avmnum

import (
	"errors"

	"github.com/atomicals/avm-interpreter/avmbigint"
)

// MaximumItemSize is the default cap on the byte length of a ScriptNum's
// serialized form when constructed from stack data.
const MaximumItemSize = 100000

// ErrNonMinimalEncoding is returned when constructing a ScriptNum from
// bytes that are not the value's unique minimal encoding.
var ErrNonMinimalEncoding = errors.New("avmnum: non-minimal encoding")

// ErrOverflow is returned when constructing a ScriptNum from a byte string
// longer than the configured maximum size.
var ErrOverflow = errors.New("avmnum: script number overflow")

// ScriptNum is either a native int64 or, when the value exceeds int64
// range, an arbitrary-precision avmbigint.Int. Callers never need to
// inspect the tag: all operations promote transparently to the big path
// when required.
type ScriptNum struct {
	small   int64
	big     *avmbigint.Int
	isSmall bool
}

// FromInt64 returns the ScriptNum for a native int64 value.
func FromInt64(n int64) ScriptNum {
	return ScriptNum{small: n, isSmall: true}
}

// FromBigInt returns the ScriptNum for an avmbigint.Int value, collapsing
// to the small representation when the value fits in an int64.
func FromBigInt(b *avmbigint.Int) ScriptNum {
	if v, ok := b.Int64(); ok {
		return FromInt64(v)
	}
	return ScriptNum{big: b}
}

// FromBytes parses a ScriptNum from its minimally-encoded little-endian
// sign-magnitude byte string, as found on the interpreter's data stack.
// maxSize bounds the input length; pass 0 to use MaximumItemSize.
func FromBytes(data []byte, maxSize int) (ScriptNum, error) {
	if maxSize <= 0 {
		maxSize = MaximumItemSize
	}
	if len(data) > maxSize {
		return ScriptNum{}, ErrOverflow
	}
	b, err := avmbigint.Deserialize(data)
	if err != nil {
		return ScriptNum{}, ErrNonMinimalEncoding
	}
	return FromBigInt(b), nil
}

// IsSmall reports whether n is stored in its native int64 form.
func (n ScriptNum) IsSmall() bool {
	return n.isSmall
}

// AsBigInt returns n's value as an avmbigint.Int, promoting from the small
// representation when necessary.
func (n ScriptNum) AsBigInt() *avmbigint.Int {
	if n.isSmall {
		return avmbigint.NewInt(n.small)
	}
	return n.big
}

// GetVch returns the canonical minimal serialization of n.
func (n ScriptNum) GetVch() []byte {
	return n.AsBigInt().Serialize()
}

// GetSizeType returns n as a non-negative size, for use as an array index
// or count. It errors if n is negative or does not fit in an int32.
func (n ScriptNum) GetSizeType() (int, error) {
	v, ok := n.getInt32Range()
	if !ok || v < 0 {
		return 0, errors.New("avmnum: script number out of range for size")
	}
	return int(v), nil
}

// GetInt returns n's value saturated to the int32 range, the same
// saturating conversion the original bitcoin-derived CScriptNum::getint
// performs.
func (n ScriptNum) GetInt() int32 {
	v, ok := n.getInt32Range()
	if ok {
		return v
	}
	if n.IsNegative() {
		return -2147483648
	}
	return 2147483647
}

func (n ScriptNum) getInt32Range() (int32, bool) {
	if n.isSmall {
		if n.small > 2147483647 || n.small < -2147483648 {
			return 0, false
		}
		return int32(n.small), true
	}
	v, ok := n.big.Int64()
	if !ok || v > 2147483647 || v < -2147483648 {
		return 0, false
	}
	return int32(v), true
}

// IsNegative reports whether n < 0.
func (n ScriptNum) IsNegative() bool {
	if n.isSmall {
		return n.small < 0
	}
	return n.big.IsNegative()
}

// IsZero reports whether n == 0.
func (n ScriptNum) IsZero() bool {
	if n.isSmall {
		return n.small == 0
	}
	return n.big.IsZero()
}

// Cmp compares a and b, returning -1, 0 or 1.
func Cmp(a, b ScriptNum) int {
	if a.isSmall && b.isSmall {
		switch {
		case a.small < b.small:
			return -1
		case a.small > b.small:
			return 1
		default:
			return 0
		}
	}
	return a.AsBigInt().Cmp(b.AsBigInt())
}

// Add returns a + b, staying in the small representation when both
// operands are small and the sum does not overflow int64.
func Add(a, b ScriptNum) ScriptNum {
	if a.isSmall && b.isSmall {
		sum := a.small + b.small
		if (sum > a.small) == (b.small > 0) || b.small == 0 {
			return FromInt64(sum)
		}
	}
	return FromBigInt(avmbigint.Add(a.AsBigInt(), b.AsBigInt()))
}

// Sub returns a - b.
func Sub(a, b ScriptNum) ScriptNum {
	if a.isSmall && b.isSmall {
		diff := a.small - b.small
		if (diff < a.small) == (b.small > 0) || b.small == 0 {
			return FromInt64(diff)
		}
	}
	return FromBigInt(avmbigint.Sub(a.AsBigInt(), b.AsBigInt()))
}

// Mul returns a * b.
func Mul(a, b ScriptNum) ScriptNum {
	return FromBigInt(avmbigint.Mul(a.AsBigInt(), b.AsBigInt()))
}

// Div returns the truncated quotient a / b, or an error if b is zero.
func Div(a, b ScriptNum) (ScriptNum, error) {
	q, err := avmbigint.Div(a.AsBigInt(), b.AsBigInt())
	if err != nil {
		return ScriptNum{}, err
	}
	return FromBigInt(q), nil
}

// Mod returns the truncated remainder of a / b, or an error if b is zero.
func Mod(a, b ScriptNum) (ScriptNum, error) {
	r, err := avmbigint.Mod(a.AsBigInt(), b.AsBigInt())
	if err != nil {
		return ScriptNum{}, err
	}
	return FromBigInt(r), nil
}

// Neg returns -n.
func Neg(n ScriptNum) ScriptNum {
	if n.isSmall && n.small != -9223372036854775808 {
		return FromInt64(-n.small)
	}
	return FromBigInt(avmbigint.Neg(n.AsBigInt()))
}

// Abs returns |n|.
func Abs(n ScriptNum) ScriptNum {
	if n.IsNegative() {
		return Neg(n)
	}
	return n
}

// And returns the bitwise AND of a and b, per avmbigint.And's semantics.
func And(a, b ScriptNum) ScriptNum {
	return FromBigInt(avmbigint.And(a.AsBigInt(), b.AsBigInt()))
}
