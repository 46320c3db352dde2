package interpreter

import (
	"github.com/atomicals/avm-interpreter/avmnum"
	"github.com/atomicals/avm-interpreter/avmscript"
)

var arithmeticHandlers = map[avmscript.Opcode]opcodeHandler{
	avmscript.OP_1ADD:               opUnary(func(n avmnum.ScriptNum) avmnum.ScriptNum { return avmnum.Add(n, avmnum.FromInt64(1)) }),
	avmscript.OP_1SUB:               opUnary(func(n avmnum.ScriptNum) avmnum.ScriptNum { return avmnum.Sub(n, avmnum.FromInt64(1)) }),
	avmscript.OP_NEGATE:             opUnary(avmnum.Neg),
	avmscript.OP_ABS:                opUnary(avmnum.Abs),
	avmscript.OP_NOT:                opUnaryBool(func(n avmnum.ScriptNum) bool { return n.IsZero() }),
	avmscript.OP_0NOTEQUAL:          opUnaryBool(func(n avmnum.ScriptNum) bool { return !n.IsZero() }),
	avmscript.OP_2MUL:               opDisabled,
	avmscript.OP_2DIV:               opDisabled,
	avmscript.OP_ADD:                opBinary(func(a, b avmnum.ScriptNum) (avmnum.ScriptNum, error) { return avmnum.Add(a, b), nil }),
	avmscript.OP_SUB:                opBinary(func(a, b avmnum.ScriptNum) (avmnum.ScriptNum, error) { return avmnum.Sub(a, b), nil }),
	avmscript.OP_MUL:                opBinary(func(a, b avmnum.ScriptNum) (avmnum.ScriptNum, error) { return avmnum.Mul(a, b), nil }),
	avmscript.OP_DIV:                opBinaryDiv,
	avmscript.OP_MOD:                opBinaryMod,
	avmscript.OP_LSHIFT:             opShift(byteLShift),
	avmscript.OP_RSHIFT:             opShift(byteRShift),
	avmscript.OP_BOOLAND:            opBinaryBool(func(a, b avmnum.ScriptNum) bool { return !a.IsZero() && !b.IsZero() }),
	avmscript.OP_BOOLOR:             opBinaryBool(func(a, b avmnum.ScriptNum) bool { return !a.IsZero() || !b.IsZero() }),
	avmscript.OP_NUMEQUAL:           opBinaryBool(func(a, b avmnum.ScriptNum) bool { return avmnum.Cmp(a, b) == 0 }),
	avmscript.OP_NUMEQUALVERIFY:     opNumEqualVerify,
	avmscript.OP_NUMNOTEQUAL:        opBinaryBool(func(a, b avmnum.ScriptNum) bool { return avmnum.Cmp(a, b) != 0 }),
	avmscript.OP_LESSTHAN:           opBinaryBool(func(a, b avmnum.ScriptNum) bool { return avmnum.Cmp(a, b) < 0 }),
	avmscript.OP_GREATERTHAN:        opBinaryBool(func(a, b avmnum.ScriptNum) bool { return avmnum.Cmp(a, b) > 0 }),
	avmscript.OP_LESSTHANOREQUAL:    opBinaryBool(func(a, b avmnum.ScriptNum) bool { return avmnum.Cmp(a, b) <= 0 }),
	avmscript.OP_GREATERTHANOREQUAL: opBinaryBool(func(a, b avmnum.ScriptNum) bool { return avmnum.Cmp(a, b) >= 0 }),
	avmscript.OP_MIN:                opBinary(func(a, b avmnum.ScriptNum) (avmnum.ScriptNum, error) {
		if avmnum.Cmp(a, b) < 0 {
			return a, nil
		}
		return b, nil
	}),
	avmscript.OP_MAX: opBinary(func(a, b avmnum.ScriptNum) (avmnum.ScriptNum, error) {
		if avmnum.Cmp(a, b) > 0 {
			return a, nil
		}
		return b, nil
	}),
	avmscript.OP_WITHIN: opWithin,
}

func popNum(e *Engine) (avmnum.ScriptNum, error) {
	v, err := e.dstack.pop()
	if err != nil {
		return avmnum.ScriptNum{}, err
	}
	n, err := avmnum.FromBytes(v, MaxScriptNumLen)
	if err != nil {
		return avmnum.ScriptNum{}, avmscript.NewError(avmscript.ErrInvalidNumberRange, "invalid numeric operand")
	}
	return n, nil
}

func opUnary(f func(avmnum.ScriptNum) avmnum.ScriptNum) opcodeHandler {
	return func(e *Engine, pop avmscript.ParsedOpcode) error {
		n, err := popNum(e)
		if err != nil {
			return err
		}
		e.dstack.push(f(n).GetVch())
		return nil
	}
}

func opUnaryBool(f func(avmnum.ScriptNum) bool) opcodeHandler {
	return func(e *Engine, pop avmscript.ParsedOpcode) error {
		n, err := popNum(e)
		if err != nil {
			return err
		}
		e.dstack.push(boolToVch(f(n)))
		return nil
	}
}

func opDisabled(e *Engine, pop avmscript.ParsedOpcode) error {
	return avmscript.NewError(avmscript.ErrDisabledOpcode, "disabled opcode executed")
}

func opBinary(f func(a, b avmnum.ScriptNum) (avmnum.ScriptNum, error)) opcodeHandler {
	return func(e *Engine, pop avmscript.ParsedOpcode) error {
		b, err := popNum(e)
		if err != nil {
			return err
		}
		a, err := popNum(e)
		if err != nil {
			return err
		}
		r, err := f(a, b)
		if err != nil {
			return err
		}
		e.dstack.push(r.GetVch())
		return nil
	}
}

func opBinaryBool(f func(a, b avmnum.ScriptNum) bool) opcodeHandler {
	return func(e *Engine, pop avmscript.ParsedOpcode) error {
		b, err := popNum(e)
		if err != nil {
			return err
		}
		a, err := popNum(e)
		if err != nil {
			return err
		}
		e.dstack.push(boolToVch(f(a, b)))
		return nil
	}
}

func opBinaryDiv(e *Engine, pop avmscript.ParsedOpcode) error {
	b, err := popNum(e)
	if err != nil {
		return err
	}
	a, err := popNum(e)
	if err != nil {
		return err
	}
	r, err := avmnum.Div(a, b)
	if err != nil {
		return avmscript.NewError(avmscript.ErrDivByZero, "division by zero")
	}
	e.dstack.push(r.GetVch())
	return nil
}

func opBinaryMod(e *Engine, pop avmscript.ParsedOpcode) error {
	b, err := popNum(e)
	if err != nil {
		return err
	}
	a, err := popNum(e)
	if err != nil {
		return err
	}
	r, err := avmnum.Mod(a, b)
	if err != nil {
		return avmscript.NewError(avmscript.ErrModByZero, "modulo by zero")
	}
	e.dstack.push(r.GetVch())
	return nil
}

// opShift implements OP_LSHIFT/OP_RSHIFT: pop the shift count then the
// value, and shift the value's raw bytes by that many bits, zero-filling
// and preserving the original element length exactly. This operates
// directly on the byte string as pushed, with no numeric parsing and no
// sign handling — a bitwise operation on the element, not a BigInt
// arithmetic shift.
func opShift(shift func(x []byte, n int) []byte) opcodeHandler {
	return func(e *Engine, pop avmscript.ParsedOpcode) error {
		countBytes, err := e.dstack.pop()
		if err != nil {
			return err
		}
		valBytes, err := e.dstack.pop()
		if err != nil {
			return err
		}
		countNum, err := avmnum.FromBytes(countBytes, MaxScriptNumLen)
		if err != nil {
			return avmscript.NewError(avmscript.ErrInvalidNumberRange, "invalid shift count")
		}
		if countNum.IsNegative() {
			return avmscript.NewError(avmscript.ErrInvalidNumberRange, "negative shift count")
		}
		count := countNum.GetInt()

		if int(count) >= len(valBytes)*8 {
			e.dstack.push(make([]byte, len(valBytes)))
			return nil
		}
		e.dstack.push(shift(valBytes, int(count)))
		return nil
	}
}

func rshiftMask(n int) byte {
	masks := [8]byte{0xFF, 0xFE, 0xFC, 0xF8, 0xF0, 0xE0, 0xC0, 0x80}
	return masks[n]
}

func lshiftMask(n int) byte {
	masks := [8]byte{0xFF, 0x7F, 0x3F, 0x1F, 0x0F, 0x07, 0x03, 0x01}
	return masks[n]
}

// byteRShift shifts x right by n bits, implementing OP_RSHIFT.
func byteRShift(x []byte, n int) []byte {
	bitShift := n % 8
	byteShift := n / 8

	mask := rshiftMask(bitShift)
	overflowMask := ^mask

	result := make([]byte, len(x))
	for i := 0; i < len(x); i++ {
		k := i + byteShift
		if k < len(x) {
			val := x[i] & mask
			val >>= uint(bitShift)
			result[k] |= val
		}
		if k+1 < len(x) {
			carry := x[i] & overflowMask
			carry <<= uint(8 - bitShift)
			result[k+1] |= carry
		}
	}
	return result
}

// byteLShift shifts x left by n bits, implementing OP_LSHIFT.
func byteLShift(x []byte, n int) []byte {
	bitShift := n % 8
	byteShift := n / 8

	mask := lshiftMask(bitShift)
	overflowMask := ^mask

	result := make([]byte, len(x))
	for i := len(x) - 1; i >= 0; i-- {
		k := i - byteShift
		if k >= 0 {
			val := x[i] & mask
			val <<= uint(bitShift)
			result[k] |= val
		}
		if k-1 >= 0 {
			carry := x[i] & overflowMask
			carry >>= uint(8 - bitShift)
			result[k-1] |= carry
		}
	}
	return result
}

func opNumEqualVerify(e *Engine, pop avmscript.ParsedOpcode) error {
	b, err := popNum(e)
	if err != nil {
		return err
	}
	a, err := popNum(e)
	if err != nil {
		return err
	}
	if avmnum.Cmp(a, b) != 0 {
		return avmscript.NewError(avmscript.ErrNumEqualVerify, "OP_NUMEQUALVERIFY failed")
	}
	return nil
}

func opWithin(e *Engine, pop avmscript.ParsedOpcode) error {
	max, err := popNum(e)
	if err != nil {
		return err
	}
	min, err := popNum(e)
	if err != nil {
		return err
	}
	x, err := popNum(e)
	if err != nil {
		return err
	}
	within := avmnum.Cmp(x, min) >= 0 && avmnum.Cmp(x, max) < 0
	e.dstack.push(boolToVch(within))
	return nil
}
