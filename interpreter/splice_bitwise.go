package interpreter

import (
	"github.com/atomicals/avm-interpreter/avmbigint"
	"github.com/atomicals/avm-interpreter/avmnum"
	"github.com/atomicals/avm-interpreter/avmscript"
)

var spliceAndBitwiseHandlers = map[avmscript.Opcode]opcodeHandler{
	avmscript.OP_CAT:        opCat,
	avmscript.OP_SPLIT:      opSplit,
	avmscript.OP_NUM2BIN:    opNum2Bin,
	avmscript.OP_BIN2NUM:    opBin2Num,
	avmscript.OP_SIZE:       opSize,
	avmscript.OP_INVERT:     opInvert,
	avmscript.OP_AND:        opAnd,
	avmscript.OP_OR:         opOr,
	avmscript.OP_XOR:        opXor,
	avmscript.OP_EQUAL:      opEqual,
	avmscript.OP_EQUALVERIFY: opEqualVerify,
}

func opCat(e *Engine, pop avmscript.ParsedOpcode) error {
	b, err := e.dstack.pop()
	if err != nil {
		return err
	}
	a, err := e.dstack.pop()
	if err != nil {
		return err
	}
	if len(a)+len(b) > avmscript.MaxScriptElementSize {
		return avmscript.NewError(avmscript.ErrPushSize, "OP_CAT result exceeds maximum element size")
	}
	e.dstack.push(append(append([]byte{}, a...), b...))
	return nil
}

func opSplit(e *Engine, pop avmscript.ParsedOpcode) error {
	nBytes, err := e.dstack.pop()
	if err != nil {
		return err
	}
	data, err := e.dstack.pop()
	if err != nil {
		return err
	}
	n, err := avmnum.FromBytes(nBytes, MaxScriptNumLen)
	if err != nil {
		return avmscript.NewError(avmscript.ErrInvalidNumberRange, "invalid split index")
	}
	idx, err := n.GetSizeType()
	if err != nil || idx > len(data) {
		return avmscript.NewError(avmscript.ErrInvalidSplitRange, "split index out of range")
	}
	e.dstack.push(append([]byte{}, data[:idx]...))
	e.dstack.push(append([]byte{}, data[idx:]...))
	return nil
}

// opNum2Bin pops the target size (top of stack) and then the numeric value
// beneath it, and re-encodes the value into exactly size bytes of little-endian sign-magnitude form, sign-extending or
// zero-padding as needed.
func opNum2Bin(e *Engine, pop avmscript.ParsedOpcode) error {
	sizeBytes, err := e.dstack.pop()
	if err != nil {
		return err
	}
	numBytes, err := e.dstack.pop()
	if err != nil {
		return err
	}
	sizeNum, err := avmnum.FromBytes(sizeBytes, MaxScriptNumLen)
	if err != nil {
		return avmscript.NewError(avmscript.ErrInvalidNumberRange, "invalid OP_NUM2BIN size")
	}
	size, err := sizeNum.GetSizeType()
	if err != nil || size > avmscript.MaxScriptElementSize {
		return avmscript.NewError(avmscript.ErrPushSize, "OP_NUM2BIN size exceeds maximum element size")
	}

	n, err := avmbigint.Deserialize(numBytes)
	if err != nil {
		return avmscript.NewError(avmscript.ErrImpossibleEncoding, "invalid numeric operand to OP_NUM2BIN")
	}
	minimal := n.Serialize()
	if len(minimal) > size {
		return avmscript.NewError(avmscript.ErrImpossibleEncoding, "value does not fit in requested size")
	}

	out := make([]byte, size)
	neg := false
	if len(minimal) > 0 {
		copy(out, minimal)
		if minimal[len(minimal)-1]&0x80 != 0 {
			neg = true
			out[len(minimal)-1] &^= 0x80
		}
	}
	if neg && size > 0 {
		out[size-1] |= 0x80
	}
	e.dstack.push(out)
	return nil
}

// opBin2Num re-encodes an arbitrary byte string as the minimal script
// number encoding of the same value.
func opBin2Num(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.pop()
	if err != nil {
		return err
	}
	n, err := avmbigint.Deserialize(minimalizeMPI(v))
	if err != nil {
		return avmscript.NewError(avmscript.ErrImpossibleEncoding, "invalid numeric operand to OP_BIN2NUM")
	}
	e.dstack.push(n.Serialize())
	return nil
}

// minimalizeMPI strips the redundant trailing padding OP_NUM2BIN-style
// encodings can carry (a would-be non-minimal sign-magnitude form), keeping
// the sign bit, before handing the bytes to avmbigint.Deserialize, which
// otherwise requires the canonical minimal form. Negative zero becomes zero.
func minimalizeMPI(v []byte) []byte {
	if len(v) == 0 {
		return v
	}
	out := append([]byte{}, v...)
	neg := out[len(out)-1]&0x80 != 0
	out[len(out)-1] &^= 0x80
	for len(out) > 0 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return out
	}
	if out[len(out)-1]&0x80 != 0 {
		if neg {
			out = append(out, 0x80)
		} else {
			out = append(out, 0x00)
		}
	} else if neg {
		out[len(out)-1] |= 0x80
	}
	return out
}

func opSize(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.peek(0)
	if err != nil {
		return err
	}
	e.dstack.push(avmnum.FromInt64(int64(len(v))).GetVch())
	return nil
}

func opInvert(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.pop()
	if err != nil {
		return err
	}
	out := make([]byte, len(v))
	for i, b := range v {
		out[i] = ^b
	}
	e.dstack.push(out)
	return nil
}

func opAnd(e *Engine, pop avmscript.ParsedOpcode) error {
	b, err := e.dstack.pop()
	if err != nil {
		return err
	}
	a, err := e.dstack.pop()
	if err != nil {
		return err
	}
	an, err1 := avmnum.FromBytes(a, MaxScriptNumLen)
	bn, err2 := avmnum.FromBytes(b, MaxScriptNumLen)
	if err1 != nil || err2 != nil {
		return avmscript.NewError(avmscript.ErrImpossibleEncoding, "invalid operand to OP_AND")
	}
	e.dstack.push(avmnum.And(an, bn).GetVch())
	return nil
}

func opOr(e *Engine, pop avmscript.ParsedOpcode) error {
	b, err := e.dstack.pop()
	if err != nil {
		return err
	}
	a, err := e.dstack.pop()
	if err != nil {
		return err
	}
	ai, err1 := avmbigint.Deserialize(a)
	bi, err2 := avmbigint.Deserialize(b)
	if err1 != nil || err2 != nil {
		return avmscript.NewError(avmscript.ErrImpossibleEncoding, "invalid operand to OP_OR")
	}
	e.dstack.push(avmbigint.Or(ai, bi).Serialize())
	return nil
}

func opXor(e *Engine, pop avmscript.ParsedOpcode) error {
	b, err := e.dstack.pop()
	if err != nil {
		return err
	}
	a, err := e.dstack.pop()
	if err != nil {
		return err
	}
	if len(a) != len(b) {
		return avmscript.NewError(avmscript.ErrInvalidOperandSize, "OP_XOR operands must be equal length")
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	e.dstack.push(out)
	return nil
}

func opEqual(e *Engine, pop avmscript.ParsedOpcode) error {
	b, err := e.dstack.pop()
	if err != nil {
		return err
	}
	a, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.dstack.push(boolToVch(bytesEqual(a, b)))
	return nil
}

func opEqualVerify(e *Engine, pop avmscript.ParsedOpcode) error {
	if err := opEqual(e, pop); err != nil {
		return err
	}
	v, err := e.dstack.pop()
	if err != nil {
		return err
	}
	if !vchToBool(v) {
		return avmscript.NewError(avmscript.ErrEqualVerify, "OP_EQUALVERIFY failed")
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
