package avmscript

import "encoding/binary"

// MaxScriptSize is the global cap on a single script's byte length.
const MaxScriptSize = 1000000

// MaxScriptElementSize is the cap on the payload of any single push, and
// the cap OP_CAT/OP_NUM2BIN results are checked against.
const MaxScriptElementSize = 4000

// Script is a byte-addressable sequence of opcodes and inline pushes.
type Script []byte

// ParsedOpcode is one decoded step of a Script: an opcode plus its inline
// push payload, if any.
type ParsedOpcode struct {
	Opcode Opcode
	Data   []byte
}

// Reader iterates a Script, yielding one ParsedOpcode per Next call.
type Reader struct {
	script Script
	offset int
}

// NewReader returns a Reader positioned at the start of s.
func NewReader(s Script) *Reader {
	return &Reader{script: s}
}

// Offset returns the current byte offset into the underlying script.
func (r *Reader) Offset() int {
	return r.offset
}

// Done reports whether the reader has consumed the entire script.
func (r *Reader) Done() bool {
	return r.offset >= len(r.script)
}

// Next decodes and returns the opcode at the current offset, advancing
// past it (and its payload, if it is a push). It returns an *Error with
// ErrPushSize if a push's declared length runs past the end of the script
// or exceeds MaxScriptElementSize.
func (r *Reader) Next() (ParsedOpcode, error) {
	if r.Done() {
		return ParsedOpcode{}, scriptError(ErrInvalidStackOperation, "read past end of script")
	}
	op := Opcode(r.script[r.offset])
	r.offset++

	switch {
	case op >= 0x01 && op <= 0x4b:
		n := int(op)
		if r.offset+n > len(r.script) {
			return ParsedOpcode{}, scriptError(ErrPushSize, "truncated data push")
		}
		data := r.script[r.offset : r.offset+n]
		r.offset += n
		return ParsedOpcode{Opcode: op, Data: data}, nil

	case op == OP_PUSHDATA1:
		if r.offset+1 > len(r.script) {
			return ParsedOpcode{}, scriptError(ErrPushSize, "truncated PUSHDATA1 length")
		}
		n := int(r.script[r.offset])
		r.offset++
		return r.readPush(op, n)

	case op == OP_PUSHDATA2:
		if r.offset+2 > len(r.script) {
			return ParsedOpcode{}, scriptError(ErrPushSize, "truncated PUSHDATA2 length")
		}
		n := int(binary.LittleEndian.Uint16(r.script[r.offset : r.offset+2]))
		r.offset += 2
		return r.readPush(op, n)

	case op == OP_PUSHDATA4:
		if r.offset+4 > len(r.script) {
			return ParsedOpcode{}, scriptError(ErrPushSize, "truncated PUSHDATA4 length")
		}
		n := int(binary.LittleEndian.Uint32(r.script[r.offset : r.offset+4]))
		r.offset += 4
		return r.readPush(op, n)

	default:
		return ParsedOpcode{Opcode: op}, nil
	}
}

func (r *Reader) readPush(op Opcode, n int) (ParsedOpcode, error) {
	if n > MaxScriptElementSize {
		return ParsedOpcode{}, scriptError(ErrPushSize, "push payload exceeds maximum element size")
	}
	if r.offset+n > len(r.script) {
		return ParsedOpcode{}, scriptError(ErrPushSize, "truncated data push")
	}
	data := r.script[r.offset : r.offset+n]
	r.offset += n
	return ParsedOpcode{Opcode: op, Data: data}, nil
}

// Parse decodes the entire script into a slice of ParsedOpcode.
func Parse(s Script) ([]ParsedOpcode, error) {
	r := NewReader(s)
	var ops []ParsedOpcode
	for !r.Done() {
		op, err := r.Next()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// IsPushData reports whether op is any of the opcodes that push data:
// direct pushes, PUSHDATA1/2/4, OP_1NEGATE, OP_0 or OP_1..OP_16. It also
// returns true for OP_RESERVED (0x50), which lies inside that byte range
// but pushes nothing; the engine executes it as a bad opcode.
func IsPushData(op Opcode) bool {
	return op <= OP_16
}

// IsPushOnly reports whether every opcode in s is a data-push opcode
// (≤ OP_16). Used to enforce that the unlock script contains no logic.
func IsPushOnly(s Script) bool {
	ops, err := Parse(s)
	if err != nil {
		return false
	}
	for _, op := range ops {
		if !IsPushData(op.Opcode) {
			return false
		}
	}
	return true
}

// sigOpReturnTag is the literal ASCII "sig" tag that marks a scriptPubKey
// as carrying an out-of-band authorization signature rather than being a
// spendable output.
var sigOpReturnTag = []byte("sig")

// IsSigOpReturn detects the exact pattern [OP_RETURN, 0x03, 's','i','g',
// <push>] and, if matched, returns the following push's payload as the
// signature.
func IsSigOpReturn(s Script) (sig []byte, ok bool) {
	if len(s) < 5 {
		return nil, false
	}
	if Opcode(s[0]) != OP_RETURN {
		return nil, false
	}
	if s[1] != 0x03 {
		return nil, false
	}
	if string(s[2:5]) != string(sigOpReturnTag) {
		return nil, false
	}
	r := &Reader{script: s, offset: 5}
	if r.Done() {
		return nil, false
	}
	next, err := r.Next()
	if err != nil {
		return nil, false
	}
	return next.Data, true
}
