package interpreter

import "github.com/atomicals/avm-interpreter/avmscript"

// stack is a simple slice-backed LIFO used for both the main data stack and
// the alt stack, grounded on the equivalent helper in the retrieved
// btcsuite/btcd script engine.
type stack struct {
	items [][]byte
}

func (s *stack) depth() int {
	return len(s.items)
}

func (s *stack) push(v []byte) {
	s.items = append(s.items, v)
}

func (s *stack) pop() ([]byte, error) {
	if len(s.items) == 0 {
		return nil, avmscript.NewError(avmscript.ErrInvalidStackOperation, "pop from empty stack")
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

func (s *stack) peek(fromTop int) ([]byte, error) {
	idx := len(s.items) - 1 - fromTop
	if idx < 0 || idx >= len(s.items) {
		return nil, avmscript.NewError(avmscript.ErrInvalidStackOperation, "peek out of range")
	}
	return s.items[idx], nil
}

func (s *stack) nipAt(fromTop int) error {
	idx := len(s.items) - 1 - fromTop
	if idx < 0 || idx >= len(s.items) {
		return avmscript.NewError(avmscript.ErrInvalidStackOperation, "nip out of range")
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

func (s *stack) insertAt(fromTop int, v []byte) error {
	idx := len(s.items) - fromTop
	if idx < 0 || idx > len(s.items) {
		return avmscript.NewError(avmscript.ErrInvalidStackOperation, "insert out of range")
	}
	s.items = append(s.items, nil)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = v
	return nil
}

// boolToVch/vchToBool implement the canonical script boolean encoding: the
// empty string is false, and any byte string containing a nonzero byte
// (ignoring a single permissible sign bit on the last byte) is true.
func boolToVch(b bool) []byte {
	if !b {
		return []byte{}
	}
	return []byte{0x01}
}

func vchToBool(v []byte) bool {
	for i, b := range v {
		if b == 0 {
			continue
		}
		if i == len(v)-1 && b == 0x80 {
			return false
		}
		return true
	}
	return false
}
