package avmtx

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrNonCanonicalVarInt is returned when a CompactSize varint uses a wider
// encoding than its value requires.
var ErrNonCanonicalVarInt = errors.New("avmtx: non-canonical varint encoding")

// readCompactSize reads a Bitcoin CompactSize-encoded unsigned integer,
// the same varint idiom the teacher's btcd/wire package uses throughout
// its message codecs.
func readCompactSize(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}
	switch prefix[0] {
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < 0x100000000 {
			return 0, ErrNonCanonicalVarInt
		}
		return v, nil
	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint32(buf[:])
		if v < 0x10000 {
			return 0, ErrNonCanonicalVarInt
		}
		return uint64(v), nil
	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint16(buf[:])
		if v < 0xfd {
			return 0, ErrNonCanonicalVarInt
		}
		return uint64(v), nil
	default:
		return uint64(prefix[0]), nil
	}
}

func writeCompactSize(w io.Writer, v uint64) error {
	switch {
	case v < 0xfd:
		_, err := w.Write([]byte{byte(v)})
		return err
	case v <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(v))
		_, err := w.Write(buf)
		return err
	case v <= 0xffffffff:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(v))
		_, err := w.Write(buf)
		return err
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], v)
		_, err := w.Write(buf)
		return err
	}
}
