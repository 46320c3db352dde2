package avmstate

import "errors"

// Limits bounds the serialized byte size of the state maps checked at
// finalization. constants.h in the original source (not present in the
// retrieval pack) defines these; the values below default to 128 KiB per
// the specification's own stated order-of-magnitude guidance, and are
// exposed here so a deployment can override them consistently.
type Limits struct {
	MaxStateFinalBytes      int
	MaxStateUpdateBytes     int
	MaxBalancesBytes        int
	MaxBalancesUpdateBytes  int
	MaxStateKeySize         int
}

// DefaultLimits returns the module's default size caps.
func DefaultLimits() Limits {
	const defaultCap = 128 * 1024
	return Limits{
		MaxStateFinalBytes:     defaultCap,
		MaxStateUpdateBytes:    defaultCap,
		MaxBalancesBytes:       defaultCap,
		MaxBalancesUpdateBytes: defaultCap,
		MaxStateKeySize:        1024,
	}
}

var errBadHexKey = errors.New("avmstate: key is not a minimally-encoded even-length hex string")

// validateHexKey enforces §3's map-key invariant: minimally-encoded hex
// strings of even length ≥ 2, using only lowercase digits.
func validateHexKey(s string) error {
	if len(s) < 2 || len(s)%2 != 0 {
		return errBadHexKey
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return errBadHexKey
		}
	}
	return nil
}

// hexEmptyKey is the canonical serialized form of an empty byte-key.
const hexEmptyKey = "00"

// encodeKeyHex renders raw key bytes into the canonical hex form used as a
// map key, applying the empty-key special case from §3.
func encodeKeyHex(b []byte) string {
	if len(b) == 0 {
		return hexEmptyKey
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xf]
	}
	return string(out)
}

// EncodeKeyHex is the exported form of encodeKeyHex, for wire-format
// packages that must produce map keys identical to the ones state
// operations use internally.
func EncodeKeyHex(b []byte) string {
	return encodeKeyHex(b)
}

// DecodeKeyHex is the exported form of decodeKeyHex.
func DecodeKeyHex(s string) ([]byte, error) {
	return decodeKeyHex(s)
}

func decodeKeyHex(s string) ([]byte, error) {
	if err := validateHexKey(s); err != nil {
		return nil, err
	}
	if s == hexEmptyKey {
		return []byte{}, nil
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, errBadHexKey
	}
}
