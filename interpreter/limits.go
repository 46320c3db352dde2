package interpreter

// Global execution limits, matching the caps §4.2 places on every script
// run regardless of which opcodes it uses.
const (
	MaxOpCount      = 1000000
	MaxStackDepth   = 1000
	MaxScriptNumLen = 100000
)

// Flags is a bitmask of optional verification behaviors. The reference
// implementation this package is ported from carries a large flag set;
// this AVM profile recognizes none of them; any non-zero value is
// rejected up front by the verifier rather than silently ignored.
type Flags uint32
