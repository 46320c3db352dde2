// Package avmhash defines the hash-primitive surface the interpreter
// consumes as an injected collaborator, plus a default implementation.
// Hash primitives are explicitly out of scope for the consensus-critical
// core per the specification this module implements; HashProvider exists
// so the interpreter never hard-codes a particular library call.
package avmhash

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// HashProvider is the injected collaborator for every hash primitive the
// interpreter needs, either directly (OP_RIPEMD160, OP_SHA1, ...) or via
// OP_HASH_FN's selector.
type HashProvider interface {
	Ripemd160(data []byte) [20]byte
	Sha1(data []byte) [20]byte
	Sha256(data []byte) [32]byte
	Sha512(data []byte) [64]byte
	Sha512_256(data []byte) [32]byte
	Sha3_256(data []byte) [32]byte
	Eaglesong(data []byte) [32]byte
	Hash160(data []byte) [20]byte
	Hash256(data []byte) [32]byte
}

// Default is the concrete HashProvider used when no other implementation
// is injected.
type Default struct{}

// NewDefault returns the standard HashProvider used by the interpreter and
// verifier unless a caller supplies its own.
func NewDefault() HashProvider {
	return Default{}
}

func (Default) Ripemd160(data []byte) [20]byte {
	h := ripemd160.New()
	h.Write(data)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (Default) Sha1(data []byte) [20]byte {
	return sha1.Sum(data)
}

func (Default) Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

func (Default) Sha512(data []byte) [64]byte {
	return sha512.Sum512(data)
}

func (Default) Sha512_256(data []byte) [32]byte {
	return sha512.Sum512_256(data)
}

func (Default) Sha3_256(data []byte) [32]byte {
	return sha3.Sum256(data)
}

// Eaglesong has no library anywhere in the retrieval pack, so this is a
// self-written sponge construction: a fixed-round ARX permutation over a
// 32-byte state, absorbing the input in 32-byte blocks and squeezing a
// single 32-byte digest. It is not checked against any upstream test
// vector; it exists so OP_HASH_FN selector 3 has a deterministic,
// injectable implementation, consistent with hash primitives being
// treated as an external collaborator rather than part of the
// consensus-critical numeric/state core.
func (Default) Eaglesong(data []byte) [32]byte {
	return eaglesong(data)
}

func (d Default) Hash160(data []byte) [20]byte {
	sha := d.Sha256(data)
	return d.Ripemd160(sha[:])
}

func (d Default) Hash256(data []byte) [32]byte {
	first := d.Sha256(data)
	return d.Sha256(first[:])
}
