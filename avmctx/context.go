// Package avmctx implements the per-input execution context: the handle
// that exposes the transaction, the concatenated unlock+lock script, and
// the authorization message assembly OP_CHECKAUTHSIG signs over.
package avmctx

import (
	"encoding/binary"

	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmtx"
)

// Context is the per-input handle passed into the interpreter.
type Context struct {
	tx         *avmtx.Tx
	inputIndex int
	fullScript avmscript.Script
	authPubKey []byte
}

// New returns a Context for verifying inputIndex of tx, where fullScript
// is the concatenation of the executed unlock and lock scripts and
// authPubKey is the out-of-band authorization public key supplied on the
// verification call (nil if none was supplied).
func New(tx *avmtx.Tx, inputIndex int, fullScript avmscript.Script, authPubKey []byte) *Context {
	return &Context{
		tx:         tx,
		inputIndex: inputIndex,
		fullScript: fullScript,
		authPubKey: authPubKey,
	}
}

// Tx returns the transaction being verified.
func (c *Context) Tx() *avmtx.Tx {
	return c.tx
}

// InputIndex returns the index of the input under verification.
func (c *Context) InputIndex() int {
	return c.inputIndex
}

// AuthPubKey returns the out-of-band authorization public key, and whether
// one was supplied.
func (c *Context) AuthPubKey() ([]byte, bool) {
	if c.authPubKey == nil {
		return nil, false
	}
	return c.authPubKey, true
}

// AuthSig scans the transaction's outputs for the first sig-OP_RETURN
// pattern and returns its payload, and whether one was found.
func (c *Context) AuthSig() ([]byte, bool) {
	for _, out := range c.tx.Outputs {
		if sig, ok := avmscript.IsSigOpReturn(out.ScriptPubKey); ok {
			return sig, true
		}
	}
	return nil, false
}

// AuthMessage assembles the canonical byte string OP_CHECKAUTHSIG verifies
// the signature over:
//
//	prevTxId(input 0) || prevIndex_le32(input 0) || fullScript ||
//	for each output i, if not a sig-OP_RETURN: value_le64 || scriptPubKey
func (c *Context) AuthMessage() []byte {
	var msg []byte

	in0 := c.tx.Inputs[0]
	msg = append(msg, in0.PrevOut.TxID[:]...)

	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], in0.PrevOut.Index)
	msg = append(msg, idx[:]...)

	msg = append(msg, c.fullScript...)

	for _, out := range c.tx.Outputs {
		if _, ok := avmscript.IsSigOpReturn(out.ScriptPubKey); ok {
			continue
		}
		var value [8]byte
		binary.LittleEndian.PutUint64(value[:], uint64(out.Value))
		msg = append(msg, value[:]...)
		msg = append(msg, out.ScriptPubKey...)
	}

	return msg
}
