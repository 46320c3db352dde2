// Package avmtx implements the read-only transaction view the interpreter's
// introspection opcodes and the authorization sub-protocol consume, plus a
// decoder for the Bitcoin extended transaction wire format.
package avmtx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/atomicals/avm-interpreter/avmscript"
)

// ErrWitnessFlagAllEmpty is returned when a transaction declares the
// witness marker/flag but every input's witness stack is empty.
var ErrWitnessFlagAllEmpty = errors.New("avmtx: witness flag set but all witness stacks empty")

// Outpoint identifies the previous output an input spends.
type Outpoint struct {
	TxID  chainhash.Hash
	Index uint32
}

// TxIn is one transaction input.
type TxIn struct {
	PrevOut   Outpoint
	ScriptSig avmscript.Script
	Sequence  uint32
	Witness   [][]byte
}

// TxOut is one transaction output.
type TxOut struct {
	Value        int64
	ScriptPubKey avmscript.Script
}

// Tx is the read-only transaction view exposed to script introspection
// opcodes.
type Tx struct {
	Version  int32
	Inputs   []TxIn
	Outputs  []TxOut
	LockTime uint32
}

// Decode parses the Bitcoin extended transaction serialization: nVersion,
// an optional 00-marker/flag witness prefix, vin, vout, per-input witness
// stacks when the flag bit is set, then nLockTime.
func Decode(data []byte) (*Tx, error) {
	r := bytes.NewReader(data)
	tx := &Tx{}

	var version [4]byte
	if _, err := io.ReadFull(r, version[:]); err != nil {
		return nil, err
	}
	tx.Version = int32(binary.LittleEndian.Uint32(version[:]))

	hasWitness := false
	firstByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if firstByte == 0x00 {
		flag, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if flag == 0x00 {
			return nil, errors.New("avmtx: invalid witness flag 0x00")
		}
		hasWitness = flag&0x01 != 0
	} else {
		if err := r.UnreadByte(); err != nil {
			return nil, err
		}
	}

	inCount, err := readCompactSize(r)
	if err != nil {
		return nil, err
	}
	tx.Inputs = make([]TxIn, inCount)
	for i := range tx.Inputs {
		if err := decodeTxIn(r, &tx.Inputs[i]); err != nil {
			return nil, err
		}
	}

	outCount, err := readCompactSize(r)
	if err != nil {
		return nil, err
	}
	tx.Outputs = make([]TxOut, outCount)
	for i := range tx.Outputs {
		if err := decodeTxOut(r, &tx.Outputs[i]); err != nil {
			return nil, err
		}
	}

	if hasWitness {
		anyNonEmpty := false
		for i := range tx.Inputs {
			n, err := readCompactSize(r)
			if err != nil {
				return nil, err
			}
			witness := make([][]byte, n)
			for j := range witness {
				itemLen, err := readCompactSize(r)
				if err != nil {
					return nil, err
				}
				item := make([]byte, itemLen)
				if _, err := io.ReadFull(r, item); err != nil {
					return nil, err
				}
				witness[j] = item
			}
			if len(witness) > 0 {
				anyNonEmpty = true
			}
			tx.Inputs[i].Witness = witness
		}
		if !anyNonEmpty {
			return nil, ErrWitnessFlagAllEmpty
		}
	}

	var lockTime [4]byte
	if _, err := io.ReadFull(r, lockTime[:]); err != nil {
		return nil, err
	}
	tx.LockTime = binary.LittleEndian.Uint32(lockTime[:])

	return tx, nil
}

func decodeTxIn(r io.Reader, in *TxIn) error {
	var txid [32]byte
	if _, err := io.ReadFull(r, txid[:]); err != nil {
		return err
	}
	in.PrevOut.TxID = chainhash.Hash(txid)

	var idx [4]byte
	if _, err := io.ReadFull(r, idx[:]); err != nil {
		return err
	}
	in.PrevOut.Index = binary.LittleEndian.Uint32(idx[:])

	scriptLen, err := readCompactSize(r)
	if err != nil {
		return err
	}
	script := make([]byte, scriptLen)
	if _, err := io.ReadFull(r, script); err != nil {
		return err
	}
	in.ScriptSig = avmscript.Script(script)

	var seq [4]byte
	if _, err := io.ReadFull(r, seq[:]); err != nil {
		return err
	}
	in.Sequence = binary.LittleEndian.Uint32(seq[:])
	return nil
}

func decodeTxOut(r io.Reader, out *TxOut) error {
	var value [8]byte
	if _, err := io.ReadFull(r, value[:]); err != nil {
		return err
	}
	out.Value = int64(binary.LittleEndian.Uint64(value[:]))

	scriptLen, err := readCompactSize(r)
	if err != nil {
		return err
	}
	script := make([]byte, scriptLen)
	if _, err := io.ReadFull(r, script); err != nil {
		return err
	}
	out.ScriptPubKey = avmscript.Script(script)
	return nil
}

// Encode serializes tx back to the non-witness (legacy) wire form; used by
// tests and by callers that need to recompute a txid.
func Encode(tx *Tx) ([]byte, error) {
	buf := &bytes.Buffer{}
	var version [4]byte
	binary.LittleEndian.PutUint32(version[:], uint32(tx.Version))
	buf.Write(version[:])

	if err := writeCompactSize(buf, uint64(len(tx.Inputs))); err != nil {
		return nil, err
	}
	for _, in := range tx.Inputs {
		buf.Write(in.PrevOut.TxID[:])
		var idx [4]byte
		binary.LittleEndian.PutUint32(idx[:], in.PrevOut.Index)
		buf.Write(idx[:])
		if err := writeCompactSize(buf, uint64(len(in.ScriptSig))); err != nil {
			return nil, err
		}
		buf.Write(in.ScriptSig)
		var seq [4]byte
		binary.LittleEndian.PutUint32(seq[:], in.Sequence)
		buf.Write(seq[:])
	}

	if err := writeCompactSize(buf, uint64(len(tx.Outputs))); err != nil {
		return nil, err
	}
	for _, out := range tx.Outputs {
		var value [8]byte
		binary.LittleEndian.PutUint64(value[:], uint64(out.Value))
		buf.Write(value[:])
		if err := writeCompactSize(buf, uint64(len(out.ScriptPubKey))); err != nil {
			return nil, err
		}
		buf.Write(out.ScriptPubKey)
	}

	var lockTime [4]byte
	binary.LittleEndian.PutUint32(lockTime[:], tx.LockTime)
	buf.Write(lockTime[:])

	return buf.Bytes(), nil
}
