package verifier

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/atomicals/avm-interpreter/avmctx"
	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmstate"
	"github.com/atomicals/avm-interpreter/avmtx"
	"github.com/atomicals/avm-interpreter/interpreter"
)

func sampleTx() *avmtx.Tx {
	return &avmtx.Tx{
		Version: 1,
		Inputs: []avmtx.TxIn{
			{PrevOut: avmtx.Outpoint{TxID: chainhash.Hash{}, Index: 0}, Sequence: 0xffffffff},
		},
		Outputs: []avmtx.TxOut{
			{Value: 1000, ScriptPubKey: avmscript.Script{}},
		},
		LockTime: 0,
	}
}

func emptyState(t *testing.T) *avmstate.Context {
	t.Helper()
	c, err := avmstate.New(
		avmstate.NewOrderedMap[uint64](),
		avmstate.NewOrderedMap[uint64](),
		avmstate.NewOrderedMap[bool](),
		avmstate.NewOrderedMap[bool](),
		avmstate.NewOrderedMap[*avmstate.OrderedMap[[]byte]](),
		avmstate.NewBlockInfoTable(100),
		avmstate.DefaultLimits(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestVerifyArithmeticSanity(t *testing.T) {
	tx := sampleTx()
	lock := avmscript.Script{byte(avmscript.OP_1), byte(avmscript.OP_2), byte(avmscript.OP_ADD), byte(avmscript.OP_3), byte(avmscript.OP_NUMEQUAL)}
	ctx := avmctx.New(tx, 0, append(avmscript.Script{}, lock...), nil)
	state := emptyState(t)

	out := New().Verify(avmscript.Script{}, lock, interpreter.Flags(0), ctx, state, [32]byte{})
	if !out.OK {
		t.Fatalf("expected success, got script error %v state error %v", out.ScriptError, out.StateError)
	}
}

func TestVerifyKVRoundTrip(t *testing.T) {
	tx := sampleTx()
	// push "k","v" then run OP_KV_PUT(ks=1byte, kn=1byte, value) -- build
	// with keyspace/keyname/value all as single-byte pushes.
	lock := avmscript.Script{
		0x01, 'n', // keyspace "n"
		0x01, 'k', // keyname "k"
		0x01, 'v', // value "v"
		byte(avmscript.OP_KV_PUT),
		0x01, 'n',
		0x01, 'k',
		byte(avmscript.OP_KV_EXISTS),
	}
	ctx := avmctx.New(tx, 0, append(avmscript.Script{}, lock...), nil)
	state := emptyState(t)

	out := New().Verify(avmscript.Script{}, lock, interpreter.Flags(0), ctx, state, [32]byte{})
	if !out.OK {
		t.Fatalf("expected success, got script error %v state error %v", out.ScriptError, out.StateError)
	}
	if out.Snapshot.KVFinal.Len() != 1 {
		t.Errorf("expected one keyspace in final kv state")
	}
}

func TestVerifyRejectsNonPushOnlyUnlock(t *testing.T) {
	tx := sampleTx()
	unlock := avmscript.Script{byte(avmscript.OP_1), byte(avmscript.OP_VERIFY)}
	lock := avmscript.Script{byte(avmscript.OP_1)}
	ctx := avmctx.New(tx, 0, append(append(avmscript.Script{}, unlock...), lock...), nil)
	state := emptyState(t)

	out := New().Verify(unlock, lock, interpreter.Flags(0), ctx, state, [32]byte{})
	if out.OK || out.ScriptError == nil || out.ScriptError.Code != avmscript.ErrSigPushOnly {
		t.Fatalf("expected ErrSigPushOnly, got %+v", out)
	}
}

func TestVerifyRejectsNonZeroFlags(t *testing.T) {
	tx := sampleTx()
	lock := avmscript.Script{byte(avmscript.OP_1)}
	ctx := avmctx.New(tx, 0, lock, nil)
	state := emptyState(t)

	out := New().Verify(avmscript.Script{}, lock, interpreter.Flags(1), ctx, state, [32]byte{})
	if out.OK || out.StateError == nil || out.StateError.Kind != avmstate.KindInvalidFlags {
		t.Fatalf("expected KindInvalidFlags, got %+v", out)
	}
}

func TestVerifyUnbalancedIf(t *testing.T) {
	tx := sampleTx()
	lock := avmscript.Script{byte(avmscript.OP_1), byte(avmscript.OP_IF), byte(avmscript.OP_1)}
	ctx := avmctx.New(tx, 0, lock, nil)
	state := emptyState(t)

	out := New().Verify(avmscript.Script{}, lock, interpreter.Flags(0), ctx, state, [32]byte{})
	if out.OK || out.ScriptError == nil || out.ScriptError.Code != avmscript.ErrUnbalancedConditional {
		t.Fatalf("expected ErrUnbalancedConditional, got %+v", out)
	}
}

func TestVerifyWithdrawTooMuchFails(t *testing.T) {
	tx := sampleTx()
	id := make([]byte, 36)
	for i := range id {
		id[i] = 0x11
	}

	lock := avmscript.Script{}
	lock = append(lock, 0x24) // push 36 bytes
	lock = append(lock, id...)
	lock = append(lock, byte(avmscript.OP_0)) // outIdx = 0
	lock = append(lock, 0x02, 0xe8, 0x03) // amount 1000 (LE sign-magnitude: 0x03e8)
	lock = append(lock, byte(avmscript.OP_FT_WITHDRAW))

	ctx := avmctx.New(tx, 0, lock, nil)
	state := emptyState(t)

	out := New().Verify(avmscript.Script{}, lock, interpreter.Flags(0), ctx, state, [32]byte{})
	if out.OK || out.ScriptError == nil || out.ScriptError.Code != avmscript.ErrAvmWithdrawFT {
		t.Fatalf("expected ErrAvmWithdrawFT, got %+v", out)
	}
}
