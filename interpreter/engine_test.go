package interpreter

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/atomicals/avm-interpreter/avmctx"
	"github.com/atomicals/avm-interpreter/avmhash"
	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmsig"
	"github.com/atomicals/avm-interpreter/avmstate"
	"github.com/atomicals/avm-interpreter/avmtx"
)

func newEngine() *Engine {
	return New(avmhash.NewDefault(), avmsig.NewDefault())
}

func newContext(t *testing.T, fullScript avmscript.Script) *avmctx.Context {
	t.Helper()
	tx := &avmtx.Tx{
		Version: 1,
		Inputs: []avmtx.TxIn{
			{PrevOut: avmtx.Outpoint{TxID: chainhash.Hash{}, Index: 0}, Sequence: 0xffffffff},
		},
		Outputs: []avmtx.TxOut{
			{Value: 1000, ScriptPubKey: avmscript.Script{}},
		},
	}
	return avmctx.New(tx, 0, fullScript, nil)
}

func newState(t *testing.T) *avmstate.Context {
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

func run(t *testing.T, unlock, lock avmscript.Script) ([][]byte, error) {
	t.Helper()
	ctx := newContext(t, append(append(avmscript.Script{}, unlock...), lock...))
	return newEngine().Run(unlock, lock, ctx, newState(t))
}

func TestEngineArithmetic(t *testing.T) {
	lock := avmscript.Script{byte(avmscript.OP_2), byte(avmscript.OP_3), byte(avmscript.OP_ADD)}
	stack, err := run(t, avmscript.Script{}, lock)
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != 1 || len(stack[0]) != 1 || stack[0][0] != 5 {
		t.Fatalf("expected [5], got %v", stack)
	}
}

func TestEngineIfElse(t *testing.T) {
	lock := avmscript.Script{
		byte(avmscript.OP_0),
		byte(avmscript.OP_IF),
		byte(avmscript.OP_1),
		byte(avmscript.OP_ELSE),
		byte(avmscript.OP_2),
		byte(avmscript.OP_ENDIF),
	}
	stack, err := run(t, avmscript.Script{}, lock)
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != 1 || stack[0][0] != 2 {
		t.Fatalf("expected [2] from the else branch, got %v", stack)
	}
}

func TestEngineMinimalIfRejectsNonMinimalCondition(t *testing.T) {
	lock := avmscript.Script{
		0x01, 0x02, // push {0x02}, not a valid boolean condition
		byte(avmscript.OP_IF),
		byte(avmscript.OP_1),
		byte(avmscript.OP_ENDIF),
	}
	_, err := run(t, avmscript.Script{}, lock)
	serr, ok := err.(*avmscript.Error)
	if !ok || serr.Code != avmscript.ErrMinimalIf {
		t.Fatalf("expected ErrMinimalIf, got %v", err)
	}
}

func TestEngineUnbalancedConditionalRejected(t *testing.T) {
	lock := avmscript.Script{byte(avmscript.OP_1), byte(avmscript.OP_IF), byte(avmscript.OP_1)}
	_, err := run(t, avmscript.Script{}, lock)
	serr, ok := err.(*avmscript.Error)
	if !ok || serr.Code != avmscript.ErrUnbalancedConditional {
		t.Fatalf("expected ErrUnbalancedConditional, got %v", err)
	}
}

func TestEngineOpReturnAlwaysFails(t *testing.T) {
	lock := avmscript.Script{byte(avmscript.OP_RETURN)}
	_, err := run(t, avmscript.Script{}, lock)
	serr, ok := err.(*avmscript.Error)
	if !ok || serr.Code != avmscript.ErrOpReturn {
		t.Fatalf("expected ErrOpReturn, got %v", err)
	}
}

func TestEngineStackDepthLimit(t *testing.T) {
	lock := avmscript.Script{}
	for i := 0; i < MaxStackDepth+1; i++ {
		lock = append(lock, byte(avmscript.OP_1))
	}
	_, err := run(t, avmscript.Script{}, lock)
	serr, ok := err.(*avmscript.Error)
	if !ok || serr.Code != avmscript.ErrStackSize {
		t.Fatalf("expected ErrStackSize, got %v", err)
	}
}

func TestEngineAltStackClearedBetweenScripts(t *testing.T) {
	unlock := avmscript.Script{byte(avmscript.OP_1), byte(avmscript.OP_TOALTSTACK)}
	lock := avmscript.Script{byte(avmscript.OP_FROMALTSTACK)}
	_, err := run(t, unlock, lock)
	serr, ok := err.(*avmscript.Error)
	if !ok || serr.Code != avmscript.ErrInvalidAltStackOperation {
		t.Fatalf("expected the lock script to see an empty altstack, got %v", err)
	}
}

func TestEngineDataStackPersistsBetweenScripts(t *testing.T) {
	unlock := avmscript.Script{byte(avmscript.OP_5)}
	lock := avmscript.Script{byte(avmscript.OP_5), byte(avmscript.OP_NUMEQUAL)}
	stack, err := run(t, unlock, lock)
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != 1 || !vchToBool(stack[0]) {
		t.Fatalf("expected the unlock push to survive into the lock script, got %v", stack)
	}
}

func TestEngineLShiftPreservesLengthAndCrossesByteBoundary(t *testing.T) {
	lock := avmscript.Script{
		0x02, 0x00, 0x01, // push [0x00, 0x01]
		0x01, 0x08, // shift count 8
		byte(avmscript.OP_LSHIFT),
	}
	stack, err := run(t, avmscript.Script{}, lock)
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != 1 || len(stack[0]) != 2 || stack[0][0] != 0x01 || stack[0][1] != 0x00 {
		t.Fatalf("expected [0x01, 0x00], got %v", stack)
	}
}

func TestEngineRShiftPreservesLengthAndCrossesByteBoundary(t *testing.T) {
	lock := avmscript.Script{
		0x02, 0x01, 0x00, // push [0x01, 0x00]
		0x01, 0x08, // shift count 8
		byte(avmscript.OP_RSHIFT),
	}
	stack, err := run(t, avmscript.Script{}, lock)
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != 1 || len(stack[0]) != 2 || stack[0][0] != 0x00 || stack[0][1] != 0x01 {
		t.Fatalf("expected [0x00, 0x01], got %v", stack)
	}
}

func TestEngineShiftByFullWidthZeroesOut(t *testing.T) {
	lock := avmscript.Script{
		0x01, 0xff, // push [0xff]
		0x01, 0x08, // shift count 8 == len*8
		byte(avmscript.OP_LSHIFT),
	}
	stack, err := run(t, avmscript.Script{}, lock)
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != 1 || len(stack[0]) != 1 || stack[0][0] != 0x00 {
		t.Fatalf("expected [0x00], got %v", stack)
	}
}

func TestEngineCheckAuthSigNeitherProvidedPushesFalse(t *testing.T) {
	lock := avmscript.Script{byte(avmscript.OP_CHECKAUTHSIG)}
	stack, err := run(t, avmscript.Script{}, lock)
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != 1 || vchToBool(stack[0]) {
		t.Fatalf("expected [false] when no authorized user is provided, got %v", stack)
	}
}

func TestEngineCheckAuthSigVerifyNeitherProvidedFails(t *testing.T) {
	lock := avmscript.Script{byte(avmscript.OP_CHECKAUTHSIGVERIFY)}
	_, err := run(t, avmscript.Script{}, lock)
	serr, ok := err.(*avmscript.Error)
	if !ok || serr.Code != avmscript.ErrAvmCheckAuthSigVerify {
		t.Fatalf("expected ErrAvmCheckAuthSigVerify, got %v", err)
	}
}

func TestEngineKVPutGetRoundTrip(t *testing.T) {
	lock := avmscript.Script{
		0x01, 'n',
		0x01, 'k',
		0x01, 'v',
		byte(avmscript.OP_KV_PUT),
		0x01, 'n',
		0x01, 'k',
		byte(avmscript.OP_KV_GET),
	}
	stack, err := run(t, avmscript.Script{}, lock)
	if err != nil {
		t.Fatal(err)
	}
	if len(stack) != 1 || string(stack[0]) != "v" {
		t.Fatalf("expected [\"v\"], got %v", stack)
	}
}
