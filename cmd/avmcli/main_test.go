package main

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmtx"
	"github.com/atomicals/avm-interpreter/avmwire"
)

func sampleRequest(t *testing.T) *avmwire.VerifyRequest {
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
	txData, err := avmtx.Encode(tx)
	if err != nil {
		t.Fatal(err)
	}

	lock := []byte{byte(avmscript.OP_1), byte(avmscript.OP_2), byte(avmscript.OP_ADD), byte(avmscript.OP_3), byte(avmscript.OP_NUMEQUAL)}
	return &avmwire.VerifyRequest{
		Tx:            txData,
		InputIndex:    0,
		UnlockScript:  []byte{},
		LockScript:    lock,
		CurrentHeight: 100,
	}
}

func TestVerifyRequestSuccess(t *testing.T) {
	req := sampleRequest(t)
	resp := verifyRequest(req)
	if !resp.OK {
		t.Fatalf("expected success, got %+v", resp)
	}
}

func TestVerifyRequestMalformedTx(t *testing.T) {
	req := sampleRequest(t)
	req.Tx = []byte{0xff, 0xff}
	resp := verifyRequest(req)
	if resp.OK || resp.ErrorCode != "ErrMalformedTx" {
		t.Fatalf("expected ErrMalformedTx, got %+v", resp)
	}
}

func TestVerifyRequestFailure(t *testing.T) {
	req := sampleRequest(t)
	req.LockScript = []byte{byte(avmscript.OP_0)}
	resp := verifyRequest(req)
	if resp.OK {
		t.Fatalf("expected failure for OP_0 lock script, got %+v", resp)
	}
	if resp.ErrorCode == "" {
		t.Fatalf("expected an error code to be populated")
	}
}
