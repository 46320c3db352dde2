package avmtx

import (
	"bytes"
	"testing"
)

func sampleTx() *Tx {
	return &Tx{
		Version: 1,
		Inputs: []TxIn{
			{
				PrevOut:   Outpoint{Index: 0},
				ScriptSig: []byte{0x01, 0x02},
				Sequence:  0xffffffff,
			},
		},
		Outputs: []TxOut{
			{Value: 5000, ScriptPubKey: []byte{0x51}},
		},
		LockTime: 0,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tx := sampleTx()
	data, err := Encode(tx)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != tx.Version || got.LockTime != tx.LockTime {
		t.Errorf("header mismatch")
	}
	if len(got.Inputs) != 1 || len(got.Outputs) != 1 {
		t.Fatalf("count mismatch")
	}
	if !bytes.Equal(got.Inputs[0].ScriptSig, tx.Inputs[0].ScriptSig) {
		t.Errorf("scriptSig mismatch")
	}
	if got.Outputs[0].Value != tx.Outputs[0].Value {
		t.Errorf("value mismatch")
	}
}

func TestDecodeWitnessAllEmptyRejected(t *testing.T) {
	data := []byte{
		0x01, 0x00, 0x00, 0x00, // version
		0x00, 0x01, // marker, flag
		0x00,                   // 0 inputs
		0x00,                   // 0 outputs
		0x00, 0x00, 0x00, 0x00, // locktime
	}
	if _, err := Decode(data); err == nil {
		t.Errorf("expected error for witness flag with no inputs")
	}
}
