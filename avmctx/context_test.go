package avmctx

import (
	"bytes"
	"testing"

	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmtx"
)

func TestAuthMessageSkipsSigOpReturn(t *testing.T) {
	tx := &avmtx.Tx{
		Inputs: []avmtx.TxIn{
			{PrevOut: avmtx.Outpoint{Index: 7}},
		},
		Outputs: []avmtx.TxOut{
			{Value: 1000, ScriptPubKey: avmscript.Script{0x51}},
			{Value: 0, ScriptPubKey: mustSigOpReturn([]byte{0x01, 0x02})},
		},
	}
	ctx := New(tx, 0, avmscript.Script{0x51, 0x51}, nil)
	msg := ctx.AuthMessage()

	if !bytes.HasPrefix(msg, tx.Inputs[0].PrevOut.TxID[:]) {
		t.Errorf("expected message to start with prevTxId")
	}
	if bytes.Contains(msg, mustSigOpReturn([]byte{0x01, 0x02})) {
		t.Errorf("sig-OP_RETURN output should have been excluded from the auth message")
	}
}

func mustSigOpReturn(sig []byte) avmscript.Script {
	s := avmscript.Script{}
	s = append(s, byte(avmscript.OP_RETURN), 0x03, 's', 'i', 'g')
	s = append(s, byte(len(sig)))
	s = append(s, sig...)
	return s
}
