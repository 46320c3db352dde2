package avmscript

import "bytes"

import "testing"

func TestParsePushes(t *testing.T) {
	s := Script{0x02, 0xaa, 0xbb, byte(OP_1)}
	ops, err := Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(ops))
	}
	if !bytes.Equal(ops[0].Data, []byte{0xaa, 0xbb}) {
		t.Errorf("push data mismatch: %x", ops[0].Data)
	}
	if ops[1].Opcode != OP_1 {
		t.Errorf("expected OP_1, got %v", ops[1].Opcode)
	}
}

func TestIsPushOnly(t *testing.T) {
	push := Script{0x01, 0x01}
	if !IsPushOnly(push) {
		t.Errorf("expected push-only script to be push-only")
	}
	notPush := Script{0x01, 0x01, byte(OP_ADD)}
	if IsPushOnly(notPush) {
		t.Errorf("expected non-push-only script to fail IsPushOnly")
	}
}

func TestIsSigOpReturn(t *testing.T) {
	sig := []byte{0xde, 0xad, 0xbe, 0xef}
	s := Script{}
	s = append(s, byte(OP_RETURN), 0x03, 's', 'i', 'g')
	s = append(s, byte(len(sig)))
	s = append(s, sig...)
	got, ok := IsSigOpReturn(s)
	if !ok {
		t.Fatalf("expected sig-OP_RETURN match")
	}
	if !bytes.Equal(got, sig) {
		t.Errorf("sig mismatch: %x", got)
	}

	notSig := Script{byte(OP_RETURN), 0x03, 'f', 'o', 'o'}
	if _, ok := IsSigOpReturn(notSig); ok {
		t.Errorf("expected no match for non-sig OP_RETURN")
	}
}

func TestPushDataOversizeRejected(t *testing.T) {
	s := Script{byte(OP_PUSHDATA2), 0xff, 0xff}
	if _, err := Parse(s); err == nil {
		t.Errorf("expected error for oversize push")
	}
}
