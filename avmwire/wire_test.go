package avmwire

import "testing"

func TestKVRoundTripPreservesOrder(t *testing.T) {
	spaces := []KVSpace{
		{Keyspace: []byte("b"), Items: []KVItem{{Key: []byte("x"), Value: []byte{1}}}},
		{Keyspace: []byte("a"), Items: []KVItem{{Key: []byte("y"), Value: []byte{2}}}},
	}
	m := BuildKVMap(spaces)
	back := kvMapToWire(m)

	if len(back) != 2 || string(back[0].Keyspace) != "b" || string(back[1].Keyspace) != "a" {
		t.Fatalf("expected insertion order to survive round trip, got %+v", back)
	}
}

func TestRequestResponseEncodeDecode(t *testing.T) {
	req := &VerifyRequest{
		Tx:           []byte{0x01, 0x02},
		InputIndex:   0,
		UnlockScript: []byte{},
		LockScript:   []byte{0x51},
		State: StateInput{
			FT: []FTBalance{{ID: make([]byte, 36), Amount: 5}},
		},
	}
	data, err := EncodeRequest(req)
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeRequest(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.State.FT) != 1 || back.State.FT[0].Amount != 5 {
		t.Fatalf("expected FT balance to round trip, got %+v", back.State)
	}

	resp := &VerifyResponse{OK: true, NewStateHash: [32]byte{0xaa}}
	rdata, err := EncodeResponse(resp)
	if err != nil {
		t.Fatal(err)
	}
	rback, err := DecodeResponse(rdata)
	if err != nil {
		t.Fatal(err)
	}
	if !rback.OK || rback.NewStateHash[0] != 0xaa {
		t.Fatalf("expected response to round trip, got %+v", rback)
	}
}
