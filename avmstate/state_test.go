package avmstate

import "testing"

func sampleId(b byte) []byte {
	id := make([]byte, 36)
	for i := range id {
		id[i] = b
	}
	return id
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	c, err := New(
		NewOrderedMap[uint64](),
		NewOrderedMap[uint64](),
		NewOrderedMap[bool](),
		NewOrderedMap[bool](),
		NewOrderedMap[*OrderedMap[[]byte]](),
		NewBlockInfoTable(100),
		DefaultLimits(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestKVPutGetDeleteTransactional(t *testing.T) {
	c := newTestContext(t)
	c.Put([]byte("ns"), []byte("k"), []byte{0x01})

	v, ok := c.Get([]byte("ns"), []byte("k"))
	if !ok || v[0] != 0x01 {
		t.Fatalf("expected value to be readable after put")
	}

	c.Delete([]byte("ns"), []byte("k"))
	if c.Exists([]byte("ns"), []byte("k")) {
		t.Errorf("expected key to be gone after delete")
	}
	inner, ok := c.kvDeletes.Get(encodeKeyHex([]byte("ns")))
	if !ok || !inner.Has(encodeKeyHex([]byte("k"))) {
		t.Errorf("expected delete marker to be recorded")
	}
}

func TestFTBalanceAddConsumesOnce(t *testing.T) {
	c := newTestContext(t)
	id := sampleId(0xaa)
	c.ftIncoming.Set(encodeKeyHex(id), 100)

	if err := c.FTBalanceAdd(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bal, ok := c.FTBalance(id, BalanceCurrent)
	if !ok || bal != 100 {
		t.Fatalf("expected balance 100, got %d ok=%v", bal, ok)
	}

	if err := c.FTBalanceAdd(id); err != ErrAlreadyConsumed {
		t.Errorf("expected ErrAlreadyConsumed on second add, got %v", err)
	}
}

func TestFTBalanceAddZeroIncomingFails(t *testing.T) {
	c := newTestContext(t)
	id := sampleId(0xbb)
	c.ftIncoming.Set(encodeKeyHex(id), 0)
	if err := c.FTBalanceAdd(id); err != ErrNotIncomingOrZero {
		t.Errorf("expected ErrNotIncomingOrZero, got %v", err)
	}
}

func TestWithdrawFTRemovesZeroBalance(t *testing.T) {
	c := newTestContext(t)
	id := sampleId(0xcc)
	key := encodeKeyHex(id)
	c.ft.Set(key, 50)

	if err := c.WithdrawFT(id, 0, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.ft.Get(key); ok {
		t.Errorf("expected balance to be fully removed after withdrawal")
	}
	inner, ok := c.ftWithdrawMap.Get(key)
	if !ok || inner.Len() != 1 {
		t.Fatalf("expected one withdraw intent recorded")
	}
}

func TestNFTPutIdempotence(t *testing.T) {
	c := newTestContext(t)
	id := sampleId(0xdd)
	c.nftIncoming.Set(encodeKeyHex(id), true)

	if err := c.NFTPut(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.NFTPut(id); err != ErrAlreadyConsumed {
		t.Errorf("expected ErrAlreadyConsumed on second put, got %v", err)
	}
}

func TestFinalizeSizeCap(t *testing.T) {
	c := newTestContext(t)
	c.limits.MaxStateFinalBytes = 1
	c.Put([]byte("ns"), []byte("k"), []byte{0x01, 0x02, 0x03})

	_, err := c.Finalize()
	serr, ok := err.(*Error)
	if !ok || serr.Kind != KindStateSize {
		t.Fatalf("expected KindStateSize error, got %v", err)
	}
}

func TestCommitDeterministic(t *testing.T) {
	c := newTestContext(t)
	c.Put([]byte("ns"), []byte("k"), []byte{0x01})
	snap, err := c.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	var prev [32]byte
	h1 := Commit(prev, snap)
	h2 := Commit(prev, snap)
	if h1 != h2 {
		t.Errorf("Commit should be deterministic for identical inputs")
	}
}
