// Package avmwire implements the CBOR encoding of the outer verify() call:
// the request (transaction, scripts, flags, prior state) and the response
// (pass/fail, the finalized state deltas, the new commitment hash).
//
// avmstate's maps preserve insertion order in memory, but fxamacker/cbor
// encodes a Go map in its own canonical key order, which would silently
// discard that ordering on the wire. Rather than fight the codec with a
// custom map Marshaler, every ordered map is represented on the wire as a
// CBOR array of key/value structs — arrays already preserve element order,
// so the insertion order survives the round trip for free and struct
// fields decode as plain Go types.
package avmwire

import (
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"github.com/atomicals/avm-interpreter/avmstate"
)

func hexKey(b []byte) string {
	return avmstate.EncodeKeyHex(b)
}

func mustUnhex(s string) []byte {
	b, err := avmstate.DecodeKeyHex(s)
	if err != nil {
		return nil
	}
	return b
}

func parseOutIdx(s string) uint32 {
	v, _ := strconv.ParseUint(s, 10, 32)
	return uint32(v)
}

// KVItem is one keyname/value pair within a keyspace.
type KVItem struct {
	Key   []byte
	Value []byte
}

// KVSpace is one keyspace and its ordered entries.
type KVSpace struct {
	Keyspace []byte
	Items    []KVItem
}

// KVDeleteSpace is one keyspace and the keynames deleted within it.
type KVDeleteSpace struct {
	Keyspace []byte
	Keys     [][]byte
}

// FTBalance is one fungible-token id and its balance.
type FTBalance struct {
	ID     []byte
	Amount uint64
}

// NFTEntry is one non-fungible-token id.
type NFTEntry struct {
	ID []byte
}

// FTWithdraw is one fungible-token withdrawal intent.
type FTWithdraw struct {
	ID     []byte
	Output uint32
	Amount uint64
}

// NFTWithdraw is one non-fungible-token withdrawal intent.
type NFTWithdraw struct {
	ID     []byte
	Output uint32
}

// BlockHeader pairs a height with its raw 80-byte header.
type BlockHeader struct {
	Height uint32
	Raw    []byte
}

// StateInput is the caller-supplied initial contract state for one
// verify() call.
type StateInput struct {
	FT          []FTBalance
	FTIncoming  []FTBalance
	NFT         []NFTEntry
	NFTIncoming []NFTEntry
	KV          []KVSpace
}

// VerifyRequest is the full input to one verify() call.
type VerifyRequest struct {
	Tx            []byte
	InputIndex    uint32
	UnlockScript  []byte
	LockScript    []byte
	AuthPubKey    []byte
	Flags         uint32
	PrevStateHash [32]byte
	CurrentHeight uint32
	BlockHeaders  []BlockHeader
	State         StateInput
}

// VerifyResponse is the full result of one verify() call.
type VerifyResponse struct {
	OK           bool
	ErrorCode    string
	ErrorMessage string

	KVFinal      []KVSpace
	KVUpdates    []KVSpace
	KVDeletes    []KVDeleteSpace
	FTFinal      []FTBalance
	FTUpdates    []FTBalance
	NFTFinal     []NFTEntry
	NFTUpdates   []NFTEntry
	FTWithdraws  []FTWithdraw
	NFTWithdraws []NFTWithdraw
	NewStateHash [32]byte
}

// EncodeRequest serializes r to CBOR.
func EncodeRequest(r *VerifyRequest) ([]byte, error) {
	return cbor.Marshal(r)
}

// DecodeRequest deserializes a VerifyRequest from CBOR.
func DecodeRequest(data []byte) (*VerifyRequest, error) {
	var r VerifyRequest
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// EncodeResponse serializes r to CBOR.
func EncodeResponse(r *VerifyResponse) ([]byte, error) {
	return cbor.Marshal(r)
}

// DecodeResponse deserializes a VerifyResponse from CBOR.
func DecodeResponse(data []byte) (*VerifyResponse, error) {
	var r VerifyResponse
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// BuildKVMap converts a wire-format KV list back into an avmstate.KVMap,
// preserving the array's order as the map's insertion order.
func BuildKVMap(spaces []KVSpace) *avmstate.KVMap {
	m := avmstate.NewOrderedMap[*avmstate.OrderedMap[[]byte]]()
	for _, space := range spaces {
		inner := avmstate.NewOrderedMap[[]byte]()
		for _, item := range space.Items {
			inner.Set(hexKey(item.Key), item.Value)
		}
		m.Set(hexKey(space.Keyspace), inner)
	}
	return m
}

// BuildFTMap converts a wire-format FT balance list into an ordered map.
func BuildFTMap(entries []FTBalance) *avmstate.OrderedMap[uint64] {
	m := avmstate.NewOrderedMap[uint64]()
	for _, e := range entries {
		m.Set(hexKey(e.ID), e.Amount)
	}
	return m
}

// BuildNFTMap converts a wire-format NFT id list into an ordered map.
func BuildNFTMap(entries []NFTEntry) *avmstate.OrderedMap[bool] {
	m := avmstate.NewOrderedMap[bool]()
	for _, e := range entries {
		m.Set(hexKey(e.ID), true)
	}
	return m
}

// BuildBlockInfoTable converts the wire-format sparse header list into a
// BlockInfoTable at the given current height.
func BuildBlockInfoTable(currentHeight uint32, headers []BlockHeader) *avmstate.BlockInfoTable {
	t := avmstate.NewBlockInfoTable(currentHeight)
	for _, h := range headers {
		var raw [avmstate.BlockHeaderSize]byte
		copy(raw[:], h.Raw)
		t.Put(h.Height, raw)
	}
	return t
}

// SnapshotToWire converts a finalized avmstate.Snapshot into the
// wire-format response fields, preserving each map's insertion order as
// the resulting array's element order.
func SnapshotToWire(snap *avmstate.Snapshot) (kvFinal, kvUpdates []KVSpace, kvDeletes []KVDeleteSpace, ftFinal, ftUpdates []FTBalance, nftFinal, nftUpdates []NFTEntry, ftWithdraws []FTWithdraw, nftWithdraws []NFTWithdraw) {
	kvFinal = kvMapToWire(snap.KVFinal)
	kvUpdates = kvMapToWire(snap.KVUpdates)
	kvDeletes = kvDeleteMapToWire(snap.KVDeletes)
	ftFinal = ftMapToWire(snap.FTFinal)
	ftUpdates = ftMapToWire(snap.FTUpdates)
	nftFinal = nftMapToWire(snap.NFTFinal)
	nftUpdates = nftMapToWire(snap.NFTUpdates)
	ftWithdraws = ftWithdrawMapToWire(snap.FTWithdraws)
	nftWithdraws = nftWithdrawMapToWire(snap.NFTWithdraws)
	return
}

func kvMapToWire(m *avmstate.KVMap) []KVSpace {
	var out []KVSpace
	m.Range(func(ks string, inner *avmstate.OrderedMap[[]byte]) bool {
		space := KVSpace{Keyspace: mustUnhex(ks)}
		inner.Range(func(kn string, v []byte) bool {
			space.Items = append(space.Items, KVItem{Key: mustUnhex(kn), Value: v})
			return true
		})
		out = append(out, space)
		return true
	})
	return out
}

func kvDeleteMapToWire(m *avmstate.KVDeleteMap) []KVDeleteSpace {
	var out []KVDeleteSpace
	m.Range(func(ks string, inner *avmstate.OrderedMap[bool]) bool {
		space := KVDeleteSpace{Keyspace: mustUnhex(ks)}
		inner.Range(func(kn string, _ bool) bool {
			space.Keys = append(space.Keys, mustUnhex(kn))
			return true
		})
		out = append(out, space)
		return true
	})
	return out
}

func ftMapToWire(m *avmstate.OrderedMap[uint64]) []FTBalance {
	var out []FTBalance
	m.Range(func(key string, amount uint64) bool {
		out = append(out, FTBalance{ID: mustUnhex(key), Amount: amount})
		return true
	})
	return out
}

func nftMapToWire(m *avmstate.OrderedMap[bool]) []NFTEntry {
	var out []NFTEntry
	m.Range(func(key string, present bool) bool {
		if present {
			out = append(out, NFTEntry{ID: mustUnhex(key)})
		}
		return true
	})
	return out
}

func ftWithdrawMapToWire(m *avmstate.FTWithdrawMap) []FTWithdraw {
	var out []FTWithdraw
	m.Range(func(key string, inner *avmstate.OrderedMap[uint64]) bool {
		id := mustUnhex(key)
		inner.Range(func(outIdxStr string, amount uint64) bool {
			out = append(out, FTWithdraw{ID: id, Output: parseOutIdx(outIdxStr), Amount: amount})
			return true
		})
		return true
	})
	return out
}

func nftWithdrawMapToWire(m *avmstate.OrderedMap[uint32]) []NFTWithdraw {
	var out []NFTWithdraw
	m.Range(func(key string, outIdx uint32) bool {
		out = append(out, NFTWithdraw{ID: mustUnhex(key), Output: outIdx})
		return true
	})
	return out
}
