package avmstate

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// Commit computes the 32-byte chained state commitment binding a
// finalized Snapshot to prevHash, ported line-by-line from the original
// CalculateStateHash: eleven inner SHA-256 hashes concatenated onto
// prevHash in a fixed order, then hashed once more.
func Commit(prevHash [32]byte, snap *Snapshot) [32]byte {
	data := make([]byte, 0, 32*12)
	data = append(data, prevHash[:]...)

	nftIncoming := hashNFTBalance(snap.NFTIncoming)
	ftIncoming := hashFTBalance(snap.FTIncoming)
	kvFinal := hashKVState(snap.KVFinal)
	kvUpdates := hashKVState(snap.KVUpdates)
	kvDeletes := hashKVDeletes(snap.KVDeletes)
	nftFinal := hashNFTBalance(snap.NFTFinal)
	ftFinal := hashFTBalance(snap.FTFinal)
	nftUpdates := hashNFTBalance(snap.NFTUpdates)
	ftUpdates := hashFTBalance(snap.FTUpdates)
	nftWithdraws := hashNFTWithdraws(snap.NFTWithdraws)
	ftWithdraws := hashFTWithdraws(snap.FTWithdraws)

	data = append(data, nftIncoming[:]...)
	data = append(data, ftIncoming[:]...)
	data = append(data, kvFinal[:]...)
	data = append(data, kvUpdates[:]...)
	data = append(data, kvDeletes[:]...)
	data = append(data, nftFinal[:]...)
	data = append(data, ftFinal[:]...)
	data = append(data, nftUpdates[:]...)
	data = append(data, ftUpdates[:]...)
	data = append(data, nftWithdraws[:]...)
	data = append(data, ftWithdraws[:]...)

	return sha256.Sum256(data)
}

// hashKVState hashes a kv/kvUpdates-shaped map: for each outer key in
// order, the hex-decoded keyspace bytes, then for each inner key the
// hex-decoded keyname bytes followed by the raw value bytes.
func hashKVState(m *KVMap) [32]byte {
	var buf []byte
	m.Range(func(ks string, inner *OrderedMap[[]byte]) bool {
		ksBytes, _ := decodeKeyHex(ks)
		buf = append(buf, ksBytes...)
		inner.Range(func(kn string, v []byte) bool {
			knBytes, _ := decodeKeyHex(kn)
			buf = append(buf, knBytes...)
			buf = append(buf, v...)
			return true
		})
		return true
	})
	return sha256.Sum256(buf)
}

// hashKVDeletes hashes a kvDeletes-shaped map: keys only, at both levels.
func hashKVDeletes(m *KVDeleteMap) [32]byte {
	var buf []byte
	m.Range(func(ks string, inner *OrderedMap[bool]) bool {
		ksBytes, _ := decodeKeyHex(ks)
		buf = append(buf, ksBytes...)
		inner.Range(func(kn string, _ bool) bool {
			knBytes, _ := decodeKeyHex(kn)
			buf = append(buf, knBytes...)
			return true
		})
		return true
	})
	return sha256.Sum256(buf)
}

// hashFTBalance hashes an ft-shaped map: id bytes only, values omitted.
func hashFTBalance(m *OrderedMap[uint64]) [32]byte {
	var buf []byte
	m.Range(func(key string, _ uint64) bool {
		idBytes, _ := decodeKeyHex(key)
		buf = append(buf, idBytes...)
		return true
	})
	return sha256.Sum256(buf)
}

// hashNFTBalance hashes an nft-shaped map: id bytes only, values omitted.
func hashNFTBalance(m *OrderedMap[bool]) [32]byte {
	var buf []byte
	m.Range(func(key string, _ bool) bool {
		idBytes, _ := decodeKeyHex(key)
		buf = append(buf, idBytes...)
		return true
	})
	return sha256.Sum256(buf)
}

// hashNFTWithdraws hashes id bytes followed by the little-endian u32
// output index, per key in order.
func hashNFTWithdraws(m *OrderedMap[uint32]) [32]byte {
	var buf []byte
	m.Range(func(key string, outIdx uint32) bool {
		idBytes, _ := decodeKeyHex(key)
		buf = append(buf, idBytes...)
		var le [4]byte
		binary.LittleEndian.PutUint32(le[:], outIdx)
		buf = append(buf, le[:]...)
		return true
	})
	return sha256.Sum256(buf)
}

// hashFTWithdraws hashes id bytes, then for each inner decimal-string
// output index key: little-endian u64 of the parsed index, then
// little-endian u64 of the amount.
func hashFTWithdraws(m *FTWithdrawMap) [32]byte {
	var buf []byte
	m.Range(func(key string, inner *OrderedMap[uint64]) bool {
		idBytes, _ := decodeKeyHex(key)
		buf = append(buf, idBytes...)
		inner.Range(func(outIdxStr string, amount uint64) bool {
			outIdx, _ := strconv.ParseUint(outIdxStr, 10, 64)
			var leIdx, leAmt [8]byte
			binary.LittleEndian.PutUint64(leIdx[:], outIdx)
			binary.LittleEndian.PutUint64(leAmt[:], amount)
			buf = append(buf, leIdx[:]...)
			buf = append(buf, leAmt[:]...)
			return true
		})
		return true
	})
	return sha256.Sum256(buf)
}
