package interpreter

import (
	"encoding/binary"

	"github.com/atomicals/avm-interpreter/avmnum"
	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmstate"
)

var stateHandlers = map[avmscript.Opcode]opcodeHandler{
	avmscript.OP_KV_PUT:          opKVPut,
	avmscript.OP_KV_GET:          opKVGet,
	avmscript.OP_KV_EXISTS:       opKVExists,
	avmscript.OP_KV_DELETE:       opKVDelete,
	avmscript.OP_FT_BALANCE_ADD:  opFTBalanceAdd,
	avmscript.OP_FT_WITHDRAW:     opFTWithdraw,
	avmscript.OP_FT_BALANCE:      opFTBalance,
	avmscript.OP_FT_COUNT:        opFTCount,
	avmscript.OP_FT_ITEM:         opFTItem,
	avmscript.OP_NFT_PUT:         opNFTPut,
	avmscript.OP_NFT_WITHDRAW:    opNFTWithdraw,
	avmscript.OP_NFT_EXISTS:      opNFTExists,
	avmscript.OP_NFT_COUNT:       opNFTCount,
	avmscript.OP_NFT_ITEM:        opNFTItem,
	avmscript.OP_GETBLOCKINFO:    opGetBlockInfo,
	avmscript.OP_DECODEBLOCKINFO: opDecodeBlockInfo,
	avmscript.OP_HASH_FN:         opHashFn,
}

func popRef(e *Engine) ([]byte, error) {
	id, err := e.dstack.pop()
	if err != nil {
		return nil, err
	}
	if len(id) != 36 {
		return nil, avmscript.NewError(avmscript.ErrInvalidAtomicalRefSize, "atomical ref must be 36 bytes")
	}
	return id, nil
}

func popBalanceKind(e *Engine) (avmstate.BalanceKind, error) {
	n, err := popNum(e)
	if err != nil {
		return 0, err
	}
	v := n.GetInt()
	if v == 0 {
		return avmstate.BalanceCurrent, nil
	}
	return avmstate.BalanceIncoming, nil
}

// uint64ToVch renders a balance as a script number. AVM balances are
// expected to stay within int64 range in practice; a balance that
// overflows it saturates rather than wrapping.
func uint64ToVch(v uint64) []byte {
	if v > 1<<63-1 {
		return avmnum.FromInt64(9223372036854775807).GetVch()
	}
	return avmnum.FromInt64(int64(v)).GetVch()
}

func opKVPut(e *Engine, pop avmscript.ParsedOpcode) error {
	value, err := e.dstack.pop()
	if err != nil {
		return err
	}
	keyname, err := e.dstack.pop()
	if err != nil {
		return err
	}
	keyspace, err := e.dstack.pop()
	if err != nil {
		return err
	}
	if err := e.state.ValidateKeySize(keyspace, keyname); err != nil {
		return avmscript.NewError(avmscript.ErrAvmStateKeySize, "key exceeds maximum size")
	}
	e.state.Put(keyspace, keyname, value)
	return nil
}

func opKVGet(e *Engine, pop avmscript.ParsedOpcode) error {
	keyname, err := e.dstack.pop()
	if err != nil {
		return err
	}
	keyspace, err := e.dstack.pop()
	if err != nil {
		return err
	}
	v, ok := e.state.Get(keyspace, keyname)
	if !ok {
		return avmscript.NewError(avmscript.ErrAvmStateKeyNotFound, "key not found")
	}
	e.dstack.push(append([]byte{}, v...))
	return nil
}

func opKVExists(e *Engine, pop avmscript.ParsedOpcode) error {
	keyname, err := e.dstack.pop()
	if err != nil {
		return err
	}
	keyspace, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.dstack.push(boolToVch(e.state.Exists(keyspace, keyname)))
	return nil
}

func opKVDelete(e *Engine, pop avmscript.ParsedOpcode) error {
	keyname, err := e.dstack.pop()
	if err != nil {
		return err
	}
	keyspace, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.state.Delete(keyspace, keyname)
	return nil
}

func opFTBalanceAdd(e *Engine, pop avmscript.ParsedOpcode) error {
	id, err := popRef(e)
	if err != nil {
		return err
	}
	if err := e.state.FTBalanceAdd(id); err != nil {
		return avmscript.NewError(avmscript.ErrAvmFTBalanceAddInvalid, "OP_FT_BALANCE_ADD invalid: "+err.Error())
	}
	return nil
}

func opFTWithdraw(e *Engine, pop avmscript.ParsedOpcode) error {
	amountNum, err := popNum(e)
	if err != nil {
		return err
	}
	outIdxNum, err := popNum(e)
	if err != nil {
		return err
	}
	id, err := popRef(e)
	if err != nil {
		return err
	}
	outIdx, err := outIdxNum.GetSizeType()
	if err != nil || outIdx >= len(e.ctx.Tx().Outputs) {
		return avmscript.NewError(avmscript.ErrAvmWithdrawFTOutputIndex, "invalid FT withdraw output index")
	}
	amount, err := amountNum.GetSizeType()
	if err != nil || amount == 0 || int64(amount) > e.ctx.Tx().Outputs[outIdx].Value {
		return avmscript.NewError(avmscript.ErrAvmWithdrawFTAmount, "invalid FT withdraw amount")
	}
	if err := e.state.WithdrawFT(id, uint32(outIdx), uint64(amount)); err != nil {
		return avmscript.NewError(avmscript.ErrAvmWithdrawFT, "OP_FT_WITHDRAW failed: "+err.Error())
	}
	return nil
}

func opFTBalance(e *Engine, pop avmscript.ParsedOpcode) error {
	kind, err := popBalanceKind(e)
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmFTBalanceType, "invalid FT balance kind")
	}
	id, err := popRef(e)
	if err != nil {
		return err
	}
	balance, _ := e.state.FTBalance(id, kind)
	e.dstack.push(uint64ToVch(balance))
	return nil
}

func opFTCount(e *Engine, pop avmscript.ParsedOpcode) error {
	kind, err := popBalanceKind(e)
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmFTCountType, "invalid FT count kind")
	}
	e.dstack.push(avmnum.FromInt64(int64(e.state.FTCount(kind))).GetVch())
	return nil
}

func opFTItem(e *Engine, pop avmscript.ParsedOpcode) error {
	kind, err := popBalanceKind(e)
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmFTItemType, "invalid FT item kind")
	}
	idxNum, err := popNum(e)
	if err != nil {
		return err
	}
	idx, err := idxNum.GetSizeType()
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmFTItemIndex, "invalid FT item index")
	}
	id, amount, ok := e.state.FTItem(idx, kind)
	if !ok {
		return avmscript.NewError(avmscript.ErrAvmFTItemIndex, "FT item index out of range")
	}
	e.dstack.push(append([]byte{}, id...))
	e.dstack.push(uint64ToVch(amount))
	return nil
}

func opNFTPut(e *Engine, pop avmscript.ParsedOpcode) error {
	id, err := popRef(e)
	if err != nil {
		return err
	}
	if err := e.state.NFTPut(id); err != nil {
		return avmscript.NewError(avmscript.ErrAvmNFTPutInvalid, "OP_NFT_PUT invalid: "+err.Error())
	}
	return nil
}

func opNFTWithdraw(e *Engine, pop avmscript.ParsedOpcode) error {
	outIdxNum, err := popNum(e)
	if err != nil {
		return err
	}
	id, err := popRef(e)
	if err != nil {
		return err
	}
	outIdx, err := outIdxNum.GetSizeType()
	if err != nil || outIdx >= len(e.ctx.Tx().Outputs) {
		return avmscript.NewError(avmscript.ErrAvmWithdrawNFTOutputIndex, "invalid NFT withdraw output index")
	}
	if err := e.state.WithdrawNFT(id, uint32(outIdx)); err != nil {
		return avmscript.NewError(avmscript.ErrAvmWithdrawNFT, "OP_NFT_WITHDRAW failed: "+err.Error())
	}
	return nil
}

func opNFTExists(e *Engine, pop avmscript.ParsedOpcode) error {
	kind, err := popBalanceKind(e)
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmNFTExistsType, "invalid NFT exists kind")
	}
	id, err := popRef(e)
	if err != nil {
		return err
	}
	e.dstack.push(boolToVch(e.state.NFTExists(id, kind)))
	return nil
}

func opNFTCount(e *Engine, pop avmscript.ParsedOpcode) error {
	kind, err := popBalanceKind(e)
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmNFTCountType, "invalid NFT count kind")
	}
	e.dstack.push(avmnum.FromInt64(int64(e.state.NFTCount(kind))).GetVch())
	return nil
}

func opNFTItem(e *Engine, pop avmscript.ParsedOpcode) error {
	kind, err := popBalanceKind(e)
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmNFTItemType, "invalid NFT item kind")
	}
	idxNum, err := popNum(e)
	if err != nil {
		return err
	}
	idx, err := idxNum.GetSizeType()
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmNFTItemIndex, "invalid NFT item index")
	}
	id, ok := e.state.NFTItem(idx, kind)
	if !ok {
		return avmscript.NewError(avmscript.ErrAvmNFTItemIndex, "NFT item index out of range")
	}
	e.dstack.push(append([]byte{}, id...))
	return nil
}

func opGetBlockInfo(e *Engine, pop avmscript.ParsedOpcode) error {
	heightNum, err := popNum(e)
	if err != nil {
		return err
	}
	height, err := heightNum.GetSizeType()
	if err != nil {
		return avmscript.NewError(avmscript.ErrAvmInvalidBlockInfoItem, "invalid block height")
	}
	header, ok := e.state.External().Get(uint32(height))
	if !ok {
		return avmscript.NewError(avmscript.ErrAvmInvalidBlockInfoItem, "no block header at requested height")
	}
	e.dstack.push(append([]byte{}, header[:]...))
	return nil
}

// Block header field selectors for OP_DECODEBLOCKINFO, matching the raw
// 80-byte header layout: version(4) || prevBlockHash(32) || merkleRoot(32)
// || time(4) || bits(4) || nonce(4), all little-endian.
const (
	blockFieldVersion = iota
	blockFieldPrevHash
	blockFieldMerkleRoot
	blockFieldTime
	blockFieldBits
	blockFieldNonce
)

func opDecodeBlockInfo(e *Engine, pop avmscript.ParsedOpcode) error {
	fieldNum, err := popNum(e)
	if err != nil {
		return err
	}
	header, err := e.dstack.pop()
	if err != nil {
		return err
	}
	if len(header) != avmstate.BlockHeaderSize {
		return avmscript.NewError(avmscript.ErrAvmBlockHeaderSize, "block header must be 80 bytes")
	}
	field := fieldNum.GetInt()
	switch field {
	case blockFieldVersion:
		e.dstack.push(avmnum.FromInt64(int64(int32(binary.LittleEndian.Uint32(header[0:4])))).GetVch())
	case blockFieldPrevHash:
		e.dstack.push(append([]byte{}, header[4:36]...))
	case blockFieldMerkleRoot:
		e.dstack.push(append([]byte{}, header[36:68]...))
	case blockFieldTime:
		e.dstack.push(avmnum.FromInt64(int64(binary.LittleEndian.Uint32(header[68:72]))).GetVch())
	case blockFieldBits:
		e.dstack.push(avmnum.FromInt64(int64(binary.LittleEndian.Uint32(header[72:76]))).GetVch())
	case blockFieldNonce:
		e.dstack.push(avmnum.FromInt64(int64(binary.LittleEndian.Uint32(header[76:80]))).GetVch())
	default:
		return avmscript.NewError(avmscript.ErrAvmInvalidBlockInfoItem, "unknown block header field selector")
	}
	return nil
}

// Hash-function selectors for OP_HASH_FN.
const (
	hashFnSha3_256 = iota
	hashFnSha512
	hashFnSha512_256
	hashFnEaglesong
	hashFnRipemd160
	hashFnSha1
	hashFnSha256
	hashFnHash160
	hashFnHash256
)

func opHashFn(e *Engine, pop avmscript.ParsedOpcode) error {
	selNum, err := popNum(e)
	if err != nil {
		return err
	}
	data, err := e.dstack.pop()
	if err != nil {
		return err
	}
	switch selNum.GetInt() {
	case hashFnRipemd160:
		h := e.hash.Ripemd160(data)
		e.dstack.push(h[:])
	case hashFnSha1:
		h := e.hash.Sha1(data)
		e.dstack.push(h[:])
	case hashFnSha256:
		h := e.hash.Sha256(data)
		e.dstack.push(h[:])
	case hashFnEaglesong:
		h := e.hash.Eaglesong(data)
		e.dstack.push(h[:])
	case hashFnSha512:
		h := e.hash.Sha512(data)
		e.dstack.push(h[:])
	case hashFnSha512_256:
		h := e.hash.Sha512_256(data)
		e.dstack.push(h[:])
	case hashFnSha3_256:
		h := e.hash.Sha3_256(data)
		e.dstack.push(h[:])
	case hashFnHash160:
		h := e.hash.Hash160(data)
		e.dstack.push(h[:])
	case hashFnHash256:
		h := e.hash.Hash256(data)
		e.dstack.push(h[:])
	default:
		return avmscript.NewError(avmscript.ErrAvmHashFunc, "unknown hash function selector")
	}
	return nil
}
