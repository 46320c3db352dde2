// Package avmstate implements the transactional contract-state layer: FT
// and NFT balances, the key/value store, withdrawal intents, and the
// external block-info table, together with the invariants, cleanup pass
// and finalization checks that feed the state commitment hash.
package avmstate

import (
	"errors"
	"strconv"
)

// Sentinel errors returned by the balance/withdraw operations. The
// interpreter maps these onto the corresponding avmscript.ErrorCode.
var (
	ErrInvalidRefSize      = errors.New("avmstate: atomical ref must be 36 bytes")
	ErrAlreadyConsumed     = errors.New("avmstate: incoming token already consumed this execution")
	ErrNotIncomingOrZero   = errors.New("avmstate: token not incoming, or incoming amount is zero")
	ErrNotIncomingOrFalse  = errors.New("avmstate: token not incoming, or incoming flag is false")
	ErrInsufficientBalance = errors.New("avmstate: insufficient balance for withdrawal")
	ErrNotFound            = errors.New("avmstate: token not found")
	ErrKeyTooLarge         = errors.New("avmstate: keyspace or key exceeds the maximum key size")
)

// KVMap is the outer->inner ordered map shape used by kv and kvUpdates:
// keyspace hex -> (keyname hex -> value bytes).
type KVMap = OrderedMap[*OrderedMap[[]byte]]

// KVDeleteMap is the outer->inner ordered map shape used by kvDeletes:
// keyspace hex -> (keyname hex -> true).
type KVDeleteMap = OrderedMap[*OrderedMap[bool]]

// FTWithdrawMap is tokenIdHex -> (outputIndexDecimalString -> amount).
type FTWithdrawMap = OrderedMap[*OrderedMap[uint64]]

// Context is the transactional contract-state layer for a single
// verification call.
type Context struct {
	ft         *OrderedMap[uint64]
	ftIncoming *OrderedMap[uint64]
	nft        *OrderedMap[bool]
	nftIncoming *OrderedMap[bool]

	kv         *KVMap
	kvUpdates  *KVMap
	kvDeletes  *KVDeleteMap

	ftUpdates  *OrderedMap[uint64]
	nftUpdates *OrderedMap[bool]

	ftAddsSet  map[string]bool
	nftPutsSet map[string]bool

	ftWithdrawMap  *FTWithdrawMap
	nftWithdrawMap *OrderedMap[uint32]

	external *BlockInfoTable
	limits   Limits
}

// New constructs a Context from the four balance maps and the initial kv
// state, validating the format invariants from §3 on every input map.
func New(ft, ftIncoming *OrderedMap[uint64], nft, nftIncoming *OrderedMap[bool], kv *KVMap, external *BlockInfoTable, limits Limits) (*Context, error) {
	if err := validateFTFormat(ft, false); err != nil {
		return nil, err
	}
	if err := validateFTFormat(ftIncoming, true); err != nil {
		return nil, err
	}
	if err := validateNFTFormat(nft, false); err != nil {
		return nil, err
	}
	if err := validateNFTFormat(nftIncoming, true); err != nil {
		return nil, err
	}
	if err := validateKVFormat(kv); err != nil {
		return nil, err
	}

	c := &Context{
		ft:             ft,
		ftIncoming:     ftIncoming,
		nft:            nft,
		nftIncoming:    nftIncoming,
		kv:             kv,
		kvUpdates:      NewOrderedMap[*OrderedMap[[]byte]](),
		kvDeletes:      NewOrderedMap[*OrderedMap[bool]](),
		ftUpdates:      NewOrderedMap[uint64](),
		nftUpdates:     NewOrderedMap[bool](),
		ftAddsSet:      make(map[string]bool),
		nftPutsSet:     make(map[string]bool),
		ftWithdrawMap:  NewOrderedMap[*OrderedMap[uint64]](),
		nftWithdrawMap: NewOrderedMap[uint32](),
		external:       external,
		limits:         limits,
	}
	return c, nil
}

func validateFTFormat(m *OrderedMap[uint64], allowZero bool) error {
	var err error
	m.Range(func(key string, v uint64) bool {
		if e := validateHexKey(key); e != nil {
			err = e
			return false
		}
		if v == 0 && !allowZero {
			err = errors.New("avmstate: ft balance must be non-zero")
			return false
		}
		return true
	})
	return err
}

func validateNFTFormat(m *OrderedMap[bool], allowFalse bool) error {
	var err error
	m.Range(func(key string, v bool) bool {
		if e := validateHexKey(key); e != nil {
			err = e
			return false
		}
		if !v && !allowFalse {
			err = errors.New("avmstate: nft entry must be true")
			return false
		}
		return true
	})
	return err
}

func validateKVFormat(kv *KVMap) error {
	var err error
	kv.Range(func(ks string, inner *OrderedMap[[]byte]) bool {
		if e := validateHexKey(ks); e != nil {
			err = e
			return false
		}
		inner.Range(func(kn string, _ []byte) bool {
			if e := validateHexKey(kn); e != nil {
				err = e
				return false
			}
			return true
		})
		return err == nil
	})
	return err
}

// ValidateKeySize enforces the 1024-byte keyspace/key cap OP_KV_PUT checks
// before mutating state.
func (c *Context) ValidateKeySize(keyspace, keyname []byte) error {
	if len(keyspace) > c.limits.MaxStateKeySize || len(keyname) > c.limits.MaxStateKeySize {
		return ErrKeyTooLarge
	}
	return nil
}

// Put sets kv[keyspace][keyname] = value, marks it as an update, and
// clears any pending delete marker for the same key.
func (c *Context) Put(keyspace, keyname, value []byte) {
	ks := encodeKeyHex(keyspace)
	kn := encodeKeyHex(keyname)

	inner, ok := c.kv.Get(ks)
	if !ok {
		inner = NewOrderedMap[[]byte]()
		c.kv.Set(ks, inner)
	}
	inner.Set(kn, value)

	updInner, ok := c.kvUpdates.Get(ks)
	if !ok {
		updInner = NewOrderedMap[[]byte]()
		c.kvUpdates.Set(ks, updInner)
	}
	updInner.Set(kn, value)

	if delInner, ok := c.kvDeletes.Get(ks); ok {
		delInner.Delete(kn)
	}
}

// Get returns kv[keyspace][keyname] and whether it exists.
func (c *Context) Get(keyspace, keyname []byte) ([]byte, bool) {
	ks := encodeKeyHex(keyspace)
	kn := encodeKeyHex(keyname)
	inner, ok := c.kv.Get(ks)
	if !ok {
		return nil, false
	}
	return inner.Get(kn)
}

// Exists reports whether kv[keyspace][keyname] is present.
func (c *Context) Exists(keyspace, keyname []byte) bool {
	_, ok := c.Get(keyspace, keyname)
	return ok
}

// Delete removes kv[keyspace][keyname] and any pending update, and marks
// it as deleted.
func (c *Context) Delete(keyspace, keyname []byte) {
	ks := encodeKeyHex(keyspace)
	kn := encodeKeyHex(keyname)

	if inner, ok := c.kv.Get(ks); ok {
		inner.Delete(kn)
	}
	if inner, ok := c.kvUpdates.Get(ks); ok {
		inner.Delete(kn)
	}
	delInner, ok := c.kvDeletes.Get(ks)
	if !ok {
		delInner = NewOrderedMap[bool]()
		c.kvDeletes.Set(ks, delInner)
	}
	delInner.Set(kn, true)
}

// BalanceKind is the current/incoming selector shared by the FT and NFT
// balance, count and item opcodes.
type BalanceKind int

const (
	BalanceCurrent BalanceKind = iota
	BalanceIncoming
)

// FTBalance returns the FT balance for id in the requested kind.
func (c *Context) FTBalance(id []byte, kind BalanceKind) (uint64, bool) {
	key := encodeKeyHex(id)
	if kind == BalanceIncoming {
		return c.ftIncoming.Get(key)
	}
	return c.ft.Get(key)
}

// FTCount returns the number of FT entries in the requested kind.
func (c *Context) FTCount(kind BalanceKind) int {
	if kind == BalanceIncoming {
		return c.ftIncoming.Len()
	}
	return c.ft.Len()
}

// FTItem returns the idx-th FT id (raw bytes) and its balance, in
// insertion order, for the requested kind.
func (c *Context) FTItem(idx int, kind BalanceKind) (id []byte, amount uint64, ok bool) {
	m := c.ft
	if kind == BalanceIncoming {
		m = c.ftIncoming
	}
	key, ok := m.KeyAt(idx)
	if !ok {
		return nil, 0, false
	}
	amount, _ = m.Get(key)
	raw, err := decodeKeyHex(key)
	if err != nil {
		return nil, 0, false
	}
	return raw, amount, true
}

// NFTExists reports whether id is present in the requested kind.
func (c *Context) NFTExists(id []byte, kind BalanceKind) bool {
	key := encodeKeyHex(id)
	if kind == BalanceIncoming {
		v, ok := c.nftIncoming.Get(key)
		return ok && v
	}
	v, ok := c.nft.Get(key)
	return ok && v
}

// NFTCount returns the number of NFT entries in the requested kind.
func (c *Context) NFTCount(kind BalanceKind) int {
	if kind == BalanceIncoming {
		return c.nftIncoming.Len()
	}
	return c.nft.Len()
}

// NFTItem returns the idx-th NFT id (raw bytes) in insertion order for the
// requested kind.
func (c *Context) NFTItem(idx int, kind BalanceKind) (id []byte, ok bool) {
	m := c.nft
	if kind == BalanceIncoming {
		m = c.nftIncoming
	}
	key, ok := m.KeyAt(idx)
	if !ok {
		return nil, false
	}
	raw, err := decodeKeyHex(key)
	if err != nil {
		return nil, false
	}
	return raw, true
}

// FTBalanceAdd consumes the incoming FT entry for id (at most once per
// execution) and adds the full incoming amount to the contract's balance.
func (c *Context) FTBalanceAdd(id []byte) error {
	if len(id) != 36 {
		return ErrInvalidRefSize
	}
	key := encodeKeyHex(id)
	if c.ftAddsSet[key] {
		return ErrAlreadyConsumed
	}
	amount, ok := c.ftIncoming.Get(key)
	if !ok || amount == 0 {
		return ErrNotIncomingOrZero
	}
	c.ftAddsSet[key] = true
	current, _ := c.ft.Get(key)
	newBalance := current + amount
	c.ft.Set(key, newBalance)
	c.ftUpdates.Set(key, newBalance)
	return nil
}

// NFTPut consumes the incoming NFT entry for id (at most once per
// execution) and sets contract ownership.
func (c *Context) NFTPut(id []byte) error {
	if len(id) != 36 {
		return ErrInvalidRefSize
	}
	key := encodeKeyHex(id)
	if c.nftPutsSet[key] {
		return ErrAlreadyConsumed
	}
	incoming, ok := c.nftIncoming.Get(key)
	if !ok || !incoming {
		return ErrNotIncomingOrFalse
	}
	c.nftPutsSet[key] = true
	c.nft.Set(key, true)
	c.nftUpdates.Set(key, true)
	return nil
}

// WithdrawFT decrements the contract's FT balance for id by amount and
// records a withdrawal intent to outIdx. Callers must have already
// checked outIdx and amount against the transaction's outputs.
func (c *Context) WithdrawFT(id []byte, outIdx uint32, amount uint64) error {
	if len(id) != 36 {
		return ErrInvalidRefSize
	}
	key := encodeKeyHex(id)
	balance, ok := c.ft.Get(key)
	if !ok || balance < amount {
		return ErrInsufficientBalance
	}
	newBalance := balance - amount
	if newBalance == 0 {
		c.ft.Delete(key)
	} else {
		c.ft.Set(key, newBalance)
	}
	c.ftUpdates.Set(key, newBalance)

	inner, ok := c.ftWithdrawMap.Get(key)
	if !ok {
		inner = NewOrderedMap[uint64]()
		c.ftWithdrawMap.Set(key, inner)
	}
	inner.Set(strconv.FormatUint(uint64(outIdx), 10), amount)
	return nil
}

// WithdrawNFT removes contract ownership of id and records a withdrawal
// intent to outIdx. Callers must have already checked outIdx against the
// transaction's outputs.
func (c *Context) WithdrawNFT(id []byte, outIdx uint32) error {
	if len(id) != 36 {
		return ErrInvalidRefSize
	}
	key := encodeKeyHex(id)
	if !c.NFTExists(id, BalanceCurrent) {
		return ErrNotFound
	}
	c.nft.Delete(key)
	c.nftUpdates.Set(key, false)
	c.nftWithdrawMap.Set(key, outIdx)
	return nil
}

// External returns the block-info collaborator.
func (c *Context) External() *BlockInfoTable {
	return c.external
}

// Cleanup drops empty keyspaces from kv, zero balances from ft, and false
// entries from nft. It is run once, before finalization.
func (c *Context) Cleanup() {
	for _, ks := range append([]string{}, c.kv.Keys()...) {
		inner, _ := c.kv.Get(ks)
		if inner.Len() == 0 {
			c.kv.Delete(ks)
		}
	}
	for _, key := range append([]string{}, c.ft.Keys()...) {
		v, _ := c.ft.Get(key)
		if v == 0 {
			c.ft.Delete(key)
		}
	}
	for _, key := range append([]string{}, c.nft.Keys()...) {
		v, _ := c.nft.Get(key)
		if !v {
			c.nft.Delete(key)
		}
	}
}

// Snapshot exposes the nine output maps, the two consumption lists and
// the two incoming-balance maps an Outcome is built from, after Finalize
// has run.
type Snapshot struct {
	KVFinal        *KVMap
	KVUpdates      *KVMap
	KVDeletes      *KVDeleteMap
	FTFinal        *OrderedMap[uint64]
	FTUpdates      *OrderedMap[uint64]
	NFTFinal       *OrderedMap[bool]
	NFTUpdates     *OrderedMap[bool]
	FTWithdraws    *FTWithdrawMap
	NFTWithdraws   *OrderedMap[uint32]
	FTAdded        []string
	NFTPut         []string
	FTIncoming     *OrderedMap[uint64]
	NFTIncoming    *OrderedMap[bool]
}

// Finalize runs Cleanup then the seven ordered size/format checks from
// script_utils.h's performValidateStateRestrictions, returning the first
// violated cap (matching source's own ordering so the first error
// observed is always the same one) or the finalized Snapshot.
func (c *Context) Finalize() (*Snapshot, error) {
	c.Cleanup()

	if sizeOfKVMap(c.kv) > c.limits.MaxStateFinalBytes {
		return nil, newError(KindStateSize, "final kv state exceeds size limit")
	}
	if sizeOfKVMap(c.kvUpdates) > c.limits.MaxStateUpdateBytes {
		return nil, newError(KindStateUpdatesSize, "kv updates exceed size limit")
	}
	if sizeOfKVDeleteMap(c.kvDeletes) > c.limits.MaxStateUpdateBytes {
		return nil, newError(KindStateDeletesSize, "kv deletes exceed size limit")
	}
	if sizeOfFTMap(c.ft) > c.limits.MaxBalancesBytes {
		return nil, newError(KindFTBalancesSize, "ft balances exceed size limit")
	}
	if sizeOfFTMap(c.ftUpdates) > c.limits.MaxBalancesUpdateBytes {
		return nil, newError(KindFTBalancesUpdatesSize, "ft balance updates exceed size limit")
	}
	if sizeOfNFTMap(c.nft) > c.limits.MaxBalancesBytes {
		return nil, newError(KindNFTBalancesSize, "nft balances exceed size limit")
	}
	if sizeOfNFTMap(c.nftUpdates) > c.limits.MaxBalancesUpdateBytes {
		return nil, newError(KindNFTBalancesUpdatesSize, "nft balance updates exceed size limit")
	}

	ftAdded := make([]string, 0, len(c.ftAddsSet))
	for k := range c.ftAddsSet {
		ftAdded = append(ftAdded, k)
	}
	nftPut := make([]string, 0, len(c.nftPutsSet))
	for k := range c.nftPutsSet {
		nftPut = append(nftPut, k)
	}

	return &Snapshot{
		KVFinal:      c.kv,
		KVUpdates:    c.kvUpdates,
		KVDeletes:    c.kvDeletes,
		FTFinal:      c.ft,
		FTUpdates:    c.ftUpdates,
		NFTFinal:     c.nft,
		NFTUpdates:   c.nftUpdates,
		FTWithdraws:  c.ftWithdrawMap,
		NFTWithdraws: c.nftWithdrawMap,
		FTAdded:      ftAdded,
		NFTPut:       nftPut,
		FTIncoming:   c.ftIncoming,
		NFTIncoming:  c.nftIncoming,
	}, nil
}

func sizeOfKVMap(m *KVMap) int {
	total := 0
	m.Range(func(ks string, inner *OrderedMap[[]byte]) bool {
		total += len(ks) / 2
		inner.Range(func(kn string, v []byte) bool {
			total += len(kn)/2 + len(v)
			return true
		})
		return true
	})
	return total
}

func sizeOfKVDeleteMap(m *KVDeleteMap) int {
	total := 0
	m.Range(func(ks string, inner *OrderedMap[bool]) bool {
		total += len(ks) / 2
		inner.Range(func(kn string, _ bool) bool {
			total += len(kn) / 2
			return true
		})
		return true
	})
	return total
}

func sizeOfFTMap(m *OrderedMap[uint64]) int {
	total := 0
	m.Range(func(key string, _ uint64) bool {
		total += len(key)/2 + 8
		return true
	})
	return total
}

func sizeOfNFTMap(m *OrderedMap[bool]) int {
	total := 0
	m.Range(func(key string, _ bool) bool {
		total += len(key)/2 + 1
		return true
	})
	return total
}
