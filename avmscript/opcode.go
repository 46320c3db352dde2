package avmscript

// Opcode is a single script byte. Values [0x01, 0x4b] are direct data
// pushes of that many bytes and are not named individually.
type Opcode byte

const (
	OP_0         Opcode = 0x00
	OP_PUSHDATA1 Opcode = 0x4c
	OP_PUSHDATA2 Opcode = 0x4d
	OP_PUSHDATA4 Opcode = 0x4e
	OP_1NEGATE   Opcode = 0x4f
	OP_RESERVED  Opcode = 0x50
	OP_1         Opcode = 0x51
	OP_2         Opcode = 0x52
	OP_3         Opcode = 0x53
	OP_4         Opcode = 0x54
	OP_5         Opcode = 0x55
	OP_6         Opcode = 0x56
	OP_7         Opcode = 0x57
	OP_8         Opcode = 0x58
	OP_9         Opcode = 0x59
	OP_10        Opcode = 0x5a
	OP_11        Opcode = 0x5b
	OP_12        Opcode = 0x5c
	OP_13        Opcode = 0x5d
	OP_14        Opcode = 0x5e
	OP_15        Opcode = 0x5f
	OP_16        Opcode = 0x60

	// Control flow
	OP_NOP    Opcode = 0x61
	OP_IF     Opcode = 0x63
	OP_NOTIF  Opcode = 0x64
	OP_ELSE   Opcode = 0x67
	OP_ENDIF  Opcode = 0x68
	OP_VERIFY Opcode = 0x69
	OP_RETURN Opcode = 0x6a

	// Stack
	OP_TOALTSTACK   Opcode = 0x6b
	OP_FROMALTSTACK Opcode = 0x6c
	OP_2DROP        Opcode = 0x6d
	OP_2DUP         Opcode = 0x6e
	OP_3DUP         Opcode = 0x6f
	OP_2OVER        Opcode = 0x70
	OP_2ROT         Opcode = 0x71
	OP_2SWAP        Opcode = 0x72
	OP_IFDUP        Opcode = 0x73
	OP_DEPTH        Opcode = 0x74
	OP_DROP         Opcode = 0x75
	OP_DUP          Opcode = 0x76
	OP_NIP          Opcode = 0x77
	OP_OVER         Opcode = 0x78
	OP_PICK         Opcode = 0x79
	OP_ROLL         Opcode = 0x7a
	OP_ROT          Opcode = 0x7b
	OP_SWAP         Opcode = 0x7c
	OP_TUCK         Opcode = 0x7d

	// Splice
	OP_CAT     Opcode = 0x7e
	OP_SPLIT   Opcode = 0x7f
	OP_NUM2BIN Opcode = 0x80
	OP_BIN2NUM Opcode = 0x81
	OP_SIZE    Opcode = 0x82

	// Bitwise
	OP_INVERT Opcode = 0x83
	OP_AND    Opcode = 0x84
	OP_OR     Opcode = 0x85
	OP_XOR    Opcode = 0x86
	OP_EQUAL  Opcode = 0x87
	OP_EQUALVERIFY Opcode = 0x88

	// Arithmetic
	OP_1ADD               Opcode = 0x8b
	OP_1SUB               Opcode = 0x8c
	OP_2MUL               Opcode = 0x8d // disabled
	OP_2DIV               Opcode = 0x8e // disabled
	OP_NEGATE             Opcode = 0x8f
	OP_ABS                Opcode = 0x90
	OP_NOT                Opcode = 0x91
	OP_0NOTEQUAL          Opcode = 0x92
	OP_ADD                Opcode = 0x93
	OP_SUB                Opcode = 0x94
	OP_MUL                Opcode = 0x95
	OP_DIV                Opcode = 0x96
	OP_MOD                Opcode = 0x97
	OP_LSHIFT             Opcode = 0x98
	OP_RSHIFT             Opcode = 0x99
	OP_BOOLAND            Opcode = 0x9a
	OP_BOOLOR             Opcode = 0x9b
	OP_NUMEQUAL           Opcode = 0x9c
	OP_NUMEQUALVERIFY     Opcode = 0x9d
	OP_NUMNOTEQUAL        Opcode = 0x9e
	OP_LESSTHAN           Opcode = 0x9f
	OP_GREATERTHAN        Opcode = 0xa0
	OP_LESSTHANOREQUAL    Opcode = 0xa1
	OP_GREATERTHANOREQUAL Opcode = 0xa2
	OP_MIN                Opcode = 0xa3
	OP_MAX                Opcode = 0xa4
	OP_WITHIN             Opcode = 0xa5

	// Crypto (hash-only; no signature-checking opcode lives here — see
	// §4.5: OP_CHECKSIG/OP_CHECKMULTISIG/OP_CODESEPARATOR are absent)
	OP_RIPEMD160 Opcode = 0xa6
	OP_SHA1      Opcode = 0xa7
	OP_SHA256    Opcode = 0xa8
	OP_HASH160   Opcode = 0xa9
	OP_HASH256   Opcode = 0xaa

	OP_CHECKDATASIG       Opcode = 0xba
	OP_CHECKDATASIGVERIFY Opcode = 0xbb

	// Native introspection
	OP_TXVERSION           Opcode = 0xc0
	OP_TXINPUTCOUNT        Opcode = 0xc1
	OP_TXOUTPUTCOUNT       Opcode = 0xc2
	OP_TXLOCKTIME          Opcode = 0xc3
	OP_OUTPOINTTXHASH      Opcode = 0xc4
	OP_OUTPOINTINDEX       Opcode = 0xc5
	OP_INPUTBYTECODE       Opcode = 0xc6
	OP_INPUTSEQUENCENUMBER Opcode = 0xc7
	OP_OUTPUTVALUE         Opcode = 0xc8
	OP_OUTPUTBYTECODE      Opcode = 0xc9

	// AVM authorization
	OP_CHECKAUTHSIG       Opcode = 0xd0
	OP_CHECKAUTHSIGVERIFY Opcode = 0xd1

	// AVM key/value store
	OP_KV_PUT    Opcode = 0xd8
	OP_KV_GET    Opcode = 0xd9
	OP_KV_EXISTS Opcode = 0xda
	OP_KV_DELETE Opcode = 0xdb

	// AVM fungible tokens
	OP_FT_BALANCE_ADD Opcode = 0xe0
	OP_FT_WITHDRAW    Opcode = 0xe1
	OP_FT_BALANCE     Opcode = 0xe2
	OP_FT_COUNT       Opcode = 0xe3
	OP_FT_ITEM        Opcode = 0xe4

	// AVM non-fungible tokens
	OP_NFT_PUT      Opcode = 0xe8
	OP_NFT_WITHDRAW Opcode = 0xe9
	OP_NFT_EXISTS   Opcode = 0xea
	OP_NFT_COUNT    Opcode = 0xeb
	OP_NFT_ITEM     Opcode = 0xec

	// AVM block info / hashing
	OP_GETBLOCKINFO   Opcode = 0xf0
	OP_DECODEBLOCKINFO Opcode = 0xf1
	OP_HASH_FN        Opcode = 0xf2
)

// opcodeNames is used only for diagnostics (e.g. disassembly); it never
// participates in dispatch or determinism.
var opcodeNames = map[Opcode]string{
	OP_0: "OP_0", OP_PUSHDATA1: "OP_PUSHDATA1", OP_PUSHDATA2: "OP_PUSHDATA2",
	OP_PUSHDATA4: "OP_PUSHDATA4", OP_1NEGATE: "OP_1NEGATE", OP_RESERVED: "OP_RESERVED",
	OP_1: "OP_1", OP_2: "OP_2", OP_3: "OP_3", OP_4: "OP_4", OP_5: "OP_5",
	OP_6: "OP_6", OP_7: "OP_7", OP_8: "OP_8", OP_9: "OP_9", OP_10: "OP_10",
	OP_11: "OP_11", OP_12: "OP_12", OP_13: "OP_13", OP_14: "OP_14", OP_15: "OP_15",
	OP_16: "OP_16", OP_NOP: "OP_NOP", OP_IF: "OP_IF", OP_NOTIF: "OP_NOTIF",
	OP_ELSE: "OP_ELSE", OP_ENDIF: "OP_ENDIF", OP_VERIFY: "OP_VERIFY",
	OP_RETURN: "OP_RETURN", OP_TOALTSTACK: "OP_TOALTSTACK",
	OP_FROMALTSTACK: "OP_FROMALTSTACK", OP_2DROP: "OP_2DROP", OP_2DUP: "OP_2DUP",
	OP_3DUP: "OP_3DUP", OP_2OVER: "OP_2OVER", OP_2ROT: "OP_2ROT", OP_2SWAP: "OP_2SWAP",
	OP_IFDUP: "OP_IFDUP", OP_DEPTH: "OP_DEPTH", OP_DROP: "OP_DROP", OP_DUP: "OP_DUP",
	OP_NIP: "OP_NIP", OP_OVER: "OP_OVER", OP_PICK: "OP_PICK", OP_ROLL: "OP_ROLL",
	OP_ROT: "OP_ROT", OP_SWAP: "OP_SWAP", OP_TUCK: "OP_TUCK", OP_CAT: "OP_CAT",
	OP_SPLIT: "OP_SPLIT", OP_NUM2BIN: "OP_NUM2BIN", OP_BIN2NUM: "OP_BIN2NUM",
	OP_SIZE: "OP_SIZE", OP_INVERT: "OP_INVERT", OP_AND: "OP_AND", OP_OR: "OP_OR",
	OP_XOR: "OP_XOR", OP_EQUAL: "OP_EQUAL", OP_EQUALVERIFY: "OP_EQUALVERIFY",
	OP_1ADD: "OP_1ADD", OP_1SUB: "OP_1SUB", OP_2MUL: "OP_2MUL", OP_2DIV: "OP_2DIV",
	OP_NEGATE: "OP_NEGATE", OP_ABS: "OP_ABS", OP_NOT: "OP_NOT",
	OP_0NOTEQUAL: "OP_0NOTEQUAL", OP_ADD: "OP_ADD", OP_SUB: "OP_SUB", OP_MUL: "OP_MUL",
	OP_DIV: "OP_DIV", OP_MOD: "OP_MOD", OP_LSHIFT: "OP_LSHIFT", OP_RSHIFT: "OP_RSHIFT",
	OP_BOOLAND: "OP_BOOLAND", OP_BOOLOR: "OP_BOOLOR", OP_NUMEQUAL: "OP_NUMEQUAL",
	OP_NUMEQUALVERIFY: "OP_NUMEQUALVERIFY", OP_NUMNOTEQUAL: "OP_NUMNOTEQUAL",
	OP_LESSTHAN: "OP_LESSTHAN", OP_GREATERTHAN: "OP_GREATERTHAN",
	OP_LESSTHANOREQUAL: "OP_LESSTHANOREQUAL", OP_GREATERTHANOREQUAL: "OP_GREATERTHANOREQUAL",
	OP_MIN: "OP_MIN", OP_MAX: "OP_MAX", OP_WITHIN: "OP_WITHIN",
	OP_RIPEMD160: "OP_RIPEMD160", OP_SHA1: "OP_SHA1", OP_SHA256: "OP_SHA256",
	OP_HASH160: "OP_HASH160", OP_HASH256: "OP_HASH256",
	OP_CHECKDATASIG: "OP_CHECKDATASIG", OP_CHECKDATASIGVERIFY: "OP_CHECKDATASIGVERIFY",
	OP_TXVERSION: "OP_TXVERSION", OP_TXINPUTCOUNT: "OP_TXINPUTCOUNT",
	OP_TXOUTPUTCOUNT: "OP_TXOUTPUTCOUNT", OP_TXLOCKTIME: "OP_TXLOCKTIME",
	OP_OUTPOINTTXHASH: "OP_OUTPOINTTXHASH", OP_OUTPOINTINDEX: "OP_OUTPOINTINDEX",
	OP_INPUTBYTECODE: "OP_INPUTBYTECODE", OP_INPUTSEQUENCENUMBER: "OP_INPUTSEQUENCENUMBER",
	OP_OUTPUTVALUE: "OP_OUTPUTVALUE", OP_OUTPUTBYTECODE: "OP_OUTPUTBYTECODE",
	OP_CHECKAUTHSIG: "OP_CHECKAUTHSIG", OP_CHECKAUTHSIGVERIFY: "OP_CHECKAUTHSIGVERIFY",
	OP_KV_PUT: "OP_KV_PUT", OP_KV_GET: "OP_KV_GET", OP_KV_EXISTS: "OP_KV_EXISTS",
	OP_KV_DELETE: "OP_KV_DELETE",
	OP_FT_BALANCE_ADD: "OP_FT_BALANCE_ADD", OP_FT_WITHDRAW: "OP_FT_WITHDRAW",
	OP_FT_BALANCE: "OP_FT_BALANCE", OP_FT_COUNT: "OP_FT_COUNT", OP_FT_ITEM: "OP_FT_ITEM",
	OP_NFT_PUT: "OP_NFT_PUT", OP_NFT_WITHDRAW: "OP_NFT_WITHDRAW",
	OP_NFT_EXISTS: "OP_NFT_EXISTS", OP_NFT_COUNT: "OP_NFT_COUNT", OP_NFT_ITEM: "OP_NFT_ITEM",
	OP_GETBLOCKINFO: "OP_GETBLOCKINFO", OP_DECODEBLOCKINFO: "OP_DECODEBLOCKINFO",
	OP_HASH_FN: "OP_HASH_FN",
}

// String returns the mnemonic for op, "OP_DATA" for direct pushes
// (0x01..0x4b), or "OP_UNKNOWN" for unnamed byte values. Used only in
// disassembly/diagnostics.
func (op Opcode) String() string {
	if op >= 0x01 && op <= 0x4b {
		return "OP_DATA"
	}
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}

// IsSmallInt reports whether op is OP_0 or in [OP_1, OP_16], the opcodes
// that push a small integer constant.
func IsSmallInt(op Opcode) bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}
