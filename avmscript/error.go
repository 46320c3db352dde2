package avmscript

// ErrorCode identifies a specific failure kind raised while parsing or
// executing a script. Values are stable enumerants: no error text, source
// location or timestamp is ever part of the value, so results stay
// deterministic across builds.
type ErrorCode int

const (
	// Script-structure
	ErrScriptSize ErrorCode = iota
	ErrPushSize
	ErrOpCount
	ErrStackSize
	ErrBadOpcode
	ErrDisabledOpcode
	ErrMinimalData
	ErrSigPushOnly
	ErrCleanStack

	// Stack / condition
	ErrInvalidStackOperation
	ErrInvalidAltStackOperation
	ErrUnbalancedConditional
	ErrMinimalIf
	ErrVerify
	ErrEqualVerify
	ErrNumEqualVerify
	ErrEvalFalse
	ErrOpReturn

	// Numeric / bytes
	ErrInvalidOperandSize
	ErrInvalidNumberRange
	ErrImpossibleEncoding
	ErrInvalidSplitRange
	ErrDivByZero
	ErrModByZero
	ErrBigInt

	// Locktime
	ErrNegativeLocktime
	ErrUnsatisfiedLocktime

	// Introspection
	ErrContextNotPresent
	ErrInvalidTxInputIndex
	ErrInvalidTxOutputIndex

	// AVM domain
	ErrInvalidAtomicalRefSize
	ErrAvmStateKeyNotFound
	ErrAvmStateKeySize
	ErrAvmWithdrawFT
	ErrAvmWithdrawFTAmount
	ErrAvmWithdrawFTOutputIndex
	ErrAvmWithdrawNFT
	ErrAvmWithdrawNFTOutputIndex
	ErrAvmFTBalanceAddInvalid
	ErrAvmNFTPutInvalid
	ErrAvmFTCountType
	ErrAvmNFTCountType
	ErrAvmFTBalanceType
	ErrAvmNFTExistsType
	ErrAvmFTItemIndex
	ErrAvmFTItemType
	ErrAvmNFTItemIndex
	ErrAvmNFTItemType
	ErrAvmHashFunc
	ErrAvmInvalidBlockInfoItem
	ErrAvmBlockHeaderSize
	ErrAvmCheckAuthSig
	ErrAvmCheckAuthSigVerify
	ErrAvmCheckAuthSigNull

	// Terminal / non-error
	ErrOK
	ErrUnknown
)

var errorCodeStrings = map[ErrorCode]string{
	ErrScriptSize:               "SCRIPT_SIZE",
	ErrPushSize:                 "PUSH_SIZE",
	ErrOpCount:                  "OP_COUNT",
	ErrStackSize:                "STACK_SIZE",
	ErrBadOpcode:                "BAD_OPCODE",
	ErrDisabledOpcode:           "DISABLED_OPCODE",
	ErrMinimalData:              "MINIMALDATA",
	ErrSigPushOnly:              "SIG_PUSHONLY",
	ErrCleanStack:               "CLEANSTACK",
	ErrInvalidStackOperation:    "INVALID_STACK_OPERATION",
	ErrInvalidAltStackOperation: "INVALID_ALTSTACK_OPERATION",
	ErrUnbalancedConditional:    "UNBALANCED_CONDITIONAL",
	ErrMinimalIf:                "MINIMALIF",
	ErrVerify:                   "VERIFY",
	ErrEqualVerify:              "EQUALVERIFY",
	ErrNumEqualVerify:           "NUMEQUALVERIFY",
	ErrEvalFalse:                "EVAL_FALSE",
	ErrOpReturn:                 "OP_RETURN",
	ErrInvalidOperandSize:       "INVALID_OPERAND_SIZE",
	ErrInvalidNumberRange:       "INVALID_NUMBER_RANGE",
	ErrImpossibleEncoding:       "IMPOSSIBLE_ENCODING",
	ErrInvalidSplitRange:        "INVALID_SPLIT_RANGE",
	ErrDivByZero:                "DIV_BY_ZERO",
	ErrModByZero:                "MOD_BY_ZERO",
	ErrBigInt:                   "SCRIPT_ERR_BIG_INT",
	ErrNegativeLocktime:         "NEGATIVE_LOCKTIME",
	ErrUnsatisfiedLocktime:      "UNSATISFIED_LOCKTIME",
	ErrContextNotPresent:        "CONTEXT_NOT_PRESENT",
	ErrInvalidTxInputIndex:      "INVALID_TX_INPUT_INDEX",
	ErrInvalidTxOutputIndex:     "INVALID_TX_OUTPUT_INDEX",
	ErrInvalidAtomicalRefSize:   "INVALID_ATOMICAL_REF_SIZE",
	ErrAvmStateKeyNotFound:      "INVALID_AVM_STATE_KEY_NOT_FOUND",
	ErrAvmStateKeySize:          "INVALID_AVM_STATE_KEY_SIZE",
	ErrAvmWithdrawFT:            "INVALID_AVM_WITHDRAW_FT",
	ErrAvmWithdrawFTAmount:      "INVALID_AVM_WITHDRAW_FT_AMOUNT",
	ErrAvmWithdrawFTOutputIndex: "INVALID_AVM_WITHDRAW_FT_OUTPUT_INDEX",
	ErrAvmWithdrawNFT:           "INVALID_AVM_WITHDRAW_NFT",
	ErrAvmWithdrawNFTOutputIndex: "INVALID_AVM_WITHDRAW_NFT_OUTPUT_INDEX",
	ErrAvmFTBalanceAddInvalid:   "INVALID_AVM_FT_BALANCE_ADD_INVALID",
	ErrAvmNFTPutInvalid:         "INVALID_AVM_NFT_PUT_INVALID",
	ErrAvmFTCountType:           "INVALID_AVM_FT_COUNT_TYPE",
	ErrAvmNFTCountType:          "INVALID_AVM_NFT_COUNT_TYPE",
	ErrAvmFTBalanceType:         "INVALID_AVM_FT_BALANCE_TYPE",
	ErrAvmNFTExistsType:         "INVALID_AVM_NFT_EXISTS_TYPE",
	ErrAvmFTItemIndex:           "INVALID_AVM_INVALID_FT_ITEM_INDEX",
	ErrAvmFTItemType:            "INVALID_AVM_FT_ITEM_TYPE",
	ErrAvmNFTItemIndex:          "INVALID_AVM_INVALID_NFT_ITEM_INDEX",
	ErrAvmNFTItemType:           "INVALID_AVM_NFT_ITEM_TYPE",
	ErrAvmHashFunc:              "INVALID_AVM_HASH_FUNC",
	ErrAvmInvalidBlockInfoItem:  "INVALID_AVM_INVALID_BLOCKINFO_ITEM",
	ErrAvmBlockHeaderSize:       "INVALID_AVM_BLOCK_HEADER_SIZE",
	ErrAvmCheckAuthSig:          "INVALID_AVM_CHECKAUTHSIG",
	ErrAvmCheckAuthSigVerify:    "INVALID_AVM_CHECKAUTHSIGVERIFY",
	ErrAvmCheckAuthSigNull:      "INVALID_AVM_CHECKAUTHSIGNULL",
	ErrOK:                       "OK",
	ErrUnknown:                  "UNKNOWN",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeStrings[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// Error is a script-execution failure: an ErrorCode plus a human-readable
// description carried purely for diagnostics. Equality and behavior must
// never depend on Description, only on Code.
type Error struct {
	Code        ErrorCode
	Description string
}

func (e *Error) Error() string {
	return e.Description
}

// scriptError constructs an *Error the way omega.ScriptError(code, msg)
// does throughout the teacher's ovm package: a code plus a fixed message,
// never formatted with request-specific data that would break determinism.
func scriptError(code ErrorCode, desc string) *Error {
	return &Error{Code: code, Description: desc}
}

// NewError is the exported constructor other AVM packages use to raise
// script errors without reaching into this package's internals.
func NewError(code ErrorCode, desc string) *Error {
	return scriptError(code, desc)
}

// IsErrorCode reports whether err is an *Error carrying the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	se, ok := err.(*Error)
	return ok && se.Code == code
}
