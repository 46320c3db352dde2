package avmstate

// Kind identifies an outer-boundary error: the flag, transaction and
// withdraw kinds, and the seven size/format checks in
// performValidateStateRestrictions. Unlike avmscript.Error,
// these are reported at the outer boundary as atomicalsconsensus_error
// codes, never as a script-error opcode index — the interpreter has
// already finished running by the time these are evaluated.
type Kind int

const (
	KindOK Kind = iota
	KindTxIndex
	KindTxSizeMismatch
	KindInvalidFlags
	KindInvalidFTWithdraw
	KindInvalidNFTWithdraw
	KindStateSize
	KindStateUpdatesSize
	KindStateDeletesSize
	KindFTBalancesSize
	KindFTBalancesUpdatesSize
	KindNFTBalancesSize
	KindNFTBalancesUpdatesSize
)

var kindStrings = map[Kind]string{
	KindOK:                    "OK",
	KindTxIndex:               "TX_INDEX",
	KindTxSizeMismatch:        "TX_SIZE_MISMATCH",
	KindInvalidFlags:          "INVALID_FLAGS",
	KindInvalidFTWithdraw:     "INVALID_FT_WITHDRAW",
	KindInvalidNFTWithdraw:    "INVALID_NFT_WITHDRAW",
	KindStateSize:             "STATE_SIZE_ERROR",
	KindStateUpdatesSize:      "STATE_UPDATES_SIZE_ERROR",
	KindStateDeletesSize:      "STATE_DELETES_SIZE_ERROR",
	KindFTBalancesSize:        "STATE_FT_BALANCES_SIZE_ERROR",
	KindFTBalancesUpdatesSize: "STATE_FT_BALANCES_UPDATES_SIZE_ERROR",
	KindNFTBalancesSize:       "STATE_NFT_BALANCES_SIZE_ERROR",
	KindNFTBalancesUpdatesSize: "STATE_NFT_BALANCES_UPDATES_SIZE_ERROR",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Error is a typed state-consensus error carrying the offending Kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// NewError is the exported constructor other AVM packages use to raise
// state-consensus errors without reaching into this package's internals.
func NewError(kind Kind, msg string) *Error {
	return newError(kind, msg)
}
