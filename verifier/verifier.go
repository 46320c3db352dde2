// Package verifier implements the top-level verify() entry point: flag
// validation, the unlock-script push-only rule, unlock-then-lock
// execution, the clean-stack rule, state finalization, and the resulting
// state commitment hash. Grounded on the retrieved btcsuite/btcd engine's
// CheckErrorCondition wiring and on the original interpreter's top-level
// VerifyScript driver.
package verifier

import (
	"github.com/atomicals/avm-interpreter/avmctx"
	"github.com/atomicals/avm-interpreter/avmhash"
	"github.com/atomicals/avm-interpreter/avmlog"
	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmsig"
	"github.com/atomicals/avm-interpreter/avmstate"
	"github.com/atomicals/avm-interpreter/interpreter"
)

var log = avmlog.VerifierLogger()

// Outcome is the complete result of one verify() call: whether the script
// passed, the failing script error if not, and — on success — the
// finalized state snapshot and its resulting commitment hash.
type Outcome struct {
	OK          bool
	ScriptError *avmscript.Error
	StateError  *avmstate.Error

	Snapshot     *avmstate.Snapshot
	NewStateHash [32]byte
}

// Verifier runs verify() calls using a shared hash/signature collaborator
// pair. It holds no per-call state and is safe to reuse across calls.
type Verifier struct {
	hash avmhash.HashProvider
	sig  avmsig.SignatureVerifier
}

// New returns a Verifier with the default hash and signature providers.
func New() *Verifier {
	return &Verifier{hash: avmhash.NewDefault(), sig: avmsig.NewDefault()}
}

// NewWithCollaborators returns a Verifier using explicitly injected hash
// and signature providers, for tests that need deterministic stand-ins.
func NewWithCollaborators(hash avmhash.HashProvider, sig avmsig.SignatureVerifier) *Verifier {
	return &Verifier{hash: hash, sig: sig}
}

// Verify runs unlock then lock against ctx and state under flags, per
// §4.7/§6: any non-zero flag is rejected outright (this profile defines
// none), the unlock script must be push-only, the concatenation of unlock
// and lock forms the authorization message and op-count budget, and the
// resulting stack's top element must be the script's only remaining item
// and must evaluate true.
func (v *Verifier) Verify(unlock, lock avmscript.Script, flags interpreter.Flags, ctx *avmctx.Context, state *avmstate.Context, prevStateHash [32]byte) *Outcome {
	if flags != 0 {
		return &Outcome{StateError: avmstate.NewError(avmstate.KindInvalidFlags, "verification flags must be zero")}
	}
	if len(unlock) > avmscript.MaxScriptSize || len(lock) > avmscript.MaxScriptSize {
		return &Outcome{ScriptError: avmscript.NewError(avmscript.ErrScriptSize, "script exceeds maximum size")}
	}
	if !avmscript.IsPushOnly(unlock) {
		return &Outcome{ScriptError: avmscript.NewError(avmscript.ErrSigPushOnly, "unlock script must be push-only")}
	}

	eng := interpreter.New(v.hash, v.sig)
	resultStack, err := eng.Run(unlock, lock, ctx, state)
	if err != nil {
		log.Debugf("input %d: script execution failed: %v", ctx.InputIndex(), err)
		if serr, ok := err.(*avmscript.Error); ok {
			return &Outcome{ScriptError: serr}
		}
		return &Outcome{ScriptError: avmscript.NewError(avmscript.ErrUnknown, err.Error())}
	}

	if len(resultStack) != 1 {
		return &Outcome{ScriptError: avmscript.NewError(avmscript.ErrCleanStack, "script must leave exactly one item on the stack")}
	}
	if !scriptTrue(resultStack[0]) {
		return &Outcome{ScriptError: avmscript.NewError(avmscript.ErrEvalFalse, "script evaluated to false")}
	}

	snap, ferr := state.Finalize()
	if ferr != nil {
		serr, _ := ferr.(*avmstate.Error)
		return &Outcome{StateError: serr}
	}

	newHash := avmstate.Commit(prevStateHash, snap)
	return &Outcome{OK: true, Snapshot: snap, NewStateHash: newHash}
}

func scriptTrue(v []byte) bool {
	for i, b := range v {
		if b == 0 {
			continue
		}
		if i == len(v)-1 && b == 0x80 {
			return false
		}
		return true
	}
	return false
}
