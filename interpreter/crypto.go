package interpreter

import "github.com/atomicals/avm-interpreter/avmscript"

var cryptoHandlers = map[avmscript.Opcode]opcodeHandler{
	avmscript.OP_RIPEMD160:           opHash1(func(e *Engine, d []byte) []byte { h := e.hash.Ripemd160(d); return h[:] }),
	avmscript.OP_SHA1:                opHash1(func(e *Engine, d []byte) []byte { h := e.hash.Sha1(d); return h[:] }),
	avmscript.OP_SHA256:              opHash1(func(e *Engine, d []byte) []byte { h := e.hash.Sha256(d); return h[:] }),
	avmscript.OP_HASH160:             opHash1(func(e *Engine, d []byte) []byte { h := e.hash.Hash160(d); return h[:] }),
	avmscript.OP_HASH256:             opHash1(func(e *Engine, d []byte) []byte { h := e.hash.Hash256(d); return h[:] }),
	avmscript.OP_CHECKDATASIG:        opCheckDataSig(false),
	avmscript.OP_CHECKDATASIGVERIFY:  opCheckDataSig(true),
	avmscript.OP_CHECKAUTHSIG:        opCheckAuthSig(false),
	avmscript.OP_CHECKAUTHSIGVERIFY:  opCheckAuthSig(true),
}

func opHash1(f func(e *Engine, d []byte) []byte) opcodeHandler {
	return func(e *Engine, pop avmscript.ParsedOpcode) error {
		v, err := e.dstack.pop()
		if err != nil {
			return err
		}
		e.dstack.push(f(e, v))
		return nil
	}
}

// opCheckDataSig implements OP_CHECKDATASIG[VERIFY]: the stack carries
// <sig> <message> <pubkey>, pubkey on top. The message is verified against
// its single SHA-256 digest, not a double hash, since the signer hashes
// arbitrary application data rather than a transaction sighash.
func opCheckDataSig(verify bool) opcodeHandler {
	return func(e *Engine, pop avmscript.ParsedOpcode) error {
		pubKey, err := e.dstack.pop()
		if err != nil {
			return err
		}
		msg, err := e.dstack.pop()
		if err != nil {
			return err
		}
		sig, err := e.dstack.pop()
		if err != nil {
			return err
		}
		digest := e.hash.Sha256(msg)
		ok, verr := e.sig.Verify(pubKey, digest[:], sig)
		if verr != nil {
			ok = false
		}
		if verify {
			if !ok {
				return avmscript.NewError(avmscript.ErrVerify, "OP_CHECKDATASIGVERIFY failed")
			}
			return nil
		}
		e.dstack.push(boolToVch(ok))
		return nil
	}
}

// opCheckAuthSig implements OP_CHECKAUTHSIG[VERIFY]. It takes no stack
// arguments: the authorization signature and public key come out-of-band
// from the execution context (an OP_RETURN "sig" output and the caller's
// authPubKey), not the data stack.
//
//   - Neither sig nor pubkey present: the non-verify form pushes false;
//     the verify form fails hard (there is no authorized user to verify).
//   - Exactly one of the two present, or either is malformed: fails with
//     the "invalid" error, regardless of verify/non-verify.
//   - Both present but the signature does not check out against the
//     canonical authorization message (avmctx.Context.AuthMessage): fails
//     with the "null" error.
//   - Both present and valid: pushes the validated public key (not a bare
//     boolean) onto the stack, for both the verify and non-verify forms.
func opCheckAuthSig(verify bool) opcodeHandler {
	return func(e *Engine, pop avmscript.ParsedOpcode) error {
		pubKey, hasPubKey := e.ctx.AuthPubKey()
		sig, hasSig := e.ctx.AuthSig()

		if !hasSig && !hasPubKey {
			if verify {
				return avmscript.NewError(avmscript.ErrAvmCheckAuthSigVerify, "OP_CHECKAUTHSIGVERIFY: no authorized user provided")
			}
			e.dstack.push(boolToVch(false))
			return nil
		}
		if !hasSig || !hasPubKey {
			return avmscript.NewError(avmscript.ErrAvmCheckAuthSig, "OP_CHECKAUTHSIG requires both an authorization signature and public key")
		}

		digest := e.hash.Sha256(e.ctx.AuthMessage())
		ok, verr := e.sig.Verify(pubKey, digest[:], sig)
		if verr != nil {
			return avmscript.NewError(avmscript.ErrAvmCheckAuthSig, "OP_CHECKAUTHSIG: malformed signature or public key")
		}
		if !ok {
			return avmscript.NewError(avmscript.ErrAvmCheckAuthSigNull, "OP_CHECKAUTHSIG: signature verification failed")
		}

		e.dstack.push(append([]byte{}, pubKey...))
		return nil
	}
}
