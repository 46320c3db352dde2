// Package avmsig defines the signature-verification surface the
// interpreter uses for OP_CHECKAUTHSIG[VERIFY] and OP_CHECKDATASIG[VERIFY],
// and a default implementation over secp256k1 ECDSA and Schnorr, mirroring
// the way the teacher's txscript package calls into btcsuite/btcd/btcec.
package avmsig

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// SignatureVerifier is the injected collaborator the interpreter consumes
// to check a signature against a message digest and public key.
type SignatureVerifier interface {
	// Verify checks sig against msgHash and pubKey. It dispatches on
	// signature length: a 64-byte signature is treated as a Schnorr
	// signature, anything else as DER-encoded ECDSA, per §4.5.
	Verify(pubKey, msgHash, sig []byte) (bool, error)
}

// Default is the concrete SignatureVerifier used unless a caller injects
// its own.
type Default struct{}

// NewDefault returns the standard SignatureVerifier.
func NewDefault() SignatureVerifier {
	return Default{}
}

func (Default) Verify(pubKeyBytes, msgHash, sig []byte) (bool, error) {
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false, err
	}

	if len(sig) == 64 {
		schnorrSig, err := schnorr.ParseSignature(sig)
		if err != nil {
			return false, err
		}
		return schnorrSig.Verify(msgHash, pubKey), nil
	}

	ecdsaSig, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, err
	}
	return ecdsaSig.Verify(msgHash, pubKey), nil
}
