// Command avmcli runs one AVM verify() call against a CBOR-encoded request
// and prints the CBOR- or JSON-encoded response.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atomicals/avm-interpreter/avmctx"
	"github.com/atomicals/avm-interpreter/avmlog"
	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmstate"
	"github.com/atomicals/avm-interpreter/avmtx"
	"github.com/atomicals/avm-interpreter/avmwire"
	"github.com/atomicals/avm-interpreter/interpreter"
	"github.com/atomicals/avm-interpreter/verifier"
)

var log = avmlog.CLILogger()

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "avmcli: %s\n", err)
		os.Exit(1)
	}

	if cfg.LogFile != "" {
		if err := avmlog.InitLogRotator(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "avmcli: %s\n", err)
			os.Exit(1)
		}
	}
	avmlog.SetLogLevels(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Errorf("verify failed: %v", err)
		fmt.Fprintf(os.Stderr, "avmcli: %s\n", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	reqData, err := readInput(cfg.Input)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	req, err := avmwire.DecodeRequest(reqData)
	if err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}

	resp := verifyRequest(req)

	return writeOutput(cfg.Output, resp, cfg.JSON)
}

// verifyRequest builds the interpreter collaborators from req and runs one
// verify() call, converting whatever happens into a wire response rather
// than an error -- a failed verification is a normal, well-formed result.
func verifyRequest(req *avmwire.VerifyRequest) *avmwire.VerifyResponse {
	tx, err := avmtx.Decode(req.Tx)
	if err != nil {
		return &avmwire.VerifyResponse{
			OK:           false,
			ErrorCode:    "ErrMalformedTx",
			ErrorMessage: err.Error(),
		}
	}

	if _, err := avmscript.Parse(req.UnlockScript); err != nil {
		return &avmwire.VerifyResponse{OK: false, ErrorCode: "ErrMalformedScript", ErrorMessage: err.Error()}
	}
	if _, err := avmscript.Parse(req.LockScript); err != nil {
		return &avmwire.VerifyResponse{OK: false, ErrorCode: "ErrMalformedScript", ErrorMessage: err.Error()}
	}

	fullScript := append(append(avmscript.Script{}, req.UnlockScript...), req.LockScript...)
	ctx := avmctx.New(tx, int(req.InputIndex), fullScript, req.AuthPubKey)

	kv := avmwire.BuildKVMap(req.State.KV)
	ft := avmwire.BuildFTMap(req.State.FT)
	ftIncoming := avmwire.BuildFTMap(req.State.FTIncoming)
	nft := avmwire.BuildNFTMap(req.State.NFT)
	nftIncoming := avmwire.BuildNFTMap(req.State.NFTIncoming)
	external := avmwire.BuildBlockInfoTable(req.CurrentHeight, req.BlockHeaders)

	state, err := avmstate.New(ft, ftIncoming, nft, nftIncoming, kv, external, avmstate.DefaultLimits())
	if err != nil {
		return &avmwire.VerifyResponse{OK: false, ErrorCode: "ErrInvalidState", ErrorMessage: err.Error()}
	}

	log.Debugf("verifying input %d of tx with %d inputs", req.InputIndex, len(tx.Inputs))

	out := verifier.New().Verify(
		avmscript.Script(req.UnlockScript),
		avmscript.Script(req.LockScript),
		interpreter.Flags(req.Flags),
		ctx,
		state,
		req.PrevStateHash,
	)

	return outcomeToWire(out)
}

func outcomeToWire(out *verifier.Outcome) *avmwire.VerifyResponse {
	resp := &avmwire.VerifyResponse{OK: out.OK}

	if out.ScriptError != nil {
		resp.ErrorCode = out.ScriptError.Code.String()
		resp.ErrorMessage = out.ScriptError.Description
	}
	if out.StateError != nil {
		resp.ErrorCode = out.StateError.Kind.String()
		resp.ErrorMessage = out.StateError.Error()
	}

	if out.Snapshot != nil {
		kvFinal, kvUpdates, kvDeletes, ftFinal, ftUpdates, nftFinal, nftUpdates, ftWithdraws, nftWithdraws := avmwire.SnapshotToWire(out.Snapshot)
		resp.KVFinal = kvFinal
		resp.KVUpdates = kvUpdates
		resp.KVDeletes = kvDeletes
		resp.FTFinal = ftFinal
		resp.FTUpdates = ftUpdates
		resp.NFTFinal = nftFinal
		resp.NFTUpdates = nftUpdates
		resp.FTWithdraws = ftWithdraws
		resp.NFTWithdraws = nftWithdraws
	}

	resp.NewStateHash = out.NewStateHash
	return resp
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, resp *avmwire.VerifyResponse, asJSON bool) error {
	var data []byte
	var err error
	if asJSON {
		data, err = json.MarshalIndent(resp, "", "  ")
	} else {
		data, err = avmwire.EncodeResponse(resp)
	}
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		if asJSON {
			fmt.Println()
		}
		return err
	}
	return os.WriteFile(path, data, 0644)
}
