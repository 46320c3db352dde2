package interpreter

import (
	"github.com/atomicals/avm-interpreter/avmnum"
	"github.com/atomicals/avm-interpreter/avmscript"
)

var introspectionHandlers = map[avmscript.Opcode]opcodeHandler{
	avmscript.OP_TXVERSION:           opTxVersion,
	avmscript.OP_TXINPUTCOUNT:        opTxInputCount,
	avmscript.OP_TXOUTPUTCOUNT:       opTxOutputCount,
	avmscript.OP_TXLOCKTIME:          opTxLockTime,
	avmscript.OP_OUTPOINTTXHASH:      opOutpointTxHash,
	avmscript.OP_OUTPOINTINDEX:       opOutpointIndex,
	avmscript.OP_INPUTBYTECODE:       opInputBytecode,
	avmscript.OP_INPUTSEQUENCENUMBER: opInputSequenceNumber,
	avmscript.OP_OUTPUTVALUE:         opOutputValue,
	avmscript.OP_OUTPUTBYTECODE:      opOutputBytecode,
}

func opTxVersion(e *Engine, pop avmscript.ParsedOpcode) error {
	e.dstack.push(avmnum.FromInt64(int64(e.ctx.Tx().Version)).GetVch())
	return nil
}

func opTxInputCount(e *Engine, pop avmscript.ParsedOpcode) error {
	e.dstack.push(avmnum.FromInt64(int64(len(e.ctx.Tx().Inputs))).GetVch())
	return nil
}

func opTxOutputCount(e *Engine, pop avmscript.ParsedOpcode) error {
	e.dstack.push(avmnum.FromInt64(int64(len(e.ctx.Tx().Outputs))).GetVch())
	return nil
}

func opTxLockTime(e *Engine, pop avmscript.ParsedOpcode) error {
	e.dstack.push(avmnum.FromInt64(int64(e.ctx.Tx().LockTime)).GetVch())
	return nil
}

func popInputIndex(e *Engine) (int, error) {
	v, err := e.dstack.pop()
	if err != nil {
		return 0, err
	}
	n, err := avmnum.FromBytes(v, MaxScriptNumLen)
	if err != nil {
		return 0, avmscript.NewError(avmscript.ErrInvalidTxInputIndex, "invalid input index")
	}
	idx, err := n.GetSizeType()
	if err != nil || idx >= len(e.ctx.Tx().Inputs) {
		return 0, avmscript.NewError(avmscript.ErrInvalidTxInputIndex, "input index out of range")
	}
	return idx, nil
}

func popOutputIndex(e *Engine) (int, error) {
	v, err := e.dstack.pop()
	if err != nil {
		return 0, err
	}
	n, err := avmnum.FromBytes(v, MaxScriptNumLen)
	if err != nil {
		return 0, avmscript.NewError(avmscript.ErrInvalidTxOutputIndex, "invalid output index")
	}
	idx, err := n.GetSizeType()
	if err != nil || idx >= len(e.ctx.Tx().Outputs) {
		return 0, avmscript.NewError(avmscript.ErrInvalidTxOutputIndex, "output index out of range")
	}
	return idx, nil
}

func opOutpointTxHash(e *Engine, pop avmscript.ParsedOpcode) error {
	idx, err := popInputIndex(e)
	if err != nil {
		return err
	}
	txid := e.ctx.Tx().Inputs[idx].PrevOut.TxID
	e.dstack.push(append([]byte{}, txid[:]...))
	return nil
}

func opOutpointIndex(e *Engine, pop avmscript.ParsedOpcode) error {
	idx, err := popInputIndex(e)
	if err != nil {
		return err
	}
	e.dstack.push(avmnum.FromInt64(int64(e.ctx.Tx().Inputs[idx].PrevOut.Index)).GetVch())
	return nil
}

func opInputBytecode(e *Engine, pop avmscript.ParsedOpcode) error {
	idx, err := popInputIndex(e)
	if err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, e.ctx.Tx().Inputs[idx].ScriptSig...))
	return nil
}

func opInputSequenceNumber(e *Engine, pop avmscript.ParsedOpcode) error {
	idx, err := popInputIndex(e)
	if err != nil {
		return err
	}
	e.dstack.push(avmnum.FromInt64(int64(e.ctx.Tx().Inputs[idx].Sequence)).GetVch())
	return nil
}

func opOutputValue(e *Engine, pop avmscript.ParsedOpcode) error {
	idx, err := popOutputIndex(e)
	if err != nil {
		return err
	}
	e.dstack.push(avmnum.FromInt64(e.ctx.Tx().Outputs[idx].Value).GetVch())
	return nil
}

func opOutputBytecode(e *Engine, pop avmscript.ParsedOpcode) error {
	idx, err := popOutputIndex(e)
	if err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, e.ctx.Tx().Outputs[idx].ScriptPubKey...))
	return nil
}
