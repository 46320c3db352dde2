package interpreter

import "github.com/atomicals/avm-interpreter/avmscript"

var controlHandlers = map[avmscript.Opcode]opcodeHandler{
	avmscript.OP_NOP:      opNop,
	avmscript.OP_RESERVED: opBadOpcode,
	avmscript.OP_VERIFY:   opVerify,
	avmscript.OP_RETURN:   opReturn,
}

func opNop(e *Engine, pop avmscript.ParsedOpcode) error {
	return nil
}

func opBadOpcode(e *Engine, pop avmscript.ParsedOpcode) error {
	return avmscript.NewError(avmscript.ErrBadOpcode, "reserved opcode executed")
}

func opVerify(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.pop()
	if err != nil {
		return err
	}
	if !vchToBool(v) {
		return avmscript.NewError(avmscript.ErrVerify, "OP_VERIFY failed")
	}
	return nil
}

// opReturn always fails script evaluation immediately, per §4.3 — unlike
// legacy Bitcoin Script, an OP_RETURN never marks the output as
// provably-unspendable data-carrier; here it can only appear inside a
// script the interpreter is running, and running it is always an error.
func opReturn(e *Engine, pop avmscript.ParsedOpcode) error {
	return avmscript.NewError(avmscript.ErrOpReturn, "OP_RETURN executed")
}
