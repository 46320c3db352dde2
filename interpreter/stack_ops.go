package interpreter

import (
	"github.com/atomicals/avm-interpreter/avmnum"
	"github.com/atomicals/avm-interpreter/avmscript"
)

var stackHandlers = map[avmscript.Opcode]opcodeHandler{
	avmscript.OP_TOALTSTACK:   opToAltStack,
	avmscript.OP_FROMALTSTACK: opFromAltStack,
	avmscript.OP_2DROP:        op2Drop,
	avmscript.OP_2DUP:         op2Dup,
	avmscript.OP_3DUP:         op3Dup,
	avmscript.OP_2OVER:        op2Over,
	avmscript.OP_2ROT:         op2Rot,
	avmscript.OP_2SWAP:        op2Swap,
	avmscript.OP_IFDUP:        opIfDup,
	avmscript.OP_DEPTH:        opDepth,
	avmscript.OP_DROP:         opDrop,
	avmscript.OP_DUP:          opDup,
	avmscript.OP_NIP:          opNip,
	avmscript.OP_OVER:         opOver,
	avmscript.OP_PICK:         opPick,
	avmscript.OP_ROLL:         opRoll,
	avmscript.OP_ROT:          opRot,
	avmscript.OP_SWAP:         opSwap,
	avmscript.OP_TUCK:         opTuck,
}

func opToAltStack(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.pop()
	if err != nil {
		return err
	}
	e.astack.push(v)
	return nil
}

func opFromAltStack(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.astack.pop()
	if err != nil {
		return avmscript.NewError(avmscript.ErrInvalidAltStackOperation, "pop from empty alt stack")
	}
	e.dstack.push(v)
	return nil
}

func op2Drop(e *Engine, pop avmscript.ParsedOpcode) error {
	if _, err := e.dstack.pop(); err != nil {
		return err
	}
	if _, err := e.dstack.pop(); err != nil {
		return err
	}
	return nil
}

func op2Dup(e *Engine, pop avmscript.ParsedOpcode) error {
	a, err := e.dstack.peek(1)
	if err != nil {
		return err
	}
	b, err := e.dstack.peek(0)
	if err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, a...))
	e.dstack.push(append([]byte{}, b...))
	return nil
}

func op3Dup(e *Engine, pop avmscript.ParsedOpcode) error {
	a, err := e.dstack.peek(2)
	if err != nil {
		return err
	}
	b, err := e.dstack.peek(1)
	if err != nil {
		return err
	}
	c, err := e.dstack.peek(0)
	if err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, a...))
	e.dstack.push(append([]byte{}, b...))
	e.dstack.push(append([]byte{}, c...))
	return nil
}

func op2Over(e *Engine, pop avmscript.ParsedOpcode) error {
	a, err := e.dstack.peek(3)
	if err != nil {
		return err
	}
	b, err := e.dstack.peek(2)
	if err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, a...))
	e.dstack.push(append([]byte{}, b...))
	return nil
}

func op2Rot(e *Engine, pop avmscript.ParsedOpcode) error {
	a, err := e.dstack.peek(5)
	if err != nil {
		return err
	}
	b, err := e.dstack.peek(4)
	if err != nil {
		return err
	}
	if err := e.dstack.nipAt(5); err != nil {
		return err
	}
	if err := e.dstack.nipAt(4); err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, a...))
	e.dstack.push(append([]byte{}, b...))
	return nil
}

func op2Swap(e *Engine, pop avmscript.ParsedOpcode) error {
	a, err := e.dstack.peek(3)
	if err != nil {
		return err
	}
	b, err := e.dstack.peek(2)
	if err != nil {
		return err
	}
	if err := e.dstack.nipAt(3); err != nil {
		return err
	}
	if err := e.dstack.nipAt(2); err != nil {
		return err
	}
	e.dstack.push(a)
	e.dstack.push(b)
	return nil
}

func opIfDup(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.peek(0)
	if err != nil {
		return err
	}
	if vchToBool(v) {
		e.dstack.push(append([]byte{}, v...))
	}
	return nil
}

func opDepth(e *Engine, pop avmscript.ParsedOpcode) error {
	e.dstack.push(avmnum.FromInt64(int64(e.dstack.depth())).GetVch())
	return nil
}

func opDrop(e *Engine, pop avmscript.ParsedOpcode) error {
	_, err := e.dstack.pop()
	return err
}

func opDup(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.peek(0)
	if err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, v...))
	return nil
}

func opNip(e *Engine, pop avmscript.ParsedOpcode) error {
	return e.dstack.nipAt(1)
}

func opOver(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.peek(1)
	if err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, v...))
	return nil
}

func stackIndexArg(e *Engine) (int, error) {
	v, err := e.dstack.pop()
	if err != nil {
		return 0, err
	}
	n, err := avmnum.FromBytes(v, MaxScriptNumLen)
	if err != nil {
		return 0, avmscript.NewError(avmscript.ErrInvalidNumberRange, "invalid numeric argument")
	}
	idx, err := n.GetSizeType()
	if err != nil {
		return 0, avmscript.NewError(avmscript.ErrInvalidNumberRange, "negative or oversized index")
	}
	return idx, nil
}

func opPick(e *Engine, pop avmscript.ParsedOpcode) error {
	idx, err := stackIndexArg(e)
	if err != nil {
		return err
	}
	v, err := e.dstack.peek(idx)
	if err != nil {
		return err
	}
	e.dstack.push(append([]byte{}, v...))
	return nil
}

func opRoll(e *Engine, pop avmscript.ParsedOpcode) error {
	idx, err := stackIndexArg(e)
	if err != nil {
		return err
	}
	v, err := e.dstack.peek(idx)
	if err != nil {
		return err
	}
	if err := e.dstack.nipAt(idx); err != nil {
		return err
	}
	e.dstack.push(v)
	return nil
}

func opRot(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.peek(2)
	if err != nil {
		return err
	}
	if err := e.dstack.nipAt(2); err != nil {
		return err
	}
	e.dstack.push(v)
	return nil
}

func opSwap(e *Engine, pop avmscript.ParsedOpcode) error {
	a, err := e.dstack.peek(1)
	if err != nil {
		return err
	}
	if err := e.dstack.nipAt(1); err != nil {
		return err
	}
	e.dstack.push(a)
	return nil
}

func opTuck(e *Engine, pop avmscript.ParsedOpcode) error {
	v, err := e.dstack.peek(0)
	if err != nil {
		return err
	}
	return e.dstack.insertAt(2, append([]byte{}, v...))
}
