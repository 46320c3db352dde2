// Package interpreter implements the opcode dispatch loop: parsed-script
// iteration, the condition stack, global limits, and every opcode body,
// grounded on the retrieved btcsuite/btcd script engine's Step/Execute
// structure and on the original interpreter's per-opcode stack and error
// semantics.
package interpreter

import (
	"github.com/atomicals/avm-interpreter/avmctx"
	"github.com/atomicals/avm-interpreter/avmhash"
	"github.com/atomicals/avm-interpreter/avmlog"
	"github.com/atomicals/avm-interpreter/avmnum"
	"github.com/atomicals/avm-interpreter/avmscript"
	"github.com/atomicals/avm-interpreter/avmsig"
	"github.com/atomicals/avm-interpreter/avmstate"
)

var log = avmlog.InterpreterLogger()

// Engine runs one unlock+lock script pair against a shared data stack,
// condition stack, and op-count budget. A fresh Engine is used for every
// input verified; nothing about it is safe for concurrent reuse.
type Engine struct {
	hash avmhash.HashProvider
	sig  avmsig.SignatureVerifier

	dstack stack
	astack stack
	cond   *condStack

	opCount int

	ctx   *avmctx.Context
	state *avmstate.Context
}

// New returns an Engine using the given hash and signature collaborators.
func New(hash avmhash.HashProvider, sig avmsig.SignatureVerifier) *Engine {
	return &Engine{hash: hash, sig: sig}
}

// Run executes unlock, then lock, against ctx and state, and returns the
// resulting main stack. Per §4.7 the caller (the verifier) is responsible
// for the push-only check on unlock and the clean-stack check on the
// result; Run only enforces the per-script balanced-conditional rule and
// the opcode-level semantics.
func (e *Engine) Run(unlock, lock avmscript.Script, ctx *avmctx.Context, state *avmstate.Context) ([][]byte, error) {
	e.dstack = stack{}
	e.astack = stack{}
	e.cond = newCondStack()
	e.opCount = 0
	e.ctx = ctx
	e.state = state

	if err := e.evalScript(unlock); err != nil {
		return nil, err
	}
	if !e.cond.empty() {
		return nil, avmscript.NewError(avmscript.ErrUnbalancedConditional, "unlock script ended with open conditional")
	}

	e.astack = stack{}

	if err := e.evalScript(lock); err != nil {
		return nil, err
	}
	if !e.cond.empty() {
		return nil, avmscript.NewError(avmscript.ErrUnbalancedConditional, "lock script ended with open conditional")
	}

	return e.dstack.items, nil
}

func (e *Engine) evalScript(s avmscript.Script) error {
	if len(s) > avmscript.MaxScriptSize {
		return avmscript.NewError(avmscript.ErrScriptSize, "script exceeds maximum size")
	}

	r := avmscript.NewReader(s)
	for !r.Done() {
		pop, err := r.Next()
		if err != nil {
			return err
		}

		if !avmscript.IsPushData(pop.Opcode) {
			e.opCount++
			if e.opCount > MaxOpCount {
				return avmscript.NewError(avmscript.ErrOpCount, "opcode count exceeds maximum")
			}
		}

		if err := e.step(pop); err != nil {
			return err
		}

		if e.dstack.depth()+e.astack.depth() > MaxStackDepth {
			return avmscript.NewError(avmscript.ErrStackSize, "combined stack depth exceeds maximum")
		}
	}
	return nil
}

// step dispatches a single parsed opcode, honoring the condition stack:
// control-flow opcodes always run (they maintain cond itself); every other
// opcode only runs when the entire condition stack is true.
func (e *Engine) step(pop avmscript.ParsedOpcode) error {
	log.Tracef("step: opcode=%s dstack=%d astack=%d", pop.Opcode, e.dstack.depth(), e.astack.depth())

	switch pop.Opcode {
	case avmscript.OP_IF, avmscript.OP_NOTIF:
		return e.opIf(pop)
	case avmscript.OP_ELSE:
		if e.cond.empty() {
			return avmscript.NewError(avmscript.ErrUnbalancedConditional, "OP_ELSE without matching OP_IF")
		}
		e.cond.toggleTop()
		return nil
	case avmscript.OP_ENDIF:
		if e.cond.empty() {
			return avmscript.NewError(avmscript.ErrUnbalancedConditional, "OP_ENDIF without matching OP_IF")
		}
		e.cond.popBack()
		return nil
	}

	if !e.cond.allTrue() {
		return nil
	}

	if avmscript.IsPushData(pop.Opcode) && pop.Opcode != avmscript.OP_RESERVED {
		return e.opPush(pop)
	}

	if handler, ok := opcodeHandlers[pop.Opcode]; ok {
		return handler(e, pop)
	}
	return avmscript.NewError(avmscript.ErrBadOpcode, "unrecognized opcode")
}

func (e *Engine) opIf(pop avmscript.ParsedOpcode) error {
	value := false
	if e.cond.allTrue() {
		v, err := e.dstack.pop()
		if err != nil {
			return avmscript.NewError(avmscript.ErrUnbalancedConditional, "missing condition value")
		}
		if len(v) > 1 || (len(v) == 1 && v[0] != 0x01) {
			return avmscript.NewError(avmscript.ErrMinimalIf, "conditional value is not minimally encoded")
		}
		value = vchToBool(v)
		if pop.Opcode == avmscript.OP_NOTIF {
			value = !value
		}
	}
	e.cond.pushBack(value)
	return nil
}

func (e *Engine) opPush(pop avmscript.ParsedOpcode) error {
	switch {
	case pop.Opcode == avmscript.OP_0:
		e.dstack.push([]byte{})
	case pop.Opcode == avmscript.OP_1NEGATE:
		e.dstack.push(avmnum.FromInt64(-1).GetVch())
	case avmscript.IsSmallInt(pop.Opcode) && pop.Opcode != avmscript.OP_0:
		n := int64(pop.Opcode) - int64(avmscript.OP_1) + 1
		e.dstack.push(avmnum.FromInt64(n).GetVch())
	default:
		e.dstack.push(append([]byte{}, pop.Data...))
	}
	return nil
}

type opcodeHandler func(e *Engine, pop avmscript.ParsedOpcode) error

var opcodeHandlers map[avmscript.Opcode]opcodeHandler

func registerHandlers(m map[avmscript.Opcode]opcodeHandler) {
	if opcodeHandlers == nil {
		opcodeHandlers = make(map[avmscript.Opcode]opcodeHandler)
	}
	for op, h := range m {
		opcodeHandlers[op] = h
	}
}

func init() {
	registerHandlers(stackHandlers)
	registerHandlers(spliceAndBitwiseHandlers)
	registerHandlers(arithmeticHandlers)
	registerHandlers(cryptoHandlers)
	registerHandlers(introspectionHandlers)
	registerHandlers(stateHandlers)
	registerHandlers(controlHandlers)
}
