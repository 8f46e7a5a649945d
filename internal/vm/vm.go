// Package vm implements the bytecode dispatch loop: Frame, the opcode
// switch, name resolution, and the process-wide interpreter lock the
// concurrency model cooperates with. It installs itself as the
// implementation behind object.Invoke at package init, the same
// callback-based indirection object.RefCountManager uses to reach back into
// its owner without an import cycle.
package vm

import (
	"sync"

	"github.com/cwbudde/kya/internal/bytecode"
	"github.com/cwbudde/kya/internal/concurrency"
	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

// interpreterLock is the single process-wide mutex serializing bytecode
// dispatch across goroutines. It is installed into internal/concurrency so
// Thread/Lock's suspension points can release and reacquire the same lock
// the dispatch loop holds.
var interpreterLock = &sync.Mutex{}

func init() {
	concurrency.Install(interpreterLock)
	object.Invoke = callFunction
}

// Frame is the activation record for one invocation: a locals dict, the
// globals dict shared by every frame from the same module, the immutable
// CodeObject being executed, an instruction pointer, and a value stack. The
// root frame's locals and globals are the same *object.Dict, so top-level
// stores land in globals.
type Frame struct {
	Locals  *object.Dict
	Globals *object.Dict
	Code    *object.CodeObject
	PC      int
	Stack   []object.Value
}

func (f *Frame) push(v object.Value) { f.Stack = append(f.Stack, v) }

func (f *Frame) pop() (object.Value, error) {
	if len(f.Stack) == 0 {
		return nil, errors.New(errors.Runtime, errors.Position{}, "stack underflow")
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v, nil
}

// Eval runs code to completion against globals, constructing the root
// frame with locals == globals, and returns the stack-top value at exit,
// or None on normal fall-through past the end of code.
func Eval(code *object.CodeObject, globals *object.Dict) (object.Value, error) {
	interpreterLock.Lock()
	defer interpreterLock.Unlock()
	frame := &Frame{Locals: globals, Globals: globals, Code: code}
	return runFrame(frame)
}

// callFunction is installed as object.Invoke: it allocates a fresh locals
// dict, binds receiver under "self" if present, arity-checks and binds the
// formal parameters, and runs the resulting Frame to completion. The
// interpreter lock is already held by the caller's own dispatch loop (Call
// never releases it), so callFunction does not acquire it again.
//
// Every call-time binding (self and each parameter) is retained exactly
// like a StoreName binding, so rebinding a parameter inside the body
// releases a reference that was genuinely counted, and releaseLocals can
// drop the whole dict's ownership when the frame returns.
func callFunction(fn *object.Function, args []object.Value, receiver object.Value) (object.Value, error) {
	if len(fn.Code.Args) != len(args) {
		return nil, errors.Newf(errors.Runtime, errors.Position{},
			"%s() expected %d, got %d", fn.Name, len(fn.Code.Args), len(args))
	}

	if err := calls.push(fn.Name); err != nil {
		return nil, err
	}
	defer calls.pop()

	locals := object.NewDict()
	if receiver != nil {
		locals.Set("self", refManager.Retain(receiver))
	}
	for i, param := range fn.Code.Args {
		locals.Set(param, refManager.Retain(args[i]))
	}

	frame := &Frame{Locals: locals, Globals: fn.Globals, Code: fn.Code}
	result, err := runFrame(frame)
	releaseLocals(locals, result)
	if kerr, ok := err.(*errors.KyaError); ok && len(kerr.Trace) == 0 {
		kerr.WithTrace(calls.trace())
	}
	return result, err
}

// releaseLocals drops a returning frame's ownership of every binding in
// its locals dict, running deinit for any Instance that was reachable only
// through the dying frame. The frame's result value is exempt: its
// ownership transfers to the caller's stack, and the caller's own
// StoreName/StoreAttr retains it if it is bound. A result that the caller
// merely discards keeps whatever count its bindings in the dying frame gave
// it and is never released — an overcount, the same statement-granularity
// approximation the rest of the refcounting makes.
func releaseLocals(locals *object.Dict, result object.Value) {
	for _, name := range locals.Keys() {
		v, ok := locals.Get(name)
		if !ok || v == result {
			continue
		}
		refManager.Release(v)
	}
}

// runFrame is the dispatch loop: while pc < len(code), read one opcode,
// advance pc past it and its operand, execute the handler. Any error
// unwinds the frame and propagates to the caller. An unrecognized opcode
// or an out-of-range constant/name index is an implementation bug and
// panics with a diagnostic naming the opcode and pc, rather than returning
// a recoverable error.
func runFrame(f *Frame) (object.Value, error) {
	code := f.Code.Code
	for f.PC < len(code) {
		opPC := f.PC
		op := bytecode.OpCode(code[f.PC])
		f.PC++

		var operand int
		if bytecode.HasOperand(op) {
			operand = int(bytecode.ReadOperand(code, f.PC))
			f.PC += 2
		}

		if err := f.dispatch(op, operand, opPC); err != nil {
			return nil, err
		}
	}

	if len(f.Stack) == 0 {
		return object.None, nil
	}
	return f.pop()
}
