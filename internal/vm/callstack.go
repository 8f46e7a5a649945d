package vm

import "github.com/cwbudde/kya/internal/errors"

// callStack tracks the chain of in-flight Function calls for recursion-depth
// enforcement and error stack traces. It exposes only the three operations
// callFunction actually needs: push/pop around a call, and trace to
// snapshot the stack onto an escaping error.
type callStack struct {
	frames   errors.StackTrace
	maxDepth int
}

// calls is the process-wide call stack. The interpreter lock already
// serializes every callFunction invocation, so no separate mutex is needed.
var calls = &callStack{maxDepth: 1024}

// push records a frame for name, or reports a stack overflow once maxDepth
// is reached — the recursion-depth counterpart to config.go's
// StackLimitBytes (which bounds the underlying goroutine's memory, not call
// count).
func (cs *callStack) push(name string) error {
	if len(cs.frames) >= cs.maxDepth {
		return errors.Newf(errors.Runtime, errors.Position{},
			"stack overflow: maximum call depth (%d) exceeded in %s()", cs.maxDepth, name)
	}
	cs.frames = append(cs.frames, errors.StackFrame{FunctionName: name})
	return nil
}

// pop discards the most recently pushed frame, a no-op if the stack is empty.
func (cs *callStack) pop() {
	if len(cs.frames) > 0 {
		cs.frames = cs.frames[:len(cs.frames)-1]
	}
}

// trace returns a snapshot of the current frames, oldest call first.
func (cs *callStack) trace() errors.StackTrace {
	out := make(errors.StackTrace, len(cs.frames))
	copy(out, cs.frames)
	return out
}
