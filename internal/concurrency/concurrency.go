// Package concurrency implements the Thread and Lock builtin types and
// wires them to the process-wide interpreter lock. Scheduling is parallel
// OS threads (goroutines here) cooperating through a single lock: at any
// instant at most one goroutine may execute bytecode or mutate a Value.
// Thread.start/Thread.join/Lock.acquire/Lock.release are the suspension
// points where a goroutine releases that lock and reacquires it before
// returning.
package concurrency

import (
	"sync"

	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

// InterpreterLock is the single process-wide mutex serializing bytecode
// dispatch across goroutines. internal/vm installs it via Install at
// startup; Thread and Lock release and reacquire it at their suspension
// points. It is package-level rather than carried on every Value because
// Thread/Lock are reached only through the object protocol, which has no
// slot for passing interpreter-level state.
var InterpreterLock *sync.Mutex

// Install wires lock as the shared interpreter lock for Thread/Lock
// suspension points.
func Install(lock *sync.Mutex) {
	InterpreterLock = lock
}

// --- Thread ---------------------------------------------------------------

// Thread wraps a callable Value that has not yet run, or is running, or has
// completed on its own goroutine.
type Thread struct {
	mu       sync.Mutex
	callable object.Value
	started  bool
	done     chan struct{}
	result   object.Value
	err      error
}

func (t *Thread) Type() *object.Type { return ThreadType }

// ThreadType is the built-in Thread class.
var ThreadType = func() *object.Type {
	t := &object.Type{Name: "Thread", Parent: object.Base, MetaType: object.ClassType, Dict: object.NewDict()}
	t.New = func(_ *object.Type, _ []object.Value) (object.Value, error) {
		return &Thread{done: make(chan struct{})}, nil
	}
	t.Init = func(self object.Value, args []object.Value) error {
		if len(args) != 1 {
			return errors.Newf(errors.Runtime, errors.Position{}, "Thread() expected 1 argument, got %d", len(args))
		}
		self.(*Thread).callable = args[0]
		return nil
	}
	t.Repr = func(object.Value) (string, error) { return "<thread>", nil }
	t.Bool = func(object.Value) (bool, error) { return true, nil }
	t.GetAttr = object.DefaultGetAttr
	t.Dict.Set("start", &object.NativeFunction{Name: "start", Fn: threadStart})
	t.Dict.Set("join", &object.NativeFunction{Name: "join", Fn: threadJoin})
	return t
}()

func threadStart(_ []object.Value, receiver object.Value) (object.Value, error) {
	th, ok := receiver.(*Thread)
	if !ok {
		return nil, errors.New(errors.Type, errors.Position{}, "start() called on a non-Thread receiver")
	}

	th.mu.Lock()
	if th.started {
		th.mu.Unlock()
		return nil, errors.New(errors.Runtime, errors.Position{}, "thread already started")
	}
	th.started = true
	th.mu.Unlock()

	// Suspension point: release the interpreter lock immediately before
	// spawning; the spawned goroutine acquires it again at entry.
	InterpreterLock.Unlock()
	go func() {
		InterpreterLock.Lock()
		result, err := object.Call(th.callable, nil)
		th.mu.Lock()
		th.result, th.err = result, err
		th.mu.Unlock()
		close(th.done)
		InterpreterLock.Unlock()
	}()
	InterpreterLock.Lock()

	return object.None, nil
}

func threadJoin(_ []object.Value, receiver object.Value) (object.Value, error) {
	th, ok := receiver.(*Thread)
	if !ok {
		return nil, errors.New(errors.Type, errors.Position{}, "join() called on a non-Thread receiver")
	}

	// Suspension point: release the interpreter lock for the blocking wait.
	InterpreterLock.Unlock()
	<-th.done
	InterpreterLock.Lock()

	th.mu.Lock()
	defer th.mu.Unlock()
	if th.err != nil {
		return nil, th.err
	}
	return th.result, nil
}

// --- Lock -------------------------------------------------------------

// Lock wraps a mutex distinct from the interpreter lock, giving user code a
// synchronization primitive of its own.
type Lock struct {
	mu sync.Mutex
}

func (l *Lock) Type() *object.Type { return LockType }

// LockType is the built-in Lock class.
var LockType = func() *object.Type {
	t := &object.Type{Name: "Lock", Parent: object.Base, MetaType: object.ClassType, Dict: object.NewDict()}
	t.New = func(_ *object.Type, _ []object.Value) (object.Value, error) {
		return &Lock{}, nil
	}
	t.Init = func(object.Value, []object.Value) error { return nil }
	t.Repr = func(object.Value) (string, error) { return "<lock>", nil }
	t.Bool = func(object.Value) (bool, error) { return true, nil }
	t.GetAttr = object.DefaultGetAttr
	t.Dict.Set("acquire", &object.NativeFunction{Name: "acquire", Fn: lockAcquire})
	t.Dict.Set("release", &object.NativeFunction{Name: "release", Fn: lockRelease})
	return t
}()

func lockAcquire(_ []object.Value, receiver object.Value) (object.Value, error) {
	l, ok := receiver.(*Lock)
	if !ok {
		return nil, errors.New(errors.Type, errors.Position{}, "acquire() called on a non-Lock receiver")
	}
	InterpreterLock.Unlock()
	l.mu.Lock()
	InterpreterLock.Lock()
	return object.None, nil
}

func lockRelease(_ []object.Value, receiver object.Value) (object.Value, error) {
	l, ok := receiver.(*Lock)
	if !ok {
		return nil, errors.New(errors.Type, errors.Position{}, "release() called on a non-Lock receiver")
	}
	InterpreterLock.Unlock()
	l.mu.Unlock()
	InterpreterLock.Lock()
	return object.None, nil
}
