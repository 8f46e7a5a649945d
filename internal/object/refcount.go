package object

import "sync"

// DestructorCallback is invoked when an Instance's reference count reaches
// zero. Implementations look up and invoke a "deinit" method if the
// instance's type defines one.
type DestructorCallback func(inst *Instance) error

// RefCountManager tracks Instance reference counts and invokes a destructor
// callback at zero. It is a callback-based indirection so the object
// package does not need to know how (or whether) a "deinit" method is
// dispatched; internal/vm installs the callback once it exists.
type RefCountManager struct {
	mu                 sync.RWMutex
	destructorCallback DestructorCallback
}

// NewRefCountManager creates a manager with no destructor callback installed.
func NewRefCountManager() *RefCountManager {
	return &RefCountManager{}
}

// SetDestructorCallback installs cb as the callback invoked on refcount zero.
func (m *RefCountManager) SetDestructorCallback(cb DestructorCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destructorCallback = cb
}

// Retain increments v's reference count, if v is an Instance, and returns v
// unchanged for chaining.
func (m *RefCountManager) Retain(v Value) Value {
	if inst, ok := v.(*Instance); ok && inst != nil {
		inst.refs.incr()
	}
	return v
}

// Release decrements v's reference count, if v is an Instance, invoking the
// destructor callback when the count reaches zero.
func (m *RefCountManager) Release(v Value) {
	inst, ok := v.(*Instance)
	if !ok || inst == nil {
		return
	}
	if inst.refs.decr() {
		m.mu.RLock()
		cb := m.destructorCallback
		m.mu.RUnlock()
		if cb != nil {
			_ = cb(inst)
		}
	}
}

// refCount is a plain mutex-guarded counter embedded in Instance. The
// finalized flag makes the destructor one-shot: the deinit invocation
// itself binds the instance as self (a counted reference released when
// the deinit frame returns), and without the flag that release would
// re-fire the destructor. The constructing flag suppresses the destructor
// for the duration of tp_init, whose self binding is the only counted
// reference a brand-new instance has.
type refCount struct {
	mu           sync.Mutex
	count        int
	finalized    bool
	constructing bool
}

// beginConstruction opens the window during which a zero count does not
// finalize; endConstruction closes it.
func (r *refCount) beginConstruction() {
	r.mu.Lock()
	r.constructing = true
	r.mu.Unlock()
}

func (r *refCount) endConstruction() {
	r.mu.Lock()
	r.constructing = false
	r.mu.Unlock()
}

// newRefCount starts at zero: an Instance owns no references to itself yet,
// only RefCountManager.Retain (driven by a StoreName/StoreAttr or call-time
// parameter binding) grants it one.
func newRefCount() *refCount {
	return &refCount{}
}

func (r *refCount) incr() {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
}

// decr reports whether the count reached zero for the first time outside
// the construction window.
func (r *refCount) decr() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count > 0 {
		r.count--
	}
	if r.count <= 0 && !r.finalized && !r.constructing {
		r.finalized = true
		return true
	}
	return false
}
