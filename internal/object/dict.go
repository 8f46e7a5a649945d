package object

import "sync"

// Dict is the mutex-guarded attribute/name table backing globals, locals,
// Type dicts, Instance dicts, and Module dicts. Mutation always goes through
// its own lock; callers that also need the interpreter lock must acquire it
// first (interpreter-lock -> value-mutex, never the other order).
type Dict struct {
	mu      sync.RWMutex
	entries map[string]Value
	order   []string
}

// NewDict creates an empty Dict.
func NewDict() *Dict {
	return &Dict{entries: make(map[string]Value)}
}

// Get returns the value bound to name and whether it was present.
func (d *Dict) Get(name string) (Value, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.entries[name]
	return v, ok
}

// Set binds name to v, appending name to the insertion order the first time
// it is seen.
func (d *Dict) Set(name string, v Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[name]; !ok {
		d.order = append(d.order, name)
	}
	d.entries[name] = v
}

// Delete removes name, if present.
func (d *Dict) Delete(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[name]; !ok {
		return
	}
	delete(d.entries, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Keys returns the bound names in insertion order.
func (d *Dict) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len reports the number of bound names.
func (d *Dict) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
