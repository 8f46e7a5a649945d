package object

import (
	"strings"
	"sync"

	"github.com/cwbudde/kya/internal/errors"
)

// --- Bytes ----------------------------------------------------------------

// Bytes is a mutable byte buffer Value, guarded by its own mutex
// independent of the interpreter lock.
type Bytes struct {
	mu   sync.Mutex
	Data []byte
}

// NewBytes wraps data (copied) in a Bytes Value.
func NewBytes(data []byte) *Bytes {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Bytes{Data: buf}
}

func (b *Bytes) Type() *Type { return BytesTypeObj }

// Bytes returns a defensive copy of the buffer contents.
func (b *Bytes) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

var BytesTypeObj = newType("Bytes", Base)

func init() {
	BytesTypeObj.Repr = func(self Value) (string, error) { return string(self.(*Bytes).Bytes()), nil }
	BytesTypeObj.Bool = func(self Value) (bool, error) { return len(self.(*Bytes).Bytes()) != 0, nil }
	BytesTypeObj.Len = func(self Value) (int, error) { return len(self.(*Bytes).Bytes()), nil }
	BytesTypeObj.GetAttr = DefaultGetAttr
	BytesTypeObj.Compare = func(selfV, other Value, op CompareOp) (bool, error) {
		o, ok := other.(*Bytes)
		eq := ok && string(selfV.(*Bytes).Bytes()) == string(o.Bytes())
		switch op {
		case CompareEqual:
			return eq, nil
		case CompareNotEqual:
			return !eq, nil
		default:
			return false, typeError(BytesTypeObj, "ordering")
		}
	}
}

// --- List -------------------------------------------------------------

// List is a mutable, ordered Value sequence.
type List struct {
	mu    sync.Mutex
	Items []Value
}

// NewList wraps items in a List Value. items is taken by reference.
func NewList(items []Value) *List {
	return &List{Items: items}
}

func (l *List) Type() *Type { return ListTypeObj }

// Snapshot returns a defensive copy of the current items.
func (l *List) Snapshot() []Value {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Value, len(l.Items))
	copy(out, l.Items)
	return out
}

// Append adds v to the end of the list under the list's own mutex.
func (l *List) Append(v Value) {
	l.mu.Lock()
	l.Items = append(l.Items, v)
	l.mu.Unlock()
}

// SetItems replaces the list's contents wholesale under its own mutex —
// used by the "sort" method to install a reordered copy produced from a
// Snapshot.
func (l *List) SetItems(items []Value) {
	l.mu.Lock()
	l.Items = items
	l.mu.Unlock()
}

var ListTypeObj = newType("List", Base)

func init() {
	ListTypeObj.Repr = func(self Value) (string, error) {
		items := self.(*List).Snapshot()
		parts := make([]string, len(items))
		for i, it := range items {
			r, err := Repr(it)
			if err != nil {
				return "", err
			}
			if _, ok := it.(String); ok {
				r = `"` + r + `"`
			}
			parts[i] = r
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}
	ListTypeObj.Bool = func(self Value) (bool, error) { return len(self.(*List).Snapshot()) != 0, nil }
	ListTypeObj.Len = func(self Value) (int, error) { return len(self.(*List).Snapshot()), nil }
	ListTypeObj.GetAttr = DefaultGetAttr
	ListTypeObj.Compare = func(selfV, other Value, op CompareOp) (bool, error) {
		eq := selfV == other
		switch op {
		case CompareEqual:
			return eq, nil
		case CompareNotEqual:
			return !eq, nil
		default:
			return false, typeError(ListTypeObj, "ordering")
		}
	}

	ListTypeObj.Dict.Set("append", &NativeFunction{Name: "append", Fn: func(args []Value, receiver Value) (Value, error) {
		self, ok := receiver.(*List)
		if !ok {
			return nil, typeError(ListTypeObj, "append")
		}
		if len(args) != 1 {
			return nil, errors.Newf(errors.Runtime, errors.Position{}, "append expected 1 argument, got %d", len(args))
		}
		self.Append(args[0])
		return None, nil
	}})

	ListTypeObj.Dict.Set("get", &NativeFunction{Name: "get", Fn: func(args []Value, receiver Value) (Value, error) {
		self, ok := receiver.(*List)
		if !ok {
			return nil, typeError(ListTypeObj, "get")
		}
		if len(args) != 1 {
			return nil, errors.Newf(errors.Runtime, errors.Position{}, "get expected 1 argument, got %d", len(args))
		}
		idx, ok := args[0].(Number)
		if !ok {
			return nil, errors.Newf(errors.Type, errors.Position{}, "list index must be a Number, got %s", args[0].Type().Name)
		}
		items := self.Snapshot()
		i := int(idx)
		if i < 0 || i >= len(items) {
			return nil, errors.Newf(errors.Value, errors.Position{}, "list index %d out of range (len %d)", i, len(items))
		}
		return items[i], nil
	}})
}

// --- Hash -------------------------------------------------------------

// HashEntry pairs a Hash's original key Value with its stored value, keyed
// internally by the key's tp_hash result so the original key is still
// available for iteration and repr even though lookup goes through its
// hash.
type HashEntry struct {
	Key   Value
	Value Value
}

// Hash is a mutable, hash-keyed Value map.
type Hash struct {
	mu      sync.Mutex
	entries map[uint64]HashEntry
}

// NewHash creates an empty Hash.
func NewHash() *Hash {
	return &Hash{entries: make(map[uint64]HashEntry)}
}

func (h *Hash) Type() *Type { return HashTypeObj }

// Get looks up key by its tp_hash value.
func (h *Hash) Get(key Value) (Value, bool, error) {
	k, err := HashOf(key)
	if err != nil {
		return nil, false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[k]
	if !ok {
		return nil, false, nil
	}
	return e.Value, true, nil
}

// Set binds key to value by key's tp_hash.
func (h *Hash) Set(key, value Value) error {
	k, err := HashOf(key)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.entries[k] = HashEntry{Key: key, Value: value}
	h.mu.Unlock()
	return nil
}

// Len returns the number of entries.
func (h *Hash) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a defensive copy of every stored entry.
func (h *Hash) Entries() []HashEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HashEntry, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e)
	}
	return out
}

var HashTypeObj = newType("Hash", Base)

func init() {
	HashTypeObj.Repr = func(self Value) (string, error) {
		entries := self.(*Hash).Entries()
		parts := make([]string, len(entries))
		for i, e := range entries {
			kr, err := Repr(e.Key)
			if err != nil {
				return "", err
			}
			vr, err := Repr(e.Value)
			if err != nil {
				return "", err
			}
			parts[i] = kr + ": " + vr
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	}
	HashTypeObj.Bool = func(self Value) (bool, error) { return self.(*Hash).Len() != 0, nil }
	HashTypeObj.Len = func(self Value) (int, error) { return self.(*Hash).Len(), nil }
	HashTypeObj.GetAttr = DefaultGetAttr
	HashTypeObj.Compare = func(selfV, other Value, op CompareOp) (bool, error) {
		eq := selfV == other
		switch op {
		case CompareEqual:
			return eq, nil
		case CompareNotEqual:
			return !eq, nil
		default:
			return false, typeError(HashTypeObj, "ordering")
		}
	}

	HashTypeObj.Dict.Set("get", &NativeFunction{Name: "get", Fn: func(args []Value, receiver Value) (Value, error) {
		self, ok := receiver.(*Hash)
		if !ok {
			return nil, typeError(HashTypeObj, "get")
		}
		if len(args) != 1 {
			return nil, errors.Newf(errors.Runtime, errors.Position{}, "get expected 1 argument, got %d", len(args))
		}
		v, ok, err := self.Get(args[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return None, nil
		}
		return v, nil
	}})

	HashTypeObj.Dict.Set("insert", &NativeFunction{Name: "insert", Fn: func(args []Value, receiver Value) (Value, error) {
		self, ok := receiver.(*Hash)
		if !ok {
			return nil, typeError(HashTypeObj, "insert")
		}
		if len(args) != 2 {
			return nil, errors.Newf(errors.Runtime, errors.Position{}, "insert expected 2 arguments, got %d", len(args))
		}
		if err := self.Set(args[0], args[1]); err != nil {
			return nil, err
		}
		return None, nil
	}})
}
