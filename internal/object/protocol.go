package object

import "github.com/cwbudde/kya/internal/errors"

// Repr dispatches tp_repr, producing the human-readable form `print` and
// string-conversion builtins use.
func Repr(v Value) (string, error) {
	t := v.Type()
	if t.Repr == nil {
		return "", typeError(t, "repr")
	}
	return t.Repr(v)
}

// Len dispatches sq_len.
func Len(v Value) (int, error) {
	t := v.Type()
	if t.Len == nil {
		return 0, typeError(t, "len()")
	}
	return t.Len(v)
}

// HashOf dispatches tp_hash.
func HashOf(v Value) (uint64, error) {
	t := v.Type()
	if t.Hash == nil {
		return 0, typeError(t, "hashing")
	}
	return t.Hash(v)
}

// Compare dispatches tp_compare.
func Compare(l, r Value, op CompareOp) (bool, error) {
	t := l.Type()
	if t.Compare == nil {
		return false, typeError(t, "comparison")
	}
	return t.Compare(l, r, op)
}

// GetAttr dispatches tp_get_attr.
func GetAttr(v Value, name string) (Value, error) {
	t := v.Type()
	if t.GetAttr == nil {
		return nil, typeError(t, "attribute access")
	}
	return t.GetAttr(v, name)
}

// SetAttr dispatches tp_set_attr.
func SetAttr(v Value, name string, val Value) error {
	t := v.Type()
	if t.SetAttr == nil {
		return typeError(t, "attribute assignment")
	}
	return t.SetAttr(v, name, val)
}

// Call dispatches tp_call with no bound receiver — the entry point the
// interpreter's Call opcode uses for a plain (non-Method) callable.
func Call(v Value, args []Value) (Value, error) {
	t := v.Type()
	if t.Call == nil {
		return nil, errors.Newf(errors.Type, errors.Position{}, "'%s' object is not callable", t.Name)
	}
	return t.Call(v, args, nil)
}
