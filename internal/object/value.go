package object

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cwbudde/kya/internal/errors"
)

// Value is implemented by every runtime value in the language. Type() is
// total (invariant 1): every Value carries a Type reference.
type Value interface {
	Type() *Type
}

// lookupMethod walks t's Parent chain (which terminates at Base in bounded
// steps — invariant 6) looking for name in each Type's Dict.
func lookupMethod(t *Type, name string) (Value, bool) {
	for cur := t; cur != nil; cur = cur.Parent {
		if v, ok := cur.Dict.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// bindIfCallable wraps a Function or NativeFunction attribute read off of
// receiver in a Method, the join point between a shared function and the
// instance it was read through. Any other kind of attribute value passes
// through unchanged.
func bindIfCallable(receiver Value, v Value) Value {
	switch v.(type) {
	case *Function, *NativeFunction:
		return &Method{Receiver: receiver, Function: v}
	default:
		return v
	}
}

// DefaultGetAttr implements the non-Instance attribute lookup order: the
// Type's own Dict, then its Parent chain's Dict. It is the tp_get_attr slot
// shared by every built-in Type that has no per-value dict of its own.
func DefaultGetAttr(self Value, name string) (Value, error) {
	t := self.Type()
	if v, ok := lookupMethod(t, name); ok {
		return bindIfCallable(self, v), nil
	}
	return nil, errors.Newf(errors.Runtime, errors.Position{}, "'%s' object has no attribute %q", t.Name, name)
}

// --- None -------------------------------------------------------------

type noneValue struct{}

// None is the language's single None singleton.
var None Value = noneValue{}

func (noneValue) Type() *Type { return NoneTypeObj }

var NoneTypeObj = newType("None", Base)

func init() {
	NoneTypeObj.Repr = func(Value) (string, error) { return "None", nil }
	NoneTypeObj.Bool = func(Value) (bool, error) { return false, nil }
	NoneTypeObj.Hash = func(Value) (uint64, error) { return 0, nil }
	NoneTypeObj.GetAttr = DefaultGetAttr
	NoneTypeObj.Compare = func(_ Value, other Value, op CompareOp) (bool, error) {
		_, same := other.(noneValue)
		switch op {
		case CompareEqual:
			return same, nil
		case CompareNotEqual:
			return !same, nil
		default:
			return false, typeError(NoneTypeObj, "ordering")
		}
	}
}

// --- Bool ---------------------------------------------------------------

// Bool is the boolean Value kind.
type Bool bool

// True and False are the language's singleton booleans.
var (
	True  Value = Bool(true)
	False Value = Bool(false)
)

func (b Bool) Type() *Type { return BoolTypeObj }

var BoolTypeObj = newType("Bool", Base)

func init() {
	BoolTypeObj.Repr = func(self Value) (string, error) {
		if bool(self.(Bool)) {
			return "true", nil
		}
		return "false", nil
	}
	BoolTypeObj.Bool = func(self Value) (bool, error) { return bool(self.(Bool)), nil }
	BoolTypeObj.Hash = func(self Value) (uint64, error) {
		if self.(Bool) {
			return 1, nil
		}
		return 0, nil
	}
	BoolTypeObj.GetAttr = DefaultGetAttr
	BoolTypeObj.Compare = func(selfV Value, other Value, op CompareOp) (bool, error) {
		self := bool(selfV.(Bool))
		o, ok := other.(Bool)
		switch op {
		case CompareEqual:
			return ok && self == bool(o), nil
		case CompareNotEqual:
			return !ok || self != bool(o), nil
		default:
			return false, typeError(BoolTypeObj, "ordering")
		}
	}
}

// Truthy reports a Value's boolean coercion via nb_bool; a nonzero result
// counts as true, 0/empty as false.
func Truthy(v Value) (bool, error) {
	t := v.Type()
	if t.Bool == nil {
		return false, typeError(t, "boolean conversion")
	}
	return t.Bool(v)
}

// --- Number ---------------------------------------------------------------

// Number is the language's single numeric Value kind, a float64.
type Number float64

func (n Number) Type() *Type { return NumberTypeObj }

var NumberTypeObj = newType("Number", Base)

func fmtFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func init() {
	NumberTypeObj.Repr = func(self Value) (string, error) { return fmtFloat(float64(self.(Number))), nil }
	NumberTypeObj.Bool = func(self Value) (bool, error) { return float64(self.(Number)) != 0, nil }
	NumberTypeObj.Hash = func(self Value) (uint64, error) {
		return math.Float64bits(float64(self.(Number))), nil
	}
	NumberTypeObj.GetAttr = DefaultGetAttr
	NumberTypeObj.Compare = func(selfV, other Value, op CompareOp) (bool, error) {
		self := float64(selfV.(Number))
		o, ok := other.(Number)
		if !ok {
			if op == CompareEqual {
				return false, nil
			}
			if op == CompareNotEqual {
				return true, nil
			}
			return false, typeError(NumberTypeObj, fmt.Sprintf("ordering against %s", other.Type().Name))
		}
		rhs := float64(o)
		switch op {
		case CompareEqual:
			return self == rhs, nil
		case CompareNotEqual:
			return self != rhs, nil
		case CompareLess:
			return self < rhs, nil
		case CompareLessEqual:
			return self <= rhs, nil
		case CompareGreater:
			return self > rhs, nil
		case CompareGreaterEqual:
			return self >= rhs, nil
		}
		return false, typeError(NumberTypeObj, "unknown comparison")
	}

	numberBinOp := func(name string, f func(a, b float64) (float64, error)) {
		NumberTypeObj.Dict.Set(name, &NativeFunction{Name: name, Fn: func(args []Value, receiver Value) (Value, error) {
			self, ok := receiver.(Number)
			if !ok {
				return nil, typeError(NumberTypeObj, name)
			}
			if len(args) != 1 {
				return nil, errors.Newf(errors.Runtime, errors.Position{}, "%s expected 1 argument, got %d", name, len(args))
			}
			other, ok := args[0].(Number)
			if !ok {
				return nil, errors.Newf(errors.Type, errors.Position{}, "unsupported operand type for %s: %s", name, args[0].Type().Name)
			}
			r, err := f(float64(self), float64(other))
			if err != nil {
				return nil, err
			}
			return Number(r), nil
		}})
	}
	numberBinOp("__add__", func(a, b float64) (float64, error) { return a + b, nil })
	numberBinOp("__sub__", func(a, b float64) (float64, error) { return a - b, nil })
	numberBinOp("__mul__", func(a, b float64) (float64, error) { return a * b, nil })
	numberBinOp("__div__", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errors.New(errors.Value, errors.Position{}, "division by zero")
		}
		return a / b, nil
	})

	NumberTypeObj.Dict.Set("__neg__", &NativeFunction{Name: "__neg__", Fn: func(args []Value, receiver Value) (Value, error) {
		self, ok := receiver.(Number)
		if !ok {
			return nil, typeError(NumberTypeObj, "__neg__")
		}
		return Number(-float64(self)), nil
	}})
}

// --- String -----------------------------------------------------------

// String is an immutable UTF-8 Value.
type String string

func (s String) Type() *Type { return StringTypeObj }

var StringTypeObj = newType("String", Base)

func init() {
	StringTypeObj.Repr = func(self Value) (string, error) { return string(self.(String)), nil }
	StringTypeObj.Bool = func(self Value) (bool, error) { return len(self.(String)) != 0, nil }
	StringTypeObj.Len = func(self Value) (int, error) { return len(self.(String)), nil }
	StringTypeObj.Hash = func(self Value) (uint64, error) { return fnv1a(string(self.(String))), nil }
	StringTypeObj.GetAttr = DefaultGetAttr
	StringTypeObj.Compare = func(selfV, other Value, op CompareOp) (bool, error) {
		self := string(selfV.(String))
		o, ok := other.(String)
		if !ok {
			if op == CompareEqual {
				return false, nil
			}
			if op == CompareNotEqual {
				return true, nil
			}
			return false, typeError(StringTypeObj, fmt.Sprintf("ordering against %s", other.Type().Name))
		}
		rhs := string(o)
		switch op {
		case CompareEqual:
			return self == rhs, nil
		case CompareNotEqual:
			return self != rhs, nil
		case CompareLess:
			return self < rhs, nil
		case CompareLessEqual:
			return self <= rhs, nil
		case CompareGreater:
			return self > rhs, nil
		case CompareGreaterEqual:
			return self >= rhs, nil
		}
		return false, typeError(StringTypeObj, "unknown comparison")
	}

	StringTypeObj.Dict.Set("__add__", &NativeFunction{Name: "__add__", Fn: func(args []Value, receiver Value) (Value, error) {
		self, ok := receiver.(String)
		if !ok {
			return nil, typeError(StringTypeObj, "__add__")
		}
		if len(args) != 1 {
			return nil, errors.Newf(errors.Runtime, errors.Position{}, "__add__ expected 1 argument, got %d", len(args))
		}
		other, ok := args[0].(String)
		if !ok {
			return nil, errors.Newf(errors.Type, errors.Position{}, "unsupported operand type for __add__: %s", args[0].Type().Name)
		}
		return String(string(self) + string(other)), nil
	}})
}

// fnv1a hashes s with the 64-bit FNV-1a algorithm, backing tp_hash for
// Strings.
func fnv1a(s string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}
