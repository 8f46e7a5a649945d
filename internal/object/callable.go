package object

import "github.com/cwbudde/kya/internal/errors"

// CodeObject is the compiled representation of a function body or module
// top level. Offsets into Code and indices into Consts/Names are encoded
// as 2-byte big-endian operands by internal/bytecode; CodeObject itself
// stores Code as a flat byte slice so internal/bytecode can disassemble
// it without depending on the object package.
type CodeObject struct {
	Code   []byte
	Consts []Value
	Names  []string
	Args   []string
	Name   string
}

func (c *CodeObject) Type() *Type { return CodeTypeObj }

// AddName returns the index of name within Names, appending it (and
// de-duplicating by linear search) if not already present — invariant 4.
func (c *CodeObject) AddName(name string) int {
	for i, n := range c.Names {
		if n == name {
			return i
		}
	}
	c.Names = append(c.Names, name)
	return len(c.Names) - 1
}

// AddConst appends v to Consts and returns its index. Unlike AddName,
// constants are not de-duplicated.
func (c *CodeObject) AddConst(v Value) int {
	c.Consts = append(c.Consts, v)
	return len(c.Consts) - 1
}

var CodeTypeObj = newType("Code", Base)

func init() {
	CodeTypeObj.Repr = func(self Value) (string, error) {
		c := self.(*CodeObject)
		name := c.Name
		if name == "" {
			name = "<module>"
		}
		return "<code " + name + ">", nil
	}
	CodeTypeObj.GetAttr = DefaultGetAttr
}

// --- Function ---------------------------------------------------------

// Function is a user-defined, compiled callable: a CodeObject closed over
// the globals Dict of the module it was defined in. The language has no
// lexical closures (non-goal); free names resolve through Globals, never a
// captured enclosing-function scope.
type Function struct {
	Name    string
	Code    *CodeObject
	Globals *Dict
}

func (f *Function) Type() *Type { return FunctionTypeObj }

// Invoke executes a Function's CodeObject and returns its result. It is
// installed by internal/vm at startup: the object package cannot import
// internal/vm (vm depends on object for Value/CodeObject), so the call is
// wired through this package-level hook, the same callback-based
// indirection RefCountManager uses to invoke destructors without an
// import cycle.
var Invoke func(fn *Function, args []Value, receiver Value) (Value, error)

var FunctionTypeObj = newType("Function", Base)

func init() {
	FunctionTypeObj.Repr = func(self Value) (string, error) {
		return "<function " + self.(*Function).Name + ">", nil
	}
	FunctionTypeObj.GetAttr = DefaultGetAttr
	FunctionTypeObj.Call = func(self Value, args []Value, receiver Value) (Value, error) {
		fn := self.(*Function)
		if Invoke == nil {
			return nil, errors.New(errors.Runtime, errors.Position{}, "no interpreter installed to invoke functions")
		}
		return Invoke(fn, args, receiver)
	}
}

// --- NativeFunction -----------------------------------------------------

// NativeFn is the signature every built-in native function implements:
// args are the positional call arguments, receiver is the bound instance
// (or nil for an unbound call).
type NativeFn func(args []Value, receiver Value) (Value, error)

// NativeFunction wraps a Go function as a callable Value.
type NativeFunction struct {
	Name string
	Fn   NativeFn
}

func (n *NativeFunction) Type() *Type { return NativeFunctionTypeObj }

var NativeFunctionTypeObj = newType("NativeFunction", Base)

func init() {
	NativeFunctionTypeObj.Repr = func(self Value) (string, error) {
		return "<native function " + self.(*NativeFunction).Name + ">", nil
	}
	NativeFunctionTypeObj.GetAttr = DefaultGetAttr
	NativeFunctionTypeObj.Call = func(self Value, args []Value, receiver Value) (Value, error) {
		return self.(*NativeFunction).Fn(args, receiver)
	}
}

// --- Method -------------------------------------------------------------

// Method is the join point produced by reading a Function- or
// NativeFunction-valued attribute off an instance: it captures both the
// underlying callable and the receiver it was bound to.
type Method struct {
	Receiver Value
	Function Value
}

func (m *Method) Type() *Type { return MethodTypeObj }

var MethodTypeObj = newType("Method", Base)

func init() {
	MethodTypeObj.Repr = func(self Value) (string, error) {
		m := self.(*Method)
		underlying, err := Repr(m.Function)
		if err != nil {
			return "", err
		}
		return "<bound " + underlying + ">", nil
	}
	MethodTypeObj.GetAttr = DefaultGetAttr
	MethodTypeObj.Call = func(self Value, args []Value, _ Value) (Value, error) {
		m := self.(*Method)
		t := m.Function.Type()
		if t.Call == nil {
			return nil, typeError(t, "call")
		}
		return t.Call(m.Function, args, m.Receiver)
	}
}
