// Package object implements the Kya value model: the Value sum type, the
// Type table, and the protocol-slot dispatch that every bytecode operation
// (LoadAttr, Call, Compare, …) ultimately goes through.
package object

import "github.com/cwbudde/kya/internal/errors"

// CompareOp mirrors ast.CompareOp's values so the compiler can cast one to
// the other directly; the object package does not import the ast package,
// since the runtime value model has no business depending on syntax nodes.
type CompareOp byte

const (
	CompareEqual CompareOp = iota
	CompareNotEqual
	CompareLess
	CompareLessEqual
	CompareGreater
	CompareGreaterEqual
)

// Protocol slot signatures. A nil slot means the operation is unsupported
// for that Type; dispatch reports a TypeError naming the type and operation.
type (
	TpNewFunc     func(t *Type, args []Value) (Value, error)
	TpInitFunc    func(self Value, args []Value) error
	TpReprFunc    func(self Value) (string, error)
	TpCallFunc    func(self Value, args []Value, receiver Value) (Value, error)
	TpGetAttrFunc func(self Value, name string) (Value, error)
	TpSetAttrFunc func(self Value, name string, value Value) error
	SqLenFunc     func(self Value) (int, error)
	NbBoolFunc    func(self Value) (bool, error)
	TpHashFunc    func(self Value) (uint64, error)
	TpCompareFunc func(self Value, other Value, op CompareOp) (bool, error)
)

// Type is a record describing one kind of Value: its name, its place in the
// single-inheritance chain, and the protocol slots implementing each
// operation the interpreter may dispatch against it.
type Type struct {
	Name     string
	Parent   *Type
	MetaType *Type
	Dict     *Dict

	New     TpNewFunc
	Init    TpInitFunc
	Repr    TpReprFunc
	Call    TpCallFunc
	GetAttr TpGetAttrFunc
	SetAttr TpSetAttrFunc
	Len     SqLenFunc
	Bool    NbBoolFunc
	Hash    TpHashFunc
	Compare TpCompareFunc
}

// newType allocates a Type with an empty attribute Dict and the shared
// ClassType metatype.
func newType(name string, parent *Type) *Type {
	return &Type{Name: name, Parent: parent, MetaType: ClassType, Dict: NewDict()}
}

// ClassType is the metatype: the dynamic Type() of every Class value,
// including the Class value wrapping ClassType itself. ClassType.MetaType =
// ClassType is a deliberate one-object reference cycle, accepted as a
// permanent single-object leak for the life of the process rather than
// collected.
var ClassType = &Type{Name: "Type", Dict: NewDict()}

func init() {
	ClassType.MetaType = ClassType
}

// Base is the root of the Type chain; its Parent is nil and every other
// built-in or user-defined Type's chain terminates here.
var Base = newType("Base", nil)

// IsInstanceOf reports whether t is t2 or descends from it by walking the
// Parent chain, which terminates at Base in bounded steps (invariant 6).
func IsInstanceOf(t, t2 *Type) bool {
	for cur := t; cur != nil; cur = cur.Parent {
		if cur == t2 {
			return true
		}
	}
	return false
}

// typeError builds a RuntimeError-taxonomy TypeError naming the operand's
// type and the attempted operation. Runtime errors carry no source
// position — source-line attribution beyond the lexer is a non-goal.
func typeError(t *Type, operation string) error {
	return errors.Newf(errors.Type, errors.Position{}, "%s does not support %s", t.Name, operation)
}
