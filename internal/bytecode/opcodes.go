// Package bytecode defines the Kya instruction set: opcode encoding,
// operand widths, and a disassembler. It is intentionally independent of
// the object model — it manipulates raw instruction bytes only, so the
// object package (which owns Value and CodeObject) can depend on it without
// creating an import cycle back from bytecode to object.
//
// Instruction format: one opcode byte, followed (for opcodes that carry an
// operand) by one big-endian uint16, raising the per-CodeObject ceiling on
// constants, names, and jump targets to 65536 without changing the public
// Compile/Eval surface.
package bytecode

import "fmt"

// OpCode is a single Kya instruction opcode.
type OpCode byte

const (
	// LoadConst pushes consts[operand] onto the stack.
	LoadConst OpCode = iota
	// StoreName pops the stack top and binds it to names[operand].
	StoreName
	// LoadName resolves names[operand] (locals, then globals, then
	// builtins) and pushes the result.
	LoadName
	// Call pops `operand` positional arguments then the callable, and
	// pushes the call's result.
	Call
	// PopTop discards the stack top. Takes no operand.
	PopTop
	// MakeFunction pops a CodeObject constant, binds the current globals,
	// and pushes a Function value. Takes no operand.
	MakeFunction
	// LoadAttr replaces the stack top with top.attr(names[operand]).
	LoadAttr
	// Compare pops r then l and pushes bool(compare(l, r, operand)), where
	// operand is an ast.CompareOp value.
	Compare
	// JumpBack sets ip := ip - operand.
	JumpBack
	// PopAndJumpIfFalse pops the stack top; if falsy, sets ip := operand.
	PopAndJumpIfFalse
	// Jump unconditionally sets ip := operand.
	Jump
	// MakeClass pops a CodeObject constant (the class body, whose own Name
	// names the class), builds the Type, and pushes a Class value. Takes no
	// operand.
	MakeClass
	// StoreAttr pops a value then an object, and stores
	// obj.attr[names[operand]] = value.
	StoreAttr
)

var names = map[OpCode]string{
	LoadConst:         "LoadConst",
	StoreName:         "StoreName",
	LoadName:          "LoadName",
	Call:              "Call",
	PopTop:            "PopTop",
	MakeFunction:      "MakeFunction",
	LoadAttr:          "LoadAttr",
	Compare:           "Compare",
	JumpBack:          "JumpBack",
	PopAndJumpIfFalse: "PopAndJumpIfFalse",
	Jump:              "Jump",
	MakeClass:         "MakeClass",
	StoreAttr:         "StoreAttr",
}

func (op OpCode) String() string {
	if n, ok := names[op]; ok {
		return n
	}
	return fmt.Sprintf("OpCode(%d)", byte(op))
}

// HasOperand reports whether op is followed by a 2-byte operand.
func HasOperand(op OpCode) bool {
	switch op {
	case PopTop, MakeFunction, MakeClass:
		return false
	default:
		return true
	}
}

// Width returns the total instruction width in bytes, including the
// opcode byte itself.
func Width(op OpCode) int {
	if HasOperand(op) {
		return 3
	}
	return 1
}
