// Package compiler walks a parsed AST and emits a single CodeObject per
// function/class body (plus the top-level module) in a single pass: no
// separate optimization pass, no intermediate IR, direct emission against
// the final instruction encoding.
package compiler

import (
	"github.com/cwbudde/kya/internal/ast"
	"github.com/cwbudde/kya/internal/bytecode"
	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
	"github.com/cwbudde/kya/internal/parser"
)

// Compiler accumulates instructions, constants and names into a single
// CodeObject. Nested function and class bodies are compiled by a fresh
// Compiler instance recursively; the resulting CodeObject is appended as a
// constant of the enclosing one.
type Compiler struct {
	code *object.CodeObject

	// breakJumps is a stack of pending `break` jump patch sites, one slice
	// per enclosing while loop currently being compiled.
	breakJumps [][]int

	// err records the first operand-overflow detected by emit; emit has no
	// error return of its own, so finish surfaces it once the walk is done.
	err error
}

// maxOperand is the largest value the 2-byte operand encoding can carry;
// a const index, name index, or jump target past this is a compile error.
const maxOperand = 0xFFFF

// New creates a Compiler for a CodeObject named name with the given formal
// parameter names (nil/empty for the module top level).
func New(name string, args []string) *Compiler {
	return &Compiler{code: &object.CodeObject{Name: name, Args: args}}
}

// Code returns the CodeObject built so far.
func (c *Compiler) Code() *object.CodeObject { return c.code }

// Compile lexes, parses and compiles source into the top-level CodeObject.
func Compile(source string) (*object.CodeObject, error) {
	mod, errs := parser.Parse(source)
	if len(errs) > 0 {
		return nil, errs[0].WithSource(source, "")
	}
	return CompileModule(mod)
}

// CompileModule compiles an already-parsed Module into the top-level
// CodeObject, keeping the last statement's value as the module's implicit
// return value.
func CompileModule(mod *ast.Module) (*object.CodeObject, error) {
	c := New("<module>", nil)
	if err := c.compileBlockTail(mod.Block); err != nil {
		return nil, err
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c.code, nil
}

// --- emission helpers ----------------------------------------------------

// emit appends one instruction and returns the byte offset it starts at.
// An operand outside the encoding's range records a CompilationError
// surfaced by finish.
func (c *Compiler) emit(op bytecode.OpCode, operand int) int {
	if (operand < 0 || operand > maxOperand) && c.err == nil {
		c.err = compileError(errors.Position{},
			"%s operand %d exceeds the %d-entry addressable window", op, operand, maxOperand+1)
	}
	pos := len(c.code.Code)
	c.code.Code = append(c.code.Code, bytecode.Make(op, operand)...)
	return pos
}

// finish reports the first operand overflow recorded while emitting or
// patching, once the AST walk is done.
func (c *Compiler) finish() error {
	return c.err
}

// pos returns the current end-of-code byte offset (the position the next
// emitted instruction will start at).
func (c *Compiler) pos() int { return len(c.code.Code) }

// patchOperand overwrites the 2-byte operand of the instruction starting at
// pos (pos itself is the opcode byte; the operand follows at pos+1). A
// patched jump target past the encoding's range records the same
// CompilationError emit does.
func (c *Compiler) patchOperand(pos int, operand int) {
	op := bytecode.OpCode(c.code.Code[pos])
	if (operand < 0 || operand > maxOperand) && c.err == nil {
		c.err = compileError(errors.Position{},
			"%s operand %d exceeds the %d-entry addressable window", op, operand, maxOperand+1)
	}
	patched := bytecode.Make(op, operand)
	copy(c.code.Code[pos:pos+len(patched)], patched)
}

func compileError(pos errors.Position, format string, args ...any) error {
	return errors.Newf(errors.Compilation, pos, format, args...)
}

// --- blocks ---------------------------------------------------------------

// compileBlockTail compiles block's statements, keeping the final
// statement's value unpopped (it becomes the enclosing CodeObject's, or
// enclosing If branch's, single resulting value). A block with no
// value-producing final statement (ending in while/import/break, or empty)
// pushes None so every tail position yields exactly one value.
func (c *Compiler) compileBlockTail(block *ast.Block) error {
	for i, stmt := range block.Statements {
		pushed, err := c.compileStatement(stmt)
		if err != nil {
			return err
		}
		last := i == len(block.Statements)-1
		if pushed && !last {
			c.emit(bytecode.PopTop, 0)
		}
		if !pushed && last {
			c.emit(bytecode.LoadConst, c.code.AddConst(object.None))
		}
	}
	if len(block.Statements) == 0 {
		c.emit(bytecode.LoadConst, c.code.AddConst(object.None))
	}
	return nil
}

// compileBlockDiscard compiles block's statements, popping every
// expression-statement's value unconditionally — used for while-loop
// bodies, which never produce a value.
func (c *Compiler) compileBlockDiscard(block *ast.Block) error {
	for _, stmt := range block.Statements {
		pushed, err := c.compileStatement(stmt)
		if err != nil {
			return err
		}
		if pushed {
			c.emit(bytecode.PopTop, 0)
		}
	}
	return nil
}

// --- statements -------------------------------------------------------

// compileStatement compiles one statement, returning whether it left a
// single value on the stack (true for every ExpressionStatement).
func (c *Compiler) compileStatement(s ast.Statement) (bool, error) {
	switch node := s.(type) {
	case *ast.ExpressionStatement:
		if err := c.compileExpr(node.Expr); err != nil {
			return false, err
		}
		return true, nil

	case *ast.While:
		return false, c.compileWhile(node)

	case *ast.Import:
		return false, c.compileImport(node)

	case *ast.Break:
		if len(c.breakJumps) == 0 {
			return false, compileError(node.Position, "'break' outside a while loop")
		}
		top := len(c.breakJumps) - 1
		pos := c.emit(bytecode.Jump, 0)
		c.breakJumps[top] = append(c.breakJumps[top], pos)
		return false, nil

	default:
		return false, compileError(s.Pos(), "cannot compile statement %T", s)
	}
}

// compileWhile emits a condition test, a conditional exit jump, the loop
// body, and a back-jump to the condition. The back-jump offset is computed
// from the actual JumpBack instruction width so it undoes precisely the
// program-counter advance the dispatch loop performs past JumpBack's own
// operand, regardless of how wide that operand is encoded.
func (c *Compiler) compileWhile(w *ast.While) error {
	l0 := c.pos()
	if err := c.compileExpr(w.Cond); err != nil {
		return err
	}
	jumpFalsePos := c.emit(bytecode.PopAndJumpIfFalse, 0)

	c.breakJumps = append(c.breakJumps, nil)
	if err := c.compileBlockDiscard(w.Body); err != nil {
		return err
	}

	l1 := c.pos()
	jumpBackWidth := bytecode.Width(bytecode.JumpBack)
	c.emit(bytecode.JumpBack, l1-l0+jumpBackWidth)

	loopExit := l1 + jumpBackWidth
	c.patchOperand(jumpFalsePos, loopExit)

	breaks := c.breakJumps[len(c.breakJumps)-1]
	c.breakJumps = c.breakJumps[:len(c.breakJumps)-1]
	for _, p := range breaks {
		c.patchOperand(p, loopExit)
	}
	return nil
}

// compileImport resolves name through the "__import__" builtin (installed
// by internal/builtins) and binds the resulting Module under its own name.
func (c *Compiler) compileImport(imp *ast.Import) error {
	c.emit(bytecode.LoadName, c.code.AddName("__import__"))
	c.emit(bytecode.LoadConst, c.code.AddConst(object.String(imp.Name)))
	c.emit(bytecode.Call, 1)
	c.emit(bytecode.StoreName, c.code.AddName(imp.Name))
	return nil
}

// --- expressions --------------------------------------------------------

// compileExpr compiles e, leaving exactly one value on the stack.
func (c *Compiler) compileExpr(e ast.Expression) error {
	switch node := e.(type) {
	case *ast.Identifier:
		c.emit(bytecode.LoadName, c.code.AddName(node.Name))
		return nil

	case *ast.StringLiteral:
		c.emit(bytecode.LoadConst, c.code.AddConst(object.String(node.Value)))
		return nil

	case *ast.NumberLiteral:
		c.emit(bytecode.LoadConst, c.code.AddConst(object.Number(node.Value)))
		return nil

	case *ast.Assignment:
		return c.compileAssignment(node)

	case *ast.MethodCall:
		return c.compileMethodCall(node)

	case *ast.MethodDef:
		return c.compileMethodDef(node)

	case *ast.ClassDef:
		return c.compileClassDef(node)

	case *ast.Attribute:
		if err := c.compileExpr(node.Receiver); err != nil {
			return err
		}
		c.emit(bytecode.LoadAttr, c.code.AddName(node.Name))
		return nil

	case *ast.Compare:
		if err := c.compileExpr(node.Left); err != nil {
			return err
		}
		if err := c.compileExpr(node.Right); err != nil {
			return err
		}
		c.emit(bytecode.Compare, int(node.Op))
		return nil

	case *ast.BinOp:
		return c.compileBinOp(node)

	case *ast.UnaryOp:
		return c.compileUnaryOp(node)

	case *ast.If:
		return c.compileIf(node)

	default:
		return compileError(e.Pos(), "cannot compile expression %T", e)
	}
}

// compileAssignment emits value → StoreName → LoadName for an Identifier
// target, so the assignment itself evaluates to the stored value. An
// Attribute target is built from the same idea generalized through a
// synthetic local: the assigned value is stashed under a compiler-private
// name so it can be read back twice — once to satisfy StoreAttr's
// two-operand stack shape, once as the Assignment expression's own
// resulting value — without a Dup opcode and without re-evaluating the
// receiver or value expression.
func (c *Compiler) compileAssignment(a *ast.Assignment) error {
	switch target := a.Target.(type) {
	case *ast.Identifier:
		if err := c.compileExpr(a.Value); err != nil {
			return err
		}
		nameIdx := c.code.AddName(target.Name)
		c.emit(bytecode.StoreName, nameIdx)
		c.emit(bytecode.LoadName, nameIdx)
		return nil

	case *ast.Attribute:
		const tmp = "__assign_tmp__"
		if err := c.compileExpr(a.Value); err != nil {
			return err
		}
		tmpIdx := c.code.AddName(tmp)
		c.emit(bytecode.StoreName, tmpIdx)

		if err := c.compileExpr(target.Receiver); err != nil {
			return err
		}
		c.emit(bytecode.LoadName, tmpIdx)
		c.emit(bytecode.StoreAttr, c.code.AddName(target.Name))
		c.emit(bytecode.LoadName, tmpIdx)
		return nil

	default:
		return compileError(a.Position, "invalid assignment target: %s", a.Target.String())
	}
}

func (c *Compiler) compileMethodCall(m *ast.MethodCall) error {
	if err := c.compileExpr(m.Callee); err != nil {
		return err
	}
	for _, arg := range m.Args {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	c.emit(bytecode.Call, len(m.Args))
	return nil
}

// dunderNames maps BinOp/UnaryOp operator bytes to the dunder method the
// instruction set dispatches through — there are no dedicated arithmetic
// opcodes, so `+`/`-`/`*`/`/` compile to a LoadAttr + Call against the
// operand's own Type (e.g. String's own `__add__` method for `"a" + "b"`).
var dunderNames = map[byte]string{
	'+': "__add__",
	'-': "__sub__",
	'*': "__mul__",
	'/': "__div__",
}

func (c *Compiler) compileBinOp(b *ast.BinOp) error {
	name, ok := dunderNames[b.Op]
	if !ok {
		return compileError(b.Position, "unknown binary operator %q", b.Op)
	}
	if err := c.compileExpr(b.Left); err != nil {
		return err
	}
	c.emit(bytecode.LoadAttr, c.code.AddName(name))
	if err := c.compileExpr(b.Right); err != nil {
		return err
	}
	c.emit(bytecode.Call, 1)
	return nil
}

func (c *Compiler) compileUnaryOp(u *ast.UnaryOp) error {
	if u.Op != '-' {
		return compileError(u.Position, "unknown unary operator %q", u.Op)
	}
	if err := c.compileExpr(u.Operand); err != nil {
		return err
	}
	c.emit(bytecode.LoadAttr, c.code.AddName("__neg__"))
	c.emit(bytecode.Call, 0)
	return nil
}

// compileMethodDef compiles the body with a fresh Compiler, appends the
// resulting CodeObject as a constant, and emits LoadConst+MakeFunction.
// MakeFunction both pushes the Function value (so MethodDef is usable as
// an expression) and auto-registers it under its own name into the
// current frame — see internal/vm.
func (c *Compiler) compileMethodDef(m *ast.MethodDef) error {
	fn := New(m.Name, m.Params)
	if err := fn.compileBlockTail(m.Body); err != nil {
		return err
	}
	if err := fn.finish(); err != nil {
		return err
	}
	c.emit(bytecode.LoadConst, c.code.AddConst(fn.code))
	c.emit(bytecode.MakeFunction, 0)
	return nil
}

// compileClassDef compiles the class body with a fresh Compiler exactly
// like a function body; the VM executes that CodeObject as its own frame
// and takes the resulting frame's locals (populated by MakeFunction's
// auto-registration as each MethodDef statement runs) as the new Type's
// dict — see internal/vm's MakeClass handler.
func (c *Compiler) compileClassDef(cd *ast.ClassDef) error {
	body := New(cd.Name, nil)
	if err := body.compileBlockTail(cd.Body); err != nil {
		return err
	}
	if err := body.finish(); err != nil {
		return err
	}
	c.emit(bytecode.LoadConst, c.code.AddConst(body.code))
	c.emit(bytecode.MakeClass, 0)
	return nil
}

// compileIf compiles `if cond then else end` as a single expression: both
// branches are compiled with compileBlockTail so exactly one value results
// regardless of which branch executes, matching If's IsExpression() == true
// (the grammar permits `if` in expression position).
func (c *Compiler) compileIf(i *ast.If) error {
	if err := c.compileExpr(i.Cond); err != nil {
		return err
	}
	falseJump := c.emit(bytecode.PopAndJumpIfFalse, 0)

	if err := c.compileBlockTail(i.Then); err != nil {
		return err
	}
	endJump := c.emit(bytecode.Jump, 0)

	c.patchOperand(falseJump, c.pos())
	if i.Else != nil {
		if err := c.compileBlockTail(i.Else); err != nil {
			return err
		}
	} else {
		c.emit(bytecode.LoadConst, c.code.AddConst(object.None))
	}

	c.patchOperand(endJump, c.pos())
	return nil
}
