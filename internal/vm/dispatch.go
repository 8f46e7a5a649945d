package vm

import (
	"fmt"

	"github.com/cwbudde/kya/internal/bytecode"
	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

// dispatch executes one decoded instruction against f. opPC is the opcode's
// own byte offset, used only for the fatal-panic diagnostic.
func (f *Frame) dispatch(op bytecode.OpCode, operand int, opPC int) error {
	switch op {
	case bytecode.LoadConst:
		c, err := f.constAt(operand, opPC)
		if err != nil {
			return err
		}
		f.push(c)

	case bytecode.StoreName:
		v, err := f.pop()
		if err != nil {
			return err
		}
		name, err := f.nameAt(operand, opPC)
		if err != nil {
			return err
		}
		refManager.Retain(v)
		if old, had := f.Locals.Get(name); had {
			refManager.Release(old)
		}
		f.Locals.Set(name, v)

	case bytecode.LoadName:
		name, err := f.nameAt(operand, opPC)
		if err != nil {
			return err
		}
		v, ok := f.Locals.Get(name)
		if !ok {
			v, ok = f.Globals.Get(name)
		}
		if !ok {
			return errors.Newf(errors.UndefinedVariable, errors.Position{}, "undefined variable %q", name)
		}
		f.push(v)

	case bytecode.Call:
		return f.execCall(operand)

	case bytecode.PopTop:
		_, err := f.pop()
		return err

	case bytecode.MakeFunction:
		return f.execMakeFunction()

	case bytecode.LoadAttr:
		return f.execLoadAttr(operand, opPC)

	case bytecode.Compare:
		return f.execCompare(operand)

	case bytecode.JumpBack:
		f.PC -= operand

	case bytecode.PopAndJumpIfFalse:
		return f.execPopAndJumpIfFalse(operand)

	case bytecode.Jump:
		f.PC = operand

	case bytecode.MakeClass:
		return f.execMakeClass()

	case bytecode.StoreAttr:
		return f.execStoreAttr(operand, opPC)

	default:
		panic(fmt.Sprintf("vm: unrecognized opcode %s at pc %d", op, opPC))
	}
	return nil
}

func (f *Frame) constAt(idx int, opPC int) (object.Value, error) {
	if idx < 0 || idx >= len(f.Code.Consts) {
		panic(fmt.Sprintf("vm: const index %d out of range at pc %d", idx, opPC))
	}
	return f.Code.Consts[idx], nil
}

func (f *Frame) nameAt(idx int, opPC int) (string, error) {
	if idx < 0 || idx >= len(f.Code.Names) {
		panic(fmt.Sprintf("vm: name index %d out of range at pc %d", idx, opPC))
	}
	return f.Code.Names[idx], nil
}

// execCall implements Call's stack effect: pop argc args (in reverse push
// order, restoring left-to-right order), pop the callable, push the result.
func (f *Frame) execCall(argc int) error {
	args := make([]object.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		v, err := f.pop()
		if err != nil {
			return err
		}
		args[i] = v
	}
	callee, err := f.pop()
	if err != nil {
		return err
	}
	result, err := object.Call(callee, args)
	if err != nil {
		return err
	}
	f.push(result)
	return nil
}

// execMakeFunction pops a CodeObject constant, binds the current frame's
// globals, pushes the resulting Function, and auto-registers it under its
// own name into the current frame's locals — this is what lets
// `def f() ... end` both be usable as an expression and bind the name `f`,
// without a separate StoreName.
func (f *Frame) execMakeFunction() error {
	top, err := f.pop()
	if err != nil {
		return err
	}
	code, ok := top.(*object.CodeObject)
	if !ok {
		return errors.Newf(errors.Runtime, errors.Position{}, "MakeFunction expected a CodeObject, got %s", top.Type().Name)
	}
	fn := &object.Function{Name: code.Name, Code: code, Globals: f.Globals}
	f.push(fn)
	if fn.Name != "" {
		f.Locals.Set(fn.Name, fn)
	}
	return nil
}

// execMakeClass pops the class body's CodeObject, executes it as a fresh
// frame whose locals dict becomes the new Type's attribute dict (every
// MethodDef statement in the body auto-registers its Function there via
// execMakeFunction), builds the Type, pushes the resulting Class, and
// auto-registers it under its own name exactly like execMakeFunction.
func (f *Frame) execMakeClass() error {
	top, err := f.pop()
	if err != nil {
		return err
	}
	body, ok := top.(*object.CodeObject)
	if !ok {
		return errors.Newf(errors.Runtime, errors.Position{}, "MakeClass expected a CodeObject, got %s", top.Type().Name)
	}

	classLocals := object.NewDict()
	classFrame := &Frame{Locals: classLocals, Globals: f.Globals, Code: body}
	if _, err := runFrame(classFrame); err != nil {
		return err
	}

	t := object.NewUserType(body.Name, nil, classLocals)
	cls := object.NewClass(t)
	f.push(cls)
	if t.Name != "" {
		f.Locals.Set(t.Name, cls)
	}
	return nil
}

func (f *Frame) execLoadAttr(nameIdx int, opPC int) error {
	name, err := f.nameAt(nameIdx, opPC)
	if err != nil {
		return err
	}
	top, err := f.pop()
	if err != nil {
		return err
	}
	v, err := object.GetAttr(top, name)
	if err != nil {
		return err
	}
	f.push(v)
	return nil
}

func (f *Frame) execStoreAttr(nameIdx int, opPC int) error {
	name, err := f.nameAt(nameIdx, opPC)
	if err != nil {
		return err
	}
	val, err := f.pop()
	if err != nil {
		return err
	}
	obj, err := f.pop()
	if err != nil {
		return err
	}
	old, getErr := object.GetAttr(obj, name)
	if err := object.SetAttr(obj, name, val); err != nil {
		return err
	}
	refManager.Retain(val)
	if getErr == nil {
		refManager.Release(old)
	}
	return nil
}

func (f *Frame) execCompare(op int) error {
	r, err := f.pop()
	if err != nil {
		return err
	}
	l, err := f.pop()
	if err != nil {
		return err
	}
	result, err := object.Compare(l, r, object.CompareOp(op))
	if err != nil {
		return err
	}
	if result {
		f.push(object.True)
	} else {
		f.push(object.False)
	}
	return nil
}

func (f *Frame) execPopAndJumpIfFalse(target int) error {
	v, err := f.pop()
	if err != nil {
		return err
	}
	truthy, err := object.Truthy(v)
	if err != nil {
		return err
	}
	if !truthy {
		f.PC = target
	}
	return nil
}
