// Package builtins populates a globals Dict with the names every program
// can see without an explicit import: None/True/False, the core functions
// (print, len, str, repr, type), the container constructors (list, hash,
// bytes), and the built-in classes Thread, Lock, and Exception. Anything
// reachable only via `import name` (json, …) lives behind the module
// registry in modules.go instead.
package builtins

import (
	"io"
	"os"
	"strings"

	"github.com/cwbudde/kya/internal/concurrency"
	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

// Stdout is where builtinPrint writes; tests may redirect it.
var Stdout io.Writer = os.Stdout

// Register installs every ambient builtin into globals. It is expected to
// run once before the entry module's CodeObject is handed to vm.Eval, so
// the root frame's globals (and therefore its locals, since they are the
// same dict) are pre-populated.
func Register(globals *object.Dict) {
	globals.Set("None", object.None)
	globals.Set("True", object.True)
	globals.Set("False", object.False)

	globals.Set("print", &object.NativeFunction{Name: "print", Fn: builtinPrint})
	globals.Set("len", &object.NativeFunction{Name: "len", Fn: builtinLen})
	globals.Set("str", &object.NativeFunction{Name: "str", Fn: builtinRepr})
	globals.Set("repr", &object.NativeFunction{Name: "repr", Fn: builtinRepr})
	globals.Set("type", &object.NativeFunction{Name: "type", Fn: builtinType})

	globals.Set("list", &object.NativeFunction{Name: "list", Fn: builtinList})
	globals.Set("hash", &object.NativeFunction{Name: "hash", Fn: builtinHash})
	globals.Set("bytes", &object.NativeFunction{Name: "bytes", Fn: builtinBytes})

	RegisterType(globals, concurrency.ThreadType)
	RegisterType(globals, concurrency.LockType)
	RegisterType(globals, object.ExceptionTypeObj)

	globals.Set("__import__", &object.NativeFunction{Name: "__import__", Fn: builtinImport})

	registerStringCasing(object.StringTypeObj.Dict)
	registerListSort(object.ListTypeObj.Dict)
}

// RegisterType installs t into globals as a callable Class value under its
// own name — the hook external collaborators use to add built-in types
// beyond the ambient set Register installs itself.
func RegisterType(globals *object.Dict, t *object.Type) {
	globals.Set(t.Name, object.NewClass(t))
}

// builtinPrint reprs every argument and writes them concatenated (no
// separator) followed by a single newline.
func builtinPrint(args []object.Value, _ object.Value) (object.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		s, err := object.Repr(a)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(Stdout, sb.String()); err != nil {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "print: %v", err)
	}
	return object.None, nil
}

func builtinLen(args []object.Value, _ object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "len() expected 1 argument, got %d", len(args))
	}
	n, err := object.Len(args[0])
	if err != nil {
		return nil, err
	}
	return object.Number(n), nil
}

func builtinRepr(args []object.Value, _ object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "repr() expected 1 argument, got %d", len(args))
	}
	s, err := object.Repr(args[0])
	if err != nil {
		return nil, err
	}
	return object.String(s), nil
}

func builtinType(args []object.Value, _ object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "type() expected 1 argument, got %d", len(args))
	}
	return object.NewClass(args[0].Type()), nil
}

// builtinList constructs a List from its arguments: list() is empty,
// list(1, 2) is [1, 2]. The language has no list-literal syntax, so this is
// the only way user code allocates a fresh List.
func builtinList(args []object.Value, _ object.Value) (object.Value, error) {
	items := make([]object.Value, len(args))
	copy(items, args)
	return object.NewList(items), nil
}

// builtinHash constructs a Hash from alternating key/value arguments:
// hash() is empty, hash("k", 1) maps "k" to 1.
func builtinHash(args []object.Value, _ object.Value) (object.Value, error) {
	if len(args)%2 != 0 {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "hash() expected key/value pairs, got %d argument(s)", len(args))
	}
	h := object.NewHash()
	for i := 0; i < len(args); i += 2 {
		if err := h.Set(args[i], args[i+1]); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// builtinBytes constructs a Bytes buffer from a String's UTF-8 encoding.
func builtinBytes(args []object.Value, _ object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "bytes() expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(object.String)
	if !ok {
		return nil, errors.Newf(errors.Type, errors.Position{}, "bytes() expected a String, got %s", args[0].Type().Name)
	}
	return object.NewBytes([]byte(s)), nil
}
