package builtins

import (
	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

// moduleFactories maps an importable name to the Module it produces. Each
// factory is called fresh per import so a module's state (were it to carry
// any) is never shared across importers.
var moduleFactories = map[string]func() *object.Module{
	"json": newJSONModule,
}

// builtinImport is the NativeFunction behind the compiler's `import name`
// lowering: LoadName("__import__"), LoadConst(name), Call(1). An unknown
// module name is a RuntimeError rather than a panic, since it reflects a
// mistake in the program being run, not the interpreter itself.
func builtinImport(args []object.Value, _ object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "__import__ expected 1 argument, got %d", len(args))
	}
	name, ok := args[0].(object.String)
	if !ok {
		return nil, errors.Newf(errors.Type, errors.Position{}, "__import__ expected a String, got %s", args[0].Type().Name)
	}
	factory, ok := moduleFactories[string(name)]
	if !ok {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "no module named %q", string(name))
	}
	return factory(), nil
}
