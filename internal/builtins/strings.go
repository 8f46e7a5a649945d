package builtins

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// registerStringCasing adds Unicode-aware "upper"/"lower" methods to the
// String type's dict, using golang.org/x/text/cases instead of the ASCII-
// only strings.ToUpper/ToLower.
func registerStringCasing(dict *object.Dict) {
	dict.Set("upper", &object.NativeFunction{Name: "upper", Fn: func(args []object.Value, receiver object.Value) (object.Value, error) {
		self, ok := receiver.(object.String)
		if !ok {
			return nil, errors.Newf(errors.Type, errors.Position{}, "upper() called on a non-String receiver")
		}
		if len(args) != 0 {
			return nil, errors.Newf(errors.Runtime, errors.Position{}, "upper() expected 0 arguments, got %d", len(args))
		}
		return object.String(upperCaser.String(string(self))), nil
	}})

	dict.Set("lower", &object.NativeFunction{Name: "lower", Fn: func(args []object.Value, receiver object.Value) (object.Value, error) {
		self, ok := receiver.(object.String)
		if !ok {
			return nil, errors.Newf(errors.Type, errors.Position{}, "lower() called on a non-String receiver")
		}
		if len(args) != 0 {
			return nil, errors.Newf(errors.Runtime, errors.Position{}, "lower() expected 0 arguments, got %d", len(args))
		}
		return object.String(lowerCaser.String(string(self))), nil
	}})
}
