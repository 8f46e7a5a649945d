package builtins

import (
	"sort"

	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

// registerListSort adds an in-place "sort" method to the List type: with no
// argument it orders by tp_compare's CompareLess; with one argument (a
// callable) it orders by whatever that callable returns as truthy/falsy for
// a pair of elements, the same two-argument "less" convention.
func registerListSort(dict *object.Dict) {
	dict.Set("sort", &object.NativeFunction{Name: "sort", Fn: func(args []object.Value, receiver object.Value) (object.Value, error) {
		self, ok := receiver.(*object.List)
		if !ok {
			return nil, errors.Newf(errors.Type, errors.Position{}, "sort() called on a non-List receiver")
		}
		if len(args) > 1 {
			return nil, errors.Newf(errors.Runtime, errors.Position{}, "sort() expected 0 or 1 arguments, got %d", len(args))
		}

		var less object.Value
		if len(args) == 1 {
			less = args[0]
		}

		items := self.Snapshot()
		var sortErr error
		sort.SliceStable(items, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if less != nil {
				result, err := object.Call(less, []object.Value{items[i], items[j]})
				if err != nil {
					sortErr = err
					return false
				}
				truthy, err := object.Truthy(result)
				if err != nil {
					sortErr = err
					return false
				}
				return truthy
			}
			lt, err := object.Compare(items[i], items[j], object.CompareLess)
			if err != nil {
				sortErr = err
				return false
			}
			return lt
		})
		if sortErr != nil {
			return nil, sortErr
		}

		self.SetItems(items)
		return self, nil
	}})
}
