package object

import "github.com/cwbudde/kya/internal/errors"

// Class is a Value wrapping a user- or built-in-defined Type, making the
// type itself callable: calling a Class invokes its Type's tp_new, then
// tp_init on the resulting instance.
type Class struct {
	TypeRef *Type
}

// NewClass wraps t in a Class Value.
func NewClass(t *Type) *Class { return &Class{TypeRef: t} }

func (c *Class) Type() *Type { return ClassType }

func init() {
	ClassType.Repr = func(self Value) (string, error) {
		return "<class " + self.(*Class).TypeRef.Name + ">", nil
	}
	ClassType.GetAttr = func(self Value, name string) (Value, error) {
		cls := self.(*Class)
		if v, ok := lookupMethod(cls.TypeRef, name); ok {
			return v, nil
		}
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "class %s has no attribute %q", cls.TypeRef.Name, name)
	}
	ClassType.SetAttr = func(self Value, name string, val Value) error {
		self.(*Class).TypeRef.Dict.Set(name, val)
		return nil
	}
	ClassType.Bool = func(Value) (bool, error) { return true, nil }
	ClassType.Call = func(self Value, args []Value, _ Value) (Value, error) {
		cls := self.(*Class)
		t := cls.TypeRef
		if t.New == nil {
			return nil, typeError(t, "instantiation")
		}
		inst, err := t.New(t, args)
		if err != nil {
			return nil, err
		}
		if t.Init != nil {
			// An init frame binds the brand-new instance as self, a counted
			// reference released when that frame returns; without the
			// construction window the count would dip back to zero there
			// and destroy the instance before the caller ever sees it.
			if i, ok := inst.(*Instance); ok {
				i.refs.beginConstruction()
				defer i.refs.endConstruction()
			}
			if err := t.Init(inst, args); err != nil {
				return nil, err
			}
		}
		return inst, nil
	}
}

// --- Instance -----------------------------------------------------------

// Instance is a Value of a user-defined or built-in Class type, carrying
// its own attribute Dict distinct from its Type's.
type Instance struct {
	TypeRef *Type
	Dict    *Dict
	refs    *refCount
}

func (i *Instance) Type() *Type { return i.TypeRef }

// NewInstance allocates an uninitialised instance of t with an empty dict
// and a reference count of zero; it gains owners only as something binds
// it (see RefCountManager).
func NewInstance(t *Type) *Instance {
	return &Instance{TypeRef: t, Dict: NewDict(), refs: newRefCount()}
}

// DefaultNew is the tp_new shared by user-defined classes (built via
// MakeClass): it allocates a bare Instance with no fields populated.
func DefaultNew(t *Type, _ []Value) (Value, error) {
	return NewInstance(t), nil
}

// DefaultInit is the tp_init shared by user-defined classes: it looks up an
// "init" method in the type's Dict / Parent chain and, if present, calls it
// bound to the new instance with the constructor arguments. Classes with no
// init method perform no further side effects.
func DefaultInit(self Value, args []Value) error {
	inst := self.(*Instance)
	initFn, ok := lookupMethod(inst.TypeRef, "init")
	if !ok {
		return nil
	}
	t := initFn.Type()
	if t.Call == nil {
		return typeError(t, "call")
	}
	_, err := t.Call(initFn, args, self)
	return err
}

// instanceGetAttr looks up an attribute in order: (1) the instance's own
// Dict, (2) the Type's Dict, (3) the Parent chain up to Base. A miss is a
// RuntimeError naming the type and attribute.
func instanceGetAttr(self Value, name string) (Value, error) {
	inst := self.(*Instance)
	if v, ok := inst.Dict.Get(name); ok {
		return bindIfCallable(self, v), nil
	}
	if v, ok := lookupMethod(inst.TypeRef, name); ok {
		return bindIfCallable(self, v), nil
	}
	return nil, errors.Newf(errors.Runtime, errors.Position{}, "'%s' object has no attribute %q", inst.TypeRef.Name, name)
}

// instanceSetAttr always writes the instance's own Dict; there is no
// parent-chain fallback for writes, mirroring how StoreName always
// targets the innermost scope rather than an enclosing one.
func instanceSetAttr(self Value, name string, val Value) error {
	self.(*Instance).Dict.Set(name, val)
	return nil
}

// instanceRepr prefers a user-defined "__repr__" method, falling back to the
// default "<Name instance>" format when the instance's type defines none.
func instanceRepr(self Value) (string, error) {
	inst := self.(*Instance)
	if reprFn, ok := lookupMethod(inst.TypeRef, "__repr__"); ok {
		t := reprFn.Type()
		if t.Call == nil {
			return "", typeError(t, "call")
		}
		result, err := t.Call(reprFn, nil, self)
		if err != nil {
			return "", err
		}
		s, ok := result.(String)
		if !ok {
			return "", errors.Newf(errors.Type, errors.Position{}, "__repr__ must return a String, got %s", result.Type().Name)
		}
		return string(s), nil
	}
	return "<" + inst.TypeRef.Name + " instance>", nil
}

func instanceBool(Value) (bool, error) { return true, nil }

// NewUserType builds a Type for a `class name ... end` definition: parent
// defaults to Base when nil, and the protocol slots are the generic
// Instance slots every user-defined class shares.
func NewUserType(name string, parent *Type, dict *Dict) *Type {
	if parent == nil {
		parent = Base
	}
	t := &Type{Name: name, Parent: parent, MetaType: ClassType, Dict: dict}
	t.New = DefaultNew
	t.Init = DefaultInit
	t.Repr = instanceRepr
	t.Bool = instanceBool
	t.GetAttr = instanceGetAttr
	t.SetAttr = instanceSetAttr
	return t
}
