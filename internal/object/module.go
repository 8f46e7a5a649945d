package object

// Module is the Value kind produced by `import name`: a named Dict of
// exported bindings (functions, constants, or nested values), built fresh by
// internal/builtins' module registry each time the name is imported.
type Module struct {
	Name string
	Dict *Dict
}

// NewModule creates an empty, named Module.
func NewModule(name string) *Module {
	return &Module{Name: name, Dict: NewDict()}
}

func (m *Module) Type() *Type { return ModuleTypeObj }

var ModuleTypeObj = newType("Module", Base)

func init() {
	ModuleTypeObj.Repr = func(self Value) (string, error) {
		return "<module " + self.(*Module).Name + ">", nil
	}
	ModuleTypeObj.Bool = func(Value) (bool, error) { return true, nil }
	ModuleTypeObj.GetAttr = func(self Value, name string) (Value, error) {
		m := self.(*Module)
		if v, ok := m.Dict.Get(name); ok {
			return v, nil
		}
		return DefaultGetAttr(self, name)
	}
	ModuleTypeObj.SetAttr = func(self Value, name string, val Value) error {
		self.(*Module).Dict.Set(name, val)
		return nil
	}
}
