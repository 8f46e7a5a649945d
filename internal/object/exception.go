package object

// Exception is the Value kind used to carry an error message as data (e.g.
// a caught-and-rethrown condition). The language has no try/rescue in this
// revision; Exception values exist so builtins and the error taxonomy have
// a common runtime representation to construct and repr.
type Exception struct {
	Message string
}

func (e *Exception) Type() *Type { return ExceptionTypeObj }

var ExceptionTypeObj = newType("Exception", Base)

func init() {
	ExceptionTypeObj.New = func(t *Type, args []Value) (Value, error) {
		return &Exception{}, nil
	}
	ExceptionTypeObj.Init = func(self Value, args []Value) error {
		if len(args) > 0 {
			if s, ok := args[0].(String); ok {
				self.(*Exception).Message = string(s)
				return nil
			}
		}
		return nil
	}
	ExceptionTypeObj.Repr = func(self Value) (string, error) {
		return "Exception: " + self.(*Exception).Message, nil
	}
	ExceptionTypeObj.Bool = func(Value) (bool, error) { return true, nil }
	ExceptionTypeObj.GetAttr = DefaultGetAttr
}
