package vm

import "github.com/cwbudde/kya/internal/object"

// refManager is the process-wide Instance reference counter. StoreName and
// StoreAttr retain the value being bound and release whatever binding it
// replaces; when a release drives an Instance's count to zero, the
// destructor callback below invokes that instance's "deinit" method, if
// its type defines one.
var refManager = object.NewRefCountManager()

func init() {
	refManager.SetDestructorCallback(runDeinit)
}

// runDeinit looks up "deinit" on inst and calls it bound to inst, ignoring
// the usual would-be-typeError when the type defines no such method — a
// deinit is opt-in, not required.
func runDeinit(inst *object.Instance) error {
	method, err := object.GetAttr(inst, "deinit")
	if err != nil {
		return nil
	}
	_, err = object.Call(method, nil)
	return err
}
