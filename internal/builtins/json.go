package builtins

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cwbudde/kya/internal/errors"
	"github.com/cwbudde/kya/internal/object"
)

// newJSONModule builds the "json" module: dumps(value) -> String and
// loads(string) -> value, bridging Kya's Value tree and JSON text via
// gjson (reading) and sjson (writing) rather than hand-rolled encoding.
func newJSONModule() *object.Module {
	m := object.NewModule("json")
	m.Dict.Set("dumps", &object.NativeFunction{Name: "dumps", Fn: jsonDumps})
	m.Dict.Set("loads", &object.NativeFunction{Name: "loads", Fn: jsonLoads})
	return m
}

func jsonDumps(args []object.Value, _ object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "dumps() expected 1 argument, got %d", len(args))
	}
	raw, err := dumpsRaw(args[0])
	if err != nil {
		return nil, err
	}
	return object.String(raw), nil
}

func jsonLoads(args []object.Value, _ object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, errors.Newf(errors.Runtime, errors.Position{}, "loads() expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(object.String)
	if !ok {
		return nil, errors.Newf(errors.Type, errors.Position{}, "loads() expected a String, got %s", args[0].Type().Name)
	}
	if !gjson.Valid(string(s)) {
		return nil, errors.Newf(errors.Value, errors.Position{}, "loads(): invalid JSON")
	}
	return loadsValue(gjson.Parse(string(s))), nil
}

// dumpsRaw renders v as a JSON text fragment. Containers are built up with
// sjson.SetRaw, splicing each element's own fragment in by path; scalar
// leaves borrow sjson's own encoding (round-tripped through gjson.Raw) so
// no JSON-escaping logic is duplicated here.
func dumpsRaw(v object.Value) (string, error) {
	if v == object.None {
		return "null", nil
	}
	switch val := v.(type) {
	case object.Bool:
		return sjsonScalar(bool(val))
	case object.Number:
		return sjsonScalar(float64(val))
	case object.String:
		return sjsonScalar(string(val))
	case *object.List:
		items := val.Snapshot()
		doc := "[]"
		for i, item := range items {
			frag, err := dumpsRaw(item)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(i), frag)
			if err != nil {
				return "", errors.Newf(errors.Value, errors.Position{}, "dumps(): %v", err)
			}
		}
		return doc, nil
	case *object.Hash:
		doc := "{}"
		for _, e := range val.Entries() {
			key, ok := e.Key.(object.String)
			if !ok {
				return "", errors.Newf(errors.Type, errors.Position{}, "dumps(): Hash keys must be Strings, got %s", e.Key.Type().Name)
			}
			frag, err := dumpsRaw(e.Value)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, string(key), frag)
			if err != nil {
				return "", errors.Newf(errors.Value, errors.Position{}, "dumps(): %v", err)
			}
		}
		return doc, nil
	default:
		return "", errors.Newf(errors.Type, errors.Position{}, "dumps(): %s is not JSON-serializable", v.Type().Name)
	}
}

// sjsonScalar encodes a plain Go scalar as a JSON fragment by setting it
// into a throwaway document and reading the encoded text back out.
func sjsonScalar(v any) (string, error) {
	doc, err := sjson.Set("{}", "v", v)
	if err != nil {
		return "", errors.Newf(errors.Value, errors.Position{}, "dumps(): %v", err)
	}
	return gjson.Get(doc, "v").Raw, nil
}

// loadsValue walks a parsed gjson.Result into the equivalent Kya Value
// tree. Object key order is whatever gjson.ForEach yields, which for
// tidwall/gjson is source order.
func loadsValue(r gjson.Result) object.Value {
	switch {
	case r.IsArray():
		items := make([]object.Value, 0)
		r.ForEach(func(_, v gjson.Result) bool {
			items = append(items, loadsValue(v))
			return true
		})
		return object.NewList(items)
	case r.IsObject():
		h := object.NewHash()
		r.ForEach(func(k, v gjson.Result) bool {
			_ = h.Set(object.String(k.String()), loadsValue(v))
			return true
		})
		return h
	}
	switch r.Type {
	case gjson.String:
		return object.String(r.String())
	case gjson.Number:
		return object.Number(r.Float())
	case gjson.True:
		return object.True
	case gjson.False:
		return object.False
	default:
		return object.None
	}
}
