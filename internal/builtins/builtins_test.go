package builtins

import (
	"strings"
	"testing"

	"github.com/cwbudde/kya/internal/object"
)

func newGlobals(t *testing.T) *object.Dict {
	t.Helper()
	g := object.NewDict()
	Register(g)
	return g
}

func TestRegisterInstallsAmbientNames(t *testing.T) {
	g := newGlobals(t)
	for _, name := range []string{"None", "True", "False", "print", "len", "str", "repr", "type", "list", "hash", "bytes", "Thread", "Lock", "Exception", "__import__"} {
		if _, ok := g.Get(name); !ok {
			t.Fatalf("expected %q in globals after Register", name)
		}
	}
}

func TestPrintWritesReprOfEachArgConcatenated(t *testing.T) {
	var buf strings.Builder
	old := Stdout
	Stdout = &buf
	defer func() { Stdout = old }()

	if _, err := builtinPrint([]object.Value{object.String("a"), object.Number(1)}, nil); err != nil {
		t.Fatalf("print: %v", err)
	}
	if got := buf.String(); got != "a1\n" {
		t.Fatalf("expected %q, got %q", "a1\n", got)
	}
}

func TestLenDispatchesSqLen(t *testing.T) {
	n, err := builtinLen([]object.Value{object.String("hello")}, nil)
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != object.Number(5) {
		t.Fatalf("expected Number(5), got %#v", n)
	}
}

func TestReprQuotesNothingForStrings(t *testing.T) {
	s, err := builtinRepr([]object.Value{object.String("hi")}, nil)
	if err != nil {
		t.Fatalf("repr: %v", err)
	}
	if s != object.String("hi") {
		t.Fatalf("expected String(hi), got %#v", s)
	}
}

func TestTypeReturnsAWrappingClass(t *testing.T) {
	v, err := builtinType([]object.Value{object.Number(1)}, nil)
	if err != nil {
		t.Fatalf("type: %v", err)
	}
	cls, ok := v.(*object.Class)
	if !ok || cls.TypeRef != object.NumberTypeObj {
		t.Fatalf("expected Class(Number), got %#v", v)
	}
}

func TestListConstructorWrapsArguments(t *testing.T) {
	v, err := builtinList([]object.Value{object.Number(1), object.String("a")}, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	items := v.(*object.List).Snapshot()
	if len(items) != 2 || items[0] != object.Number(1) || items[1] != object.String("a") {
		t.Fatalf("unexpected list contents: %#v", items)
	}
}

func TestHashConstructorPairsArguments(t *testing.T) {
	v, err := builtinHash([]object.Value{object.String("k"), object.Number(1)}, nil)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	got, ok, err := v.(*object.Hash).Get(object.String("k"))
	if err != nil || !ok || got != object.Number(1) {
		t.Fatalf("expected hash[k] == 1, got %#v (ok=%v, err=%v)", got, ok, err)
	}

	if _, err := builtinHash([]object.Value{object.String("k")}, nil); err == nil {
		t.Fatal("expected an error for an odd argument count")
	}
}

func TestBytesConstructorCopiesStringContents(t *testing.T) {
	v, err := builtinBytes([]object.Value{object.String("abc")}, nil)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	b := v.(*object.Bytes)
	if string(b.Bytes()) != "abc" {
		t.Fatalf("expected bytes 'abc', got %q", b.Bytes())
	}

	if _, err := builtinBytes([]object.Value{object.Number(1)}, nil); err == nil {
		t.Fatal("expected an error for a non-String argument")
	}
}

func TestExceptionClassIsConstructible(t *testing.T) {
	g := newGlobals(t)
	cls, _ := g.Get("Exception")
	v, err := object.Call(cls, []object.Value{object.String("boom")})
	if err != nil {
		t.Fatalf("Exception(): %v", err)
	}
	exc, ok := v.(*object.Exception)
	if !ok || exc.Message != "boom" {
		t.Fatalf("expected Exception{boom}, got %#v", v)
	}
}

func TestImportUnknownModuleIsRuntimeError(t *testing.T) {
	if _, err := builtinImport([]object.Value{object.String("nope")}, nil); err == nil {
		t.Fatal("expected an error importing an unregistered module")
	}
}

func TestImportJSONRoundTrip(t *testing.T) {
	mod, err := builtinImport([]object.Value{object.String("json")}, nil)
	if err != nil {
		t.Fatalf("import json: %v", err)
	}
	m := mod.(*object.Module)

	dumps, _ := m.Dict.Get("dumps")
	loads, _ := m.Dict.Get("loads")

	list := object.NewList([]object.Value{object.Number(1), object.String("two"), object.True, object.None})
	out, err := object.Call(dumps, []object.Value{list})
	if err != nil {
		t.Fatalf("dumps: %v", err)
	}
	s, ok := out.(object.String)
	if !ok {
		t.Fatalf("expected String, got %#v", out)
	}

	back, err := object.Call(loads, []object.Value{s})
	if err != nil {
		t.Fatalf("loads: %v", err)
	}
	restored, ok := back.(*object.List)
	if !ok {
		t.Fatalf("expected *List, got %#v", back)
	}
	items := restored.Snapshot()
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0] != object.Number(1) || items[1] != object.String("two") || items[2] != object.True || items[3] != object.None {
		t.Fatalf("unexpected round-tripped items: %#v", items)
	}
}

func TestJSONDumpsHashProducesObjectFragment(t *testing.T) {
	h := object.NewHash()
	if err := h.Set(object.String("k"), object.Number(2)); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := dumpsRaw(h)
	if err != nil {
		t.Fatalf("dumpsRaw: %v", err)
	}
	if out != `{"k":2}` {
		t.Fatalf("expected {\"k\":2}, got %s", out)
	}
}

func TestStringUpperLowerUseUnicodeCasing(t *testing.T) {
	upper, ok := object.StringTypeObj.Dict.Get("upper")
	if !ok {
		t.Fatal("expected upper registered on String's dict")
	}
	out, err := object.Call(upper, nil)
	_ = out
	if err == nil {
		t.Fatal("expected an error calling upper unbound (no receiver)")
	}

	fn := upper.(*object.NativeFunction)
	v, err := fn.Fn(nil, object.String("straße"))
	if err != nil {
		t.Fatalf("upper: %v", err)
	}
	if v != object.String("STRASSE") {
		t.Fatalf("expected Unicode-aware upper-casing, got %#v", v)
	}
}

func TestListSortOrdersByCompareLess(t *testing.T) {
	list := object.NewList([]object.Value{object.Number(3), object.Number(1), object.Number(2)})
	sortFn, ok := object.ListTypeObj.Dict.Get("sort")
	if !ok {
		t.Fatal("expected sort registered on List's dict")
	}
	fn := sortFn.(*object.NativeFunction)
	if _, err := fn.Fn(nil, list); err != nil {
		t.Fatalf("sort: %v", err)
	}
	items := list.Snapshot()
	if items[0] != object.Number(1) || items[1] != object.Number(2) || items[2] != object.Number(3) {
		t.Fatalf("expected sorted [1,2,3], got %#v", items)
	}
}
