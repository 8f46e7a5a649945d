package vm

import (
	"strings"
	"testing"

	"github.com/cwbudde/kya/internal/builtins"
	"github.com/cwbudde/kya/internal/compiler"
	"github.com/cwbudde/kya/internal/object"
)

// run compiles and evaluates src against a fresh globals Dict with builtins
// installed, returning the top-level result, the captured stdout, and any
// error — the same Compile-then-Eval path external callers use.
func run(t *testing.T, src string) (object.Value, string, error) {
	t.Helper()
	code, err := compiler.Compile(src)
	if err != nil {
		return nil, "", err
	}
	var buf strings.Builder
	old := builtins.Stdout
	builtins.Stdout = &buf
	defer func() { builtins.Stdout = old }()

	globals := object.NewDict()
	builtins.Register(globals)
	result, err := Eval(code, globals)
	return result, buf.String(), err
}

// TestStringLiteralStatementEvaluatesToItself covers a bare string literal
// statement: it evaluates to itself, with no stdout output.
func TestStringLiteralStatementEvaluatesToItself(t *testing.T) {
	result, out, err := run(t, `"hello"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no stdout, got %q", out)
	}
	s, ok := result.(object.String)
	if !ok || string(s) != "hello" {
		t.Fatalf("expected String(hello), got %#v", result)
	}
}

// TestPrintWritesAndReturnsNone covers print("hi") writing "hi\n" while the
// call's own value is None.
func TestPrintWritesAndReturnsNone(t *testing.T) {
	result, out, err := run(t, `print("hi")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi\n" {
		t.Fatalf("expected stdout %q, got %q", "hi\n", out)
	}
	if result != object.None {
		t.Fatalf("expected None, got %#v", result)
	}
}

// TestAssignmentIsAnExpression covers `x = 2` both storing and evaluating
// to the stored value, so the module's last statement `x` yields Number(2),
// and the binding is visible in globals afterward.
func TestAssignmentIsAnExpression(t *testing.T) {
	code, err := compiler.Compile("x = 2\nx")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	globals := object.NewDict()
	builtins.Register(globals)
	result, err := Eval(code, globals)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if result != object.Number(2) {
		t.Fatalf("expected Number(2), got %#v", result)
	}
	v, ok := globals.Get("x")
	if !ok || v != object.Number(2) {
		t.Fatalf("expected globals[x] == Number(2), got %#v (present=%v)", v, ok)
	}
}

// TestFunctionCallReturnsArgument covers def f(a) a end; f(7) returning
// Number(7) — the body's tail expression is the implicit return.
func TestFunctionCallReturnsArgument(t *testing.T) {
	result, _, err := run(t, "def f(a)\n a\nend\nf(7)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.Number(7) {
		t.Fatalf("expected Number(7), got %#v", result)
	}
}

// TestWhileLoopTerminatesOnConditionChange exercises the while-loop
// jump-offset arithmetic: a loop that mutates its own condition out from
// under itself terminates rather than looping forever or miscounting
// iterations.
func TestWhileLoopTerminatesOnConditionChange(t *testing.T) {
	src := "i = 0\nwhile i == 0\n i = 1\nend\ni"
	result, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.Number(1) {
		t.Fatalf("expected Number(1), got %#v", result)
	}
}

// TestStringConcatenationViaDunderAdd covers "a" + "b" lowering to a
// LoadAttr("__add__")+Call(1) sequence (internal/compiler's compileBinOp)
// and returning String("ab").
func TestStringConcatenationViaDunderAdd(t *testing.T) {
	result, _, err := run(t, `"a" + "b"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.String("ab") {
		t.Fatalf("expected String(ab), got %#v", result)
	}
}

// TestUnboundedRecursionIsAStackOverflowError exercises callstack.go's
// recursion-depth guard.
func TestUnboundedRecursionIsAStackOverflowError(t *testing.T) {
	_, _, err := run(t, "def loop()\n loop()\nend\nloop()")
	if err == nil {
		t.Fatal("expected a stack overflow error")
	}
	if !strings.Contains(err.Error(), "stack overflow") {
		t.Fatalf("expected a stack overflow message, got %v", err)
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, _, err := run(t, "nope")
	if err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
}

func TestWrongArityIsRuntimeError(t *testing.T) {
	_, _, err := run(t, "def f(a)\n a\nend\nf(1, 2)")
	if err == nil {
		t.Fatal("expected an arity error")
	}
	if !strings.Contains(err.Error(), "expected 1, got 2") {
		t.Fatalf("expected an %q message, got %v", "expected N, got M", err)
	}
}

func TestAttributeLookupMissIsRuntimeError(t *testing.T) {
	_, _, err := run(t, "class C\nend\nc = C()\nc.missing")
	if err == nil {
		t.Fatal("expected an error for a missing attribute")
	}
}

// TestIfElseIsAnExpression covers if/else in expression position: exactly
// one branch executes and its tail value is the expression's value.
func TestIfElseIsAnExpression(t *testing.T) {
	result, _, err := run(t, "x = if 1 == 2\n \"then\"\nelse\n \"else\"\nend\nx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.String("else") {
		t.Fatalf("expected String(else), got %#v", result)
	}
}

// TestIfWithoutElseYieldsNoneWhenFalse covers the implicit None branch.
func TestIfWithoutElseYieldsNoneWhenFalse(t *testing.T) {
	result, _, err := run(t, "if 1 == 2\n \"unreached\"\nend")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.None {
		t.Fatalf("expected None, got %#v", result)
	}
}

// TestUnaryMinusDispatchesDunderNeg covers -x lowering to __neg__.
func TestUnaryMinusDispatchesDunderNeg(t *testing.T) {
	result, _, err := run(t, "x = 3\n-x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.Number(-3) {
		t.Fatalf("expected Number(-3), got %#v", result)
	}
}

// TestImportJSONModuleEndToEnd covers the `import name` lowering through
// __import__ and attribute dispatch on the resulting Module value.
func TestImportJSONModuleEndToEnd(t *testing.T) {
	src := "import json\njson.dumps(list(1, 2))"
	result, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.String("[1,2]") {
		t.Fatalf("expected String([1,2]), got %#v", result)
	}
}

// TestBreakExitsInnermostLoop covers `break` jumping to the enclosing
// loop's exit rather than unwinding further.
func TestBreakExitsInnermostLoop(t *testing.T) {
	src := "i = 0\nwhile i < 10\n i = i + 1\n if i == 3\n  break\n end\nend\ni"
	result, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.Number(3) {
		t.Fatalf("expected Number(3), got %#v", result)
	}
}

// TestDeinitRunsWhenABindingIsOverwritten exercises the RefCountManager
// wiring in refcount.go: rebinding the only variable holding an Instance
// drops its reference count to zero and runs its "deinit" method.
func TestDeinitRunsWhenABindingIsOverwritten(t *testing.T) {
	src := "class Resource\n" +
		"def deinit()\n" +
		" print(\"closed\")\n" +
		"end\n" +
		"end\n" +
		"r = Resource()\n" +
		"r = 0"
	_, out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "closed\n" {
		t.Fatalf("expected deinit to print %q, got %q", "closed\n", out)
	}
}

// TestParameterReassignmentDoesNotDestroyCallerBinding guards the
// retain/release symmetry of call-time bindings: rebinding a parameter
// inside a function body releases the parameter's own retained reference,
// not the caller's, so an instance still bound by the caller must survive
// the call with its deinit unfired.
func TestParameterReassignmentDoesNotDestroyCallerBinding(t *testing.T) {
	src := "class R\n" +
		"def deinit()\n" +
		" print(\"closed\")\n" +
		"end\n" +
		"end\n" +
		"r = R()\n" +
		"def f(x)\n" +
		" x = 0\n" +
		"end\n" +
		"f(r)\n" +
		"print(r)"
	_, out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<R instance>\n" {
		t.Fatalf("expected the instance to survive the call, got output %q", out)
	}
}

// TestLocalOnlyInstanceRunsDeinitWhenFrameReturns covers the
// locals-released-on-return half of the frame lifecycle: an instance
// reachable only through a function's local binding is destroyed when
// that frame returns.
func TestLocalOnlyInstanceRunsDeinitWhenFrameReturns(t *testing.T) {
	src := "class Resource\n" +
		"def deinit()\n" +
		" print(\"closed\")\n" +
		"end\n" +
		"end\n" +
		"def f()\n" +
		" x = Resource()\n" +
		" 0\n" +
		"end\n" +
		"f()\n" +
		"print(\"after\")"
	_, out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "closed\nafter\n" {
		t.Fatalf("expected deinit to fire on frame exit, got output %q", out)
	}
}

// TestInitializedInstanceSurvivesConstruction guards the construction
// window: the init frame's transient self binding takes a fresh instance's
// count from zero to one and back, which must not count as the final
// release.
func TestInitializedInstanceSurvivesConstruction(t *testing.T) {
	src := "class Conn\n" +
		"def init(addr)\n" +
		" self.addr = addr\n" +
		"end\n" +
		"def deinit()\n" +
		" print(\"closed\")\n" +
		"end\n" +
		"end\n" +
		"c = Conn(\"localhost\")\n" +
		"print(c.addr)\n" +
		"c = 0"
	_, out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "localhost\nclosed\n" {
		t.Fatalf("expected deinit only at the final rebinding, got output %q", out)
	}
}

// TestReturnedLocalInstanceTransfersToCaller covers releaseLocals'
// result exemption: a frame returning the instance its local holds must
// hand it to the caller alive, and the caller's own binding keeps it so.
func TestReturnedLocalInstanceTransfersToCaller(t *testing.T) {
	src := "class Resource\n" +
		"def deinit()\n" +
		" print(\"closed\")\n" +
		"end\n" +
		"end\n" +
		"def make()\n" +
		" x = Resource()\n" +
		"end\n" +
		"kept = make()\n" +
		"print(kept)"
	_, out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "<Resource instance>\n" {
		t.Fatalf("expected the returned instance to stay alive, got output %q", out)
	}
}

// TestClassInstantiationAndMethodBinding exercises the method-binding
// protocol: reading a function attribute off an instance binds it to a
// Method capturing that instance as receiver.
func TestClassInstantiationAndMethodBinding(t *testing.T) {
	src := "class Counter\n" +
		"def init()\n" +
		" self.n = 0\n" +
		"end\n" +
		"def bump()\n" +
		" self.n = self.n + 1\n" +
		"end\n" +
		"end\n" +
		"c = Counter()\n" +
		"c.bump()\n" +
		"c.bump()\n" +
		"c.n"
	result, _, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.Number(2) {
		t.Fatalf("expected Number(2), got %#v", result)
	}
}
