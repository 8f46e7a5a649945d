package parser

import (
	"testing"

	"github.com/cwbudde/kya/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return mod
}

func TestParseStringLiteralStatement(t *testing.T) {
	mod := mustParse(t, `"hello"`)
	if len(mod.Block.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(mod.Block.Statements))
	}
	stmt, ok := mod.Block.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected ExpressionStatement, got %T", mod.Block.Statements[0])
	}
	lit, ok := stmt.Expr.(*ast.StringLiteral)
	if !ok || lit.Value != "hello" {
		t.Fatalf("expected StringLiteral(hello), got %#v", stmt.Expr)
	}
}

func TestParseAssignmentThenIdentifier(t *testing.T) {
	mod := mustParse(t, "x = 2\nx")
	if len(mod.Block.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(mod.Block.Statements))
	}
	assign := mod.Block.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.Assignment)
	if assign.Target.(*ast.Identifier).Name != "x" {
		t.Errorf("expected assignment target 'x'")
	}
	if assign.Value.(*ast.NumberLiteral).Value != 2 {
		t.Errorf("expected assignment value 2")
	}
}

func TestParseFunctionDefAndCall(t *testing.T) {
	mod := mustParse(t, "def f(a)\n a\nend\nf(7)")
	if len(mod.Block.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(mod.Block.Statements))
	}
	def := mod.Block.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.MethodDef)
	if def.Name != "f" || len(def.Params) != 1 || def.Params[0] != "a" {
		t.Errorf("unexpected MethodDef: %#v", def)
	}
	call := mod.Block.Statements[1].(*ast.ExpressionStatement).Expr.(*ast.MethodCall)
	if call.Callee.(*ast.Identifier).Name != "f" || len(call.Args) != 1 {
		t.Errorf("unexpected MethodCall: %#v", call)
	}
}

func TestParseWhileLoop(t *testing.T) {
	mod := mustParse(t, "while x == 0\n x\nend")
	stmt, ok := mod.Block.Statements[0].(*ast.While)
	if !ok {
		t.Fatalf("expected While, got %T", mod.Block.Statements[0])
	}
	cmp, ok := stmt.Cond.(*ast.Compare)
	if !ok || cmp.Op != ast.CompareEqual {
		t.Errorf("expected equality comparison, got %#v", stmt.Cond)
	}
}

func TestParseAttributeAccessAndChainedCall(t *testing.T) {
	mod := mustParse(t, "a.b.c(1, 2)")
	call := mod.Block.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.MethodCall)
	attr, ok := call.Callee.(*ast.Attribute)
	if !ok || attr.Name != "c" {
		t.Fatalf("expected call on attribute 'c', got %#v", call.Callee)
	}
	if len(call.Args) != 2 {
		t.Errorf("expected 2 args, got %d", len(call.Args))
	}
}

func TestParseStringConcatOperator(t *testing.T) {
	mod := mustParse(t, `"a" + "b"`)
	bin := mod.Block.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.BinOp)
	if bin.Op != '+' {
		t.Errorf("expected '+' operator, got %c", bin.Op)
	}
}

func TestParseClassDef(t *testing.T) {
	mod := mustParse(t, "class Foo\ndef bar(self)\n self\nend\nend")
	class, ok := mod.Block.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.ClassDef)
	if !ok || class.Name != "Foo" {
		t.Fatalf("expected ClassDef(Foo), got %#v", mod.Block.Statements[0])
	}
	if len(class.Body.Statements) != 1 {
		t.Fatalf("expected one method in class body, got %d", len(class.Body.Statements))
	}
}

func TestInvalidAssignmentTargetIsCompilationError(t *testing.T) {
	_, errs := Parse("1 = 2")
	if len(errs) == 0 {
		t.Fatal("expected an error for a non-identifier assignment target")
	}
}

func TestDeterministicParse(t *testing.T) {
	src := "x = 1\nwhile x == 0\n x\nend"
	mod1, _ := Parse(src)
	mod2, _ := Parse(src)
	if mod1.String() != mod2.String() {
		t.Errorf("parse is not deterministic:\n%s\nvs\n%s", mod1.String(), mod2.String())
	}
}
