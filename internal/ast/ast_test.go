package ast

import (
	"testing"

	"github.com/cwbudde/kya/internal/errors"
)

func TestModuleStringRoundTrips(t *testing.T) {
	pos := errors.Position{Line: 1, Column: 1}
	mod := &Module{
		Block: &Block{
			Position: pos,
			Statements: []Statement{
				&ExpressionStatement{Expr: &Assignment{
					Position: pos,
					Target:   &Identifier{Name: "x", Position: pos},
					Value:    &NumberLiteral{Value: 2, Position: pos},
				}},
			},
		},
	}

	got := mod.String()
	want := "x = 2\n"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNumberLiteralFormatsIntegersWithoutDecimal(t *testing.T) {
	n := &NumberLiteral{Value: 7}
	if n.String() != "7" {
		t.Errorf("String() = %q, want %q", n.String(), "7")
	}
	f := &NumberLiteral{Value: 7.5}
	if f.String() != "7.5" {
		t.Errorf("String() = %q, want %q", f.String(), "7.5")
	}
}

func TestIsExpressionMarksDiscardCandidates(t *testing.T) {
	var e Expression = &MethodCall{Callee: &Identifier{Name: "print"}}
	if !e.IsExpression() {
		t.Error("MethodCall should be marked as an expression")
	}
}
