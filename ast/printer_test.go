package ast

import (
	"strings"
	"testing"

	"github.com/cata-lang/catac/token"
)

func TestPrintLiteralAndVariable(t *testing.T) {
	if got := Print(&Literal{Value: 42}); got != "42" {
		t.Fatalf("got %q", got)
	}
	if got := Print(&Variable{Name: "x"}); got != "x" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintBinary(t *testing.T) {
	e := &Binary{Op: token.Plus, Left: &Variable{Name: "a"}, Right: &Literal{Value: 1}}
	if got := Print(e); got != "(a + 1)" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintPrefix(t *testing.T) {
	e := &Prefix{Op: token.Minus, Operand: &Variable{Name: "x"}}
	if got := Print(e); got != "-x" {
		t.Fatalf("got %q", got)
	}
}

func TestPrintFunctionRendersPrototypeAndBody(t *testing.T) {
	fn := &Function{
		Proto: &Prototype{Name: "add", Params: []string{"a", "b"}},
		Body: &Block{Exprs: []Expr{
			&Binary{Op: token.Plus, Left: &Variable{Name: "a"}, Right: &Variable{Name: "b"}},
		}},
	}
	out := Print(fn)
	if !strings.Contains(out, "def add(a, b)") {
		t.Fatalf("missing prototype in %q", out)
	}
	if !strings.Contains(out, "(a + b);") {
		t.Fatalf("missing body in %q", out)
	}
}

func TestPrintIfElseChain(t *testing.T) {
	e := &If{
		Cond: &Variable{Name: "x"},
		Then: &Block{Exprs: []Expr{&Literal{Value: 1}}},
		Else: &If{
			Cond: &Variable{Name: "y"},
			Then: &Block{Exprs: []Expr{&Literal{Value: 2}}},
			Else: &Block{Exprs: []Expr{&Literal{Value: 3}}},
		},
	}
	out := Print(e)
	if !strings.Contains(out, "if (x)") || !strings.Contains(out, "else if (y)") {
		t.Fatalf("unexpected else-if rendering: %q", out)
	}
}
