package parser

import (
	"testing"

	"github.com/cata-lang/catac/ast"
	"github.com/cata-lang/catac/token"
)

func mustParse(t *testing.T, src string) []ast.Expr {
	t.Helper()
	forms, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return forms
}

func TestParseExternPrototype(t *testing.T) {
	forms := mustParse(t, "extern putchar(c);")
	if len(forms) != 1 {
		t.Fatalf("got %d forms", len(forms))
	}
	proto, ok := forms[0].(*ast.Prototype)
	if !ok {
		t.Fatalf("got %T", forms[0])
	}
	if proto.Name != "putchar" || len(proto.Params) != 1 || proto.Params[0] != "c" {
		t.Fatalf("got %+v", proto)
	}
}

func TestParseSimpleFunction(t *testing.T) {
	forms := mustParse(t, "def add(a, b) { a + b; }")
	fn, ok := forms[0].(*ast.Function)
	if !ok {
		t.Fatalf("got %T", forms[0])
	}
	if fn.Proto.Name != "add" || len(fn.Proto.Params) != 2 {
		t.Fatalf("got %+v", fn.Proto)
	}
	if len(fn.Body.Exprs) != 1 {
		t.Fatalf("got %d body exprs", len(fn.Body.Exprs))
	}
	bin, ok := fn.Body.Exprs[0].(*ast.Binary)
	if !ok {
		t.Fatalf("got %T", fn.Body.Exprs[0])
	}
	if _, ok := bin.Left.(*ast.Variable); !ok {
		t.Fatalf("got %T", bin.Left)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	forms := mustParse(t, "def f() { 1 + 2 * 3; }")
	fn := forms[0].(*ast.Function)
	top := fn.Body.Exprs[0].(*ast.Binary)
	if top.Op != token.Plus {
		t.Fatalf("expected outer +, got %v", top.Op)
	}
	if _, ok := top.Right.(*ast.Binary); !ok {
		t.Fatalf("expected 2*3 folded into the right operand, got %T", top.Right)
	}
	if _, ok := top.Left.(*ast.Literal); !ok {
		t.Fatalf("expected literal left operand, got %T", top.Left)
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	forms := mustParse(t, "def f() { let a = 0; let b = 0; a = b = 1; }")
	fn := forms[0].(*ast.Function)
	assign := fn.Body.Exprs[2].(*ast.Binary)
	if assign.Op != token.Equals {
		t.Fatalf("expected top-level assignment, got %v", assign.Op)
	}
	if _, ok := assign.Right.(*ast.Binary); !ok {
		t.Fatalf("expected b = 1 nested on the right, got %T", assign.Right)
	}
}

func TestLetWithoutInitialiserDefaultsToZero(t *testing.T) {
	forms := mustParse(t, "def f() { let x; }")
	fn := forms[0].(*ast.Function)
	let := fn.Body.Exprs[0].(*ast.Let)
	lit, ok := let.Init.(*ast.Literal)
	if !ok || lit.Value != 0 {
		t.Fatalf("got %+v", let.Init)
	}
}

func TestIfElseIfChain(t *testing.T) {
	forms := mustParse(t, "def f() { if (1) { 1; } else if (2) { 2; } else { 3; } }")
	fn := forms[0].(*ast.Function)
	top := fn.Body.Exprs[0].(*ast.If)
	elseIf, ok := top.Else.(*ast.If)
	if !ok {
		t.Fatalf("expected else-if chain, got %T", top.Else)
	}
	if _, ok := elseIf.Else.(*ast.Block); !ok {
		t.Fatalf("expected trailing else block, got %T", elseIf.Else)
	}
}

func TestIfStatementNeedsNoTrailingSemicolon(t *testing.T) {
	forms := mustParse(t, "def abs(x) { if (x < 0) { -x; } else { x; } }")
	fn := forms[0].(*ast.Function)
	if len(fn.Body.Exprs) != 1 {
		t.Fatalf("got %d body exprs", len(fn.Body.Exprs))
	}
	if _, ok := fn.Body.Exprs[0].(*ast.If); !ok {
		t.Fatalf("got %T", fn.Body.Exprs[0])
	}
}

func TestIfStatementFollowedByAnotherStatement(t *testing.T) {
	forms := mustParse(t, "def f(x) { if (x) { 1; } else { 2; } x + 1; }")
	fn := forms[0].(*ast.Function)
	if len(fn.Body.Exprs) != 2 {
		t.Fatalf("got %d body exprs", len(fn.Body.Exprs))
	}
	if _, ok := fn.Body.Exprs[0].(*ast.If); !ok {
		t.Fatalf("got %T", fn.Body.Exprs[0])
	}
	if _, ok := fn.Body.Exprs[1].(*ast.Binary); !ok {
		t.Fatalf("got %T", fn.Body.Exprs[1])
	}
}

func TestCallWithArguments(t *testing.T) {
	forms := mustParse(t, "def f() { add(1, 2); }")
	fn := forms[0].(*ast.Function)
	call := fn.Body.Exprs[0].(*ast.Call)
	if call.Callee != "add" || len(call.Args) != 2 {
		t.Fatalf("got %+v", call)
	}
}

func TestPrefixOperatorsNest(t *testing.T) {
	forms := mustParse(t, "def f() { --x; }")
	fn := forms[0].(*ast.Function)
	outer := fn.Body.Exprs[0].(*ast.Prefix)
	if _, ok := outer.Operand.(*ast.Prefix); !ok {
		t.Fatalf("expected nested prefix, got %T", outer.Operand)
	}
}

func TestBareTopLevelExpressionIsRejected(t *testing.T) {
	_, err := Parse([]byte("1 + 1;"))
	if err == nil {
		t.Fatal("expected an error for a bare top-level expression")
	}
}

func TestMissingClosingParenIsAnError(t *testing.T) {
	_, err := Parse([]byte("def f() { (1 + 2; }"))
	if err == nil {
		t.Fatal("expected a syntax error for the missing )")
	}
}

func TestPrefixOnlyOperatorInBinaryPositionIsAnError(t *testing.T) {
	_, err := Parse([]byte("def f() { 1 ~ 2; }"))
	if err == nil {
		t.Fatal("expected an error: ~ has no binary meaning")
	}
}
