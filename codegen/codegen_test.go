package codegen

import (
	"strings"
	"testing"

	"github.com/cata-lang/catac/common"
	"github.com/cata-lang/catac/parser"
)

func compileIR(t *testing.T, src string) string {
	t.Helper()
	forms, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	cg, err := New(common.NewConfig())
	if err != nil {
		t.Skipf("no LLVM target available in this environment: %v", err)
	}
	if err := cg.Compile(forms); err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return cg.IR()
}

func TestExternDeclaresFunctionWithNoBody(t *testing.T) {
	ir := compileIR(t, "extern putchard(c);")
	if !strings.Contains(ir, "declare") || !strings.Contains(ir, "putchard") {
		t.Fatalf("expected an extern declaration for putchard, got:\n%s", ir)
	}
}

func TestSimpleFunctionDefinesAndReturns(t *testing.T) {
	ir := compileIR(t, "def f(x) { let y = x * 2; y + 1; }")
	if !strings.Contains(ir, "define i32 @f(i32") {
		t.Fatalf("expected a defined function f, got:\n%s", ir)
	}
	if !strings.Contains(ir, "alloca i32") {
		t.Fatalf("expected stack slots for x and y, got:\n%s", ir)
	}
}

func TestIfProducesThreeBlockDiamondWithPhi(t *testing.T) {
	ir := compileIR(t, "def f(x) { if (x) { 1; } else { 2; } }")
	for _, want := range []string{"then", "else", "merge", "phi i32"} {
		if !strings.Contains(ir, want) {
			t.Fatalf("expected %q in IR, got:\n%s", want, ir)
		}
	}
}

func TestCallToEarlierDefResolves(t *testing.T) {
	ir := compileIR(t, "def one() { 1; } def two() { one() + one(); }")
	if !strings.Contains(ir, "call i32 @one") {
		t.Fatalf("expected a call to one(), got:\n%s", ir)
	}
}

func TestForwardCallToLaterDefFails(t *testing.T) {
	_, err := parser.Parse([]byte("def a() { b(); } def b() { 1; }"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	forms, _ := parser.Parse([]byte("def a() { b(); } def b() { 1; }"))
	cg, err := New(common.NewConfig())
	if err != nil {
		t.Skipf("no LLVM target available in this environment: %v", err)
	}
	if err := cg.Compile(forms); err == nil {
		t.Fatal("expected forward reference to fail: no two-pass resolution")
	}
}

func TestAssignmentToNonVariableIsAnError(t *testing.T) {
	forms, err := parser.Parse([]byte("def f() { 1 = 2; }"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	cg, err := New(common.NewConfig())
	if err != nil {
		t.Skipf("no LLVM target available in this environment: %v", err)
	}
	if err := cg.Compile(forms); err == nil {
		t.Fatal("expected an error: left-hand side of = is not a variable")
	}
}

func TestArityMismatchIsAnError(t *testing.T) {
	forms, err := parser.Parse([]byte("def add(a, b) { a + b; } def f() { add(1); }"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	cg, err := New(common.NewConfig())
	if err != nil {
		t.Skipf("no LLVM target available in this environment: %v", err)
	}
	if err := cg.Compile(forms); err == nil {
		t.Fatal("expected an arity mismatch error")
	}
}

func TestDuplicateParameterNameIsAnError(t *testing.T) {
	forms, err := parser.Parse([]byte("def f(x, x) { x; }"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	cg, err := New(common.NewConfig())
	if err != nil {
		t.Skipf("no LLVM target available in this environment: %v", err)
	}
	if err := cg.Compile(forms); err == nil {
		t.Fatal("expected an error: duplicate parameter name")
	}
}

func TestRedefinitionOfFunctionIsAnError(t *testing.T) {
	forms, err := parser.Parse([]byte("def f() { 1; } def f() { 2; }"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	cg, err := New(common.NewConfig())
	if err != nil {
		t.Skipf("no LLVM target available in this environment: %v", err)
	}
	if err := cg.Compile(forms); err == nil {
		t.Fatal("expected a redefinition error")
	}
}
