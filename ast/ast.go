// Package ast defines Cata's expression tree. Per the teacher's own
// redesign note (spec.md §9), this is a plain sum type consumed by a
// type switch per pass (printer, codegen) rather than a double-dispatch
// visitor: the "accept(visitor)" indirection the original C++ uses
// carries no information a Go type switch doesn't already have.
package ast

import "github.com/cata-lang/catac/token"

// Expr is any node in the expression tree. Children are owned
// exclusively by their parent — no sharing, no cycles.
type Expr interface {
	exprNode()
}

// Literal is a 32-bit signed integer constant.
type Literal struct {
	Value int32
}

// Variable is a reference to a named value in an enclosing scope.
type Variable struct {
	Name string
}

// Prefix is a unary prefix operator applied to one operand.
// Op is one of Not, Plus, Minus, Tilde.
type Prefix struct {
	Op      token.Kind
	Operand Expr
}

// Binary is a binary operator applied to two operands.
type Binary struct {
	Op    token.Kind
	Left  Expr
	Right Expr
}

// Block is an ordered sequence of expressions; its value is its last
// child's value.
type Block struct {
	Exprs []Expr
}

// Call invokes a named function with an ordered argument list.
type Call struct {
	Callee string
	Args   []Expr
}

// Prototype is a function's name and parameter list, without a body.
// Declared by extern or as a def's header. Parameter names must be
// unique within a prototype (enforced at codegen, not parse).
type Prototype struct {
	Name   string
	Params []string
}

// Function owns a prototype and a block body.
type Function struct {
	Proto *Prototype
	Body  *Block
}

// Let declares a new name in the current scope, initialised by Init
// (defaulting to the literal 0 when the source omits "= expr").
type Let struct {
	Name string
	Init Expr
}

// If is both a statement and an expression. Else is nil (no else
// branch — the expression value defaults to 0), an *If (an "else if"
// chain), or a *Block (a brace-delimited else body).
type If struct {
	Cond Expr
	Then *Block
	Else Expr
}

func (*Literal) exprNode()   {}
func (*Variable) exprNode()  {}
func (*Prefix) exprNode()    {}
func (*Binary) exprNode()    {}
func (*Block) exprNode()     {}
func (*Call) exprNode()      {}
func (*Prototype) exprNode() {}
func (*Function) exprNode()  {}
func (*Let) exprNode()       {}
func (*If) exprNode()        {}
