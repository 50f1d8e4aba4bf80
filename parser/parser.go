// Package parser implements Cata's recursive-descent, precedence-climbing
// parser. Grammar and precedence follow original_source/parser.cpp; the
// parser/lexer split and error-reporting idiom follow the teacher's
// parser.go (p.next/p.error, one token of lookahead held in the parser
// rather than the lexer).
package parser

import (
	"github.com/cata-lang/catac/ast"
	"github.com/cata-lang/catac/common"
	"github.com/cata-lang/catac/lexer"
	"github.com/cata-lang/catac/token"
)

// precedence maps a binary operator to its binding power. Higher binds
// tighter. Prefix-only operators (Not, Tilde) have no entry here; seeing
// one in operator position is a syntax error. Table is spec-mandated,
// not derived from anything computed.
var precedence = map[token.Kind]int{
	token.Equals:     10,
	token.Or:         15,
	token.And:        20,
	token.Pipe:       25,
	token.Caret:      30,
	token.Ampersand:  35,
	token.Eq:         50,
	token.Neq:        50,
	token.Lt:         60,
	token.Le:         60,
	token.Gt:         60,
	token.Ge:         60,
	token.LeftShift:  70,
	token.RightShift: 70,
	token.Plus:       80,
	token.Minus:      80,
	token.Star:       90,
	token.Slash:      90,
	token.Percent:    90,
}

// rightAssoc is checked only for operators present in precedence; every
// other binary operator associates left.
func rightAssoc(k token.Kind) bool {
	return k == token.Equals
}

// Parse lexes and parses src in full, returning every top-level form in
// source order. A syntax error aborts the whole parse (no statement
// resync, matching original_source/parser.cpp: the first error is fatal).
func Parse(src []byte) (forms []ast.Expr, err error) {
	defer common.Recover(&err)

	p := &parser{lex: lexer.New(src)}
	p.advance()

	for p.tok.Kind != token.EOF {
		forms = append(forms, p.topLevelForm())
	}
	return forms, nil
}

type parser struct {
	lex *lexer.Lexer
	tok token.Token
}

func (p *parser) advance() token.Token {
	prev := p.tok
	p.tok = p.lex.Next(false)
	return prev
}

func (p *parser) errorf(format string, args ...interface{}) {
	common.Fail(p.tok.Line, format, args...)
}

func (p *parser) expected(want string) {
	p.errorf("expected %s, got %s", want, p.tok)
}

func (p *parser) expect(k token.Kind) token.Token {
	if p.tok.Kind != k {
		p.expected(token.New(k, p.tok.Line).String())
	}
	return p.advance()
}

func (p *parser) expectIdent() string {
	if p.tok.Kind != token.Ident {
		p.expected("identifier")
	}
	name := p.tok.Lexeme
	p.advance()
	return name
}

// topLevelForm dispatches on the current token: a definition, an extern
// prototype, or (rejected) a bare top-level expression.
//
// original_source/parser.cpp's top_level() throws "top level expressions
// are not supported yet" rather than wrapping stray expressions into an
// implicit main; Cata keeps that behaviour rather than inventing an
// implicit-main feature the original never shipped.
func (p *parser) topLevelForm() ast.Expr {
	switch p.tok.Kind {
	case token.Def:
		return p.definition()
	case token.Extern:
		return p.externProto()
	default:
		p.errorf("top-level expressions are not supported, got %s", p.tok)
		panic("unreachable")
	}
}

// definition = "def" prototype block .
func (p *parser) definition() *ast.Function {
	p.advance() // def
	proto := p.prototype()
	body := p.block()
	return &ast.Function{Proto: proto, Body: body}
}

// extern_proto = "extern" prototype ";" .
func (p *parser) externProto() *ast.Prototype {
	p.advance() // extern
	proto := p.prototype()
	p.expect(token.Semicolon)
	return proto
}

// prototype = identifier "(" [ identifier { "," identifier } ] ")" .
func (p *parser) prototype() *ast.Prototype {
	name := p.expectIdent()
	p.expect(token.Lparen)
	var params []string
	if p.tok.Kind != token.Rparen {
		params = append(params, p.expectIdent())
		for p.tok.Kind == token.Comma {
			p.advance()
			params = append(params, p.expectIdent())
		}
	}
	p.expect(token.Rparen)
	return &ast.Prototype{Name: name, Params: params}
}

// block = "{" { if_stmt | (let_stmt | binary) ";" } "}" .
//
// An if_stmt used as a statement carries no trailing ";": it already
// closes on "}" (or the end of its else-arm), so requiring one would
// reject the single most common statement shape. Mirrors
// original_source/parser.cpp's statement(), whose Token::Kind::If case
// returns if_stmt() directly rather than falling into expect_semicolon().
func (p *parser) block() *ast.Block {
	p.expect(token.Lbrace)
	b := &ast.Block{}
	for p.tok.Kind != token.Rbrace {
		stmt := p.statement()
		b.Exprs = append(b.Exprs, stmt)
		if _, ok := stmt.(*ast.If); !ok {
			p.expect(token.Semicolon)
		}
	}
	p.advance() // }
	return b
}

// statement = let_stmt | if_stmt | binary(0) .
func (p *parser) statement() ast.Expr {
	switch p.tok.Kind {
	case token.Let:
		return p.letStmt()
	case token.If:
		return p.ifStmt()
	default:
		e := p.binary(0)
		if e == nil {
			p.expected("expression")
		}
		return e
	}
}

// let_stmt = "let" identifier [ "=" binary(0) ] .
// Omitting the initialiser desugars to "let name = 0", matching
// original_source/parser.cpp's let_stmt rather than making
// initialisation mandatory.
func (p *parser) letStmt() *ast.Let {
	p.advance() // let
	name := p.expectIdent()
	var init ast.Expr = &ast.Literal{Value: 0}
	if p.tok.Kind == token.Equals {
		p.advance()
		init = p.binary(0)
		if init == nil {
			p.expected("expression")
		}
	}
	return &ast.Let{Name: name, Init: init}
}

// if_stmt = "if" "(" binary(0) ")" block [ "else" ( if_stmt | block ) ] .
func (p *parser) ifStmt() *ast.If {
	p.advance() // if
	p.expect(token.Lparen)
	cond := p.binary(0)
	if cond == nil {
		p.expected("condition")
	}
	p.expect(token.Rparen)
	then := p.block()

	n := &ast.If{Cond: cond, Then: then}
	if p.tok.Kind == token.Else {
		p.advance()
		if p.tok.Kind == token.If {
			n.Else = p.ifStmt()
		} else {
			n.Else = p.block()
		}
	}
	return n
}

// binary implements precedence climbing: it parses a prefix expression,
// then repeatedly folds in trailing binary operators whose precedence
// exceeds prevPrecedence. Equal-precedence operators fold left except
// "=", which recurses at prec-1 on its right-hand side so chained
// assignment associates right.
func (p *parser) binary(prevPrecedence int) ast.Expr {
	lhs := p.prefix()
	if lhs == nil {
		return nil
	}

	for {
		if p.tok.IsBlockTerminator() || p.tok.Kind == token.EOF {
			return lhs
		}
		prec, ok := precedence[p.tok.Kind]
		if !ok {
			p.expected("operator")
		}
		if prec <= prevPrecedence {
			return lhs
		}

		op := p.advance()
		rhsPrecedence := prec
		if rightAssoc(op.Kind) {
			rhsPrecedence = prec - 1
		}
		rhs := p.binary(rhsPrecedence)
		if rhs == nil {
			p.expected("expression")
		}
		lhs = &ast.Binary{Op: op.Kind, Left: lhs, Right: rhs}
	}
}

// prefix = ( "!" | "+" | "-" | "~" ) prefix | primary .
func (p *parser) prefix() ast.Expr {
	if !p.tok.IsPrefixOp() {
		return p.primary()
	}
	op := p.advance()
	operand := p.prefix()
	if operand == nil {
		p.expected("operand")
	}
	return &ast.Prefix{Op: op.Kind, Operand: operand}
}

// primary = literal | identifier_or_call | paren | if_stmt .
func (p *parser) primary() ast.Expr {
	switch p.tok.Kind {
	case token.Integer:
		return p.literal()
	case token.Ident:
		return p.identifierOrCall()
	case token.Lparen:
		return p.paren()
	case token.If:
		return p.ifStmt()
	default:
		return nil
	}
}

func (p *parser) literal() *ast.Literal {
	tok := p.advance()
	return &ast.Literal{Value: tok.IntVal}
}

// paren = "(" binary(0) ")" .
func (p *parser) paren() ast.Expr {
	p.advance() // (
	e := p.binary(0)
	if e == nil {
		p.expected("expression")
	}
	p.expect(token.Rparen)
	return e
}

// identifier_or_call = identifier [ "(" [ binary(0) { "," binary(0) } ] ")" ] .
func (p *parser) identifierOrCall() ast.Expr {
	name := p.expectIdent()
	if p.tok.Kind != token.Lparen {
		return &ast.Variable{Name: name}
	}
	p.advance() // (
	var args []ast.Expr
	if p.tok.Kind != token.Rparen {
		args = append(args, p.callArg())
		for p.tok.Kind == token.Comma {
			p.advance()
			args = append(args, p.callArg())
		}
	}
	p.expect(token.Rparen)
	return &ast.Call{Callee: name, Args: args}
}

func (p *parser) callArg() ast.Expr {
	e := p.binary(0)
	if e == nil {
		p.expected("argument")
	}
	return e
}
