package ast

import (
	"fmt"
	"strings"
)

// Print renders e in Cata's concrete syntax. For any successfully
// parsed program, re-lexing Print's output yields a semantically
// equivalent tree (round-trip on meaning, not whitespace) — grounded on
// original_source/astprinter.cpp's IndentStream, reworked here as an
// explicit indent counter threaded through a strings.Builder, since Go
// has no operator-overloaded output stream to hang indent-on-newline
// behavior off of.
func Print(e Expr) string {
	p := &printer{}
	p.print(e)
	return p.buf.String()
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) write(s string) {
	for _, r := range s {
		p.buf.WriteRune(r)
		if r == '\n' {
			p.buf.WriteString(strings.Repeat(" ", p.indent))
		}
	}
}

func (p *printer) writef(format string, args ...interface{}) {
	p.write(fmt.Sprintf(format, args...))
}

func (p *printer) print(e Expr) {
	switch n := e.(type) {
	case *Literal:
		p.writef("%d", n.Value)
	case *Variable:
		p.write(n.Name)
	case *Prefix:
		p.write(n.Op.String())
		p.print(n.Operand)
	case *Binary:
		p.write("(")
		p.print(n.Left)
		p.writef(" %s ", n.Op)
		p.print(n.Right)
		p.write(")")
	case *Block:
		p.printBlock(n)
	case *Call:
		p.writef("%s(", n.Callee)
		for i, arg := range n.Args {
			if i > 0 {
				p.write(", ")
			}
			p.print(arg)
		}
		p.write(")")
	case *Prototype:
		p.write("extern ")
		p.printPrototype(n)
		p.write(";")
	case *Function:
		p.write("def ")
		p.printPrototype(n.Proto)
		p.write(" ")
		p.print(n.Body)
	case *Let:
		p.writef("let %s = ", n.Name)
		p.print(n.Init)
	case *If:
		p.printIf(n)
	default:
		panic(fmt.Sprintf("ast.Print: unhandled node %T", e))
	}
}

func (p *printer) printPrototype(n *Prototype) {
	p.writef("%s(%s)", n.Name, strings.Join(n.Params, ", "))
}

func (p *printer) printBlock(n *Block) {
	p.write("{")
	p.indent += 2
	for _, stmt := range n.Exprs {
		p.write("\n")
		p.print(stmt)
		if _, isIf := stmt.(*If); !isIf {
			p.write(";")
		}
	}
	p.indent -= 2
	p.write("\n")
	p.write("}")
}

func (p *printer) printIf(n *If) {
	p.write("if (")
	p.print(n.Cond)
	p.write(") ")
	p.print(n.Then)
	switch e := n.Else.(type) {
	case nil:
	case *If:
		p.write(" else ")
		p.printIf(e)
	default:
		p.write(" else ")
		p.print(e)
	}
}
