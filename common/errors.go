package common

import "fmt"

// Error is a single compile-time diagnostic: a 1-based source line (as
// tracked by the lexer's line counter — spec.md deliberately carries no
// richer source-location model) and a human-readable message.
type Error struct {
	Line int
	Msg  string
}

// NewError builds an Error, formatting msg the way fmt.Sprintf does.
func NewError(line int, format string, args ...interface{}) *Error {
	return &Error{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// ErrorList accumulates diagnostics. Cata's propagation policy (spec.md
// §7) aborts compilation on the first error, so the lexer, parser, and
// code generator do not record into an ErrorList: each reports its one
// fatal diagnostic as an *Error through Fail below.
type ErrorList struct {
	Errors []*Error
}

// Add appends a new fatal diagnostic at line.
func (l *ErrorList) Add(line int, format string, args ...interface{}) {
	l.Errors = append(l.Errors, NewError(line, format, args...))
}

// IsError reports whether any diagnostic has been recorded.
func (l *ErrorList) IsError() bool {
	return len(l.Errors) > 0
}

func (l *ErrorList) Error() string {
	switch len(l.Errors) {
	case 0:
		return "no errors"
	case 1:
		return l.Errors[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l.Errors[0].Error(), len(l.Errors)-1)
	}
}

// Fail aborts the current compilation with a fatal, line-stamped
// diagnostic. Lexical, syntactic, and semantic errors all have exactly
// one recovery strategy in Cata — none (spec.md §7) — so each stage
// signals failure by panicking with *Error rather than threading a
// returned error through every call in the lexer/parser/codegen chain.
// Recover unwinds it back into a normal error at the top of the stage.
func Fail(line int, format string, args ...interface{}) {
	panic(NewError(line, format, args...))
}

// Recover must be deferred at the top of a compilation stage. It turns
// a panic raised by Fail into *err, and lets any other panic (a real
// programmer error, e.g. common.Assert) continue to propagate.
func Recover(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(*Error); ok {
			*err = e
			return
		}
		panic(r)
	}
}
