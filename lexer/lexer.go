// Package lexer turns Cata source bytes into a token stream.
//
// The algorithm follows original_source/tokenizer.cpp: single-character
// tokens are looked up directly, then a second byte is peeked to try to
// extend the match into a two-character operator or a comment. Idiom
// (peek-one-char, skipWhitespace, lexIdent/lexNumber split) is carried
// over from the teacher's parser/lexer.go.
package lexer

import (
	"github.com/cata-lang/catac/common"
	"github.com/cata-lang/catac/token"
)

// Lexer scans a byte slice into tokens with a one-token pushback
// buffer. Only the pushback slot and the current-token field are
// mutated between calls to Next.
type Lexer struct {
	src        []byte
	ch         rune
	chOffset   int
	readOffset int
	lineCount  int

	current  token.Token
	pushback *token.Token
}

// New creates a Lexer over src. The line counter starts at 1.
func New(src []byte) *Lexer {
	l := &Lexer{src: src, lineCount: 1}
	l.next()
	return l
}

// Line returns the 1-based line the lexer is currently positioned at.
func (l *Lexer) Line() int {
	return l.lineCount
}

// Current returns the most recently delivered token (the last one
// returned by Next, even if it was later pushed back).
func (l *Lexer) Current() token.Token {
	return l.current
}

// Pushback returns tok to the front of the stream. The buffer holds at
// most one token; pushing a second before it is drained is a
// programmer error.
func (l *Lexer) Pushback(tok token.Token) {
	common.Assert(l.pushback == nil, "lexer pushback buffer is full")
	l.pushback = &tok
}

// Next returns the next token. Comments are skipped unless
// keepComments is set, in which case they are returned like any other
// token (used by tools that want to preserve them, never by the
// parser).
func (l *Lexer) Next(keepComments bool) token.Token {
	var tok token.Token
	for {
		tok = l.nextInternal()
		if keepComments || tok.Kind != token.Comment {
			break
		}
	}
	l.current = tok
	return tok
}

func (l *Lexer) nextInternal() token.Token {
	if l.pushback != nil {
		tok := *l.pushback
		l.pushback = nil
		return tok
	}

	l.skipWhitespace()
	line := l.lineCount

	if l.ch == -1 {
		return token.New(token.EOF, line)
	}

	switch {
	case isLetter(l.ch):
		return l.lexIdent(line)
	case isDigit(l.ch):
		return l.lexNumber(line)
	}

	ch := l.ch
	l.next()

	kind, ok := singleCharKinds[ch]
	if !ok {
		common.Fail(line, "unknown character: %q", ch)
	}

	if kind == token.Slash {
		switch l.ch {
		case '/':
			l.next()
			return l.lexLineComment(line)
		case '*':
			l.next()
			return l.lexBlockComment(line)
		}
	}

	if ext, ok := extensions[kind]; ok {
		if extKind, ok := ext[l.ch]; ok {
			l.next()
			return token.New(extKind, line)
		}
	}

	return token.New(kind, line)
}

var singleCharKinds = map[rune]token.Kind{
	'!': token.Not,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'=': token.Equals,
	'&': token.Ampersand,
	'|': token.Pipe,
	'^': token.Caret,
	'~': token.Tilde,
	'<': token.Lt,
	'>': token.Gt,
	'(': token.Lparen,
	')': token.Rparen,
	'{': token.Lbrace,
	'}': token.Rbrace,
	',': token.Comma,
	';': token.Semicolon,
}

// extensions maps a single-char kind and the next byte to the
// multi-char kind it extends into. The table is fixed; any next byte
// not listed here leaves the single-char kind alone (the lexer does
// not consume it). Comments are handled separately above since they
// consume a variable-length body rather than just one more byte.
var extensions = map[token.Kind]map[rune]token.Kind{
	token.Lt:        {'<': token.LeftShift, '=': token.Le},
	token.Gt:        {'>': token.RightShift, '=': token.Ge},
	token.Equals:    {'=': token.Eq},
	token.Not:       {'=': token.Neq},
	token.Ampersand: {'&': token.And},
	token.Pipe:      {'|': token.Or},
}

// lexLineComment consumes through the next newline (or EOF).
func (l *Lexer) lexLineComment(line int) token.Token {
	start := l.chOffset
	for l.ch != '\n' && l.ch != -1 {
		l.next()
	}
	return token.NewLexeme(token.Comment, string(l.src[start:l.chOffset]), line)
}

// lexBlockComment consumes through "*/", failing if EOF is reached
// first.
func (l *Lexer) lexBlockComment(line int) token.Token {
	start := l.chOffset
	for {
		if l.ch == -1 {
			common.Fail(line, "unterminated block comment")
		}
		if l.ch == '*' {
			l.next()
			if l.ch == '/' {
				end := l.chOffset - 1
				l.next()
				return token.NewLexeme(token.Comment, string(l.src[start:end]), line)
			}
			continue
		}
		l.next()
	}
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlnum(ch rune) bool {
	return isLetter(ch) || isDigit(ch)
}

func (l *Lexer) next() {
	if l.readOffset < len(l.src) {
		l.chOffset = l.readOffset
		l.ch = rune(l.src[l.chOffset])
		l.readOffset++
		if l.ch == '\n' {
			l.lineCount++
		}
	} else {
		l.chOffset = l.readOffset
		l.ch = -1
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.next()
	}
}

func (l *Lexer) lexIdent(line int) token.Token {
	start := l.chOffset
	for isAlnum(l.ch) {
		l.next()
	}
	lexeme := string(l.src[start:l.chOffset])
	kind := token.Lookup(lexeme)
	return token.NewLexeme(kind, lexeme, line)
}

func (l *Lexer) lexNumber(line int) token.Token {
	start := l.chOffset
	var value int32
	for isDigit(l.ch) {
		value = value*10 + int32(l.ch-'0')
		l.next()
	}
	lexeme := string(l.src[start:l.chOffset])
	return token.NewInt(lexeme, value, line)
}
