package term

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokComma
	tokDot
	tokAtom
	tokString
	tokInt
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokLBrace:   "'{'",
	tokRBrace:   "'}'",
	tokLBracket: "'['",
	tokRBracket: "']'",
	tokComma:    "','",
	tokDot:      "'.'",
	tokAtom:     "atom",
	tokString:   "string",
	tokInt:      "integer",
}

var punctuation = map[byte]tokenKind{
	'{': tokLBrace, '}': tokRBrace,
	'[': tokLBracket, ']': tokRBracket,
	',': tokComma, '.': tokDot,
}

func (k tokenKind) String() string { return tokenNames[k] }

// Pos is a 1-based line and column in the input.
type Pos struct {
	Line, Col int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

type lexer struct {
	src  []byte
	off  int
	line int
	col  int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() Pos { return Pos{Line: l.line, Col: l.col} }

func (l *lexer) peekByte() (byte, bool) {
	if l.off >= len(l.src) {
		return 0, false
	}
	return l.src[l.off], true
}

func (l *lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipSpaceAndComments() {
	for {
		c, ok := l.peekByte()
		if !ok {
			return
		}
		switch {
		case c == '%':
			for {
				c, ok := l.peekByte()
				if !ok || c == '\n' {
					break
				}
				l.advance()
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	start := l.pos()
	c, ok := l.peekByte()
	if !ok {
		return token{kind: tokEOF, pos: start}, nil
	}

	if k, ok := punctuation[c]; ok {
		l.advance()
		return token{kind: k, text: string(c), pos: start}, nil
	}

	switch {
	case c == '"':
		s, err := l.quoted('"')
		return token{kind: tokString, text: s, pos: start}, err
	case c == '\'':
		s, err := l.quoted('\'')
		return token{kind: tokAtom, text: s, pos: start}, err
	case isDigit(c) || c == '-':
		return l.integer(start)
	case isLower(c):
		var b strings.Builder
		for {
			c, ok := l.peekByte()
			if !ok || !isAtomChar(c) {
				break
			}
			b.WriteByte(l.advance())
		}
		return token{kind: tokAtom, text: b.String(), pos: start}, nil
	}
	return token{}, syntaxError(start, "unexpected character %q", c)
}

func (l *lexer) integer(start Pos) (token, error) {
	var b strings.Builder
	if c, _ := l.peekByte(); c == '-' {
		b.WriteByte(l.advance())
	}
	for {
		c, ok := l.peekByte()
		if !ok || !isDigit(c) {
			break
		}
		b.WriteByte(l.advance())
	}
	if b.Len() == 0 || b.String() == "-" {
		return token{}, syntaxError(start, "malformed integer")
	}
	return token{kind: tokInt, text: b.String(), pos: start}, nil
}

func (l *lexer) quoted(quote byte) (string, error) {
	start := l.pos()
	l.advance()
	var b strings.Builder
	for {
		c, ok := l.peekByte()
		if !ok {
			return "", syntaxError(start, "unterminated quoted text")
		}
		l.advance()
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			esc, ok := l.peekByte()
			if !ok {
				return "", syntaxError(start, "unterminated quoted text")
			}
			escPos := l.pos()
			l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 's':
				b.WriteByte(' ')
			case '\\', '"', '\'':
				b.WriteByte(esc)
			default:
				return "", syntaxError(escPos, "unknown escape \\%c", esc)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isAtomChar(c byte) bool {
	return isLower(c) || isDigit(c) || (c >= 'A' && c <= 'Z') || c == '_' || c == '@'
}
