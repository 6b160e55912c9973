package term

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/topo2graph/pkg/errors"
)

// Entry is a top-level term together with where it starts in the input.
type Entry struct {
	Term Term
	Pos  Pos
}

// ParseBytes reads every period-terminated term from src.
//
// Syntax errors carry the INVALID_SYNTAX code and a line:column position.
func ParseBytes(src []byte) ([]Entry, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var entries []Entry
	for p.tok.kind != tokEOF {
		pos := p.tok.pos
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokDot); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Term: t, Pos: pos})
	}
	return entries, nil
}

// ParseString parses a single term with no trailing period.
func ParseString(s string) (Term, error) {
	p := &parser{lex: newLexer([]byte(s))}
	if err := p.advance(); err != nil {
		return nil, err
	}
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, syntaxError(p.tok.pos, "unexpected %s after term", p.tok.kind)
	}
	return t, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return syntaxError(p.tok.pos, "expected %s, found %s", kind, p.tok.kind)
	}
	return p.advance()
}

func (p *parser) term() (Term, error) {
	tok := p.tok
	switch tok.kind {
	case tokAtom:
		return Atom(tok.text), p.advance()
	case tokString:
		return Text(tok.text), p.advance()
	case tokInt:
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, syntaxError(tok.pos, "integer out of range: %s", tok.text)
		}
		return Int(n), p.advance()
	case tokLBrace:
		items, err := p.sequence(tokRBrace)
		return Tuple(items), err
	case tokLBracket:
		items, err := p.sequence(tokRBracket)
		return List(items), err
	}
	return nil, syntaxError(tok.pos, "expected term, found %s", tok.kind)
}

// sequence parses comma-separated terms after an opening delimiter up to and
// including the closing one.
func (p *parser) sequence(closing tokenKind) ([]Term, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	items := []Term{}
	if p.tok.kind == closing {
		return items, p.advance()
	}
	for {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		items = append(items, t)
		if p.tok.kind == closing {
			return items, p.advance()
		}
		if err := p.expect(tokComma); err != nil {
			return nil, err
		}
	}
}

func syntaxError(pos Pos, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidSyntax, "%s: %s", pos, fmt.Sprintf(format, args...))
}
