package term

import (
	"regexp"
	"strconv"
	"strings"
)

// Term is a parsed value: [Atom], [Text], [Int], [Tuple], or [List].
type Term interface {
	// String renders the term in file notation.
	String() string
	isTerm()
}

// Atom is a bare or single-quoted symbol such as of_switch.
type Atom string

// Text is a double-quoted string.
type Text string

// Int is a decimal integer.
type Int int64

// Tuple is a brace-delimited sequence of terms.
type Tuple []Term

// List is a bracket-delimited sequence of terms.
type List []Term

func (Atom) isTerm()  {}
func (Text) isTerm()  {}
func (Int) isTerm()   {}
func (Tuple) isTerm() {}
func (List) isTerm()  {}

var bareAtomRe = regexp.MustCompile(`^[a-z][A-Za-z0-9_@]*$`)

func (a Atom) String() string {
	if bareAtomRe.MatchString(string(a)) {
		return string(a)
	}
	return "'" + escape(string(a), '\'') + "'"
}

func (t Text) String() string {
	return `"` + escape(string(t), '"') + `"`
}

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (t Tuple) String() string {
	return "{" + join(t) + "}"
}

func (l List) String() string {
	return "[" + join(l) + "]"
}

func join(terms []Term) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func escape(s string, quote byte) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case quote:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Scalar returns the text of an atom, string, or integer term. It reports
// false for tuples and lists.
func Scalar(t Term) (string, bool) {
	switch v := t.(type) {
	case Atom:
		return string(v), true
	case Text:
		return string(v), true
	case Int:
		return v.String(), true
	}
	return "", false
}
