// Released under an MIT license. See LICENSE.

// Package reader converts a character stream into parsed forms.
//
// Reading is driven by a table of reader macros keyed by leading
// character. A registered macro receives the stream positioned just
// past its trigger character and returns the form to splice into the
// output in place of ordinary tokenization. Macros registered as
// terminating end an in-progress token when their character appears
// mid-token; non-terminating macros do not.
//
// Tokens that no macro claims are classified by an ordered list of
// atom patterns (keywords, the numeric spellings, booleans) and fall
// back to symbols. Literal-suffix normalization happens here, at read
// time: a number-like token with a trailing 'f' reads as a float and
// all other numeric spellings stay exact.
//
// The table is per-reader state, not process-global: independent
// sessions get independent syntax.
package reader

import (
	"io"
	"regexp"
	"strings"

	"github.com/michaelmacinnis/adapted"

	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/common/struct/loc"
	"github.com/ahills/sylva/internal/common/type/atom"
	"github.com/ahills/sylva/internal/common/type/boolean"
	"github.com/ahills/sylva/internal/common/type/flt"
	"github.com/ahills/sylva/internal/common/type/num"
	"github.com/ahills/sylva/internal/common/type/pair"
	"github.com/ahills/sylva/internal/common/type/str"
	"github.com/ahills/sylva/internal/reader/stream"
)

// Macro is a reader macro. It is invoked with the stream positioned
// just past the character that triggered it and returns the form to
// use in place of whatever input it consumed. A macro may call back
// into the reader to consume further forms or atoms.
type Macro func(r *T, s *stream.T, c rune) (cell.I, error)

// Pattern classifies a raw token and converts it to a form.
type Pattern struct {
	name    *atom.T
	match   *regexp.Regexp
	convert func(token string) (cell.I, error)
}

// T (reader) holds a reader-macro table and atom patterns.
type T struct {
	macros   map[rune]*entry
	patterns []*Pattern
}

type reader = T

type event int

const (
	evValue event = iota
	evDot
	evClose
	evSkip
	evEOF
)

type internal func(r *reader, s *stream.T, c rune) (event, cell.I, error)

type entry struct {
	fn          internal
	terminating bool
}

//nolint:gochecknoglobals
var (
	symQuasiquote = atom.Sym("quasiquote")
	symQuote      = atom.Sym("quote")
	symUnquote    = atom.Sym("unquote")
	symUnquoteSpl = atom.Sym("unquote-splicing")
)

// New creates a reader with the default syntax installed.
func New() *T {
	r := Bare()

	r.addDefaultMacros()
	r.addDefaultPatterns()

	return r
}

// Bare creates a reader with no macros and no atom patterns.
// Every token reads as a symbol until syntax is registered.
func Bare() *T {
	return &reader{macros: map[rune]*entry{}}
}

// Read returns the next form from s, or io.EOF when s is exhausted.
// Each call advances the stream position.
func (r *reader) Read(s *stream.T) (cell.I, error) {
	ev, at, v, err := r.read(s)
	if err != nil {
		return nil, err
	}

	switch ev {
	case evValue:
		return v, nil
	case evEOF:
		return nil, io.EOF
	}

	return nil, s.ErrorAt("invalid syntax", at)
}

// ReadAll reads forms until s is exhausted.
func (r *reader) ReadAll(s *stream.T) ([]cell.I, error) {
	var forms []cell.I

	for {
		c, err := r.Read(s)
		if err == io.EOF {
			return forms, nil
		}

		if err != nil {
			return forms, err
		}

		forms = append(forms, c)
	}
}

// ReadAtom consumes one raw token from s and classifies it.
// Reader macros use this to grab the token following their trigger.
func (r *reader) ReadAtom(s *stream.T) (cell.I, error) {
	s.SkipWhitespace()

	at := s.Loc()

	c, ok := s.Next()
	if !ok {
		return nil, s.ErrorAt("unexpected end of input", at)
	}

	ev, v, err := readAtom(r, s, c)
	if err != nil {
		return nil, err
	}

	if ev != evValue {
		return nil, s.ErrorAt("expected an atom", at)
	}

	return v, nil
}

// SetMacroCharacter registers fn as the reader macro for c.
// A terminating macro character ends the current token when it
// appears mid-token; a non-terminating one does not.
func (r *reader) SetMacroCharacter(c rune, fn Macro, terminating bool) {
	r.set(c, adapt(fn), terminating)
}

// ClearMacroCharacter removes any reader macro registered for c.
func (r *reader) ClearMacroCharacter(c rune) {
	delete(r.macros, c)
}

// SetAtomPattern registers a token classification. Patterns are
// consulted newest-first; the first whose expression matches the
// whole token converts it.
func (r *reader) SetAtomPattern(name *atom.T, expr string, convert func(string) (cell.I, error)) {
	p := &Pattern{name: name, match: regexp.MustCompile(expr), convert: convert}

	for _, q := range r.patterns {
		if q.name == name {
			*q = *p

			return
		}
	}

	r.patterns = append([]*Pattern{p}, r.patterns...)
}

func (r *reader) read(s *stream.T) (event, *loc.T, cell.I, error) {
	for {
		s.SkipWhitespace()

		at := s.Loc()

		c, ok := s.Next()
		if !ok {
			return evEOF, at, nil, nil
		}

		fn := readAtom
		if e, ok := r.macros[c]; ok {
			fn = e.fn
		}

		ev, v, err := fn(r, s, c)
		if err != nil {
			// Attribute the failure to the triggering
			// character unless it is already positioned.
			if _, ok := err.(*fault.Syntax); !ok {
				err = s.ErrorAt(err.Error(), at)
			}

			return ev, at, nil, err
		}

		if ev == evSkip {
			continue
		}

		pair.SetSource(v, at)

		return ev, at, v, nil
	}
}

func (r *reader) set(c rune, fn internal, terminating bool) {
	r.macros[c] = &entry{fn: fn, terminating: terminating}
}

// swap installs a macro for the duration of a nested read and returns
// a function restoring whatever was there before. Quasiquote uses this
// to give ',' and '@' meaning only inside its template.
func (r *reader) swap(c rune, fn internal, terminating bool) func() {
	old, ok := r.macros[c]

	r.set(c, fn, terminating)

	return func() {
		if ok {
			r.macros[c] = old
		} else {
			delete(r.macros, c)
		}
	}
}

func (r *reader) terminates(c rune) bool {
	if strings.ContainsRune(" \t\n\r", c) {
		return true
	}

	e, ok := r.macros[c]

	return ok && e.terminating
}

func adapt(fn Macro) internal {
	return func(r *reader, s *stream.T, c rune) (event, cell.I, error) {
		v, err := fn(r, s, c)

		return evValue, v, err
	}
}

// Default syntax.

func (r *reader) addDefaultMacros() {
	r.set('(', readPair, true)
	r.set(')', closeParen, true)
	r.set('"', readString, true)
	r.set('\'', readQuote, true)
	r.set('`', readQuasiquote, true)
	r.set(';', readComment, true)
}

func (r *reader) addDefaultPatterns() {
	r.SetAtomPattern(atom.Sym("keyword"), `^(:.+|.+:)$`, func(t string) (cell.I, error) {
		return atom.Intern(atom.Keyword, t)
	})
	r.SetAtomPattern(atom.Sym("int"), `^-?\d+$`, convertNum)
	r.SetAtomPattern(atom.Sym("hex"), `^-?0x[\da-fA-F]+$`, convertNum)
	r.SetAtomPattern(atom.Sym("oct"), `^-?0o[0-7]+$`, convertNum)
	r.SetAtomPattern(atom.Sym("binary"), `^-?0b[01]+$`, convertNum)
	r.SetAtomPattern(atom.Sym("decimal"), `^-?((\d*\.\d+|\d+\.\d*)(e-?\d+)?|\d+e-?\d+)$`, convertNum)
	r.SetAtomPattern(atom.Sym("float"), `^-?(\d*\.\d+|\d+\.\d*|\d+)(e-?\d+)?f$`, func(t string) (cell.I, error) {
		return flt.New(strings.TrimSuffix(t, "f")), nil
	})
	r.SetAtomPattern(atom.Sym("fraction"), `^-?\d+/\d+$`, convertNum)
	r.SetAtomPattern(atom.Sym("boolean"), `^#[tf]$`, func(t string) (cell.I, error) {
		return boolean.New(t), nil
	})
}

func convertNum(t string) (cell.I, error) {
	return num.New(t), nil
}

// readAtom is the default handler, for when no macro has matched.
func readAtom(r *reader, s *stream.T, c rune) (event, cell.I, error) {
	token := string(c) + s.ReadUntil(r.terminates)

	if token == "." {
		return evDot, nil, nil
	}

	for _, p := range r.patterns {
		if p.match.MatchString(token) {
			v, err := p.convert(token)

			return evValue, v, err
		}
	}

	a, err := atom.Intern(atom.Symbol, token)
	if err != nil {
		return evValue, nil, err
	}

	return evValue, cell.I(a), nil
}

// readPair is the handler for pair notation.
func readPair(r *reader, s *stream.T, c rune) (event, cell.I, error) {
	result := pair.Null
	work := result

	for {
		ev, at, v, err := r.read(s)
		if err != nil {
			return evValue, nil, err
		}

		switch ev {
		case evClose:
			return evValue, result, nil

		case evDot:
			if result == pair.Null {
				return evValue, nil, s.ErrorAt("invalid dotted list", at)
			}

			// Improper list; the next form is the tail.
			ev, at, v, err = r.read(s)
			if err != nil {
				return evValue, nil, err
			}

			if ev != evValue {
				return evValue, nil, s.ErrorAt("invalid list syntax", at)
			}

			pair.SetCdr(work, v)

			// The list must end immediately after the tail.
			ev, at, _, err = r.read(s)
			if err != nil {
				return evValue, nil, err
			}

			if ev != evClose {
				return evValue, nil, s.ErrorAt("invalid use of dot in list", at)
			}

			return evValue, result, nil

		case evEOF:
			return evValue, nil, s.Error("unterminated list")

		default:
			grown := pair.Cons(v, pair.Null)
			pair.SetSource(grown, at)

			if result == pair.Null {
				result = grown
			} else {
				pair.SetCdr(work, grown)
			}

			work = grown
		}
	}
}

// closeParen is the handler for a closing parenthesis.
func closeParen(r *reader, s *stream.T, c rune) (event, cell.I, error) {
	return evClose, nil, nil
}

// readString is the handler for string literals.
func readString(r *reader, s *stream.T, c rune) (event, cell.I, error) {
	b := &strings.Builder{}

	for {
		n, ok := s.Next()
		if !ok {
			return evValue, nil, s.Error("unterminated string")
		}

		if n == c {
			break
		}

		b.WriteRune(n)

		if n == '\\' {
			e, ok := s.Next()
			if !ok {
				return evValue, nil, s.Error("unterminated string")
			}

			b.WriteRune(e)
		}
	}

	text, err := adapted.ActualBytes(b.String())
	if err != nil {
		return evValue, nil, err
	}

	return evValue, str.New(text), nil
}

// readQuote is the handler for quote.
func readQuote(r *reader, s *stream.T, c rune) (event, cell.I, error) {
	child, err := r.readChild(s, c)
	if err != nil {
		return evValue, nil, err
	}

	return evValue, list2(symQuote, child), nil
}

// readQuasiquote is the handler for quasiquote. Unquote syntax only
// has meaning inside a quasiquoted template.
func readQuasiquote(r *reader, s *stream.T, c rune) (event, cell.I, error) {
	restore := r.swap(',', readUnquote, true)
	defer restore()

	child, err := r.readChild(s, c)
	if err != nil {
		return evValue, nil, err
	}

	return evValue, list2(symQuasiquote, child), nil
}

// readUnquote is the handler for unquote. An immediately following
// at-sign selects splicing.
func readUnquote(r *reader, s *stream.T, c rune) (event, cell.I, error) {
	wrapper := symUnquote

	if next, ok := s.Peek(); ok && next == '@' {
		s.Next()

		wrapper = symUnquoteSpl
	}

	child, err := r.readChild(s, c)
	if err != nil {
		return evValue, nil, err
	}

	return evValue, list2(wrapper, child), nil
}

// readComment is the handler for comments.
func readComment(r *reader, s *stream.T, c rune) (event, cell.I, error) {
	s.ReadLine()

	return evSkip, nil, nil
}

func (r *reader) readChild(s *stream.T, c rune) (cell.I, error) {
	ev, at, child, err := r.read(s)
	if err != nil {
		return nil, err
	}

	if ev != evValue {
		return nil, s.ErrorAt("invalid use of "+string(c), at)
	}

	return child, nil
}

func list2(h *atom.T, t cell.I) cell.I {
	return pair.Cons(h, pair.Cons(t, pair.Null))
}
