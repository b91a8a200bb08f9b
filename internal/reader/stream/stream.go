// Released under an MIT license. See LICENSE.

// Package stream provides the position-tracked character stream
// consumed by the sylva reader. Syntax errors are tagged with the
// stream's cursor and the label supplied by the caller.
package stream

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/common/struct/loc"
)

// T (stream) is an ordered character stream with a position cursor.
type T struct {
	bytes string
	index int

	char int
	line int
	name string
}

type stream = T

// New creates a stream over the text. Label can be a file name or
// other identifier; it appears in reported positions.
func New(text, label string) *T {
	s := &stream{bytes: text, char: 1, line: 1, name: label}

	s.skipExec()

	return s
}

// NewFromReader creates a stream by draining r.
func NewFromReader(r io.Reader, label string) (*T, error) {
	b := &strings.Builder{}

	if _, err := io.Copy(b, r); err != nil {
		return nil, err
	}

	return New(b.String(), label), nil
}

// Error creates a syntax fault at the stream's current position.
func (s *stream) Error(msg string) *fault.Syntax {
	return fault.NewSyntax(msg, s.Loc())
}

// ErrorAt creates a syntax fault at the position l.
func (s *stream) ErrorAt(msg string, l *loc.T) *fault.Syntax {
	return fault.NewSyntax(msg, l)
}

// Loc returns the position of the next character to be read.
func (s *stream) Loc() *loc.T {
	return &loc.T{Char: s.char, Line: s.line, Name: s.name}
}

// Next consumes and returns the next character.
// It returns false when the stream is exhausted.
func (s *stream) Next() (rune, bool) {
	r, w := s.decode()
	if w == 0 {
		return 0, false
	}

	s.index += w

	if r == '\n' {
		s.line++
		s.char = 1
	} else {
		s.char++
	}

	return r, true
}

// Peek returns the next character without consuming it.
func (s *stream) Peek() (rune, bool) {
	r, w := s.decode()

	return r, w != 0
}

// ReadLine consumes and returns the remainder of the current line,
// without the trailing newline.
func (s *stream) ReadLine() string {
	line := s.ReadUntil(func(r rune) bool {
		return r == '\n'
	})

	s.Next() // Consume the newline, if any.

	return line
}

// ReadUntil consumes and returns characters up to, but not including,
// the first character for which stop returns true.
func (s *stream) ReadUntil(stop func(rune) bool) string {
	b := &strings.Builder{}

	for {
		r, ok := s.Peek()
		if !ok || stop(r) {
			break
		}

		s.Next()
		b.WriteRune(r)
	}

	return b.String()
}

// SkipWhitespace consumes insignificant whitespace.
func (s *stream) SkipWhitespace() {
	s.ReadUntil(func(r rune) bool {
		return !unicode.IsSpace(r)
	})
}

func (s *stream) decode() (rune, int) {
	if s.index >= len(s.bytes) {
		return 0, 0
	}

	return utf8.DecodeRuneInString(s.bytes[s.index:])
}

// skipExec skips a leading #! line so scripts can be read directly.
func (s *stream) skipExec() {
	if strings.HasPrefix(s.bytes, "#!") {
		s.ReadLine()
	}
}
