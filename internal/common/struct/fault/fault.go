// Released under an MIT license. See LICENSE.

// Package fault provides the error types raised by the sylva front end.
//
// Reader and compiler faults are returned as error values from pipeline
// entry points and carry the offending position or form for diagnostics.
// Data-type faults (pair slot access, indexing) are local-contract
// violations and are raised as panics by the type packages; pipeline
// boundaries that accept arbitrary user code recover them.
package fault

import (
	"strconv"

	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/struct/loc"
)

// Syntax is a reader error tagged with a source position.
type Syntax struct {
	Msg    string
	Source *loc.T
}

// NewSyntax creates a syntax fault for the location l.
func NewSyntax(msg string, l *loc.T) *Syntax {
	return &Syntax{Msg: msg, Source: l}
}

func (e *Syntax) Error() string {
	if e.Source == nil {
		return "syntax error: " + e.Msg
	}

	return e.Source.String() + ": syntax error: " + e.Msg
}

// InvalidName is an interner error: a name that is empty or cannot
// be used as an atom name.
type InvalidName struct {
	Raw string
}

func (e *InvalidName) Error() string {
	return "invalid atom name " + strconv.Quote(e.Raw)
}

// Type is raised when an operation is applied to a value of the
// wrong shape, such as taking the car of something that is not a pair.
type Type struct {
	Msg string
}

func (e *Type) Error() string {
	return e.Msg
}

// Index is raised by out-of-range indexed access on a pair or on
// the empty list.
type Index struct {
	Index int
	Size  int
}

func (e *Index) Error() string {
	return "index " + strconv.Itoa(e.Index) +
		" out of range for sequence of length " + strconv.Itoa(e.Size)
}

// Argument is raised when a required argument is absent.
type Argument struct {
	Msg string
}

func (e *Argument) Error() string {
	return e.Msg
}

// Compile is a compiler error carrying the offending form.
type Compile struct {
	Msg  string
	Form cell.I
}

// NewCompile creates a compile fault for the form c.
func NewCompile(msg string, c cell.I) *Compile {
	return &Compile{Msg: msg, Form: c}
}

func (e *Compile) Error() string {
	return "compile error: " + e.Msg
}

// Recursion is raised when macro expansion does not reach a fixpoint
// within the configured depth limit.
type Recursion struct {
	Limit int
}

func (e *Recursion) Error() string {
	return "macro expansion exceeded depth limit of " + strconv.Itoa(e.Limit)
}
