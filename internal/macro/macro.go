// Released under an MIT license. See LICENSE.

// Package macro provides sylva's macro registry and expander.
//
// A macro maps a symbol to an expansion procedure. Expansion applies
// at head position only: a form whose head names a macro is rewritten
// and the result re-examined, to fixpoint, subject to a depth limit.
// Forms whose head is not a macro are left alone; descending into
// subforms is the compiler's job.
//
// The registry is per-expander state, injected into the pipeline, so
// independent compilation sessions do not share macros.
package macro

import (
	"github.com/ahills/sylva/internal/common"
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/common/type/atom"
	"github.com/ahills/sylva/internal/common/type/pair"
)

// Proc is an expansion procedure. It receives the tail of the macro
// form, unevaluated, and returns the replacement form.
type Proc func(args cell.I) (cell.I, error)

// T (expander) is a macro registry plus fixpoint driver.
type T struct {
	limit  int
	macros map[*atom.T]Proc
}

type expander = T

const defaultLimit = 1000

//nolint:gochecknoglobals
var (
	symAppend     = atom.Sym("append")
	symCons       = atom.Sym("cons")
	symQuasiquote = atom.Sym("quasiquote")
	symQuote      = atom.Sym("quote")
	symUnquote    = atom.Sym("unquote")
	symUnquoteSpl = atom.Sym("unquote-splicing")
)

// New creates an expander with quasiquote installed.
func New() *T {
	e := &expander{limit: defaultLimit, macros: map[*atom.T]Proc{}}

	e.Define(symQuasiquote, quasiquote)

	return e
}

// Define registers fn as the expansion procedure for name.
// Registration is additive; redefining a name replaces its procedure.
func (e *expander) Define(name *atom.T, fn Proc) {
	e.macros[name] = fn
}

// Defined returns true if name is a registered macro.
func (e *expander) Defined(name *atom.T) bool {
	_, ok := e.macros[name]

	return ok
}

// Limit sets the expansion depth limit.
func (e *expander) Limit(n int) {
	e.limit = n
}

// Expand rewrites c until no registered macro appears at its head.
// Expansion of a form with no macro at its head is the identity.
func (e *expander) Expand(c cell.I) (cell.I, error) {
	for n := 0; ; n++ {
		if n >= e.limit {
			return nil, &fault.Recursion{Limit: e.limit}
		}

		expanded, ok, err := e.Expand1(c)
		if err != nil {
			return nil, err
		}

		if !ok {
			return c, nil
		}

		c = expanded
	}
}

// Expand1 performs at most one head-position expansion.
// The boolean result reports whether an expansion happened.
func (e *expander) Expand1(c cell.I) (cell.I, bool, error) {
	if c == pair.Null || !pair.Is(c) {
		return c, false, nil
	}

	head := pair.Car(c)
	if !atom.IsSymbol(head) {
		return c, false, nil
	}

	fn, ok := e.macros[atom.To(head)]
	if !ok {
		return c, false, nil
	}

	expanded, err := fn(pair.Cdr(c))
	if err != nil {
		return nil, false, err
	}

	// Carry the source position onto the expansion for diagnostics.
	if expanded != nil && pair.Source(expanded) == nil {
		pair.SetSource(expanded, pair.Source(c))
	}

	return expanded, true, nil
}

// quasiquote rewrites a template into cons/append construction code.
// Templates are expanded before any splice is evaluated: the spliced
// expressions become ordinary code in the built form and are macro
// expanded in turn when that form is compiled.
func quasiquote(args cell.I) (cell.I, error) {
	if args == pair.Null || !pair.Is(args) {
		return nil, fault.NewCompile("quasiquote requires a template", args)
	}

	return build(pair.Car(args))
}

func build(t cell.I) (cell.I, error) {
	if t == pair.Null || !pair.Is(t) {
		return list2(symQuote, t), nil
	}

	head := pair.Car(t)

	// (unquote e) inserts the single value of e.
	if head.Equal(symUnquote) {
		if err := single(t); err != nil {
			return nil, err
		}

		return pair.Cadr(t), nil
	}

	if head.Equal(symUnquoteSpl) {
		return nil, fault.NewCompile("unquote-splicing outside of a list", t)
	}

	// (unquote-splicing e) at element position concatenates the
	// sequence e in place rather than inserting it as one element.
	if pair.Is(head) && head != pair.Null && pair.Car(head).Equal(symUnquoteSpl) {
		if err := single(head); err != nil {
			return nil, err
		}

		rest, err := build(pair.Cdr(t))
		if err != nil {
			return nil, err
		}

		return list3(symAppend, pair.Cadr(head), rest), nil
	}

	h, err := build(head)
	if err != nil {
		return nil, err
	}

	rest, err := build(pair.Cdr(t))
	if err != nil {
		return nil, err
	}

	return list3(symCons, h, rest), nil
}

// single checks that the unquote form t carries exactly one value.
func single(t cell.I) error {
	rest := pair.Cdr(t)

	if rest == pair.Null || !pair.Is(rest) {
		return fault.NewCompile(common.String(pair.Car(t))+" requires a value", t)
	}

	if pair.Cddr(t) != pair.Null {
		return fault.NewCompile(common.String(pair.Car(t))+" takes a single value", t)
	}

	return nil
}

func list2(a *atom.T, b cell.I) cell.I {
	return pair.Cons(a, pair.Cons(b, pair.Null))
}

func list3(a *atom.T, b, c cell.I) cell.I {
	return pair.Cons(a, pair.Cons(b, pair.Cons(c, pair.Null)))
}
