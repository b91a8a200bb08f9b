// Released under an MIT license. See LICENSE.

package macro_test

import (
	"errors"
	"testing"

	"github.com/ahills/sylva/internal/common"
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/common/type/atom"
	"github.com/ahills/sylva/internal/common/type/list"
	"github.com/ahills/sylva/internal/common/type/num"
	"github.com/ahills/sylva/internal/common/type/pair"
	"github.com/ahills/sylva/internal/macro"
	"github.com/ahills/sylva/internal/reader"
	"github.com/ahills/sylva/internal/reader/stream"
)

func parse(t *testing.T, text string) cell.I {
	t.Helper()

	c, err := reader.New().Read(stream.New(text, "test"))
	if err != nil {
		t.Fatalf("reading %q: %v", text, err)
	}

	return c
}

func TestIdentityWhenUnregistered(t *testing.T) {
	e := macro.New()

	form := parse(t, "(foo 1 2)")

	expanded, err := e.Expand(form)
	if err != nil {
		t.Fatal(err)
	}

	if expanded != form {
		t.Error("expanding a form with no macro at its head changed it")
	}
}

func TestNonFormsUntouched(t *testing.T) {
	e := macro.New()

	for _, form := range []cell.I{num.Int(1), atom.Sym("x"), pair.Null} {
		expanded, err := e.Expand(form)
		if err != nil {
			t.Fatal(err)
		}

		if expanded != form {
			t.Errorf("expanding %s changed it", common.String(form))
		}
	}
}

func TestExpandToFixpoint(t *testing.T) {
	e := macro.New()

	b := atom.Sym("b")
	c := atom.Sym("c")

	// a rewrites to a b form, which rewrites to a c form.
	e.Define(atom.Sym("a"), func(args cell.I) (cell.I, error) {
		return pair.Cons(b, args), nil
	})
	e.Define(b, func(args cell.I) (cell.I, error) {
		return pair.Cons(c, args), nil
	})

	expanded, err := e.Expand(parse(t, "(a 1)"))
	if err != nil {
		t.Fatal(err)
	}

	if s := common.String(expanded); s != "(c 1)" {
		t.Errorf("expansion stopped at %q", s)
	}
}

func TestExpansionAppliesAtHeadOnly(t *testing.T) {
	e := macro.New()

	e.Define(atom.Sym("m"), func(args cell.I) (cell.I, error) {
		return num.Int(9), nil
	})

	// The m form is not at head position; it must be left alone.
	form := parse(t, "(f (m 1))")

	expanded, err := e.Expand(form)
	if err != nil {
		t.Fatal(err)
	}

	if expanded != form {
		t.Error("expansion descended into a subform")
	}
}

func TestDepthLimit(t *testing.T) {
	e := macro.New()
	e.Limit(10)

	loop := atom.Sym("loop")

	e.Define(loop, func(args cell.I) (cell.I, error) {
		return list.New(loop), nil
	})

	_, err := e.Expand(parse(t, "(loop)"))

	var recursion *fault.Recursion
	if !errors.As(err, &recursion) {
		t.Fatalf("expected a recursion fault, got %v", err)
	}

	if recursion.Limit != 10 {
		t.Errorf("fault reports limit %d", recursion.Limit)
	}
}

func TestDefined(t *testing.T) {
	e := macro.New()

	if !e.Defined(atom.Sym("quasiquote")) {
		t.Error("quasiquote is not predefined")
	}

	if e.Defined(atom.Sym("no-such-macro")) {
		t.Error("an unregistered name reports as defined")
	}
}

func quasi(t *testing.T, text, expected string) {
	t.Helper()

	expanded, err := macro.New().Expand(parse(t, text))
	if err != nil {
		t.Fatalf("expanding %q: %v", text, err)
	}

	if s := common.String(expanded); s != expected {
		t.Errorf("%q expanded to %q, expected %q", text, s, expected)
	}
}

func TestQuasiquote(t *testing.T) {
	quasi(t, "`x", "(quote x)")
	quasi(t, "`(a b)", "(cons (quote a) (cons (quote b) (quote ())))")
	quasi(t, "`(a ,b)", "(cons (quote a) (cons b (quote ())))")
	quasi(t, "`(a ,@b)", "(cons (quote a) (append b (quote ())))")
	quasi(t, "`(,@a ,@b)", "(append a (append b (quote ())))")
}

func TestQuasiquoteErrors(t *testing.T) {
	e := macro.New()

	for _, text := range []string{
		"`,@x",
		"`(a (unquote))",
		"`(a (unquote b c))",
		"`(a (unquote-splicing))",
		"`(a (unquote-splicing b c))",
	} {
		if _, err := e.Expand(parse(t, text)); err == nil {
			t.Errorf("expanding %q did not fail", text)
		}
	}
}
