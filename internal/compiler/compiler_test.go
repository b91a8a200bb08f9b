// Released under an MIT license. See LICENSE.

package compiler_test

import (
	"errors"
	"testing"

	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/compiler"
	"github.com/ahills/sylva/internal/macro"
	"github.com/ahills/sylva/internal/reader"
	"github.com/ahills/sylva/internal/reader/stream"
	"github.com/ahills/sylva/internal/vm"
)

func parse(t *testing.T, text string) cell.I {
	t.Helper()

	c, err := reader.New().Read(stream.New(text, "test"))
	if err != nil {
		t.Fatalf("reading %q: %v", text, err)
	}

	return c
}

func compile(t *testing.T, text string) *vm.Template {
	t.Helper()

	u, err := compiler.New(macro.New()).Compile(parse(t, text))
	if err != nil {
		t.Fatalf("compiling %q: %v", text, err)
	}

	return u
}

// ops collects every opcode in the unit, descending into nested
// templates.
func ops(u *vm.Template) map[vm.Op]int {
	seen := map[vm.Op]int{}

	var walk func(u *vm.Template)
	walk = func(u *vm.Template) {
		for _, i := range u.Code {
			seen[i.Op]++

			if nested, ok := i.Data.(*vm.Template); ok {
				walk(nested)
			}
		}
	}

	walk(u)

	return seen
}

func TestSelfCallCompilesToJump(t *testing.T) {
	u := compile(t, "(define (loop n) (if (= n 0) n (loop (- n 1))))")

	seen := ops(u)

	if seen[vm.OpSelfJump] == 0 {
		t.Error("provable self tail call was not compiled to a jump")
	}

	if seen[vm.OpTailCall] != 0 {
		t.Error("provable self tail call fell back to tail dispatch")
	}
}

func TestForeignTailCallDispatches(t *testing.T) {
	u := compile(t, "(define (f n) (g n))")

	seen := ops(u)

	if seen[vm.OpTailCall] == 0 {
		t.Error("tail call to another function was not compiled to tail dispatch")
	}

	if seen[vm.OpSelfJump] != 0 {
		t.Error("tail call to another function was compiled to a self jump")
	}
}

func TestNonTailSelfCallIsACall(t *testing.T) {
	u := compile(t, "(define (f n) (+ (f n) 1))")

	seen := ops(u)

	if seen[vm.OpSelfJump] != 0 {
		t.Error("non-tail self call was compiled to a jump")
	}

	if seen[vm.OpCall] == 0 {
		t.Error("non-tail self call was not compiled to a plain call")
	}
}

func TestArityMismatchIsNotAJump(t *testing.T) {
	u := compile(t, "(define (f n) (f n n))")

	if ops(u)[vm.OpSelfJump] != 0 {
		t.Error("self call with the wrong arity was compiled to a jump")
	}
}

func TestShadowedSelfNameIsNotAJump(t *testing.T) {
	// The parameter shadows the function's own name.
	u := compile(t, "(define (f f) (f f))")

	if ops(u)[vm.OpSelfJump] != 0 {
		t.Error("call through a shadowing parameter was compiled to a jump")
	}
}

func TestLambdaProducesTemplate(t *testing.T) {
	u := compile(t, "(lambda (x y) x)")

	var nested *vm.Template

	for _, i := range u.Code {
		if i.Op == vm.OpClosure {
			nested, _ = i.Data.(*vm.Template)
		}
	}

	if nested == nil {
		t.Fatal("lambda did not produce a nested template")
	}

	if len(nested.Params) != 2 {
		t.Errorf("nested template has %d parameters", len(nested.Params))
	}
}

func TestDefineNamesTheUnit(t *testing.T) {
	u := compile(t, "(define (f x) x)")

	for _, i := range u.Code {
		if nested, ok := i.Data.(*vm.Template); ok {
			if nested.Self == nil || nested.Self.String() != "f" {
				t.Error("procedure define did not record the self-name")
			}

			return
		}
	}

	t.Fatal("procedure define did not produce a template")
}

func TestSetLocal(t *testing.T) {
	u := compile(t, "(lambda (x) (set! x 1) x)")

	if ops(u)[vm.OpSetLocal] == 0 {
		t.Error("set! of a parameter was not compiled to a local store")
	}
}

func TestCompileErrors(t *testing.T) {
	c := compiler.New(macro.New())

	for _, text := range []string{
		"(if)",
		"(if a b c d)",
		"(lambda)",
		"(lambda (1) x)",
		"(quote a b)",
		"(set! 3 4)",
		"(define)",
		"(define (3) x)",
	} {
		_, err := c.Compile(parse(t, text))

		var compileErr *fault.Compile
		if !errors.As(err, &compileErr) {
			t.Errorf("compiling %q: expected a compile fault, got %v", text, err)
		}
	}
}

func TestMacrosExpandDuringCompilation(t *testing.T) {
	e := macro.New()

	u, err := compiler.New(e).Compile(parse(t, "`(1 2)"))
	if err != nil {
		t.Fatal(err)
	}

	// The template must have become list construction code.
	if ops(u)[vm.OpCall] == 0 {
		t.Error("quasiquote template did not expand to construction calls")
	}
}
