// Released under an MIT license. See LICENSE.

package engine_test

import (
	"strings"
	"testing"

	"github.com/ahills/sylva/internal/common"
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/type/boolean"
	"github.com/ahills/sylva/internal/common/type/flt"
	"github.com/ahills/sylva/internal/common/type/num"
	"github.com/ahills/sylva/internal/engine"
)

func run(t *testing.T, text string) cell.I {
	t.Helper()

	v, err := engine.NewModule("test").Run(text)
	if err != nil {
		t.Fatalf("running %q: %v", text, err)
	}

	return v
}

func check(t *testing.T, text, expected string) {
	t.Helper()

	if s := common.String(run(t, text)); s != expected {
		t.Errorf("%q evaluated to %q, expected %q", text, s, expected)
	}
}

func fails(t *testing.T, text, fragment string) {
	t.Helper()

	_, err := engine.NewModule("test").Run(text)
	if err == nil {
		t.Fatalf("running %q did not fail", text)
	}

	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("running %q failed with %q, expected %q", text, err, fragment)
	}
}

func TestSelfEvaluating(t *testing.T) {
	check(t, "42", "42")
	check(t, "3/4", "3/4")
	check(t, "#t", "#t")
	check(t, `"hello"`, "hello")
	check(t, "'()", "()")
	check(t, "foo:", "foo")
}

func TestArithmetic(t *testing.T) {
	check(t, "(+ 1 2 3)", "6")
	check(t, "(- 5 1 1)", "3")
	check(t, "(- 2)", "-2")
	check(t, "(* 2 3/2)", "3")
	check(t, "(+ 1/3 1/6)", "1/2")
}

func TestFloatContagion(t *testing.T) {
	v := run(t, "(+ 1 2.5f)")
	if !flt.Is(v) || flt.To(v).Float64() != 3.5 {
		t.Errorf("(+ 1 2.5f) evaluated to %s (%s)", common.String(v), v.Name())
	}

	// Exact operands stay exact.
	if !num.Is(run(t, "(+ 1 2.5)")) {
		t.Error("(+ 1 2.5) lost exactness")
	}
}

func TestComparisons(t *testing.T) {
	check(t, "(< 1 2 3)", "#t")
	check(t, "(< 1 3 2)", "#f")
	check(t, "(= 2 2 2)", "#t")
	check(t, "(= 2 2 3)", "#f")
}

func TestPairs(t *testing.T) {
	check(t, "(cons 1 2)", "(1 . 2)")
	check(t, "(car '(1 2))", "1")
	check(t, "(cdr '(1 2))", "(2)")
	check(t, "(list 1 2 3)", "(1 2 3)")
	check(t, "(append '(1 2) '(3) '())", "(1 2 3)")
	check(t, "(length '(1 2 3))", "3")
	check(t, "(null? '())", "#t")
	check(t, "(null? '(1))", "#f")
	check(t, "(pair? '(1))", "#t")
	check(t, "(pair? '())", "#f")
	check(t, "(pair? 1)", "#f")
}

func TestEquality(t *testing.T) {
	// Symbols are interned, so identity follows from the name.
	check(t, "(eq? 'a 'a)", "#t")
	check(t, "(eq? '(1) '(1))", "#f")
	check(t, "(equal? '(1 (2)) '(1 (2)))", "#t")
	check(t, "(equal? '(1) '(2))", "#f")
}

func TestDefineAndCall(t *testing.T) {
	check(t, "(define (sq x) (* x x)) (sq 7)", "49")
	check(t, "(define x 5) (+ x 1)", "6")
}

func TestClosureCapture(t *testing.T) {
	check(t, "(define (adder n) (lambda (x) (+ x n))) ((adder 2) 3)", "5")
}

func TestSet(t *testing.T) {
	check(t, "(define x 1) (set! x 2) x", "2")
	check(t, "((lambda (x) (set! x 7) x) 1)", "7")

	fails(t, "(set! nope 1)", "not defined")
}

func TestIf(t *testing.T) {
	check(t, "(if #t 1 2)", "1")
	check(t, "(if #f 1 2)", "2")
	check(t, "(if #f 1)", "()")
	check(t, "(if 0 1 2)", "2") // Zero is false.
	check(t, "(if '() 1 2)", "2")
	check(t, "(if 'x 1 2)", "1")
}

func TestBegin(t *testing.T) {
	check(t, "(begin 1 2 3)", "3")
	check(t, "(define x 0) (begin (set! x 1) x)", "1")
}

func TestNot(t *testing.T) {
	check(t, "(not #f)", "#t")
	check(t, "(not '(1))", "#f")
}

func TestDeepSelfRecursion(t *testing.T) {
	check(t, `
		(define (count n) (if (= n 0) n (count (- n 1))))
		(count 1000000)
	`, "0")
}

func TestDeepMutualRecursion(t *testing.T) {
	check(t, `
		(define (even? n) (if (= n 0) #t (odd? (- n 1))))
		(define (odd? n) (if (= n 0) #f (even? (- n 1))))
		(even? 1000000)
	`, "#t")
}

func TestSelfNameSurvivesRebinding(t *testing.T) {
	// The jump binds to the closure, not the global name.
	check(t, `
		(define (count n acc) (if (= n 0) acc (count (- n 1) (+ acc 1))))
		(define keep count)
		(define (count n) "clobbered")
		(keep 100000 0)
	`, "100000")
}

func TestQuasiquoteSplice(t *testing.T) {
	check(t, "(define l '(2 3)) `(1 ,@l 4)", "(1 2 3 4)")
	check(t, "(define b 9) `(a ,b)", "(a 9)")
}

func TestMutationAndCycles(t *testing.T) {
	check(t, "(define p (cons 1 '(2))) (set-car! p 9) p", "(9 2)")
	check(t, "(define p (cons 1 2)) (set-cdr! p p) p", "(1 ...)")
	check(t, "(define p (cons 1 2)) (set-cdr! p p) (length p)", "1")
}

func TestPrelude(t *testing.T) {
	check(t, "(map (lambda (x) (* x x)) '(1 2 3))", "(1 4 9)")
	check(t, "(reverse '(1 2 3))", "(3 2 1)")
	check(t, "(cadr '(1 2 3))", "2")
	check(t, "(list-ref '(a b c) 2)", "c")
	check(t, "(assoc 'b '((a 1) (b 2)))", "(b 2)")
	check(t, "(member 2 '(1 2 3))", "(2 3)")
	check(t, "(member 9 '(1 2 3))", "#f")
}

func TestErrors(t *testing.T) {
	fails(t, "nope", "not defined")
	fails(t, "(if)", "if requires")
	fails(t, "(car 1)", "not a cons")
	fails(t, "(car '())", "no head or tail")
	fails(t, "(cons 1)", "expected 2 arguments, passed 1")
	fails(t, "((lambda (x) x))", "expected 1 argument")
	fails(t, "(1 2)", "not callable")
	fails(t, "(+ 'a 1)", "numeric context")
	fails(t, "(append '(1 . 2) '(3))", "proper")
	fails(t, "`(a (unquote 1 2))", "single value")
}

func TestErrorsCarrySourcePositions(t *testing.T) {
	_, err := engine.NewModule("test").Run("\n\n(if)")
	if err == nil || !strings.Contains(err.Error(), "test:3") {
		t.Errorf("error did not name the offending position: %v", err)
	}
}

func TestFeedAndLoad(t *testing.T) {
	m := engine.NewModule("test")

	if err := m.Feed("(define x 1) (define y 2) (+ x y)"); err != nil {
		t.Fatal(err)
	}

	var last cell.I

	for {
		v, ok, err := m.Load()
		if err != nil {
			t.Fatal(err)
		}

		if !ok {
			break
		}

		last = v
	}

	if !last.Equal(num.Int(3)) {
		t.Errorf("loading pending units produced %s", common.String(last))
	}
}

func TestFeedIsAllOrNothing(t *testing.T) {
	m := engine.NewModule("test")

	if err := m.Feed("(define x 1) (if)"); err == nil {
		t.Fatal("feeding a malformed form did not fail")
	}

	if _, ok, _ := m.Load(); ok {
		t.Error("a unit from a failed feed was queued")
	}
}

func TestModulesAreIndependent(t *testing.T) {
	a := engine.NewModule("a")
	b := engine.NewModule("b")

	if _, err := a.Run("(define x 1)"); err != nil {
		t.Fatal(err)
	}

	if _, err := b.Run("x"); err == nil {
		t.Error("a define in one module was visible in another")
	}
}

func TestRunFrom(t *testing.T) {
	v, err := engine.NewModule("test").RunFrom(strings.NewReader("(+ 1 2)"))
	if err != nil {
		t.Fatal(err)
	}

	if !v.Equal(num.Int(3)) {
		t.Errorf("running from a reader produced %s", common.String(v))
	}
}

func TestEvaluate(t *testing.T) {
	m := engine.NewModule("test")

	v, err := m.Evaluate(boolean.True)
	if err != nil {
		t.Fatal(err)
	}

	if v != boolean.True {
		t.Errorf("evaluating a boolean produced %s", common.String(v))
	}
}
