// Released under an MIT license. See LICENSE.

package pair_test

import (
	"testing"

	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/common/type/num"
	"github.com/ahills/sylva/internal/common/type/pair"
)

func TestConsCarCdr(t *testing.T) {
	p := pair.Cons(num.Int(1), num.Int(2))

	if !pair.Car(p).Equal(num.Int(1)) || !pair.Cdr(p).Equal(num.Int(2)) {
		t.Error("cons slots do not hold what was consed")
	}
}

func TestNullIsAPairWithoutSlots(t *testing.T) {
	if !pair.Is(pair.Null) {
		t.Error("the empty list is not a pair")
	}

	defer func() {
		if _, ok := recover().(*fault.Type); !ok {
			t.Error("car of the empty list did not raise a type fault")
		}
	}()

	pair.Car(pair.Null)
}

func TestConsRequiresBothSlots(t *testing.T) {
	defer func() {
		if _, ok := recover().(*fault.Argument); !ok {
			t.Error("cons with an absent tail did not raise an argument fault")
		}
	}()

	pair.Cons(num.Int(1), nil)
}

func TestIndex(t *testing.T) {
	p := pair.Cons(num.Int(1), num.Int(2))

	if !pair.Index(p, 0).Equal(num.Int(1)) || !pair.Index(p, 1).Equal(num.Int(2)) {
		t.Error("indexed access does not match the slots")
	}

	defer func() {
		if f, ok := recover().(*fault.Index); !ok || f.Size != 2 {
			t.Error("out of range index did not raise an index fault")
		}
	}()

	pair.Index(p, 2)
}

func TestIndexOnNull(t *testing.T) {
	defer func() {
		if f, ok := recover().(*fault.Index); !ok || f.Size != 0 {
			t.Error("indexing the empty list did not raise an index fault")
		}
	}()

	pair.Index(pair.Null, 0)
}

func TestProperString(t *testing.T) {
	p := pair.Cons(num.Int(1), pair.Cons(num.Int(2), pair.Cons(num.Int(3), pair.Null)))

	if s := p.(interface{ String() string }).String(); s != "(1 2 3)" {
		t.Errorf("proper list printed as %q", s)
	}
}

func TestImproperString(t *testing.T) {
	p := pair.Cons(num.Int(1), num.Int(2))

	if s := p.(interface{ String() string }).String(); s != "(1 . 2)" {
		t.Errorf("improper list printed as %q", s)
	}
}

func TestSelfCycleString(t *testing.T) {
	p := pair.Cons(num.Int(1), num.Int(2))
	pair.SetCdr(p, p)

	if s := p.(interface{ String() string }).String(); s != "(1 ...)" {
		t.Errorf("self cycle printed as %q", s)
	}
}

func TestInnerCycleString(t *testing.T) {
	b := pair.Cons(num.Int(2), pair.Null)
	pair.SetCdr(b, b)

	p := pair.Cons(num.Int(1), b)

	if s := p.(interface{ String() string }).String(); s != "(1 . (2 ...))" {
		t.Errorf("inner cycle printed as %q", s)
	}
}

func TestSelfCycleLiteral(t *testing.T) {
	p := pair.Cons(num.Int(1), num.Int(2))
	pair.SetCdr(p, p)

	l := p.(interface{ Literal() string }).Literal()
	if l != "(|cons (|number 1|) recursive=true|)" {
		t.Errorf("self cycle literal is %q", l)
	}
}

func TestEqualTerminatesOnCycles(t *testing.T) {
	a := pair.Cons(num.Int(1), pair.Null)
	pair.SetCdr(a, a)

	b := pair.Cons(num.Int(1), pair.Null)
	pair.SetCdr(b, b)

	if !a.Equal(b) {
		t.Error("structurally identical cycles compare unequal")
	}

	c := pair.Cons(num.Int(2), pair.Null)
	pair.SetCdr(c, c)

	if a.Equal(c) {
		t.Error("cycles with different elements compare equal")
	}
}

func TestWalkImproper(t *testing.T) {
	p := pair.Cons(num.Int(1), pair.Cons(num.Int(2), num.Int(3)))

	var got []int64

	it := pair.Walk(p)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		got = append(got, num.To(v).Rat().Num().Int64())
	}

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("walking an improper list yielded %v", got)
	}
}

func TestWalkTerminatesOnCycle(t *testing.T) {
	p := pair.Cons(num.Int(1), pair.Cons(num.Int(2), pair.Null))
	pair.SetCdr(pair.Cdr(p), p)

	count := 0

	it := pair.Walk(p)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		count++
	}

	if count != 2 {
		t.Errorf("walking a cycle yielded %d elements", count)
	}
}
