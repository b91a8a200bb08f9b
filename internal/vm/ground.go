// Released under an MIT license. See LICENSE.

package vm

import (
	"math/big"

	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/interface/rational"
	"github.com/ahills/sylva/internal/common/interface/truth"
	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/common/type/atom"
	"github.com/ahills/sylva/internal/common/type/boolean"
	"github.com/ahills/sylva/internal/common/type/flt"
	"github.com/ahills/sylva/internal/common/type/list"
	"github.com/ahills/sylva/internal/common/type/num"
	"github.com/ahills/sylva/internal/common/type/pair"
	"github.com/ahills/sylva/internal/common/validate"
)

// Ground installs the primitive procedures in the scope sc.
func Ground(sc *Scope) {
	for label, fn := range map[string]func([]cell.I) (cell.I, error){
		"append":   appendLists,
		"car":      car,
		"cdr":      cdr,
		"cons":     cons,
		"eq?":      eq,
		"equal?":   equalp,
		"length":   length,
		"list":     listOf,
		"not":      not,
		"null?":    nullp,
		"pair?":    pairp,
		"set-car!": setCar,
		"set-cdr!": setCdr,
		"*":        mul,
		"+":        add,
		"-":        sub,
		"<":        lt,
		"=":        numEq,
	} {
		sc.Define(atom.Sym(label), &Builtin{Label: label, Fn: fn})
	}
}

func add(args []cell.I) (cell.I, error) {
	acc := &big.Rat{}

	for _, c := range args {
		acc.Add(acc, rational.Number(c))
	}

	return wrap(acc, args), nil
}

// appendLists concatenates its arguments. The leading arguments must
// be proper lists and are copied; the final argument is shared, so it
// may be any value and an improper or empty result falls out naturally.
func appendLists(args []cell.I) (cell.I, error) {
	if len(args) == 0 {
		return pair.Null, nil
	}

	var elements []cell.I

	for _, c := range args[:len(args)-1] {
		if !list.Proper(c) {
			return nil, &fault.Type{Msg: "append requires proper lists"}
		}

		elements = append(elements, list.Slice(c)...)
	}

	joined := args[len(args)-1]

	for i := len(elements) - 1; i >= 0; i-- {
		joined = pair.Cons(elements[i], joined)
	}

	return joined, nil
}

func car(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 1, 1)

	return pair.Car(v[0]), nil
}

func cdr(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 1, 1)

	return pair.Cdr(v[0]), nil
}

func cons(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 2, 2)

	return pair.Cons(v[0], v[1]), nil
}

func eq(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 2, 2)

	return boolean.Bool(v[0] == v[1]), nil
}

func equalp(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 2, 2)

	return boolean.Bool(v[0].Equal(v[1])), nil
}

func length(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 1, 1)

	return num.Int(int(list.Length(v[0]))), nil
}

func listOf(args []cell.I) (cell.I, error) {
	return list.New(args...), nil
}

func lt(args []cell.I) (cell.I, error) {
	return compare(args, func(cmp int) bool {
		return cmp < 0
	})
}

func mul(args []cell.I) (cell.I, error) {
	acc := big.NewRat(1, 1)

	for _, c := range args {
		acc.Mul(acc, rational.Number(c))
	}

	return wrap(acc, args), nil
}

func not(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 1, 1)

	return boolean.Bool(!truth.Value(v[0])), nil
}

func nullp(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 1, 1)

	return boolean.Bool(v[0] == pair.Null), nil
}

func numEq(args []cell.I) (cell.I, error) {
	return compare(args, func(cmp int) bool {
		return cmp == 0
	})
}

func pairp(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 1, 1)

	return boolean.Bool(pair.Is(v[0]) && v[0] != pair.Null), nil
}

func setCar(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 2, 2)

	pair.SetCar(v[0], v[1])

	return v[1], nil
}

func setCdr(args []cell.I) (cell.I, error) {
	v := validate.Fixed(args, 2, 2)

	pair.SetCdr(v[0], v[1])

	return v[1], nil
}

func sub(args []cell.I) (cell.I, error) {
	v, rest := validate.Variadic(args, 1, 1)

	acc := new(big.Rat).Set(rational.Number(v[0]))

	if len(rest) == 0 {
		return wrap(acc.Neg(acc), args), nil
	}

	for _, c := range rest {
		acc.Sub(acc, rational.Number(c))
	}

	return wrap(acc, args), nil
}

func compare(args []cell.I, ok func(int) bool) (cell.I, error) {
	v, rest := validate.Variadic(args, 2, 2)

	prev := rational.Number(v[0])

	for _, c := range append(v[1:], rest...) {
		curr := rational.Number(c)

		if !ok(prev.Cmp(curr)) {
			return boolean.False, nil
		}

		prev = curr
	}

	return boolean.True, nil
}

// wrap boxes the exact result r, demoting it to a float when any
// operand was a float.
func wrap(r *big.Rat, args []cell.I) cell.I {
	for _, c := range args {
		if flt.Is(c) {
			f, _ := r.Float64()

			return flt.Float(f)
		}
	}

	return num.Rat(r)
}
