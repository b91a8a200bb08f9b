// Released under an MIT license. See LICENSE.

// Package flt provides sylva's floating point number type.
// Number-like tokens with a trailing 'f' suffix read as flt; all
// other numeric spellings stay exact as num.
package flt

import (
	"math/big"
	"strconv"

	"github.com/ahills/sylva/internal/common"
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/interface/literal"
	"github.com/ahills/sylva/internal/common/interface/rational"
	"github.com/ahills/sylva/internal/common/interface/truth"
)

const name = "float"

// T (flt) wraps Go's float64 type.
type T float64

type flt = T

// New creates a new flt cell from a string.
func New(s string) cell.I {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic("'" + s + "' is not a valid float")
	}

	return Float(v)
}

// Float wraps the float64 f as a flt.
func Float(f float64) cell.I {
	v := flt(f)

	return &v
}

// Bool returns the boolean value of the flt f.
func (f *flt) Bool() bool {
	return *f != 0
}

// Equal returns true if c is a flt with the same value.
func (f *flt) Equal(c cell.I) bool {
	return Is(c) && *f == *To(c)
}

// Float64 returns the value of the flt f as a float64.
func (f *flt) Float64() float64 {
	return float64(*f)
}

// Literal returns the literal representation of the flt f.
func (f *flt) Literal() string {
	return "(|" + name + " " + f.String() + "|)"
}

// Name returns the type name for the flt f.
func (f *flt) Name() string {
	return name
}

// Rat returns the value of the flt f as a *big.Rat.
func (f *flt) Rat() *big.Rat {
	r, _ := new(big.Rat).SetString(f.String())

	return r
}

// String returns the text of the flt f.
func (f *flt) String() string {
	return strconv.FormatFloat(float64(*f), 'g', -1, 64)
}

// Is returns true if c is a flt.
func Is(c cell.I) bool {
	_, ok := c.(*flt)

	return ok
}

// To returns a flt if c is a flt; otherwise it panics.
func To(c cell.I) *T {
	if f, ok := c.(*flt); ok {
		return f
	}

	panic(c.Name() + " is not a " + name)
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t flt

	// The flt type is a cell.
	_ = cell.I(&t)

	// The flt type has a literal representation.
	_ = literal.I(&t)

	// The flt type is a rational.
	_ = rational.I(&t)

	// The flt type is a stringer.
	_ = common.Stringer(&t)

	// The flt type has a truth value.
	_ = truth.I(&t)
}
