// Released under an MIT license. See LICENSE.

// Package truth defines the interface for sylva types that have a truth value.
package truth

import (
	"github.com/ahills/sylva/internal/common/interface/cell"
)

// I (truth) is anything that evaluates to a true or false value.
type I interface {
	Bool() bool
}

// Value returns the truth value for a cell, if possible.
// Cells without an explicit truth value are true.
func Value(c cell.I) bool {
	b, ok := c.(I)
	if !ok {
		return true
	}

	return b.Bool()
}
