// Released under an MIT license. See LICENSE.

package atom

import (
	"github.com/ahills/sylva/internal/common/interface/cell"
)

// Is returns true if c is an atom.
func Is(c cell.I) bool {
	_, ok := c.(*atom)

	return ok
}

// IsSymbol returns true if c is a symbol atom.
func IsSymbol(c cell.I) bool {
	return Is(c) && To(c).kind == Symbol
}

// IsKeyword returns true if c is a keyword atom.
func IsKeyword(c cell.I) bool {
	return Is(c) && To(c).kind == Keyword
}

// To returns an atom if c is an atom; otherwise it panics.
func To(c cell.I) *T {
	if a, ok := c.(*atom); ok {
		return a
	}

	panic(c.Name() + " is not an atom")
}
