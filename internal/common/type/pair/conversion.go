// Released under an MIT license. See LICENSE.

package pair

import (
	"github.com/ahills/sylva/internal/common/interface/cell"
)

// Is returns true if c is a pair. Null is a pair.
func Is(c cell.I) bool {
	_, ok := c.(*pair)

	return ok
}

// To returns a pair if c is a pair; otherwise it panics.
func To(c cell.I) *T {
	if p, ok := c.(*pair); ok {
		return p
	}

	panic(c.Name() + " is not a " + name)
}
