// Released under an MIT license. See LICENSE.

package pair

import (
	"github.com/ahills/sylva/internal/common/interface/cell"
)

// Iter walks a pair chain, yielding successive heads. A chain ending
// in Null yields only heads; a chain ending in any other non-pair
// value yields that value as a final extra element. Iteration over
// Null is immediately exhausted, and iteration over a cyclic chain
// stops at the first revisited pair.
type Iter struct {
	rest    cell.I
	visited map[*pair]struct{}
}

// Walk creates an Iter over the chain starting at c.
func Walk(c cell.I) *Iter {
	return &Iter{rest: c, visited: map[*pair]struct{}{}}
}

// Next returns the next element and true, or nil and false when the
// chain is exhausted.
func (i *Iter) Next() (cell.I, bool) {
	if i.rest == Null || i.rest == nil {
		return nil, false
	}

	p, ok := i.rest.(*pair)
	if !ok {
		// Improper terminator is the final element.
		v := i.rest
		i.rest = nil

		return v, true
	}

	if _, seen := i.visited[p]; seen {
		i.rest = nil

		return nil, false
	}

	i.visited[p] = struct{}{}
	i.rest = p.cdr

	return p.car, true
}
