// Released under an MIT license. See LICENSE.

// Package list provides common list operations. A list is not a true type.
// Lists are more of a type by convention. They are composed of cons cells.
package list

import (
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/type/pair"
)

// Length returns the number of elements in list.
// Cyclic lists have a finite length: counting stops at the first
// revisited pair. An improper terminator counts as an element.
func Length(list cell.I) int64 {
	var length int64

	it := pair.Walk(list)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		length++
	}

	return length
}

// New creates a new list composed of all of the elements in elements.
func New(elements ...cell.I) cell.I {
	if len(elements) == 0 {
		return pair.Null
	}

	start := pair.Cons(elements[0], pair.Null)
	end := start

	for _, e := range elements[1:] {
		p := pair.Cons(e, pair.Null)
		pair.SetCdr(end, p)
		end = p
	}

	return start
}

// Proper returns true if list is a proper list: a chain of pairs
// terminated by Null, with no cycle.
func Proper(list cell.I) bool {
	seen := map[cell.I]struct{}{}

	for list != pair.Null {
		if !pair.Is(list) {
			return false
		}

		if _, revisit := seen[list]; revisit {
			return false
		}

		seen[list] = struct{}{}

		list = pair.Cdr(list)
	}

	return true
}

// Slice returns the elements of list as a Go slice.
// Improper terminators are included as a final element.
func Slice(list cell.I) []cell.I {
	var elements []cell.I

	it := pair.Walk(list)
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		elements = append(elements, v)
	}

	return elements
}
