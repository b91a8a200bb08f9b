// Released under an MIT license. See LICENSE.

// Package pair provides sylva's cons cell type.
//
// Pairs compose into chains. A chain terminated by Null is a proper
// list; a chain terminated by any other non-pair value is an improper
// list; a chain that reaches a pair already visited is cyclic. Cyclic
// chains are legal: mutation may introduce them and printing, equality
// and iteration all terminate on them by tracking visited pairs.
package pair

import (
	"strings"

	"github.com/ahills/sylva/internal/common"
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/interface/literal"
	"github.com/ahills/sylva/internal/common/interface/truth"
	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/common/struct/loc"
)

const name = "cons"

//nolint:gochecknoglobals
var (
	// Null is the empty list. It is also used to mark the end of a list.
	Null cell.I
)

// T (pair) is a cons cell.
type T struct {
	car    cell.I
	cdr    cell.I
	source *loc.T
}

type pair = T

// Cons conses h and t together to form a new pair.
// Both slots are required; Null and zero values are valid occupants
// but an absent (Go nil) value is not.
func Cons(h, t cell.I) cell.I {
	if h == nil || t == nil {
		panic(&fault.Argument{Msg: "cons requires both a head and a tail"})
	}

	return &pair{car: h, cdr: t}
}

// Bool returns the boolean value of the pair p.
func (p *pair) Bool() bool {
	return p != Null
}

// Equal returns true if c is a pair with elements that are equal to p's.
// Comparison terminates on cyclic structure.
func (p *pair) Equal(c cell.I) bool {
	return equal(p, c, map[[2]*pair]struct{}{})
}

// Literal returns the literal representation of the pair p.
// Cyclic structure is rendered with a recursive=true marker in place
// of re-descending; if the cycle does not restart at p itself the
// already-emitted prefix is reopened so the cycle start is visible.
func (p *pair) Literal() string {
	if p == Null {
		return "()"
	}

	col := []string{"(|" + name + " "}
	found := map[*pair]int{}

	var rest cell.I = p

	for Is(rest) && rest != Null {
		r := To(rest)

		if at, ok := found[r]; ok {
			col = append(col, "recursive=true")

			if r != p {
				col = insert(col, at-1, "(|"+name+" ")
				col = append(col, "|)")
			}

			rest = nil

			break
		}

		found[r] = len(col) + 1

		col = append(col, literal.String(r.car), " ")

		rest = r.cdr
	}

	if rest != nil {
		col = append(col, literal.String(rest))
	}

	col = append(col, "|)")

	return strings.Join(col, "")
}

// Name returns the name for a pair type.
func (p *pair) Name() string {
	return name
}

// String returns the text representation of the pair p.
// Cyclic structure is rendered with an ellipsis marker.
func (p *pair) String() string {
	if p == Null {
		return "()"
	}

	col := []string{"("}
	found := map[*pair]int{}

	var rest cell.I = p

	for Is(rest) && rest != Null {
		r := To(rest)

		if at, ok := found[r]; ok {
			col[len(col)-1] = " ..." // Replace trailing separator.
			col = append(col, ")")

			if r != p {
				// The cycle does not restart at p; reopen
				// the prefix so its start is visible.
				col = insert(col, at-1, "(")
				col = insert(col, at-1, ". ")
				col = append(col, ")")
			}

			rest = nil

			break
		}

		found[r] = len(col) + 1

		col = append(col, display(r.car), " ")

		rest = r.cdr
	}

	if rest == Null {
		col[len(col)-1] = ")" // Replace trailing separator.
	} else if rest != nil {
		col[len(col)-1] = " . "
		col = append(col, display(rest), ")")
	}

	return strings.Join(col, "")
}

// Functions specific to pair.

// Car returns the car/head/first member of the pair c.
// Null has no head; passing it, or a non-pair, is an error.
func Car(c cell.I) cell.I {
	return slot(c).car
}

// Cdr returns the cdr/tail/rest member of the pair c.
// Null has no tail; passing it, or a non-pair, is an error.
func Cdr(c cell.I) cell.I {
	return slot(c).cdr
}

// Cadr returns the car of the cdr of the pair c.
func Cadr(c cell.I) cell.I {
	return slot(slot(c).cdr).car
}

// Cddr returns the cdr of the cdr of the pair c.
func Cddr(c cell.I) cell.I {
	return slot(slot(c).cdr).cdr
}

// SetCar sets the car/head/first of the pair c to value,
// releasing the previous occupant.
func SetCar(c, value cell.I) {
	if value == nil {
		panic(&fault.Argument{Msg: "setcar requires a value"})
	}

	slot(c).car = value
}

// SetCdr sets the cdr/tail/rest of the pair c to value,
// releasing the previous occupant. This may introduce a cycle.
func SetCdr(c, value cell.I) {
	if value == nil {
		panic(&fault.Argument{Msg: "setcdr requires a value"})
	}

	slot(c).cdr = value
}

// Index treats the pair c as a fixed 2-element sequence:
// index 0 is the head and index 1 is the tail.
// Null is a fixed 0-element sequence; any index on it is an error.
func Index(c cell.I, i int) cell.I {
	if c == Null {
		panic(&fault.Index{Index: i, Size: 0})
	}

	p := slot(c)

	switch i {
	case 0:
		return p.car
	case 1:
		return p.cdr
	}

	panic(&fault.Index{Index: i, Size: 2})
}

// Source returns the source position tag for the pair c, if any.
func Source(c cell.I) *loc.T {
	if p, ok := c.(*pair); ok && p != Null {
		return p.source
	}

	return nil
}

// SetSource tags the pair c with the source position l.
// The tag has no bearing on equality or printing.
func SetSource(c cell.I, l *loc.T) {
	if p, ok := c.(*pair); ok && p != Null && l != nil {
		p.source = l
	}
}

func display(c cell.I) string {
	return common.String(c)
}

func equal(p *pair, c cell.I, seen map[[2]*pair]struct{}) bool {
	q, ok := c.(*pair)
	if !ok {
		return false
	}

	if p == q {
		return true
	}

	if p == Null || q == Null {
		return false
	}

	k := [2]*pair{p, q}
	if _, ok := seen[k]; ok {
		// Already comparing this pair of pairs further up the
		// chain; assume equal to terminate on cycles.
		return true
	}

	seen[k] = struct{}{}

	if l, ok := p.car.(*pair); ok {
		if !equal(l, q.car, seen) {
			return false
		}
	} else if !p.car.Equal(q.car) {
		return false
	}

	if l, ok := p.cdr.(*pair); ok {
		return equal(l, q.cdr, seen)
	}

	return p.cdr.Equal(q.cdr)
}

func insert(col []string, at int, s string) []string {
	col = append(col, "")
	copy(col[at+1:], col[at:])
	col[at] = s

	return col
}

func slot(c cell.I) *pair {
	if c == Null {
		panic(&fault.Type{Msg: "the empty list has no head or tail"})
	}

	p, ok := c.(*pair)
	if !ok {
		panic(&fault.Type{Msg: c.Name() + " is not a " + name})
	}

	return p
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t pair

	// The pair type is a cell.
	_ = cell.I(&t)

	// The pair type has a literal representation.
	_ = literal.I(&t)

	// The pair type is a stringer.
	_ = common.Stringer(&t)

	// The pair type has a truth value.
	_ = truth.I(&t)
}

func init() { //nolint:gochecknoinits
	pair := &pair{}
	pair.car = pair
	pair.cdr = pair

	Null = cell.I(pair)
}
