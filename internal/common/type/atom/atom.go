// Released under an MIT license. See LICENSE.

// Package atom provides sylva's interned symbol and keyword types.
//
// Atoms are canonicalized: at any instant there is at most one live atom
// for a given kind and normalized name, so atoms compare by identity.
// Each kind has its own intern table. An atom holds a reference count;
// interning returns a retained atom and releasing the last reference
// removes the table entry. Interning and release for a name are mutually
// exclusive so that a lookup never observes a half-removed entry.
package atom

import (
	"strings"
	"sync"

	"github.com/michaelmacinnis/adapted"

	"github.com/ahills/sylva/internal/common"
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/interface/literal"
	"github.com/ahills/sylva/internal/common/struct/fault"
)

// Kind selects an intern table.
type Kind int

// Atom kinds.
const (
	Symbol Kind = iota
	Keyword
)

// T (atom) is an interned symbol or keyword.
type T struct {
	kind Kind
	name string
	refs int
}

type atom = T

type table struct {
	sync.Mutex
	live map[string]*atom
}

//nolint:gochecknoglobals
var tables = [...]*table{
	Symbol:  {live: map[string]*atom{}},
	Keyword: {live: map[string]*atom{}},
}

// Intern canonicalizes name and returns the unique atom of the given
// kind for it. The returned atom is retained on behalf of the caller.
// An empty (or, for keywords, all-delimiter) name is invalid.
func Intern(kind Kind, name string) (*T, error) {
	name = normalize(kind, name)
	if name == "" {
		return nil, &fault.InvalidName{Raw: name}
	}

	t := tables[kind]

	t.Lock()
	defer t.Unlock()

	a, ok := t.live[name]
	if !ok {
		a = &atom{kind: kind, name: name}
		t.live[name] = a
	}

	a.refs++

	return a, nil
}

// Sym interns name as a symbol. It panics on an invalid name and is
// intended for names that are valid by construction.
func Sym(name string) *T {
	a, err := Intern(Symbol, name)
	if err != nil {
		panic(err.Error())
	}

	return a
}

// Key interns name as a keyword. It panics on an invalid name.
func Key(name string) *T {
	a, err := Intern(Keyword, name)
	if err != nil {
		panic(err.Error())
	}

	return a
}

// Retain adds an owner to the atom a.
func Retain(a *T) *T {
	t := tables[a.kind]

	t.Lock()
	defer t.Unlock()

	a.refs++

	return a
}

// Release removes an owner from the atom a. Releasing the last owner
// retires the atom from its intern table; a subsequent Intern of the
// same name produces a fresh atom.
func Release(a *T) {
	t := tables[a.kind]

	t.Lock()
	defer t.Unlock()

	a.refs--
	if a.refs <= 0 && t.live[a.name] == a {
		delete(t.live, a.name)
	}
}

// Equal returns true if c is the same atom as a.
// Atoms are canonical, so equality is identity.
func (a *atom) Equal(c cell.I) bool {
	return cell.I(a) == c
}

// Kind returns the kind of the atom a.
func (a *atom) Kind() Kind {
	return a.kind
}

// Literal returns the literal representation of the atom a.
func (a *atom) Literal() string {
	if a.kind == Keyword {
		return a.name + ":"
	}

	return repr(a.name)
}

// Name returns the type name for the atom a.
func (a *atom) Name() string {
	if a.kind == Keyword {
		return "keyword"
	}

	return "symbol"
}

// String returns the normalized name of the atom a.
func (a *atom) String() string {
	return a.name
}

// Split splits the atom's name around sep and re-interns each piece
// as an atom of the same kind.
func (a *atom) Split(sep string) []*T {
	return a.intern(strings.Split(a.name, sep))
}

// RSplit splits the atom's name around the last n occurrences of sep,
// re-interning each piece as an atom of the same kind.
func (a *atom) RSplit(sep string, n int) []*T {
	pieces := strings.Split(a.name, sep)

	if n >= 0 && len(pieces) > n+1 {
		head := strings.Join(pieces[:len(pieces)-n], sep)
		pieces = append([]string{head}, pieces[len(pieces)-n:]...)
	}

	return a.intern(pieces)
}

func (a *atom) intern(pieces []string) []*T {
	atoms := make([]*T, 0, len(pieces))

	for _, p := range pieces {
		n, err := Intern(a.kind, p)
		if err != nil {
			panic(err.Error())
		}

		atoms = append(atoms, n)
	}

	return atoms
}

func normalize(kind Kind, name string) string {
	if kind == Keyword {
		return strings.Trim(strings.TrimSpace(name), ":")
	}

	return name
}

func meta(s string) string {
	return "(|symbol " + s + "|)"
}

func repr(s string) string {
	q := adapted.CanonicalString(s)

	if len(s) == 0 {
		return meta(q)
	}

	for _, r := range s {
		if r == ' ' {
			return meta(q)
		}
	}

	if q[2:len(q)-1] != s {
		return meta(q)
	}

	return s
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t atom

	// The atom type is a cell.
	_ = cell.I(&t)

	// The atom type has a literal representation.
	_ = literal.I(&t)

	// The atom type is a stringer.
	_ = common.Stringer(&t)
}
