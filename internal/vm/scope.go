// Released under an MIT license. See LICENSE.

package vm

import (
	"sync"

	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/type/atom"
)

// Scope is a module's global namespace. Top-level defines land here
// and free variables in compiled code resolve against it at run time.
type Scope struct {
	sync.RWMutex
	bound map[*atom.T]cell.I
}

type scope = Scope

// NewScope creates an empty namespace.
func NewScope() *Scope {
	return &scope{bound: map[*atom.T]cell.I{}}
}

// Define binds name to value, creating the binding if necessary.
func (s *scope) Define(name *atom.T, value cell.I) {
	s.Lock()
	defer s.Unlock()

	s.bound[name] = value
}

// Get returns the value bound to name.
func (s *scope) Get(name *atom.T) (cell.I, bool) {
	s.RLock()
	defer s.RUnlock()

	v, ok := s.bound[name]

	return v, ok
}

// Set rebinds name to value. Unlike Define it requires an existing
// binding and reports failure instead of creating one.
func (s *scope) Set(name *atom.T, value cell.I) bool {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.bound[name]; !ok {
		return false
	}

	s.bound[name] = value

	return true
}
