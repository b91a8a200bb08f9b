// Released under an MIT license. See LICENSE.

// Package engine provides a facade in front of the sylva pipeline.
//
// A module owns a reader, an expander, a compiler and a global scope.
// Source text fed to a module is read and compiled into pending units;
// loading runs the next pending unit in the module's scope. Panics
// raised by the data types and the vm while user code runs are
// recovered here and surfaced as errors.
package engine

import (
	"fmt"
	"io"

	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/type/pair"
	"github.com/ahills/sylva/internal/compiler"
	"github.com/ahills/sylva/internal/engine/boot"
	"github.com/ahills/sylva/internal/macro"
	"github.com/ahills/sylva/internal/reader"
	"github.com/ahills/sylva/internal/reader/stream"
	"github.com/ahills/sylva/internal/vm"
)

// T (module) is an execution host: a pipeline plus a global scope.
type T struct {
	name     string
	reader   *reader.T
	expander *macro.T
	compiler *compiler.T
	scope    *vm.Scope
	pending  []*vm.Template
}

type module = T

// NewModule creates a module with the default reader syntax, the
// default macros and the primitive procedures.
func NewModule(name string) *T {
	e := macro.New()

	sc := vm.NewScope()
	vm.Ground(sc)

	m := &module{
		name:     name,
		reader:   reader.New(),
		expander: e,
		compiler: compiler.New(e),
		scope:    sc,
	}

	if _, err := m.Run(boot.Script()); err != nil {
		// The prelude is fixed at build time.
		panic("boot: " + err.Error())
	}

	return m
}

// Expander returns the module's macro expander.
func (m *module) Expander() *macro.T {
	return m.expander
}

// Reader returns the module's reader so callers can extend its syntax.
func (m *module) Reader() *reader.T {
	return m.reader
}

// Scope returns the module's global scope.
func (m *module) Scope() *vm.Scope {
	return m.scope
}

// Feed reads and compiles every form in text. The compiled units are
// queued; nothing is evaluated. Feed is all-or-nothing: on error no
// unit from text is queued.
func (m *module) Feed(text string) error {
	return m.feed(stream.New(text, m.name))
}

func (m *module) feed(s *stream.T) error {
	forms, err := m.reader.ReadAll(s)
	if err != nil {
		return err
	}

	units := make([]*vm.Template, 0, len(forms))

	for _, f := range forms {
		t, err := m.compiler.Compile(f)
		if err != nil {
			return describe(err, f)
		}

		units = append(units, t)
	}

	m.pending = append(m.pending, units...)

	return nil
}

// Load runs the next pending unit and returns its value.
// The second result is false when no unit is pending.
func (m *module) Load() (cell.I, bool, error) {
	if len(m.pending) == 0 {
		return nil, false, nil
	}

	t := m.pending[0]
	m.pending = m.pending[1:]

	v, err := m.execute(t)

	return v, true, err
}

// Run feeds text to the module and runs every unit it produced,
// returning the value of the last one.
func (m *module) Run(text string) (cell.I, error) {
	if err := m.Feed(text); err != nil {
		return nil, err
	}

	return m.drain()
}

// RunFrom drains r and runs the source it held.
func (m *module) RunFrom(r io.Reader) (cell.I, error) {
	s, err := stream.NewFromReader(r, m.name)
	if err != nil {
		return nil, err
	}

	if err := m.feed(s); err != nil {
		return nil, err
	}

	return m.drain()
}

func (m *module) drain() (cell.I, error) {
	v := pair.Null

	for {
		next, ok, err := m.Load()
		if err != nil {
			return nil, err
		}

		if !ok {
			return v, nil
		}

		v = next
	}
}

// Evaluate reads, compiles and runs a single form.
func (m *module) Evaluate(form cell.I) (cell.I, error) {
	t, err := m.compiler.Compile(form)
	if err != nil {
		return nil, describe(err, form)
	}

	return m.execute(t)
}

// execute runs the unit t, converting panics raised by user code
// into errors.
func (m *module) execute(t *vm.Template) (v cell.I, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if e, ok := r.(error); ok {
			err = e

			return
		}

		err = fmt.Errorf("%v", r) //nolint:goerr113
	}()

	return vm.Run(t, m.scope)
}

// describe tags err with the source position of the form being
// compiled, when both are known.
func describe(err error, form cell.I) error {
	l := pair.Source(form)
	if l == nil {
		return err
	}

	return fmt.Errorf("%s: %w", l.String(), err)
}
