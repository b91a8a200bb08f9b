// Released under an MIT license. See LICENSE.

package vm

import (
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/type/atom"
)

// Template is the compiler's output: a self-contained executable unit.
// Instantiating a template in a frame and scope produces a closure.
type Template struct {
	Self   *atom.T // Self-name, when the unit was defined with one.
	Params []*atom.T
	Code   []Instruction
}

// Equal returns true if c is the same template.
func (t *Template) Equal(c cell.I) bool {
	return cell.I(t) == c
}

// Name returns the type name for a template.
func (t *Template) Name() string {
	return "template"
}

// String returns the text representation of the template t.
func (t *Template) String() string {
	if t.Self != nil {
		return "(|template " + t.Self.String() + "|)"
	}

	return "(|template|)"
}

// Closure is a template closed over a lexical frame and a namespace.
type Closure struct {
	tmpl  *Template
	frame *frame
	scope *Scope
}

type closure = Closure

// frame holds the parameter slots for one invocation. Self-recursive
// tail calls rebind slots in place instead of pushing a new frame.
type frame struct {
	cl    *closure
	slots []cell.I
	up    *frame
}

// bounce defers a tail call so the trampoline one frame down can run
// it after the current frame has been unwound.
type bounce struct {
	callee cell.I
	args   []cell.I
}

// Builtin is a host function callable from compiled code.
type Builtin struct {
	Label string
	Fn    func(args []cell.I) (cell.I, error)
}

// NewClosure instantiates the template t in the scope sc with no
// captured frame. The engine uses this to turn a compiled top-level
// unit into something runnable.
func NewClosure(t *Template, sc *Scope) *Closure {
	return &closure{tmpl: t, scope: sc}
}

// Equal returns true if c is the same closure.
func (f *closure) Equal(c cell.I) bool {
	return cell.I(f) == c
}

// Name returns the type name for a closure.
func (f *closure) Name() string {
	return "closure"
}

// String returns the text representation of the closure f.
func (f *closure) String() string {
	if f.tmpl.Self != nil {
		return "(|closure " + f.tmpl.Self.String() + "|)"
	}

	return "(|closure|)"
}

// Template returns the executable unit the closure f instantiates.
func (f *closure) Template() *Template {
	return f.tmpl
}

// Equal returns true if c is the same builtin.
func (b *Builtin) Equal(c cell.I) bool {
	return cell.I(b) == c
}

// Name returns the type name for a builtin.
func (b *Builtin) Name() string {
	return "builtin"
}

// String returns the text representation of the builtin b.
func (b *Builtin) String() string {
	return "(|builtin " + b.Label + "|)"
}

// Equal returns true if c is the same deferred call.
func (b *bounce) Equal(c cell.I) bool {
	return cell.I(b) == c
}

// Name returns the type name for a deferred tail call.
func (b *bounce) Name() string {
	return "tailcall"
}
