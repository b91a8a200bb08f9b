// Released under an MIT license. See LICENSE.

// Package compiler lowers sylva forms to executable units.
//
// Each form is macro expanded as the compiler reaches it and then
// lowered. Calls in tail position never grow the stack: a call the
// compiler can prove re-enters the enclosing function becomes a
// direct jump to its entry point, and every other tail call is
// lowered to an instruction the vm dispatches without returning
// through the caller. The proof relies on the self-name a function
// is defined with being bound lexically, to the closure itself, so
// rebinding the name elsewhere cannot redirect the jump.
package compiler

import (
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/struct/fault"
	"github.com/ahills/sylva/internal/common/type/atom"
	"github.com/ahills/sylva/internal/common/type/pair"
	"github.com/ahills/sylva/internal/macro"
	"github.com/ahills/sylva/internal/vm"
)

// T (compiler) lowers forms to templates, expanding macros as it goes.
type T struct {
	expander *macro.T
}

type compiler = T

// cscope tracks the names visible at a point in the compilation:
// the enclosing function's parameters and its self-name. Anything
// that resolves through no cscope is a global reference.
type cscope struct {
	params []*atom.T
	self   *atom.T
	up     *cscope
}

//nolint:gochecknoglobals
var (
	symBegin  = atom.Sym("begin")
	symDefine = atom.Sym("define")
	symIf     = atom.Sym("if")
	symLambda = atom.Sym("lambda")
	symQuote  = atom.Sym("quote")
	symSet    = atom.Sym("set!")
)

// New creates a compiler that expands macros with e.
func New(e *macro.T) *T {
	return &compiler{expander: e}
}

// Compile lowers the top-level form to a zero-parameter unit.
func (c *compiler) Compile(form cell.I) (*vm.Template, error) {
	var code []vm.Instruction

	if err := c.compile(form, &cscope{}, true, &code); err != nil {
		return nil, err
	}

	code = append(code, vm.Instruction{Op: vm.OpReturn})

	return &vm.Template{Code: code}, nil
}

//nolint:gocognit,gocyclo
func (c *compiler) compile(form cell.I, env *cscope, tail bool, code *[]vm.Instruction) error {
	form, err := c.expander.Expand(form)
	if err != nil {
		return err
	}

	if atom.IsSymbol(form) {
		compileRef(atom.To(form), env, code)

		return nil
	}

	if !pair.Is(form) || form == pair.Null {
		// Everything that is not a symbol or a form evaluates
		// to itself.
		emit(code, vm.Instruction{Op: vm.OpConst, Data: form})

		return nil
	}

	head := pair.Car(form)
	if atom.IsSymbol(head) {
		switch atom.To(head) {
		case symBegin:
			return c.compileBegin(pair.Cdr(form), env, tail, code)
		case symDefine:
			return c.compileDefine(form, env, code)
		case symIf:
			return c.compileIf(form, env, tail, code)
		case symLambda:
			return c.compileLambda(form, nil, env, code)
		case symQuote:
			args, ok := proper(pair.Cdr(form))
			if !ok || len(args) != 1 {
				return fault.NewCompile("quote requires a single form", form)
			}

			emit(code, vm.Instruction{Op: vm.OpConst, Data: args[0]})

			return nil
		case symSet:
			return c.compileSet(form, env, code)
		}
	}

	return c.compileCall(form, env, tail, code)
}

// compileBegin lowers a form sequence. Only the last value survives;
// only the last form is in tail position.
func (c *compiler) compileBegin(body cell.I, env *cscope, tail bool, code *[]vm.Instruction) error {
	forms, ok := proper(body)
	if !ok {
		return fault.NewCompile("invalid body", body)
	}

	if len(forms) == 0 {
		emit(code, vm.Instruction{Op: vm.OpConst, Data: pair.Null})

		return nil
	}

	for _, f := range forms[:len(forms)-1] {
		if err := c.compile(f, env, false, code); err != nil {
			return err
		}

		emit(code, vm.Instruction{Op: vm.OpPop})
	}

	return c.compile(forms[len(forms)-1], env, tail, code)
}

// compileCall lowers a procedure call. In tail position a call that
// provably re-enters the enclosing function, with matching arity,
// becomes a jump to its entry point; any other tail call is lowered
// to the vm's tail dispatch.
func (c *compiler) compileCall(form cell.I, env *cscope, tail bool, code *[]vm.Instruction) error {
	forms, ok := proper(form)
	if !ok {
		return fault.NewCompile("invalid call", form)
	}

	callee := forms[0]
	args := forms[1:]

	selfJump := tail && env.self != nil &&
		atom.IsSymbol(callee) && resolvesToSelf(atom.To(callee), env) &&
		len(args) == len(env.params)

	if selfJump {
		emit(code, vm.Instruction{Op: vm.OpSelf})
	} else if err := c.compile(callee, env, false, code); err != nil {
		return err
	}

	for _, a := range args {
		if err := c.compile(a, env, false, code); err != nil {
			return err
		}
	}

	op := vm.OpCall

	switch {
	case selfJump:
		op = vm.OpSelfJump
	case tail:
		op = vm.OpTailCall
	}

	emit(code, vm.Instruction{Op: op, Arg: len(args)})

	return nil
}

// compileDefine lowers both spellings of define. The procedure
// spelling records the name as the unit's self-name, which is what
// makes self tail calls provable.
func (c *compiler) compileDefine(form cell.I, env *cscope, code *[]vm.Instruction) error {
	forms, ok := proper(pair.Cdr(form))
	if !ok || len(forms) < 2 {
		return fault.NewCompile("define requires a name and a value", form)
	}

	target := forms[0]

	if pair.Is(target) && target != pair.Null {
		// (define (name params...) body...) names a procedure.
		sig, ok := proper(target)
		if !ok || len(sig) == 0 || !atom.IsSymbol(sig[0]) {
			return fault.NewCompile("invalid procedure signature", form)
		}

		name := atom.To(sig[0])

		lambda := pair.Cons(symLambda, pair.Cons(pair.Cdr(target), pair.Cdr(pair.Cdr(form))))
		pair.SetSource(lambda, pair.Source(form))

		if err := c.compileLambda(lambda, name, env, code); err != nil {
			return err
		}

		emit(code, vm.Instruction{Op: vm.OpSetGlobal, Arg: 1, Data: name})
		emit(code, vm.Instruction{Op: vm.OpConst, Data: name})

		return nil
	}

	if !atom.IsSymbol(target) {
		return fault.NewCompile("define requires a name", form)
	}

	if len(forms) != 2 {
		return fault.NewCompile("define requires a single value", form)
	}

	if err := c.compile(forms[1], env, false, code); err != nil {
		return err
	}

	name := atom.To(target)

	emit(code, vm.Instruction{Op: vm.OpSetGlobal, Arg: 1, Data: name})
	emit(code, vm.Instruction{Op: vm.OpConst, Data: name})

	return nil
}

func (c *compiler) compileIf(form cell.I, env *cscope, tail bool, code *[]vm.Instruction) error {
	forms, ok := proper(pair.Cdr(form))
	if !ok || len(forms) < 2 || len(forms) > 3 {
		return fault.NewCompile("if requires a condition, a consequent and an optional alternative", form)
	}

	if err := c.compile(forms[0], env, false, code); err != nil {
		return err
	}

	toElse := len(*code)

	emit(code, vm.Instruction{Op: vm.OpJumpFalse})

	if err := c.compile(forms[1], env, tail, code); err != nil {
		return err
	}

	toEnd := len(*code)

	emit(code, vm.Instruction{Op: vm.OpJump})

	(*code)[toElse].Arg = len(*code)

	if len(forms) == 3 {
		if err := c.compile(forms[2], env, tail, code); err != nil {
			return err
		}
	} else {
		emit(code, vm.Instruction{Op: vm.OpConst, Data: pair.Null})
	}

	(*code)[toEnd].Arg = len(*code)

	return nil
}

// compileLambda lowers a function to its own template and emits the
// instruction that closes the template over the current frame. A
// non-nil self becomes the template's self-name.
func (c *compiler) compileLambda(form cell.I, self *atom.T, env *cscope, code *[]vm.Instruction) error {
	forms, ok := proper(pair.Cdr(form))
	if !ok || len(forms) < 1 {
		return fault.NewCompile("lambda requires a parameter list", form)
	}

	names, ok := proper(forms[0])
	if !ok {
		return fault.NewCompile("invalid parameter list", form)
	}

	params := make([]*atom.T, len(names))

	for i, n := range names {
		if !atom.IsSymbol(n) {
			return fault.NewCompile("parameter names must be symbols", form)
		}

		params[i] = atom.To(n)
	}

	inner := &cscope{params: params, self: self, up: env}

	var body []vm.Instruction

	if err := c.compileBegin(pair.Cdr(pair.Cdr(form)), inner, true, &body); err != nil {
		return err
	}

	body = append(body, vm.Instruction{Op: vm.OpReturn})

	t := &vm.Template{Self: self, Params: params, Code: body}

	emit(code, vm.Instruction{Op: vm.OpClosure, Data: t})

	return nil
}

func (c *compiler) compileSet(form cell.I, env *cscope, code *[]vm.Instruction) error {
	forms, ok := proper(pair.Cdr(form))
	if !ok || len(forms) != 2 || !atom.IsSymbol(forms[0]) {
		return fault.NewCompile("set! requires a name and a value", form)
	}

	if err := c.compile(forms[1], env, false, code); err != nil {
		return err
	}

	name := atom.To(forms[0])

	if depth, slot, ok := lookup(name, env); ok {
		emit(code, vm.Instruction{Op: vm.OpSetLocal, Arg: depth, Arg2: slot})
	} else {
		emit(code, vm.Instruction{Op: vm.OpSetGlobal, Data: name})
	}

	emit(code, vm.Instruction{Op: vm.OpConst, Data: pair.Null})

	return nil
}

// compileRef lowers a variable reference. Parameters win over the
// self-name, the self-name over outer scopes, outer scopes over
// globals.
func compileRef(name *atom.T, env *cscope, code *[]vm.Instruction) {
	depth := 0

	for s := env; s != nil; s = s.up {
		for slot, p := range s.params {
			if p == name {
				emit(code, vm.Instruction{Op: vm.OpLocal, Arg: depth, Arg2: slot})

				return
			}
		}

		if s.self == name {
			emit(code, vm.Instruction{Op: vm.OpSelf, Arg: depth})

			return
		}

		depth++
	}

	emit(code, vm.Instruction{Op: vm.OpGlobal, Data: name})
}

func emit(code *[]vm.Instruction, i vm.Instruction) {
	*code = append(*code, i)
}

// lookup resolves name to a parameter slot, if it is one.
func lookup(name *atom.T, env *cscope) (depth, slot int, ok bool) {
	for s := env; s != nil; s = s.up {
		for i, p := range s.params {
			if p == name {
				return depth, i, true
			}
		}

		if s.self == name {
			// Shadowed by the self-name; not a slot.
			return 0, 0, false
		}

		depth++
	}

	return 0, 0, false
}

// proper returns the elements of c when c is an acyclic proper list.
func proper(c cell.I) ([]cell.I, bool) {
	var elements []cell.I

	seen := map[cell.I]struct{}{}

	for c != pair.Null {
		if !pair.Is(c) {
			return nil, false
		}

		if _, ok := seen[c]; ok {
			return nil, false
		}

		seen[c] = struct{}{}

		elements = append(elements, pair.Car(c))

		c = pair.Cdr(c)
	}

	return elements, true
}

// resolvesToSelf reports whether name, resolved lexically from env,
// denotes the innermost enclosing function itself.
func resolvesToSelf(name *atom.T, env *cscope) bool {
	for _, p := range env.params {
		if p == name {
			return false
		}
	}

	return env.self == name
}
