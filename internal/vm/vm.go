// Released under an MIT license. See LICENSE.

// Package vm executes the units produced by the sylva compiler.
//
// Tail calls never grow the Go stack. A tail call that provably
// re-enters the executing closure rebinds its parameter slots and
// jumps back to its entry point. Any other tail call is deferred:
// the executing unit returns a bounce and the trampoline in Call,
// one frame down, dispatches it after the frame has been unwound.
// Mutually recursive tail calls therefore run in constant space.
package vm

import (
	"fmt"

	"github.com/ahills/sylva/internal/common"
	"github.com/ahills/sylva/internal/common/interface/cell"
	"github.com/ahills/sylva/internal/common/interface/truth"
	"github.com/ahills/sylva/internal/common/type/atom"
	"github.com/ahills/sylva/internal/common/type/pair"
)

// Call invokes callee with args and runs deferred tail calls until
// a value is produced.
func Call(callee cell.I, args []cell.I) (cell.I, error) {
	for {
		switch f := callee.(type) {
		case *Builtin:
			return f.Fn(args)

		case *closure:
			v, err := exec(f, args)
			if err != nil {
				return nil, err
			}

			b, ok := v.(*bounce)
			if !ok {
				return v, nil
			}

			callee, args = b.callee, b.args

		default:
			panic(callee.Name() + " is not callable")
		}
	}
}

// Run executes the zero-parameter unit t in the scope sc.
func Run(t *Template, sc *Scope) (cell.I, error) {
	return Call(NewClosure(t, sc), nil)
}

//nolint:gocognit,gocyclo
func exec(cl *closure, args []cell.I) (cell.I, error) {
	t := cl.tmpl

	checkArity(t, args)

	f := &frame{cl: cl, slots: args, up: cl.frame}

	var stack []cell.I

	code := t.Code

	for pc := 0; pc < len(code); pc++ {
		i := code[pc]

		switch i.Op {
		case OpConst:
			stack = append(stack, i.Data)

		case OpLocal:
			stack = append(stack, frameAt(f, i.Arg).slots[i.Arg2])

		case OpSetLocal:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			frameAt(f, i.Arg).slots[i.Arg2] = v

		case OpGlobal:
			name := atom.To(i.Data)

			v, ok := cl.scope.Get(name)
			if !ok {
				panic("'" + name.String() + "' is not defined")
			}

			stack = append(stack, v)

		case OpSetGlobal:
			name := atom.To(i.Data)

			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if i.Arg != 0 {
				cl.scope.Define(name, v)
			} else if !cl.scope.Set(name, v) {
				panic("'" + name.String() + "' is not defined")
			}

		case OpSelf:
			stack = append(stack, cell.I(frameAt(f, i.Arg).cl))

		case OpClosure:
			nested := i.Data.(*Template) //nolint:forcetypeassert

			stack = append(stack, cell.I(&closure{
				tmpl: nested, frame: f, scope: cl.scope,
			}))

		case OpJump:
			pc = i.Arg - 1

		case OpJumpFalse:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !truth.Value(v) {
				pc = i.Arg - 1
			}

		case OpCall:
			callee, passed := popCall(&stack, i.Arg)

			v, err := Call(callee, passed)
			if err != nil {
				return nil, err
			}

			stack = append(stack, v)

		case OpTailCall:
			callee, passed := popCall(&stack, i.Arg)

			if b, ok := callee.(*Builtin); ok {
				return b.Fn(passed)
			}

			if c, ok := callee.(*closure); ok && c == cl &&
				len(passed) == len(t.Params) {
				f.slots = passed
				stack = stack[:0]
				pc = -1

				continue
			}

			return &bounce{callee: callee, args: passed}, nil

		case OpSelfJump:
			// Arity was proved at compile time; rebind in place.
			_, passed := popCall(&stack, i.Arg)

			f.slots = passed
			stack = stack[:0]
			pc = -1

		case OpPop:
			stack = stack[:len(stack)-1]

		case OpReturn:
			return stack[len(stack)-1], nil
		}
	}

	return pair.Null, nil
}

func checkArity(t *Template, args []cell.I) {
	if len(args) == len(t.Params) {
		return
	}

	label := "closure"
	if t.Self != nil {
		label = t.Self.String()
	}

	panic(fmt.Sprintf("%s: expected %d argument(s), passed %d",
		label, len(t.Params), len(args)))
}

func display(c cell.I) string {
	return common.String(c)
}

func frameAt(f *frame, depth int) *frame {
	for ; depth > 0; depth-- {
		f = f.up
	}

	return f
}

// popCall removes a callee and count arguments from the stack.
// The callee is pushed first, the arguments left to right after it.
func popCall(stack *[]cell.I, count int) (cell.I, []cell.I) {
	s := *stack

	base := len(s) - count - 1
	callee := s[base]

	args := make([]cell.I, count)
	copy(args, s[base+1:])

	*stack = s[:base]

	return callee, args
}
