// Released under an MIT license. See LICENSE.

package vm

import (
	"strconv"

	"github.com/ahills/sylva/internal/common/interface/cell"
)

// Op is an instruction opcode.
type Op int

// Instruction opcodes.
const (
	OpConst Op = iota // Push Data.
	OpLocal           // Push local slot Arg2 at depth Arg.
	OpSetLocal        // Pop into local slot Arg2 at depth Arg.
	OpGlobal          // Push the global named by Data.
	OpSetGlobal       // Pop into the global named by Data; Arg != 0 defines.
	OpSelf            // Push the executing closure at depth Arg.
	OpClosure         // Instantiate the template Data in the current frame.
	OpJump            // Jump to Arg.
	OpJumpFalse       // Pop; jump to Arg when falsy.
	OpCall            // Pop Arg arguments and a callee; push the result.
	OpTailCall        // Pop Arg arguments and a callee; tail dispatch.
	OpSelfJump        // Pop Arg arguments into the parameter slots; jump to 0.
	OpPop             // Drop the top of the stack.
	OpReturn          // Return the top of the stack.
)

// Instruction is one operation of an executable unit.
type Instruction struct {
	Op   Op
	Arg  int
	Arg2 int
	Data cell.I
}

// String returns a readable rendering of the opcode o.
func (o Op) String() string {
	switch o {
	case OpConst:
		return "const"
	case OpLocal:
		return "local"
	case OpSetLocal:
		return "setlocal"
	case OpGlobal:
		return "global"
	case OpSetGlobal:
		return "setglobal"
	case OpSelf:
		return "self"
	case OpClosure:
		return "closure"
	case OpJump:
		return "jump"
	case OpJumpFalse:
		return "jumpfalse"
	case OpCall:
		return "call"
	case OpTailCall:
		return "tailcall"
	case OpSelfJump:
		return "selfjump"
	case OpPop:
		return "pop"
	case OpReturn:
		return "return"
	}

	return "op(" + strconv.Itoa(int(o)) + ")"
}

// String returns a readable rendering of the instruction i.
func (i Instruction) String() string {
	s := i.Op.String() + " " + strconv.Itoa(i.Arg)

	if i.Op == OpLocal || i.Op == OpSetLocal {
		s += " " + strconv.Itoa(i.Arg2)
	}

	if i.Data != nil {
		s += " " + display(i.Data)
	}

	return s
}
