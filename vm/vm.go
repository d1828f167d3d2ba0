// Package vm implements the two-phase per-organism, per-tick executor
// (spec §4.7): plan (disassemble and resolve operands) then execute
// (charge energy, dispatch to the opcode handler, advance or hold ip).
package vm

import (
	"errors"

	"github.com/evochora/evochora/disasm"
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/isa"
	"github.com/evochora/evochora/memread"
	"github.com/evochora/evochora/organism"
)

// Step advances o by exactly one instruction in e, using reg to decode
// and dispatch. ctx carries the scheduler services (fork id allocation,
// child enqueueing) opcode handlers beyond NOP/arithmetic may need. The
// caller is responsible for calling o.ClearTransientFlags() before Step,
// so stale instructionFailed/failureReason from a prior tick never leak
// into this one's outcome.
func Step(o *organism.Organism, e *env.Environment, reg *isa.Registry, ctx *isa.ExecContext) {
	if o.IsDead {
		return
	}
	o.IPBeforeFetch = o.IP.Clone()
	o.DVBeforeFetch = o.DV.Clone()

	if o.SkipNextInstruction {
		o.SkipNextInstruction = false
		length := 1
		if inst, err := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, o.IP, o.DV); err == nil {
			length = inst.Length
		}
		advance(o, e, length)
		return
	}

	inst, err := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, o.IP, o.DV)
	if err != nil {
		switch {
		case errors.Is(err, disasm.ErrIllegalCellType):
			o.Fail("Illegal cell type")
		case errors.Is(err, disasm.ErrEmptyCell):
			o.Fail("Unknown opcode")
		default:
			o.Fail(err.Error())
		}
		advance(o, e, 1)
		return
	}
	if inst.FailureReason != "" {
		o.Fail(inst.FailureReason)
		advance(o, e, inst.Length)
		return
	}

	operands := resolveOperands(inst, e)

	o.ER -= inst.Opcode.EnergyCost
	if o.ER <= 0 {
		o.IsDead = true
		o.Fail("Ran out of energy")
		return
	}

	if ctx != nil {
		ctx.CurrentInstructionLength = inst.Length
	}
	dataStack, locationStack := o.DataStack, o.LocationStack
	if err := inst.Opcode.Handler(o, e, operands, ctx); err != nil {
		o.DataStack, o.LocationStack = dataStack, locationStack
		o.Fail(err.Error())
	}

	if !o.SkipIPAdvance {
		advance(o, e, inst.Length)
	}
	o.SkipIPAdvance = false
}

// advance moves o.IP forward n cells along o.DV, wrapping/rejecting per
// e's per-axis toroidal policy. A target that falls outside a
// non-toroidal axis is left as the best-effort normalized coordinate is
// undefined for; the instruction's own failure (if any) already recorded
// the cause, so advance degrades to leaving ip unchanged rather than
// panicking.
func advance(o *organism.Organism, e *env.Environment, n int) {
	target, err := o.GetTargetCoordinate(o.IP, scale(o.DV, n), e)
	if err != nil {
		return
	}
	o.IP = target
}

func scale(dv []int, n int) []int {
	out := make([]int, len(dv))
	for i, d := range dv {
		out[i] = d * n
	}
	return out
}
