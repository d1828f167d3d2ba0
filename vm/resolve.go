package vm

import (
	"github.com/evochora/evochora/disasm"
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/isa"
)

// resolveOperands turns a disassembled instruction's neutral argument
// list into the operands a handler actually consumes (spec §4.7). A
// LABEL's Resolved coordinate is recomputed here against the live
// environment's real per-axis toroidal policy, rather than trusting
// disasm's own best-effort wrap (disasm has no Environment to consult,
// only a memread.Reader).
func resolveOperands(inst disasm.Instruction, e *env.Environment) []isa.Operand {
	ops := make([]isa.Operand, len(inst.Args))
	for i, a := range inst.Args {
		op := isa.Operand{
			Signature:  a.Signature,
			RegisterID: a.RegisterID,
			Literal:    a.Literal,
			Delta:      a.Delta,
		}
		if a.Signature == isa.LABEL {
			if resolved, ok := e.Normalize(inst.Position.Add(a.Delta)); ok {
				op.Resolved = resolved
			}
		}
		ops[i] = op
	}
	return ops
}
