package isa

import (
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/vector"
)

// Operand is one resolved argument of a planned instruction: a REGISTER
// or LOCATION_REGISTER argument resolves to the numeric id it names
// (register file access is the handler's job, not the resolver's, so
// that a handler can choose to write instead of read); a LITERAL resolves
// to its molecule; a VECTOR keeps only its raw relative delta; a LABEL
// keeps its raw delta and also resolves to an absolute, already-normalized
// coordinate (spec §4.7 resolves LABEL to "a relative coordinate").
type Operand struct {
	Signature  ArgSignature
	RegisterID int            // REGISTER, LOCATION_REGISTER
	Literal    molecule.Molecule // LITERAL
	Delta      vector.Coord   // VECTOR, LABEL: raw argument value
	Resolved   vector.Coord   // LABEL only: normalize(ip + Delta); nil if out of bounds
}

// ExecContext carries the handful of simulation-level services a handler
// may need beyond the organism and environment it is already given:
// allocating a child id and enqueueing it for the scheduler (FORK), and
// knowing the current tick for bookkeeping. It exists so isa/vm need not
// import the sim package (which would cycle back through vm).
type ExecContext struct {
	CurrentTick    int64
	AllocateID     func() int64
	Spawn          func(child *organism.Organism)
	ForkEnergyShare float64
	// CurrentInstructionLength is the cell length (opcode plus arguments)
	// of the instruction currently executing, in the world's
	// dimensionality. CALL needs it to compute the return address before
	// the planner advances IP past this instruction.
	CurrentInstructionLength int
}

// HandlerFunc implements one opcode's behavior. It validates its
// preconditions before writing registers, pointers, ip or e; data and
// location stack entries it popped before returning an error are put back
// by vm.Step, so a returned error leaves organism state untouched except
// for the failure flags the caller sets from it (spec §7, "Isolation of
// failures"). Handlers signal
// conditionals by setting o.SkipNextInstruction, and jumps/calls/returns
// by setting o.IP and o.SkipIPAdvance, directly.
type HandlerFunc func(o *organism.Organism, e *env.Environment, operands []Operand, ctx *ExecContext) error
