// Package organism implements the per-agent state machine described in
// spec §3/§4.6: registers, stacks, pointers, energy, and the transient
// per-tick failure flags the VM consults and clears.
package organism

import (
	"fmt"

	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/regid"
	"github.com/evochora/evochora/vector"
)

// ProcFrame is pushed on CALL and popped on RET (spec §3). FPRBindings
// chains across nested calls: a binding may itself name another FPR in an
// outer frame, resolved by walking frames until a non-FPR source is
// found (spec §9).
type ProcFrame struct {
	ProcName    string
	ReturnIP    vector.Coord
	SavedPRs    [regid.NumProcRegisters]Value
	SavedFPRs   [regid.NumFormalParamRegisters]Value
	FPRBindings [regid.NumFormalParamRegisters]int
}

// Organism is one agent's complete state. Only the owning VM step mutates
// it (plus world-gen's indirect effect on energy-bearing cells it later
// reads); it holds no reference back to its simulation (spec §9).
type Organism struct {
	ID        int64
	ProgramID string
	ParentID  *int64
	BirthTick int64

	IP vector.Coord
	DV vector.Coord

	DPs           [regid.NumDataPointers]vector.Coord
	ActiveDPIndex int

	LRs [regid.NumLocationRegisters]vector.Coord

	DRs  [regid.NumDataRegisters]Value
	PRs  [regid.NumProcRegisters]Value
	FPRs [regid.NumFormalParamRegisters]Value

	DataStack     []Value
	LocationStack []vector.Coord
	CallStack     []ProcFrame

	ER int64

	IPBeforeFetch vector.Coord
	DVBeforeFetch vector.Coord

	InstructionFailed   bool
	FailureReason       string
	SkipNextInstruction bool
	SkipIPAdvance       bool
	IsDead              bool
}

// New constructs an organism at the given position with the given
// direction and starting energy. LRs start at the zero vector (spec §3);
// DPs all start at ip, the natural "nothing sensed yet" default.
func New(id int64, programID string, parentID *int64, birthTick int64, ip, dv vector.Coord, energy int64) *Organism {
	o := &Organism{
		ID:        id,
		ProgramID: programID,
		ParentID:  parentID,
		BirthTick: birthTick,
		IP:        ip.Clone(),
		DV:        dv.Clone(),
		ER:        energy,
	}
	zero := make(vector.Coord, len(ip))
	for i := range o.LRs {
		o.LRs[i] = zero.Clone()
	}
	for i := range o.DPs {
		o.DPs[i] = ip.Clone()
	}
	return o
}

// ClearTransientFlags resets the per-tick failure flags (InstructionFailed
// and FailureReason). The scheduler calls this at the start of planning
// each organism's turn so stale failures from a prior tick never leak into
// the next one's snapshot except as the terminal record of the tick that
// set them. SkipNextInstruction is left as is: it carries into the next
// tick, where vm.Step consumes it.
func (o *Organism) ClearTransientFlags() {
	o.InstructionFailed = false
	o.FailureReason = ""
}

// Fail marks the current instruction as a recoverable OrganismFailure
// (spec §7). It never kills the organism by itself.
func (o *Organism) Fail(reason string) {
	o.InstructionFailed = true
	o.FailureReason = reason
}

// Kill marks the organism dead (terminal OrganismDeath, spec §7).
func (o *Organism) Kill(reason string) {
	o.IsDead = true
	o.InstructionFailed = true
	o.FailureReason = reason
}

// ActiveDP returns the currently active data pointer coordinate.
func (o *Organism) ActiveDP() vector.Coord {
	return o.DPs[o.ActiveDPIndex]
}

// GetRegister resolves a numeric register id (DR, PR, or FPR namespace)
// to its current Value. An id outside all three ranges fails with a
// message containing "index out of bounds", per spec §4.6, and leaves the
// organism otherwise unchanged.
func (o *Organism) GetRegister(id int) (Value, error) {
	class, idx := regid.Classify(id)
	switch class {
	case regid.DR:
		return o.DRs[idx], nil
	case regid.PR:
		return o.PRs[idx], nil
	case regid.FPR:
		return o.resolveFPR(idx)
	default:
		return Value{}, fmt.Errorf("register id %d: index out of bounds", id)
	}
}

// SetRegister writes v to the register named by id. Writing through an
// FPR id updates the concrete register that FPR currently resolves to
// (which may be in an outer call frame), matching the "FPR is a window
// onto a caller's register" semantics CALL/RET establish.
func (o *Organism) SetRegister(id int, v Value) error {
	class, idx := regid.Classify(id)
	switch class {
	case regid.DR:
		o.DRs[idx] = v
		return nil
	case regid.PR:
		o.PRs[idx] = v
		return nil
	case regid.FPR:
		target, err := o.resolveFPRTarget(idx)
		if err != nil {
			return err
		}
		return o.SetRegister(target, v)
	default:
		return fmt.Errorf("register id %d: index out of bounds", id)
	}
}

// resolveFPRTarget walks the fprBindings chain (spec §9) starting at the
// current call frame's binding for fpr index idx, until it lands on a
// non-FPR register id.
func (o *Organism) resolveFPRTarget(idx int) (int, error) {
	if idx < 0 || idx >= regid.NumFormalParamRegisters {
		return 0, fmt.Errorf("fpr index %d: index out of bounds", idx)
	}
	if len(o.CallStack) == 0 {
		return 0, fmt.Errorf("fpr %d: index out of bounds (no active call frame)", idx)
	}
	frame := &o.CallStack[len(o.CallStack)-1]
	source := frame.FPRBindings[idx]
	class, sourceIdx := regid.Classify(source)
	if class == regid.FPR {
		// Resolve against the *caller's* frame, one level further out:
		// an FPR binding that names another FPR refers to the outer
		// scope, not this one.
		return o.resolveFPRTargetAt(len(o.CallStack)-2, sourceIdx)
	}
	return source, nil
}

func (o *Organism) resolveFPRTargetAt(frameIdx, idx int) (int, error) {
	if frameIdx < 0 {
		return 0, fmt.Errorf("fpr %d: index out of bounds (binding chain exhausted)", idx)
	}
	frame := &o.CallStack[frameIdx]
	source := frame.FPRBindings[idx]
	class, sourceIdx := regid.Classify(source)
	if class == regid.FPR {
		return o.resolveFPRTargetAt(frameIdx-1, sourceIdx)
	}
	return source, nil
}

func (o *Organism) resolveFPR(idx int) (Value, error) {
	target, err := o.resolveFPRTarget(idx)
	if err != nil {
		return Value{}, err
	}
	return o.GetRegister(target)
}

// GetLR returns the coordinate stored in location register id.
func (o *Organism) GetLR(id int) (vector.Coord, error) {
	if id < 0 || id >= regid.NumLocationRegisters {
		return nil, fmt.Errorf("location register %d: index out of bounds", id)
	}
	return o.LRs[id], nil
}

// SetLR sets location register id to c.
func (o *Organism) SetLR(id int, c vector.Coord) error {
	if id < 0 || id >= regid.NumLocationRegisters {
		return fmt.Errorf("location register %d: index out of bounds", id)
	}
	o.LRs[id] = c
	return nil
}

// SetActiveDPIndex changes which data pointer subsequent DP-implicit
// instructions address.
func (o *Organism) SetActiveDPIndex(idx int) error {
	if idx < 0 || idx >= regid.NumDataPointers {
		return fmt.Errorf("data pointer %d: index out of bounds", idx)
	}
	o.ActiveDPIndex = idx
	return nil
}

// PushData pushes v onto the data stack, failing with a bounds error if
// the stack is already at its configured maximum depth.
func (o *Organism) PushData(v Value) error {
	if len(o.DataStack) >= regid.DataStackMaxDepth {
		return fmt.Errorf("data stack overflow: max depth %d", regid.DataStackMaxDepth)
	}
	o.DataStack = append(o.DataStack, v)
	return nil
}

// PopData pops and returns the top of the data stack.
func (o *Organism) PopData() (Value, error) {
	if len(o.DataStack) == 0 {
		return Value{}, fmt.Errorf("data stack underflow")
	}
	top := o.DataStack[len(o.DataStack)-1]
	o.DataStack = o.DataStack[:len(o.DataStack)-1]
	return top, nil
}

// PushLocation pushes c onto the location stack.
func (o *Organism) PushLocation(c vector.Coord) error {
	if len(o.LocationStack) >= regid.LocationStackMaxDepth {
		return fmt.Errorf("location stack overflow: max depth %d", regid.LocationStackMaxDepth)
	}
	o.LocationStack = append(o.LocationStack, c)
	return nil
}

// PopLocation pops and returns the top of the location stack.
func (o *Organism) PopLocation() (vector.Coord, error) {
	if len(o.LocationStack) == 0 {
		return nil, fmt.Errorf("location stack underflow")
	}
	top := o.LocationStack[len(o.LocationStack)-1]
	o.LocationStack = o.LocationStack[:len(o.LocationStack)-1]
	return top, nil
}

// PushCall pushes a procedure frame, failing if the call stack is already
// at its configured maximum depth.
func (o *Organism) PushCall(f ProcFrame) error {
	if len(o.CallStack) >= regid.CallStackMaxDepth {
		return fmt.Errorf("call stack overflow: max depth %d", regid.CallStackMaxDepth)
	}
	o.CallStack = append(o.CallStack, f)
	return nil
}

// PopCall pops and returns the top procedure frame.
func (o *Organism) PopCall() (ProcFrame, error) {
	if len(o.CallStack) == 0 {
		return ProcFrame{}, fmt.Errorf("call stack underflow")
	}
	top := o.CallStack[len(o.CallStack)-1]
	o.CallStack = o.CallStack[:len(o.CallStack)-1]
	return top, nil
}

// GetTargetCoordinate returns normalize(base + delta) in e, or an error if
// the result falls outside e on a non-toroidal axis.
func (o *Organism) GetTargetCoordinate(base vector.Coord, delta vector.Coord, e *env.Environment) (vector.Coord, error) {
	c, ok := e.Normalize(base.Add(delta))
	if !ok {
		return nil, fmt.Errorf("target coordinate out of bounds")
	}
	return c, nil
}

// GetNextInstructionPosition returns normalize(pos + dv) in e.
func (o *Organism) GetNextInstructionPosition(pos, dv vector.Coord, e *env.Environment) (vector.Coord, error) {
	return o.GetTargetCoordinate(pos, dv, e)
}
