package isa

import (
	"fmt"

	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/regid"
	"github.com/evochora/evochora/vector"
)

func handleSETPI(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	idx := int(ops[0].Literal.Value) % regid.NumDataPointers
	if idx < 0 {
		idx += regid.NumDataPointers
	}
	return o.SetActiveDPIndex(idx)
}

func handleSETPR(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	v, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	w, err := v.AsScalar()
	if err != nil {
		return err
	}
	idx := int(molecule.Decode(w).Value) % regid.NumDataPointers
	if idx < 0 {
		idx += regid.NumDataPointers
	}
	return o.SetActiveDPIndex(idx)
}

func handleSYNC(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
	c, err := o.GetLR(ops[0].RegisterID)
	if err != nil {
		return err
	}
	n, ok := e.Normalize(c)
	if !ok {
		return fmt.Errorf("SYNC: location register coordinate out of bounds")
	}
	o.DPs[o.ActiveDPIndex] = n
	return nil
}

func handleSCAN(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
	w, err := e.Get(o.ActiveDP())
	if err != nil {
		return err
	}
	return o.SetRegister(ops[0].RegisterID, organism.ScalarValue(w))
}

func handlePOKE(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
	v, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	w, err := v.AsScalar()
	if err != nil {
		return err
	}
	ok, err := e.WriteOwned(o.ActiveDP(), w, o.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("POKE: target cell is owned by another organism")
	}
	return nil
}

// seekTo moves the active DP to target iff target holds a non-empty
// molecule owned by o (spec §4.7: SEEK/SEKI/SEKS require the target to be
// non-empty and owned by self; on failure the DP is left unchanged).
func seekTo(o *organism.Organism, e *env.Environment, delta vector.Coord) error {
	target, err := o.GetTargetCoordinate(o.ActiveDP(), delta, e)
	if err != nil {
		return err
	}
	w, err := e.Get(target)
	if err != nil {
		return err
	}
	owner, err := e.Owner(target)
	if err != nil {
		return err
	}
	if molecule.IsEmpty(w) || owner != o.ID {
		return fmt.Errorf("SEEK: target is not owned by self")
	}
	o.DPs[o.ActiveDPIndex] = target
	return nil
}

func handleSEEK(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
	v, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	delta, err := v.AsVector()
	if err != nil {
		return err
	}
	return seekTo(o, e, delta)
}

func handleSEKI(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
	return seekTo(o, e, ops[0].Delta)
}

func handleSEKS(o *organism.Organism, e *env.Environment, _ []Operand, _ *ExecContext) error {
	v, err := o.PopData()
	if err != nil {
		return err
	}
	delta, err := v.AsVector()
	if err != nil {
		return err
	}
	return seekTo(o, e, delta)
}
