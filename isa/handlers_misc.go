package isa

import (
	"fmt"

	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/organism"
)

func handleNOP(_ *organism.Organism, _ *env.Environment, _ []Operand, _ *ExecContext) error {
	return nil
}

func handleSETI(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	w := ops[1].Literal.ToWord()
	return o.SetRegister(ops[0].RegisterID, organism.ScalarValue(w))
}

func handleSETR(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	v, err := o.GetRegister(ops[1].RegisterID)
	if err != nil {
		return err
	}
	return o.SetRegister(ops[0].RegisterID, v)
}

func handleSETL(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
	c, ok := e.Normalize(ops[1].Delta)
	if !ok {
		return fmt.Errorf("SETL: vector out of bounds")
	}
	return o.SetLR(ops[0].RegisterID, c)
}

func handleFORK(o *organism.Organism, e *env.Environment, _ []Operand, ctx *ExecContext) error {
	if ctx == nil || ctx.Spawn == nil || ctx.AllocateID == nil {
		return fmt.Errorf("FORK: no scheduler context available")
	}
	share := ctx.ForkEnergyShare
	if share <= 0 || share > 1 {
		share = 0.5
	}
	childEnergy := int64(float64(o.ER) * share)
	if childEnergy < 0 {
		childEnergy = 0
	}

	pos, err := o.GetTargetCoordinate(o.IP, o.DV, e)
	if err != nil {
		return err
	}

	parentID := o.ID
	child := organism.New(ctx.AllocateID(), o.ProgramID, &parentID, ctx.CurrentTick, pos, o.DV.Clone(), childEnergy)
	o.ER -= childEnergy
	ctx.Spawn(child)
	return nil
}

func handleKILL(o *organism.Organism, _ *env.Environment, _ []Operand, _ *ExecContext) error {
	o.IsDead = true
	return nil
}
