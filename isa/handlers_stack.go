package isa

import (
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/organism"
)

func handlePUSH(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	v, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	if _, err := v.AsScalar(); err != nil {
		return err
	}
	return o.PushData(v)
}

func handlePOP(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	v, err := o.PopData()
	if err != nil {
		return err
	}
	return o.SetRegister(ops[0].RegisterID, v)
}

func handlePUSHV(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	c, err := o.GetLR(ops[0].RegisterID)
	if err != nil {
		return err
	}
	return o.PushData(organism.VectorValue(c))
}

func handlePOPV(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	v, err := o.PopData()
	if err != nil {
		return err
	}
	c, err := v.AsVector()
	if err != nil {
		return err
	}
	return o.SetLR(ops[0].RegisterID, c)
}

func handlePUSHL(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	c, err := o.GetLR(ops[0].RegisterID)
	if err != nil {
		return err
	}
	return o.PushLocation(c)
}

func handlePOPL(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	c, err := o.PopLocation()
	if err != nil {
		return err
	}
	return o.SetLR(ops[0].RegisterID, c)
}
