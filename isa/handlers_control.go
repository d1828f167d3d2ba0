package isa

import (
	"fmt"

	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/regid"
	"github.com/evochora/evochora/vector"
)

func handleJMPI(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	if ops[0].Resolved == nil {
		return fmt.Errorf("JMPI: target out of bounds")
	}
	o.IP = ops[0].Resolved
	o.SkipIPAdvance = true
	return nil
}

func handleJMPR(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
	v, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	target, err := v.AsVector()
	if err != nil {
		return err
	}
	n, ok := e.Normalize(target)
	if !ok {
		return fmt.Errorf("JMPR: target out of bounds")
	}
	o.IP = n
	o.SkipIPAdvance = true
	return nil
}

// returnAddressAfter returns normalize(ip + dv*length), the coordinate
// immediately past the currently-executing instruction.
func returnAddressAfter(o *organism.Organism, e *env.Environment, length int) (vector.Coord, error) {
	step := make(vector.Coord, len(o.DV))
	for i, d := range o.DV {
		step[i] = d * length
	}
	n, ok := e.Normalize(o.IPBeforeFetch.Add(step))
	if !ok {
		return nil, fmt.Errorf("CALL: return address out of bounds")
	}
	return n, nil
}

func handleCALL(o *organism.Organism, e *env.Environment, ops []Operand, ctx *ExecContext) error {
	if ops[0].Resolved == nil {
		return fmt.Errorf("CALL: target out of bounds")
	}
	if ctx == nil {
		return fmt.Errorf("CALL: no exec context available")
	}
	retIP, err := returnAddressAfter(o, e, ctx.CurrentInstructionLength)
	if err != nil {
		return err
	}

	frame := organism.ProcFrame{
		ReturnIP:  retIP,
		SavedPRs:  o.PRs,
		SavedFPRs: o.FPRs,
	}
	for i := 0; i < regid.NumFormalParamRegisters; i++ {
		frame.FPRBindings[i] = ops[1+i].RegisterID
	}
	if err := o.PushCall(frame); err != nil {
		return err
	}

	o.IP = ops[0].Resolved
	o.SkipIPAdvance = true
	return nil
}

func handleRET(o *organism.Organism, _ *env.Environment, _ []Operand, _ *ExecContext) error {
	frame, err := o.PopCall()
	if err != nil {
		return err
	}
	o.PRs = frame.SavedPRs
	o.FPRs = frame.SavedFPRs
	o.IP = frame.ReturnIP
	o.SkipIPAdvance = true
	return nil
}
