package isa

import (
	"fmt"

	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/organism"
)

func scalarOperand(o *organism.Organism, regID int) (molecule.Word, error) {
	v, err := o.GetRegister(regID)
	if err != nil {
		return 0, err
	}
	return v.AsScalar()
}

// arithAssign computes op(decode(a).Value, b), encodes it with a's type,
// and stores the result in dst. The result keeps a's type tag regardless
// of which operand form (R/I/S) supplied b, so e.g. ADDI on an ENERGY
// register yields another ENERGY value (spec §4.1).
func arithAssign(o *organism.Organism, dst int, a molecule.Word, b int32, op func(a, b int32) int32) error {
	da := molecule.Decode(a)
	result := op(da.Value, b)
	w, err := molecule.Encode(da.Type, result)
	if err != nil {
		return err
	}
	return o.SetRegister(dst, organism.ScalarValue(w))
}

// registerArithFamily registers the R/I/S trio of one arithmetic mnemonic
// (spec §4.3): <prefix>R takes two register operands, <prefix>I a register
// and a literal, <prefix>S a register and the popped top of the data
// stack. All three assign dst = op(a, b).
func registerArithFamily(r *Registry, idR, idI, idS int, prefix string, op func(a, b int32) int32) {
	r.register(Entry{
		ID: idR, Mnemonic: prefix + "R",
		ArgSignatures: []ArgSignature{REGISTER, REGISTER, REGISTER},
		EnergyCost:    defaultEnergyCost,
		Handler: func(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
			a, err := scalarOperand(o, ops[1].RegisterID)
			if err != nil {
				return err
			}
			b, err := scalarOperand(o, ops[2].RegisterID)
			if err != nil {
				return err
			}
			return arithAssign(o, ops[0].RegisterID, a, molecule.Decode(b).Value, op)
		},
	})
	r.register(Entry{
		ID: idI, Mnemonic: prefix + "I",
		ArgSignatures: []ArgSignature{REGISTER, REGISTER, LITERAL},
		EnergyCost:    defaultEnergyCost,
		Handler: func(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
			a, err := scalarOperand(o, ops[1].RegisterID)
			if err != nil {
				return err
			}
			return arithAssign(o, ops[0].RegisterID, a, ops[2].Literal.Value, op)
		},
	})
	r.register(Entry{
		ID: idS, Mnemonic: prefix + "S",
		ArgSignatures: []ArgSignature{REGISTER, REGISTER},
		EnergyCost:    defaultEnergyCost,
		Handler: func(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
			a, err := scalarOperand(o, ops[1].RegisterID)
			if err != nil {
				return err
			}
			bv, err := o.PopData()
			if err != nil {
				return err
			}
			b, err := bv.AsScalar()
			if err != nil {
				return err
			}
			return arithAssign(o, ops[0].RegisterID, a, molecule.Decode(b).Value, op)
		},
	})
}

// registerDivFamily is registerArithFamily plus a divide-by-zero guard
// (spec §7): DIV/MOD fail the instruction rather than panicking.
func registerDivFamily(r *Registry, idR, idI, idS int, prefix string, op func(a, b int32) int32) {
	guard := func(a, b int32) (int32, error) {
		if b == 0 {
			return 0, fmt.Errorf("%s: divide by zero", prefix)
		}
		return op(a, b), nil
	}
	assign := func(o *organism.Organism, dst int, a molecule.Word, b int32) error {
		da := molecule.Decode(a)
		result, err := guard(da.Value, b)
		if err != nil {
			return err
		}
		w, err := molecule.Encode(da.Type, result)
		if err != nil {
			return err
		}
		return o.SetRegister(dst, organism.ScalarValue(w))
	}

	r.register(Entry{
		ID: idR, Mnemonic: prefix + "R",
		ArgSignatures: []ArgSignature{REGISTER, REGISTER, REGISTER},
		EnergyCost:    defaultEnergyCost,
		Handler: func(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
			a, err := scalarOperand(o, ops[1].RegisterID)
			if err != nil {
				return err
			}
			b, err := scalarOperand(o, ops[2].RegisterID)
			if err != nil {
				return err
			}
			return assign(o, ops[0].RegisterID, a, molecule.Decode(b).Value)
		},
	})
	r.register(Entry{
		ID: idI, Mnemonic: prefix + "I",
		ArgSignatures: []ArgSignature{REGISTER, REGISTER, LITERAL},
		EnergyCost:    defaultEnergyCost,
		Handler: func(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
			a, err := scalarOperand(o, ops[1].RegisterID)
			if err != nil {
				return err
			}
			return assign(o, ops[0].RegisterID, a, ops[2].Literal.Value)
		},
	})
	r.register(Entry{
		ID: idS, Mnemonic: prefix + "S",
		ArgSignatures: []ArgSignature{REGISTER, REGISTER},
		EnergyCost:    defaultEnergyCost,
		Handler: func(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
			a, err := scalarOperand(o, ops[1].RegisterID)
			if err != nil {
				return err
			}
			bv, err := o.PopData()
			if err != nil {
				return err
			}
			b, err := bv.AsScalar()
			if err != nil {
				return err
			}
			return assign(o, ops[0].RegisterID, a, molecule.Decode(b).Value)
		},
	})
}
