package isa

import (
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/organism"
)

func valuesEqual(a, b organism.Value) bool {
	if a.IsVector != b.IsVector {
		return false
	}
	if a.IsVector {
		return a.Vec.Equal(b.Vec)
	}
	return a.Scalar == b.Scalar
}

// handleIFR/handleINR are an exact negated pair (spec §4.3, §8): for the
// same organism state, exactly one of the two sets SkipNextInstruction.
// IFR skips the next instruction when the condition holds (spec §8
// scenario 3: equal registers ⇒ skip-next=true); INR skips when it does
// not.
func handleIFR(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	a, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	b, err := o.GetRegister(ops[1].RegisterID)
	if err != nil {
		return err
	}
	o.SkipNextInstruction = valuesEqual(a, b)
	return nil
}

func handleINR(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	a, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	b, err := o.GetRegister(ops[1].RegisterID)
	if err != nil {
		return err
	}
	o.SkipNextInstruction = !valuesEqual(a, b)
	return nil
}

func handleIFS(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	a, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	b, err := o.PopData()
	if err != nil {
		return err
	}
	o.SkipNextInstruction = valuesEqual(a, b)
	return nil
}

func handleINS(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
	a, err := o.GetRegister(ops[0].RegisterID)
	if err != nil {
		return err
	}
	b, err := o.PopData()
	if err != nil {
		return err
	}
	o.SkipNextInstruction = !valuesEqual(a, b)
	return nil
}

// registerOrderingFamily registers a pair of opcode trios, e.g. LT*/GET*,
// whose R/I/S operand forms mirror registerArithFamily's. cmp and negCmp
// must be exact logical complements so the two mnemonics stay a negated
// pair (spec §8, "Conditional pairing") for free.
func registerOrderingFamily(r *Registry, idR, idNegR, idI, idNegI, idS, idNegS int, mnemonic, negMnemonic string, cmp, negCmp func(a, b int32) bool) {
	regPair := func(idPos, idNeg int, mnPos, mnNeg string, sig []ArgSignature, fetchB func(o *organism.Organism, ops []Operand) (int32, error)) {
		r.register(Entry{
			ID: idPos, Mnemonic: mnPos, ArgSignatures: sig, EnergyCost: defaultEnergyCost, NegatedID: idNeg,
			Handler: func(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
				a, err := scalarOperand(o, ops[0].RegisterID)
				if err != nil {
					return err
				}
				b, err := fetchB(o, ops)
				if err != nil {
					return err
				}
				o.SkipNextInstruction = cmp(molecule.Decode(a).Value, b)
				return nil
			},
		})
		r.register(Entry{
			ID: idNeg, Mnemonic: mnNeg, ArgSignatures: sig, EnergyCost: defaultEnergyCost, NegatedID: idPos,
			Handler: func(o *organism.Organism, _ *env.Environment, ops []Operand, _ *ExecContext) error {
				a, err := scalarOperand(o, ops[0].RegisterID)
				if err != nil {
					return err
				}
				b, err := fetchB(o, ops)
				if err != nil {
					return err
				}
				o.SkipNextInstruction = negCmp(molecule.Decode(a).Value, b)
				return nil
			},
		})
	}

	fetchReg := func(o *organism.Organism, ops []Operand) (int32, error) {
		w, err := scalarOperand(o, ops[1].RegisterID)
		if err != nil {
			return 0, err
		}
		return molecule.Decode(w).Value, nil
	}
	fetchLit := func(_ *organism.Organism, ops []Operand) (int32, error) {
		return ops[1].Literal.Value, nil
	}
	fetchStack := func(o *organism.Organism, _ []Operand) (int32, error) {
		v, err := o.PopData()
		if err != nil {
			return 0, err
		}
		w, err := v.AsScalar()
		if err != nil {
			return 0, err
		}
		return molecule.Decode(w).Value, nil
	}

	regPair(idR, idNegR, mnemonic+"R", negMnemonic+"R", []ArgSignature{REGISTER, REGISTER}, fetchReg)
	regPair(idI, idNegI, mnemonic+"I", negMnemonic+"I", []ArgSignature{REGISTER, LITERAL}, fetchLit)
	regPair(idS, idNegS, mnemonic+"S", negMnemonic+"S", []ArgSignature{REGISTER}, fetchStack)
}

func cellTypeAtDP(o *organism.Organism, e *env.Environment) (molecule.Type, error) {
	w, err := e.Get(o.ActiveDP())
	if err != nil {
		return 0, err
	}
	return molecule.Decode(w).Type, nil
}

// registerTypeFamily registers IFTR/INTR/IFTI/INTI/IFTS/INTS: compare the
// molecule type at the organism's active data pointer against a reference
// type named by a register, a literal, or the popped data stack (spec
// §4.3).
func registerTypeFamily(r *Registry) {
	r.register(Entry{
		ID: OpIFTR, Mnemonic: "IFTR", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, NegatedID: OpINTR,
		Handler: func(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
			cellType, err := cellTypeAtDP(o, e)
			if err != nil {
				return err
			}
			refW, err := scalarOperand(o, ops[0].RegisterID)
			if err != nil {
				return err
			}
			o.SkipNextInstruction = cellType == molecule.Decode(refW).Type
			return nil
		},
	})
	r.register(Entry{
		ID: OpINTR, Mnemonic: "INTR", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, NegatedID: OpIFTR,
		Handler: func(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
			cellType, err := cellTypeAtDP(o, e)
			if err != nil {
				return err
			}
			refW, err := scalarOperand(o, ops[0].RegisterID)
			if err != nil {
				return err
			}
			o.SkipNextInstruction = cellType != molecule.Decode(refW).Type
			return nil
		},
	})
	r.register(Entry{
		ID: OpIFTI, Mnemonic: "IFTI", ArgSignatures: []ArgSignature{LITERAL}, EnergyCost: defaultEnergyCost, NegatedID: OpINTI,
		Handler: func(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
			cellType, err := cellTypeAtDP(o, e)
			if err != nil {
				return err
			}
			o.SkipNextInstruction = cellType == ops[0].Literal.Type
			return nil
		},
	})
	r.register(Entry{
		ID: OpINTI, Mnemonic: "INTI", ArgSignatures: []ArgSignature{LITERAL}, EnergyCost: defaultEnergyCost, NegatedID: OpIFTI,
		Handler: func(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
			cellType, err := cellTypeAtDP(o, e)
			if err != nil {
				return err
			}
			o.SkipNextInstruction = cellType != ops[0].Literal.Type
			return nil
		},
	})
	r.register(Entry{
		ID: OpIFTS, Mnemonic: "IFTS", ArgSignatures: nil, EnergyCost: defaultEnergyCost, NegatedID: OpINTS,
		Handler: func(o *organism.Organism, e *env.Environment, _ []Operand, _ *ExecContext) error {
			cellType, err := cellTypeAtDP(o, e)
			if err != nil {
				return err
			}
			v, err := o.PopData()
			if err != nil {
				return err
			}
			w, err := v.AsScalar()
			if err != nil {
				return err
			}
			o.SkipNextInstruction = cellType == molecule.Decode(w).Type
			return nil
		},
	})
	r.register(Entry{
		ID: OpINTS, Mnemonic: "INTS", ArgSignatures: nil, EnergyCost: defaultEnergyCost, NegatedID: OpIFTS,
		Handler: func(o *organism.Organism, e *env.Environment, _ []Operand, _ *ExecContext) error {
			cellType, err := cellTypeAtDP(o, e)
			if err != nil {
				return err
			}
			v, err := o.PopData()
			if err != nil {
				return err
			}
			w, err := v.AsScalar()
			if err != nil {
				return err
			}
			o.SkipNextInstruction = cellType != molecule.Decode(w).Type
			return nil
		},
	})
}

func cellOwnerAtDP(o *organism.Organism, e *env.Environment) (int64, error) {
	return e.Owner(o.ActiveDP())
}

// registerOwnerFamily registers IFMR/INMR/IFMI/INMI/IFMS/INMS: compare the
// owner id at the organism's active data pointer against a reference id
// named by a register, a literal, or the popped data stack (spec §4.3).
func registerOwnerFamily(r *Registry) {
	r.register(Entry{
		ID: OpIFMR, Mnemonic: "IFMR", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, NegatedID: OpINMR,
		Handler: func(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
			owner, err := cellOwnerAtDP(o, e)
			if err != nil {
				return err
			}
			refW, err := scalarOperand(o, ops[0].RegisterID)
			if err != nil {
				return err
			}
			o.SkipNextInstruction = owner == int64(molecule.Decode(refW).Value)
			return nil
		},
	})
	r.register(Entry{
		ID: OpINMR, Mnemonic: "INMR", ArgSignatures: []ArgSignature{REGISTER}, EnergyCost: defaultEnergyCost, NegatedID: OpIFMR,
		Handler: func(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
			owner, err := cellOwnerAtDP(o, e)
			if err != nil {
				return err
			}
			refW, err := scalarOperand(o, ops[0].RegisterID)
			if err != nil {
				return err
			}
			o.SkipNextInstruction = owner != int64(molecule.Decode(refW).Value)
			return nil
		},
	})
	r.register(Entry{
		ID: OpIFMI, Mnemonic: "IFMI", ArgSignatures: []ArgSignature{LITERAL}, EnergyCost: defaultEnergyCost, NegatedID: OpINMI,
		Handler: func(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
			owner, err := cellOwnerAtDP(o, e)
			if err != nil {
				return err
			}
			o.SkipNextInstruction = owner == int64(ops[0].Literal.Value)
			return nil
		},
	})
	r.register(Entry{
		ID: OpINMI, Mnemonic: "INMI", ArgSignatures: []ArgSignature{LITERAL}, EnergyCost: defaultEnergyCost, NegatedID: OpIFMI,
		Handler: func(o *organism.Organism, e *env.Environment, ops []Operand, _ *ExecContext) error {
			owner, err := cellOwnerAtDP(o, e)
			if err != nil {
				return err
			}
			o.SkipNextInstruction = owner != int64(ops[0].Literal.Value)
			return nil
		},
	})
	r.register(Entry{
		ID: OpIFMS, Mnemonic: "IFMS", ArgSignatures: nil, EnergyCost: defaultEnergyCost, NegatedID: OpINMS,
		Handler: func(o *organism.Organism, e *env.Environment, _ []Operand, _ *ExecContext) error {
			owner, err := cellOwnerAtDP(o, e)
			if err != nil {
				return err
			}
			v, err := o.PopData()
			if err != nil {
				return err
			}
			w, err := v.AsScalar()
			if err != nil {
				return err
			}
			o.SkipNextInstruction = owner == int64(molecule.Decode(w).Value)
			return nil
		},
	})
	r.register(Entry{
		ID: OpINMS, Mnemonic: "INMS", ArgSignatures: nil, EnergyCost: defaultEnergyCost, NegatedID: OpIFMS,
		Handler: func(o *organism.Organism, e *env.Environment, _ []Operand, _ *ExecContext) error {
			owner, err := cellOwnerAtDP(o, e)
			if err != nil {
				return err
			}
			v, err := o.PopData()
			if err != nil {
				return err
			}
			w, err := v.AsScalar()
			if err != nil {
				return err
			}
			o.SkipNextInstruction = owner != int64(molecule.Decode(w).Value)
			return nil
		},
	})
}
