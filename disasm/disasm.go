// Package disasm implements the single source of truth for how many
// cells an instruction occupies and how its argument cells decode (spec
// §4.5). It never interprets a REGISTER id against a live register file,
// nor resolves ownership or energy — it only turns raw cells into a
// neutral, inspectable Instruction. The same decoding logic walks a live
// environment during execution and a frozen snapshot during debugging,
// since both are just a memread.Reader.
package disasm

import (
	"fmt"

	"github.com/evochora/evochora/isa"
	"github.com/evochora/evochora/memread"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
)

// InstructionArg is one decoded argument slot. Which fields are populated
// depends on Signature: RegisterID for REGISTER/LOCATION_REGISTER,
// Literal for LITERAL, Delta (and, for LABEL, Resolved) for VECTOR/LABEL.
type InstructionArg struct {
	Signature  isa.ArgSignature
	RegisterID int
	Literal    molecule.Molecule
	Delta      vector.Coord
	Resolved   vector.Coord
}

// Instruction is the neutral decoding of one instruction cell and its
// argument cells: which opcode, its arguments, where it starts, and how
// many cells it occupies in total. FailureReason is set, with a nil
// Disassemble error, for the one documented non-fatal failure mode (spec
// §4.5 point 2): an unrecognized opcode id yields an UNKNOWN mnemonic
// with zero args rather than aborting decoding. A cell of the wrong type
// is the other documented failure mode (spec §4.5 point 1), but it is
// fatal to decoding and is reported as an error (ErrIllegalCellType)
// instead, since there is no instruction shape at all to describe.
type Instruction struct {
	Opcode        isa.Entry
	Args          []InstructionArg
	Position      vector.Coord
	Length        int
	FailureReason string
}

// ErrEmptyCell is returned by Disassemble when pos holds the empty-cell
// sentinel rather than an opcode.
var ErrEmptyCell = fmt.Errorf("disasm: cell is empty, not an instruction")

// ErrIllegalCellType is returned by Disassemble when the cell at pos is
// not CODE-typed (spec §4.5 point 1). The caller decides how to surface
// this; disasm itself never inspects organism or energy state.
var ErrIllegalCellType = fmt.Errorf("disasm: cell type is not CODE")

// unknownOpcodeMnemonic names the synthetic Entry yielded for an
// unrecognized opcode id (spec §4.5 point 2).
const unknownOpcodeMnemonic = "UNKNOWN"

// Disassemble decodes the instruction whose opcode cell is at pos,
// reading argument cells by walking forward along dv one instruction-cell
// at a time, the same step an organism's IP takes. reg is consulted for
// the opcode's static shape; r supplies cell contents, live or frozen.
// This is the single place a non-CODE cell or an unrecognized opcode id
// is detected — every caller, runtime or downstream indexer, shares the
// same two checks instead of re-implementing them (spec §9).
func Disassemble(r memread.Reader, reg *isa.Registry, pos vector.Coord, dv vector.Coord) (Instruction, error) {
	opWord, err := r.Get(pos)
	if err != nil {
		return Instruction{}, err
	}
	if molecule.IsEmpty(opWord) {
		return Instruction{}, ErrEmptyCell
	}
	opMol := molecule.Decode(opWord)
	if opMol.Type != molecule.CODE {
		return Instruction{}, ErrIllegalCellType
	}
	entry, ok := reg.ByID(int(opMol.Value))
	if !ok {
		return Instruction{
			Opcode:        isa.Entry{Mnemonic: unknownOpcodeMnemonic},
			Position:      pos.Clone(),
			Length:        1,
			FailureReason: "Unknown opcode",
		}, nil
	}

	worldDim := len(r.Shape())
	args := make([]InstructionArg, len(entry.ArgSignatures))
	cellOffset := 1
	for i, sig := range entry.ArgSignatures {
		cellPos := stepBy(pos, dv, cellOffset)
		arg := InstructionArg{Signature: sig}

		switch sig {
		case isa.REGISTER, isa.LOCATION_REGISTER:
			w, err := r.Get(cellPos)
			if err != nil {
				return Instruction{}, err
			}
			arg.RegisterID = int(molecule.Decode(w).Value)
		case isa.LITERAL:
			w, err := r.Get(cellPos)
			if err != nil {
				return Instruction{}, err
			}
			arg.Literal = molecule.Decode(w)
		case isa.VECTOR, isa.LABEL:
			delta := make(vector.Coord, worldDim)
			for d := 0; d < worldDim; d++ {
				compPos := stepBy(pos, dv, cellOffset+d)
				w, err := r.Get(compPos)
				if err != nil {
					return Instruction{}, err
				}
				delta[d] = int(molecule.Decode(w).Value)
			}
			arg.Delta = delta
			if sig == isa.LABEL {
				arg.Resolved = resolveLabel(r.Shape(), pos, delta)
			}
		}

		args[i] = arg
		cellOffset += sig.CellLength(worldDim)
	}

	return Instruction{
		Opcode:   entry,
		Args:     args,
		Position: pos.Clone(),
		Length:   entry.InstructionLength(worldDim),
	}, nil
}

// stepBy returns pos + dv*n, without wrapping; callers normalize (or not)
// as appropriate to the Reader backing them.
func stepBy(pos, dv vector.Coord, n int) vector.Coord {
	out := make(vector.Coord, len(pos))
	for i := range pos {
		out[i] = pos[i] + dv[i]*n
	}
	return out
}

// resolveLabel wraps pos+delta into shape toroidally on every axis, from
// the shape alone; it has no "reject out of bounds" branch like the one
// env.Normalize has for non-toroidal axes. The vm's operand resolver
// recomputes a LABEL target against the live Environment's per-axis
// policy instead of using this value.
func resolveLabel(shape []int, pos, delta vector.Coord) vector.Coord {
	out := make(vector.Coord, len(pos))
	for i := range pos {
		v := (pos[i] + delta[i]) % shape[i]
		if v < 0 {
			v += shape[i]
		}
		out[i] = v
	}
	return out
}
