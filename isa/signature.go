package isa

// ArgSignature classifies one static argument slot of an instruction
// (spec §4.3). The disassembler uses it to know how many cells to
// consume and how to interpret the raw value(s) found there; it never
// interprets REGISTER/LOCATION_REGISTER ids against a live register file
// itself — that is the opcode handler's job (spec §4.5).
type ArgSignature int

const (
	// REGISTER names a DR, PR, or FPR by numeric id (spec §6).
	REGISTER ArgSignature = iota
	// LOCATION_REGISTER names an LR by numeric id; a distinct namespace
	// from REGISTER.
	LOCATION_REGISTER
	// LITERAL is a single typed immediate molecule, occupying one cell.
	LITERAL
	// VECTOR occupies one cell per world dimension, one scalar component
	// each.
	VECTOR
	// LABEL is a VECTOR interpreted as a relative jump target.
	LABEL
)

// CellLength returns how many cells this argument occupies given the
// world's dimensionality. Only VECTOR and LABEL scale with worldDim; all
// other signatures always occupy exactly one cell.
func (s ArgSignature) CellLength(worldDim int) int {
	switch s {
	case VECTOR, LABEL:
		return worldDim
	default:
		return 1
	}
}

// String renders the signature's name, used in trace logging and error
// messages.
func (s ArgSignature) String() string {
	switch s {
	case REGISTER:
		return "REGISTER"
	case LOCATION_REGISTER:
		return "LOCATION_REGISTER"
	case LITERAL:
		return "LITERAL"
	case VECTOR:
		return "VECTOR"
	case LABEL:
		return "LABEL"
	default:
		return "UNKNOWN_SIGNATURE"
	}
}
