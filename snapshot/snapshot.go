// Package snapshot implements the raw tick serializer (spec §4.10, §6):
// a structural, disassembly-free capture of one tick's full world and
// organism state. Downstream indexers re-run disassembly against a
// captured snapshot via memread.SnapshotReader; this package never
// decodes an opcode itself.
package snapshot

import (
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/memread"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/vector"
)

// RawCellState is one non-empty-or-owned cell: its coordinate, molecule
// word, and owner id (0 meaning unowned).
type RawCellState struct {
	Coord        vector.Coord
	MoleculeWord molecule.Word
	OwnerID      int64
}

// RawOrganismState is the full state of one organism at the moment of
// capture: every register, pointer, stack, and transient flag, plus the
// pre-fetch ip/dv the plan phase used this tick. Its fields mirror
// organism.Organism field for field; it exists as its own type so a
// captured tick cannot alias, and be mutated through, a live organism.
type RawOrganismState struct {
	ID        int64
	ProgramID string
	ParentID  *int64
	BirthTick int64

	IP vector.Coord
	DV vector.Coord

	DPs           []vector.Coord
	ActiveDPIndex int

	LRs []vector.Coord

	DRs  []organism.Value
	PRs  []organism.Value
	FPRs []organism.Value

	DataStack     []organism.Value
	LocationStack []vector.Coord
	CallStack     []organism.ProcFrame

	ER int64

	IPBeforeFetch vector.Coord
	DVBeforeFetch vector.Coord

	InstructionFailed   bool
	FailureReason       string
	SkipNextInstruction bool
	SkipIPAdvance       bool
	IsDead              bool
}

// RawTickState is the only surface the runtime offers to downstream
// persistence/indexing (spec §6): nothing about storage format belongs
// in the core. Shape and Toroidal record the source Environment's world
// geometry and per-axis wrap policy (spec §4.10: "snapshot inherits its
// origin shape"), so a reconstructed memread.SnapshotReader can normalize
// coordinates exactly as the live Environment would.
type RawTickState struct {
	TickNumber int64
	Shape      []int
	Toroidal   []bool
	Organisms  []RawOrganismState
	Cells      []RawCellState
}

// Capture builds a RawTickState for tickNumber from the current contents
// of e and organisms, in organisms' given order (the scheduler's
// deterministic acting order, spec §5). Every slice/array is copied so
// the result is independent of subsequent mutation to e or organisms.
func Capture(tickNumber int64, e *env.Environment, organisms []*organism.Organism) RawTickState {
	state := RawTickState{
		TickNumber: tickNumber,
		Shape:      append([]int(nil), e.Shape()...),
		Toroidal:   append([]bool(nil), e.Toroidal()...),
		Organisms:  make([]RawOrganismState, len(organisms)),
	}
	for i, o := range organisms {
		state.Organisms[i] = captureOrganism(o)
	}
	e.ForEachCell(func(c vector.Coord, cell env.Cell) {
		if molecule.IsEmpty(cell.Molecule) && cell.OwnerID == 0 {
			return
		}
		state.Cells = append(state.Cells, RawCellState{
			Coord:        c.Clone(),
			MoleculeWord: cell.Molecule,
			OwnerID:      cell.OwnerID,
		})
	})
	return state
}

// NewSnapshotReader rebuilds a dense memread.SnapshotReader over state's
// own recorded Shape/Toroidal, filling every cell Capture did not record
// with the empty-cell sentinel (CODE:0). This is the seam §4.10 promises:
// a downstream indexer runs disasm.Disassemble against the result exactly
// as it would against a live EnvironmentReader, including the source
// Environment's per-axis toroidal policy.
func NewSnapshotReader(state RawTickState) *memread.SnapshotReader {
	size := 1
	for _, d := range state.Shape {
		size *= d
	}
	strides := make([]int, len(state.Shape))
	acc := 1
	for i := len(state.Shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= state.Shape[i]
	}
	cells := make([]molecule.Word, size)
	for _, rc := range state.Cells {
		idx := 0
		for i, v := range rc.Coord {
			idx += v * strides[i]
		}
		cells[idx] = rc.MoleculeWord
	}
	return memread.NewSnapshotReader(state.Shape, state.Toroidal, cells)
}

func captureOrganism(o *organism.Organism) RawOrganismState {
	var parentID *int64
	if o.ParentID != nil {
		v := *o.ParentID
		parentID = &v
	}

	dps := make([]vector.Coord, len(o.DPs))
	for i, dp := range o.DPs {
		dps[i] = dp.Clone()
	}
	lrs := make([]vector.Coord, len(o.LRs))
	for i, lr := range o.LRs {
		lrs[i] = lr.Clone()
	}
	drs := make([]organism.Value, len(o.DRs))
	copy(drs, o.DRs[:])
	prs := make([]organism.Value, len(o.PRs))
	copy(prs, o.PRs[:])
	fprs := make([]organism.Value, len(o.FPRs))
	copy(fprs, o.FPRs[:])

	dataStack := make([]organism.Value, len(o.DataStack))
	copy(dataStack, o.DataStack)
	locationStack := make([]vector.Coord, len(o.LocationStack))
	for i, c := range o.LocationStack {
		locationStack[i] = c.Clone()
	}
	callStack := make([]organism.ProcFrame, len(o.CallStack))
	copy(callStack, o.CallStack)

	return RawOrganismState{
		ID:                  o.ID,
		ProgramID:           o.ProgramID,
		ParentID:            parentID,
		BirthTick:           o.BirthTick,
		IP:                  o.IP.Clone(),
		DV:                  o.DV.Clone(),
		DPs:                 dps,
		ActiveDPIndex:       o.ActiveDPIndex,
		LRs:                 lrs,
		DRs:                 drs,
		PRs:                 prs,
		FPRs:                fprs,
		DataStack:           dataStack,
		LocationStack:       locationStack,
		CallStack:           callStack,
		ER:                  o.ER,
		IPBeforeFetch:       o.IPBeforeFetch.Clone(),
		DVBeforeFetch:       o.DVBeforeFetch.Clone(),
		InstructionFailed:   o.InstructionFailed,
		FailureReason:       o.FailureReason,
		SkipNextInstruction: o.SkipNextInstruction,
		SkipIPAdvance:       o.SkipIPAdvance,
		IsDead:              o.IsDead,
	}
}
