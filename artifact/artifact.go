// Package artifact defines the opaque program artifact the core accepts
// from a compiler (spec §6). Only MachineCodeLayout and
// InitialWorldObjects are meaningful to execution; every other field is
// forwarded verbatim to downstream consumers (debuggers, source-map
// viewers) and never inspected here.
package artifact

import (
	"fmt"

	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
)

// Artifact is the unit of compiled program state a simulation loads an
// organism from. ProgramID names it for RawOrganismState.ProgramID and
// config's initialOrganisms references.
type Artifact struct {
	ProgramID string

	// MachineCodeLayout maps a coordinate relative to the organism's
	// placement position to the CODE-typed word that goes there.
	MachineCodeLayout map[string]CodeCell

	// InitialWorldObjects maps a relative coordinate to a non-code
	// molecule (e.g. seeded DATA/ENERGY/STRUCTURE) placed alongside the
	// machine code.
	InitialWorldObjects map[string]ObjectCell

	// SourceMap, LabelAddressToName, CallSiteBindings,
	// ProcNameToParamNames, and RegisterAliasMap are opaque to the core:
	// it never reads them, only stores and forwards them for a debugger
	// or indexer built against the same compiler.
	SourceMap            interface{}
	LabelAddressToName   map[string]string
	CallSiteBindings     interface{}
	ProcNameToParamNames map[string][]string
	RegisterAliasMap     map[string]int
}

// CodeCell is one entry of MachineCodeLayout: the relative coordinate it
// was registered under, and the CODE word placed there.
type CodeCell struct {
	Coord vector.Coord
	Word  molecule.Word
}

// ObjectCell is one entry of InitialWorldObjects.
type ObjectCell struct {
	Coord    vector.Coord
	Molecule molecule.Molecule
}

// New constructs an empty artifact ready for PlaceCode/PlaceObject calls.
func New(programID string) *Artifact {
	return &Artifact{
		ProgramID:            programID,
		MachineCodeLayout:    make(map[string]CodeCell),
		InitialWorldObjects:  make(map[string]ObjectCell),
		LabelAddressToName:   make(map[string]string),
		ProcNameToParamNames: make(map[string][]string),
		RegisterAliasMap:     make(map[string]int),
	}
}

func key(c vector.Coord) string {
	return fmt.Sprintf("%v", []int(c))
}

// PlaceCode registers a CODE word at a coordinate relative to the
// artifact's eventual placement origin.
func (a *Artifact) PlaceCode(c vector.Coord, w molecule.Word) {
	a.MachineCodeLayout[key(c)] = CodeCell{Coord: c.Clone(), Word: w}
}

// PlaceObject registers a non-code molecule at a relative coordinate.
func (a *Artifact) PlaceObject(c vector.Coord, m molecule.Molecule) {
	a.InitialWorldObjects[key(c)] = ObjectCell{Coord: c.Clone(), Molecule: m}
}

// Cells returns every relative coordinate the artifact places something
// at, code and objects together, for a loader to iterate in one pass.
func (a *Artifact) Cells() []vector.Coord {
	out := make([]vector.Coord, 0, len(a.MachineCodeLayout)+len(a.InitialWorldObjects))
	for _, cc := range a.MachineCodeLayout {
		out = append(out, cc.Coord)
	}
	for _, oc := range a.InitialWorldObjects {
		out = append(out, oc.Coord)
	}
	return out
}
