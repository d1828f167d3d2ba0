// Package worldgen implements the pluggable energy-source strategies
// that mutate the environment between ticks, after every organism has
// acted (spec §4.8, §4.9). Each strategy is pure with respect to the
// Environment it is given except for the cells it places, and never
// places a molecule outside isAreaUnowned's safety radius.
package worldgen

import (
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
)

// Strategy is one world-gen variant, run once per tick in the
// simulation's configured order.
type Strategy interface {
	Apply(e *env.Environment, tick int64)
}

// Solar places an ENERGY molecule of Amount in each cell with
// independent probability P, provided the cell's safety radius is
// unowned at the moment of placement (spec §4.9).
type Solar struct {
	P      float64
	Amount int32
	Radius int
	RNG    RNG
}

func (s *Solar) Apply(e *env.Environment, _ int64) {
	e.ForEachCell(func(c vector.Coord, _ env.Cell) {
		if s.RNG.Float64() >= s.P {
			return
		}
		if !e.IsAreaUnowned(c, s.Radius) {
			return
		}
		_ = e.Set(c, molecule.MustEncode(molecule.ENERGY, s.Amount))
	})
}
