package worldgen

import (
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
)

// maxSourceAttempts bounds the rejection sampling in chooseSources so a
// world with no unowned-safe cell left can't spin forever.
const maxSourceAttempts = 10000

// Geyser picks Count source cells once, on its first Apply call, and
// marks them STRUCTURE. From then on, every tick that is a positive
// multiple of Interval, it erupts: it places an ENERGY molecule of
// Amount in every axis-adjacent neighbor of each source whose safety
// radius is unowned at eruption time (spec §4.9). The safety radius is
// enforced at placement time, not retroactively against the source's
// own original selection.
type Geyser struct {
	Count    int
	Interval int64
	Amount   int32
	Radius   int
	RNG      RNG

	sources     []vector.Coord
	initialized bool
}

func (g *Geyser) Apply(e *env.Environment, tick int64) {
	if !g.initialized {
		g.chooseSources(e)
		g.initialized = true
		return
	}
	if g.Interval <= 0 || tick <= 0 || tick%g.Interval != 0 {
		return
	}
	g.erupt(e)
}

func (g *Geyser) chooseSources(e *env.Environment) {
	g.sources = g.sources[:0]
	for len(g.sources) < g.Count {
		placed := false
		for attempt := 0; attempt < maxSourceAttempts; attempt++ {
			c := e.FlatIndexToCoord(g.RNG.Intn(e.Size()))
			if !e.IsAreaUnowned(c, g.Radius) {
				continue
			}
			if err := e.Set(c, molecule.MustEncode(molecule.STRUCTURE, 0)); err != nil {
				continue
			}
			g.sources = append(g.sources, c)
			placed = true
			break
		}
		if !placed {
			return
		}
	}
}

func (g *Geyser) erupt(e *env.Environment) {
	dims := e.Dimensionality()
	for _, source := range g.sources {
		for axis := 0; axis < dims; axis++ {
			for _, delta := range []int{-1, 1} {
				neighbor := source.Clone()
				neighbor[axis] += delta
				n, ok := e.Normalize(neighbor)
				if !ok {
					continue
				}
				if !e.IsAreaUnowned(n, g.Radius) {
					continue
				}
				_ = e.Set(n, molecule.MustEncode(molecule.ENERGY, g.Amount))
			}
		}
	}
}
