package config

import (
	"fmt"

	"github.com/evochora/evochora/artifact"
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/vector"
	"github.com/evochora/evochora/worldgen"
)

// Builder assembles the ingredients a Simulation needs out of a
// SimulationConfig: the Environment, the seeded organisms, and the
// configured world-gen strategies in order. It is a fluent builder in
// the teacher's DeviceBuilder style (value receiver, WithX returns a
// new Builder), adapted from a CGRA device assembly step to a
// simulation world assembly step.
type Builder struct {
	cfg       *SimulationConfig
	artifacts map[string]*artifact.Artifact
	rng       worldgen.RNG
}

// NewBuilder starts a Builder from a validated config.
func NewBuilder(cfg *SimulationConfig) Builder {
	return Builder{cfg: cfg, artifacts: make(map[string]*artifact.Artifact)}
}

// WithArtifact registers the artifact initialOrganisms entries can
// reference by ProgramID.
func (b Builder) WithArtifact(a *artifact.Artifact) Builder {
	next := make(map[string]*artifact.Artifact, len(b.artifacts)+1)
	for k, v := range b.artifacts {
		next[k] = v
	}
	next[a.ProgramID] = a
	b.artifacts = next
	return b
}

// WithRNG sets the random source every configured world-gen strategy
// consults.
func (b Builder) WithRNG(rng worldgen.RNG) Builder {
	b.rng = rng
	return b
}

// Build constructs the Environment, seeds every configured organism into
// it from its artifact, and builds the configured world-gen strategies
// in order.
func (b Builder) Build() (*env.Environment, []*organism.Organism, []worldgen.Strategy, error) {
	e := env.New(b.cfg.WorldShape, b.cfg.ToroidalFlags(), true)

	organisms := make([]*organism.Organism, 0, len(b.cfg.InitialOrganisms))
	for i, oc := range b.cfg.InitialOrganisms {
		o, err := b.seedOrganism(e, int64(i+1), oc)
		if err != nil {
			return nil, nil, nil, err
		}
		organisms = append(organisms, o)
	}

	strategies := make([]worldgen.Strategy, 0, len(b.cfg.EnergyStrategies))
	for i, sc := range b.cfg.EnergyStrategies {
		s, err := b.buildStrategy(sc)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("energyStrategies[%d]: %w", i, err)
		}
		strategies = append(strategies, s)
	}

	return e, organisms, strategies, nil
}

func (b Builder) seedOrganism(e *env.Environment, id int64, oc InitialOrganismConfig) (*organism.Organism, error) {
	a, ok := b.artifacts[oc.ProgramID]
	if !ok {
		return nil, &ConfigError{Reason: fmt.Sprintf("initialOrganisms references unknown programId %q", oc.ProgramID)}
	}

	position := vector.Coord(oc.Position)
	dv := vector.Coord(oc.DV)
	if len(dv) == 0 {
		dv = make(vector.Coord, len(position))
		dv[0] = 1
	}

	o := organism.New(id, oc.ProgramID, nil, 0, position, dv, oc.InitialEnergy)

	for _, cc := range a.MachineCodeLayout {
		c, ok := e.Normalize(position.Add(cc.Coord))
		if !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("programId %q: machine code cell %v out of bounds", oc.ProgramID, cc.Coord)}
		}
		if wrote, err := e.WriteOwned(c, cc.Word, id); err != nil {
			return nil, fmt.Errorf("programId %q: placing machine code: %w", oc.ProgramID, err)
		} else if !wrote {
			return nil, &ConfigError{Reason: fmt.Sprintf("programId %q: machine code cell %v is owned by another organism's artifact", oc.ProgramID, cc.Coord)}
		}
	}
	for _, ocell := range a.InitialWorldObjects {
		c, ok := e.Normalize(position.Add(ocell.Coord))
		if !ok {
			return nil, &ConfigError{Reason: fmt.Sprintf("programId %q: initial object cell %v out of bounds", oc.ProgramID, ocell.Coord)}
		}
		if wrote, err := e.WriteOwned(c, ocell.Molecule.ToWord(), id); err != nil {
			return nil, fmt.Errorf("programId %q: placing initial object: %w", oc.ProgramID, err)
		} else if !wrote {
			return nil, &ConfigError{Reason: fmt.Sprintf("programId %q: initial object cell %v is owned by another organism's artifact", oc.ProgramID, ocell.Coord)}
		}
	}

	return o, nil
}

func (b Builder) buildStrategy(sc EnergyStrategyConfig) (worldgen.Strategy, error) {
	if b.rng == nil {
		return nil, fmt.Errorf("no RNG configured for strategy class %q", sc.Class)
	}
	switch sc.Class {
	case "solar":
		return &worldgen.Solar{
			P:      floatParam(sc.Params, "p", 0),
			Amount: int32(intParam(sc.Params, "amount", 0)),
			Radius: intParam(sc.Params, "radius", 0),
			RNG:    b.rng,
		}, nil
	case "geyser":
		return &worldgen.Geyser{
			Count:    intParam(sc.Params, "count", 0),
			Interval: int64(intParam(sc.Params, "interval", 0)),
			Amount:   int32(intParam(sc.Params, "amount", 0)),
			Radius:   intParam(sc.Params, "radius", 0),
			RNG:      b.rng,
		}, nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown energy strategy class %q", sc.Class)}
	}
}

func floatParam(params map[string]interface{}, key string, fallback float64) float64 {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return fallback
	}
}

func intParam(params map[string]interface{}, key string, fallback int) int {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return fallback
	}
}
