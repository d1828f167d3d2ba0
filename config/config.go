// Package config loads and validates a SimulationConfig from YAML (spec
// §6): world shape and toroidal policy, RNG seed, the ordered energy
// strategy list, the seeded organism list, and the scheduler's
// autopause/maxTicks bounds.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigError is fatal at simulation-creation time (spec §7): an unknown
// molecule type name, an inconsistent world shape, or an unknown energy
// strategy class. It aborts construction before any tick runs.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// EnergyStrategyConfig is one entry of the ordered energyStrategies list.
// Class selects solar/geyser; Params carries that strategy's own fields
// as a raw YAML-decoded map, since the set of valid params differs per
// class (spec §4.9).
type EnergyStrategyConfig struct {
	Class  string                 `yaml:"class"`
	Params map[string]interface{} `yaml:"params"`
}

// InitialOrganismConfig seeds one organism at simulation construction.
type InitialOrganismConfig struct {
	ProgramID     string `yaml:"programId"`
	Position      []int  `yaml:"position"`
	InitialEnergy int64  `yaml:"initialEnergy"`
	DV            []int  `yaml:"dv"`
}

// SimulationConfig is the full set of recognized startup options (spec
// §6).
type SimulationConfig struct {
	WorldShape       []int                   `yaml:"worldShape"`
	Toroidal         []bool                  `yaml:"toroidal"`
	Seed             *uint64                 `yaml:"seed"`
	EnergyStrategies []EnergyStrategyConfig  `yaml:"energyStrategies"`
	AutoPauseTicks   []int64                 `yaml:"autoPauseTicks"`
	MaxTicks         *int64                  `yaml:"maxTicks"`
	InitialOrganisms []InitialOrganismConfig `yaml:"initialOrganisms"`
}

var knownEnergyStrategyClasses = map[string]bool{
	"solar":  true,
	"geyser": true,
}

// Load reads and validates a SimulationConfig from the YAML file at
// path. It returns a *ConfigError (never any other error type) on any
// validation failure, per spec §7's ConfigError taxonomy.
func Load(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("reading %s: %v", path, err)}
	}
	return Parse(data)
}

// Parse validates and decodes a SimulationConfig from raw YAML bytes.
func Parse(data []byte) (*SimulationConfig, error) {
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("parsing yaml: %v", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural invariants spec §7 requires a
// ConfigError for. It does not validate InitialOrganisms.ProgramID
// against a loaded artifact set; that binding is the simulation
// builder's responsibility once artifacts are available.
func (c *SimulationConfig) Validate() error {
	if len(c.WorldShape) == 0 {
		return &ConfigError{Reason: "worldShape must have at least one dimension"}
	}
	for i, d := range c.WorldShape {
		if d <= 0 {
			return &ConfigError{Reason: fmt.Sprintf("worldShape[%d] = %d: must be positive", i, d)}
		}
	}
	if len(c.Toroidal) != 0 && len(c.Toroidal) != len(c.WorldShape) {
		return &ConfigError{Reason: fmt.Sprintf(
			"toroidal has %d entries, worldShape has %d dimensions", len(c.Toroidal), len(c.WorldShape))}
	}
	for _, s := range c.EnergyStrategies {
		if !knownEnergyStrategyClasses[s.Class] {
			return &ConfigError{Reason: fmt.Sprintf("unknown energy strategy class %q", s.Class)}
		}
	}
	for i, o := range c.InitialOrganisms {
		if len(o.Position) != len(c.WorldShape) {
			return &ConfigError{Reason: fmt.Sprintf(
				"initialOrganisms[%d].position has %d components, worldShape has %d dimensions",
				i, len(o.Position), len(c.WorldShape))}
		}
		if len(o.DV) != 0 && len(o.DV) != len(c.WorldShape) {
			return &ConfigError{Reason: fmt.Sprintf(
				"initialOrganisms[%d].dv has %d components, worldShape has %d dimensions",
				i, len(o.DV), len(c.WorldShape))}
		}
	}
	return nil
}

// ToroidalFlags expands Toroidal to one entry per world dimension,
// defaulting to fully toroidal when the config left it empty.
func (c *SimulationConfig) ToroidalFlags() []bool {
	if len(c.Toroidal) == len(c.WorldShape) {
		return c.Toroidal
	}
	flags := make([]bool, len(c.WorldShape))
	for i := range flags {
		flags[i] = true
	}
	return flags
}
