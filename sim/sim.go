// Package sim implements the per-tick scheduler (spec §4.8): sequential
// plan/execute of every organism in a fixed deterministic order, then
// the configured world-gen strategies, then the tick counter advance.
package sim

import (
	"context"

	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/evolog"
	"github.com/evochora/evochora/isa"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/snapshot"
	"github.com/evochora/evochora/vm"
	"github.com/evochora/evochora/worldgen"
)

// Simulation owns one Environment and its organism set (spec §5: "Each
// [simulation] with its own Environment and organism set"). It holds no
// reference back to anything that constructed it.
type Simulation struct {
	Env        *env.Environment
	Registry   *isa.Registry
	Organisms  []*organism.Organism
	Strategies []worldgen.Strategy

	// ForkEnergyShare is forwarded into every tick's isa.ExecContext; see
	// isa/handlers_misc.go's handleFORK.
	ForkEnergyShare float64

	// OnSnapshot, if set, is called once per tick with that tick's raw
	// state (spec §4.10). A nil OnSnapshot skips capture entirely so a
	// caller that only wants final-state inspection doesn't pay for it.
	OnSnapshot func(snapshot.RawTickState)

	currentTick int64
	nextID      int64
}

// New constructs a Simulation over env/organisms/strategies. Organism
// ids already in use must be less than firstFreeID, since FORK allocates
// new ids starting there.
func New(e *env.Environment, organisms []*organism.Organism, strategies []worldgen.Strategy, firstFreeID int64) *Simulation {
	return &Simulation{
		Env:             e,
		Registry:        isa.Init(),
		Organisms:       organisms,
		Strategies:      strategies,
		ForkEnergyShare: 0.5,
		nextID:          firstFreeID,
	}
}

// CurrentTick returns the next tick number Tick will execute.
func (s *Simulation) CurrentTick() int64 {
	return s.currentTick
}

// Tick executes exactly one tick (spec §4.8): every organism present at
// the start of the tick plans and executes in order, any organism FORK
// spawns this tick is appended afterward (acting only from the next tick
// on), then every configured world-gen strategy runs in order, then the
// tick counter advances. A tick is atomic from the caller's view (spec
// §5): Tick itself never checks for cancellation mid-tick.
func (s *Simulation) Tick() {
	acting := s.Organisms
	var spawned []*organism.Organism

	ctx := &isa.ExecContext{
		CurrentTick:     s.currentTick,
		ForkEnergyShare: s.ForkEnergyShare,
		AllocateID: func() int64 {
			id := s.nextID
			s.nextID++
			return id
		},
		Spawn: func(child *organism.Organism) {
			spawned = append(spawned, child)
		},
	}

	for _, o := range acting {
		if o.IsDead {
			continue
		}
		o.ClearTransientFlags()
		vm.Step(o, s.Env, s.Registry, ctx)
		if o.InstructionFailed {
			evolog.Trace("organism instruction failed", "id", o.ID, "tick", s.currentTick, "reason", o.FailureReason)
		}
	}

	s.Organisms = append(s.Organisms, spawned...)

	for _, strategy := range s.Strategies {
		strategy.Apply(s.Env, s.currentTick)
	}

	if s.OnSnapshot != nil {
		s.OnSnapshot(snapshot.Capture(s.currentTick, s.Env, s.Organisms))
	}

	s.currentTick++
}

// RunOptions bounds a Run call: AutoPauseTicks pauses (returns) after
// producing the snapshot for that tick number; MaxTicks stops once
// reached. Both are optional (nil/empty means unbounded).
type RunOptions struct {
	AutoPauseTicks []int64
	MaxTicks       *int64
}

// Run executes ticks until ctx is cancelled, a MaxTicks bound is
// reached, or the current tick number is in AutoPauseTicks — checked
// only between ticks, never mid-tick (spec §5's "Cancellation is
// granted only between ticks").
func (s *Simulation) Run(ctx context.Context, opts RunOptions) {
	pauseAt := make(map[int64]bool, len(opts.AutoPauseTicks))
	for _, t := range opts.AutoPauseTicks {
		pauseAt[t] = true
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if opts.MaxTicks != nil && s.currentTick >= *opts.MaxTicks {
			return
		}

		tickNumber := s.currentTick
		s.Tick()

		if pauseAt[tickNumber] {
			return
		}
	}
}
