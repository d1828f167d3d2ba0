package sim_test

import (
	"context"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/isa"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/sim"
	"github.com/evochora/evochora/snapshot"
	"github.com/evochora/evochora/vector"
	"github.com/evochora/evochora/worldgen"
)

// fixedRNG never varies, so two independent builds driven by it produce
// byte-for-byte identical worldgen decisions.
type fixedRNG struct{}

func (fixedRNG) Float64() float64 { return 0.5 }
func (fixedRNG) Intn(n int) int   { return 0 }

// buildDeterminismRun constructs one independent environment/organism/
// strategy set identical to any other call, for the determinism check
// below.
func buildDeterminismRun() *sim.Simulation {
	e := env.New([]int{6, 6}, nil, true)
	Expect(e.Set(vector.Coord{0, 0}, opWord("FORK"))).To(Succeed())
	o := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 100)
	strategy := &worldgen.Solar{P: 0.3, Amount: 4, Radius: 1, RNG: fixedRNG{}}
	return sim.New(e, []*organism.Organism{o}, []worldgen.Strategy{strategy}, 2)
}

func opWord(name string) molecule.Word {
	reg := isa.Init()
	e, ok := reg.ByName(name)
	Expect(ok).To(BeTrue())
	return molecule.MustEncode(molecule.CODE, int32(e.ID))
}

type stubStrategy struct {
	applied []int64
}

func (s *stubStrategy) Apply(_ *env.Environment, tick int64) {
	s.applied = append(s.applied, tick)
}

var _ = Describe("Simulation.Tick", func() {
	It("advances every organism and then runs strategies in order", func() {
		e := env.New([]int{10, 10}, nil, true)
		Expect(e.Set(vector.Coord{0, 0}, opWord("NOP"))).To(Succeed())
		o := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 10)

		strategy := &stubStrategy{}
		s := sim.New(e, []*organism.Organism{o}, []worldgen.Strategy{strategy}, 2)

		s.Tick()

		Expect(o.IP).To(Equal(vector.Coord{1, 0}))
		Expect(o.ER).To(Equal(int64(9)))
		Expect(strategy.applied).To(Equal([]int64{0}))
		Expect(s.CurrentTick()).To(Equal(int64(1)))
	})

	It("captures a raw tick snapshot through OnSnapshot when set", func() {
		e := env.New([]int{4, 4}, nil, true)
		o := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 10)
		s := sim.New(e, []*organism.Organism{o}, nil, 2)

		var captured []snapshot.RawTickState
		s.OnSnapshot = func(state snapshot.RawTickState) {
			captured = append(captured, state)
		}

		s.Tick()

		Expect(captured).To(HaveLen(1))
		Expect(captured[0].TickNumber).To(Equal(int64(0)))
		Expect(captured[0].Organisms).To(HaveLen(1))
	})

	It("appends a FORK'd child so it does not act until the following tick", func() {
		e := env.New([]int{10, 10}, nil, true)
		Expect(e.Set(vector.Coord{0, 0}, opWord("FORK"))).To(Succeed())
		parent := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 100)

		s := sim.New(e, []*organism.Organism{parent}, nil, 2)
		s.Tick()

		Expect(s.Organisms).To(HaveLen(2))
		child := s.Organisms[1]
		Expect(child.ID).To(Equal(int64(2)))
		Expect(*child.ParentID).To(Equal(int64(1)))
		Expect(child.BirthTick).To(Equal(int64(0)))
		Expect(child.IP).To(Equal(vector.Coord{1, 0}))
		// FORK costs 2 energy before the handler runs, leaving 98; the
		// child takes half of that (49), parent keeps the other half.
		Expect(child.ER).To(Equal(int64(49)))
		Expect(parent.ER).To(Equal(int64(49)))
	})
})

var _ = Describe("Simulation.Run", func() {
	It("stops once MaxTicks is reached", func() {
		e := env.New([]int{10, 10}, nil, true)
		Expect(e.Set(vector.Coord{0, 0}, opWord("NOP"))).To(Succeed())
		o := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 100)
		s := sim.New(e, []*organism.Organism{o}, nil, 2)

		max := int64(3)
		s.Run(context.Background(), sim.RunOptions{MaxTicks: &max})

		Expect(s.CurrentTick()).To(Equal(int64(3)))
	})

	It("pauses after producing the snapshot for an autopause tick", func() {
		e := env.New([]int{10, 10}, nil, true)
		Expect(e.Set(vector.Coord{0, 0}, opWord("NOP"))).To(Succeed())
		o := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 100)
		s := sim.New(e, []*organism.Organism{o}, nil, 2)

		s.Run(context.Background(), sim.RunOptions{AutoPauseTicks: []int64{1}})

		Expect(s.CurrentTick()).To(Equal(int64(2)))
	})

	It("stops between ticks when the context is cancelled", func() {
		e := env.New([]int{10, 10}, nil, true)
		o := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 100)
		s := sim.New(e, []*organism.Organism{o}, nil, 2)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s.Run(ctx, sim.RunOptions{})

		Expect(s.CurrentTick()).To(Equal(int64(0)))
	})

	It("produces byte-identical raw tick snapshots across two independent runs (spec §8 scenario 6)", func() {
		max := int64(5)

		var captured1, captured2 []snapshot.RawTickState
		run1 := buildDeterminismRun()
		run1.OnSnapshot = func(state snapshot.RawTickState) { captured1 = append(captured1, state) }
		run1.Run(context.Background(), sim.RunOptions{MaxTicks: &max})

		run2 := buildDeterminismRun()
		run2.OnSnapshot = func(state snapshot.RawTickState) { captured2 = append(captured2, state) }
		run2.Run(context.Background(), sim.RunOptions{MaxTicks: &max})

		Expect(captured1).To(HaveLen(len(captured2)))
		for i := range captured1 {
			Expect(cmp.Diff(captured1[i], captured2[i])).To(BeEmpty())
		}
	})
})
