package worldgen_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/golang/mock/gomock"

	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
	"github.com/evochora/evochora/worldgen"
)

var _ = Describe("Solar", func() {
	var ctrl *gomock.Controller

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	// Scenario 5: Solar safety radius.
	It("never places energy inside another organism's safety radius", func() {
		e := env.New([]int{5, 5}, nil, true)
		Expect(e.SetOwner(vector.Coord{2, 2}, 7)).To(Succeed())

		rng := worldgen.NewMockRNG(ctrl)
		rng.EXPECT().Float64().Return(0.0).AnyTimes()

		s := &worldgen.Solar{P: 1.0, Amount: 3, Radius: 1, RNG: rng}
		s.Apply(e, 0)

		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				c := vector.Coord{2 + dx, 2 + dy}
				w, err := e.Get(c)
				Expect(err).NotTo(HaveOccurred())
				Expect(molecule.IsEmpty(w)).To(BeTrue(), "cell %v should remain untouched inside the safety radius", c)
			}
		}

		outside, err := e.Get(vector.Coord{4, 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(molecule.Decode(outside)).To(Equal(molecule.Molecule{Type: molecule.ENERGY, Value: 3}))
	})

	It("skips a cell when the draw loses against P", func() {
		e := env.New([]int{2, 2}, nil, true)
		rng := worldgen.NewMockRNG(ctrl)
		rng.EXPECT().Float64().Return(0.99).AnyTimes()

		s := &worldgen.Solar{P: 0.1, Amount: 1, Radius: 0, RNG: rng}
		s.Apply(e, 0)

		w, err := e.Get(vector.Coord{0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(molecule.IsEmpty(w)).To(BeTrue())
	})
})

var _ = Describe("Geyser", func() {
	var ctrl *gomock.Controller

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("selects its sources on the first call without erupting", func() {
		e := env.New([]int{10, 10}, nil, true)
		rng := worldgen.NewMockRNG(ctrl)
		rng.EXPECT().Intn(gomock.Any()).Return(55).AnyTimes()

		g := &worldgen.Geyser{Count: 1, Interval: 5, Amount: 4, Radius: 1, RNG: rng}
		g.Apply(e, 0)

		source := e.FlatIndexToCoord(55)
		w, err := e.Get(source)
		Expect(err).NotTo(HaveOccurred())
		Expect(molecule.Decode(w).Type).To(Equal(molecule.STRUCTURE))

		for axis := 0; axis < 2; axis++ {
			for _, delta := range []int{-1, 1} {
				n := source.Clone()
				n[axis] += delta
				nw, err := e.Get(n)
				Expect(err).NotTo(HaveOccurred())
				Expect(molecule.IsEmpty(nw)).To(BeTrue())
			}
		}
	})

	It("erupts only on ticks that are a positive multiple of the interval", func() {
		e := env.New([]int{10, 10}, nil, true)
		rng := worldgen.NewMockRNG(ctrl)
		rng.EXPECT().Intn(gomock.Any()).Return(55).AnyTimes()

		g := &worldgen.Geyser{Count: 1, Interval: 3, Amount: 4, Radius: 0, RNG: rng}
		g.Apply(e, 0) // selects source, no eruption

		g.Apply(e, 1) // not a multiple of 3
		g.Apply(e, 2) // not a multiple of 3

		source := e.FlatIndexToCoord(55)
		neighbor := source.Clone()
		neighbor[0] += 1
		nw, err := e.Get(neighbor)
		Expect(err).NotTo(HaveOccurred())
		Expect(molecule.IsEmpty(nw)).To(BeTrue())

		g.Apply(e, 3) // erupts

		nw, err = e.Get(neighbor)
		Expect(err).NotTo(HaveOccurred())
		Expect(molecule.Decode(nw)).To(Equal(molecule.Molecule{Type: molecule.ENERGY, Value: 4}))
	})
})
