package snapshot_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evochora/evochora/disasm"
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/isa"
	"github.com/evochora/evochora/memread"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/organism"
	"github.com/evochora/evochora/snapshot"
	"github.com/evochora/evochora/vector"
)

var _ = Describe("Capture", func() {
	It("records every non-empty or owned cell and every organism", func() {
		e := env.New([]int{4, 4}, nil, true)
		Expect(e.Set(vector.Coord{1, 1}, molecule.MustEncode(molecule.DATA, 7))).To(Succeed())
		Expect(e.SetOwner(vector.Coord{2, 2}, 5)).To(Succeed())

		o := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 50)
		Expect(o.SetRegister(0, organism.ScalarValue(molecule.MustEncode(molecule.DATA, 9)))).To(Succeed())

		state := snapshot.Capture(3, e, []*organism.Organism{o})
		Expect(state.TickNumber).To(Equal(int64(3)))
		Expect(state.Organisms).To(HaveLen(1))
		Expect(state.Organisms[0].ID).To(Equal(int64(1)))
		Expect(state.Organisms[0].DRs[0]).To(Equal(organism.ScalarValue(molecule.MustEncode(molecule.DATA, 9))))

		Expect(state.Cells).To(HaveLen(2))
	})

	It("is independent of later mutation to the source organism", func() {
		e := env.New([]int{4, 4}, nil, true)
		o := organism.New(1, "p", nil, 0, vector.Coord{0, 0}, vector.Coord{1, 0}, 50)
		Expect(o.PushData(organism.ScalarValue(molecule.MustEncode(molecule.DATA, 1)))).To(Succeed())

		state := snapshot.Capture(0, e, []*organism.Organism{o})
		Expect(o.PushData(organism.ScalarValue(molecule.MustEncode(molecule.DATA, 2)))).To(Succeed())

		Expect(state.Organisms[0].DataStack).To(HaveLen(1))
		Expect(o.DataStack).To(HaveLen(2))
	})
})

var _ = Describe("NewSnapshotReader", func() {
	// Scenario 6: disassembler equivalence, driven through a captured
	// RawTickState instead of a directly-built SnapshotReader.
	It("disassembles identically to the live environment it was captured from", func() {
		reg := isa.Init()
		e := env.New([]int{8, 8}, nil, true)
		addi, ok := reg.ByName("ADDI")
		Expect(ok).To(BeTrue())
		Expect(e.Set(vector.Coord{0, 0}, molecule.MustEncode(molecule.CODE, int32(addi.ID)))).To(Succeed())
		Expect(e.Set(vector.Coord{1, 0}, molecule.MustEncode(molecule.CODE, 0))).To(Succeed())
		Expect(e.Set(vector.Coord{2, 0}, molecule.MustEncode(molecule.CODE, 1))).To(Succeed())
		Expect(e.Set(vector.Coord{3, 0}, molecule.MustEncode(molecule.DATA, 5))).To(Succeed())

		state := snapshot.Capture(0, e, nil)
		reader := snapshot.NewSnapshotReader(state)

		liveInst, err := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, vector.Coord{0, 0}, vector.Coord{1, 0})
		Expect(err).NotTo(HaveOccurred())
		snapInst, err := disasm.Disassemble(reader, reg, vector.Coord{0, 0}, vector.Coord{1, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(snapInst).To(Equal(liveInst))
	})

	// Same equivalence, but over a world with a non-toroidal axis (spec
	// §4.4: "snapshot inherits its origin shape"), so a SnapshotReader
	// must reject an out-of-bounds argument cell exactly as the live
	// Environment does instead of silently wrapping it.
	It("inherits the source environment's per-axis toroidal policy", func() {
		reg := isa.Init()
		e := env.New([]int{4, 4}, []bool{true, false}, false)
		addi, ok := reg.ByName("ADDI")
		Expect(ok).To(BeTrue())
		Expect(e.Set(vector.Coord{2, 3}, molecule.MustEncode(molecule.CODE, int32(addi.ID)))).To(Succeed())

		state := snapshot.Capture(0, e, nil)
		Expect(state.Toroidal).To(Equal([]bool{true, false}))
		reader := snapshot.NewSnapshotReader(state)

		_, liveErr := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, vector.Coord{2, 3}, vector.Coord{0, 1})
		_, snapErr := disasm.Disassemble(reader, reg, vector.Coord{2, 3}, vector.Coord{0, 1})
		Expect(liveErr).To(HaveOccurred())
		Expect(snapErr).To(HaveOccurred())
		Expect(snapErr).To(BeAssignableToTypeOf(liveErr))
	})
})
