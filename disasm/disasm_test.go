package disasm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evochora/evochora/disasm"
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/isa"
	"github.com/evochora/evochora/memread"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
)

var _ = Describe("Disassemble", func() {
	reg := isa.Init()

	buildEnv := func() *env.Environment {
		e := env.New([]int{10, 10}, nil, true)
		addi, ok := reg.ByName("ADDI")
		Expect(ok).To(BeTrue())
		Expect(e.Set(vector.Coord{0, 0}, molecule.MustEncode(molecule.CODE, int32(addi.ID)))).To(Succeed())
		Expect(e.Set(vector.Coord{1, 0}, molecule.MustEncode(molecule.CODE, 0))).To(Succeed())
		Expect(e.Set(vector.Coord{2, 0}, molecule.MustEncode(molecule.CODE, 1))).To(Succeed())
		Expect(e.Set(vector.Coord{3, 0}, molecule.MustEncode(molecule.DATA, 6))).To(Succeed())
		return e
	}

	snapshotOf := func(e *env.Environment) *memread.SnapshotReader {
		cells := make([]molecule.Word, e.Size())
		e.ForEachCell(func(c vector.Coord, cell env.Cell) {
			cells[e.CoordToFlatIndex(c)] = cell.Molecule
		})
		return memread.NewSnapshotReader(e.Shape(), e.Toroidal(), cells)
	}

	It("decodes opcode, register, and literal arguments from a live environment", func() {
		e := buildEnv()
		inst, err := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, vector.Coord{0, 0}, vector.Coord{1, 0})
		Expect(err).NotTo(HaveOccurred())

		Expect(inst.Opcode.Mnemonic).To(Equal("ADDI"))
		Expect(inst.Length).To(Equal(4))
		Expect(inst.Args).To(HaveLen(3))
		Expect(inst.Args[0].RegisterID).To(Equal(0))
		Expect(inst.Args[1].RegisterID).To(Equal(1))
		Expect(inst.Args[2].Literal).To(Equal(molecule.Molecule{Type: molecule.DATA, Value: 6}))
	})

	It("decodes identically from a live environment and a frozen snapshot", func() {
		e := buildEnv()
		s := snapshotOf(e)

		live, err := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, vector.Coord{0, 0}, vector.Coord{1, 0})
		Expect(err).NotTo(HaveOccurred())
		frozen, err := disasm.Disassemble(s, reg, vector.Coord{0, 0}, vector.Coord{1, 0})
		Expect(err).NotTo(HaveOccurred())

		Expect(frozen).To(Equal(live))
	})

	It("fails on an empty cell", func() {
		e := env.New([]int{10, 10}, nil, true)
		_, err := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, vector.Coord{5, 5}, vector.Coord{1, 0})
		Expect(err).To(MatchError(disasm.ErrEmptyCell))
	})

	It("yields UNKNOWN with a failure reason on an unrecognized opcode id, rather than an error", func() {
		e := env.New([]int{10, 10}, nil, true)
		Expect(e.Set(vector.Coord{0, 0}, molecule.MustEncode(molecule.CODE, 9999))).To(Succeed())
		inst, err := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, vector.Coord{0, 0}, vector.Coord{1, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Opcode.Mnemonic).To(Equal("UNKNOWN"))
		Expect(inst.Args).To(BeEmpty())
		Expect(inst.FailureReason).To(Equal("Unknown opcode"))
	})

	It("fails with ErrIllegalCellType on a non-CODE cell, so no caller re-implements this check", func() {
		e := env.New([]int{10, 10}, nil, true)
		Expect(e.Set(vector.Coord{0, 0}, molecule.MustEncode(molecule.DATA, 3))).To(Succeed())
		_, err := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, vector.Coord{0, 0}, vector.Coord{1, 0})
		Expect(err).To(MatchError(disasm.ErrIllegalCellType))
	})

	It("rejects a coordinate past a non-toroidal axis's boundary on a frozen snapshot the same way the live environment does", func() {
		e := env.New([]int{4, 4}, []bool{true, false}, false)
		addi, ok := reg.ByName("ADDI")
		Expect(ok).To(BeTrue())
		Expect(e.Set(vector.Coord{2, 3}, molecule.MustEncode(molecule.CODE, int32(addi.ID)))).To(Succeed())
		s := snapshotOf(e)

		// dv={0,1} steps the first argument cell from row 3 to row 4 on
		// the non-toroidal second axis (size 4, valid rows 0..3); both
		// readers must reject identically instead of wrapping.
		_, liveErr := disasm.Disassemble(memread.EnvironmentReader{Env: e}, reg, vector.Coord{2, 3}, vector.Coord{0, 1})
		_, frozenErr := disasm.Disassemble(s, reg, vector.Coord{2, 3}, vector.Coord{0, 1})
		Expect(liveErr).To(HaveOccurred())
		Expect(frozenErr).To(HaveOccurred())
		Expect(frozenErr).To(BeAssignableToTypeOf(liveErr))
	})
})
