// Package memread provides the disassembler's one way of reading cell
// contents, so the same decoding logic works whether it is walking a live
// simulation or a frozen snapshot (spec §4.5).
package memread

import (
	"github.com/evochora/evochora/env"
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
)

// Reader is the minimal read surface the disassembler needs: a molecule
// word at a coordinate, and the world's shape to normalize against.
type Reader interface {
	Get(c vector.Coord) (molecule.Word, error)
	Shape() []int
}

// EnvironmentReader adapts a live *env.Environment to Reader.
type EnvironmentReader struct {
	Env *env.Environment
}

func (r EnvironmentReader) Get(c vector.Coord) (molecule.Word, error) {
	return r.Env.Get(c)
}

func (r EnvironmentReader) Shape() []int {
	return r.Env.Shape()
}

// SnapshotReader adapts a frozen, flat cell array (e.g. from a raw tick
// snapshot) to Reader. It performs the same row-major coordinate math as
// env.Environment but against immutable data that will never change under
// concurrent disassembly, which is why snapshot-based tools such as a
// debugger build their own SnapshotReader instead of sharing the live
// Environment.
type SnapshotReader struct {
	shape    []int
	toroidal []bool // per-axis toroidal flag, inherited from the source Environment
	strides  []int
	cells    []molecule.Word
}

// NewSnapshotReader builds a SnapshotReader over cells, which must be laid
// out in the same row-major order env.Environment uses internally.
// toroidal gives the source Environment's per-axis wrap policy (spec
// §4.10: "snapshot inherits its origin shape"); it must have the same
// length as shape.
func NewSnapshotReader(shape []int, toroidal []bool, cells []molecule.Word) *SnapshotReader {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return &SnapshotReader{
		shape:    append([]int(nil), shape...),
		toroidal: append([]bool(nil), toroidal...),
		strides:  strides,
		cells:    cells,
	}
}

func (r *SnapshotReader) Shape() []int {
	return r.shape
}

// normalize mirrors env.Environment.Normalize exactly: it wraps on
// toroidal axes and rejects any coordinate out of range on a
// non-toroidal axis, so a SnapshotReader disagrees with the live
// EnvironmentReader it was captured from only if the source data itself
// differs.
func (r *SnapshotReader) normalize(c vector.Coord) (vector.Coord, bool) {
	if len(c) != len(r.shape) {
		return nil, false
	}
	out := make(vector.Coord, len(c))
	for i, v := range c {
		size := r.shape[i]
		if r.toroidal[i] {
			v %= size
			if v < 0 {
				v += size
			}
			out[i] = v
			continue
		}
		if v < 0 || v >= size {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (r *SnapshotReader) Get(c vector.Coord) (molecule.Word, error) {
	n, ok := r.normalize(c)
	if !ok {
		return 0, &env.OutOfBoundsError{Coord: c, Shape: r.shape}
	}
	idx := 0
	for i, v := range n {
		idx += v * r.strides[i]
	}
	return r.cells[idx], nil
}
