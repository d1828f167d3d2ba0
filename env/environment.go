// Package env implements the N-dimensional, optionally toroidal grid of
// cells that organisms execute and move in (spec §4.2). Flat-index <->
// coordinate conversion is row-major and dimension-agnostic.
package env

import (
	"fmt"

	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
)

// OutOfBoundsError is returned by operations that address a coordinate
// outside the world on a non-toroidal axis.
type OutOfBoundsError struct {
	Coord vector.Coord
	Shape []int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("env: coordinate %v out of bounds for shape %v", e.Coord, e.Shape)
}

// Cell is a single addressable location: a molecule word plus its owner.
// OwnerID 0 means unowned.
type Cell struct {
	Molecule molecule.Word
	OwnerID  int64
}

// Environment is the world grid. Its shape and toroidal policy are fixed
// at construction; only cell contents and ownership mutate afterward.
// Coordinate math (Normalize, FlatIndexToCoord, CoordToFlatIndex) is a
// pure function of the shape and is safe to call from multiple
// goroutines concurrently, matching the read-mostly discipline simulation
// drivers rely on (spec §5).
type Environment struct {
	shape     []int
	toroidal  []bool // per-axis toroidal flag
	cells     []Cell
	strides   []int // row-major strides, cells[flat] addresses dims via strides
}

// New builds an Environment with the given shape. toroidal, if non-nil,
// must have the same length as shape and gives a per-axis wrap policy; if
// nil, allToroidal applies to every axis.
func New(shape []int, toroidal []bool, allToroidal bool) *Environment {
	if len(shape) == 0 {
		panic("env: shape must have at least one dimension")
	}
	for _, s := range shape {
		if s <= 0 {
			panic("env: every axis must have positive size")
		}
	}

	wrap := make([]bool, len(shape))
	if toroidal != nil {
		if len(toroidal) != len(shape) {
			panic("env: toroidal flags must match shape length")
		}
		copy(wrap, toroidal)
	} else {
		for i := range wrap {
			wrap[i] = allToroidal
		}
	}

	total := 1
	for _, s := range shape {
		total *= s
	}

	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}

	return &Environment{
		shape:    append([]int(nil), shape...),
		toroidal: wrap,
		cells:    make([]Cell, total),
		strides:  strides,
	}
}

// Shape returns the world's per-axis size. The returned slice must not be
// mutated by the caller.
func (e *Environment) Shape() []int {
	return e.shape
}

// Toroidal returns the world's per-axis wrap policy. The returned slice
// must not be mutated by the caller.
func (e *Environment) Toroidal() []bool {
	return e.toroidal
}

// Dimensionality returns the number of axes in the world.
func (e *Environment) Dimensionality() int {
	return len(e.shape)
}

// Size returns the total number of cells in the world.
func (e *Environment) Size() int {
	return len(e.cells)
}

// Normalize wraps each component of c modulo its axis size on toroidal
// axes, and rejects (ok=false) any coordinate out of range on a
// non-toroidal axis.
func (e *Environment) Normalize(c vector.Coord) (vector.Coord, bool) {
	if len(c) != len(e.shape) {
		return nil, false
	}
	out := make(vector.Coord, len(c))
	for i, v := range c {
		size := e.shape[i]
		if e.toroidal[i] {
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

// CoordToFlatIndex converts an already-normalized coordinate to its flat,
// row-major storage index.
func (e *Environment) CoordToFlatIndex(c vector.Coord) int {
	idx := 0
	for i, v := range c {
		idx += v * e.strides[i]
	}
	return idx
}

// FlatIndexToCoord is the inverse of CoordToFlatIndex.
func (e *Environment) FlatIndexToCoord(i int) vector.Coord {
	out := make(vector.Coord, len(e.shape))
	for d, stride := range e.strides {
		out[d] = i / stride
		i %= stride
	}
	return out
}

func (e *Environment) indexOrError(c vector.Coord) (int, error) {
	n, ok := e.Normalize(c)
	if !ok {
		return 0, &OutOfBoundsError{Coord: c, Shape: e.shape}
	}
	return e.CoordToFlatIndex(n), nil
}

// Get returns the molecule stored at c. Reads are always allowed (spec
// §4.7); an out-of-bounds coordinate on a non-toroidal axis still fails.
func (e *Environment) Get(c vector.Coord) (molecule.Word, error) {
	i, err := e.indexOrError(c)
	if err != nil {
		return 0, err
	}
	return e.cells[i].Molecule, nil
}

// Set writes w to the cell at c, verbatim, without touching ownership.
func (e *Environment) Set(c vector.Coord, w molecule.Word) error {
	i, err := e.indexOrError(c)
	if err != nil {
		return err
	}
	e.cells[i].Molecule = w
	return nil
}

// Owner returns the owner id of the cell at c (0 = unowned).
func (e *Environment) Owner(c vector.Coord) (int64, error) {
	i, err := e.indexOrError(c)
	if err != nil {
		return 0, err
	}
	return e.cells[i].OwnerID, nil
}

// SetOwner sets the owner id of the cell at c.
func (e *Environment) SetOwner(c vector.Coord, owner int64) error {
	i, err := e.indexOrError(c)
	if err != nil {
		return err
	}
	e.cells[i].OwnerID = owner
	return nil
}

// WriteOwned writes a non-empty molecule on behalf of writerID, enforcing
// the ownership rule from spec §4.7: the cell must be unowned or already
// owned by writerID. On success the cell's owner becomes writerID. It
// never partially applies: on failure the cell is untouched.
func (e *Environment) WriteOwned(c vector.Coord, w molecule.Word, writerID int64) (ok bool, err error) {
	i, err := e.indexOrError(c)
	if err != nil {
		return false, err
	}
	cell := &e.cells[i]
	if !molecule.IsEmpty(w) {
		if cell.OwnerID != 0 && cell.OwnerID != writerID {
			return false, nil
		}
		cell.Molecule = w
		cell.OwnerID = writerID
		return true, nil
	}
	cell.Molecule = w
	return true, nil
}

// IsAreaUnowned reports whether every cell in the closed Chebyshev ball of
// the given radius around center is within the world and unowned. Used by
// world-gen strategies to enforce a safety radius at placement time (spec
// §4.9). A center whose ball would include any out-of-world cell is not
// considered unowned, since "within the world" is part of the predicate.
func (e *Environment) IsAreaUnowned(center vector.Coord, radius int) bool {
	dims := len(e.shape)
	offset := make([]int, dims)
	return e.forEachOffsetInBall(offset, 0, dims, radius, func(off []int) bool {
		c := make(vector.Coord, dims)
		for i := range c {
			c[i] = center[i] + off[i]
		}
		owner, err := e.Owner(c)
		if err != nil {
			return false
		}
		return owner == 0
	})
}

// forEachOffsetInBall enumerates every integer offset vector within
// [-radius, radius]^dims and stops early (returning false) the first time
// pred returns false.
func (e *Environment) forEachOffsetInBall(offset []int, axis, dims, radius int, pred func([]int) bool) bool {
	if axis == dims {
		return pred(offset)
	}
	for v := -radius; v <= radius; v++ {
		offset[axis] = v
		if !e.forEachOffsetInBall(offset, axis+1, dims, radius, pred) {
			return false
		}
	}
	return true
}

// ForEachCell invokes fn for every cell in the world, in flat-index order.
// fn must not mutate the Environment's shape.
func (e *Environment) ForEachCell(fn func(c vector.Coord, cell Cell)) {
	for i := range e.cells {
		fn(e.FlatIndexToCoord(i), e.cells[i])
	}
}
