package organism

import (
	"github.com/evochora/evochora/molecule"
	"github.com/evochora/evochora/vector"
)

// Value is the tagged scalar|vector variant that both the data stack and
// the DR/PR/FPR register files are built from (spec §9, "heterogeneous
// stack entries"). A register or stack slot holds either a molecule-
// encoded scalar or a coordinate vector, never a mix of the two fields at
// once; handlers that need one kind and find the other fail with
// ErrVectorScalarMismatch rather than reinterpreting the bits.
type Value struct {
	IsVector bool
	Scalar   molecule.Word
	Vec      vector.Coord
}

// ScalarValue constructs a scalar Value.
func ScalarValue(w molecule.Word) Value {
	return Value{Scalar: w}
}

// VectorValue constructs a vector Value.
func VectorValue(v vector.Coord) Value {
	return Value{IsVector: true, Vec: v}
}

// ErrVectorScalarMismatch is returned whenever a handler expects one
// variant of Value and finds the other.
type ErrVectorScalarMismatch struct {
	Wanted string
}

func (e *ErrVectorScalarMismatch) Error() string {
	return "vector/scalar mismatch: expected " + e.Wanted
}

// AsScalar returns v's scalar field, failing if v holds a vector.
func (v Value) AsScalar() (molecule.Word, error) {
	if v.IsVector {
		return 0, &ErrVectorScalarMismatch{Wanted: "scalar"}
	}
	return v.Scalar, nil
}

// AsVector returns v's vector field, failing if v holds a scalar.
func (v Value) AsVector() (vector.Coord, error) {
	if !v.IsVector {
		return nil, &ErrVectorScalarMismatch{Wanted: "vector"}
	}
	return v.Vec, nil
}
