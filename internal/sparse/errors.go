package sparse

import "errors"

var (
	// ErrShapeMismatch indicates incompatible operand dimensions.
	ErrShapeMismatch = errors.New("sparse: dimension mismatch")

	// ErrIndexOutOfRange indicates a row or column index outside the matrix.
	ErrIndexOutOfRange = errors.New("sparse: index out of range")

	// ErrInvalidFormat indicates inconsistent CSR arrays.
	ErrInvalidFormat = errors.New("sparse: invalid CSR arrays")
)
