package array

import "errors"

var (
	// ErrShapeMismatch indicates operands that cannot be broadcast together.
	ErrShapeMismatch = errors.New("array: shape mismatch")

	// ErrIndexOutOfRange indicates an index outside [-n, n).
	ErrIndexOutOfRange = errors.New("array: index out of range")

	// ErrNotScalar indicates a scalar was required but a vector was given.
	ErrNotScalar = errors.New("array: not a scalar")
)
