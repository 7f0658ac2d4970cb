package forward

import (
	"errors"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/jacobian"
)

var (
	// ErrShapeMismatch indicates operands whose shapes cannot be combined.
	ErrShapeMismatch = errors.New("forward: shape mismatch")

	// ErrUnsupported indicates an operation the engine cannot
	// differentiate, such as a product with a differentiable matrix.
	ErrUnsupported = errors.New("forward: unsupported operation")

	// ErrInconsistentFactory is returned when numeric and sparsity values
	// meet in one expression.
	ErrInconsistentFactory = jacobian.ErrInconsistentFactory

	// ErrIndexOutOfRange indicates an index outside the value.
	ErrIndexOutOfRange = array.ErrIndexOutOfRange
)
