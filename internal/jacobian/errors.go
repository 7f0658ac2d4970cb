package jacobian

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates Jacobians whose dimensions cannot be combined.
	ErrShapeMismatch = errors.New("jacobian: shape mismatch")

	// ErrInconsistentFactory indicates an expression mixing Jacobians seeded
	// with different representations (numeric and sparsity-only).
	ErrInconsistentFactory = errors.New("jacobian: values seeded with different factories")
)

func inconsistent(a, b Kind) error {
	return fmt.Errorf("%w: %s and %s", ErrInconsistentFactory, a, b)
}

// sameKind panics with ErrInconsistentFactory unless every matrix has kind k.
func sameKind(k Kind, ms ...*Matrix) {
	for _, m := range ms {
		if m.kind != k {
			panic(inconsistent(k, m.kind))
		}
	}
}
