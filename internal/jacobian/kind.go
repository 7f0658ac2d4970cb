package jacobian

import "fmt"

// Kind selects how a Matrix represents derivatives.
type Kind int

const (
	// Numeric matrices carry exact derivative values.
	Numeric Kind = iota

	// SparsityOnly matrices carry only the nonzero structure. Every stored
	// entry is 1 and elementwise chain factors are ignored, so the pattern
	// is a superset of the numeric one.
	SparsityOnly
)

// String returns the factory name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case SparsityOnly:
		return "sparsity-only"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}
