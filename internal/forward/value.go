// Package forward implements forward-mode differentiation with sparse
// Jacobians.
//
// A Value pairs a primal array with the Jacobian of that array with
// respect to a seed. Arithmetic and the functions of the formula table
// evaluate the primal and compose the Jacobian by the chain rule:
//
//	x := forward.Seed(array.Linspace(0, 1, 5))
//	y := x.Mul(x).Sub(2.0).Exp()
//	J := y.Gradient() // 5x5 sparse diagonal
//
// Elementwise chains on a single seed stay in factored form and cost O(n)
// per operation. Indexing, stacking, Dot and Branch rebuild the sparse
// structure.
//
// Values seeded with SeedSparsity carry only the nonzero pattern and are
// used to size a Jacobian before the numeric pass. Numeric and sparsity
// values cannot be mixed in one expression.
package forward

import (
	"fmt"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/jacobian"
	"github.com/born-ml/sparsegrad/internal/sparse"
)

// Value is an immutable (primal, Jacobian) pair.
type Value struct {
	value array.Array
	deriv *jacobian.Matrix
}

func newValue(v array.Array, d *jacobian.Matrix) *Value {
	rows := d.Shape().Rows
	switch {
	case v.IsScalar() && rows != jacobian.NoDim,
		!v.IsScalar() && rows != v.Len():
		panic(fmt.Errorf("%w: value %v with jacobian %s", ErrShapeMismatch, v.Shape(), d.Shape()))
	}
	return &Value{value: v, deriv: d}
}

// Seed returns x as the independent variable: its Jacobian is the identity.
func Seed(x array.Array) *Value {
	return seed(jacobian.Numeric, x)
}

// SeedSparsity is Seed for sparsity-pattern propagation.
func SeedSparsity(x array.Array) *Value {
	return seed(jacobian.SparsityOnly, x)
}

func seed(kind jacobian.Kind, x array.Array) *Value {
	n := jacobian.NoDim
	if !x.IsScalar() {
		n = x.Len()
	}
	return newValue(x, jacobian.Seed(kind, n))
}

// Value returns the primal.
func (x *Value) Value() array.Array { return x.value }

// Deriv returns the factored Jacobian.
func (x *Value) Deriv() *jacobian.Matrix { return x.deriv }

// Kind reports whether x carries numbers or only a sparsity pattern.
func (x *Value) Kind() jacobian.Kind { return x.deriv.Kind() }

// IsScalar reports whether the primal is 0-d.
func (x *Value) IsScalar() bool { return x.value.IsScalar() }

// Len returns the number of primal elements.
func (x *Value) Len() int { return x.value.Len() }

// Gradient materializes the Jacobian. Scalar dimensions have extent 1.
func (x *Value) Gradient() *sparse.CSR { return x.deriv.Materialize() }

// DValue is Gradient.
func (x *Value) DValue() *sparse.CSR { return x.Gradient() }

// Sparsity returns the nonzero pattern of the Jacobian with every stored
// entry set to 1.
func (x *Value) Sparsity() *sparse.CSR {
	g := x.Gradient()
	if g.IsBinary() {
		return g
	}
	return g.Binarize()
}

func (x *Value) String() string {
	return fmt.Sprintf("forward.Value(%v, %s)", x.value, x.deriv)
}
