package forward

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/jacobian"
	"github.com/born-ml/sparsegrad/internal/sparse"
)

// Sum returns the sum of the elements of x as a scalar.
func (x *Value) Sum() *Value {
	if x.IsScalar() {
		return x
	}
	return newValue(array.Sum(x.value), x.deriv.Sum())
}

// Sum reduces any operand.
func Sum(a Operand) Operand {
	if v, ok := a.(*Value); ok {
		return v.Sum()
	}
	return array.Sum(toArray(a))
}

// BroadcastTo returns x broadcast to shape (nil for a scalar).
func (x *Value) BroadcastTo(shape []int) *Value {
	if shape == nil {
		if x.IsScalar() {
			return x
		}
		panic(fmt.Errorf("%w: cannot broadcast %v to a scalar", ErrShapeMismatch, x.value.Shape()))
	}
	if !x.IsScalar() && x.Len() == shape[0] {
		return x
	}
	return x.Mul(array.Ones(shape[0]))
}

// Stack concatenates the operands into one vector; scalars contribute one
// element. Plain operands get an explicit zero Jacobian. Without any
// differentiable operand the result is a plain array.
func Stack(parts ...Operand) (Operand, error) {
	ref := firstValue(parts)
	if ref == nil {
		values := make([]array.Array, len(parts))
		for i, p := range parts {
			values[i] = toArray(p)
		}
		return array.Concat(values...), nil
	}
	return stackValues(ref, parts)
}

// HStack is Stack over a slice.
func HStack(parts []Operand) (Operand, error) { return Stack(parts...) }

func stackValues(ref *Value, parts []Operand) (*Value, error) {
	values := make([]array.Array, len(parts))
	for i, p := range parts {
		values[i] = toArray(p)
	}
	y := array.Concat(values...)

	derivs := make([]*jacobian.Matrix, len(parts))
	for i, p := range parts {
		if v, ok := p.(*Value); ok {
			derivs[i] = v.deriv
		} else {
			derivs[i] = ref.deriv.Zero(values[i])
		}
	}
	d, err := jacobian.VStack(y, derivs...)
	if err != nil {
		return nil, err
	}
	return newValue(y, d), nil
}

// Dot returns a·x for a constant matrix a. A differentiable a is
// ErrUnsupported; x must be a vector. The result is a *Value when x is.
func Dot(a, x Operand) (Operand, error) {
	var m mat.Matrix
	switch a := a.(type) {
	case *Value:
		return nil, fmt.Errorf("%w: dot with a differentiable matrix", ErrUnsupported)
	case mat.Matrix:
		m = a
	default:
		return nil, fmt.Errorf("%w: dot needs a matrix on the left, got %T", ErrUnsupported, a)
	}
	if v, ok := x.(*Value); ok {
		y, err := v.RDot(m)
		if err != nil {
			return nil, err
		}
		return y, nil
	}
	xs := toArray(x)
	if xs.IsScalar() {
		return nil, fmt.Errorf("%w: dot with a scalar", ErrShapeMismatch)
	}
	y, err := toCSR(m).MulVec(xs.Data())
	if err != nil {
		return nil, err
	}
	return array.Wrap(y), nil
}

// RDot returns a·x.
func (x *Value) RDot(a mat.Matrix) (*Value, error) {
	if x.IsScalar() {
		return nil, fmt.Errorf("%w: dot with a scalar", ErrShapeMismatch)
	}
	csr := toCSR(a)
	y, err := csr.MulVec(x.value.Data())
	if err != nil {
		return nil, err
	}
	d, err := x.deriv.RDot(csr)
	if err != nil {
		return nil, err
	}
	return newValue(array.Wrap(y), d), nil
}

func toCSR(a mat.Matrix) *sparse.CSR {
	if c, ok := a.(*sparse.CSR); ok {
		return c
	}
	return sparse.FromMatrix(a)
}
