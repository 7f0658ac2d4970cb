package forward

import (
	"fmt"

	"github.com/born-ml/sparsegrad/internal/array"
)

func (x *Value) mustVector(op string) {
	if x.IsScalar() {
		panic(fmt.Errorf("%w: %s of a scalar", ErrShapeMismatch, op))
	}
}

// At returns x[i]. Negative i counts from the end.
func (x *Value) At(i int) *Value {
	x.mustVector("index")
	j, err := array.NormalizeIndex(i, x.Len())
	if err != nil {
		panic(err)
	}
	y := array.Scalar(x.value.At(j))
	return newValue(y, x.deriv.GetItemGeneral(y, []int{j}))
}

// Slice returns x[start:stop:step] with Python slice semantics. Pass
// array.None for an omitted bound.
func (x *Value) Slice(start, stop, step int) *Value {
	x.mustVector("slice")
	rows, err := array.SliceIndices(x.Len(), start, stop, step)
	if err != nil {
		panic(err)
	}
	y := array.Take(x.value, rows)
	return newValue(y, x.deriv.GetItemGeneral(y, rows))
}

// Take returns x[idx] for an integer index array. Negative entries wrap
// modulo len(x); repeated entries are allowed.
func (x *Value) Take(idx []int) *Value {
	x.mustVector("take")
	pos, err := array.NormalizeIndices(idx, x.Len())
	if err != nil {
		panic(err)
	}
	y := array.Take(x.value, pos)
	return newValue(y, x.deriv.GetItemByPositiveIndexArray(y, pos))
}

// Mask returns the elements of x where m is set. A scalar mask selects
// everything or nothing.
func (x *Value) Mask(m array.Mask) *Value {
	x.mustVector("mask")
	if m.IsScalar() {
		if m.At(0) {
			return x.Take(allIndices(x.Len()))
		}
		return x.Take([]int{})
	}
	if m.Len() != x.Len() {
		panic(fmt.Errorf("%w: mask of length %d for length %d", ErrShapeMismatch, m.Len(), x.Len()))
	}
	return x.Take(m.Positions())
}

// Select returns x restricted to idx, or x itself when idx is nil. Branch
// callbacks use it to evaluate on their own index subset.
func (x *Value) Select(idx []int) *Value {
	if idx == nil {
		return x
	}
	return x.Take(idx)
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
