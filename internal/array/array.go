// Package array implements the 0-d and 1-d float64 arrays that carry primal
// values through the forward-mode engine.
//
// Arrays follow NumPy semantics restricted to rank <= 1:
//   - a scalar (0-d) has a nil Shape
//   - a vector (1-d) has Shape []int{n}
//   - scalars and length-1 vectors broadcast against vectors of any length
//
// Arrays are values: kernels never write into their inputs and the slice
// returned by Data must be treated as read-only.
package array

import (
	"fmt"
	"strings"
)

// Array is a scalar or a vector of float64.
type Array struct {
	data   []float64
	scalar bool
}

// Scalar returns a 0-d array holding v.
func Scalar(v float64) Array {
	return Array{data: []float64{v}, scalar: true}
}

// FromSlice copies data into a new vector.
func FromSlice(data []float64) Array {
	out := make([]float64, len(data))
	copy(out, data)
	return Array{data: out}
}

// Wrap returns a vector backed by data without copying. The caller hands
// ownership of data to the array.
func Wrap(data []float64) Array {
	if data == nil {
		data = []float64{}
	}
	return Array{data: data}
}

// Zeros returns a vector of n zeros.
func Zeros(n int) Array {
	return Array{data: make([]float64, n)}
}

// Full returns a vector of n copies of v.
func Full(n int, v float64) Array {
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	return Array{data: data}
}

// Ones returns a vector of n ones.
func Ones(n int) Array {
	return Full(n, 1)
}

// Arange returns [0, 1, ..., n-1].
func Arange(n int) Array {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	return Array{data: data}
}

// Linspace returns n evenly spaced samples over [start, stop].
func Linspace(start, stop float64, n int) Array {
	data := make([]float64, n)
	switch n {
	case 0:
	case 1:
		data[0] = start
	default:
		step := (stop - start) / float64(n-1)
		for i := range data {
			data[i] = start + float64(i)*step
		}
		data[n-1] = stop
	}
	return Array{data: data}
}

// IsScalar reports whether a is 0-d.
func (a Array) IsScalar() bool {
	return a.scalar
}

// Shape returns nil for a scalar and []int{n} for a vector.
func (a Array) Shape() []int {
	if a.scalar {
		return nil
	}
	return []int{len(a.data)}
}

// Len returns the vector length. A scalar has length 1.
func (a Array) Len() int {
	return len(a.data)
}

// Data returns the backing slice. Do not modify it.
func (a Array) Data() []float64 {
	return a.data
}

// At returns element i of a vector, or the scalar value for i == 0.
func (a Array) At(i int) float64 {
	return a.data[i]
}

// Item returns the value of a scalar or of a length-1 vector.
func (a Array) Item() float64 {
	if len(a.data) != 1 {
		panic(fmt.Errorf("%w: Item on array of shape %v", ErrNotScalar, a.Shape()))
	}
	return a.data[0]
}

// Clone returns a deep copy.
func (a Array) Clone() Array {
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return Array{data: out, scalar: a.scalar}
}

// SameShape reports whether a and b have identical shapes.
func (a Array) SameShape(b Array) bool {
	return a.scalar == b.scalar && (a.scalar || len(a.data) == len(b.data))
}

// String formats the array like NumPy does.
func (a Array) String() string {
	if a.scalar {
		return fmt.Sprintf("%g", a.data[0])
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteByte(']')
	return sb.String()
}
