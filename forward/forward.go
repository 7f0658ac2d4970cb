// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package forward

import (
	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/forward"
	"github.com/born-ml/sparsegrad/internal/funcs"
	"github.com/born-ml/sparsegrad/internal/jacobian"
	"github.com/born-ml/sparsegrad/internal/sparsevec"
)

// Value is a primal array paired with its Jacobian.
type Value = forward.Value

// Operand is a float64, an int, a []float64, an Array or a *Value.
type Operand = forward.Operand

// Array is a 0-d or 1-d float64 array.
type Array = array.Array

// Mask is a 0-d or 1-d boolean array.
type Mask = array.Mask

// BranchFunc evaluates one side of Branch on a subset of positions.
type BranchFunc = forward.BranchFunc

// Matrix is the factored Jacobian of a Value.
type Matrix = jacobian.Matrix

// Kind distinguishes numeric from sparsity-only Jacobians.
type Kind = jacobian.Kind

// SparseVec is one term of SparseSum.
type SparseVec = sparsevec.Vec[Operand]

// SparseResult is the outcome of SparseSum.
type SparseResult = sparsevec.Result[Operand]

// SparseOptions control SparseSum.
type SparseOptions = sparsevec.Options

// Jacobian kinds.
const (
	Numeric      = jacobian.Numeric
	SparsityOnly = jacobian.SparsityOnly
)

// None marks an omitted slice bound.
const None = array.None

// Errors.
var (
	ErrShapeMismatch       = forward.ErrShapeMismatch
	ErrUnsupported         = forward.ErrUnsupported
	ErrInconsistentFactory = forward.ErrInconsistentFactory
	ErrIndexOutOfRange     = forward.ErrIndexOutOfRange
	ErrDuplicateIndex      = sparsevec.ErrDuplicateIndex
	ErrUnknownFunc         = funcs.ErrUnknownFunc
	ErrArity               = funcs.ErrArity
)

// Seed returns x as the independent variable.
func Seed(x Array) *Value { return forward.Seed(x) }

// SeedSparsity returns x as the independent variable of a sparsity pass.
func SeedSparsity(x Array) *Value { return forward.SeedSparsity(x) }

// Scalar returns a 0-d array.
func Scalar(v float64) Array { return array.Scalar(v) }

// FromSlice returns a copy of xs as a vector.
func FromSlice(xs []float64) Array { return array.FromSlice(xs) }

// Linspace returns n evenly spaced samples over [start, stop].
func Linspace(start, stop float64, n int) Array { return array.Linspace(start, stop, n) }

// Primal returns the numeric value of any operand.
func Primal(a Operand) Array { return forward.Primal(a) }

// Where selects a where cond is set and b elsewhere, by masked arithmetic.
func Where(cond Mask, a, b Operand) Operand { return forward.Where(cond, a, b) }

// Branch evaluates iftrue and iffalse on disjoint subsets and merges them.
func Branch(cond Mask, iftrue, iffalse BranchFunc) (Operand, error) {
	return forward.Branch(cond, iftrue, iffalse)
}

// Stack concatenates operands into one vector.
func Stack(parts ...Operand) (Operand, error) { return forward.Stack(parts...) }

// HStack is Stack over a slice.
func HStack(parts []Operand) (Operand, error) { return forward.HStack(parts) }

// Dot returns a·x for a constant gonum-compatible matrix a.
func Dot(a, x Operand) (Operand, error) { return forward.Dot(a, x) }

// Sum reduces an operand to a scalar.
func Sum(a Operand) Operand { return forward.Sum(a) }

// SparseSum merges sparse vector terms by scatter-add.
func SparseSum(terms []SparseVec, opts SparseOptions) (SparseResult, error) {
	return forward.SparseSum(terms, opts)
}

// Apply evaluates the registered function called name.
func Apply(name string, args ...Operand) (Operand, error) {
	fn, err := funcs.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Eval(func() Operand { return forward.Apply(fn, args...) })
}

// Funcs lists the registered function names.
func Funcs() []string { return funcs.Names() }

// Eval runs f and returns an engine panic as an error.
func Eval[T any](f func() T) (T, error) { return forward.Eval(f) }
