// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sparse provides the compressed sparse row matrix that Jacobians
// are returned as.
//
// CSR implements gonum's mat.Matrix, so it can be handed to any gonum
// routine directly:
//
//	J := r.Gradient()
//	var dense mat.Dense
//	dense.CloneFrom(J)
package sparse

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/sparsegrad/internal/sparse"
)

// CSR is an immutable compressed sparse row matrix.
type CSR = sparse.CSR

// Errors.
var (
	ErrShapeMismatch   = sparse.ErrShapeMismatch
	ErrIndexOutOfRange = sparse.ErrIndexOutOfRange
	ErrInvalidFormat   = sparse.ErrInvalidFormat
)

// New validates and wraps raw CSR arrays.
func New(rows, cols int, indptr, indices []int, data []float64) (*CSR, error) {
	return sparse.New(rows, cols, indptr, indices, data)
}

// Identity returns the n×n identity.
func Identity(n int) *CSR { return sparse.Identity(n) }

// FromDense converts a row-major dense block, dropping zeros.
func FromDense(rows, cols int, values []float64) (*CSR, error) {
	return sparse.FromDense(rows, cols, values)
}

// FromTriplets assembles a matrix from coordinates, summing duplicates.
//
// Example:
//
//	m, err := sparse.FromTriplets(2, 2, []int{0, 1}, []int{1, 0}, []float64{1, 1})
func FromTriplets(rows, cols int, ri, ci []int, v []float64) (*CSR, error) {
	return sparse.FromTriplets(rows, cols, ri, ci, v)
}

// FromMatrix converts any gonum matrix.
func FromMatrix(a mat.Matrix) *CSR { return sparse.FromMatrix(a) }
