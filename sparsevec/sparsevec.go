// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sparsevec adds sparse (indices, values) vectors.
//
// Example:
//
//	r, err := sparsevec.SumBare(4, []sparsevec.Pair{
//	    {Indices: []int{0, 3}, Values: forward.FromSlice([]float64{1, -1})},
//	    {Indices: []int{0}, Values: forward.Scalar(1)},
//	}, sparsevec.Options{Compress: true})
//	// r.Indices == [0 3], r.Values == [2 -1]
//
// For differentiable values use forward.SparseSum.
package sparsevec

import (
	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/sparsevec"
)

// Pair is one (indices, values) contribution.
type Pair = sparsevec.Pair

// Options control compression and duplicate checking.
type Options = sparsevec.Options

// Result is a summed vector, dense or compressed.
type Result = sparsevec.Result[array.Array]

// Errors.
var (
	ErrShapeMismatch   = sparsevec.ErrShapeMismatch
	ErrDuplicateIndex  = sparsevec.ErrDuplicateIndex
	ErrIndexOutOfRange = sparsevec.ErrIndexOutOfRange
)

// SumBare adds pairs into a vector of length n.
func SumBare(n int, pairs []Pair, opts Options) (Result, error) {
	return sparsevec.SumBare(n, pairs, opts)
}
