// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package forward computes sparse Jacobians by forward-mode automatic
// differentiation.
//
// # Overview
//
// Seed an input vector, compute with it as usual and read the Jacobian of
// the result with respect to the seed:
//
//	x := forward.Seed(forward.Linspace(0, 1, 100))
//	r := x.Mul(x).Sub(x.Slice(1, forward.None, 1).Exp().Sum())
//	J := r.Gradient() // *sparse.CSR, also a gonum mat.Matrix
//
// Elementwise arithmetic and the functions of the formula table keep the
// Jacobian in factored form scalar·diag(d)·G with a shared G, so long
// chains on one seed cost O(n) per operation. Indexing, Stack, Dot and
// Branch build a new G.
//
// # Sparsity pattern
//
// SeedSparsity propagates only which entries can be nonzero. The pattern
// is always a superset of the numeric one and is cheaper to compute:
//
//	pattern := f(forward.SeedSparsity(x0)).Sparsity()
//
// # Branching
//
// Where computes a*cond + b*!cond and therefore evaluates both sides in
// full: a NaN in the unselected side poisons the result. Branch evaluates
// each side only on its own positions:
//
//	y, err := forward.Branch(x.Greater(0),
//	    func(idx []int) forward.Operand { return x.Select(idx).Sqrt() },
//	    func(idx []int) forward.Operand { return 0.0 },
//	)
//
// # Errors
//
// Operator methods panic with an error wrapping one of the sentinels of
// this package. Wrap a computation in Eval to receive the error instead.
// Structural functions (Stack, Dot, Branch, SparseSum) return errors.
package forward
