// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package forward_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/born-ml/sparsegrad/forward"
)

// TestSeedGradient verifies the facade exposes seeding and materialization.
func TestSeedGradient(t *testing.T) {
	x := forward.Seed(forward.Linspace(0, 1, 4))
	g := x.Gradient()
	r, c := g.Dims()
	if r != 4 || c != 4 {
		t.Fatalf("Dims() = %d, %d, want 4, 4", r, c)
	}
	for i := 0; i < 4; i++ {
		if g.At(i, i) != 1 {
			t.Errorf("At(%d, %d) = %v, want 1", i, i, g.At(i, i))
		}
	}
}

// TestApplyByName verifies routing through the formula table by name.
func TestApplyByName(t *testing.T) {
	y, err := forward.Apply("multiply", forward.Seed(forward.FromSlice([]float64{2, 3})), 4.0)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	v, ok := y.(*forward.Value)
	if !ok {
		t.Fatalf("Apply returned %T, want *forward.Value", y)
	}
	if got := v.Gradient().At(1, 1); got != 4 {
		t.Errorf("d/dx1 = %v, want 4", got)
	}

	_, err = forward.Apply("no-such-func", 1.0)
	if !errors.Is(err, forward.ErrUnknownFunc) {
		t.Errorf("Apply unknown: err = %v, want ErrUnknownFunc", err)
	}

	_, err = forward.Apply("add", 1.0)
	if !errors.Is(err, forward.ErrArity) {
		t.Errorf("Apply arity: err = %v, want ErrArity", err)
	}
}

// TestSparsityKind verifies the sparsity seed is exposed.
func TestSparsityKind(t *testing.T) {
	x := forward.SeedSparsity(forward.FromSlice([]float64{1, 2}))
	if x.Kind() != forward.SparsityOnly {
		t.Errorf("Kind() = %v, want %v", x.Kind(), forward.SparsityOnly)
	}
	_, err := forward.Eval(func() *forward.Value { return x.Add(forward.Seed(forward.FromSlice([]float64{1, 2}))) })
	if !errors.Is(err, forward.ErrInconsistentFactory) {
		t.Errorf("mixed kinds: err = %v, want ErrInconsistentFactory", err)
	}
}

// TestPrimal verifies every operand variant converts to its numeric value.
func TestPrimal(t *testing.T) {
	x := forward.Seed(forward.FromSlice([]float64{1, 2}))
	cases := []struct {
		name string
		op   forward.Operand
		want []float64
	}{
		{"float", 2.5, []float64{2.5}},
		{"int", 3, []float64{3}},
		{"slice", []float64{4, 5}, []float64{4, 5}},
		{"value", x.Mul(2.0), []float64{2, 4}},
	}
	for _, tt := range cases {
		if got := forward.Primal(tt.op).Data(); !slices.Equal(got, tt.want) {
			t.Errorf("Primal(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}

	_, err := forward.Eval(func() forward.Array { return forward.Primal("x") })
	if !errors.Is(err, forward.ErrUnsupported) {
		t.Errorf("Primal(string): err = %v, want ErrUnsupported", err)
	}
}
