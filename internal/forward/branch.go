package forward

import (
	"fmt"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/funcs"
	"github.com/born-ml/sparsegrad/internal/jacobian"
	"github.com/born-ml/sparsegrad/internal/logutil"
	"github.com/born-ml/sparsegrad/internal/sparsevec"
)

// Where selects a where cond is set and b elsewhere.
//
// It is computed as a*cond + b*!cond, so both operands are evaluated in
// full and a NaN or Inf in the unselected operand still reaches the
// result. Use Branch when an operand is undefined off its own subset.
func Where(cond array.Mask, a, b Operand) Operand {
	t, f := cond.Float(), cond.Not().Float()
	return Apply(funcs.Add, Apply(funcs.Multiply, a, t), Apply(funcs.Multiply, b, f))
}

// BranchFunc evaluates one side of a Branch on the positions idx. idx is
// nil when the condition is a scalar.
type BranchFunc func(idx []int) Operand

// Branch evaluates iftrue only where cond is set and iffalse only where
// it is not, then merges the two partial results into one vector.
//
// Sparsity values additionally evaluate both sides everywhere and join
// them with Where, so the pattern covers every position either side can
// reach.
func Branch(cond array.Mask, iftrue, iffalse BranchFunc) (Operand, error) {
	if cond.IsScalar() {
		if cond.At(0) {
			return iftrue(nil), nil
		}
		return iffalse(nil), nil
	}

	n := cond.Len()
	ixTrue, ixFalse := cond.Positions(), cond.Not().Positions()
	vTrue, err := broadcastTo(iftrue(ixTrue), len(ixTrue))
	if err != nil {
		return nil, err
	}
	vFalse, err := broadcastTo(iffalse(ixFalse), len(ixFalse))
	if err != nil {
		return nil, err
	}

	r, err := SparseSum([]sparsevec.Vec[Operand]{
		{Len: n, Indices: ixTrue, Values: vTrue},
		{Len: n, Indices: ixFalse, Values: vFalse},
	}, sparsevec.Options{})
	if err != nil {
		return nil, err
	}
	if v, ok := r.Values.(*Value); ok && v.Kind() == jacobian.SparsityOnly {
		all := allIndices(n)
		return Where(cond, iftrue(all), iffalse(all)), nil
	}
	return r.Values, nil
}

// broadcastTo gives a branch result the length of its index subset.
func broadcastTo(a Operand, n int) (Operand, error) {
	if v, ok := a.(*Value); ok {
		b, err := Eval(func() *Value { return v.BroadcastTo([]int{n}) })
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return array.BroadcastTo(toArray(a), []int{n})
}

// SparseSum merges sparse vector terms by scatter-add. Payloads may be
// plain or differentiable; with at least one *Value the Jacobian rows
// follow their entries to the output positions and the result holds a
// *Value. Plain payloads next to values get a zero Jacobian.
func SparseSum(terms []sparsevec.Vec[Operand], opts sparsevec.Options) (sparsevec.Result[Operand], error) {
	var zero sparsevec.Result[Operand]

	payloads := make([]Operand, len(terms))
	for i, t := range terms {
		payloads[i] = t.Values
	}
	ref := firstValue(payloads)

	if ref == nil {
		plainTerms := make([]sparsevec.Vec[array.Array], len(terms))
		for i, t := range terms {
			plainTerms[i] = sparsevec.Vec[array.Array]{Len: t.Len, Indices: t.Indices, Values: toArray(t.Values)}
		}
		r, err := sparsevec.Sum(plainTerms, sparsevec.ArrayHooks(), opts)
		if err != nil {
			return zero, err
		}
		return sparsevec.Result[Operand]{Len: r.Len, Indices: r.Indices, Values: r.Values}, nil
	}

	valueTerms := make([]sparsevec.Vec[*Value], len(terms))
	for i, t := range terms {
		v, err := asValue(ref, t.Values)
		if err != nil {
			return zero, err
		}
		valueTerms[i] = sparsevec.Vec[*Value]{Len: t.Len, Indices: t.Indices, Values: v}
	}
	r, err := sparsevec.Sum(valueTerms, valueHooks(ref), opts)
	if err != nil {
		return zero, err
	}
	return sparsevec.Result[Operand]{Len: r.Len, Indices: r.Indices, Values: r.Values}, nil
}

// asValue lifts a plain payload to a constant with ref's seed.
func asValue(ref *Value, a Operand) (*Value, error) {
	if v, ok := a.(*Value); ok {
		if v.Kind() != ref.Kind() {
			return nil, fmt.Errorf("%w: %s and %s", ErrInconsistentFactory, ref.Kind(), v.Kind())
		}
		return v, nil
	}
	y := toArray(a)
	return newValue(y, ref.deriv.Zero(y)), nil
}

func valueHooks(ref *Value) sparsevec.Hooks[*Value] {
	return sparsevec.Hooks[*Value]{
		Concat: func(parts []*Value) (*Value, error) {
			ops := make([]Operand, len(parts))
			for i, p := range parts {
				ops[i] = p
			}
			return stackValues(ref, ops)
		},
		Values: func(v *Value) array.Array { return v.value },
		Wrap: func(idx []int, v *Value, y array.Array) (*Value, error) {
			n := y.Len()
			logutil.Trace("forward: remap merged jacobian", "entries", len(idx), "rows", n)
			g, err := v.Gradient().RemapRows(idx, n)
			if err != nil {
				return nil, err
			}
			shape := jacobian.Shape{Rows: n, Cols: v.deriv.Shape().Cols}
			return newValue(y, jacobian.FromCSR(v.Kind(), shape, g)), nil
		},
	}
}
