package forward

import (
	"fmt"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/jacobian"
)

// Operand is an argument of the engine. It is one of a plain number
// (float64 or int), a []float64, an array.Array or a *Value. Anything else
// is rejected with ErrUnsupported.
type Operand any

// variant is the closed set of operand kinds the engine dispatches on.
type variant int

const (
	plain variant = iota
	numeric
	sparsity
)

func variantOf(k jacobian.Kind) variant {
	if k == jacobian.SparsityOnly {
		return sparsity
	}
	return numeric
}

// routed is the result of inspecting a call's operands once.
type routed struct {
	values []array.Array
	derivs []*jacobian.Matrix // nil for plain operands
	kind   variant
}

// route classifies args. Mixing numeric and sparsity values panics with
// ErrInconsistentFactory.
func route(args []Operand) routed {
	r := routed{
		values: make([]array.Array, len(args)),
		derivs: make([]*jacobian.Matrix, len(args)),
	}
	var first jacobian.Kind
	for i, a := range args {
		if v, ok := a.(*Value); ok {
			k := v.Kind()
			if r.kind == plain {
				r.kind, first = variantOf(k), k
			} else if k != first {
				panic(fmt.Errorf("%w: %s and %s", ErrInconsistentFactory, first, k))
			}
			r.values[i], r.derivs[i] = v.value, v.deriv
			continue
		}
		r.values[i] = toArray(a)
	}
	return r
}

// toArray converts a plain operand.
func toArray(a Operand) array.Array {
	switch a := a.(type) {
	case array.Array:
		return a
	case float64:
		return array.Scalar(a)
	case int:
		return array.Scalar(float64(a))
	case []float64:
		return array.FromSlice(a)
	case *Value:
		return a.value
	}
	panic(fmt.Errorf("%w: operand of type %T", ErrUnsupported, a))
}

// Primal returns the numeric value of any operand.
func Primal(a Operand) array.Array { return toArray(a) }

// AsValue returns a as a *Value if it is differentiable.
func AsValue(a Operand) (*Value, bool) {
	v, ok := a.(*Value)
	return v, ok
}

// firstValue returns the first differentiable operand, or nil.
func firstValue(args []Operand) *Value {
	for _, a := range args {
		if v, ok := a.(*Value); ok {
			return v
		}
	}
	return nil
}
