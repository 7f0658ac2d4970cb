package array

import "fmt"

// BroadcastShapes returns the shape of a op b under NumPy broadcasting.
//
// Rules for rank <= 1:
//
//	scalar ⊕ scalar → scalar
//	scalar ⊕ [n]    → [n]
//	[1]    ⊕ [n]    → [n]
//	[n]    ⊕ [m]    → error unless n == m
//
// The result is (n, scalar, err); n is meaningless when scalar is true.
func BroadcastShapes(a, b Array) (int, bool, error) {
	switch {
	case a.scalar && b.scalar:
		return 1, true, nil
	case a.scalar:
		return len(b.data), false, nil
	case b.scalar:
		return len(a.data), false, nil
	}
	na, nb := len(a.data), len(b.data)
	switch {
	case na == nb:
		return na, false, nil
	case na == 1:
		return nb, false, nil
	case nb == 1:
		return na, false, nil
	}
	return 0, false, fmt.Errorf("%w: cannot broadcast %v with %v", ErrShapeMismatch, a.Shape(), b.Shape())
}

// BroadcastTo returns a with the given shape (nil for scalar).
func BroadcastTo(a Array, shape []int) (Array, error) {
	if shape == nil {
		if !a.scalar && len(a.data) != 1 {
			return Array{}, fmt.Errorf("%w: cannot broadcast %v to scalar", ErrShapeMismatch, a.Shape())
		}
		return Scalar(a.data[0]), nil
	}
	n := shape[0]
	if !a.scalar && len(a.data) == n {
		return a, nil
	}
	if !a.scalar && len(a.data) != 1 {
		return Array{}, fmt.Errorf("%w: cannot broadcast %v to %v", ErrShapeMismatch, a.Shape(), shape)
	}
	return Full(n, a.data[0]), nil
}

// broadcastIndex maps an output position to the source position of an operand.
func broadcastIndex(a Array, i int) int {
	if len(a.data) == 1 {
		return 0
	}
	return i
}
