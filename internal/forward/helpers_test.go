package forward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/sparsegrad/internal/array"
)

const tol = 1e-7

func near(t *testing.T, want, got float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want, got, tol*math.Max(1, math.Abs(want)), msgAndArgs...)
}

// assertJacobian compares got against want entry by entry.
func assertJacobian(t *testing.T, want, got mat.Matrix) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, wr, gr, "rows")
	require.Equal(t, wc, gc, "cols")
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			near(t, want.At(i, j), got.At(i, j), "entry (%d, %d)", i, j)
		}
	}
}

// assertDiagonal checks that got is square with diagonal want.
func assertDiagonal(t *testing.T, want []float64, got mat.Matrix) {
	t.Helper()
	r, c := got.Dims()
	require.Equal(t, len(want), r, "rows")
	require.Equal(t, len(want), c, "cols")
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			w := 0.0
			if i == j {
				w = want[i]
			}
			near(t, w, got.At(i, j), "entry (%d, %d)", i, j)
		}
	}
}

func dense(rows, cols int, data ...float64) *mat.Dense {
	return mat.NewDense(rows, cols, data)
}

func vec(xs ...float64) array.Array { return array.FromSlice(xs) }

func mustValue(t *testing.T, o Operand) *Value {
	t.Helper()
	v, ok := AsValue(o)
	require.True(t, ok, "expected a *Value, got %T", o)
	return v
}
