package problems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/forward"
	"github.com/born-ml/sparsegrad/internal/jacobian"
)

func TestPoisson_Tridiagonal(t *testing.T) {
	const n = 6
	u0 := array.Linspace(0.1, 0.6, n)
	r, err := Poisson(forward.Seed(u0), array.Ones(n))
	require.NoError(t, err)

	h2 := 1 / float64((n+1)*(n+1))
	J := r.Gradient()
	rows, cols := J.Dims()
	require.Equal(t, n, rows)
	require.Equal(t, n, cols)
	assert.Equal(t, 3*n-2, J.NNZ())

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var want float64
			switch j - i {
			case 0:
				want = 2/h2 + math.Exp(u0.At(i))
			case -1, 1:
				want = -1 / h2
			}
			assert.InDelta(t, want, J.At(i, j), 1e-9, "J[%d,%d]", i, j)
		}
	}
}

func TestPoisson_ResidualValue(t *testing.T) {
	r, err := Poisson(forward.Seed(array.Zeros(3)), array.Ones(3))
	require.NoError(t, err)
	// Zero state: the Laplacian vanishes and exp(0) - 1 = 0.
	assert.Equal(t, []float64{0, 0, 0}, r.Value().Data())
}

func TestPoisson_Errors(t *testing.T) {
	_, err := Poisson(forward.Seed(array.Zeros(3)), array.Ones(2))
	assert.ErrorIs(t, err, forward.ErrShapeMismatch)

	_, err = Poisson(forward.Seed(array.Scalar(1)), array.Ones(1))
	assert.ErrorIs(t, err, forward.ErrShapeMismatch)
}

func TestPoisson_SparsityMatchesNumeric(t *testing.T) {
	x0 := array.Linspace(0, 1, 5)
	num, err := Poisson(forward.Seed(x0), array.Ones(5))
	require.NoError(t, err)
	pat, err := Poisson(forward.SeedSparsity(x0), array.Ones(5))
	require.NoError(t, err)

	assert.True(t, pat.Sparsity().IsBinary())
	assert.True(t, pat.Sparsity().CoversNonzeros(num.Gradient()))
	assert.Equal(t, num.Gradient().NNZ(), pat.Sparsity().NNZ())
}

func TestChain_StaysFactored(t *testing.T) {
	jacobian.ResetStats()
	y, err := Chain(forward.Seed(array.Linspace(-1, 1, 7)))
	require.NoError(t, err)

	stats := jacobian.ReadStats()
	assert.Equal(t, int64(16), stats.FastFMA)
	assert.Zero(t, stats.SlowFMA)
	assert.Equal(t, 7, y.Gradient().NNZ())
}

func TestBranch_Derivative(t *testing.T) {
	x0 := array.FromSlice([]float64{-1, -0.5, 0.25, 1})
	y, err := Branch(forward.Seed(x0))
	require.NoError(t, err)

	assert.Equal(t, []float64{-1, -0.25, 0.5, 1}, y.Value().Data())
	want := []float64{2, 1, 1, 0.5}
	J := y.Gradient()
	for i, w := range want {
		assert.InDelta(t, w, J.At(i, i), 1e-12, "J[%d,%d]", i, i)
	}
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"branch", "chain", "poisson"}, Names())

	p, err := Lookup("chain")
	require.NoError(t, err)
	assert.Equal(t, "chain", p.Name)
	assert.Equal(t, 4, p.Start(4).Len())

	_, err = Lookup("heat")
	assert.ErrorIs(t, err, ErrUnknownProblem)
}
