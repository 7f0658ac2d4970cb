package forward

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/jacobian"
	"github.com/born-ml/sparsegrad/internal/sparse"
	"github.com/born-ml/sparsegrad/internal/sparsevec"
)

var whereValues = []float64{-1e3, -1e2, 1e-1, -1, 0, 1, 1e1, 1e2, 1e3}

type whereCase struct {
	name string
	f    func(x *Value) Operand
	df   func(x float64) float64
}

func step(c bool, a, b float64) float64 {
	if c {
		return a
	}
	return b
}

var whereCases = []whereCase{
	{"where(x<0, x, 0)", func(x *Value) Operand { return Where(x.Less(0), x, 0) },
		func(x float64) float64 { return step(x < 0, 1, 0) }},
	{"where(x<0, 0, x)", func(x *Value) Operand { return Where(x.Less(0), 0, x) },
		func(x float64) float64 { return step(x < 0, 0, 1) }},
	{"where(x>0, x, 0)", func(x *Value) Operand { return Where(x.Greater(0), x, 0) },
		func(x float64) float64 { return step(x > 0, 1, 0) }},
	{"where(x>0, 0, x)", func(x *Value) Operand { return Where(x.Greater(0), 0, x) },
		func(x float64) float64 { return step(x > 0, 0, 1) }},
	{"where(true, x, 0)", func(x *Value) Operand { return Where(array.ScalarMask(true), x, 0) },
		func(float64) float64 { return 1 }},
	{"where(false, x, 0)", func(x *Value) Operand { return Where(array.ScalarMask(false), x, 0) },
		func(float64) float64 { return 0 }},
	{"where(true, 0, x)", func(x *Value) Operand { return Where(array.ScalarMask(true), 0, x) },
		func(float64) float64 { return 0 }},
	{"where(false, 0, x)", func(x *Value) Operand { return Where(array.ScalarMask(false), 0, x) },
		func(float64) float64 { return 1 }},
}

func TestWhere_Scalar(t *testing.T) {
	for _, c := range whereCases {
		t.Run(c.name, func(t *testing.T) {
			for _, x := range whereValues {
				y := mustValue(t, c.f(Seed(array.Scalar(x))))
				near(t, c.df(x), y.Gradient().At(0, 0), "at %g", x)
			}
		})
	}
}

func TestWhere_Vector(t *testing.T) {
	for _, c := range whereCases {
		t.Run(c.name, func(t *testing.T) {
			for _, xs := range [][]float64{{}, {1}, whereValues} {
				y := mustValue(t, c.f(Seed(array.FromSlice(xs))))
				want := make([]float64, len(xs))
				for i, x := range xs {
					want[i] = c.df(x)
				}
				assertDiagonal(t, want, y.Gradient())
			}
		})
	}
}

func TestWhere_Plain(t *testing.T) {
	got := Where(array.MaskOf(true, false), vec(1, 2), 9.0)
	assert.Equal(t, []float64{1, 9}, got.(array.Array).Data())
}

// Where evaluates both operands everywhere, so a NaN in the unselected
// operand leaks into the result. Branch does not have this problem.
func TestWhere_PropagatesNaNFromUnselectedOperand(t *testing.T) {
	x := Seed(vec(-1, 4))
	cond := x.Less(0)

	y := mustValue(t, Where(cond, 0, x.Sqrt()))
	assert.True(t, math.IsNaN(y.Value().At(0)))
	assert.Equal(t, 2.0, y.Value().At(1))

	b, err := Branch(cond,
		func([]int) Operand { return 0 },
		func(idx []int) Operand { return x.Select(idx).Sqrt() })
	require.NoError(t, err)
	v := mustValue(t, b)
	assert.Equal(t, []float64{0, 2}, v.Value().Data())
	assertJacobian(t, dense(2, 2, 0, 0, 0, 0.25), v.Gradient())
}

func TestBranch_InvokesEachSideOnItsSubset(t *testing.T) {
	bits := make([]bool, 6)
	for i := range bits {
		bits[i] = i%2 == 0
	}
	var gotTrue, gotFalse [][]int

	r, err := Branch(array.MaskOf(bits...),
		func(idx []int) Operand {
			gotTrue = append(gotTrue, slices.Clone(idx))
			return 0
		},
		func(idx []int) Operand {
			gotFalse = append(gotFalse, slices.Clone(idx))
			return 1
		})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 0, 1, 0, 1}, r.(array.Array).Data())
	assert.Equal(t, [][]int{{0, 2, 4}}, gotTrue)
	assert.Equal(t, [][]int{{1, 3, 5}}, gotFalse)
}

func TestBranch_Differentiable(t *testing.T) {
	x := Seed(vec(-1, 4, -9, 16))
	r, err := Branch(x.GreaterEqual(0),
		func(idx []int) Operand { return x.Select(idx).Sqrt() },
		func(idx []int) Operand { return x.Select(idx).Neg() })
	require.NoError(t, err)

	y := mustValue(t, r)
	assert.Equal(t, []float64{1, 2, 9, 4}, y.Value().Data())
	assertDiagonal(t, []float64{-1, 0.25, -1, 0.125}, y.Gradient())
}

func TestBranch_ScalarCondition(t *testing.T) {
	x := Seed(array.Scalar(4))
	calls := 0
	r, err := Branch(x.Greater(0),
		func(idx []int) Operand {
			assert.Nil(t, idx)
			return x.Select(idx).Sqrt()
		},
		func([]int) Operand {
			calls++
			return 0
		})
	require.NoError(t, err)
	assert.Zero(t, calls)
	near(t, 0.25, mustValue(t, r).Gradient().At(0, 0))
}

func TestBranch_SparsityCoversNumeric(t *testing.T) {
	xs := vec(-2, 3, -1, 5, 0)
	f := func(x *Value) *Value {
		r, err := Branch(x.Greater(0),
			func(idx []int) Operand { return x.Select(idx).Pow(2) },
			func(idx []int) Operand { return x.Slice(array.None, array.None, -1).Select(idx) })
		require.NoError(t, err)
		return mustValue(t, r)
	}
	num := f(Seed(xs)).Gradient()
	pat := f(SeedSparsity(xs)).Sparsity()
	assert.True(t, pat.IsBinary())
	assert.True(t, pat.CoversNonzeros(num))
}

func TestSparseSum(t *testing.T) {
	r, err := SparseSum([]sparsevec.Vec[Operand]{
		{Len: 10, Indices: []int{0}, Values: 1.0},
		{Len: 10, Indices: []int{0}, Values: 1.0},
		{Len: 10, Indices: []int{3}, Values: -1.0},
	}, sparsevec.Options{Compress: true})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, r.Indices)
	assert.Equal(t, []float64{2, -1}, r.Values.(array.Array).Data())

	x := Seed(array.Linspace(0, 1, 11))
	idx := make([]int, 11)
	for i := range idx {
		idx[i] = i
	}
	r, err = SparseSum([]sparsevec.Vec[Operand]{
		{Len: 20, Indices: idx, Values: x},
		{Len: 20, Indices: idx, Values: x},
	}, sparsevec.Options{Compress: true})
	require.NoError(t, err)
	assert.Equal(t, idx, r.Indices)
	d := mustValue(t, r.Values)
	want := make([]float64, 11)
	for i := range want {
		want[i] = 2
	}
	assertDiagonal(t, want, d.Gradient())

	r, err = SparseSum([]sparsevec.Vec[Operand]{
		{Len: 1, Indices: []int{0, 0}, Values: array.Ones(2)},
		{Len: 1, Indices: []int{0}, Values: array.Ones(1)},
	}, sparsevec.Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, r.Values.(array.Array).Data())
}

func TestSparseSum_DenseWithConstant(t *testing.T) {
	x := Seed(vec(1, 2))
	r, err := SparseSum([]sparsevec.Vec[Operand]{
		{Len: 4, Indices: []int{3, 0}, Values: x.Mul(10)},
		{Len: 4, Indices: []int{0, 1}, Values: vec(5, 6)},
	}, sparsevec.Options{})
	require.NoError(t, err)
	assert.False(t, r.Compressed())

	y := mustValue(t, r.Values)
	assert.Equal(t, []float64{25, 6, 0, 10}, y.Value().Data())
	assertJacobian(t, dense(4, 2,
		0, 10,
		0, 0,
		0, 0,
		10, 0,
	), y.Gradient())
}

func TestSparseSum_Errors(t *testing.T) {
	x := Seed(vec(1, 2))
	_, err := SparseSum([]sparsevec.Vec[Operand]{
		{Len: 4, Indices: []int{0, 0}, Values: x},
	}, sparsevec.Options{CheckUnique: true})
	assert.ErrorIs(t, err, sparsevec.ErrDuplicateIndex)

	_, err = SparseSum([]sparsevec.Vec[Operand]{
		{Len: 4, Indices: []int{0, 1}, Values: x},
		{Len: 4, Indices: []int{2, 3}, Values: SeedSparsity(vec(1, 2))},
	}, sparsevec.Options{})
	assert.ErrorIs(t, err, ErrInconsistentFactory)
}

// sparsityCases are checked as f(x**2) for a numeric and a sparsity seed.
var sparsityCases = []struct {
	name string
	f    func(t *testing.T, x *Value) *Value
}{
	{"x", func(_ *testing.T, x *Value) *Value { return x }},
	{"x[::-1]", func(_ *testing.T, x *Value) *Value { return reversed(x) }},
	{"stack(x**2, x**3)", func(t *testing.T, x *Value) *Value {
		return mustStack(t, x.Pow(2), x.Pow(3))
	}},
	{"stack(x**2, (x**3)[::-1])", func(t *testing.T, x *Value) *Value {
		return mustStack(t, x.Pow(2), reversed(x.Pow(3)))
	}},
	{"where(false, x, x[::-1])", func(t *testing.T, x *Value) *Value {
		return mustValue(t, Where(array.ScalarMask(false), x, reversed(x)))
	}},
	{"where(x>=0, x, x[::-1])", func(t *testing.T, x *Value) *Value {
		return mustValue(t, Where(x.GreaterEqual(0), x, reversed(x)))
	}},
	{"where(x>0, x, x[::-1])", func(t *testing.T, x *Value) *Value {
		return mustValue(t, Where(x.Greater(0), x, reversed(x)))
	}},
	{"sum(x)", func(_ *testing.T, x *Value) *Value { return x.Sum() }},
	{"stack(x, sum(x))", func(t *testing.T, x *Value) *Value {
		return mustStack(t, x, x.Sum())
	}},
	{"where(x>0, x, sum(x))", func(t *testing.T, x *Value) *Value {
		return mustValue(t, Where(x.Greater(0), x, x.Sum()))
	}},
}

func reversed(x *Value) *Value { return x.Slice(array.None, array.None, -1) }

func TestSparsity_Superset(t *testing.T) {
	vectors := []array.Array{
		array.Linspace(0, 1, 0),
		array.Linspace(0, 1, 1),
		array.Linspace(0, 1, 2),
		array.Linspace(1, 3, 3),
	}
	for _, c := range sparsityCases {
		t.Run(c.name, func(t *testing.T) {
			for _, v := range vectors {
				for _, x := range []array.Array{v, array.Neg(v)} {
					num := c.f(t, Seed(x).Pow(2)).Gradient()
					pat := c.f(t, SeedSparsity(x).Pow(2))

					assert.Equal(t, jacobian.SparsityOnly, pat.Kind())
					assertSuperset(t, pat.Sparsity(), num)
				}
			}
		})
	}
}

func assertSuperset(t *testing.T, pat, num *sparse.CSR) {
	t.Helper()
	pr, pc := pat.Dims()
	nr, nc := num.Dims()
	require.Equal(t, nr, pr)
	require.Equal(t, nc, pc)
	assert.True(t, pat.IsBinary(), "pattern is not binary:\n%v", pat)
	assert.True(t, pat.CoversNonzeros(num), "pattern\n%v\ndoes not cover\n%v", pat, num)
}
