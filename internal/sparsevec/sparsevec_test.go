package sparsevec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/sparsegrad/internal/array"
)

func TestSumBare_Compressed(t *testing.T) {
	r, err := SumBare(10, []Pair{
		{[]int{0}, array.Scalar(1)},
		{[]int{0}, array.Scalar(1)},
		{[]int{3}, array.Scalar(-1)},
	}, Options{Compress: true})
	require.NoError(t, err)

	assert.True(t, r.Compressed())
	assert.Equal(t, 10, r.Len)
	if diff := cmp.Diff([]int{0, 3}, r.Indices); diff != "" {
		t.Errorf("indices (-want +got):\n%s", diff)
	}
	assert.Equal(t, []float64{2, -1}, r.Values.Data())
}

func TestSumBare_Dense(t *testing.T) {
	r, err := SumBare(1, []Pair{
		{[]int{0, 0}, array.Ones(2)},
		{[]int{0}, array.Ones(1)},
	}, Options{})
	require.NoError(t, err)
	assert.False(t, r.Compressed())
	assert.Equal(t, []float64{3}, r.Values.Data())

	r, err = SumBare(5, []Pair{
		{[]int{4, 1}, array.FromSlice([]float64{2, 3})},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 0, 0, 2}, r.Values.Data())
}

func TestSumBare_Empty(t *testing.T) {
	r, err := SumBare(4, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, r.Values.Data())

	r, err = SumBare(4, nil, Options{Compress: true})
	require.NoError(t, err)
	assert.Empty(t, r.Indices)
	assert.Equal(t, 0, r.Values.Len())
}

func TestSum_Errors(t *testing.T) {
	hooks := ArrayHooks()

	_, err := Sum[array.Array](nil, hooks, Options{})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Sum([]Vec[array.Array]{
		{Len: 3, Indices: []int{0}, Values: array.Scalar(1)},
		{Len: 4, Indices: []int{0}, Values: array.Scalar(1)},
	}, hooks, Options{})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Sum([]Vec[array.Array]{
		{Len: 3, Indices: []int{0, 1}, Values: array.Scalar(1)},
	}, hooks, Options{})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Sum([]Vec[array.Array]{
		{Len: 3, Indices: []int{3}, Values: array.Scalar(1)},
	}, hooks, Options{})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = Sum([]Vec[array.Array]{
		{Len: 3, Indices: []int{-1}, Values: array.Scalar(1)},
	}, hooks, Options{})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSum_CheckUnique(t *testing.T) {
	terms := []Vec[array.Array]{
		{Len: 5, Indices: []int{1, 2}, Values: array.Ones(2)},
		{Len: 5, Indices: []int{2}, Values: array.Ones(1)},
	}
	_, err := Sum(terms, ArrayHooks(), Options{CheckUnique: true})
	assert.ErrorIs(t, err, ErrDuplicateIndex)

	r, err := Sum(terms, ArrayHooks(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 0, 0}, r.Values.Data())
}

func TestSum_WrapReceivesPositions(t *testing.T) {
	var gotIdx []int
	hooks := ArrayHooks()
	hooks.Wrap = func(idx []int, payload, y array.Array) (array.Array, error) {
		gotIdx = idx
		assert.Equal(t, []float64{5, 6, 7}, payload.Data())
		return y, nil
	}

	_, err := Sum([]Vec[array.Array]{
		{Len: 100, Indices: []int{40, 7}, Values: array.FromSlice([]float64{5, 6})},
		{Len: 100, Indices: []int{40}, Values: array.Scalar(7)},
	}, hooks, Options{Compress: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, gotIdx)
}
