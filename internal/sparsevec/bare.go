package sparsevec

import "github.com/born-ml/sparsegrad/internal/array"

// Pair is one (indices, values) contribution to SumBare.
type Pair struct {
	Indices []int
	Values  array.Array
}

// ArrayHooks merges plain arrays.
func ArrayHooks() Hooks[array.Array] {
	return Hooks[array.Array]{
		Concat: func(parts []array.Array) (array.Array, error) {
			return array.Concat(parts...), nil
		},
		Values: func(p array.Array) array.Array { return p },
		Wrap: func(_ []int, _ array.Array, y array.Array) (array.Array, error) {
			return y, nil
		},
	}
}

// SumBare adds plain (indices, values) pairs into a vector of length n.
// With no pairs the result is the zero vector of length n, or an empty
// compressed vector when opts.Compress is set.
func SumBare(n int, pairs []Pair, opts Options) (Result[array.Array], error) {
	if len(pairs) == 0 {
		if opts.Compress {
			return Result[array.Array]{Len: n, Indices: []int{}, Values: array.Zeros(0)}, nil
		}
		return Result[array.Array]{Len: n, Values: array.Zeros(n)}, nil
	}
	terms := make([]Vec[array.Array], len(pairs))
	for k, p := range pairs {
		terms[k] = Vec[array.Array]{Len: n, Indices: p.Indices, Values: p.Values}
	}
	return Sum(terms, ArrayHooks(), opts)
}
