// Package sparsevec merges sparse vector contributions by scatter-add.
//
// A Vec is a length-Len vector that is zero except at Indices, where it
// holds Values. Sum adds any number of Vecs of the same length; repeated
// indices accumulate. The payload type is generic so the same merge serves
// plain arrays and differentiable values, whose Jacobian rows have to be
// moved along with the numbers. Hooks adapt the merge to a payload type.
package sparsevec

import (
	"errors"
	"fmt"
	"slices"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/logutil"
)

var (
	// ErrShapeMismatch indicates terms of different lengths or a payload
	// whose size disagrees with its indices.
	ErrShapeMismatch = errors.New("sparsevec: shape mismatch")

	// ErrDuplicateIndex is returned when Options.CheckUnique is set and an
	// index repeats.
	ErrDuplicateIndex = errors.New("sparsevec: duplicate index")

	// ErrIndexOutOfRange indicates an index outside [0, Len).
	ErrIndexOutOfRange = errors.New("sparsevec: index out of range")
)

// Vec is a sparse vector of length Len.
type Vec[P any] struct {
	Len     int
	Indices []int
	Values  P
}

// Hooks adapt Sum to a payload type.
type Hooks[P any] struct {
	// Concat joins the payloads of all terms in order.
	Concat func(parts []P) (P, error)

	// Values returns the numbers carried by a payload.
	Values func(p P) array.Array

	// Wrap builds the merged payload from the scattered numbers. idx maps
	// every entry of the concatenated payload to its output position.
	Wrap func(idx []int, payload P, scattered array.Array) (P, error)
}

// Options control Sum.
type Options struct {
	// Compress returns only the touched positions instead of a dense
	// length-Len result.
	Compress bool

	// CheckUnique rejects repeated indices with ErrDuplicateIndex.
	CheckUnique bool
}

// Result is the outcome of Sum. In dense mode Indices is nil and Values has
// length Len. In compressed mode Indices lists the unique touched positions
// in increasing order and Values holds one entry per position.
type Result[P any] struct {
	Len     int
	Indices []int
	Values  P
}

// Compressed reports whether r only holds the touched positions.
func (r Result[P]) Compressed() bool { return r.Indices != nil }

// Sum adds the terms, accumulating repeated indices.
func Sum[P any](terms []Vec[P], hooks Hooks[P], opts Options) (Result[P], error) {
	var zero Result[P]
	if len(terms) == 0 {
		return zero, fmt.Errorf("%w: no terms", ErrShapeMismatch)
	}

	n := terms[0].Len
	count := 0
	for k, t := range terms {
		if t.Len != n {
			return zero, fmt.Errorf("%w: term %d has length %d, want %d", ErrShapeMismatch, k, t.Len, n)
		}
		count += len(t.Indices)
	}

	idx := make([]int, 0, count)
	parts := make([]P, len(terms))
	for k, t := range terms {
		idx = append(idx, t.Indices...)
		parts[k] = t.Values
	}
	payload, err := hooks.Concat(parts)
	if err != nil {
		return zero, err
	}
	values := hooks.Values(payload)
	if values.Len() != len(idx) {
		return zero, fmt.Errorf("%w: %d indices for %d values", ErrShapeMismatch, len(idx), values.Len())
	}
	for _, i := range idx {
		if i < 0 || i >= n {
			return zero, fmt.Errorf("%w: index %d for length %d", ErrIndexOutOfRange, i, n)
		}
	}
	if opts.CheckUnique {
		if i, dup := firstDuplicate(idx); dup {
			return zero, fmt.Errorf("%w: %d", ErrDuplicateIndex, i)
		}
	}

	if !opts.Compress {
		v, err := hooks.Wrap(idx, payload, scatter(n, idx, values))
		if err != nil {
			return zero, err
		}
		return Result[P]{Len: n, Values: v}, nil
	}

	cidx, pos := compress(idx)
	logutil.Trace("sparsevec: compressed merge", "len", n, "entries", len(idx), "unique", len(cidx))
	v, err := hooks.Wrap(pos, payload, scatter(len(cidx), pos, values))
	if err != nil {
		return zero, err
	}
	return Result[P]{Len: n, Indices: cidx, Values: v}, nil
}

// scatter returns y with y[idx[k]] += values[k].
func scatter(n int, idx []int, values array.Array) array.Array {
	y := make([]float64, n)
	for k, i := range idx {
		y[i] += values.At(k)
	}
	return array.Wrap(y)
}

// compress returns the sorted unique indices and, for every input entry,
// its position among them.
func compress(idx []int) (unique, pos []int) {
	unique = slices.Clone(idx)
	slices.Sort(unique)
	unique = slices.Compact(unique)
	if unique == nil {
		unique = []int{}
	}
	pos = make([]int, len(idx))
	for k, i := range idx {
		pos[k], _ = slices.BinarySearch(unique, i)
	}
	return unique, pos
}

func firstDuplicate(idx []int) (int, bool) {
	seen := make(map[int]struct{}, len(idx))
	for _, i := range idx {
		if _, ok := seen[i]; ok {
			return i, true
		}
		seen[i] = struct{}{}
	}
	return 0, false
}
