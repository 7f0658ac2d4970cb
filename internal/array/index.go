package array

import (
	"fmt"
	"math"
)

// None marks an omitted slice bound, like a missing value in x[::-1].
const None = math.MinInt

// NormalizeIndex maps i in [-n, n) to [0, n).
func NormalizeIndex(i, n int) (int, error) {
	if i < -n || i >= n {
		return 0, fmt.Errorf("%w: index %d for length %d", ErrIndexOutOfRange, i, n)
	}
	if i < 0 {
		i += n
	}
	return i, nil
}

// NormalizeIndices wraps negative entries modulo n and validates bounds.
// The input is not modified.
func NormalizeIndices(idx []int, n int) ([]int, error) {
	out := make([]int, len(idx))
	for k, i := range idx {
		j, err := NormalizeIndex(i, n)
		if err != nil {
			return nil, err
		}
		out[k] = j
	}
	return out, nil
}

// SliceIndices returns the positions selected by start:stop:step on a
// vector of length n, following Python slice semantics. Use None for an
// omitted bound. A zero step is an error.
func SliceIndices(n, start, stop, step int) ([]int, error) {
	if step == 0 {
		return nil, fmt.Errorf("%w: slice step cannot be zero", ErrIndexOutOfRange)
	}

	clamp := func(v, lo, hi int) int { return max(lo, min(v, hi)) }
	var lo, hi int
	if step > 0 {
		lo, hi = 0, n
	} else {
		lo, hi = -1, n-1
	}

	if start == None {
		if step > 0 {
			start = lo
		} else {
			start = hi
		}
	} else {
		if start < 0 {
			start += n
		}
		start = clamp(start, lo, hi)
	}
	if stop == None {
		if step > 0 {
			stop = hi
		} else {
			stop = lo
		}
	} else {
		if stop < 0 {
			stop += n
		}
		stop = clamp(stop, lo, hi)
	}

	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}

// Take gathers a[idx]. Indices must already be in [0, len(a)).
func Take(a Array, idx []int) Array {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = a.data[i]
	}
	return Array{data: out}
}
