package array

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/born-ml/sparsegrad/internal/parallel"
)

var kernelConfig atomic.Pointer[parallel.Config]

func init() {
	cfg := parallel.DefaultConfig()
	kernelConfig.Store(&cfg)
}

// SetParallelConfig replaces the configuration used by elementwise kernels.
func SetParallelConfig(cfg parallel.Config) {
	kernelConfig.Store(&cfg)
}

// ParallelConfig returns the active kernel configuration.
func ParallelConfig() parallel.Config {
	return *kernelConfig.Load()
}

// Map applies f elementwise.
func Map(a Array, f func(float64) float64) Array {
	out := make([]float64, len(a.data))
	in := a.data
	parallel.ForRange(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(in[i])
		}
	}, ParallelConfig())
	return Array{data: out, scalar: a.scalar}
}

// Zip applies f elementwise to the broadcast of a and b.
// Panics with ErrShapeMismatch if the shapes are incompatible.
func Zip(a, b Array, f func(x, y float64) float64) Array {
	n, scalar, err := BroadcastShapes(a, b)
	if err != nil {
		panic(err)
	}
	out := make([]float64, n)
	ad, bd := a.data, b.data
	switch {
	case len(ad) == n && len(bd) == n:
		parallel.ForRange(n, func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = f(ad[i], bd[i])
			}
		}, ParallelConfig())
	default:
		parallel.ForRange(n, func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = f(ad[broadcastIndex(a, i)], bd[broadcastIndex(b, i)])
			}
		}, ParallelConfig())
	}
	return Array{data: out, scalar: scalar}
}

// Add returns a + b.
func Add(a, b Array) Array { return Zip(a, b, func(x, y float64) float64 { return x + y }) }

// Sub returns a - b.
func Sub(a, b Array) Array { return Zip(a, b, func(x, y float64) float64 { return x - y }) }

// Mul returns a * b.
func Mul(a, b Array) Array { return Zip(a, b, func(x, y float64) float64 { return x * y }) }

// Div returns a / b.
func Div(a, b Array) Array { return Zip(a, b, func(x, y float64) float64 { return x / y }) }

// Pow returns a ** b.
func Pow(a, b Array) Array { return Zip(a, b, math.Pow) }

// Neg returns -a.
func Neg(a Array) Array { return Map(a, func(x float64) float64 { return -x }) }

// Scale returns s * a.
func Scale(s float64, a Array) Array {
	if s == 1 {
		return a
	}
	out := make([]float64, len(a.data))
	floats.ScaleTo(out, s, a.data)
	return Array{data: out, scalar: a.scalar}
}

// Sum returns the sum of all elements as a scalar.
func Sum(a Array) Array {
	return Scalar(floats.Sum(a.data))
}

// Concat joins the parts into one vector; scalars contribute one element.
func Concat(parts ...Array) Array {
	n := 0
	for _, p := range parts {
		n += len(p.data)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		out = append(out, p.data...)
	}
	return Array{data: out}
}

// AllClose reports whether a and b have the same shape and agree within tol
// elementwise (absolute or relative).
func AllClose(a, b Array, tol float64) bool {
	if !a.SameShape(b) {
		return false
	}
	for i := range a.data {
		if !scalar.EqualWithinAbsOrRel(a.data[i], b.data[i], tol, tol) {
			return false
		}
	}
	return true
}

