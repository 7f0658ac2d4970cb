// Package problems holds the residual functions that the CLI and the
// examples differentiate.
package problems

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/forward"
)

// ErrUnknownProblem is returned by Lookup for an unregistered name.
var ErrUnknownProblem = errors.New("problems: unknown problem")

// Problem is a vector residual r(x) together with a starting point.
type Problem struct {
	Name        string
	Description string
	Start       func(n int) array.Array
	Residual    func(x *forward.Value) (*forward.Value, error)
}

var registry = map[string]Problem{
	"poisson": {
		Name:        "poisson",
		Description: "-u'' + exp(u) = f on (0, 1), u(0) = u(1) = 0, exact u = sin(pi x)",
		Start:       func(n int) array.Array { return array.Zeros(n) },
		Residual: func(u *forward.Value) (*forward.Value, error) {
			_, f := SineSource(u.Len())
			return Poisson(u, f)
		},
	},
	"chain": {
		Name:        "chain",
		Description: "eight rounds of y = tanh(y)*x + sin(y)",
		Start:       func(n int) array.Array { return array.Linspace(-1, 1, n) },
		Residual:    Chain,
	},
	"branch": {
		Name:        "branch",
		Description: "sqrt(x) where x > 0, -x^2 elsewhere",
		Start:       func(n int) array.Array { return array.Linspace(-1, 1, n) },
		Residual:    Branch,
	},
}

// Lookup returns the problem called name.
func Lookup(name string) (Problem, error) {
	p, ok := registry[name]
	if !ok {
		return Problem{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownProblem, name, Names())
	}
	return p, nil
}

// Names lists the registered problems in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// Poisson returns the residual of -u'' + exp(u) = f on (0, 1) with
// homogeneous Dirichlet conditions, discretized by central differences on
// len(f) interior points. The Jacobian is tridiagonal.
func Poisson(u *forward.Value, f array.Array) (*forward.Value, error) {
	n := u.Len()
	if u.IsScalar() || n == 0 {
		return nil, fmt.Errorf("%w: poisson needs a non-empty vector", forward.ErrShapeMismatch)
	}
	if f.Len() != n {
		return nil, fmt.Errorf("%w: u has %d points, f has %d", forward.ErrShapeMismatch, n, f.Len())
	}
	h := 1 / float64(n+1)

	padded, err := forward.Stack(0.0, u, 0.0)
	if err != nil {
		return nil, err
	}
	up, _ := forward.AsValue(padded)

	return forward.Eval(func() *forward.Value {
		lap := up.Slice(1, n+1, 1).Mul(2.0).
			Sub(up.Slice(0, n, 1)).
			Sub(up.Slice(2, array.None, 1)).
			Div(h * h)
		return lap.Add(u.Exp()).Sub(f)
	})
}

// SineSource returns the n interior grid points of (0, 1) and the source f
// for which u(x) = sin(pi x) solves the Poisson problem.
func SineSource(n int) (grid, f array.Array) {
	h := 1 / float64(n+1)
	grid = array.Linspace(h, 1-h, n)
	f = array.Map(grid, func(x float64) float64 {
		s := math.Sin(math.Pi * x)
		return math.Pi*math.Pi*s + math.Exp(s)
	})
	return grid, f
}

// Chain composes elementwise functions of x only, so its Jacobian stays
// diagonal and every accumulation takes the fast path.
func Chain(x *forward.Value) (*forward.Value, error) {
	return forward.Eval(func() *forward.Value {
		y := x
		for range 8 {
			y = y.Tanh().Mul(x).Add(y.Sin())
		}
		return y
	})
}

// Branch evaluates sqrt only on the positive entries of x.
func Branch(x *forward.Value) (*forward.Value, error) {
	y, err := forward.Branch(x.Greater(0.0),
		func(idx []int) forward.Operand { return x.Select(idx).Sqrt() },
		func(idx []int) forward.Operand { return x.Select(idx).Square().Neg() },
	)
	if err != nil {
		return nil, err
	}
	v, ok := forward.AsValue(y)
	if !ok {
		return nil, fmt.Errorf("%w: branch produced %T", forward.ErrUnsupported, y)
	}
	return v, nil
}
