// Package funcs holds the formula table of elementwise differentiable
// functions.
//
// Each Func pairs a primal evaluation with one lazy partial derivative per
// argument position:
//
//	y = f(x1, ..., xn)
//	Deriv(args, y)[i]() = ∂y/∂xi (elementwise)
//
// Partials are closures so the engine only pays for the derivatives of
// arguments that actually carry a Jacobian. A nil Partial means the
// function is not differentiable in that argument.
package funcs

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/born-ml/sparsegrad/internal/array"
)

var (
	// ErrDuplicateFunc is returned when registering a name twice.
	ErrDuplicateFunc = errors.New("funcs: duplicate function")

	// ErrUnknownFunc is returned by Lookup for unregistered names.
	ErrUnknownFunc = errors.New("funcs: unknown function")

	// ErrArity indicates a call with the wrong number of arguments.
	ErrArity = errors.New("funcs: wrong number of arguments")
)

// Partial lazily computes one partial derivative.
type Partial func() array.Array

// Func is an elementwise function with its derivative formula.
type Func struct {
	Name  string
	Arity int
	Eval  func(args ...array.Array) array.Array
	Deriv func(args []array.Array, y array.Array) []Partial
}

// NewFunc validates and returns a user function. It is not registered.
func NewFunc(name string, arity int,
	eval func(args ...array.Array) array.Array,
	deriv func(args []array.Array, y array.Array) []Partial,
) (*Func, error) {
	if name == "" {
		return nil, errors.New("funcs: empty function name")
	}
	if arity < 1 {
		return nil, fmt.Errorf("%w: %s declares arity %d", ErrArity, name, arity)
	}
	if eval == nil || deriv == nil {
		return nil, fmt.Errorf("funcs: %s needs both eval and deriv", name)
	}
	return &Func{Name: name, Arity: arity, Eval: eval, Deriv: deriv}, nil
}

// Call evaluates f after checking the argument count.
func (f *Func) Call(args ...array.Array) (array.Array, error) {
	if len(args) != f.Arity {
		return array.Array{}, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, f.Name, f.Arity, len(args))
	}
	return f.Eval(args...), nil
}

// Partials returns the partial derivative closures for a call that
// produced y. The slice always has Arity entries.
func (f *Func) Partials(args []array.Array, y array.Array) []Partial {
	ps := f.Deriv(args, y)
	if len(ps) != f.Arity {
		panic(fmt.Errorf("%w: %s returned %d partials for arity %d", ErrArity, f.Name, len(ps), f.Arity))
	}
	return ps
}

func (f *Func) String() string { return f.Name }

var (
	mu       sync.RWMutex
	registry = map[string]*Func{}
)

// Register adds f to the table.
func Register(f *Func) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[f.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFunc, f.Name)
	}
	registry[f.Name] = f
	return nil
}

// Lookup returns the registered function called name.
func Lookup(name string) (*Func, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunc, name)
	}
	return f, nil
}

// Names returns the registered names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Unary returns the registered one-argument functions sorted by name.
func Unary() []*Func {
	var out []*Func
	for _, name := range Names() {
		f, _ := Lookup(name)
		if f.Arity == 1 {
			out = append(out, f)
		}
	}
	return out
}

func init() {
	for _, f := range []*Func{
		Add, Subtract, Multiply, Divide, Power, Negative, Abs, Sign, Reciprocal,
		Square, Sqrt,
		Exp, Log, Expm1, Log1p,
		Sin, Cos, Tan, Arcsin, Arccos, Arctan,
		Sinh, Cosh, Tanh, Arcsinh, Arccosh, Arctanh,
	} {
		if err := Register(f); err != nil {
			panic(err)
		}
	}
}

// unary builds a one-argument function from a scalar kernel and the
// formula for dy/dx in terms of x and y.
func unary(name string, f func(float64) float64, d func(x, y array.Array) array.Array) *Func {
	return &Func{
		Name:  name,
		Arity: 1,
		Eval: func(args ...array.Array) array.Array {
			return array.Map(args[0], f)
		},
		Deriv: func(args []array.Array, y array.Array) []Partial {
			return []Partial{func() array.Array { return d(args[0], y) }}
		},
	}
}

// binary builds a two-argument function.
func binary(name string, f func(a, b float64) float64, d func(a, b, y array.Array) []Partial) *Func {
	return &Func{
		Name:  name,
		Arity: 2,
		Eval: func(args ...array.Array) array.Array {
			return array.Zip(args[0], args[1], f)
		},
		Deriv: func(args []array.Array, y array.Array) []Partial {
			return d(args[0], args[1], y)
		},
	}
}

func constant(v float64) Partial {
	c := array.Scalar(v)
	return func() array.Array { return c }
}
