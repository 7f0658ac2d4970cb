package forward

import (
	"fmt"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/funcs"
	"github.com/born-ml/sparsegrad/internal/jacobian"
)

// Apply evaluates fn on args. With no differentiable argument the result
// is a plain array.Array; otherwise it is a *Value whose Jacobian combines
// the partials of the differentiable arguments.
func Apply(fn *funcs.Func, args ...Operand) Operand {
	r := route(args)
	if r.kind == plain {
		y, err := fn.Call(r.values...)
		if err != nil {
			panic(err)
		}
		return y
	}
	return apply(fn, r)
}

// ApplyValue is Apply for calls known to involve a *Value.
func ApplyValue(fn *funcs.Func, args ...Operand) *Value {
	r := route(args)
	if r.kind == plain {
		panic(fmt.Errorf("%w: %s called without a differentiable argument", ErrUnsupported, fn.Name))
	}
	return apply(fn, r)
}

func apply(fn *funcs.Func, r routed) *Value {
	y, err := fn.Call(r.values...)
	if err != nil {
		panic(err)
	}
	partials := fn.Partials(r.values, y)

	terms := make([]jacobian.Term, 0, len(r.derivs))
	for i, d := range r.derivs {
		if d == nil {
			continue
		}
		if partials[i] == nil {
			panic(fmt.Errorf("%w: %s is not differentiable in argument %d", ErrUnsupported, fn.Name, i))
		}
		terms = append(terms, jacobian.Term{Local: partials[i](), D: d})
	}
	if len(terms) == 1 {
		return newValue(y, terms[0].D.Chain(y, terms[0].Local))
	}
	return newValue(y, jacobian.FMA(y, terms...))
}

// Add returns x + o.
func (x *Value) Add(o Operand) *Value { return ApplyValue(funcs.Add, x, o) }

// Sub returns x - o.
func (x *Value) Sub(o Operand) *Value { return ApplyValue(funcs.Subtract, x, o) }

// Mul returns x * o.
func (x *Value) Mul(o Operand) *Value { return ApplyValue(funcs.Multiply, x, o) }

// Div returns x / o.
func (x *Value) Div(o Operand) *Value { return ApplyValue(funcs.Divide, x, o) }

// Pow returns x ** o.
func (x *Value) Pow(o Operand) *Value { return ApplyValue(funcs.Power, x, o) }

// RSub returns o - x.
func (x *Value) RSub(o Operand) *Value { return ApplyValue(funcs.Subtract, o, x) }

// RDiv returns o / x.
func (x *Value) RDiv(o Operand) *Value { return ApplyValue(funcs.Divide, o, x) }

// RPow returns o ** x.
func (x *Value) RPow(o Operand) *Value { return ApplyValue(funcs.Power, o, x) }

// Neg returns -x.
func (x *Value) Neg() *Value { return ApplyValue(funcs.Negative, x) }

// Pos returns x.
func (x *Value) Pos() *Value { return x }

// Abs returns |x|.
func (x *Value) Abs() *Value { return ApplyValue(funcs.Abs, x) }

// Sign returns sign(x).
func (x *Value) Sign() *Value { return ApplyValue(funcs.Sign, x) }

// Reciprocal returns 1/x.
func (x *Value) Reciprocal() *Value { return ApplyValue(funcs.Reciprocal, x) }

// Square returns x².
func (x *Value) Square() *Value { return ApplyValue(funcs.Square, x) }

// Sqrt returns √x.
func (x *Value) Sqrt() *Value { return ApplyValue(funcs.Sqrt, x) }

// Exp returns eˣ.
func (x *Value) Exp() *Value { return ApplyValue(funcs.Exp, x) }

// Log returns the natural logarithm of x.
func (x *Value) Log() *Value { return ApplyValue(funcs.Log, x) }

// Expm1 returns eˣ - 1.
func (x *Value) Expm1() *Value { return ApplyValue(funcs.Expm1, x) }

// Log1p returns log(1 + x).
func (x *Value) Log1p() *Value { return ApplyValue(funcs.Log1p, x) }

// Sin returns sin(x).
func (x *Value) Sin() *Value { return ApplyValue(funcs.Sin, x) }

// Cos returns cos(x).
func (x *Value) Cos() *Value { return ApplyValue(funcs.Cos, x) }

// Tan returns tan(x).
func (x *Value) Tan() *Value { return ApplyValue(funcs.Tan, x) }

// Arcsin returns asin(x).
func (x *Value) Arcsin() *Value { return ApplyValue(funcs.Arcsin, x) }

// Arccos returns acos(x).
func (x *Value) Arccos() *Value { return ApplyValue(funcs.Arccos, x) }

// Arctan returns atan(x).
func (x *Value) Arctan() *Value { return ApplyValue(funcs.Arctan, x) }

// Sinh returns sinh(x).
func (x *Value) Sinh() *Value { return ApplyValue(funcs.Sinh, x) }

// Cosh returns cosh(x).
func (x *Value) Cosh() *Value { return ApplyValue(funcs.Cosh, x) }

// Tanh returns tanh(x).
func (x *Value) Tanh() *Value { return ApplyValue(funcs.Tanh, x) }

// Arcsinh returns asinh(x).
func (x *Value) Arcsinh() *Value { return ApplyValue(funcs.Arcsinh, x) }

// Arccosh returns acosh(x).
func (x *Value) Arccosh() *Value { return ApplyValue(funcs.Arccosh, x) }

// Arctanh returns atanh(x).
func (x *Value) Arctanh() *Value { return ApplyValue(funcs.Arctanh, x) }

// Less compares primals elementwise; the Jacobian plays no part.
func (x *Value) Less(o Operand) array.Mask { return array.Less(x.value, toArray(o)) }

// LessEqual compares primals elementwise.
func (x *Value) LessEqual(o Operand) array.Mask { return array.LessEqual(x.value, toArray(o)) }

// Greater compares primals elementwise.
func (x *Value) Greater(o Operand) array.Mask { return array.Greater(x.value, toArray(o)) }

// GreaterEqual compares primals elementwise.
func (x *Value) GreaterEqual(o Operand) array.Mask {
	return array.GreaterEqual(x.value, toArray(o))
}

// Equal compares primals elementwise.
func (x *Value) Equal(o Operand) array.Mask { return array.Equal(x.value, toArray(o)) }

// NotEqual compares primals elementwise.
func (x *Value) NotEqual(o Operand) array.Mask { return array.NotEqual(x.value, toArray(o)) }
