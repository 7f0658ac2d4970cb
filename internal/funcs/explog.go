package funcs

import (
	"math"

	"github.com/born-ml/sparsegrad/internal/array"
)

// Exp is eˣ; dy/dx = y.
var Exp = unary("exp", math.Exp,
	func(_, y array.Array) array.Array { return y })

// Log is the natural logarithm; dy/dx = 1/x.
var Log = unary("log", math.Log,
	func(x, _ array.Array) array.Array { return reciprocal(x) })

// Expm1 is eˣ - 1; dy/dx = eˣ.
var Expm1 = unary("expm1", math.Expm1,
	func(x, _ array.Array) array.Array { return array.Map(x, math.Exp) })

// Log1p is log(1 + x); dy/dx = 1/(1 + x).
var Log1p = unary("log1p", math.Log1p,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 { return 1 / (1 + v) })
	})
