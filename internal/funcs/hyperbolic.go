package funcs

import (
	"math"

	"github.com/born-ml/sparsegrad/internal/array"
)

// Sinh is sinh(x).
var Sinh = unary("sinh", math.Sinh,
	func(x, _ array.Array) array.Array { return array.Map(x, math.Cosh) })

// Cosh is cosh(x).
var Cosh = unary("cosh", math.Cosh,
	func(x, _ array.Array) array.Array { return array.Map(x, math.Sinh) })

// Tanh is tanh(x); dy/dx = 1 - y².
var Tanh = unary("tanh", math.Tanh,
	func(_, y array.Array) array.Array {
		return array.Map(y, func(v float64) float64 { return 1 - v*v })
	})

// Arcsinh is asinh(x).
var Arcsinh = unary("arcsinh", math.Asinh,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 { return 1 / math.Sqrt(v*v+1) })
	})

// Arccosh is acosh(x), defined for x >= 1.
var Arccosh = unary("arccosh", math.Acosh,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 { return 1 / math.Sqrt(v*v-1) })
	})

// Arctanh is atanh(x), defined for |x| < 1.
var Arctanh = unary("arctanh", math.Atanh,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 { return 1 / (1 - v*v) })
	})
