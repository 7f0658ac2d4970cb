package funcs

import (
	"math"

	"github.com/born-ml/sparsegrad/internal/array"
)

// Sin is sin(x).
var Sin = unary("sin", math.Sin,
	func(x, _ array.Array) array.Array { return array.Map(x, math.Cos) })

// Cos is cos(x).
var Cos = unary("cos", math.Cos,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 { return -math.Sin(v) })
	})

// Tan is tan(x); dy/dx = 1 + y².
var Tan = unary("tan", math.Tan,
	func(_, y array.Array) array.Array {
		return array.Map(y, func(v float64) float64 { return v*v + 1 })
	})

// Arcsin is asin(x).
var Arcsin = unary("arcsin", math.Asin,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 { return 1 / math.Sqrt(1-v*v) })
	})

// Arccos is acos(x).
var Arccos = unary("arccos", math.Acos,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 { return -1 / math.Sqrt(1-v*v) })
	})

// Arctan is atan(x).
var Arctan = unary("arctan", math.Atan,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 { return 1 / (1 + v*v) })
	})
