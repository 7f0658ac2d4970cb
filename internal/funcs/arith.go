package funcs

import (
	"math"

	"github.com/born-ml/sparsegrad/internal/array"
)

// Add is a + b.
var Add = binary("add",
	func(a, b float64) float64 { return a + b },
	func(_, _, _ array.Array) []Partial {
		return []Partial{constant(1), constant(1)}
	})

// Subtract is a - b.
var Subtract = binary("subtract",
	func(a, b float64) float64 { return a - b },
	func(_, _, _ array.Array) []Partial {
		return []Partial{constant(1), constant(-1)}
	})

// Multiply is a * b.
var Multiply = binary("multiply",
	func(a, b float64) float64 { return a * b },
	func(a, b, _ array.Array) []Partial {
		return []Partial{
			func() array.Array { return b },
			func() array.Array { return a },
		}
	})

// Divide is a / b.
var Divide = binary("divide",
	func(a, b float64) float64 { return a / b },
	func(a, b, _ array.Array) []Partial {
		return []Partial{
			func() array.Array { return reciprocal(b) },
			func() array.Array {
				// -a / b²
				return array.Zip(a, b, func(x, y float64) float64 { return -x / (y * y) })
			},
		}
	})

// Power is a ** b.
var Power = binary("power",
	math.Pow,
	func(a, b, y array.Array) []Partial {
		return []Partial{
			func() array.Array {
				return array.Zip(a, b, func(x, p float64) float64 { return p * math.Pow(x, p-1) })
			},
			func() array.Array {
				return array.Zip(y, a, func(v, x float64) float64 { return v * math.Log(x) })
			},
		}
	})

// Negative is -x.
var Negative = unary("negative",
	func(x float64) float64 { return -x },
	func(_, _ array.Array) array.Array { return array.Scalar(-1) })

// Abs is |x|. Its derivative at 0 is taken as sign(0) = 0.
var Abs = unary("abs", math.Abs,
	func(x, _ array.Array) array.Array { return array.Map(x, sign) })

// Sign is -1, 0 or 1. The derivative is 0 away from 0 and NaN at 0.
var Sign = unary("sign", sign,
	func(x, _ array.Array) array.Array {
		return array.Map(x, func(v float64) float64 {
			if v != 0 {
				return 0
			}
			return math.NaN()
		})
	})

// Reciprocal is 1/x.
var Reciprocal = unary("reciprocal",
	func(x float64) float64 { return 1 / x },
	func(_, y array.Array) array.Array {
		return array.Map(y, func(v float64) float64 { return -v * v })
	})

// Square is x².
var Square = unary("square",
	func(x float64) float64 { return x * x },
	func(x, _ array.Array) array.Array { return array.Scale(2, x) })

// Sqrt is √x.
var Sqrt = unary("sqrt", math.Sqrt,
	func(_, y array.Array) array.Array {
		return array.Map(y, func(v float64) float64 { return 0.5 / v })
	})

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	case x == 0:
		return 0
	}
	return x // NaN
}

func reciprocal(a array.Array) array.Array {
	return array.Map(a, func(v float64) float64 { return 1 / v })
}
