package array

import "fmt"

// Mask is a boolean scalar or vector, produced by comparisons and consumed
// by where and branch.
type Mask struct {
	data   []bool
	scalar bool
}

// ScalarMask returns a 0-d mask.
func ScalarMask(b bool) Mask {
	return Mask{data: []bool{b}, scalar: true}
}

// MaskOf returns a vector mask holding a copy of bits.
func MaskOf(bits ...bool) Mask {
	out := make([]bool, len(bits))
	copy(out, bits)
	return Mask{data: out}
}

// IsScalar reports whether m is 0-d.
func (m Mask) IsScalar() bool { return m.scalar }

// Len returns the number of elements.
func (m Mask) Len() int { return len(m.data) }

// At returns element i.
func (m Mask) At(i int) bool { return m.data[i] }

// Bits returns the backing slice. Do not modify it.
func (m Mask) Bits() []bool { return m.data }

// Not returns the elementwise negation.
func (m Mask) Not() Mask {
	out := make([]bool, len(m.data))
	for i, b := range m.data {
		out[i] = !b
	}
	return Mask{data: out, scalar: m.scalar}
}

// Positions returns the indices where m is true.
func (m Mask) Positions() []int {
	out := []int{}
	for i, b := range m.data {
		if b {
			out = append(out, i)
		}
	}
	return out
}

// Float returns 1 where m is true and 0 elsewhere, with the same shape.
func (m Mask) Float() Array {
	out := make([]float64, len(m.data))
	for i, b := range m.data {
		if b {
			out[i] = 1
		}
	}
	return Array{data: out, scalar: m.scalar}
}

// Where selects a where m is true and b elsewhere, broadcasting all three.
func Where(m Mask, a, b Array) Array {
	cond := m.Float()
	n, scalar, err := BroadcastShapes(cond, a)
	if err == nil {
		n, scalar, err = BroadcastShapes(Array{data: make([]float64, n), scalar: scalar}, b)
	}
	if err != nil {
		panic(fmt.Errorf("where: %w", err))
	}
	out := make([]float64, n)
	for i := range out {
		if m.data[broadcastMaskIndex(m, i)] {
			out[i] = a.data[broadcastIndex(a, i)]
		} else {
			out[i] = b.data[broadcastIndex(b, i)]
		}
	}
	return Array{data: out, scalar: scalar}
}

func broadcastMaskIndex(m Mask, i int) int {
	if len(m.data) == 1 {
		return 0
	}
	return i
}

func compare(a, b Array, f func(x, y float64) bool) Mask {
	n, scalar, err := BroadcastShapes(a, b)
	if err != nil {
		panic(err)
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = f(a.data[broadcastIndex(a, i)], b.data[broadcastIndex(b, i)])
	}
	return Mask{data: out, scalar: scalar}
}

// Less returns a < b elementwise.
func Less(a, b Array) Mask { return compare(a, b, func(x, y float64) bool { return x < y }) }

// LessEqual returns a <= b elementwise.
func LessEqual(a, b Array) Mask { return compare(a, b, func(x, y float64) bool { return x <= y }) }

// Greater returns a > b elementwise.
func Greater(a, b Array) Mask { return compare(a, b, func(x, y float64) bool { return x > y }) }

// GreaterEqual returns a >= b elementwise.
func GreaterEqual(a, b Array) Mask { return compare(a, b, func(x, y float64) bool { return x >= y }) }

// Equal returns a == b elementwise.
func Equal(a, b Array) Mask { return compare(a, b, func(x, y float64) bool { return x == y }) }

// NotEqual returns a != b elementwise.
func NotEqual(a, b Array) Mask { return compare(a, b, func(x, y float64) bool { return x != y }) }
