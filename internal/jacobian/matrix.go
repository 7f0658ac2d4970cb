// Package jacobian implements the lazily factored derivative matrix of the
// forward-mode engine.
//
// A Matrix stands for
//
//	scalar · diag(diag) · G
//
// where scalar is a number, diag is a scalar or a per-row scaling vector and
// G is a general sparse matrix, or the identity when absent. G is shared by
// pointer between many matrices and never mutated, which makes
// "do these Jacobians have the same structure" a pointer comparison.
//
// Elementwise functions only rescale rows, so a chain of elementwise
// arithmetic on one seed keeps a single shared G and costs O(n) per step.
// Structural operations (indexing, stacking, merging) are the only ones that
// build a new G.
//
// Shapes use NoDim for the scalar cases: Rows == NoDim is the derivative of a
// scalar output, Cols == NoDim a derivative with respect to a scalar seed.
// Materialized matrices treat NoDim as extent 1.
package jacobian

import (
	"fmt"
	"sync"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/logutil"
	"github.com/born-ml/sparsegrad/internal/sparse"
)

// NoDim marks a scalar dimension.
const NoDim = -1

// Shape is the (rows, cols) shape of a Jacobian.
type Shape struct {
	Rows, Cols int
}

func extent(n int) int {
	if n == NoDim {
		return 1
	}
	return n
}

// Extent returns the materialized dimensions.
func (s Shape) Extent() (rows, cols int) {
	return extent(s.Rows), extent(s.Cols)
}

func (s Shape) String() string {
	dim := func(n int) string {
		if n == NoDim {
			return "-"
		}
		return fmt.Sprint(n)
	}
	return "(" + dim(s.Rows) + ", " + dim(s.Cols) + ")"
}

// Matrix is an immutable, lazily materialized Jacobian.
type Matrix struct {
	shape   Shape
	scalar  float64
	diag    array.Array
	general *sparse.CSR
	kind    Kind

	once  sync.Once
	value *sparse.CSR
}

// Term is one summand of FMA: the local derivative ∂y/∂x and the Jacobian
// of x.
type Term struct {
	Local array.Array
	D     *Matrix
}

var one = array.Scalar(1)

// Seed returns the Jacobian of a seed of length n with respect to itself,
// i.e. the identity. n == NoDim seeds a scalar.
func Seed(kind Kind, n int) *Matrix {
	return newMatrix(kind, Shape{n, n}, 1, one, nil)
}

// newMatrix is the single constructor. Sparsity-only matrices drop the
// scaling and keep a binary G.
func newMatrix(kind Kind, shape Shape, scalar float64, diag array.Array, general *sparse.CSR) *Matrix {
	if kind == SparsityOnly {
		if general != nil && !general.IsBinary() {
			general = general.Binarize()
		}
		return &Matrix{shape: shape, scalar: 1, diag: one, general: general, kind: kind}
	}
	return &Matrix{shape: shape, scalar: scalar, diag: diag, general: general, kind: kind}
}

// newScaled places a scalar factor into scalar and a vector factor into diag.
func newScaled(kind Kind, shape Shape, d array.Array, general *sparse.CSR) *Matrix {
	if d.IsScalar() {
		return newMatrix(kind, shape, d.Item(), one, general)
	}
	return newMatrix(kind, shape, 1, d, general)
}

// FromCSR wraps an existing matrix as a Jacobian of the given shape.
func FromCSR(kind Kind, shape Shape, general *sparse.CSR) *Matrix {
	return newMatrix(kind, shape, 1, one, general)
}

// Shape returns the Jacobian shape.
func (m *Matrix) Shape() Shape { return m.shape }

// Kind returns the factory that produced m.
func (m *Matrix) Kind() Kind { return m.kind }

// General returns the shared general factor, nil for the identity.
func (m *Matrix) General() *sparse.CSR { return m.general }

// Factor returns scalar·diag.
func (m *Matrix) Factor() array.Array { return array.Scale(m.scalar, m.diag) }

// Materialize returns scalar·diag(diag)·G as a CSR. The result is computed
// once and cached; with a unit factor it is G itself.
func (m *Matrix) Materialize() *sparse.CSR {
	m.once.Do(func() {
		m.value = m.evaluate()
	})
	return m.value
}

func (m *Matrix) evaluate() *sparse.CSR {
	p := m.Factor()
	if m.general == nil {
		rows, cols := m.shape.Extent()
		if rows != cols {
			panic(fmt.Errorf("%w: identity factor with shape %s", ErrShapeMismatch, m.shape))
		}
		switch {
		case p.IsScalar() || (p.Len() == 1 && rows != 1):
			p = array.Full(rows, p.At(0))
		case p.Len() != rows:
			panic(fmt.Errorf("%w: factor of length %d for %d rows", ErrShapeMismatch, p.Len(), rows))
		}
		return sparse.Diagonal(p.Data())
	}
	if p.IsScalar() {
		return m.general.Scale(p.Item())
	}
	v, err := m.general.ScaleRows(p.Data())
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrShapeMismatch, err))
	}
	return v
}

// outShape is the shape of the Jacobian of out with m's seed.
func (m *Matrix) outShape(out array.Array) Shape {
	if out.IsScalar() {
		return Shape{NoDim, m.shape.Cols}
	}
	return Shape{out.Len(), m.shape.Cols}
}

// broadcastGeneral returns B·G where B replicates m's single row to rows.
func (m *Matrix) broadcastGeneral(rows int) *sparse.CSR {
	b := sparse.ColumnBroadcast(extent(rows))
	if m.general == nil {
		if r, _ := m.shape.Extent(); r != 1 {
			panic(fmt.Errorf("%w: cannot broadcast %s to %d rows", ErrShapeMismatch, m.shape, rows))
		}
		return b
	}
	g, err := b.Mul(m.general)
	if err != nil {
		panic(fmt.Errorf("%w: cannot broadcast %s to %d rows", ErrShapeMismatch, m.shape, rows))
	}
	return g
}

// Broadcast returns the Jacobian after broadcasting m's value to out's shape.
func (m *Matrix) Broadcast(out array.Array) *Matrix {
	shape := m.outShape(out)
	if shape.Rows == m.shape.Rows {
		return m
	}
	return newMatrix(m.kind, shape, m.scalar, m.diag, m.broadcastGeneral(shape.Rows))
}

// Chain applies the chain rule for an elementwise y = f(x) with local
// derivative dy/dx, m being the Jacobian of x. G is reused unless the output
// broadcasts to more rows.
func (m *Matrix) Chain(out, local array.Array) *Matrix {
	if m.kind == SparsityOnly {
		return m.Broadcast(out)
	}
	d := array.Mul(array.Scale(m.scalar, local), m.diag)
	shape := m.outShape(out)
	g := m.general
	if shape.Rows != m.shape.Rows {
		g = m.broadcastGeneral(shape.Rows)
	}
	return newScaled(m.kind, shape, d, g)
}

// FMA returns Σ terms[i].D.Chain(out, terms[i].Local), the Jacobian of
// y = f(x1, ..., xn).
//
// When every term shares the same G the sum only touches the diagonals and
// the result keeps G. Otherwise each term is materialized and summed.
func FMA(out array.Array, terms ...Term) *Matrix {
	if len(terms) == 0 {
		panic(fmt.Errorf("%w: FMA needs at least one term", ErrShapeMismatch))
	}
	first := terms[0].D
	kind := first.kind
	shape := first.outShape(out)

	shared := true
	for _, t := range terms[1:] {
		sameKind(kind, t.D)
		if t.D.shape.Cols != first.shape.Cols {
			panic(fmt.Errorf("%w: terms differentiate seeds of %s and %s", ErrShapeMismatch, first.shape, t.D.shape))
		}
		if t.D.general != first.general || t.D.shape.Rows != first.shape.Rows {
			shared = false
		}
	}

	if shared {
		fastFMA.Add(1)
		g := first.general
		if shape.Rows != first.shape.Rows {
			g = first.broadcastGeneral(shape.Rows)
		}
		if kind == SparsityOnly {
			return newMatrix(kind, shape, 1, one, g)
		}
		var d array.Array
		for i, t := range terms {
			di := array.Mul(array.Scale(t.D.scalar, t.Local), t.D.diag)
			if i == 0 {
				d = di
			} else {
				d = array.Add(d, di)
			}
		}
		return newScaled(kind, shape, d, g)
	}

	slowFMA.Add(1)
	logutil.Trace("jacobian: FMA slow path", "terms", len(terms), "shape", shape)
	v := terms[0].D.Chain(out, terms[0].Local).Materialize()
	for _, t := range terms[1:] {
		var err error
		v, err = v.Add(t.D.Chain(out, t.Local).Materialize())
		if err != nil {
			panic(fmt.Errorf("%w: %w", ErrShapeMismatch, err))
		}
	}
	return newMatrix(kind, shape, 1, one, v)
}

// Add returns m + other.
func (m *Matrix) Add(other *Matrix) *Matrix {
	sameKind(m.kind, other)
	if other.general == m.general && other.shape == m.shape {
		fastFMA.Add(1)
		if m.kind == SparsityOnly {
			return m
		}
		d := array.Add(m.Factor(), other.Factor())
		return newScaled(m.kind, m.shape, d, m.general)
	}
	slowFMA.Add(1)
	logutil.Trace("jacobian: Add slow path", "shape", m.shape)
	v, err := m.Materialize().Add(other.Materialize())
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrShapeMismatch, err))
	}
	return newMatrix(m.kind, m.shape, 1, one, v)
}

// Zero returns the Jacobian of a constant with out's shape.
func (m *Matrix) Zero(out array.Array) *Matrix {
	shape := m.outShape(out)
	if shape.Rows == NoDim && shape.Cols == NoDim {
		return newMatrix(m.kind, shape, 1, one, sparse.Zero(1, 1))
	}
	rows, cols := shape.Extent()
	return newMatrix(m.kind, shape, 1, one, sparse.Zero(rows, cols))
}

// Sum returns the Jacobian of y = sum(x).
func (m *Matrix) Sum() *Matrix {
	structural.Add(1)
	return newMatrix(m.kind, Shape{NoDim, m.shape.Cols}, 1, one, m.Materialize().ColumnSums())
}

// VStack returns the Jacobian of out = hstack(parts).
func VStack(out array.Array, parts ...*Matrix) (*Matrix, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", ErrShapeMismatch)
	}
	kind := parts[0].kind
	mats := make([]*sparse.CSR, len(parts))
	for i, p := range parts {
		if p.kind != kind {
			return nil, inconsistent(kind, p.kind)
		}
		mats[i] = p.Materialize()
	}
	structural.Add(1)
	if logutil.Enabled() {
		nnz := 0
		for _, v := range mats {
			nnz += v.NNZ()
		}
		logutil.Trace("jacobian: vstack", "parts", len(parts), "nnz", nnz)
	}
	v, err := sparse.VStack(mats...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	shape := parts[0].outShape(out)
	if rows, _ := v.Dims(); rows != extent(shape.Rows) {
		return nil, fmt.Errorf("%w: stacked %d rows for output of %d", ErrShapeMismatch, rows, extent(shape.Rows))
	}
	return newMatrix(kind, shape, 1, one, v), nil
}

// RDot returns the Jacobian of y = a·x, m being the Jacobian of x.
// Sparsity-only matrices use the pattern of a so that cancellation cannot
// drop entries.
func (m *Matrix) RDot(a *sparse.CSR) (*Matrix, error) {
	if m.kind == SparsityOnly {
		a = a.Binarize()
	}
	structural.Add(1)
	logutil.Trace("jacobian: rdot", "shape", m.shape)
	d, err := a.Mul(m.Materialize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	rows, _ := d.Dims()
	return newMatrix(m.kind, Shape{rows, m.shape.Cols}, 1, one, d), nil
}

// String describes the factored form without materializing it.
func (m *Matrix) String() string {
	g := "I"
	if m.general != nil {
		r, c := m.general.Dims()
		g = fmt.Sprintf("%dx%d/%d", r, c, m.general.NNZ())
	}
	return fmt.Sprintf("<jacobian %s shape=%s scalar=%g diag=%v G=%s>", m.kind, m.shape, m.scalar, m.diag, g)
}
