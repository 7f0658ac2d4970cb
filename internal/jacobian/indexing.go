package jacobian

import (
	"fmt"

	"github.com/born-ml/sparsegrad/internal/array"
	"github.com/born-ml/sparsegrad/internal/sparse"
)

// takeDiag selects the diag entries for rows. A scalar diag, or a length-1
// diag that was broadcast over several rows, applies to every row as is.
func (m *Matrix) takeDiag(rows []int, scalarOut bool) array.Array {
	d := m.diag
	if d.IsScalar() {
		return d
	}
	if d.Len() == 1 {
		if r, _ := m.shape.Extent(); r != 1 {
			if scalarOut {
				return array.Scalar(d.At(0))
			}
			return d
		}
	}
	if scalarOut {
		return array.Scalar(d.At(rows[0]))
	}
	return array.Take(d, rows)
}

// GetItemGeneral returns the Jacobian of out = x[rows] for integer and slice
// indexing, m being the Jacobian of x. rows holds non-negative row
// positions; a scalar out selects exactly one row.
func (m *Matrix) GetItemGeneral(out array.Array, rows []int) *Matrix {
	shape := m.outShape(out)
	if out.IsScalar() && len(rows) != 1 {
		panic(fmt.Errorf("%w: scalar output from %d rows", ErrShapeMismatch, len(rows)))
	}
	if m.general == nil {
		v, err := m.Materialize().Rows(rows)
		if err != nil {
			panic(err)
		}
		return newMatrix(m.kind, shape, 1, one, v)
	}
	g, err := m.general.Rows(rows)
	if err != nil {
		panic(err)
	}
	return newMatrix(m.kind, shape, m.scalar, m.takeDiag(rows, out.IsScalar()), g)
}

// GetItemByPositiveIndexArray returns the Jacobian of out = x[idx] for an
// integer index array whose entries are already wrapped into [0, len(x)).
// The selection stays factored: only the selected diag entries and rows of
// G are gathered.
func (m *Matrix) GetItemByPositiveIndexArray(out array.Array, idx []int) *Matrix {
	shape := m.outShape(out)
	p := array.Scale(m.scalar, m.takeDiag(idx, false))
	if m.general == nil {
		_, cols := m.shape.Extent()
		sel, err := sparse.Selection(idx, cols)
		if err != nil {
			panic(err)
		}
		return newScaled(m.kind, shape, p, sel)
	}
	g, err := m.general.Rows(idx)
	if err != nil {
		panic(err)
	}
	return newScaled(m.kind, shape, p, g)
}
