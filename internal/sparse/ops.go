package sparse

import (
	"fmt"
	"slices"
)

// Scale returns s*m. For s == 1 the receiver itself is returned.
func (m *CSR) Scale(s float64) *CSR {
	if s == 1 {
		return m
	}
	data := make([]float64, len(m.data))
	for k, v := range m.data {
		data[k] = v * s
	}
	return fromArrays(m.rows, m.cols, m.indptr, m.indices, data)
}

// ScaleRows returns diag(p)*m. p has one entry per row, or a single entry
// applied to every row. The index arrays are shared with m.
func (m *CSR) ScaleRows(p []float64) (*CSR, error) {
	if len(p) == 1 {
		return m.Scale(p[0]), nil
	}
	if len(p) != m.rows {
		return nil, fmt.Errorf("%w: %d row scales for %d rows", ErrShapeMismatch, len(p), m.rows)
	}
	data := make([]float64, len(m.data))
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			data[k] = m.data[k] * p[i]
		}
	}
	return fromArrays(m.rows, m.cols, m.indptr, m.indices, data), nil
}

// Rows returns the matrix whose k-th row is row idx[k] of m. Rows may repeat.
func (m *CSR) Rows(idx []int) (*CSR, error) {
	ptr := make([]int, len(idx)+1)
	for k, i := range idx {
		if i < 0 || i >= m.rows {
			return nil, fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, i, m.rows)
		}
		ptr[k+1] = ptr[k] + m.indptr[i+1] - m.indptr[i]
	}
	cidx := make([]int, ptr[len(idx)])
	data := make([]float64, ptr[len(idx)])
	for k, i := range idx {
		copy(cidx[ptr[k]:ptr[k+1]], m.indices[m.indptr[i]:m.indptr[i+1]])
		copy(data[ptr[k]:ptr[k+1]], m.data[m.indptr[i]:m.indptr[i+1]])
	}
	return fromArrays(len(idx), m.cols, ptr, cidx, data), nil
}

// Mul returns the product m*b.
func (m *CSR) Mul(b *CSR) (*CSR, error) {
	if m.cols != b.rows {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrShapeMismatch, m.rows, m.cols, b.rows, b.cols)
	}

	// Gustavson's row-by-row product with a dense accumulator.
	acc := make([]float64, b.cols)
	mark := make([]int, b.cols)
	for j := range mark {
		mark[j] = -1
	}
	ptr := make([]int, m.rows+1)
	idx := []int{}
	data := []float64{}
	var cols []int
	for i := 0; i < m.rows; i++ {
		cols = cols[:0]
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			a := m.data[k]
			r := m.indices[k]
			for q := b.indptr[r]; q < b.indptr[r+1]; q++ {
				j := b.indices[q]
				if mark[j] != i {
					mark[j] = i
					acc[j] = 0
					cols = append(cols, j)
				}
				acc[j] += a * b.data[q]
			}
		}
		slices.Sort(cols)
		for _, j := range cols {
			idx = append(idx, j)
			data = append(data, acc[j])
		}
		ptr[i+1] = len(idx)
	}
	return fromArrays(m.rows, b.cols, ptr, idx, data), nil
}

// Add returns m + b. Structural entries of both operands are kept even when
// they cancel.
func (m *CSR) Add(b *CSR) (*CSR, error) {
	if m.rows != b.rows || m.cols != b.cols {
		return nil, fmt.Errorf("%w: %dx%d + %dx%d", ErrShapeMismatch, m.rows, m.cols, b.rows, b.cols)
	}
	ptr := make([]int, m.rows+1)
	idx := make([]int, 0, m.NNZ()+b.NNZ())
	data := make([]float64, 0, m.NNZ()+b.NNZ())
	for i := 0; i < m.rows; i++ {
		p, pe := m.indptr[i], m.indptr[i+1]
		q, qe := b.indptr[i], b.indptr[i+1]
		for p < pe || q < qe {
			switch {
			case q == qe || (p < pe && m.indices[p] < b.indices[q]):
				idx = append(idx, m.indices[p])
				data = append(data, m.data[p])
				p++
			case p == pe || b.indices[q] < m.indices[p]:
				idx = append(idx, b.indices[q])
				data = append(data, b.data[q])
				q++
			default:
				idx = append(idx, m.indices[p])
				data = append(data, m.data[p]+b.data[q])
				p++
				q++
			}
		}
		ptr[i+1] = len(idx)
	}
	return fromArrays(m.rows, m.cols, ptr, idx, data), nil
}

// VStack concatenates matrices vertically. All parts must have the same
// number of columns.
func VStack(parts ...*CSR) (*CSR, error) {
	if len(parts) == 0 {
		return Zero(0, 0), nil
	}
	cols := parts[0].cols
	rows, nnz := 0, 0
	for k, p := range parts {
		if p.cols != cols {
			return nil, fmt.Errorf("%w: part %d has %d columns, want %d", ErrShapeMismatch, k, p.cols, cols)
		}
		rows += p.rows
		nnz += p.NNZ()
	}
	ptr := make([]int, 1, rows+1)
	idx := make([]int, 0, nnz)
	data := make([]float64, 0, nnz)
	for _, p := range parts {
		base := len(idx)
		for i := 1; i <= p.rows; i++ {
			ptr = append(ptr, base+p.indptr[i])
		}
		idx = append(idx, p.indices[:p.NNZ()]...)
		data = append(data, p.data[:p.NNZ()]...)
	}
	return fromArrays(rows, cols, ptr, idx, data), nil
}

// ColumnSums returns the 1 x cols matrix of column sums. Columns without
// stored entries, or whose entries cancel exactly, are not stored.
func (m *CSR) ColumnSums() *CSR {
	sums := make([]float64, m.cols)
	for k := 0; k < m.NNZ(); k++ {
		sums[m.indices[k]] += m.data[k]
	}
	return RowVector(sums)
}

// Binarize returns the sparsity pattern of m: every stored entry, explicit
// zeros included, becomes 1.
func (m *CSR) Binarize() *CSR {
	data := make([]float64, m.NNZ())
	for k := range data {
		data[k] = 1
	}
	return fromArrays(m.rows, m.cols, m.indptr, m.indices, data)
}

// IsBinary reports whether every stored value is exactly 1.
func (m *CSR) IsBinary() bool {
	for _, v := range m.data[:m.NNZ()] {
		if v != 1 {
			return false
		}
	}
	return true
}

// RemapRows moves row i of m to row rowMap[i] of an nrows x cols result.
// Rows mapped to the same destination are summed.
func (m *CSR) RemapRows(rowMap []int, nrows int) (*CSR, error) {
	if len(rowMap) != m.rows {
		return nil, fmt.Errorf("%w: %d row targets for %d rows", ErrShapeMismatch, len(rowMap), m.rows)
	}
	ri := make([]int, 0, m.NNZ())
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			ri = append(ri, rowMap[i])
		}
	}
	return FromTriplets(nrows, m.cols, ri, m.indices[:m.NNZ()], m.data[:m.NNZ()])
}

// MulVec returns m*x.
func (m *CSR) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.cols {
		return nil, fmt.Errorf("%w: %dx%d * vector of %d", ErrShapeMismatch, m.rows, m.cols, len(x))
	}
	y := make([]float64, m.rows)
	for i := range y {
		var s float64
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			s += m.data[k] * x[m.indices[k]]
		}
		y[i] = s
	}
	return y, nil
}

// CoversNonzeros reports whether every nonzero of b sits on a stored
// position of m.
func (m *CSR) CoversNonzeros(b *CSR) bool {
	if m.rows != b.rows || m.cols != b.cols {
		return false
	}
	for i := 0; i < b.rows; i++ {
		row := m.indices[m.indptr[i]:m.indptr[i+1]]
		for k := b.indptr[i]; k < b.indptr[i+1]; k++ {
			if b.data[k] == 0 {
				continue
			}
			if _, ok := slices.BinarySearch(row, b.indices[k]); !ok {
				return false
			}
		}
	}
	return true
}
