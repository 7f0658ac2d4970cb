// Package sparse provides the compressed sparse row matrix used to store
// Jacobians.
//
// A CSR is immutable once constructed. Operations return new matrices and
// may alias the receiver's index arrays, so no code path is allowed to write
// into a matrix it did not just allocate. The forward engine relies on this:
// many scaled Jacobian views share one CSR by pointer and compare pointers to
// decide whether they can be summed without sparse addition.
//
// Matrices produced by this package are canonical: column indices within a
// row are strictly increasing.
package sparse

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix of float64.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

var _ mat.Matrix = (*CSR)(nil)

// New validates the CSR arrays and returns a matrix that takes ownership of
// them. Column indices are sorted and duplicate entries summed if needed.
func New(rows, cols int, indptr, indices []int, data []float64) (*CSR, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative shape %dx%d", ErrInvalidFormat, rows, cols)
	}
	if len(indptr) != rows+1 || indptr[0] != 0 {
		return nil, fmt.Errorf("%w: indptr has length %d for %d rows", ErrInvalidFormat, len(indptr), rows)
	}
	nnz := indptr[rows]
	if len(indices) != nnz || len(data) != nnz {
		return nil, fmt.Errorf("%w: nnz %d, indices %d, data %d", ErrInvalidFormat, nnz, len(indices), len(data))
	}
	canonical := true
	for i := 0; i < rows; i++ {
		if indptr[i] > indptr[i+1] {
			return nil, fmt.Errorf("%w: indptr decreases at row %d", ErrInvalidFormat, i)
		}
		for k := indptr[i]; k < indptr[i+1]; k++ {
			if indices[k] < 0 || indices[k] >= cols {
				return nil, fmt.Errorf("%w: column %d in row %d of %dx%d", ErrIndexOutOfRange, indices[k], i, rows, cols)
			}
			if k > indptr[i] && indices[k] <= indices[k-1] {
				canonical = false
			}
		}
	}
	m := &CSR{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}
	if !canonical {
		return m.canonical(), nil
	}
	return m, nil
}

// fromArrays builds a matrix without validation. Callers guarantee the
// arrays are canonical.
func fromArrays(rows, cols int, indptr, indices []int, data []float64) *CSR {
	return &CSR{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}
}

// Zero returns an empty rows x cols matrix.
func Zero(rows, cols int) *CSR {
	return fromArrays(rows, cols, make([]int, rows+1), []int{}, []float64{})
}

// Identity returns the n x n identity matrix.
func Identity(n int) *CSR {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1
	}
	return Diagonal(d)
}

// Diagonal returns diag(d). The matrix takes ownership of d.
func Diagonal(d []float64) *CSR {
	n := len(d)
	idx := make([]int, n)
	ptr := make([]int, n+1)
	for i := range idx {
		idx[i] = i
		ptr[i+1] = i + 1
	}
	return fromArrays(n, n, ptr, idx, d)
}

// ColumnBroadcast returns the n x 1 matrix of ones that replicates a single
// row n times.
func ColumnBroadcast(n int) *CSR {
	ptr := make([]int, n+1)
	data := make([]float64, n)
	for i := range data {
		data[i] = 1
		ptr[i+1] = i + 1
	}
	return fromArrays(n, 1, ptr, make([]int, n), data)
}

// Selection returns the len(idx) x cols matrix with a single one per row at
// column idx[k]. Indices must be in [0, cols).
func Selection(idx []int, cols int) (*CSR, error) {
	n := len(idx)
	ptr := make([]int, n+1)
	data := make([]float64, n)
	cidx := make([]int, n)
	for k, j := range idx {
		if j < 0 || j >= cols {
			return nil, fmt.Errorf("%w: column %d of %d", ErrIndexOutOfRange, j, cols)
		}
		cidx[k] = j
		data[k] = 1
		ptr[k+1] = k + 1
	}
	return fromArrays(n, cols, ptr, cidx, data), nil
}

// RowVector returns the 1 x len(v) matrix holding the nonzeros of v.
func RowVector(v []float64) *CSR {
	idx := []int{}
	data := []float64{}
	for j, x := range v {
		if x != 0 {
			idx = append(idx, j)
			data = append(data, x)
		}
	}
	return fromArrays(1, len(v), []int{0, len(idx)}, idx, data)
}

// Dims returns the number of rows and columns.
func (m *CSR) Dims() (r, c int) {
	return m.rows, m.cols
}

// At returns element (i, j). It panics on out-of-range indices, as gonum
// matrices do.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	row := m.indices[m.indptr[i]:m.indptr[i+1]]
	if k, ok := slices.BinarySearch(row, j); ok {
		return m.data[m.indptr[i]+k]
	}
	return 0
}

// T returns the implicit transpose.
func (m *CSR) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int {
	return m.indptr[m.rows]
}

// Indptr returns the row pointer array. Do not modify it.
func (m *CSR) Indptr() []int { return m.indptr }

// Indices returns the column index array. Do not modify it.
func (m *CSR) Indices() []int { return m.indices }

// Data returns the stored values. Do not modify it.
func (m *CSR) Data() []float64 { return m.data }

// RowOf returns the column indices and values stored in row i.
func (m *CSR) RowOf(i int) ([]int, []float64) {
	return m.indices[m.indptr[i]:m.indptr[i+1]], m.data[m.indptr[i]:m.indptr[i+1]]
}

// Dense returns a dense copy of m.
func (m *CSR) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			d.Set(i, m.indices[k], m.data[k])
		}
	}
	return d
}

// FromMatrix converts any gonum matrix, dropping exact zeros.
func FromMatrix(a mat.Matrix) *CSR {
	r, c := a.Dims()
	ptr := make([]int, r+1)
	idx := []int{}
	data := []float64{}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := a.At(i, j); v != 0 {
				idx = append(idx, j)
				data = append(data, v)
			}
		}
		ptr[i+1] = len(idx)
	}
	return fromArrays(r, c, ptr, idx, data)
}

// FromDense builds a matrix from row-major values, dropping exact zeros.
func FromDense(rows, cols int, values []float64) (*CSR, error) {
	if len(values) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrShapeMismatch, len(values), rows, cols)
	}
	if rows == 0 || cols == 0 {
		return Zero(rows, cols), nil
	}
	return FromMatrix(mat.NewDense(rows, cols, values)), nil
}

// FromTriplets builds a matrix from coordinate entries, summing duplicates.
func FromTriplets(rows, cols int, ri, ci []int, v []float64) (*CSR, error) {
	if len(ri) != len(ci) || len(ri) != len(v) {
		return nil, fmt.Errorf("%w: triplet lengths %d/%d/%d", ErrShapeMismatch, len(ri), len(ci), len(v))
	}
	ptr := make([]int, rows+1)
	for k, i := range ri {
		if i < 0 || i >= rows || ci[k] < 0 || ci[k] >= cols {
			return nil, fmt.Errorf("%w: entry (%d,%d) of %dx%d", ErrIndexOutOfRange, i, ci[k], rows, cols)
		}
		ptr[i+1]++
	}
	for i := 0; i < rows; i++ {
		ptr[i+1] += ptr[i]
	}
	next := slices.Clone(ptr[:rows])
	idx := make([]int, len(v))
	data := make([]float64, len(v))
	for k, i := range ri {
		p := next[i]
		idx[p] = ci[k]
		data[p] = v[k]
		next[i]++
	}
	return fromArrays(rows, cols, ptr, idx, data).canonical(), nil
}

// canonical returns m with sorted column indices and duplicates summed.
func (m *CSR) canonical() *CSR {
	ptr := make([]int, m.rows+1)
	idx := make([]int, 0, m.NNZ())
	data := make([]float64, 0, m.NNZ())
	type entry struct {
		j int
		v float64
	}
	var row []entry
	for i := 0; i < m.rows; i++ {
		row = row[:0]
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			row = append(row, entry{m.indices[k], m.data[k]})
		}
		slices.SortStableFunc(row, func(a, b entry) int { return a.j - b.j })
		for k, e := range row {
			if k > 0 && row[k-1].j == e.j {
				data[len(data)-1] += e.v
				continue
			}
			idx = append(idx, e.j)
			data = append(data, e.v)
		}
		ptr[i+1] = len(idx)
	}
	return fromArrays(m.rows, m.cols, ptr, idx, data)
}

// String formats the stored entries as "(i, j) v" lines.
func (m *CSR) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%dx%d CSR, %d stored>", m.rows, m.cols, m.NNZ())
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			fmt.Fprintf(&sb, "\n  (%d, %d)\t%g", i, m.indices[k], m.data[k])
		}
	}
	return sb.String()
}
