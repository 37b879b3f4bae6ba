// Package matmul provides the dense integer matrix multiplication workload.
//
// Matrices are square, row-major and backed by a flat []int32 so that
// element (i, j) lives at data[i*n+j]. Arithmetic is 32-bit and wraps on
// overflow, matching the C program the workload was taken from.
package matmul

import (
	"errors"
	"fmt"
)

const (
	// DefaultN is the matrix side used by the matmul program.
	DefaultN = 100

	// WantCorner100 is c[99][99] for a[i][j]=i+j, b[i][j]=i*j, n=100.
	WantCorner100 = 81021600
)

var (
	// ErrBadShape is returned when a requested side is not positive.
	ErrBadShape = errors.New("matmul: invalid shape")

	// ErrDimensionMismatch is returned when operands differ in size.
	ErrDimensionMismatch = errors.New("matmul: dimension mismatch")
)

// Matrix is an n×n row-major matrix of int32.
type Matrix struct {
	n    int
	data []int32
}

// New returns a zeroed n×n matrix.
func New(n int) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("New(%d): %w", n, ErrBadShape)
	}
	return &Matrix{n: n, data: make([]int32, n*n)}, nil
}

// N returns the side length.
func (m *Matrix) N() int { return m.n }

// At returns element (i, j). Indices are not checked.
func (m *Matrix) At(i, j int) int32 { return m.data[i*m.n+j] }

// Set stores v at (i, j). Indices are not checked.
func (m *Matrix) Set(i, j int, v int32) { m.data[i*m.n+j] = v }

// Corner returns element (n-1, n-1), the value the program prints.
func (m *Matrix) Corner() int32 { return m.data[len(m.data)-1] }

// Zero clears every element.
func (m *Matrix) Zero() {
	clear(m.data)
}

// FillIndexSum sets m[i][j] = i + j.
func (m *Matrix) FillIndexSum() {
	for i := 0; i < m.n; i++ {
		row := m.data[i*m.n : (i+1)*m.n]
		for j := range row {
			row[j] = int32(i + j)
		}
	}
}

// FillIndexProduct sets m[i][j] = i * j.
func (m *Matrix) FillIndexProduct() {
	for i := 0; i < m.n; i++ {
		row := m.data[i*m.n : (i+1)*m.n]
		for j := range row {
			row[j] = int32(i * j)
		}
	}
}

// FillConst sets every element to v.
func (m *Matrix) FillConst(v int32) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Equal reports whether m and o have the same shape and elements.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.n != o.n {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}
