package vector

import "fmt"

// MatrixSource is the in-memory Vector Source realization: N*D
// contiguous scalars, row-major (spec.md §4.1).
type MatrixSource struct {
	dim  int
	data []float32
}

// NewMatrixSource wraps a row-major N*D buffer. data is not copied.
func NewMatrixSource(dim int, data []float32) (*MatrixSource, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vector: dimension must be positive, got %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("vector: data length %d is not a multiple of dim %d", len(data), dim)
	}
	return &MatrixSource{dim: dim, data: data}, nil
}

// Dim returns D.
func (m *MatrixSource) Dim() int { return m.dim }

// Len returns N.
func (m *MatrixSource) Len() int { return len(m.data) / m.dim }

// At returns a view into the backing buffer for vector i.
func (m *MatrixSource) At(i int) ([]float32, error) {
	if i < 0 || i >= m.Len() {
		return nil, fmt.Errorf("vector: key %d out of range [0,%d)", i, m.Len())
	}
	start := i * m.dim
	return m.data[start : start+m.dim], nil
}
