// Package vector implements the Vector Source abstraction from spec.md
// §4.1: a read-only random-access collection of N D-dimensional vectors,
// with an in-memory and a file-backed realization.
package vector

// Source is a read-only random-access collection of fixed-dimensional
// vectors, identified by a zero-based integer key in [0, Len()).
type Source interface {
	// Dim returns the vector dimensionality D.
	Dim() int
	// Len returns the number of vectors N.
	Len() int
	// At returns the vector at key i. Implementations may return a
	// borrowed slice (MatrixSource) or a freshly read one (FileSource);
	// callers must not retain it past the next call if it is borrowed.
	At(i int) ([]float32, error)
}
