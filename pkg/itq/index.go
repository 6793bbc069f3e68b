package itq

import (
	"fmt"

	itqlsh "github.com/liliang-cn/itqlsh"
	"github.com/liliang-cn/itqlsh/pkg/code"
	"github.com/liliang-cn/itqlsh/pkg/hamming"
	"github.com/liliang-cn/itqlsh/pkg/metric"
	"github.com/liliang-cn/itqlsh/pkg/topk"
	"github.com/liliang-cn/itqlsh/pkg/vector"
)

// Index is the in-memory ITQ-LSH index: L trained tables plus their
// projections and rotations (spec.md §2 item 4, §3 Index Header). It
// supports the build path (Train, Insert) and the in-memory query path
// (Query); file-backed query composes Tables/Projections/Rotations
// through pkg/shardstore instead of this type's Query method.
type Index struct {
	Params      Params
	Projections []Projection
	Rotations   []Rotation
	Tables      []*Table

	hashedSize int
}

// NewIndex builds an empty, trained index ready for Insert calls.
func NewIndex(params Params, projs []Projection, rots []Rotation) *Index {
	tables := make([]*Table, params.L)
	for k := range tables {
		tables[k] = NewTable()
	}
	return &Index{Params: params, Projections: projs, Rotations: rots, Tables: tables}
}

// BuildIndex trains and returns a ready-to-insert Index in one call.
func BuildIndex(logger itqlsh.Logger, data vector.Source, params Params) (*Index, error) {
	projs, rots, err := Train(logger, data, params)
	if err != nil {
		return nil, err
	}
	return NewIndex(params, projs, rots), nil
}

// Hash computes the N-bit code for v under table k (spec.md §4.4):
// c = (v·Pₖ)·Rₖ, code_i = '1' if c_i > 0 else '0'.
func (idx *Index) Hash(v []float32, table int) code.Code {
	p := idx.Projections[table]
	r := idx.Rotations[table]
	n := idx.Params.N

	pc := make([]float64, n)
	for i := 0; i < n; i++ {
		pc[i] = dot32(v, p.pcBlock(i))
	}

	var c code.Code
	for i := 0; i < n; i++ {
		if dotF64(pc, r.rotBlock(i)) > 0 {
			c.Set(i)
		}
	}
	return c
}

func dot32(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func dotF64(a []float64, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * float64(b[i])
	}
	return sum
}

// Insert hashes v into every table and appends key to the resulting
// buckets; hashedSize increments once per vector, not once per table
// (spec.md §4.4).
func (idx *Index) Insert(key int, v []float32) {
	for k := 0; k < idx.Params.L; k++ {
		c := idx.Hash(v, k)
		idx.Tables[k].Insert(c, key)
	}
	idx.hashedSize++
}

// HashedSize returns the number of vectors inserted so far.
func (idx *Index) HashedSize() int { return idx.hashedSize }

// Query runs the in-memory probing order from spec.md §4.7 and §5:
// tables 0..L-1, each table's code itself then its Hamming-expanded
// neighbors, keys within a bucket in insertion order. src supplies
// vectors for scoring by key.
func (idx *Index) Query(v []float32, k, r int, m metric.Func, src vector.Source) ([]topk.Result, error) {
	if k <= 0 {
		return nil, itqlsh.Wrap(itqlsh.KindParam, "query", fmt.Errorf("%w: K must be positive", itqlsh.ErrInvalidParams))
	}
	if r < 0 || r > idx.Params.N {
		return nil, itqlsh.Wrap(itqlsh.KindParam, "query", fmt.Errorf("%w: hamming radius must be in [0,N]", itqlsh.ErrInvalidParams))
	}

	scanner := topk.NewScanner(k, src.Len(), m)
	scanner.Reset(src.Len(), v, func(key int) ([]float32, error) { return src.At(key) })

	n := idx.Params.N
	for table := 0; table < idx.Params.L; table++ {
		c := idx.Hash(v, table)
		if err := considerBucket(scanner, idx.Tables[table], c); err != nil {
			return nil, err
		}
		if r > 0 {
			for _, cp := range hamming.Expand(c, n, r) {
				if err := considerBucket(scanner, idx.Tables[table], cp); err != nil {
					return nil, err
				}
			}
		}
	}
	return scanner.Finish(), nil
}

func considerBucket(scanner *topk.Scanner, table *Table, c code.Code) error {
	keys, ok := table.Get(c)
	if !ok {
		return nil
	}
	for _, key := range keys {
		if err := scanner.Consider(key); err != nil {
			return err
		}
	}
	return nil
}
