// Package itq implements the ITQ-LSH index core: training (PCA plus
// orthogonal-rotation refinement), hashing, bucketed lookup, and
// in-memory query (spec.md §4.3, §4.4, §4.7). File-backed query and
// shard persistence live in pkg/shardstore, layered on top of this
// package's Index.
package itq

import (
	"fmt"

	itqlsh "github.com/liliang-cn/itqlsh"
)

// Params are the ITQ-LSH index parameters from spec.md §3: L hash
// tables, D-dimensional vectors, N-bit codes, S training samples, I
// refinement iterations.
type Params struct {
	L    int
	D    int
	N    int
	S    int
	I    int
	Seed int64
}

// Validate checks L,D,N,S,I against a dataset of the given size
// (spec.md §7 ParamError conditions).
func (p Params) Validate(datasetSize int) error {
	cfg := itqlsh.Config{L: p.L, D: p.D, N: p.N, S: p.S, I: p.I, K: 1}
	return cfg.Validate(datasetSize)
}

func (p Params) String() string {
	return fmt.Sprintf("L=%d D=%d N=%d S=%d I=%d", p.L, p.D, p.N, p.S, p.I)
}
