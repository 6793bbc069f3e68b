// Package shardstore implements the file-backed query path from spec.md
// §4.8: packing per-table buckets into a small number of shard files
// grouped by code prefix, and a bounded LRU cache of decoded shard
// buffers, so queries against a dataset too large for memory load each
// shard once rather than seeking per key.
package shardstore

import (
	"fmt"
	"math"
	"path/filepath"
)

// fitSplitBits computes the shard-prefix length from spec.md §4.8 step
// 1: fitSplitBits = min(N, ceil(log2(hashedSize / eachMBVectors /
// singleMaxMiB))), clamped to [1, N] (spec.md §9 note 1; the reference
// can produce 0 for small datasets, which would make every bucket code
// its own shard prefix degenerate to a single shard of width 0).
func fitSplitBits(n, hashedSize, dim, singleMaxMiB int) int {
	if hashedSize <= 0 || singleMaxMiB <= 0 {
		return 1
	}
	eachMiBVectors := (1 << 20) / (4 * dim) // sizeof(float32) == 4
	if eachMiBVectors <= 0 {
		eachMiBVectors = 1
	}
	ratio := float64(hashedSize) / float64(eachMiBVectors) / float64(singleMaxMiB)
	bits := 0
	if ratio > 1 {
		bits = int(math.Ceil(math.Log2(ratio)))
	}
	if bits < 1 {
		bits = 1
	}
	if bits > n {
		bits = n
	}
	return bits
}

// shardPath returns the path of the shard file for table k, shard name
// shardName, rooted at root: "<root>/L_<k>/<shard>.hash" (spec.md §6).
func shardPath(root string, table int, shardName string) string {
	return filepath.Join(root, fmt.Sprintf("L_%d", table), shardName+".hash")
}

// shardDir returns the directory holding table k's shard files.
func shardDir(root string, table int) string {
	return filepath.Join(root, fmt.Sprintf("L_%d", table))
}
