package itq

import (
	"sort"

	"github.com/liliang-cn/itqlsh/pkg/code"
)

// Table maps binary codes to the ordered list of keys that hashed to
// them in one hash table (spec.md §3). Keys appear in insertion order;
// Insert is only ever called once per key per table during build.
type Table struct {
	buckets map[code.Code][]int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{buckets: make(map[code.Code][]int)}
}

// Insert appends key to the bucket for c.
func (t *Table) Insert(c code.Code, key int) {
	t.buckets[c] = append(t.buckets[c], key)
}

// Get returns the bucket for c, if any.
func (t *Table) Get(c code.Code) ([]int, bool) {
	keys, ok := t.buckets[c]
	return keys, ok
}

// BucketCount returns the number of distinct codes with at least one key.
func (t *Table) BucketCount() int { return len(t.buckets) }

// KeyCount returns the total number of keys across every bucket.
func (t *Table) KeyCount() int {
	n := 0
	for _, keys := range t.buckets {
		n += len(keys)
	}
	return n
}

// SortedCodes returns every bucket code in ascending order, comparing
// the n-bit ASCII rendering so that shard write-out (spec.md §4.8 step
// 2) is reproducible independent of map iteration order.
func (t *Table) SortedCodes(n int) []code.Code {
	codes := make([]code.Code, 0, len(t.buckets))
	for c := range t.buckets {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i].String(n) < codes[j].String(n)
	})
	return codes
}
