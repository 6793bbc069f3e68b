// Package topk implements the bounded top-K collector from spec.md §4.6:
// a per-query visited-set plus a capacity-K max-heap of (distance,key)
// pairs, generalizing the teacher's flatHeapItem/flatMaxHeap
// (pkg/index/flat.go) from string IDs to integer keys.
package topk

import (
	"container/heap"
	"sort"

	"github.com/liliang-cn/itqlsh/pkg/metric"
)

// Accessor fetches the vector for a candidate key, backed by either an
// in-memory matrix or a shard buffer loan.
type Accessor func(key int) ([]float32, error)

// Result is one entry of a finished top-K query, ascending by distance.
type Result struct {
	Key      int
	Distance float32
}

// Scanner accumulates candidates for a single query and can be reused
// across queries via Reset to avoid reallocating its heap and bitset.
type Scanner struct {
	capacity int
	metric   metric.Func

	query []float32
	get   Accessor

	visited    *Bitset
	h          maxHeap
	considered int
}

// NewScanner creates a scanner with the given top-K capacity and metric.
// datasetSize sizes the initial visited bitset; Reset grows it on demand.
func NewScanner(capacity, datasetSize int, m metric.Func) *Scanner {
	return &Scanner{
		capacity: capacity,
		metric:   m,
		visited:  NewBitset(datasetSize),
		h:        make(maxHeap, 0, capacity),
	}
}

// Reset starts a new query: clears the heap and visited-set and installs
// the query vector and candidate accessor.
func (s *Scanner) Reset(datasetSize int, query []float32, get Accessor) {
	s.query = query
	s.get = get
	s.visited.Reset(datasetSize)
	s.h = s.h[:0]
	s.considered = 0
}

// Considered returns the number of distinct candidates scored so far.
func (s *Scanner) Considered() int { return s.considered }

// Consider scores key against the current query unless it has already
// been visited this query, maintaining the top-K invariant (spec.md
// §4.6 step 4). The vector is fetched through the Accessor installed by
// Reset.
func (s *Scanner) Consider(key int) error {
	if s.visited.Test(key) {
		return nil
	}
	v, err := s.get(key)
	if err != nil {
		return err
	}
	s.considerScored(key, v)
	return nil
}

// ConsiderVector scores key against the current query using an
// already-available vector, for callers (the shard store's file-mode
// query, spec.md §4.8) that read vectors directly out of a decoded
// shard buffer instead of through an Accessor.
func (s *Scanner) ConsiderVector(key int, v []float32) {
	if s.visited.Test(key) {
		return
	}
	s.considerScored(key, v)
}

func (s *Scanner) considerScored(key int, v []float32) {
	s.visited.Set(key)
	s.considered++

	d := s.metric(s.query, v)
	if len(s.h) < s.capacity {
		heap.Push(&s.h, item{dist: d, key: key})
	} else if len(s.h) > 0 && (d < s.h[0].dist || (d == s.h[0].dist && key < s.h[0].key)) {
		heap.Pop(&s.h)
		heap.Push(&s.h, item{dist: d, key: key})
	}
}

// Finish returns a copy of the heap's contents sorted ascending by
// (distance,key), per spec.md §4.6. The heap itself is left as is until
// the next Reset.
func (s *Scanner) Finish() []Result {
	out := make([]Result, len(s.h))
	for i, it := range s.h {
		out[i] = Result{Key: it.key, Distance: it.dist}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Key < out[j].Key
	})
	return out
}
