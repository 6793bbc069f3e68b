package topk

// item is one (distance,key) pair held by the internal max-heap.
type item struct {
	dist float32
	key  int
}

// maxHeap is a container/heap max-heap ordered primarily by distance and,
// on ties, by key — so the item evicted first on a tie is the one with
// the larger key, leaving "smaller key wins ties" for the pairs that
// survive (spec.md §4.6).
type maxHeap []item

func (h maxHeap) Len() int { return len(h) }

func (h maxHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist > h[j].dist
	}
	return h[i].key > h[j].key
}

func (h maxHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *maxHeap) Push(x any) {
	*h = append(*h, x.(item))
}

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
