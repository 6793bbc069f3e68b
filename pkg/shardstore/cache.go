package shardstore

import (
	"container/list"

	"github.com/dustin/go-humanize"

	itqlsh "github.com/liliang-cn/itqlsh"
)

// CacheCapacity computes the shard cache size from spec.md §4.8:
// max_memory_mib / single_max shards, at least 1.
func CacheCapacity(maxMemoryMiB, singleMaxMiB int) int {
	if singleMaxMiB <= 0 {
		return 1
	}
	c := maxMemoryMiB / singleMaxMiB
	if c < 1 {
		c = 1
	}
	return c
}

type shardKey struct {
	table int
	shard string
}

type cacheEntry struct {
	key shardKey
	buf []float32
}

// Cache is a bounded true-LRU cache of decoded shard buffers (spec.md
// §9 note 3: the reference evicts by map-iteration order, which this
// replaces with a real doubly-linked-list LRU). Not safe for concurrent
// use from multiple goroutines, matching the single-threaded-per-query
// contract in spec.md §5 — callers needing concurrent queries must use
// one Cache per query thread.
type Cache struct {
	capacity int
	ll       *list.List
	items    map[shardKey]*list.Element
	logger   itqlsh.Logger
}

// NewCache creates a cache holding at most capacity shard buffers.
func NewCache(capacity int, logger itqlsh.Logger) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	if logger == nil {
		logger = itqlsh.NopLogger()
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[shardKey]*list.Element),
		logger:   logger,
	}
}

// Get returns the buffer for (table,shard), loading it via load on a
// miss and evicting the least-recently-used entry if the cache is at
// capacity. A hit promotes the entry to most-recently-used.
func (c *Cache) Get(table int, shard string, load func() ([]float32, error)) ([]float32, error) {
	key := shardKey{table: table, shard: shard}
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*cacheEntry).buf, nil
	}

	buf, err := load()
	if err != nil {
		return nil, err
	}

	el := c.ll.PushFront(&cacheEntry{key: key, buf: buf})
	c.items[key] = el
	c.logger.Debug("shard cache load", "table", table, "shard", shard, "bytes", humanize.Bytes(uint64(len(buf)*4)))

	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			ev := oldest.Value.(*cacheEntry)
			delete(c.items, ev.key)
			c.logger.Debug("shard cache evict", "table", ev.key.table, "shard", ev.key.shard)
		}
	}
	return buf, nil
}

// Len reports the number of shard buffers currently resident.
func (c *Cache) Len() int { return c.ll.Len() }

// Resident reports whether (table,shard) is currently cached, without
// affecting recency — used by tests asserting eviction behavior (spec.md
// §8 P10).
func (c *Cache) Resident(table int, shard string) bool {
	_, ok := c.items[shardKey{table: table, shard: shard}]
	return ok
}
