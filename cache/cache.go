package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 64

// EvictFunc receives values leaving the cache.
type EvictFunc[K comparable, V any] func(key K, value V)

// LRU is a bounded least-recently-used cache. It is safe for concurrent
// use.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*node[K, V]
	order    list[K, V]
	capacity int
	onEvict  EvictFunc[K, V]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New returns an empty cache holding at most capacity entries. onEvict may
// be nil.
func New[K comparable, V any](capacity int, onEvict EvictFunc[K, V]) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[K, V]{
		entries:  make(map[K]*node[K, V]),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	n, ok := c.entries[key]
	if ok {
		c.order.moveToFront(n)
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return n.value, true
}

// Set stores value under key, replacing and evicting any previous value.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	var evicted []*node[K, V]
	if n, ok := c.entries[key]; ok {
		old := &node[K, V]{key: key, value: n.value}
		n.value = value
		c.order.moveToFront(n)
		evicted = append(evicted, old)
	} else {
		evicted = c.insert(key, value)
	}
	c.mu.Unlock()
	c.evict(evicted)
}

// GetOrCreate returns the cached value for key, or builds it with create
// and caches it. A failed create caches nothing. create runs with the lock
// held, so concurrent callers for the same key build the value once.
func (c *LRU[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	if n, ok := c.entries[key]; ok {
		c.order.moveToFront(n)
		c.mu.Unlock()
		c.hits.Add(1)
		return n.value, nil
	}
	c.misses.Add(1)

	value, err := create()
	if err != nil {
		c.mu.Unlock()
		var zero V
		return zero, err
	}
	evicted := c.insert(key, value)
	c.mu.Unlock()
	c.evict(evicted)
	return value, nil
}

// insert adds a new entry and unlinks the entries over capacity. Caller
// holds c.mu.
func (c *LRU[K, V]) insert(key K, value V) []*node[K, V] {
	var evicted []*node[K, V]
	for c.order.len >= c.capacity {
		n := c.order.popBack()
		if n == nil {
			break
		}
		delete(c.entries, n.key)
		evicted = append(evicted, n)
	}
	n := &node[K, V]{key: key, value: value}
	c.order.pushFront(n)
	c.entries[key] = n
	c.evictions.Add(uint64(len(evicted)))
	return evicted
}

func (c *LRU[K, V]) evict(nodes []*node[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, n := range nodes {
		c.onEvict(n.key, n.value)
	}
}

// Delete removes key, passing its value to the eviction callback. It
// reports whether the key was present.
func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	n, ok := c.entries[key]
	if ok {
		c.order.unlink(n)
		delete(c.entries, key)
	}
	c.mu.Unlock()
	if ok {
		c.evict([]*node[K, V]{n})
	}
	return ok
}

// Purge removes every entry, oldest first, passing each to the eviction
// callback.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	nodes := make([]*node[K, V], 0, c.order.len)
	for n := c.order.popBack(); n != nil; n = c.order.popBack() {
		nodes = append(nodes, n)
	}
	c.entries = make(map[K]*node[K, V])
	c.mu.Unlock()
	c.evict(nodes)
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *LRU[K, V]) Capacity() int { return c.capacity }

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   rate,
		Evictions: c.evictions.Load(),
	}
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *LRU[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats are cache counters.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	HitRate   float64 // 0 to 1
	Evictions uint64
}
