package cache

// Cache is a capacity-bounded key/value store with least-recently-used
// eviction (spec.md §4.2, C2). It is not safe for concurrent use — the
// system built on top of it is single-threaded cooperative (spec.md §5);
// each Cache instance has exactly one owner (a server's hot cache, or its
// authoritative store) at a time.
type Cache[K comparable, V any] struct {
	capacity int
	m        map[K]*node[K, V]

	// front = least-recently-used, back = most-recently-used.
	front *node[K, V]
	back  *node[K, V]

	onEvict func(key K, val V)
	metrics Metrics
}

// New constructs a Cache per Options. Capacity must be >= 1.
func New[K comparable, V any](opt Options[K, V]) *Cache[K, V] {
	if opt.Capacity < 1 {
		panic("cache: Capacity must be >= 1")
	}
	m := opt.Metrics
	if m == nil {
		m = NoopMetrics{}
	}
	return &Cache[K, V]{
		capacity: opt.Capacity,
		m:        make(map[K]*node[K, V], opt.Capacity),
		onEvict:  opt.OnEvict,
		metrics:  m,
	}
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.m) }

// IsFull reports whether the cache is at capacity (spec.md §4.2).
func (c *Cache[K, V]) IsFull() bool { return len(c.m) == c.capacity }

// Put inserts or updates key/value.
//
//   - If key is present: overwrite the value, move key to the back of the
//     recency order (MRU), and return (zero, false) — no eviction.
//   - Else if the cache has room: insert at the back.
//   - Else: evict the front (LRU) entry first, surfacing its key as
//     (evictedKey, true), then insert the new key at the back.
//
// Matches spec.md §4.2's contract verbatim, including the edge case that a
// same-key/same-value Put still counts as an access and moves the key to
// the back of the recency order.
func (c *Cache[K, V]) Put(key K, val V) (evictedKey K, evicted bool) {
	if n, ok := c.m[key]; ok {
		n.val = val
		c.moveToBack(n)
		c.metrics.Size(len(c.m))
		return evictedKey, false
	}

	if len(c.m) == c.capacity {
		victim := c.front
		c.unlink(victim)
		delete(c.m, victim.key)
		c.metrics.Evict()
		if c.onEvict != nil {
			c.onEvict(victim.key, victim.val)
		}
		evictedKey, evicted = victim.key, true
	}

	n := &node[K, V]{key: key, val: val}
	c.m[key] = n
	c.pushBack(n)
	c.metrics.Size(len(c.m))
	return evictedKey, evicted
}

// Get returns the value for key and whether it was present. On a hit, key
// is moved to the back of the recency order (MRU).
func (c *Cache[K, V]) Get(key K) (val V, ok bool) {
	n, present := c.m[key]
	if !present {
		c.metrics.Miss()
		return val, false
	}
	c.moveToBack(n)
	c.metrics.Hit()
	return n.val, true
}

// Keys returns a snapshot of all resident keys, in no particular order.
// Used by the balancer to walk a donor's store during key redistribution
// (spec.md §4.6.1/§4.6.2) without disturbing recency order mid-walk.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.m))
	for k := range c.m {
		keys = append(keys, k)
	}
	return keys
}

// Remove deletes key if present. It is a no-op on absent keys and does not
// invoke OnEvict (Remove is an explicit deletion, not an eviction).
func (c *Cache[K, V]) Remove(key K) {
	n, ok := c.m[key]
	if !ok {
		return
	}
	c.unlink(n)
	delete(c.m, key)
	c.metrics.Size(len(c.m))
}

// -------------------- intrusive list internals --------------------

func (c *Cache[K, V]) pushBack(n *node[K, V]) {
	n.prev = c.back
	n.next = nil
	if c.back != nil {
		c.back.next = n
	}
	c.back = n
	if c.front == nil {
		c.front = n
	}
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.front = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.back = n.prev
	}
	n.prev, n.next = nil, nil
}

func (c *Cache[K, V]) moveToBack(n *node[K, V]) {
	if n == c.back {
		return
	}
	c.unlink(n)
	c.pushBack(n)
}
