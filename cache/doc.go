// Package cache implements the LRU cache with explicit eviction callback
// used both as a server's hot read cache and, sized large, as its
// authoritative local store (spec.md §4.2, C2).
//
// Design
//
//   - Storage: a map[K]*node for O(1) lookup plus an intrusive doubly
//     linked list ordering all resident keys from least-recently-used
//     (front) to most-recently-used (back). The map value IS the list
//     node, so a hit carries its own O(1) handle into the recency order —
//     no scan is ever needed to find or move an entry (spec.md §9,
//     "Intrusive recency pointer").
//
//   - Eviction: Put surfaces the evicted key directly to the caller rather
//     than through a callback, per spec.md §4.2's contract. An optional
//     Options.OnEvict callback is also invoked for side-channel bookkeeping
//     (no component in this module sets it; the server reads the evicted
//     key from Put's return value).
//
//   - This cache is a single, non-sharded instance: spec.md §5 describes a
//     single-threaded cooperative core with no concurrency across requests,
//     so there is no contention to shard away. Capacity is the only
//     resource bound (no TTL, no cost-based eviction) — every document
//     store in this system is defined purely by the LRU bound spec.md §8
//     lists as invariant I1.
//
// Basic usage
//
//	c := cache.New[string, string](cache.Options[string, string]{Capacity: 2})
//	evicted, ok := c.Put("a", "A") // ok == false, nothing evicted
//	v, ok := c.Get("a")            // v == "A", ok == true, "a" promoted to MRU
package cache
