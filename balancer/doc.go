// Package balancer implements the consistent-hash load balancer (spec.md
// §4.6, C6): it owns the ring, routes each request to the server that owns
// it, and redistributes keys when a server joins or leaves.
//
// AddServer places a primary (and, when virtual nodes are enabled, its two
// replicas at id+100000/id+200000) onto the ring and migrates exactly the
// keys whose ownership changed from the donor it displaces, after first
// draining the donor so its store is current. RemoveServer does the
// opposite: it takes every key the outgoing primary owned and moves it to
// whichever server the ring names as successor once the outgoing entries
// are gone, preserving the one-primary-per-key invariant (spec.md §8,
// "Unique ownership") rather than leaving stale copies on intermediate
// replicas the way the original donation-per-replica walk would.
//
// LoadBalancer's exported methods are guarded by a single mutex: the
// processing model underneath is single-threaded cooperative (spec.md §5),
// but a LoadBalancer is a library value that may be embedded in a
// concurrent host, so the mutex makes "one request at a time to completion"
// hold even when callers are concurrent.
package balancer
