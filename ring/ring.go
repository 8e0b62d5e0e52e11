package ring

import (
	"sort"

	"github.com/kavalan/docshard/server"
)

// Entry is one ring position: a server (primary or virtual node) placed at
// (Hash, ID). Multiple entries may point at the same primary server when
// virtual nodes are enabled (spec.md §3, RingEntry).
type Entry struct {
	ID     uint32
	Hash   uint32
	Server *server.Server
}

// Ring is the sorted sequence of Entry, ordered by (Hash, ID) ascending
// (spec.md §4.5). It is not safe for concurrent use; balancer.LoadBalancer
// serializes access at its own boundary.
type Ring struct {
	entries []Entry
}

// New constructs an empty ring.
func New() *Ring { return &Ring{} }

// Len returns the number of entries currently on the ring.
func (r *Ring) Len() int { return len(r.entries) }

// Entries returns the live, ordered backing slice. Callers must not retain
// it across a mutating Ring call (Insert/RemoveByID may reallocate).
func (r *Ring) Entries() []Entry { return r.entries }

// At returns the entry at position i.
func (r *Ring) At(i int) Entry { return r.entries[i] }

// InsertionIndex returns where (hash, id) would be inserted: the index of
// the first existing entry whose (hash, id) strictly exceeds (hash, id), or
// Len() if none exists (append) — spec.md §4.5.
func (r *Ring) InsertionIndex(hash, id uint32) int {
	return sort.Search(len(r.entries), func(i int) bool {
		e := r.entries[i]
		return e.Hash > hash || (e.Hash == hash && e.ID > id)
	})
}

// Reserve grows the backing storage, if needed, to guarantee room for n more
// entries without reallocating on the next n inserts — spec.md §4.6.1's "grow
// the ring storage to guarantee 3 free slots" made explicit at the call site
// instead of left to incidental per-Insert growth.
func (r *Ring) Reserve(n int) { r.growFor(n) }

// Insert places e on the ring at its sorted position and returns that
// position. Duplicate (hash, id) pairs are undefined behavior per spec.md
// §4.5 ("the scripts driving this system never produce them").
func (r *Ring) Insert(e Entry) int {
	idx := r.InsertionIndex(e.Hash, e.ID)
	r.growFor(1)
	r.entries = append(r.entries, Entry{})
	copy(r.entries[idx+1:], r.entries[idx:])
	r.entries[idx] = e
	return idx
}

// RemoveByID removes the entry whose ID matches id, if any, and reports
// whether it was found. Shrinks the backing storage when live count drops
// below half of capacity, per spec.md §4.6.2.
func (r *Ring) RemoveByID(id uint32) (Entry, bool) {
	for i, e := range r.entries {
		if e.ID == id {
			removed := e
			copy(r.entries[i:], r.entries[i+1:])
			r.entries = r.entries[:len(r.entries)-1]
			r.shrinkIfSparse()
			return removed, true
		}
	}
	return Entry{}, false
}

// SuccessorIndex returns the index of the smallest entry with Hash >= hash,
// wrapping to 0 if none exists (spec.md §4.5). The ring must be non-empty.
func (r *Ring) SuccessorIndex(hash uint32) int {
	idx := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].Hash >= hash })
	if idx == len(r.entries) {
		idx = 0
	}
	return idx
}

// -------------------- explicit grow/shrink policy --------------------
//
// Go's append already amortizes growth, but spec.md §4.6 describes an
// explicit doubling/halving policy (mirroring the teacher's
// internal/util.NextPow2 heuristic for shard counts) rather than leaving it
// to the runtime's opaque heuristic. growFor guarantees room for n more
// entries, doubling capacity as needed; shrinkIfSparse halves capacity once
// live entries fall under half of it.

func (r *Ring) growFor(n int) {
	need := len(r.entries) + n
	if cap(r.entries) >= need {
		return
	}
	newCap := nextPow2(need)
	grown := make([]Entry, len(r.entries), newCap)
	copy(grown, r.entries)
	r.entries = grown
}

func (r *Ring) shrinkIfSparse() {
	c := cap(r.entries)
	if c <= 4 {
		return
	}
	if len(r.entries) >= c/2 {
		return
	}
	newCap := c / 2
	if newCap < len(r.entries) {
		newCap = len(r.entries)
	}
	shrunk := make([]Entry, len(r.entries), newCap)
	copy(shrunk, r.entries)
	r.entries = shrunk
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	x := n - 1
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	return x + 1
}
