package balancer

import (
	"errors"
	"io"
	"sync"

	"github.com/kavalan/docshard/docstore"
	"github.com/kavalan/docshard/hashfn"
	"github.com/kavalan/docshard/ring"
	"github.com/kavalan/docshard/server"
)

// ErrEmptyRing is returned by Route (and HandleRequest) when no server has
// ever been added. spec.md §7: "cannot occur if the driver's scripts are
// well-formed; if it does, the implementation may terminate the process
// with a diagnostic" — returned as an error here rather than panicking, so
// the caller (cmd/docshard) decides how to terminate.
var ErrEmptyRing = errors.New("balancer: empty ring")

const (
	vnodeOffset1 = 100000
	vnodeOffset2 = 200000
)

// Metrics exposes balancer-level observability: ring size and the volume of
// key movement a topology change causes. Supplements spec.md the same way
// server.Metrics does (see SPEC_FULL.md §4.4) — the original program had no
// way to expose this beyond the transcript.
type Metrics interface {
	ServerAdded()
	ServerRemoved()
	KeysMigrated(n int)
	RingSize(n int)
}

// NoopMetrics is the default Metrics implementation.
type NoopMetrics struct{}

func (NoopMetrics) ServerAdded()       {}
func (NoopMetrics) ServerRemoved()     {}
func (NoopMetrics) KeysMigrated(n int) {}
func (NoopMetrics) RingSize(n int)     {}

var _ Metrics = NoopMetrics{}

// LoadBalancer owns the ring and dispatches requests to the server that
// owns the addressed document (spec.md §4.6, C6).
type LoadBalancer struct {
	mu            sync.Mutex
	ring          *ring.Ring
	vnodesEnabled bool
	metrics       Metrics

	// ServerMetrics is installed on every server.Server constructed by
	// AddServer. Defaults to server.NoopMetrics{}; set before the first
	// AddServer call to wire in an observability backend.
	ServerMetrics server.Metrics

	primaries map[uint32]*server.Server
}

// New constructs an empty load balancer. vnodesEnabled controls whether
// AddServer places two replicas per primary (spec.md §3).
func New(vnodesEnabled bool) *LoadBalancer {
	return &LoadBalancer{
		ring:          ring.New(),
		vnodesEnabled: vnodesEnabled,
		metrics:       NoopMetrics{},
		ServerMetrics: server.NoopMetrics{},
		primaries:     make(map[uint32]*server.Server),
	}
}

// SetMetrics installs a Metrics implementation, replacing the no-op default.
func (lb *LoadBalancer) SetMetrics(m Metrics) {
	if m == nil {
		m = NoopMetrics{}
	}
	lb.metrics = m
}

// AddServer constructs a primary server of the given cache size (and, if
// vnodes are enabled, its two replicas) and places it on the ring,
// migrating the keys whose ownership changes (spec.md §4.6.1).
func (lb *LoadBalancer) AddServer(id uint32, cacheSize int) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	primary := server.New(id, cacheSize)
	primary.Metrics = lb.ServerMetrics
	lb.primaries[id] = primary

	reserved := 1
	if lb.vnodesEnabled {
		reserved = 3
	}
	lb.ring.Reserve(reserved)

	primaryEntry := ring.Entry{ID: id, Hash: primary.Hash, Server: primary}
	if lb.ring.Len() == 0 {
		// Seeding: no donor exists, so no redistribution is possible or
		// necessary (spec.md §4.6.1).
		lb.ring.Insert(primaryEntry)
	} else {
		lb.generalInsert(primaryEntry, primary)
	}

	if lb.vnodesEnabled {
		v1 := server.NewVirtual(id+vnodeOffset1, primary)
		v2 := server.NewVirtual(id+vnodeOffset2, primary)
		lb.generalInsert(ring.Entry{ID: v1.ID, Hash: v1.Hash, Server: v1}, primary)
		lb.generalInsert(ring.Entry{ID: v2.ID, Hash: v2.Hash, Server: v2}, primary)
	}

	lb.metrics.ServerAdded()
	lb.metrics.RingSize(lb.ring.Len())
}

// generalInsert implements spec.md §4.6.1's "general insert of a server X":
// find the donor S that x displaces, drain it, insert x, then migrate every
// key the should_redistribute predicate claims for x's newly-claimed arc.
// owner is the primary that x's state (if any) forwards to — itself, for a
// primary entry.
func (lb *LoadBalancer) generalInsert(x ring.Entry, owner *server.Server) {
	sIdx, ok := lb.successorSkippingOwner(x.Hash, owner)
	if !ok {
		// No other primary exists yet (e.g. inserting v1 right after
		// seeding a lone primary) — nothing to drain or migrate from.
		lb.ring.Insert(x)
		return
	}
	s := lb.ring.At(sIdx)
	sPrimary := s.Server.Storage()
	sPrimary.Drain()

	idx := lb.ring.Insert(x)
	n := lb.ring.Len()

	var pos int
	switch idx {
	case 0:
		pos = 0
	case n - 1:
		pos = -1
	default:
		pos = 1
	}

	migrated := 0
	for _, k := range sPrimary.Store.Keys() {
		kh := hashfn.HashString(k)
		kPrimary := lb.ring.At(lb.ring.SuccessorIndex(kh)).Server.Storage()
		if kPrimary == sPrimary {
			continue
		}
		if !shouldRedistribute(pos, kh, s.Hash, x.Hash) {
			continue
		}
		v, ok := sPrimary.Store.Get(k)
		if !ok {
			continue
		}
		kPrimary.Store.Put(k, v)
		sPrimary.Store.Remove(k)
		sPrimary.Cache.Remove(k)
		migrated++
	}
	if migrated > 0 {
		lb.metrics.KeysMigrated(migrated)
	}
}

// shouldRedistribute implements spec.md §4.6.1's predicate exactly.
func shouldRedistribute(pos int, kh, sHash, xHash uint32) bool {
	switch pos {
	case 0:
		return kh > sHash || kh <= xHash
	case -1:
		return kh > sHash && kh <= xHash
	default:
		return kh <= xHash
	}
}

// successorSkippingOwner returns the index of the nearest ring entry,
// starting at hash's successor position and walking forward (wrapping),
// whose Storage() is not owner. Reports false if every entry on the ring
// belongs to owner (or the ring is empty).
func (lb *LoadBalancer) successorSkippingOwner(hash uint32, owner *server.Server) (int, bool) {
	n := lb.ring.Len()
	if n == 0 {
		return 0, false
	}
	start := lb.ring.SuccessorIndex(hash)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if lb.ring.At(idx).Server.Storage() != owner {
			return idx, true
		}
	}
	return 0, false
}

// RemoveServer removes the server identified by id and its replicas (if
// vnodes are enabled), migrating every key it owned to whatever server the
// ring names as successor once the outgoing entries are gone (spec.md
// §4.6.2). Unknown ids are a silent no-op (spec.md §7).
func (lb *LoadBalancer) RemoveServer(id uint32) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	primary, ok := lb.primaries[id]
	if !ok {
		return
	}
	primary.Drain()

	ids := []uint32{id}
	if lb.vnodesEnabled {
		ids = append(ids, id+vnodeOffset1, id+vnodeOffset2)
	}
	for _, rid := range ids {
		lb.ring.RemoveByID(rid)
	}
	delete(lb.primaries, id)

	if lb.ring.Len() > 0 {
		migrated := 0
		for _, k := range primary.Store.Keys() {
			kh := hashfn.HashString(k)
			dest := lb.ring.At(lb.ring.SuccessorIndex(kh)).Server.Storage()
			v, ok := primary.Store.Get(k)
			if !ok {
				continue
			}
			dest.Store.Put(k, v)
			primary.Store.Remove(k)
			primary.Cache.Remove(k)
			migrated++
		}
		if migrated > 0 {
			lb.metrics.KeysMigrated(migrated)
		}
	}

	primary.Close()
	lb.metrics.ServerRemoved()
	lb.metrics.RingSize(lb.ring.Len())
}

// Route selects the server that should handle req (spec.md §4.6.3): the
// smallest ring entry with hash >= hash_string(doc_name), wrapping. For a
// GET under virtual nodes, the selection is then refined to the same-primary
// entry with the smallest own hash that still strictly exceeds the query
// hash (the replica that "initiates" the read), falling back to the initial
// selection if none qualifies.
func (lb *LoadBalancer) Route(req docstore.Request) (*server.Server, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.route(req)
}

func (lb *LoadBalancer) route(req docstore.Request) (*server.Server, error) {
	if lb.ring.Len() == 0 {
		return nil, ErrEmptyRing
	}
	q := hashfn.HashString(req.DocName)
	e := lb.ring.At(lb.ring.SuccessorIndex(q))

	if req.Type == docstore.Get && lb.vnodesEnabled {
		primary := e.Server.Storage()
		for i := 0; i < lb.ring.Len(); i++ {
			cand := lb.ring.At(i)
			if cand.Server.Storage() != primary {
				continue
			}
			if cand.Hash > q {
				e = cand
				break
			}
		}
	}
	return e.Server, nil
}

// HandleRequest routes req to its owning server and executes it there,
// writing any responses drained along the way to sink (may be nil).
func (lb *LoadBalancer) HandleRequest(req docstore.Request, sink io.Writer) (docstore.Response, error) {
	target, err := lb.Route(req)
	if err != nil {
		return docstore.Response{}, err
	}
	return target.HandleRequest(req, sink), nil
}

// RingSize returns the number of ring entries currently placed (primaries
// plus any replicas). Metrics receive the same count through
// Metrics.RingSize after every topology change.
func (lb *LoadBalancer) RingSize() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.ring.Len()
}
