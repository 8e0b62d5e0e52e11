// Package prom adapts docshard's per-component Metrics interfaces
// (cache.Metrics, server.Metrics, balancer.Metrics) onto Prometheus
// counters and gauges, grounded in the teacher's metrics/prom.Adapter.
package prom

import (
	"github.com/kavalan/docshard/balancer"
	"github.com/kavalan/docshard/cache"
	"github.com/kavalan/docshard/server"
	"github.com/prometheus/client_golang/prometheus"
)

// CacheAdapter implements cache.Metrics. Safe for concurrent use; all
// Prometheus metric types are goroutine-safe.
type CacheAdapter struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	evicts prometheus.Counter
	size   prometheus.Gauge
}

// NewCacheAdapter constructs a Prometheus metrics adapter for one cache
// instance (a server's hot cache, or its authoritative store).
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil; e.g. {"server_id": "1", "tier": "hot"})
func NewCacheAdapter(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *CacheAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &CacheAdapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "hits_total",
			Help: "Cache hits", ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "misses_total",
			Help: "Cache misses", ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "evictions_total",
			Help: "Cache evictions", ConstLabels: constLabels,
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "size_entries",
			Help: "Number of resident entries", ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.size)
	return a
}

func (a *CacheAdapter) Hit()       { a.hits.Inc() }
func (a *CacheAdapter) Miss()      { a.misses.Inc() }
func (a *CacheAdapter) Evict()     { a.evicts.Inc() }
func (a *CacheAdapter) Size(n int) { a.size.Set(float64(n)) }

var _ cache.Metrics = (*CacheAdapter)(nil)

// ServerAdapter implements server.Metrics, one per server.Server instance.
type ServerAdapter struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	evicts     prometheus.Counter
	faults     prometheus.Counter
	queueDrops prometheus.Counter
}

// NewServerAdapter constructs a Prometheus metrics adapter for one server.
func NewServerAdapter(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *ServerAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &ServerAdapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "server_hits_total",
			Help: "Reads answered from cache", ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "server_misses_total",
			Help: "Reads answered from the store, not the cache", ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "server_evictions_total",
			Help: "Cache evictions triggered by a server operation", ConstLabels: constLabels,
		}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "server_faults_total",
			Help: "Reads for a document present in neither cache nor store", ConstLabels: constLabels,
		}),
		queueDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "server_queue_drops_total",
			Help: "Edits dropped because the task queue was full", ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.faults, a.queueDrops)
	return a
}

func (a *ServerAdapter) Hit()       { a.hits.Inc() }
func (a *ServerAdapter) Miss()      { a.misses.Inc() }
func (a *ServerAdapter) Evict()     { a.evicts.Inc() }
func (a *ServerAdapter) Fault()     { a.faults.Inc() }
func (a *ServerAdapter) QueueDrop() { a.queueDrops.Inc() }

var _ server.Metrics = (*ServerAdapter)(nil)

// BalancerAdapter implements balancer.Metrics for the whole cluster.
type BalancerAdapter struct {
	serversAdded   prometheus.Counter
	serversRemoved prometheus.Counter
	keysMigrated   prometheus.Counter
	ringSize       prometheus.Gauge
}

// NewBalancerAdapter constructs a Prometheus metrics adapter for a
// balancer.LoadBalancer.
func NewBalancerAdapter(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *BalancerAdapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &BalancerAdapter{
		serversAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "servers_added_total",
			Help: "AddServer calls", ConstLabels: constLabels,
		}),
		serversRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "servers_removed_total",
			Help: "RemoveServer calls", ConstLabels: constLabels,
		}),
		keysMigrated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "keys_migrated_total",
			Help: "Keys moved by a topology change", ConstLabels: constLabels,
		}),
		ringSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: "ring_size",
			Help: "Number of ring entries (primaries plus replicas)", ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.serversAdded, a.serversRemoved, a.keysMigrated, a.ringSize)
	return a
}

func (a *BalancerAdapter) ServerAdded()       { a.serversAdded.Inc() }
func (a *BalancerAdapter) ServerRemoved()     { a.serversRemoved.Inc() }
func (a *BalancerAdapter) KeysMigrated(n int) { a.keysMigrated.Add(float64(n)) }
func (a *BalancerAdapter) RingSize(n int)     { a.ringSize.Set(float64(n)) }

var _ balancer.Metrics = (*BalancerAdapter)(nil)
