package server

import (
	"fmt"
	"io"

	"github.com/kavalan/docshard/cache"
	"github.com/kavalan/docshard/docstore"
	"github.com/kavalan/docshard/hashfn"
	"github.com/kavalan/docshard/queue"
)

// Metrics exposes per-server observability hooks, driven by the same
// hit/miss/evict/fault outcomes that drive the log message templates.
// Supplements spec.md (the original C program had no way to expose this
// beyond stdout) — see SPEC_FULL.md §4.4.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Fault()
	QueueDrop()
}

// NoopMetrics is the default Metrics implementation.
type NoopMetrics struct{}

func (NoopMetrics) Hit()       {}
func (NoopMetrics) Miss()      {}
func (NoopMetrics) Evict()     {}
func (NoopMetrics) Fault()     {}
func (NoopMetrics) QueueDrop() {}

var _ Metrics = NoopMetrics{}

// Server owns a hot cache, an authoritative store, and a lazy edit queue
// (spec.md §4.4, C4). When Primary is set, Server is a virtual node: every
// cache/store/queue operation forwards to Primary, but Server keeps its own
// ID and Hash for ring placement, and every Response it produces carries
// its own ID regardless of where the data actually lives.
type Server struct {
	ID      uint32
	Hash    uint32
	Cache   *cache.Cache[string, string]
	Store   *cache.Cache[string, string]
	Queue   *queue.TaskQueue
	Primary *Server
	Metrics Metrics
}

// New constructs a primary server: a hot cache of cacheSize entries, a
// store of cacheSize*1000 entries (spec.md §3), and a 1000-capacity edit
// queue.
func New(id uint32, cacheSize int) *Server {
	return &Server{
		ID:      id,
		Hash:    hashfn.HashUint(id),
		Cache:   cache.New[string, string](cache.Options[string, string]{Capacity: cacheSize}),
		Store:   cache.New[string, string](cache.Options[string, string]{Capacity: cacheSize * 1000}),
		Queue:   queue.New(queue.DefaultCapacity),
		Metrics: NoopMetrics{},
	}
}

// NewVirtual constructs a virtual node aliasing primary at a different
// (id, hash) — spec.md §3's RingEntry/virtual-node model.
func NewVirtual(id uint32, primary *Server) *Server {
	return &Server{
		ID:      id,
		Hash:    hashfn.HashUint(id),
		Primary: primary,
		Metrics: primary.Metrics,
	}
}

// IsVirtual reports whether this server forwards state to a primary.
func (s *Server) IsVirtual() bool { return s.Primary != nil }

// storage returns the server whose Cache/Store/Queue actually hold state:
// Primary if this is a virtual node, else itself.
func (s *Server) storage() *Server {
	if s.Primary != nil {
		return s.Primary
	}
	return s
}

// Storage exposes storage for callers outside the package (the balancer,
// redistributing keys on topology change) that need to compare or reach the
// server actually holding a ring entry's state.
func (s *Server) Storage() *Server { return s.storage() }

// Drain executes every pending edit against the underlying storage server
// without printing anything, discarding the responses. Used by the balancer
// to bring a donor fully up to date before moving keys off of it (spec.md
// §4.6.1's "call drain(S)").
func (s *Server) Drain() { s.drain(nil) }

// HandleRequest dispatches an EDIT or GET request (spec.md §4.4). sink
// receives the rendered response of every edit drained while answering a
// GET (spec.md §6); it may be nil, in which case drained responses are
// simply not printed anywhere.
func (s *Server) HandleRequest(req docstore.Request, sink io.Writer) docstore.Response {
	switch req.Type {
	case docstore.Edit:
		return s.handleEdit(req)
	default:
		return s.handleGet(req, sink)
	}
}

func (s *Server) handleEdit(req docstore.Request) docstore.Response {
	q := s.storage().Queue
	if !q.Enqueue(queue.EditRequest{DocName: req.DocName, DocContent: req.DocContent}) {
		s.Metrics.QueueDrop()
	}
	pending := q.Size()
	return docstore.Response{
		ServerLog:      docstore.LogLazyExec(pending),
		ServerResponse: docstore.MsgA("EDIT", req.DocName),
		ServerID:       s.ID,
	}
}

func (s *Server) handleGet(req docstore.Request, sink io.Writer) docstore.Response {
	s.drain(sink)
	logMsg, respMsg, _ := s.getDocument(req.DocName)
	return docstore.Response{ServerLog: logMsg, ServerResponse: respMsg, ServerID: s.ID}
}

// drain executes every pending edit on the underlying storage server,
// printing each resulting response to sink before returning — spec.md
// §4.4's "drain must complete before the read is answered."
func (s *Server) drain(sink io.Writer) {
	q := s.storage().Queue
	for {
		req, ok := q.Dequeue()
		if !ok {
			break
		}
		logMsg, respMsg := s.editDocument(req.DocName, req.DocContent)
		if sink != nil {
			resp := docstore.Response{ServerLog: logMsg, ServerResponse: respMsg, ServerID: s.ID}
			fmt.Fprintln(sink, docstore.Render(resp))
		}
	}
}

// editDocument applies one edit against the underlying storage server and
// returns the log/response pair per spec.md §4.4's edit table. It is used
// both for an edit drained from the queue and (via drain) internally — the
// identity that owns the response is always the receiver s, never the
// primary it may forward state to.
func (s *Server) editDocument(docName, docContent string) (logMsg, respMsg string) {
	storage := s.storage()

	if _, inCache := storage.Cache.Get(docName); inCache {
		storage.Cache.Put(docName, docContent)
		storage.Store.Put(docName, docContent)
		s.Metrics.Hit()
		return docstore.LogHit(docName), docstore.MsgB(docName)
	}

	if _, inStore := storage.Store.Get(docName); inStore {
		evictedKey, evicted := storage.Cache.Put(docName, docContent)
		storage.Store.Put(docName, docContent)
		if evicted {
			s.Metrics.Evict()
			return docstore.LogEvict(docName, evictedKey), docstore.MsgB(docName)
		}
		s.Metrics.Miss()
		return docstore.LogMiss(docName), docstore.MsgB(docName)
	}

	storage.Store.Put(docName, docContent)
	evictedKey, evicted := storage.Cache.Put(docName, docContent)
	if evicted {
		s.Metrics.Evict()
		return docstore.LogEvict(docName, evictedKey), docstore.MsgC(docName)
	}
	s.Metrics.Miss()
	return docstore.LogMiss(docName), docstore.MsgC(docName)
}

// getDocument answers a read against the underlying storage server per
// spec.md §4.4's read table.
func (s *Server) getDocument(docName string) (logMsg, respMsg string, hasResp bool) {
	storage := s.storage()

	if v, ok := storage.Cache.Get(docName); ok {
		s.Metrics.Hit()
		return docstore.LogHit(docName), v, true
	}

	if v, ok := storage.Store.Get(docName); ok {
		evictedKey, evicted := storage.Cache.Put(docName, v)
		if evicted {
			s.Metrics.Evict()
			return docstore.LogEvict(docName, evictedKey), v, true
		}
		s.Metrics.Miss()
		return docstore.LogMiss(docName), v, true
	}

	s.Metrics.Fault()
	return docstore.LogFault(docName), "", false
}

// Close drops the server's queued edits without executing them and frees
// its cache/store — spec.md §3 "On server removal ... the server's store is
// drained ... and then freed" (the draining itself is the balancer's job,
// via RemoveServer; Close only discards what was never drained, matching
// spec.md §7's free_server behavior for a server being torn down outright).
func (s *Server) Close() {
	if s.IsVirtual() {
		return
	}
	for {
		if _, ok := s.Queue.Dequeue(); !ok {
			break
		}
	}
}
