// Package server implements the per-document-owning server: a hot cache in
// front of an authoritative store, plus a lazy edit queue (spec.md §4.4,
// C4). A server handles two request kinds — EDIT enqueues and returns
// immediately; GET drains all pending edits (executing and logging each to
// the sink passed to HandleRequest) before answering from cache-or-store.
//
// Virtual nodes. A server constructed with Primary set forwards every
// cache/store/queue operation to Primary — spec.md's "VirtualOf(primary-id)"
// modeling (§9): a virtual node is a thin alias, not a deep copy. The one
// thing that never forwards is the server id carried in an emitted
// Response — spec.md §4.4's forwarding rule is that a read or edit handled
// by a virtual node still reports that virtual node's own id, even though
// the data it touched lives on the primary.
package server
