// Package docstore defines the request/response shapes and the fixed log
// and response message templates that cross the boundary between the core
// (balancer, server, cache, queue, ring) and any host program driving it.
// Everything in this package is a plain data shape or a format string — no
// behavior lives here, per spec.md §6.
package docstore
