// Package queue implements the per-server FIFO of pending edits (spec.md
// §4.3, C3): a bounded ring buffer that enqueues by value, rejects when
// full, and dequeues from the front. Grounded in original_source/server.c's
// q_create/q_enqueue/q_dequeue, translated from a manually managed circular
// buffer into a Go slice with read/write indices.
package queue
