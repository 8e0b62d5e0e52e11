// Package ring implements the sorted sequence of (hash, id) ring entries
// consistent hashing is built on (spec.md §4.5, C5): successor lookup,
// ordered insertion, and removal, with an explicit grow/shrink capacity
// policy standing in for the original C source's manual array management
// (spec.md §4.6's doubling/halving rule, grounded in the teacher's
// internal/util.NextPow2 heuristic).
package ring
