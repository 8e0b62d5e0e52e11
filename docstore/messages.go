package docstore

import "fmt"

// Log and response message templates, reproduced verbatim from spec.md §6.
// These are the only text a server ever emits; keeping them as functions
// over fixed format strings (rather than scattering fmt.Sprintf calls
// through server logic) keeps the wording in one place and testable.

// LogHit formats the template for a cache hit.
func LogHit(doc string) string { return fmt.Sprintf("has cache entry for %s", backtick(doc)) }

// LogMiss formats the template for a cache miss resolved from the store.
func LogMiss(doc string) string {
	return fmt.Sprintf("cache miss; fetched %s from local database", backtick(doc))
}

// LogEvict formats the template for a cache miss that evicted an entry.
func LogEvict(doc, evicted string) string {
	return fmt.Sprintf("cache miss; evicted %s and fetched %s from local database", backtick(evicted), backtick(doc))
}

// LogFault formats the template for a document absent from both cache and store.
func LogFault(doc string) string {
	return fmt.Sprintf("document %s is neither in cache, nor in local database", backtick(doc))
}

// LogLazyExec formats the template emitted when an edit is queued.
func LogLazyExec(pending int) string {
	return fmt.Sprintf("task queue now has %s pending operations", backtick(fmt.Sprintf("%d", pending)))
}

// MsgA acknowledges that a deferred operation was queued.
func MsgA(op, doc string) string {
	return fmt.Sprintf("%s request for document %s has been added to the queue", op, backtick(doc))
}

// MsgB reports a successful edit to an existing document.
func MsgB(doc string) string { return fmt.Sprintf("document %s edited successfully", backtick(doc)) }

// MsgC reports that an edit created a new document.
func MsgC(doc string) string { return fmt.Sprintf("document %s created", backtick(doc)) }

func backtick(s string) string { return "`" + s + "`" }
