package docstore

import "fmt"

// RequestType distinguishes the two request kinds the system accepts.
type RequestType int

const (
	// Edit enqueues a document edit for lazy execution.
	Edit RequestType = iota
	// Get reads a document, draining pending edits first.
	Get
)

func (t RequestType) String() string {
	switch t {
	case Edit:
		return "EDIT"
	case Get:
		return "GET"
	default:
		return "UNKNOWN"
	}
}

// Request is the tagged union of the two operations a client may issue
// against the cluster: edit a document, or read a document.
type Request struct {
	Type       RequestType
	DocName    string
	DocContent string // unused for Get
}

// Response is the structured outcome of handling a Request. Any field may
// be its zero value — e.g. ServerResponse is empty on a LogFault read.
type Response struct {
	ServerLog      string
	ServerResponse string
	ServerID       uint32
}

// Render formats a Response using the host program's fixed template
// (spec.md §6). It is the only place textual rendering beyond the message
// templates themselves happens: server uses it to print each drained edit to
// the sink, and cmd/docshard uses it to produce a transcript line.
func Render(r Response) string {
	return fmt.Sprintf("Server %d has received %s\nServer %d %s",
		r.ServerID, r.ServerResponse, r.ServerID, r.ServerLog)
}
