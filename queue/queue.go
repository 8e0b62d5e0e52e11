package queue

// DefaultCapacity is the fixed bound spec.md §4.3 assigns every server's
// task queue.
const DefaultCapacity = 1000

// EditRequest is a queued edit, copied in by value on Enqueue.
type EditRequest struct {
	DocName    string
	DocContent string
}

// TaskQueue is a bounded FIFO ring buffer of EditRequest. It is not safe
// for concurrent use; each server owns exactly one.
type TaskQueue struct {
	buf      []EditRequest
	readIdx  int
	writeIdx int
	size     int
}

// New constructs a TaskQueue with the given capacity. A capacity of 0 or
// less is clamped to DefaultCapacity, the only bound spec.md names.
func New(capacity int) *TaskQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &TaskQueue{buf: make([]EditRequest, capacity)}
}

// Enqueue appends req to the back of the queue. It returns false without
// modifying the queue if the queue is already at capacity — spec.md §7's
// documented "QueueOverflow: silently drop" behavior; the caller decides
// whether to log it.
func (q *TaskQueue) Enqueue(req EditRequest) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.writeIdx] = req
	q.writeIdx = (q.writeIdx + 1) % len(q.buf)
	q.size++
	return true
}

// Dequeue removes and returns the front request. ok is false if the queue
// is empty.
func (q *TaskQueue) Dequeue() (req EditRequest, ok bool) {
	if q.size == 0 {
		return EditRequest{}, false
	}
	req = q.buf[q.readIdx]
	q.buf[q.readIdx] = EditRequest{}
	q.readIdx = (q.readIdx + 1) % len(q.buf)
	q.size--
	return req, true
}

// Size returns the number of pending requests.
func (q *TaskQueue) Size() int { return q.size }

// IsEmpty reports whether the queue has no pending requests.
func (q *TaskQueue) IsEmpty() bool { return q.size == 0 }
