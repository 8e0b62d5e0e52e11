package queue_test

import (
	"testing"

	"github.com/kavalan/docshard/queue"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := queue.New(4)
	require.True(t, q.Enqueue(queue.EditRequest{DocName: "a", DocContent: "1"}))
	require.True(t, q.Enqueue(queue.EditRequest{DocName: "b", DocContent: "2"}))

	first, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, "a", first.DocName)

	second, ok := q.Dequeue()
	require.True(t, ok)
	require.Equal(t, "b", second.DocName)
}

func TestQueue_EnqueueRejectsWhenFull(t *testing.T) {
	q := queue.New(2)
	require.True(t, q.Enqueue(queue.EditRequest{DocName: "a"}))
	require.True(t, q.Enqueue(queue.EditRequest{DocName: "b"}))
	require.False(t, q.Enqueue(queue.EditRequest{DocName: "c"}))
	require.Equal(t, 2, q.Size())
}

func TestQueue_DequeueEmptyReturnsNotOK(t *testing.T) {
	q := queue.New(2)
	_, ok := q.Dequeue()
	require.False(t, ok)
	require.True(t, q.IsEmpty())
}

// Ring-buffer wraparound: dequeue then enqueue past the backing array's end.
func TestQueue_WrapAround(t *testing.T) {
	q := queue.New(2)
	q.Enqueue(queue.EditRequest{DocName: "a"})
	q.Enqueue(queue.EditRequest{DocName: "b"})
	q.Dequeue()
	require.True(t, q.Enqueue(queue.EditRequest{DocName: "c"}))

	first, _ := q.Dequeue()
	require.Equal(t, "b", first.DocName)
	second, _ := q.Dequeue()
	require.Equal(t, "c", second.DocName)
}

func TestQueue_DefaultCapacity(t *testing.T) {
	q := queue.New(0)
	for i := 0; i < queue.DefaultCapacity; i++ {
		require.True(t, q.Enqueue(queue.EditRequest{DocName: "x"}))
	}
	require.False(t, q.Enqueue(queue.EditRequest{DocName: "overflow"}))
}
