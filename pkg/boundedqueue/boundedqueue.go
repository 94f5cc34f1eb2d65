// Package boundedqueue provides a FIFO queue of fixed capacity built from a
// singly-linked chain of nodes.
//
// The queue owns its chain through front; rear is only a shortcut to the tail
// so that Enqueue runs in constant time. A Queue is not safe for concurrent
// use, see package syncqueue for a locked wrapper.
package boundedqueue

import (
	"iter"

	"go.uber.org/zap"

	"github.com/i5heu/GoBoundedQueue/internal/queue"
)

var _ queue.Interface[int] = (*Queue[int])(nil)

// ErrEmpty is returned by Dequeue and Peek on an empty queue.
var ErrEmpty = queue.ErrEmpty

type node[T any] struct {
	value T
	next  *node[T]
}

// Queue is a bounded FIFO queue. The zero value is an empty queue with a
// capacity of zero, which rejects every Enqueue.
type Queue[T any] struct {
	front   *node[T]
	rear    *node[T] // always the node whose next is nil
	maxSize int
	size    int
	log     *zap.Logger
}

// New creates an empty queue that holds at most maxSize elements.
// maxSize is not validated: a value <= 0 gives a queue that is always full.
func New[T any](maxSize int, opts ...Option) *Queue[T] {
	o := newOptions(opts)
	return &Queue[T]{
		maxSize: maxSize,
		log:     o.logger,
	}
}

func (q *Queue[T]) logger() *zap.Logger {
	if q.log == nil {
		return zap.NewNop()
	}
	return q.log
}

// Enqueue appends v to the rear of the queue. If the queue is full the value
// is dropped, a warning is logged and false is returned.
func (q *Queue[T]) Enqueue(v T) bool {
	if q.size >= q.maxSize {
		q.logger().Warn("queue is full, dropping value",
			zap.Int("max_size", q.maxSize),
			zap.Any("value", v),
		)
		return false
	}

	n := &node[T]{value: v}
	if q.rear != nil {
		q.rear.next = n
	} else {
		q.front = n
	}
	q.rear = n
	q.size++
	return true
}

// Dequeue removes and returns the front element.
func (q *Queue[T]) Dequeue() (T, error) {
	if q.front == nil {
		var zero T
		return zero, ErrEmpty
	}

	n := q.front
	q.front = n.next
	if q.front == nil {
		q.rear = nil
	}
	q.size--

	v := n.value
	n.next = nil
	return v, nil
}

// Peek returns the front element without removing it.
func (q *Queue[T]) Peek() (T, error) {
	if q.front == nil {
		var zero T
		return zero, ErrEmpty
	}
	return q.front.value, nil
}

// IsEmpty reports whether the queue holds no elements.
func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}

// Dump returns a read-only iterator over the queue from front to rear. Each
// call to the returned sequence starts a fresh traversal. The queue must not
// be modified while a traversal is in progress.
func (q *Queue[T]) Dump() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := q.front; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int { return q.size }

// Cap returns the maximum number of elements the queue can hold.
func (q *Queue[T]) Cap() int { return q.maxSize }

// UsedSlots returns how many elements are currently queued.
func (q *Queue[T]) UsedSlots() uint64 { return uint64(q.size) }

// FreeSlots returns how many more elements can be enqueued before the queue is full.
func (q *Queue[T]) FreeSlots() uint64 {
	if q.size >= q.maxSize {
		return 0
	}
	return uint64(q.maxSize - q.size)
}

// Clear unlinks every node in the chain, leaving an empty queue with the
// same capacity.
func (q *Queue[T]) Clear() {
	for n := q.front; n != nil; {
		next := n.next
		n.next = nil
		n = next
	}
	q.front = nil
	q.rear = nil
	q.size = 0
}
