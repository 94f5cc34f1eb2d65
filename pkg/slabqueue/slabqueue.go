// Package slabqueue provides a bounded FIFO queue whose nodes live in a
// single slice and are linked by index.
//
// Slots are allocated on demand up to the queue's capacity. A dequeued slot is
// pushed onto a free list and reused by the next Enqueue, so a queue that has
// reached its high-water mark no longer allocates.
package slabqueue

import (
	"iter"

	"go.uber.org/zap"

	"github.com/i5heu/GoBoundedQueue/internal/queue"
)

var _ queue.Interface[int] = (*Queue[int])(nil)

// ErrEmpty is returned by Dequeue and Peek on an empty queue.
var ErrEmpty = queue.ErrEmpty

// none marks the absence of a slot.
const none = -1

type slot[T any] struct {
	value T
	next  int
}

// Queue is a bounded FIFO queue backed by a slab of slots. Create one with New.
// It is not safe for concurrent use.
type Queue[T any] struct {
	slots   []slot[T]
	front   int
	rear    int
	free    int // head of the free list, linked through slot.next
	maxSize int
	size    int
	log     *zap.Logger
}

// New creates an empty queue that holds at most maxSize elements.
// A maxSize <= 0 gives a queue that rejects every Enqueue.
func New[T any](maxSize int, opts ...Option) *Queue[T] {
	o := newOptions(opts)
	return &Queue[T]{
		front:   none,
		rear:    none,
		free:    none,
		maxSize: maxSize,
		log:     o.logger,
	}
}

// alloc returns the index of an unused slot, reusing the free list first.
func (q *Queue[T]) alloc() int {
	if q.free != none {
		i := q.free
		q.free = q.slots[i].next
		return i
	}
	q.slots = append(q.slots, slot[T]{})
	return len(q.slots) - 1
}

func (q *Queue[T]) release(i int) {
	var zero T
	q.slots[i].value = zero
	q.slots[i].next = q.free
	q.free = i
}

// Enqueue appends v to the rear of the queue. If the queue is full the value
// is dropped, a warning is logged and false is returned.
func (q *Queue[T]) Enqueue(v T) bool {
	if q.size >= q.maxSize {
		q.log.Warn("queue is full, dropping value",
			zap.Int("max_size", q.maxSize),
			zap.Any("value", v),
		)
		return false
	}

	i := q.alloc()
	q.slots[i] = slot[T]{value: v, next: none}
	if q.rear != none {
		q.slots[q.rear].next = i
	} else {
		q.front = i
	}
	q.rear = i
	q.size++
	return true
}

// Dequeue removes and returns the front element.
func (q *Queue[T]) Dequeue() (T, error) {
	if q.front == none {
		var zero T
		return zero, ErrEmpty
	}

	i := q.front
	v := q.slots[i].value
	q.front = q.slots[i].next
	if q.front == none {
		q.rear = none
	}
	q.size--
	q.release(i)
	return v, nil
}

// Peek returns the front element without removing it.
func (q *Queue[T]) Peek() (T, error) {
	if q.front == none {
		var zero T
		return zero, ErrEmpty
	}
	return q.slots[q.front].value, nil
}

// IsEmpty reports whether the queue holds no elements.
func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}

// Dump returns a read-only iterator over the queue from front to rear.
func (q *Queue[T]) Dump() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := q.front; i != none; i = q.slots[i].next {
			if !yield(q.slots[i].value) {
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

// Clear returns every queued slot to the free list.
func (q *Queue[T]) Clear() {
	for i := q.front; i != none; {
		next := q.slots[i].next
		q.release(i)
		i = next
	}
	q.front = none
	q.rear = none
	q.size = 0
}
