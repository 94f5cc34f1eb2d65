package queue

import "iter"

// Interface is the contract shared by every bounded queue in this module.
// Implementations are not required to be safe for concurrent use; wrap them
// with syncqueue when they are shared between goroutines.
type Interface[T any] interface {
	// Enqueue appends v at the rear. It returns false, leaving the queue
	// untouched, if the queue already holds its maximum number of elements.
	Enqueue(v T) bool

	// Dequeue removes and returns the front element.
	// If the queue is empty it returns the zero T and ErrEmpty.
	Dequeue() (T, error)

	// IsEmpty reports whether the queue holds no elements.
	IsEmpty() bool

	// Dump yields the stored elements from front to rear without removing them.
	Dump() iter.Seq[T]

	// FreeSlots returns how many more elements can be enqueued before the queue is full.
	FreeSlots() uint64

	// UsedSlots returns how many elements are currently queued.
	UsedSlots() uint64
}
