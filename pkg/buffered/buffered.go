// Package buffered is a bounded queue on top of a Go channel. It drops values
// when full instead of blocking, matching the other queues in this module.
package buffered

import "github.com/i5heu/GoBoundedQueue/internal/queue"

// ErrEmpty is returned by Dequeue on an empty queue.
var ErrEmpty = queue.ErrEmpty

type BufferedQueue[T any] struct {
	ch chan T
}

func New[T any](bufferSize uint64) *BufferedQueue[T] {
	// Enforce minimum capacity of 1 to ensure proper bounded buffer semantics.
	// A zero-capacity Go channel is an unbuffered synchronization primitive,
	// not a zero-capacity buffer, which would cause unexpected behavior.
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &BufferedQueue[T]{
		ch: make(chan T, bufferSize),
	}
}

// Enqueue reports whether val was accepted.
func (q *BufferedQueue[T]) Enqueue(val T) bool {
	select {
	case q.ch <- val:
		return true
	default:
		return false
	}
}

func (q *BufferedQueue[T]) Dequeue() (val T, err error) {
	select {
	case val = <-q.ch:
		return val, nil
	default:
		return val, ErrEmpty
	}
}

func (q *BufferedQueue[T]) FreeSlots() uint64 {
	return uint64(cap(q.ch) - len(q.ch))
}

func (q *BufferedQueue[T]) UsedSlots() uint64 {
	return uint64(len(q.ch))
}
