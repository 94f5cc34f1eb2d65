// Package syncqueue makes any bounded queue safe for concurrent use by
// guarding all of its operations with one mutex.
package syncqueue

import (
	"iter"
	"slices"
	"sync"

	"github.com/i5heu/GoBoundedQueue/internal/queue"
)

var _ queue.Interface[int] = (*Queue[int])(nil)

// Queue serialises access to an underlying queue.
type Queue[T any] struct {
	mu sync.Mutex
	q  queue.Interface[T]
}

// New wraps q. The caller must not use q directly afterwards.
func New[T any](q queue.Interface[T]) *Queue[T] {
	return &Queue[T]{q: q}
}

func (s *Queue[T]) Enqueue(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Enqueue(v)
}

func (s *Queue[T]) Dequeue() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Dequeue()
}

func (s *Queue[T]) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.IsEmpty()
}

// Dump copies the queue contents under the lock when iteration starts and
// yields from that copy, so the loop body may call back into the queue.
func (s *Queue[T]) Dump() iter.Seq[T] {
	return func(yield func(T) bool) {
		s.mu.Lock()
		snapshot := slices.Collect(s.q.Dump())
		s.mu.Unlock()

		for _, v := range snapshot {
			if !yield(v) {
				return
			}
		}
	}
}

func (s *Queue[T]) FreeSlots() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.FreeSlots()
}

func (s *Queue[T]) UsedSlots() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.UsedSlots()
}
