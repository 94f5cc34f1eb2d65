package queue

import "github.com/pkg/errors"

// ErrEmpty is returned when an element is requested from an empty queue.
var ErrEmpty = errors.New("queue is empty")
