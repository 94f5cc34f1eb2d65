package testbench

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Queue is what the harness needs from an implementation. Enqueue must not
// block: a full queue reports false and the producer retries.
type Queue[T any] interface {
	Enqueue(T) bool
	Dequeue() (T, error)
	FreeSlots() uint64
	UsedSlots() uint64
}

// Config is only about concurrency: how many producers, how many consumers.
type Config struct {
	NumProducers int `yaml:"producers" validate:"gte=1"`
	NumConsumers int `yaml:"consumers" validate:"gte=1"`
}

// Result holds the counters of one timed run.
type Result struct {
	Produced int64 // values accepted by the queue
	Rejected int64 // enqueue attempts refused because the queue was full
	Consumed int64
	Elapsed  time.Duration
}

// RunTimedTest spawns producers and consumers that run for the specified
// duration, measuring how many messages are actually enqueued/dequeued
// in that window. Once the context expires, producers stop and consumers
// drain any remaining messages in the queue.
func RunTimedTest[T any, Q Queue[T]](
	q Q,
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) T,
) Result {
	ctx, cancel := context.WithTimeout(context.Background(), testDuration)
	defer cancel()

	var produced, rejected, consumed atomic.Int64
	var msgIndex atomic.Int64
	var productionDone atomic.Bool

	start := time.Now()

	var producers errgroup.Group
	for range cfg.NumProducers {
		producers.Go(func() error {
			for ctx.Err() == nil {
				msg := valueGenerator(int(msgIndex.Add(1) - 1))
				for !q.Enqueue(msg) {
					rejected.Add(1)
					if ctx.Err() != nil {
						return nil
					}
					runtime.Gosched()
				}
				produced.Add(1)
			}
			return nil
		})
	}

	var consumers errgroup.Group
	for range cfg.NumConsumers {
		consumers.Go(func() error {
			for {
				if _, err := q.Dequeue(); err == nil {
					consumed.Add(1)
					continue
				}
				if productionDone.Load() {
					// No more enqueues can happen, drain what is left.
					for {
						if _, err := q.Dequeue(); err != nil {
							return nil
						}
						consumed.Add(1)
					}
				}
				runtime.Gosched()
			}
		})
	}

	_ = producers.Wait()
	productionDone.Store(true)
	_ = consumers.Wait()

	return Result{
		Produced: produced.Load(),
		Rejected: rejected.Load(),
		Consumed: consumed.Load(),
		Elapsed:  time.Since(start),
	}
}
