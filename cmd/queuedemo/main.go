// Command queuedemo walks a small bounded queue through a fixed sequence of
// operations and prints what happened.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i5heu/GoBoundedQueue/internal/logger"
	"github.com/i5heu/GoBoundedQueue/pkg/boundedqueue"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		capacity int
		logLevel string
	)
	cmd := &cobra.Command{
		Use:          "queuedemo",
		Short:        "Demonstrate a bounded FIFO queue",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(logger.Config{Level: logLevel})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return run(out, log, capacity)
		},
	}
	cmd.Flags().IntVar(&capacity, "capacity", 5, "maximum number of queued values")
	cmd.Flags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	return cmd
}

// run enqueues 1..6, dequeues twice, enqueues 6 again and prints the rest.
func run(out io.Writer, log *zap.Logger, capacity int) error {
	q := boundedqueue.New[int](capacity, boundedqueue.WithLogger(log))
	defer q.Clear()

	enqueue := func(v int) {
		if !q.Enqueue(v) {
			fmt.Fprintf(out, "queue is full, could not add new node with data: %d\n", v)
		}
	}

	for v := 1; v <= 6; v++ {
		enqueue(v)
	}

	fmt.Fprintln(out)
	for range 2 {
		v, err := q.Dequeue()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Dequeued item: %d\n", v)
	}

	enqueue(6)

	fmt.Fprintf(out, "\nCurrent queue: \n")
	for v := range q.Dump() {
		fmt.Fprintf(out, "%d -> ", v)
	}

	log.Debug("demo finished", zap.Int("remaining", q.Len()))
	return nil
}
