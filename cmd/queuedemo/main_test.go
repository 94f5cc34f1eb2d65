package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun(t *testing.T) {
	const want = "queue is full, could not add new node with data: 6\n" +
		"\n" +
		"Dequeued item: 1\n" +
		"Dequeued item: 2\n" +
		"\n" +
		"Current queue: \n" +
		"3 -> 4 -> 5 -> 6 -> "

	var out bytes.Buffer
	require.NoError(t, run(&out, zap.NewNop(), 5))
	assert.Equal(t, want, out.String())
}

func TestRunTooSmall(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, zap.NewNop(), 1)
	require.Error(t, err, "second dequeue on a one-slot queue must fail")
	assert.Contains(t, out.String(), "Dequeued item: 1\n")
}

func TestRootCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--capacity", "6"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "3 -> 4 -> 5 -> 6 -> 6 -> ")
	assert.NotContains(t, out.String(), "queue is full")
}
