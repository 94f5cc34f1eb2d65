package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i5heu/GoBoundedQueue/internal/report"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
}

func TestAverageOfRange(t *testing.T) {
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = float64(i)
	}
	assert.Equal(t, 2.0, averageOfRange(vals, 0, 0.05))
	assert.Equal(t, 97.0, averageOfRange(vals, 0.95, 1))
	// Too few samples for a 5% slice falls back to the median.
	assert.Equal(t, 2.0, averageOfRange([]float64{1, 2, 3}, 0, 0.05))
	assert.Zero(t, averageOfRange(nil, 0, 1))
}

func TestFormatNs(t *testing.T) {
	tests := []struct {
		ns   float64
		want string
	}{
		{12, "12ns"},
		{1500, "1.5µs"},
		{2.5e6, "2.5ms"},
		{3e9, "3.00s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNs(tt.ns))
	}
}

func TestGroupByCPU(t *testing.T) {
	sessions := []report.FullReport{
		{
			SystemInfo: report.SystemInfo{NumCPU: 8, SimulatedCPUCount: 2},
			Benchmarks: []report.BenchmarkResult{
				{Implementation: "a", NumProducers: 1, NumConsumers: 1, ActualElapsed: "1s", NumMessagesConsumed: 1000},
				{Implementation: "a", NumProducers: 1, NumConsumers: 1, ActualElapsed: "2s", NumMessagesConsumed: 1000},
				{Implementation: "b", NumProducers: 2, NumConsumers: 2, ActualElapsed: "bogus", NumMessagesConsumed: 1},
				{Implementation: "c", NumProducers: 2, NumConsumers: 2, ActualElapsed: "1s", NumMessagesConsumed: 0},
			},
		},
		{
			SystemInfo: report.SystemInfo{NumCPU: 4},
			Benchmarks: []report.BenchmarkResult{
				{Implementation: "a", NumProducers: 2, NumConsumers: 3, ActualElapsed: "1ms", NumMessagesConsumed: 10},
			},
		},
	}

	got := groupByCPU(sessions)
	require.Len(t, got, 2)
	assert.Equal(t, []float64{1e6, 2e6}, got[2]["a"][2])
	assert.NotContains(t, got[2], "b")
	assert.NotContains(t, got[2], "c")
	assert.Equal(t, []float64{1e5}, got[4]["a"][5])
}

func TestRootCmd(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "results.json")
	require.NoError(t, report.Append(jsonPath, report.FullReport{
		SystemInfo: report.SystemInfo{NumCPU: 1},
		Benchmarks: []report.BenchmarkResult{
			{Implementation: "LinkedBoundedQueue", NumProducers: 2, NumConsumers: 2, ActualElapsed: "1s", NumMessagesConsumed: 1e6},
			{Implementation: "SlabBoundedQueue", NumProducers: 2, NumConsumers: 2, ActualElapsed: "1s", NumMessagesConsumed: 2e6},
		},
	}))

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	prefix := filepath.Join(dir, "graph")
	cmd.SetArgs([]string{"--jsonfile", jsonPath, "--out", prefix})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(prefix + "_1.png")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Graph for 1 CPU(s)")
}
