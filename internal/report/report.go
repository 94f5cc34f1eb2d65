// Package report holds the JSON schema written by cmd/bench and read by
// cmd/buildGraph.
package report

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// BenchmarkResult holds results for one test run.
type BenchmarkResult struct {
	Implementation      string  `json:"implementation"`
	NumProducers        int     `json:"num_producers"`
	NumConsumers        int     `json:"num_consumers"`
	Capacity            uint64  `json:"capacity"`
	NumMessages         int64   `json:"num_messages"`          // accepted count
	NumRejected         int64   `json:"num_rejected"`          // enqueue attempts on a full queue
	NumMessagesConsumed int64   `json:"num_messages_consumed"` // consumed count
	TestDuration        string  `json:"test_duration"`         // e.g. "10s"
	ActualElapsed       string  `json:"actual_elapsed"`        // measured time
	Throughput          float64 `json:"throughput_msgs_sec"`   // based on consumed count
	Timestamp           int64   `json:"timestamp"`
	GoVersion           string  `json:"go_version"`
}

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU            int     `json:"num_cpu"`
	TrueCPU           int     `json:"true_cpu,omitempty"`
	SimulatedCPUCount int     `json:"simulated_cpu_count,omitempty"`
	CPUModel          string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz       float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH            string  `json:"go_arch"`
	TotalMemory       uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents a complete test session.
type FullReport struct {
	SessionTime string            `json:"session_time"`
	SystemInfo  SystemInfo        `json:"system_info"`
	Benchmarks  []BenchmarkResult `json:"benchmarks"`
}

// Load reads all sessions stored in path.
func Load(path string) ([]FullReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return sessions, nil
}

// Append adds sessions to those already stored in path, creating the file
// if it does not exist.
func Append(path string, sessions ...FullReport) error {
	var previous []FullReport
	if _, err := os.Stat(path); err == nil {
		previous, err = Load(path)
		if err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(append(previous, sessions...), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
