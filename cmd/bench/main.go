package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i5heu/GoBoundedQueue/internal/logger"
	"github.com/i5heu/GoBoundedQueue/internal/queue"
	"github.com/i5heu/GoBoundedQueue/internal/report"
	"github.com/i5heu/GoBoundedQueue/internal/testbench"
	"github.com/i5heu/GoBoundedQueue/pkg/boundedqueue"
	"github.com/i5heu/GoBoundedQueue/pkg/buffered"
	"github.com/i5heu/GoBoundedQueue/pkg/config"
	"github.com/i5heu/GoBoundedQueue/pkg/slabqueue"
	"github.com/i5heu/GoBoundedQueue/pkg/syncqueue"
)

// benchQueue is the method set every benchmarked implementation provides.
type benchQueue = testbench.Queue[*int]

// Implementation represents a queue implementation.
type Implementation struct {
	name        string
	description string
	pkgName     string
	features    []string
	newQueue    func(capacity uint64, log *zap.Logger) benchQueue
}

type options struct {
	configPath      string
	iterations      int
	cpuMax          int
	jsonExport      bool
	jsonFile        string
	highConcurrency bool
	markdownTable   bool
	progress        bool
	logLevel        string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "bench",
		Short:        "Measure throughput of the bounded queue implementations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.markdownTable {
				return outputMarkdownTable(out, opts.jsonFile)
			}

			cfg := config.Default()
			if opts.configPath != "" {
				var err error
				if cfg, err = config.Load(opts.configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("iter") {
				cfg.Iterations = opts.iterations
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logger.Level = opts.logLevel
			}
			if opts.highConcurrency {
				cfg.Concurrency = append(cfg.Concurrency, config.HighConcurrency()...)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.New(cfg.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			sessions := runSessions(out, log, cfg, cpuSettings(opts.cpuMax), opts.progress)

			if opts.jsonExport {
				if err := report.Append(opts.jsonFile, sessions...); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nWrote results to %s\n", opts.jsonFile)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML file with benchmark settings")
	f.IntVar(&opts.iterations, "iter", 5, "Number of test iterations per concurrency setting")
	f.IntVar(&opts.cpuMax, "cpu", 0, "If non-zero, test only that GOMAXPROCS value; if 0, test common CPU/vCPU values up to runtime.NumCPU()")
	f.BoolVar(&opts.jsonExport, "json", false, "Append results as JSON to --jsonfile")
	f.StringVar(&opts.jsonFile, "jsonfile", "test-results.json", "Path to JSON results file")
	f.BoolVar(&opts.highConcurrency, "high-concurrency", false, "Include high concurrency configurations")
	f.BoolVar(&opts.markdownTable, "markdown-table", false, "Output markdown table from --jsonfile and exit")
	f.BoolVar(&opts.progress, "progress", false, "Display a progress bar with ETA")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

// cpuSettings returns the GOMAXPROCS values to test.
func cpuSettings(cpuMax int) []int {
	trueCPUCount := runtime.NumCPU()
	if cpuMax > 0 {
		return []int{min(cpuMax, trueCPUCount)}
	}
	commonCPUs := []int{1, 2, 3, 4, 6, 8, 12, 16, 32, 48, 56, 64, 96, 128, 192, 256, 384, 512}
	var settings []int
	for _, v := range commonCPUs {
		if v <= trueCPUCount {
			settings = append(settings, v)
		}
	}
	return settings
}

func runSessions(out io.Writer, log *zap.Logger, cfg config.Config, cpus []int, showProgress bool) []report.FullReport {
	impls := getImplementations()
	totalTests := len(cpus) * len(cfg.Concurrency) * cfg.Iterations * len(impls)

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(totalTests,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Progress"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
	}

	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(0))

	var sessions []report.FullReport
	for _, n := range cpus {
		runtime.GOMAXPROCS(n)
		sysInfo := gatherSystemInfo()
		sysInfo.NumCPU = n
		sysInfo.SimulatedCPUCount = n

		fmt.Fprintf(out, "\n=============================\n")
		fmt.Fprintf(out, "GOMAXPROCS = %d\n", n)
		fmt.Fprintf(out, "=============================\n")

		var results []report.BenchmarkResult
		for _, cc := range cfg.Concurrency {
			fmt.Fprintf(out, "  [Concurrency: producers=%d, consumers=%d]\n", cc.NumProducers, cc.NumConsumers)
			for iteration := 1; iteration <= cfg.Iterations; iteration++ {
				fmt.Fprintf(out, "    iteration %d/%d\n", iteration, cfg.Iterations)
				for _, impl := range impls {
					runtime.GC()
					q := impl.newQueue(cfg.Capacity, log)
					res := testbench.RunTimedTest[*int](q, cc, cfg.Duration, func(i int) *int {
						v := i
						return &v
					})
					throughput := float64(res.Consumed) / res.Elapsed.Seconds()

					fmt.Fprintf(out, "    %s => produced=%d, rejected=%d, consumed=%d, throughput=%.0f msg/s, took=%v\n",
						impl.name, res.Produced, res.Rejected, res.Consumed, throughput, res.Elapsed)
					if res.Produced != res.Consumed {
						log.Warn("queue lost messages",
							zap.String("implementation", impl.name),
							zap.Int64("produced", res.Produced),
							zap.Int64("consumed", res.Consumed),
						)
					}
					if bar != nil {
						_ = bar.Add(1)
					}

					results = append(results, report.BenchmarkResult{
						Implementation:      impl.name,
						NumProducers:        cc.NumProducers,
						NumConsumers:        cc.NumConsumers,
						Capacity:            cfg.Capacity,
						NumMessages:         res.Produced,
						NumRejected:         res.Rejected,
						NumMessagesConsumed: res.Consumed,
						TestDuration:        cfg.Duration.String(),
						ActualElapsed:       res.Elapsed.String(),
						Throughput:          throughput,
						Timestamp:           time.Now().Unix(),
						GoVersion:           runtime.Version(),
					})
				}
			}
		}

		sessions = append(sessions, report.FullReport{
			SessionTime: time.Now().Format(time.RFC3339),
			SystemInfo:  sysInfo,
			Benchmarks:  results,
		})
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return sessions
}

// outputMarkdownTable loads the JSON file and outputs a Markdown table of the last session.
func outputMarkdownTable(out io.Writer, jsonFile string) error {
	sessions, err := report.Load(jsonFile)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return errors.Errorf("no sessions found in %s", jsonFile)
	}
	lastSession := sessions[len(sessions)-1]

	implMetaMap := make(map[string]Implementation)
	for _, impl := range getImplementations() {
		implMetaMap[impl.name] = impl
	}

	type tableRow struct {
		implementation string
		pkgName        string
		features       string
		throughput     float64
		rejected       int64
	}
	var rows []tableRow
	for _, bench := range lastSession.Benchmarks {
		meta := implMetaMap[bench.Implementation]
		rows = append(rows, tableRow{
			implementation: bench.Implementation,
			pkgName:        meta.pkgName,
			features:       strings.Join(meta.features, ", "),
			throughput:     bench.Throughput,
			rejected:       bench.NumRejected,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].throughput > rows[j].throughput
	})

	fmt.Fprintln(out, "## Last Session Benchmark Summary")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| Implementation           | Package         | Features                    | Rejected   | Throughput (msgs/sec) |")
	fmt.Fprintln(out, "|--------------------------|-----------------|-----------------------------|------------|-----------------------|")
	for _, r := range rows {
		fmt.Fprintf(out, "| %-24s | %-15s | %-27s | %10d | %21.0f |\n",
			r.implementation, r.pkgName, r.features, r.rejected, r.throughput)
	}
	return nil
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() report.SystemInfo {
	info := report.SystemInfo{
		NumCPU:  runtime.NumCPU(),
		TrueCPU: runtime.NumCPU(),
		GOARCH:  runtime.GOARCH,
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
		info.CPUSpeedMHz = infos[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}

// getImplementations enumerates the benchmarked queues. The single-threaded
// queues run behind syncqueue since the harness is concurrent.
func getImplementations() []Implementation {
	return []Implementation{
		{
			name:        "LinkedBoundedQueue",
			pkgName:     "boundedqueue",
			description: "Singly-linked chain of nodes with front/rear tracking, guarded by one mutex.",
			features:    []string{"MPMC", "FIFO", "Dump", "Drop-When-Full"},
			newQueue: func(capacity uint64, log *zap.Logger) benchQueue {
				return syncqueue.New(queue.Interface[*int](boundedqueue.New[*int](int(capacity), boundedqueue.WithLogger(quiet(log)))))
			},
		},
		{
			name:        "SlabBoundedQueue",
			pkgName:     "slabqueue",
			description: "Index-linked nodes in a slab with a free list, guarded by one mutex.",
			features:    []string{"MPMC", "FIFO", "Dump", "Drop-When-Full", "Slot-Reuse"},
			newQueue: func(capacity uint64, log *zap.Logger) benchQueue {
				return syncqueue.New(queue.Interface[*int](slabqueue.New[*int](int(capacity), slabqueue.WithLogger(quiet(log)))))
			},
		},
		{
			name:        "Golang Buffered Channel",
			pkgName:     "buffered",
			description: "Non-blocking select on a buffered channel; baseline for the others.",
			features:    []string{"MPMC", "FIFO", "Drop-When-Full"},
			newQueue: func(capacity uint64, _ *zap.Logger) benchQueue {
				return buffered.New[*int](capacity)
			},
		},
	}
}

// quiet drops the per-rejection warnings from benchmark logs.
func quiet(log *zap.Logger) *zap.Logger {
	return log.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))
}
