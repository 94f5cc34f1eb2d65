package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/i5heu/GoBoundedQueue/internal/report"
)

// concurrencyStats holds "5%-avg-min", median, and "5%-avg-max" for each concurrency level.
type concurrencyStats struct {
	concurrency float64 // replaced with category index
	orig        float64 // original concurrency value
	min         float64 // "average of bottom 5%"
	median      float64
	max         float64 // "average of top 5%"
}

// statsPoints implements XYer and YErrorer for concurrencyStats, so we can plot lines + error bars.
type statsPoints []concurrencyStats

func (s statsPoints) Len() int                { return len(s) }
func (s statsPoints) XY(i int) (x, y float64) { return s[i].concurrency, s[i].median }
func (s statsPoints) YError(i int) (low, high float64) {
	low = s[i].median - s[i].min
	high = s[i].max - s[i].median
	return low, high
}

// categoryTicks implements a categorical X-axis: 0,1,2,... => labels for concurrency.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

// customDenseLogTicks labels log ticks in ns, µs, ms or s.
type customDenseLogTicks struct{}

func (customDenseLogTicks) Ticks(min, max float64) []plot.Tick {
	lt := plot.LogTicks{}
	ticks := lt.Ticks(min, max)
	// Format each major/minor tick label as e.g. "10ns", "100ns", etc.
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = formatNs(ticks[i].Value)
		}
	}
	return ticks
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var jsonFile, outputPrefix string
	cmd := &cobra.Command{
		Use:          "buildGraph",
		Short:        "Render benchmark sessions as PNG graphs, one per CPU count",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := report.Load(jsonFile)
			if err != nil {
				return err
			}
			for cpus, implMap := range groupByCPU(sessions) {
				filename := fmt.Sprintf("%s_%d.png", outputPrefix, cpus)
				if err := plotCPU(cpus, implMap, filename); err != nil {
					return errors.Wrapf(err, "plot %d CPU(s)", cpus)
				}
				fmt.Fprintf(out, "Graph for %d CPU(s) saved to %s\n", cpus, filename)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&jsonFile, "jsonfile", "test-results.json", "Path to JSON file containing test sessions")
	cmd.Flags().StringVar(&outputPrefix, "out", "benchmark_graph", "Output graph image filename prefix")
	return cmd
}

// groupByCPU groups ns/msg samples by CPU count, implementation and
// producers+consumers.
func groupByCPU(sessions []report.FullReport) map[int]map[string]map[float64][]float64 {
	pointsByCPU := make(map[int]map[string]map[float64][]float64)
	for _, session := range sessions {
		cpus := session.SystemInfo.SimulatedCPUCount
		if cpus == 0 {
			cpus = session.SystemInfo.NumCPU
		}
		if _, ok := pointsByCPU[cpus]; !ok {
			pointsByCPU[cpus] = make(map[string]map[float64][]float64)
		}

		for _, b := range session.Benchmarks {
			x := float64(b.NumProducers + b.NumConsumers)
			dur, err := time.ParseDuration(b.ActualElapsed)
			if err != nil || b.NumMessagesConsumed == 0 {
				continue
			}
			nsPerMsg := float64(dur.Nanoseconds()) / float64(b.NumMessagesConsumed)

			implMap := pointsByCPU[cpus]
			if _, ok := implMap[b.Implementation]; !ok {
				implMap[b.Implementation] = make(map[float64][]float64)
			}
			implMap[b.Implementation][x] = append(implMap[b.Implementation][x], nsPerMsg)
		}
	}
	return pointsByCPU
}

func plotCPU(cpus int, implMap map[string]map[float64][]float64, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Bounded queues (5%%-avg-min / Median / 5%%-avg-max) vs. Concurrency for %d CPU(s)", cpus)
	p.X.Label.Text = "NumProducers + NumConsumers"
	p.Y.Label.Text = "Time per Msg (ns) [log scale]"
	p.Y.Scale = plot.LogScale{}

	// Dark theme.
	p.BackgroundColor = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p.Title.TextStyle.Color = white
	p.X.Label.TextStyle.Color = white
	p.Y.Label.TextStyle.Color = white
	p.X.Color = white
	p.Y.Color = white
	p.X.Tick.Label.Color = white
	p.Y.Tick.Label.Color = white
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Color = white
	p.Y.Tick.Marker = customDenseLogTicks{}

	p.Add(plotter.NewGrid())

	// Map concurrency => category index.
	concurrencySet := make(map[float64]struct{})
	for _, implData := range implMap {
		for conc := range implData {
			concurrencySet[conc] = struct{}{}
		}
	}
	concValues := make([]float64, 0, len(concurrencySet))
	for val := range concurrencySet {
		concValues = append(concValues, val)
	}
	sort.Float64s(concValues)

	concMapping := make(map[float64]float64)
	var positions []float64
	var labels []string
	for i, val := range concValues {
		concMapping[val] = float64(i)
		positions = append(positions, float64(i))
		labels = append(labels, strconv.FormatFloat(val, 'f', -1, 64))
	}
	p.X.Tick.Marker = categoryTicks{positions: positions, labels: labels}

	implNames := make([]string, 0, len(implMap))
	for implName := range implMap {
		implNames = append(implNames, implName)
	}
	sort.Strings(implNames)

	colors := plotutil.SoftColors
	shapes := []draw.GlyphDrawer{
		draw.CircleGlyph{},
		draw.SquareGlyph{},
		draw.TriangleGlyph{},
		draw.CrossGlyph{},
		draw.PlusGlyph{},
	}

	// Slight offset so each implementation is visually separated.
	offsetRange := 0.4
	offsetStep := offsetRange / float64(max(len(implNames), 1))
	startOffset := -offsetRange/2 + offsetStep/2

	for i, impl := range implNames {
		stats := buildStats(implMap[impl])
		if len(stats) == 0 {
			continue
		}
		for j := range stats {
			stats[j].concurrency = concMapping[stats[j].orig] + startOffset + float64(i)*offsetStep
		}
		sort.Slice(stats, func(a, b int) bool {
			return stats[a].concurrency < stats[b].concurrency
		})
		sp := statsPoints(stats)

		line, err := plotter.NewLine(sp)
		if err != nil {
			return errors.Wrap(err, "line")
		}
		line.Color = colors[i%len(colors)]

		points, err := plotter.NewScatter(sp)
		if err != nil {
			return errors.Wrap(err, "scatter")
		}
		points.GlyphStyle.Radius = vg.Points(5)
		points.Color = colors[i%len(colors)]
		points.Shape = shapes[i%len(shapes)]

		yErrBars, err := plotter.NewYErrorBars(sp)
		if err != nil {
			return errors.Wrap(err, "error bars")
		}
		yErrBars.Color = colors[i%len(colors)]

		p.Add(line, points, yErrBars)
		p.Legend.Add(impl, line, points)
	}

	return p.Save(12*vg.Inch, 9*vg.Inch, filename)
}

// buildStats computes "average of bottom 5%", median, and "average of top 5%".
func buildStats(concurrencyMap map[float64][]float64) []concurrencyStats {
	var out []concurrencyStats
	for x, vals := range concurrencyMap {
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		min5 := averageOfRange(vals, 0.0, 0.05)
		max5 := averageOfRange(vals, 0.95, 1.0)
		med := median(vals)

		out = append(out, concurrencyStats{
			concurrency: x,
			orig:        x,
			min:         min5,
			median:      med,
			max:         max5,
		})
	}
	return out
}

// averageOfRange returns the average of sortedVals in [startFrac, endFrac] of its length.
// E.g. averageOfRange(vals, 0, 0.05) is the average of the bottom 5%.
func averageOfRange(sortedVals []float64, startFrac, endFrac float64) float64 {
	n := len(sortedVals)
	if n == 0 {
		return 0
	}
	startIndex := int(float64(n) * startFrac)
	endIndex := int(float64(n) * endFrac)
	if startIndex < 0 {
		startIndex = 0
	}
	if endIndex > n {
		endIndex = n
	}
	if startIndex >= endIndex {
		// fallback to median if 5% slice is too small
		return median(sortedVals)
	}
	sum := 0.0
	for i := startIndex; i < endIndex; i++ {
		sum += sortedVals[i]
	}
	return sum / float64(endIndex-startIndex)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// formatNs nicely formats a nanoseconds value in ns, µs, ms, or s.
func formatNs(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.1fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}
