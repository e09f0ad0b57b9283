// Package bench provides benchmarking primitives for the wordninja bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and size of a single segmentation run.
type RunResult struct {
	Index      int
	Cold       bool // true for the first run (cold caches)
	Duration   time.Duration
	Runes      int
	Words      int
	Throughput float64 // runes per second
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// Durations extracts the run durations.
func Durations(runs []RunResult) []time.Duration {
	out := make([]time.Duration, len(runs))
	for i, r := range runs {
		out[i] = r.Duration
	}
	return out
}

// ---------------------------------------------------------------------------
// Running
// ---------------------------------------------------------------------------

// Run calls segment n times on input and records each call. segment returns
// the number of words it produced.
func Run(input string, n int, segment func(string) int) []RunResult {
	runes := utf8.RuneCountInString(input)
	runs := make([]RunResult, 0, n)
	for i := range n {
		start := time.Now()
		words := segment(input)
		d := time.Since(start)
		runs = append(runs, RunResult{
			Index:      i,
			Cold:       i == 0,
			Duration:   d,
			Runes:      runes,
			Words:      words,
			Throughput: CalcThroughput(runes, d),
		})
	}
	return runs
}

// CalcThroughput returns runes processed per second.
// Returns 0 if d is zero to avoid division by zero.
func CalcThroughput(runes int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(runes) / d.Seconds()
}

// MeanThroughput averages the throughput of the warm runs, falling back to
// all runs when there is only a cold one.
func MeanThroughput(runs []RunResult) float64 {
	var sum float64
	var n int
	for _, r := range runs {
		if r.Cold && len(runs) > 1 {
			continue
		}
		sum += r.Throughput
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ---------------------------------------------------------------------------
// Throughput threshold gate
// ---------------------------------------------------------------------------

// CheckThroughputThreshold returns an error if mean < minimum.
// A minimum of 0 disables the gate.
func CheckThroughputThreshold(mean, minimum float64) error {
	if minimum <= 0 {
		return nil
	}
	if mean < minimum {
		return fmt.Errorf("mean throughput %.0f runes/s below threshold %.0f", mean, minimum)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %8s  %8s  %12s\n", "Run", "Cold", "MS", "Runes", "Words", "Runes/s")
	fmt.Fprintln(sb, strings.Repeat("-", 56))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.3f  %8d  %8d  %12.0f\n",
			r.Index+1,
			cold,
			ms(r.Duration),
			r.Runes,
			r.Words,
			r.Throughput,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 56))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (min)\n", "", "", ms(stats.Min))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (mean)\n", "", "", ms(stats.Mean))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (max)\n", "", "", ms(stats.Max))

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index      int     `json:"index"`
	Cold       bool    `json:"cold"`
	DurationMS float64 `json:"duration_ms"`
	Runes      int     `json:"runes"`
	Words      int     `json:"words"`
	Throughput float64 `json:"runes_per_sec"`
}

type jsonStats struct {
	MinMS          float64 `json:"min_ms"`
	MeanMS         float64 `json:"mean_ms"`
	MaxMS          float64 `json:"max_ms"`
	MeanThroughput float64 `json:"mean_runes_per_sec"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:          ms(stats.Min),
			MeanMS:         ms(stats.Mean),
			MaxMS:          ms(stats.Max),
			MeanThroughput: MeanThroughput(runs),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:      r.Index,
			Cold:       r.Cold,
			DurationMS: ms(r.Duration),
			Runes:      r.Runes,
			Words:      r.Words,
			Throughput: r.Throughput,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
