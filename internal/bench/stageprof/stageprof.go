// Package stageprof times the stages of a whole-text split and tags them
// with pprof labels so CPU profiles can be broken down per stage.
package stageprof

import (
	"context"
	"fmt"
	"io"
	"runtime/pprof"
	"time"

	"github.com/example/go-wordninja/internal/text"
)

// Timings accumulates per-stage durations over one or more runs.
type Timings struct {
	Normalize time.Duration
	Tokenize  time.Duration
	Segment   time.Duration
	Total     time.Duration
	Runs      int // tokenizer runs in the input
	Words     int
}

// Add folds o into t. Runs and Words are per-input and are overwritten.
func (t *Timings) Add(o Timings) {
	t.Normalize += o.Normalize
	t.Tokenize += o.Tokenize
	t.Segment += o.Segment
	t.Total += o.Total
	t.Runs = o.Runs
	t.Words = o.Words
}

// Once runs the three stages on input. split segments one splittable run.
func Once(ctx context.Context, input string, split func(string) []string) Timings {
	var out Timings
	startTotal := time.Now()

	var normalized string
	pprof.Do(ctx, pprof.Labels("stage", "normalize"), func(context.Context) {
		start := time.Now()
		normalized = text.Normalize(input)
		out.Normalize = time.Since(start)
	})

	var runs []text.Run
	pprof.Do(ctx, pprof.Labels("stage", "tokenize"), func(context.Context) {
		start := time.Now()
		runs = text.Tokenize(normalized)
		out.Tokenize = time.Since(start)
	})

	pprof.Do(ctx, pprof.Labels("stage", "segment"), func(context.Context) {
		start := time.Now()
		for _, r := range runs {
			if r.Splittable() {
				out.Words += len(split(r.Text))
			}
		}
		out.Segment = time.Since(start)
	})

	out.Total = time.Since(startTotal)
	out.Runs = len(runs)
	return out
}

// Profile runs warmup unrecorded passes followed by n recorded ones.
func Profile(ctx context.Context, input string, warmup, n int, split func(string) []string) (Timings, error) {
	if n < 1 {
		return Timings{}, fmt.Errorf("runs must be >= 1, got %d", n)
	}
	for range warmup {
		Once(ctx, input, split)
	}
	var agg Timings
	for range n {
		agg.Add(Once(ctx, input, split))
	}
	return agg, nil
}

// Report prints per-stage averages and shares of the total.
func Report(w io.Writer, agg Timings, n int) {
	if n < 1 {
		n = 1
	}
	div := float64(n)
	avg := func(d time.Duration) float64 { return d.Seconds() * 1000 / div }

	avgTotal := avg(agg.Total)
	fmt.Fprintf(w, "runs: %d\n", n)
	fmt.Fprintf(w, "tokenizer_runs: %d\n", agg.Runs)
	fmt.Fprintf(w, "words: %d\n", agg.Words)
	fmt.Fprintf(w, "avg_normalize_ms: %.3f\n", avg(agg.Normalize))
	fmt.Fprintf(w, "avg_tokenize_ms: %.3f\n", avg(agg.Tokenize))
	fmt.Fprintf(w, "avg_segment_ms: %.3f\n", avg(agg.Segment))
	fmt.Fprintf(w, "avg_total_ms: %.3f\n", avgTotal)

	if avgTotal > 0 {
		fmt.Fprintf(w, "share_normalize_pct: %.2f\n", 100*avg(agg.Normalize)/avgTotal)
		fmt.Fprintf(w, "share_tokenize_pct: %.2f\n", 100*avg(agg.Tokenize)/avgTotal)
		fmt.Fprintf(w, "share_segment_pct: %.2f\n", 100*avg(agg.Segment)/avgTotal)
	}
}
