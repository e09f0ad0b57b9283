package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/example/go-wordninja/internal/bench"
	"github.com/example/go-wordninja/internal/bench/stageprof"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		text          string
		runs          int
		warmup        int
		format        string
		minThroughput float64
		stages        bool
		cpuprofile    string
	)

	cmd := &cobra.Command{
		Use:   "bench [text...]",
		Short: "Benchmark segmentation latency and throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			texts, err := inputs(cmd, text, args)
			if err != nil {
				return err
			}
			input := strings.Join(texts, "\n")
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("bench needs text via --text, arguments or stdin")
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			m, err := loadModel(cfg)
			if err != nil {
				return err
			}

			for range warmup {
				m.Split(input)
			}

			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("create cpuprofile: %w", err)
				}
				defer f.Close()

				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("start cpuprofile: %w", err)
				}
				defer pprof.StopCPUProfile()
			}

			out := cmd.OutOrStdout()

			if stages {
				split := func(token string) []string {
					words, _ := m.SplitToken(token)
					return words
				}
				agg, err := stageprof.Profile(cmd.Context(), input, 0, runs, split)
				if err != nil {
					return err
				}
				stageprof.Report(out, agg, runs)
				return nil
			}

			results := bench.Run(input, runs, func(s string) int { return len(m.Split(s)) })
			stats := bench.ComputeStats(bench.Durations(results))

			switch format {
			case "json":
				bench.FormatJSON(results, stats, out)
			default:
				bench.FormatTable(results, stats, out)
			}

			return bench.CheckThroughputThreshold(bench.MeanThroughput(results), minThroughput)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to segment (default: arguments or stdin)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of measured runs")
	cmd.Flags().IntVar(&warmup, "warmup", 1, "Number of unmeasured warmup runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	cmd.Flags().Float64Var(&minThroughput, "min-throughput", 0, "Fail if mean runes/s is below this value (0 disables)")
	cmd.Flags().BoolVar(&stages, "stages", false, "Report per-stage timings instead of whole-text runs")
	cmd.Flags().StringVar(&cpuprofile, "cpuprofile", "", "Write a CPU profile to this file")

	return cmd
}
