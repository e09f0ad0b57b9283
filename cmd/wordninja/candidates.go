package main

import (
	"encoding/json"
	"fmt"

	wordninja "github.com/example/go-wordninja"
	"github.com/spf13/cobra"
)

func newCandidatesCmd() *cobra.Command {
	var (
		text   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "candidates [text...]",
		Short: "List the k cheapest splits of text",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			texts, err := inputs(cmd, text, args)
			if err != nil {
				return err
			}
			m, err := loadModel(cfg)
			if err != nil {
				return err
			}

			k := cfg.Candidates.DefaultK
			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for _, t := range texts {
				cands := m.Candidates(t, k)
				if cands == nil {
					cands = []wordninja.Candidate{}
				}
				if asJSON {
					if err := enc.Encode(cands); err != nil {
						return fmt.Errorf("encode candidates: %w", err)
					}
					continue
				}
				for i, c := range cands {
					if _, err := fmt.Fprintf(out, "%d\t%.4f\t%s\n", i+1, c.Cost, joinWords(c.Words)); err != nil {
						return fmt.Errorf("write candidates: %w", err)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to split (default: arguments or stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each result as a JSON array")

	return cmd
}
