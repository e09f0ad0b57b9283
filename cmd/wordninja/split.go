package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSplitCmd() *cobra.Command {
	var (
		text   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "split [text...]",
		Short: "Split text into words",
		Long:  "Split text into words. Reads one text per line from stdin when no text is given.",
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

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			for _, t := range texts {
				words := m.Split(t)
				if asJSON {
					if err := enc.Encode(words); err != nil {
						return fmt.Errorf("encode words: %w", err)
					}
					continue
				}
				if _, err := fmt.Fprintln(out, joinWords(words)); err != nil {
					return fmt.Errorf("write words: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to split (default: arguments or stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each split as a JSON array")

	return cmd
}
