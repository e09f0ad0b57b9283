package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRejoinCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "rejoin [text...]",
		Short: "Split text and rejoin it with normal spacing",
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
			for _, t := range texts {
				if _, err := fmt.Fprintln(out, m.Rejoin(t)); err != nil {
					return fmt.Errorf("write text: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to rejoin (default: arguments or stdin)")

	return cmd
}
