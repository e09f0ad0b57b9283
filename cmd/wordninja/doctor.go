package main

import (
	"errors"
	"fmt"

	"github.com/example/go-wordninja/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var (
		minWords     int
		skipManifest bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local dictionary and configuration checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "language: %s\n", cfg.Dictionary.Language)

			var files []string
			for _, f := range []string{cfgFile, envFile} {
				if f != "" {
					files = append(files, f)
				}
			}

			result := doctor.Run(doctor.Config{
				DictDir:      cfg.Dictionary.Dir,
				Language:     cfg.Dictionary.Language,
				WordFile:     cfg.Dictionary.WordFile,
				MinWords:     minWords,
				SkipManifest: skipManifest,
				Files:        files,
			}, out)

			// Build the model as a final check so dictionary edits are covered.
			if !result.Failed() {
				if m, err := loadModel(cfg); err != nil {
					result.AddFailure(fmt.Sprintf("language model: %v", err))
					_, _ = fmt.Fprintf(out, "%s language model: %v\n", doctor.FailMark, err)
				} else {
					_, _ = fmt.Fprintf(out, "%s language model: %d words\n", doctor.PassMark, m.Len())
				}
			}

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().IntVar(&minWords, "min-words", 0, "Fail when the dictionary has fewer words (0 disables)")
	cmd.Flags().BoolVar(&skipManifest, "skip-manifest", false, "Skip dictionary checksum verification")

	return cmd
}
