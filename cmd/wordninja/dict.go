package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/go-wordninja/internal/dictfile"
	"github.com/example/go-wordninja/internal/doctor"
	"github.com/spf13/cobra"
)

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Dictionary listing, inspection and checksum commands",
	}

	cmd.AddCommand(newDictListCmd())
	cmd.AddCommand(newDictInfoCmd())
	cmd.AddCommand(newDictVerifyCmd())
	cmd.AddCommand(newDictManifestCmd())
	cmd.AddCommand(newDictDownloadCmd())
	return cmd
}

func newDictListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in languages and whether their dictionary is present",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, lang := range dictfile.Languages() {
				name, _ := dictfile.FileName(lang)
				status := "present"
				if _, err := os.Stat(filepath.Join(cfg.Dictionary.Dir, name)); err != nil {
					status = "missing"
				}
				if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", lang, name, status); err != nil {
					return fmt.Errorf("write status: %w", err)
				}
			}
			return nil
		},
	}
}

type dictInfo struct {
	Language string   `json:"language"`
	Path     string   `json:"path"`
	Words    int      `json:"words"`
	Top      []string `json:"top"`
	Longest  string   `json:"longest"`
}

func newDictInfoCmd() *cobra.Command {
	var (
		top    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show size and most frequent words of the configured dictionary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			d := cfg.Dictionary
			path, err := dictfile.Resolve(d.Dir, d.Language, d.WordFile)
			if err != nil {
				return err
			}
			words, err := dictfile.Load(path)
			if err != nil {
				return err
			}

			info := dictInfo{Language: d.Language, Path: path, Words: len(words)}
			info.Top = words[:min(max(top, 0), len(words))]
			for _, w := range words {
				if len([]rune(w)) > len([]rune(info.Longest)) {
					info.Longest = w
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			_, _ = fmt.Fprintf(out, "language: %s\n", info.Language)
			_, _ = fmt.Fprintf(out, "path: %s\n", info.Path)
			_, _ = fmt.Fprintf(out, "words: %d\n", info.Words)
			_, _ = fmt.Fprintf(out, "longest: %s\n", info.Longest)
			_, err = fmt.Fprintf(out, "top: %s\n", strings.Join(info.Top, " "))
			return err
		},
	}

	cmd.Flags().IntVar(&top, "top-words", 10, "Number of most frequent words to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func newDictVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify dictionary checksums against manifest.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			checks, verr := dictfile.Verify(cfg.Dictionary.Dir)
			out := cmd.OutOrStdout()
			for _, c := range checks {
				if c.OK() {
					_, _ = fmt.Fprintf(out, "%s %s\n", doctor.PassMark, c.Entry.File)
				} else {
					_, _ = fmt.Fprintf(out, "%s %s: %v\n", doctor.FailMark, c.Entry.File, c.Err)
				}
			}
			if verr != nil {
				return verr
			}
			if len(checks) == 0 {
				return errors.New("manifest lists no files")
			}
			_, err = fmt.Fprintf(out, "verified %d file(s)\n", len(checks))
			return err
		},
	}
}

func newDictManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Write manifest.json with checksums of the dictionaries present",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			m, err := dictfile.Generate(cfg.Dictionary.Dir)
			if err != nil {
				return err
			}
			if err := dictfile.WriteManifest(cfg.Dictionary.Dir, m); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d file(s))\n",
				filepath.Join(cfg.Dictionary.Dir, dictfile.ManifestName), len(m.Files))
			return err
		},
	}
}

func newDictDownloadCmd() *cobra.Command {
	var (
		baseURL   string
		languages []string
		token     string
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download pinned dictionaries from a mirror into the dictionary directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if token == "" {
				token = os.Getenv("WORDNINJA_DICT_TOKEN")
			}

			_, err = dictfile.Fetch(cmd.Context(), dictfile.FetchOptions{
				BaseURL:   baseURL,
				Dir:       cfg.Dictionary.Dir,
				Languages: languages,
				Token:     token,
				Stdout:    cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Mirror URL serving manifest.json and <lang>_dict.txt.gz")
	cmd.Flags().StringSliceVar(&languages, "languages", nil, "Languages to download (default: all in the mirror manifest)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token for the mirror (or WORDNINJA_DICT_TOKEN)")
	_ = cmd.MarkFlagRequired("base-url")

	return cmd
}
