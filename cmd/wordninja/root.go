package main

import (
	"errors"
	"log/slog"
	"os"

	wordninja "github.com/example/go-wordninja"
	"github.com/example/go-wordninja/internal/config"
	"github.com/example/go-wordninja/internal/server"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	envFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "wordninja",
		Short:         "Split concatenated words using word frequencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				EnvFile:    envFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Optional dotenv file (default ./.env when present)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newSplitCmd())
	cmd.AddCommand(newCandidatesCmd())
	cmd.AddCommand(newRejoinCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newDictCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Dictionary.Language == "" {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}

// loadModel builds the language model described by cfg.
func loadModel(cfg config.Config) (*wordninja.Model, error) {
	d := cfg.Dictionary
	return wordninja.New(wordninja.Options{
		Language:  d.Language,
		WordFile:  d.WordFile,
		DictDir:   d.Dir,
		AddWords:  d.AddWords,
		Blacklist: d.Blacklist,
		AddToTop:  d.AddToTop,
		Overwrite: d.Overwrite,
		Logger:    slog.Default(),
	})
}
