package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. WORDNINJA_LOG_LEVEL.
const EnvPrefix = "WORDNINJA"

type Config struct {
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Server     ServerConfig     `mapstructure:"server"`
	Candidates CandidatesConfig `mapstructure:"candidates"`
	LogLevel   string           `mapstructure:"log_level"`
}

type DictionaryConfig struct {
	Dir       string   `mapstructure:"dir"`
	Language  string   `mapstructure:"language"`
	WordFile  string   `mapstructure:"word_file"`
	AddWords  []string `mapstructure:"add_words"`
	Blacklist []string `mapstructure:"blacklist"`
	AddToTop  bool     `mapstructure:"add_to_top"`
	Overwrite bool     `mapstructure:"overwrite"`
}

type ServerConfig struct {
	ListenAddr      string  `mapstructure:"listen_addr"`
	Workers         int     `mapstructure:"workers"`
	MaxTextBytes    int     `mapstructure:"max_text_bytes"`
	RequestTimeout  int     `mapstructure:"request_timeout"`  // seconds
	ShutdownTimeout int     `mapstructure:"shutdown_timeout"` // seconds
	CacheSize       int     `mapstructure:"cache_size"`
	RateLimit       float64 `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst       int     `mapstructure:"rate_burst"`
}

type CandidatesConfig struct {
	DefaultK int `mapstructure:"default_k"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	// EnvFile is a dotenv file loaded before environment variables are
	// read. When empty, ./.env is loaded if present.
	EnvFile  string
	Defaults Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Dictionary: DictionaryConfig{
			Dir:      "dictionaries",
			Language: "en",
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         4,
			MaxTextBytes:    64 << 10,
			RequestTimeout:  10,
			ShutdownTimeout: 30,
			CacheSize:       1024,
			RateLimit:       0,
			RateBurst:       20,
		},
		Candidates: CandidatesConfig{
			DefaultK: 10,
		},
		LogLevel: "info",
	}
}

// flagKeys maps config keys to their command-line flags.
var flagKeys = map[string]string{
	"dictionary.dir":          "dict-dir",
	"dictionary.language":     "language",
	"dictionary.word_file":    "word-file",
	"dictionary.add_words":    "add-words",
	"dictionary.blacklist":    "blacklist",
	"dictionary.add_to_top":   "add-to-top",
	"dictionary.overwrite":    "overwrite",
	"server.listen_addr":      "listen-addr",
	"server.workers":          "workers",
	"server.max_text_bytes":   "max-text-bytes",
	"server.request_timeout":  "request-timeout",
	"server.shutdown_timeout": "shutdown-timeout",
	"server.cache_size":       "cache-size",
	"server.rate_limit":       "rate-limit",
	"server.rate_burst":       "rate-burst",
	"candidates.default_k":    "top",
	"log_level":               "log-level",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("dict-dir", defaults.Dictionary.Dir, "Directory containing <lang>_dict.txt.gz files")
	fs.StringP("language", "l", defaults.Dictionary.Language, "Dictionary language (en|de|fr|es|it|pt|custom)")
	fs.String("word-file", defaults.Dictionary.WordFile, "Custom word list, most frequent first (plain or gzip)")
	fs.StringSlice("add-words", defaults.Dictionary.AddWords, "Words to add to the dictionary")
	fs.StringSlice("blacklist", defaults.Dictionary.Blacklist, "Words to remove from the dictionary")
	fs.Bool("add-to-top", defaults.Dictionary.AddToTop, "Rank added words first instead of last")
	fs.Bool("overwrite", defaults.Dictionary.Overwrite, "Move added words that already exist")
	fs.String("listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("workers", defaults.Server.Workers, "Maximum concurrent segmentation requests")
	fs.Int("max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request text size in bytes")
	fs.Int("request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int("cache-size", defaults.Server.CacheSize, "Result cache entries (0 disables)")
	fs.Float64("rate-limit", defaults.Server.RateLimit, "Requests per second (0 disables)")
	fs.Int("rate-burst", defaults.Server.RateBurst, "Rate limiter burst size")
	fs.IntP("top", "k", defaults.Candidates.DefaultK, "Number of candidates to return")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("dictionary.dir", EnvPrefix+"_DICT_DIR", EnvPrefix+"_DICTIONARY_DIR"); err != nil {
		return Config{}, fmt.Errorf("bind dictionary env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("wordninja")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// Validate reports settings no command can run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Dictionary.Language) == "" {
		errs = append(errs, errors.New("dictionary.language must not be empty"))
	}
	if c.Server.Workers < 1 {
		errs = append(errs, fmt.Errorf("server.workers must be >= 1, got %d", c.Server.Workers))
	}
	if c.Server.MaxTextBytes < 1 {
		errs = append(errs, fmt.Errorf("server.max_text_bytes must be >= 1, got %d", c.Server.MaxTextBytes))
	}
	if c.Server.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("server.cache_size must be >= 0, got %d", c.Server.CacheSize))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must be >= 0, got %g", c.Server.RateLimit))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("server.rate_burst must be >= 1 when rate limiting, got %d", c.Server.RateBurst))
	}
	if c.Server.RequestTimeout < 1 {
		errs = append(errs, fmt.Errorf("server.request_timeout must be >= 1, got %d", c.Server.RequestTimeout))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must be >= 0, got %d", c.Server.ShutdownTimeout))
	}
	if c.Candidates.DefaultK < 1 {
		errs = append(errs, fmt.Errorf("candidates.default_k must be >= 1, got %d", c.Candidates.DefaultK))
	}
	return errors.Join(errs...)
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("dictionary.dir", c.Dictionary.Dir)
	v.SetDefault("dictionary.language", c.Dictionary.Language)
	v.SetDefault("dictionary.word_file", c.Dictionary.WordFile)
	v.SetDefault("dictionary.add_words", c.Dictionary.AddWords)
	v.SetDefault("dictionary.blacklist", c.Dictionary.Blacklist)
	v.SetDefault("dictionary.add_to_top", c.Dictionary.AddToTop)
	v.SetDefault("dictionary.overwrite", c.Dictionary.Overwrite)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.cache_size", c.Server.CacheSize)
	v.SetDefault("server.rate_limit", c.Server.RateLimit)
	v.SetDefault("server.rate_burst", c.Server.RateBurst)
	v.SetDefault("candidates.default_k", c.Candidates.DefaultK)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds every registered flag to its config key. Flags that a
// command does not register are skipped.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}
