// Package doctor provides environment preflight checks for wordninja.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/example/go-wordninja/internal/dictfile"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// LoadFunc reads a word list and returns its words.
type LoadFunc func(path string) ([]string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// DictDir is the directory holding the built-in dictionaries.
	DictDir string
	// Language selects the built-in dictionary.
	Language string
	// WordFile overrides the built-in dictionary when set.
	WordFile string
	// MinWords fails the dictionary check below this many words. 0 disables it.
	MinWords int
	// SkipManifest skips checksum verification.
	SkipManifest bool
	// Files is the list of extra paths (config file, word lists) to verify on disk.
	Files []string
	// Load reads the dictionary; nil uses dictfile.Load.
	Load LoadFunc
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	load := cfg.Load
	if load == nil {
		load = dictfile.Load
	}

	// ---- dictionary directory --------------------------------------------
	dirOK := false
	switch {
	case cfg.WordFile != "":
		fmt.Fprintf(w, "%s dictionary directory: skipped (word file set)\n", PassMark)
	default:
		if err := checkDir(cfg.DictDir); err != nil {
			res.fail(fmt.Sprintf("dictionary directory: %v", err))
			fmt.Fprintf(w, "%s dictionary directory %s: %v\n", FailMark, cfg.DictDir, err)
		} else {
			dirOK = true
			fmt.Fprintf(w, "%s dictionary directory: %s\n", PassMark, cfg.DictDir)
		}
	}

	// ---- dictionary --------------------------------------------------------
	path, err := dictfile.Resolve(cfg.DictDir, cfg.Language, cfg.WordFile)
	if err != nil {
		res.fail(fmt.Sprintf("dictionary: %v", err))
		fmt.Fprintf(w, "%s dictionary: %v\n", FailMark, err)
	} else if words, err := load(path); err != nil {
		res.fail(fmt.Sprintf("dictionary %q: %v", path, err))
		fmt.Fprintf(w, "%s dictionary %s: %v\n", FailMark, path, err)
	} else if cfg.MinWords > 0 && len(words) < cfg.MinWords {
		res.fail(fmt.Sprintf("dictionary %q: %d words, want at least %d", path, len(words), cfg.MinWords))
		fmt.Fprintf(w, "%s dictionary %s: only %d words\n", FailMark, path, len(words))
	} else {
		fmt.Fprintf(w, "%s dictionary: %s (%d words)\n", PassMark, path, len(words))
	}

	// ---- manifest ----------------------------------------------------------
	switch {
	case cfg.SkipManifest || !dirOK:
		fmt.Fprintf(w, "%s manifest: skipped\n", PassMark)
	default:
		checkManifest(cfg.DictDir, w, &res)
	}

	// ---- extra files -------------------------------------------------------
	for _, path := range cfg.Files {
		if _, err := os.Stat(path); err != nil {
			res.fail(fmt.Sprintf("file %q: %v", path, err))
			fmt.Fprintf(w, "%s file %s: not found\n", FailMark, path)
		} else {
			fmt.Fprintf(w, "%s file: %s\n", PassMark, path)
		}
	}

	return res
}

func checkDir(dir string) error {
	if dir == "" {
		return errors.New("not configured")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("not a directory")
	}
	return nil
}

func checkManifest(dir string, w io.Writer, res *Result) {
	checks, err := dictfile.Verify(dir)
	if errors.Is(err, os.ErrNotExist) && checks == nil {
		fmt.Fprintf(w, "%s manifest: skipped (no %s)\n", PassMark, dictfile.ManifestName)
		return
	}
	if checks == nil && err != nil {
		res.fail(fmt.Sprintf("manifest: %v", err))
		fmt.Fprintf(w, "%s manifest: %v\n", FailMark, err)
		return
	}
	for _, c := range checks {
		if c.OK() {
			fmt.Fprintf(w, "%s checksum: %s\n", PassMark, c.Entry.File)
			continue
		}
		res.fail(fmt.Sprintf("checksum %s: %v", c.Entry.File, c.Err))
		fmt.Fprintf(w, "%s checksum %s: %v\n", FailMark, c.Entry.File, c.Err)
	}
}
