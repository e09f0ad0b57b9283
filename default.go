package wordninja

import (
	"os"
	"sync"
)

// EnvDictDir names the environment variable holding the directory of the
// default model's dictionary.
const EnvDictDir = "WORDNINJA_DICT_DIR"

// DefaultDictDir is used when EnvDictDir is unset.
const DefaultDictDir = "dictionaries"

var defaultModel struct {
	mu    sync.Mutex
	model *Model
	err   error
}

// Default returns the shared English model, loading it on first use. A load
// failure is remembered and returned on every call until SetDefault.
func Default() (*Model, error) {
	defaultModel.mu.Lock()
	defer defaultModel.mu.Unlock()

	if defaultModel.model == nil && defaultModel.err == nil {
		dir := os.Getenv(EnvDictDir)
		if dir == "" {
			dir = DefaultDictDir
		}
		defaultModel.model, defaultModel.err = New(Options{Language: DefaultLanguage, DictDir: dir})
	}
	return defaultModel.model, defaultModel.err
}

// SetDefault replaces the model used by the package-level functions. Passing
// nil makes the next call reload it.
func SetDefault(m *Model) {
	defaultModel.mu.Lock()
	defer defaultModel.mu.Unlock()

	defaultModel.model = m
	defaultModel.err = nil
}

// Split splits text with the default model.
func Split(text string) ([]string, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.Split(text), nil
}

// Candidates ranks splits of text with the default model.
func Candidates(text string, k int) ([]Candidate, error) {
	m, err := Default()
	if err != nil {
		return nil, err
	}
	return m.Candidates(text, k), nil
}

// Rejoin respaces text with the default model.
func Rejoin(text string) (string, error) {
	m, err := Default()
	if err != nil {
		return "", err
	}
	return m.Rejoin(text), nil
}
