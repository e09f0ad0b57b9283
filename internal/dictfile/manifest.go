package dictfile

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ManifestName is the manifest file name inside a dictionary directory.
const ManifestName = "manifest.json"

type Manifest struct {
	Generated string  `json:"generated,omitempty"`
	Files     []Entry `json:"files"`
}

type Entry struct {
	Language string `json:"language"`
	File     string `json:"file"`
	SHA256   string `json:"sha256"`
}

// Check is the verification outcome for one manifest entry.
type Check struct {
	Entry  Entry
	Actual string
	Err    error
}

// OK reports whether the file exists and matches its checksum.
func (c Check) OK() bool { return c.Err == nil }

// ReadManifest loads the manifest of dir.
func ReadManifest(dir string) (Manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// Generate hashes every built-in dictionary present in dir.
func Generate(dir string) (Manifest, error) {
	m := Manifest{Generated: time.Now().UTC().Format(time.RFC3339)}
	for _, lang := range Languages() {
		name := languageFiles[lang]
		sum, err := fileSHA256(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Manifest{}, err
		}
		m.Files = append(m.Files, Entry{Language: lang, File: name, SHA256: sum})
	}
	if len(m.Files) == 0 {
		return Manifest{}, fmt.Errorf("no dictionaries found in %s", dir)
	}
	return m, nil
}

// WriteManifest writes m into dir.
func WriteManifest(dir string, m Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(filepath.Join(dir, ManifestName), b, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Verify checks every file listed in the manifest of dir. The returned error
// is non-nil when the manifest cannot be read or any file fails.
func Verify(dir string) ([]Check, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	checks := make([]Check, 0, len(m.Files))
	var failures []string
	for _, e := range m.Files {
		c := Check{Entry: e}
		c.Actual, c.Err = fileSHA256(filepath.Join(dir, filepath.FromSlash(e.File)))
		if c.Err == nil && !strings.EqualFold(c.Actual, e.SHA256) {
			c.Err = fmt.Errorf("checksum mismatch: expected %s got %s", e.SHA256, c.Actual)
		}
		if c.Err != nil {
			failures = append(failures, e.File)
		}
		checks = append(checks, c)
	}

	if len(failures) > 0 {
		return checks, fmt.Errorf("verify failed for %d file(s): %s", len(failures), strings.Join(failures, ", "))
	}
	return checks, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file for checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
