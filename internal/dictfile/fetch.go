package dictfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// ErrAccessDenied is returned when the mirror rejects the request.
var ErrAccessDenied = errors.New("access denied")

var shaHexPattern = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

type FetchOptions struct {
	// BaseURL serves manifest.json and the files it lists.
	BaseURL string
	Dir     string
	// Languages restricts the download; empty fetches every manifest entry.
	Languages []string
	Token     string
	Client    *http.Client
	Stdout    io.Writer
}

// Fetch downloads the dictionaries listed in the mirror's manifest into
// opts.Dir, verifies their pinned checksums and rewrites the local manifest.
// Files whose local checksum already matches are skipped.
func Fetch(ctx context.Context, opts FetchOptions) (Manifest, error) {
	if opts.BaseURL == "" {
		return Manifest{}, errors.New("base url is required")
	}
	if opts.Dir == "" {
		return Manifest{}, errors.New("dictionary dir is required")
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 0}
	}
	base := strings.TrimRight(opts.BaseURL, "/")

	remote, err := fetchManifest(ctx, opts.Client, base, opts.Token)
	if err != nil {
		return Manifest{}, err
	}
	entries, err := selectEntries(remote, opts.Languages)
	if err != nil {
		return Manifest{}, err
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create dictionary dir: %w", err)
	}

	for _, e := range entries {
		expected := strings.ToLower(e.SHA256)
		localPath := filepath.Join(opts.Dir, e.File)

		if ok, err := existingMatches(localPath, expected); err != nil {
			return Manifest{}, err
		} else if ok {
			fmt.Fprintf(opts.Stdout, "skip %s (checksum match)\n", e.File)
			continue
		}

		fmt.Fprintf(opts.Stdout, "download %s -> %s\n", e.File, localPath)
		if err := download(ctx, opts.Client, base+"/"+e.File, opts.Token, localPath, expected); err != nil {
			return Manifest{}, err
		}
		fmt.Fprintf(opts.Stdout, "verified %s (sha256=%s)\n", e.File, expected)
	}

	local, err := Generate(opts.Dir)
	if err != nil {
		return Manifest{}, err
	}
	if err := WriteManifest(opts.Dir, local); err != nil {
		return Manifest{}, err
	}
	fmt.Fprintf(opts.Stdout, "wrote manifest: %s\n", filepath.Join(opts.Dir, ManifestName))
	return local, nil
}

// selectEntries validates the remote entries and keeps the requested
// languages. File names must match the built-in registry.
func selectEntries(m Manifest, langs []string) ([]Entry, error) {
	var out []Entry
	for _, e := range m.Files {
		name, err := FileName(e.Language)
		if err != nil {
			return nil, fmt.Errorf("remote manifest: %w", err)
		}
		if e.File != name {
			return nil, fmt.Errorf("remote manifest: %s file %q, want %q", e.Language, e.File, name)
		}
		if !shaHexPattern.MatchString(e.SHA256) {
			return nil, fmt.Errorf("remote manifest: %s has no valid sha256", e.File)
		}
		if len(langs) == 0 || slices.Contains(langs, e.Language) {
			out = append(out, e)
		}
	}
	for _, l := range langs {
		if !slices.ContainsFunc(out, func(e Entry) bool { return e.Language == l }) {
			return nil, fmt.Errorf("remote manifest has no dictionary for %q", l)
		}
	}
	return out, nil
}

func fetchManifest(ctx context.Context, client *http.Client, base, token string) (Manifest, error) {
	resp, err := get(ctx, client, base+"/"+ManifestName, token)
	if err != nil {
		return Manifest{}, err
	}
	defer resp.Body.Close()

	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode remote manifest: %w", err)
	}
	return m, nil
}

func get(ctx context.Context, client *http.Client, url, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, fmt.Errorf("%w for %s", ErrAccessDenied, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("request %s: %s", url, resp.Status)
	}
	return resp, nil
}

func existingMatches(path, expected string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat existing file: %w", err)
	}
	if fi.IsDir() {
		return false, fmt.Errorf("expected file at %s, found directory", path)
	}
	actual, err := fileSHA256(path)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

// download streams url into a temp file next to outPath and moves it into
// place only when its sha256 equals expected.
func download(ctx context.Context, client *http.Client, url, token, outPath, expected string) error {
	resp, err := get(ctx, client, url, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmp := outPath + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(fh, h), resp.Body); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("download read failed: %w", err)
	}

	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if actual := hex.EncodeToString(h.Sum(nil)); actual != expected {
		_ = os.Remove(tmp)
		return fmt.Errorf("checksum mismatch for %s: expected %s got %s", filepath.Base(outPath), expected, actual)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move temp file into place: %w", err)
	}
	return nil
}
