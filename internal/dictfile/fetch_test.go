package dictfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mirror struct {
	files    map[string][]byte
	manifest Manifest
	token    string
	hits     atomic.Int32
}

func newMirror(files map[string][]byte) *mirror {
	m := &mirror{files: files}
	for _, lang := range Languages() {
		name, _ := FileName(lang)
		data, ok := files[name]
		if !ok {
			continue
		}
		sum := sha256.Sum256(data)
		m.manifest.Files = append(m.manifest.Files, Entry{Language: lang, File: name, SHA256: hex.EncodeToString(sum[:])})
	}
	return m
}

func (m *mirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.token != "" && r.Header.Get("Authorization") != "Bearer "+m.token {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == ManifestName {
		_ = json.NewEncoder(w).Encode(m.manifest)
		return
	}
	data, ok := m.files[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	m.hits.Add(1)
	_, _ = w.Write(data)
}

func TestFetch_DownloadsAndWritesManifest(t *testing.T) {
	mr := newMirror(map[string][]byte{
		"en_dict.txt.gz": []byte("the\nof\nand\n"),
		"de_dict.txt.gz": []byte("der\ndie\ndas\n"),
	})
	srv := httptest.NewServer(mr)
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "dicts")
	var out strings.Builder
	m, err := Fetch(context.Background(), FetchOptions{BaseURL: srv.URL + "/", Dir: dir, Stdout: &out})
	require.NoError(t, err)

	assert.Len(t, m.Files, 2)
	assert.Contains(t, out.String(), "verified en_dict.txt.gz")

	words, err := Load(filepath.Join(dir, "de_dict.txt.gz"))
	require.NoError(t, err)
	assert.Equal(t, []string{"der", "die", "das"}, words)

	checks, err := Verify(dir)
	require.NoError(t, err)
	assert.Len(t, checks, 2)

	// Second run skips files whose checksum already matches.
	out.Reset()
	_, err = Fetch(context.Background(), FetchOptions{BaseURL: srv.URL, Dir: dir, Stdout: &out})
	require.NoError(t, err)
	assert.Equal(t, int32(2), mr.hits.Load())
	assert.Contains(t, out.String(), "skip en_dict.txt.gz (checksum match)")
}

func TestFetch_SelectedLanguages(t *testing.T) {
	mr := newMirror(map[string][]byte{
		"en_dict.txt.gz": []byte("the\n"),
		"fr_dict.txt.gz": []byte("le\n"),
	})
	srv := httptest.NewServer(mr)
	defer srv.Close()

	dir := t.TempDir()
	m, err := Fetch(context.Background(), FetchOptions{BaseURL: srv.URL, Dir: dir, Languages: []string{"fr"}})
	require.NoError(t, err)
	require.Len(t, m.Files, 1)
	assert.Equal(t, "fr", m.Files[0].Language)

	_, err = os.Stat(filepath.Join(dir, "en_dict.txt.gz"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Fetch(context.Background(), FetchOptions{BaseURL: srv.URL, Dir: dir, Languages: []string{"it"}})
	assert.ErrorContains(t, err, `no dictionary for "it"`)
}

func TestFetch_ChecksumMismatchKeepsExistingFile(t *testing.T) {
	mr := newMirror(map[string][]byte{"en_dict.txt.gz": []byte("the\n")})
	mr.files["en_dict.txt.gz"] = []byte("tampered\n")
	srv := httptest.NewServer(mr)
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "en_dict.txt.gz")
	require.NoError(t, os.WriteFile(existing, []byte("old\n"), 0o644))

	_, err := Fetch(context.Background(), FetchOptions{BaseURL: srv.URL, Dir: dir})
	assert.ErrorContains(t, err, "checksum mismatch for en_dict.txt.gz")

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))

	_, err = os.Stat(existing + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetch_AccessDenied(t *testing.T) {
	mr := newMirror(map[string][]byte{"en_dict.txt.gz": []byte("the\n")})
	mr.token = "secret"
	srv := httptest.NewServer(mr)
	defer srv.Close()

	_, err := Fetch(context.Background(), FetchOptions{BaseURL: srv.URL, Dir: t.TempDir()})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = Fetch(context.Background(), FetchOptions{BaseURL: srv.URL, Dir: t.TempDir(), Token: "secret"})
	assert.NoError(t, err)
}

func TestFetch_Errors(t *testing.T) {
	_, err := Fetch(context.Background(), FetchOptions{Dir: t.TempDir()})
	assert.ErrorContains(t, err, "base url")

	_, err = Fetch(context.Background(), FetchOptions{BaseURL: "http://example.invalid"})
	assert.ErrorContains(t, err, "dictionary dir")

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err = Fetch(context.Background(), FetchOptions{BaseURL: srv.URL, Dir: t.TempDir()})
	assert.ErrorContains(t, err, "404")
}

func TestSelectEntries_RejectsUnsafeNames(t *testing.T) {
	sum := strings.Repeat("a", 64)
	cases := []Manifest{
		{Files: []Entry{{Language: "en", File: "../en_dict.txt.gz", SHA256: sum}}},
		{Files: []Entry{{Language: "xx", File: "xx_dict.txt.gz", SHA256: sum}}},
		{Files: []Entry{{Language: "en", File: "en_dict.txt.gz", SHA256: "nope"}}},
	}
	for _, m := range cases {
		_, err := selectEntries(m, nil)
		assert.Error(t, err, "%+v", m.Files)
	}
}
