package doctor_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-wordninja/internal/dictfile"
	"github.com/example/go-wordninja/internal/doctor"
	"github.com/example/go-wordninja/internal/testutil"
)

// dictDir writes an English dictionary and its manifest into a temp dir.
func dictDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteWordFile(t, dir, "en_dict.txt.gz", testutil.SampleWords())

	m, err := dictfile.Generate(dir)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if err := dictfile.WriteManifest(dir, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	return dir
}

func hasFailureContaining(failures []string, substr string) bool {
	for _, f := range failures {
		if strings.Contains(strings.ToLower(f), substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// all-pass scenario
// ---------------------------------------------------------------------------

func TestRun_AllChecksPass(t *testing.T) {
	cfg := doctor.Config{DictDir: dictDir(t), Language: "en"}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected all checks to pass; failures: %v", result.Failures())
	}

	body := out.String()
	if !strings.Contains(body, "dictionary:") || !strings.Contains(body, "words)") {
		t.Errorf("output should report the dictionary word count:\n%s", body)
	}

	if !strings.Contains(body, "checksum: en_dict.txt.gz") {
		t.Errorf("output should report the verified checksum:\n%s", body)
	}
}

// ---------------------------------------------------------------------------
// dictionary directory
// ---------------------------------------------------------------------------

func TestRun_MissingDirectoryFails(t *testing.T) {
	cfg := doctor.Config{DictDir: filepath.Join(t.TempDir(), "nope"), Language: "en"}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !result.Failed() {
		t.Fatal("expected failure for a missing dictionary directory")
	}

	if !hasFailureContaining(result.Failures(), "dictionary directory") {
		t.Errorf("expected failure mentioning the directory, got: %v", result.Failures())
	}

	if !strings.Contains(out.String(), "manifest: skipped") {
		t.Errorf("manifest check should be skipped without a directory:\n%s", out.String())
	}
}

func TestRun_DirectoryIsAFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	result := doctor.Run(doctor.Config{DictDir: path, Language: "en"}, &out)

	if !hasFailureContaining(result.Failures(), "not a directory") {
		t.Errorf("expected not a directory failure, got: %v", result.Failures())
	}
}

func TestRun_UnconfiguredDirectoryFails(t *testing.T) {
	var out strings.Builder
	result := doctor.Run(doctor.Config{Language: "en"}, &out)

	if !hasFailureContaining(result.Failures(), "not configured") {
		t.Errorf("expected not configured failure, got: %v", result.Failures())
	}
}

// ---------------------------------------------------------------------------
// dictionary
// ---------------------------------------------------------------------------

func TestRun_UnsupportedLanguageFails(t *testing.T) {
	var out strings.Builder
	result := doctor.Run(doctor.Config{DictDir: dictDir(t), Language: "xx"}, &out)

	if !hasFailureContaining(result.Failures(), "unsupported language") {
		t.Errorf("expected unsupported language failure, got: %v", result.Failures())
	}
}

func TestRun_MissingLanguageFileFails(t *testing.T) {
	var out strings.Builder
	result := doctor.Run(doctor.Config{DictDir: dictDir(t), Language: "de"}, &out)

	if !hasFailureContaining(result.Failures(), "de_dict.txt.gz") {
		t.Errorf("expected failure naming the missing file, got: %v", result.Failures())
	}
}

func TestRun_WordFileSkipsDirectory(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWordFile(t, dir, "words.txt", []string{"alpha", "beta"})

	var out strings.Builder
	result := doctor.Run(doctor.Config{Language: dictfile.Custom, WordFile: path}, &out)

	if result.Failed() {
		t.Fatalf("expected pass with a word file, got: %v", result.Failures())
	}

	body := out.String()
	if !strings.Contains(body, "dictionary directory: skipped") {
		t.Errorf("expected skipped directory check:\n%s", body)
	}

	if !strings.Contains(body, "(2 words)") {
		t.Errorf("expected word count of 2:\n%s", body)
	}
}

func TestRun_MinWords(t *testing.T) {
	cfg := doctor.Config{DictDir: dictDir(t), Language: "en", MinWords: 100000}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "want at least 100000") {
		t.Errorf("expected min words failure, got: %v", result.Failures())
	}
}

func TestRun_LoadErrorFails(t *testing.T) {
	errBroken := errors.New("broken dictionary")
	cfg := doctor.Config{
		DictDir:  dictDir(t),
		Language: "en",
		Load:     func(string) ([]string, error) { return nil, errBroken },
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "broken dictionary") {
		t.Errorf("expected load failure, got: %v", result.Failures())
	}
}

// ---------------------------------------------------------------------------
// manifest
// ---------------------------------------------------------------------------

func TestRun_ChecksumMismatchFails(t *testing.T) {
	dir := dictDir(t)
	testutil.WriteWordFile(t, dir, "en_dict.txt.gz", []string{"tampered"})

	var out strings.Builder
	result := doctor.Run(doctor.Config{DictDir: dir, Language: "en"}, &out)

	if !hasFailureContaining(result.Failures(), "checksum en_dict.txt.gz") {
		t.Errorf("expected checksum failure, got: %v", result.Failures())
	}
}

func TestRun_NoManifestIsSkipped(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteWordFile(t, dir, "en_dict.txt.gz", testutil.SampleWords())

	var out strings.Builder
	result := doctor.Run(doctor.Config{DictDir: dir, Language: "en"}, &out)

	if result.Failed() {
		t.Fatalf("missing manifest should not fail: %v", result.Failures())
	}

	if !strings.Contains(out.String(), "manifest: skipped (no manifest.json)") {
		t.Errorf("expected skipped manifest:\n%s", out.String())
	}
}

func TestRun_CorruptManifestFails(t *testing.T) {
	dir := dictDir(t)
	if err := os.WriteFile(filepath.Join(dir, dictfile.ManifestName), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	result := doctor.Run(doctor.Config{DictDir: dir, Language: "en"}, &out)

	if !hasFailureContaining(result.Failures(), "manifest") {
		t.Errorf("expected manifest failure, got: %v", result.Failures())
	}
}

func TestRun_SkipManifest(t *testing.T) {
	dir := dictDir(t)
	testutil.WriteWordFile(t, dir, "en_dict.txt.gz", []string{"tampered"})

	var out strings.Builder
	result := doctor.Run(doctor.Config{DictDir: dir, Language: "en", SkipManifest: true}, &out)

	if result.Failed() {
		t.Fatalf("expected pass with manifest skipped, got: %v", result.Failures())
	}
}

// ---------------------------------------------------------------------------
// extra files and output markers
// ---------------------------------------------------------------------------

func TestRun_MissingFileFails(t *testing.T) {
	cfg := doctor.Config{
		DictDir:  dictDir(t),
		Language: "en",
		Files:    []string{"/nonexistent/wordninja.yaml"},
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "wordninja.yaml") {
		t.Errorf("expected failure mentioning the file, got: %v", result.Failures())
	}
}

func TestRun_OutputContainsPassAndFailMarkers(t *testing.T) {
	cfg := doctor.Config{DictDir: dictDir(t), Language: "xx"}

	var out strings.Builder
	doctor.Run(cfg, &out)

	body := out.String()
	if !strings.Contains(body, doctor.PassMark) {
		t.Errorf("output missing pass marker %q:\n%s", doctor.PassMark, body)
	}

	if !strings.Contains(body, doctor.FailMark) {
		t.Errorf("output missing fail marker %q:\n%s", doctor.FailMark, body)
	}
}

func TestResult_AddFailure(t *testing.T) {
	var r doctor.Result
	r.AddFailure("external")

	if !r.Failed() || r.Failures()[0] != "external" {
		t.Fatalf("AddFailure not recorded: %v", r.Failures())
	}
}
