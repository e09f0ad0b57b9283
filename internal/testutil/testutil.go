// Package testutil provides shared fixtures and skip helpers for tests.
//
// SampleWords is a small English frequency list, most frequent first. It is
// large enough to reproduce the documented segmentation scenarios without
// shipping a full dictionary:
//
//	lx, _ := lexicon.New(testutil.SampleWords())
//
// Integration tests that need a real dictionary call RequireDictionary and
// are skipped when it is absent.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// EnvDictDir overrides the directory searched by RequireDictionary.
const EnvDictDir = "WORDNINJA_DICT_DIR"

var sampleWords = []string{
	"the", "of", "and", "to", "a", "in", "is", "you", "that", "for",
	"it", "on", "he", "was", "are", "me", "with", "as", "we", "this",
	"be", "at", "have", "not", "by", "an", "or", "but", "from", "they",
	"his", "all", "she", "there", "her", "one", "can", "so", "what",
	"which", "their", "do", "if", "will", "up", "out", "about", "them",
	"who", "into", "more", "time", "has", "no", "just", "like", "these",
	"some", "other", "new", "people", "were", "then", "only", "your",
	"how", "two", "also", "our", "first", "well", "any", "man", "over",
	"work", "way", "even", "because", "most", "us", "year", "good",
	"after", "where", "back", "here", "many", "through", "long", "down",
	"each", "still", "now", "should", "made", "old", "life", "day",
	"world", "great", "home", "last", "thing", "own", "see", "name",
	"under", "never", "word", "words", "part", "place", "small", "found",
	"while", "house", "form", "must", "big", "end", "set", "read",
	"hand", "went", "large", "need", "right", "show", "land", "point",
	"split", "high", "ring", "wear", "genus", "state", "war", "less",
	"city", "tree", "son", "ever", "being", "per", "der", "de", "ex",
	"next", "rock", "roll", "wearing", "merged", "merge", "anders",
	"anderson", "derek", "badge", "sheriff", "coin", "co", "c", "inc",
	"ers", "elephant", "extinct", "tinct", "lap", "leo", "lox", "don",
	"pa", "ox", "od", "win", "intel", "e-mail", "mail", "'s",
}

// SampleWords returns a fresh copy of the sample ranked word list.
func SampleWords() []string {
	return append([]string(nil), sampleWords...)
}

// WriteWordFile writes words one per line to dir/name and returns the path.
// Names ending in .gz are gzip-compressed.
func WriteWordFile(tb testing.TB, dir, name string, words []string) string {
	tb.Helper()

	data := []byte(strings.Join(words, "\n") + "\n")
	if strings.HasSuffix(name, ".gz") {
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			tb.Fatalf("create gzip writer: %v", err)
		}
		if _, err := zw.Write(data); err != nil {
			tb.Fatalf("gzip word file: %v", err)
		}
		if err := zw.Close(); err != nil {
			tb.Fatalf("close gzip writer: %v", err)
		}
		data = buf.Bytes()
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write word file: %v", err)
	}
	return path
}

// RequireDictionary skips the test unless the built-in dictionary file for
// lang exists. It returns the dictionary directory.
func RequireDictionary(tb testing.TB, lang string) string {
	tb.Helper()

	dir := os.Getenv(EnvDictDir)
	if dir == "" {
		dir = "dictionaries"
	}
	path := filepath.Join(dir, lang+"_dict.txt.gz")
	if _, err := os.Stat(path); err != nil {
		tb.Skipf("dictionary %s not available; set %s to a directory containing %s_dict.txt.gz", path, EnvDictDir, lang)
	}
	return dir
}
