// Package dictfile reads ranked word lists from disk and resolves the
// built-in language dictionaries.
//
// A dictionary file lists words most frequent first, separated by any
// whitespace. Files may be plain UTF-8 or gzip-compressed; compression is
// detected from the content, not the file name.
package dictfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/gzip"
)

// ErrNoWords is returned for a dictionary file that holds no words.
var ErrNoWords = errors.New("dictionary file contains no words")

var gzipMagic = []byte{0x1f, 0x8b}

// Load reads the word list at path.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dictionary: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("dictionary %q is a directory", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("dictionary %q: %w", path, ErrNoWords)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap dictionary: %w", err)
	}
	defer func() { _ = m.Unmap() }()

	words, err := Parse(m)
	if err != nil {
		return nil, fmt.Errorf("dictionary %q: %w", path, err)
	}
	return words, nil
}

// Parse decodes a dictionary held in memory. The returned words never alias
// data.
func Parse(data []byte) ([]string, error) {
	raw := data
	if bytes.HasPrefix(data, gzipMagic) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		raw, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
		if err := zr.Close(); err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
	}

	if !utf8.Valid(raw) {
		return nil, errors.New("dictionary is not valid UTF-8")
	}

	// strings.Fields copies out of raw, which may be a memory map.
	words := strings.Fields(string(raw))
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return words, nil
}
