package dictfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

// Custom is the language code for a caller-supplied word file.
const Custom = "custom"

var (
	// ErrUnsupportedLanguage is returned for a language without a built-in
	// dictionary.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrWordFileRequired is returned when the custom language is requested
	// without a word file.
	ErrWordFileRequired = errors.New("custom language requires a word file")
)

var languageFiles = map[string]string{
	"en": "en_dict.txt.gz",
	"de": "de_dict.txt.gz",
	"fr": "fr_dict.txt.gz",
	"es": "es_dict.txt.gz",
	"it": "it_dict.txt.gz",
	"pt": "pt_dict.txt.gz",
}

// Languages returns the built-in language codes in sorted order.
func Languages() []string {
	langs := make([]string, 0, len(languageFiles))
	for l := range languageFiles {
		langs = append(langs, l)
	}
	slices.Sort(langs)
	return langs
}

// FileName returns the dictionary file name for a built-in language.
func FileName(lang string) (string, error) {
	name, ok := languageFiles[lang]
	if !ok {
		return "", fmt.Errorf("%w %q (use %q with a word file)", ErrUnsupportedLanguage, lang, Custom)
	}
	return name, nil
}

// Resolve returns the path of the word list for lang. The language must be
// a built-in one or custom; a non-empty wordFile then replaces the built-in
// file, and the custom language requires one.
func Resolve(dir, lang, wordFile string) (string, error) {
	if lang == Custom {
		if wordFile == "" {
			return "", ErrWordFileRequired
		}
		return wordFile, nil
	}
	name, err := FileName(lang)
	if err != nil {
		return "", err
	}
	if wordFile != "" {
		return wordFile, nil
	}
	return filepath.Join(dir, name), nil
}
