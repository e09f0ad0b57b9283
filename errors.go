package wordninja

import (
	"github.com/example/go-wordninja/internal/dictfile"
	"github.com/example/go-wordninja/internal/lexicon"
)

// Configuration errors returned by New and NewFromWords. Check them with
// errors.Is.
var (
	ErrWordFileRequired    = dictfile.ErrWordFileRequired
	ErrUnsupportedLanguage = dictfile.ErrUnsupportedLanguage
	ErrEmptyDictionary     = lexicon.ErrEmptyDictionary
	ErrEmptyWordFile       = dictfile.ErrNoWords
)
