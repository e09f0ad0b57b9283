// Package wordninja splits concatenated words ("derekanderson") into their
// most probable constituents using a rank-ordered word frequency list.
//
// Words near the front of the list are assumed far more frequent than words
// near the tail (Zipf's law), so a split into few common words beats a split
// into many rare fragments. A Model holds one such dictionary and offers
// three operations:
//
//	m, err := wordninja.New(wordninja.Options{Language: "en"})
//	m.Split("derekanderson")          // ["derek" "anderson"]
//	m.Candidates("derekanderson", 3)  // three cheapest splits
//	m.Rejoin("thisis(great)")         // "this is (great)"
//
// The package-level Split, Candidates and Rejoin use a lazily loaded English
// model read from the directory named by WORDNINJA_DICT_DIR, or from
// ./dictionaries when that is unset. No dictionary ships with the module and
// no download mirror is preset. Before the package-level functions work,
// either fetch the files with
//
//	wordninja dict download --base-url <mirror> --dict-dir dictionaries
//
// point WORDNINJA_DICT_DIR at a directory holding en_dict.txt.gz, or install
// a model with SetDefault. Until then they return an error wrapping
// fs.ErrNotExist.
package wordninja

import (
	"fmt"
	"log/slog"

	"github.com/example/go-wordninja/internal/dictfile"
	"github.com/example/go-wordninja/internal/lexicon"
	"github.com/example/go-wordninja/internal/rejoin"
	"github.com/example/go-wordninja/internal/segment"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "en"

// Candidate is one split together with its total cost.
type Candidate = segment.Candidate

// Options configures a Model.
type Options struct {
	// Language is a built-in language code (en, de, fr, es, it, pt) or
	// "custom". It also selects the punctuation spacing rules.
	Language string
	// WordFile is a plain or gzipped word list, most frequent first.
	// Required for the custom language; for other languages it replaces the
	// built-in dictionary.
	WordFile string
	// DictDir is the directory holding the built-in <lang>_dict.txt.gz files.
	DictDir string

	// AddWords are inserted into the dictionary.
	AddWords []string
	// Blacklist words are removed and never re-added.
	Blacklist []string
	// AddToTop ranks added words first instead of last.
	AddToTop bool
	// Overwrite moves an added word that already exists.
	Overwrite bool

	// Logger receives construction diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) edits() lexicon.Edits {
	return lexicon.Edits{
		Add:       o.AddWords,
		Blacklist: o.Blacklist,
		AddToTop:  o.AddToTop,
		Overwrite: o.Overwrite,
	}
}

// Model is a language model: one ranked dictionary with its cost table and
// spacing rules. It is immutable and safe for concurrent use.
type Model struct {
	language string
	lex      *lexicon.Lexicon
	engine   *segment.Engine
	joiner   *rejoin.Joiner
}

// New loads the dictionary selected by opts and applies its edits.
func New(opts Options) (*Model, error) {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}

	path, err := dictfile.Resolve(opts.DictDir, opts.Language, opts.WordFile)
	if err != nil {
		return nil, fmt.Errorf("resolve dictionary: %w", err)
	}

	words, err := dictfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}

	return NewFromWords(words, opts)
}

// NewFromWords builds a Model from an in-memory word list ordered most
// frequent first. opts.WordFile and opts.DictDir are ignored.
func NewFromWords(words []string, opts Options) (*Model, error) {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ranked, err := lexicon.Build(words, opts.edits())
	if err != nil {
		return nil, err
	}
	lex, err := lexicon.New(ranked)
	if err != nil {
		return nil, fmt.Errorf("build lexicon: %w", err)
	}

	engine := segment.New(lex)
	m := &Model{
		language: opts.Language,
		lex:      lex,
		engine:   engine,
		joiner:   rejoin.New(engine, rejoin.RulesFor(opts.Language)),
	}

	logger.Debug("language model ready",
		slog.String("language", m.language),
		slog.Int("words", lex.Len()),
		slog.Int("max_word_len", lex.MaxWordLen()),
		slog.Int("added", len(opts.AddWords)),
		slog.Int("blacklisted", len(opts.Blacklist)),
	)
	return m, nil
}

// Split returns the best split of text. Words keep their original casing;
// digits, punctuation and whitespace are returned as separate pieces.
func (m *Model) Split(text string) []string { return m.joiner.Pieces(text) }

// Candidates returns up to k distinct splits of text in ascending cost
// order. The first candidate equals Split(text).
func (m *Model) Candidates(text string, k int) []Candidate { return m.joiner.Candidates(text, k) }

// Rejoin splits every merged run in text and returns it with single spaces
// between words and language-aware spacing around punctuation.
func (m *Model) Rejoin(text string) string { return m.joiner.Rejoin(text) }

// SplitToken splits one contiguous run of letters and reports its cost.
func (m *Model) SplitToken(token string) ([]string, float64) {
	return m.engine.SplitWithCost(token)
}

// IsKnown reports whether word is in the dictionary, ignoring case.
func (m *Model) IsKnown(word string) bool { return m.lex.IsKnown(word) }

// RankOf returns the 0-based frequency rank of word.
func (m *Model) RankOf(word string) (int, bool) { return m.lex.RankOf(word) }

// Cost returns the cost of the word at rank.
func (m *Model) Cost(rank int) float64 { return m.lex.Cost(rank) }

// Language returns the language code the model was built for.
func (m *Model) Language() string { return m.language }

// Len returns the number of words in the dictionary.
func (m *Model) Len() int { return m.lex.Len() }
