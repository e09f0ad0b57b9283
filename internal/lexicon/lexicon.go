// Package lexicon turns a rank-ordered word list into the Zipf cost model used
// by the segmentation engine.
package lexicon

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// UnknownCharCost is the base penalty for a single character that is not a
// dictionary word.
const UnknownCharCost = 25.0

// ErrEmptyDictionary is returned when a lexicon would contain no words.
var ErrEmptyDictionary = errors.New("dictionary contains no words")

// Lexicon is the immutable Word Index plus Cost Table for one dictionary.
// It is safe for concurrent use.
type Lexicon struct {
	words   []string
	index   map[string]int
	costs   []float64
	maxLen  int
	penalty float64
}

// New builds a Lexicon from words ordered most frequent first. Words must
// already be distinct lowercase keys (see Build); duplicates keep their first
// rank.
func New(words []string) (*Lexicon, error) {
	if len(words) == 0 {
		return nil, ErrEmptyDictionary
	}

	lx := &Lexicon{
		words: make([]string, 0, len(words)),
		index: make(map[string]int, len(words)),
	}
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, dup := lx.index[w]; dup {
			continue
		}
		lx.index[w] = len(lx.words)
		lx.words = append(lx.words, w)
		if n := utf8.RuneCountInString(w); n > lx.maxLen {
			lx.maxLen = n
		}
	}
	if len(lx.words) == 0 {
		return nil, ErrEmptyDictionary
	}

	// ln(N) is floored at 1 so that tiny dictionaries still get
	// non-negative, increasing costs.
	logN := math.Max(math.Log(float64(len(lx.words))), 1)
	lx.costs = make([]float64, len(lx.words))
	for rank := range lx.costs {
		lx.costs[rank] = math.Log(float64(rank+1) * logN)
	}
	lx.penalty = math.Max(UnknownCharCost, lx.costs[len(lx.costs)-1]+1)

	return lx, nil
}

// Len returns the number of ranked words.
func (lx *Lexicon) Len() int { return len(lx.words) }

// Words returns a copy of the ranked word list.
func (lx *Lexicon) Words() []string { return append([]string(nil), lx.words...) }

// MaxWordLen returns the length in runes of the longest word.
func (lx *Lexicon) MaxWordLen() int { return lx.maxLen }

// Penalty returns the cost charged for a single unknown character. It is
// always higher than the cost of any dictionary word.
func (lx *Lexicon) Penalty() float64 { return lx.penalty }

// Cost returns the Zipf cost for rank. Ranks past the end cost +Inf.
func (lx *Lexicon) Cost(rank int) float64 {
	if rank < 0 || rank >= len(lx.costs) {
		return math.Inf(1)
	}
	return lx.costs[rank]
}

// Lookup returns the cost of an already folded key (see Key).
func (lx *Lexicon) Lookup(key string) (float64, bool) {
	rank, ok := lx.index[key]
	if !ok {
		return 0, false
	}
	return lx.costs[rank], true
}

// RankOf returns the rank of word, compared case-insensitively.
func (lx *Lexicon) RankOf(word string) (int, bool) {
	rank, ok := lx.index[Key(word)]
	return rank, ok
}

// IsKnown reports whether word is in the dictionary.
func (lx *Lexicon) IsKnown(word string) bool {
	_, ok := lx.RankOf(word)
	return ok
}

// Key folds a word to its index key: NFC-normalized and lowercased.
func Key(word string) string {
	if !norm.NFC.IsNormalString(word) {
		word = norm.NFC.String(word)
	}
	return strings.ToLower(word)
}
