// Package segment implements the word-break search: given one contiguous run
// of letters it finds the minimum-cost partition into dictionary words, or
// the k cheapest distinct partitions.
//
// The search is a dynamic program over rune positions 0..n. The edge from
// position j to i carries the word token[j:i] and weighs that word's Zipf
// cost. Only edges shorter than the longest dictionary word are considered,
// so a query is O(n * maxLen) lookups.
package segment

import (
	"math"
	"slices"
	"sort"
	"strings"
	"unicode"
)

// Lexicon is the cost model consumed by the engine.
type Lexicon interface {
	// Lookup returns the cost of a lowercase key.
	Lookup(key string) (float64, bool)
	// MaxWordLen is the rune length of the longest dictionary word.
	MaxWordLen() int
	// Penalty is the cost of a single character that is not a word.
	Penalty() float64
}

// Candidate is one split of a token together with its total cost.
type Candidate struct {
	Words []string `json:"words"`
	Cost  float64  `json:"cost"`
}

// Engine segments tokens against a Lexicon. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	lex    Lexicon
	window int
}

// New returns an Engine for lex.
func New(lex Lexicon) *Engine {
	return &Engine{lex: lex, window: max(lex.MaxWordLen(), 1)}
}

// Split returns the cheapest split of token. Words are sliced from token, so
// their casing is preserved.
func (e *Engine) Split(token string) []string {
	words, _ := e.SplitWithCost(token)
	return words
}

// SplitWithCost is Split that also reports the total cost.
func (e *Engine) SplitWithCost(token string) ([]string, float64) {
	runes := []rune(token)
	n := len(runes)
	if n == 0 {
		return []string{}, 0
	}
	lower := foldRunes(runes)

	best := make([]float64, n+1)
	back := make([]int, n+1)
	for i := 1; i <= n; i++ {
		minCost := math.Inf(1)
		bestLen := 1
		// Shorter final words are tried first; strict < keeps them on ties.
		for l := 1; l <= e.window && l <= i; l++ {
			c, ok := e.wordCost(lower[i-l : i])
			if !ok {
				continue
			}
			if total := best[i-l] + c; total < minCost {
				minCost = total
				bestLen = l
			}
		}
		best[i] = minCost
		back[i] = bestLen
	}

	var rev []string
	for i := n; i > 0; i -= back[i] {
		rev = append(rev, string(runes[i-back[i]:i]))
	}
	words := make([]string, len(rev))
	for i, w := range rev {
		words[len(rev)-1-i] = w
	}
	return words, best[n]
}

// Candidates returns up to k distinct splits of token in ascending cost
// order. The first candidate is always the split returned by Split.
func (e *Engine) Candidates(token string, k int) []Candidate {
	runes := []rune(token)
	n := len(runes)
	if n == 0 || k < 1 {
		return nil
	}
	lower := foldRunes(runes)

	// Each entry points back at the entry it extends, so a position holds at
	// most k fixed-size entries and words are only built for the final list.
	type entry struct {
		cost float64
		prev int // start position of the last word
		idx  int // index into lattice[prev]
	}

	lattice := make([][]entry, n+1)
	lattice[0] = []entry{{prev: -1}}
	next := make([]entry, 0, k*e.window)
	for i := 1; i <= n; i++ {
		next = next[:0]
		for l := 1; l <= e.window && l <= i; l++ {
			c, ok := e.wordCost(lower[i-l : i])
			if !ok {
				continue
			}
			for j, p := range lattice[i-l] {
				next = append(next, entry{cost: p.cost + c, prev: i - l, idx: j})
			}
		}
		// Stable sort keeps generation order on ties, which matches the
		// tie-break used by Split.
		sort.SliceStable(next, func(a, b int) bool { return next[a].cost < next[b].cost })
		lattice[i] = append([]entry(nil), next[:min(len(next), k)]...)
	}

	out := make([]Candidate, 0, len(lattice[n]))
	for _, p := range lattice[n] {
		var rev []string
		for end, cur := n, p; cur.prev >= 0; end, cur = cur.prev, lattice[cur.prev][cur.idx] {
			rev = append(rev, string(runes[cur.prev:end]))
		}
		slices.Reverse(rev)
		out = append(out, Candidate{Words: rev, Cost: p.cost})
	}
	return Dedupe(out, k)
}

func (e *Engine) wordCost(key []rune) (float64, bool) {
	if c, ok := e.lex.Lookup(string(key)); ok {
		return c, true
	}
	if len(key) == 1 {
		return e.lex.Penalty(), true
	}
	return 0, false
}

// Dedupe drops candidates whose word sequence repeats an earlier one and
// truncates the result to k entries. Order is preserved.
func Dedupe(cands []Candidate, k int) []Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := cands[:0]
	for _, c := range cands {
		key := strings.Join(c.Words, "\x00")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
		if len(out) == k {
			break
		}
	}
	return out
}

func foldRunes(runes []rune) []rune {
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}
	return lower
}
