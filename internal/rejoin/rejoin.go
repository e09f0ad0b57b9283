// Package rejoin drives the tokenizer and the segmentation engine over whole
// texts: it splits mixed merged/unmerged text into pieces, ranks text-level
// candidates and rebuilds a correctly spaced sentence.
package rejoin

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/go-wordninja/internal/segment"
	"github.com/example/go-wordninja/internal/text"
)

// Segmenter splits a single run.
type Segmenter interface {
	Split(token string) []string
	Candidates(token string, k int) []segment.Candidate
}

// Joiner combines a Segmenter with language spacing Rules. It is immutable
// and safe for concurrent use.
type Joiner struct {
	seg   Segmenter
	rules Rules
}

// New returns a Joiner.
func New(seg Segmenter, rules Rules) *Joiner {
	return &Joiner{seg: seg, rules: rules}
}

// Pieces splits text into words and literal pieces. Literal runs are split
// into whitespace and non-whitespace chunks; a clitic is attached to the
// word before it ("that's").
func (j *Joiner) Pieces(s string) []string {
	var pieces []string
	for _, run := range text.Tokenize(text.Normalize(s)) {
		switch run.Kind {
		case text.Literal:
			pieces = append(pieces, splitLiteral(run.Text)...)
		case text.Clitic:
			pieces = attach(pieces, j.splitRun(run))
		default:
			pieces = append(pieces, j.splitRun(run)...)
		}
	}
	if pieces == nil {
		return []string{}
	}
	return pieces
}

// Candidates returns up to k splits of the whole text in ascending cost
// order. Literal pieces cost nothing; the first candidate equals Pieces.
func (j *Joiner) Candidates(s string, k int) []segment.Candidate {
	runs := text.Tokenize(text.Normalize(s))
	if len(runs) == 0 || k < 1 {
		return nil
	}

	beam := []segment.Candidate{{Words: []string{}}}
	for _, run := range runs {
		if run.Kind == text.Literal {
			lit := splitLiteral(run.Text)
			for i := range beam {
				beam[i].Words = append(beam[i].Words[:len(beam[i].Words):len(beam[i].Words)], lit...)
			}
			continue
		}

		runCands := j.seg.Candidates(run.Text, k)
		next := make([]segment.Candidate, 0, len(beam)*len(runCands))
		for _, prev := range beam {
			for _, rc := range runCands {
				words := append([]string(nil), prev.Words...)
				if run.Kind == text.Clitic {
					words = attach(words, mergeApostrophe(rc.Words))
				} else {
					words = append(words, rc.Words...)
				}
				next = append(next, segment.Candidate{Words: words, Cost: prev.Cost + rc.Cost})
			}
		}
		sort.SliceStable(next, func(a, b int) bool { return next[a].Cost < next[b].Cost })
		// A clitic split with and without the merged apostrophe can produce
		// the same words.
		beam = segment.Dedupe(next, k)
	}
	return beam
}

// Rejoin splits every splittable run and reassembles the text with single
// spaces between words. Spaces are only inserted where two characters were
// adjacent in the input, never before closing punctuation or after opening
// punctuation, and existing whitespace is preserved.
func (j *Joiner) Rejoin(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)

	var (
		inQuotes bool
		prevKind = -1 // -1 start, 0 word, 1 literal
		prevLast rune
	)

	for _, run := range text.Tokenize(text.Normalize(s)) {
		if run.Kind == text.Literal {
			first, _ := utf8.DecodeRuneInString(run.Text)
			if prevKind == 0 && j.spaceBeforeLiteral(first, inQuotes) {
				b.WriteByte(' ')
			}
			for _, c := range run.Text {
				if c == '"' {
					inQuotes = !inQuotes
				}
			}
			b.WriteString(run.Text)
			prevLast, _ = utf8.DecodeLastRuneInString(run.Text)
			prevKind = 1
			continue
		}

		segs := j.splitRun(run)
		for i, seg := range segs {
			switch {
			case i == 0 && run.Kind == text.Clitic:
				// attaches to the previous word
			case i == 0:
				if prevKind == 1 && j.spaceAfterLiteral(prevLast, inQuotes) {
					b.WriteByte(' ')
				}
			case !isHyphenSegment(seg) && !isHyphenSegment(segs[i-1]):
				b.WriteByte(' ')
			}
			b.WriteString(seg)
		}
		prevKind = 0
	}
	return b.String()
}

// spaceBeforeLiteral decides the boundary word→literal where c is the
// literal's first character.
func (j *Joiner) spaceBeforeLiteral(c rune, inQuotes bool) bool {
	switch {
	case unicode.IsSpace(c), j.rules.NoSpaceBefore(c):
		return false
	case c == '"':
		return !inQuotes // an opening quote takes a space, a closing one does not
	default:
		return true
	}
}

// spaceAfterLiteral decides the boundary literal→word where c is the
// literal's last character and inQuotes is the state after it.
func (j *Joiner) spaceAfterLiteral(c rune, inQuotes bool) bool {
	switch {
	case unicode.IsSpace(c), j.rules.NoSpaceAfter(c):
		return false
	case c == '"':
		return !inQuotes
	default:
		return true
	}
}

func (j *Joiner) splitRun(run text.Run) []string {
	words := j.seg.Split(run.Text)
	if run.Kind == text.Clitic {
		words = mergeApostrophe(words)
	}
	return words
}

// mergeApostrophe joins a lone leading apostrophe with the following segment,
// which happens when the dictionary has no entry for the clitic.
func mergeApostrophe(words []string) []string {
	if len(words) < 2 {
		return words
	}
	r, size := utf8.DecodeRuneInString(words[0])
	if size != len(words[0]) || !text.IsApostrophe(r) {
		return words
	}
	merged := make([]string, 0, len(words)-1)
	merged = append(merged, words[0]+words[1])
	return append(merged, words[2:]...)
}

// attach glues the first clitic segment onto the last piece.
func attach(pieces, clitic []string) []string {
	if len(clitic) == 0 {
		return pieces
	}
	if len(pieces) == 0 {
		return append(pieces, clitic...)
	}
	pieces[len(pieces)-1] += clitic[0]
	return append(pieces, clitic[1:]...)
}

func isHyphenSegment(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && text.IsHyphen(r)
}

// splitLiteral splits a literal run into alternating whitespace and
// non-whitespace chunks.
func splitLiteral(s string) []string {
	var out []string
	start := 0
	prevSpace := false
	for i, c := range s {
		space := unicode.IsSpace(c)
		if i > 0 && space != prevSpace {
			out = append(out, s[start:i])
			start = i
		}
		prevSpace = space
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
