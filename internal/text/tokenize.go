package text

import "unicode"

// Kind classifies a Run.
type Kind int

const (
	// Word is a run of letters, possibly with interior hyphens, that the
	// engine may split.
	Word Kind = iota
	// Clitic is an apostrophe that sits between two letters, together with
	// the letters that follow it ("'s", "'sthe"). Its first segment attaches
	// to the preceding word.
	Clitic
	// Literal is copied verbatim: digits, punctuation and whitespace.
	Literal
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Clitic:
		return "clitic"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// Run is a maximal substring of one Kind.
type Run struct {
	Kind Kind
	Text string
}

// Splittable reports whether the run goes through the segmentation engine.
func (r Run) Splittable() bool { return r.Kind != Literal }

// Tokenize partitions s into runs. Concatenating the Text of every run
// reproduces s exactly.
func Tokenize(s string) []Run {
	rs := []rune(s)
	n := len(rs)

	letterAt := func(i int) bool { return i >= 0 && i < n && isLetter(rs[i]) }
	// joiner reports whether rs[i] is a hyphen or apostrophe between letters.
	joiner := func(i int, pred func(rune) bool) bool {
		return pred(rs[i]) && letterAt(i-1) && letterAt(i+1)
	}

	var runs []Run
	for i := 0; i < n; {
		start := i
		switch {
		case isLetter(rs[i]) || joiner(i, IsApostrophe):
			kind := Word
			if !isLetter(rs[i]) {
				kind = Clitic
			}
			i++
			for i < n && (isLetter(rs[i]) || joiner(i, IsHyphen)) {
				i++
			}
			runs = append(runs, Run{Kind: kind, Text: string(rs[start:i])})
		default:
			i++
			for i < n && !isLetter(rs[i]) && !joiner(i, IsApostrophe) {
				i++
			}
			runs = append(runs, Run{Kind: Literal, Text: string(rs[start:i])})
		}
	}
	return runs
}

// IsApostrophe reports whether r is an ASCII or typographic apostrophe.
func IsApostrophe(r rune) bool { return r == '\'' || r == '’' }

// IsHyphen reports whether r joins compound words.
func IsHyphen(r rune) bool { return r == '-' || r == '‐' }

func isLetter(r rune) bool { return unicode.IsLetter(r) || unicode.IsMark(r) }
