package rejoin

// Rules lists the punctuation that must not be separated from its
// neighbouring word by a space.
type Rules struct {
	noSpaceBefore map[rune]struct{}
	noSpaceAfter  map[rune]struct{}
}

// Characters that never take a space before them, e.g. "word," or "50%".
// Apostrophes are in both sets: they never gain adjacent spaces.
const (
	baseNoSpaceBefore = ".,;:!?)]}%'’»›-"
	baseNoSpaceAfter  = "([{«‹¡¿-$€£'’"
)

// languageOverrides removes characters from the base sets for languages whose
// typography spaces them.
var languageOverrides = map[string]struct {
	spacedBefore string
	spacedAfter  string
}{
	"de": {spacedBefore: "%-", spacedAfter: "-$€£"},
	"fr": {spacedBefore: ":;!?»%", spacedAfter: "«"},
	"es": {spacedBefore: "%"},
}

// RulesFor returns the spacing rules for a language code. Unknown codes,
// including "custom", get the base rules.
func RulesFor(lang string) Rules {
	r := Rules{
		noSpaceBefore: runeSet(baseNoSpaceBefore),
		noSpaceAfter:  runeSet(baseNoSpaceAfter),
	}
	if o, ok := languageOverrides[lang]; ok {
		for _, c := range o.spacedBefore {
			delete(r.noSpaceBefore, c)
		}
		for _, c := range o.spacedAfter {
			delete(r.noSpaceAfter, c)
		}
	}
	return r
}

// NoSpaceBefore reports whether c attaches to the word before it.
func (r Rules) NoSpaceBefore(c rune) bool {
	_, ok := r.noSpaceBefore[c]
	return ok
}

// NoSpaceAfter reports whether c attaches to the word after it.
func (r Rules) NoSpaceAfter(c rune) bool {
	_, ok := r.noSpaceAfter[c]
	return ok
}

func runeSet(s string) map[rune]struct{} {
	m := make(map[rune]struct{}, len(s))
	for _, c := range s {
		m[c] = struct{}{}
	}
	return m
}
