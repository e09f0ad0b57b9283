package rejoin

import (
	"strings"
	"testing"

	"github.com/example/go-wordninja/internal/lexicon"
	"github.com/example/go-wordninja/internal/segment"
	"github.com/example/go-wordninja/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJoiner(t *testing.T, lang string, words []string) *Joiner {
	t.Helper()
	lx, err := lexicon.New(words)
	require.NoError(t, err)
	return New(segment.New(lx), RulesFor(lang))
}

func TestRejoin(t *testing.T) {
	j := newJoiner(t, "en", testutil.SampleWords())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quotes and apostrophes", "That'sthesheriff's\"badge\" youarewearing!", "That's the sheriff's \"badge\" you are wearing!"},
		{"brackets", "(thisisit)", "(this is it)"},
		{"square brackets", "weare[here]", "we are [here]"},
		{"digits are spaced", "win32intel", "win 32 intel"},
		{"interior hyphen", "derek-anderson", "derek-anderson"},
		{"comma and closing quote", "derekanderson, youare\"great\".", "derek anderson, you are \"great\"."},
		{"single quotes", "Helooked at the 'bigrock'.", "He l o o k e d at the 'big rock'."},
		{"currency and percent", "costs $5and50%more", "co s t s $5 and 50% more"},
		{"chained clitics", "rock'n'roll", "rock'n'roll"},
		{"surrounding whitespace preserved", "  thewordsareset  ", "  the words are set  "},
		{"literal run verbatim", "a--b", "a--b"},
		{"trailing hyphen", "wearing-", "wearing-"},
		{"closing quote then word", "\"derek\"anderson", "\"derek\" anderson"},
		{"empty", "", ""},
		{"punctuation only", ". , !", ". , !"},
		{"single word", "elephant", "elephant"},
		{"spaced dash kept", "derek - anderson", "derek - anderson"},
		{"percent attaches left", "set%more", "set% more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, j.Rejoin(tt.input))
		})
	}
}

func TestRejoin_Idempotent(t *testing.T) {
	j := newJoiner(t, "en", testutil.SampleWords())

	inputs := []string{
		"That'sthesheriff's\"badge\" youarewearing!",
		"(thisisit)",
		"derekanderson, youare\"great\".",
		"Splitthesemergedwordsforme.",
	}
	for _, in := range inputs {
		once := j.Rejoin(in)
		assert.Equal(t, once, j.Rejoin(once), in)
	}
}

func TestRejoin_LanguageRules(t *testing.T) {
	words := testutil.SampleWords()

	fr := newJoiner(t, "fr", words)
	assert.Equal(t, "you are wearing !« derek »", fr.Rejoin("youarewearing!«derek»"))

	de := newJoiner(t, "de", words)
	assert.Equal(t, "derek-anderson 50% more $5", de.Rejoin("derek-anderson 50%more $5"))
	assert.Equal(t, "a -- b $5 % x", de.Rejoin("a--b $5 %x"))

	en := newJoiner(t, "en", words)
	assert.Equal(t, "a--b $5 % x", en.Rejoin("a--b $5 %x"))
}

func TestRejoin_CustomWordReranking(t *testing.T) {
	base := testutil.SampleWords()
	assert.Equal(t, "coin c", newJoiner(t, "en", base).Rejoin("coinc"))

	edited, err := lexicon.Build(base, lexicon.Edits{Add: []string{"inc"}, AddToTop: true, Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, "co inc", newJoiner(t, "en", edited).Rejoin("coinc"))
}

func TestRejoin_AddedWord(t *testing.T) {
	base := testutil.SampleWords()
	const in = "Palaeoloxodonisanextinctgenusofelephant."

	assert.NotEqual(t, "Palaeoloxodon is an extinct genus of elephant.", newJoiner(t, "en", base).Rejoin(in))

	edited, err := lexicon.Build(base, lexicon.Edits{Add: []string{"Palaeoloxodon"}})
	require.NoError(t, err)
	assert.Equal(t, "Palaeoloxodon is an extinct genus of elephant.", newJoiner(t, "en", edited).Rejoin(in))
}

func TestPieces(t *testing.T) {
	j := newJoiner(t, "en", testutil.SampleWords())

	tests := []struct {
		input string
		want  []string
	}{
		{"derekanderson", []string{"derek", "anderson"}},
		{"derek anderson", []string{"derek", " ", "anderson"}},
		{"derek-anderson", []string{"derek", "-", "anderson"}},
		{"derek_anderson", []string{"derek", "_", "anderson"}},
		{"derek/anderson", []string{"derek", "/", "anderson"}},
		{"DEREKANDERSON", []string{"DEREK", "ANDERSON"}},
		{"win32intel", []string{"win", "32", "intel"}},
		{"that'sthesheriff'sbadge", []string{"that's", "the", "sheriff's", "badge"}},
		{"rock'n'roll", []string{"rock'n'roll"}},
		{"end, ok", []string{"end", ",", " ", "o", "k"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, j.Pieces(tt.input))
		})
	}
}

func TestCandidates(t *testing.T) {
	j := newJoiner(t, "en", testutil.SampleWords())

	got := j.Candidates("derekanderson", 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"derek", "anderson"}, got[0].Words)
	assert.Equal(t, []string{"derek", "anders", "on"}, got[1].Words)
	assert.Equal(t, []string{"derek", "and", "ers", "on"}, got[2].Words)

	assert.Nil(t, j.Candidates("", 3))
	assert.Nil(t, j.Candidates("derek", 0))
}

func TestCandidates_AcrossRuns(t *testing.T) {
	j := newJoiner(t, "en", testutil.SampleWords())

	inputs := []string{
		"derekanderson youarewearing!",
		"That'sthesheriff's\"badge\"",
		"win32intel",
		"  ...  ",
	}
	for _, in := range inputs {
		cands := j.Candidates(in, 5)
		require.NotEmpty(t, cands, in)
		assert.Equal(t, j.Pieces(in), cands[0].Words, in)

		seen := map[string]bool{}
		for i, c := range cands {
			assert.Equal(t, in, strings.Join(c.Words, ""), in)
			key := strings.Join(c.Words, "\x00")
			assert.False(t, seen[key], "duplicate candidate %q", c.Words)
			seen[key] = true
			if i > 0 {
				assert.GreaterOrEqual(t, c.Cost, cands[i-1].Cost)
			}
		}
	}
}

func TestBlacklistedWordNeverEmitted(t *testing.T) {
	edited, err := lexicon.Build(testutil.SampleWords(), lexicon.Edits{Blacklist: []string{"anderson", "Elephant"}})
	require.NoError(t, err)
	j := newJoiner(t, "en", edited)

	for _, in := range []string{"derekanderson", "anderson", "theelephant", "ELEPHANT"} {
		for _, c := range j.Candidates(in, 10) {
			for _, w := range c.Words {
				assert.NotEqual(t, "anderson", strings.ToLower(w), in)
				assert.NotEqual(t, "elephant", strings.ToLower(w), in)
			}
		}
	}
}

func TestMergeApostrophe(t *testing.T) {
	assert.Equal(t, []string{"'s", "the"}, mergeApostrophe([]string{"'", "s", "the"}))
	assert.Equal(t, []string{"’t"}, mergeApostrophe([]string{"’", "t"}))
	assert.Equal(t, []string{"'s", "the"}, mergeApostrophe([]string{"'s", "the"}))
	assert.Equal(t, []string{"'"}, mergeApostrophe([]string{"'"}))
}

func TestSplitLiteral(t *testing.T) {
	assert.Equal(t, []string{",", " "}, splitLiteral(", "))
	assert.Equal(t, []string{"  ", "...", "  "}, splitLiteral("  ...  "))
	assert.Equal(t, []string{"32"}, splitLiteral("32"))
	assert.Nil(t, splitLiteral(""))
}

func TestRulesFor(t *testing.T) {
	en := RulesFor("en")
	assert.True(t, en.NoSpaceBefore('.'))
	assert.True(t, en.NoSpaceBefore('\''))
	assert.True(t, en.NoSpaceAfter('('))
	assert.True(t, en.NoSpaceAfter('’'))
	assert.False(t, en.NoSpaceBefore('('))

	de := RulesFor("de")
	assert.False(t, de.NoSpaceBefore('-'))
	assert.False(t, de.NoSpaceAfter('€'))
	assert.True(t, de.NoSpaceBefore('.'))

	fr := RulesFor("fr")
	assert.False(t, fr.NoSpaceBefore('!'))
	assert.False(t, fr.NoSpaceAfter('«'))

	es := RulesFor("es")
	assert.False(t, es.NoSpaceBefore('%'))
	assert.True(t, es.NoSpaceAfter('¿'))

	assert.Equal(t, RulesFor("en"), RulesFor("custom"))
}
