package lexicon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Empty(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrEmptyDictionary)

	_, err = New([]string{"", ""})
	require.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestNew_ZipfCosts(t *testing.T) {
	words := []string{"the", "of", "and", "to", "a", "in", "is", "you", "that", "for"}
	lx, err := New(words)
	require.NoError(t, err)

	logN := math.Log(float64(len(words)))
	for rank := range words {
		want := math.Log(float64(rank+1) * logN)
		assert.InDelta(t, want, lx.Cost(rank), 1e-12, "rank %d", rank)
	}

	for rank := 1; rank < len(words); rank++ {
		assert.Greater(t, lx.Cost(rank), lx.Cost(rank-1))
	}
	assert.True(t, math.IsInf(lx.Cost(len(words)), 1))
	assert.True(t, math.IsInf(lx.Cost(-1), 1))
}

func TestNew_TinyDictionaryHasNonNegativeCosts(t *testing.T) {
	lx, err := New([]string{"a", "b"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, lx.Cost(0), 0.0)
	assert.Greater(t, lx.Cost(1), lx.Cost(0))
}

func TestPenaltyExceedsEveryWordCost(t *testing.T) {
	lx, err := New([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	assert.Equal(t, UnknownCharCost, lx.Penalty())
	for rank := 0; rank < lx.Len(); rank++ {
		assert.Less(t, lx.Cost(rank), lx.Penalty())
	}
}

func TestLookupAndRank(t *testing.T) {
	lx, err := New([]string{"the", "of", "straße", "of"})
	require.NoError(t, err)

	assert.Equal(t, 3, lx.Len())
	assert.Equal(t, 6, lx.MaxWordLen())

	rank, ok := lx.RankOf("THE")
	assert.True(t, ok)
	assert.Equal(t, 0, rank)

	rank, ok = lx.RankOf("Straße")
	assert.True(t, ok)
	assert.Equal(t, 2, rank)

	assert.False(t, lx.IsKnown("missing"))

	c, ok := lx.Lookup("of")
	assert.True(t, ok)
	assert.Equal(t, lx.Cost(1), c)

	_, ok = lx.Lookup("OF")
	assert.False(t, ok, "Lookup expects folded keys")
}

func TestKey(t *testing.T) {
	// "e" followed by a combining acute accent folds to the precomposed form.
	assert.Equal(t, "caf\u00e9", Key("Cafe\u0301"))
	assert.Equal(t, "hello", Key("HeLLo"))
}

func TestWordsReturnsCopy(t *testing.T) {
	lx, err := New([]string{"a", "b"})
	require.NoError(t, err)
	w := lx.Words()
	w[0] = "zzz"
	assert.Equal(t, []string{"a", "b"}, lx.Words())
}
