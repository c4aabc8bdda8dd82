package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("naruto", "naruto"))
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	assert.Equal(t, 0.0, Similarity("naruto", ""))
	assert.Equal(t, 0.0, Similarity("", "naruto"))
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "death note", "death parade"
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestSimilarityKnownRatios(t *testing.T) {
	// LCS("abcd", "abed") = 3, ratio = 2*3/8
	assert.InDelta(t, 0.75, Similarity("abcd", "abed"), 1e-9)

	// LCS("naruto", "boruto") = 4 ("ruto"), ratio = 2*4/12
	assert.InDelta(t, 2.0/3.0, Similarity("naruto", "boruto"), 1e-9)
}

func TestSimilarityPrefixQuery(t *testing.T) {
	// A short query against the full title it abbreviates clears 0.7
	got := Similarity("fullmetal alchemist", "fullmetal alchemist brotherhood")
	assert.Greater(t, got, 0.7)

	// But not against an unrelated long title
	assert.Less(t, Similarity("fullmetal alchemist", "legend of the galactic heroes"), 0.7)
}

func TestSimilarityUnicode(t *testing.T) {
	// Rune-based, so multibyte titles compare by character not byte
	assert.Equal(t, 1.0, Similarity("進撃の巨人", "進撃の巨人"))
	assert.InDelta(t, 0.8, Similarity("進撃の巨人", "進撃の巨"), 1e-9)
}
