package distance

import (
	"fmt"
	"testing"

	"github.com/antzucaro/matchr"
	"github.com/hbollon/go-edlib"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"tree", "tree", 0},
		{"tre", "tree", 1},
		{"wrod", "word", 1},
		{"wrod", "trod", 1},
		{"ca", "abc", 3},
		{"kitten", "sitting", 3},
		{"misteke", "mistake", 1},
		{"fonetik", "phonetic", 3},
		{"über", "uber", 1},
		{"naïve", "naive", 1},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s", tc.a, tc.b), func(t *testing.T) {
			assert.Equal(t, tc.expected, Distance(tc.a, tc.b))
			assert.Equal(t, tc.expected, Distance(tc.b, tc.a), "distance must be symmetric")
		})
	}
}

func TestBoundedCutoff(t *testing.T) {
	assert.Equal(t, 3, Bounded("kitten", "sitting", 3))
	assert.Equal(t, 3, Bounded("kitten", "sitting", 2), "over the bound yields max+1")
	assert.Equal(t, 1, Bounded("a", "abcdef", 0), "length difference alone exceeds max")
	assert.Equal(t, 1, Bounded("abc", "abd", -1), "negative bound is treated as zero")

	d, ok := Within("flower", "flowr", 1)
	assert.True(t, ok)
	assert.Equal(t, 1, d)

	_, ok = Within("winter", "water", 1)
	assert.False(t, ok)
}

// The bounded version must agree with an independent OSA implementation
// whenever the distance is inside the bound.
func TestMatchesReferenceOSA(t *testing.T) {
	words := []string{
		"word", "wrod", "trod", "flower", "flowr", "folwer", "tree", "tre",
		"rock", "rokc", "cat", "act", "winter", "wintre", "misteke", "mistake",
		"ab", "ba", "abc", "ca", "receive", "recieve", "separate", "seperate",
	}
	for _, a := range words {
		for _, b := range words {
			expected := matchr.OSA(a, b)
			for max := 0; max <= 3; max++ {
				d, ok := Within(a, b, max)
				if expected <= max {
					assert.True(t, ok, "%s/%s max=%d", a, b, max)
					assert.Equal(t, expected, d, "%s/%s max=%d", a, b, max)
				} else {
					assert.False(t, ok, "%s/%s max=%d", a, b, max)
					assert.Equal(t, max+1, d, "%s/%s max=%d", a, b, max)
				}
			}
		}
	}
}

func TestAgreesWithEdlib(t *testing.T) {
	pairs := [][2]string{
		{"flowr", "flower"}, {"recieve", "receive"}, {"ca", "abc"},
		{"international", "internationl"}, {"", "word"}, {"wrod", "word"},
	}
	for _, p := range pairs {
		expected := edlib.OSADamerauLevenshteinDistance(p[0], p[1])
		assert.Equal(t, expected, Distance(p[0], p[1]), "%s/%s", p[0], p[1])
		assert.Equal(t, matchr.OSA(p[0], p[1]), expected, "%s/%s", p[0], p[1])
	}
}

func BenchmarkBounded(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Bounded("internationl", "international", 2)
	}
}
