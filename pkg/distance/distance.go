// Package distance computes restricted Damerau–Levenshtein (optimal string
// alignment) distances between words, with a cutoff for callers that only
// care about near words.
package distance

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Bounded returns the OSA distance between a and b counting single-rune
// insertions, deletions, substitutions and transpositions of adjacent runes.
// Distances above max are reported as max+1.
func Bounded(a, b string, max int) int {
	if max < 0 {
		max = 0
	}
	if a == b {
		return 0
	}
	// the length difference is a lower bound on the distance
	if diff := utf8.RuneCountInString(a) - utf8.RuneCountInString(b); diff > max || -diff > max {
		return max + 1
	}
	return min(edlib.OSADamerauLevenshteinDistance(a, b), max+1)
}

// Distance is the unbounded OSA distance.
func Distance(a, b string) int {
	return edlib.OSADamerauLevenshteinDistance(a, b)
}

// Within reports the distance and whether it is at most max.
func Within(a, b string, max int) (int, bool) {
	d := Bounded(a, b, max)
	return d, d <= max
}
