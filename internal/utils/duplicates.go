package utils

import (
	"math"
	"strings"
)

// SuggestionFilter drops repeated suggestions while keeping first-seen order.
type SuggestionFilter struct {
	seenWords map[string]bool
	exact     bool
}

// NewSuggestionFilter creates a new filter instance that will exclude the given
// words. Words differing only in case count as duplicates.
func NewSuggestionFilter(exclude ...string) *SuggestionFilter {
	return newSuggestionFilter(false, exclude)
}

// NewExactSuggestionFilter is NewSuggestionFilter for case-sensitive lookups,
// where "Word" and "word" are different suggestions.
func NewExactSuggestionFilter(exclude ...string) *SuggestionFilter {
	return newSuggestionFilter(true, exclude)
}

func newSuggestionFilter(exact bool, exclude []string) *SuggestionFilter {
	f := &SuggestionFilter{
		seenWords: make(map[string]bool, len(exclude)+8),
		exact:     exact,
	}
	for _, w := range exclude {
		f.seenWords[f.key(w)] = true
	}
	return f
}

func (f *SuggestionFilter) key(word string) string {
	if f.exact {
		return word
	}
	return strings.ToLower(word)
}

// ShouldInclude checks if a word should be included in results (not a duplicate)
// Returns true if the word should be included, false if it's a duplicate
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	key := f.key(word)
	if f.seenWords[key] {
		return false
	}
	f.seenWords[key] = true
	return true
}

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items.
// Useful for ranking items that are already sorted.
// Ranks past math.MaxUint16 stay at math.MaxUint16.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range count {
		ranks[i] = uint16(min(i+1, math.MaxUint16))
	}
	return ranks
}
