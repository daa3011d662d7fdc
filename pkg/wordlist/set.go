/*
Package wordlist holds the mutable word layers that sit on top of the main
dictionary: the persistent personal dictionary, the per-process session
dictionary and the table of remembered replacements.

None of the types here synchronize on their own; the speller owns them and
guards them with its own lock.
*/
package wordlist

import (
	"slices"

	"github.com/bastiangx/wordcheck/pkg/dictionary"
	mapset "github.com/deckarep/golang-set/v2"
)

// set is a word set that also answers case-folded membership.
type set struct {
	words  mapset.Set[string]
	folded map[string]int
}

func newSet() set {
	return set{
		words:  mapset.NewThreadUnsafeSet[string](),
		folded: make(map[string]int),
	}
}

// add reports whether word was not present before.
func (s *set) add(word string) bool {
	if !s.words.Add(word) {
		return false
	}
	s.folded[dictionary.Fold(word)]++
	return true
}

func (s *set) contains(word string) bool {
	return s.words.Contains(word)
}

func (s *set) containsFold(word string) bool {
	return s.folded[dictionary.Fold(word)] > 0
}

func (s *set) len() int {
	return s.words.Cardinality()
}

func (s *set) clear() {
	s.words.Clear()
	clear(s.folded)
}

// list returns the words sorted.
func (s *set) list() []string {
	words := s.words.ToSlice()
	slices.Sort(words)
	return words
}
