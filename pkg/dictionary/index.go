/*
Package dictionary holds the main, read-only word index of a language.

An Index is built once, either from dictionary files with Load or from
in-memory entries with Build, and is never mutated afterwards. All methods
are safe for concurrent use without locking.

Supported sources:

	en.txt        plain word list, one word per line, optional frequency column
	en.dic        hunspell dictionary (affix flags are ignored)
	dict_0001.bin chunked binary files, see WriteChunks

Besides membership tests, the index serves the candidate generators of the
speller: CandidatesWithinDistance scans only the length buckets that can hold
a word within the requested edit distance, and PhoneticMatches returns the
words sharing a sound-alike key.
*/
package dictionary

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/distance"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/phonetic"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/cases"
)

// MaxEditDistance is the hard ceiling for candidate enumeration.
const MaxEditDistance = 3

var folder = cases.Fold()

// Fold returns the case-folded form used for case-insensitive matching.
func Fold(word string) string {
	return folder.String(word)
}

// Source describes where the main dictionary comes from.
type Source struct {
	// Path is a dictionary file or a directory holding one per language.
	Path     string
	Language string
	// Encoding is the text encoding of word lists, "" for UTF-8.
	Encoding string
	// Phonetic encodes the phonetic keys; nil disables phonetic matching.
	Phonetic phonetic.Encoder
}

// Candidate is a dictionary word close to a query word.
type Candidate struct {
	Word      string
	Distance  int
	Frequency int
}

// Index is the immutable set of known word forms of one language.
type Index struct {
	language     string
	files        []string
	trie         *patricia.Trie
	freqs        map[string]int
	folded       map[string]struct{}
	byLength     map[int][]string
	sorted       []string
	phoneticKeys map[string][]string
	encoder      phonetic.Encoder
	maxFrequency int
}

// Load reads the dictionary described by src. A missing, unreadable or
// empty source yields a *errs.DictionaryLoadError and no index.
func Load(src Source) (*Index, error) {
	if src.Path == "" {
		return nil, errs.LoadError("", 0, "no dictionary path configured")
	}
	enc, err := utils.LookupEncoding(src.Encoding)
	if err != nil {
		return nil, &errs.DictionaryLoadError{Path: src.Path, Err: err}
	}
	files, format, err := resolveFiles(src.Path, src.Language)
	if err != nil {
		return nil, &errs.DictionaryLoadError{Path: src.Path, Err: err}
	}

	var entries []Entry
	for _, file := range files {
		fileEntries, err := readFile(file, format, enc)
		if err != nil {
			var lerr *errs.DictionaryLoadError
			if !errors.As(err, &lerr) {
				err = &errs.DictionaryLoadError{Path: file, Err: err}
			}
			return nil, err
		}
		entries = append(entries, fileEntries...)
	}
	if len(entries) == 0 {
		return nil, errs.LoadError(src.Path, 0, "dictionary holds no words")
	}

	ix := Build(src.Language, entries, src.Phonetic)
	ix.files = files
	log.Debug("Dictionary loaded", "language", src.Language, "words", ix.Len(), "files", len(files), "format", format)
	return ix, nil
}

// Build creates an index from in-memory entries. Duplicate words keep their
// highest frequency; entries with empty or whitespace-holding words are skipped.
func Build(language string, entries []Entry, enc phonetic.Encoder) *Index {
	if enc == nil {
		enc, _ = phonetic.New(phonetic.None)
	}
	ix := &Index{
		language:     language,
		trie:         patricia.NewTrie(),
		freqs:        make(map[string]int, len(entries)),
		folded:       make(map[string]struct{}, len(entries)),
		byLength:     make(map[int][]string),
		phoneticKeys: make(map[string][]string),
		encoder:      enc,
	}
	for _, e := range entries {
		if e.Word == "" || utils.HasSpace(e.Word) {
			log.Debugf("Skipping malformed dictionary entry %q", e.Word)
			continue
		}
		if old, ok := ix.freqs[e.Word]; ok {
			if e.Frequency > old {
				ix.freqs[e.Word] = e.Frequency
				ix.trie.Set(patricia.Prefix(e.Word), e.Frequency)
			}
			continue
		}
		ix.freqs[e.Word] = e.Frequency
		ix.trie.Insert(patricia.Prefix(e.Word), e.Frequency)
		ix.folded[Fold(e.Word)] = struct{}{}
		n := utf8.RuneCountInString(e.Word)
		ix.byLength[n] = append(ix.byLength[n], e.Word)
		for _, key := range enc.Keys(e.Word) {
			ix.phoneticKeys[key] = append(ix.phoneticKeys[key], e.Word)
		}
		ix.sorted = append(ix.sorted, e.Word)
	}
	for _, freq := range ix.freqs {
		ix.maxFrequency = max(ix.maxFrequency, freq)
	}
	slices.Sort(ix.sorted)
	for _, bucket := range ix.byLength {
		slices.Sort(bucket)
	}
	return ix
}

// FromWords builds an index of words with the default frequency.
func FromWords(language string, enc phonetic.Encoder, words ...string) *Index {
	entries := make([]Entry, len(words))
	for i, w := range words {
		entries[i] = Entry{Word: w, Frequency: DefaultFrequency}
	}
	return Build(language, entries, enc)
}

// Language returns the language tag the index was loaded for.
func (ix *Index) Language() string { return ix.language }

// Encoder returns the phonetic encoder the keys were built with.
func (ix *Index) Encoder() phonetic.Encoder { return ix.encoder }

// Len returns the number of distinct words.
func (ix *Index) Len() int { return len(ix.freqs) }

// Contains reports whether word is a known form, matched exactly.
func (ix *Index) Contains(word string) bool {
	_, ok := ix.freqs[word]
	return ok
}

// ContainsFold reports whether a known form equals word under case folding.
func (ix *Index) ContainsFold(word string) bool {
	_, ok := ix.folded[Fold(word)]
	return ok
}

// Frequency returns the frequency score of word, 0 when unknown.
func (ix *Index) Frequency(word string) int {
	return ix.freqs[word]
}

// Words yields every word in lexicographic order.
func (ix *Index) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, w := range ix.sorted {
			if !yield(w) {
				return
			}
		}
	}
}

// CandidatesWithinDistance lazily yields the words whose edit distance to
// word is at most maxDistance, shortest length bucket first. maxDistance is
// clamped to [0, MaxEditDistance].
func (ix *Index) CandidatesWithinDistance(word string, maxDistance int) iter.Seq[Candidate] {
	maxDistance = max(0, min(maxDistance, MaxEditDistance))
	n := utf8.RuneCountInString(word)
	return func(yield func(Candidate) bool) {
		for l := max(1, n-maxDistance); l <= n+maxDistance; l++ {
			for _, w := range ix.byLength[l] {
				d, ok := distance.Within(word, w, maxDistance)
				if !ok {
					continue
				}
				if !yield(Candidate{Word: w, Distance: d, Frequency: ix.freqs[w]}) {
					return
				}
			}
		}
	}
}

// PhoneticMatches returns the words sharing any phonetic key with word.
func (ix *Index) PhoneticMatches(word string) []string {
	keys := ix.encoder.Keys(word)
	switch len(keys) {
	case 0:
		return nil
	case 1:
		return ix.phoneticKeys[keys[0]]
	}
	seen := make(map[string]struct{})
	var out []string
	for _, key := range keys {
		for _, w := range ix.phoneticKeys[key] {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}

// Stats returns statistics about the loaded dictionary
func (ix *Index) Stats() map[string]int {
	return map[string]int{
		"totalWords":   ix.Len(),
		"maxFrequency": ix.maxFrequency,
		"phoneticKeys": len(ix.phoneticKeys),
		"files":        len(ix.files),
	}
}

func (ix *Index) String() string {
	return fmt.Sprintf("dictionary.Index{language: %s, words: %d}", ix.language, ix.Len())
}
