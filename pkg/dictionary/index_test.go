package dictionary

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/phonetic"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var exampleWords = []string{"word", "flower", "tree", "rock", "cat", "winter"}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func metaphone(t *testing.T) phonetic.Encoder {
	t.Helper()
	enc, err := phonetic.New(phonetic.Metaphone)
	require.NoError(t, err)
	return enc
}

func TestFromWords(t *testing.T) {
	ix := FromWords("en", nil, exampleWords...)

	assert.Equal(t, 6, ix.Len())
	for _, w := range exampleWords {
		assert.True(t, ix.Contains(w), w)
	}
	assert.False(t, ix.Contains("misteke"))
	assert.False(t, ix.Contains("Tree"), "Contains is exact")
	assert.True(t, ix.ContainsFold("Tree"))
	assert.True(t, ix.ContainsFold("WINTER"))
	assert.Equal(t, DefaultFrequency, ix.Frequency("cat"))
	assert.Equal(t, 0, ix.Frequency("dog"))
	assert.Equal(t, "en", ix.Language())
	assert.Equal(t, phonetic.None, ix.Encoder().Name())
}

func TestBuildKeepsHighestFrequency(t *testing.T) {
	ix := Build("en", []Entry{
		{Word: "tree", Frequency: 5},
		{Word: "tree", Frequency: 50},
		{Word: "tree", Frequency: 7},
		{Word: "", Frequency: 9},
		{Word: "two words", Frequency: 9},
	}, nil)

	assert.Equal(t, 1, ix.Len())
	assert.Equal(t, 50, ix.Frequency("tree"))
	completions := ix.Complete("tr", 0)
	require.Len(t, completions, 1)
	assert.Equal(t, 50, completions[0].Frequency)
	assert.Equal(t, 50, ix.Stats()["maxFrequency"])
}

func TestWordsSorted(t *testing.T) {
	ix := FromWords("en", nil, exampleWords...)
	words := slices.Collect(ix.Words())
	assert.Equal(t, []string{"cat", "flower", "rock", "tree", "winter", "word"}, words)
}

func TestCandidatesWithinDistance(t *testing.T) {
	ix := FromWords("en", nil, exampleWords...)

	found := map[string]int{}
	for c := range ix.CandidatesWithinDistance("tre", 2) {
		found[c.Word] = c.Distance
	}
	assert.Equal(t, 1, found["tree"])
	assert.NotContains(t, found, "winter")
	assert.NotContains(t, found, "flower")

	found = map[string]int{}
	for c := range ix.CandidatesWithinDistance("tree", 0) {
		found[c.Word] = c.Distance
	}
	assert.Equal(t, map[string]int{"tree": 0}, found)

	// clamped to MaxEditDistance
	for c := range ix.CandidatesWithinDistance("cat", 10) {
		assert.LessOrEqual(t, c.Distance, MaxEditDistance)
	}
}

func TestCandidatesStopEarly(t *testing.T) {
	ix := FromWords("en", nil, "cat", "bat", "hat", "mat", "rat")
	n := 0
	for range ix.CandidatesWithinDistance("zat", 1) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestPhoneticMatches(t *testing.T) {
	ix := FromWords("en", metaphone(t), "phonetic", "night", "tree")

	assert.Contains(t, ix.PhoneticMatches("fonetik"), "phonetic")
	assert.Contains(t, ix.PhoneticMatches("nite"), "night")
	assert.Empty(t, ix.PhoneticMatches("xyzzy"))

	plain := FromWords("en", nil, "phonetic")
	assert.Empty(t, plain.PhoneticMatches("fonetik"))
}

func TestLoadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "en.txt", "# sample\nword 100\n\nflower\ntree 7\r\nrock\ncat\nwinter\n")

	ix, err := Load(Source{Path: path, Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, 6, ix.Len())
	assert.Equal(t, 100, ix.Frequency("word"))
	assert.Equal(t, 7, ix.Frequency("tree"))
	assert.Equal(t, DefaultFrequency, ix.Frequency("cat"))
}

func TestLoadResolvesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en.txt", "word\ntree\n")
	writeFile(t, dir, "de.dic", "2\nBaum/S\nWort/P\n")

	ix, err := Load(Source{Path: dir, Language: "en"})
	require.NoError(t, err)
	assert.True(t, ix.Contains("tree"))

	ix, err = Load(Source{Path: dir, Language: "de"})
	require.NoError(t, err)
	assert.True(t, ix.Contains("Baum"))
	assert.True(t, ix.Contains("Wort"))
	assert.Equal(t, 2, ix.Len())
}

func TestLoadHunspellEscapedSlash(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "en.dic", "3\nand\\/or\nwalk/DSG\ncolour po:noun\n")

	ix, err := Load(Source{Path: path})
	require.NoError(t, err)
	assert.True(t, ix.Contains("and/or"))
	assert.True(t, ix.Contains("walk"))
	assert.True(t, ix.Contains("colour"))
}

func TestLoadLatin1(t *testing.T) {
	dir := t.TempDir()
	// "café" in ISO-8859-1
	path := writeFile(t, dir, "fr.txt", "caf\xe9\n")

	ix, err := Load(Source{Path: path, Encoding: "iso-8859-1"})
	require.NoError(t, err)
	assert.True(t, ix.Contains("café"))

	_, err = Load(Source{Path: path})
	assert.ErrorIs(t, err, errs.ErrDictionaryLoad, "latin-1 bytes are not UTF-8")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		name    string
		source  Source
		line    int
		content string
	}{
		{name: "missing file", source: Source{Path: filepath.Join(dir, "nope.txt")}},
		{name: "empty path", source: Source{}},
		{name: "no language file", source: Source{Path: dir, Language: "xx"}},
		{name: "unknown encoding", source: Source{Path: dir, Language: "en", Encoding: "klingon"}},
		{name: "bad frequency", content: "word\ntree many\n", line: 2},
		{name: "too many fields", content: "word 1 2\n", line: 1},
		{name: "negative frequency", content: "word -4\n", line: 1},
		{name: "only comments", content: "# nothing\n\n"},
	}
	writeFile(t, dir, "en.txt", "word\n")

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := tc.source
			if tc.content != "" {
				src = Source{Path: writeFile(t, dir, filepath.Join("bad", string(rune('a'+i))+".txt"), tc.content)}
			}
			ix, err := Load(src)
			require.Error(t, err)
			assert.Nil(t, ix)
			assert.ErrorIs(t, err, errs.ErrDictionaryLoad)

			var lerr *errs.DictionaryLoadError
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, tc.line, lerr.Line)
		})
	}
}

func TestChunksRoundTrip(t *testing.T) {
	dir := t.TempDir()
	entries := []Entry{{Word: "the"}, {Word: "flower"}, {Word: "tree"}, {Word: "winter"}, {Word: "rock"}}

	files, err := WriteChunks(filepath.Join(dir, "en"), entries, 2)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "dict_0001.bin", filepath.Base(files[0]))
	assert.Equal(t, "dict_0003.bin", filepath.Base(files[2]))
	for _, f := range files {
		assert.NoError(t, ValidateFileFormat(f, FormatChunk))
	}

	ix, err := Load(Source{Path: dir, Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, 5, ix.Len())
	assert.Equal(t, 65535, ix.Frequency("the"), "rank 1 gets the top score")
	assert.Equal(t, 65531, ix.Frequency("rock"))

	completions := ix.Complete("t", 0)
	require.Len(t, completions, 2)
	assert.Equal(t, "the", completions[0].Word)
}

func TestCorruptChunk(t *testing.T) {
	dir := t.TempDir()
	// header announces two entries, body is cut short
	writeFile(t, dir, "dict_0001.bin", "\x02\x00\x00\x00\x03\x00cat\x01\x00\x05\x00")

	_, err := Load(Source{Path: dir})
	assert.ErrorIs(t, err, errs.ErrDictionaryLoad)
}

func TestReadEntriesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "list.txt", "zebra\napple 3\nmango\napple 9\n")

	entries, err := ReadEntries(path, "")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "zebra", entries[0].Word)

	SortByFrequency(entries)
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}
	assert.Equal(t, []string{"apple", "apple", "zebra", "mango"}, words)
	assert.Equal(t, 9, entries[0].Frequency)
}

func TestDetectFileFormat(t *testing.T) {
	assert.Equal(t, FormatHunspell, DetectFileFormat("en_US.DIC"))
	assert.Equal(t, FormatChunk, DetectFileFormat("dict_0001.bin"))
	assert.Equal(t, FormatText, DetectFileFormat("words"))
	assert.Equal(t, FormatText, DetectFileFormat("en.txt"))
	assert.Equal(t, "Hunspell Dictionary", FormatHunspell.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
