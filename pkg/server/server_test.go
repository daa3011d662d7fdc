package server

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/phonetic"
	"github.com/bastiangx/wordcheck/pkg/speller"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

// reply holds either a Response or an ErrorResponse.
type reply struct {
	ID          string         `msgpack:"id"`
	OK          bool           `msgpack:"ok"`
	Suggestions []Suggestion   `msgpack:"s"`
	Count       int            `msgpack:"c"`
	Stats       map[string]int `msgpack:"st"`
	Error       string         `msgpack:"e"`
	Code        int            `msgpack:"code"`
}

func (r reply) words() []string {
	words := make([]string, len(r.Suggestions))
	for i, s := range r.Suggestions {
		words[i] = s.Word
	}
	return words
}

func newTestSpeller(t *testing.T, personalPath string) *speller.Speller {
	t.Helper()
	enc, err := phonetic.New(phonetic.Metaphone)
	require.NoError(t, err)
	index := dictionary.FromWords("en", enc, "word", "flower", "flow", "tree", "rock", "cat", "winter")

	cfg := config.DefaultSpellerConfig()
	cfg.PersonalPath = personalPath
	sp, err := speller.NewWithIndex(cfg, index)
	require.NoError(t, err)
	t.Cleanup(func() { sp.Close() })
	return sp
}

func encodeRequests(t *testing.T, reqs ...Request) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}
	return &buf
}

func decodeReplies(t *testing.T, r io.Reader) []reply {
	t.Helper()
	dec := msgpack.NewDecoder(r)
	var replies []reply
	for {
		var rep reply
		err := dec.Decode(&rep)
		if errors.Is(err, io.EOF) {
			return replies
		}
		require.NoError(t, err)
		replies = append(replies, rep)
	}
}

func run(t *testing.T, sp *speller.Speller, cfg config.ServerConfig, reqs ...Request) []reply {
	t.Helper()
	var out bytes.Buffer
	srv := NewServerIO(sp, cfg, encodeRequests(t, reqs...), &out)
	require.NoError(t, srv.Start())
	replies := decodeReplies(t, &out)
	require.Len(t, replies, len(reqs))
	for i, rep := range replies {
		assert.Equal(t, reqs[i].ID, rep.ID)
	}
	return replies
}

func TestCheckAndSuggest(t *testing.T) {
	sp := newTestSpeller(t, "")
	replies := run(t, sp, config.DefaultConfig().Server,
		Request{ID: "1", Op: OpCheck, Word: "tree"},
		Request{ID: "2", Op: OpCheck, Word: "misteke"},
		Request{ID: "3", Op: OpSuggest, Word: "tre"},
		Request{ID: "4", Op: OpSuggest, Word: "flowr", Limit: 1},
		Request{ID: "5", Op: OpSuggest, Word: "flower"},
		Request{ID: "6", Op: OpHealth},
	)

	assert.True(t, replies[0].OK)
	assert.False(t, replies[1].OK)
	assert.Zero(t, replies[1].Code)

	require.NotEmpty(t, replies[2].Suggestions)
	assert.Equal(t, "tree", replies[2].Suggestions[0].Word)
	assert.Equal(t, uint16(1), replies[2].Suggestions[0].Rank)

	assert.Equal(t, []string{"flower"}, replies[3].words())
	assert.Equal(t, 1, replies[3].Count)
	assert.Equal(t, []string{"flower"}, replies[4].words())
	assert.True(t, replies[5].OK)
}

func TestWordLists(t *testing.T) {
	sp := newTestSpeller(t, "")
	replies := run(t, sp, config.DefaultConfig().Server,
		Request{ID: "1", Op: OpAddSession, Word: "golang"},
		Request{ID: "2", Op: OpAddPersonal, Word: "kubectl"},
		Request{ID: "3", Op: OpCheck, Word: "golang"},
		Request{ID: "4", Op: OpSessionWords},
		Request{ID: "5", Op: OpPersonalWords},
		Request{ID: "6", Op: OpClearSession},
		Request{ID: "7", Op: OpCheck, Word: "golang"},
		Request{ID: "8", Op: OpStats},
	)

	assert.True(t, replies[0].OK)
	assert.True(t, replies[1].OK)
	assert.True(t, replies[2].OK)
	assert.Equal(t, []string{"golang"}, replies[3].words())
	assert.Equal(t, []string{"kubectl"}, replies[4].words())
	assert.True(t, replies[5].OK)
	assert.False(t, replies[6].OK)
	assert.Equal(t, 7, replies[7].Stats["totalWords"])
	assert.Equal(t, 1, replies[7].Stats["personalWords"])
	assert.Equal(t, 0, replies[7].Stats["sessionWords"])
}

func TestReplaceAndComplete(t *testing.T) {
	sp := newTestSpeller(t, "")
	replies := run(t, sp, config.DefaultConfig().Server,
		Request{ID: "1", Op: OpReplace, Word: "wrod", Correction: "winter"},
		Request{ID: "2", Op: OpSuggest, Word: "wrod"},
		Request{ID: "3", Op: OpComplete, Word: "flo"},
		Request{ID: "4", Op: OpComplete, Word: "flo", Limit: 1},
	)

	assert.True(t, replies[0].OK)
	require.NotEmpty(t, replies[1].Suggestions)
	assert.Equal(t, "winter", replies[1].Suggestions[0].Word)
	assert.Contains(t, replies[1].words(), "word")
	assert.ElementsMatch(t, []string{"flow", "flower"}, replies[2].words())
	assert.Len(t, replies[3].Suggestions, 1)
}

func TestBadRequests(t *testing.T) {
	sp := newTestSpeller(t, "")
	cfg := config.DefaultConfig().Server
	cfg.MaxWordLen = 10
	replies := run(t, sp, cfg,
		Request{ID: "1", Op: "spellcheck", Word: "tree"},
		Request{ID: "2", Op: OpCheck, Word: "two words"},
		Request{ID: "3", Op: OpSuggest, Word: ""},
		Request{ID: "4", Op: OpCheck, Word: strings.Repeat("a", 11)},
		Request{ID: "5", Op: OpReplace, Word: "wrod"},
		Request{ID: "6", Op: OpCheck, Word: "tree"},
	)

	for _, rep := range replies[:5] {
		assert.Equal(t, CodeBadRequest, rep.Code, rep.ID)
		assert.NotEmpty(t, rep.Error, rep.ID)
	}
	assert.Contains(t, replies[0].Error, "unknown op")
	assert.Contains(t, replies[3].Error, "maximum length")
	assert.True(t, replies[5].OK, "the server keeps going after a bad request")
}

func TestMalformedRequest(t *testing.T) {
	sp := newTestSpeller(t, "")
	var in bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&in).Encode("not a request"))

	var out bytes.Buffer
	err := NewServerIO(sp, config.DefaultConfig().Server, &in, &out).Start()
	require.Error(t, err)

	replies := decodeReplies(t, &out)
	require.Len(t, replies, 1)
	assert.Equal(t, CodeBadRequest, replies[0].Code)
}

func TestSaveFailureIsInternalError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dict")
	sp := newTestSpeller(t, filepath.Join(dir, "en.pws"))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0644))

	replies := run(t, sp, config.ServerConfig{},
		Request{ID: "1", Op: OpAddPersonal, Word: "kubectl"},
		Request{ID: "2", Op: OpSave},
	)
	assert.True(t, replies[0].OK)
	assert.Equal(t, CodeInternal, replies[1].Code)
}

func TestAutosave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.pws")
	sp := newTestSpeller(t, path)
	cfg := config.DefaultConfig().Server
	cfg.AutosaveEvery = 2

	run(t, sp, cfg,
		Request{ID: "1", Op: OpAddPersonal, Word: "kubectl"},
		Request{ID: "2", Op: OpAddPersonal, Word: "golang"},
		Request{ID: "3", Op: OpAddPersonal, Word: "wordcheck"},
	)
	assert.False(t, sp.Dirty(), "remaining words are saved when the input ends")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "personal_ws-1.1 en 3 utf-8\ngolang\nkubectl\nwordcheck\n", string(data))
}

func TestExplicitSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.pws")
	sp := newTestSpeller(t, path)

	replies := run(t, sp, config.ServerConfig{},
		Request{ID: "1", Op: OpAddPersonal, Word: "kubectl"},
		Request{ID: "2", Op: OpReplace, Word: "kubctl", Correction: "kubectl"},
		Request{ID: "3", Op: OpSave},
	)
	assert.True(t, replies[2].OK)
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "en.prepl"))
}

func TestClearPersonal(t *testing.T) {
	sp := newTestSpeller(t, "")
	replies := run(t, sp, config.DefaultConfig().Server,
		Request{ID: "1", Op: OpAddPersonal, Word: "kubectl"},
		Request{ID: "2", Op: OpClearPersonal},
		Request{ID: "3", Op: OpPersonalWords},
		Request{ID: "4", Op: OpCheck, Word: "kubectl"},
	)
	assert.True(t, replies[1].OK)
	assert.Empty(t, replies[2].Suggestions)
	assert.False(t, replies[3].OK)
}
