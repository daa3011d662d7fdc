package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestKeysMatchDefaults(t *testing.T) {
	defaults := DefaultSpellerConfig().Options()
	keys := Keys()
	require.Len(t, keys, len(defaults))
	for _, k := range keys {
		assert.Equal(t, k.Default, defaults[k.Name], k.Name)
		assert.NotEmpty(t, k.Description, k.Name)
		_, ok := LookupKey(k.Name)
		assert.True(t, ok)
	}
	_, ok := LookupKey("colour")
	assert.False(t, ok)
}

func TestOptionsSpellerConfig(t *testing.T) {
	cfg, err := Options{}.SpellerConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultSpellerConfig(), cfg)

	cfg, err = Options{
		"language":      "de",
		"personal-path": "/tmp/de.pws",
		"case-mode":     "Sensitive",
		"max-distance":  "1",
		"phonetic":      "none",
		"suggest-limit": "0",
	}.SpellerConfig()
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "/tmp/de.pws", cfg.PersonalPath)
	assert.Equal(t, CaseSensitive, cfg.CaseMode)
	assert.Equal(t, 1, cfg.MaxDistance)
	assert.Equal(t, "none", cfg.Phonetic)
	assert.Equal(t, 0, cfg.SuggestLimit)
	assert.Equal(t, "data/", cfg.DictPath, "unset keys keep their default")
}

func TestOptionsErrors(t *testing.T) {
	testCases := []Options{
		{"colour": "blue"},
		{"max-distance": "two"},
		{"max-distance": "4"},
		{"suggest-limit": "-1"},
		{"case-mode": "shouting"},
		{"phonetic": "caverphone"},
	}
	for _, opts := range testCases {
		_, err := opts.SpellerConfig()
		assert.ErrorIs(t, err, errs.ErrInvalidOption, "%v", opts)
	}
}

func TestOptionsSetAndGet(t *testing.T) {
	opts := Options{}
	assert.Equal(t, "en", opts.Get("language"))
	require.NoError(t, opts.Set("language", "fr"))
	assert.Equal(t, "fr", opts.Get("language"))
	assert.ErrorIs(t, opts.Set("nope", "1"), errs.ErrInvalidOption)
	assert.ErrorIs(t, opts.Set("max-distance", "9"), errs.ErrInvalidOption)

	key, value, err := ParseOption("case-mode = insensitive")
	require.NoError(t, err)
	assert.Equal(t, "case-mode", key)
	assert.Equal(t, "insensitive", value)

	_, _, err = ParseOption("case-mode")
	assert.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestValidate(t *testing.T) {
	cfg := DefaultSpellerConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Language = ""
	assert.ErrorIs(t, cfg.Validate(), errs.ErrInvalidOption)

	cfg = DefaultSpellerConfig()
	cfg.MaxDistance = 7
	assert.ErrorIs(t, cfg.Validate(), errs.ErrInvalidOption)
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordcheck", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[speller]
language = "de"
personal_path = "/tmp/de.pws"
max_distance = 1
case_mode = "bogus"

[server]
autosave_every = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Speller.Language)
	assert.Equal(t, "/tmp/de.pws", cfg.Speller.PersonalPath)
	assert.Equal(t, 1, cfg.Speller.MaxDistance)
	assert.Equal(t, CaseFallback, cfg.Speller.CaseMode, "invalid values fall back to defaults")
	assert.Equal(t, 5, cfg.Server.AutosaveEvery)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.Equal(t, 10, cfg.CLI.DefaultLimit)
}

func TestLoadConfigPartialParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// suggest_limit has the wrong type, so strict decoding fails
	content := `
[speller]
language = "nl"
suggest_limit = "many"

[cli]
default_limit = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "nl", cfg.Speller.Language)
	assert.Equal(t, 10, cfg.Speller.SuggestLimit)
	assert.Equal(t, 3, cfg.CLI.DefaultLimit)
}

func TestLoadConfigWithPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cli]\ndefault_limit = 7\n"), 0644))

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 7, cfg.CLI.DefaultLimit)
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig().Speller
	require.NoError(t, cfg.Apply(Options{"dict-path": "/srv/dict", "max-distance": "3"}))
	assert.Equal(t, "/srv/dict", cfg.DictPath)
	assert.Equal(t, 3, cfg.MaxDistance)

	before := cfg
	assert.Error(t, cfg.Apply(Options{"max-distance": "x"}))
	assert.Equal(t, before, cfg)
}
