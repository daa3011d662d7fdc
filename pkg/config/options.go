package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/wordcheck/pkg/errs"
)

// Case modes for word matching.
const (
	CaseSensitive   = "sensitive"
	CaseFallback    = "fallback"
	CaseInsensitive = "insensitive"
)

// MaxDistanceLimit is the largest accepted max-distance.
const MaxDistanceLimit = 3

// KeyKind tells how an option value is parsed.
type KeyKind int

const (
	KindString KeyKind = iota
	KindInt
	KindChoice
)

// KeyInfo describes one engine option.
type KeyInfo struct {
	Name        string
	Kind        KeyKind
	Default     string
	Choices     []string
	Description string
}

var keyTable = []KeyInfo{
	{Name: "language", Kind: KindString, Default: "en", Description: "language tag of the main dictionary"},
	{Name: "dict-path", Kind: KindString, Default: "data/", Description: "main dictionary file or directory"},
	{Name: "personal-path", Kind: KindString, Default: "", Description: "personal dictionary file, empty disables persistence"},
	{Name: "repl-path", Kind: KindString, Default: "", Description: "replacement file, derived from personal-path when empty"},
	{Name: "encoding", Kind: KindString, Default: "utf-8", Description: "text encoding of word lists and personal files"},
	{Name: "case-mode", Kind: KindChoice, Default: CaseFallback, Choices: []string{CaseSensitive, CaseFallback, CaseInsensitive}, Description: "how letter case is matched"},
	{Name: "max-distance", Kind: KindInt, Default: "2", Description: "largest edit distance of suggestions (0-3)"},
	{Name: "phonetic", Kind: KindChoice, Default: "metaphone", Choices: []string{"metaphone", "soundex", "none"}, Description: "phonetic encoder for sound-alike suggestions"},
	{Name: "suggest-limit", Kind: KindInt, Default: "10", Description: "maximum number of suggestions, 0 for no limit"},
}

var keyIndex = func() map[string]KeyInfo {
	m := make(map[string]KeyInfo, len(keyTable))
	for _, k := range keyTable {
		m[k.Name] = k
	}
	return m
}()

// Keys lists every engine option with its default value.
func Keys() []KeyInfo {
	out := make([]KeyInfo, len(keyTable))
	copy(out, keyTable)
	return out
}

// LookupKey returns the description of an option.
func LookupKey(name string) (KeyInfo, bool) {
	k, ok := keyIndex[name]
	return k, ok
}

// Options is the string option map handed to the engine, keyed by the
// names in Keys. Missing keys take their default.
type Options map[string]string

// ParseOption splits a "key=value" flag argument.
func ParseOption(arg string) (string, string, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok {
		return "", "", errs.Option(arg, "expected key=value")
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}

// Set validates and stores one option.
func (o Options) Set(key, value string) error {
	info, ok := keyIndex[key]
	if !ok {
		return errs.Option(key, "unknown option")
	}
	if err := info.check(value); err != nil {
		return err
	}
	o[key] = value
	return nil
}

func (k KeyInfo) check(value string) error {
	switch k.Kind {
	case KindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errs.Option(k.Name, "%q is not an integer", value)
		}
		if n < 0 {
			return errs.Option(k.Name, "must not be negative, got %d", n)
		}
		if k.Name == "max-distance" && n > MaxDistanceLimit {
			return errs.Option(k.Name, "must be at most %d, got %d", MaxDistanceLimit, n)
		}
	case KindChoice:
		for _, c := range k.Choices {
			if strings.EqualFold(c, value) {
				return nil
			}
		}
		return errs.Option(k.Name, "%q is not one of %s", value, strings.Join(k.Choices, ", "))
	}
	return nil
}

// Get returns the value of key, or its default when unset.
func (o Options) Get(key string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return keyIndex[key].Default
}

// SpellerConfig converts the options into a typed configuration, starting
// from DefaultSpellerConfig.
func (o Options) SpellerConfig() (SpellerConfig, error) {
	cfg := DefaultSpellerConfig()
	if err := cfg.Apply(o); err != nil {
		return SpellerConfig{}, err
	}
	return cfg, nil
}

// Apply overrides cfg with the options that are set. Keys are applied in
// sorted order so the first reported error is stable.
func (c *SpellerConfig) Apply(o Options) error {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := o[key]
		info, ok := keyIndex[key]
		if !ok {
			return errs.Option(key, "unknown option")
		}
		if err := info.check(value); err != nil {
			return err
		}
		switch key {
		case "language":
			c.Language = value
		case "dict-path":
			c.DictPath = value
		case "personal-path":
			c.PersonalPath = value
		case "repl-path":
			c.ReplPath = value
		case "encoding":
			c.Encoding = value
		case "case-mode":
			c.CaseMode = strings.ToLower(value)
		case "max-distance":
			c.MaxDistance, _ = strconv.Atoi(value)
		case "phonetic":
			c.Phonetic = strings.ToLower(value)
		case "suggest-limit":
			c.SuggestLimit, _ = strconv.Atoi(value)
		}
	}
	return nil
}

// Options renders cfg back into the string option map.
func (c SpellerConfig) Options() Options {
	return Options{
		"language":      c.Language,
		"dict-path":     c.DictPath,
		"personal-path": c.PersonalPath,
		"repl-path":     c.ReplPath,
		"encoding":      c.Encoding,
		"case-mode":     c.CaseMode,
		"max-distance":  strconv.Itoa(c.MaxDistance),
		"phonetic":      c.Phonetic,
		"suggest-limit": strconv.Itoa(c.SuggestLimit),
	}
}

// Validate checks every field against the option table.
func (c SpellerConfig) Validate() error {
	opts := c.Options()
	for _, k := range keyTable {
		if err := k.check(opts[k.Name]); err != nil {
			return err
		}
	}
	if c.Language == "" {
		return errs.Option("language", "must not be empty")
	}
	return nil
}

func (c SpellerConfig) String() string {
	return fmt.Sprintf("language=%s dict=%s personal=%q case=%s distance=%d phonetic=%s limit=%d",
		c.Language, c.DictPath, c.PersonalPath, c.CaseMode, c.MaxDistance, c.Phonetic, c.SuggestLimit)
}
