/*
Package speller checks words against a layered dictionary and ranks
corrections for the ones it does not know.

A word is known when it is in the session list, the personal dictionary or
the main dictionary, looked up in that order. The main dictionary is a
shared, read-only *dictionary.Index; the personal and session lists and the
replacement table belong to one Speller.

	sp, err := speller.New(config.DefaultSpellerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer sp.Close()

	ok, _ := sp.Check("flower")
	suggestions, _ := sp.Suggest("flowr")

Suggestions are gathered from two generators: words within the configured
edit distance and words that sound alike. They are ranked by distance, then
sound-alike matches first, then length difference, then frequency. A
correction the user picked earlier with RecordReplacement always comes
first.

A Speller is safe for concurrent use.
*/
package speller

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/config"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/phonetic"
	"github.com/bastiangx/wordcheck/pkg/wordlist"
	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
)

// ErrClosed is returned by operations on a closed Speller.
var ErrClosed = errors.New("speller is closed")

// Speller is the spell checking engine of one language.
type Speller struct {
	mu       sync.RWMutex
	cfg      config.SpellerConfig
	index    *dictionary.Index
	encoder  phonetic.Encoder
	personal *wordlist.Personal
	session  *wordlist.Session
	repl     *wordlist.Replacements
	closed   bool
}

// New loads the main dictionary and the personal files named by cfg.
func New(cfg config.SpellerConfig) (*Speller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := phonetic.New(cfg.Phonetic)
	if err != nil {
		return nil, errs.Option("phonetic", "%v", err)
	}
	index, err := dictionary.Load(dictionary.Source{
		Path:     cfg.DictPath,
		Language: cfg.Language,
		Encoding: cfg.Encoding,
		Phonetic: enc,
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %s", index)
	return NewWithIndex(cfg, index)
}

// NewFromOptions builds the configuration from a string option map and
// calls New.
func NewFromOptions(opts config.Options) (*Speller, error) {
	cfg, err := opts.SpellerConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// NewWithIndex creates a Speller on top of an already loaded index, which
// may be shared with other spellers. Sound-alike matching uses the encoder
// the index was built with.
func NewWithIndex(cfg config.SpellerConfig, index *dictionary.Index) (*Speller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if index == nil {
		return nil, errs.LoadError(cfg.DictPath, 0, "no dictionary index")
	}
	if name := index.Encoder().Name(); !strings.EqualFold(name, cfg.Phonetic) {
		log.Debugf("Index was built with %s keys, ignoring phonetic=%s", name, cfg.Phonetic)
	}

	personal, err := wordlist.LoadPersonal(cfg.PersonalPath, cfg.Language, cfg.Encoding)
	if err != nil {
		return nil, err
	}
	replPath := cfg.ReplPath
	if replPath == "" {
		replPath = wordlist.DefaultReplPath(cfg.PersonalPath)
	}
	repl, err := wordlist.LoadReplacements(replPath, cfg.Language, cfg.Encoding)
	if err != nil {
		return nil, err
	}

	log.Debug("Speller ready", "language", cfg.Language, "words", index.Len(), "personal", personal.Len(), "replacements", repl.Len())
	return &Speller{
		cfg:      cfg,
		index:    index,
		encoder:  index.Encoder(),
		personal: personal,
		session:  wordlist.NewSession(),
		repl:     repl,
	}, nil
}

// validateWord normalizes word to NFC or explains why it is not a word.
func validateWord(word string) (string, error) {
	switch {
	case word == "":
		return "", &errs.InvalidWordError{Word: word, Reason: "empty"}
	case !utf8.ValidString(word):
		return "", &errs.InvalidWordError{Word: word, Reason: "not valid UTF-8"}
	case utils.HasSpace(word):
		return "", &errs.InvalidWordError{Word: word, Reason: "contains whitespace"}
	}
	return norm.NFC.String(word), nil
}

// Check reports whether word is known to any dictionary layer.
func (s *Speller) Check(word string) (bool, error) {
	w, err := validateWord(word)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.known(w), nil
}

// Contains is Check without the error: input that is not a word is unknown.
func (s *Speller) Contains(word string) bool {
	ok, err := s.Check(word)
	return err == nil && ok
}

func (s *Speller) known(w string) bool {
	if s.knownExact(w) {
		return true
	}
	switch s.cfg.CaseMode {
	case config.CaseFallback:
		if lower := strings.ToLower(w); lower != w {
			return s.knownExact(lower)
		}
	case config.CaseInsensitive:
		return s.session.ContainsFold(w) || s.personal.ContainsFold(w) || s.index.ContainsFold(w)
	}
	return false
}

func (s *Speller) knownExact(w string) bool {
	return s.session.Contains(w) || s.personal.Contains(w) || s.index.Contains(w)
}

// AddToSession accepts word until the Speller is closed or the session is
// cleared.
func (s *Speller) AddToSession(word string) error {
	w, err := validateWord(word)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.session.Add(w) {
		log.Debugf("Added %q to session", w)
	}
	return nil
}

// AddToPersonal adds word to the personal dictionary. The file is written
// by SaveAllWords.
func (s *Speller) AddToPersonal(word string) error {
	w, err := validateWord(word)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.personal.Add(w) {
		log.Debugf("Added %q to personal dictionary", w)
	}
	return nil
}

// SessionWords returns the session words sorted.
func (s *Speller) SessionWords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	return s.session.List()
}

// PersonalWords returns the personal words sorted.
func (s *Speller) PersonalWords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	return s.personal.List()
}

// ClearSession forgets every session word.
func (s *Speller) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.session.Clear()
}

// ClearPersonal empties the personal dictionary in memory; the file keeps
// its words until the next SaveAllWords.
func (s *Speller) ClearPersonal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.personal.Clear()
}

// SaveAllWords writes the personal dictionary and the replacement table.
// Both are attempted; their errors are joined.
func (s *Speller) SaveAllWords() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	var replErr error
	if s.repl.Dirty() || s.repl.Len() > 0 {
		replErr = s.repl.Save()
	}
	return errors.Join(s.personal.Save(), replErr)
}

// Dirty reports whether SaveAllWords has anything new to write.
func (s *Speller) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && (s.personal.Dirty() || s.repl.Dirty())
}

// RecordReplacement remembers that misspelling was corrected to correction.
// Later suggestions for misspelling list correction first.
func (s *Speller) RecordReplacement(misspelling, correction string) error {
	mis, err := validateWord(misspelling)
	if err != nil {
		return err
	}
	cor, err := validateWord(correction)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.repl.Record(mis, cor)
	log.Debugf("Recorded replacement %q -> %q", mis, cor)
	return nil
}

// Complete returns main dictionary words that start with prefix.
func (s *Speller) Complete(prefix string, limit int) []dictionary.Completion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	return s.index.Complete(prefix, limit)
}

// Stats returns counters about every dictionary layer.
func (s *Speller) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return map[string]int{}
	}
	stats := s.index.Stats()
	stats["personalWords"] = s.personal.Len()
	stats["sessionWords"] = s.session.Len()
	stats["replacements"] = s.repl.Len()
	return stats
}

// Config returns the configuration the Speller was created with.
func (s *Speller) Config() config.SpellerConfig {
	return s.cfg
}

// Index returns the main dictionary, for sharing with another Speller.
func (s *Speller) Index() *dictionary.Index {
	return s.index
}

// Close releases the Speller. Unsaved personal words are discarded; call
// SaveAllWords first to keep them.
func (s *Speller) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.personal.Dirty() || s.repl.Dirty() {
		log.Warn("Closing speller with unsaved personal words")
	}
	s.closed = true
	s.session.Clear()
	return nil
}
