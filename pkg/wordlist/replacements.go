package wordlist

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/unicode/norm"
)

// Replacement is one remembered correction.
type Replacement struct {
	Misspelling string
	Correction  string
	seq         uint64
}

// Replacements remembers which correction the user picked for a
// misspelling. Recording the same misspelling again overwrites the old
// correction and makes it the most recent one.
//
// On disk the table uses the aspell personal_repl-1.1 format, oldest pair
// first so that reloading keeps the recency order:
//
//	personal_repl-1.1 en 0 utf-8
//	wrod trod
type Replacements struct {
	path     string
	language string
	enc      encoding.Encoding
	entries  map[string]*Replacement
	seq      uint64
	dirty    bool
}

// NewReplacements returns an empty table that saves to path. An empty path
// keeps the table in memory only.
func NewReplacements(path, language string, enc encoding.Encoding) *Replacements {
	return &Replacements{
		path:     path,
		language: language,
		enc:      enc,
		entries:  make(map[string]*Replacement),
	}
}

// DefaultReplPath derives the replacement file from the personal
// dictionary path: foo.pws becomes foo.prepl, anything else gets .prepl
// appended.
func DefaultReplPath(personalPath string) string {
	if personalPath == "" {
		return ""
	}
	if ext := filepath.Ext(personalPath); ext == ".pws" {
		return strings.TrimSuffix(personalPath, ext) + ".prepl"
	}
	return personalPath + ".prepl"
}

// LoadReplacements reads the table at path. A missing file yields an empty
// table.
func LoadReplacements(path, language, encodingLabel string) (*Replacements, error) {
	enc, err := utils.LookupEncoding(encodingLabel)
	if err != nil {
		return nil, &errs.DictionaryLoadError{Path: path, Err: err}
	}
	r := NewReplacements(path, language, enc)
	if path == "" {
		return r, nil
	}
	_, found, err := readPersonalFile(path, ReplacementMagic, language, enc, func(lineNo int, line string) error {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return errs.LoadError(path, lineNo, "expected \"misspelling correction\", got %q", line)
		}
		r.record(norm.NFC.String(fields[0]), norm.NFC.String(fields[1]))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found {
		log.Debugf("Loaded %d replacements from %s", len(r.entries), path)
	}
	return r, nil
}

// Record stores correction for misspelling, replacing any earlier one.
func (r *Replacements) Record(misspelling, correction string) {
	r.record(misspelling, correction)
	r.dirty = true
}

func (r *Replacements) record(misspelling, correction string) {
	r.seq++
	r.entries[misspelling] = &Replacement{Misspelling: misspelling, Correction: correction, seq: r.seq}
}

// Lookup returns the correction recorded for exactly misspelling.
func (r *Replacements) Lookup(misspelling string) (string, bool) {
	e, ok := r.entries[misspelling]
	if !ok {
		return "", false
	}
	return e.Correction, true
}

// LookupFold returns the most recent correction whose misspelling equals
// misspelling under case folding.
func (r *Replacements) LookupFold(misspelling string) (string, bool) {
	if c, ok := r.Lookup(misspelling); ok {
		return c, true
	}
	key := dictionary.Fold(misspelling)
	var best *Replacement
	for mis, e := range r.entries {
		if dictionary.Fold(mis) != key {
			continue
		}
		if best == nil || e.seq > best.seq {
			best = e
		}
	}
	if best == nil {
		return "", false
	}
	return best.Correction, true
}

// All returns a copy of the table.
func (r *Replacements) All() map[string]string {
	out := make(map[string]string, len(r.entries))
	for mis, e := range r.entries {
		out[mis] = e.Correction
	}
	return out
}

// Entries returns the pairs from oldest to most recent.
func (r *Replacements) Entries() []Replacement {
	out := make([]Replacement, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (r *Replacements) Len() int { return len(r.entries) }

func (r *Replacements) Dirty() bool { return r.dirty }

func (r *Replacements) Path() string { return r.path }

// Save writes the table to its path. Without a path it does nothing.
func (r *Replacements) Save() error {
	if r.path == "" {
		return nil
	}
	entries := r.Entries()
	h := header{magic: ReplacementMagic, language: r.language, encoding: utils.EncodingName(r.enc)}
	err := writePersonalFile(r.path, h, r.enc, func(w io.Writer) error {
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s %s\n", e.Misspelling, e.Correction); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.dirty = false
	log.Debugf("Saved %d replacements to %s", len(entries), r.path)
	return nil
}
