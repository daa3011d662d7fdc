package wordlist

import (
	"fmt"
	"io"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/unicode/norm"
)

// Personal is the user's own word list, persisted in the aspell
// personal_ws-1.1 format:
//
//	personal_ws-1.1 en 2 utf-8
//	kubectl
//	wordcheck
type Personal struct {
	path     string
	language string
	enc      encoding.Encoding
	set      set
	dirty    bool
}

// NewPersonal returns an empty dictionary that saves to path. An empty path
// keeps the dictionary in memory only.
func NewPersonal(path, language string, enc encoding.Encoding) *Personal {
	return &Personal{path: path, language: language, enc: enc, set: newSet()}
}

// LoadPersonal reads the personal dictionary at path. A missing file yields
// an empty dictionary; a malformed header or an undecodable line yields a
// *errs.DictionaryLoadError.
func LoadPersonal(path, language, encodingLabel string) (*Personal, error) {
	enc, err := utils.LookupEncoding(encodingLabel)
	if err != nil {
		return nil, &errs.DictionaryLoadError{Path: path, Err: err}
	}
	p := NewPersonal(path, language, enc)
	if path == "" {
		return p, nil
	}

	h, found, err := readPersonalFile(path, PersonalMagic, language, enc, func(lineNo int, line string) error {
		if utils.HasSpace(line) {
			return errs.LoadError(path, lineNo, "entry %q is not a single word", line)
		}
		p.set.add(norm.NFC.String(line))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		log.Debugf("No personal dictionary at %s, starting empty", path)
		return p, nil
	}
	if h.count != p.set.len() {
		log.Debugf("%s: header announces %d words, read %d", path, h.count, p.set.len())
	}
	log.Debugf("Loaded %d personal words from %s", p.set.len(), path)
	return p, nil
}

// Add inserts word and reports whether the dictionary changed.
func (p *Personal) Add(word string) bool {
	if !p.set.add(word) {
		return false
	}
	p.dirty = true
	return true
}

func (p *Personal) Contains(word string) bool { return p.set.contains(word) }

func (p *Personal) ContainsFold(word string) bool { return p.set.containsFold(word) }

// List returns the personal words sorted.
func (p *Personal) List() []string { return p.set.list() }

func (p *Personal) Len() int { return p.set.len() }

// Clear empties the in-memory list. The file is only rewritten on Save.
func (p *Personal) Clear() {
	if p.set.len() == 0 {
		return
	}
	p.set.clear()
	p.dirty = true
}

// Dirty reports whether there are changes not yet saved.
func (p *Personal) Dirty() bool { return p.dirty }

func (p *Personal) Path() string { return p.path }

// Save writes the dictionary to its path. Without a path it does nothing.
// On failure the in-memory state, dirty flag included, is left as it was.
func (p *Personal) Save() error {
	if p.path == "" {
		return nil
	}
	if err := p.SaveTo(p.path); err != nil {
		return err
	}
	p.dirty = false
	return nil
}

// SaveTo writes the dictionary to path without changing the dirty flag.
func (p *Personal) SaveTo(path string) error {
	words := p.set.list()
	h := header{
		magic:    PersonalMagic,
		language: p.language,
		count:    len(words),
		encoding: utils.EncodingName(p.enc),
	}
	err := writePersonalFile(path, h, p.enc, func(w io.Writer) error {
		for _, word := range words {
			if _, err := fmt.Fprintln(w, word); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Debugf("Saved %d personal words to %s", len(words), path)
	return nil
}
