// Package phonetic turns words into sound-alike keys.
//
// Two words that share a key are likely to be confused by someone spelling by
// ear ("fonetik" and "phonetic" both encode to FNTK under Double Metaphone),
// which lets the speller recover corrections that lie beyond the edit
// distance cutoff.
package phonetic

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
)

// Encoder produces the phonetic keys of a word. A word may have several keys
// (Double Metaphone yields a primary and an alternate code); an empty slice
// means the word has no usable key.
type Encoder interface {
	Name() string
	Keys(word string) []string
}

// Names of the available encoders, as accepted by New.
const (
	Metaphone = "metaphone"
	Soundex   = "soundex"
	None      = "none"
)

// New returns the encoder registered under name.
func New(name string) (Encoder, error) {
	switch strings.ToLower(name) {
	case "", Metaphone, "double-metaphone":
		return metaphone{}, nil
	case Soundex:
		return soundex{}, nil
	case None, "off":
		return none{}, nil
	}
	return nil, fmt.Errorf("unknown phonetic encoder %q", name)
}

// Share reports whether a and b have at least one key in common.
func Share(enc Encoder, a, b string) bool {
	ka := enc.Keys(a)
	if len(ka) == 0 {
		return false
	}
	for _, kb := range enc.Keys(b) {
		for _, k := range ka {
			if k == kb {
				return true
			}
		}
	}
	return false
}

type metaphone struct{}

func (metaphone) Name() string { return Metaphone }

func (metaphone) Keys(word string) []string {
	primary, alternate := matchr.DoubleMetaphone(strings.ToLower(word))
	switch {
	case primary == "":
		return nil
	case alternate == "" || alternate == primary:
		return []string{primary}
	}
	return []string{primary, alternate}
}

type soundex struct{}

func (soundex) Name() string { return Soundex }

func (soundex) Keys(word string) []string {
	if key := matchr.Soundex(word); key != "" {
		return []string{key}
	}
	return nil
}

type none struct{}

func (none) Name() string { return None }

func (none) Keys(string) []string { return nil }
