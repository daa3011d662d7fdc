// Package errs holds the error taxonomy shared by the dictionary, wordlist and speller packages.
//
// Callers match categories with errors.Is against the sentinels and reach
// the details with errors.As:
//
//	var lerr *errs.DictionaryLoadError
//	if errors.As(err, &lerr) {
//		log.Error("bad dictionary", "path", lerr.Path, "line", lerr.Line)
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrDictionaryLoad marks a missing or corrupt main dictionary, or a malformed personal file.
	ErrDictionaryLoad = errors.New("dictionary load failed")
	// ErrPersistence marks a failed write of personal data.
	ErrPersistence = errors.New("persistence failed")
	// ErrInvalidWord marks a word that violates the input contract (empty, whitespace).
	ErrInvalidWord = errors.New("invalid word")
	// ErrInvalidOption marks an unknown configuration key or an unparsable value.
	ErrInvalidOption = errors.New("invalid option")
)

// DictionaryLoadError is returned when a dictionary source cannot be turned into words.
type DictionaryLoadError struct {
	Path string
	// Line is the 1-based line of the offending entry, 0 when not line related.
	Line int
	Err  error
}

func (e *DictionaryLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load dictionary %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load dictionary %s: %v", e.Path, e.Err)
}

func (e *DictionaryLoadError) Unwrap() error { return e.Err }

func (e *DictionaryLoadError) Is(target error) bool { return target == ErrDictionaryLoad }

// LoadError builds a DictionaryLoadError, formatting the cause like fmt.Errorf.
func LoadError(path string, line int, format string, args ...any) error {
	return &DictionaryLoadError{Path: path, Line: line, Err: fmt.Errorf(format, args...)}
}

// PersistenceError is returned when saving personal data to disk fails.
// The in-memory state is left untouched so the save can be retried.
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// InvalidWordError reports caller input that is not a single word.
type InvalidWordError struct {
	Word   string
	Reason string
}

func (e *InvalidWordError) Error() string {
	return fmt.Sprintf("invalid word %q: %s", e.Word, e.Reason)
}

func (e *InvalidWordError) Is(target error) bool { return target == ErrInvalidWord }

// Option wraps ErrInvalidOption with the offending key.
func Option(key string, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidOption, key, fmt.Sprintf(format, args...))
}
