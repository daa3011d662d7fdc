package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Version is reported in the pipe mode banner.
var Version = "dev"

// terminal writes pipe mode results in the ispell format.
type terminal struct {
	w   *bufio.Writer
	err error
}

func newTerminal(w io.Writer) *terminal {
	return &terminal{w: bufio.NewWriter(w)}
}

func (t *terminal) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// banner is the first line clients wait for.
func (t *terminal) banner() error {
	t.printf("@(#) International Ispell Version 3.1.20 (but really wordcheck %s)\n", Version)
	return t.flush()
}

// correct reports a known word.
func (t *terminal) correct() {
	t.printf("*\n")
}

// miss reports an unknown word:
//
//	& word count offset: s1, s2
//	# word offset
func (t *terminal) miss(word string, offset int, suggestions []string) {
	if len(suggestions) == 0 {
		t.printf("# %s %d\n", word, offset)
		return
	}
	t.printf("& %s %d %d: %s\n", word, len(suggestions), offset, strings.Join(suggestions, ", "))
}

// endLine terminates the results of one input line.
func (t *terminal) endLine() {
	t.printf("\n")
}

func (t *terminal) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}
