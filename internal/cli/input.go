// Package cli implements the ispell compatible pipe mode ("-a") used by
// editors that drive a spell checker over stdin/stdout.
package cli

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/speller"
	"github.com/charmbracelet/log"
)

// InputHandler reads pipe mode commands and text lines. Each text line is
// answered with one result line per word followed by an empty line;
// commands produce no output.
//
//	*word        add word to the personal dictionary
//	&word        add the lower-case form of word to the personal dictionary
//	@word        accept word for this session
//	#            save the personal dictionary and replacements
//	!  %         enter or leave terse mode (correct words are not reported)
//	$$ra a,b     remember that a was corrected to b
//	^text        check text even if it starts with a command character
//	text         check every word of text
type InputHandler struct {
	speller      *speller.Speller
	reader       io.Reader
	out          *terminal
	suggestLimit int
	terse        bool
	requestCount int
}

// NewInputHandler creates a pipe mode handler on stdin/stdout. limit caps
// the suggestions printed per word, 0 prints all of them.
func NewInputHandler(sp *speller.Speller, limit int) *InputHandler {
	return NewInputHandlerIO(sp, limit, os.Stdin, os.Stdout)
}

// NewInputHandlerIO is NewInputHandler on arbitrary streams.
func NewInputHandlerIO(sp *speller.Speller, limit int, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		speller:      sp,
		reader:       r,
		out:          newTerminal(w),
		suggestLimit: limit,
	}
}

// Start prints the banner and processes lines until the input ends.
func (h *InputHandler) Start() error {
	if err := h.out.banner(); err != nil {
		return err
	}
	err := utils.ScanLines(bufio.NewReader(h.reader), func(_ int, line string) error {
		h.handleInput(line)
		return h.out.flush()
	})
	if err != nil {
		log.Errorf("Reading pipe input: %v", err)
		return err
	}
	return h.out.flush()
}

// handleInput dispatches one input line.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	if line == "" {
		h.checkLine(line)
		return
	}
	switch line[0] {
	case '*':
		h.addPersonal(line[1:])
	case '&':
		h.addPersonal(strings.ToLower(line[1:]))
	case '@':
		if err := h.speller.AddToSession(strings.TrimSpace(line[1:])); err != nil {
			log.Warnf("Cannot accept %q: %v", line[1:], err)
		}
	case '#':
		if err := h.speller.SaveAllWords(); err != nil {
			log.Errorf("Saving personal words: %v", err)
		}
	case '!':
		h.terse = true
	case '%':
		h.terse = false
	case '~', '+', '-':
		log.Debugf("Ignoring unsupported command %q", line)
	case '$':
		h.handleExtended(line)
	case '^':
		h.checkLine(line[1:])
	default:
		h.checkLine(line)
	}
}

func (h *InputHandler) addPersonal(word string) {
	if err := h.speller.AddToPersonal(strings.TrimSpace(word)); err != nil {
		log.Warnf("Cannot add %q: %v", word, err)
	}
}

// handleExtended runs the "$$" commands. Only $$ra is supported.
func (h *InputHandler) handleExtended(line string) {
	if !strings.HasPrefix(line, "$$") {
		h.checkLine(line)
		return
	}
	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, "$$"), " ")
	switch cmd {
	case "ra":
		mis, cor, ok := strings.Cut(arg, ",")
		if !ok {
			log.Warnf("Malformed replacement %q, expected misspelling,correction", arg)
			return
		}
		if err := h.speller.RecordReplacement(strings.TrimSpace(mis), strings.TrimSpace(cor)); err != nil {
			log.Warnf("Cannot record replacement: %v", err)
		}
	default:
		log.Debugf("Ignoring unsupported command %q", line)
	}
}

// checkLine reports every word of line. Offsets count characters from the
// start of the line.
func (h *InputHandler) checkLine(line string) {
	start := time.Now()
	for _, tok := range utils.Tokenize(line) {
		offset := len([]rune(line[:tok.Offset]))
		ok, err := h.speller.Check(tok.Word)
		if err != nil {
			log.Warnf("Checking %q: %v", tok.Word, err)
			continue
		}
		if ok {
			if !h.terse {
				h.out.correct()
			}
			continue
		}
		suggestions, err := h.speller.Suggest(tok.Word)
		if err != nil {
			log.Warnf("Suggesting for %q: %v", tok.Word, err)
			continue
		}
		if h.suggestLimit > 0 && len(suggestions) > h.suggestLimit {
			suggestions = suggestions[:h.suggestLimit]
		}
		h.out.miss(tok.Word, offset, suggestions)
	}
	h.out.endLine()
	log.Debugf("Took [ %v ] for line %d", time.Since(start), h.requestCount)
}
