package wordlist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
)

// Header magics of the aspell personal files.
const (
	PersonalMagic    = "personal_ws-1.1"
	ReplacementMagic = "personal_repl-1.1"
)

// header is the first line of a personal file:
//
//	personal_ws-1.1 en 3 utf-8
type header struct {
	magic    string
	language string
	count    int
	encoding string
}

func (h header) String() string {
	return fmt.Sprintf("%s %s %d %s", h.magic, h.language, h.count, h.encoding)
}

func parseHeader(path, line, magic string) (header, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != magic {
		return header{}, errs.LoadError(path, 1, "expected %q header, got %q", magic, line)
	}
	if len(fields) < 2 {
		return header{}, errs.LoadError(path, 1, "header has no language")
	}
	if len(fields) > 4 {
		return header{}, errs.LoadError(path, 1, "header has %d fields", len(fields))
	}
	h := header{magic: magic, language: fields[1]}
	if len(fields) > 2 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 0 {
			return header{}, errs.LoadError(path, 1, "invalid word count %q", fields[2])
		}
		h.count = n
	}
	if len(fields) > 3 {
		h.encoding = fields[3]
	}
	return h, nil
}

// readPersonalFile reads a file in the personal format and calls fn for each
// non-empty body line, already decoded to UTF-8. A missing file yields
// found == false and no error. The encoding named in the header takes
// precedence over fallback.
func readPersonalFile(path, magic, language string, fallback encoding.Encoding, fn func(lineNo int, line string) error) (h header, found bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return header{}, false, nil
	}
	if err != nil {
		return header{}, false, &errs.DictionaryLoadError{Path: path, Err: err}
	}

	first, body, _ := bytes.Cut(data, []byte("\n"))
	h, err = parseHeader(path, strings.TrimRight(string(first), "\r"), magic)
	if err != nil {
		return header{}, false, err
	}
	if language != "" && h.language != language {
		log.Warnf("%s is for language %q, expected %q", path, h.language, language)
	}

	enc := fallback
	if h.encoding != "" {
		if headerEnc, err := utils.LookupEncoding(h.encoding); err == nil {
			enc = headerEnc
		} else {
			log.Warnf("%s: unknown encoding %q in header, using %s", path, h.encoding, utils.EncodingName(fallback))
		}
	}

	err = utils.ScanLines(utils.DecodeReader(bytes.NewReader(body), enc), func(lineNo int, line string) error {
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		return fn(lineNo+1, line)
	})
	if err != nil {
		var lerr *errs.DictionaryLoadError
		if !errors.As(err, &lerr) {
			err = &errs.DictionaryLoadError{Path: path, Err: err}
		}
		return header{}, false, err
	}
	return h, true, nil
}

// writePersonalFile atomically replaces path with the header and the lines
// produced by body.
func writePersonalFile(path string, h header, enc encoding.Encoding, body func(w io.Writer) error) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return &errs.PersistenceError{Path: path, Op: "create directory for", Err: err}
	}
	err := utils.WriteFileAtomic(path, 0644, func(f *os.File) error {
		buf := bufio.NewWriter(f)
		if _, err := fmt.Fprintln(buf, h); err != nil {
			return err
		}
		ew := utils.EncodeWriter(buf, enc)
		if err := body(ew); err != nil {
			return err
		}
		if err := ew.Close(); err != nil {
			return err
		}
		return buf.Flush()
	})
	if err != nil {
		return &errs.PersistenceError{Path: path, Op: "save", Err: err}
	}
	return nil
}
