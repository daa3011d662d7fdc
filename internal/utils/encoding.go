package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single dictionary line.
const maxLineSize = 1 << 20

// LookupEncoding resolves an encoding label such as "utf-8", "iso-8859-1"
// or "windows-1252". An empty label means UTF-8.
func LookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// EncodingName returns the canonical label of enc, used in file headers.
func EncodingName(enc encoding.Encoding) string {
	if enc == nil || enc == unicode.UTF8 {
		return "utf-8"
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "utf-8"
	}
	return name
}

// DecodeReader wraps r so that it yields UTF-8 text.
func DecodeReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil || enc == unicode.UTF8 {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}

// EncodeWriter wraps w so that UTF-8 text written to it is stored in enc.
// Runes enc cannot represent make Write fail. Close flushes buffered output
// but does not close w.
func EncodeWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	if enc == nil || enc == unicode.UTF8 {
		return nopCloser{w}
	}
	return transform.NewWriter(w, enc.NewEncoder())
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// ScanLines calls fn for each line of r with its 1-based number.
// Trailing carriage returns are removed. Scanning stops at the first error.
func ScanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := fn(lineNo, strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	return scanner.Err()
}
