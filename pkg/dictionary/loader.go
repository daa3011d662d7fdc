package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/unicode/norm"
)

// DefaultFrequency is assigned to words whose source carries no frequency.
const DefaultFrequency = 1

// Entry is one dictionary word with its frequency score.
type Entry struct {
	Word      string
	Frequency int
}

// ReadEntries reads one dictionary file in list order, duplicates included.
func ReadEntries(path, encodingLabel string) ([]Entry, error) {
	enc, err := utils.LookupEncoding(encodingLabel)
	if err != nil {
		return nil, &errs.DictionaryLoadError{Path: path, Err: err}
	}
	return readFile(path, DetectFileFormat(path), enc)
}

// SortByFrequency orders entries by descending frequency, keeping the
// relative order of equal ones.
func SortByFrequency(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Frequency - a.Frequency
	})
}

// readFile reads all entries of one dictionary file.
func readFile(path string, format FileFormat, enc encoding.Encoding) ([]Entry, error) {
	if err := ValidateFileFormat(path, format); err != nil {
		return nil, &errs.DictionaryLoadError{Path: path, Err: err}
	}
	switch format {
	case FormatChunk:
		return readChunk(path)
	case FormatText, FormatHunspell:
		return readText(path, format, enc)
	}
	return nil, errs.LoadError(path, 0, "unsupported format %v", format)
}

// readText parses word lists and hunspell .dic files.
func readText(path string, format FileFormat, enc encoding.Encoding) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &errs.DictionaryLoadError{Path: path, Err: err}
	}
	defer file.Close()

	var entries []Entry
	err = utils.ScanLines(utils.DecodeReader(bufio.NewReader(file), enc), func(lineNo int, line string) error {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			return nil
		}
		if !utf8.ValidString(line) || strings.ContainsRune(line, utf8.RuneError) {
			return errs.LoadError(path, lineNo, "invalid text encoding")
		}
		if format == FormatHunspell {
			// the first line of a .dic file is the approximate word count
			if lineNo == 1 && utils.IsOnlyNumbers(line) {
				return nil
			}
			word := hunspellWord(line)
			if word == "" {
				return errs.LoadError(path, lineNo, "empty entry %q", line)
			}
			entries = append(entries, Entry{Word: norm.NFC.String(word), Frequency: DefaultFrequency})
			return nil
		}

		fields := strings.Fields(line)
		entry := Entry{Word: norm.NFC.String(fields[0]), Frequency: DefaultFrequency}
		switch len(fields) {
		case 1:
		case 2:
			freq, err := strconv.Atoi(fields[1])
			if err != nil || freq < 0 {
				return errs.LoadError(path, lineNo, "invalid frequency %q", fields[1])
			}
			entry.Frequency = freq
		default:
			return errs.LoadError(path, lineNo, "expected \"word [frequency]\", got %d fields", len(fields))
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		var lerr *errs.DictionaryLoadError
		if errors.As(err, &lerr) {
			return nil, err
		}
		return nil, &errs.DictionaryLoadError{Path: path, Err: err}
	}
	log.Debugf("Read %d words from %s (%s)", len(entries), path, format)
	return entries, nil
}

// hunspellWord strips affix flags and morphological fields from a .dic line.
func hunspellWord(line string) string {
	word := line
	if i := strings.IndexAny(word, " \t"); i >= 0 {
		word = word[:i]
	}
	// an escaped slash is part of the word
	var b strings.Builder
	for i := 0; i < len(word); i++ {
		switch {
		case word[i] == '\\' && i+1 < len(word) && word[i+1] == '/':
			b.WriteByte('/')
			i++
		case word[i] == '/':
			return b.String()
		default:
			b.WriteByte(word[i])
		}
	}
	return b.String()
}

// readChunk loads one binary chunk: int32 count, then per entry a uint16
// length, the word bytes and a uint16 rank.
func readChunk(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &errs.DictionaryLoadError{Path: filename, Err: err}
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return nil, errs.LoadError(filename, 0, "failed to read chunk header: %w", err)
	}

	entries := make([]Entry, 0, totalEntries)
	for count := 0; count < int(totalEntries); count++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			return nil, errs.LoadError(filename, 0, "entry %d: failed to read word length: %w", count, err)
		}
		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return nil, errs.LoadError(filename, 0, "entry %d: failed to read word: %w", count, err)
		}
		if wordLen == 0 || !utf8.Valid(wordBytes) || utils.HasSpace(string(wordBytes)) {
			return nil, errs.LoadError(filename, 0, "entry %d: malformed word %q", count, wordBytes)
		}
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return nil, errs.LoadError(filename, 0, "entry %d: failed to read rank: %w", count, err)
		}
		entries = append(entries, Entry{
			Word:      norm.NFC.String(string(wordBytes)),
			Frequency: rankToScore(rank),
		})
	}
	log.Debugf("Chunk %s loaded: %d words", filename, len(entries))
	return entries, nil
}

// rankToScore converts rank to inverse score for sorting (rank 1 = highest score).
func rankToScore(rank uint16) int {
	return 65535 - int(rank) + 1
}

// WriteChunks writes entries as dict_NNNN.bin files of at most chunkSize
// words each. Entries are expected in rank order: the first one gets rank 1.
// It returns the written file names.
func WriteChunks(dir string, entries []Entry, chunkSize int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if len(entries) > 65535 {
		return nil, fmt.Errorf("%d words exceed the 65535 ranks of the chunk format", len(entries))
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, err
	}

	var files []string
	for start, id := 0, 1; start < len(entries); start, id = start+chunkSize, id+1 {
		end := min(start+chunkSize, len(entries))
		name := filepath.Join(dir, fmt.Sprintf("dict_%04d.bin", id))
		err := utils.WriteFileAtomic(name, 0644, func(f *os.File) error {
			w := bufio.NewWriter(f)
			if err := binary.Write(w, binary.LittleEndian, int32(end-start)); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				word := []byte(entries[i].Word)
				if len(word) == 0 || len(word) > 65535 {
					return fmt.Errorf("word %q cannot be stored in a chunk", entries[i].Word)
				}
				if err := binary.Write(w, binary.LittleEndian, uint16(len(word))); err != nil {
					return err
				}
				if _, err := w.Write(word); err != nil {
					return err
				}
				if err := binary.Write(w, binary.LittleEndian, uint16(i+1)); err != nil {
					return err
				}
			}
			return w.Flush()
		})
		if err != nil {
			return files, fmt.Errorf("write chunk %s: %w", name, err)
		}
		files = append(files, name)
		log.Debugf("Wrote chunk %s with %d words", name, end-start)
	}
	return files, nil
}
