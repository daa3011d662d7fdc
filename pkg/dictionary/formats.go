package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatText                // Plain word list, optional frequency column
	FormatHunspell            // Hunspell .dic: count line, word/FLAGS
	FormatChunk               // Chunked binary format (dict_NNNN.bin)
)

// maxChunkWords is the sanity limit for a chunk header.
const maxChunkWords = 1000000

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".lst", ".words"},
		MinSize:     1,
	},
	FormatHunspell: {
		Format:      FormatHunspell,
		Description: "Hunspell Dictionary",
		Extensions:  []string{".dic"},
		MinSize:     1,
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // At least word count header
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	if expectedFormat == FormatChunk {
		return validateBinaryFormat(filename)
	}
	return nil
}

// validateBinaryFormat validates binary dictionary files
func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", filename, wordCount)
	}
	if wordCount > maxChunkWords {
		return fmt.Errorf("suspicious word count in %s: %d (too large)", filename, wordCount)
	}

	log.Debugf("Binary file %s validated: %d words", filename, wordCount)
	return nil
}

// DetectFileFormat picks the format of a file from its name. Anything that
// is not a .dic or .bin file is read as a plain word list.
func DetectFileFormat(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".dic":
		return FormatHunspell
	case ".bin":
		return FormatChunk
	}
	return FormatText
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID       int
	Filename string
}

// listChunks scans dir for dict_NNNN.bin files, sorted by ID.
func listChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}
	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			log.Warnf("Skipping chunk with unexpected name %s", file)
			continue
		}
		chunks = append(chunks, ChunkInfo{ID: id, Filename: file})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

// resolveFiles turns a dictionary path into the concrete files to read.
// A file path is used directly; for a directory the lookup order is
// <lang>.txt, <lang>.dic, <lang>/dict_*.bin, dict_*.bin.
func resolveFiles(path, language string) ([]string, FileFormat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, FormatUnknown, err
	}
	if !info.IsDir() {
		return []string{path}, DetectFileFormat(path), nil
	}

	if language != "" {
		for _, ext := range []string{".txt", ".dic"} {
			candidate := filepath.Join(path, language+ext)
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return []string{candidate}, DetectFileFormat(candidate), nil
			}
		}
	}

	dirs := []string{path}
	if language != "" {
		dirs = []string{filepath.Join(path, language), path}
	}
	for _, dir := range dirs {
		chunks, err := listChunks(dir)
		if err != nil {
			return nil, FormatUnknown, err
		}
		if len(chunks) == 0 {
			continue
		}
		files := make([]string, len(chunks))
		for i, c := range chunks {
			files[i] = c.Filename
		}
		return files, FormatChunk, nil
	}
	return nil, FormatUnknown, fmt.Errorf("no dictionary for language %q in %s", language, path)
}
