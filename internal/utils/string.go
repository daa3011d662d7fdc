package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is one word found in a line of text, with its byte offset.
type Token struct {
	Word   string
	Offset int
}

// IsWordRune reports whether r can be part of a word in running text.
// Apostrophes are handled by Tokenize since they only count inside a word.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r)
}

// HasSpace reports whether s contains any Unicode white space.
func HasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Tokenize splits a line of text into words. A word is a run of letters,
// optionally joined by single apostrophes ("don't"); everything else
// separates words.
func Tokenize(line string) []Token {
	var tokens []Token
	start := -1
	for i, r := range line {
		switch {
		case IsWordRune(r):
			if start < 0 {
				start = i
			}
		case (r == '\'' || r == '’') && start >= 0:
			next, _ := utf8.DecodeRuneInString(line[i+utf8.RuneLen(r):])
			if IsWordRune(next) {
				continue
			}
			tokens = append(tokens, Token{Word: line[start:i], Offset: start})
			start = -1
		default:
			if start >= 0 {
				tokens = append(tokens, Token{Word: line[start:i], Offset: start})
				start = -1
			}
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Word: line[start:], Offset: start})
	}
	return tokens
}

// AbsDiff returns |a-b|.
func AbsDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
