package utils

import (
	"strings"
	"unicode"
)

// CapitalInfo holds the capitalization shape of a word.
type CapitalInfo struct {
	positions []bool
	allUpper  bool
}

// ProcessCapitals extracts capital letter information from a string and returns
// both the lowercase version and the capital info. Info is nil when s has no
// upper case letters.
func ProcessCapitals(s string) (string, *CapitalInfo) {
	runes := []rune(s)
	info := &CapitalInfo{positions: make([]bool, len(runes))}
	upper, letters := 0, 0
	for i, r := range runes {
		if unicode.IsLetter(r) {
			letters++
		}
		if unicode.IsUpper(r) {
			info.positions[i] = true
			upper++
		}
	}
	if upper == 0 {
		return strings.ToLower(s), nil
	}
	info.allUpper = upper == letters && letters > 1
	return strings.ToLower(s), info
}

// ApplyCapitals applies capitalization info to a word. An all-caps source
// upper-cases the whole word; otherwise capitals are copied by position.
func ApplyCapitals(word string, info *CapitalInfo) string {
	if info == nil {
		return word
	}
	if info.allUpper {
		return strings.ToUpper(word)
	}
	runes := []rune(word)
	for i := 0; i < len(runes) && i < len(info.positions); i++ {
		if info.positions[i] {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}
