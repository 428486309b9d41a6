// internal/util/util.go
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes < 0 {
		maxRunes = 0
	}
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// SingleLine collapses every run of whitespace, newlines included, into one space.
func SingleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Cell prepares free-form text, such as an error message, for a one-line table cell.
func Cell(text string, maxRunes int) string {
	return TruncateRunes(SingleLine(text), maxRunes)
}
