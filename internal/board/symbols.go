package board

import (
	"strings"
	"unicode"
)

// ParseSymbols turns free-text symbol input into an ordered ticker list.
// Input is split on any run of commas and/or whitespace; each piece is
// trimmed and uppercased, and empty pieces are dropped. Duplicates are kept
// verbatim, matching the order they appear in the input.
func ParseSymbols(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	symbols := make([]string, 0, len(fields))
	for _, f := range fields {
		symbols = append(symbols, strings.ToUpper(f))
	}
	return symbols
}
