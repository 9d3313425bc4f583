package output

import (
	"strconv"
	"strings"
)

// columnName converts a 0-based column index to its spreadsheet letter
// reference: 0 -> A, 25 -> Z, 26 -> AA. This is a bijective base-26 numeral
// system with no zero digit, so the wrap happens at Z, not at a "26th"
// digit.
func columnName(col int) string {
	name := ""
	n := col + 1
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// cellRef builds an A1-style reference from 0-based column and row indices.
func cellRef(col, row int) string {
	return columnName(col) + strconv.Itoa(row+1)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML escapes the five XML special characters for embedding text in
// worksheet parts.
func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
