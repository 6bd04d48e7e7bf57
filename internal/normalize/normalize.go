// Package normalize repairs common PDF-to-text artifacts before extraction.
//
// Both entry points are total and idempotent: feeding their output back in
// returns it unchanged.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Bullet is the canonical list marker every bullet glyph is rewritten to.
const Bullet = "•"

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	camelBoundary  = regexp.MustCompile(`([a-z])([A-Z])`)
	sentenceJoin   = regexp.MustCompile(`([a-z]{2}[.!?])([A-Z])`)
	bulletGlyph    = regexp.MustCompile(`[•·▪▫◦‣⁃][ \t]*`)
	leadingDash    = regexp.MustCompile(`^[-*+][ \t]*`)
	trailingNumber = regexp.MustCompile(`(?:^|\s)\d+$`)
)

// Text normalizes s for single-blob parsing. All whitespace, newlines
// included, collapses to single spaces.
func Text(s string) string {
	return cleanLine(whitespaceRun.ReplaceAllString(s, " "))
}

// Lines normalizes s for line-based parsing. Newlines are kept, each line
// is trimmed and runs of whitespace inside a line collapse to one space.
func Lines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(whitespaceRun.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}

// cleanLine applies boundary repair, bullet standardization and page
// number stripping to a line without newlines.
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = repairBoundaries(line)
	line = standardizeBullets(line)
	return stripPageNumber(line)
}

// SplitLines returns the trimmed, non-empty lines of s.
func SplitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// repairBoundaries splits words that PDF column merging glued together.
func repairBoundaries(s string) string {
	s = camelBoundary.ReplaceAllString(s, "$1 $2")
	return sentenceJoin.ReplaceAllString(s, "$1 $2")
}

func standardizeBullets(s string) string {
	s = bulletGlyph.ReplaceAllString(s, Bullet+" ")
	return leadingDash.ReplaceAllString(s, Bullet+" ")
}

// stripPageNumber drops bare digit tokens from the end of a single line.
func stripPageNumber(line string) string {
	for {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		loc := trailingNumber.FindStringIndex(line)
		if loc == nil {
			return line
		}
		line = line[:loc[0]]
	}
}
