// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm cleans free text before comparison and reflows long-form
// document text extracted from PDFs.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text and replaces every character that is not a
// letter or digit with a single space. Runs of spaces are not collapsed.
// Input is composed to NFC first so that a letter followed by a combining
// accent counts as one alphanumeric character. A per-code-point replacement
// without composition would turn the combining mark into a space instead;
// "e\u0301te" normalizes to "\u00e9te" here, not "e te". Combining marks
// with no precomposed form still become spaces.
func Normalize(text string) string {
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}

var multiSpace = regexp.MustCompile(` +`)

// ReformatLongText removes hyphenation line breaks, turns isolated newlines
// (mid-sentence wraps) into spaces while keeping blank-line paragraph
// breaks, and collapses runs of spaces. Applying it twice yields the same
// result as applying it once.
func ReformatLongText(text string) string {
	// Joining "x--\n" can expose a new "-\n"; repeat until none is left.
	for strings.Contains(text, "-\n") {
		text = strings.ReplaceAll(text, "-\n", "")
	}
	text = unwrapLines(text)
	return multiSpace.ReplaceAllString(text, " ")
}

// unwrapLines replaces each newline that has no newline on either side
// with a space.
func unwrapLines(text string) string {
	b := []byte(text)
	for i, c := range b {
		if c != '\n' {
			continue
		}
		if i > 0 && text[i-1] == '\n' {
			continue
		}
		if i+1 < len(text) && text[i+1] == '\n' {
			continue
		}
		b[i] = ' '
	}
	return string(b)
}
