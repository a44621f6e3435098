// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"regexp"
	"strings"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041",
// "2301.07041v2". The version is not part of the code.
var arxivPattern = regexp.MustCompile(`^(?i:arxiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// itemSeparator splits "<id> | <title>" queue entries.
const itemSeparator = "|"

// Item is one parsed queue entry. At least one of Code and Title is set.
type Item struct {
	Raw   string
	Code  string
	Title string
}

// ParseItem classifies a queue entry as an arXiv id, a title, or an id
// with its title. An entry whose left side is not an id is a title.
func ParseItem(raw string) Item {
	s := strings.TrimSpace(raw)
	it := Item{Raw: s}

	if left, right, ok := strings.Cut(s, itemSeparator); ok {
		if code, isID := ArxivID(left); isID {
			it.Code = code
			it.Title = strings.TrimSpace(right)
			return it
		}
	}
	if code, isID := ArxivID(s); isID {
		it.Code = code
		return it
	}
	it.Title = s
	return it
}

// ArxivID returns the bare code when s is an arXiv identifier.
func ArxivID(s string) (string, bool) {
	m := arxivPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return m[1], true
}
