// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/pdiddy/paper-ingest/internal/textnorm"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// LocalName identifies the in-memory title index.
const LocalName = "local"

// TitleIndex is a catalog over (code, title) pairs already held in storage.
// It ranks entries by the number of distinct normalized words shared with
// the query; entries sharing none are not returned.
type TitleIndex struct {
	entries []indexEntry
}

type indexEntry struct {
	code  string
	title string
	words map[string]struct{}
}

// NewTitleIndex builds an index from a code -> title map.
func NewTitleIndex(titles map[string]string) *TitleIndex {
	codes := make([]string, 0, len(titles))
	for code := range titles {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	idx := &TitleIndex{entries: make([]indexEntry, 0, len(codes))}
	for _, code := range codes {
		idx.entries = append(idx.entries, indexEntry{
			code:  code,
			title: titles[code],
			words: wordSet(titles[code]),
		})
	}
	return idx
}

// Name returns the catalog identifier.
func (x *TitleIndex) Name() string { return LocalName }

// Len returns the number of indexed titles.
func (x *TitleIndex) Len() int { return len(x.entries) }

// Search returns up to limit entries sharing at least one word with query,
// most shared words first, ties by code.
func (x *TitleIndex) Search(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := wordSet(query)
	if len(q) == 0 {
		return nil, nil
	}

	type hit struct {
		entry  indexEntry
		shared int
	}
	var hits []hit
	for _, e := range x.entries {
		n := 0
		for w := range q {
			if _, ok := e.words[w]; ok {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, hit{entry: e, shared: n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].shared > hits[j].shared })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]types.Candidate, 0, len(hits))
	for _, h := range hits {
		out = append(out, types.Candidate{Identifier: h.entry.code, Title: h.entry.title, Source: LocalName})
	}
	return out, nil
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(textnorm.Normalize(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
