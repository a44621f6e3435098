// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

func TestArxivCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"abs url with version", "http://arxiv.org/abs/2301.00001v2", "2301.00001"},
		{"bare with version", "2301.00001v12", "2301.00001"},
		{"no version", "https://arxiv.org/abs/1706.03762", "1706.03762"},
		{"old style", "http://arxiv.org/abs/hep-th/9901001v1", "9901001"},
		{"trailing space", " 2301.00001v1 ", "2301.00001"},
		{"plain code", "2301.00001", "2301.00001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArxivCode(tt.in))
		})
	}
}

func TestFlatten(t *testing.T) {
	in := map[string]any{
		"id": "x",
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "deep"},
		},
		"list": []any{map[string]any{"name": "kept as list"}},
		"m":    map[any]any{"k": "v"},
	}
	got := Flatten(in, "_")
	assert.Equal(t, map[string]any{
		"id":    "x",
		"a_b":   1,
		"a_c_d": "deep",
		"list":  []any{map[string]any{"name": "kept as list"}},
		"m_k":   "v",
	}, got)
}

func TestFlattenCollisionIsStable(t *testing.T) {
	in := map[string]any{
		"a_b": "flat",
		"a":   map[string]any{"b": "nested"},
	}
	first := Flatten(in, "_")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Flatten(in, "_"))
	}
	// "a" sorts before "a_b", so the flat key is visited last.
	assert.Equal(t, "flat", first["a_b"])
}

func TestProject(t *testing.T) {
	flat := map[string]any{"x": 1, "y": 2, "z": 3}
	got := Project(flat, map[string]string{"x": "ex", "y": "why", "missing": "gone"})
	assert.Equal(t, map[string]any{"ex": 1, "why": 2}, got)
}

func TestNormalize(t *testing.T) {
	raw := map[string]any{
		"ID":        "http://arxiv.org/abs/2301.00001v2",
		"Title":     "Attention Is\n All You Need",
		"summary":   "line one\nline two",
		"published": "2023-01-01T00:00:00Z",
		"updated":   time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		"authors": []any{
			map[string]any{"name": "Ada Lovelace"},
			map[string]any{"name": "Alan Turing"},
		},
		"arxiv_comment": "10 pages,\n 3 figures",
		"links":         []any{map[string]any{"href": "x"}},
		"extra":         map[string]any{"dropped": true},
	}

	rec, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, types.FlatRecord{
		"arxiv_code":    "2301.00001",
		"title":         "Attention IsAll You Need",
		"summary":       "line one line two",
		"published":     "2023-01-01T00:00:00Z",
		"updated":       "2023-01-02T03:04:05Z",
		"authors":       "Ada Lovelace, Alan Turing",
		"arxiv_comment": "10 pages,3 figures",
	}, rec)
	for _, v := range rec {
		_, isMap := v.(map[string]any)
		_, isList := v.([]any)
		assert.False(t, isMap || isList, "record must stay flat")
	}
}

func TestNormalizeFromCandidate(t *testing.T) {
	c := types.Candidate{
		Identifier: "http://arxiv.org/abs/1706.03762v7",
		Title:      "Attention Is All You Need",
		Authors:    []types.Author{{Name: "A. Vaswani"}, {Name: "N. Shazeer"}},
		Published:  time.Date(2017, 6, 12, 17, 57, 34, 0, time.UTC),
	}
	rec, err := Normalize(c.Raw())
	require.NoError(t, err)
	assert.Equal(t, "1706.03762", rec.Code())
	assert.Equal(t, "A. Vaswani, N. Shazeer", rec[types.FieldAuthors])
	assert.Equal(t, "2017-06-12T17:57:34Z", rec[types.FieldPublished])
	assert.NotContains(t, rec, types.FieldComment)
	assert.NotContains(t, rec, types.FieldUpdated)
}

func TestNormalizeCapsAuthors(t *testing.T) {
	long := strings.Repeat("a", 1100)
	rec, err := Normalize(map[string]any{"id": "2301.00001", "authors": long})
	require.NoError(t, err)
	assert.Len(t, rec[types.FieldAuthors], 1000)
}

func TestNormalizeCapsAfterJoin(t *testing.T) {
	var authors []any
	for i := 0; i < 200; i++ {
		authors = append(authors, map[string]any{"name": "Author Name"})
	}
	rec, err := Normalize(map[string]any{"id": "2301.00001", "authors": authors})
	require.NoError(t, err)
	got := rec[types.FieldAuthors].(string)
	assert.Len(t, got, MaxAuthorsLength)
	assert.True(t, strings.HasPrefix(got, "Author Name, Author Name"))
}

func TestNormalizeCapsComment(t *testing.T) {
	rec, err := Normalize(map[string]any{"id": "2301.00001", "arxiv_comment": strings.Repeat("é", 1500)})
	require.NoError(t, err)
	assert.Equal(t, MaxCommentLength, len([]rune(rec[types.FieldComment].(string))))
}

func TestNormalizeMissingIdentifier(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"absent", map[string]any{"title": "x"}},
		{"empty", map[string]any{"id": "  "}},
		{"nested only", map[string]any{"meta": map[string]any{"id": "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "id", missing.Field)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "hi", Truncate("hi", 10))
	assert.Equal(t, "", Truncate("hi", 0))
	assert.Equal(t, "hi", Truncate("hi", -1))
}

func TestNormalizeCitations(t *testing.T) {
	info := types.CitationInfo{
		PaperID:                  "abc",
		Title:                    "Attention Is All You Need",
		CitationCount:            90000,
		InfluentialCitationCount: 12000,
		TLDR:                     &types.TLDR{Model: "tldr@v2.0.0", Text: "A new architecture."},
		Venue:                    "NeurIPS",
	}
	rec, err := NormalizeCitations("1706.03762", info.Raw())
	require.NoError(t, err)
	assert.Equal(t, types.FlatRecord{
		"arxiv_code":                 "1706.03762",
		"citation_count":             90000,
		"influential_citation_count": 12000,
		"tldr":                       "A new architecture.",
		"venue":                      "NeurIPS",
	}, rec)
}

func TestNormalizeCitationsWithoutTLDR(t *testing.T) {
	rec, err := NormalizeCitations("1706.03762", types.CitationInfo{CitationCount: 3}.Raw())
	require.NoError(t, err)
	assert.NotContains(t, rec, types.FieldTLDR)
	assert.Equal(t, 3, rec[types.FieldCitations])

	_, err = NormalizeCitations("", nil)
	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
}

func TestNormalizeSummary(t *testing.T) {
	raw := map[string]any{
		"arxiv_code": "2301.00001",
		"main_contribution": map[string]any{
			"headline":    "Big idea",
			"description": "Details",
		},
		"takeaways": map[string]any{
			"headline":    "Use it",
			"description": "How",
			"example":     "e.g.",
		},
		"category":      "LLM",
		"novelty_score": 3,
		"unrelated":     "dropped",
	}
	rec, err := NormalizeSummary(raw)
	require.NoError(t, err)
	assert.Equal(t, types.FlatRecord{
		"arxiv_code":           "2301.00001",
		"contribution_title":   "Big idea",
		"contribution_content": "Details",
		"takeaway_title":       "Use it",
		"takeaway_content":     "How",
		"takeaway_example":     "e.g.",
		"category":             "LLM",
		"novelty_score":        3,
	}, rec)

	_, err = NormalizeSummary(map[string]any{"category": "x"})
	var missing *MissingFieldError
	assert.ErrorAs(t, err, &missing)
}
