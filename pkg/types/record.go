// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// Column names shared by the normalizers and the storage schema.
const (
	FieldArxivCode   = "arxiv_code"
	FieldTitle       = "title"
	FieldSummary     = "summary"
	FieldAuthors     = "authors"
	FieldPublished   = "published"
	FieldUpdated     = "updated"
	FieldComment     = "arxiv_comment"
	FieldCitations   = "citation_count"
	FieldInfluential = "influential_citation_count"
	FieldTLDR        = "tldr"
	FieldVenue       = "venue"
)

// FlatRecord is a storage-ready, single-level mapping from column name to a
// scalar value (string, integer, float, or bool). It never holds nested
// structures.
type FlatRecord map[string]any

// Code returns the record's identifier, or "" when absent.
func (r FlatRecord) Code() string {
	s, _ := r[FieldArxivCode].(string)
	return s
}

// Columns returns the record's column names in sorted order so that
// generated SQL is deterministic.
func (r FlatRecord) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Values returns the values in the order given by cols.
func (r FlatRecord) Values(cols []string) []any {
	vals := make([]any, len(cols))
	for i, c := range cols {
		vals[i] = r[c]
	}
	return vals
}
