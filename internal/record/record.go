// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record turns nested catalog records into bounded, single-level
// records ready for storage.
package record

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/paper-ingest/pkg/types"
)

// Length caps, in characters.
const (
	MaxAuthorsLength = 1000
	MaxCommentLength = 1000
)

// detailFields is the whitelist of flattened catalog keys kept for a paper.
var detailFields = []string{
	"id",
	types.FieldUpdated,
	types.FieldPublished,
	types.FieldTitle,
	types.FieldSummary,
	types.FieldAuthors,
	types.FieldComment,
}

// MissingFieldError reports a required field absent after flattening.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q missing from record", e.Field)
}

var versionSuffix = regexp.MustCompile(`v\d+$`)

// ArxivCode derives the short identifier from a raw catalog identifier:
// everything up to the last "/" is discarded, then a trailing version
// suffix ("v" followed by digits).
// "http://arxiv.org/abs/2301.00001v2" -> "2301.00001".
func ArxivCode(identifier string) string {
	id := strings.TrimSpace(identifier)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return versionSuffix.ReplaceAllString(id, "")
}

// Normalize converts a nested catalog entry into a FlatRecord with the
// columns arxiv_code, title, summary, authors, published, updated and
// arxiv_comment. Optional columns are omitted when absent; a missing
// identifier yields a *MissingFieldError.
func Normalize(raw map[string]any) (types.FlatRecord, error) {
	flat := Flatten(LowerKeys(raw), DefaultSeparator)

	kept := make(map[string]any, len(detailFields))
	for _, f := range detailFields {
		if v, ok := flat[f]; ok && v != nil {
			kept[f] = v
		}
	}

	id, _ := kept["id"].(string)
	if strings.TrimSpace(id) == "" {
		return nil, &MissingFieldError{Field: "id"}
	}
	delete(kept, "id")

	rec := types.FlatRecord{types.FieldArxivCode: ArxivCode(id)}
	for k, v := range kept {
		if k == types.FieldAuthors {
			rec[k] = joinAuthors(v)
			continue
		}
		rec[k] = scalar(v)
	}

	if s, ok := rec[types.FieldTitle].(string); ok {
		rec[types.FieldTitle] = strings.ReplaceAll(s, "\n ", "")
	}
	if s, ok := rec[types.FieldSummary].(string); ok {
		rec[types.FieldSummary] = strings.ReplaceAll(s, "\n", " ")
	}
	if s, ok := rec[types.FieldComment].(string); ok {
		rec[types.FieldComment] = strings.ReplaceAll(s, "\n ", "")
	}

	// Caps last, so they bound the final content.
	capField(rec, types.FieldAuthors, MaxAuthorsLength)
	capField(rec, types.FieldComment, MaxCommentLength)
	return rec, nil
}

// joinAuthors renders a list of author records as "A, B, C". A plain string
// passes through.
func joinAuthors(v any) string {
	var names []string
	switch list := v.(type) {
	case string:
		return list
	case []types.Author:
		for _, a := range list {
			names = append(names, a.Name)
		}
	case []string:
		names = list
	case []map[string]any:
		for _, a := range list {
			names = append(names, authorName(a))
		}
	case []any:
		for _, a := range list {
			switch x := a.(type) {
			case string:
				names = append(names, x)
			case types.Author:
				names = append(names, x.Name)
			default:
				if m, ok := asMap(x); ok {
					names = append(names, authorName(m))
				}
			}
		}
	}
	return strings.Join(names, ", ")
}

func authorName(m map[string]any) string {
	name, _ := m["name"].(string)
	return name
}

// scalar keeps strings, numbers and booleans, renders times as RFC 3339,
// and stringifies anything else so records stay flat.
func scalar(v any) any {
	switch x := v.(type) {
	case string, bool, int, int32, int64, float32, float64:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func capField(rec types.FlatRecord, field string, max int) {
	if s, ok := rec[field].(string); ok {
		rec[field] = Truncate(s, max)
	}
}

// Truncate returns s cut to at most max characters.
func Truncate(s string, max int) string {
	if max < 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
