// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import "strings"

// DefaultSeparator joins parent and child keys when flattening.
const DefaultSeparator = "_"

// Flatten resolves every level of nested maps into a single-level map whose
// keys join the path with sep ("a" -> {"b": 1} becomes "a_b": 1). Values
// that are not maps, including slices, are copied as-is. When two paths
// produce the same key the one visited last wins; keys are visited in
// sorted order at each level so the outcome is stable.
func Flatten(m map[string]any, sep string) map[string]any {
	out := make(map[string]any, len(m))
	flattenInto(out, "", m, sep)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any, sep string) {
	for _, k := range sortedKeys(m) {
		key := k
		if prefix != "" {
			key = prefix + sep + k
		}
		if child, ok := asMap(m[k]); ok {
			flattenInto(out, key, child, sep)
			continue
		}
		out[key] = m[k]
	}
}

// asMap accepts the map shapes produced by JSON and YAML decoders.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, x := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = x
		}
		return out, true
	}
	return nil, false
}

// LowerKeys returns a copy of m with its top-level keys lower-cased.
func LowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for _, k := range sortedKeys(m) {
		out[strings.ToLower(k)] = m[k]
	}
	return out
}

// Project renames and drops columns: every key of mapping present in flat is
// copied under its mapped name; everything else is dropped.
func Project(flat map[string]any, mapping map[string]string) map[string]any {
	out := make(map[string]any, len(mapping))
	for _, src := range sortedStringKeys(mapping) {
		if v, ok := flat[src]; ok {
			out[mapping[src]] = v
		}
	}
	return out
}
