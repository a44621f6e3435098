// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import "github.com/pdiddy/paper-ingest/pkg/types"

// citationColumns maps flattened citation-graph keys to stored columns.
var citationColumns = map[string]string{
	"citationcount":            types.FieldCitations,
	"influentialcitationcount": types.FieldInfluential,
	"tldr_text":                types.FieldTLDR,
	"tldr":                     types.FieldTLDR,
	"venue":                    types.FieldVenue,
}

// NormalizeCitations converts a citation-graph record into a FlatRecord
// keyed by code. The nested tldr summary is reduced to its text.
func NormalizeCitations(code string, raw map[string]any) (types.FlatRecord, error) {
	if code == "" {
		return nil, &MissingFieldError{Field: types.FieldArxivCode}
	}
	flat := Flatten(LowerKeys(raw), DefaultSeparator)
	projected := Project(flat, citationColumns)

	rec := types.FlatRecord{types.FieldArxivCode: code}
	for k, v := range projected {
		if v == nil {
			continue
		}
		rec[k] = scalar(v)
	}
	return rec, nil
}
