// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import "github.com/pdiddy/paper-ingest/pkg/types"

// SummaryColumns maps summary document keys to the summaries table columns.
var SummaryColumns = map[string]string{
	"arxiv_code":                    types.FieldArxivCode,
	"main_contribution_headline":    "contribution_title",
	"main_contribution_description": "contribution_content",
	"takeaways_headline":            "takeaway_title",
	"takeaways_description":         "takeaway_content",
	"takeaways_example":             "takeaway_example",
	"category":                      "category",
	"novelty_score":                 "novelty_score",
	"novelty_analysis":              "novelty_analysis",
	"technical_score":               "technical_score",
	"technical_analysis":            "technical_analysis",
	"enjoyable_score":               "enjoyable_score",
	"enjoyable_analysis":            "enjoyable_analysis",
}

// NormalizeSummary flattens a stored paper summary and projects it onto the
// summaries table columns.
func NormalizeSummary(raw map[string]any) (types.FlatRecord, error) {
	flat := Flatten(LowerKeys(raw), DefaultSeparator)
	projected := Project(flat, SummaryColumns)

	code, _ := projected[types.FieldArxivCode].(string)
	if code == "" {
		return nil, &MissingFieldError{Field: types.FieldArxivCode}
	}
	rec := make(types.FlatRecord, len(projected))
	for k, v := range projected {
		if v == nil {
			continue
		}
		rec[k] = scalar(v)
	}
	return rec, nil
}
