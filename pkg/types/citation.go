// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TLDR is a short auto-generated summary from the citation-graph catalog.
type TLDR struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

// CitationInfo is the citation-graph catalog's view of a paper.
type CitationInfo struct {
	PaperID                  string `json:"paperId"`
	Title                    string `json:"title"`
	CitationCount            int    `json:"citationCount"`
	InfluentialCitationCount int    `json:"influentialCitationCount"`
	TLDR                     *TLDR  `json:"tldr"`
	Venue                    string `json:"venue"`
}

// Raw returns the record as a nested key/value structure with the catalog's
// own key spelling, so it can go through the same flattening as other
// catalog records.
func (c CitationInfo) Raw() map[string]any {
	raw := map[string]any{
		"paperId":                  c.PaperID,
		"title":                    c.Title,
		"citationCount":            c.CitationCount,
		"influentialCitationCount": c.InfluentialCitationCount,
		"venue":                    c.Venue,
	}
	if c.TLDR != nil {
		raw["tldr"] = map[string]any{"model": c.TLDR.Model, "text": c.TLDR.Text}
	}
	return raw
}
