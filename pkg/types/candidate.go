// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-ingest pipeline:
// catalog candidates, citation-graph records, storage-ready flat records,
// and stage configuration.
package types

import "time"

// Author is a name-bearing author record as returned by a catalog.
type Author struct {
	Name string `json:"name" yaml:"name"`
}

// Link is an alternate representation of a catalog entry (abstract page, PDF).
type Link struct {
	Href  string `json:"href" yaml:"href"`
	Rel   string `json:"rel,omitempty" yaml:"rel,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Candidate is an external catalog's proposed match for a query. The
// resolver only reads it; the catalog owns the data.
type Candidate struct {
	// Identifier is the raw catalog identifier
	// (e.g. "http://arxiv.org/abs/2301.00001v2").
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the entry title exactly as the catalog returned it.
	Title string `json:"title" yaml:"title"`

	// Summary is the abstract or auto-generated summary.
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists the authors in catalog order.
	Authors []Author `json:"authors" yaml:"authors"`

	Published time.Time `json:"published" yaml:"published"`
	Updated   time.Time `json:"updated" yaml:"updated"`

	// Comment is the optional free-text author comment (page counts, venue).
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	PrimaryCategory string   `json:"primary_category,omitempty" yaml:"primary_category,omitempty"`
	Categories      []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Links           []Link   `json:"links,omitempty" yaml:"links,omitempty"`

	// PDFURL is the direct full-text link when the catalog provides one.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// Source names the catalog that produced the candidate.
	Source string `json:"source" yaml:"source"`
}

// Raw returns the candidate as a nested key/value structure shaped like the
// catalog feed entry. Record normalization consumes this form.
func (c Candidate) Raw() map[string]any {
	raw := map[string]any{
		"id":      c.Identifier,
		"title":   c.Title,
		"summary": c.Summary,
	}

	authors := make([]any, 0, len(c.Authors))
	for _, a := range c.Authors {
		authors = append(authors, map[string]any{"name": a.Name})
	}
	raw["authors"] = authors

	if !c.Published.IsZero() {
		raw["published"] = c.Published.UTC().Format(time.RFC3339)
	}
	if !c.Updated.IsZero() {
		raw["updated"] = c.Updated.UTC().Format(time.RFC3339)
	}
	if c.Comment != "" {
		raw["arxiv_comment"] = c.Comment
	}
	if c.PrimaryCategory != "" {
		raw["arxiv_primary_category"] = map[string]any{"term": c.PrimaryCategory}
	}
	if len(c.Links) > 0 {
		links := make([]any, 0, len(c.Links))
		for _, l := range c.Links {
			links = append(links, map[string]any{"href": l.Href, "rel": l.Rel, "title": l.Title})
		}
		raw["links"] = links
	}
	return raw
}

// Document is a candidate together with its extracted full text.
type Document struct {
	Candidate Candidate `json:"candidate" yaml:"candidate"`
	Content   string    `json:"content" yaml:"content"`
}
