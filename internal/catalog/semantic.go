// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-ingest/internal/httputil"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API root. Declared as a var
// so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

// SemanticScholarName identifies the citation-graph catalog.
const SemanticScholarName = "semantic_scholar"

const (
	semanticSearchFields   = "title,abstract,authors,externalIds,year,publicationDate,venue"
	semanticCitationFields = "title,citationCount,influentialCitationCount,tldr,venue"

	// semanticSearchLimit is the API's page size ceiling.
	semanticSearchLimit = 100
)

// SemanticScholarCatalog queries the Semantic Scholar Graph API.
type SemanticScholarCatalog struct {
	Client *httputil.Client
	APIKey string
}

// NewSemanticScholarCatalog returns a citation-graph catalog. apiKey may be
// empty.
func NewSemanticScholarCatalog(client *httputil.Client, apiKey string) *SemanticScholarCatalog {
	return &SemanticScholarCatalog{Client: client, APIKey: apiKey}
}

// Name returns the catalog identifier.
func (c *SemanticScholarCatalog) Name() string { return SemanticScholarName }

// Search runs a keyword search. Papers with an arXiv id get an arXiv
// abstract URL as identifier so the usual code derivation applies.
func (c *SemanticScholarCatalog) Search(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > semanticSearchLimit {
		limit = semanticSearchLimit
	}
	params := url.Values{
		"query":  {q},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticSearchFields},
	}

	var sr semanticResponse
	if err := c.get(ctx, semanticAPIBase+"/paper/search?"+params.Encode(), &sr); err != nil {
		return nil, err
	}

	out := make([]types.Candidate, 0, len(sr.Data))
	for _, p := range sr.Data {
		out = append(out, p.candidate())
	}
	return out, nil
}

// Lookup returns citation data for an arXiv code. A 404 maps to
// ErrNotFound; any other failure is an *UnavailableError.
func (c *SemanticScholarCatalog) Lookup(ctx context.Context, code string) (types.CitationInfo, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return types.CitationInfo{}, fmt.Errorf("empty arXiv code")
	}
	reqURL := fmt.Sprintf("%s/paper/ARXIV:%s?fields=%s",
		semanticAPIBase, url.PathEscape(code), semanticCitationFields)

	var info types.CitationInfo
	if err := c.get(ctx, reqURL, &info); err != nil {
		return types.CitationInfo{}, err
	}
	return info, nil
}

func (c *SemanticScholarCatalog) get(ctx context.Context, reqURL string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := c.Client.Do(ctx, req)
	if err != nil {
		return &UnavailableError{Catalog: SemanticScholarName, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("Semantic Scholar %s: %w", req.URL.Path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return &UnavailableError{Catalog: SemanticScholarName, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return &UnavailableError{Catalog: SemanticScholarName, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("parsing Semantic Scholar response: %w", err)}
	}
	return nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string              `json:"paperId"`
	Title           string              `json:"title"`
	Abstract        string              `json:"abstract"`
	Year            int                 `json:"year"`
	PublicationDate string              `json:"publicationDate"`
	Venue           string              `json:"venue"`
	Authors         []semanticAuthor    `json:"authors"`
	ExternalIDs     semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

func (p semanticPaper) candidate() types.Candidate {
	c := types.Candidate{
		Title:   p.Title,
		Summary: p.Abstract,
		Comment: p.Venue,
		Source:  SemanticScholarName,
	}
	if p.ExternalIDs.ArXiv != "" {
		c.Identifier = "http://arxiv.org/abs/" + p.ExternalIDs.ArXiv
		c.PDFURL = arxivPDFBase + p.ExternalIDs.ArXiv
	} else {
		c.Identifier = "https://www.semanticscholar.org/paper/" + p.PaperID
	}
	for _, a := range p.Authors {
		c.Authors = append(c.Authors, types.Author{Name: a.Name})
	}
	if p.PublicationDate != "" {
		if t, err := time.Parse("2006-01-02", p.PublicationDate); err == nil {
			c.Published = t
		}
	} else if p.Year > 0 {
		c.Published = time.Date(p.Year, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return c
}
