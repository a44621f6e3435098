// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-ingest/internal/httputil"
	"github.com/pdiddy/paper-ingest/internal/record"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivName identifies the arXiv catalog in candidates and metrics.
const ArxivName = "arxiv"

// ArxivCatalog queries the arXiv Atom API.
type ArxivCatalog struct {
	Client *httputil.Client

	// DocumentCharsMax caps LoadDocument output; zero means DefaultDocumentCharsMax.
	DocumentCharsMax int
}

// NewArxivCatalog returns an arXiv catalog using client for all requests.
func NewArxivCatalog(client *httputil.Client) *ArxivCatalog {
	return &ArxivCatalog{Client: client}
}

// Name returns the catalog identifier.
func (c *ArxivCatalog) Name() string { return ArxivName }

// Search runs a relevance-sorted query over all fields.
func (c *ArxivCatalog) Search(ctx context.Context, query string, limit int) ([]types.Candidate, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(limit)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}
	return c.query(ctx, params)
}

// Lookup fetches the entry for a single arXiv code. ErrNotFound is returned
// when the feed comes back empty.
func (c *ArxivCatalog) Lookup(ctx context.Context, code string) (types.Candidate, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return types.Candidate{}, fmt.Errorf("empty arXiv code")
	}
	entries, err := c.query(ctx, url.Values{"id_list": {code}, "max_results": {"1"}})
	if err != nil {
		return types.Candidate{}, err
	}
	if len(entries) == 0 {
		return types.Candidate{}, fmt.Errorf("arXiv %s: %w", code, ErrNotFound)
	}
	return entries[0], nil
}

func (c *ArxivCatalog) query(ctx context.Context, params url.Values) ([]types.Candidate, error) {
	reqURL := arxivAPIBase + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.Client.Do(ctx, req)
	if err != nil {
		return nil, &UnavailableError{Catalog: ArxivName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UnavailableError{Catalog: ArxivName, StatusCode: resp.StatusCode}
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &UnavailableError{Catalog: ArxivName, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("parsing arXiv response: %w", err)}
	}

	var out []types.Candidate
	for _, e := range feed.Entries {
		// arXiv reports bad queries as a single entry titled "Error".
		if e.ID == "" || strings.Contains(e.ID, "/api/errors") {
			continue
		}
		out = append(out, e.candidate())
	}
	return out, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Updated         string          `xml:"updated"`
	Published       string          `xml:"published"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Authors         []arxivAuthor   `xml:"author"`
	Comment         string          `xml:"http://arxiv.org/schemas/atom comment"`
	PrimaryCategory arxivCategory   `xml:"http://arxiv.org/schemas/atom primary_category"`
	Categories      []arxivCategory `xml:"category"`
	Links           []arxivLink     `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

func (e arxivEntry) candidate() types.Candidate {
	c := types.Candidate{
		Identifier:      strings.TrimSpace(e.ID),
		Title:           strings.TrimSpace(e.Title),
		Summary:         strings.TrimSpace(e.Summary),
		Comment:         strings.TrimSpace(e.Comment),
		PrimaryCategory: e.PrimaryCategory.Term,
		Source:          ArxivName,
	}
	for _, a := range e.Authors {
		c.Authors = append(c.Authors, types.Author{Name: strings.TrimSpace(a.Name)})
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		c.Published = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated)); err == nil {
		c.Updated = t
	}
	for _, cat := range e.Categories {
		if cat.Term != "" {
			c.Categories = append(c.Categories, cat.Term)
		}
	}
	for _, l := range e.Links {
		c.Links = append(c.Links, types.Link{Href: l.Href, Rel: l.Rel, Title: l.Title, Type: l.Type})
		if l.Title == "pdf" || l.Type == "application/pdf" {
			c.PDFURL = l.Href
		}
	}
	if c.PDFURL == "" && c.Identifier != "" {
		c.PDFURL = arxivPDFBase + record.ArxivCode(c.Identifier)
	}
	return c
}
