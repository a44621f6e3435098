// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-ingest/internal/httputil"
)

const arxivFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>ArXiv Query</title>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <updated>2023-08-02T00:41:18Z</updated>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
  You Need</title>
    <summary>  The dominant sequence transduction models are based on complex
recurrent or convolutional neural networks.
</summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name> Noam Shazeer </name></author>
    <arxiv:comment>15 pages, 5 figures</arxiv:comment>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2009.06732v3</id>
    <published>2020-09-14T20:38:23Z</published>
    <title>Efficient Transformers: A Survey</title>
    <summary>A survey.</summary>
    <author><name>Yi Tay</name></author>
  </entry>
</feed>`

func newTestClient(ts *httptest.Server) *httputil.Client {
	return httputil.NewClient(ts.Client(), 0, 0, "paper-ingest-test/1.0")
}

func withArxivServer(t *testing.T, h http.HandlerFunc) *ArxivCatalog {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	oldAPI, oldPDF := arxivAPIBase, arxivPDFBase
	arxivAPIBase = ts.URL + "/api/query"
	arxivPDFBase = ts.URL + "/pdf/"
	t.Cleanup(func() { arxivAPIBase, arxivPDFBase = oldAPI, oldPDF })

	return NewArxivCatalog(newTestClient(ts))
}

func TestArxivSearchRequestParams(t *testing.T) {
	var captured *http.Request
	c := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	})

	_, err := c.Search(context.Background(), "attention is all you need", 40)
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "attention is all you need", q.Get("search_query"))
	assert.Equal(t, "40", q.Get("max_results"))
	assert.Equal(t, "0", q.Get("start"))
	assert.Equal(t, "relevance", q.Get("sortBy"))
	assert.Equal(t, "descending", q.Get("sortOrder"))
	assert.Equal(t, "paper-ingest-test/1.0", captured.Header.Get("User-Agent"))
}

func TestArxivSearchParsesFeed(t *testing.T) {
	c := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, arxivFeedFixture)
	})

	got, err := c.Search(context.Background(), "attention", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", first.Identifier)
	assert.Equal(t, "Attention Is All\n  You Need", first.Title)
	assert.Equal(t, "15 pages, 5 figures", first.Comment)
	assert.Equal(t, "cs.CL", first.PrimaryCategory)
	assert.Equal(t, []string{"cs.CL", "cs.LG"}, first.Categories)
	assert.Equal(t, "http://arxiv.org/pdf/1706.03762v7", first.PDFURL)
	assert.Len(t, first.Links, 2)
	require.Len(t, first.Authors, 2)
	assert.Equal(t, "Noam Shazeer", first.Authors[1].Name)
	assert.Equal(t, time.Date(2017, 6, 12, 17, 57, 34, 0, time.UTC), first.Published)
	assert.Equal(t, time.Date(2023, 8, 2, 0, 41, 18, 0, time.UTC), first.Updated)
	assert.Equal(t, ArxivName, first.Source)

	// No pdf link: falls back to the download prefix plus code.
	assert.Equal(t, arxivPDFBase+"2009.06732", got[1].PDFURL)
	assert.True(t, got[1].Updated.IsZero())
}

func TestArxivSearchEmptyQuery(t *testing.T) {
	c := NewArxivCatalog(httputil.NewClient(nil, 0, 0, ""))
	_, err := c.Search(context.Background(), "   ", 10)
	assert.Error(t, err)
}

func TestArxivSearchUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"bad xml", http.StatusOK, "<feed><entry>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := c.Search(context.Background(), "x", 5)
			var ue *UnavailableError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, ArxivName, ue.Catalog)
			assert.True(t, IsUnavailable(err))
			assert.False(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestArxivSearchTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(ts)
	ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	_, err := NewArxivCatalog(client).Search(context.Background(), "x", 5)
	assert.True(t, IsUnavailable(err), "got %v", err)
}

func TestArxivSearchSkipsErrorEntries(t *testing.T) {
	c := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"><entry>
<id>http://arxiv.org/api/errors#incorrect_id_format_for_x</id><title>Error</title></entry></feed>`)
	})
	got, err := c.Search(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestArxivLookup(t *testing.T) {
	var idList string
	c := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		idList = r.URL.Query().Get("id_list")
		fmt.Fprint(w, arxivFeedFixture)
	})

	got, err := c.Lookup(context.Background(), "1706.03762")
	require.NoError(t, err)
	assert.Equal(t, "1706.03762", idList)
	assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", got.Identifier)
}

func TestArxivLookupNotFound(t *testing.T) {
	c := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	})
	_, err := c.Lookup(context.Background(), "9999.99999")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsUnavailable(err))
}

func TestLoadDocumentStatuses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		notFound    bool
		unavailable bool
	}{
		{"missing", http.StatusNotFound, "", true, false},
		{"server error", http.StatusInternalServerError, "", false, true},
		{"not a pdf", http.StatusOK, "plain text", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			c := withArxivServer(t, func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := c.LoadDocument(context.Background(), candidateFor("http://arxiv.org/abs/2301.00001v1"))
			require.Error(t, err)
			assert.Equal(t, "/pdf/2301.00001", path)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
			assert.Equal(t, tt.unavailable, IsUnavailable(err))
		})
	}
}

func TestUnavailableErrorMessage(t *testing.T) {
	e := &UnavailableError{Catalog: "arxiv", StatusCode: 503}
	assert.Equal(t, "arxiv catalog unavailable: HTTP 503", e.Error())

	inner := errors.New("dial tcp: refused")
	e = &UnavailableError{Catalog: "arxiv", Err: inner}
	assert.ErrorIs(t, e, inner)
	assert.Contains(t, e.Error(), "refused")
}
