// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/paper-ingest/internal/record"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// arxivPDFBase is the PDF download prefix used when an entry carries no pdf
// link. Declared as a var so tests can substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

const (
	// DefaultDocumentCharsMax caps extracted full text.
	DefaultDocumentCharsMax = 70000

	maxPDFBytes = 64 << 20
)

// LoadDocument downloads the candidate's PDF and extracts its plain text,
// capped at DocumentCharsMax characters.
func (c *ArxivCatalog) LoadDocument(ctx context.Context, cand types.Candidate) (types.Document, error) {
	src := cand.PDFURL
	if src == "" {
		code := record.ArxivCode(cand.Identifier)
		if code == "" {
			return types.Document{}, fmt.Errorf("candidate has no identifier")
		}
		src = arxivPDFBase + code
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return types.Document{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.Client.Do(ctx, req)
	if err != nil {
		return types.Document{}, &UnavailableError{Catalog: ArxivName, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.Document{}, fmt.Errorf("document %s: %w", src, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return types.Document{}, &UnavailableError{Catalog: ArxivName, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return types.Document{}, &UnavailableError{Catalog: ArxivName, Err: fmt.Errorf("reading PDF: %w", err)}
	}
	if len(body) > maxPDFBytes {
		return types.Document{}, fmt.Errorf("document %s exceeds %d bytes", src, maxPDFBytes)
	}

	text, err := extractPDFText(body)
	if err != nil {
		return types.Document{}, err
	}

	limit := c.DocumentCharsMax
	if limit <= 0 {
		limit = DefaultDocumentCharsMax
	}
	return types.Document{Candidate: cand, Content: record.Truncate(text, limit)}, nil
}

// extractPDFText concatenates the plain text of every page, one newline
// between pages.
func extractPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}
	var b strings.Builder
	n := r.NumPage()
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		b.WriteString(text)
		if i < n {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
