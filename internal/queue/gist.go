// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/paper-ingest/internal/httputil"
)

// githubAPIBase is the GitHub REST API root. Declared as a var so tests
// can substitute an httptest server.
var githubAPIBase = "https://api.github.com"

// DefaultGistFilename is the queue file inside the gist.
const DefaultGistFilename = "llm_queue.txt"

const maxQueueBytes = 4 << 20

// GistQueue keeps the list as one file of a GitHub gist. Token is only
// needed for Update.
type GistQueue struct {
	Client      *httputil.Client
	GistID      string
	Filename    string
	Description string
	Token       string
}

type gistFile struct {
	RawURL  string `json:"raw_url,omitempty"`
	Content string `json:"content"`
}

type gistResponse struct {
	HTMLURL string              `json:"html_url"`
	Files   map[string]gistFile `json:"files"`
}

type gistPatch struct {
	Description string              `json:"description"`
	Files       map[string]gistFile `json:"files"`
}

func (q *GistQueue) filename() string {
	if q.Filename == "" {
		return DefaultGistFilename
	}
	return q.Filename
}

// Fetch reads the gist metadata, then the raw file it points at.
func (q *GistQueue) Fetch(ctx context.Context) ([]string, error) {
	if q.GistID == "" {
		return nil, fmt.Errorf("gist id is empty")
	}

	var gist gistResponse
	if err := q.do(ctx, http.MethodGet, githubAPIBase+"/gists/"+q.GistID, nil, &gist); err != nil {
		return nil, err
	}
	file, ok := gist.Files[q.filename()]
	if !ok {
		return nil, fmt.Errorf("gist %s has no file %q", q.GistID, q.filename())
	}
	if file.RawURL == "" {
		return ParseList(file.Content), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.RawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := q.Client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching gist file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching gist file: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxQueueBytes))
	if err != nil {
		return nil, fmt.Errorf("reading gist file: %w", err)
	}
	return ParseList(string(body)), nil
}

// Update replaces the gist file content and returns the gist's HTML URL.
func (q *GistQueue) Update(ctx context.Context, items []string) (string, error) {
	if q.GistID == "" {
		return "", fmt.Errorf("gist id is empty")
	}
	if q.Token == "" {
		return "", fmt.Errorf("updating gist %s: no GitHub token configured", q.GistID)
	}

	content := FormatList(items)
	if content == "" {
		// Empty content deletes a gist file.
		content = "\n"
	}
	patch := gistPatch{
		Description: q.Description,
		Files:       map[string]gistFile{q.filename(): {Content: content}},
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return "", fmt.Errorf("encoding gist update: %w", err)
	}

	var gist gistResponse
	if err := q.do(ctx, http.MethodPatch, githubAPIBase+"/gists/"+q.GistID, body, &gist); err != nil {
		return "", err
	}
	return gist.HTMLURL, nil
}

func (q *GistQueue) do(ctx context.Context, method, url string, body []byte, into any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if q.Token != "" {
		req.Header.Set("Authorization", "token "+q.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := q.Client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("gist %s %s: %w", method, q.GistID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gist %s %s: HTTP %d", method, q.GistID, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("parsing gist response: %w", err)
	}
	return nil
}
