// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-ingest/internal/cache"
	"github.com/pdiddy/paper-ingest/internal/catalog"
	"github.com/pdiddy/paper-ingest/internal/httputil"
	"github.com/pdiddy/paper-ingest/internal/queue"
	"github.com/pdiddy/paper-ingest/internal/resolve"
	"github.com/pdiddy/paper-ingest/internal/secrets"
	"github.com/pdiddy/paper-ingest/internal/store"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "paper-ingest/0.1"

	// arXiv asks clients for no more than one request every three seconds.
	defaultArxivRate = 1.0 / 3
)

// setDefaults registers every key, including empty ones, so that
// environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.timeout", defaultTimeout)
	v.SetDefault("catalog.user_agent", defaultUserAgent)
	v.SetDefault("catalog.max_candidates", resolve.DefaultMaxCandidates)
	v.SetDefault("catalog.arxiv_rate_limit", defaultArxivRate)
	v.SetDefault("catalog.document_chars_max", catalog.DefaultDocumentCharsMax)
	v.SetDefault("catalog.semantic_scholar_api_key", "")

	v.SetDefault("storage.driver", string(types.DriverSQLite))
	v.SetDefault("storage.path", "data/papers.db")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.details_table", store.DefaultDetailsTable)
	v.SetDefault("storage.citations_table", store.DefaultCitationsTable)
	v.SetDefault("storage.summaries_table", store.DefaultSummariesTable)

	v.SetDefault("cache.dir", "data")
	v.SetDefault("cache.documents_dir", "arxiv_text")
	v.SetDefault("cache.summaries_dir", "summaries")

	v.SetDefault("queue.gist_id", "")
	v.SetDefault("queue.filename", queue.DefaultGistFilename)
	v.SetDefault("queue.description", "Pending papers")
	v.SetDefault("queue.file", "data/queue.txt")

	v.SetDefault("preprocess.token_budget", 12000)
	v.SetDefault("preprocess.encoding", "cl100k_base")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("ingest.delay", defaultDelay)
	v.SetDefault("ingest.fetch_documents", false)
	v.SetDefault("ingest.metrics_file", "")
}

// loadConfig decodes the merged viper settings.
func loadConfig() (types.PipelineConfig, error) {
	var c types.PipelineConfig
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding configuration: %w", err)
	}
	return c, nil
}

func newHTTPClient(c types.CatalogConfig, ratePerSecond float64) *httputil.Client {
	return httputil.NewClient(&http.Client{Timeout: c.Timeout}, ratePerSecond, 1, c.UserAgent)
}

func newArxivCatalog(c types.CatalogConfig) *catalog.ArxivCatalog {
	a := catalog.NewArxivCatalog(newHTTPClient(c, c.ArxivRateLimit))
	if c.DocumentCharsMax > 0 {
		a.DocumentCharsMax = c.DocumentCharsMax
	}
	return a
}

func newSemanticScholarCatalog(c types.CatalogConfig, s secrets.Secrets) *catalog.SemanticScholarCatalog {
	key := c.SemanticScholarAPIKey
	if key == "" {
		key = s.Get(secrets.SemanticScholarAPIKey)
	}
	return catalog.NewSemanticScholarCatalog(newHTTPClient(c, 0), key)
}

func newResolver(cat catalog.Catalog) *resolve.Resolver {
	r := resolve.New(cat, logger)
	if cfg.Catalog.MaxCandidates > 0 {
		r.MaxCandidates = cfg.Catalog.MaxCandidates
	}
	return r
}

// openStore opens the configured backend. A PostgreSQL DSN may come from
// the database-url secret.
func openStore(ctx context.Context) (store.Store, error) {
	sc := cfg.Storage
	if sc.Driver == types.DriverPostgres && sc.DSN == "" {
		sc.DSN = loadedSecrets.Get(secrets.DatabaseURL)
	}
	return store.Open(ctx, sc)
}

func newCache() *cache.Cache {
	return cache.New(cfg.Cache.Dir)
}

// newQueue selects the gist queue when a gist id is configured and the
// local file queue otherwise.
func newQueue(c types.CatalogConfig) queue.Queue {
	q := cfg.Queue
	if q.GistID != "" {
		return &queue.GistQueue{
			Client:      newHTTPClient(c, 0),
			GistID:      q.GistID,
			Filename:    q.Filename,
			Description: q.Description,
			Token:       loadedSecrets.Get(secrets.GitHubToken),
		}
	}
	return &queue.FileQueue{Path: q.File}
}
