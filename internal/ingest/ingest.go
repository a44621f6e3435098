// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs queue entries through resolution, normalization and
// storage, and decides which entries stay queued.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-ingest/internal/cache"
	"github.com/pdiddy/paper-ingest/internal/catalog"
	"github.com/pdiddy/paper-ingest/internal/observability"
	"github.com/pdiddy/paper-ingest/internal/preprocess"
	"github.com/pdiddy/paper-ingest/internal/record"
	"github.com/pdiddy/paper-ingest/internal/resolve"
	"github.com/pdiddy/paper-ingest/internal/store"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// Outcome classifies what happened to one queue entry.
type Outcome string

const (
	OutcomeIngested  Outcome = "ingested"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeFailed    Outcome = "failed"
)

var errEmptyEntry = errors.New("empty entry")

// Keep reports whether an entry with this outcome stays in the queue.
// Only failures are retried; a missing or dissimilar paper will not
// change on a retry.
func (o Outcome) Keep() bool { return o == OutcomeFailed }

// Resolver finds the catalog candidate for a title.
type Resolver interface {
	Resolve(ctx context.Context, title string) (resolve.Match, error)
	ResolveIdentifier(ctx context.Context, code, title string) (resolve.Match, error)
}

// DocumentCatalog looks up papers by code and loads their full text.
type DocumentCatalog interface {
	Lookup(ctx context.Context, code string) (types.Candidate, error)
	LoadDocument(ctx context.Context, cand types.Candidate) (types.Document, error)
}

// CitationCatalog looks up citation data by code.
type CitationCatalog interface {
	Lookup(ctx context.Context, code string) (types.CitationInfo, error)
}

// Pipeline processes queue entries. Citations, Cache and Metrics are
// optional.
type Pipeline struct {
	Resolver  Resolver
	Documents DocumentCatalog
	Citations CitationCatalog
	Store     store.Store
	Tables    store.Tables
	Cache     *cache.Cache
	Counter   preprocess.TokenCounter
	Metrics   *observability.Metrics

	Ingest     types.IngestConfig
	Preprocess types.PreprocessConfig
	CacheDirs  types.CacheConfig

	Logger   zerolog.Logger
	Progress io.Writer
}

// Result is the outcome for one entry.
type Result struct {
	Item    Item
	Code    string
	Title   string
	Outcome Outcome
	Score   float64
	Err     error
}

// Summary is the outcome of a run. Remaining is the queue content to write
// back: failed entries plus any not reached before cancellation, in their
// original order.
type Summary struct {
	RunID     string
	Results   []Result
	Remaining []string
}

// Count returns the number of results with outcome o.
func (s Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Run processes entries in order with the configured delay between them.
// Individual failures do not stop the run. Cancellation stops it; the
// unprocessed entries are kept in Remaining and ctx.Err() is returned.
func (p *Pipeline) Run(ctx context.Context, entries []string) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	log := p.Logger.With().Str("run_id", sum.RunID).Logger()
	log.Info().Int("entries", len(entries)).Msg("ingest run started")

	var runErr error
	for i, raw := range entries {
		if i > 0 && p.Ingest.Delay > 0 {
			if err := sleep(ctx, p.Ingest.Delay); err != nil {
				runErr = err
			}
		}
		if runErr == nil {
			runErr = ctx.Err()
		}
		if runErr != nil {
			sum.Remaining = append(sum.Remaining, entries[i:]...)
			break
		}

		start := time.Now()
		res := p.process(ctx, ParseItem(raw), log)
		p.observeItem(res, time.Since(start))
		p.report(i+1, len(entries), res)

		sum.Results = append(sum.Results, res)
		if res.Outcome.Keep() {
			sum.Remaining = append(sum.Remaining, raw)
		}
	}

	p.progressf("\nIngest summary: %d ingested, %d skipped, %d unmatched, %d failed (total: %d)\n",
		sum.Count(OutcomeIngested), sum.Count(OutcomeSkipped),
		sum.Count(OutcomeUnmatched), sum.Count(OutcomeFailed), len(sum.Results))
	log.Info().
		Int("ingested", sum.Count(OutcomeIngested)).
		Int("skipped", sum.Count(OutcomeSkipped)).
		Int("unmatched", sum.Count(OutcomeUnmatched)).
		Int("failed", sum.Count(OutcomeFailed)).
		Int("remaining", len(sum.Remaining)).
		Msg("ingest run finished")
	return sum, runErr
}

// Process runs one entry through the pipeline.
func (p *Pipeline) Process(ctx context.Context, raw string) Result {
	return p.process(ctx, ParseItem(raw), p.Logger)
}

func (p *Pipeline) process(ctx context.Context, it Item, log zerolog.Logger) Result {
	res := Result{Item: it, Code: it.Code, Title: it.Title}
	log = observability.WithItem(log, it.Raw, it.Code)

	if it.Raw == "" {
		return res.fail(errEmptyEntry)
	}

	if it.Code != "" {
		stored, err := p.Store.Exists(ctx, p.Tables.Details, it.Code)
		if err != nil {
			return res.fail(err)
		}
		if stored {
			res.Outcome = OutcomeSkipped
			return res
		}
	}

	cand, score, err := p.find(ctx, it)
	res.Score = score
	switch {
	case errors.Is(err, resolve.ErrNoConfidentMatch), errors.Is(err, catalog.ErrNotFound):
		log.Info().Float64("score", score).Msg("no confident match")
		res.Outcome = OutcomeUnmatched
		res.Err = err
		return res
	case err != nil:
		return res.fail(err)
	}

	rec, err := record.Normalize(cand.Raw())
	if err != nil {
		return res.fail(err)
	}
	res.Code = rec.Code()
	res.Title, _ = rec[types.FieldTitle].(string)
	log = log.With().Str("arxiv_code", res.Code).Logger()

	if it.Code == "" || it.Code != res.Code {
		stored, err := p.Store.Exists(ctx, p.Tables.Details, res.Code)
		if err != nil {
			return res.fail(err)
		}
		if stored {
			res.Outcome = OutcomeSkipped
			return res
		}
	}

	if err := p.Store.Insert(ctx, p.Tables.Details, rec); err != nil {
		return res.fail(err)
	}
	p.countStored(p.Tables.Details)

	// Details are stored from here on; later steps only warn so the entry
	// is not retried into a duplicate.
	p.storeCitations(ctx, res.Code, log)
	if p.Ingest.FetchDocuments {
		p.storeDocument(ctx, cand, res.Code, log)
	}

	res.Outcome = OutcomeIngested
	log.Info().Float64("score", res.Score).Msg("ingested")
	return res
}

// find resolves an entry to a candidate. A bare code is looked up directly;
// anything with a title goes through similarity resolution.
func (p *Pipeline) find(ctx context.Context, it Item) (types.Candidate, float64, error) {
	switch {
	case it.Code != "" && it.Title == "":
		cand, err := p.Documents.Lookup(ctx, it.Code)
		p.countCatalog(catalog.ArxivName, err)
		return cand, 0, err
	case it.Code != "":
		m, err := p.Resolver.ResolveIdentifier(ctx, it.Code, it.Title)
		p.observeMatch(m, err)
		return m.Candidate, m.Score, err
	default:
		m, err := p.Resolver.Resolve(ctx, it.Title)
		p.observeMatch(m, err)
		return m.Candidate, m.Score, err
	}
}

func (p *Pipeline) storeCitations(ctx context.Context, code string, log zerolog.Logger) {
	if p.Citations == nil {
		return
	}
	info, err := p.Citations.Lookup(ctx, code)
	p.countCatalog(catalog.SemanticScholarName, err)
	if errors.Is(err, catalog.ErrNotFound) {
		log.Debug().Msg("no citation data")
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("citation lookup failed")
		return
	}
	rec, err := record.NormalizeCitations(code, info.Raw())
	if err != nil {
		log.Warn().Err(err).Msg("normalizing citations")
		return
	}
	if err := p.Store.Insert(ctx, p.Tables.Citations, rec); err != nil {
		log.Warn().Err(err).Msg("storing citations")
		return
	}
	p.countStored(p.Tables.Citations)
}

func (p *Pipeline) storeDocument(ctx context.Context, cand types.Candidate, code string, log zerolog.Logger) {
	if p.Cache == nil {
		log.Warn().Msg("document fetch enabled without a cache")
		return
	}
	doc, err := p.Documents.LoadDocument(ctx, cand)
	if err != nil {
		log.Warn().Err(err).Msg("loading document")
		return
	}
	text := preprocess.Document(doc.Content, p.Counter, p.Preprocess.TokenBudget)
	if err := p.Cache.Save(p.CacheDirs.DocumentsDir, code, cache.FormatText, text); err != nil {
		log.Warn().Err(err).Msg("caching document")
		return
	}
	log.Debug().Int("chars", len([]rune(text))).Msg("document cached")
}

func (r Result) fail(err error) Result {
	r.Outcome = OutcomeFailed
	r.Err = err
	return r
}

func (p *Pipeline) report(n, total int, r Result) {
	label := r.Item.Raw
	if r.Code != "" && r.Code != label {
		label = fmt.Sprintf("%s (%s)", label, r.Code)
	}
	switch r.Outcome {
	case OutcomeFailed:
		p.progressf("[%d/%d] failed:    %s: %v\n", n, total, label, r.Err)
	case OutcomeUnmatched:
		p.progressf("[%d/%d] unmatched: %s (best score %.2f)\n", n, total, label, r.Score)
	default:
		p.progressf("[%d/%d] %-10s %s\n", n, total, string(r.Outcome)+":", label)
	}
}

func (p *Pipeline) progressf(format string, args ...any) {
	if p.Progress != nil {
		fmt.Fprintf(p.Progress, format, args...)
	}
}

func (p *Pipeline) observeItem(r Result, d time.Duration) {
	if p.Metrics == nil {
		return
	}
	p.Metrics.ItemsProcessed.WithLabelValues(string(r.Outcome)).Inc()
	p.Metrics.ItemDuration.Observe(d.Seconds())
}

func (p *Pipeline) observeMatch(m resolve.Match, err error) {
	if p.Metrics == nil {
		return
	}
	if len(m.Ranked) > 0 {
		p.Metrics.MatchScore.Observe(m.Score)
	}
	name := "resolver"
	if len(m.Ranked) > 0 {
		name = m.Ranked[0].Candidate.Source
	}
	if errors.Is(err, resolve.ErrNoConfidentMatch) {
		err = nil
	}
	p.countCatalog(name, err)
}

func (p *Pipeline) countCatalog(name string, err error) {
	if p.Metrics == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		result = "not_found"
	case catalog.IsUnavailable(err):
		result = "unavailable"
	case err != nil:
		result = "error"
	}
	p.Metrics.CatalogRequests.WithLabelValues(name, result).Inc()
}

func (p *Pipeline) countStored(table string) {
	if p.Metrics != nil {
		p.Metrics.RecordsStored.WithLabelValues(table).Inc()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
