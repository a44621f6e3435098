// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pdiddy/paper-ingest/internal/cache"
	"github.com/pdiddy/paper-ingest/internal/record"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

// ImportResult reports a summary import.
type ImportResult struct {
	Imported []string
	Skipped  []string
	Missing  []string
}

// ImportSummaries loads cached JSON summaries for codes and stores the ones
// not already in the summaries table in batches. Codes without a cached
// summary are reported as missing. A malformed summary fails the import
// before anything is written.
func (p *Pipeline) ImportSummaries(ctx context.Context, codes []string) (ImportResult, error) {
	var res ImportResult
	if p.Cache == nil {
		return res, fmt.Errorf("summary import needs a cache")
	}

	var recs []types.FlatRecord
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var doc map[string]any
		err := p.Cache.Load(p.CacheDirs.SummariesDir, code, cache.FormatJSON, &doc)
		if errors.Is(err, fs.ErrNotExist) {
			res.Missing = append(res.Missing, code)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("loading summary %s: %w", code, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		if _, ok := doc[types.FieldArxivCode]; !ok {
			doc[types.FieldArxivCode] = code
		}
		rec, err := record.NormalizeSummary(doc)
		if err != nil {
			return res, fmt.Errorf("normalizing summary %s: %w", code, err)
		}

		stored, err := p.Store.Exists(ctx, p.Tables.Summaries, rec.Code())
		if err != nil {
			return res, err
		}
		if stored {
			res.Skipped = append(res.Skipped, code)
			continue
		}
		recs = append(recs, rec)
		res.Imported = append(res.Imported, code)
	}

	if len(recs) == 0 {
		return res, nil
	}
	if err := p.Store.InsertBatch(ctx, p.Tables.Summaries, recs); err != nil {
		res.Imported = nil
		return res, fmt.Errorf("storing summaries: %w", err)
	}
	for range recs {
		p.countStored(p.Tables.Summaries)
	}
	p.Logger.Info().
		Int("imported", len(res.Imported)).
		Int("skipped", len(res.Skipped)).
		Int("missing", len(res.Missing)).
		Msg("summaries imported")
	return res, nil
}
