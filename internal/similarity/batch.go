// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-ingest/internal/textnorm"
)

// BatchScorer scores one query against many candidates on a bounded pool of
// goroutines.
type BatchScorer struct {
	workers int
}

// NewBatchScorer returns a scorer running at most workers comparisons at
// once. A non-positive value uses GOMAXPROCS.
func NewBatchScorer(workers int) *BatchScorer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &BatchScorer{workers: workers}
}

// ScoreMany returns one score per candidate, in candidate order. A single
// vocabulary is fitted on the query plus all candidates before any worker
// starts; workers only transform against it. Scores are independent of
// each other. If ctx is cancelled the whole batch fails and no partial
// result is returned.
func (b *BatchScorer) ScoreMany(ctx context.Context, query string, candidates []string) ([]float64, error) {
	scores := make([]float64, len(candidates))
	if len(candidates) == 0 {
		return scores, nil
	}

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, query)
	texts = append(texts, candidates...)
	scorer := NewScorer(Fit(texts...))

	nq := textnorm.Normalize(query)
	qv := scorer.vocab.transformNormalized(nq)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("scoring candidate %d: %w", i, err)
			}
			scores[i] = scorer.score(nq, &qv, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
