// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve matches a noisy title against an external catalog. All
// returned candidates are re-ranked by title similarity and only the top
// one may be accepted, and only when its score clears Threshold.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-ingest/internal/catalog"
	"github.com/pdiddy/paper-ingest/internal/similarity"
	"github.com/pdiddy/paper-ingest/internal/textnorm"
	"github.com/pdiddy/paper-ingest/pkg/types"
)

const (
	// Threshold is the similarity the top candidate must strictly exceed.
	Threshold = 0.7

	// DefaultMaxCandidates caps the candidates fetched per resolution.
	DefaultMaxCandidates = 40
)

// ErrNoConfidentMatch means the catalog answered but no candidate was
// similar enough. It is an expected outcome, not a fault.
var ErrNoConfidentMatch = errors.New("no confident match")

// Scored pairs a candidate with its title similarity to the query.
type Scored struct {
	Candidate types.Candidate `json:"candidate"`
	Score     float64         `json:"score"`
}

// Match is the result of a resolution. Ranked holds every candidate in
// descending score order, ties in catalog order. Candidate and Score are the
// accepted top entry; on ErrNoConfidentMatch Candidate is zero and Score is
// the best score seen.
type Match struct {
	Candidate types.Candidate `json:"candidate"`
	Score     float64         `json:"score"`
	Ranked    []Scored        `json:"ranked,omitempty"`
}

// Scorer scores one query against many candidate titles, in order.
// *similarity.BatchScorer satisfies it.
type Scorer interface {
	ScoreMany(ctx context.Context, query string, candidates []string) ([]float64, error)
}

// Resolver resolves titles against one catalog.
type Resolver struct {
	Catalog       catalog.Catalog
	Scorer        Scorer
	MaxCandidates int
	Logger        zerolog.Logger
}

// New returns a resolver over cat with default limits.
func New(cat catalog.Catalog, logger zerolog.Logger) *Resolver {
	return &Resolver{
		Catalog:       cat,
		Scorer:        similarity.NewBatchScorer(0),
		MaxCandidates: DefaultMaxCandidates,
		Logger:        logger,
	}
}

// Resolve searches the catalog with the normalized title and scores every
// candidate against title.
func (r *Resolver) Resolve(ctx context.Context, title string) (Match, error) {
	query := strings.Join(strings.Fields(textnorm.Normalize(title)), " ")
	return r.resolve(ctx, query, title)
}

// ResolveIdentifier searches the catalog with an identifier and scores the
// candidates against a separately known title. This guards against the
// identifier search returning a different paper.
func (r *Resolver) ResolveIdentifier(ctx context.Context, code, title string) (Match, error) {
	return r.resolve(ctx, strings.TrimSpace(code), title)
}

func (r *Resolver) resolve(ctx context.Context, query, title string) (Match, error) {
	log := r.Logger.With().Str("catalog", r.Catalog.Name()).Str("query", query).Logger()

	if query == "" {
		return Match{}, fmt.Errorf("empty query: %w", ErrNoConfidentMatch)
	}

	limit := r.MaxCandidates
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	cands, err := r.Catalog.Search(ctx, query, limit)
	if err != nil {
		return Match{}, fmt.Errorf("searching %s: %w", r.Catalog.Name(), err)
	}
	if len(cands) == 0 {
		log.Debug().Msg("catalog returned no candidates")
		return Match{}, ErrNoConfidentMatch
	}

	ranked, err := r.rank(ctx, title, cands)
	if err != nil {
		return Match{}, err
	}

	top := ranked[0]
	log.Debug().
		Int("candidates", len(ranked)).
		Float64("top_score", top.Score).
		Str("top_title", top.Candidate.Title).
		Msg("ranked candidates")

	if top.Score > Threshold {
		return Match{Candidate: top.Candidate, Score: top.Score, Ranked: ranked}, nil
	}
	return Match{Score: top.Score, Ranked: ranked}, ErrNoConfidentMatch
}

// rank scores all candidates and sorts them by descending score. The sort is
// stable so equal scores keep catalog relevance order.
func (r *Resolver) rank(ctx context.Context, title string, cands []types.Candidate) ([]Scored, error) {
	titles := make([]string, len(cands))
	for i, c := range cands {
		titles[i] = c.Title
	}

	scorer := r.Scorer
	if scorer == nil {
		scorer = similarity.NewBatchScorer(0)
	}
	scores, err := scorer.ScoreMany(ctx, title, titles)
	if err != nil {
		return nil, fmt.Errorf("scoring candidates: %w", err)
	}
	if len(scores) != len(cands) {
		return nil, fmt.Errorf("scorer returned %d scores for %d candidates", len(scores), len(cands))
	}

	ranked := make([]Scored, len(cands))
	for i, c := range cands {
		ranked[i] = Scored{Candidate: c, Score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked, nil
}
