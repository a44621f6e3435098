// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import "github.com/pdiddy/paper-ingest/internal/textnorm"

// Scorer computes pairwise similarity. A Scorer built with a nil vocabulary
// fits a fresh one on each pair (one-off mode); otherwise every pair is
// projected onto the shared, prefitted vocabulary.
type Scorer struct {
	vocab *Vocabulary
}

// NewScorer returns a scorer over vocab, or a one-off scorer when vocab is nil.
func NewScorer(vocab *Vocabulary) *Scorer {
	return &Scorer{vocab: vocab}
}

// Prefitted reports whether the scorer uses a shared vocabulary.
func (s *Scorer) Prefitted() bool { return s.vocab != nil }

// Score returns the similarity of a and b in [0, 1]. Texts that are identical
// after normalization score exactly 1; empty text scores 0.
func (s *Scorer) Score(a, b string) float64 {
	na := textnorm.Normalize(a)
	return s.score(na, nil, b)
}

// score compares an already-normalized left side against raw text b. qv may
// carry a precomputed vector for na under s.vocab.
func (s *Scorer) score(na string, qv *Vector, b string) float64 {
	nb := textnorm.Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	vocab := s.vocab
	if vocab == nil {
		vocab = Fit(na, nb)
		qv = nil
	}
	if qv == nil {
		v := vocab.transformNormalized(na)
		qv = &v
	}
	return Cosine(*qv, vocab.transformNormalized(nb))
}

// Similarity scores a against b in one-off mode: the feature space is fitted
// on exactly the two inputs.
func Similarity(a, b string) float64 {
	return NewScorer(nil).Score(a, b)
}
