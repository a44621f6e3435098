// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity scores text pairs by cosine similarity over character
// n-gram term-frequency vectors. Text is always normalized with
// textnorm.Normalize before n-grams are taken.
package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/paper-ingest/internal/textnorm"
)

// N-gram lengths, inclusive.
const (
	MinGram = 2
	MaxGram = 3
)

// Vector is a sparse term-frequency vector with feature indices in
// ascending order, so that every reduction over it runs in a fixed order.
type Vector struct {
	indices []int
	values  []float64
}

// NewVector builds a Vector from index -> weight pairs.
func NewVector(weights map[int]float64) Vector {
	v := Vector{
		indices: make([]int, 0, len(weights)),
		values:  make([]float64, 0, len(weights)),
	}
	for idx := range weights {
		v.indices = append(v.indices, idx)
	}
	sort.Ints(v.indices)
	for _, idx := range v.indices {
		v.values = append(v.values, weights[idx])
	}
	return v
}

// Len returns the number of non-zero features.
func (v Vector) Len() int { return len(v.indices) }

// Vocabulary is an immutable n-gram feature space. Once built it is only
// read, so a single Vocabulary may be shared by concurrent scorers.
type Vocabulary struct {
	index map[string]int
}

// Fit builds a vocabulary from the n-grams observed in texts.
func Fit(texts ...string) *Vocabulary {
	seen := make(map[string]struct{})
	for _, t := range texts {
		for gram := range ngrams(textnorm.Normalize(t)) {
			seen[gram] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for gram := range seen {
		terms = append(terms, gram)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, gram := range terms {
		index[gram] = i
	}
	return &Vocabulary{index: index}
}

// Len returns the number of features.
func (v *Vocabulary) Len() int { return len(v.index) }

// Transform maps text onto the vocabulary. N-grams outside the vocabulary
// are dropped.
func (v *Vocabulary) Transform(text string) Vector {
	return v.transformNormalized(textnorm.Normalize(text))
}

func (v *Vocabulary) transformNormalized(normalized string) Vector {
	weights := make(map[int]float64)
	for gram, n := range ngrams(normalized) {
		if idx, ok := v.index[gram]; ok {
			weights[idx] = float64(n)
		}
	}
	return NewVector(weights)
}

// ngrams counts the character n-grams of already-normalized text. Runs of
// whitespace count as a single space.
func ngrams(normalized string) map[string]int {
	runes := []rune(collapseSpaces(normalized))
	counts := make(map[string]int)
	for n := MinGram; n <= MaxGram; n++ {
		for i := 0; i+n <= len(runes); i++ {
			counts[string(runes[i:i+n])]++
		}
	}
	return counts
}

func collapseSpaces(s string) string {
	if !strings.Contains(s, "  ") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Cosine returns the cosine similarity of a and b clamped to [0, 1]. A zero
// vector on either side yields 0.
func Cosine(a, b Vector) float64 {
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}

	var dot float64
	for i, j := 0, 0; i < len(a.indices) && j < len(b.indices); {
		switch {
		case a.indices[i] == b.indices[j]:
			dot += a.values[i] * b.values[j]
			i++
			j++
		case a.indices[i] < b.indices[j]:
			i++
		default:
			j++
		}
	}
	if dot == 0 {
		return 0
	}

	sim := dot / (magnitude(a) * magnitude(b))
	return math.Max(0, math.Min(1, sim))
}

func magnitude(v Vector) float64 {
	var sum float64
	for _, x := range v.values {
		sum += x * x
	}
	return math.Sqrt(sum)
}
