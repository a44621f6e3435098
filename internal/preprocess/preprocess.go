// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preprocess prepares extracted full text for downstream language
// model consumption: reflow, drop the reference list, fit a token budget.
package preprocess

import (
	"strings"

	"github.com/pdiddy/paper-ingest/internal/record"
	"github.com/pdiddy/paper-ingest/internal/textnorm"
)

const (
	// DefaultTokenBudget is the token cap applied by the ingest pipeline.
	DefaultTokenBudget = 12000

	// CharsPerToken approximates characters per token for English prose.
	CharsPerToken = 3.2

	referencesMarker = "References"
)

// TokenCounter counts the tokens a text encodes to.
type TokenCounter interface {
	CountTokens(text string) int
}

// Document reflows raw text, cuts it before the reference list when the
// marker appears exactly once, and, when counter is non-nil and budget is
// positive, truncates text that exceeds the budget to about budget tokens
// worth of characters. The cut is approximate, not on a token boundary.
func Document(raw string, counter TokenCounter, budget int) string {
	text := textnorm.ReformatLongText(raw)

	if parts := strings.Split(text, referencesMarker); len(parts) == 2 {
		text = parts[0]
	}

	if counter == nil || budget <= 0 {
		return text
	}
	if counter.CountTokens(text) > budget {
		text = record.Truncate(text, CharLimit(budget))
	}
	return text
}

// CharLimit converts a token budget to the approximate character cap.
func CharLimit(budget int) int {
	return int(float64(budget) * CharsPerToken)
}
