// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		raw  string
		want Item
	}{
		{"2301.07041", Item{Raw: "2301.07041", Code: "2301.07041"}},
		{"  2301.07041v3 ", Item{Raw: "2301.07041v3", Code: "2301.07041"}},
		{"arXiv:1706.03762", Item{Raw: "arXiv:1706.03762", Code: "1706.03762"}},
		{"ARXIV:1706.03762v5", Item{Raw: "ARXIV:1706.03762v5", Code: "1706.03762"}},
		{"1706.03762 | Attention Is All You Need",
			Item{Raw: "1706.03762 | Attention Is All You Need", Code: "1706.03762", Title: "Attention Is All You Need"}},
		{"Attention Is All You Need", Item{Raw: "Attention Is All You Need", Title: "Attention Is All You Need"}},
		{"Pipes | and Filters", Item{Raw: "Pipes | and Filters", Title: "Pipes | and Filters"}},
		{"1706.037", Item{Raw: "1706.037", Title: "1706.037"}},
		{"", Item{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseItem(tt.raw))
		})
	}
}

func TestOutcomeKeep(t *testing.T) {
	assert.True(t, OutcomeFailed.Keep())
	assert.False(t, OutcomeIngested.Keep())
	assert.False(t, OutcomeSkipped.Keep())
	assert.False(t, OutcomeUnmatched.Keep())
}
