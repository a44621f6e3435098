// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercases", "Attention Is All You Need", "attention is all you need"},
		{"punctuation becomes space", "BERT: Pre-training", "bert  pre training"},
		{"spaces are not collapsed", "a  b", "a  b"},
		{"digits kept", "GPT-4 (2023)", "gpt 4  2023 "},
		{"accented letters kept", "Élodie", "élodie"},
		{"combining accent composed", "e\u0301t\u00e9", "\u00e9t\u00e9"},
		{"uncomposable mark becomes space", "x\u0301y", "x y"},
		{"only symbols", "!!!", "   "},
		{"newlines", "line\nbreak", "line break"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestReformatLongText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"dehyphenates", "trans-\nformer", "transformer"},
		{"unwraps single newline", "first line\nsecond line", "first line second line"},
		{"keeps paragraph break", "para one.\n\npara two.", "para one.\n\npara two."},
		{"keeps longer breaks", "a\n\n\nb", "a\n\n\nb"},
		{"collapses spaces", "a    b", "a b"},
		{"wrap next to space collapses", "end of \nline", "end of line"},
		{"leading newline", "\nstart", " start"},
		{"trailing newline", "end\n", "end "},
		{"hyphen run dehyphenates fully", "a--\n\n\nb", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReformatLongText(tt.input))
		})
	}
}

func TestReformatLongTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"trans-\nformer models\nwrap lines\n\nand paragraphs",
		"--\n\n\n-\n",
		"a \n \n b",
		"x-\n-\n-\ny",
		"  spaced   out\n\n\n\n  text  ",
		"\n\n\n",
		"a\r\nb",
	}
	for _, in := range inputs {
		once := ReformatLongText(in)
		assert.Equal(t, once, ReformatLongText(once), "input %q", in)
	}
}
