// Package token normalizes raw text into comparison tokens.
//
// Target sentences and recognizer transcripts go through the same
// normalization so that alignment compares like with like: words are split
// on whitespace, stripped of everything that is not a letter or a number,
// and lowercased with locale-aware casing rules (e.g. dotless i in Turkish).
package token

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Word pairs a display form with its normalized comparison form.
type Word struct {
	Original   string
	Normalized string
}

// Tokenizer normalizes text for a single language.
// Not safe for concurrent use; the caser carries transform state.
type Tokenizer struct {
	caser cases.Caser
}

// New returns a Tokenizer for the given BCP-47 language tag.
// An unrecognized or empty tag falls back to the und (root) locale.
func New(lang string) *Tokenizer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return &Tokenizer{caser: cases.Lower(tag)}
}

// Words splits text into target words, keeping the original form alongside
// the normalized one. Words that normalize to the empty string are dropped.
func (t *Tokenizer) Words(text string) []Word {
	fields := strings.Fields(text)
	words := make([]Word, 0, len(fields))
	for _, f := range fields {
		norm := t.normalize(f)
		if norm == "" {
			continue
		}
		words = append(words, Word{Original: f, Normalized: norm})
	}
	return words
}

// Tokens splits text into normalized tokens only, for recognizer snapshots.
func (t *Tokenizer) Tokens(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		norm := t.normalize(f)
		if norm == "" {
			continue
		}
		tokens = append(tokens, norm)
	}
	return tokens
}

func (t *Tokenizer) normalize(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return t.caser.String(b.String())
}
