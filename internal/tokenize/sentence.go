// Package tokenize provides pluggable sentence segmentation for
// sentence-granularity validation.
package tokenize

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into ordered sentences
type Tokenizer interface {
	Segment(text string) []string
}

// SentenceSplitter is a rule-based tokenizer: a sentence ends at a
// terminator ('.', '!', '?') followed by whitespace or end of text,
// unless the period belongs to a common abbreviation or an initial.
type SentenceSplitter struct{}

// NewSentenceSplitter creates the default tokenizer
func NewSentenceSplitter() *SentenceSplitter {
	return &SentenceSplitter{}
}

// Segment splits text into sentences in original order. Whitespace-only
// input yields no sentences.
func (s *SentenceSplitter) Segment(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)

		if r != '.' && r != '!' && r != '?' {
			continue
		}

		atEnd := i+1 >= len(text)
		if !atEnd && text[i+1] != ' ' && text[i+1] != '\t' {
			continue
		}
		if r == '.' && !atEnd && endsInAbbreviation(current.String()) {
			continue
		}
		flush()
	}
	flush()

	return sentences
}

// Common abbreviations whose trailing period does not end a sentence
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "vs": true, "etc": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "approx": true,
}

// endsInAbbreviation reports whether the accumulated text ends in an
// abbreviation (or a single-letter initial) followed by its period
func endsInAbbreviation(text string) bool {
	text = strings.TrimSuffix(text, ".")
	idx := strings.LastIndexAny(text, " \t")
	word := text[idx+1:]
	if word == "" {
		return false
	}
	if len(word) == 1 && unicode.IsUpper(rune(word[0])) {
		return true
	}
	return abbreviations[strings.ToLower(word)]
}
