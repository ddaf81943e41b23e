// Package detect implements the scoring pipeline for AI-generated text
// detection: sentence segmentation, score normalization, aggregation, and
// the mapping from probabilities to presentation tiers.
package detect

import (
	"strings"
	"unicode"
)

// isTerminal reports whether r ends a sentence.
func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Segment splits text into an ordered list of sentences. A boundary is a
// sentence-ending punctuation mark (. ! ?) followed by whitespace and an
// ASCII uppercase letter; the whitespace is consumed, punctuation stays with
// the preceding sentence. Each piece is trimmed and empty pieces are dropped.
//
// Empty or whitespace-only input returns nil. Non-empty input that produces
// no boundary (no terminal punctuation, or a caseless script) is returned as
// a single sentence. The heuristic is deliberately simple and mis-segments
// abbreviations and decimal numbers; downstream thresholds are tuned against
// this exact behavior, so the rule must not change.
func Segment(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	var sentences []string

	start := 0
	i := 0
	for i < len(runes) {
		if isTerminal(runes[i]) {
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			// Boundary only when at least one whitespace rune was consumed
			// and the next rune is an ASCII uppercase letter.
			if j > i+1 && j < len(runes) && runes[j] >= 'A' && runes[j] <= 'Z' {
				if piece := strings.TrimSpace(string(runes[start : i+1])); piece != "" {
					sentences = append(sentences, piece)
				}
				start = j
				i = j
				continue
			}
		}
		i++
	}

	if start < len(runes) {
		if piece := strings.TrimSpace(string(runes[start:])); piece != "" {
			sentences = append(sentences, piece)
		}
	}

	// Degenerate segmentation falls back to one sentence rather than none.
	if len(sentences) == 0 {
		return []string{trimmed}
	}
	return sentences
}
