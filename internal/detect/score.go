package detect

import (
	"strings"

	"github.com/ternarybob/detego/internal/models"
)

// SentenceScore pairs a sentence with its normalized AI probability and the
// highlight tier derived from it.
type SentenceScore struct {
	Text        string
	Probability float64
	Tier        SentenceTier
}

// Result is the outcome of scoring one document: the overall probability
// (arithmetic mean of the sentence probabilities), its verdict tier, and the
// ordered per-sentence scores it was derived from.
type Result struct {
	Probability float64
	Verdict     Verdict
	Sentences   []SentenceScore
}

// Normalize converts a raw classifier prediction into an AI probability.
// When label matches positiveLabel case-insensitively the probability is the
// confidence itself, otherwise 1 - confidence. Any label that is not the
// positive label takes the non-positive branch, so a classifier emitting an
// unexpected third label degrades safely. The result is clamped into [0, 1]
// to guard against numerical edge cases in the classifier output.
func Normalize(label string, confidence float64, positiveLabel string) float64 {
	if strings.EqualFold(label, positiveLabel) {
		return clamp01(confidence)
	}
	return clamp01(1.0 - confidence)
}

// Aggregate returns the arithmetic mean of scores, or 0.0 for an empty slice.
func Aggregate(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// ScoreSentences normalizes one prediction per sentence and attaches highlight
// tiers. Inputs must be the same length and order; the classifier adapter
// enforces that before this is called.
func ScoreSentences(sentences []string, predictions []models.Prediction, positiveLabel string) []SentenceScore {
	scored := make([]SentenceScore, 0, len(sentences))
	for i, sentence := range sentences {
		p := Normalize(predictions[i].Label, predictions[i].Confidence, positiveLabel)
		scored = append(scored, SentenceScore{
			Text:        sentence,
			Probability: p,
			Tier:        SentenceTierFor(p),
		})
	}
	return scored
}

// Evaluate aggregates scored sentences into a Result. The overall probability
// is the mean of the sentence probabilities; an empty slice yields 0.0 and a
// likely-human verdict.
func Evaluate(scored []SentenceScore) Result {
	probs := make([]float64, 0, len(scored))
	for _, s := range scored {
		probs = append(probs, s.Probability)
	}
	overall := Aggregate(probs)
	return Result{
		Probability: overall,
		Verdict:     VerdictFor(overall),
		Sentences:   scored,
	}
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
