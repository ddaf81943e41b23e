package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/detego/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		confidence float64
		want       float64
	}{
		{"positive label keeps confidence", "fake", 0.9, 0.9},
		{"positive label case-insensitive", "FAKE", 0.8, 0.8},
		{"negative label inverts confidence", "real", 0.8, 0.2},
		{"negative label case-insensitive", "Real", 0.3, 0.7},
		{"unexpected label takes negative branch", "unsure", 0.9, 0.1},
		{"confidence above one clamps", "fake", 1.2, 1.0},
		{"confidence below zero clamps", "real", -0.1, 1.0},
		{"zero confidence", "fake", 0.0, 0.0},
		{"full confidence inverted", "real", 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.label, tt.confidence, "fake")
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestNormalizeConfigurablePositiveLabel(t *testing.T) {
	// The positive label is classifier-specific, not a fixed string.
	assert.InDelta(t, 0.85, Normalize("AI", 0.85, "ai"), 1e-9)
	assert.InDelta(t, 0.15, Normalize("human", 0.85, "ai"), 1e-9)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"empty returns zero", nil, 0.0},
		{"single score", []float64{0.6}, 0.6},
		{"mean of two", []float64{0.9, 0.2}, 0.55},
		{"mean of several", []float64{0.0, 0.5, 1.0}, 0.5},
		{"all zeros", []float64{0.0, 0.0}, 0.0},
		{"all ones", []float64{1.0, 1.0, 1.0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.scores)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScoreSentences(t *testing.T) {
	sentences := []string{"First sentence.", "Second sentence."}
	predictions := []models.Prediction{
		{Label: "fake", Confidence: 0.9},
		{Label: "real", Confidence: 0.8},
	}

	scored := ScoreSentences(sentences, predictions, "fake")

	assert.Len(t, scored, 2)
	assert.Equal(t, "First sentence.", scored[0].Text)
	assert.InDelta(t, 0.9, scored[0].Probability, 1e-9)
	assert.Equal(t, SentenceTierStrong, scored[0].Tier)
	assert.Equal(t, "Second sentence.", scored[1].Text)
	assert.InDelta(t, 0.2, scored[1].Probability, 1e-9)
	assert.Equal(t, SentenceTierNone, scored[1].Tier)
}

func TestEvaluate(t *testing.T) {
	scored := ScoreSentences(
		[]string{"One.", "Two."},
		[]models.Prediction{
			{Label: "fake", Confidence: 0.9},
			{Label: "real", Confidence: 0.8},
		},
		"fake",
	)

	result := Evaluate(scored)

	assert.InDelta(t, 0.55, result.Probability, 1e-9)
	assert.Equal(t, VerdictPossiblyAI, result.Verdict)
	assert.Len(t, result.Sentences, 2)
}

func TestEvaluateEmpty(t *testing.T) {
	result := Evaluate(nil)
	assert.Equal(t, 0.0, result.Probability)
	assert.Equal(t, VerdictLikelyHuman, result.Verdict)
	assert.Empty(t, result.Sentences)
}

func TestPipelineIsDeterministic(t *testing.T) {
	sentences := Segment("The output is stable. Every run agrees!")
	predictions := []models.Prediction{
		{Label: "fake", Confidence: 0.72},
		{Label: "real", Confidence: 0.4},
	}

	first := Evaluate(ScoreSentences(sentences, predictions, "fake"))
	second := Evaluate(ScoreSentences(sentences, predictions, "fake"))

	assert.Equal(t, first, second)
	assert.Equal(t, RenderAnnotated(first.Sentences), RenderAnnotated(second.Sentences))
}
