package classifier

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/detego/internal/models"
)

// llmPositiveLabel is the label the prompt instructs the model to emit for
// AI-generated sentences, matching the pretrained detector's vocabulary so
// score normalization works identically across backends.
const llmPositiveLabel = "fake"

// classifySystemPrompt pins the model into classifier behavior for the
// LLM-backed modes.
const classifySystemPrompt = "You are a precise text classifier. You always respond with valid JSON and nothing else."

// buildClassifyPrompt constructs the classification instruction for the
// LLM-backed modes. Sentences are embedded as a JSON array so quoting and
// newlines inside them cannot break the prompt structure.
func buildClassifyPrompt(sentences []string) (string, error) {
	encoded, err := json.Marshal(sentences)
	if err != nil {
		return "", fmt.Errorf("failed to encode sentences: %w", err)
	}

	instruction := fmt.Sprintf(`You are a detector of machine-generated text.

Task: For each sentence in the input array, judge whether it was written by an AI language model or by a human.

Rules:
- Label "fake" means the sentence reads as AI-generated; label "real" means human-written
- Confidence is your certainty in the chosen label, from 0.0 to 1.0
- Return exactly one object per input sentence, in input order
- Judge writing style only: regularity, word choice, hedging, structural uniformity
- Never refuse; if unsure, pick the likelier label with low confidence

Output Format (JSON only, no markdown fences):
[
  {"label": "fake", "confidence": 0.92},
  {"label": "real", "confidence": 0.61}
]

Input array:
%s`, string(encoded))

	return instruction, nil
}

// parsePredictions decodes a model response into predictions and enforces
// the batch contract: exactly one prediction per input, in input order.
func parsePredictions(response string, want int) ([]models.Prediction, error) {
	cleaned := cleanMarkdownFences(response)

	var parsed []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if len(parsed) != want {
		return nil, fmt.Errorf("%w: got %d for %d inputs", ErrPredictionCount, len(parsed), want)
	}

	predictions := make([]models.Prediction, len(parsed))
	for i, p := range parsed {
		if p.Label == "" {
			return nil, fmt.Errorf("prediction %d has empty label", i)
		}
		predictions[i] = models.Prediction{
			Label:      strings.ToLower(strings.TrimSpace(p.Label)),
			Confidence: p.Confidence,
		}
	}

	return predictions, nil
}

// cleanMarkdownFences removes markdown code fences from response
func cleanMarkdownFences(s string) string {
	s = strings.TrimSpace(s)

	fencePattern := regexp.MustCompile(`(?s)^\s*` + "```" + `(?:json|JSON)?\s*\n?(.*?)\n?\s*` + "```" + `\s*$`)
	if matches := fencePattern.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
