package interfaces

import (
	"context"

	"github.com/ternarybob/detego/internal/models"
)

// ClassifierMode identifies which backend performs sentence classification
type ClassifierMode string

const (
	// ClassifierModeHuggingFace uses the HuggingFace Inference API with a
	// pretrained binary detector model (the default)
	ClassifierModeHuggingFace ClassifierMode = "huggingface"

	// ClassifierModeClaude uses the Anthropic API with a constrained
	// classification prompt
	ClassifierModeClaude ClassifierMode = "claude"

	// ClassifierModeGemini uses the Google GenAI API with a constrained
	// classification prompt
	ClassifierModeGemini ClassifierMode = "gemini"
)

// ClassifierService defines the interface for the external binary text
// classifier. Implementations wrap a pretrained model behind a fixed batch
// contract; callers depend only on this interface, never on the backend.
type ClassifierService interface {
	// ClassifyBatch classifies every sentence in one call and returns exactly
	// one prediction per input, in input order. Implementations truncate
	// over-length sentences to the model's maximum input size silently rather
	// than failing. A result of any other length is an error.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - sentences: Ordered sentences to classify; must be non-empty
	//
	// Returns:
	//   - []models.Prediction: One (label, confidence) pair per sentence
	//   - error: Error if the classifier is unavailable or inference fails
	ClassifyBatch(ctx context.Context, sentences []string) ([]models.Prediction, error)

	// HealthCheck verifies the classifier backend is reachable and ready.
	// For API-backed modes this probes connectivity and authentication.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//
	// Returns:
	//   - error: Error if the backend is not healthy or unreachable
	HealthCheck(ctx context.Context) error

	// PositiveLabel returns the label value this backend emits for
	// AI-generated text, used by score normalization.
	//
	// Returns:
	//   - string: The backend's positive label (canonically "fake")
	PositiveLabel() string

	// GetMode returns the active classifier mode.
	//
	// Returns:
	//   - ClassifierMode: Current mode
	GetMode() ClassifierMode

	// Close releases backend resources such as HTTP connections.
	//
	// Returns:
	//   - error: Error if cleanup fails
	Close() error
}
