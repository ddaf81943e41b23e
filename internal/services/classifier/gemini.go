package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/interfaces"
	"github.com/ternarybob/detego/internal/models"
	"google.golang.org/genai"
)

// GeminiService implements the ClassifierService interface using the Google
// GenAI API with the same constrained prompt as the Claude backend.
type GeminiService struct {
	config        *common.GeminiConfig
	logger        arbor.ILogger
	client        *genai.Client
	timeout       time.Duration
	maxInputChars int
}

// NewGeminiService creates a Gemini-backed classifier.
//
// The service initialization includes:
//  1. Resolving the Google API key from environment with config fallback
//  2. Setting the default model name if not specified
//  3. Parsing the timeout duration from configuration
//  4. Initializing the genai client
//
// Parameters:
//   - config: Application configuration with Gemini settings
//   - logger: Structured logger for service operations
//
// Returns:
//   - *GeminiService: Initialized service ready for use
//   - error: nil on success, error with details on failure
func NewGeminiService(config *common.Config, logger arbor.ILogger) (*GeminiService, error) {
	ctx := context.Background()
	apiKey, err := common.ResolveAPIKey("gemini_api_key", config.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Google API key is required for gemini classifier mode (set via GEMINI_API_KEY, DETEGO_GEMINI_API_KEY, or gemini.api_key in config): %w", err)
	}

	if config.Gemini.Model == "" {
		config.Gemini.Model = "gemini-3-flash-preview"
	}

	timeout, err := time.ParseDuration(config.Gemini.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Gemini.Timeout, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:        &config.Gemini,
		logger:        logger,
		client:        client,
		timeout:       timeout,
		maxInputChars: config.Classifier.MaxInputChars,
	}

	logger.Debug().
		Str("model", config.Gemini.Model).
		Dur("timeout", timeout).
		Msg("Gemini classifier service initialized successfully")

	return service, nil
}

// ClassifyBatch classifies the whole batch through a single prompted
// completion and returns one prediction per sentence, in input order.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - sentences: Ordered sentences to classify
//
// Returns:
//   - []models.Prediction: One (label, confidence) pair per sentence
//   - error: Error if the API call fails or the response breaks the contract
func (s *GeminiService) ClassifyBatch(ctx context.Context, sentences []string) ([]models.Prediction, error) {
	if len(sentences) == 0 {
		return []models.Prediction{}, nil
	}

	inputs := make([]string, len(sentences))
	for i, sentence := range sentences {
		inputs[i] = truncate(sentence, s.maxInputChars)
	}

	prompt, err := buildClassifyPrompt(inputs)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(0.0)),
		SystemInstruction: genai.NewContentFromText(classifySystemPrompt, genai.RoleUser),
	}

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}
	if response.Len() == 0 {
		return nil, fmt.Errorf("no response generated from Gemini API")
	}

	predictions, err := parsePredictions(response.String(), len(sentences))
	if err != nil {
		return nil, fmt.Errorf("invalid Gemini classification response: %w", err)
	}

	s.logger.Debug().
		Int("sentence_count", len(sentences)).
		Dur("duration", time.Since(startTime)).
		Msg("Classified sentence batch with Gemini")

	return predictions, nil
}

// HealthCheck verifies the Gemini API is reachable with the configured
// credentials using a minimal probe message.
//
// Parameters:
//   - ctx: Context for cancellation control
//
// Returns:
//   - error: nil if the probe succeeds, error with details otherwise
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	healthCheckCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText("ping")},
		},
	}

	if _, err := s.client.Models.GenerateContent(healthCheckCtx, s.config.Model, contents, nil); err != nil {
		return fmt.Errorf("Gemini health check failed: %w", err)
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Msg("Gemini classifier health check passed")

	return nil
}

// PositiveLabel returns the label the classification prompt assigns to
// AI-generated sentences.
func (s *GeminiService) PositiveLabel() string {
	return llmPositiveLabel
}

// GetMode returns the active classifier mode.
func (s *GeminiService) GetMode() interfaces.ClassifierMode {
	return interfaces.ClassifierModeGemini
}

// Close releases the client reference. The genai client does not require
// explicit cleanup.
func (s *GeminiService) Close() error {
	s.logger.Debug().Msg("Closing Gemini classifier service")
	s.client = nil
	return nil
}
