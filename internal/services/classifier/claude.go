package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/interfaces"
	"github.com/ternarybob/detego/internal/models"
)

// ClaudeService implements the ClassifierService interface using the
// Anthropic API. Instead of a pretrained detector head it classifies through
// a constrained prompt, so the batch contract is enforced on the parsed
// response rather than by the model architecture.
type ClaudeService struct {
	config        *common.ClaudeConfig
	logger        arbor.ILogger
	client        anthropic.Client
	timeout       time.Duration
	maxTokens     int
	maxInputChars int
}

// NewClaudeService creates a Claude-backed classifier.
//
// The service initialization includes:
//  1. Resolving the Anthropic API key from environment with config fallback
//  2. Setting the default model name if not specified
//  3. Parsing the timeout duration from configuration
//  4. Initializing the Anthropic client
//
// Parameters:
//   - config: Application configuration with Claude settings
//   - logger: Structured logger for service operations
//
// Returns:
//   - *ClaudeService: Initialized service ready for use
//   - error: nil on success, error with details on failure
func NewClaudeService(config *common.Config, logger arbor.ILogger) (*ClaudeService, error) {
	apiKey, err := common.ResolveAPIKey("anthropic_api_key", config.Claude.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API key is required for claude classifier mode (set via ANTHROPIC_API_KEY, DETEGO_CLAUDE_API_KEY, or claude.api_key in config): %w", err)
	}

	if config.Claude.Model == "" {
		config.Claude.Model = "claude-haiku-3-5-20241022"
	}

	timeout, err := time.ParseDuration(config.Claude.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Claude.Timeout, err)
	}

	maxTokens := config.Claude.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	service := &ClaudeService{
		config:        &config.Claude,
		logger:        logger,
		client:        client,
		timeout:       timeout,
		maxTokens:     maxTokens,
		maxInputChars: config.Classifier.MaxInputChars,
	}

	logger.Debug().
		Str("model", config.Claude.Model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude classifier service initialized successfully")

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
func (s *ClaudeService) ClassifyBatch(ctx context.Context, sentences []string) ([]models.Prediction, error) {
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

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		System: []anthropic.TextBlockParam{
			{Text: classifySystemPrompt},
		},
		Temperature: anthropic.Float(0.0),
	}

	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}
	if response.Len() == 0 {
		return nil, fmt.Errorf("no response generated from Claude API")
	}

	predictions, err := parsePredictions(response.String(), len(sentences))
	if err != nil {
		return nil, fmt.Errorf("invalid Claude classification response: %w", err)
	}

	s.logger.Debug().
		Int("sentence_count", len(sentences)).
		Dur("duration", time.Since(startTime)).
		Msg("Classified sentence batch with Claude")

	return predictions, nil
}

// HealthCheck verifies the Claude API is reachable with the configured
// credentials. The probe asks for a single token so repeated scheduled
// checks stay cheap.
//
// Parameters:
//   - ctx: Context for cancellation control
//
// Returns:
//   - error: nil if the probe succeeds, error with details otherwise
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	healthCheckCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	}

	if _, err := s.client.Messages.New(healthCheckCtx, params); err != nil {
		return fmt.Errorf("Claude health check failed: %w", err)
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Msg("Claude classifier health check passed")

	return nil
}

// PositiveLabel returns the label the classification prompt assigns to
// AI-generated sentences.
func (s *ClaudeService) PositiveLabel() string {
	return llmPositiveLabel
}

// GetMode returns the active classifier mode.
func (s *ClaudeService) GetMode() interfaces.ClassifierMode {
	return interfaces.ClassifierModeClaude
}

// Close releases resources. The Anthropic client holds no connections that
// need explicit cleanup.
func (s *ClaudeService) Close() error {
	s.logger.Debug().Msg("Closing Claude classifier service")
	return nil
}
