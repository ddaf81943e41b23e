// Package classifier provides the sentence classification backends. Every
// backend satisfies interfaces.ClassifierService: one prediction per input
// sentence, in input order, with over-length sentences truncated silently.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/interfaces"
	"github.com/ternarybob/detego/internal/models"
	"golang.org/x/time/rate"
)

const (
	// defaultBurst allows short request bursts within the per-minute budget
	defaultBurst = 5
)

// HuggingFaceService implements the ClassifierService interface against the
// HuggingFace Inference API. The remote model stays cold until the first
// classification request; wait_for_model makes that request block while the
// model loads instead of failing.
type HuggingFaceService struct {
	config     *common.ClassifierConfig
	logger     arbor.ILogger
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// inferenceRequest is the payload for the text-classification task.
type inferenceRequest struct {
	Inputs  []string         `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// labelScore is one (label, score) candidate for one input. The API returns
// a full candidate list per input; the top-scoring entry is the prediction.
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// modelStatus is the response of the status endpoint, used for health
// probes. Probing status never triggers a model load.
type modelStatus struct {
	Loaded bool   `json:"loaded"`
	State  string `json:"state"`
}

// NewHuggingFaceService creates a classifier backed by the HuggingFace
// Inference API.
//
// The service initialization includes:
//  1. Resolving the API token from environment with config fallback
//  2. Parsing the request timeout duration
//  3. Building the rate limiter from the per-minute budget
//
// An empty token is allowed; the public Inference API serves unauthenticated
// requests at a reduced rate.
//
// Parameters:
//   - config: Application configuration with classifier settings
//   - logger: Structured logger for service operations
//
// Returns:
//   - *HuggingFaceService: Initialized service ready for use
//   - error: nil on success, error with details on failure
func NewHuggingFaceService(config *common.Config, logger arbor.ILogger) (*HuggingFaceService, error) {
	apiKey, err := common.ResolveAPIKey("hf_api_key", config.Classifier.APIKey)
	if err != nil {
		logger.Warn().Msg("No HuggingFace API token configured, using unauthenticated rate limits")
		apiKey = ""
	}

	timeout, err := time.ParseDuration(config.Classifier.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Classifier.Timeout, err)
	}

	perMinute := config.Classifier.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}

	service := &HuggingFaceService{
		config:  &config.Classifier,
		logger:  logger,
		baseURL: config.Classifier.BaseURL,
		model:   config.Classifier.Model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), defaultBurst),
	}

	logger.Debug().
		Str("model", service.model).
		Str("base_url", service.baseURL).
		Dur("timeout", timeout).
		Int("rate_limit_per_minute", perMinute).
		Bool("authenticated", apiKey != "").
		Msg("HuggingFace classifier service initialized successfully")

	return service, nil
}

// ClassifyBatch sends every sentence to the inference API in a single
// request and returns one prediction per sentence, in input order.
//
// Sentences longer than the configured maximum are truncated before the
// request is built; the model rejects over-length inputs outright, so
// truncation trades tail content for a result. A response with a different
// number of results than inputs is an inference failure, never a partial
// result.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - sentences: Ordered sentences to classify
//
// Returns:
//   - []models.Prediction: One (label, confidence) pair per sentence
//   - error: Error if the API is unreachable, rate limited, or malformed
func (s *HuggingFaceService) ClassifyBatch(ctx context.Context, sentences []string) ([]models.Prediction, error) {
	if len(sentences) == 0 {
		return []models.Prediction{}, nil
	}

	inputs := make([]string, len(sentences))
	for i, sentence := range sentences {
		inputs[i] = truncate(sentence, s.config.MaxInputChars)
	}

	payload := inferenceRequest{
		Inputs: inputs,
		Options: inferenceOptions{
			WaitForModel: s.config.WaitForModel,
		},
	}

	var results [][]labelScore
	if err := s.post(ctx, "/models/"+s.model, payload, &results); err != nil {
		return nil, err
	}

	if len(results) != len(sentences) {
		return nil, fmt.Errorf("%w: got %d for %d inputs", ErrPredictionCount, len(results), len(sentences))
	}

	predictions := make([]models.Prediction, len(results))
	for i, candidates := range results {
		top, err := topCandidate(candidates)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		predictions[i] = models.Prediction{
			Label:      top.Label,
			Confidence: top.Score,
		}
	}

	s.logger.Debug().
		Int("sentence_count", len(sentences)).
		Msg("Classified sentence batch")

	return predictions, nil
}

// HealthCheck probes the model status endpoint. The status endpoint reports
// whether the model is loaded without loading it, so probes stay cheap and
// never warm the model on the caller's behalf.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//
// Returns:
//   - error: Error if the API is unreachable or rejects the request
func (s *HuggingFaceService) HealthCheck(ctx context.Context) error {
	endpoint := "/status/" + s.model

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create status request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   endpoint,
		}
	}

	var status modelStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode status response: %w", err)
	}

	s.logger.Debug().
		Str("model", s.model).
		Bool("loaded", status.Loaded).
		Str("state", status.State).
		Msg("HuggingFace classifier health check passed")

	return nil
}

// PositiveLabel returns the label the detector model emits for AI-generated
// text.
func (s *HuggingFaceService) PositiveLabel() string {
	return s.config.PositiveLabel
}

// GetMode returns the active classifier mode.
func (s *HuggingFaceService) GetMode() interfaces.ClassifierMode {
	return interfaces.ClassifierModeHuggingFace
}

// Close releases idle HTTP connections.
func (s *HuggingFaceService) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

// post performs a rate-limited POST request against the inference API and
// decodes the JSON response into result.
func (s *HuggingFaceService) post(ctx context.Context, endpoint string, payload interface{}, result interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	s.logger.Debug().
		Str("endpoint", endpoint).
		Int("body_bytes", len(body)).
		Msg("Sending inference request")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			Endpoint:   endpoint,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode inference response: %w", err)
	}

	return nil
}

func (s *HuggingFaceService) setHeaders(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}

// topCandidate picks the highest-scoring label from one input's candidate
// list.
func topCandidate(candidates []labelScore) (labelScore, error) {
	if len(candidates) == 0 {
		return labelScore{}, fmt.Errorf("empty candidate list in inference response")
	}
	top := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > top.Score {
			top = c
		}
	}
	return top, nil
}

// truncate shortens s to at most max runes. Truncation at the byte level
// could split a multi-byte character, so the cut is rune-aligned.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
