package classifier

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrPredictionCount is returned when a backend produces a different number
// of predictions than the number of sentences it was given. Callers treat
// this as inference failure; partial results are never surfaced.
var ErrPredictionCount = errors.New("classifier returned wrong number of predictions")

// APIError represents an error from the inference API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Unavailable reports whether the upstream could not serve at all, which
// for the HuggingFace API includes a model still loading (503).
func (e *APIError) Unavailable() bool {
	return e.StatusCode == http.StatusServiceUnavailable ||
		e.StatusCode == http.StatusBadGateway ||
		e.StatusCode == http.StatusGatewayTimeout
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("classifier rate limit exceeded, retry after %v", e.RetryAfter)
}
