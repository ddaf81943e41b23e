package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/interfaces"
)

func newTestHFService(t *testing.T, baseURL string) *HuggingFaceService {
	t.Helper()
	clearClassifierEnv(t)

	cfg := common.NewDefaultConfig()
	cfg.Classifier.BaseURL = baseURL
	cfg.Classifier.APIKey = "test-token"
	cfg.Classifier.Timeout = "5s"
	cfg.Classifier.RateLimitPerMinute = 6000

	service, err := NewHuggingFaceService(cfg, arbor.NewLogger())
	require.NoError(t, err)
	return service
}

func TestHuggingFaceClassifyBatch(t *testing.T) {
	var gotPath, gotAuth string
	var gotRequest inferenceRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode([][]labelScore{
			{{Label: "fake", Score: 0.92}, {Label: "real", Score: 0.08}},
			{{Label: "real", Score: 0.61}, {Label: "fake", Score: 0.39}},
		})
	}))
	defer server.Close()

	service := newTestHFService(t, server.URL)

	predictions, err := service.ClassifyBatch(context.Background(), []string{
		"The implications are significant.",
		"lol my cat just knocked over the tree",
	})
	require.NoError(t, err)
	require.Len(t, predictions, 2)

	assert.Equal(t, "/models/openai-community/roberta-base-openai-detector", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Len(t, gotRequest.Inputs, 2)
	assert.True(t, gotRequest.Options.WaitForModel)

	// Top-scoring candidate wins, order matches input order
	assert.Equal(t, "fake", predictions[0].Label)
	assert.InDelta(t, 0.92, predictions[0].Confidence, 1e-9)
	assert.Equal(t, "real", predictions[1].Label)
	assert.InDelta(t, 0.61, predictions[1].Confidence, 1e-9)
}

func TestHuggingFaceClassifyBatchTruncatesLongSentences(t *testing.T) {
	var gotRequest inferenceRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		json.NewEncoder(w).Encode([][]labelScore{
			{{Label: "real", Score: 0.7}},
		})
	}))
	defer server.Close()

	service := newTestHFService(t, server.URL)
	service.config.MaxInputChars = 10

	long := "This sentence is far longer than the configured limit."
	_, err := service.ClassifyBatch(context.Background(), []string{long})
	require.NoError(t, err)

	require.Len(t, gotRequest.Inputs, 1)
	assert.Equal(t, "This sente", gotRequest.Inputs[0])
}

func TestHuggingFaceClassifyBatchCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]labelScore{
			{{Label: "fake", Score: 0.9}},
		})
	}))
	defer server.Close()

	service := newTestHFService(t, server.URL)

	_, err := service.ClassifyBatch(context.Background(), []string{"First.", "Second."})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPredictionCount))
}

func TestHuggingFaceClassifyBatchColdModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":          "Model openai-community/roberta-base-openai-detector is currently loading",
			"estimated_time": 20.0,
		})
	}))
	defer server.Close()

	service := newTestHFService(t, server.URL)

	_, err := service.ClassifyBatch(context.Background(), []string{"Some sentence."})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.True(t, apiErr.Unavailable())
}

func TestHuggingFaceClassifyBatchEmptyInput(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	service := newTestHFService(t, server.URL)

	predictions, err := service.ClassifyBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, predictions)
	assert.False(t, called, "empty batch must not reach the API")
}

func TestHuggingFaceHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/status/openai-community/roberta-base-openai-detector", r.URL.Path)
		json.NewEncoder(w).Encode(modelStatus{Loaded: false, State: "Loadable"})
	}))
	defer server.Close()

	service := newTestHFService(t, server.URL)
	assert.NoError(t, service.HealthCheck(context.Background()))
}

func TestHuggingFaceHealthCheckRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	service := newTestHFService(t, server.URL)

	err := service.HealthCheck(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, apiErr.Unavailable())
}

func TestHuggingFaceServiceMode(t *testing.T) {
	service := newTestHFService(t, "http://127.0.0.1:0")

	assert.Equal(t, interfaces.ClassifierModeHuggingFace, service.GetMode())
	assert.Equal(t, "fake", service.PositiveLabel())
	assert.NoError(t, service.Close())
}
