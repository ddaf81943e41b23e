package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/interfaces"
	"github.com/ternarybob/detego/internal/models"
	"github.com/ternarybob/detego/internal/services/detector"
	"github.com/ternarybob/detego/internal/services/transform"
)

// stubClassifier implements interfaces.ClassifierService for handler tests
type stubClassifier struct {
	predictions []models.Prediction
	classifyErr error
	healthErr   error
}

func (s *stubClassifier) ClassifyBatch(_ context.Context, sentences []string) ([]models.Prediction, error) {
	if s.classifyErr != nil {
		return nil, s.classifyErr
	}
	if s.predictions != nil {
		return s.predictions, nil
	}
	// One mildly human prediction per sentence by default
	predictions := make([]models.Prediction, len(sentences))
	for i := range predictions {
		predictions[i] = models.Prediction{Label: "real", Confidence: 0.8}
	}
	return predictions, nil
}

func (s *stubClassifier) HealthCheck(_ context.Context) error { return s.healthErr }

func (s *stubClassifier) PositiveLabel() string { return "fake" }

func (s *stubClassifier) GetMode() interfaces.ClassifierMode {
	return interfaces.ClassifierModeHuggingFace
}

func (s *stubClassifier) Close() error { return nil }

func newTestDetector(classifier interfaces.ClassifierService) *detector.Service {
	logger := arbor.NewLogger()
	return detector.NewService(common.NewDefaultConfig(), classifier, transform.NewService(logger), logger)
}

func postAnalyze(handler *AnalyzeHandler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.AnalyzeHandler(rec, req)
	return rec
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	classifier := &stubClassifier{
		predictions: []models.Prediction{
			{Label: "fake", Confidence: 0.9},
			{Label: "real", Confidence: 0.8},
		},
	}
	handler := NewAnalyzeHandler(newTestDetector(classifier), arbor.NewLogger())

	body, _ := json.Marshal(models.AnalyzeRequest{Text: "First sentence is here. Second sentence follows."})
	rec := postAnalyze(handler, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var analysis models.Analysis
	if err := json.NewDecoder(rec.Body).Decode(&analysis); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if analysis.Verdict != "possibly-ai" {
		t.Errorf("verdict = %q, want %q", analysis.Verdict, "possibly-ai")
	}
	if analysis.SentenceCount != 2 {
		t.Errorf("sentence_count = %d, want 2", analysis.SentenceCount)
	}
	if analysis.Warning == "" {
		t.Error("expected a short-text warning in the response")
	}
}

func TestAnalyzeHandlerMethodNotAllowed(t *testing.T) {
	handler := NewAnalyzeHandler(newTestDetector(&stubClassifier{}), arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/analyze", nil)
	rec := httptest.NewRecorder()
	handler.AnalyzeHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestAnalyzeHandlerInvalidBody(t *testing.T) {
	handler := NewAnalyzeHandler(newTestDetector(&stubClassifier{}), arbor.NewLogger())

	rec := postAnalyze(handler, []byte("this is not json"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeHandlerBlankText(t *testing.T) {
	handler := NewAnalyzeHandler(newTestDetector(&stubClassifier{}), arbor.NewLogger())

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"empty text", `{"text":""}`},
		{"whitespace only", `{"text":"   \n\t  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postAnalyze(handler, []byte(tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestAnalyzeHandlerMinCharsOutOfRange(t *testing.T) {
	handler := NewAnalyzeHandler(newTestDetector(&stubClassifier{}), arbor.NewLogger())

	rec := postAnalyze(handler, []byte(`{"text":"Some text.","min_chars":10}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAnalyzeHandlerClassifierUnavailable(t *testing.T) {
	classifier := &stubClassifier{healthErr: errors.New("model loading")}
	handler := NewAnalyzeHandler(newTestDetector(classifier), arbor.NewLogger())

	body, _ := json.Marshal(models.AnalyzeRequest{Text: "Some valid text to analyze."})
	rec := postAnalyze(handler, body)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}

	var errBody map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if errBody["status"] != "error" {
		t.Errorf("error body status = %q, want %q", errBody["status"], "error")
	}
}

func TestAnalyzeHandlerClassifierFailure(t *testing.T) {
	classifier := &stubClassifier{classifyErr: errors.New("inference blew up")}
	handler := NewAnalyzeHandler(newTestDetector(classifier), arbor.NewLogger())

	body, _ := json.Marshal(models.AnalyzeRequest{Text: "Some valid text to analyze."})
	rec := postAnalyze(handler, body)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}
