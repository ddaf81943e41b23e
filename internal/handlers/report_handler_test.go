package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/models"
	"github.com/ternarybob/detego/internal/services/pdf"
	"github.com/ternarybob/detego/internal/services/report"
)

func newReportHandler(classifier *stubClassifier) *ReportHandler {
	logger := arbor.NewLogger()
	return NewReportHandler(newTestDetector(classifier), report.NewService(logger), pdf.NewService(logger), logger)
}

func postReport(handler *ReportHandler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/report", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ReportHandler(rec, req)
	return rec
}

func TestReportHandlerStreamsPDF(t *testing.T) {
	classifier := &stubClassifier{
		predictions: []models.Prediction{
			{Label: "fake", Confidence: 0.9},
			{Label: "real", Confidence: 0.8},
		},
	}
	handler := newReportHandler(classifier)

	body, _ := json.Marshal(models.AnalyzeRequest{Text: "First sentence is here. Second sentence follows."})
	rec := postReport(handler, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, "detego-report-") {
		t.Errorf("unexpected Content-Disposition: %q", disposition)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("response body is not a PDF")
	}
}

func TestReportHandlerBlankText(t *testing.T) {
	handler := newReportHandler(&stubClassifier{})

	rec := postReport(handler, []byte(`{"text":"  "}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestReportHandlerClassifierUnavailable(t *testing.T) {
	classifier := &stubClassifier{classifyErr: errors.New("backend gone")}
	handler := newReportHandler(classifier)

	body, _ := json.Marshal(models.AnalyzeRequest{Text: "Some valid text to analyze."})
	rec := postReport(handler, body)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestReportHandlerMethodNotAllowed(t *testing.T) {
	handler := newReportHandler(&stubClassifier{})

	req := httptest.NewRequest("GET", "/api/report", nil)
	rec := httptest.NewRecorder()
	handler.ReportHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
