package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/models"
	"github.com/ternarybob/detego/internal/services/detector"
)

// AnalyzeHandler handles analysis API requests
type AnalyzeHandler struct {
	detector *detector.Service
	logger   arbor.ILogger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(detectorService *detector.Service, logger arbor.ILogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		detector: detectorService,
		logger:   logger,
	}
}

// AnalyzeHandler handles POST /api/analyze
//
// The request body carries the raw text and an optional recommended-minimum
// override. Blank submissions are rejected with 400 before the classifier is
// touched; classifier failures map to 502 with no partial results. Short but
// non-empty submissions are analyzed normally and carry a warning in the
// response body.
func (h *AnalyzeHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode analyze request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	analysis, err := h.detector.Analyze(r.Context(), &req)
	if err != nil {
		if errors.Is(err, detector.ErrEmptyInput) {
			WriteError(w, http.StatusBadRequest, "Please provide some text to analyze")
			return
		}
		h.logger.Error().Err(err).Msg("Analysis failed")
		WriteError(w, http.StatusBadGateway, "The classifier is unavailable right now; please try again shortly")
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}
