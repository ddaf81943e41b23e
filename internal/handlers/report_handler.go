package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/models"
	"github.com/ternarybob/detego/internal/services/detector"
	"github.com/ternarybob/detego/internal/services/pdf"
	"github.com/ternarybob/detego/internal/services/report"
)

// ReportHandler handles PDF report downloads
type ReportHandler struct {
	detector *detector.Service
	reports  *report.Service
	pdf      *pdf.Service
	logger   arbor.ILogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(detectorService *detector.Service, reportService *report.Service, pdfService *pdf.Service, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		detector: detectorService,
		reports:  reportService,
		pdf:      pdfService,
		logger:   logger,
	}
}

// ReportHandler handles POST /api/report
//
// Nothing is persisted between requests, so the report re-runs the analysis
// from the submitted text and streams the rendered PDF as an attachment.
func (h *ReportHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode report request")
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
		h.logger.Error().Err(err).Msg("Report analysis failed")
		WriteError(w, http.StatusBadGateway, "The classifier is unavailable right now; please try again shortly")
		return
	}

	markdown := h.reports.BuildMarkdown(analysis)
	pdfBytes, err := h.pdf.Render(markdown, "AI Text Detection Report")
	if err != nil {
		h.logger.Error().Err(err).Str("analysis_id", analysis.ID).Msg("Failed to render report PDF")
		WriteError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.reports.Filename(analysis)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		h.logger.Warn().Err(err).Str("analysis_id", analysis.ID).Msg("Failed to stream report PDF")
	}
}
