// Package detector orchestrates the analysis pipeline: input normalization,
// sentence segmentation, batch classification, score aggregation, and
// response assembly.
package detector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/detect"
	"github.com/ternarybob/detego/internal/interfaces"
	"github.com/ternarybob/detego/internal/models"
	"github.com/ternarybob/detego/internal/services/transform"
)

// ErrEmptyInput is returned when a submission contains no analyzable text
// after trimming. The classifier is never called for empty input.
var ErrEmptyInput = errors.New("no text provided")

// Service runs the detection pipeline against a classifier backend.
type Service struct {
	config     *common.Config
	logger     arbor.ILogger
	classifier interfaces.ClassifierService
	transform  *transform.Service

	// readiness latches on first success and is re-attempted on failure,
	// so a classifier outage at startup does not poison later requests
	readyMu sync.RWMutex
	ready   bool
}

// NewService creates a detector service.
//
// Parameters:
//   - config: Application configuration with analysis settings
//   - classifier: Classification backend for sentence scoring
//   - transformService: Input normalization for pasted HTML
//   - logger: Structured logger for service operations
//
// Returns:
//   - *Service: Initialized service ready for use
func NewService(config *common.Config, classifier interfaces.ClassifierService, transformService *transform.Service, logger arbor.ILogger) *Service {
	return &Service{
		config:     config,
		logger:     logger,
		classifier: classifier,
		transform:  transformService,
	}
}

// Analyze runs the full detection pipeline over one submission.
//
// The pipeline: trim and normalize the input, segment into sentences,
// classify every sentence in one batch call, normalize and aggregate the
// scores, then assemble the annotated response. Short submissions still run;
// they only pick up a reliability warning. A classifier failure aborts the
// whole analysis; partial results are never returned.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - req: Analysis request with the raw text and optional minimum override
//
// Returns:
//   - *models.Analysis: Complete scored analysis
//   - error: ErrEmptyInput for blank submissions, or the classifier error
func (s *Service) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.Analysis, error) {
	startTime := time.Now()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if s.transform != nil && s.transform.LooksLikeHTML(text) {
		plain, err := s.transform.ToPlainText(text)
		if err == nil && strings.TrimSpace(plain) != "" {
			text = strings.TrimSpace(plain)
		}
	}

	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	sentences := detect.Segment(text)

	predictions, err := s.classifier.ClassifyBatch(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	if len(predictions) != len(sentences) {
		return nil, fmt.Errorf("classifier returned %d predictions for %d sentences", len(predictions), len(sentences))
	}

	scored := detect.ScoreSentences(sentences, predictions, s.classifier.PositiveLabel())
	result := detect.Evaluate(scored)

	charCount := utf8.RuneCountInString(text)
	minChars := s.config.EffectiveMinChars(req.MinChars)

	analysis := &models.Analysis{
		ID:            common.NewAnalysisID(),
		Verdict:       string(result.Verdict),
		Message:       detect.VerdictMessage(result.Verdict),
		Probability:   result.Probability,
		Percent:       detect.Percent(result.Probability),
		BarGradient:   detect.VerdictGradient(result.Verdict),
		AnnotatedHTML: detect.RenderAnnotated(scored),
		Sentences:     toSentenceResults(scored),
		CharCount:     charCount,
		SentenceCount: len(scored),
		Mode:          string(s.classifier.GetMode()),
		DurationMs:    time.Since(startTime).Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}

	if charCount < minChars {
		analysis.Warning = fmt.Sprintf("Text is %d characters, below the recommended minimum of %d; results may be unreliable.", charCount, minChars)
	}

	s.logger.Info().
		Str("analysis_id", analysis.ID).
		Str("verdict", analysis.Verdict).
		Float64("probability", analysis.Probability).
		Int("sentence_count", analysis.SentenceCount).
		Int("char_count", analysis.CharCount).
		Int64("duration_ms", analysis.DurationMs).
		Msg("Analysis completed")

	return analysis, nil
}

// MinCharsBounds returns the configured floor, default, and ceiling for the
// recommended-minimum slider.
func (s *Service) MinCharsBounds() (floor, def, ceiling int) {
	return s.config.Analysis.MinCharsFloor, s.config.Analysis.MinChars, s.config.Analysis.MinCharsCeiling
}

// Mode returns the active classifier mode.
func (s *Service) Mode() interfaces.ClassifierMode {
	return s.classifier.GetMode()
}

// ensureReady verifies the classifier backend once before the first
// analysis. Success latches for the life of the process; failure leaves the
// service unready so the next request probes again.
func (s *Service) ensureReady(ctx context.Context) error {
	s.readyMu.RLock()
	if s.ready {
		s.readyMu.RUnlock()
		return nil
	}
	s.readyMu.RUnlock()

	s.readyMu.Lock()
	defer s.readyMu.Unlock()

	if s.ready {
		return nil
	}

	if err := s.classifier.HealthCheck(ctx); err != nil {
		return fmt.Errorf("classifier not ready: %w", err)
	}

	s.logger.Info().
		Str("mode", string(s.classifier.GetMode())).
		Msg("Classifier backend ready")

	s.ready = true
	return nil
}

func toSentenceResults(scored []detect.SentenceScore) []models.SentenceResult {
	results := make([]models.SentenceResult, len(scored))
	for i, s := range scored {
		results[i] = models.SentenceResult{
			Text:        s.Text,
			Probability: s.Probability,
			Tier:        string(s.Tier),
		}
	}
	return results
}
