package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Prediction is one raw classifier result for one input sentence. The label
// spelling is classifier-specific; the positive ("AI-generated") label is
// matched case-insensitively against the configured value downstream.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// AnalyzeRequest is the body of POST /api/analyze and POST /api/report.
// MinChars overrides the configured recommended minimum for this request
// only; zero means use the server default.
type AnalyzeRequest struct {
	Text     string `json:"text" validate:"required"`
	MinChars int    `json:"min_chars,omitempty" validate:"omitempty,min=50,max=600"`
}

// Validate validates the request using go-playground/validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SentenceResult is one scored sentence in an analysis response.
type SentenceResult struct {
	Text        string  `json:"text"`
	Probability float64 `json:"probability"`
	Tier        string  `json:"tier"`
}

// Analysis is the result of one full detection pass over a document. It
// exists only in the response; nothing is persisted between requests.
type Analysis struct {
	ID            string           `json:"id"`
	Verdict       string           `json:"verdict"`
	Message       string           `json:"message"`
	Probability   float64          `json:"probability"`
	Percent       float64          `json:"percent"`
	BarGradient   string           `json:"bar_gradient"`
	AnnotatedHTML string           `json:"annotated_html"`
	Sentences     []SentenceResult `json:"sentences"`
	CharCount     int              `json:"char_count"`
	SentenceCount int              `json:"sentence_count"`
	Warning       string           `json:"warning,omitempty"`
	Mode          string           `json:"mode"`
	DurationMs    int64            `json:"duration_ms"`
	CreatedAt     time.Time        `json:"created_at"`
}
