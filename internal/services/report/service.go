// Package report builds the downloadable markdown report for a completed
// analysis. The markdown feeds the PDF service; it never reaches the
// browser directly.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/models"
)

// Service renders analysis results as a markdown document.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new report service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// BuildMarkdown renders one analysis into a report document.
//
// Parameters:
//   - analysis: Completed analysis to report on
//
// Returns:
//   - string: Markdown report with verdict, metrics, and sentence breakdown
func (s *Service) BuildMarkdown(analysis *models.Analysis) string {
	var sb strings.Builder

	sb.WriteString("# AI Text Detection Report\n\n")
	sb.WriteString(fmt.Sprintf("**Report ID:** %s\n\n", analysis.ID))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", analysis.CreatedAt.Format(time.RFC1123)))
	sb.WriteString("---\n\n")

	sb.WriteString("## Verdict\n\n")
	sb.WriteString(analysis.Message)
	sb.WriteString("\n\n")

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("| --- | --- |\n")
	sb.WriteString(fmt.Sprintf("| Overall AI probability | %.1f%% |\n", analysis.Percent))
	sb.WriteString(fmt.Sprintf("| Verdict | %s |\n", analysis.Verdict))
	sb.WriteString(fmt.Sprintf("| Characters analyzed | %d |\n", analysis.CharCount))
	sb.WriteString(fmt.Sprintf("| Sentences analyzed | %d |\n", analysis.SentenceCount))
	sb.WriteString(fmt.Sprintf("| Classifier | %s |\n", analysis.Mode))
	sb.WriteString(fmt.Sprintf("| Analysis time | %d ms |\n", analysis.DurationMs))
	sb.WriteString("\n")

	if analysis.Warning != "" {
		sb.WriteString(fmt.Sprintf("**Note:** %s\n\n", analysis.Warning))
	}

	if len(analysis.Sentences) > 0 {
		sb.WriteString("## Sentence Breakdown\n\n")
		sb.WriteString("| # | Sentence | AI probability | Highlight |\n")
		sb.WriteString("| --- | --- | --- | --- |\n")
		for i, sentence := range analysis.Sentences {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.1f%% | %s |\n",
				i+1,
				escapeCell(sentence.Text),
				sentence.Probability*100,
				tierName(sentence.Tier)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Disclaimer\n\n")
	sb.WriteString("Detection results are probabilistic and should not be treated as proof of authorship. ")
	sb.WriteString("Short texts, translations, and heavily edited passages reduce reliability.\n")

	markdown := sb.String()

	s.logger.Debug().
		Str("analysis_id", analysis.ID).
		Int("markdown_len", len(markdown)).
		Msg("Report markdown built")

	return markdown
}

// Filename returns the download filename for an analysis report.
func (s *Service) Filename(analysis *models.Analysis) string {
	return fmt.Sprintf("detego-report-%s.pdf", strings.TrimPrefix(analysis.ID, "ana_"))
}

// escapeCell makes sentence text safe inside a markdown table row.
func escapeCell(text string) string {
	escaped := strings.ReplaceAll(text, "|", "\\|")
	escaped = strings.ReplaceAll(escaped, "\n", " ")
	return escaped
}

func tierName(tier string) string {
	switch tier {
	case "strong":
		return "Strong"
	case "moderate":
		return "Moderate"
	default:
		return "None"
	}
}
