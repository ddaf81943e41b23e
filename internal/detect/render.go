package detect

import (
	"html"
	"math"
	"strings"
)

// Highlight backgrounds per sentence tier. The none tier still wraps the
// sentence in a span so spacing and line height stay uniform across tiers.
const (
	styleStrong   = "background-color: rgba(255, 77, 77, 0.6); padding: 2px 1px; line-height: 1.7;"
	styleModerate = "background-color: rgba(255, 165, 0, 0.5); padding: 2px 1px; line-height: 1.7;"
	styleNone     = "background-color: transparent; padding: 2px 1px; line-height: 1.7;"
)

// Progress bar gradients per verdict tier.
const (
	gradientLikelyAI    = "linear-gradient(to right, #ffafbd, #ffc3a0)"
	gradientPossiblyAI  = "linear-gradient(to right, #ffc3a0, #ffdf7e)"
	gradientLikelyHuman = "linear-gradient(to right, #a1c4fd, #c2e9fb)"
)

// TierStyle returns the inline CSS for a sentence highlight tier.
func TierStyle(tier SentenceTier) string {
	switch tier {
	case SentenceTierStrong:
		return styleStrong
	case SentenceTierModerate:
		return styleModerate
	default:
		return styleNone
	}
}

// VerdictGradient returns the progress bar background for a verdict tier.
func VerdictGradient(v Verdict) string {
	switch v {
	case VerdictLikelyAI:
		return gradientLikelyAI
	case VerdictPossiblyAI:
		return gradientPossiblyAI
	default:
		return gradientLikelyHuman
	}
}

// VerdictMessage returns the user-facing summary line for a verdict tier.
func VerdictMessage(v Verdict) string {
	switch v {
	case VerdictLikelyAI:
		return "This text is very likely AI-generated."
	case VerdictPossiblyAI:
		return "This text may contain AI-generated content."
	default:
		return "This text is most likely human-written."
	}
}

// RenderAnnotated builds the highlighted HTML for scored sentences: each
// sentence is HTML-escaped, wrapped in a span carrying its tier's background
// style, and joined with single spaces in original order. Escaping happens
// before wrapping, so sentence content can never be interpreted as markup.
func RenderAnnotated(scored []SentenceScore) string {
	var b strings.Builder
	for i, s := range scored {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(`<span style="`)
		b.WriteString(TierStyle(s.Tier))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(s.Text))
		b.WriteString(`</span>`)
	}
	return b.String()
}

// Percent converts a probability to a display percentage rounded to one
// decimal place.
func Percent(probability float64) float64 {
	return math.Round(probability*1000) / 10
}
