package detect

// SentenceTier is the highlight band for a single sentence.
type SentenceTier string

const (
	// SentenceTierStrong marks sentences scoring above 0.75.
	SentenceTierStrong SentenceTier = "strong"

	// SentenceTierModerate marks sentences scoring above 0.5 up to 0.75.
	SentenceTierModerate SentenceTier = "moderate"

	// SentenceTierNone marks sentences scoring 0.5 or below (no highlight).
	SentenceTierNone SentenceTier = "none"
)

// Verdict is the document-level band for the overall probability.
type Verdict string

const (
	// VerdictLikelyAI covers overall scores of 0.7 and above.
	VerdictLikelyAI Verdict = "likely-ai"

	// VerdictPossiblyAI covers overall scores above 0.4 and below 0.7.
	VerdictPossiblyAI Verdict = "possibly-ai"

	// VerdictLikelyHuman covers overall scores of 0.4 and below.
	VerdictLikelyHuman Verdict = "likely-human"
)

// SentenceTierFor maps a sentence probability to its highlight tier.
// Boundaries are half-open: exactly 0.75 is moderate, exactly 0.5 is none.
func SentenceTierFor(score float64) SentenceTier {
	switch {
	case score > 0.75:
		return SentenceTierStrong
	case score > 0.5:
		return SentenceTierModerate
	default:
		return SentenceTierNone
	}
}

// VerdictFor maps an overall probability to its verdict tier. Boundaries are
// half-open: exactly 0.7 is likely-ai, exactly 0.4 is likely-human.
//
// The verdict boundaries (0.7/0.4) differ from the sentence highlight
// boundaries (0.75/0.5) on purpose: highlighting is tuned more conservatively
// than the document verdict. The two sets must not be unified.
func VerdictFor(score float64) Verdict {
	switch {
	case score >= 0.7:
		return VerdictLikelyAI
	case score > 0.4:
		return VerdictPossiblyAI
	default:
		return VerdictLikelyHuman
	}
}
