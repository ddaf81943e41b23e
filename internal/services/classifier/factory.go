package classifier

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/interfaces"
)

// NewService creates the appropriate classifier implementation based on
// configuration. An empty mode falls back to the HuggingFace backend, which
// needs no credentials to start.
func NewService(cfg *common.Config, logger arbor.ILogger) (interfaces.ClassifierService, error) {
	mode := cfg.Classifier.Mode
	if mode == "" {
		mode = string(interfaces.ClassifierModeHuggingFace)
	}

	logger.Info().Str("mode", mode).Msg("Initializing classifier service")

	switch interfaces.ClassifierMode(mode) {
	case interfaces.ClassifierModeHuggingFace:
		return NewHuggingFaceService(cfg, logger)

	case interfaces.ClassifierModeClaude:
		return NewClaudeService(cfg, logger)

	case interfaces.ClassifierModeGemini:
		return NewGeminiService(cfg, logger)

	default:
		return nil, fmt.Errorf("invalid classifier mode '%s': must be 'huggingface', 'claude', or 'gemini'", mode)
	}
}
