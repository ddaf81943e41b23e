package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/detego/internal/common"
	"github.com/ternarybob/detego/internal/interfaces"
)

func clearClassifierEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DETEGO_HF_API_KEY", "HF_TOKEN",
		"DETEGO_CLAUDE_API_KEY", "ANTHROPIC_API_KEY",
		"DETEGO_GEMINI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestNewServiceDefaultsToHuggingFace(t *testing.T) {
	clearClassifierEnv(t)

	cfg := common.NewDefaultConfig()
	cfg.Classifier.Mode = ""

	service, err := NewService(cfg, arbor.NewLogger())
	require.NoError(t, err)
	defer service.Close()

	assert.Equal(t, interfaces.ClassifierModeHuggingFace, service.GetMode())
	assert.Equal(t, "fake", service.PositiveLabel())
}

func TestNewServiceInvalidMode(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Classifier.Mode = "oracle"

	_, err := NewService(cfg, arbor.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid classifier mode")
}

func TestNewServiceClaudeRequiresAPIKey(t *testing.T) {
	clearClassifierEnv(t)

	cfg := common.NewDefaultConfig()
	cfg.Classifier.Mode = "claude"
	cfg.Claude.APIKey = ""

	_, err := NewService(cfg, arbor.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Anthropic API key is required")
}

func TestNewServiceGeminiRequiresAPIKey(t *testing.T) {
	clearClassifierEnv(t)

	cfg := common.NewDefaultConfig()
	cfg.Classifier.Mode = "gemini"
	cfg.Gemini.APIKey = ""

	_, err := NewService(cfg, arbor.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Google API key is required")
}
