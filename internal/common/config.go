package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	Classifier  ClassifierConfig `toml:"classifier"`
	Claude      ClaudeConfig     `toml:"claude"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Analysis    AnalysisConfig   `toml:"analysis"`
	Pages       PagesConfig      `toml:"pages"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
}

// ClassifierConfig selects and tunes the sentence classifier backend.
// The HuggingFace fields only apply in huggingface mode; claude and gemini
// modes read their provider sections below.
type ClassifierConfig struct {
	Mode               string `toml:"mode"`                  // "huggingface" (default), "claude", or "gemini"
	Model              string `toml:"model"`                 // HuggingFace model id (default: "openai-community/roberta-base-openai-detector")
	BaseURL            string `toml:"base_url"`              // Inference API base URL
	APIKey             string `toml:"api_key"`               // HuggingFace API token (or DETEGO_HF_API_KEY / HF_TOKEN)
	PositiveLabel      string `toml:"positive_label"`        // Label the model emits for AI-generated text (default: "fake")
	MaxInputChars      int    `toml:"max_input_chars"`       // Sentences longer than this are truncated before inference
	Timeout            string `toml:"timeout"`               // Inference request timeout as duration string (default: "60s")
	RateLimitPerMinute int    `toml:"rate_limit_per_minute"` // Max inference requests per minute (default: 60)
	WaitForModel       bool   `toml:"wait_for_model"`        // Ask the inference API to block while a cold model loads
	HealthSchedule     string `toml:"health_schedule"`       // Cron schedule for background health probes (default: "@every 5m")
}

// ClaudeConfig contains Anthropic API configuration for claude classifier mode
type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`    // Anthropic API key (ANTHROPIC_API_KEY or config)
	Model     string `toml:"model"`      // Model for classification (default: "claude-haiku-3-5-20241022")
	MaxTokens int    `toml:"max_tokens"` // Maximum tokens in response (default: 4096)
	Timeout   string `toml:"timeout"`    // Operation timeout as duration string (default: "2m")
}

// GeminiConfig contains Google GenAI configuration for gemini classifier mode
type GeminiConfig struct {
	APIKey  string `toml:"api_key"` // Google Gemini API key
	Model   string `toml:"model"`   // Model for classification (default: "gemini-3-flash-preview")
	Timeout string `toml:"timeout"` // Operation timeout as duration string (default: "2m")
}

// AnalysisConfig tunes the analysis request handling. MinChars is only a
// recommendation: shorter submissions still run but the response carries a
// reliability warning.
type AnalysisConfig struct {
	MinChars        int `toml:"min_chars"`         // Recommended minimum characters (default: 200)
	MinCharsFloor   int `toml:"min_chars_floor"`   // Lowest selectable recommendation (default: 50)
	MinCharsCeiling int `toml:"min_chars_ceiling"` // Highest selectable recommendation (default: 600)
}

// PagesConfig overrides the directory containing the web UI assets.
// Empty means probe the usual locations relative to the executable.
type PagesConfig struct {
	Dir string `toml:"dir"`
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in detego.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",                     // Info level for production (debug|info|warn|error)
			Format: "text",                     // Human-readable text format (text|json)
			Output: []string{"stdout", "file"}, // Log to both console and file
		},
		Classifier: ClassifierConfig{
			Mode:               "huggingface",
			Model:              "openai-community/roberta-base-openai-detector",
			BaseURL:            "https://api-inference.huggingface.co",
			APIKey:             "", // User must provide API token (config or env)
			PositiveLabel:      "fake",
			MaxInputChars:      2000, // Conservative stand-in for the model's 512-token budget
			Timeout:            "60s",
			RateLimitPerMinute: 60,
			WaitForModel:       true,
			HealthSchedule:     "@every 5m",
		},
		Claude: ClaudeConfig{
			APIKey:    "",
			Model:     "claude-haiku-3-5-20241022",
			MaxTokens: 4096,
			Timeout:   "2m",
		},
		Gemini: GeminiConfig{
			APIKey:  "",
			Model:   "gemini-3-flash-preview",
			Timeout: "2m",
		},
		Analysis: AnalysisConfig{
			MinChars:        200,
			MinCharsFloor:   50,
			MinCharsCeiling: 600,
		},
		Pages: PagesConfig{
			Dir: "", // Probe ./pages and siblings when empty
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
// Priority system: CLI flags > Environment variables > Config file > Defaults
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env -> CLI
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: DETEGO_ENV, fallback: GO_ENV)
	if env := os.Getenv("DETEGO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("DETEGO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DETEGO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("DETEGO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("DETEGO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("DETEGO_LOG_OUTPUT"); output != "" {
		// Split comma-separated output types
		outputs := []string{}
		for _, o := range splitString(output, ",") {
			trimmed := trimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Classifier configuration
	if mode := os.Getenv("DETEGO_CLASSIFIER_MODE"); mode != "" {
		config.Classifier.Mode = mode
	}
	if model := os.Getenv("DETEGO_CLASSIFIER_MODEL"); model != "" {
		config.Classifier.Model = model
	}
	if baseURL := os.Getenv("DETEGO_CLASSIFIER_BASE_URL"); baseURL != "" {
		config.Classifier.BaseURL = baseURL
	}
	if apiKey := os.Getenv("DETEGO_HF_API_KEY"); apiKey != "" {
		config.Classifier.APIKey = apiKey
	} else if apiKey := os.Getenv("HF_TOKEN"); apiKey != "" {
		config.Classifier.APIKey = apiKey // Standard HuggingFace token variable
	}
	if label := os.Getenv("DETEGO_CLASSIFIER_POSITIVE_LABEL"); label != "" {
		config.Classifier.PositiveLabel = label
	}
	if maxChars := os.Getenv("DETEGO_CLASSIFIER_MAX_INPUT_CHARS"); maxChars != "" {
		if mc, err := strconv.Atoi(maxChars); err == nil && mc > 0 {
			config.Classifier.MaxInputChars = mc
		}
	}
	if timeout := os.Getenv("DETEGO_CLASSIFIER_TIMEOUT"); timeout != "" {
		config.Classifier.Timeout = timeout
	}
	if rateLimit := os.Getenv("DETEGO_CLASSIFIER_RATE_LIMIT_PER_MINUTE"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil && rl > 0 {
			config.Classifier.RateLimitPerMinute = rl
		}
	}
	if wait := os.Getenv("DETEGO_CLASSIFIER_WAIT_FOR_MODEL"); wait != "" {
		if w, err := strconv.ParseBool(wait); err == nil {
			config.Classifier.WaitForModel = w
		}
	}
	if schedule := os.Getenv("DETEGO_CLASSIFIER_HEALTH_SCHEDULE"); schedule != "" {
		config.Classifier.HealthSchedule = schedule
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("DETEGO_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // DETEGO_ prefix takes priority
	}
	if model := os.Getenv("DETEGO_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("DETEGO_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("DETEGO_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}

	// Gemini configuration
	if apiKey := os.Getenv("DETEGO_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey // Standard GenAI SDK variable
	}
	if model := os.Getenv("DETEGO_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if timeout := os.Getenv("DETEGO_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}

	// Analysis configuration
	if minChars := os.Getenv("DETEGO_ANALYSIS_MIN_CHARS"); minChars != "" {
		if mc, err := strconv.Atoi(minChars); err == nil && mc > 0 {
			config.Analysis.MinChars = mc
		}
	}

	// Pages configuration
	if pagesDir := os.Getenv("DETEGO_PAGES_DIR"); pagesDir != "" {
		config.Pages.Dir = pagesDir
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key with environment variable priority.
// Resolution order: environment variables -> config fallback -> error.
func ResolveAPIKey(name string, configFallback string) (string, error) {
	// Map of key names to environment variable names, checked in order
	keyToEnvMapping := map[string][]string{
		"hf_api_key":        {"DETEGO_HF_API_KEY", "HF_TOKEN"},
		"anthropic_api_key": {"DETEGO_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
		"gemini_api_key":    {"DETEGO_GEMINI_API_KEY", "GEMINI_API_KEY"},
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	// Fallback to config value (lowest priority)
	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// EffectiveMinChars clamps a per-request override into the configured bounds,
// falling back to the configured default when the override is zero.
func (c *Config) EffectiveMinChars(override int) int {
	if override <= 0 {
		return c.Analysis.MinChars
	}
	if override < c.Analysis.MinCharsFloor {
		return c.Analysis.MinCharsFloor
	}
	if override > c.Analysis.MinCharsCeiling {
		return c.Analysis.MinCharsCeiling
	}
	return override
}

// ValidateHealthSchedule validates the cron expression used for classifier
// health probes. Descriptors like "@every 5m" are accepted.
func ValidateHealthSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// Helper functions for string manipulation
func splitString(s, sep string) []string {
	result := []string{}
	start := 0
	for i := 0; i < len(s); i++ {
		if i+len(sep) <= len(s) && s[i:i+len(sep)] == sep {
			result = append(result, s[start:i])
			start = i + len(sep)
			i = start - 1
		}
	}
	result = append(result, s[start:])
	return result
}

func trimSpace(s string) string {
	start := 0
	end := len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t' || s[start] == '\n' || s[start] == '\r') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
