package classifier

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildClassifyPrompt(t *testing.T) {
	prompt, err := buildClassifyPrompt([]string{`He said "hello".`, "Second sentence."})
	if err != nil {
		t.Fatalf("buildClassifyPrompt() error = %v", err)
	}

	// Sentences survive as a JSON array, quotes escaped
	if !strings.Contains(prompt, `["He said \"hello\".","Second sentence."]`) {
		t.Errorf("prompt missing encoded input array:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"fake"`) || !strings.Contains(prompt, `"real"`) {
		t.Error("prompt must define both labels")
	}
	if !strings.Contains(prompt, "JSON only") {
		t.Error("prompt must demand bare JSON output")
	}
}

func TestParsePredictions(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
		wantErr  bool
		labels   []string
	}{
		{
			name:     "plain JSON array",
			response: `[{"label":"fake","confidence":0.9},{"label":"real","confidence":0.7}]`,
			want:     2,
			labels:   []string{"fake", "real"},
		},
		{
			name:     "fenced response",
			response: "```json\n[{\"label\":\"fake\",\"confidence\":0.8}]\n```",
			want:     1,
			labels:   []string{"fake"},
		},
		{
			name:     "labels normalized to lowercase",
			response: `[{"label":" FAKE ","confidence":0.5}]`,
			want:     1,
			labels:   []string{"fake"},
		},
		{
			name:     "count mismatch",
			response: `[{"label":"fake","confidence":0.9}]`,
			want:     2,
			wantErr:  true,
		},
		{
			name:     "empty label",
			response: `[{"label":"","confidence":0.9}]`,
			want:     1,
			wantErr:  true,
		},
		{
			name:     "not JSON",
			response: "I cannot classify these sentences.",
			want:     1,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictions, err := parsePredictions(tt.response, tt.want)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePredictions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(predictions) != tt.want {
				t.Fatalf("got %d predictions, want %d", len(predictions), tt.want)
			}
			for i, label := range tt.labels {
				if predictions[i].Label != label {
					t.Errorf("prediction %d label = %q, want %q", i, predictions[i].Label, label)
				}
			}
		})
	}
}

func TestParsePredictionsCountMismatchError(t *testing.T) {
	_, err := parsePredictions(`[{"label":"fake","confidence":0.9}]`, 3)
	if !errors.Is(err, ErrPredictionCount) {
		t.Errorf("expected ErrPredictionCount, got %v", err)
	}
}

func TestCleanMarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no fences",
			input: `[{"label":"fake"}]`,
			want:  `[{"label":"fake"}]`,
		},
		{
			name:  "json fence",
			input: "```json\n[1,2]\n```",
			want:  "[1,2]",
		},
		{
			name:  "bare fence",
			input: "```\n[1,2]\n```",
			want:  "[1,2]",
		},
		{
			name:  "surrounding whitespace",
			input: "  \n```JSON\n[1]\n```  ",
			want:  "[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanMarkdownFences(tt.input); got != tt.want {
				t.Errorf("cleanMarkdownFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"under limit", "short", 10, "short"},
		{"at limit", "exact", 5, "exact"},
		{"over limit", "truncated here", 9, "truncated"},
		{"zero disables", "anything goes", 0, "anything goes"},
		{"multibyte runes survive", "héllo wörld", 7, "héllo w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
