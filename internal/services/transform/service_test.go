package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestLooksLikeHTML(t *testing.T) {
	service := NewService(arbor.NewLogger())

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"paragraph tag", "<p>Hello world.</p>", true},
		{"self closing", "Line one<br/>line two", true},
		{"closing tag only", "trailing</div>", true},
		{"plain prose", "Just an ordinary sentence.", false},
		{"comparison operators", "We know 3 < 5 and 7 > 2 holds.", false},
		{"angle without tag name", "a <- b and b -> c", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.LooksLikeHTML(tt.content))
		})
	}
}

func TestToPlainText(t *testing.T) {
	service := NewService(arbor.NewLogger())

	html := `<h1>Title</h1><p>First sentence here. <strong>Second</strong> sentence follows.</p><p>A <a href="https://example.com">linked</a> phrase.</p>`

	plain, err := service.ToPlainText(html)
	require.NoError(t, err)

	assert.Contains(t, plain, "First sentence here.")
	assert.Contains(t, plain, "Second sentence follows.")
	assert.Contains(t, plain, "linked")
	assert.NotContains(t, plain, "<p>")
	assert.NotContains(t, plain, "</")
	assert.NotContains(t, plain, "**")
	assert.NotContains(t, plain, "https://example.com")
	assert.NotContains(t, plain, "#")
}

func TestToPlainTextEmpty(t *testing.T) {
	service := NewService(arbor.NewLogger())

	plain, err := service.ToPlainText("")
	require.NoError(t, err)
	assert.Equal(t, "", plain)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold", "This is **bold** text.", "This is bold text."},
		{"underscored bold", "This is __bold__ text.", "This is bold text."},
		{"link", "See [the docs](https://docs.example.com) first.", "See the docs first."},
		{"image keeps alt", "Before ![diagram](img.png) after.", "Before diagram after."},
		{"heading", "## Heading\nBody text.", "Heading\nBody text."},
		{"inline code", "Run `go version` now.", "Run go version now."},
		{"blockquote", "> Quoted line.", "Quoted line."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripMarkdown(tt.input); got != tt.want {
				t.Errorf("stripMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripHTMLTagsFallback(t *testing.T) {
	stripped := stripHTMLTags("<p>Ben &amp; Jerry&#39;s &lt;3</p>")
	assert.Equal(t, "Ben & Jerry's <3", stripped)
	assert.False(t, strings.Contains(stripped, "<p>"))
}
