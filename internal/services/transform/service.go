package transform

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"
)

// Service normalizes pasted submissions into plain prose. Browser clipboards
// often carry HTML fragments; analyzing raw markup would score tags and
// attributes instead of the author's sentences, so markup is converted
// through markdown and stripped down to text before segmentation.
type Service struct {
	logger arbor.ILogger
}

// tagPattern matches an opening or closing HTML tag. The tag name must
// follow the angle bracket immediately so prose like "3 < 5 and 7 > 2"
// never counts as markup.
var tagPattern = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(\s[^>]*)?/?>`)

// NewService creates a new transform service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// LooksLikeHTML reports whether the submission carries markup worth
// stripping before analysis.
func (s *Service) LooksLikeHTML(content string) bool {
	return tagPattern.MatchString(content)
}

// ToPlainText converts HTML content into plain prose.
// The HTML is first converted to markdown, which handles entity decoding
// and block structure, then markdown syntax is stripped away.
// Returns the plain text or the tag-stripped original if conversion fails.
func (s *Service) ToPlainText(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	s.logger.Debug().
		Int("html_length", len(html)).
		Msg("Converting pasted HTML to plain text")

	mdConverter := md.NewConverter("", true, nil)
	converted, err := mdConverter.ConvertString(html)
	if err != nil {
		s.logger.Warn().Err(err).Msg("HTML to markdown conversion failed, using fallback")
		return stripHTMLTags(html), nil
	}

	plain := stripMarkdown(converted)
	if strings.TrimSpace(plain) == "" && html != "" {
		s.logger.Warn().
			Int("html_length", len(html)).
			Msg("HTML conversion produced empty output, applying fallback")
		return stripHTMLTags(html), nil
	}

	s.logger.Debug().
		Int("html_length", len(html)).
		Int("plain_length", len(plain)).
		Msg("Pasted HTML normalized to plain text")

	return plain, nil
}

var (
	imagePattern     = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkPattern      = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headingPattern   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquotePrefix = regexp.MustCompile(`(?m)^>\s?`)
	boldPattern      = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	codeFencePattern = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode       = regexp.MustCompile("`([^`]*)`")
	hrPattern        = regexp.MustCompile(`(?m)^(\*\s*){3,}$|^(-\s*){3,}$|^(_\s*){3,}$`)
	blankRuns        = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes markdown syntax, keeping the readable text.
func stripMarkdown(markdown string) string {
	text := markdown
	text = codeFencePattern.ReplaceAllString(text, "")
	text = imagePattern.ReplaceAllString(text, "$1")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = headingPattern.ReplaceAllString(text, "")
	text = blockquotePrefix.ReplaceAllString(text, "")
	text = hrPattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "$1$2")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// stripHTMLTags removes basic HTML tags for fallback cases
func stripHTMLTags(htmlStr string) string {
	re := regexp.MustCompile(`<[^>]*>`)
	stripped := re.ReplaceAllString(htmlStr, "")

	spaceRe := regexp.MustCompile(`[ \t]+`)
	cleaned := spaceRe.ReplaceAllString(stripped, " ")

	// Decode HTML entities (basic set)
	cleaned = strings.ReplaceAll(cleaned, "&amp;", "&")
	cleaned = strings.ReplaceAll(cleaned, "&lt;", "<")
	cleaned = strings.ReplaceAll(cleaned, "&gt;", ">")
	cleaned = strings.ReplaceAll(cleaned, "&quot;", "\"")
	cleaned = strings.ReplaceAll(cleaned, "&#39;", "'")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")

	return strings.TrimSpace(cleaned)
}
