package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/detego/internal/common"
)

type PageHandler struct {
	logger    arbor.ILogger
	config    *common.Config
	templates *template.Template
	pagesDir  string
}

func NewPageHandler(config *common.Config, logger arbor.ILogger) *PageHandler {
	// Find pages directory (in bin/ after build)
	pagesDir := findPagesDir(config.Pages.Dir)

	// Parse all HTML templates
	templates := template.Must(template.ParseGlob(filepath.Join(pagesDir, "*.html")))

	return &PageHandler{
		logger:    logger,
		config:    config,
		templates: templates,
		pagesDir:  pagesDir,
	}
}

// findPagesDir locates the pages directory. An explicit configured directory
// wins; otherwise the usual locations are probed.
func findPagesDir(configured string) string {
	if configured != "" {
		if abs, err := filepath.Abs(configured); err == nil {
			return abs
		}
	}

	// Check common locations
	dirs := []string{
		"./pages",     // Running from project root
		"../pages",    // Running from bin/
		"../../pages", // Running from deeper location
		".",           // Current directory (for deployed bin/)
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err == nil {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// ServePage creates a handler function for serving a specific page template
func (h *PageHandler) ServePage(templateName string, pageName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"Page":            pageName,
			"Version":         common.GetVersion(),
			"ClassifierMode":  h.config.Classifier.Mode,
			"MinChars":        h.config.Analysis.MinChars,
			"MinCharsFloor":   h.config.Analysis.MinCharsFloor,
			"MinCharsCeiling": h.config.Analysis.MinCharsCeiling,
		}

		if err := h.templates.ExecuteTemplate(w, templateName, data); err != nil {
			h.logger.Error().
				Err(err).
				Str("template", templateName).
				Msg("Failed to render page")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// StaticFileHandler serves static files (CSS, JS, images)
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	staticDir := filepath.Join(h.pagesDir, "static")

	// Remove /static prefix from URL path
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security check - prevent directory traversal
	if !filepath.HasPrefix(fullPath, staticDir) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
