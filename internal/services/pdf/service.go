// Package pdf renders analysis report markdown into a downloadable PDF.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	pageWidth  = 186.0 // A4 width minus margins
	lineHeight = 5.0
)

// Service converts report markdown to PDF bytes.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new PDF service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// Render converts markdown content to a PDF byte slice. The title goes into
// the document metadata; the visible heading comes from the markdown itself.
func (s *Service) Render(markdown, title string) ([]byte, error) {
	s.logger.Debug().
		Int("markdown_len", len(markdown)).
		Str("title", title).
		Msg("Rendering report PDF")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 10)

	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
	)

	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	renderer := &reportRenderer{
		pdf:    pdf,
		source: source,
		font:   "Arial",
		size:   10,
	}

	if err := renderer.render(doc); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render report PDF")
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write PDF output")
		return nil, fmt.Errorf("failed to write PDF output: %w", err)
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("Report PDF rendered")
	return buf.Bytes(), nil
}

// reportRenderer walks the markdown AST and drives the PDF writer. Report
// markdown only ever contains headings, paragraphs, emphasis, thematic
// breaks, and tables, so those are the only nodes handled.
type reportRenderer struct {
	pdf    *fpdf.Fpdf
	source []byte
	font   string
	size   float64
	bold   bool
}

func (r *reportRenderer) render(node ast.Node) error {
	return ast.Walk(node, r.walk)
}

func (r *reportRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindHeading:
		r.handleHeading(n.(*ast.Heading), entering)
	case ast.KindParagraph:
		if !entering {
			r.pdf.Ln(7)
		}
	case ast.KindText:
		if entering {
			r.pdf.Write(lineHeight, string(n.Text(r.source)))
		}
	case ast.KindEmphasis:
		r.bold = entering && n.(*ast.Emphasis).Level == 2
		r.updateFont()
	case ast.KindThematicBreak:
		if entering {
			r.pdf.Ln(2)
			r.pdf.SetDrawColor(180, 180, 180)
			r.pdf.Line(12, r.pdf.GetY(), 198, r.pdf.GetY())
			r.pdf.SetDrawColor(0, 0, 0)
			r.pdf.Ln(4)
		}
	case extast.KindTable:
		if entering {
			r.renderTable(collectRows(n, r.source))
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (r *reportRenderer) updateFont() {
	style := ""
	if r.bold {
		style = "B"
	}
	r.pdf.SetFont(r.font, style, r.size)
}

func (r *reportRenderer) handleHeading(n *ast.Heading, entering bool) {
	if entering {
		r.pdf.Ln(4)
		size := 11.0
		switch n.Level {
		case 1:
			size = 16
		case 2:
			size = 12.5
		}
		r.pdf.SetFont(r.font, "B", size)
		return
	}
	r.pdf.Ln(8)
	r.updateFont()
}

// collectRows flattens a table node (header plus body) into cell text.
func collectRows(table ast.Node, source []byte) [][]string {
	var rows [][]string

	var visit func(node ast.Node)
	visit = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *extast.TableRow:
				rows = append(rows, extractRow(c, source))
			case *extast.TableHeader:
				visit(child)
			}
		}
	}
	visit(table)

	return rows
}

func extractRow(row *extast.TableRow, source []byte) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, string(cell.Text(source)))
		}
	}
	return cells
}

// columnWidths lays out the report's two table shapes: the two-column
// metric summary and the four-column sentence breakdown. Anything else
// falls back to even widths.
func columnWidths(cols int) []float64 {
	switch cols {
	case 2:
		return []float64{58, pageWidth - 58}
	case 4:
		return []float64{12, 110, 32, 32}
	default:
		widths := make([]float64, cols)
		for i := range widths {
			widths[i] = pageWidth / float64(cols)
		}
		return widths
	}
}

func (r *reportRenderer) renderTable(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	widths := columnWidths(len(rows[0]))
	fontSize := 8.5
	cellLine := 4.0

	r.pdf.Ln(2)

	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(r.font, "B", fontSize)
			r.pdf.SetFillColor(235, 235, 235)
		} else {
			r.pdf.SetFont(r.font, "", fontSize)
			r.pdf.SetFillColor(255, 255, 255)
		}

		// Wrap every cell first so the row height fits the tallest cell
		wrapped := make([][]string, len(row))
		maxLines := 1
		for j, cell := range row {
			if j >= len(widths) {
				break
			}
			wrapped[j] = r.wrapText(cell, widths[j]-2)
			if len(wrapped[j]) > maxLines {
				maxLines = len(wrapped[j])
			}
		}

		rowHeight := float64(maxLines)*cellLine + 2

		if r.pdf.GetY()+rowHeight > 285 {
			r.pdf.AddPage()
		}

		startX := r.pdf.GetX()
		startY := r.pdf.GetY()

		x := startX
		for j := range row {
			if j >= len(widths) {
				break
			}
			style := "D"
			if i == 0 {
				style = "FD"
			}
			r.pdf.Rect(x, startY, widths[j], rowHeight, style)
			r.pdf.SetXY(x+1, startY+1)
			for _, line := range wrapped[j] {
				r.pdf.CellFormat(widths[j]-2, cellLine, line, "", 2, "L", false, 0, "")
			}
			x += widths[j]
		}

		r.pdf.SetXY(startX, startY+rowHeight)
	}

	r.pdf.Ln(3)
	r.updateFont()
}

// wrapText splits cell text into lines that fit the column, measured with
// the current font.
func (r *reportRenderer) wrapText(text string, width float64) []string {
	if text == "" {
		return []string{""}
	}

	var lines []string
	current := ""
	currentWidth := 0.0
	spaceWidth := r.pdf.GetStringWidth(" ")

	for _, word := range splitWords(text) {
		wordWidth := r.pdf.GetStringWidth(word)
		switch {
		case current == "":
			current = word
			currentWidth = wordWidth
		case currentWidth+spaceWidth+wordWidth <= width:
			current += " " + word
			currentWidth += spaceWidth + wordWidth
		default:
			lines = append(lines, current)
			current = word
			currentWidth = wordWidth
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func splitWords(text string) []string {
	var words []string
	current := ""
	for _, c := range text {
		if c == ' ' || c == '\t' || c == '\n' {
			if current != "" {
				words = append(words, current)
				current = ""
			}
			continue
		}
		current += string(c)
	}
	if current != "" {
		words = append(words, current)
	}
	return words
}
