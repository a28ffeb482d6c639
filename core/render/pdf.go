// Package render — PDF renderer.
// Lays out converted Markdown with gofpdf: headings, separators, quotes,
// lists, table rows and code blocks. Images are listed by their alt text.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/urlmd/core"
	"github.com/jung-kurt/gofpdf"
)

var (
	orderedItem   = regexp.MustCompile(`^\d+\.\s`)
	separatorLine = regexp.MustCompile(`^-{3,}$`)
	tableDivider  = regexp.MustCompile(`^\|[-:| ]+\|$`)
	imageSyntax   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	linkSyntax    = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	emphasis      = regexp.MustCompile(`(?:^|\s)\*([^*\s][^*]*)\*(?:\s|$)`)
)

// PDFRenderer renders Markdown content as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts Markdown into PDF bytes.
func (r *PDFRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(meta.Title), "", "L", false)
		pdf.Ln(4)
	}
	if meta.URL != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr("Source: "+meta.URL), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(6)
	}

	inCode := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			pdf.Ln(2)
			continue
		}
		if inCode {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			continue
		}

		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "Title: "), trimmed == "Markdown Content:":
			// Header lines are already shown from the metadata.
		case separatorLine.MatchString(trimmed):
			pdf.Ln(2)
			y := pdf.GetY()
			pdf.SetDrawColor(180, 180, 180)
			pdf.Line(10, y, 200, y)
			pdf.Ln(2)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			renderHeading(pdf, tr(cleanInline(strings.TrimLeft(trimmed, "# "))), level)
		case strings.HasPrefix(trimmed, "> "):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(80, 80, 80)
			pdf.SetX(15)
			pdf.MultiCell(0, 5, tr(cleanInline(trimmed[2:])), "L", "L", false)
			pdf.SetTextColor(0, 0, 0)
		case tableDivider.MatchString(trimmed):
		case strings.HasPrefix(trimmed, "|"):
			cells := strings.Split(strings.Trim(trimmed, "|"), "|")
			for i := range cells {
				cells[i] = cleanInline(cells[i])
			}
			pdf.SetFont("Courier", "", 9)
			pdf.MultiCell(0, 5, tr(strings.Join(cells, "  |  ")), "B", "L", false)
		case strings.HasPrefix(trimmed, "* "), strings.HasPrefix(trimmed, "- "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+cleanInline(trimmed[2:])), "", "L", false)
		case orderedItem.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInline(trimmed)), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInline(trimmed)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInline strips inline Markdown formatting for PDF rendering.
func cleanInline(text string) string {
	text = imageSyntax.ReplaceAllString(text, "[image: $1]")
	text = linkSyntax.ReplaceAllString(text, "$1")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = emphasis.ReplaceAllString(text, " $1 ")
	return strings.TrimSpace(text)
}
