// Package render provides output renderers for converted pages.
// This file implements the Markdown renderer, which adds the source header
// in front of the converted text.
package render

import (
	"strings"
	"time"

	"github.com/gaurav-prasanna/urlmd/core"
)

const generatedLayout = "2006-01-02 15:04:05"

// MarkdownRenderer writes Markdown with a "URL Source" / "Generated on"
// header when the page came from a URL.
type MarkdownRenderer struct {
	now func() time.Time
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{now: time.Now}
}

// Render prefixes the Markdown with its source. Pages without a URL
// (files, stdin) are returned as-is.
func (r *MarkdownRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	if meta.URL == "" {
		return []byte(markdown), nil
	}
	generated := meta.FetchedAt
	if generated.IsZero() {
		generated = r.now()
	}

	var b strings.Builder
	b.WriteString("URL Source: " + meta.URL + "\n")
	b.WriteString("Generated on: " + generated.Local().Format(generatedLayout) + "\n\n")
	b.WriteString(markdown)
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func (r *MarkdownRenderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}
