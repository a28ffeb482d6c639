// Package normalize provides the "library" conversion engine. It prunes and
// locates content with the extract package, then hands the fragment to
// html-to-markdown for a CommonMark rendering with GFM tables.
package normalize

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/gaurav-prasanna/urlmd/core"
	"github.com/gaurav-prasanna/urlmd/core/extract"
)

var _ core.Converter = (*LibraryConverter)(nil)

// LibraryConverter converts HTML to Markdown using html-to-markdown.
type LibraryConverter struct {
	extractor *extract.HTMLExtractor
	conv      *converter.Converter
}

// New creates a LibraryConverter. The extractor decides which part of the
// page is converted.
func New(extractor *extract.HTMLExtractor) *LibraryConverter {
	if extractor == nil {
		extractor = extract.New(nil)
	}
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)
	return &LibraryConverter{extractor: extractor, conv: conv}
}

// Name identifies the engine.
func (n *LibraryConverter) Name() string {
	return "library"
}

// ConvertPage extracts the content region of html and converts it, framing
// the result with the same header lines as the native engine.
func (n *LibraryConverter) ConvertPage(html string, pageURL string) (*core.Conversion, error) {
	ex, err := n.extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	var opts []converter.ConvertOptionFunc
	if pageURL != "" {
		opts = append(opts, converter.WithDomain(pageURL))
	}
	body, err := n.conv.ConvertString(ex.HTML, opts...)
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}

	var b strings.Builder
	if ex.HasTitle {
		b.WriteString("Title: " + ex.Title + "\n\n")
	}
	b.WriteString("Markdown Content:\n")
	if body = strings.TrimSpace(body); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}

	return &core.Conversion{
		Markdown: b.String(),
		Title:    ex.Title,
		Region:   string(ex.Region),
	}, nil
}
