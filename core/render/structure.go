package render

import (
	"strings"

	"github.com/gaurav-prasanna/urlmd/core"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var gfm = goldmark.New(goldmark.WithExtensions(extension.GFM))

// BuildDocument parses markdown and assembles the structured page document
// shared by the JSON and YAML renderers.
func BuildDocument(markdown string, meta core.PageMetadata) core.PageDocument {
	src := []byte(breakSeparators(markdown))
	doc := gfm.Parser().Parse(text.NewReader(src))

	structure := core.PageStructure{
		Headings: []core.Heading{},
		Links:    []core.Link{},
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			structure.Headings = append(structure.Headings, core.Heading{
				Level: node.Level,
				Text:  plainText(node, src),
			})
		case *ast.Link:
			structure.Links = append(structure.Links, core.Link{
				Text: plainText(node, src),
				Href: string(node.Destination),
			})
		case *ast.Image:
			structure.Links = append(structure.Links, core.Link{
				Text:  plainText(node, src),
				Href:  string(node.Destination),
				Image: true,
			})
		case *ast.AutoLink:
			structure.Links = append(structure.Links, core.Link{
				Text: string(node.Label(src)),
				Href: string(node.URL(src)),
			})
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			structure.CodeBlocks++
		case *extast.Table:
			structure.Tables++
		case *ast.List:
			structure.Lists++
		case *ast.ListItem:
			structure.ListItems++
		}
		return ast.WalkContinue, nil
	})

	return core.PageDocument{
		Metadata: meta,
		Content: core.PageContent{
			Text:     plainText(doc, src),
			Markdown: markdown,
			Sections: buildSections(doc, src),
		},
		Structure: structure,
	}
}

// breakSeparators puts a blank line before every dash rule that directly
// follows text, so the rule parses as a thematic break instead of turning
// the line above it into a setext heading. Fenced code is left alone.
func breakSeparators(markdown string) string {
	lines := strings.Split(markdown, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}
		if !inFence && i > 0 && isDashRule(trimmed) && strings.TrimSpace(lines[i-1]) != "" {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isDashRule(line string) bool {
	return len(line) >= 3 && strings.Trim(line, "-") == ""
}

// buildSections groups top-level blocks under the heading that precedes
// them. Blocks before the first heading belong to no section.
func buildSections(doc ast.Node, src []byte) []core.Section {
	var (
		sections []core.Section
		current  *core.Section
		parts    []string
	)
	flush := func() {
		if current != nil {
			current.Text = strings.Join(parts, "\n\n")
			sections = append(sections, *current)
		}
		parts = nil
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flush()
			current = &core.Section{Heading: plainText(h, src), Level: h.Level}
			continue
		}
		if current == nil {
			continue
		}
		if t := plainText(n, src); t != "" {
			parts = append(parts, t)
		}
	}
	flush()
	return sections
}

// plainText returns the visible text below n, one line per block.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, ok := c.(*extast.TableCell); ok {
				b.WriteByte(' ')
			} else if c.Type() == ast.TypeBlock {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(src))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
