// Package convert turns an HTML document into a readable Markdown
// projection.
//
// The engine locates the main content of the page, walks it depth-first and
// renders each element through a per-tag rule. Site furniture (navigation,
// scripts, language pickers, infoboxes) is removed by a skip policy before
// any rule runs. The output is best-effort: nested lists are flattened and
// tables are emitted without validation.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxDepth bounds the walker's recursion.
const DefaultMaxDepth = 256

// MaxDepthLimit is the largest useful MaxDepth. The HTML parser refuses
// documents with more than 512 open elements, html and body included.
const MaxDepthLimit = 510

// ErrParse is returned when the input cannot be read as an HTML document at
// all: the reader fails or the parser refuses the document, as it does for
// nesting deeper than 512 elements. Malformed markup, stray NUL bytes and
// documents without content are not errors.
var ErrParse = errors.New("html could not be parsed")

// Config configures a Converter.
type Config struct {
	// SkipTags are element names whose subtrees are never rendered.
	// Empty means DefaultSkipTags.
	SkipTags []string

	// MaxDepth bounds the walker's recursion. Subtrees nested deeper are
	// dropped. Zero or less means DefaultMaxDepth; values above
	// MaxDepthLimit are clamped.
	MaxDepth int
}

// DefaultConfig returns the configuration used by the CLI and server when
// nothing is overridden.
func DefaultConfig() Config {
	return Config{
		SkipTags: DefaultSkipTags(),
		MaxDepth: DefaultMaxDepth,
	}
}

// Stats describes a single conversion.
type Stats struct {
	Elements  int `json:"elements"`
	Skipped   int `json:"skipped"`
	Truncated int `json:"truncated"`
}

// Result is the full outcome of a conversion.
type Result struct {
	Markdown string
	Title    string
	HasTitle bool
	Region   Region
	Stats    Stats
}

// Converter renders HTML to Markdown. It is immutable after New and safe
// for concurrent use.
type Converter struct {
	sels     *selectorSet
	policy   *SkipPolicy
	locator  *Locator
	rules    map[string]rule
	maxDepth int
}

// New creates a Converter. Selectors and the rule table are built here once
// and reused by every conversion.
func New(cfg Config) *Converter {
	sels := newSelectorSet()
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	maxDepth = min(maxDepth, MaxDepthLimit)
	return &Converter{
		sels:     sels,
		policy:   newSkipPolicy(cfg.SkipTags, sels),
		locator:  &Locator{sels: sels},
		rules:    defaultRules(),
		maxDepth: maxDepth,
	}
}

// Name identifies the engine.
func (c *Converter) Name() string {
	return "native"
}

// Policy exposes the converter's skip policy.
func (c *Converter) Policy() *SkipPolicy {
	return c.policy
}

// Convert converts an HTML string to Markdown.
func (c *Converter) Convert(html string) (string, error) {
	res, err := c.ConvertWithStats(html)
	if err != nil {
		return "", err
	}
	return res.Markdown, nil
}

// ConvertWithStats converts an HTML string and reports what was rendered.
func (c *Converter) ConvertWithStats(html string) (*Result, error) {
	return c.ConvertReader(strings.NewReader(html))
}

// ConvertReader parses HTML from r and converts it.
func (c *Converter) ConvertReader(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return c.ConvertDocument(doc), nil
}

// ConvertBytes converts raw HTML bytes.
func (c *Converter) ConvertBytes(b []byte) (*Result, error) {
	return c.ConvertReader(bytes.NewReader(b))
}

// ConvertDocument converts an already parsed document. The document is not
// modified.
func (c *Converter) ConvertDocument(doc *goquery.Document) *Result {
	w := &walker{conv: c}
	res := &Result{}

	if title := doc.FindMatcher(c.sels.title).First(); title.Length() > 0 {
		res.Title = textOf(title)
		res.HasTitle = true
		w.buf.WriteString("Title: ")
		w.buf.WriteString(res.Title)
		w.buf.WriteString("\n\n")
	}

	w.buf.WriteString("Markdown Content:\n")

	root, region := c.locator.Locate(doc)
	res.Region = region
	if region == RegionMain {
		w.element(root, 0)
	} else {
		w.children(root, 0)
	}

	res.Markdown = w.buf.String()
	res.Stats = w.stats
	return res
}

// walker carries the state of one conversion: the output buffer and the
// counters. It is never shared between calls.
type walker struct {
	conv  *Converter
	buf   strings.Builder
	stats Stats
}

func (w *walker) element(s *goquery.Selection, depth int) {
	if depth > w.conv.maxDepth {
		w.stats.Truncated++
		return
	}
	n := s.Get(0)
	if w.conv.policy.ShouldSkip(n) {
		w.stats.Skipped++
		return
	}
	w.stats.Elements++

	if r, ok := w.conv.rules[n.Data]; ok {
		r(w, s)
		return
	}
	w.children(s, depth)
}

// children renders every element child of s in document order. Bare text
// directly under a container is not rendered.
func (w *walker) children(s *goquery.Selection, depth int) {
	s.Children().Each(func(_ int, child *goquery.Selection) {
		w.element(child, depth+1)
	})
}

func (w *walker) write(parts ...string) {
	for _, p := range parts {
		w.buf.WriteString(p)
	}
}
