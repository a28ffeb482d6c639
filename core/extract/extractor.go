// Package extract isolates the readable region of a full HTML page.
// It prunes every element the convert skip policy rejects, then serializes
// the region chosen by the content locator. The result feeds engines that
// convert a whole HTML fragment at once.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/urlmd/core/convert"
)

// Extraction is the pruned content region of a page.
type Extraction struct {
	Title    string
	HasTitle bool
	HTML     string
	Region   convert.Region
	Removed  int
}

// HTMLExtractor strips site furniture from HTML and returns the main
// content fragment.
type HTMLExtractor struct {
	policy  *convert.SkipPolicy
	locator *convert.Locator
}

// New creates an HTMLExtractor around a skip policy. A nil policy uses the
// default skip tags.
func New(policy *convert.SkipPolicy) *HTMLExtractor {
	if policy == nil {
		policy = convert.NewSkipPolicy(nil)
	}
	return &HTMLExtractor{
		policy:  policy,
		locator: convert.NewLocator(),
	}
}

// Extract parses html, removes skipped subtrees and returns the outer HTML
// of the content region.
func (e *HTMLExtractor) Extract(html string) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", convert.ErrParse, err)
	}

	ex := &Extraction{}
	if title := doc.Find("title").First(); title.Length() > 0 {
		ex.Title = strings.Join(strings.Fields(title.Text()), " ")
		ex.HasTitle = true
	}

	// Prune before locating so a rejected region cannot be chosen.
	noise := doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return e.policy.ShouldSkip(s.Get(0))
	})
	ex.Removed = noise.Length()
	noise.Remove()

	content, region := e.locator.Locate(doc)
	ex.Region = region

	out, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("serializing content: %w", err)
	}
	ex.HTML = out
	return ex, nil
}
