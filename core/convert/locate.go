package convert

import (
	"github.com/PuerkitoBio/goquery"
)

// Region names the part of the page chosen as the traversal root.
type Region string

const (
	RegionMain Region = "main"
	RegionBody Region = "body"
	RegionRoot Region = "root"
)

// Locator picks the content root of a parsed document.
type Locator struct {
	sels *selectorSet
}

// NewLocator returns a Locator with freshly compiled selectors.
func NewLocator() *Locator {
	return &Locator{sels: newSelectorSet()}
}

// Locate returns the traversal root and the region it came from, in priority
// order: the first main-content element, the first <body>, the document's
// root element. It always returns a non-empty selection for a parsed
// document.
func (l *Locator) Locate(doc *goquery.Document) (*goquery.Selection, Region) {
	if main := doc.FindMatcher(l.sels.mainContent).First(); main.Length() > 0 {
		return main, RegionMain
	}
	if body := doc.FindMatcher(l.sels.body).First(); body.Length() > 0 {
		return body, RegionBody
	}

	// The parser always yields <html> under the document node; fall back to
	// the document itself if even that is missing.
	if root := doc.Children().First(); root.Length() > 0 {
		return root, RegionRoot
	}
	return doc.Selection, RegionRoot
}
