package convert

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"
)

// defaultSkipTags are elements that never carry readable content:
// scripts, styling, forms and interactive controls, SVG internals and
// document metadata.
var defaultSkipTags = []string{
	"nav", "footer", "script", "style", "noscript", "iframe", "meta",
	"link",
	"svg", "path", "defs", "symbol", "use",
	"template",
	"input", "button", "form", "select", "option", "textarea",
}

// Class fragments that mark site furniture on encyclopedic pages.
var (
	styleClassMarkers    = []string{"style-scope"}
	infoboxClassMarkers  = []string{"infobox", "vcard", "metadata"}
	languageClassMarkers = []string{"interwiki", "language-list", "lang-list", "mw-interlanguage"}
)

// DefaultSkipTags returns a copy of the built-in skip tag set.
func DefaultSkipTags() []string {
	tags := make([]string, len(defaultSkipTags))
	copy(tags, defaultSkipTags)
	return tags
}

// SkipPolicy decides whether an element and its whole subtree are left out
// of the output. It is read-only after construction and safe to share
// between goroutines.
type SkipPolicy struct {
	tags map[string]struct{}
	sels *selectorSet
}

// NewSkipPolicy builds a policy around the given tag set. A nil or empty
// set falls back to DefaultSkipTags.
func NewSkipPolicy(tags []string) *SkipPolicy {
	return newSkipPolicy(tags, newSelectorSet())
}

func newSkipPolicy(tags []string, sels *selectorSet) *SkipPolicy {
	if len(tags) == 0 {
		tags = defaultSkipTags
	}
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return &SkipPolicy{tags: set, sels: sels}
}

// Tags returns the configured tag names.
func (p *SkipPolicy) Tags() []string {
	out := make([]string, 0, len(p.tags))
	for t := range p.tags {
		out = append(out, t)
	}
	return out
}

// ShouldSkip reports whether n must be elided. Non-element nodes are never
// skipped.
func (p *SkipPolicy) ShouldSkip(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}

	// <style> is dropped even when the configured set leaves it out.
	if n.Data == "style" {
		return true
	}

	class := dom.GetAttributeOr(n, "class", "")
	if hasAttr(n, "style") || containsAny(class, styleClassMarkers) {
		return true
	}

	if _, ok := p.tags[n.Data]; ok {
		return true
	}

	if p.sels.siteHeader.Match(n) || p.sels.language.Match(n) || p.sels.infobox.Match(n) {
		return true
	}

	return containsAny(class, infoboxClassMarkers) || containsAny(class, languageClassMarkers)
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
