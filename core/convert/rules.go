package convert

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
)

// separator is the rule line emitted before top-level headings and for <hr>.
var separator = strings.Repeat("-", 74)

// rule renders one element. Elements with a rule are not recursed into by
// the walker; the rule decides what, if anything, of the subtree to emit.
type rule func(w *walker, s *goquery.Selection)

// defaultRules maps tag names to their rendering rules. Tags without an
// entry are treated as containers.
func defaultRules() map[string]rule {
	rules := map[string]rule{
		"p":          paragraphRule,
		"blockquote": blockquoteRule,
		"a":          linkRule,
		"img":        imageRule,
		"ul":         listRule(false),
		"ol":         listRule(true),
		"table":      tableRule,
		"pre":        codeRule,
		"hr":         hrRule,
		"br":         brRule,
	}
	for level := 1; level <= 6; level++ {
		rules["h"+string(rune('0'+level))] = headingRule(level)
	}
	return rules
}

func headingRule(level int) rule {
	marker := strings.Repeat("#", level)
	return func(w *walker, s *goquery.Selection) {
		text := textOf(s)
		if text == "" {
			return
		}
		if level <= 2 {
			w.write("\n", separator, "\n")
		}
		w.write("\n", marker, " ", text, "\n")
	}
}

func paragraphRule(w *walker, s *goquery.Selection) {
	if text := textOf(s); text != "" {
		w.write(text, "\n\n")
	}
}

// blockquoteRule quotes each direct child element on its own line.
func blockquoteRule(w *walker, s *goquery.Selection) {
	s.Children().Each(func(_ int, child *goquery.Selection) {
		if text := textOf(child); text != "" {
			w.write("> ", text, "\n")
		}
	})
	w.write("\n")
}

func linkRule(w *walker, s *goquery.Selection) {
	href, ok := s.Attr("href")
	if !ok {
		return
	}
	if text := textOf(s); text != "" {
		w.write("[", text, "](", href, ")")
	}
}

func imageRule(w *walker, s *goquery.Selection) {
	src, ok := s.Attr("src")
	if !ok {
		return
	}
	alt := dom.GetAttributeOr(s.Get(0), "alt", "")
	w.write("![", alt, "](", src, ")\n\n")
}

func hrRule(w *walker, _ *goquery.Selection) {
	w.write(separator, "\n")
}

func brRule(w *walker, _ *goquery.Selection) {
	w.write("  \n")
}
