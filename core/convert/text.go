package convert

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// textOf returns the text of every descendant text node of s, joined by a
// single space with whitespace runs collapsed and the ends trimmed.
func textOf(s *goquery.Selection) string {
	var parts []string
	for _, n := range s.Nodes {
		parts = appendTextNodes(parts, n)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func appendTextNodes(parts []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		return append(parts, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = appendTextNodes(parts, c)
	}
	return parts
}

// rawTextOf concatenates descendant text without separators and only trims
// the ends. Used for code, where inner whitespace is significant.
func rawTextOf(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
