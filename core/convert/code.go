package convert

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
)

const (
	languageClassPrefix = "language-"
	defaultCodeLanguage = "text"
)

// codeRule renders <pre> as a fenced block built from its first <code>
// descendant. A <pre> without <code> produces nothing.
func codeRule(w *walker, s *goquery.Selection) {
	code := s.FindMatcher(w.conv.sels.code).First()
	if code.Length() == 0 {
		return
	}
	body := rawTextOf(code)
	if body == "" {
		return
	}
	w.write("```", codeLanguage(code), "\n", body, "\n```\n\n")
}

// codeLanguage returns the first language-* class token without its prefix.
func codeLanguage(code *goquery.Selection) string {
	class := dom.GetAttributeOr(code.Get(0), "class", "")
	for _, token := range strings.Fields(class) {
		if strings.HasPrefix(token, languageClassPrefix) {
			return strings.TrimPrefix(token, languageClassPrefix)
		}
	}
	return defaultCodeLanguage
}
