package convert

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// listRule renders <ul>/<ol>. Every <li> in the subtree is collected, so
// nested lists come out flattened into one sequence.
func listRule(ordered bool) rule {
	return func(w *walker, s *goquery.Selection) {
		items := listItems(w.conv.sels, s)
		if len(items) == 0 {
			return
		}
		w.write("\n")
		for i, item := range items {
			if ordered {
				w.write(strconv.Itoa(i+1), ". ", item, "\n")
			} else {
				w.write("* ", item, "\n")
			}
		}
		w.write("\n")
	}
}

func listItems(sels *selectorSet, s *goquery.Selection) []string {
	var items []string
	s.FindMatcher(sels.li).Each(func(_ int, li *goquery.Selection) {
		if text := textOf(li); text != "" {
			items = append(items, text)
		}
	})
	return items
}
