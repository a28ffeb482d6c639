package convert

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// table is the extracted content of a <table> element.
type table struct {
	headers []string
	rows    [][]string
}

// extractTable reads header cells from the first <thead> and data rows from
// the first <tbody>. A table without a <tbody> has no rows.
func extractTable(sels *selectorSet, s *goquery.Selection) table {
	var t table

	if thead := s.FindMatcher(sels.thead).First(); thead.Length() > 0 {
		thead.FindMatcher(sels.th).Each(func(_ int, th *goquery.Selection) {
			t.headers = append(t.headers, textOf(th))
		})
	}

	tbody := s.FindMatcher(sels.tbody).First()
	if tbody.Length() == 0 {
		return t
	}
	tbody.FindMatcher(sels.tr).Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.FindMatcher(sels.td).Each(func(_ int, td *goquery.Selection) {
			row = append(row, textOf(td))
		})
		if len(row) > 0 {
			t.rows = append(t.rows, row)
		}
	})
	return t
}

func tableRule(w *walker, s *goquery.Selection) {
	t := extractTable(w.conv.sels, s)

	if len(t.headers) > 0 {
		w.write(pipeRow(t.headers))
		dashes := make([]string, len(t.headers))
		for i := range dashes {
			dashes[i] = "---"
		}
		w.write(pipeRow(dashes))
	}
	for _, row := range t.rows {
		w.write(pipeRow(row))
	}
	w.write("\n")
}

func pipeRow(cells []string) string {
	return "|" + strings.Join(cells, "|") + "|\n"
}
