package convert

import (
	"github.com/andybalholm/cascadia"
)

// Selector sources. They are compiled once per Converter by newSelectorSet.
const (
	mainContentSelector = "main, article, .content, #content, .main, #main"

	siteHeaderSelector = "header.header, header#site-header, header.site-header, " +
		"header.page-header, header.banner, header#masthead"

	languageSelector = "#p-lang, .interlanguage-link, #p-lang-btn, .language-list, " +
		"#language-list, .mw-interlanguage-selector"

	infoboxSelector = ".infobox, .vcard, .infobox.vcard, .infobox.biography.vcard"
)

// selectorSet holds the compiled structural matchers used by the locator,
// the skip policy and the extractors. It is immutable after construction.
type selectorSet struct {
	title       cascadia.Selector
	mainContent cascadia.Selector
	body        cascadia.Selector

	li    cascadia.Selector
	td    cascadia.Selector
	th    cascadia.Selector
	tr    cascadia.Selector
	tbody cascadia.Selector
	thead cascadia.Selector
	code  cascadia.Selector

	siteHeader cascadia.Selector
	language   cascadia.Selector
	infobox    cascadia.Selector
}

func newSelectorSet() *selectorSet {
	return &selectorSet{
		title:       cascadia.MustCompile("title"),
		mainContent: cascadia.MustCompile(mainContentSelector),
		body:        cascadia.MustCompile("body"),

		li:    cascadia.MustCompile("li"),
		td:    cascadia.MustCompile("td"),
		th:    cascadia.MustCompile("th"),
		tr:    cascadia.MustCompile("tr"),
		tbody: cascadia.MustCompile("tbody"),
		thead: cascadia.MustCompile("thead"),
		code:  cascadia.MustCompile("code"),

		siteHeader: cascadia.MustCompile(siteHeaderSelector),
		language:   cascadia.MustCompile(languageSelector),
		infobox:    cascadia.MustCompile(infoboxSelector),
	}
}
