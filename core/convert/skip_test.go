package convert

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func firstElement(t *testing.T, fragment, selector string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	require.NoError(t, err)
	sel := doc.Find(selector).First()
	require.Equal(t, 1, sel.Length(), "selector %q matched nothing", selector)
	return sel
}

func TestSkipPolicy_ShouldSkip(t *testing.T) {
	policy := NewSkipPolicy(nil)

	tests := []struct {
		name     string
		fragment string
		selector string
		want     bool
	}{
		{"paragraph", `<p>x</p>`, "p", false},
		{"div with class", `<div class="article-body">x</div>`, "div", false},
		{"skip tag", `<iframe src="x"></iframe>`, "iframe", true},
		{"svg internals", `<svg><path d="M0"></path></svg>`, "path", true},
		{"empty style attribute", `<div style="">x</div>`, "div", true},
		{"vcard", `<span class="vcard">x</span>`, "span", true},
		{"infobox biography", `<table class="infobox biography vcard"></table>`, "table", true},
		{"interlanguage link", `<li class="interlanguage-link">x</li>`, "li", true},
		{"language list id", `<div id="language-list">x</div>`, "div", true},
		{"lang-list class", `<div class="lang-list">x</div>`, "div", true},
		{"banner header", `<header class="banner">x</header>`, "header", true},
		{"banner div is not a header", `<div class="banner">x</div>`, "div", false},
		{"page header", `<header class="page-header">x</header>`, "header", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := firstElement(t, tt.fragment, tt.selector)
			assert.Equal(t, tt.want, policy.ShouldSkip(sel.Get(0)))
		})
	}
}

func TestSkipPolicy_NonElements(t *testing.T) {
	policy := NewSkipPolicy(nil)
	sel := firstElement(t, `<p>text</p>`, "p")

	assert.False(t, policy.ShouldSkip(nil))
	assert.False(t, policy.ShouldSkip(sel.Get(0).FirstChild))
}

func TestSkipPolicy_Tags(t *testing.T) {
	policy := NewSkipPolicy([]string{" Nav ", "", "aside"})
	assert.ElementsMatch(t, []string{"nav", "aside"}, policy.Tags())

	assert.ElementsMatch(t, DefaultSkipTags(), NewSkipPolicy(nil).Tags())
}

func TestLocator_Locate(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		region Region
		tag    string
	}{
		{"main element", `<body><main><p>x</p></main></body>`, RegionMain, "main"},
		{"article element", `<body><article><p>x</p></article></body>`, RegionMain, "article"},
		{"content id", `<body><section id="content"></section></body>`, RegionMain, "section"},
		{"main class", `<body><div class="main"></div></body>`, RegionMain, "div"},
		{"body fallback", `<body><div class="sidebar"></div></body>`, RegionBody, "body"},
	}

	loc := NewLocator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			root, region := loc.Locate(doc)
			assert.Equal(t, tt.region, region)
			assert.Equal(t, tt.tag, goquery.NodeName(root))
		})
	}
}

func TestLocator_RootFallback(t *testing.T) {
	doc := goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	_, region := NewLocator().Locate(doc)
	assert.Equal(t, RegionRoot, region)
}
