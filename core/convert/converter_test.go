package convert

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertString(t *testing.T, html string) string {
	t.Helper()
	out, err := New(DefaultConfig()).Convert(html)
	require.NoError(t, err)
	return out
}

func TestConvert_SimplePage(t *testing.T) {
	html := `
		<html>
			<head><title>Test Page</title></head>
			<body>
				<h1>Hello World</h1>
				<p>This is a test paragraph.</p>
			</body>
		</html>`

	want := "Title: Test Page\n\n" +
		"Markdown Content:\n" +
		"\n" + separator + "\n" +
		"\n# Hello World\n" +
		"This is a test paragraph.\n\n"
	assert.Equal(t, want, convertString(t, html))
}

func TestConvert_EmptyDocument(t *testing.T) {
	assert.Equal(t, "Markdown Content:\n", convertString(t, "<html><body></body></html>"))
}

func TestConvert_NoElementsAtAll(t *testing.T) {
	assert.Equal(t, "Markdown Content:\n", convertString(t, ""))
}

func TestConvert_Title(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "whitespace collapsed",
			html: "<html><head><title>  Spaced \n\t Title  </title></head><body></body></html>",
			want: "Title: Spaced Title\n\nMarkdown Content:\n",
		},
		{
			name: "no title",
			html: "<html><head></head><body></body></html>",
			want: "Markdown Content:\n",
		},
		{
			name: "empty title still emitted",
			html: "<html><head><title></title></head><body></body></html>",
			want: "Title: \n\nMarkdown Content:\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertString(t, tt.html))
		})
	}
}

func TestConvert_Headings(t *testing.T) {
	out := convertString(t, "<body><h1>A</h1><h2>B</h2><h3>C</h3><h6>F</h6><h4>  </h4></body>")

	assert.Contains(t, out, "\n# A\n")
	assert.Contains(t, out, separator+"\n\n## B\n")
	assert.Contains(t, out, "\n### C\n")
	assert.Contains(t, out, "\n###### F\n")
	assert.NotContains(t, out, separator+"\n\n### C")
	assert.NotContains(t, out, "\n#### ")
	assert.Equal(t, 2, strings.Count(out, separator))
}

func TestConvert_ParagraphWhitespace(t *testing.T) {
	out := convertString(t, "<body><p>  Hello\n   <b>big</b>\t world  </p><p> \n </p></body>")
	assert.Equal(t, "Markdown Content:\nHello big world\n\n", out)
}

func TestConvert_Lists(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "unordered",
			html: "<ul><li>X</li><li>Y</li></ul>",
			want: "\n* X\n* Y\n\n",
		},
		{
			name: "ordered",
			html: "<ol><li>P</li><li>Q</li></ol>",
			want: "\n1. P\n2. Q\n\n",
		},
		{
			name: "empty items dropped",
			html: "<ol><li> </li><li>only</li></ol>",
			want: "\n1. only\n\n",
		},
		{
			name: "nested lists flattened",
			html: "<ul><li>A<ul><li>B</li></ul></li></ul>",
			want: "\n* A B\n* B\n\n",
		},
		{
			name: "no items",
			html: "<ul></ul>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convertString(t, "<body>"+tt.html+"</body>")
			assert.Equal(t, "Markdown Content:\n"+tt.want, out)
		})
	}
}

func TestConvert_Tables(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "header and body",
			html: `<table>
				<thead><tr><th>H1</th><th>H2</th></tr></thead>
				<tbody><tr><td>C1</td><td>C2</td></tr></tbody>
			</table>`,
			want: "|H1|H2|\n|---|---|\n|C1|C2|\n\n",
		},
		{
			name: "missing tbody yields zero rows",
			html: `<table><thead><tr><th>H1</th><th>H2</th></tr></thead></table>`,
			want: "|H1|H2|\n|---|---|\n\n",
		},
		{
			name: "rows without thead",
			html: `<table><tr><td>a</td><td>b</td></tr><tr><th>only header cells</th></tr></table>`,
			want: "|a|b|\n\n",
		},
		{
			name: "column mismatch emitted as-is",
			html: `<table><thead><tr><th>H</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>`,
			want: "|H|\n|---|\n|1|2|\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convertString(t, "<html><body>"+tt.html+"</body></html>")
			assert.Equal(t, "Markdown Content:\n"+tt.want, out)
		})
	}
}

func TestConvert_LinksAndImages(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"link", `<a href="u">T</a>`, "[T](u)"},
		{"link text collapsed", `<a href="u"> <span>Two</span> words </a>`, "[Two words](u)"},
		{"empty link text", `<a href="u">  </a>`, ""},
		{"link without href", `<a name="x">T</a>`, ""},
		{"image", `<img src="s" alt="a">`, "![a](s)\n\n"},
		{"image without alt", `<img src="s">`, "![](s)\n\n"},
		{"image without src", `<img alt="a">`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convertString(t, "<body>"+tt.html+"</body>")
			assert.Equal(t, "Markdown Content:\n"+tt.want, out)
		})
	}
}

func TestConvert_CodeBlocks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "language class",
			html: `<pre><code class="hl language-go">fmt.Println("hi")</code></pre>`,
			want: "```go\nfmt.Println(\"hi\")\n```\n\n",
		},
		{
			name: "default language",
			html: "<pre><code>  a := 1\n  b := 2\n</code></pre>",
			want: "```text\na := 1\n  b := 2\n```\n\n",
		},
		{
			name: "spans joined without spacing",
			html: `<pre><code class="language-js"><span>let</span><span>x</span></code></pre>`,
			want: "```js\nletx\n```\n\n",
		},
		{
			name: "pre without code",
			html: `<pre>plain</pre>`,
			want: "",
		},
		{
			name: "empty code",
			html: `<pre><code>   </code></pre>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convertString(t, "<body>"+tt.html+"</body>")
			assert.Equal(t, "Markdown Content:\n"+tt.want, out)
		})
	}
}

func TestConvert_BlockquoteHrBr(t *testing.T) {
	out := convertString(t, `<body><blockquote><p>One</p><p> </p><div>Two  parts</div></blockquote><hr><br></body>`)
	want := "Markdown Content:\n" +
		"> One\n> Two parts\n\n" +
		separator + "\n" +
		"  \n"
	assert.Equal(t, want, out)
}

func TestConvert_ContentLocator(t *testing.T) {
	t.Run("main region wins over body", func(t *testing.T) {
		html := `<body><p>outside</p><div class="content"><p>inside</p></div></body>`
		res, err := New(DefaultConfig()).ConvertWithStats(html)
		require.NoError(t, err)
		assert.Equal(t, RegionMain, res.Region)
		assert.Equal(t, "Markdown Content:\ninside\n\n", res.Markdown)
	})

	t.Run("first match in document order", func(t *testing.T) {
		html := `<body><div id="main"><p>first</p></div><article><p>second</p></article></body>`
		out := convertString(t, html)
		assert.Contains(t, out, "first")
		assert.NotContains(t, out, "second")
	})

	t.Run("falls back to body", func(t *testing.T) {
		res, err := New(DefaultConfig()).ConvertWithStats(`<body><p>text</p></body>`)
		require.NoError(t, err)
		assert.Equal(t, RegionBody, res.Region)
		assert.Equal(t, "Markdown Content:\ntext\n\n", res.Markdown)
	})

	t.Run("styled main region is skipped entirely", func(t *testing.T) {
		out := convertString(t, `<body><main style="color:red"><p>hidden</p></main><p>body text</p></body>`)
		assert.Equal(t, "Markdown Content:\n", out)
	})
}

func TestConvert_SkipPolicy(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"infobox vcard", `<div class="infobox vcard"><p>secret</p></div>`},
		{"nested under infobox", `<table class="infobox"><tbody><tr><td><p>secret</p></td></tr></tbody></table>`},
		{"metadata class", `<div class="mbox metadata"><p>secret</p></div>`},
		{"script", `<script>var secret = 1;</script>`},
		{"nav", `<nav><ul><li>secret</li></ul></nav>`},
		{"inline style", `<div style="display:none"><p>secret</p></div>`},
		{"style scope class", `<div class="x style-scope y"><p>secret</p></div>`},
		{"site header", `<header class="site-header"><h1>secret</h1></header>`},
		{"masthead", `<header id="masthead"><p>secret</p></header>`},
		{"language selector", `<div id="p-lang"><ul><li>secret</li></ul></div>`},
		{"interwiki class", `<ul class="interwiki-links"><li>secret</li></ul>`},
		{"form controls", `<form><p>secret</p><button>go</button></form>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convertString(t, "<body>"+tt.html+"<p>visible</p></body>")
			assert.NotContains(t, out, "secret")
			assert.Contains(t, out, "visible")
		})
	}
}

func TestConvert_PlainHeaderIsContainer(t *testing.T) {
	out := convertString(t, `<body><header><h3>Section</h3></header></body>`)
	assert.Contains(t, out, "### Section")
}

func TestConvert_CustomSkipTags(t *testing.T) {
	conv := New(Config{SkipTags: []string{"ASIDE"}})
	out, err := conv.Convert(`<body><aside><p>aside</p></aside><nav><p>nav</p></nav><style>p{}</style></body>`)
	require.NoError(t, err)

	assert.NotContains(t, out, "aside")
	assert.Contains(t, out, "nav\n\n")
	assert.NotContains(t, out, "p{}")
}

func TestConvert_BareTextInContainersIgnored(t *testing.T) {
	out := convertString(t, `<body><div>loose text<p>kept</p></div></body>`)
	assert.Equal(t, "Markdown Content:\nkept\n\n", out)
}

func TestConvert_DepthBound(t *testing.T) {
	html := "<body>" + strings.Repeat("<div>", 10) + "<p>deep</p>" + strings.Repeat("</div>", 10) + "</body>"

	res, err := New(Config{MaxDepth: 3}).ConvertWithStats(html)
	require.NoError(t, err)
	assert.NotContains(t, res.Markdown, "deep")
	assert.Equal(t, 1, res.Stats.Truncated)

	res, err = New(DefaultConfig()).ConvertWithStats(html)
	require.NoError(t, err)
	assert.Contains(t, res.Markdown, "deep")
	assert.Zero(t, res.Stats.Truncated)
}

func TestConvert_Stats(t *testing.T) {
	res, err := New(DefaultConfig()).ConvertWithStats(
		`<html><head><title>T</title></head><body><nav>n</nav><script></script><div><p>a</p></div></body></html>`)
	require.NoError(t, err)

	assert.True(t, res.HasTitle)
	assert.Equal(t, "T", res.Title)
	assert.Equal(t, 2, res.Stats.Skipped)
	assert.Equal(t, 2, res.Stats.Elements)
}

func TestConvert_ParseErrors(t *testing.T) {
	conv := New(DefaultConfig())

	tooDeep := "<body>" + strings.Repeat("<div>", 600) + "x" + strings.Repeat("</div>", 600) + "</body>"
	_, err := conv.Convert(tooDeep)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Contains(t, err.Error(), "512")

	_, err = conv.ConvertBytes([]byte(tooDeep))
	assert.ErrorIs(t, err, ErrParse)

	_, err = conv.ConvertReader(iotest.ErrReader(errors.New("boom")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "boom")
}

func TestConvert_NULBytesTolerated(t *testing.T) {
	html := "<html><head><title>T</title></head><body><main><h1>Hello</h1><p>text\x00more</p><p>kept</p></main></body></html>"

	out, err := New(DefaultConfig()).Convert(html)
	require.NoError(t, err)
	assert.Contains(t, out, "# Hello")
	assert.Contains(t, out, "text")
	assert.Contains(t, out, "kept\n")

	res, err := New(DefaultConfig()).ConvertBytes([]byte{0x00, 0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, "Markdown Content:\n", res.Markdown)
}

func TestConvert_DefaultDepthBoundApplies(t *testing.T) {
	html := "<body>" + strings.Repeat("<div>", 300) + "<p>deep</p>" + strings.Repeat("</div>", 300) + "</body>"

	res, err := New(DefaultConfig()).ConvertWithStats(html)
	require.NoError(t, err)
	assert.NotContains(t, res.Markdown, "deep")
	assert.Equal(t, 1, res.Stats.Truncated)
}

func TestConvert_MalformedMarkupDegrades(t *testing.T) {
	out := convertString(t, `<body><p>unclosed <b>bold<ul><li>item</body>`)
	assert.Contains(t, out, "unclosed bold")
	assert.Contains(t, out, "* item")
}

func TestConvert_Concurrent(t *testing.T) {
	conv := New(DefaultConfig())
	html := `<html><head><title>T</title></head><body><h2>H</h2><ul><li>a</li></ul>
		<table><thead><tr><th>x</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table></body></html>`
	want, err := conv.Convert(html)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = conv.Convert(html)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestDefaultSkipTags_ReturnsCopy(t *testing.T) {
	tags := DefaultSkipTags()
	tags[0] = "changed"
	assert.Equal(t, "nav", DefaultSkipTags()[0])
}
