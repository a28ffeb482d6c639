// Package crawl discovers the pages of a site for `convert --all`.
// It reads sitemap.xml when the site has one and otherwise walks internal
// links breadth-first, bounded by a page limit.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/urlmd/core"
	"github.com/rs/zerolog"
)

// DefaultMaxPages bounds a crawl when no limit is configured.
const DefaultMaxPages = 100

var linkSelector = cascadia.MustCompile("a[href]")

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemap covers both a urlset and a sitemapindex document.
type sitemap struct {
	URLs     []sitemapURL `xml:"url"`
	Sitemaps []sitemapURL `xml:"sitemap"`
}

// Crawler discovers same-host URLs starting from a base page. Pages fetched
// during link discovery are kept, and Fetch hands each one out once so the
// caller's conversion pass does not download it again.
type Crawler struct {
	fetcher  core.Fetcher
	maxPages int
	log      zerolog.Logger

	mu      sync.Mutex
	fetched map[string]*core.FetchResult
}

// New creates a Crawler. maxPages <= 0 uses DefaultMaxPages.
func New(fetcher core.Fetcher, maxPages int, log zerolog.Logger) *Crawler {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Crawler{
		fetcher:  fetcher,
		maxPages: maxPages,
		log:      log,
		fetched:  make(map[string]*core.FetchResult),
	}
}

// Fetch returns the page kept from discovery for rawURL, or fetches it.
func (c *Crawler) Fetch(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	c.mu.Lock()
	res, ok := c.fetched[rawURL]
	delete(c.fetched, rawURL)
	c.mu.Unlock()
	if ok {
		return res, nil
	}
	return c.fetcher.Fetch(ctx, rawURL)
}

func (c *Crawler) keep(rawURL string, res *core.FetchResult) {
	c.mu.Lock()
	c.fetched[rawURL] = res
	c.mu.Unlock()
}

// Discover returns the URLs to convert, base URL first. It tries the
// sitemap and falls back to link crawling.
func (c *Crawler) Discover(ctx context.Context, baseURL string) ([]string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	host := parsed.Host

	sitemapLoc := fmt.Sprintf("%s://%s/sitemap.xml", parsed.Scheme, host)
	if urls := c.fromSitemap(ctx, sitemapLoc, baseURL, host); len(urls) > 0 {
		c.log.Debug().Str("sitemap", sitemapLoc).Int("pages", len(urls)).Msg("using sitemap")
		return urls, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return c.fromLinks(ctx, baseURL, host)
}

func (c *Crawler) fromSitemap(ctx context.Context, loc, baseURL, host string) []string {
	queue := NewQueue(c.maxPages)
	queue.Add(NormalizeURL(baseURL))
	c.readSitemap(ctx, loc, host, queue, true)
	if queue.Len() <= 1 {
		return nil
	}
	return queue.All()
}

// readSitemap adds page URLs from loc to queue. Index files are followed
// one level deep.
func (c *Crawler) readSitemap(ctx context.Context, loc, host string, queue *Queue, followIndex bool) {
	res, err := c.fetcher.Fetch(ctx, loc)
	if err != nil {
		c.log.Debug().Err(err).Str("sitemap", loc).Msg("sitemap unavailable")
		return
	}
	if res.StatusCode != http.StatusOK {
		return
	}

	var sm sitemap
	if err := xml.Unmarshal([]byte(res.HTML), &sm); err != nil {
		c.log.Debug().Err(err).Str("sitemap", loc).Msg("sitemap unreadable")
		return
	}

	for _, u := range sm.URLs {
		loc := strings.TrimSpace(u.Loc)
		if IsSameHost(loc, host) && !IsStaticAsset(loc) {
			queue.Add(NormalizeURL(loc))
		}
	}
	if !followIndex {
		return
	}
	for _, s := range sm.Sitemaps {
		if queue.Full() {
			return
		}
		child := strings.TrimSpace(s.Loc)
		if IsSameHost(child, host) {
			c.readSitemap(ctx, child, host, queue, false)
		}
	}
}

// fromLinks walks internal links breadth-first.
func (c *Crawler) fromLinks(ctx context.Context, startURL, host string) ([]string, error) {
	queue := NewQueue(c.maxPages)
	queue.Add(NormalizeURL(startURL))

	for queue.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := queue.Next()

		res, err := c.fetcher.Fetch(ctx, current)
		if err != nil {
			c.log.Warn().Err(err).Str("url", current).Msg("skipping page")
			continue
		}
		c.keep(current, res)

		links, err := ExtractLinks(res.HTML, current)
		if err != nil {
			continue
		}
		for _, link := range links {
			if IsSameHost(link, host) && !IsStaticAsset(link) {
				queue.Add(NormalizeURL(link))
			}
		}
	}

	return queue.All(), nil
}

// ExtractLinks returns the absolute http(s) targets of every <a href> in html.
func ExtractLinks(html string, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	var links []string
	doc.FindMatcher(linkSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveURL(strings.TrimSpace(href), base); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
