// Package cmd — convert command.
// Runs the pipeline fetch → convert → render → write for a URL, a local
// HTML file or stdin, optionally crawling the whole site.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gaurav-prasanna/urlmd/core"
	"github.com/gaurav-prasanna/urlmd/core/convert"
	"github.com/gaurav-prasanna/urlmd/core/extract"
	"github.com/gaurav-prasanna/urlmd/core/fetch"
	"github.com/gaurav-prasanna/urlmd/core/normalize"
	"github.com/gaurav-prasanna/urlmd/core/output"
	"github.com/gaurav-prasanna/urlmd/core/render"
	"github.com/gaurav-prasanna/urlmd/crawl"
	"github.com/spf13/cobra"
)

var (
	flagAll       bool
	flagFormat    string
	flagOutputDir string
	flagOutput    string
)

var convertCmd = &cobra.Command{
	Use:   "convert <url|file|->",
	Short: "Convert a page to Markdown, JSON, YAML or PDF",
	Long: `Convert fetches a web page (or reads a local HTML file, or stdin with "-"),
keeps its main content and renders it in the chosen format.

Examples:
  urlmd convert https://example.com
  urlmd convert https://example.com --format json -o page.json
  urlmd convert page.html --engine library
  curl -s https://example.com | urlmd convert -
  urlmd convert https://example.com --all --format pdf --output_dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	f := convertCmd.Flags()
	f.BoolVar(&flagAll, "all", false, "convert every page discovered on the site")
	f.StringVar(&flagFormat, "format", "markdown", "output format: "+strings.Join(render.Formats, ", "))
	f.StringVarP(&flagOutput, "output", "o", "", "write to this file")
	f.StringVar(&flagOutputDir, "output_dir", "", "write to a URL-derived file in this directory")
	f.String("engine", "native", "conversion engine: native or library")
	f.StringSlice("skip-tags", convert.DefaultSkipTags(), "tags whose subtrees are dropped")
	f.Int("max-depth", convert.DefaultMaxDepth, "maximum element nesting depth that is converted")
	f.Int("max-pages", crawl.DefaultMaxPages, "page limit for --all")
	f.String("charset", "", "force the page encoding (e.g. windows-1252)")
	f.Duration("timeout", fetch.DefaultTimeout, "HTTP timeout per request")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	renderer, err := render.ForFormat(flagFormat)
	if err != nil {
		return err
	}
	if flagAll && flagOutput != "" {
		return fmt.Errorf("--all writes one file per page; use --output_dir instead of --output")
	}

	conv := newConverter()
	if !isRemote(input) {
		if flagAll {
			return fmt.Errorf("--all needs a URL, got %q", input)
		}
		p, err := convertLocal(cmd.InOrStdin(), input, conv)
		if err != nil {
			return err
		}
		return emitRendered(cmd, p, renderer)
	}

	if err := validateURL(input); err != nil {
		return err
	}
	fetcher := newFetcher()
	if flagAll {
		return convertSite(cmd.Context(), cmd, input, fetcher, conv, renderer)
	}

	p, err := convertURL(cmd.Context(), input, fetcher, conv)
	if err != nil {
		return err
	}
	return emitRendered(cmd, p, renderer)
}

// page is one converted document on its way to a renderer.
type page struct {
	markdown string
	meta     core.PageMetadata
}

// convertURL fetches and converts a single URL.
func convertURL(ctx context.Context, rawURL string, fetcher core.Fetcher, conv core.Converter) (*page, error) {
	logger.Info().Str("url", rawURL).Msg("fetching HTML")
	res, err := fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	start := time.Now()
	c, err := conv.ConvertPage(res.HTML, rawURL)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	logger.Info().Str("url", rawURL).Dur("elapsed", time.Since(start)).Msg("processing time")

	meta := buildMetadata(rawURL, c, conv.Name())
	return &page{markdown: c.Markdown, meta: meta}, nil
}

// convertLocal converts an HTML file, or stdin when name is "-".
func convertLocal(stdin io.Reader, name string, conv core.Converter) (*page, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	start := time.Now()
	c, err := conv.ConvertPage(string(data), "")
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	logger.Info().Str("input", name).Dur("elapsed", time.Since(start)).Msg("processing time")

	return &page{
		markdown: c.Markdown,
		meta: core.PageMetadata{
			Title:     c.Title,
			Engine:    conv.Name(),
			Region:    c.Region,
			FetchedAt: time.Now(),
		},
	}, nil
}

// convertSite discovers the pages of a site and writes each one under
// --output_dir, mirroring URL paths. Failed pages are logged and skipped.
func convertSite(ctx context.Context, cmd *cobra.Command, rawURL string, fetcher core.Fetcher, conv core.Converter, renderer core.Renderer) error {
	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	logger.Info().Str("url", rawURL).Int("max_pages", cfg.Crawl.MaxPages).Msg("discovering pages")
	crawler := crawl.New(fetcher, cfg.Crawl.MaxPages, logger)
	urls, err := crawler.Discover(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	logger.Info().Int("pages", len(urls)).Msg("found pages to process")

	var failed int
	for i, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info().Int("n", i+1).Int("of", len(urls)).Str("url", pageURL).Msg("processing")

		p, err := convertURL(ctx, pageURL, crawler, conv)
		if err != nil {
			logger.Error().Err(err).Str("url", pageURL).Msg("page failed")
			failed++
			continue
		}
		data, err := renderer.Render(p.markdown, p.meta)
		if err != nil {
			logger.Error().Err(err).Str("url", pageURL).Msg("render failed")
			failed++
			continue
		}
		path, err := writer.WriteMirrored(pageURL, data, renderer.Extension())
		if err != nil {
			logger.Error().Err(err).Str("url", pageURL).Msg("write failed")
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", path)
	}

	if failed > 0 {
		logger.Warn().Int("failed", failed).Int("total", len(urls)).Msg("some pages failed")
	}
	if len(urls) > 0 && failed == len(urls) {
		return fmt.Errorf("all %d pages failed", failed)
	}
	return nil
}

func emitRendered(cmd *cobra.Command, p *page, renderer core.Renderer) error {
	data, err := renderer.Render(p.markdown, p.meta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	switch {
	case flagOutput != "":
		return writeTo(cmd, flagOutput, data)
	case flagOutputDir != "" || renderer.Extension() == ".pdf":
		writer, err := output.New(flagOutputDir)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
		name := p.meta.URL
		if name == "" {
			name = "page"
		}
		path, err := writer.WritePage(name, data, renderer.Extension())
		if err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("saved output")
		fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", path)
		return nil
	default:
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
}

// emit writes a page as Markdown with its source header, to outPath or stdout.
func emit(cmd *cobra.Command, p *page, outPath string) error {
	data, err := render.NewMarkdownRenderer().Render(p.markdown, p.meta)
	if err != nil {
		return err
	}
	if outPath != "" {
		return writeTo(cmd, outPath, data)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func writeTo(cmd *cobra.Command, path string, data []byte) error {
	logger.Info().Str("path", path).Msg("saving output")
	if err := output.WriteFile(path, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", path)
	return nil
}

// newConverter builds the engine selected by convert.engine.
func newConverter() core.Converter {
	if cfg.Convert.Engine == "library" {
		policy := convert.NewSkipPolicy(cfg.Convert.SkipTags)
		return normalize.New(extract.New(policy))
	}
	return convert.New(cfg.ConverterConfig())
}

func newFetcher() core.Fetcher {
	return fetch.New(cfg.FetcherConfig(), logger)
}

// buildMetadata describes a converted URL.
func buildMetadata(rawURL string, c *core.Conversion, engine string) core.PageMetadata {
	meta := core.PageMetadata{
		URL:       rawURL,
		Title:     c.Title,
		Engine:    engine,
		Region:    c.Region,
		FetchedAt: time.Now(),
	}
	if parsed, err := url.Parse(rawURL); err == nil {
		meta.Domain = parsed.Host
		meta.Path = parsed.Path
	}
	return meta
}

func isRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// validateURL requires an absolute http(s) URL.
func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
	}
	return nil
}
