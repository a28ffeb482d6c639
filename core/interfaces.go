// Package core defines the pipeline interfaces for urlmd.
// A page flows fetch → convert → render → write; each stage is an interface
// so the CLI, the crawler and the HTTP server can share them.
package core

import (
	"context"
	"time"
)

// FetchResult holds the decoded HTML and response metadata from a fetch.
type FetchResult struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	HTML        string
}

// Conversion is the outcome of converting one HTML document.
type Conversion struct {
	Markdown string
	Title    string
	Region   string
}

// PageMetadata describes where a page came from and how it was converted.
type PageMetadata struct {
	URL       string    `json:"url" yaml:"url"`
	Domain    string    `json:"domain" yaml:"domain"`
	Path      string    `json:"path" yaml:"path"`
	Title     string    `json:"title" yaml:"title"`
	Engine    string    `json:"engine" yaml:"engine"`
	Region    string    `json:"region,omitempty" yaml:"region,omitempty"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// Section is the text between one heading and the next.
type Section struct {
	Heading string `json:"heading" yaml:"heading"`
	Level   int    `json:"level" yaml:"level"`
	Text    string `json:"text" yaml:"text"`
}

// Heading is a single heading found in the Markdown.
type Heading struct {
	Level int    `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
}

// Link is a hyperlink or image reference found in the Markdown.
type Link struct {
	Text  string `json:"text" yaml:"text"`
	Href  string `json:"href" yaml:"href"`
	Image bool   `json:"image,omitempty" yaml:"image,omitempty"`
}

// PageContent holds the text forms of a page.
type PageContent struct {
	Text     string    `json:"text" yaml:"text"`
	Markdown string    `json:"markdown" yaml:"markdown"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// PageStructure counts and lists the structural elements of the Markdown.
type PageStructure struct {
	Headings   []Heading `json:"headings" yaml:"headings"`
	Links      []Link    `json:"links" yaml:"links"`
	CodeBlocks int       `json:"code_blocks" yaml:"code_blocks"`
	Tables     int       `json:"tables" yaml:"tables"`
	Lists      int       `json:"lists" yaml:"lists"`
	ListItems  int       `json:"list_items" yaml:"list_items"`
}

// PageDocument is the structured (JSON/YAML) output for a single page.
type PageDocument struct {
	Metadata  PageMetadata  `json:"metadata" yaml:"metadata"`
	Content   PageContent   `json:"content" yaml:"content"`
	Structure PageStructure `json:"structure" yaml:"structure"`
}

// Fetcher retrieves HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Converter turns an HTML document into Markdown.
type Converter interface {
	// Name identifies the engine ("native", "library").
	Name() string
	// ConvertPage converts raw HTML. pageURL may be empty; engines that
	// resolve relative links use it as the base.
	ConvertPage(html string, pageURL string) (*Conversion, error)
}

// Renderer converts Markdown (and metadata) into a final output format.
type Renderer interface {
	Render(markdown string, meta PageMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
	// ContentType returns the media type of the rendered bytes.
	ContentType() string
}
