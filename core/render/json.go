// Package render — JSON renderer.
// Emits the page metadata, its text forms and the structure found by
// parsing the Markdown.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/urlmd/core"
)

// JSONRenderer produces structured JSON output from Markdown.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts Markdown and metadata into a PageDocument encoded as JSON.
func (r *JSONRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	data, err := json.MarshalIndent(BuildDocument(markdown, meta), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

func (r *JSONRenderer) ContentType() string {
	return "application/json"
}
