package render

import (
	"bytes"
	"fmt"

	"github.com/gaurav-prasanna/urlmd/core"
	"gopkg.in/yaml.v3"
)

// YAMLRenderer produces the same page document as JSONRenderer, as YAML.
type YAMLRenderer struct{}

// NewYAMLRenderer creates a YAMLRenderer.
func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

func (r *YAMLRenderer) Render(markdown string, meta core.PageMetadata) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(BuildDocument(markdown, meta)); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *YAMLRenderer) Extension() string {
	return ".yaml"
}

func (r *YAMLRenderer) ContentType() string {
	return "application/yaml"
}
