package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/urlmd/core"
)

// Formats lists the accepted --format values.
var Formats = []string{"markdown", "json", "yaml", "pdf"}

// ForFormat returns the renderer for a format name.
func ForFormat(name string) (core.Renderer, error) {
	switch strings.ToLower(name) {
	case "", "markdown", "md":
		return NewMarkdownRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "yaml", "yml":
		return NewYAMLRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}
