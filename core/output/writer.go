// Package output handles file naming and writing for converted pages.
// A single page goes to an explicit path or to a filename derived from its
// URL (example_com_docs.md). Crawled pages mirror the URL path structure
// under the output directory.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteFile writes data to an explicit path, creating parent directories.
func WriteFile(p string, data []byte) error {
	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", p, err)
	}
	return nil
}

// WritePage writes a single page under a flat name derived from its URL.
func (w *Writer) WritePage(rawURL string, data []byte, ext string) (string, error) {
	p := filepath.Join(w.OutputDir, FilenameFromURL(rawURL)+ext)
	if err := WriteFile(p, data); err != nil {
		return "", err
	}
	return p, nil
}

// WriteMirrored writes a crawled page, mirroring the URL path.
// Example: https://site.com/docs/intro → <dir>/docs/intro.md
func (w *Writer) WriteMirrored(rawURL string, data []byte, ext string) (string, error) {
	p, err := MirroredPath(rawURL)
	if err != nil {
		return "", err
	}
	full := filepath.Join(w.OutputDir, filepath.FromSlash(p)+ext)
	if err := WriteFile(full, data); err != nil {
		return "", err
	}
	return full, nil
}

// MirroredPath returns the slash-separated relative path (without
// extension) a crawled URL is stored under. Directory URLs map to index.
func MirroredPath(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	p := parsed.Path
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	// Clean against a rooted path so ".." cannot escape the output directory.
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if ext := path.Ext(p); ext == ".html" || ext == ".htm" {
		p = strings.TrimSuffix(p, ext)
	}

	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = sanitize(seg)
	}
	return strings.Join(segs, "/"), nil
}

// FilenameFromURL converts a URL into a flat filename.
// Example: https://example.com/docs/intro → example_com_docs_intro
func FilenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	trimmed := strings.Trim(parsed.Path, "/")
	if trimmed != "" {
		for _, seg := range strings.Split(trimmed, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
