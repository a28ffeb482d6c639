package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com", "example_com"},
		{"https://example.com/", "example_com"},
		{"https://example.com/docs/intro", "example_com_docs_intro"},
		{"https://example.com:8080/a.b/", "example_com_8080_a_b"},
		{"https://en.wikipedia.org/wiki/Go-lang", "en_wikipedia_org_wiki_Go-lang"},
		{"not a url", "not_a_url"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFromURL(tt.in))
		})
	}
}

func TestMirroredPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://site.com", "index"},
		{"https://site.com/", "index"},
		{"https://site.com/docs/intro", "docs/intro"},
		{"https://site.com/docs/", "docs/index"},
		{"https://site.com/page.html", "page"},
		{"https://site.com/../../etc/passwd", "etc/passwd"},
		{"https://site.com/a b/c", "a_b/c"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MirroredPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_WritePage(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	p, err := w.WritePage("https://example.com/docs", []byte("hello"), ".md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example_com_docs.md"), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriter_WriteMirrored(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "out"))
	require.NoError(t, err)

	p, err := w.WriteMirrored("https://site.com/docs/intro", []byte("x"), ".json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "docs", "intro.json"), p)
	assert.FileExists(t, p)
}

func TestWriteFile_CreatesParents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "page.md")
	require.NoError(t, WriteFile(p, []byte("content")))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}
