package convert

import (
	"github.com/gaurav-prasanna/urlmd/core"
)

var _ core.Converter = (*Converter)(nil)

// ConvertPage implements core.Converter. The native engine emits links as
// they appear in the markup, so pageURL is not used.
func (c *Converter) ConvertPage(html string, _ string) (*core.Conversion, error) {
	res, err := c.ConvertWithStats(html)
	if err != nil {
		return nil, err
	}
	return &core.Conversion{
		Markdown: res.Markdown,
		Title:    res.Title,
		Region:   string(res.Region),
	}, nil
}
