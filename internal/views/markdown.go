package views

import (
	"bytes"
	"html/template"

	"github.com/Laisky/errors/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in post content is dropped; everything else renders as markdown,
// so plain paragraphs from the draft assistant come out as <p> blocks.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// Markdown renders post content to HTML.
func Markdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", errors.Wrap(err, "render markdown")
	}
	return template.HTML(buf.String()), nil
}
