package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	sanitizer = bluemonday.UGCPolicy()
)

func init() {
	sanitizer.AllowImages()
	sanitizer.AddTargetBlankToFullyQualifiedLinks(true)
	sanitizer.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown renders user text (posts and comments) as sanitized HTML.
// Line breaks are kept as <br>.
func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}

	sanitized := sanitizer.SanitizeBytes(buf.Bytes())
	return EnhanceHTMLContent(string(sanitized))
}
