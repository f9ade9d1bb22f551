// Package render turns user-supplied post and comment text into safe HTML.
package render

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

func mdToHTML(md string) []byte {
	// parsers keep state, one per document
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})

	return markdown.Render(doc, renderer)
}

// Markdown renders src as Markdown and sanitizes the result with the
// user-generated-content policy.
func Markdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	return string(ugcPolicy.SanitizeBytes(mdToHTML(src)))
}

// Plain strips every tag from src.
func Plain(src string) string {
	return strictPolicy.Sanitize(src)
}
