package web

import (
	"bytes"
	"html/template"

	"graph-history/internal/history"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML passthrough stays disabled (no html.WithUnsafe), so converted
// output is safe to embed as template.HTML.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// historyOverviewHTML renders the history overview (newest year first) as HTML.
func historyOverviewHTML(h *history.History) template.HTML {
	src := h.Markdown()
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}
