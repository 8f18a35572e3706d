package notes

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Document is a rendered notes file.
type Document struct {
	HTML string
	Meta map[string]any
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		meta.Meta,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// RenderHTML converts markdown to HTML. Single newlines become <br>, and YAML
// front matter is returned in Meta rather than rendered.
func RenderHTML(content string) (Document, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if err := md.Convert([]byte(content), &buf, parser.WithContext(ctx)); err != nil {
		return Document{}, fmt.Errorf("render markdown: %w", err)
	}
	doc := Document{HTML: buf.String(), Meta: meta.Get(ctx)}
	if doc.Meta == nil {
		doc.Meta = map[string]any{}
	}
	return doc, nil
}

// RenderTerminal renders markdown for the terminal with glamour. Front matter
// is dropped. Plain text is returned if rendering fails.
func RenderTerminal(content string, width int) string {
	body := StripFrontMatter(content)
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	out, err := renderer.Render(body)
	if err != nil {
		return body
	}
	return strings.TrimRight(out, "\n ")
}

// StripFrontMatter removes a leading YAML block delimited by --- lines.
func StripFrontMatter(content string) string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return content
	}
	rest := normalized[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return content
	}
	rest = rest[end+len("\n---"):]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		return rest[i+1:]
	}
	return ""
}
