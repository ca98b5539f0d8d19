// Package renderer converts Markdown post bodies to HTML using the goldmark
// engine with GFM extensions and chroma syntax highlighting for fenced code
// blocks. The renderer is stateless after construction and safe for
// concurrent use across the build worker group.
package renderer

import (
	"bytes"
	"fmt"

	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Options configure the Markdown engine.
type Options struct {
	// CodeStyle names the chroma style applied to fenced code blocks.
	// Unknown names fall back to chroma's default style.
	CodeStyle string
	// HardWraps renders single newlines as <br>
	HardWraps bool
	// Unsafe permits raw HTML in post bodies
	Unsafe bool
}

// MarkdownRenderer renders Markdown post bodies to HTML.
type MarkdownRenderer struct {
	engine goldmark.Markdown
}

// NewMarkdownRenderer constructs a renderer with GFM tables, strikethrough,
// footnotes, auto heading IDs, and syntax highlighting per the fenced code
// block's declared language tag.
func NewMarkdownRenderer(opts Options) *MarkdownRenderer {
	style := opts.CodeStyle
	if chromastyles.Get(style) == chromastyles.Fallback {
		style = chromastyles.Fallback.Name
	}

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, goldmarkhtml.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, goldmarkhtml.WithUnsafe())
	}

	engine := goldmark.New(
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)

	return &MarkdownRenderer{engine: engine}
}

// Render converts Markdown source into HTML.
func (r *MarkdownRenderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}
