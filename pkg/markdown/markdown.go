// Package markdown converts between Markdown and the editor's HTML DOM.
//
// Import renders Markdown with goldmark and hands back detached nodes ready
// for region insertion; export walks a region's subtree back out through
// html-to-markdown. Fenced code blocks that arrive without a language are
// annotated with a detected one so hosts can highlight them.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"

	"github.com/yaklabco/goeditable/pkg/config"
	"github.com/yaklabco/goeditable/pkg/dom"
	"github.com/yaklabco/goeditable/pkg/langdetect"
)

// Converter translates Markdown to HTML fragments and back. A Converter is
// built once per configuration and reused; it carries no per-call state.
type Converter struct {
	flavor config.Flavor
	detect bool
	md     goldmark.Markdown
	export *converter.Converter
}

// New creates a converter for the given Markdown configuration.
// Invalid flavors fall back to CommonMark.
func New(cfg config.MarkdownConfig) *Converter {
	f := flavorOrDefault(cfg.Flavor)
	return &Converter{
		flavor: f,
		detect: cfg.DetectLanguageEnabled(),
		md:     newGoldmarkInstance(f),
		export: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Flavor returns the configured Markdown flavor.
func (c *Converter) Flavor() config.Flavor {
	return c.flavor
}

// ToNodes renders Markdown source and parses the result into detached DOM
// nodes ready for insertion into a region. When language detection is
// enabled, code blocks without a language-<x> class get one detected from
// their content.
func (c *Converter) ToNodes(src []byte) ([]*html.Node, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	nodes, err := dom.ParseFragment(buf.String())
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}

	if c.detect {
		for _, n := range nodes {
			annotateCodeBlocks(n)
		}
	}
	return nodes, nil
}

// ToHTML renders Markdown source to an HTML fragment string, including any
// code-block language annotation.
func (c *Converter) ToHTML(src []byte) (string, error) {
	nodes, err := c.ToNodes(src)
	if err != nil {
		return "", err
	}
	wrapper := dom.NewElement("div")
	for _, n := range nodes {
		wrapper.AppendChild(n)
	}
	return dom.InnerHTML(wrapper)
}

// FromHTML converts the children of root to Markdown. This is the region
// export path: pass a region root and get its content as Markdown.
func (c *Converter) FromHTML(root *html.Node) (string, error) {
	markup, err := dom.InnerHTML(root)
	if err != nil {
		return "", fmt.Errorf("serialize region: %w", err)
	}
	return c.FromString(markup)
}

// FromString converts an HTML string to Markdown.
func (c *Converter) FromString(markup string) (string, error) {
	out, err := c.export.ConvertString(markup)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// flavorOrDefault returns the flavor if valid, otherwise CommonMark.
func flavorOrDefault(flavor config.Flavor) config.Flavor {
	switch flavor {
	case config.FlavorCommonMark, config.FlavorGFM:
		return flavor
	default:
		return config.FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor config.Flavor) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case config.FlavorGFM:
		opts = append(opts,
			goldmark.WithExtensions(
				extension.GFM,
			),
		)
	case config.FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}

// annotateCodeBlocks labels unlabeled <pre><code> blocks under root with a
// detected language class. Blocks the detector is unsure about stay bare.
func annotateCodeBlocks(root *html.Node) {
	for _, code := range dom.FindAll(root, isBareCodeBlock) {
		lang := langdetect.Detect([]byte(dom.Text(code)))
		if lang == langdetect.Unknown {
			continue
		}
		dom.SetAttr(code, "class", "language-"+lang)
	}
}

// isBareCodeBlock matches <code> directly under <pre> with no language class.
func isBareCodeBlock(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "code" {
		return false
	}
	if n.Parent == nil || n.Parent.Data != "pre" {
		return false
	}
	class, ok := dom.Attr(n, "class")
	return !ok || !strings.HasPrefix(class, "language-")
}
