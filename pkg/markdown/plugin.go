package markdown

import (
	"fmt"

	"github.com/yaklabco/goeditable/pkg/config"
	"github.com/yaklabco/goeditable/pkg/editor"
)

// Plugin wires Markdown support into an editor as commands. Dispatching
// them through Editor.Exec keeps the selection stable across the content
// swap, which is what makes Markdown paste usable mid-edit.
type Plugin struct {
	conv *Converter
}

// NewPlugin creates the Markdown plugin for the given configuration.
func NewPlugin(cfg config.MarkdownConfig) *Plugin {
	return &Plugin{conv: New(cfg)}
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return "markdown"
}

// Converter returns the underlying converter, for hosts that also need the
// export direction (FromHTML) outside command dispatch.
func (p *Plugin) Converter() *Converter {
	return p.conv
}

// Init registers the Markdown commands:
//
//   - "insert-markdown": renders the "source" argument and appends the
//     resulting nodes to the region.
//   - "set-markdown": renders the "source" argument and replaces the
//     region's content with it.
func (p *Plugin) Init(e *editor.Editor) error {
	e.Registry().Register(editor.NewCommand(
		"insert-markdown", "append rendered Markdown to the region",
		func(cc *editor.Context) error {
			src := cc.ArgString("source", "")
			if src == "" {
				return nil
			}
			nodes, err := p.conv.ToNodes([]byte(src))
			if err != nil {
				return fmt.Errorf("insert markdown: %w", err)
			}
			for _, n := range nodes {
				cc.Region.Root().AppendChild(n)
			}
			return nil
		}))

	e.Registry().Register(editor.NewCommand(
		"set-markdown", "replace the region content with rendered Markdown",
		func(cc *editor.Context) error {
			fragment, err := p.conv.ToHTML([]byte(cc.ArgString("source", "")))
			if err != nil {
				return fmt.Errorf("set markdown: %w", err)
			}
			return cc.Region.SetContent(fragment)
		}))

	return nil
}
