package pretty

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/term"

	"github.com/yaklabco/goeditable/pkg/selection"
)

const (
	// defaultPreviewWidth is used when terminal width cannot be determined.
	defaultPreviewWidth = 100

	// minTextBudget is the narrowest a text preview gets before the line
	// is allowed to overflow the terminal instead.
	minTextBudget = 12

	indentStep = "  "
)

//nolint:gochecknoglobals // Read-only lookup table.
var textEscaper = strings.NewReplacer("\n", `\n`, "\t", `\t`, "\r", `\r`, `"`, `\"`)

// FormatTree renders the subtree under root as an indented outline. Text
// nodes carry their rune offset range relative to root, and the portion
// covered by snap (if any) is highlighted. Offsets follow the same
// document-order text walk the selection codec uses, so the annotations
// line up with exported snapshots.
func (s *Styles) FormatTree(root *html.Node, snap *selection.Snapshot, width int) string {
	if root == nil {
		return ""
	}
	if width <= 0 {
		width = defaultPreviewWidth
	}
	p := &treePrinter{styles: s, snap: snap, width: width}
	p.node(root, 0)
	return p.b.String()
}

// PreviewWidth attempts to get the terminal width from the writer.
func PreviewWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultPreviewWidth
}

// treePrinter tracks the running rune offset while walking a subtree in
// document order, the same order the codec counts in.
type treePrinter struct {
	styles *Styles
	snap   *selection.Snapshot
	width  int

	b      strings.Builder
	offset int
	caret  bool // collapsed-selection marker already drawn
}

func (p *treePrinter) node(n *html.Node, depth int) {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.node(c, depth)
		}
	case html.ElementNode:
		p.element(n, depth)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.node(c, depth+1)
		}
	case html.TextNode:
		p.text(n, depth)
	case html.CommentNode:
		p.comment(n, depth)
	default:
		// Doctype and raw nodes carry nothing worth showing.
	}
}

func (p *treePrinter) element(n *html.Node, depth int) {
	indent := strings.Repeat(indentStep, depth)
	p.b.WriteString(indent)
	p.b.WriteString(p.styles.Tag.Render("<" + n.Data))
	for _, a := range n.Attr {
		p.b.WriteString(" ")
		if a.Val == "" {
			p.b.WriteString(p.styles.Attr.Render(a.Key))
			continue
		}
		p.b.WriteString(p.styles.Attr.Render(fmt.Sprintf("%s=%q", a.Key, a.Val)))
	}
	p.b.WriteString(p.styles.Tag.Render(">"))
	p.b.WriteString("\n")
}

func (p *treePrinter) text(n *html.Node, depth int) {
	runes := []rune(n.Data)
	start := p.offset
	end := start + len(runes)
	p.offset = end
	if len(runes) == 0 {
		return
	}

	indent := strings.Repeat(indentStep, depth)
	annotation := fmt.Sprintf("[%d-%d)", start, end)
	budget := p.width - len(indent) - len(annotation) - 3 // quotes plus separator
	if budget < minTextBudget {
		budget = minTextBudget
	}

	p.b.WriteString(indent)
	p.b.WriteString(`"`)
	p.b.WriteString(p.renderText(runes, start, end, budget))
	p.b.WriteString(`" `)
	p.b.WriteString(p.styles.Offset.Render(annotation))
	p.b.WriteString("\n")
}

func (p *treePrinter) comment(n *html.Node, depth int) {
	indent := strings.Repeat(indentStep, depth)
	budget := p.width - len(indent) - 9
	if budget < minTextBudget {
		budget = minTextBudget
	}
	p.b.WriteString(indent)
	p.b.WriteString(p.styles.Comment.Render("<!-- " + truncateText(escapeText(n.Data), budget) + " -->"))
	p.b.WriteString("\n")
}

// renderText styles one text node's content, highlighting the slice the
// snapshot covers. The highlighted segment is never truncated; the context
// around it gives way first.
func (p *treePrinter) renderText(runes []rune, start, end, budget int) string {
	snap := p.snap
	if snap == nil || !snap.Valid() {
		return p.styles.Text.Render(truncateText(escapeText(string(runes)), budget))
	}

	if snap.Collapsed {
		// The first node whose range admits the caret draws it, matching
		// how boundary offsets resolve on import.
		if !p.caret && start <= snap.Start && snap.Start <= end {
			p.caret = true
			at := snap.Start - start
			before, after := fitAround(escapeText(string(runes[:at])), escapeText(string(runes[at:])), budget-1)
			return p.styles.Text.Render(before) + p.styles.Selection.Render("|") + p.styles.Text.Render(after)
		}
		return p.styles.Text.Render(truncateText(escapeText(string(runes)), budget))
	}

	selStart := max(snap.Start, start) - start
	selEnd := min(snap.End, end) - start
	if selStart >= selEnd {
		return p.styles.Text.Render(truncateText(escapeText(string(runes)), budget))
	}

	sel := truncateText(escapeText(string(runes[selStart:selEnd])), budget)
	before, after := fitAround(
		escapeText(string(runes[:selStart])),
		escapeText(string(runes[selEnd:])),
		budget-utf8.RuneCountInString(sel),
	)
	return p.styles.Text.Render(before) + p.styles.Selection.Render(sel) + p.styles.Text.Render(after)
}

// fitAround trims the context on either side of a highlighted segment,
// keeping the tail of the leading context and the head of the trailing one.
func fitAround(before, after string, budget int) (string, string) {
	if budget < 0 {
		budget = 0
	}
	bn := utf8.RuneCountInString(before)
	an := utf8.RuneCountInString(after)
	if bn+an <= budget {
		return before, after
	}
	keepBefore := min(bn, budget/2)
	keepAfter := min(an, budget-keepBefore)
	keepBefore = min(bn, budget-keepAfter)
	return truncateTextHead(before, keepBefore), truncateText(after, keepAfter)
}

// truncateText truncates text to max runes, adding "..." if truncated.
func truncateText(str string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(str)
	if len(runes) <= maxRunes {
		return str
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// truncateTextHead truncates from the front, preserving the end of the text.
func truncateTextHead(str string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(str)
	if len(runes) <= maxRunes {
		return str
	}
	if maxRunes <= 3 {
		return string(runes[len(runes)-maxRunes:])
	}
	return "..." + string(runes[len(runes)-maxRunes+3:])
}

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
