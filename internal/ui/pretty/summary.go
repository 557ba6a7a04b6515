package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/goeditable/pkg/editor"
)

const (
	summaryDividerWidth = 40
	wordChar            = "char"
	wordChars           = "chars"
)

// FormatRegionOneLine formats one region's identity and selection state as
// a single line. Example: "#body 42 chars, selection [3-9)".
func (s *Styles) FormatRegionOneLine(r *editor.Region) string {
	length := r.TextLength()
	charWord := wordChars
	if length == 1 {
		charWord = wordChar
	}

	line := s.RegionID.Render("#"+r.ID()) + fmt.Sprintf(" %d %s", length, charWord)

	snap := r.Snapshot()
	switch {
	case snap == nil:
		line += s.Dim.Render(", no selection")
	case snap.Collapsed:
		line += s.Offset.Render(fmt.Sprintf(", caret at %d", snap.Start))
	default:
		line += s.Offset.Render(fmt.Sprintf(", selection [%d-%d)", snap.Start, snap.End))
	}
	return line + "\n"
}

// FormatDocumentSummary formats the editor's document state as a summary block.
func (s *Styles) FormatDocumentSummary(e *editor.Editor) string {
	var builder strings.Builder

	regions := e.Regions()

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Document"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Editable regions: " +
		s.SummaryValue.Render(strconv.Itoa(len(regions))) + "\n")

	total := 0
	for _, r := range regions {
		total += r.TextLength()
	}
	builder.WriteString("  Text length:      " +
		s.SummaryValue.Render(strconv.Itoa(total)) + "\n")

	if plugins := e.Plugins(); len(plugins) > 0 {
		builder.WriteString("  Plugins:          " +
			s.SummaryValue.Render(strings.Join(plugins, ", ")) + "\n")
	}

	if cfg := e.Config(); cfg != nil {
		builder.WriteString("  Markdown flavor:  " +
			s.SummaryValue.Render(string(cfg.Markdown.Flavor)) + "\n")
	}

	if len(regions) == 0 {
		builder.WriteString("\n")
		builder.WriteString(s.Warning.Render("No editable regions found"))
		builder.WriteString("\n")
		return builder.String()
	}

	builder.WriteString("\n")
	for _, r := range regions {
		builder.WriteString("  " + s.FormatRegionOneLine(r))
	}

	return builder.String()
}
