package pretty

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/goeditable/pkg/textdiff"
)

// FormatDiff renders a unified diff in git style with colored add,
// remove, and hunk lines. Returns the empty string when the diff has
// no changes.
func (s *Styles) FormatDiff(d *textdiff.Diff) string {
	if !d.HasChanges() {
		return ""
	}

	displayPath := relativePath(d.Path)

	var b strings.Builder
	b.WriteString(s.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)))
	b.WriteString("\n")
	b.WriteString(s.DiffRemove.Render("--- a/" + displayPath))
	b.WriteString("\n")
	b.WriteString(s.DiffAdd.Render("+++ b/" + displayPath))
	b.WriteString("\n")

	for _, hunk := range d.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)
		b.WriteString(s.DiffHunk.Render(header))
		b.WriteString("\n")

		for _, line := range hunk.Lines {
			switch line.Kind {
			case textdiff.LineAdd:
				b.WriteString(s.DiffAdd.Render("+" + line.Content))
			case textdiff.LineRemove:
				b.WriteString(s.DiffRemove.Render("-" + line.Content))
			default:
				b.WriteString(s.DiffContext.Render(" " + line.Content))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatDiffSummary renders the closing "N files changed" line.
func (s *Styles) FormatDiffSummary(files, additions, deletions int) string {
	var parts []string

	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("%d %s changed", files, fileWord))

	if additions > 0 {
		insertionWord := "insertions"
		if additions == 1 {
			insertionWord = "insertion"
		}
		parts = append(parts, s.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, insertionWord)))
	}

	if deletions > 0 {
		deletionWord := "deletions"
		if deletions == 1 {
			deletionWord = "deletion"
		}
		parts = append(parts, s.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, deletionWord)))
	}

	return strings.Join(parts, ", ")
}

// relativePath converts an absolute path to one relative to the current
// directory for display. Paths that would need more than two parent
// traversals fall back to the basename.
func relativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return filepath.Base(path)
	}
	if strings.Count(rel, "..") > 2 {
		return filepath.Base(path)
	}
	return rel
}
