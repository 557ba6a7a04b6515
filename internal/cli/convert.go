package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goeditable/internal/logging"
	"github.com/yaklabco/goeditable/internal/ui/pretty"
	"github.com/yaklabco/goeditable/pkg/config"
	"github.com/yaklabco/goeditable/pkg/dom"
	"github.com/yaklabco/goeditable/pkg/fsutil"
	"github.com/yaklabco/goeditable/pkg/markdown"
	"github.com/yaklabco/goeditable/pkg/textdiff"
)

// ErrSourceModified is returned when a file changes on disk between being
// read and being rewritten in place.
var ErrSourceModified = errors.New("file changed during conversion")

const (
	formatMarkdown = "md"
	formatHTML     = "html"
)

type convertFlags struct {
	to     string
	flavor string
	output string
	write  bool
	backup bool
	diff   bool
}

// diffStats accumulates preview totals across input files.
type diffStats struct {
	files     int
	additions int
	deletions int
}

func newConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert between Markdown and HTML",
		Long:  convertLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.to, "to", "",
		"output format: md or html (default: the other format)")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write result to this file instead of stdout")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write result next to the source, extension swapped")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a backup of any file overwritten by -w or -o")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "show the pending change as a unified diff instead of writing")

	return cmd
}

const convertLongDescription = `Convert documents between Markdown and HTML.

The source format comes from the file extension (.md, .markdown, .html,
.htm) and the result goes to the other format unless --to says otherwise.
Converting a file to its own format normalizes it: Markdown is rendered
and exported again, HTML is reparsed and reserialized canonically.

Markdown import honors the configured flavor, and untagged code blocks
pick up a detected language class unless detection is disabled.

With --diff nothing is written: the command shows what -w (or -o) would
change as a unified diff against the target's current content, and
exits zero whether or not differences are found.

Examples:
  goeditable convert doc.md                   # HTML on stdout
  goeditable convert page.html                # Markdown on stdout
  goeditable convert doc.md -o page.html      # Write to a chosen file
  goeditable convert doc.md -w                # Write doc.html next to it
  goeditable convert doc.md -w --to md        # Normalize doc.md in place
  goeditable convert doc.md -w --backup       # Keep a backup of the target
  goeditable convert doc.md --to md --diff    # Preview the normalize`

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flags.to != "" && flags.to != formatMarkdown && flags.to != formatHTML {
		return fmt.Errorf("invalid --to %q: must be md or html", flags.to)
	}
	if flags.output != "" && len(args) != 1 {
		return errors.New("--output requires exactly one input file")
	}
	if flags.output != "" && flags.write {
		return errors.New("--output and --write are mutually exclusive")
	}
	if flags.diff && flags.backup {
		return errors.New("--backup has no effect with --diff")
	}

	// Take the flavor from the flag only when explicitly provided, so
	// config files keep working underneath.
	var cliCfg *config.Config
	if cmd.Flags().Changed("flavor") {
		cliCfg = &config.Config{
			Markdown: config.MarkdownConfig{Flavor: config.Flavor(flags.flavor)},
		}
	}

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	conv := markdown.New(cfg.Markdown)

	if flags.diff {
		return runConvertDiff(ctx, cmd, conv, args, flags)
	}

	for _, path := range args {
		if err := convertFile(ctx, cmd, conv, path, flags); err != nil {
			return err
		}
	}
	return nil
}

// runConvertDiff previews each conversion as a unified diff against the
// target's current content. Nothing is written.
func runConvertDiff(ctx context.Context, cmd *cobra.Command, conv *markdown.Converter, args []string, flags *convertFlags) error {
	out := cmd.OutOrStdout()
	colorMode, _ := cmd.Flags().GetString("color")
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))

	var stats diffStats
	for _, path := range args {
		if err := diffFile(ctx, cmd, conv, styles, path, flags, &stats); err != nil {
			return err
		}
	}

	if stats.files > 0 {
		fmt.Fprintln(out, styles.FormatDiffSummary(stats.files, stats.additions, stats.deletions))
	}
	return nil
}

func diffFile(ctx context.Context, cmd *cobra.Command, conv *markdown.Converter, styles *pretty.Styles, path string, flags *convertFlags, stats *diffStats) error {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}

	from, err := sourceFormat(path)
	if err != nil {
		return err
	}
	to := flags.to
	if to == "" {
		to = otherFormat(from)
	}

	converted, err := convertContent(conv, content, from, to)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}
	if !strings.HasSuffix(converted, "\n") {
		converted += "\n"
	}

	dest := flags.output
	if dest == "" {
		dest = swapExtension(path, to)
	}

	// Diff against whatever the write would overwrite. A missing target
	// shows the whole conversion as additions.
	base := content
	if !samePath(dest, path) {
		base, _, err = fsutil.ReadFile(ctx, dest)
		if errors.Is(err, fsutil.ErrNotFound) {
			base = nil
		} else if err != nil {
			return fmt.Errorf("convert %s: %w", dest, err)
		}
	}

	d := textdiff.Compute(dest, base, []byte(converted))
	if !d.HasChanges() {
		logging.Default().Debug("no changes", logging.FieldInput, path)
		return nil
	}

	stats.files++
	stats.additions += d.Additions
	stats.deletions += d.Deletions

	w := cmd.OutOrStdout()
	fmt.Fprint(w, styles.FormatDiff(d))
	fmt.Fprintln(w)
	return nil
}

func convertFile(ctx context.Context, cmd *cobra.Command, conv *markdown.Converter, path string, flags *convertFlags) error {
	logger := logging.Default()

	content, stamp, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}

	from, err := sourceFormat(path)
	if err != nil {
		return err
	}
	to := flags.to
	if to == "" {
		to = otherFormat(from)
	}

	out, err := convertContent(conv, content, from, to)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	dest := flags.output
	if dest == "" && flags.write {
		dest = swapExtension(path, to)
	}
	if dest == "" {
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}

	// Rewriting the file we read from: refuse if it changed underneath us.
	if samePath(dest, path) {
		changed, err := stamp.Changed(ctx)
		if err != nil {
			return fmt.Errorf("convert %s: %w", path, err)
		}
		if changed {
			return fmt.Errorf("%w: %s", ErrSourceModified, path)
		}
	}

	if flags.backup {
		created, err := fsutil.CreateBackup(ctx, dest)
		if err != nil {
			return fmt.Errorf("backup %s: %w", dest, err)
		}
		if created {
			logger.Debug("created backup", logging.FieldBackup, fsutil.BackupPath(dest))
		}
	}

	if err := fsutil.WriteAtomic(ctx, dest, []byte(out), 0); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	logger.Info("converted", logging.FieldInput, path, logging.FieldOutput, dest)
	return nil
}

// sourceFormat infers a file's format from its extension.
func sourceFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return formatMarkdown, nil
	case ".html", ".htm":
		return formatHTML, nil
	default:
		return "", fmt.Errorf("cannot tell markdown from HTML for %q: unsupported extension", path)
	}
}

func otherFormat(format string) string {
	if format == formatMarkdown {
		return formatHTML
	}
	return formatMarkdown
}

func convertContent(conv *markdown.Converter, content []byte, from, to string) (string, error) {
	switch {
	case from == formatMarkdown && to == formatHTML:
		return conv.ToHTML(content)
	case from == formatHTML && to == formatMarkdown:
		return conv.FromString(string(content))
	case from == formatMarkdown && to == formatMarkdown:
		markup, err := conv.ToHTML(content)
		if err != nil {
			return "", err
		}
		return conv.FromString(markup)
	default:
		return normalizeFragment(string(content))
	}
}

// swapExtension replaces a path's extension with the one for format.
func swapExtension(path, format string) string {
	ext := ".md"
	if format == formatHTML {
		ext = ".html"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// samePath reports whether two paths name the same file, by lexical
// comparison of their absolute forms.
func samePath(a, b string) bool {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	return absA == absB
}

// normalizeFragment reparses an HTML fragment and serializes it back,
// yielding the parser's canonical form.
func normalizeFragment(markup string) (string, error) {
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}
	wrapper := dom.NewElement("div")
	for _, n := range nodes {
		wrapper.AppendChild(n)
	}
	return dom.InnerHTML(wrapper)
}
