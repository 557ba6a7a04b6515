package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/goeditable/internal/ui/pretty"
)

// HelpFormatter renders styled help and usage text for the CLI. It builds
// the output directly from the command's metadata rather than going through
// cobra's default templates, which keeps the section layout under our
// control and lets color degrade to plain text uniformly.
type HelpFormatter struct {
	heading lipgloss.Style
	command lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// NewHelpFormatter creates a help formatter for the given color mode and
// destination writer (the writer decides TTY detection in auto mode).
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	if !pretty.IsColorEnabled(colorMode, writer) {
		plain := lipgloss.NewStyle()
		return &HelpFormatter{
			heading: plain,
			command: plain,
			name:    plain,
			flag:    plain,
			dim:     plain,
		}
	}
	return &HelpFormatter{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// ApplyToCommand installs the formatter as the help and usage renderer for
// cmd and, through cobra's inheritance, all of its subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		_, err := io.WriteString(c.OutOrStdout(), h.usage(c))
		return err
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		var b strings.Builder
		if long := c.Long; long != "" {
			b.WriteString(strings.TrimRight(long, " \t\n"))
			b.WriteString("\n\n")
		} else if c.Short != "" {
			b.WriteString(c.Short)
			b.WriteString("\n\n")
		}
		b.WriteString(h.usage(c))
		io.WriteString(c.OutOrStdout(), b.String()) //nolint:errcheck // help output
	})
}

// usage renders the Usage/Aliases/Examples/Commands/Flags sections.
func (h *HelpFormatter) usage(c *cobra.Command) string {
	var b strings.Builder

	b.WriteString(h.heading.Render("Usage:"))
	b.WriteString("\n")
	if c.Runnable() {
		fmt.Fprintf(&b, "  %s\n", h.command.Render(c.UseLine()))
	}
	if c.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "  %s\n", h.command.Render(c.CommandPath()+" [command]"))
	}

	if len(c.Aliases) > 0 {
		b.WriteString("\n")
		b.WriteString(h.heading.Render("Aliases:"))
		fmt.Fprintf(&b, "\n  %s\n", h.dim.Render(strings.Join(c.Aliases, ", ")))
	}

	if c.Example != "" {
		b.WriteString("\n")
		b.WriteString(h.heading.Render("Examples:"))
		b.WriteString("\n")
		b.WriteString(h.dim.Render(c.Example))
		b.WriteString("\n")
	}

	if c.HasAvailableSubCommands() {
		b.WriteString("\n")
		b.WriteString(h.heading.Render("Available Commands:"))
		b.WriteString("\n")
		pad := c.NamePadding()
		for _, sub := range c.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			fmt.Fprintf(&b, "  %s %s\n",
				h.name.Render(rightPad(sub.Name(), pad)), sub.Short)
		}
	}

	h.flagSection(&b, "Flags:", c.LocalFlags())
	h.flagSection(&b, "Global Flags:", c.InheritedFlags())

	if c.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "\nUse \"%s\" for more information about a command.\n",
			h.command.Render(c.CommandPath()+" [command] --help"))
	}

	return b.String()
}

// flagSection writes one styled flag block, or nothing when the set is empty.
func (h *HelpFormatter) flagSection(b *strings.Builder, title string, flags *pflag.FlagSet) {
	if flags == nil || !flags.HasAvailableFlags() {
		return
	}
	b.WriteString("\n")
	b.WriteString(h.heading.Render(title))
	b.WriteString("\n")

	// Column layout matches pflag's FlagUsages: indent, flag spelling,
	// value name, then the usage string.
	type row struct {
		left, usage string
	}
	var rows []row
	width := 0
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		left := "    --" + f.Name
		if f.Shorthand != "" {
			left = "-" + f.Shorthand + ", --" + f.Name
		}
		varName, usage := pflag.UnquoteUsage(f)
		if varName != "" {
			left += " " + varName
		}
		if len(left) > width {
			width = len(left)
		}
		rows = append(rows, row{left: left, usage: usage})
	})
	for _, r := range rows {
		fmt.Fprintf(b, "  %s   %s\n", h.flag.Render(rightPad(r.left, width)), r.usage)
	}
}

func rightPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
