package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
)

// SimpleUI implements UI by printing through the cobra command. Listings and
// diffs go to standard output; diagnostics and the summary go to standard
// error so they never mix with an artifact written to stdout.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySignatures prints one table row per function.
func (s *SimpleUI) DisplaySignatures(ctx context.Context, units []m.Unit, cfg m.GenerationConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(s.cmd.OutOrStdout(), "\n%s", renderSignatureTable(units, cfg))

	return err
}

// DisplayParseError prints the parse failure and carries on.
func (s *SimpleUI) DisplayParseError(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}

	_, _ = errorColor.Fprintf(s.cmd.ErrOrStderr(), "parse error: %v\n", err)
}

// DisplayDiff prints a unified diff with added and removed lines colored.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := s.cmd.OutOrStdout()

	if _, err := warningColor.Fprintf(out, "%s is out of date:\n", path); err != nil {
		return err
	}

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}

		var err error

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, err = io.WriteString(out, line)
		case strings.HasPrefix(line, "+"):
			_, err = addedColor.Fprint(out, line)
		case strings.HasPrefix(line, "-"):
			_, err = removedColor.Fprint(out, line)
		default:
			_, err = io.WriteString(out, line)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// DisplaySummary prints the run counts.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := io.WriteString(s.cmd.ErrOrStderr(), renderSummary(summary))

	return err
}

func renderSignatureTable(units []m.Unit, cfg m.GenerationConfig) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Function", "Parameters", "Cases"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
	})

	functions, cases := 0, 0

	for _, unit := range units {
		path := ""
		if unit.Source.Origin != nil {
			path = string(unit.Source.Origin.ShortPath)
		}

		for _, sig := range unit.Signatures {
			n := cfg.CaseCount(sig)
			table.Append([]string{
				fmt.Sprintf("%s:%d", path, sig.Line),
				sig.Name,
				formatParams(sig.Params),
				fmt.Sprintf("%d", n),
			})

			functions++
			cases += n
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(units)),
		fmt.Sprintf("Functions %d", functions),
		"",
		fmt.Sprintf("%d", cases),
	})

	table.Render()

	for _, unit := range units {
		for _, skipped := range unit.Skipped {
			fmt.Fprintf(&tableBuffer, "skipped %s (line %d): %s\n", skipped.Name, skipped.Line, skipped.Reason)
		}
	}

	return tableBuffer.String()
}

func formatParams(params []m.Parameter) string {
	if len(params) == 0 {
		return "-"
	}

	parts := make([]string, len(params))

	for i, p := range params {
		name := p.Name
		if p.Kind.IsVariadic() {
			name = "*" + name
		}

		parts[i] = name + ":" + p.Category.String()
	}

	return strings.Join(parts, " ")
}

func renderSummary(summary m.Summary) string {
	var b strings.Builder

	target := string(summary.Output)
	if target == "" {
		target = "stdout"
	}

	b.WriteString("\n")
	_, _ = successColor.Fprintf(&b, "Generated %d case(s) for %d function(s) in %d source(s)\n",
		summary.Cases, summary.Functions, summary.Sources)
	fmt.Fprintf(&b, "Format: %s, output: %s, seed: %d\n", summary.Format, target, summary.Seed)

	for _, name := range summary.ZeroParam {
		fmt.Fprintf(&b, "No parameters, no cases: %s\n", name)
	}

	for _, skipped := range summary.Skipped {
		fmt.Fprintf(&b, "Skipped %s: %s\n", skipped.Name, skipped.Reason)
	}

	for _, path := range summary.Unrendered {
		_, _ = warningColor.Fprintf(&b, "Not rendered as %s: %s\n", summary.Format, path)
	}

	if summary.Fallbacks > 0 {
		_, _ = warningColor.Fprintf(&b, "%d parameter(s) fell back to UNKNOWN\n", summary.Fallbacks)
	}

	if summary.ParseErrors > 0 {
		_, _ = errorColor.Fprintf(&b, "%d source(s) failed to parse\n", summary.ParseErrors)
	}

	return b.String()
}
