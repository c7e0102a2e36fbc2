package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"csuite/internal/orchestrator"
	"csuite/internal/runstore"
	pkgstrings "csuite/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// FormatReports renders a summary table and, for a single report, its phases.
func (f *TableFormatter) FormatReports(reports []*orchestrator.Report) error {
	if len(reports) == 0 {
		return f.emptyMessage("No runs")
	}

	t := f.createTable()
	t.AppendHeader(f.header("PACKAGE", "MODULE", "OUTCOME", "PASSED", "FAILED", "MARKER", "CLEAN", "DURATION"))
	for _, r := range reports {
		passed, failed := "-", "-"
		if r.Counts != nil {
			passed = fmt.Sprint(r.Counts.Passed)
			failed = fmt.Sprint(r.Counts.Failed)
		}
		t.AppendRow(table.Row{
			r.Package,
			r.Module,
			f.outcome(r.Outcome),
			passed,
			failed,
			yesNo(r.LogMarkerFound),
			yesNo(r.PackageAbsentAfter),
			duration(r.DurationMs),
		})
	}
	t.Render()

	if len(reports) == 1 {
		return f.formatDetail(reports[0])
	}
	return f.formatTotals(reports)
}

func (f *TableFormatter) formatDetail(r *orchestrator.Report) error {
	t := f.createTable()
	t.AppendHeader(f.header("PHASE", "STATUS", "DURATION", "DETAIL"))
	for _, rec := range r.Phases {
		t.AppendRow(table.Row{
			string(rec.Phase),
			f.status(rec.Status),
			duration(rec.DurationMs),
			pkgstrings.TruncateDescription(rec.Detail, pkgstrings.DefaultDescriptionMaxLen),
		})
	}
	t.Render()

	w := f.options.Writer
	fmt.Fprintf(w, "%s %s\n", f.label("Run:"), r.ID)
	if r.Error != "" {
		fmt.Fprintf(w, "%s %s\n", f.label("Error:"), f.color(text.FgRed, r.Error))
	}
	if r.LogSnippet != "" && r.Outcome != orchestrator.OutcomePassed {
		fmt.Fprintf(w, "%s\n%s", f.label("Log:"), r.LogSnippet)
		if !strings.HasSuffix(r.LogSnippet, "\n") {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func (f *TableFormatter) formatTotals(reports []*orchestrator.Report) error {
	counts := map[orchestrator.Outcome]int{}
	for _, r := range reports {
		counts[r.Outcome]++
	}
	_, err := fmt.Fprintf(f.options.Writer, "%s %d passed, %d failed, %d errors\n",
		f.label("Total:"),
		counts[orchestrator.OutcomePassed],
		counts[orchestrator.OutcomeFailed],
		counts[orchestrator.OutcomeErrored])
	return err
}

// FormatRunList renders stored runs.
func (f *TableFormatter) FormatRunList(resp *runstore.ListResponse) error {
	if len(resp.Runs) == 0 {
		return f.emptyMessage("No stored runs")
	}

	t := f.createTable()
	t.AppendHeader(f.header("ID", "PACKAGE", "OUTCOME", "STARTED", "DURATION", "ERROR"))
	for _, run := range resp.Runs {
		t.AppendRow(table.Row{
			run.ID,
			run.Package,
			f.outcome(run.Outcome),
			run.StartedAt.Local().Format(time.DateTime),
			duration(run.DurationMs),
			pkgstrings.TruncateDescription(run.Error, pkgstrings.DefaultDescriptionMaxLen),
		})
	}
	t.Render()

	if resp.HasMore {
		fmt.Fprintf(f.options.Writer, "Showing %d of %d runs, use --offset to see more\n", len(resp.Runs), resp.Total)
	}
	return nil
}

// FormatPackages renders one identifier per row.
func (f *TableFormatter) FormatPackages(pkgs []string) error {
	if len(pkgs) == 0 {
		return f.emptyMessage("No packages installed")
	}

	t := f.createTable()
	t.AppendHeader(f.header("PACKAGE"))
	for _, pkg := range pkgs {
		t.AppendRow(table.Row{pkg})
	}
	t.Render()
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.Writer)
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(names ...string) table.Row {
	row := make(table.Row, 0, len(names))
	for _, n := range names {
		row = append(row, f.color(text.FgHiCyan, n))
	}
	return row
}

func (f *TableFormatter) outcome(o orchestrator.Outcome) string {
	switch o {
	case orchestrator.OutcomePassed:
		return f.color(text.FgGreen, string(o))
	case orchestrator.OutcomeFailed:
		return f.color(text.FgRed, string(o))
	default:
		return f.color(text.FgYellow, string(o))
	}
}

func (f *TableFormatter) status(s orchestrator.PhaseStatus) string {
	switch s {
	case orchestrator.PhaseStatusOK:
		return f.color(text.FgGreen, string(s))
	case orchestrator.PhaseStatusFailed:
		return f.color(text.FgRed, string(s))
	default:
		return f.color(text.FgHiBlack, string(s))
	}
}

func (f *TableFormatter) label(s string) string {
	return f.color(text.FgHiBlue, s)
}

func (f *TableFormatter) color(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

// emptyMessage prints empty result messages
func (f *TableFormatter) emptyMessage(message string) error {
	_, err := fmt.Fprintln(f.options.Writer, f.color(text.FgYellow, message))
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func duration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}
