package formatting

import (
	"fmt"

	"csuite/internal/orchestrator"
	"csuite/internal/runstore"
)

// JSONFormatter provides JSON output formatting
type JSONFormatter struct {
	options Options
}

// FormatReports prints a single report as an object and several as an array.
func (f *JSONFormatter) FormatReports(reports []*orchestrator.Report) error {
	if len(reports) == 1 {
		return f.print(reports[0])
	}
	if reports == nil {
		reports = []*orchestrator.Report{}
	}
	return f.print(reports)
}

// FormatRunList prints the listing page.
func (f *JSONFormatter) FormatRunList(resp *runstore.ListResponse) error {
	return f.print(resp)
}

// FormatPackages prints the identifiers as an array.
func (f *JSONFormatter) FormatPackages(pkgs []string) error {
	if pkgs == nil {
		pkgs = []string{}
	}
	return f.print(pkgs)
}

func (f *JSONFormatter) print(v interface{}) error {
	_, err := fmt.Fprintln(f.options.Writer, PrettyJSON(v))
	return err
}
