package formatting

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"csuite/internal/orchestrator"
	"csuite/internal/runstore"
)

// YAMLFormatter provides YAML output formatting. Field names follow the JSON
// tags so both formats agree.
type YAMLFormatter struct {
	options Options
}

// FormatReports prints a single report as a mapping and several as a sequence.
func (f *YAMLFormatter) FormatReports(reports []*orchestrator.Report) error {
	if len(reports) == 1 {
		return f.print(reports[0])
	}
	if reports == nil {
		reports = []*orchestrator.Report{}
	}
	return f.print(reports)
}

// FormatRunList prints the listing page.
func (f *YAMLFormatter) FormatRunList(resp *runstore.ListResponse) error {
	return f.print(resp)
}

// FormatPackages prints the identifiers as a sequence.
func (f *YAMLFormatter) FormatPackages(pkgs []string) error {
	if pkgs == nil {
		pkgs = []string{}
	}
	return f.print(pkgs)
}

func (f *YAMLFormatter) print(v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to format YAML: %w", err)
	}
	_, err = f.options.Writer.Write(out)
	return err
}
