// Package formatting renders launch reports, stored runs and package listings
// for the command line in table, JSON or YAML form.
package formatting

import (
	"fmt"
	"io"
	"os"

	"csuite/internal/orchestrator"
	"csuite/internal/runstore"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ValidOutputFormats lists the accepted --output values.
var ValidOutputFormats = []OutputFormat{FormatTable, FormatJSON, FormatYAML}

// ValidateOutputFormat returns an error for unsupported formats.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, json, yaml)", format)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	// Writer receives the output. Defaults to os.Stdout.
	Writer io.Writer
	// Color enables colored table output.
	Color bool
}

// Formatter renders csuite results.
type Formatter interface {
	FormatReports(reports []*orchestrator.Report) error
	FormatRunList(resp *runstore.ListResponse) error
	FormatPackages(pkgs []string) error
}

// New creates the formatter for options.Format. Unknown formats fall back
// to tables.
func New(options Options) Formatter {
	if options.Writer == nil {
		options.Writer = os.Stdout
	}
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}
	case FormatYAML:
		return &YAMLFormatter{options: options}
	default:
		return &TableFormatter{options: options}
	}
}
