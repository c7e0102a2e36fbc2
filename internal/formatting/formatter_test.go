package formatting

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"csuite/internal/harness"
	"csuite/internal/orchestrator"
	"csuite/internal/runstore"
)

func sampleReport(pkg string, outcome orchestrator.Outcome) *orchestrator.Report {
	return &orchestrator.Report{
		ID:             "run-" + pkg,
		Package:        pkg,
		Module:         "csuite_" + pkg,
		Outcome:        outcome,
		DurationMs:     2500,
		Counts:         &harness.Counts{Passed: 1},
		LogMarker:      "App launched",
		LogMarkerFound: outcome == orchestrator.OutcomePassed,
		LogSnippet:     "I/" + pkg + "( 1234): starting\n",
		Phases: []orchestrator.PhaseRecord{
			{Phase: orchestrator.PhaseInit, Status: orchestrator.PhaseStatusOK, Detail: "1 artifact(s)"},
			{Phase: orchestrator.PhaseClassifyOutcome, Status: orchestrator.PhaseStatusFailed, Detail: "log marker missing"},
		},
	}
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range ValidOutputFormats {
		assert.NoError(t, ValidateOutputFormat(string(f)))
	}
	assert.Error(t, ValidateOutputFormat("xml"))
}

func TestNew_DefaultsToTable(t *testing.T) {
	assert.IsType(t, &TableFormatter{}, New(Options{}))
	assert.IsType(t, &JSONFormatter{}, New(Options{Format: FormatJSON}))
	assert.IsType(t, &YAMLFormatter{}, New(Options{Format: FormatYAML}))
}

func TestTableFormatter_SingleReport(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport("com.a", orchestrator.OutcomeFailed)
	report.Error = "ClassifyOutcome: log marker \"App launched\" not found"

	require.NoError(t, New(Options{Writer: &buf}).FormatReports([]*orchestrator.Report{report}))

	out := buf.String()
	assert.Contains(t, out, "com.a")
	assert.Contains(t, out, "csuite_com.a")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "2.5s")
	assert.Contains(t, out, "ClassifyOutcome")
	assert.Contains(t, out, "Run: run-com.a")
	assert.Contains(t, out, "Error: ClassifyOutcome")
	assert.Contains(t, out, "I/com.a( 1234): starting")
	assert.NotContains(t, out, "\x1b[", "colors are off unless requested")
}

func TestTableFormatter_ManyReports(t *testing.T) {
	var buf bytes.Buffer
	reports := []*orchestrator.Report{
		sampleReport("com.a", orchestrator.OutcomePassed),
		sampleReport("com.b", orchestrator.OutcomeFailed),
		sampleReport("com.c", orchestrator.OutcomeErrored),
	}

	require.NoError(t, New(Options{Writer: &buf}).FormatReports(reports))

	out := buf.String()
	assert.Contains(t, out, "Total: 1 passed, 1 failed, 1 errors")
	assert.NotContains(t, out, "PHASE")
}

func TestTableFormatter_Color(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Options{Writer: &buf, Color: true}).FormatPackages([]string{"com.a"}))
	assert.Contains(t, buf.String(), "com.a")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Writer: &buf})

	require.NoError(t, f.FormatPackages(nil))
	require.NoError(t, f.FormatRunList(&runstore.ListResponse{}))
	require.NoError(t, f.FormatReports(nil))

	assert.Equal(t, "No packages installed\nNo stored runs\nNo runs\n", buf.String())
}

func TestTableFormatter_RunList(t *testing.T) {
	var buf bytes.Buffer
	resp := &runstore.ListResponse{
		Runs: []runstore.Summary{{
			ID:         "abc",
			Package:    "com.a",
			Outcome:    orchestrator.OutcomePassed,
			StartedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			DurationMs: 1000,
		}},
		Total:   2,
		HasMore: true,
	}

	require.NoError(t, New(Options{Writer: &buf}).FormatRunList(resp))

	out := buf.String()
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "1s")
	assert.Contains(t, out, "Showing 1 of 2 runs")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatJSON, Writer: &buf})

	require.NoError(t, f.FormatReports([]*orchestrator.Report{sampleReport("com.a", orchestrator.OutcomePassed)}))
	var single map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &single))
	assert.Equal(t, "com.a", single["package"])
	assert.Equal(t, "PASSED", single["outcome"])

	buf.Reset()
	require.NoError(t, f.FormatPackages(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter_UsesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatYAML, Writer: &buf})

	require.NoError(t, f.FormatReports([]*orchestrator.Report{
		sampleReport("com.a", orchestrator.OutcomePassed),
		sampleReport("com.b", orchestrator.OutcomeFailed),
	}))

	var reports []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "com.b", reports[1]["package"])
	assert.True(t, strings.Contains(buf.String(), "logMarkerFound: true"))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"name\": \"test\",\n  \"value\": 42\n}",
		PrettyJSON(map[string]interface{}{"name": "test", "value": 42}))
	assert.Equal(t, "\"hello\"", PrettyJSON("hello"))

	ch := make(chan int)
	assert.NotEmpty(t, PrettyJSON(ch))
}
