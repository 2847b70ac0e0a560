/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_test.go
Description: Tests for report serialization. Runs the pipeline over a small
synthetic buffer and verifies the Markdown, JSON, YAML, CSV, and HTML outputs.
*/

package reporting_test

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/kleascm/akaylee-ruleminer/pkg/analysis"
	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/reporting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleReport runs the real pipeline so every report section is populated
// the way production output is.
func sampleReport(t *testing.T) *interfaces.AnalysisReport {
	t.Helper()
	buf := make([]byte, 256)
	copy(buf[16:], "[Rule A]")
	copy(buf[48:], "alice@example.com")
	copy(buf[96:], "project alpha")

	p, err := analysis.NewPipeline(nil, nil)
	require.NoError(t, err)
	report := p.Run(buf, nil)
	report.File = "sample.rwz"
	return report
}

// TestMarkdownSections verifies that the rendered Markdown carries every
// populated section.
func TestMarkdownSections(t *testing.T) {
	report := sampleReport(t)
	md := reporting.NewReportWriter(t.TempDir()).Markdown(report)

	assert.Contains(t, md, "# Structure Analysis Report")
	assert.Contains(t, md, "sample.rwz")
	assert.Contains(t, md, "[Rule A]")
	assert.Contains(t, md, "alice@example.com")
	assert.Contains(t, md, "project alpha")
}

// TestWriteMarkdown verifies the Markdown file lands in the output directory.
func TestWriteMarkdown(t *testing.T) {
	report := sampleReport(t)
	dir := t.TempDir()

	path, err := reporting.NewReportWriter(dir).WriteMarkdown(report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Structure Analysis Report")
}

// TestWriteJSON verifies the JSON output round-trips.
func TestWriteJSON(t *testing.T) {
	report := sampleReport(t)

	path, err := reporting.NewReportWriter(t.TempDir()).WriteJSON(report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded interfaces.AnalysisReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, report.Size, decoded.Size)
	require.NotNil(t, decoded.Rules)
	assert.Len(t, decoded.Rules.Records, 1)
}

// TestWriteYAML verifies the YAML output is produced and non-empty.
func TestWriteYAML(t *testing.T) {
	report := sampleReport(t)

	path, err := reporting.NewReportWriter(t.TempDir()).WriteYAML(report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), report.RunID)
}

// TestWriteCSV verifies one row per recovered rule, with joined fields.
func TestWriteCSV(t *testing.T) {
	report := sampleReport(t)

	path, err := reporting.NewReportWriter(t.TempDir()).WriteCSV(report)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"index", "title", "start_offset", "end_offset", "emails", "keywords"}, rows[0])
	assert.Equal(t, "[Rule A]", rows[1][1])
	assert.Equal(t, "alice@example.com", rows[1][4])
}

// TestHTMLGenerate verifies the HTML template executes against a full report.
func TestHTMLGenerate(t *testing.T) {
	report := sampleReport(t)
	dir := t.TempDir()

	gen := reporting.NewHTMLGenerator(dir, nil)
	path, err := gen.Generate(report, "Structure Analysis", "1.0.0")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "Structure Analysis")
	assert.Contains(t, html, "[Rule A]")
	assert.Contains(t, html, report.RunID)
}
