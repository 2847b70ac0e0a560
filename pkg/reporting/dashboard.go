/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard.go
Description: HTML report system for the Akaylee RuleMiner. Generates a clean,
self-contained web report with gap classification tables, pointer chain summaries,
rule record listings, and evidence correlation results for one analysis run.
*/

package reporting

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// HTMLGenerator creates self-contained HTML analysis reports
type HTMLGenerator struct {
	outputDir string
	logger    *logrus.Logger
	templates *template.Template
}

// HTMLReportData contains all data for HTML report generation
type HTMLReportData struct {
	Title           string                     `json:"title"`
	GeneratedAt     time.Time                  `json:"generated_at"`
	Version         string                     `json:"version"`
	Report          *interfaces.AnalysisReport `json:"report"`
	CoveragePercent float64                    `json:"coverage_percent"`
}

// NewHTMLGenerator creates a new HTML report generator
func NewHTMLGenerator(outputDir string, logger *logrus.Logger) *HTMLGenerator {
	return &HTMLGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// Generate creates a complete HTML report for one analysis run
func (hg *HTMLGenerator) Generate(report *interfaces.AnalysisReport, title string, version string) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report must not be nil")
	}

	// Create output directory
	if err := os.MkdirAll(hg.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data := &HTMLReportData{
		Title:           title,
		GeneratedAt:     time.Now(),
		Version:         version,
		Report:          report,
		CoveragePercent: coveragePercent(report),
	}

	// One self-contained page per run
	outputFile := filepath.Join(hg.outputDir, fmt.Sprintf("report_%s.html", report.RunID))
	file, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	// Execute template
	if err := hg.templates.Execute(file, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	if hg.logger != nil {
		hg.logger.Infof("HTML report generated: %s", outputFile)
	}
	return outputFile, nil
}

// coveragePercent computes the text coverage fraction of the analyzed buffer
func coveragePercent(report *interfaces.AnalysisReport) float64 {
	if report.Regions == nil || report.Size == 0 {
		return 0
	}

	covered := 0
	for _, iv := range report.Regions.Coverage {
		covered += iv.Len()
	}

	return 100 * float64(covered) / float64(report.Size)
}
