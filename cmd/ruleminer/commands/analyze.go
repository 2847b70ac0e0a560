/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyze.go
Description: Full-pipeline analyze command for the Akaylee RuleMiner. Loads the
input buffer and optional evidence, runs every inference stage, and writes the
analysis report in the requested formats.
*/

package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/kleascm/akaylee-ruleminer/pkg/analysis"
	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/logging"
	"github.com/kleascm/akaylee-ruleminer/pkg/reporting"
	"github.com/kleascm/akaylee-ruleminer/pkg/rules"
	"github.com/kleascm/akaylee-ruleminer/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

// RunAnalyze executes the full structure-inference pipeline on one file
func RunAnalyze(cmd *cobra.Command, args []string) error {
	fmt.Println("🔬 Akaylee RuleMiner - Structure Analysis")
	fmt.Println("=========================================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	fileLogger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer fileLogger.Close()

	// Build the pipeline policy
	config, err := BuildAnalyzerConfig()
	if err != nil {
		return err
	}

	// Read the input buffer
	path, data, err := ReadInput()
	if err != nil {
		return err
	}
	fmt.Printf("📁 Input: %s (%d bytes)\n", path, len(data))

	// Load evidence if provided
	var evidence *interfaces.EvidenceSet
	if evidencePath := viper.GetString("evidence_path"); evidencePath != "" {
		evidence, err = rules.LoadEvidenceFile(evidencePath)
		if err != nil {
			return fmt.Errorf("failed to load evidence: %w", err)
		}
		fmt.Printf("🔎 Evidence: %s (%d records)\n", evidencePath, len(evidence.Records))
	}
	fmt.Println()

	// Run the pipeline
	pipeline, err := analysis.NewPipeline(config, fileLogger.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	report := pipeline.Run(data, evidence)
	report.File = path

	logRun(fileLogger, report, path, len(data))

	// Write reports in the requested formats
	outputDir := viper.GetString("output_dir")
	if outputDir == "" {
		outputDir = "./ruleminer_output"
	}

	written, err := writeReports(report, outputDir)
	if err != nil {
		return err
	}

	// Persist per-stage metrics if requested
	if viper.GetBool("write_metrics") {
		for _, timing := range report.Timings {
			if _, err := utils.WriteMetricsResult(timing.Stage, version, timing); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
		}
	}

	printSummary(report)
	fmt.Println("📄 Reports written:")
	for _, file := range written {
		fmt.Printf("   %s\n", file)
	}

	return nil
}

// writeReports serializes the report in every requested format
func writeReports(report *interfaces.AnalysisReport, outputDir string) ([]string, error) {
	format := strings.ToLower(viper.GetString("report_format"))
	if format == "" {
		format = "markdown"
	}

	writer := reporting.NewReportWriter(outputDir)
	var written []string

	wants := func(f string) bool {
		return format == f || format == "all"
	}

	if wants("markdown") {
		path, err := writer.WriteMarkdown(report)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if wants("json") {
		path, err := writer.WriteJSON(report)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if wants("yaml") {
		path, err := writer.WriteYAML(report)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if wants("csv") {
		path, err := writer.WriteCSV(report)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	if wants("html") {
		generator := reporting.NewHTMLGenerator(outputDir, logrus.StandardLogger())
		path, err := generator.Generate(report, viper.GetString("report_title"), version)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
	return written, nil
}

// logRun records the run's domain events in the analysis log
func logRun(logger *logging.Logger, report *interfaces.AnalysisReport, path string, size int) {
	logger.LogScanStart(report.RunID, path, size, nil)
	total := time.Duration(0)
	for _, timing := range report.Timings {
		logger.LogStage(report.RunID, timing.Stage, timing.Duration, nil)
		total += timing.Duration
	}
	logger.LogRegions(report.RunID, len(report.Regions.Regions), len(report.Gaps), nil)
	logger.LogPointerGraph(report.RunID, report.Pointers.NodeCount, report.Pointers.EdgeCount, len(report.Pointers.Chains), nil)
	if report.Correlation != nil {
		logger.LogCorrelation(report.RunID, len(report.Rules.Records),
			len(report.Correlation.Matches), len(report.Correlation.UnmatchedEvidence), nil)
	}
	logger.LogStats(report.RunID, len(report.Timings), total, nil)
}

// printSummary prints the headline numbers of one analysis run
func printSummary(report *interfaces.AnalysisReport) {
	fmt.Println("📊 Analysis Summary")
	fmt.Printf("   Run:              %s\n", report.RunID)
	fmt.Printf("   Text regions:     %d\n", len(report.Regions.Regions))
	fmt.Printf("   Gaps:             %d\n", len(report.Gaps))
	fmt.Printf("   Pointer nodes:    %d (%d edges, %d chains)\n",
		report.Pointers.NodeCount, report.Pointers.EdgeCount, len(report.Pointers.Chains))
	fmt.Printf("   Size fields:      %d\n", len(report.SizeFields))
	fmt.Printf("   Prefixed strings: %d\n", len(report.LenPrefixed))
	fmt.Printf("   Rule records:     %d\n", len(report.Rules.Records))
	if report.Correlation != nil {
		fmt.Printf("   Evidence matches: %d\n", len(report.Correlation.Matches))
	}
	fmt.Println()
}
