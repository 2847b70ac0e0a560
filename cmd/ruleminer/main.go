/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the Akaylee RuleMiner. Provides comprehensive
command-line options, configuration management, and beautiful user interface for
controlling binary structure inference with advanced logging capabilities.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-ruleminer/cmd/ruleminer/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Input configuration
	inputPath    string
	evidencePath string
	outputDir    string
	reportFormat string
	reportTitle  string

	// Region extraction configuration
	minRunChars int

	// Gap classification configuration
	pureNullThreshold float64
	sparseThreshold   float64
	structuredEntropy float64

	// Pointer analysis configuration
	minConfidence float64
	maxChainDepth int
	topChains     int
	clusterWindow int

	// Size-field configuration
	minDeclaredLength int
	maxDeclaredLength int
	minPrintableRatio float64

	// Rule segmentation configuration
	headerWindow   int
	includeStrings bool

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64
	logCompress bool

	writeMetrics bool // Persist per-stage metrics JSON alongside reports
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "akaylee-ruleminer",
		Short: "Akaylee RuleMiner - Heuristic structure inference for opaque binary containers",
		Long: `Akaylee RuleMiner is a sophisticated binary analysis toolkit that recovers the
structure of undocumented rule-export containers. It extracts ASCII and UTF-16 text
regions, classifies the statistical profile of uncovered byte ranges, builds pointer
graphs with cycle detection, recovers length-prefixed strings, and segments the
recovered text into rule records cross-checked against external evidence.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")
	rootCmd.PersistentFlags().BoolVar(&logCompress, "log-compress", false, "Compress rotated log files")

	// Add analysis tuning flags
	rootCmd.PersistentFlags().IntVar(&minRunChars, "min-run-chars", 4, "Minimum characters per text run")
	rootCmd.PersistentFlags().Float64Var(&pureNullThreshold, "pure-null-threshold", 0.95, "Null ratio above which a gap is pure_null")
	rootCmd.PersistentFlags().Float64Var(&sparseThreshold, "sparse-threshold", 0.5, "Null ratio above which a gap is sparse")
	rootCmd.PersistentFlags().Float64Var(&structuredEntropy, "structured-entropy", 3.0, "Entropy above which a gap is structured")
	rootCmd.PersistentFlags().Float64Var(&minConfidence, "min-confidence", 0.0, "Minimum pointer candidate confidence")
	rootCmd.PersistentFlags().IntVar(&maxChainDepth, "max-chain-depth", 10, "Hop bound per pointer chain walk")
	rootCmd.PersistentFlags().IntVar(&topChains, "top-chains", 100, "Pointer chains retained, deepest first")
	rootCmd.PersistentFlags().IntVar(&clusterWindow, "cluster-window", 100, "Maximum spacing within a pointer cluster")
	rootCmd.PersistentFlags().IntVar(&minDeclaredLength, "min-declared-length", 10, "Smallest accepted dword size value")
	rootCmd.PersistentFlags().IntVar(&maxDeclaredLength, "max-declared-length", 50000, "Largest accepted dword size value")
	rootCmd.PersistentFlags().Float64Var(&minPrintableRatio, "min-printable-ratio", 0.9, "Printable ratio to accept a length-prefix hit")
	rootCmd.PersistentFlags().IntVar(&headerWindow, "header-window", 80, "Chars within which a header must close its bracket")
	rootCmd.PersistentFlags().BoolVar(&includeStrings, "include-strings", false, "Attach raw region strings to rule records")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))
	viper.BindPFlag("min_run_chars", rootCmd.PersistentFlags().Lookup("min-run-chars"))
	viper.BindPFlag("pure_null_threshold", rootCmd.PersistentFlags().Lookup("pure-null-threshold"))
	viper.BindPFlag("sparse_threshold", rootCmd.PersistentFlags().Lookup("sparse-threshold"))
	viper.BindPFlag("structured_entropy", rootCmd.PersistentFlags().Lookup("structured-entropy"))
	viper.BindPFlag("min_confidence", rootCmd.PersistentFlags().Lookup("min-confidence"))
	viper.BindPFlag("max_chain_depth", rootCmd.PersistentFlags().Lookup("max-chain-depth"))
	viper.BindPFlag("top_chains", rootCmd.PersistentFlags().Lookup("top-chains"))
	viper.BindPFlag("cluster_window", rootCmd.PersistentFlags().Lookup("cluster-window"))
	viper.BindPFlag("min_declared_length", rootCmd.PersistentFlags().Lookup("min-declared-length"))
	viper.BindPFlag("max_declared_length", rootCmd.PersistentFlags().Lookup("max-declared-length"))
	viper.BindPFlag("min_printable_ratio", rootCmd.PersistentFlags().Lookup("min-printable-ratio"))
	viper.BindPFlag("header_window", rootCmd.PersistentFlags().Lookup("header-window"))
	viper.BindPFlag("include_strings", rootCmd.PersistentFlags().Lookup("include-strings"))

	// Add analyze command
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full structure-inference pipeline on a binary file",
		Long: `Run every inference stage over one binary file: text region extraction,
gap classification, pointer graph construction, size-field string recovery, and
rule segmentation with optional evidence correlation. Produces a complete report
in the requested formats.`,
		RunE: commands.RunAnalyze,
	}

	// Add analyze command flags
	analyzeCmd.Flags().StringVar(&inputPath, "input", "", "Path to binary file to analyze (required)")
	analyzeCmd.Flags().StringVar(&evidencePath, "evidence", "", "Path to evidence JSON for rule correlation")
	analyzeCmd.Flags().StringVar(&outputDir, "output", "./ruleminer_output", "Directory for analysis reports")
	analyzeCmd.Flags().StringVar(&reportFormat, "format", "markdown", "Report format (markdown, json, yaml, csv, html, all)")
	analyzeCmd.Flags().StringVar(&reportTitle, "title", "Structure Analysis", "Report title")
	analyzeCmd.Flags().BoolVar(&writeMetrics, "write-metrics", false, "Persist per-stage metrics JSON")

	// Mark required flags
	analyzeCmd.MarkFlagRequired("input")

	// Bind flags to viper
	viper.BindPFlag("input_path", analyzeCmd.Flags().Lookup("input"))
	viper.BindPFlag("evidence_path", analyzeCmd.Flags().Lookup("evidence"))
	viper.BindPFlag("output_dir", analyzeCmd.Flags().Lookup("output"))
	viper.BindPFlag("report_format", analyzeCmd.Flags().Lookup("format"))
	viper.BindPFlag("report_title", analyzeCmd.Flags().Lookup("title"))
	viper.BindPFlag("write_metrics", analyzeCmd.Flags().Lookup("write-metrics"))

	rootCmd.AddCommand(analyzeCmd)

	// Add regions command for text region extraction only
	regionsCmd := &cobra.Command{
		Use:   "regions",
		Short: "Extract ASCII and UTF-16 text regions from a binary file",
		Long: `Scan a binary file for printable ASCII and UTF-16 (both byte orders) text runs.
Reports every recovered region with its offset range and decoded text, plus the
coverage intervals and the gap intervals left between them.`,
		RunE: commands.RunRegions,
	}
	regionsCmd.Flags().String("input", "", "Path to binary file to analyze (required)")
	regionsCmd.MarkFlagRequired("input")
	viper.BindPFlag("input_path", regionsCmd.Flags().Lookup("input"))
	rootCmd.AddCommand(regionsCmd)

	// Add gaps command for gap classification only
	gapsCmd := &cobra.Command{
		Use:   "gaps",
		Short: "Classify the statistical profile of uncovered byte ranges",
		Long: `Profile every byte range not covered by text regions: Shannon entropy, null
ratio, printable ratio, UTF-16 likeness, repeating n-grams, embedded format
signatures, and zlib probes. Each gap receives exactly one class.`,
		RunE: commands.RunGaps,
	}
	gapsCmd.Flags().String("input", "", "Path to binary file to analyze (required)")
	gapsCmd.MarkFlagRequired("input")
	viper.BindPFlag("input_path", gapsCmd.Flags().Lookup("input"))
	rootCmd.AddCommand(gapsCmd)

	// Add pointers command for pointer graph analysis only
	pointersCmd := &cobra.Command{
		Use:   "pointers",
		Short: "Build the pointer graph of a binary file",
		Long: `Scan aligned 32-bit words for in-bounds offset values, score each candidate
against alignment, printability, size-field, and adjacency signals, and walk the
resulting graph for linear chains and cycles.`,
		RunE: commands.RunPointers,
	}
	pointersCmd.Flags().String("input", "", "Path to binary file to analyze (required)")
	pointersCmd.MarkFlagRequired("input")
	viper.BindPFlag("input_path", pointersCmd.Flags().Lookup("input"))
	rootCmd.AddCommand(pointersCmd)

	// Add strings command for size-field string recovery only
	stringsCmd := &cobra.Command{
		Use:   "strings",
		Short: "Recover length-prefixed strings from a binary file",
		Long: `Scan for dword size fields followed by plausible text payloads and for 2-byte
length prefixes followed by printable runs, in both ASCII and UTF-16LE.`,
		RunE: commands.RunStrings,
	}
	stringsCmd.Flags().String("input", "", "Path to binary file to analyze (required)")
	stringsCmd.MarkFlagRequired("input")
	viper.BindPFlag("input_path", stringsCmd.Flags().Lookup("input"))
	rootCmd.AddCommand(stringsCmd)

	// Add correlate command for rule segmentation and evidence correlation
	correlateCmd := &cobra.Command{
		Use:   "correlate",
		Short: "Segment rule records and correlate them against evidence",
		Long: `Group recovered text regions into header-anchored rule records and cross-check
each record against externally derived evidence (typically OCR of rules dialog
screenshots), reporting the best match per rule and any unmatched evidence.`,
		RunE: commands.RunCorrelate,
	}
	correlateCmd.Flags().String("input", "", "Path to binary file to analyze (required)")
	correlateCmd.Flags().String("evidence", "", "Path to evidence JSON (required)")
	correlateCmd.MarkFlagRequired("input")
	correlateCmd.MarkFlagRequired("evidence")
	viper.BindPFlag("input_path", correlateCmd.Flags().Lookup("input"))
	viper.BindPFlag("evidence_path", correlateCmd.Flags().Lookup("evidence"))
	rootCmd.AddCommand(correlateCmd)

	// Add check command for built-in self-checks
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Perform built-in self-checks for system validation",
		Long: `Perform comprehensive system checks to validate input accessibility, log
writability, configuration validity, and other prerequisites for successful
analysis. Very useful for CI/CD integration.`,
		RunE: commands.PerformSelfCheck,
	})

	// Add logstats command for log analysis
	logstatsCmd := &cobra.Command{
		Use:   "logstats",
		Short: "Analyze accumulated analysis logs",
		Long: `Scan the log directory for accumulated run logs and report per-level line
counts, pipeline event counts, and file retention statistics.`,
		RunE: commands.PerformLogAnalysis,
	}
	rootCmd.AddCommand(logstatsCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
