/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Text report writers for the Akaylee RuleMiner. Serializes analysis
reports to Markdown, JSON, YAML, and CSV for downstream tooling and human review.
*/

package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"gopkg.in/yaml.v3"
)

// ReportWriter serializes analysis reports into the formats downstream
// tooling consumes
type ReportWriter struct {
	outputDir string
}

// NewReportWriter creates a new report writer rooted at outputDir
func NewReportWriter(outputDir string) *ReportWriter {
	return &ReportWriter{outputDir: outputDir}
}

// WriteJSON writes the full report as indented JSON
func (rw *ReportWriter) WriteJSON(report *interfaces.AnalysisReport) (string, error) {
	if err := os.MkdirAll(rw.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(rw.outputDir, fmt.Sprintf("report_%s.json", report.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// WriteYAML writes the full report as YAML
func (rw *ReportWriter) WriteYAML(report *interfaces.AnalysisReport) (string, error) {
	if err := os.MkdirAll(rw.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(rw.outputDir, fmt.Sprintf("report_%s.yaml", report.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// WriteCSV writes the recovered rule records as a flat CSV table
func (rw *ReportWriter) WriteCSV(report *interfaces.AnalysisReport) (string, error) {
	if err := os.MkdirAll(rw.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(rw.outputDir, fmt.Sprintf("rules_%s.csv", report.RunID))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"index", "title", "start_offset", "end_offset", "emails", "keywords"}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	if report.Rules != nil {
		for i, record := range report.Rules.Records {
			row := []string{
				strconv.Itoa(i),
				record.Title,
				fmt.Sprintf("0x%x", record.StartOffset),
				fmt.Sprintf("0x%x", record.EndOffset),
				strings.Join(record.Emails, ";"),
				strings.Join(record.Keywords, ";"),
			}
			if err := writer.Write(row); err != nil {
				return "", fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	return path, nil
}

// WriteMarkdown writes a human-readable summary of the analysis run
func (rw *ReportWriter) WriteMarkdown(report *interfaces.AnalysisReport) (string, error) {
	if err := os.MkdirAll(rw.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(rw.outputDir, fmt.Sprintf("report_%s.md", report.RunID))
	if err := os.WriteFile(path, []byte(rw.Markdown(report)), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// Markdown renders the report as a Markdown document
func (rw *ReportWriter) Markdown(report *interfaces.AnalysisReport) string {
	var b strings.Builder

	b.WriteString("# Structure Analysis Report\n\n")
	fmt.Fprintf(&b, "- **Run:** %s\n", report.RunID)
	if report.File != "" {
		fmt.Fprintf(&b, "- **File:** %s\n", report.File)
	}
	fmt.Fprintf(&b, "- **Size:** %d bytes\n", report.Size)
	fmt.Fprintf(&b, "- **Generated:** %s\n\n", report.CreatedAt.Format(time.RFC3339))

	rw.markdownRegions(&b, report)
	rw.markdownGaps(&b, report)
	rw.markdownPointers(&b, report)
	rw.markdownStrings(&b, report)
	rw.markdownRules(&b, report)
	rw.markdownCorrelation(&b, report)
	rw.markdownTimings(&b, report)

	return b.String()
}

func (rw *ReportWriter) markdownRegions(b *strings.Builder, report *interfaces.AnalysisReport) {
	if report.Regions == nil {
		return
	}

	b.WriteString("## Text Regions\n\n")
	fmt.Fprintf(b, "%d regions in %d coverage intervals (%.1f%% of buffer), %d gaps.\n\n",
		len(report.Regions.Regions), len(report.Regions.Coverage),
		coveragePercent(report), len(report.Regions.Gaps))

	b.WriteString("| Start | End | Encoding | Text |\n")
	b.WriteString("|-------|-----|----------|------|\n")
	for _, region := range report.Regions.Regions {
		fmt.Fprintf(b, "| 0x%x | 0x%x | %s | %s |\n",
			region.Start, region.End, region.Encoding, mdEscape(truncateText(region.Text, 60)))
	}
	b.WriteString("\n")
}

func (rw *ReportWriter) markdownGaps(b *strings.Builder, report *interfaces.AnalysisReport) {
	if len(report.Gaps) == 0 {
		return
	}

	b.WriteString("## Gap Classification\n\n")
	b.WriteString("| Start | End | Size | Class | Entropy | Null | Printable | Notes |\n")
	b.WriteString("|-------|-----|------|-------|---------|------|-----------|-------|\n")
	for _, gap := range report.Gaps {
		notes := make([]string, 0, 3)
		if len(gap.Magic) > 0 {
			notes = append(notes, "magic: "+strings.Join(gap.Magic, ","))
		}
		if gap.ZlibBytes > 0 {
			notes = append(notes, fmt.Sprintf("zlib: %d bytes", gap.ZlibBytes))
		}
		if len(gap.GUIDs) > 0 {
			notes = append(notes, fmt.Sprintf("%d GUIDs", len(gap.GUIDs)))
		}
		fmt.Fprintf(b, "| 0x%x | 0x%x | %d | %s | %.2f | %.2f | %.2f | %s |\n",
			gap.Start, gap.End, gap.Len(), gap.Class,
			gap.Entropy, gap.NullRatio, gap.PrintableRatio, strings.Join(notes, "; "))
	}
	b.WriteString("\n")
}

func (rw *ReportWriter) markdownPointers(b *strings.Builder, report *interfaces.AnalysisReport) {
	if report.Pointers == nil {
		return
	}

	g := report.Pointers
	b.WriteString("## Pointer Graph\n\n")
	fmt.Fprintf(b, "%d nodes, %d edges. Targets: %d string, %d data, %d null, %d unknown.\n\n",
		g.NodeCount, g.EdgeCount,
		g.Classification.String, g.Classification.Data,
		g.Classification.Null, g.Classification.Unknown)

	if g.Spacing != nil {
		fmt.Fprintf(b, "Candidate spacing: min %d, max %d, avg %.1f, mode %d.\n\n",
			g.Spacing.Min, g.Spacing.Max, g.Spacing.Avg, g.Spacing.Mode)
	}

	if len(g.Chains) > 0 {
		b.WriteString("| Kind | Depth | Walk |\n")
		b.WriteString("|------|-------|------|\n")
		for _, chain := range g.Chains {
			offsets := make([]string, 0, len(chain.Offsets))
			for _, off := range chain.Offsets {
				offsets = append(offsets, fmt.Sprintf("0x%x", off))
			}
			fmt.Fprintf(b, "| %s | %d | %s |\n", chain.Kind, chain.Depth, strings.Join(offsets, " -> "))
		}
		b.WriteString("\n")
	}

	if len(g.Clusters) > 0 {
		fmt.Fprintf(b, "%d dense clusters:\n\n", len(g.Clusters))
		for _, cluster := range g.Clusters {
			fmt.Fprintf(b, "- 0x%x-0x%x (%d candidates)\n", cluster.Start, cluster.End, cluster.Count)
		}
		b.WriteString("\n")
	}
}

func (rw *ReportWriter) markdownStrings(b *strings.Builder, report *interfaces.AnalysisReport) {
	if len(report.SizeFields) == 0 && len(report.LenPrefixed) == 0 {
		return
	}

	b.WriteString("## Recovered Strings\n\n")

	if len(report.SizeFields) > 0 {
		fmt.Fprintf(b, "%d dword size-field candidates:\n\n", len(report.SizeFields))
		b.WriteString("| Size Offset | Length | UTF-8 | UTF-16 | Confidence | Decoded |\n")
		b.WriteString("|-------------|--------|-------|--------|------------|--------|\n")
		for _, cand := range report.SizeFields {
			decoded := ""
			if len(cand.Strings) > 0 {
				decoded = mdEscape(truncateText(cand.Strings[0].Text, 40))
			}
			fmt.Fprintf(b, "| 0x%x | %d | %t | %t | %.2f | %s |\n",
				cand.SizeOffset, cand.DeclaredLength, cand.UTF8Valid, cand.UTF16Valid,
				cand.Confidence, decoded)
		}
		b.WriteString("\n")
	}

	if len(report.LenPrefixed) > 0 {
		fmt.Fprintf(b, "%d length-prefixed strings:\n\n", len(report.LenPrefixed))
		b.WriteString("| Offset | Length | Encoding | Text |\n")
		b.WriteString("|--------|--------|----------|------|\n")
		for _, s := range report.LenPrefixed {
			fmt.Fprintf(b, "| 0x%x | %d | %s | %s |\n",
				s.Offset, s.Length, s.Encoding, mdEscape(truncateText(s.Text, 60)))
		}
		b.WriteString("\n")
	}
}

func (rw *ReportWriter) markdownRules(b *strings.Builder, report *interfaces.AnalysisReport) {
	if report.Rules == nil {
		return
	}

	b.WriteString("## Rule Records\n\n")
	if len(report.Rules.Preamble) > 0 {
		fmt.Fprintf(b, "%d preamble regions before the first header.\n\n", len(report.Rules.Preamble))
	}

	for i, record := range report.Rules.Records {
		fmt.Fprintf(b, "### %d. %s\n\n", i, mdEscape(record.Title))
		fmt.Fprintf(b, "- Range: 0x%x-0x%x\n", record.StartOffset, record.EndOffset)
		if len(record.Emails) > 0 {
			fmt.Fprintf(b, "- Emails: %s\n", strings.Join(record.Emails, ", "))
		}
		if len(record.Keywords) > 0 {
			fmt.Fprintf(b, "- Keywords: %s\n", strings.Join(record.Keywords, ", "))
		}
		if len(record.ExtraMatches) > 0 {
			fmt.Fprintf(b, "- Extra matches: %s\n", strings.Join(record.ExtraMatches, ", "))
		}
		b.WriteString("\n")
	}
}

func (rw *ReportWriter) markdownCorrelation(b *strings.Builder, report *interfaces.AnalysisReport) {
	if report.Correlation == nil {
		return
	}

	b.WriteString("## Evidence Correlation\n\n")
	if len(report.Correlation.Matches) == 0 {
		b.WriteString("No evidence matches.\n\n")
		return
	}

	b.WriteString("| Rule | Evidence | Score |\n")
	b.WriteString("|------|----------|-------|\n")
	for _, match := range report.Correlation.Matches {
		fmt.Fprintf(b, "| %d | %d | %d |\n", match.RuleIndex, match.EvidenceIndex, match.Score)
	}
	b.WriteString("\n")

	if len(report.Correlation.UnmatchedEvidence) > 0 {
		fmt.Fprintf(b, "Unmatched evidence records: %v\n\n", report.Correlation.UnmatchedEvidence)
	}
}

func (rw *ReportWriter) markdownTimings(b *strings.Builder, report *interfaces.AnalysisReport) {
	if len(report.Timings) == 0 {
		return
	}

	b.WriteString("## Stage Timings\n\n")
	for _, timing := range report.Timings {
		fmt.Fprintf(b, "- %s: %s\n", timing.Stage, timing.Duration)
	}
	b.WriteString("\n")
}

// truncateText shortens a string for table display
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// mdEscape neutralizes characters that would break Markdown table cells
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
