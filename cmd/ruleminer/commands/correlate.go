/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: correlate.go
Description: Rule segmentation and evidence correlation command for the Akaylee
RuleMiner. Segments recovered text into rule records and cross-checks them
against externally derived evidence records.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-ruleminer/pkg/regions"
	"github.com/kleascm/akaylee-ruleminer/pkg/rules"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunCorrelate segments rule records and correlates them against evidence
func RunCorrelate(cmd *cobra.Command, args []string) error {
	fmt.Println("🔗 Akaylee RuleMiner - Evidence Correlation")
	fmt.Println("===========================================")
	fmt.Println()

	config, fileLogger, path, data, err := prepareScan()
	if err != nil {
		return err
	}
	defer fileLogger.Close()
	fmt.Printf("📁 Input: %s (%d bytes)\n", path, len(data))

	evidencePath := viper.GetString("evidence_path")
	evidence, err := rules.LoadEvidenceFile(evidencePath)
	if err != nil {
		return fmt.Errorf("failed to load evidence: %w", err)
	}
	fmt.Printf("🔎 Evidence: %s (%d records)\n\n", evidencePath, len(evidence.Records))

	set := regions.NewExtractor(config).Extract(data)
	segmentation := rules.NewSegmenter(config).Segment(set.Regions)
	result := rules.NewCorrelator().Correlate(segmentation, evidence)
	fileLogger.LogCorrelation(uuid.New().String(), len(segmentation.Records),
		len(result.Matches), len(result.UnmatchedEvidence), nil)

	fmt.Printf("Segmented %d rule records (%d preamble regions).\n\n",
		len(segmentation.Records), len(segmentation.Preamble))

	for i, record := range segmentation.Records {
		fmt.Printf("  %d. %s  [0x%x-0x%x]\n", i, record.Title, record.StartOffset, record.EndOffset)
		if len(record.Emails) > 0 {
			fmt.Printf("     emails:   %s\n", strings.Join(record.Emails, ", "))
		}
		if len(record.Keywords) > 0 {
			fmt.Printf("     keywords: %s\n", strings.Join(record.Keywords, ", "))
		}
	}
	fmt.Println()

	if len(result.Matches) == 0 {
		fmt.Println("⚠️  No evidence records matched any rule.")
	} else {
		fmt.Printf("Matches (%d):\n", len(result.Matches))
		for _, match := range result.Matches {
			name := ""
			if match.EvidenceIndex < len(evidence.Records) {
				name = evidence.Records[match.EvidenceIndex].Name
			}
			fmt.Printf("  rule %d <- evidence %d (%s) score=%d\n",
				match.RuleIndex, match.EvidenceIndex, name, match.Score)
		}
	}

	if len(result.UnmatchedEvidence) > 0 {
		fmt.Printf("\nUnmatched evidence records: %v\n", result.UnmatchedEvidence)
	}
	if len(result.ExtraUnmatched) > 0 {
		fmt.Printf("Loose tokens matching no rule: %s\n", strings.Join(result.ExtraUnmatched, ", "))
	}

	return nil
}
