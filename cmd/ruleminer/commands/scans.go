/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scans.go
Description: Stage-specific scan commands for the Akaylee RuleMiner. Provides
regions, gaps, pointers, and strings commands that each run one inference stage
and print its findings directly to the terminal.
*/

package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-ruleminer/pkg/gaps"
	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/logging"
	"github.com/kleascm/akaylee-ruleminer/pkg/pointers"
	"github.com/kleascm/akaylee-ruleminer/pkg/regions"
	"github.com/kleascm/akaylee-ruleminer/pkg/sizefields"
	"github.com/spf13/cobra"
)

// prepareScan loads configuration, logging, policy, and the input buffer.
// The caller must Close the returned logger.
func prepareScan() (*interfaces.AnalyzerConfig, *logging.Logger, string, []byte, error) {
	if err := LoadConfig(); err != nil {
		return nil, nil, "", nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	fileLogger, err := SetupLogging()
	if err != nil {
		return nil, nil, "", nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	config, err := BuildAnalyzerConfig()
	if err != nil {
		fileLogger.Close()
		return nil, nil, "", nil, err
	}

	path, data, err := ReadInput()
	if err != nil {
		fileLogger.Close()
		return nil, nil, "", nil, err
	}

	fileLogger.LogScanStart(uuid.New().String(), path, len(data), nil)
	return config, fileLogger, path, data, nil
}

// RunRegions extracts and prints the text regions of one file
func RunRegions(cmd *cobra.Command, args []string) error {
	fmt.Println("📜 Akaylee RuleMiner - Text Regions")
	fmt.Println("===================================")
	fmt.Println()

	config, fileLogger, path, data, err := prepareScan()
	if err != nil {
		return err
	}
	defer fileLogger.Close()
	fmt.Printf("📁 Input: %s (%d bytes)\n\n", path, len(data))

	set := regions.NewExtractor(config).Extract(data)

	covered := 0
	for _, iv := range set.Coverage {
		covered += iv.Len()
	}
	fmt.Printf("Found %d regions covering %d bytes (%.1f%%), %d gaps.\n\n",
		len(set.Regions), covered, 100*float64(covered)/float64(set.Size), len(set.Gaps))

	for _, region := range set.Regions {
		fmt.Printf("  0x%06x-0x%06x %-8s %q\n", region.Start, region.End, region.Encoding, region.Text)
	}

	return nil
}

// RunGaps classifies and prints the gap profile of one file
func RunGaps(cmd *cobra.Command, args []string) error {
	fmt.Println("🕳️  Akaylee RuleMiner - Gap Classification")
	fmt.Println("==========================================")
	fmt.Println()

	config, fileLogger, path, data, err := prepareScan()
	if err != nil {
		return err
	}
	defer fileLogger.Close()
	fmt.Printf("📁 Input: %s (%d bytes)\n\n", path, len(data))

	set := regions.NewExtractor(config).Extract(data)
	classified := gaps.NewClassifier(config).Classify(data, set.Gaps)

	counts := map[interfaces.GapClass]int{}
	for _, gap := range classified {
		counts[gap.Class]++
	}
	fmt.Printf("Classified %d gaps: %d pure_null, %d sparse, %d structured, %d unknown.\n\n",
		len(classified), counts[interfaces.GapPureNull], counts[interfaces.GapSparse],
		counts[interfaces.GapStructured], counts[interfaces.GapUnknown])

	for _, gap := range classified {
		fmt.Printf("  0x%06x-0x%06x %6d bytes  %-10s entropy=%.2f null=%.2f",
			gap.Start, gap.End, gap.Len(), gap.Class, gap.Entropy, gap.NullRatio)
		if len(gap.Magic) > 0 {
			fmt.Printf("  magic=%v", gap.Magic)
		}
		if gap.ZlibBytes > 0 {
			fmt.Printf("  zlib=%d", gap.ZlibBytes)
		}
		fmt.Println()
	}

	return nil
}

// RunPointers builds and prints the pointer graph of one file
func RunPointers(cmd *cobra.Command, args []string) error {
	fmt.Println("🧭 Akaylee RuleMiner - Pointer Graph")
	fmt.Println("====================================")
	fmt.Println()

	config, fileLogger, path, data, err := prepareScan()
	if err != nil {
		return err
	}
	defer fileLogger.Close()
	fmt.Printf("📁 Input: %s (%d bytes)\n\n", path, len(data))

	graph := pointers.NewAnalyzer(config).Analyze(data)

	fmt.Printf("Graph: %d nodes, %d edges.\n", graph.NodeCount, graph.EdgeCount)
	fmt.Printf("Targets: %d string, %d data, %d null, %d unknown.\n",
		graph.Classification.String, graph.Classification.Data,
		graph.Classification.Null, graph.Classification.Unknown)
	if graph.Spacing != nil {
		fmt.Printf("Spacing: min=%d max=%d avg=%.1f mode=%d.\n",
			graph.Spacing.Min, graph.Spacing.Max, graph.Spacing.Avg, graph.Spacing.Mode)
	}
	fmt.Println()

	if len(graph.Chains) > 0 {
		fmt.Printf("Top chains (%d):\n", len(graph.Chains))
		for _, chain := range graph.Chains {
			fmt.Printf("  %-6s depth=%-3d", chain.Kind, chain.Depth)
			for i, off := range chain.Offsets {
				if i > 0 {
					fmt.Print(" -> ")
				} else {
					fmt.Print(" ")
				}
				fmt.Printf("0x%x", off)
			}
			if chain.Kind == interfaces.ChainLinear {
				fmt.Printf(" -> 0x%x", chain.FinalTarget)
			}
			fmt.Println()
		}
		fmt.Println()
	}

	if len(graph.Clusters) > 0 {
		fmt.Printf("Dense clusters (%d):\n", len(graph.Clusters))
		for _, cluster := range graph.Clusters {
			fmt.Printf("  0x%06x-0x%06x (%d candidates)\n", cluster.Start, cluster.End, cluster.Count)
		}
	}

	return nil
}

// RunStrings recovers and prints the length-prefixed strings of one file
func RunStrings(cmd *cobra.Command, args []string) error {
	fmt.Println("🧵 Akaylee RuleMiner - Length-Prefixed Strings")
	fmt.Println("==============================================")
	fmt.Println()

	config, fileLogger, path, data, err := prepareScan()
	if err != nil {
		return err
	}
	defer fileLogger.Close()
	fmt.Printf("📁 Input: %s (%d bytes)\n\n", path, len(data))

	extractor := sizefields.NewExtractor(config)

	candidates := extractor.Extract(data)
	fmt.Printf("Dword size-field candidates (%d):\n", len(candidates))
	for _, cand := range candidates {
		fmt.Printf("  size@0x%06x len=%-6d utf8=%-5t utf16=%-5t conf=%.2f",
			cand.SizeOffset, cand.DeclaredLength, cand.UTF8Valid, cand.UTF16Valid, cand.Confidence)
		if len(cand.Strings) > 0 {
			fmt.Printf("  %q (%s)", cand.Strings[0].Text, cand.Strings[0].Encoding)
		}
		fmt.Println()
	}
	fmt.Println()

	prefixed := extractor.ExtractLengthPrefixed(data)
	fmt.Printf("2-byte length-prefixed strings (%d):\n", len(prefixed))
	for _, s := range prefixed {
		fmt.Printf("  0x%06x len=%-4d %-8s %q\n", s.Offset, s.Length, s.Encoding, s.Text)
	}

	return nil
}
