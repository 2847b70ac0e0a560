/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Configuration types for the Akaylee RuleMiner. Every heuristic policy
constant (run lengths, entropy thresholds, pointer weights, size ranges, header
windows) is a named field so runs with different heuristics are reproducible and
comparable. Supports both command-line flags and configuration files.
*/

package interfaces

import (
	"fmt"
)

// PointerWeights are the fixed contributions of each pointer signal to the
// candidate confidence. The weights sum to at most 1.0.
type PointerWeights struct {
	TargetAligned   float64 `json:"target_aligned" mapstructure:"target_aligned"`
	TargetPrintable float64 `json:"target_printable" mapstructure:"target_printable"`
	SizeFieldBefore float64 `json:"size_field_before" mapstructure:"size_field_before"`
	AdjacentRun     float64 `json:"adjacent_run" mapstructure:"adjacent_run"`
}

// Sum returns the total weight available to a candidate
func (w PointerWeights) Sum() float64 {
	return w.TargetAligned + w.TargetPrintable + w.SizeFieldBefore + w.AdjacentRun
}

// AnalyzerConfig contains all tunable parameters for the inference pipeline.
// None of these values are format invariants; they are scan policies for a
// container whose layout is unknown.
type AnalyzerConfig struct {
	// Region extraction
	MinRunChars int `json:"min_run_chars" mapstructure:"min_run_chars"` // Minimum characters per text run

	// Gap classification
	PureNullThreshold float64 `json:"pure_null_threshold" mapstructure:"pure_null_threshold"` // Null ratio above which a gap is pure_null
	SparseThreshold   float64 `json:"sparse_threshold" mapstructure:"sparse_threshold"`       // Null ratio above which a gap is sparse
	StructuredEntropy float64 `json:"structured_entropy" mapstructure:"structured_entropy"`   // Entropy above which a gap is structured
	RepeatMinCount    int     `json:"repeat_min_count" mapstructure:"repeat_min_count"`       // Occurrences for an n-gram to count as repeating
	RepeatMaxLen      int     `json:"repeat_max_len" mapstructure:"repeat_max_len"`           // Longest n-gram to search for
	RepeatKeep        int     `json:"repeat_keep" mapstructure:"repeat_keep"`                 // Repeating patterns retained per gap
	ZlibProbeWindow   int     `json:"zlib_probe_window" mapstructure:"zlib_probe_window"`     // Bytes fed to the zlib probe
	ZlibProbeMaxOut   int     `json:"zlib_probe_max_out" mapstructure:"zlib_probe_max_out"`   // Decompression output cap

	// Pointer analysis
	Weights          PointerWeights `json:"pointer_weights" mapstructure:"pointer_weights"`
	MinConfidence    float64        `json:"min_confidence" mapstructure:"min_confidence"`         // Candidates below this are dropped
	MaxChainDepth    int            `json:"max_chain_depth" mapstructure:"max_chain_depth"`       // Hop bound per chain walk
	TopChains        int            `json:"top_chains" mapstructure:"top_chains"`                 // Chains retained, deepest first
	ClusterWindow    int            `json:"cluster_window" mapstructure:"cluster_window"`         // Max spacing within a cluster
	ClusterMinCount  int            `json:"cluster_min_count" mapstructure:"cluster_min_count"`   // Candidates needed to report a cluster
	PrintableWindow  int            `json:"printable_window" mapstructure:"printable_window"`     // Window inspected at pointer targets
	SizeHintMin      int            `json:"size_hint_min" mapstructure:"size_hint_min"`           // Lower bound for a plausible size word
	SizeHintMax      int            `json:"size_hint_max" mapstructure:"size_hint_max"`           // Upper bound for a plausible size word

	// Size-field extraction
	MinDeclaredLength int     `json:"min_declared_length" mapstructure:"min_declared_length"` // Smallest accepted dword size value
	MaxDeclaredLength int     `json:"max_declared_length" mapstructure:"max_declared_length"` // Largest accepted dword size value
	PayloadNullMax    float64 `json:"payload_null_max" mapstructure:"payload_null_max"`       // Null ratio above which an undecodable payload is dropped
	LenPrefixMin      int     `json:"len_prefix_min" mapstructure:"len_prefix_min"`           // Smallest 2-byte prefix length
	LenPrefixMax      int     `json:"len_prefix_max" mapstructure:"len_prefix_max"`           // Largest 2-byte prefix length
	LenPrefixStep     int     `json:"len_prefix_step" mapstructure:"len_prefix_step"`         // Scan stride for the prefix scan
	MinPrintableRatio float64 `json:"min_printable_ratio" mapstructure:"min_printable_ratio"` // Printable ratio to accept a prefix hit

	// Rule segmentation
	HeaderWindow     int      `json:"header_window" mapstructure:"header_window"`         // Chars within which a header must close its bracket
	MinKeywordLength int      `json:"min_keyword_length" mapstructure:"min_keyword_length"`
	MaxKeywords      int      `json:"max_keywords" mapstructure:"max_keywords"`           // 0 = no limit
	TransportTokens  []string `json:"transport_tokens" mapstructure:"transport_tokens"`   // Uppercase tokens excluded from keywords
	IncludeStrings   bool     `json:"include_strings" mapstructure:"include_strings"`     // Attach raw region strings to records
}

// DefaultConfig returns the policy constants the original analysis sessions
// converged on. All of them are overridable per run.
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		MinRunChars: 4,

		PureNullThreshold: 0.95,
		SparseThreshold:   0.5,
		StructuredEntropy: 3.0,
		RepeatMinCount:    3,
		RepeatMaxLen:      16,
		RepeatKeep:        20,
		ZlibProbeWindow:   4096,
		ZlibProbeMaxOut:   2_000_000,

		Weights: PointerWeights{
			TargetAligned:   0.2,
			TargetPrintable: 0.3,
			SizeFieldBefore: 0.2,
			AdjacentRun:     0.3,
		},
		MinConfidence:   0.0,
		MaxChainDepth:   10,
		TopChains:       100,
		ClusterWindow:   100,
		ClusterMinCount: 4,
		PrintableWindow: 16,
		SizeHintMin:     100,
		SizeHintMax:     50000,

		MinDeclaredLength: 10,
		MaxDeclaredLength: 50000,
		PayloadNullMax:    0.5,
		LenPrefixMin:      3,
		LenPrefixMax:      200,
		LenPrefixStep:     1,
		MinPrintableRatio: 0.9,

		HeaderWindow:     80,
		MinKeywordLength: 3,
		MaxKeywords:      0,
		TransportTokens:  []string{"SMTP", "MSMTP", "PSMTP"},
	}
}

// Validate checks the AnalyzerConfig for invalid or missing values.
// Returns an error if the config is invalid, or nil if valid.
func (c *AnalyzerConfig) Validate() error {
	if c.MinRunChars < 1 {
		return fmt.Errorf("min_run_chars must be positive")
	}
	if c.PureNullThreshold <= c.SparseThreshold {
		return fmt.Errorf("pure_null_threshold must exceed sparse_threshold")
	}
	if c.SparseThreshold < 0 || c.PureNullThreshold > 1 {
		return fmt.Errorf("null ratio thresholds must lie in [0,1]")
	}
	if c.Weights.Sum() > 1.0+1e-9 {
		return fmt.Errorf("pointer weights must sum to at most 1.0, got %.3f", c.Weights.Sum())
	}
	if c.MaxChainDepth < 1 {
		return fmt.Errorf("max_chain_depth must be positive")
	}
	if c.MinDeclaredLength >= c.MaxDeclaredLength {
		return fmt.Errorf("min_declared_length must be below max_declared_length")
	}
	if c.LenPrefixMin > c.LenPrefixMax {
		return fmt.Errorf("len_prefix_min must not exceed len_prefix_max")
	}
	if c.LenPrefixStep < 1 {
		return fmt.Errorf("len_prefix_step must be positive")
	}
	if c.MinPrintableRatio < 0 || c.MinPrintableRatio > 1 {
		return fmt.Errorf("min_printable_ratio must lie in [0,1]")
	}
	if c.HeaderWindow < 2 {
		return fmt.Errorf("header_window must be at least 2")
	}
	return nil
}
