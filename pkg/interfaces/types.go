/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types and interfaces for the Akaylee RuleMiner engine. Defines the
fundamental data structures produced by the structure-inference pipeline including text
regions, gaps, pointer graphs, size-field strings, rule records, and correlation results.
*/

package interfaces

import (
	"time"
)

// TextEncoding identifies the byte encoding a text region was recovered from
type TextEncoding string

const (
	EncodingASCII   TextEncoding = "ascii"
	EncodingUTF16LE TextEncoding = "utf16le"
	EncodingUTF16BE TextEncoding = "utf16be"
)

// TextRegion represents a run of printable text recovered from the buffer.
// Offsets are half-open byte positions into the analyzed buffer.
type TextRegion struct {
	Start    int          `json:"start"`    // Byte offset where the run begins
	End      int          `json:"end"`      // Byte offset one past the last run byte
	Encoding TextEncoding `json:"encoding"` // Encoding the run was decoded with
	Text     string       `json:"text"`     // Best-effort decoded text
}

// Interval is a half-open [Start, End) byte range
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the byte length of the interval
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// RegionSet is the full output of the region extractor: the per-encoding regions,
// the merged disjoint coverage intervals, and the complementary gap intervals.
// Coverage and Gaps always partition [0, Size) exactly.
type RegionSet struct {
	Size     int          `json:"size"`     // Length of the analyzed buffer
	Regions  []TextRegion `json:"regions"`  // All regions, sorted by start offset
	Coverage []Interval   `json:"coverage"` // Merged disjoint text intervals
	Gaps     []Interval   `json:"gaps"`     // Exact complement of Coverage
}

// GapClass is the coarse statistical classification of a gap
type GapClass string

const (
	GapPureNull   GapClass = "pure_null"  // Almost entirely zero bytes
	GapSparse     GapClass = "sparse"     // Mostly zero with scattered payload
	GapStructured GapClass = "structured" // High-entropy, likely packed data
	GapUnknown    GapClass = "unknown"    // Low-entropy non-null data
)

// RepeatPattern records a byte n-gram that repeats inside a gap.
// Short, frequent patterns in sparse gaps are flag/condition field candidates.
type RepeatPattern struct {
	Pattern  string  `json:"pattern"`  // Hex-encoded n-gram
	Length   int     `json:"length"`   // n-gram length in bytes
	Count    int     `json:"count"`    // Number of occurrences
	Coverage float64 `json:"coverage"` // Fraction of the gap covered by occurrences
}

// Gap describes one uncovered byte range with its statistical profile
type Gap struct {
	Start          int             `json:"start"`
	End            int             `json:"end"`
	Entropy        float64         `json:"entropy"`         // Shannon entropy in bits (base 2)
	NullRatio      float64         `json:"null_ratio"`      // Zero bytes / length
	PrintableRatio float64         `json:"printable_ratio"` // Printable ASCII bytes / length
	UTF16Likeness  float64         `json:"utf16_likeness"`  // Zero-byte interleave ratio
	Histogram      []int           `json:"-"`               // 256-entry byte histogram
	UniqueBytes    int             `json:"unique_bytes"`    // Distinct byte values observed
	Class          GapClass        `json:"class"`           // Coarse classification
	Repeats        []RepeatPattern `json:"repeats,omitempty"`
	Magic          []string        `json:"magic,omitempty"`     // Known signatures at the gap head
	ZlibBytes      int             `json:"zlib_bytes,omitempty"` // Decompressed size if a zlib probe succeeded
	GUIDs          []string        `json:"guids,omitempty"`     // GUID-like ASCII sequences inside the gap
}

// Len returns the byte length of the gap
func (g Gap) Len() int {
	return g.End - g.Start
}

// PointerSignals holds the independent boolean evidence used to score a pointer
// candidate. Keeping the flags explicit lets the scoring policy be swapped and
// tested apart from the scan itself.
type PointerSignals struct {
	TargetAligned   bool `json:"target_aligned"`   // Target is 4-byte aligned
	TargetPrintable bool `json:"target_printable"` // Window at the target contains printable bytes
	SizeFieldBefore bool `json:"size_field_before"` // Word before the source looks like a size
	AdjacentRun     bool `json:"adjacent_run"`     // Neighboring words are plausible pointers too
}

// PointerCandidate is a machine word whose value is a valid in-bounds offset.
// Confidence is a ranking heuristic in [0,1], not a probability.
type PointerCandidate struct {
	SourceOffset int            `json:"source_offset"`
	TargetOffset int            `json:"target_offset"`
	Signals      PointerSignals `json:"signals"`
	Confidence   float64        `json:"confidence"`
}

// ChainKind distinguishes linear pointer chains from cyclic ones
type ChainKind string

const (
	ChainLinear ChainKind = "linear"
	ChainCycle  ChainKind = "cycle"
)

// PointerChain is a maximal walk through the pointer graph
type PointerChain struct {
	Kind        ChainKind `json:"kind"`
	Offsets     []int     `json:"offsets"`                // Visited source offsets, in walk order
	Depth       int       `json:"depth"`                  // Number of hops taken
	FinalTarget int       `json:"final_target,omitempty"` // Terminal target for linear chains
}

// PointerCluster is a group of candidates packed closely together
type PointerCluster struct {
	Start int `json:"start"` // Offset of the first candidate in the cluster
	End   int `json:"end"`   // Offset of the last candidate in the cluster
	Count int `json:"count"` // Candidates in the cluster
}

// SpacingStats summarizes the distances between consecutive candidates
type SpacingStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Avg  float64 `json:"avg"`
	Mode int     `json:"mode"` // Most frequent spacing
}

// TargetClassification buckets candidates by what their target looks like
type TargetClassification struct {
	Null    int `json:"null"`    // Target offset zero
	String  int `json:"string"`  // Printable window at target
	Data    int `json:"data"`    // Mostly-null window at target
	Unknown int `json:"unknown"` // Anything else
}

// PointerNode is one node of the pointer graph, keyed by source offset
type PointerNode struct {
	Offset     int     `json:"offset"`
	Target     int     `json:"target"`
	Confidence float64 `json:"confidence"`
	InDegree   int     `json:"in_degree"`
	OutDegree  int     `json:"out_degree"`
}

// PointerGraph is the directed graph of pointer relationships together with the
// structural summaries derived from it
type PointerGraph struct {
	Candidates     []PointerCandidate   `json:"-"`        // All scored candidates, by source offset
	Nodes          map[int]*PointerNode `json:"-"`        // Source offset -> node
	NodeCount      int                  `json:"node_count"`
	EdgeCount      int                  `json:"edge_count"`
	Chains         []PointerChain       `json:"chains"`   // Top chains, deepest first
	Clusters       []PointerCluster     `json:"clusters"` // Dense candidate groups
	Spacing        *SpacingStats        `json:"spacing,omitempty"`
	Classification TargetClassification `json:"classification"`
}

// DecodedString is one successful decoding of a size-field payload
type DecodedString struct {
	Encoding string `json:"encoding"` // "utf-8", "utf-16le", or "utf-8 (null-terminated)"
	Text     string `json:"text"`
	Length   int    `json:"length"` // Decoded character count
}

// SizeFieldCandidate is a length value followed by a payload that fits the buffer
// and decodes plausibly as text
type SizeFieldCandidate struct {
	SizeOffset     int             `json:"size_offset"`     // Offset of the length word
	DeclaredLength int             `json:"declared_length"` // The length value read
	PayloadOffset  int             `json:"payload_offset"`  // First payload byte
	UTF8Valid      bool            `json:"utf8_valid"`
	UTF16Valid     bool            `json:"utf16_valid"`
	NullRatio      float64         `json:"null_ratio"`
	Confidence     float64         `json:"confidence"`
	Strings        []DecodedString `json:"strings,omitempty"`
}

// LengthPrefixedString is a hit from the 2-byte length-prefix scan: a short
// count followed by that many mostly-printable text units
type LengthPrefixedString struct {
	Offset         int          `json:"offset"`          // Offset of the 2-byte length
	Length         int          `json:"length"`          // Declared character count
	Encoding       TextEncoding `json:"encoding"`        // ascii or utf16le
	PrintableRatio float64      `json:"printable_ratio"` // Printable units / length
	Text           string       `json:"text"`
}

// RuleRecord is a logical unit of recovered rule data anchored by a
// bracket-delimited header string
type RuleRecord struct {
	Title        string       `json:"title"`
	StartOffset  int          `json:"start_offset"`
	EndOffset    int          `json:"end_offset"`
	Strings      []TextRegion `json:"strings,omitempty"` // Attached regions, in offset order
	Emails       []string     `json:"emails"`            // Normalized, sorted
	Keywords     []string     `json:"keywords"`          // First-seen order, deduplicated
	ExtraMatches []string     `json:"extra_matches,omitempty"` // Loose evidence tokens matched to this rule
}

// Segmentation is the output of the rule segmenter
type Segmentation struct {
	Preamble []TextRegion `json:"preamble,omitempty"` // Regions before the first header
	Records  []RuleRecord `json:"records"`
}

// EvidenceRecord is one externally derived record (typically OCR of a rules
// dialog screenshot) used to cross-check recovered rules. The core never
// inspects how it was produced.
type EvidenceRecord struct {
	Name            string   `json:"name"`
	Lines           []string `json:"lines,omitempty"`
	Emails          []string `json:"emails,omitempty"`
	FromEmails      []string `json:"from_emails,omitempty"`
	ToEmails        []string `json:"to_emails,omitempty"`
	Folders         []string `json:"folders,omitempty"`
	SubjectKeywords []string `json:"subject_keywords,omitempty"`
	StopProcessing  bool     `json:"stop_processing,omitempty"`
}

// EvidenceSet is the full auxiliary evidence input
type EvidenceSet struct {
	Source  string           `json:"source,omitempty"`
	Records []EvidenceRecord `json:"records"`
	Extra   []string         `json:"extra,omitempty"` // Loose tokens not tied to a record
}

// CorrelationMatch links a rule record to its best-scoring evidence record
type CorrelationMatch struct {
	RuleIndex     int `json:"rule_index"`     // Index into Segmentation.Records
	EvidenceIndex int `json:"evidence_index"` // Index into EvidenceSet.Records
	Score         int `json:"score"`          // Weighted overlap score, always > 0
}

// CorrelationResult is the output of the correlator
type CorrelationResult struct {
	Matches           []CorrelationMatch `json:"matches"`
	UnmatchedEvidence []int              `json:"unmatched_evidence,omitempty"` // Evidence indices never matched
	ExtraUnmatched    []string           `json:"extra_unmatched,omitempty"`    // Loose tokens matching no rule
}

// StageTiming records how long one pipeline stage took
type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
}

// AnalysisReport is the complete output of one pipeline run over one buffer.
// Every entity references the buffer by offset; the report never aliases it.
type AnalysisReport struct {
	RunID       string                 `json:"run_id"`
	File        string                 `json:"file,omitempty"`
	Size        int                    `json:"size"`
	CreatedAt   time.Time              `json:"created_at"`
	Regions     *RegionSet             `json:"regions"`
	Gaps        []Gap                  `json:"gaps"`
	Pointers    *PointerGraph          `json:"pointers"`
	SizeFields  []SizeFieldCandidate   `json:"size_fields"`
	LenPrefixed []LengthPrefixedString `json:"len_prefixed"`
	Rules       *Segmentation          `json:"rules"`
	Correlation *CorrelationResult     `json:"correlation,omitempty"`
	Timings     []StageTiming          `json:"timings"`
}

// RegionExtractor produces the text regions and gap intervals of a buffer
type RegionExtractor interface {
	// Extract scans the buffer and returns regions, merged coverage, and gaps
	Extract(data []byte) *RegionSet
}

// GapClassifier assigns a statistical profile and class to every gap interval
type GapClassifier interface {
	// Classify profiles each gap interval of the buffer. Classification is
	// total: every gap receives exactly one class.
	Classify(data []byte, gaps []Interval) []Gap
}

// PointerAnalyzer builds the pointer graph for a buffer
type PointerAnalyzer interface {
	// Analyze scans aligned words, scores candidates, and builds the graph
	// including chain and cycle detection
	Analyze(data []byte) *PointerGraph
}

// SizeFieldExtractor recovers length-prefixed strings
type SizeFieldExtractor interface {
	// Extract scans for dword size fields with plausible text payloads
	Extract(data []byte) []SizeFieldCandidate

	// ExtractLengthPrefixed scans for 2-byte length-prefixed printable runs
	ExtractLengthPrefixed(data []byte) []LengthPrefixedString
}

// RuleSegmenter groups text regions into header-anchored rule records
type RuleSegmenter interface {
	// Segment walks regions in offset order and builds rule records
	Segment(regions []TextRegion) *Segmentation
}

// RuleCorrelator cross-references rule records against external evidence
type RuleCorrelator interface {
	// Correlate assigns each rule its best-scoring evidence record. A nil or
	// empty evidence set yields a result with zero matches, never an error.
	Correlate(seg *Segmentation, evidence *EvidenceSet) *CorrelationResult
}
