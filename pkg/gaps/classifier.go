/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: classifier.go
Description: Gap classifier for the Akaylee RuleMiner. Computes entropy, null ratio,
printable ratio, UTF-16-likeness, and repeating n-gram statistics for every byte range
left uncovered by the region extractor, and assigns each gap exactly one coarse class.
*/

package gaps

import (
	"encoding/hex"
	"math"
	"regexp"
	"sort"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
)

var guidPattern = regexp.MustCompile(`[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{12}`)

// Classifier implements interfaces.GapClassifier
type Classifier struct {
	config *interfaces.AnalyzerConfig
}

// NewClassifier creates a gap classifier with the given policy thresholds
func NewClassifier(config *interfaces.AnalyzerConfig) *Classifier {
	return &Classifier{config: config}
}

// Classify profiles every gap interval of the buffer. Classification is total:
// every gap, including an empty one, receives exactly one class.
func (c *Classifier) Classify(data []byte, intervals []interfaces.Interval) []interfaces.Gap {
	out := make([]interfaces.Gap, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, c.classifyOne(data[iv.Start:iv.End], iv))
	}
	return out
}

// classifyOne builds the full statistical profile of a single gap
func (c *Classifier) classifyOne(buf []byte, iv interfaces.Interval) interfaces.Gap {
	g := interfaces.Gap{
		Start:     iv.Start,
		End:       iv.End,
		Histogram: make([]int, 256),
	}

	for _, b := range buf {
		g.Histogram[b]++
	}
	for _, n := range g.Histogram {
		if n > 0 {
			g.UniqueBytes++
		}
	}

	g.Entropy = ShannonEntropy(g.Histogram, len(buf))
	g.NullRatio = ratioOf(g.Histogram[0], len(buf))
	g.PrintableRatio = printableRatio(g.Histogram, len(buf))
	g.UTF16Likeness = utf16Likeness(buf)
	g.Class = c.classOf(g.Entropy, g.NullRatio)

	g.Repeats = c.detectRepeats(buf)
	g.Magic = DetectMagic(buf)
	g.ZlibBytes = ProbeZlib(buf, c.config.ZlibProbeWindow, c.config.ZlibProbeMaxOut)
	for _, m := range guidPattern.FindAll(buf, 8) {
		g.GUIDs = append(g.GUIDs, string(m))
	}

	return g
}

// classOf maps (entropy, null ratio) to a class, in priority order
func (c *Classifier) classOf(entropy, nullRatio float64) interfaces.GapClass {
	switch {
	case nullRatio > c.config.PureNullThreshold:
		return interfaces.GapPureNull
	case nullRatio > c.config.SparseThreshold:
		return interfaces.GapSparse
	case entropy > c.config.StructuredEntropy:
		return interfaces.GapStructured
	default:
		return interfaces.GapUnknown
	}
}

// ShannonEntropy computes base-2 entropy from a 256-entry byte histogram.
// An empty gap has entropy 0.
func ShannonEntropy(histogram []int, total int) float64 {
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, count := range histogram {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func ratioOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func printableRatio(histogram []int, total int) float64 {
	if total == 0 {
		return 0
	}
	printable := 0
	for b := 0x20; b <= 0x7e; b++ {
		printable += histogram[b]
	}
	return float64(printable) / float64(total)
}

// utf16Likeness measures zero-byte interleave: the larger of the even-position
// and odd-position zero ratios. UTF-16 text of either byte order scores high.
func utf16Likeness(buf []byte) float64 {
	if len(buf) < 2 {
		return 0
	}
	evenZeros, oddZeros := 0, 0
	for i, b := range buf {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			evenZeros++
		} else {
			oddZeros++
		}
	}
	evenRatio := float64(evenZeros) / float64((len(buf)+1)/2)
	oddRatio := float64(oddZeros) / float64(len(buf)/2)
	return math.Max(evenRatio, oddRatio)
}

// detectRepeats finds byte n-grams of length 1..RepeatMaxLen occurring at least
// RepeatMinCount times, retained as supporting evidence for flag/condition
// field hypotheses in sparse gaps
func (c *Classifier) detectRepeats(buf []byte) []interfaces.RepeatPattern {
	var patterns []interfaces.RepeatPattern
	maxLen := c.config.RepeatMaxLen
	if maxLen > len(buf)/2 {
		maxLen = len(buf) / 2
	}
	for length := 1; length <= maxLen; length++ {
		counts := make(map[string]int)
		for i := 0; i+length <= len(buf); i++ {
			counts[string(buf[i:i+length])]++
		}
		for pattern, count := range counts {
			if count < c.config.RepeatMinCount {
				continue
			}
			patterns = append(patterns, interfaces.RepeatPattern{
				Pattern:  hex.EncodeToString([]byte(pattern)),
				Length:   length,
				Count:    count,
				Coverage: float64(count*length) / float64(len(buf)),
			})
		}
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Pattern < patterns[j].Pattern
	})
	if len(patterns) > c.config.RepeatKeep {
		patterns = patterns[:c.config.RepeatKeep]
	}
	return patterns
}
