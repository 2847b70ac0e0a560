/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extractor.go
Description: Text region extractor for the Akaylee RuleMiner. Scans a raw byte buffer
for maximal printable runs in ASCII, UTF-16LE, and UTF-16BE, merges the per-encoding
intervals into a disjoint coverage set, and derives the complementary gap intervals.
*/

package regions

import (
	"sort"

	"golang.org/x/text/encoding/unicode"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
)

// Extractor implements interfaces.RegionExtractor. It holds no state between
// calls; every Extract is a pure function of the buffer.
type Extractor struct {
	minChars int
}

// NewExtractor creates a region extractor with the configured minimum run length
func NewExtractor(config *interfaces.AnalyzerConfig) *Extractor {
	minChars := config.MinRunChars
	if minChars < 1 {
		minChars = 1
	}
	return &Extractor{minChars: minChars}
}

// isPrintable reports whether b is printable ASCII (0x20..0x7E)
func isPrintable(b byte) bool {
	return b >= 0x20 && b <= 0x7e
}

// Extract scans the buffer and returns all text regions, the merged coverage
// intervals, and the exact complementary gaps. A buffer shorter than the
// minimum run length yields no regions and a single gap spanning the buffer.
func (e *Extractor) Extract(data []byte) *interfaces.RegionSet {
	set := &interfaces.RegionSet{Size: len(data)}

	set.Regions = append(set.Regions, e.scanASCII(data)...)
	set.Regions = append(set.Regions, e.scanUTF16(data, interfaces.EncodingUTF16LE)...)
	set.Regions = append(set.Regions, e.scanUTF16(data, interfaces.EncodingUTF16BE)...)

	sort.SliceStable(set.Regions, func(i, j int) bool {
		a, b := set.Regions[i], set.Regions[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})

	intervals := make([]interfaces.Interval, 0, len(set.Regions))
	for _, r := range set.Regions {
		intervals = append(intervals, interfaces.Interval{Start: r.Start, End: r.End})
	}
	set.Coverage = MergeIntervals(intervals)
	set.Gaps = Complement(set.Coverage, len(data))
	return set
}

// scanASCII finds maximal printable ASCII runs of at least minChars bytes
func (e *Extractor) scanASCII(data []byte) []interfaces.TextRegion {
	var out []interfaces.TextRegion
	i := 0
	for i < len(data) {
		if !isPrintable(data[i]) {
			i++
			continue
		}
		j := i
		for j < len(data) && isPrintable(data[j]) {
			j++
		}
		if j-i >= e.minChars {
			out = append(out, interfaces.TextRegion{
				Start:    i,
				End:      j,
				Encoding: interfaces.EncodingASCII,
				Text:     string(data[i:j]),
			})
		}
		i = j
	}
	return out
}

// scanUTF16 finds maximal runs of (printable, 0x00) pairs for little-endian or
// (0x00, printable) pairs for big-endian, of at least minChars characters
func (e *Extractor) scanUTF16(data []byte, enc interfaces.TextEncoding) []interfaces.TextRegion {
	pairMatch := func(i int) bool {
		if enc == interfaces.EncodingUTF16LE {
			return isPrintable(data[i]) && data[i+1] == 0
		}
		return data[i] == 0 && isPrintable(data[i+1])
	}

	var out []interfaces.TextRegion
	i := 0
	for i+1 < len(data) {
		if !pairMatch(i) {
			i++
			continue
		}
		j := i
		for j+1 < len(data) && pairMatch(j) {
			j += 2
		}
		if (j-i)/2 >= e.minChars {
			out = append(out, interfaces.TextRegion{
				Start:    i,
				End:      j,
				Encoding: enc,
				Text:     DecodeUTF16(data[i:j], enc),
			})
		}
		i = j
	}
	return out
}

// DecodeUTF16 decodes a byte slice as UTF-16 in the given byte order.
// Decoding is best-effort: invalid sequences are replaced, never raised.
func DecodeUTF16(b []byte, enc interfaces.TextEncoding) string {
	order := unicode.LittleEndian
	if enc == interfaces.EncodingUTF16BE {
		order = unicode.BigEndian
	}
	decoder := unicode.UTF16(order, unicode.IgnoreBOM).NewDecoder()
	decoded, err := decoder.Bytes(b)
	if err != nil {
		// The x/text decoder substitutes replacement runes rather than
		// failing on ill-formed input; an error here means a truncated
		// final unit, which the substituted output still covers.
		return string(decoded)
	}
	return string(decoded)
}

// MergeIntervals sorts intervals and merges every pair that overlaps or
// touches, returning a disjoint sorted set
func MergeIntervals(intervals []interfaces.Interval) []interfaces.Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]interfaces.Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []interfaces.Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Complement returns the gaps of a disjoint sorted interval set within
// [0, size). The result partitions the buffer together with the input.
func Complement(coverage []interfaces.Interval, size int) []interfaces.Interval {
	var gaps []interfaces.Interval
	last := 0
	for _, iv := range coverage {
		if iv.Start > last {
			gaps = append(gaps, interfaces.Interval{Start: last, End: iv.Start})
		}
		if iv.End > last {
			last = iv.End
		}
	}
	if last < size {
		gaps = append(gaps, interfaces.Interval{Start: last, End: size})
	}
	return gaps
}
