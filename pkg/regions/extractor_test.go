/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: extractor_test.go
Description: Tests for the text region extractor. Verifies ASCII and UTF-16
run detection, the minimum run length filter, interval merging, and the
coverage/gap partition invariant over the whole buffer.
*/

package regions_test

import (
	"encoding/binary"
	"testing"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/regions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// utf16le encodes s as UTF-16LE bytes for test buffers.
func utf16le(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		var u [2]byte
		binary.LittleEndian.PutUint16(u[:], uint16(r))
		out = append(out, u[:]...)
	}
	return out
}

// utf16be encodes s as UTF-16BE bytes for test buffers.
func utf16be(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		var u [2]byte
		binary.BigEndian.PutUint16(u[:], uint16(r))
		out = append(out, u[:]...)
	}
	return out
}

// findRegion returns the first region whose decoded text equals want, or nil.
func findRegion(set *interfaces.RegionSet, enc interfaces.TextEncoding, want string) *interfaces.TextRegion {
	for i := range set.Regions {
		r := &set.Regions[i]
		if r.Encoding == enc && r.Text == want {
			return r
		}
	}
	return nil
}

// TestExtractASCIIRun verifies that a printable ASCII run surrounded by null
// padding is extracted with the correct byte offsets.
func TestExtractASCIIRun(t *testing.T) {
	buf := make([]byte, 64)
	copy(buf[16:], "HelloWorld")

	ex := regions.NewExtractor(interfaces.DefaultConfig())
	set := ex.Extract(buf)
	require.NotNil(t, set)

	r := findRegion(set, interfaces.EncodingASCII, "HelloWorld")
	require.NotNil(t, r, "expected an ASCII region for HelloWorld")
	assert.Equal(t, 16, r.Start)
	assert.Equal(t, 26, r.End)
}

// TestExtractMinRunFilter verifies that ASCII runs shorter than the configured
// minimum are discarded.
func TestExtractMinRunFilter(t *testing.T) {
	buf := make([]byte, 32)
	copy(buf[4:], "ab") // 2 chars, below the default minimum of 4

	ex := regions.NewExtractor(interfaces.DefaultConfig())
	set := ex.Extract(buf)

	assert.Empty(t, set.Regions)
	assert.Empty(t, set.Coverage)
}

// TestExtractUTF16LE verifies little-endian UTF-16 run detection and decoding.
func TestExtractUTF16LE(t *testing.T) {
	buf := make([]byte, 64)
	copy(buf[8:], utf16le("Rule One"))

	ex := regions.NewExtractor(interfaces.DefaultConfig())
	set := ex.Extract(buf)

	r := findRegion(set, interfaces.EncodingUTF16LE, "Rule One")
	require.NotNil(t, r, "expected a UTF-16LE region for Rule One")
	assert.Equal(t, 8, r.Start)
	assert.Equal(t, 24, r.End)
}

// TestExtractUTF16BE verifies big-endian UTF-16 run detection and decoding.
func TestExtractUTF16BE(t *testing.T) {
	buf := make([]byte, 64)
	copy(buf[10:], utf16be("Inbox"))

	ex := regions.NewExtractor(interfaces.DefaultConfig())
	set := ex.Extract(buf)

	r := findRegion(set, interfaces.EncodingUTF16BE, "Inbox")
	require.NotNil(t, r, "expected a UTF-16BE region for Inbox")
	assert.Equal(t, 10, r.Start)
	assert.Equal(t, 20, r.End)
}

// TestExtractAllZero verifies that an all-null buffer produces no regions and
// exactly one gap spanning the entire buffer.
func TestExtractAllZero(t *testing.T) {
	buf := make([]byte, 64)

	ex := regions.NewExtractor(interfaces.DefaultConfig())
	set := ex.Extract(buf)

	assert.Empty(t, set.Regions)
	assert.Empty(t, set.Coverage)
	require.Len(t, set.Gaps, 1)
	assert.Equal(t, 0, set.Gaps[0].Start)
	assert.Equal(t, 64, set.Gaps[0].End)
}

// TestExtractPartition verifies the core invariant: sorted coverage intervals
// and gaps are disjoint and together tile the whole buffer.
func TestExtractPartition(t *testing.T) {
	buf := make([]byte, 256)
	copy(buf[16:], "RULES EXPORT")
	copy(buf[48:], utf16le("Project Alpha"))
	copy(buf[120:], "alice@example.com")

	ex := regions.NewExtractor(interfaces.DefaultConfig())
	set := ex.Extract(buf)
	require.NotEmpty(t, set.Coverage)
	require.NotEmpty(t, set.Gaps)

	type span struct {
		start, end int
	}
	var spans []span
	for _, iv := range set.Coverage {
		spans = append(spans, span{iv.Start, iv.End})
	}
	for _, iv := range set.Gaps {
		spans = append(spans, span{iv.Start, iv.End})
	}
	// Merge-sort by start and walk the tiling.
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if spans[j].start < spans[i].start {
				spans[i], spans[j] = spans[j], spans[i]
			}
		}
	}
	pos := 0
	for _, s := range spans {
		assert.Equal(t, pos, s.start, "spans must tile the buffer without overlap or holes")
		assert.Greater(t, s.end, s.start)
		pos = s.end
	}
	assert.Equal(t, set.Size, pos)
}

// TestMergeIntervals verifies merging of overlapping and adjacent intervals.
func TestMergeIntervals(t *testing.T) {
	merged := regions.MergeIntervals([]interfaces.Interval{
		{Start: 10, End: 20},
		{Start: 0, End: 5},
		{Start: 18, End: 30},
		{Start: 30, End: 35},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, interfaces.Interval{Start: 0, End: 5}, merged[0])
	assert.Equal(t, interfaces.Interval{Start: 10, End: 35}, merged[1])
}

// TestComplement verifies gap computation against a covered interval list.
func TestComplement(t *testing.T) {
	gaps := regions.Complement([]interfaces.Interval{
		{Start: 4, End: 8},
		{Start: 12, End: 16},
	}, 20)

	require.Len(t, gaps, 3)
	assert.Equal(t, interfaces.Interval{Start: 0, End: 4}, gaps[0])
	assert.Equal(t, interfaces.Interval{Start: 8, End: 12}, gaps[1])
	assert.Equal(t, interfaces.Interval{Start: 16, End: 20}, gaps[2])
}

// TestComplementFullCoverage verifies that full coverage yields no gaps.
func TestComplementFullCoverage(t *testing.T) {
	gaps := regions.Complement([]interfaces.Interval{{Start: 0, End: 16}}, 16)
	assert.Empty(t, gaps)
}

// TestDecodeUTF16 verifies both byte orders decode to the same text.
func TestDecodeUTF16(t *testing.T) {
	le := regions.DecodeUTF16(utf16le("折り返し"), interfaces.EncodingUTF16LE)
	assert.Equal(t, "折り返し", le)

	be := regions.DecodeUTF16(utf16be("折り返し"), interfaces.EncodingUTF16BE)
	assert.Equal(t, "折り返し", be)
}
