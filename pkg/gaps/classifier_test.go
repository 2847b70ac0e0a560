/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: classifier_test.go
Description: Tests for the gap classifier. Covers entropy computation, class
assignment priority, repeating pattern detection, UTF-16 likeness, and GUID
extraction from gap bytes.
*/

package gaps_test

import (
	"testing"

	"github.com/kleascm/akaylee-ruleminer/pkg/gaps"
	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classify runs the classifier over a single interval covering the whole buffer.
func classify(t *testing.T, buf []byte) interfaces.Gap {
	t.Helper()
	c := gaps.NewClassifier(interfaces.DefaultConfig())
	out := c.Classify(buf, []interfaces.Interval{{Start: 0, End: len(buf)}})
	require.Len(t, out, 1)
	return out[0]
}

// TestClassifyPureNull verifies that an all-zero gap is classified pure_null.
func TestClassifyPureNull(t *testing.T) {
	g := classify(t, make([]byte, 128))

	assert.Equal(t, interfaces.GapPureNull, g.Class)
	assert.InDelta(t, 1.0, g.NullRatio, 1e-9)
	assert.InDelta(t, 0.0, g.Entropy, 1e-9)
	assert.Equal(t, 1, g.UniqueBytes)
}

// TestClassifySparse verifies that a mostly-zero gap with scattered payload
// bytes is classified sparse.
func TestClassifySparse(t *testing.T) {
	buf := make([]byte, 100)
	for i := 0; i < 20; i++ {
		buf[i*5] = byte(0x10 + i)
	}
	// 80 nulls out of 100: above sparse threshold, below pure-null threshold.
	g := classify(t, buf)

	assert.Equal(t, interfaces.GapSparse, g.Class)
	assert.InDelta(t, 0.8, g.NullRatio, 1e-9)
}

// TestClassifyStructured verifies that high-entropy data with few nulls is
// classified structured.
func TestClassifyStructured(t *testing.T) {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}
	g := classify(t, buf)

	assert.Equal(t, interfaces.GapStructured, g.Class)
	assert.InDelta(t, 8.0, g.Entropy, 1e-9)
	assert.Equal(t, 256, g.UniqueBytes)
}

// TestClassifyUnknown verifies that low-entropy non-null data falls through to
// the unknown class.
func TestClassifyUnknown(t *testing.T) {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = 0xAA
	}
	g := classify(t, buf)

	assert.Equal(t, interfaces.GapUnknown, g.Class)
	assert.InDelta(t, 0.0, g.Entropy, 1e-9)
	assert.InDelta(t, 0.0, g.NullRatio, 1e-9)
}

// TestShannonEntropy verifies the entropy formula on known distributions.
func TestShannonEntropy(t *testing.T) {
	uniform := make([]int, 256)
	uniform[0x00] = 8
	uniform[0xFF] = 8
	assert.InDelta(t, 1.0, gaps.ShannonEntropy(uniform, 16), 1e-9)

	single := make([]int, 256)
	single[0x41] = 32
	assert.InDelta(t, 0.0, gaps.ShannonEntropy(single, 32), 1e-9)

	assert.InDelta(t, 0.0, gaps.ShannonEntropy(make([]int, 256), 0), 1e-9)
}

// TestDetectRepeats verifies that a heavily repeated marker byte surfaces in
// the repeat patterns with an overlapping occurrence count.
func TestDetectRepeats(t *testing.T) {
	buf := make([]byte, 64)
	for i := 0; i < 8; i++ {
		buf[i*8] = 0xCD
	}
	g := classify(t, buf)

	require.NotEmpty(t, g.Repeats)
	var found *interfaces.RepeatPattern
	for i := range g.Repeats {
		if g.Repeats[i].Pattern == "cd" {
			found = &g.Repeats[i]
			break
		}
	}
	require.NotNil(t, found, "expected the 0xCD marker among repeat patterns")
	assert.Equal(t, 1, found.Length)
	assert.Equal(t, 8, found.Count)
}

// TestUTF16Likeness verifies that interleaved zero bytes score high and dense
// payload scores low.
func TestUTF16Likeness(t *testing.T) {
	utf16 := make([]byte, 32)
	for i := 0; i < 32; i += 2 {
		utf16[i] = 'A'
	}
	g := classify(t, utf16)
	assert.InDelta(t, 1.0, g.UTF16Likeness, 1e-9)

	dense := make([]byte, 32)
	for i := range dense {
		dense[i] = byte(0x20 + i)
	}
	g = classify(t, dense)
	assert.InDelta(t, 0.0, g.UTF16Likeness, 1e-9)
}

// TestClassifyGUID verifies that an embedded textual GUID is extracted.
func TestClassifyGUID(t *testing.T) {
	buf := make([]byte, 80)
	copy(buf[8:], "0006F03A-0000-0000-C000-000000000046")
	g := classify(t, buf)

	require.Len(t, g.GUIDs, 1)
	assert.Equal(t, "0006F03A-0000-0000-C000-000000000046", g.GUIDs[0])
}

// TestClassifyEmptyGap verifies that a zero-length interval still gets a class.
func TestClassifyEmptyGap(t *testing.T) {
	c := gaps.NewClassifier(interfaces.DefaultConfig())
	out := c.Classify([]byte{1, 2, 3}, []interfaces.Interval{{Start: 1, End: 1}})

	require.Len(t, out, 1)
	assert.Equal(t, interfaces.GapUnknown, out[0].Class)
}
