/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: graph_test.go
Description: Tests for the pointer graph builder. Covers candidate scanning,
signal scoring, linear chain and cycle detection, the walk depth bound,
cluster detection, spacing statistics, and target classification.
*/

package pointers_test

import (
	"encoding/binary"
	"testing"

	"github.com/kleascm/akaylee-ruleminer/pkg/interfaces"
	"github.com/kleascm/akaylee-ruleminer/pkg/pointers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillBuf returns a buffer of 0xFF bytes; every aligned word reads as an
// out-of-bounds value, so only explicitly planted words become candidates.
func fillBuf(size int) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0xFF
	}
	return buf
}

// putWord plants a little-endian dword at offset.
func putWord(buf []byte, offset int, value uint32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], value)
}

// findCandidate returns the candidate scanned at the given source offset.
func findCandidate(g *interfaces.PointerGraph, offset int) *interfaces.PointerCandidate {
	for i := range g.Candidates {
		if g.Candidates[i].SourceOffset == offset {
			return &g.Candidates[i]
		}
	}
	return nil
}

// TestScanInBoundsOnly verifies that only words with in-bounds values become
// candidates and that the node map mirrors them.
func TestScanInBoundsOnly(t *testing.T) {
	buf := fillBuf(64)
	putWord(buf, 0, 32)
	putWord(buf, 8, 64) // equal to len: out of bounds

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	require.Len(t, g.Candidates, 1)
	assert.Equal(t, 0, g.Candidates[0].SourceOffset)
	assert.Equal(t, 32, g.Candidates[0].TargetOffset)
	assert.Equal(t, 1, g.NodeCount)
	assert.Equal(t, 1, g.EdgeCount)
}

// TestScore verifies the signal weighting policy and the confidence cap.
func TestScore(t *testing.T) {
	w := interfaces.DefaultConfig().Weights

	assert.InDelta(t, 0.0, pointers.Score(interfaces.PointerSignals{}, w), 1e-9)
	assert.InDelta(t, 0.2, pointers.Score(interfaces.PointerSignals{TargetAligned: true}, w), 1e-9)
	assert.InDelta(t, 0.5, pointers.Score(interfaces.PointerSignals{
		TargetAligned:   true,
		TargetPrintable: true,
	}, w), 1e-9)
	assert.InDelta(t, 1.0, pointers.Score(interfaces.PointerSignals{
		TargetAligned:   true,
		TargetPrintable: true,
		SizeFieldBefore: true,
		AdjacentRun:     true,
	}, w), 1e-9)

	heavy := interfaces.PointerWeights{TargetAligned: 0.9, TargetPrintable: 0.9}
	assert.InDelta(t, 1.0, pointers.Score(interfaces.PointerSignals{
		TargetAligned:   true,
		TargetPrintable: true,
	}, heavy), 1e-9, "confidence must cap at 1.0")
}

// TestSizeFieldBeforeSignal verifies the preceding-size-hint signal.
func TestSizeFieldBeforeSignal(t *testing.T) {
	buf := fillBuf(64)
	putWord(buf, 0, 5000) // plausible size, not an in-bounds offset
	putWord(buf, 4, 16)

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	c := findCandidate(g, 4)
	require.NotNil(t, c)
	assert.True(t, c.Signals.SizeFieldBefore)
	assert.True(t, c.Signals.TargetAligned)
	assert.False(t, c.Signals.TargetPrintable)
	assert.InDelta(t, 0.4, c.Confidence, 1e-9)
}

// TestLinearChain verifies that a hop sequence ending at a non-candidate
// offset is recorded as a linear chain with its final target.
func TestLinearChain(t *testing.T) {
	buf := fillBuf(64)
	putWord(buf, 0, 8)
	putWord(buf, 8, 16)
	putWord(buf, 16, 24)

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	require.Len(t, g.Chains, 1)
	chain := g.Chains[0]
	assert.Equal(t, interfaces.ChainLinear, chain.Kind)
	assert.Equal(t, []int{0, 8, 16}, chain.Offsets)
	assert.Equal(t, 3, chain.Depth)
	assert.Equal(t, 24, chain.FinalTarget)
}

// TestCycleDetection verifies that a two-node loop is reported as a cycle and
// that the walk terminates.
func TestCycleDetection(t *testing.T) {
	buf := fillBuf(64)
	putWord(buf, 0, 8)
	putWord(buf, 8, 0)

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	require.Len(t, g.Chains, 1)
	chain := g.Chains[0]
	assert.Equal(t, interfaces.ChainCycle, chain.Kind)
	assert.Equal(t, []int{0, 8}, chain.Offsets)
}

// TestSelfLoop verifies that a word pointing at its own offset terminates as
// a length-one cycle rather than looping.
func TestSelfLoop(t *testing.T) {
	buf := fillBuf(64)
	putWord(buf, 8, 8)

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	require.Len(t, g.Chains, 1)
	chain := g.Chains[0]
	assert.Equal(t, interfaces.ChainCycle, chain.Kind)
	assert.Equal(t, []int{8}, chain.Offsets)
}

// TestChainDepthBound verifies that a long hop sequence is truncated at the
// configured depth and the remainder walked separately.
func TestChainDepthBound(t *testing.T) {
	buf := fillBuf(128)
	for offset := 0; offset <= 56; offset += 4 {
		putWord(buf, offset, uint32(offset+4))
	}
	// Word at 60 stays 0xFFFFFFFF, terminating the second walk.

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	require.Len(t, g.Chains, 2)
	first := g.Chains[0]
	assert.Equal(t, interfaces.ChainLinear, first.Kind)
	assert.Equal(t, 10, first.Depth)
	assert.Len(t, first.Offsets, 11)
	assert.Equal(t, 44, first.FinalTarget)

	second := g.Chains[1]
	assert.Equal(t, interfaces.ChainLinear, second.Kind)
	assert.Equal(t, []int{44, 48, 52, 56}, second.Offsets)
	assert.Equal(t, 60, second.FinalTarget)
}

// TestClusterDetection verifies that densely spaced candidates group into one
// cluster and sparse ones do not.
func TestClusterDetection(t *testing.T) {
	buf := fillBuf(512)
	for _, offset := range []int{0, 4, 8, 12} {
		putWord(buf, offset, 16)
	}
	putWord(buf, 400, 16) // isolated, beyond the cluster window

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	require.Len(t, g.Clusters, 1)
	cluster := g.Clusters[0]
	assert.Equal(t, 0, cluster.Start)
	assert.Equal(t, 12, cluster.End)
	assert.Equal(t, 4, cluster.Count)
}

// TestSpacingStats verifies min/max/avg/mode over candidate spacings.
func TestSpacingStats(t *testing.T) {
	buf := fillBuf(64)
	for _, offset := range []int{0, 4, 8, 16} {
		putWord(buf, offset, 32)
	}

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	require.NotNil(t, g.Spacing)
	assert.Equal(t, 4, g.Spacing.Min)
	assert.Equal(t, 8, g.Spacing.Max)
	assert.InDelta(t, 16.0/3.0, g.Spacing.Avg, 1e-9)
	assert.Equal(t, 4, g.Spacing.Mode)
}

// TestSpacingStatsTooFew verifies that fewer than two candidates yield no
// spacing summary.
func TestSpacingStatsTooFew(t *testing.T) {
	buf := fillBuf(64)
	putWord(buf, 0, 32)

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)
	assert.Nil(t, g.Spacing)
}

// TestTargetClassification verifies the per-target window buckets. The zero
// padding behind the data target scans as additional null pointers, which the
// expected counts include.
func TestTargetClassification(t *testing.T) {
	buf := fillBuf(128)
	putWord(buf, 0, 32)
	copy(buf[32:48], "Subject: Invoice")
	putWord(buf, 4, 0)
	putWord(buf, 8, 64)
	copy(buf[64:80], make([]byte, 16))
	putWord(buf, 12, 120) // window would run past the buffer

	a := pointers.NewAnalyzer(interfaces.DefaultConfig())
	g := a.Analyze(buf)

	assert.Equal(t, 5, g.Classification.Null)
	assert.Equal(t, 1, g.Classification.String)
	assert.Equal(t, 1, g.Classification.Data)
	assert.Equal(t, 1, g.Classification.Unknown)
}
